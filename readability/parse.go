package readability

import (
	"bytes"
	"io"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/readerly"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

var utf8BOM = []byte("\xef\xbb\xbf")

// ParseDocument reads an HTML document, decoding it from the charset
// announced by its byte order mark or meta tags, or sniffed from its
// content. Documents that claim UTF-8 but contain invalid sequences are
// rejected with EENCODING.
func ParseDocument(r io.Reader) (*html.Node, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, readerly.Errorf(readerly.EINVALID, "empty HTML input")
	}

	enc, name, _ := charset.DetermineEncoding(raw, "")
	if name == "utf-8" && !utf8.Valid(raw) {
		return nil, readerly.Errorf(readerly.EENCODING, "document is not valid UTF-8")
	}
	decoded, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return nil, readerly.Errorf(readerly.EENCODING, "cannot decode %s document: %v", name, err)
	}
	decoded = bytes.TrimPrefix(decoded, utf8BOM)

	doc, err := html.Parse(bytes.NewReader(decoded))
	if err != nil {
		return nil, readerly.Errorf(readerly.EINVALID, "cannot parse HTML: %v", err)
	}
	return doc, nil
}

// parseBaseURI validates the caller supplied base URI. An empty string
// means no base.
func parseBaseURI(baseURI string) (*url.URL, error) {
	if baseURI == "" {
		return nil, nil
	}
	u, err := url.Parse(strings.TrimSpace(baseURI))
	if err != nil || !u.IsAbs() || u.Host == "" {
		return nil, readerly.Errorf(readerly.EINVALID, "invalid base URI %q", baseURI)
	}
	return u, nil
}

// documentBase applies the document's <base href> on top of base.
func documentBase(doc *html.Node, base *url.URL) *url.URL {
	el := findFirst(doc, "base")
	if el == nil {
		return base
	}
	href := strings.TrimSpace(attr(el, "href"))
	if href == "" {
		return base
	}
	ref, err := url.Parse(href)
	if err != nil {
		return base
	}
	if base != nil {
		return base.ResolveReference(ref)
	}
	if ref.IsAbs() {
		return ref
	}
	return nil
}
