package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fwojciec/readerly"
)

// loadSource reads the document named by source: "-" reads stdin, an
// http(s) URL is fetched and anything else is a file path. It returns the
// document and the base URI used to resolve its links; baseURL overrides
// the URL of a fetched source.
func loadSource(deps *Dependencies, source, baseURL string) ([]byte, string, error) {
	switch {
	case source == "-":
		data, err := io.ReadAll(deps.Stdin)
		if err != nil {
			return nil, "", fmt.Errorf("read stdin: %w", err)
		}
		return data, baseURL, nil

	case isRemote(source):
		html, err := deps.Fetcher.Fetch(deps.Ctx, source)
		if err != nil {
			return nil, "", err
		}
		if baseURL == "" {
			baseURL = source
		}
		return []byte(html), baseURL, nil
	}

	data, err := os.ReadFile(source)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", readerly.Errorf(readerly.ENOTFOUND, "file %q not found", source)
		}
		return nil, "", fmt.Errorf("read %s: %w", source, err)
	}
	return data, baseURL, nil
}

func isRemote(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
