package readerly

// Article is the result of a successful extraction.
// Every string field is optional; an empty value means the information
// could not be determined from the document.
type Article struct {
	// Title is the document title chosen from structured data, social
	// metadata, the <title> element or the first heading.
	Title string `json:"title,omitempty"`

	// Content is the serialized HTML of the cleaned article subtree.
	Content string `json:"content,omitempty"`

	// TextContent is the whitespace-normalized plain text of Content.
	TextContent string `json:"textContent,omitempty"`

	// Length is the number of characters in TextContent.
	Length int `json:"length,omitempty"`

	Excerpt       string `json:"excerpt,omitempty"`
	Byline        string `json:"byline,omitempty"`
	Dir           string `json:"dir,omitempty"`
	SiteName      string `json:"siteName,omitempty"`
	Lang          string `json:"lang,omitempty"`
	PublishedTime string `json:"publishedTime,omitempty"`
}

// Metadata holds document-level information gathered independently of
// the extracted content subtree.
type Metadata struct {
	Title         string `json:"title,omitempty"`
	Byline        string `json:"byline,omitempty"`
	Excerpt       string `json:"excerpt,omitempty"`
	SiteName      string `json:"siteName,omitempty"`
	PublishedTime string `json:"publishedTime,omitempty"`
	Lang          string `json:"lang,omitempty"`
	Dir           string `json:"dir,omitempty"`
}
