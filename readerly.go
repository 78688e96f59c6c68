// Package readerly extracts the primary readable content of a web page
// from its HTML: title, byline, body, excerpt and related metadata.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, trafilatura/, htmltomarkdown/).
// The extraction engine itself lives in readability/.
package readerly
