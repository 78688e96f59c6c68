package readerly

import "regexp"

// Default extraction settings.
const (
	DefaultNbTopCandidates  = 5
	DefaultCharThreshold    = 500
	DefaultMinContentLength = 140
)

// Options configures a single extraction.
type Options struct {
	// Debug enables debug logging of each extraction phase.
	Debug bool

	// MaxElemsToParse caps the number of elements in a document.
	// Zero means no limit.
	MaxElemsToParse int

	// NbTopCandidates is the number of top scoring candidates kept.
	NbTopCandidates int

	// CharThreshold is the minimum text length of an article.
	CharThreshold int

	// ClassesToPreserve lists class names kept when KeepClasses is false.
	ClassesToPreserve []string

	// KeepClasses keeps every class attribute in the output.
	KeepClasses bool

	// DisableJSONLD skips structured data when gathering metadata.
	DisableJSONLD bool

	// AllowedVideoRegex overrides the pattern of embed sources kept in
	// the output. Nil uses the built-in video host list.
	AllowedVideoRegex *regexp.Regexp

	// LinkDensityModifier shifts the link density thresholds used when
	// selecting siblings and removing link-heavy nodes.
	LinkDensityModifier float64

	// MinContentLength is the minimum text length of a node that counts
	// toward the readerable check.
	MinContentLength int
}

// DefaultOptions returns the default extraction options.
func DefaultOptions() Options {
	return Options{
		NbTopCandidates:   DefaultNbTopCandidates,
		CharThreshold:     DefaultCharThreshold,
		ClassesToPreserve: []string{"page"},
		MinContentLength:  DefaultMinContentLength,
	}
}

// Validate returns an error if the options contain invalid values.
func (o *Options) Validate() error {
	if o.MaxElemsToParse < 0 {
		return Errorf(EINVALID, "max elements to parse must not be negative")
	}
	if o.NbTopCandidates < 1 {
		return Errorf(EINVALID, "number of top candidates must be at least 1")
	}
	if o.CharThreshold < 0 {
		return Errorf(EINVALID, "char threshold must not be negative")
	}
	if o.MinContentLength < 0 {
		return Errorf(EINVALID, "min content length must not be negative")
	}
	return nil
}
