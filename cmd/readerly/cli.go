package main

import (
	"context"
	"io"
	"regexp"

	"github.com/fwojciec/readerly"
	"github.com/fwojciec/readerly/batch"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdin     io.Reader
	Stdout    io.Writer
	Stderr    io.Writer
	Extractor readerly.Extractor
	Checker   readerly.ReaderableChecker
	Fetcher   readerly.Fetcher
	Converter readerly.Converter
	Records   readerly.RecordService
	Engines   []batch.Engine
	Processor *batch.Processor
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	ExtractionFlags `embed:""`

	DB string `name:"db" help:"Archive database path (default $READERLY_DB or ~/.readerly/readerly.db)"`

	Extract ExtractCmd `cmd:"" help:"Extract the article from a file, URL or stdin"`
	Check   CheckCmd   `cmd:"" help:"Predict whether a document holds a readable article"`
	Compare CompareCmd `cmd:"" help:"Compare readability with other extraction engines"`
	Batch   BatchCmd   `cmd:"" help:"Extract articles from many sources in parallel"`
	List    ListCmd    `cmd:"" help:"List archived articles"`
	Show    ShowCmd    `cmd:"" help:"Show an archived article"`
	Delete  DeleteCmd  `cmd:"" help:"Delete an archived article"`
}

// ExtractionFlags are the global flags mapped onto readerly.Options.
type ExtractionFlags struct {
	Debug               bool     `help:"Log each extraction phase to stderr"`
	CharThreshold       int      `name:"char-threshold" default:"500" help:"Minimum article text length"`
	TopCandidates       int      `name:"top-candidates" default:"5" help:"Number of top candidates compared"`
	MaxElems            int      `name:"max-elems" default:"0" help:"Reject documents with more elements (0 disables)"`
	KeepClasses         bool     `name:"keep-classes" help:"Keep class attributes in the output"`
	PreserveClass       []string `name:"preserve-class" help:"Class names kept when classes are stripped (repeatable, default page)"`
	NoJSONLD            bool     `name:"no-json-ld" help:"Ignore JSON-LD metadata"`
	AllowedVideo        string   `name:"allowed-video" help:"Regex of embed sources kept in the output"`
	LinkDensityModifier float64  `name:"link-density-modifier" default:"0" help:"Shift applied to link density thresholds"`
	MinContentLength    int      `name:"min-content-length" default:"140" help:"Minimum node text length counted by check"`
}

// Options returns the extraction options described by the flags.
func (f *ExtractionFlags) Options() (readerly.Options, error) {
	opts := readerly.DefaultOptions()
	opts.Debug = f.Debug
	opts.CharThreshold = f.CharThreshold
	opts.NbTopCandidates = f.TopCandidates
	opts.MaxElemsToParse = f.MaxElems
	opts.KeepClasses = f.KeepClasses
	if len(f.PreserveClass) > 0 {
		opts.ClassesToPreserve = f.PreserveClass
	}
	opts.DisableJSONLD = f.NoJSONLD
	opts.LinkDensityModifier = f.LinkDensityModifier
	opts.MinContentLength = f.MinContentLength

	if f.AllowedVideo != "" {
		re, err := regexp.Compile(f.AllowedVideo)
		if err != nil {
			return readerly.Options{}, readerly.Errorf(readerly.EINVALID, "invalid allowed video pattern %q: %v", f.AllowedVideo, err)
		}
		opts.AllowedVideoRegex = re
	}

	if err := opts.Validate(); err != nil {
		return readerly.Options{}, err
	}
	return opts, nil
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	Source  string `arg:"" help:"File path, http(s) URL, or - for stdin"`
	Format  string `short:"f" enum:"html,text,markdown,json" default:"html" help:"Output format (html, text, markdown, json)"`
	BaseURL string `name:"base-url" help:"Base URL for resolving relative links"`
	Save    bool   `short:"s" help:"Archive the article in the database"`
}

// CheckCmd is the "check" subcommand.
type CheckCmd struct {
	Source string `arg:"" help:"File path, http(s) URL, or - for stdin"`
}

// CompareCmd is the "compare" subcommand.
type CompareCmd struct {
	Source  string `arg:"" help:"File path, http(s) URL, or - for stdin"`
	BaseURL string `name:"base-url" help:"Base URL for resolving relative links"`
}

// BatchCmd is the "batch" subcommand.
type BatchCmd struct {
	Sources     []string `arg:"" help:"File paths or http(s) URLs"`
	Concurrency int      `short:"c" default:"4" help:"Concurrent extraction limit"`
	Rate        float64  `default:"1" help:"Requests per second per domain (0 disables)"`
	Check       bool     `help:"Skip sources that fail the readerable check"`
	Save        bool     `short:"s" help:"Archive extracted articles in the database"`
	Out         string   `short:"o" type:"path" help:"Write each article as Markdown under this directory"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	Source string `help:"Only list articles extracted from this source"`
	Limit  int    `short:"n" default:"20" help:"Maximum number of articles"`
	Offset int    `help:"Number of articles to skip"`
}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	ID     string `arg:"" help:"Article ID"`
	Format string `short:"f" enum:"html,text,markdown,json" default:"markdown" help:"Output format (html, text, markdown, json)"`
}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	ID    string `arg:"" help:"Article ID"`
	Force bool   `help:"Confirm deletion"`
}
