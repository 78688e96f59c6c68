// Package batch extracts articles from many sources in parallel. Sources
// are local files or http(s) URLs; results come back in input order.
package batch

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/fwojciec/readerly"
	"github.com/fwojciec/readerly/bloom"
	"golang.org/x/sync/errgroup"
)

// Defaults for a Processor.
const (
	DefaultConcurrency = 4

	expectedSources   = 10000
	falsePositiveRate = 0.001
)

// Processor runs extraction over a list of sources.
type Processor struct {
	Fetcher     readerly.Fetcher
	Extractor   readerly.Extractor
	Checker     readerly.ReaderableChecker
	Records     readerly.RecordService
	Writer      readerly.ArticleWriter
	RateLimiter readerly.DomainLimiter
	Concurrency int
	RetryDelays []time.Duration

	// ExpectedSources sizes the repeated-source filter. Defaults to the
	// larger of the batch size and 10000.
	ExpectedSources uint

	// ReadFile loads local sources. Defaults to os.ReadFile.
	ReadFile func(name string) ([]byte, error)
}

// Status is the outcome of one source.
type Status int

const (
	StatusExtracted Status = iota
	StatusNotReaderable
	StatusFailed
	StatusSkipped
)

func (s Status) String() string {
	switch s {
	case StatusExtracted:
		return "extracted"
	case StatusNotReaderable:
		return "not readerable"
	case StatusFailed:
		return "failed"
	case StatusSkipped:
		return "skipped"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Item is the outcome of one source.
type Item struct {
	Source  string
	Status  Status
	Article *readerly.Article
	Hash    string
	Bytes   int

	// Duplicate is set when an earlier source produced the same text.
	Duplicate bool

	// RecordID is the archive ID when the article was stored.
	RecordID string

	Err error
}

// Result holds the outcome of a batch.
type Result struct {
	Items         []Item
	Extracted     int
	NotReaderable int
	Failed        int
	Skipped       int
	Duplicates    int
}

// ProgressEvent reports progress during a batch.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	Source    string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting batch progress.
type ProgressFunc func(event ProgressEvent)

// Process extracts every source and, when Records or Writer is set,
// stores the first article of each distinct text. Repeated sources are
// skipped.
func (p *Processor) Process(ctx context.Context, sources []string, progress ProgressFunc) (*Result, error) {
	if p.Extractor == nil {
		return nil, readerly.Errorf(readerly.EINVALID, "batch requires an extractor")
	}

	items := make([]Item, len(sources))
	expected := p.ExpectedSources
	if expected == 0 {
		expected = max(uint(len(sources)), expectedSources)
	}
	seen := bloom.NewFilter(expected, falsePositiveRate)
	// Filter hits are confirmed against the exact set of keys.
	exact := make(map[string]bool, len(sources))
	var work []int
	for i, src := range sources {
		items[i].Source = src
		key := bloom.NormalizeSource(src)
		if seen.Seen(src) && exact[key] {
			items[i].Status = StatusSkipped
			continue
		}
		exact[key] = true
		work = append(work, i)
	}

	concurrency := p.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	total := len(work)
	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, Total: total})
	}

	resultCh := make(chan sourceResult, total)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for _, i := range work {
			g.Go(func() error {
				resultCh <- sourceResult{position: i, item: p.processSource(gctx, sources[i])}
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	completed := 0
	for r := range resultCh {
		item := r.item
		items[r.position] = item
		completed++
		if progress == nil {
			continue
		}
		if item.Err != nil {
			progress(ProgressEvent{Type: ProgressFailed, Completed: completed, Total: total, Source: item.Source, Error: item.Err})
		} else {
			progress(ProgressEvent{Type: ProgressCompleted, Completed: completed, Total: total, Source: item.Source})
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &Result{Items: items}
	hashes := make(map[string]bool)
	for i := range items {
		item := &items[i]
		switch item.Status {
		case StatusSkipped:
			res.Skipped++
			continue
		case StatusNotReaderable:
			res.NotReaderable++
			continue
		case StatusFailed:
			res.Failed++
			continue
		}

		res.Extracted++
		if hashes[item.Hash] {
			item.Duplicate = true
			res.Duplicates++
			continue
		}
		hashes[item.Hash] = true

		if p.Records == nil && p.Writer == nil {
			continue
		}
		rec := &readerly.Record{
			SourceURL: item.Source,
			Article:   *item.Article,
		}
		if err := p.store(ctx, rec); err != nil {
			item.Status = StatusFailed
			item.Err = err
			res.Extracted--
			res.Failed++
			continue
		}
		item.RecordID = rec.ID
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})
	}
	return res, nil
}

// store archives rec and exports it when a writer is configured.
func (p *Processor) store(ctx context.Context, rec *readerly.Record) error {
	if p.Records != nil {
		if err := p.Records.CreateRecord(ctx, rec); err != nil {
			return fmt.Errorf("archive %s: %w", rec.SourceURL, err)
		}
	}
	if p.Writer != nil {
		if err := p.Writer.WriteArticle(ctx, rec); err != nil {
			return fmt.Errorf("write %s: %w", rec.SourceURL, err)
		}
	}
	return nil
}

// sourceResult carries an item back to its input position.
type sourceResult struct {
	position int
	item     Item
}

// processSource loads, checks and extracts a single source.
func (p *Processor) processSource(ctx context.Context, source string) Item {
	item := Item{Source: source}

	raw, baseURI, err := p.load(ctx, source)
	if err != nil {
		item.Status = StatusFailed
		item.Err = err
		return item
	}
	item.Bytes = len(raw)

	if p.Checker != nil {
		ok, err := p.Checker.IsProbablyReaderable(bytes.NewReader(raw))
		if err != nil {
			item.Status = StatusFailed
			item.Err = err
			return item
		}
		if !ok {
			item.Status = StatusNotReaderable
			return item
		}
	}

	article, err := p.Extractor.Extract(bytes.NewReader(raw), baseURI)
	if err != nil {
		item.Status = StatusFailed
		item.Err = err
		return item
	}
	if article == nil {
		item.Status = StatusNotReaderable
		return item
	}

	item.Status = StatusExtracted
	item.Article = article
	item.Hash = ComputeHash(article.TextContent)
	return item
}

// load returns the document bytes of source and the base URI to resolve
// its links against.
func (p *Processor) load(ctx context.Context, source string) ([]byte, string, error) {
	if u, ok := remoteURL(source); ok {
		if p.Fetcher == nil {
			return nil, "", readerly.Errorf(readerly.EINVALID, "no fetcher configured for %s", source)
		}
		if p.RateLimiter != nil {
			if err := p.RateLimiter.Wait(ctx, u.Host); err != nil {
				return nil, "", err
			}
		}
		delays := p.RetryDelays
		if delays == nil {
			delays = DefaultRetryDelays()
		}
		html, err := FetchWithRetryDelays(ctx, source, p.Fetcher.Fetch, nil, delays)
		if err != nil {
			return nil, "", err
		}
		return []byte(html), source, nil
	}

	readFile := p.ReadFile
	if readFile == nil {
		readFile = os.ReadFile
	}
	raw, err := readFile(source)
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", source, err)
	}
	return raw, "", nil
}

// remoteURL reports whether source is an http(s) URL.
func remoteURL(source string) (*url.URL, bool) {
	u, err := url.Parse(source)
	if err != nil || u.Host == "" {
		return nil, false
	}
	return u, u.Scheme == "http" || u.Scheme == "https"
}
