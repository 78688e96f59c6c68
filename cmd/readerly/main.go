package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/readerly"
	"github.com/fwojciec/readerly/batch"
	"github.com/fwojciec/readerly/fs"
	"github.com/fwojciec/readerly/htmltomarkdown"
	readerlyhttp "github.com/fwojciec/readerly/http"
	"github.com/fwojciec/readerly/readability"
	"github.com/fwojciec/readerly/shiori"
	rslog "github.com/fwojciec/readerly/slog"
	"github.com/fwojciec/readerly/sqlite"
	"github.com/fwojciec/readerly/trafilatura"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run(); --db overrides it.
	DBPath string

	// Stdin is read when a source is "-".
	Stdin io.Reader

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	RecordService readerly.RecordService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
		Stdin:  os.Stdin,
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdin:  m.Stdin,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("readerly"),
		kong.Description("Extract the readable article from HTML documents."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'readerly --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	opts, err := cli.Options()
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", readerly.ErrorMessage(err))
		return err
	}

	level := slog.LevelInfo
	if cli.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	p, err := readability.NewParser(opts, readability.WithLogger(logger))
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", readerly.ErrorMessage(err))
		return err
	}

	fetcher := rslog.NewLoggingFetcher(readerlyhttp.NewFetcher(), logger)
	defer fetcher.Close()

	deps.Extractor = rslog.NewLoggingExtractor(p, "readability", logger)
	deps.Checker = rslog.NewLoggingReaderableChecker(p, logger)
	deps.Fetcher = fetcher
	deps.Converter = htmltomarkdown.NewConverter()

	if needsDB(cmd, cli) {
		dbPath := m.DBPath
		if cli.DB != "" {
			dbPath = cli.DB
		}
		m.DB = sqlite.NewDB(dbPath)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set READERLY_DB or --db to use a different database path\n")
			return fmt.Errorf("failed to open database at %q: %w", dbPath, err)
		}
		defer m.Close()

		m.RecordService = sqlite.NewRecordService(m.DB)
		deps.Records = rslog.NewLoggingRecordService(m.RecordService, logger)
	}

	if cmd == "compare" {
		deps.Engines = []batch.Engine{
			{Name: "readability", Extractor: deps.Extractor},
			{Name: "go-readability", Extractor: rslog.NewLoggingExtractor(shiori.NewExtractor(), "go-readability", logger)},
			{Name: "trafilatura", Extractor: rslog.NewLoggingExtractor(trafilatura.NewExtractor(), "trafilatura", logger)},
		}
	}

	if cmd == "batch" {
		deps.Processor = &batch.Processor{
			Fetcher:     deps.Fetcher,
			Extractor:   deps.Extractor,
			RateLimiter: batch.NewDomainLimiter(cli.Batch.Rate),
			Concurrency: cli.Batch.Concurrency,
		}
		if cli.Batch.Check {
			deps.Processor.Checker = deps.Checker
		}
		if cli.Batch.Save {
			deps.Processor.Records = deps.Records
		}
		if cli.Batch.Out != "" {
			deps.Processor.Writer = fs.NewWriter(cli.Batch.Out, deps.Converter)
		}
	}

	return kongCtx.Run(deps)
}

// needsDB reports whether cmd reads or writes the archive.
func needsDB(cmd string, cli *CLI) bool {
	switch cmd {
	case "list", "show", "delete":
		return true
	case "extract":
		return cli.Extract.Save
	case "batch":
		return cli.Batch.Save
	}
	return false
}

func defaultDBPath() string {
	if path := os.Getenv("READERLY_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "readerly.db"
	}
	dir := filepath.Join(home, ".readerly")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "readerly.db")
}
