package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/htmlmeta"
	"github.com/fwojciec/htmlmeta/html"
	hmslog "github.com/fwojciec/htmlmeta/slog"
	"github.com/fwojciec/htmlmeta/yaml"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Stdin is read by commands given no input file.
	Stdin io.Reader
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{Stdin: os.Stdin}
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
		kong.Name("htmlmeta"),
		kong.Description("Extract plain text and tag metadata from HTML documents"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'htmlmeta --help' to see available commands")
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cfg, err := cli.LoadConfig()
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", htmlmeta.ErrorMessage(err))
		return err
	}
	deps.Config = cfg

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	extractor, err := html.NewExtractor(*cfg, html.WithLogger(deps.Logger))
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", htmlmeta.ErrorMessage(err))
		return err
	}
	deps.Extractor = hmslog.NewLoggingExtractor(extractor, deps.Logger)

	return kongCtx.Run(deps)
}

// LoadConfig reads the configuration file, if any, and applies the
// command-line overrides on top of it.
func (c *CLI) LoadConfig() (*htmlmeta.Config, error) {
	cfg := htmlmeta.DefaultConfig()
	if c.Config != "" {
		loaded, err := yaml.LoadConfigFile(c.Config)
		if err != nil {
			return nil, err
		}
		cfg = *loaded
	}

	if len(c.Attrs) > 0 {
		cfg.AttrsToKeep = c.Attrs
	}
	if c.NoAttrs {
		cfg.AttrsToKeep = []string{}
	}
	if c.StartTag != "" {
		cfg.StartParsingAtTag = c.StartTag
	}
	if c.WholeDocument {
		cfg.StartParsingAtTag = ""
	}
	if c.BrNewline {
		cfg.ConvertBrTagToBreakingLine = true
	}
	if c.MaxIterations > 0 {
		cfg.MaxIterations = c.MaxIterations
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
