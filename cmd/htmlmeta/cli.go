package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/htmlmeta"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdin     io.Reader
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	Config    *htmlmeta.Config
	Extractor htmlmeta.Extractor
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config        string   `short:"c" type:"existingfile" help:"YAML or JSON configuration file"`
	Verbose       bool     `short:"v" help:"Log cleaning details to stderr"`
	Attrs         []string `name:"attrs" help:"Attributes to keep in metadata (repeatable, overrides the configuration)"`
	NoAttrs       bool     `name:"no-attrs" help:"Drop every attribute from metadata"`
	StartTag      string   `name:"start-tag" help:"CSS selector of the element extraction starts at"`
	WholeDocument bool     `name:"whole-document" help:"Extract from the <html> element"`
	BrNewline     bool     `name:"br-newline" help:"Turn <br> into line breaks and drop its metadata"`
	MaxIterations int      `name:"max-iterations" help:"Cap on structural cleaning passes"`

	Extract  ExtractCmd  `cmd:"" help:"Extract text and metadata from one HTML document as JSON"`
	Annotate AnnotateCmd `cmd:"" help:"Render one HTML document as annotated XML"`
	Batch    BatchCmd    `cmd:"" help:"Extract every document of JSON-lines corpus files"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	File   string `arg:"" optional:"" type:"existingfile" help:"HTML file (default: stdin)"`
	Indent bool   `short:"i" help:"Indent the JSON output"`
}

// AnnotateCmd is the "annotate" subcommand.
type AnnotateCmd struct {
	File string `arg:"" optional:"" type:"existingfile" help:"HTML file (default: stdin)"`
}

// BatchCmd is the "batch" subcommand.
type BatchCmd struct {
	Files       []string `arg:"" help:"JSON-lines input files, optionally gzip-compressed"`
	Out         string   `short:"o" help:"Directory receiving one .jsonl.gz file per input"`
	DB          string   `name:"db" help:"SQLite database receiving every document"`
	Dir         string   `name:"dir" help:"Directory receiving a .txt and a .json file per document"`
	Concurrency int      `short:"j" help:"Files processed in parallel (default: number of CPUs)"`
	Dedupe      bool     `help:"Skip documents whose HTML was already seen"`
	HTMLField   string   `name:"html-field" default:"document_html" help:"Field holding the HTML"`
	IDField     string   `name:"id-field" default:"example_id" help:"Field holding the document ID"`
	URLField    string   `name:"url-field" default:"document_url" help:"Field holding the document URL"`
}
