package html

import (
	"log/slog"

	"github.com/andybalholm/cascadia"
	"github.com/fwojciec/htmlmeta"
)

// Ensure Extractor implements htmlmeta.Extractor at compile time.
var _ htmlmeta.Extractor = (*Extractor)(nil)

// Extractor converts HTML documents into plain text and metadata.
// It is safe for concurrent use: each call builds and discards its own tree
// and text buffer.
type Extractor struct {
	config  htmlmeta.Config
	filter  *htmlmeta.AttributeFilter
	policy  *htmlmeta.RemovalPolicy
	cleaner *Cleaner
	logger  *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets the logger receiving debug traces of the cleaning loop.
// Defaults to discarding everything.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		e.logger = logger
	}
}

// NewExtractor validates c and returns an Extractor for it.
// Configuration errors are reported here, never during extraction.
func NewExtractor(c htmlmeta.Config, opts ...Option) (*Extractor, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if c.StartParsingAtTag != "" {
		if _, err := cascadia.Compile(c.StartParsingAtTag); err != nil {
			return nil, htmlmeta.Errorf(htmlmeta.ECONFIG, "invalid start selector %q: %v", c.StartParsingAtTag, err)
		}
	}

	e := &Extractor{
		config: c,
		filter: htmlmeta.NewAttributeFilter(c.AttrsToKeep),
		policy: htmlmeta.NewRemovalPolicy(c),
		logger: discardLogger,
	}
	for _, opt := range opts {
		opt(e)
	}

	e.cleaner = &Cleaner{
		Policy:        e.policy,
		Folder:        NewFolder(c.ConsecutiveTagsToFold),
		MaxIterations: c.MaxIterations,
		MaxDepth:      c.MaxDepth,
		Logger:        e.logger,
	}
	return e, nil
}

// Extract cleans input and returns its plain text and metadata.
func (e *Extractor) Extract(input []byte) (*htmlmeta.Result, error) {
	tree, stats, err := e.Clean(input)
	if err != nil {
		return nil, err
	}

	text, records := Collect(tree, e.filter, e.policy, e.config.ConvertBrTagToBreakingLine)
	return &htmlmeta.Result{
		Text:       text,
		Metadata:   records,
		Iterations: stats.Iterations,
		Converged:  stats.Converged,
	}, nil
}

// Clean parses input and runs the structural cleaning loop on it,
// returning the cleaned tree.
func (e *Extractor) Clean(input []byte) (*Tree, CleanStats, error) {
	tree, err := Parse(input, e.config.StartParsingAtTag, e.config.MaxDepth)
	if err != nil {
		return nil, CleanStats{}, err
	}
	return e.cleaner.Clean(tree)
}
