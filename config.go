package htmlmeta

import "strings"

// Phase selects when a with-content removal rule is evaluated.
type Phase string

// Phase constants for TagToRemoveWithContent.
const (
	// PhaseTopDown rules are evaluated before descending into a node, on its
	// full original content.
	PhaseTopDown Phase = "top-down"

	// PhaseBottomUp rules are evaluated after the node's children have been
	// cleaned, on whatever content is left.
	PhaseBottomUp Phase = "bottom-up"
)

// ParsePhase converts a configuration string into a Phase.
// An empty string selects PhaseBottomUp.
func ParsePhase(s string) (Phase, error) {
	switch Phase(strings.ToLower(strings.TrimSpace(s))) {
	case "", PhaseBottomUp:
		return PhaseBottomUp, nil
	case PhaseTopDown:
		return PhaseTopDown, nil
	}
	return "", Errorf(ECONFIG, "unknown removal phase %q (want %q or %q)", s, PhaseTopDown, PhaseBottomUp)
}

// Limit returns an upper content length bound of n characters. A rule
// whose MaxLen is nil has no upper bound.
func Limit(n int) *int {
	return &n
}

// Defaults applied by DefaultConfig.
const (
	DefaultStartParsingAtTag = "body"
	DefaultMaxIterations     = 10
	DefaultMaxDepth          = 512
)

// TagToRemoveAlone drops a tag's metadata record while its content keeps
// flowing into the surrounding text. The bounds apply to the length of the
// record's span. A nil MaxLen leaves the span length unbounded above.
type TagToRemoveAlone struct {
	Tag    string `json:"tag" yaml:"tag"`
	MinLen int    `json:"content_min_char_length" yaml:"content_min_char_length"`
	MaxLen *int   `json:"content_max_char_length" yaml:"content_max_char_length"`
}

// NewTagToRemoveAlone returns an unbounded alone-removal rule for tag.
func NewTagToRemoveAlone(tag string) TagToRemoveAlone {
	return TagToRemoveAlone{Tag: tag}
}

// Matches reports whether a span of the given length falls within the bounds.
func (r TagToRemoveAlone) Matches(length int) bool {
	return inBounds(length, r.MinLen, r.MaxLen)
}

// TagToRemoveWithContent deletes a tag together with its subtree when the
// length of its rendered content falls within the bounds. The tail text
// following the tag is preserved. A nil MaxLen leaves the content length
// unbounded above; an empty Phase means PhaseBottomUp.
type TagToRemoveWithContent struct {
	Tag    string `json:"tag" yaml:"tag"`
	MinLen int    `json:"content_min_char_length" yaml:"content_min_char_length"`
	MaxLen *int   `json:"content_max_char_length" yaml:"content_max_char_length"`
	Phase  Phase  `json:"method" yaml:"method"`
}

// NewTagToRemoveWithContent returns an unbounded bottom-up rule for tag.
func NewTagToRemoveWithContent(tag string) TagToRemoveWithContent {
	return TagToRemoveWithContent{Tag: tag, Phase: PhaseBottomUp}
}

// Matches reports whether content of the given length falls within the bounds.
func (r TagToRemoveWithContent) Matches(length int) bool {
	return inBounds(length, r.MinLen, r.MaxLen)
}

func inBounds(length, min int, max *int) bool {
	if length < min {
		return false
	}
	return max == nil || length <= *max
}

// Config holds the options recognized by an extractor.
type Config struct {
	// AttrsToKeep is the attribute allow-list. Nil keeps every attribute,
	// an empty non-nil slice keeps none.
	AttrsToKeep []string `json:"attrs_to_keep" yaml:"attrs_to_keep"`

	TagsToRemoveAlone       []TagToRemoveAlone       `json:"tags_to_remove_alone" yaml:"tags_to_remove_alone"`
	TagsToRemoveWithContent []TagToRemoveWithContent `json:"tags_to_remove_with_content" yaml:"tags_to_remove_with_content"`

	// StartParsingAtTag selects the element extraction begins at. Any CSS
	// selector is accepted; the first match wins. Empty, or no match, uses
	// the whole document.
	StartParsingAtTag string `json:"start_parsing_at_tag" yaml:"start_parsing_at_tag"`

	// ConsecutiveTagsToFold lists tags whose single-child nesting of the
	// same tag is folded into one record.
	ConsecutiveTagsToFold []string `json:"consecutive_tags_to_fold" yaml:"consecutive_tags_to_fold"`

	// ConvertBrTagToBreakingLine makes <br> emit a newline and never
	// surface as a metadata record.
	ConvertBrTagToBreakingLine bool `json:"convert_br_tag_to_breaking_line" yaml:"convert_br_tag_to_breaking_line"`

	// MaxIterations caps the structural cleaning fixpoint loop.
	MaxIterations int `json:"max_iterations" yaml:"max_iterations"`

	// MaxDepth caps the element nesting depth accepted from a document.
	MaxDepth int `json:"max_depth" yaml:"max_depth"`
}

// DefaultConfig returns a Config with no removal rules that starts parsing
// at <body>.
func DefaultConfig() Config {
	return Config{
		StartParsingAtTag: DefaultStartParsingAtTag,
		MaxIterations:     DefaultMaxIterations,
		MaxDepth:          DefaultMaxDepth,
	}
}

// Validate returns an ECONFIG error if the configuration cannot be used.
func (c *Config) Validate() error {
	for _, r := range c.TagsToRemoveAlone {
		if err := validateRule(r.Tag, r.MinLen, r.MaxLen); err != nil {
			return err
		}
	}
	for _, r := range c.TagsToRemoveWithContent {
		if err := validateRule(r.Tag, r.MinLen, r.MaxLen); err != nil {
			return err
		}
		if _, err := ParsePhase(string(r.Phase)); err != nil {
			return Errorf(ECONFIG, "tag %q: %s", r.Tag, ErrorMessage(err))
		}
	}
	for _, tag := range c.ConsecutiveTagsToFold {
		if strings.TrimSpace(tag) == "" {
			return Errorf(ECONFIG, "fold tag required")
		}
	}
	if c.MaxIterations <= 0 {
		return Errorf(ECONFIG, "max iterations must be positive, got %d", c.MaxIterations)
	}
	if c.MaxDepth <= 0 {
		return Errorf(ECONFIG, "max depth must be positive, got %d", c.MaxDepth)
	}
	return nil
}

func validateRule(tag string, min int, max *int) error {
	if strings.TrimSpace(tag) == "" {
		return Errorf(ECONFIG, "rule tag required")
	}
	if min < 0 {
		return Errorf(ECONFIG, "tag %q: negative minimum length %d", tag, min)
	}
	if max != nil && *max < min {
		return Errorf(ECONFIG, "tag %q: maximum length %d below minimum %d", tag, *max, min)
	}
	return nil
}
