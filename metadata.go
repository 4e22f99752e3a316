package htmlmeta

// Provenance tags carried by every HTML metadata record.
const (
	MetadataKey  = "html"
	MetadataType = "local"
)

// Attr is a single attribute as it appears on a tag.
type Attr struct {
	Key string
	Val string
}

// Attrs is an ordered attribute mapping. Names and Values are parallel
// slices so that the serialized form keeps a stable layout between
// documents.
type Attrs struct {
	Names  []string `json:"attrs"`
	Values []string `json:"values"`
}

// Len returns the number of attributes.
func (a Attrs) Len() int {
	return len(a.Names)
}

// Get returns the value of the named attribute.
func (a Attrs) Get(name string) (string, bool) {
	for i, n := range a.Names {
		if n == name {
			return a.Values[i], true
		}
	}
	return "", false
}

// Metadata maps one tag of the cleaned tree onto a span of the plain text.
type Metadata struct {
	Key  string `json:"key"`
	Type string `json:"type"`

	// CharStartIdx is the offset, in characters, where the tag's content begins.
	CharStartIdx     int `json:"char_start_idx"`
	RelativeStartPos int `json:"relative_start_pos"`

	// CharEndIdx is nil when the tag contributed no characters.
	CharEndIdx     *int `json:"char_end_idx"`
	RelativeEndPos int  `json:"relative_end_pos"`

	// Value is the tag name.
	Value     string `json:"value"`
	HTMLAttrs Attrs  `json:"html_attrs"`

	SelfClosing bool `json:"self_closing"`
}

// Len returns the number of characters covered by the record.
func (m *Metadata) Len() int {
	if m.CharEndIdx == nil {
		return 0
	}
	return *m.CharEndIdx - m.CharStartIdx
}

// Result is the outcome of extracting a single HTML document.
type Result struct {
	Text     string      `json:"text"`
	Metadata []*Metadata `json:"metadata"`

	// Iterations is the number of structural cleaning passes performed.
	Iterations int `json:"-"`

	// Converged is false when cleaning stopped at the iteration cap
	// before reaching a fixpoint.
	Converged bool `json:"-"`
}
