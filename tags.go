package htmlmeta

// Class governs the separator a tag inserts into the text when it is
// entered and left.
type Class int

// Class constants.
const (
	// ClassPlain tags insert nothing.
	ClassPlain Class = iota

	// ClassBlock tags start and end on their own line.
	ClassBlock

	// ClassInline tags are separated from their neighbours by one space.
	ClassInline
)

// VerbatimTag is the tag whose text is emitted without whitespace collapsing.
const VerbatimTag = "pre"

// BrTag is the line break tag.
const BrTag = "br"

var blockElements = map[string]struct{}{
	"address": {}, "article": {}, "aside": {}, "blockquote": {}, "body": {},
	"br": {}, "button": {}, "canvas": {}, "caption": {}, "col": {},
	"colgroup": {}, "dd": {}, "div": {}, "dl": {}, "dt": {}, "embed": {},
	"fieldset": {}, "figcaption": {}, "figure": {}, "footer": {}, "form": {},
	"h1": {}, "h2": {}, "h3": {}, "h4": {}, "h5": {}, "h6": {}, "header": {},
	"hgroup": {}, "hr": {}, "li": {}, "map": {}, "noscript": {}, "object": {},
	"ol": {}, "output": {}, "p": {}, "pre": {}, "progress": {}, "section": {},
	"table": {}, "tbody": {}, "textarea": {}, "tfoot": {}, "th": {},
	"thead": {}, "tr": {}, "ul": {}, "video": {},
}

// address and tbody are also block elements, which takes precedence.
var inlineSpacingElements = map[string]struct{}{
	"cite": {}, "details": {}, "datalist": {}, "iframe": {}, "img": {},
	"input": {}, "label": {}, "legend": {}, "optgroup": {}, "q": {},
	"select": {}, "summary": {}, "td": {}, "time": {},
}

// Fold markers replace a tag whose single-child nesting has been folded into
// its parent. The marker keeps the class of the tag it stands in for, and
// FoldOfAttr records that tag.
const (
	FoldMarkerBlock  = "fold-block"
	FoldMarkerInline = "fold-inline"
	FoldMarkerPlain  = "fold-plain"

	FoldOfAttr = "data-fold-of"
)

// Classify returns the class of tag.
func Classify(tag string) Class {
	switch tag {
	case FoldMarkerBlock:
		return ClassBlock
	case FoldMarkerInline:
		return ClassInline
	case FoldMarkerPlain:
		return ClassPlain
	}
	if _, ok := blockElements[tag]; ok {
		return ClassBlock
	}
	if _, ok := inlineSpacingElements[tag]; ok {
		return ClassInline
	}
	return ClassPlain
}

// FoldMarker returns the marker tag that stands in for tag.
func FoldMarker(tag string) string {
	switch Classify(tag) {
	case ClassBlock:
		return FoldMarkerBlock
	case ClassInline:
		return FoldMarkerInline
	}
	return FoldMarkerPlain
}

// IsFoldMarker reports whether tag is a synthetic fold marker.
func IsFoldMarker(tag string) bool {
	return tag == FoldMarkerBlock || tag == FoldMarkerInline || tag == FoldMarkerPlain
}
