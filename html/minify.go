package html

import (
	"io"
	"strings"

	"github.com/fwojciec/htmlmeta"
	"golang.org/x/net/html"
)

// whitespace-preserving elements
var verbatimElements = map[string]struct{}{
	"pre":      {},
	"textarea": {},
	"script":   {},
	"style":    {},
}

// Minify normalizes serialized HTML: comments are dropped and runs of HTML
// whitespace in text collapse to a single space, except inside pre,
// textarea, script and style. Tags are written as they appear.
func Minify(markup string) (string, error) {
	z := html.NewTokenizer(strings.NewReader(markup))
	var b strings.Builder
	b.Grow(len(markup))

	verbatim := 0
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if z.Err() == io.EOF {
				return b.String(), nil
			}
			return "", htmlmeta.Errorf(htmlmeta.EINVALID, "failed to minify HTML: %v", z.Err())
		case html.CommentToken:
		case html.TextToken:
			if verbatim > 0 {
				b.Write(z.Raw())
			} else {
				b.WriteString(collapseWhitespace(string(z.Raw())))
			}
		case html.StartTagToken:
			b.Write(z.Raw())
			name, _ := z.TagName()
			if _, ok := verbatimElements[string(name)]; ok {
				verbatim++
			}
		case html.EndTagToken:
			b.Write(z.Raw())
			name, _ := z.TagName()
			if _, ok := verbatimElements[string(name)]; ok && verbatim > 0 {
				verbatim--
			}
		default:
			b.Write(z.Raw())
		}
	}
}

func collapseWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case ' ', '\t', '\n', '\r', '\f':
			if !space {
				b.WriteByte(' ')
				space = true
			}
		default:
			b.WriteByte(c)
			space = false
		}
	}
	return b.String()
}
