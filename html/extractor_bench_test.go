package html_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/fwojciec/htmlmeta"
	"github.com/fwojciec/htmlmeta/html"
	"github.com/stretchr/testify/require"
)

// BenchmarkExtract measures a full extraction of a page with many sections,
// with and without removal and folding rules.
func BenchmarkExtract(b *testing.B) {
	var sb strings.Builder
	sb.WriteString("<html><body>")
	for i := range 200 {
		fmt.Fprintf(&sb, `<div class="s%d"><div><h2>Section %d</h2><p>Some <b>text</b> for section %d.</p>`, i, i, i)
		sb.WriteString(`<table><tr><td>a</td><td>b</td></tr></table></div></div>`)
	}
	sb.WriteString("</body></html>")
	doc := []byte(sb.String())

	rules := htmlmeta.DefaultConfig()
	rules.ConsecutiveTagsToFold = []string{"div"}
	rules.TagsToRemoveAlone = []htmlmeta.TagToRemoveAlone{htmlmeta.NewTagToRemoveAlone("b")}
	rules.TagsToRemoveWithContent = []htmlmeta.TagToRemoveWithContent{htmlmeta.NewTagToRemoveWithContent("table")}

	for name, c := range map[string]htmlmeta.Config{"defaults": htmlmeta.DefaultConfig(), "rules": rules} {
		b.Run(name, func(b *testing.B) {
			e, err := html.NewExtractor(c)
			require.NoError(b, err)

			b.ReportAllocs()
			b.ResetTimer()
			for b.Loop() {
				_, err := e.Extract(doc)
				require.NoError(b, err)
			}
		})
	}
}
