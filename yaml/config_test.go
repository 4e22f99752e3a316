package yaml_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwojciec/htmlmeta"
	"github.com/fwojciec/htmlmeta/yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("empty document yields defaults", func(t *testing.T) {
		t.Parallel()

		c, err := yaml.LoadConfig(strings.NewReader(""))

		require.NoError(t, err)
		assert.Equal(t, htmlmeta.DefaultConfig(), *c)
	})

	t.Run("accepts bare tags and mappings for rules", func(t *testing.T) {
		t.Parallel()

		c, err := yaml.LoadConfig(strings.NewReader(`
tags_to_remove_alone:
  - body
  - tag: span
    content_max_char_length: 3
tags_to_remove_with_content:
  - div
  - tag: table
    content_min_char_length: 2
    method: top-down
  - tag: nav
    phase: Top-Down
`))

		require.NoError(t, err)
		assert.Equal(t, []htmlmeta.TagToRemoveAlone{
			{Tag: "body", MinLen: 0},
			{Tag: "span", MinLen: 0, MaxLen: htmlmeta.Limit(3)},
		}, c.TagsToRemoveAlone)
		assert.Equal(t, []htmlmeta.TagToRemoveWithContent{
			{Tag: "div", Phase: htmlmeta.PhaseBottomUp},
			{Tag: "table", MinLen: 2, Phase: htmlmeta.PhaseTopDown},
			{Tag: "nav", Phase: htmlmeta.PhaseTopDown},
		}, c.TagsToRemoveWithContent)
	})

	t.Run("reads scalar options", func(t *testing.T) {
		t.Parallel()

		c, err := yaml.LoadConfig(strings.NewReader(`
start_parsing_at_tag: main
consecutive_tags_to_fold: [div, span]
convert_br_tag_to_breaking_line: true
max_iterations: 3
max_depth: 64
`))

		require.NoError(t, err)
		assert.Equal(t, "main", c.StartParsingAtTag)
		assert.Equal(t, []string{"div", "span"}, c.ConsecutiveTagsToFold)
		assert.True(t, c.ConvertBrTagToBreakingLine)
		assert.Equal(t, 3, c.MaxIterations)
		assert.Equal(t, 64, c.MaxDepth)
	})

	t.Run("an empty start tag selects the whole document", func(t *testing.T) {
		t.Parallel()

		c, err := yaml.LoadConfig(strings.NewReader(`start_parsing_at_tag: ""`))

		require.NoError(t, err)
		assert.Empty(t, c.StartParsingAtTag)
	})

	t.Run("attrs_to_keep shapes", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name string
			in   string
			want []string
		}{
			{name: "absent", in: `max_depth: 10`, want: nil},
			{name: "null", in: `attrs_to_keep: null`, want: nil},
			{name: "list", in: `attrs_to_keep: [class, id]`, want: []string{"class", "id"}},
			{name: "empty list", in: `attrs_to_keep: []`, want: []string{}},
			{name: "mapping", in: "attrs_to_keep:\n  class: true\n  style: false\n  id: true", want: []string{"class", "id"}},
		}
		for _, tt := range tests {
			c, err := yaml.LoadConfig(strings.NewReader(tt.in))
			require.NoError(t, err, tt.name)
			assert.Equal(t, tt.want, c.AttrsToKeep, tt.name)
		}
	})

	t.Run("rejects unusable documents", func(t *testing.T) {
		t.Parallel()

		for _, in := range []string{
			`attrs_to_keep: class`,
			"attrs_to_keep:\n  class: maybe",
			"tags_to_remove_with_content:\n  - tag: div\n    method: sideways",
			"tags_to_remove_alone:\n  - tag: p\n    content_min_char_length: 5\n    content_max_char_length: 1",
			`max_iterations: 0`,
			`start_parsing_at: body`,
			`tags_to_remove_alone: [`,
		} {
			_, err := yaml.LoadConfig(strings.NewReader(in))
			require.Error(t, err, in)
			assert.Equal(t, htmlmeta.ECONFIG, htmlmeta.ErrorCode(err), in)
		}
	})
}

func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("loads a JSON file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "config.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"attrs_to_keep": ["class"], "tags_to_remove_alone": ["b"]}`), 0o600))

		c, err := yaml.LoadConfigFile(path)

		require.NoError(t, err)
		assert.Equal(t, []string{"class"}, c.AttrsToKeep)
		assert.Equal(t, []htmlmeta.TagToRemoveAlone{htmlmeta.NewTagToRemoveAlone("b")}, c.TagsToRemoveAlone)
	})

	t.Run("reports a missing file", func(t *testing.T) {
		t.Parallel()

		_, err := yaml.LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))

		assert.Equal(t, htmlmeta.ECONFIG, htmlmeta.ErrorCode(err))
	})
}
