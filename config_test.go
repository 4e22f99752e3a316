package htmlmeta_test

import (
	"testing"

	"github.com/fwojciec/htmlmeta"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePhase(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		want    htmlmeta.Phase
		wantErr bool
	}{
		{name: "empty defaults to bottom-up", in: "", want: htmlmeta.PhaseBottomUp},
		{name: "bottom-up", in: "bottom-up", want: htmlmeta.PhaseBottomUp},
		{name: "top-down", in: "top-down", want: htmlmeta.PhaseTopDown},
		{name: "case insensitive", in: " Top-Down ", want: htmlmeta.PhaseTopDown},
		{name: "unknown phase", in: "sideways", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := htmlmeta.ParsePhase(tt.in)

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, htmlmeta.ECONFIG, htmlmeta.ErrorCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	t.Run("accepts defaults", func(t *testing.T) {
		t.Parallel()

		c := htmlmeta.DefaultConfig()

		require.NoError(t, c.Validate())
		assert.Equal(t, "body", c.StartParsingAtTag)
		assert.Nil(t, c.AttrsToKeep)
	})

	t.Run("rejects unknown phase", func(t *testing.T) {
		t.Parallel()

		c := htmlmeta.DefaultConfig()
		c.TagsToRemoveWithContent = []htmlmeta.TagToRemoveWithContent{
			{Tag: "div", Phase: "sideways"},
		}

		err := c.Validate()

		require.Error(t, err)
		assert.Equal(t, htmlmeta.ECONFIG, htmlmeta.ErrorCode(err))
	})

	t.Run("accepts rules without bounds or phase", func(t *testing.T) {
		t.Parallel()

		c := htmlmeta.DefaultConfig()
		c.TagsToRemoveAlone = []htmlmeta.TagToRemoveAlone{{Tag: "body"}}
		c.TagsToRemoveWithContent = []htmlmeta.TagToRemoveWithContent{{Tag: "div"}}

		require.NoError(t, c.Validate())
	})

	t.Run("rejects inverted bounds", func(t *testing.T) {
		t.Parallel()

		c := htmlmeta.DefaultConfig()
		c.TagsToRemoveAlone = []htmlmeta.TagToRemoveAlone{{Tag: "p", MinLen: 10, MaxLen: htmlmeta.Limit(5)}}

		err := c.Validate()

		require.Error(t, err)
		assert.Equal(t, htmlmeta.ECONFIG, htmlmeta.ErrorCode(err))
	})

	t.Run("rejects negative minimum", func(t *testing.T) {
		t.Parallel()

		c := htmlmeta.DefaultConfig()
		rule := htmlmeta.NewTagToRemoveWithContent("div")
		rule.MinLen = -1
		c.TagsToRemoveWithContent = []htmlmeta.TagToRemoveWithContent{rule}

		require.Error(t, c.Validate())
	})

	t.Run("rejects empty rule tag", func(t *testing.T) {
		t.Parallel()

		c := htmlmeta.DefaultConfig()
		c.TagsToRemoveAlone = []htmlmeta.TagToRemoveAlone{htmlmeta.NewTagToRemoveAlone(" ")}

		require.Error(t, c.Validate())
	})

	t.Run("rejects non-positive caps", func(t *testing.T) {
		t.Parallel()

		c := htmlmeta.DefaultConfig()
		c.MaxIterations = 0
		require.Error(t, c.Validate())

		c = htmlmeta.DefaultConfig()
		c.MaxDepth = -3
		require.Error(t, c.Validate())
	})
}

func TestTagToRemoveWithContent_Matches(t *testing.T) {
	t.Parallel()

	rule := htmlmeta.TagToRemoveWithContent{Tag: "div", MinLen: 2, MaxLen: htmlmeta.Limit(6), Phase: htmlmeta.PhaseBottomUp}

	assert.False(t, rule.Matches(1))
	assert.True(t, rule.Matches(2))
	assert.True(t, rule.Matches(6))
	assert.False(t, rule.Matches(7))

	unbounded := htmlmeta.NewTagToRemoveWithContent("div")
	assert.True(t, unbounded.Matches(0))
	assert.True(t, unbounded.Matches(1<<20))
	assert.Equal(t, htmlmeta.PhaseBottomUp, unbounded.Phase)
}

func TestTagToRemoveAlone_Matches(t *testing.T) {
	t.Parallel()

	t.Run("zero value has no upper bound", func(t *testing.T) {
		t.Parallel()

		rule := htmlmeta.TagToRemoveAlone{Tag: "body"}

		assert.True(t, rule.Matches(0))
		assert.True(t, rule.Matches(1<<20))
	})

	t.Run("limit bounds the span length", func(t *testing.T) {
		t.Parallel()

		rule := htmlmeta.TagToRemoveAlone{Tag: "span", MinLen: 1, MaxLen: htmlmeta.Limit(3)}

		assert.False(t, rule.Matches(0))
		assert.True(t, rule.Matches(3))
		assert.False(t, rule.Matches(4))
	})
}
