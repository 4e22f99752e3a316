package htmlmeta_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/htmlmeta"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := htmlmeta.Errorf(htmlmeta.ECONFIG, "unknown phase %q", "sideways")

	assert.Equal(t, htmlmeta.ECONFIG, htmlmeta.ErrorCode(err))
	assert.Equal(t, "unknown phase \"sideways\"", htmlmeta.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, htmlmeta.ErrorCode(nil))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, htmlmeta.ErrorMessage(nil))
}

func TestErrorCode_WrappedError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("extract: %w", htmlmeta.Errorf(htmlmeta.ETOODEEP, "too deep"))

	assert.Equal(t, htmlmeta.ETOODEEP, htmlmeta.ErrorCode(err))
	assert.Equal(t, "too deep", htmlmeta.ErrorMessage(err))
}

func TestErrorCode_ForeignError(t *testing.T) {
	t.Parallel()

	err := errors.New("disk on fire")

	assert.Equal(t, htmlmeta.EINTERNAL, htmlmeta.ErrorCode(err))
	assert.Equal(t, "Internal error.", htmlmeta.ErrorMessage(err))
}
