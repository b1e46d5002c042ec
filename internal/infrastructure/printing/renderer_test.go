package printing

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderError(t *testing.T) {
	t.Run("without cause", func(t *testing.T) {
		err := NewRenderError(ErrCodeInvalidHTML, "HTML content is empty", nil)

		assert.Equal(t, "HTML content is empty", err.Error())
		assert.Nil(t, errors.Unwrap(err))
		assert.False(t, err.Temporary())
	})

	t.Run("wraps its cause", func(t *testing.T) {
		cause := errors.New("chrome crashed")
		err := NewRenderError(ErrCodeRenderFailed, "chromedp execution failed", cause)

		assert.Equal(t, "chromedp execution failed: chrome crashed", err.Error())
		assert.ErrorIs(t, err, cause)
	})
}

func TestIsTemporary(t *testing.T) {
	timeout := NewRenderError(ErrCodeRenderTimeout, "timed out waiting for a free renderer", nil)

	assert.True(t, IsTemporary(timeout))
	assert.True(t, IsTemporary(fmt.Errorf("failed to print bill B-1: %w", timeout)))
	assert.False(t, IsTemporary(NewRenderError(ErrCodeTemplateMissing, "no template", nil)))
	assert.False(t, IsTemporary(errors.New("plain")))
	assert.False(t, IsTemporary(nil))
}
