package repscan_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/repscan"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := repscan.Errorf(repscan.EEXHAUSTED, "no content extractable from %s", "https://example.com")

	assert.Equal(t, repscan.EEXHAUSTED, repscan.ErrorCode(err))
	assert.Equal(t, "no content extractable from https://example.com", repscan.ErrorMessage(err))
}

func TestErrorCode_WrappedError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("analyze: %w", repscan.Errorf(repscan.EUNAVAILABLE, "classification unavailable"))

	assert.Equal(t, repscan.EUNAVAILABLE, repscan.ErrorCode(err))
	assert.Equal(t, "classification unavailable", repscan.ErrorMessage(err))
}

func TestErrorCode_NonApplicationError(t *testing.T) {
	t.Parallel()

	err := errors.New("boom")

	assert.Equal(t, repscan.EINTERNAL, repscan.ErrorCode(err))
	assert.Equal(t, "Internal error.", repscan.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, repscan.ErrorCode(nil))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, repscan.ErrorMessage(nil))
}
