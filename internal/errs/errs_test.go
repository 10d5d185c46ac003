package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOfUnwraps(t *testing.T) {
	wrapped := fmt.Errorf("opening port: %w", New(KindSerialOpen, "registry.Open", errors.New("busy")))
	assert.Equal(t, KindSerialOpen, KindOf(wrapped))
}

func TestKindOfNonPrintctlError(t *testing.T) {
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
}

func TestErrorMessageIncludesOpAndKind(t *testing.T) {
	err := New(KindTimeout, "Worker.Write", errors.New("deadline exceeded"))
	assert.Contains(t, err.Error(), "Worker.Write")
	assert.Contains(t, err.Error(), "timeout")
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("cause")
	err := New(KindIO, "op", cause)
	assert.ErrorIs(t, err, cause)
}
