package serialio

import (
	"testing"

	"github.com/printctl/printctl-go/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHexID(t *testing.T) {
	assert.Equal(t, uint32(0x2341), parseHexID("0x2341"))
	assert.Equal(t, uint32(0x2341), parseHexID("2341"))
	assert.Equal(t, uint32(0xABCD), parseHexID("ABCD"))
	assert.Equal(t, uint32(0), parseHexID(""))
}

func TestOpenUnknownPathReturnsSerialOpenKind(t *testing.T) {
	r := NewRegistry()
	_, err := r.Open("/dev/printctl-test-nonexistent", 115200)
	require.Error(t, err)
	assert.Equal(t, errs.KindSerialOpen, errs.KindOf(err))
}

func TestListReturnsWithoutError(t *testing.T) {
	r := NewRegistry()
	_, err := r.List()
	assert.NoError(t, err)
}
