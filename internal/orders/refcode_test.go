package orders

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefCodeRoundTrip(t *testing.T) {
	coder, err := NewRefCoder("test-salt")
	require.NoError(t, err)

	for _, id := range []int64{1, 42, 99999, 1 << 40} {
		code, err := coder.Encode(id)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(code, "PM-"))

		got, err := coder.Decode(code)
		require.NoError(t, err)
		assert.Equal(t, id, got)
	}
}

func TestRefCodeSaltChangesCodes(t *testing.T) {
	a, err := NewRefCoder("salt-a")
	require.NoError(t, err)
	b, err := NewRefCoder("salt-b")
	require.NoError(t, err)

	codeA, err := a.Encode(7)
	require.NoError(t, err)
	codeB, err := b.Encode(7)
	require.NoError(t, err)
	assert.NotEqual(t, codeA, codeB)
}

func TestRefCodeRejectsGarbage(t *testing.T) {
	coder, err := NewRefCoder("test-salt")
	require.NoError(t, err)

	_, err = coder.Decode("PM-!!invalid!!")
	assert.Error(t, err)
}

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus(StatusPending))
	assert.True(t, ValidStatus(StatusDelivered))
	assert.False(t, ValidStatus("shipped-maybe"))
	assert.False(t, ValidStatus(""))
}
