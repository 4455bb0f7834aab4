package imaging

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_DataURI(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("fake jpeg bytes"))

	raw, ext, err := Decode("data:image/jpeg;base64," + payload)
	require.NoError(t, err)
	assert.Equal(t, []byte("fake jpeg bytes"), raw)
	assert.Equal(t, "jpeg", ext)
}

func TestDecode_BareBase64DefaultsToPNG(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("raw image"))

	raw, ext, err := Decode(payload)
	require.NoError(t, err)
	assert.Equal(t, []byte("raw image"), raw)
	assert.Equal(t, "png", ext)
}

func TestDecode_ExtensionVariants(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("x"))

	tests := []struct {
		prefix string
		ext    string
	}{
		{"data:image/png;base64,", "png"},
		{"data:image/webp;base64,", "webp"},
		{"data:image/gif;base64,", "gif"},
	}

	for _, tt := range tests {
		_, ext, err := Decode(tt.prefix + payload)
		require.NoError(t, err)
		assert.Equal(t, tt.ext, ext)
	}
}

func TestDecode_Malformed(t *testing.T) {
	_, _, err := Decode("not valid base64!!!")
	assert.Error(t, err)

	_, _, err = Decode("data:image/png;base64")
	assert.Error(t, err, "data URI without payload separator")
}

func TestDecode_Empty(t *testing.T) {
	_, _, err := Decode("")
	assert.ErrorIs(t, err, ErrEmptyPayload)

	_, _, err = Decode("data:image/png;base64,")
	assert.ErrorIs(t, err, ErrEmptyPayload)
}
