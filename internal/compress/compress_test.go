package compress

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromName(t *testing.T) {
	for _, name := range []string{"", "gzip", "lz4", "brotli"} {
		codec, err := FromName(name)
		require.NoError(t, err)
		assert.Equal(t, name, codec.Name())
	}

	_, err := FromName("zstd")
	assert.Error(t, err)
}

func TestCodecsRoundTrip(t *testing.T) {
	content := []byte("# Title\n\n" + strings.Repeat("some markdown body text. ", 40))

	codecs := []Compress{NewNop(), NewGZip(), NewLZ4(), NewBrotli()}
	for _, codec := range codecs {
		encoded, err := codec.Encode(content)
		require.NoError(t, err, "codec %q", codec.Name())

		decoded, err := codec.Decode(encoded)
		require.NoError(t, err, "codec %q", codec.Name())
		assert.Equal(t, content, decoded, "codec %q", codec.Name())
	}
}
