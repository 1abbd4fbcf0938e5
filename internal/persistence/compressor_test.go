package persistence

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZstdCompressor_Roundtrip(t *testing.T) {
	compressor, err := NewZstdCompressor()
	require.NoError(t, err)
	defer compressor.Close()

	payload := []byte(`{"tier":"premium","scansThisWeek":3}`)
	compressed, err := compressor.Compress(payload)
	require.NoError(t, err)

	decompressed, err := compressor.Decompress(compressed)
	require.NoError(t, err)
	assert.Equal(t, payload, decompressed)
}

func TestZstdCompressor_ShrinksRepetitiveData(t *testing.T) {
	compressor, err := NewZstdCompressor()
	require.NoError(t, err)
	defer compressor.Close()

	payload := bytes.Repeat([]byte("diagnostic-session "), 1000)
	compressed, err := compressor.Compress(payload)
	require.NoError(t, err)

	assert.Less(t, len(compressed), len(payload))
}

func TestZstdCompressor_RejectsGarbage(t *testing.T) {
	compressor, err := NewZstdCompressor()
	require.NoError(t, err)
	defer compressor.Close()

	_, err = compressor.Decompress([]byte("definitely not zstd"))
	assert.Error(t, err)
}
