package encoding_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nestegg-dev/nestegg/internal/encoding"
)

func TestNewUTF8Reader_UTF8Passthrough(t *testing.T) {
	input := "Date,Description,Amount\n2025-06-01,Café Coffee Day,₹450.00\n"

	r, err := encoding.NewUTF8Reader(bytes.NewReader([]byte(input)))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, input, string(got))
}

func TestNewUTF8Reader_UTF8BOM(t *testing.T) {
	bom := []byte{0xEF, 0xBB, 0xBF}
	content := []byte("Date,Description,Amount\n")

	r, err := encoding.NewUTF8Reader(bytes.NewReader(append(bom, content...)))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "Date,Description,Amount\n", string(got))
}

func TestNewUTF8Reader_Windows1252(t *testing.T) {
	// "Café,—450" in Windows-1252: é = 0xE9, em dash = 0x97.
	input := []byte{'C', 'a', 'f', 0xE9, ',', 0x97, '4', '5', '0', '\n'}

	r, err := encoding.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "Café,—450\n", string(got))
}

func TestNewUTF8Reader_UTF16LE(t *testing.T) {
	// "Date\n" as UTF-16LE with BOM.
	input := []byte{0xFF, 0xFE, 'D', 0x00, 'a', 0x00, 't', 0x00, 'e', 0x00, '\n', 0x00}

	r, err := encoding.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "Date\n", string(got))
}

func TestNewUTF8Reader_UTF16BE(t *testing.T) {
	input := []byte{0xFE, 0xFF, 0x00, 'D', 0x00, 'a', 0x00, 't', 0x00, 'e', 0x00, '\n'}

	r, err := encoding.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "Date\n", string(got))
}
