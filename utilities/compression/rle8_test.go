package compression_test

import (
	"bytes"
	"crypto/rand"
	"io"
	"testing"

	c "github.com/dargueta/minfs/utilities/compression"
	"github.com/noxer/bytewriter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type RLE8TestCase struct {
	Name           string
	Input          []byte
	ExpectedOutput []byte
}

func TestCompressRLE8__Basic(t *testing.T) {
	tests := []RLE8TestCase{
		{"empty", []byte{}, []byte{}},
		{"run with two only", []byte{4, 4}, []byte{4, 4, 0}},
		{"no runs", []byte{0, 1, 2, 3, 4}, []byte{0, 1, 2, 3, 4}},
		{"two at end", []byte{6, 1, 3, 0, 0}, []byte{6, 1, 3, 0, 0, 0}},
		{"three at end", []byte{6, 1, 0, 0, 0}, []byte{6, 1, 0, 0, 1}},
		{"short run", []byte{9, 5, 5, 5, 5, 5, 3, 7}, []byte{9, 5, 5, 3, 3, 7}},
		{
			"adjacent runs",
			[]byte{9, 5, 5, 5, 5, 5, 5, 3, 3, 3, 3, 7, 2, 6},
			[]byte{9, 5, 5, 4, 3, 3, 2, 7, 2, 6},
		},
		{
			"single long run",
			bytes.Repeat([]byte{5}, 1024),
			[]byte{5, 5, 255, 5, 5, 255, 5, 5, 255, 5, 5, 251},
		},
		{"257", bytes.Repeat([]byte{8}, 257), []byte{8, 8, 255}},
		{"258", bytes.Repeat([]byte{8}, 258), []byte{8, 8, 255, 8}},
		{"259", bytes.Repeat([]byte{8}, 259), []byte{8, 8, 255, 8, 8, 0}},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			output := make([]byte, len(test.ExpectedOutput)*2)
			n, err := c.CompressRLE8(bytes.NewReader(test.Input), bytewriter.New(output))
			require.NoError(t, err)
			assert.EqualValues(t, len(test.ExpectedOutput), n, "bytes written is wrong")
			assert.Equal(t, test.ExpectedOutput, output[:n], "output data is wrong")
		})
	}
}

func TestRLE8RoundTrip(t *testing.T) {
	randomData := make([]byte, 1852)
	_, err := rand.Read(randomData)
	require.NoError(t, err)

	tests := map[string][]byte{
		"completely random":   randomData,
		"entirely nulls":      make([]byte, 571),
		"entirely non-null":   bytes.Repeat([]byte{182}, 934),
		"empty":               {},
		"split run then same": append(bytes.Repeat([]byte{1}, 258), 2, 2, 1),
	}

	for name, originalData := range tests {
		t.Run(name, func(t *testing.T) {
			// Random data can grow when "compressed".
			compressed := make([]byte, len(originalData)*2)
			n, err := c.CompressRLE8(bytes.NewReader(originalData), bytewriter.New(compressed))
			require.NoError(t, err, "unexpected error while compressing")

			output := make([]byte, len(originalData))
			written, err := c.DecompressRLE8(
				bytes.NewReader(compressed[:n]), bytewriter.New(output))
			require.NoError(t, err, "unexpected error while decompressing")
			assert.EqualValues(t, len(originalData), written)
			assert.Equal(t, originalData, output)
		})
	}
}

func TestRLE8Decompress__MissingRepeatCount(t *testing.T) {
	decompressed := make([]byte, 16)
	_, err := c.DecompressRLE8(bytes.NewReader([]byte{9, 1, 4, 4}), bytewriter.New(decompressed))
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestRunReader(t *testing.T) {
	runs := c.NewRunReader(bytes.NewReader([]byte{0, 0, 1, 9, 9, 9}))

	run, err := runs.NextRun()
	require.NoError(t, err)
	assert.Equal(t, c.ByteRun{Byte: 0, RunLength: 2}, run)

	run, err = runs.NextRun()
	require.NoError(t, err)
	assert.Equal(t, c.ByteRun{Byte: 1, RunLength: 1}, run)

	run, err = runs.NextRun()
	require.NoError(t, err)
	assert.Equal(t, c.ByteRun{Byte: 9, RunLength: 3}, run)

	run, err = runs.NextRun()
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, c.InvalidRun, run)
}
