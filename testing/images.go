package testing

import (
	"bytes"
	"io"
	"testing"

	"github.com/dargueta/minfs/utilities/compression"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/bytesextra"
)

// LoadDiskImage takes a compressed disk image and returns a stream to access the
// uncompressed data.
//
//   - Writes to the stream do not affect `compressedImageBytes`.
//   - The size of the uncompressed image must be `sectorSize * totalSectors`.
func LoadDiskImage(
	t *testing.T, compressedImageBytes []byte, sectorSize, totalSectors uint,
) io.ReadWriteSeeker {
	require.Greater(t, len(compressedImageBytes), 0, "compressed image is empty")

	imageBytes, err := compression.DecompressImageToBytes(bytes.NewReader(compressedImageBytes))
	require.NoError(t, err)

	require.Equal(
		t,
		totalSectors*sectorSize,
		uint(len(imageBytes)),
		"uncompressed image is wrong size",
	)
	return bytesextra.NewReadWriteSeeker(imageBytes)
}

// CompressImageBytes is the inverse of [LoadDiskImage]: it compresses a raw
// image the same way fixture files are stored.
func CompressImageBytes(t *testing.T, imageBytes []byte) []byte {
	compressed, err := compression.CompressImageToBytes(bytes.NewReader(imageBytes))
	require.NoError(t, err)
	return compressed
}

// NewImageStream wraps raw image bytes in a seekable stream.
func NewImageStream(imageBytes []byte) io.ReadSeeker {
	return bytesextra.NewReadWriteSeeker(imageBytes)
}
