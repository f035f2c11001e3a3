package compression

import (
	"bytes"
	"compress/gzip"
	"io"
	"strings"
)

// ImageSuffix is the file name suffix of images compressed by [CompressImage].
const ImageSuffix = ".rle.gz"

// IsCompressedImageName returns true if `name` looks like a compressed image.
func IsCompressedImageName(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ImageSuffix)
}

// CompressImage compresses a disk image using RLE8 and gzip.
//
// The returned int64 gives the size of the RLE8 data fed to gzip, not the size
// of the final output.
func CompressImage(input io.Reader, output io.Writer) (int64, error) {
	gzWriter, err := gzip.NewWriterLevel(output, gzip.BestCompression)
	if err != nil {
		return 0, err
	}

	n, err := CompressRLE8(input, gzWriter)
	if err != nil {
		gzWriter.Close()
		return n, err
	}
	return n, gzWriter.Close()
}

// DecompressImage takes a gzipped, RLE8-encoded disk image and decompresses it
// to the original raw bytes. The returned int64 gives the decompressed size of
// the image.
func DecompressImage(input io.Reader, output io.Writer) (int64, error) {
	gzReader, err := gzip.NewReader(input)
	if err != nil {
		return 0, err
	}
	defer gzReader.Close()
	return DecompressRLE8(gzReader, output)
}

// CompressImageToBytes works like [CompressImage] but returns the compressed
// image in a new slice.
func CompressImageToBytes(input io.Reader) ([]byte, error) {
	var buffer bytes.Buffer
	_, err := CompressImage(input, &buffer)
	if err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

// DecompressImageToBytes works like [DecompressImage] but returns the raw image
// in a new slice.
func DecompressImageToBytes(input io.Reader) ([]byte, error) {
	var buffer bytes.Buffer
	_, err := DecompressImage(input, &buffer)
	if err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
