// Package disks opens the disk images the command line tools work on. Besides
// raw images it understands the images produced by minzip and the formats
// go-qcow2reader can decode, such as qcow2 and VMDK.
package disks

import (
	"fmt"
	"io"
	"os"

	"github.com/dargueta/minfs/errors"
	"github.com/dargueta/minfs/utilities/compression"
	"github.com/hashicorp/go-multierror"
	"github.com/lima-vm/go-qcow2reader"
	"github.com/lima-vm/go-qcow2reader/image"
	"github.com/lima-vm/go-qcow2reader/image/raw"
	"github.com/sirupsen/logrus"
	"github.com/xaionaro-go/bytesextra"
)

// TypeCompressed is the type of images compressed with minzip. They're
// decompressed into memory when opened.
const TypeCompressed image.Type = "rle.gz"

// Image is an open disk image. Reads see the raw sectors of the disk regardless
// of the format it's stored in.
type Image struct {
	io.ReadSeeker
	Path string
	Type image.Type
	// Size is the size of the virtual disk, in bytes. For raw images it's the
	// size of the file.
	Size    int64
	closers []io.Closer
}

// OpenImage opens the image at `path`, detecting its format. The caller must
// close the returned image.
func OpenImage(path string) (*Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.ErrIOFailed.Wrap(err)
	}

	var img *Image
	if compression.IsCompressedImageName(path) {
		img, err = openCompressed(path, file)
	} else {
		img, err = openDetected(path, file)
	}
	if err != nil {
		file.Close()
		return nil, err
	}

	logrus.Debugf("opened %q as a %s image of %d bytes", path, img.Type, img.Size)
	return img, nil
}

func openCompressed(path string, file *os.File) (*Image, error) {
	data, err := compression.DecompressImageToBytes(file)
	if err != nil {
		return nil, errors.ErrUnsupportedImage.Wrap(err).WithMessage(
			fmt.Sprintf("can't decompress %q", path))
	}
	// The whole image is in memory now.
	err = file.Close()
	if err != nil {
		return nil, errors.ErrIOFailed.Wrap(err)
	}

	return &Image{
		ReadSeeker: bytesextra.NewReadWriteSeeker(data),
		Path:       path,
		Type:       TypeCompressed,
		Size:       int64(len(data)),
	}, nil
}

func openDetected(path string, file *os.File) (*Image, error) {
	decoded, err := qcow2reader.Open(file)
	if err != nil {
		return nil, errors.ErrUnsupportedImage.Wrap(err).WithMessage(
			fmt.Sprintf("failed to detect the format of %q", path))
	}

	if decoded.Type() == raw.Type {
		return &Image{
			ReadSeeker: file,
			Path:       path,
			Type:       raw.Type,
			Size:       decoded.Size(),
			closers:    []io.Closer{file},
		}, nil
	}

	err = decoded.Readable()
	if err != nil {
		decoded.Close()
		return nil, errors.ErrUnsupportedImage.Wrap(err).WithMessage(
			fmt.Sprintf("%s image %q is not readable", decoded.Type(), path))
	}

	return &Image{
		ReadSeeker: io.NewSectionReader(decoded, 0, decoded.Size()),
		Path:       path,
		Type:       decoded.Type(),
		Size:       decoded.Size(),
		closers:    []io.Closer{decoded, file},
	}, nil
}

// Close releases the files backing the image.
func (img *Image) Close() error {
	var result *multierror.Error
	for _, closer := range img.closers {
		err := closer.Close()
		if err != nil {
			result = multierror.Append(result, err)
		}
	}
	img.closers = nil
	return result.ErrorOrNil()
}
