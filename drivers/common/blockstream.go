package common

import (
	"fmt"
	"io"

	"github.com/dargueta/minfs/errors"
)

// BlockStream is an abstraction layer around a seekable stream to make it look
// like a block device starting at some offset into an image.
//
// Every read is a seek followed by a full read; nothing is cached. The stream
// is borrowed, not owned, and since each read moves its cursor a BlockStream
// must not be shared between goroutines.
//
// The exposed fields are for informational purposes only and should never be
// changed.
type BlockStream struct {
	// BytesPerBlock gives the size of a block on this device, in bytes.
	BytesPerBlock uint
	// StartOffset is an offset from the beginning of the stream, in bytes, that
	// will be considered the beginning of block 0 for the device. This is useful
	// for skipping over MBRs or other volumes stored on the same image.
	StartOffset int64
	stream      io.ReadSeeker
}

func NewBlockStream(stream io.ReadSeeker, bytesPerBlock uint, startOffset int64) *BlockStream {
	return &BlockStream{
		BytesPerBlock: bytesPerBlock,
		StartOffset:   startOffset,
		stream:        stream,
	}
}

// NewBasicBlockStream creates a stream with 512-byte blocks that starts at the
// beginning of the image.
func NewBasicBlockStream(stream io.ReadSeeker) *BlockStream {
	return NewBlockStream(stream, 512, 0)
}

// BlockIDToFileOffset converts a block ID into a byte offset into the backing
// I/O stream.
func (device *BlockStream) BlockIDToFileOffset(blockID BlockID) int64 {
	return device.StartOffset + (int64(blockID) * int64(device.BytesPerBlock))
}

// ReadBytesAt fills `buffer` from `offset` bytes past the start of the device.
// A short read is an error.
func (device *BlockStream) ReadBytesAt(offset int64, buffer []byte) error {
	absoluteOffset := device.StartOffset + offset
	_, err := device.stream.Seek(absoluteOffset, io.SeekStart)
	if err != nil {
		return errors.ErrIOFailed.Wrap(err).WithMessage(
			fmt.Sprintf("seek to offset %d failed", absoluteOffset))
	}

	_, err = io.ReadFull(device.stream, buffer)
	if err != nil {
		return errors.ErrIOFailed.Wrap(err).WithMessage(
			fmt.Sprintf("failed to read %d bytes at offset %d", len(buffer), absoluteOffset))
	}
	return nil
}

// ReadBytes reads `count` bytes starting `offset` bytes past the start of the
// device.
func (device *BlockStream) ReadBytes(offset int64, count uint) ([]byte, error) {
	buffer := make([]byte, count)
	err := device.ReadBytesAt(offset, buffer)
	if err != nil {
		return nil, err
	}
	return buffer, nil
}

// Read reads `count` whole blocks starting from `blockID`.
func (device *BlockStream) Read(blockID BlockID, count uint) ([]byte, error) {
	return device.ReadBytes(
		int64(blockID)*int64(device.BytesPerBlock),
		count*device.BytesPerBlock)
}
