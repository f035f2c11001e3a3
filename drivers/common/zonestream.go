package common

import (
	"fmt"

	"github.com/dargueta/minfs/errors"
)

// ZoneStream is an abstraction layer for file systems that allocate space in
// groups of blocks ("zones" in MINIX). Zone N begins N zones past the start of
// the underlying block stream.
type ZoneStream struct {
	BlockStream   *BlockStream
	BlocksPerZone uint
	// TotalZones is the number of zones on the device. Reads from zones outside
	// [0, TotalZones) fail. Zero disables the check.
	TotalZones   uint
	bytesPerZone uint
}

func NewZoneStream(
	blockStream *BlockStream,
	blocksPerZone uint,
	totalZones uint,
) (*ZoneStream, error) {
	if blocksPerZone == 0 {
		return nil, errors.ErrInvalidArgument.WithMessage("zones must have at least one block")
	}
	return &ZoneStream{
		BlockStream:   blockStream,
		BlocksPerZone: blocksPerZone,
		TotalZones:    totalZones,
		bytesPerZone:  blocksPerZone * blockStream.BytesPerBlock,
	}, nil
}

// BytesPerZone gives the size of a zone, in bytes.
func (stream *ZoneStream) BytesPerZone() uint {
	return stream.bytesPerZone
}

// CheckBounds returns an error if `zone` is not a zone on this device.
func (stream *ZoneStream) CheckBounds(zone ZoneID) error {
	if stream.TotalZones != 0 && uint(zone) >= stream.TotalZones {
		return errors.ErrFileSystemCorrupted.WithMessage(
			fmt.Sprintf("invalid zone %d: not in range [0, %d)", zone, stream.TotalZones))
	}
	return nil
}

// ZoneToOffset gives the byte offset of the start of `zone`, relative to the
// start of the block stream.
func (stream *ZoneStream) ZoneToOffset(zone ZoneID) (int64, error) {
	err := stream.CheckBounds(zone)
	if err != nil {
		return 0, err
	}
	return int64(zone) * int64(stream.bytesPerZone), nil
}

// ReadBytes reads `count` bytes from `zone`, starting at its first byte.
func (stream *ZoneStream) ReadBytes(zone ZoneID, count uint) ([]byte, error) {
	if count > stream.bytesPerZone {
		return nil, errors.ErrInvalidArgument.WithMessage(
			fmt.Sprintf(
				"can't read %d bytes from a zone: zone size is %d",
				count,
				stream.bytesPerZone))
	}

	offset, err := stream.ZoneToOffset(zone)
	if err != nil {
		return nil, err
	}
	return stream.BlockStream.ReadBytes(offset, count)
}

// Read reads the entire contents of `zone`.
func (stream *ZoneStream) Read(zone ZoneID) ([]byte, error) {
	return stream.ReadBytes(zone, stream.bytesPerZone)
}

// ReadFirstBlock reads only the first block of `zone`. Zone-number tables in
// MINIX occupy exactly this much of their zone.
func (stream *ZoneStream) ReadFirstBlock(zone ZoneID) ([]byte, error) {
	return stream.ReadBytes(zone, stream.BlockStream.BytesPerBlock)
}
