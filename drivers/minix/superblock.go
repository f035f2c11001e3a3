package minix

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/dargueta/minfs/errors"
)

// SuperblockOffset is the position of the superblock relative to the start of
// the file system, regardless of block size.
const SuperblockOffset = 1024

const Magic = 0x4D5A
const ReversedMagic = 0x5A4D

// RawSuperblock is the superblock exactly as it's stored on disk. Padding is
// explicit so the struct decodes with encoding/binary independent of host
// alignment.
type RawSuperblock struct {
	NumInodes         uint32
	Pad1              uint16
	InodeBitmapBlocks int16
	ZoneBitmapBlocks  int16
	FirstDataZone     uint16
	LogZoneSize       int16
	Pad2              int16
	MaxFileSize       uint32
	TotalZones        uint32
	Magic             uint16
	Pad3              int16
	BlockSize         uint16
	SubVersion        uint8
}

var rawSuperblockSize = binary.Size(RawSuperblock{})

// Superblock is the validated contents of the superblock.
type Superblock struct {
	NumInodes         uint32
	InodeBitmapBlocks uint
	ZoneBitmapBlocks  uint
	FirstDataZone     Zone
	LogZoneSize       uint
	MaxFileSize       uint32
	TotalZones        uint32
	Magic             uint16
	BlockSize         uint
	SubVersion        uint8
}

// Geometry holds values derived from the superblock. Offsets are in bytes from
// the start of the image, not the file system.
type Geometry struct {
	PartitionOffset  int64
	BlockSize        uint
	BlocksPerZone    uint
	ZoneSize         uint
	ZonesPerBlock    uint
	DirentsPerZone   uint
	InodeTableOffset int64
	DataZoneOffset   int64
}

// MaxFileZones is the number of logical zones an inode can address through its
// direct, indirect and double indirect zones.
func (geometry Geometry) MaxFileZones() uint64 {
	zonesPerBlock := uint64(geometry.ZonesPerBlock)
	return NumDirectZones + zonesPerBlock + zonesPerBlock*zonesPerBlock
}

// ClassifyMagic checks a superblock magic number. A byte-swapped magic gets its
// own error to make endianness mismatches easy to recognize.
func ClassifyMagic(magic uint16) error {
	switch magic {
	case Magic:
		return nil
	case ReversedMagic:
		return errors.ErrReversedSuperblockMagic.WithMessage(
			fmt.Sprintf("got 0x%04x, expected 0x%04x", magic, Magic))
	default:
		return errors.ErrBadSuperblockMagic.WithMessage(
			fmt.Sprintf("got 0x%04x, expected 0x%04x", magic, Magic))
	}
}

// DecodeSuperblock decodes and validates a raw superblock. The magic number is
// checked before anything else.
func DecodeSuperblock(data []byte) (Superblock, error) {
	if len(data) < rawSuperblockSize {
		return Superblock{}, errors.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("superblock needs %d bytes, got %d", rawSuperblockSize, len(data)))
	}

	var raw RawSuperblock
	err := binary.Read(bytes.NewReader(data), binary.LittleEndian, &raw)
	if err != nil {
		return Superblock{}, errors.ErrIOFailed.Wrap(err)
	}

	err = ClassifyMagic(raw.Magic)
	if err != nil {
		return Superblock{}, err
	}

	if raw.BlockSize == 0 || raw.BlockSize%DirentSize != 0 {
		return Superblock{}, errors.ErrFileSystemCorrupted.WithMessage(
			fmt.Sprintf(
				"block size must be a nonzero multiple of %d, got %d",
				DirentSize,
				raw.BlockSize))
	}
	if raw.LogZoneSize < 0 || raw.LogZoneSize >= 16 {
		return Superblock{}, errors.ErrFileSystemCorrupted.WithMessage(
			fmt.Sprintf("log2 of zone size not in range [0, 16): %d", raw.LogZoneSize))
	}
	if raw.InodeBitmapBlocks < 0 || raw.ZoneBitmapBlocks < 0 {
		return Superblock{}, errors.ErrFileSystemCorrupted.WithMessage(
			fmt.Sprintf(
				"negative bitmap size: inodes %d, zones %d",
				raw.InodeBitmapBlocks,
				raw.ZoneBitmapBlocks))
	}

	return Superblock{
		NumInodes:         raw.NumInodes,
		InodeBitmapBlocks: uint(raw.InodeBitmapBlocks),
		ZoneBitmapBlocks:  uint(raw.ZoneBitmapBlocks),
		FirstDataZone:     Zone(raw.FirstDataZone),
		LogZoneSize:       uint(raw.LogZoneSize),
		MaxFileSize:       raw.MaxFileSize,
		TotalZones:        raw.TotalZones,
		Magic:             raw.Magic,
		BlockSize:         uint(raw.BlockSize),
		SubVersion:        raw.SubVersion,
	}, nil
}

// ComputeGeometry derives the layout of a file system starting at
// `partitionOffset` bytes into the image.
func ComputeGeometry(superblock Superblock, partitionOffset int64) Geometry {
	blockSize := superblock.BlockSize
	zoneSize := blockSize << superblock.LogZoneSize
	metadataBlocks := 2 + superblock.InodeBitmapBlocks + superblock.ZoneBitmapBlocks

	return Geometry{
		PartitionOffset:  partitionOffset,
		BlockSize:        blockSize,
		BlocksPerZone:    1 << superblock.LogZoneSize,
		ZoneSize:         zoneSize,
		ZonesPerBlock:    blockSize / 4,
		DirentsPerZone:   zoneSize / DirentSize,
		InodeTableOffset: partitionOffset + int64(metadataBlocks)*int64(blockSize),
		DataZoneOffset:   partitionOffset + int64(superblock.FirstDataZone)*int64(zoneSize),
	}
}
