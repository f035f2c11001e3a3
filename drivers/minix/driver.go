package minix

import (
	"fmt"
	"io"

	"github.com/dargueta/minfs/drivers/common"
	"github.com/dargueta/minfs/drivers/mbr"
	"github.com/dargueta/minfs/errors"
	"github.com/sirupsen/logrus"
)

// FileSystem is an open MINIX file system. It owns the decoded superblock and
// geometry, and borrows the image it was opened from; the caller must keep the
// image open for as long as the FileSystem is used.
//
// Every operation seeks the image, so a FileSystem must not be used from more
// than one goroutine at a time. Open one per goroutine instead.
type FileSystem struct {
	superblock Superblock
	geometry   Geometry
	blocks     *common.BlockStream
	zones      *common.ZoneStream
	current    *ResolvedTarget
}

// Open finds the file system in the partition selected by `partition` and
// `subpartition` (see [mbr.Locate]) and opens it. Pass [mbr.NoPartition] for
// both if the image isn't partitioned.
func Open(image io.ReadSeeker, partition, subpartition int) (*FileSystem, error) {
	offset, err := mbr.Locate(image, partition, subpartition)
	if err != nil {
		return nil, err
	}
	return OpenAt(image, offset)
}

// OpenAt opens the file system starting `offset` bytes into the image.
func OpenAt(image io.ReadSeeker, offset int64) (*FileSystem, error) {
	if offset < 0 {
		return nil, errors.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("file system offset can't be negative: %d", offset))
	}

	superblockBytes, err := common.NewBlockStream(image, SuperblockOffset, offset).
		ReadBytes(SuperblockOffset, uint(rawSuperblockSize))
	if err != nil {
		return nil, err
	}

	superblock, err := DecodeSuperblock(superblockBytes)
	if err != nil {
		return nil, err
	}

	geometry := ComputeGeometry(superblock, offset)
	blocks := common.NewBlockStream(image, superblock.BlockSize, offset)
	zones, err := common.NewZoneStream(
		blocks, geometry.BlocksPerZone, uint(superblock.TotalZones))
	if err != nil {
		return nil, err
	}

	logrus.Debugf(
		"opened MINIX file system at offset %d: %d inodes, %d zones of %d bytes, inode table at %d",
		offset,
		superblock.NumInodes,
		superblock.TotalZones,
		geometry.ZoneSize,
		geometry.InodeTableOffset)

	return &FileSystem{
		superblock: superblock,
		geometry:   geometry,
		blocks:     blocks,
		zones:      zones,
	}, nil
}

func (driver *FileSystem) Superblock() Superblock {
	return driver.superblock
}

func (driver *FileSystem) Geometry() Geometry {
	return driver.geometry
}

// PartitionOffset gives the offset of the file system from the start of the
// image, in bytes.
func (driver *FileSystem) PartitionOffset() int64 {
	return driver.geometry.PartitionOffset
}

// Current returns the target found by the most recent successful call to
// ResolvePath, or nil.
func (driver *FileSystem) Current() *ResolvedTarget {
	return driver.current
}

// FSStat summarizes how much of the file system is in use, according to its
// bitmaps.
type FSStat struct {
	BlockSize      uint
	ZoneSize       uint
	TotalInodes    uint
	InodesInUse    uint
	TotalDataZones uint
	DataZonesInUse uint
}

func (stat FSStat) FreeInodes() uint {
	return stat.TotalInodes - stat.InodesInUse
}

func (stat FSStat) FreeDataZones() uint {
	return stat.TotalDataZones - stat.DataZonesInUse
}

// Stat reads the inode and zone bitmaps. Bit 0 of each is reserved; bit N of
// the zone bitmap is data zone FirstDataZone+N-1.
func (driver *FileSystem) Stat() (FSStat, error) {
	sb := driver.superblock
	stat := FSStat{
		BlockSize:   driver.geometry.BlockSize,
		ZoneSize:    driver.geometry.ZoneSize,
		TotalInodes: uint(sb.NumInodes),
	}
	if uint32(sb.FirstDataZone) < sb.TotalZones {
		stat.TotalDataZones = uint(sb.TotalZones - uint32(sb.FirstDataZone))
	}

	inodeMap, err := driver.readUsageMap(2, sb.InodeBitmapBlocks, stat.TotalInodes+1)
	if err != nil {
		return FSStat{}, err
	}
	zoneMap, err := driver.readUsageMap(
		2+sb.InodeBitmapBlocks, sb.ZoneBitmapBlocks, stat.TotalDataZones+1)
	if err != nil {
		return FSStat{}, err
	}

	stat.InodesInUse = inodeMap.CountAllocated(1)
	stat.DataZonesInUse = zoneMap.CountAllocated(1)
	return stat, nil
}

func (driver *FileSystem) readUsageMap(
	firstBlock, numBlocks uint, totalUnits uint,
) (common.UsageMap, error) {
	data, err := driver.blocks.Read(common.BlockID(firstBlock), numBlocks)
	if err != nil {
		return common.UsageMap{}, err
	}
	return common.NewUsageMapFromInUseBitmap(data, totalUnits)
}
