package minix

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/dargueta/minfs"
	"github.com/dargueta/minfs/drivers/common"
	"github.com/dargueta/minfs/errors"
)

type Inumber uint32

// Zone is a physical zone number. [NoZone] marks a hole.
type Zone = common.ZoneID

const NoZone Zone = 0

const RootInumber Inumber = 1
const InodeSize = 64
const NumDirectZones = 7

type RawInode struct {
	Mode           uint16
	Links          uint16
	UID            uint16
	GID            uint16
	Size           uint32
	AccessTime     int32
	ModifiedTime   int32
	ChangedTime    int32
	Zones          [NumDirectZones]uint32
	Indirect       uint32
	DoubleIndirect uint32
	Unused         uint32
}

type Inode struct {
	minfs.FileStat
	Zones          [NumDirectZones]Zone
	Indirect       Zone
	DoubleIndirect Zone
}

func RawInodeToInode(inumber Inumber, raw RawInode) Inode {
	inode := Inode{
		FileStat: minfs.FileStat{
			InodeNumber:  uint32(inumber),
			ModeFlags:    raw.Mode,
			Nlinks:       raw.Links,
			Uid:          raw.UID,
			Gid:          raw.GID,
			Size:         int64(raw.Size),
			LastAccessed: time.Unix(int64(raw.AccessTime), 0),
			LastModified: time.Unix(int64(raw.ModifiedTime), 0),
			LastChanged:  time.Unix(int64(raw.ChangedTime), 0),
		},
		Indirect:       Zone(raw.Indirect),
		DoubleIndirect: Zone(raw.DoubleIndirect),
	}
	for i, zone := range raw.Zones {
		inode.Zones[i] = Zone(zone)
	}
	return inode
}

func (inode *Inode) Inumber() Inumber {
	return Inumber(inode.InodeNumber)
}

// Permissions renders the mode of the inode, e.g. "drwxr-xr-x".
func (inode *Inode) Permissions() string {
	return minfs.PermissionString(inode.ModeFlags)
}

// ReadInode reads inode `inumber` from the inode table. Inode numbers start at
// 1.
func (driver *FileSystem) ReadInode(inumber Inumber) (Inode, error) {
	if inumber == 0 {
		return Inode{}, errors.ErrInvalidArgument.WithMessage("inode 0 doesn't exist")
	}
	if uint32(inumber) > driver.superblock.NumInodes {
		return Inode{}, errors.ErrFileSystemCorrupted.WithMessage(
			fmt.Sprintf(
				"invalid inode %d: not in range [1, %d]",
				inumber,
				driver.superblock.NumInodes))
	}

	tableStart := driver.geometry.InodeTableOffset - driver.geometry.PartitionOffset
	data, err := driver.blocks.ReadBytes(
		tableStart+int64(inumber-1)*InodeSize, InodeSize)
	if err != nil {
		return Inode{}, err
	}

	var raw RawInode
	err = binary.Read(bytes.NewReader(data), binary.LittleEndian, &raw)
	if err != nil {
		return Inode{}, errors.ErrIOFailed.Wrap(err)
	}
	return RawInodeToInode(inumber, raw), nil
}
