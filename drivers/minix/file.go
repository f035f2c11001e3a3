package minix

import (
	"fmt"
	"io"

	"github.com/dargueta/minfs/errors"
	"github.com/sirupsen/logrus"
)

// CopyContents writes the contents of a regular file to `sink` one zone at a
// time, truncating the last zone to the size of the file. Holes are skipped:
// nothing is written for them, so a file with holes yields fewer bytes than its
// size.
//
// The returned int64 gives the number of bytes written to the sink.
func (driver *FileSystem) CopyContents(inode Inode, sink io.Writer) (int64, error) {
	if !inode.IsRegular() {
		return 0, errors.ErrNotARegularFile.WithMessage(
			fmt.Sprintf("inode %d has mode %06o", inode.InodeNumber, inode.ModeFlags))
	}

	zoneSize := int64(driver.geometry.ZoneSize)
	fullZones := inode.Size / zoneSize
	remainder := inode.Size % zoneSize
	totalWritten := int64(0)

	for i := int64(0); i <= fullZones; i++ {
		chunkSize := zoneSize
		if i == fullZones {
			chunkSize = remainder
		}
		if chunkSize == 0 {
			continue
		}

		zone, err := driver.ZoneNumberAt(&inode, uint32(i))
		if err != nil {
			return totalWritten, err
		}
		if zone == NoZone {
			logrus.Debugf("inode %d: skipping hole at logical zone %d", inode.InodeNumber, i)
			continue
		}

		data, err := driver.zones.Read(zone)
		if err != nil {
			return totalWritten, err
		}

		n, err := sink.Write(data[:chunkSize])
		totalWritten += int64(n)
		if err != nil {
			return totalWritten, errors.ErrIOFailed.Wrap(err)
		}
	}
	return totalWritten, nil
}

// CopyFileContents copies the file a previous call to ResolvePath found.
func (driver *FileSystem) CopyFileContents(target *ResolvedTarget, sink io.Writer) (int64, error) {
	if target == nil {
		return 0, errors.ErrInvalidArgument.WithMessage("no target to copy")
	}
	n, err := driver.CopyContents(target.Inode, sink)
	if errors.KindOf(err) == errors.KindNotARegularFile {
		return n, errors.ErrNotARegularFile.WithMessage(
			fmt.Sprintf("can't copy %q", target.PathString()))
	}
	return n, err
}
