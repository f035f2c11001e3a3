package minix

import (
	"bytes"
	"encoding/binary"

	"github.com/dargueta/minfs/errors"
	"github.com/sirupsen/logrus"
)

const DirentSize = 64
const DirentNameSize = 60

type RawDirent struct {
	Inumber Inumber
	Name    [DirentNameSize]byte
}

func decodeDirent(data []byte) RawDirent {
	dirent := RawDirent{Inumber: Inumber(binary.LittleEndian.Uint32(data[:4]))}
	copy(dirent.Name[:], data[4:DirentSize])
	return dirent
}

// IsFree returns true if the slot doesn't hold an entry.
func (dirent RawDirent) IsFree() bool {
	return dirent.Inumber == 0
}

// NameBytes returns the stored name: everything up to the first null byte, or
// all 60 bytes if there isn't one.
func (dirent RawDirent) NameBytes() []byte {
	end := bytes.IndexByte(dirent.Name[:], 0)
	if end < 0 {
		end = DirentNameSize
	}
	return dirent.Name[:end]
}

func (dirent RawDirent) NameString() string {
	return string(dirent.NameBytes())
}

// HasName compares the stored name with `name` byte for byte. Only the first 60
// bytes of `name` are significant.
func (dirent RawDirent) HasName(name string) bool {
	target := []byte(name)
	if len(target) > DirentNameSize {
		target = target[:DirentNameSize]
	}
	return bytes.Equal(dirent.NameBytes(), target)
}

// direntScanner lazily yields the valid entries of a directory in on-disk
// order. Hole zones and free slots are skipped and don't count against the
// directory's nominal entry count, so the scan can run past the zones covered
// by the directory's size. It ends when the entry count is reached or the
// inode's zones run out.
//
//	scanner := driver.newDirentScanner(&dir)
//	for scanner.Scan() {
//		entry := scanner.Entry()
//		...
//	}
//	err := scanner.Err()
type direntScanner struct {
	driver    *FileSystem
	directory *Inode
	// remaining is how many more valid entries may be yielded.
	remaining uint64
	nextZone  uint64
	zoneLimit uint64
	// sizeZones is the number of zones covered by the directory's size.
	sizeZones uint64
	zoneData  []byte
	slot      int
	entry     RawDirent
	err       error
}

func (driver *FileSystem) newDirentScanner(directory *Inode) *direntScanner {
	size := uint64(directory.Size)
	zoneSize := uint64(driver.geometry.ZoneSize)
	return &direntScanner{
		driver:    driver,
		directory: directory,
		remaining: size / DirentSize,
		zoneLimit: driver.geometry.MaxFileZones(),
		sizeZones: (size + zoneSize - 1) / zoneSize,
	}
}

// loadNextZone reads the next non-hole zone of the directory. It returns false
// when there are no more zones or an error occurred.
func (scanner *direntScanner) loadNextZone() bool {
	for scanner.nextZone < scanner.zoneLimit {
		logical := uint32(scanner.nextZone)
		scanner.nextZone++

		zone, err := scanner.driver.ZoneNumberAt(scanner.directory, logical)
		if errors.KindOf(err) == errors.KindIndexOutOfRange {
			return false
		} else if err != nil {
			scanner.err = err
			return false
		}
		if zone == NoZone {
			if uint64(logical) < scanner.sizeZones {
				logrus.Debugf(
					"directory inode %d: logical zone %d is a hole",
					scanner.directory.InodeNumber,
					logical)
			}
			continue
		}

		data, err := scanner.driver.zones.Read(zone)
		if err != nil {
			scanner.err = err
			return false
		}
		scanner.zoneData = data
		scanner.slot = 0
		return true
	}
	return false
}

// Scan advances to the next valid entry. It returns false once the entry budget
// is used up, the directory's zones run out, or an error occurs.
func (scanner *direntScanner) Scan() bool {
	for scanner.remaining > 0 && scanner.err == nil {
		if scanner.slot+DirentSize > len(scanner.zoneData) {
			if !scanner.loadNextZone() {
				return false
			}
			continue
		}

		entry := decodeDirent(scanner.zoneData[scanner.slot:])
		scanner.slot += DirentSize
		if entry.IsFree() {
			logrus.Debugf(
				"directory inode %d: skipping free slot %d",
				scanner.directory.InodeNumber,
				scanner.slot/DirentSize-1)
			continue
		}

		scanner.remaining--
		scanner.entry = entry
		return true
	}
	return false
}

// Entry returns the entry found by the most recent successful call to Scan.
func (scanner *direntScanner) Entry() RawDirent {
	return scanner.entry
}

func (scanner *direntScanner) Err() error {
	return scanner.err
}
