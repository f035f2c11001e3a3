// Package mbr finds MINIX partitions inside images carrying an MBR-style
// partition table, including tables nested one level deep inside a partition.
package mbr

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	c "github.com/dargueta/minfs/drivers/common"
	"github.com/dargueta/minfs/errors"
	"github.com/sirupsen/logrus"
)

const SectorSize = 512

// TableStart is the offset of the first partition entry from the start of the
// sector holding the table.
const TableStart = 0x1BE
const EntrySize = 16
const NumEntries = 4
const SignatureOffset = 510

// MinixPartitionType is the partition type byte MINIX uses for its own
// partitions and sub-partitions.
const MinixPartitionType = 0x81

// NoPartition selects the whole image, for images without a partition table.
const NoPartition = -1

var Signature = [2]byte{0x55, 0xAA}

// RawPartitionEntry is a partition table entry exactly as it's stored on disk.
// The CHS fields are carried but never interpreted.
type RawPartitionEntry struct {
	BootIndicator uint8
	StartHead     uint8
	StartSector   uint8
	StartCylinder uint8
	Type          uint8
	EndHead       uint8
	EndSector     uint8
	EndCylinder   uint8
	FirstSector   uint32
	TotalSectors  uint32
}

// IsMinix returns true if the entry has the MINIX partition type.
func (entry *RawPartitionEntry) IsMinix() bool {
	return entry.Type == MinixPartitionType
}

// Offset gives the byte offset of the partition from the start of the image.
func (entry *RawPartitionEntry) Offset() int64 {
	return int64(entry.FirstSector) * SectorSize
}

// Size gives the size of the partition, in bytes.
func (entry *RawPartitionEntry) Size() int64 {
	return int64(entry.TotalSectors) * SectorSize
}

// ClassifySignature checks the two signature bytes at the end of a partition
// table sector. A byte-swapped signature gets its own error so that endianness
// problems can be told apart from images that aren't partitioned at all.
func ClassifySignature(first, second byte) error {
	switch {
	case first == Signature[0] && second == Signature[1]:
		return nil
	case first == Signature[1] && second == Signature[0]:
		return errors.ErrReversedPartitionSignature.WithMessage(
			fmt.Sprintf("got %02x %02x", first, second))
	default:
		return errors.ErrBadPartitionSignature.WithMessage(
			fmt.Sprintf("expected %02x %02x, got %02x %02x",
				Signature[0], Signature[1], first, second))
	}
}

// ValidateSignature reads and checks the signature of the partition table at
// `tableOffset` bytes from the start of the image.
func ValidateSignature(image io.ReadSeeker, tableOffset int64) error {
	stream := c.NewBasicBlockStream(image)
	signature, err := stream.ReadBytes(tableOffset+SignatureOffset, 2)
	if err != nil {
		return err
	}
	return ClassifySignature(signature[0], signature[1])
}

// ReadPartitionEntry reads entry `index` of the partition table at
// `tableOffset`. It doesn't validate the table's signature.
func ReadPartitionEntry(
	image io.ReadSeeker, tableOffset int64, index int,
) (RawPartitionEntry, error) {
	if index < 0 || index >= NumEntries {
		return RawPartitionEntry{}, errors.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("invalid partition index %d: not in range [0, %d)", index, NumEntries))
	}

	stream := c.NewBasicBlockStream(image)
	entryBytes, err := stream.ReadBytes(
		tableOffset+TableStart+int64(index*EntrySize), EntrySize)
	if err != nil {
		return RawPartitionEntry{}, err
	}

	var entry RawPartitionEntry
	err = binary.Read(bytes.NewReader(entryBytes), binary.LittleEndian, &entry)
	if err != nil {
		return RawPartitionEntry{}, errors.ErrIOFailed.Wrap(err)
	}
	return entry, nil
}

// ReadPartitionTable validates the table at `tableOffset` and returns all of its
// entries, used or not.
func ReadPartitionTable(
	image io.ReadSeeker, tableOffset int64,
) ([NumEntries]RawPartitionEntry, error) {
	var table [NumEntries]RawPartitionEntry

	err := ValidateSignature(image, tableOffset)
	if err != nil {
		return table, err
	}

	for i := range table {
		table[i], err = ReadPartitionEntry(image, tableOffset, i)
		if err != nil {
			return table, err
		}
	}
	return table, nil
}

// findMinixPartition validates the table at `tableOffset` and returns the byte
// offset of its MINIX partition at `index`.
func findMinixPartition(image io.ReadSeeker, tableOffset int64, index int) (int64, error) {
	err := ValidateSignature(image, tableOffset)
	if err != nil {
		return 0, err
	}

	entry, err := ReadPartitionEntry(image, tableOffset, index)
	if err != nil {
		return 0, err
	}
	if !entry.IsMinix() {
		return 0, errors.ErrNotMinixPartition.WithMessage(
			fmt.Sprintf(
				"partition %d of the table at offset %d has type 0x%02x, expected 0x%02x",
				index,
				tableOffset,
				entry.Type,
				MinixPartitionType))
	}

	logrus.Debugf(
		"partition %d of table at %d: MINIX, sectors [%d, %d)",
		index,
		tableOffset,
		entry.FirstSector,
		uint64(entry.FirstSector)+uint64(entry.TotalSectors))
	return entry.Offset(), nil
}

// Locate gives the byte offset of the file system selected by `partition`
// and `subpartition`.
//
//   - If `partition` is [NoPartition], the image is an unpartitioned file
//     system and the offset is 0.
//   - Otherwise the partition table at the start of the image is validated and
//     the MINIX partition at index `partition` is selected.
//   - If `subpartition` is not [NoPartition], the same is done again with the
//     table at the start of the selected partition.
func Locate(image io.ReadSeeker, partition, subpartition int) (int64, error) {
	if partition == NoPartition {
		if subpartition != NoPartition {
			return 0, errors.ErrInvalidArgument.WithMessage(
				"a subpartition can't be selected without a partition")
		}
		return 0, nil
	}

	offset, err := findMinixPartition(image, 0, partition)
	if err != nil {
		return 0, err
	}
	if subpartition == NoPartition {
		return offset, nil
	}
	return findMinixPartition(image, offset, subpartition)
}
