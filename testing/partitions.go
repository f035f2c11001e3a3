package testing

import (
	"encoding/binary"
	"testing"

	"github.com/noxer/bytewriter"
	"github.com/stretchr/testify/require"
)

const SectorSize = 512
const MinixPartitionType = 0x81

// PartitionSpec describes one entry of a generated partition table.
type PartitionSpec struct {
	Bootable     bool
	Type         uint8
	FirstSector  uint32
	TotalSectors uint32
}

type partitionEntryLayout struct {
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

// WriteSignature overwrites the two signature bytes of the partition table at
// `tableOffset`.
func WriteSignature(image []byte, tableOffset int64, first, second byte) {
	image[tableOffset+510] = first
	image[tableOffset+511] = second
}

// WritePartitionTable writes a valid partition table at `tableOffset` with the
// given entries in slots 0, 1, ... Unused slots are zeroed.
func WritePartitionTable(
	t *testing.T, image []byte, tableOffset int64, partitions ...PartitionSpec,
) {
	require.LessOrEqual(t, len(partitions), 4, "a partition table has only 4 entries")
	require.GreaterOrEqual(t, int64(len(image)), tableOffset+SectorSize, "image too small")

	table := image[tableOffset+0x1BE : tableOffset+0x1BE+64]
	for i := range table {
		table[i] = 0
	}

	writer := bytewriter.New(table)
	for _, partition := range partitions {
		entry := partitionEntryLayout{
			Type:         partition.Type,
			FirstSector:  partition.FirstSector,
			TotalSectors: partition.TotalSectors,
		}
		if partition.Bootable {
			entry.BootIndicator = 0x80
		}
		require.NoError(t, binary.Write(writer, binary.LittleEndian, &entry))
	}
	WriteSignature(image, tableOffset, 0x55, 0xAA)
}

// WrapInPartitionTable puts `fsImage` in a new image as the MINIX partition in
// slot 0, starting at `firstSector`.
func WrapInPartitionTable(t *testing.T, fsImage []byte, firstSector uint32) []byte {
	require.Greater(t, firstSector, uint32(0), "partition would overwrite the table")

	start := int(firstSector) * SectorSize
	image := make([]byte, start+len(fsImage))
	copy(image[start:], fsImage)

	WritePartitionTable(
		t,
		image,
		0,
		PartitionSpec{
			Type:         MinixPartitionType,
			FirstSector:  firstSector,
			TotalSectors: uint32((len(fsImage) + SectorSize - 1) / SectorSize),
		},
	)
	return image
}
