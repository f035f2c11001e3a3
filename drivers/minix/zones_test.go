package minix_test

import (
	"testing"

	"github.com/dargueta/minfs/drivers/minix"
	"github.com/dargueta/minfs/errors"
	dt "github.com/dargueta/minfs/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// With 1 KiB blocks there are 256 zone numbers per table.
const zonesPerTable = 256
const firstDoubleIndirect = minix.NumDirectZones + zonesPerTable
const lastLogicalZone = firstDoubleIndirect + zonesPerTable*zonesPerTable - 1

func sequentialTable(base uint32) []uint32 {
	table := make([]uint32, zonesPerTable)
	for i := range table {
		table[i] = base + uint32(i)
	}
	return table
}

// buildZoneTables creates inode 2 with every tier populated. Zone numbers in the
// leaf tables are fake; ZoneNumberAt never reads the zones they point to.
func buildZoneTables(t *testing.T) []byte {
	builder := dt.NewDefaultImageBuilder(t)
	indirect := builder.AllocateZone()
	double := builder.AllocateZone()
	inner0 := builder.AllocateZone()
	inner2 := builder.AllocateZone()

	indirectTable := sequentialTable(1000)
	indirectTable[5] = 0
	builder.WriteZoneTable(indirect, indirectTable)

	outer := make([]uint32, zonesPerTable)
	outer[0] = inner0
	outer[2] = inner2
	builder.WriteZoneTable(double, outer)
	builder.WriteZoneTable(inner0, sequentialTable(2000))
	builder.WriteZoneTable(inner2, sequentialTable(3000))

	builder.SetInode(2, dt.Inode{
		Mode:           dt.ModeRegular | 0o644,
		Links:          1,
		Size:           0x7fffffff,
		Zones:          [7]uint32{11, 12, 13, 0, 15, 16, 17},
		Indirect:       indirect,
		DoubleIndirect: double,
	})
	builder.SetInode(3, dt.Inode{
		Mode:  dt.ModeRegular | 0o644,
		Links: 1,
		Size:  0x7fffffff,
		Zones: [7]uint32{21, 22, 23, 24, 25, 26, 27},
	})
	return builder.Bytes()
}

func TestZoneNumberAt__AllTiers(t *testing.T) {
	driver := openImage(t, buildZoneTables(t))
	inode, err := driver.ReadInode(2)
	require.NoError(t, err)

	tests := []struct {
		Logical  uint32
		Expected minix.Zone
	}{
		{0, 11},
		{3, 0},
		{6, 17},
		{7, 1000},
		{7 + 5, 0},
		{7 + 255, 1255},
		{firstDoubleIndirect, 2000},
		{firstDoubleIndirect + 255, 2255},
		// outer[1] is a hole.
		{firstDoubleIndirect + 256, 0},
		{firstDoubleIndirect + 2*256, 3000},
		{firstDoubleIndirect + 2*256 + 17, 3017},
		{lastLogicalZone, 0},
	}

	for _, test := range tests {
		zone, err := driver.ZoneNumberAt(&inode, test.Logical)
		if assert.NoError(t, err, "logical zone %d", test.Logical) {
			assert.EqualValues(t, test.Expected, zone, "logical zone %d", test.Logical)
		}
	}
}

func TestZoneNumberAt__PastDoubleIndirect(t *testing.T) {
	driver := openImage(t, buildZoneTables(t))
	inode, err := driver.ReadInode(2)
	require.NoError(t, err)

	_, err = driver.ZoneNumberAt(&inode, lastLogicalZone+1)
	assert.ErrorIs(t, err, errors.ErrIndexOutOfRange)

	_, err = driver.ZoneNumberAt(&inode, 0xFFFFFFFF)
	assert.ErrorIs(t, err, errors.ErrIndexOutOfRange)
}

func TestZoneNumberAt__HolesDoNoIO(t *testing.T) {
	stream := &countingStream{ReadSeeker: dt.NewImageStream(buildZoneTables(t))}
	driver, err := minix.OpenAt(stream, 0)
	require.NoError(t, err)

	inode, err := driver.ReadInode(3)
	require.NoError(t, err)
	stream.reads = 0

	for _, logical := range []uint32{7, 100, firstDoubleIndirect, lastLogicalZone, lastLogicalZone + 1} {
		zone, err := driver.ZoneNumberAt(&inode, logical)
		require.NoError(t, err, "logical zone %d", logical)
		assert.EqualValues(t, minix.NoZone, zone, "logical zone %d", logical)
	}
	assert.Zero(t, stream.reads, "resolving through empty tiers should not read the image")
	assert.EqualValues(t, 23, inode.Zones[2])
}

func TestZoneNumberAt__TableOutsideFileSystem(t *testing.T) {
	builder := dt.NewDefaultImageBuilder(t)
	builder.SetInode(2, dt.Inode{
		Mode:     dt.ModeRegular | 0o644,
		Size:     20 * 1024,
		Indirect: 5000,
	})
	driver := openImage(t, builder.Bytes())

	inode, err := driver.ReadInode(2)
	require.NoError(t, err)
	_, err = driver.ZoneNumberAt(&inode, 8)
	assert.ErrorIs(t, err, errors.ErrFileSystemCorrupted)
}
