package minix_test

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/dargueta/minfs/drivers/minix"
	"github.com/dargueta/minfs/errors"
	dt "github.com/dargueta/minfs/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeSuperblock(t *testing.T, raw minix.RawSuperblock) []byte {
	var buffer bytes.Buffer
	require.NoError(t, binary.Write(&buffer, binary.LittleEndian, &raw))
	return buffer.Bytes()
}

func validRawSuperblock() minix.RawSuperblock {
	return minix.RawSuperblock{
		NumInodes:         64,
		InodeBitmapBlocks: 1,
		ZoneBitmapBlocks:  1,
		FirstDataZone:     8,
		LogZoneSize:       0,
		MaxFileSize:       0x10081C00,
		TotalZones:        256,
		Magic:             minix.Magic,
		BlockSize:         1024,
	}
}

func TestClassifyMagic(t *testing.T) {
	assert.NoError(t, minix.ClassifyMagic(0x4D5A))
	assert.ErrorIs(t, minix.ClassifyMagic(0x5A4D), errors.ErrReversedSuperblockMagic)
	assert.ErrorIs(t, minix.ClassifyMagic(0x137F), errors.ErrBadSuperblockMagic)
	assert.ErrorIs(t, minix.ClassifyMagic(0), errors.ErrBadSuperblockMagic)
	assert.NotErrorIs(t, minix.ClassifyMagic(0x5A4D), errors.ErrBadSuperblockMagic)
}

func TestRawSuperblockSize(t *testing.T) {
	assert.Equal(t, 31, binary.Size(minix.RawSuperblock{}))
	assert.Equal(t, minix.InodeSize, binary.Size(minix.RawInode{}))
}

func TestDecodeSuperblock__Valid(t *testing.T) {
	superblock, err := minix.DecodeSuperblock(encodeSuperblock(t, validRawSuperblock()))
	require.NoError(t, err)

	assert.EqualValues(t, 64, superblock.NumInodes)
	assert.EqualValues(t, 1, superblock.InodeBitmapBlocks)
	assert.EqualValues(t, 1, superblock.ZoneBitmapBlocks)
	assert.EqualValues(t, 8, superblock.FirstDataZone)
	assert.EqualValues(t, 256, superblock.TotalZones)
	assert.EqualValues(t, 1024, superblock.BlockSize)
	assert.EqualValues(t, 0x10081C00, superblock.MaxFileSize)
}

func TestDecodeSuperblock__Invalid(t *testing.T) {
	tests := []struct {
		Name     string
		Modify   func(raw *minix.RawSuperblock)
		Expected error
	}{
		{"bad magic", func(raw *minix.RawSuperblock) { raw.Magic = 0x2468 }, errors.ErrBadSuperblockMagic},
		{"reversed magic", func(raw *minix.RawSuperblock) { raw.Magic = 0x5A4D }, errors.ErrReversedSuperblockMagic},
		{"zero block size", func(raw *minix.RawSuperblock) { raw.BlockSize = 0 }, errors.ErrFileSystemCorrupted},
		{"odd block size", func(raw *minix.RawSuperblock) { raw.BlockSize = 1000 }, errors.ErrFileSystemCorrupted},
		{"negative log zone size", func(raw *minix.RawSuperblock) { raw.LogZoneSize = -1 }, errors.ErrFileSystemCorrupted},
		{"huge log zone size", func(raw *minix.RawSuperblock) { raw.LogZoneSize = 16 }, errors.ErrFileSystemCorrupted},
		{"negative bitmap", func(raw *minix.RawSuperblock) { raw.ZoneBitmapBlocks = -3 }, errors.ErrFileSystemCorrupted},
		{
			// Magic is checked first, so garbage elsewhere doesn't matter.
			"bad magic and block size",
			func(raw *minix.RawSuperblock) { raw.Magic = 0; raw.BlockSize = 0 },
			errors.ErrBadSuperblockMagic,
		},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			raw := validRawSuperblock()
			test.Modify(&raw)
			_, err := minix.DecodeSuperblock(encodeSuperblock(t, raw))
			assert.ErrorIs(t, err, test.Expected)
		})
	}
}

func TestDecodeSuperblock__TooShort(t *testing.T) {
	_, err := minix.DecodeSuperblock(make([]byte, 30))
	assert.ErrorIs(t, err, errors.ErrInvalidArgument)
}

func TestComputeGeometry(t *testing.T) {
	for _, blockSize := range []uint{1024, 2048, 4096, 8192} {
		for logZoneSize := uint(0); logZoneSize < 4; logZoneSize++ {
			superblock := minix.Superblock{
				BlockSize:         blockSize,
				LogZoneSize:       logZoneSize,
				InodeBitmapBlocks: 1,
				ZoneBitmapBlocks:  2,
				FirstDataZone:     10,
			}
			geometry := minix.ComputeGeometry(superblock, 512)

			zoneSize := blockSize * (1 << logZoneSize)
			assert.EqualValues(t, zoneSize, geometry.ZoneSize)
			assert.EqualValues(t, 1<<logZoneSize, geometry.BlocksPerZone)
			assert.EqualValues(t, blockSize/4, geometry.ZonesPerBlock)
			assert.EqualValues(t, zoneSize/64, geometry.DirentsPerZone)
			assert.EqualValues(t, 512+5*int64(blockSize), geometry.InodeTableOffset)
			assert.EqualValues(t, 512+10*int64(zoneSize), geometry.DataZoneOffset)
			assert.EqualValues(t, 512, geometry.PartitionOffset)

			zonesPerBlock := uint64(blockSize / 4)
			assert.Equal(t, 7+zonesPerBlock+zonesPerBlock*zonesPerBlock, geometry.MaxFileZones())
		}
	}
}

func TestOpenAt__MagicMismatch(t *testing.T) {
	builder := dt.NewDefaultImageBuilder(t)
	builder.Magic = 0x5A4D
	_, err := minix.OpenAt(dt.NewImageStream(builder.Bytes()), 0)
	assert.ErrorIs(t, err, errors.ErrReversedSuperblockMagic)

	builder.Magic = 0x137F
	_, err = minix.OpenAt(dt.NewImageStream(builder.Bytes()), 0)
	assert.ErrorIs(t, err, errors.ErrBadSuperblockMagic)
}

func TestOpenAt__ImageTooSmall(t *testing.T) {
	_, err := minix.OpenAt(dt.NewImageStream(make([]byte, 1030)), 0)
	assert.ErrorIs(t, err, errors.ErrIOFailed)
}

func TestOpenAt__NegativeOffset(t *testing.T) {
	_, err := minix.OpenAt(dt.NewImageStream(make([]byte, 4096)), -1)
	assert.ErrorIs(t, err, errors.ErrInvalidArgument)
}

func TestOpenAt__Geometry(t *testing.T) {
	builder := dt.NewImageBuilder(t, 1024, 1, 64, 128)
	driver := openImage(t, builder.Bytes())

	geometry := driver.Geometry()
	assert.EqualValues(t, 2048, geometry.ZoneSize)
	assert.EqualValues(t, 256, geometry.ZonesPerBlock)
	assert.EqualValues(t, 32, geometry.DirentsPerZone)
	assert.EqualValues(t, builder.InodeTableOffset(), geometry.InodeTableOffset)
	assert.EqualValues(t, int64(builder.FirstDataZone)*2048, geometry.DataZoneOffset)
	assert.EqualValues(t, 0, driver.PartitionOffset())
	assert.EqualValues(t, 128, driver.Superblock().TotalZones)
}
