package testing

import (
	"encoding/binary"
	"testing"

	"github.com/boljen/go-bitmap"
	"github.com/noxer/bytewriter"
	"github.com/stretchr/testify/require"
)

// These mirror the on-disk MINIX V1 layout. They're declared again here rather
// than imported so that fixtures don't depend on the decoder they're testing.
const MinixMagic = 0x4D5A
const InodeSize = 64
const DirentSize = 64
const DirentNameSize = 60
const NumDirectZones = 7
const RootInode = 1

const ModeRegular = 0o100000
const ModeDirectory = 0o040000

// DefaultTimestamp is used for all three timestamps of generated inodes.
const DefaultTimestamp = 1_000_000_000

// Inode is a MINIX inode in its on-disk field order.
type Inode struct {
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

// Dirent is a directory entry to write into a directory's data. An Inumber of
// 0 writes a free slot.
type Dirent struct {
	Inumber uint32
	Name    string
}

type superblockLayout struct {
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

type direntLayout struct {
	Inumber uint32
	Name    [DirentNameSize]byte
}

// ImageBuilder assembles a MINIX V1 file system image in memory. Fields other
// than the image contents may be changed before calling [ImageBuilder.Bytes] to
// produce deliberately broken superblocks.
//
// Zones are handed out sequentially starting from the first data zone, so the
// physical layout of a fixture is deterministic.
type ImageBuilder struct {
	BlockSize         uint16
	LogZoneSize       int16
	NumInodes         uint32
	TotalZones        uint32
	InodeBitmapBlocks int16
	ZoneBitmapBlocks  int16
	FirstDataZone     uint16
	MaxFileSize       uint32
	Magic             uint16
	image             []byte
	nextZone          uint32
	t                 *testing.T
}

func ceilDiv(numerator, denominator uint32) uint32 {
	return (numerator + denominator - 1) / denominator
}

// NewImageBuilder creates an empty file system with room for `numInodes` inodes
// and `totalZones` zones, counting the zones used by the boot block, superblock,
// bitmaps and inode table.
func NewImageBuilder(
	t *testing.T, blockSize uint16, logZoneSize int16, numInodes, totalZones uint32,
) *ImageBuilder {
	bitsPerBlock := uint32(blockSize) * 8
	imapBlocks := ceilDiv(numInodes+1, bitsPerBlock)
	zmapBlocks := ceilDiv(totalZones+1, bitsPerBlock)
	inodeTableBlocks := ceilDiv(numInodes*InodeSize, uint32(blockSize))
	blocksPerZone := uint32(1) << logZoneSize
	zoneSize := uint32(blockSize) * blocksPerZone

	firstDataBlock := 2 + imapBlocks + zmapBlocks + inodeTableBlocks
	firstDataZone := ceilDiv(firstDataBlock, blocksPerZone)
	require.Lessf(
		t,
		firstDataZone,
		totalZones,
		"%d zones isn't enough to hold the metadata (%d blocks of %d bytes)",
		totalZones,
		firstDataBlock,
		blockSize,
	)

	zonesPerBlock := uint64(blockSize / 4)
	maxFileSize := (NumDirectZones + zonesPerBlock + zonesPerBlock*zonesPerBlock) * uint64(zoneSize)
	if maxFileSize > 0x7fffffff {
		maxFileSize = 0x7fffffff
	}

	return &ImageBuilder{
		BlockSize:         blockSize,
		LogZoneSize:       logZoneSize,
		NumInodes:         numInodes,
		TotalZones:        totalZones,
		InodeBitmapBlocks: int16(imapBlocks),
		ZoneBitmapBlocks:  int16(zmapBlocks),
		FirstDataZone:     uint16(firstDataZone),
		MaxFileSize:       uint32(maxFileSize),
		Magic:             MinixMagic,
		image:             make([]byte, totalZones*zoneSize),
		nextZone:          firstDataZone,
		t:                 t,
	}
}

// NewDefaultImageBuilder creates a builder for a 1 KiB block, 1 KiB zone file
// system with 64 inodes and 256 zones.
func NewDefaultImageBuilder(t *testing.T) *ImageBuilder {
	return NewImageBuilder(t, 1024, 0, 64, 256)
}

func (b *ImageBuilder) ZoneSize() uint32 {
	return uint32(b.BlockSize) << b.LogZoneSize
}

func (b *ImageBuilder) ZonesPerBlock() uint32 {
	return uint32(b.BlockSize) / 4
}

func (b *ImageBuilder) InodeTableOffset() uint32 {
	return (2 + uint32(b.InodeBitmapBlocks) + uint32(b.ZoneBitmapBlocks)) * uint32(b.BlockSize)
}

func (b *ImageBuilder) bitmapView(firstBlock uint32, numBlocks int16) bitmap.Bitmap {
	start := firstBlock * uint32(b.BlockSize)
	end := start + uint32(numBlocks)*uint32(b.BlockSize)
	return bitmap.Bitmap(b.image[start:end])
}

func (b *ImageBuilder) inodeBitmap() bitmap.Bitmap {
	return b.bitmapView(2, b.InodeBitmapBlocks)
}

func (b *ImageBuilder) zoneBitmap() bitmap.Bitmap {
	return b.bitmapView(2+uint32(b.InodeBitmapBlocks), b.ZoneBitmapBlocks)
}

// AllocateZone reserves the next unused zone and marks it in the zone bitmap.
func (b *ImageBuilder) AllocateZone() uint32 {
	require.Lessf(b.t, b.nextZone, b.TotalZones, "fixture ran out of zones")
	zone := b.nextZone
	b.nextZone++
	b.zoneBitmap().Set(int(zone-uint32(b.FirstDataZone)+1), true)
	return zone
}

// WriteZone copies `data` to the beginning of `zone`.
func (b *ImageBuilder) WriteZone(zone uint32, data []byte) {
	require.LessOrEqual(b.t, uint32(len(data)), b.ZoneSize(), "data is bigger than a zone")
	require.Less(b.t, zone, b.TotalZones, "zone is out of bounds")
	copy(b.image[zone*b.ZoneSize():], data)
}

// WriteZoneTable writes `entries` as little-endian zone numbers to the first
// block of `zone`.
func (b *ImageBuilder) WriteZoneTable(zone uint32, entries []uint32) {
	require.LessOrEqual(b.t, uint32(len(entries)), b.ZonesPerBlock(), "zone table too long")
	start := zone * b.ZoneSize()
	writer := bytewriter.New(b.image[start : start+uint32(b.BlockSize)])
	require.NoError(b.t, binary.Write(writer, binary.LittleEndian, entries))
}

// SetInode writes inode number `inumber` and marks it allocated.
func (b *ImageBuilder) SetInode(inumber uint32, inode Inode) {
	require.GreaterOrEqual(b.t, inumber, uint32(1), "inode numbers start at 1")
	require.LessOrEqual(b.t, inumber, b.NumInodes, "inode number is out of bounds")

	start := b.InodeTableOffset() + (inumber-1)*InodeSize
	writer := bytewriter.New(b.image[start : start+InodeSize])
	require.NoError(b.t, binary.Write(writer, binary.LittleEndian, &inode))
	b.inodeBitmap().Set(int(inumber), true)
}

// AddFileZones creates an inode whose logical zone `i` holds `chunks[i]`. A nil
// chunk leaves a hole. Indirect and double indirect tables are allocated as
// needed.
func (b *ImageBuilder) AddFileZones(
	inumber uint32, mode uint16, size uint32, chunks [][]byte,
) Inode {
	inode := Inode{
		Mode:         mode,
		Links:        1,
		Size:         size,
		AccessTime:   DefaultTimestamp,
		ModifiedTime: DefaultTimestamp,
		ChangedTime:  DefaultTimestamp,
	}

	zonesPerBlock := b.ZonesPerBlock()
	var indirectTable []uint32
	var outerTable []uint32
	innerTables := map[uint32][]uint32{}

	for i, chunk := range chunks {
		if chunk == nil {
			continue
		}
		zone := b.AllocateZone()
		b.WriteZone(zone, chunk)

		logical := uint32(i)
		switch {
		case logical < NumDirectZones:
			inode.Zones[logical] = zone
		case logical < NumDirectZones+zonesPerBlock:
			if indirectTable == nil {
				indirectTable = make([]uint32, zonesPerBlock)
				inode.Indirect = b.AllocateZone()
			}
			indirectTable[logical-NumDirectZones] = zone
		default:
			relative := logical - NumDirectZones - zonesPerBlock
			outerIndex := relative / zonesPerBlock
			require.Less(b.t, outerIndex, zonesPerBlock, "file is too big for MINIX V1")

			if outerTable == nil {
				outerTable = make([]uint32, zonesPerBlock)
				inode.DoubleIndirect = b.AllocateZone()
			}
			if outerTable[outerIndex] == 0 {
				outerTable[outerIndex] = b.AllocateZone()
				innerTables[outerIndex] = make([]uint32, zonesPerBlock)
			}
			innerTables[outerIndex][relative%zonesPerBlock] = zone
		}
	}

	if indirectTable != nil {
		b.WriteZoneTable(inode.Indirect, indirectTable)
	}
	if outerTable != nil {
		b.WriteZoneTable(inode.DoubleIndirect, outerTable)
		for outerIndex, table := range innerTables {
			b.WriteZoneTable(outerTable[outerIndex], table)
		}
	}

	b.SetInode(inumber, inode)
	return inode
}

// SplitIntoZones cuts `data` into zone-sized chunks. The last one may be short.
func (b *ImageBuilder) SplitIntoZones(data []byte) [][]byte {
	zoneSize := int(b.ZoneSize())
	chunks := make([][]byte, 0, (len(data)+zoneSize-1)/zoneSize)
	for start := 0; start < len(data); start += zoneSize {
		end := start + zoneSize
		if end > len(data) {
			end = len(data)
		}
		chunks = append(chunks, data[start:end])
	}
	return chunks
}

// AddRegularFile creates a regular file with permission bits `perm`.
func (b *ImageBuilder) AddRegularFile(inumber uint32, perm uint16, contents []byte) Inode {
	return b.AddFileZones(
		inumber, ModeRegular|perm, uint32(len(contents)), b.SplitIntoZones(contents))
}

// AddDirectory creates a directory holding `entries` in the given order. Its
// size covers the entries exactly; free slots count toward it.
func (b *ImageBuilder) AddDirectory(inumber uint32, perm uint16, entries []Dirent) Inode {
	data := EncodeDirents(b.t, entries)
	inode := b.AddFileZones(
		inumber, ModeDirectory|perm, uint32(len(data)), b.SplitIntoZones(data))
	inode.Links = 2
	b.SetInode(inumber, inode)
	return inode
}

// EncodeDirents serializes directory entries in on-disk form. Names of exactly
// 60 bytes are stored without a terminating null.
func EncodeDirents(t *testing.T, entries []Dirent) []byte {
	data := make([]byte, len(entries)*DirentSize)
	writer := bytewriter.New(data)

	for _, entry := range entries {
		require.LessOrEqualf(
			t, len(entry.Name), DirentNameSize, "name %q is too long", entry.Name)

		raw := direntLayout{Inumber: entry.Inumber}
		copy(raw.Name[:], entry.Name)
		require.NoError(t, binary.Write(writer, binary.LittleEndian, &raw))
	}
	return data
}

// Bytes writes the superblock and reserved bitmap bits, and returns the image.
// The returned slice is shared with the builder.
func (b *ImageBuilder) Bytes() []byte {
	b.inodeBitmap().Set(0, true)
	b.zoneBitmap().Set(0, true)

	superblock := superblockLayout{
		NumInodes:         b.NumInodes,
		InodeBitmapBlocks: b.InodeBitmapBlocks,
		ZoneBitmapBlocks:  b.ZoneBitmapBlocks,
		FirstDataZone:     b.FirstDataZone,
		LogZoneSize:       b.LogZoneSize,
		MaxFileSize:       b.MaxFileSize,
		TotalZones:        b.TotalZones,
		Magic:             b.Magic,
		BlockSize:         b.BlockSize,
	}
	writer := bytewriter.New(b.image[1024 : 1024+binary.Size(superblock)])
	require.NoError(b.t, binary.Write(writer, binary.LittleEndian, &superblock))
	return b.image
}
