// Package common contains the byte-level access layer shared by the partition
// and file system drivers: positioned reads against an image, zone addressing,
// and allocation bitmaps.
package common

type BlockID uint

// ZoneID is the number of a physical zone. Zone 0 never holds data; file
// systems use it to mark a hole.
type ZoneID uint32

type UnitID uint32
