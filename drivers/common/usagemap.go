// Allocation bitmaps

package common

import (
	"fmt"

	"github.com/boljen/go-bitmap"
	"github.com/dargueta/minfs/errors"
)

// UsageMap is a read-only view of an on-disk bitmap where a set bit means the
// corresponding unit (inode, zone...) is in use. Bit 0 is the least significant
// bit of the first byte.
type UsageMap struct {
	AllocationBitmap bitmap.Bitmap
	TotalUnits       uint
}

// NewUsageMapFromInUseBitmap creates a usage map covering the first
// `totalUnits` bits of `inUseMap`. The bitmap is copied.
func NewUsageMapFromInUseBitmap(inUseMap []byte, totalUnits uint) (UsageMap, error) {
	if totalUnits > uint(len(inUseMap))*8 {
		return UsageMap{}, errors.ErrFileSystemCorrupted.WithMessage(
			fmt.Sprintf(
				"bitmap of %d bytes can't track %d units",
				len(inUseMap),
				totalUnits))
	}

	bitmapBuf := make([]byte, len(inUseMap))
	copy(bitmapBuf, inUseMap)
	return UsageMap{
		AllocationBitmap: bitmap.Bitmap(bitmapBuf),
		TotalUnits:       totalUnits,
	}, nil
}

// IsAllocated returns true if `unit` is marked in use. Units past the end of
// the map are never in use.
func (usage *UsageMap) IsAllocated(unit UnitID) bool {
	if uint(unit) >= usage.TotalUnits {
		return false
	}
	return usage.AllocationBitmap.Get(int(unit))
}

// CountAllocated gives the number of units in [start, TotalUnits) that are in
// use.
func (usage *UsageMap) CountAllocated(start UnitID) uint {
	count := uint(0)
	for i := uint(start); i < usage.TotalUnits; i++ {
		if usage.AllocationBitmap.Get(int(i)) {
			count++
		}
	}
	return count
}
