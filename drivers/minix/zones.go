package minix

import (
	"encoding/binary"
	"fmt"

	"github.com/dargueta/minfs/errors"
)

// readZoneTable reads the table of zone numbers in the first block of `zone`.
func (driver *FileSystem) readZoneTable(zone Zone) ([]Zone, error) {
	data, err := driver.zones.ReadFirstBlock(zone)
	if err != nil {
		return nil, err
	}

	table := make([]Zone, driver.geometry.ZonesPerBlock)
	for i := range table {
		table[i] = Zone(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return table, nil
}

func checkTableIndex(tier string, index, zonesPerBlock uint64) error {
	if index >= zonesPerBlock {
		return errors.ErrIndexOutOfRange.WithMessage(
			fmt.Sprintf(
				"%s table index %d: not in range [0, %d)",
				tier,
				index,
				zonesPerBlock))
	}
	return nil
}

// ZoneNumberAt gives the physical zone holding logical zone `logical` of an
// inode. Logical zones 0-6 are direct. The next ZonesPerBlock come from the
// indirect table, and each block of ZonesPerBlock after that from one table
// of the double indirect zone.
//
// A hole anywhere along the way gives [NoZone] without doing any I/O for the
// tiers below it. An error is only returned for I/O failures and for indexes
// past the end of the double indirect tier.
func (driver *FileSystem) ZoneNumberAt(inode *Inode, logical uint32) (Zone, error) {
	zonesPerBlock := uint64(driver.geometry.ZonesPerBlock)
	index := uint64(logical)

	if index < NumDirectZones {
		return inode.Zones[index], nil
	}

	if index < NumDirectZones+zonesPerBlock {
		if inode.Indirect == NoZone {
			return NoZone, nil
		}
		table, err := driver.readZoneTable(inode.Indirect)
		if err != nil {
			return NoZone, err
		}
		return table[index-NumDirectZones], nil
	}

	if inode.DoubleIndirect == NoZone {
		return NoZone, nil
	}

	twoIndex := (index - (zonesPerBlock + NumDirectZones)) / zonesPerBlock
	err := checkTableIndex("double indirect", twoIndex, zonesPerBlock)
	if err != nil {
		return NoZone, err
	}

	outerTable, err := driver.readZoneTable(inode.DoubleIndirect)
	if err != nil {
		return NoZone, err
	}
	if outerTable[twoIndex] == NoZone {
		return NoZone, nil
	}

	oneIndex := index - ((twoIndex+1)*zonesPerBlock + NumDirectZones)
	err = checkTableIndex("indirect", oneIndex, zonesPerBlock)
	if err != nil {
		return NoZone, err
	}

	innerTable, err := driver.readZoneTable(outerTable[twoIndex])
	if err != nil {
		return NoZone, err
	}
	return innerTable[oneIndex], nil
}
