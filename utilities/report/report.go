// Package report renders file system metadata for people: the listings minls
// prints and the verbose dumps of partition tables, superblocks and inodes.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dargueta/minfs"
	"github.com/dargueta/minfs/disks"
	"github.com/dargueta/minfs/drivers/mbr"
	"github.com/dargueta/minfs/drivers/minix"
	"github.com/dargueta/minfs/errors"
	"github.com/docker/go-units"
	"github.com/gocarina/gocsv"
)

type Format string

const (
	FormatText Format = "text"
	FormatCSV  Format = "csv"
)

func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(name)) {
	case FormatText:
		return FormatText, nil
	case FormatCSV:
		return FormatCSV, nil
	default:
		return "", errors.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("unknown output format %q, expected %q or %q", name, FormatText, FormatCSV))
	}
}

type listingRow struct {
	Permissions string `csv:"permissions"`
	Size        int64  `csv:"size"`
	Inode       uint32 `csv:"inode"`
	Name        string `csv:"name"`
}

// WriteListing prints what minls shows for `target`. For a directory that's
// its path followed by one line per entry; for anything else it's a single
// line with the target's own path.
func WriteListing(
	w io.Writer,
	target *minix.ResolvedTarget,
	entries []minfs.DirectoryEntry,
	format Format,
) error {
	if format == FormatCSV {
		return writeCSVListing(w, target, entries)
	}

	if !target.IsDir() {
		_, err := fmt.Fprintf(w, "%s %9d %s\n", target.Permissions, target.Inode.Size, target.PathString())
		return err
	}

	_, err := fmt.Fprintf(w, "%s:\n", target.PathString())
	if err != nil {
		return err
	}
	for _, entry := range entries {
		_, err = fmt.Fprintf(w, "%s %9d %s\n", entry.Permissions, entry.Size(), entry.Name())
		if err != nil {
			return err
		}
	}
	return nil
}

func writeCSVListing(
	w io.Writer, target *minix.ResolvedTarget, entries []minfs.DirectoryEntry,
) error {
	var rows []listingRow
	if target.IsDir() {
		rows = make([]listingRow, 0, len(entries))
		for _, entry := range entries {
			rows = append(rows, listingRow{
				Permissions: entry.Permissions,
				Size:        entry.Size(),
				Inode:       entry.Inumber(),
				Name:        entry.Name(),
			})
		}
	} else {
		rows = []listingRow{{
			Permissions: target.Permissions,
			Size:        target.Inode.Size,
			Inode:       target.Inode.InodeNumber,
			Name:        target.PathString(),
		}}
	}
	return gocsv.Marshal(&rows, w)
}

// PrintImage describes the image file itself, including any standard disk
// whose size it matches.
func PrintImage(w io.Writer, img *disks.Image) {
	fmt.Fprintf(w, "\nImage %s:\n", img.Path)
	fmt.Fprintf(w, "  %-16s %s\n", "format", img.Type)
	fmt.Fprintf(w, "  %-16s %d (%s)\n", "size", img.Size, units.BytesSize(float64(img.Size)))
	for _, geometry := range disks.MatchGeometryBySize(img.Size) {
		fmt.Fprintf(w, "  %-16s %s\n", "looks like", geometry.Name)
	}
}

// PrintPartitionTable dumps the four entries of the partition table found at
// `tableOffset`.
func PrintPartitionTable(
	w io.Writer, table [mbr.NumEntries]mbr.RawPartitionEntry, tableOffset int64,
) {
	fmt.Fprintf(w, "\nPartition table at offset %d:\n", tableOffset)
	fmt.Fprintf(w, "  %-2s %-4s %-4s %10s %10s %10s\n", "#", "boot", "type", "first", "sectors", "size")
	for i, entry := range table {
		boot := ""
		if entry.BootIndicator == 0x80 {
			boot = "*"
		}
		fmt.Fprintf(
			w,
			"  %-2d %-4s 0x%02X %10d %10d %10s\n",
			i,
			boot,
			entry.Type,
			entry.FirstSector,
			entry.TotalSectors,
			units.BytesSize(float64(entry.Size())))
	}
}

// PrintSuperblock dumps the stored superblock fields, the layout derived from
// them, and how full the file system is.
func PrintSuperblock(w io.Writer, driver *minix.FileSystem) error {
	sb := driver.Superblock()
	geometry := driver.Geometry()

	fmt.Fprintf(w, "\nSuperblock Contents:\nStored Fields:\n")
	fmt.Fprintf(w, "  %-16s %11d\n", "ninodes", sb.NumInodes)
	fmt.Fprintf(w, "  %-16s %11d\n", "i_blocks", sb.InodeBitmapBlocks)
	fmt.Fprintf(w, "  %-16s %11d\n", "z_blocks", sb.ZoneBitmapBlocks)
	fmt.Fprintf(w, "  %-16s %11d\n", "firstdata", sb.FirstDataZone)
	fmt.Fprintf(w, "  %-16s %11d (zone size: %d)\n", "log_zone_size", sb.LogZoneSize, geometry.ZoneSize)
	fmt.Fprintf(w, "  %-16s %11d\n", "max_file", sb.MaxFileSize)
	fmt.Fprintf(w, "  %-16s %11X\n", "magic", sb.Magic)
	fmt.Fprintf(w, "  %-16s %11d\n", "zones", sb.TotalZones)
	fmt.Fprintf(w, "  %-16s %11d\n", "blocksize", sb.BlockSize)
	fmt.Fprintf(w, "  %-16s %11d\n", "subversion", sb.SubVersion)

	fmt.Fprintf(w, "Computed Fields:\n")
	fmt.Fprintf(w, "  %-16s %11d\n", "partition offset", geometry.PartitionOffset)
	fmt.Fprintf(w, "  %-16s %11d\n", "blocks per zone", geometry.BlocksPerZone)
	fmt.Fprintf(w, "  %-16s %11d\n", "zones per block", geometry.ZonesPerBlock)
	fmt.Fprintf(w, "  %-16s %11d\n", "dirents per zone", geometry.DirentsPerZone)
	fmt.Fprintf(w, "  %-16s %11d\n", "inode table", geometry.InodeTableOffset)
	fmt.Fprintf(w, "  %-16s %11d\n", "data zones", geometry.DataZoneOffset)

	stat, err := driver.Stat()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Usage:\n")
	fmt.Fprintf(w, "  %-16s %d of %d\n", "inodes in use", stat.InodesInUse, stat.TotalInodes)
	fmt.Fprintf(
		w,
		"  %-16s %d of %d (%s free)\n",
		"zones in use",
		stat.DataZonesInUse,
		stat.TotalDataZones,
		units.HumanSize(float64(stat.FreeDataZones())*float64(stat.ZoneSize)))
	return nil
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.ANSIC)
}

// PrintInode dumps every field of an inode.
func PrintInode(w io.Writer, inode *minix.Inode) {
	fmt.Fprintf(w, "\nFile inode %d:\n", inode.InodeNumber)
	fmt.Fprintf(w, "  %-8s %15s (%s)\n", "mode", fmt.Sprintf("0x%04X", inode.ModeFlags), inode.Permissions())
	fmt.Fprintf(w, "  %-8s %15d\n", "links", inode.Nlinks)
	fmt.Fprintf(w, "  %-8s %15d\n", "uid", inode.Uid)
	fmt.Fprintf(w, "  %-8s %15d\n", "gid", inode.Gid)
	fmt.Fprintf(w, "  %-8s %15d (%s)\n", "size", inode.Size, units.BytesSize(float64(inode.Size)))
	fmt.Fprintf(w, "  %-8s %15d --- %s\n", "atime", inode.LastAccessed.Unix(), formatTimestamp(inode.LastAccessed))
	fmt.Fprintf(w, "  %-8s %15d --- %s\n", "mtime", inode.LastModified.Unix(), formatTimestamp(inode.LastModified))
	fmt.Fprintf(w, "  %-8s %15d --- %s\n", "ctime", inode.LastChanged.Unix(), formatTimestamp(inode.LastChanged))

	fmt.Fprintf(w, "\n  Direct zones:\n")
	for i, zone := range inode.Zones {
		fmt.Fprintf(w, "    zone[%d]   = %8d\n", i, zone)
	}
	fmt.Fprintf(w, "  %-10s %8d\n", "indirect", inode.Indirect)
	fmt.Fprintf(w, "  %-10s %8d\n", "double", inode.DoubleIndirect)
}
