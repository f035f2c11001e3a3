package disks

import (
	_ "embed"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/gocarina/gocsv"
)

// DiskGeometry describes a standard storage device that MINIX was commonly
// installed on.
type DiskGeometry struct {
	Name        string `csv:"name"`
	Slug        string `csv:"slug"`
	FormFactor  string `csv:"form_factor"`
	IsRemovable uint   `csv:"is_removable"`

	BytesPerSector  uint `csv:"bytes_per_sector"`
	SectorsPerTrack uint `csv:"sectors_per_track"`
	// TotalDataTracks gives the number of data tracks per head.
	TotalDataTracks uint   `csv:"total_data_tracks"`
	Heads           uint   `csv:"heads"`
	Notes           string `csv:"notes"`
}

// TotalSizeBytes gives the size of the storage device. This is the size of a
// raw image of it.
func (g *DiskGeometry) TotalSizeBytes() int64 {
	return int64(g.BytesPerSector) * int64(g.SectorsPerTrack) *
		int64(g.TotalDataTracks) * int64(g.Heads)
}

// https://en.wikipedia.org/wiki/List_of_floppy_disk_formats
//
//go:embed disk-geometries.csv
var diskGeometriesRawCSV string
var diskGeometries []DiskGeometry
var diskGeometriesBySlug map[string]*DiskGeometry

func GetPredefinedDiskGeometry(slug string) (DiskGeometry, error) {
	geometry, ok := diskGeometriesBySlug[slug]
	if ok {
		return *geometry, nil
	}

	err := fmt.Errorf("no predefined disk geometry exists with slug %q", slug)
	return DiskGeometry{}, err
}

// MatchGeometryBySize returns the predefined geometries whose raw images are
// exactly `size` bytes.
func MatchGeometryBySize(size int64) []DiskGeometry {
	var matches []DiskGeometry
	for _, geometry := range diskGeometries {
		if geometry.TotalSizeBytes() == size {
			matches = append(matches, geometry)
		}
	}
	return matches
}

func init() {
	csvReader := csv.NewReader(strings.NewReader(diskGeometriesRawCSV))
	csvReader.Comma = '|'

	err := gocsv.UnmarshalCSV(csvReader, &diskGeometries)
	if err != nil {
		panic(fmt.Errorf("failed to decode disk geometries: %w", err))
	}

	diskGeometriesBySlug = make(map[string]*DiskGeometry, len(diskGeometries))
	for i := range diskGeometries {
		row := &diskGeometries[i]
		_, exists := diskGeometriesBySlug[row.Slug]
		if exists {
			panic(fmt.Errorf("duplicate definition for disk %q found on row %d", row.Slug, i+1))
		}
		diskGeometriesBySlug[row.Slug] = row
	}
}
