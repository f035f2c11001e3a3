package minfs

import (
	"io/fs"
	"strings"
	"time"
)

// FileStat is the metadata of one inode, decoded into host types. Drivers fill
// in only what their file system stores.
type FileStat struct {
	InodeNumber  uint32
	ModeFlags    uint16
	Nlinks       uint16
	Uid          uint16
	Gid          uint16
	Size         int64
	LastAccessed time.Time
	LastModified time.Time
	LastChanged  time.Time
}

// IsDir returns true if the inode is a directory.
func (stat *FileStat) IsDir() bool {
	return IsDir(stat.ModeFlags)
}

// IsRegular returns true if the inode is a regular file.
func (stat *FileStat) IsRegular() bool {
	return IsRegular(stat.ModeFlags)
}

// DirectoryEntry represents one valid entry encountered while scanning a
// directory, paired with the metadata of the inode it points to. It implements
// the fs.FileInfo interface.
type DirectoryEntry struct {
	name        string
	Permissions string
	Stat        FileStat
}

func NewDirectoryEntry(name string, stat FileStat) DirectoryEntry {
	return DirectoryEntry{
		name:        name,
		Permissions: PermissionString(stat.ModeFlags),
		Stat:        stat,
	}
}

// Name returns the base name of the directory entry on the file system.
func (d DirectoryEntry) Name() string {
	return d.name
}

// Inumber returns the number of the inode the entry points to.
func (d DirectoryEntry) Inumber() uint32 {
	return d.Stat.InodeNumber
}

func (d DirectoryEntry) Size() int64 {
	return d.Stat.Size
}

// ModTime returns the last modified timestamp of the entry's inode.
func (d DirectoryEntry) ModTime() time.Time {
	return d.Stat.LastModified
}

// Mode returns the file system mode of the entry as an fs.FileMode. If you
// need the raw bits, see DirectoryEntry.Stat.
func (d DirectoryEntry) Mode() fs.FileMode {
	mode := fs.FileMode(d.Stat.ModeFlags & S_IRWXUGO)
	switch d.Stat.ModeFlags & S_IFMT {
	case S_IFDIR:
		mode |= fs.ModeDir
	case S_IFLNK:
		mode |= fs.ModeSymlink
	case S_IFCHR:
		mode |= fs.ModeDevice | fs.ModeCharDevice
	case S_IFBLK:
		mode |= fs.ModeDevice
	case S_IFIFO:
		mode |= fs.ModeNamedPipe
	}
	return mode
}

// IsDir returns true if it's a directory.
func (d DirectoryEntry) IsDir() bool {
	return d.Stat.IsDir()
}

// Sys returns a copy of the FileStat backing this directory entry.
func (d DirectoryEntry) Sys() any {
	return d.Stat
}

// SplitPath breaks a slash-delimited path into its components. Empty components
// are dropped, so "/", "" and "//" all give the root. "." and ".." are kept as
// they are, since MINIX directories store them as real entries.
func SplitPath(path string) []string {
	return strings.FieldsFunc(path, func(r rune) bool { return r == '/' })
}

// JoinPath is the inverse of SplitPath. The result always starts with a slash.
func JoinPath(components []string) string {
	return "/" + strings.Join(components, "/")
}
