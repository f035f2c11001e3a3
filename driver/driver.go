// Package driver exposes a MINIX file system through the standard [io/fs]
// interfaces, so it can be used with [fs.WalkDir] and [fs.Glob].
//
// Like the file system it wraps, a [Driver] must not be used from more than
// one goroutine at a time.
package driver

import (
	"bytes"
	"io/fs"
	posixpath "path"
	"sort"
	"strings"

	"github.com/dargueta/minfs"
	"github.com/dargueta/minfs/drivers/minix"
	"github.com/dargueta/minfs/errors"
)

// Driver implements [fs.FS], [fs.StatFS], [fs.ReadDirFS] and [fs.ReadFileFS]
// on top of a [minix.FileSystem].
type Driver struct {
	fileSystem *minix.FileSystem
}

var _ fs.StatFS = (*Driver)(nil)
var _ fs.ReadDirFS = (*Driver)(nil)
var _ fs.ReadFileFS = (*Driver)(nil)

func New(fileSystem *minix.FileSystem) *Driver {
	return &Driver{fileSystem: fileSystem}
}

// FileSystem returns the file system the driver was created from.
func (driver *Driver) FileSystem() *minix.FileSystem {
	return driver.fileSystem
}

// splitName converts an [fs.FS] path to the components of an absolute path.
// The root is ".".
func splitName(op, name string) ([]string, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: op, Path: name, Err: fs.ErrInvalid}
	}
	if name == "." {
		return nil, nil
	}
	return strings.Split(name, "/"), nil
}

// lookup resolves `name` and returns its inode along with the entry describing
// it.
func (driver *Driver) lookup(op, name string) (minix.Inode, FileInfo, error) {
	components, err := splitName(op, name)
	if err != nil {
		return minix.Inode{}, FileInfo{}, err
	}

	inode, err := driver.fileSystem.Resolve(components)
	if err != nil {
		return minix.Inode{}, FileInfo{}, &fs.PathError{Op: op, Path: name, Err: err}
	}
	return inode, newFileInfo(posixpath.Base(name), inode.FileStat), nil
}

// Open opens the file or directory at `name`.
func (driver *Driver) Open(name string) (fs.File, error) {
	inode, info, err := driver.lookup("open", name)
	if err != nil {
		return nil, err
	}
	return &File{driver: driver, path: name, inode: inode, info: info}, nil
}

func (driver *Driver) Stat(name string) (fs.FileInfo, error) {
	_, info, err := driver.lookup("stat", name)
	if err != nil {
		return nil, err
	}
	return info, nil
}

// ReadDir lists the directory at `name`, sorted by file name. The "." and ".."
// entries are left out.
func (driver *Driver) ReadDir(name string) ([]fs.DirEntry, error) {
	inode, _, err := driver.lookup("readdir", name)
	if err != nil {
		return nil, err
	}

	entries, err := driver.listEntries(inode)
	if err != nil {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: err}
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})
	return entries, nil
}

// ReadFile returns the contents of the regular file at `name`. Holes aren't
// materialized, so a sparse file reads back shorter than its size.
func (driver *Driver) ReadFile(name string) ([]byte, error) {
	inode, _, err := driver.lookup("read", name)
	if err != nil {
		return nil, err
	}

	contents, err := driver.readContents(inode)
	if err != nil {
		return nil, &fs.PathError{Op: "read", Path: name, Err: err}
	}
	return contents, nil
}

func (driver *Driver) listEntries(directory minix.Inode) ([]fs.DirEntry, error) {
	entries, err := driver.fileSystem.ListEntries(directory)
	if err != nil {
		return nil, err
	}

	result := make([]fs.DirEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.Name() == "." || entry.Name() == ".." {
			continue
		}
		result = append(result, FileInfo{DirectoryEntry: entry})
	}
	return result, nil
}

func (driver *Driver) readContents(inode minix.Inode) ([]byte, error) {
	var buffer bytes.Buffer
	_, err := driver.fileSystem.CopyContents(inode, &buffer)
	if err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

// newFileInfo is used for the target of a path, where the name comes from the
// path instead of a directory entry.
func newFileInfo(name string, stat minfs.FileStat) FileInfo {
	return FileInfo{DirectoryEntry: minfs.NewDirectoryEntry(name, stat)}
}

// errClosed is returned for operations on a closed [File].
var errClosed = errors.ErrInvalidArgument.WithMessage("file already closed")
