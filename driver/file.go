package driver

import (
	"bytes"
	"io"
	"io/fs"

	"github.com/dargueta/minfs"
	"github.com/dargueta/minfs/drivers/minix"
	"github.com/dargueta/minfs/errors"
)

// FileInfo gives detailed information about a file or directory. It implements
// both the [fs.FileInfo] and [fs.DirEntry] interfaces.
type FileInfo struct {
	minfs.DirectoryEntry
}

// Type returns the type bits of the entry's mode, used to implement the
// [fs.DirEntry] interface.
func (info FileInfo) Type() fs.FileMode {
	return info.Mode().Type()
}

// Info is part of the [fs.DirEntry] interface. It returns the `FileInfo` it was
// called on, since that implements both interfaces.
func (info FileInfo) Info() (fs.FileInfo, error) {
	return info, nil
}

////////////////////////////////////////////////////////////////////////////////

// File is an open file or directory. Regular files are read into memory the
// first time they're read from. Directories are listed the first time ReadDir
// is called.
type File struct {
	driver   *Driver
	path     string
	inode    minix.Inode
	info     FileInfo
	contents *bytes.Reader
	entries  []fs.DirEntry
	// listed is true once entries has been loaded.
	listed bool
	closed bool
}

var _ fs.ReadDirFile = (*File)(nil)
var _ io.ReadSeeker = (*File)(nil)
var _ io.ReaderAt = (*File)(nil)

func (file *File) pathError(op string, err error) error {
	return &fs.PathError{Op: op, Path: file.path, Err: err}
}

func (file *File) Stat() (fs.FileInfo, error) {
	if file.closed {
		return nil, file.pathError("stat", errClosed)
	}
	return file.info, nil
}

func (file *File) Close() error {
	if file.closed {
		return file.pathError("close", errClosed)
	}
	file.closed = true
	file.contents = nil
	file.entries = nil
	return nil
}

// load reads the contents of a regular file if that hasn't happened yet.
func (file *File) load(op string) error {
	if file.closed {
		return file.pathError(op, errClosed)
	}
	if file.contents != nil {
		return nil
	}
	if !file.inode.IsRegular() {
		return file.pathError(op, errors.ErrNotARegularFile)
	}

	contents, err := file.driver.readContents(file.inode)
	if err != nil {
		return file.pathError(op, err)
	}
	file.contents = bytes.NewReader(contents)
	return nil
}

func (file *File) Read(buffer []byte) (int, error) {
	err := file.load("read")
	if err != nil {
		return 0, err
	}
	return file.contents.Read(buffer)
}

func (file *File) ReadAt(buffer []byte, offset int64) (int, error) {
	err := file.load("read")
	if err != nil {
		return 0, err
	}
	return file.contents.ReadAt(buffer, offset)
}

func (file *File) Seek(offset int64, whence int) (int64, error) {
	err := file.load("seek")
	if err != nil {
		return 0, err
	}
	return file.contents.Seek(offset, whence)
}

// ReadDir returns the next `n` entries of the directory in on-disk order,
// without "." and "..". If `n` <= 0, all remaining entries are returned.
func (file *File) ReadDir(n int) ([]fs.DirEntry, error) {
	if file.closed {
		return nil, file.pathError("readdir", errClosed)
	}
	if !file.inode.IsDir() {
		return nil, file.pathError("readdir", errors.ErrNotADirectory)
	}

	if !file.listed {
		entries, err := file.driver.listEntries(file.inode)
		if err != nil {
			return nil, file.pathError("readdir", err)
		}
		file.entries = entries
		file.listed = true
	}

	if n <= 0 {
		remaining := file.entries
		file.entries = nil
		if remaining == nil {
			remaining = []fs.DirEntry{}
		}
		return remaining, nil
	}

	if len(file.entries) == 0 {
		return nil, io.EOF
	}
	if n > len(file.entries) {
		n = len(file.entries)
	}
	batch := file.entries[:n]
	file.entries = file.entries[n:]
	return batch, nil
}
