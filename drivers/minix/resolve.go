package minix

import (
	"fmt"

	"github.com/dargueta/minfs"
	"github.com/dargueta/minfs/errors"
)

// ResolvedTarget is the result of resolving a path.
type ResolvedTarget struct {
	Path        []string
	Inode       Inode
	Permissions string
	// EntryCount is the nominal number of entries of a directory, its size
	// divided by the size of an entry. It's 0 for anything else.
	EntryCount uint
}

// PathString gives the path of the target with a leading slash.
func (target *ResolvedTarget) PathString() string {
	return minfs.JoinPath(target.Path)
}

func (target *ResolvedTarget) IsDir() bool {
	return target.Inode.IsDir()
}

// lookup finds `name` in `directory` and returns the inode it points to.
func (driver *FileSystem) lookup(directory *Inode, name string) (Inumber, error) {
	scanner := driver.newDirentScanner(directory)
	for scanner.Scan() {
		entry := scanner.Entry()
		if entry.HasName(name) {
			return entry.Inumber, nil
		}
	}
	if scanner.Err() != nil {
		return 0, scanner.Err()
	}
	return 0, errors.ErrNotFound
}

// Resolve walks `components` from the root directory and returns the inode at
// the end. An empty path gives the root.
func (driver *FileSystem) Resolve(components []string) (Inode, error) {
	current, err := driver.ReadInode(RootInumber)
	if err != nil {
		return Inode{}, err
	}

	for i, component := range components {
		if !current.IsDir() {
			if i == 0 {
				return Inode{}, errors.ErrNotADirectory.WithMessage(
					fmt.Sprintf(
						"can't resolve %q: the root inode is not a directory",
						minfs.JoinPath(components)))
			}
			return Inode{}, errors.ErrNotADirectory.WithMessage(
				fmt.Sprintf(
					"can't resolve %q: %q is not a directory",
					minfs.JoinPath(components),
					minfs.JoinPath(components[:i])))
		}

		inumber, err := driver.lookup(&current, component)
		if errors.KindOf(err) == errors.KindNotFound {
			return Inode{}, errors.ErrNotFound.WithMessage(
				fmt.Sprintf(
					"can't resolve %q: no entry named %q in %q",
					minfs.JoinPath(components),
					component,
					minfs.JoinPath(components[:i])))
		} else if err != nil {
			return Inode{}, err
		}

		current, err = driver.ReadInode(inumber)
		if err != nil {
			return Inode{}, err
		}
	}
	return current, nil
}

// ResolvePath resolves `components` and makes the result the file system's
// current target, replacing the previous one. A failed resolution leaves no
// current target.
func (driver *FileSystem) ResolvePath(components []string) (*ResolvedTarget, error) {
	driver.current = nil

	inode, err := driver.Resolve(components)
	if err != nil {
		return nil, err
	}

	target := &ResolvedTarget{
		Path:        append([]string(nil), components...),
		Inode:       inode,
		Permissions: inode.Permissions(),
	}
	if inode.IsDir() {
		target.EntryCount = uint(inode.Size / DirentSize)
	}
	driver.current = target
	return target, nil
}

// ListEntries returns every valid entry of `directory` in on-disk order, which
// puts "." and ".." first when they're present. Each is paired with the
// metadata of the inode it points to.
func (driver *FileSystem) ListEntries(directory Inode) ([]minfs.DirectoryEntry, error) {
	if !directory.IsDir() {
		return nil, errors.ErrNotADirectory.WithMessage(
			fmt.Sprintf("inode %d has mode %06o", directory.InodeNumber, directory.ModeFlags))
	}

	entries := make([]minfs.DirectoryEntry, 0, directory.Size/DirentSize)
	scanner := driver.newDirentScanner(&directory)
	for scanner.Scan() {
		dirent := scanner.Entry()
		inode, err := driver.ReadInode(dirent.Inumber)
		if err != nil {
			return nil, err
		}
		entries = append(entries, minfs.NewDirectoryEntry(dirent.NameString(), inode.FileStat))
	}

	if scanner.Err() != nil {
		return nil, scanner.Err()
	}
	return entries, nil
}

// ListDirectory lists the directory a previous call to ResolvePath found.
func (driver *FileSystem) ListDirectory(target *ResolvedTarget) ([]minfs.DirectoryEntry, error) {
	if target == nil {
		return nil, errors.ErrInvalidArgument.WithMessage("no target to list")
	}
	entries, err := driver.ListEntries(target.Inode)
	if errors.KindOf(err) == errors.KindNotADirectory {
		return nil, errors.ErrNotADirectory.WithMessage(
			fmt.Sprintf("can't list %q", target.PathString()))
	}
	return entries, err
}
