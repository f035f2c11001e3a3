// Package minix is a read-only driver for MINIX V1 file systems.
//
// # Layout
//
// A MINIX file system is divided into blocks, usually 1 KiB each. Space for
// file data is allocated in zones of 2^N blocks, where N is given in the
// superblock. From the start of the file system:
//
//   - Block 0: boot block, ignored.
//   - Block 1: the superblock, always 1024 bytes from the start.
//   - The inode bitmap.
//   - The zone bitmap.
//   - The inode table, 64 bytes per inode. Inode 1 is the root directory.
//   - Data zones, beginning at the zone given in the superblock.
//
// Every integer on disk is little-endian.
//
// # Zones
//
// An inode has seven direct zone numbers, one indirect zone and one double
// indirect zone. The first block of an indirect zone is a table of
// blockSize/4 zone numbers. The double indirect zone's first block is a table
// of indirect zones. Zone number 0 anywhere in this chain is a hole and is
// never read.
//
// # Directories
//
// A directory's data is a sequence of 64-byte entries: a 4-byte inode number
// and a 60-byte name that is only null-terminated if it's shorter than 60
// bytes. Entries with inode number 0 are free.
package minix
