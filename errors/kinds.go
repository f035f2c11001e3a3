package errors

import (
	"fmt"
)

// Kind identifies the class of failure behind a [DriverError]. Two driver
// errors compare equal under errors.Is when their kinds match, regardless of
// the message attached to them.
type Kind int

const (
	KindUnknown Kind = iota
	KindIOFailed
	KindInvalidArgument
	KindBadPartitionSignature
	KindReversedPartitionSignature
	KindNotMinixPartition
	KindBadSuperblockMagic
	KindReversedSuperblockMagic
	KindFileSystemCorrupted
	KindNotFound
	KindNotADirectory
	KindNotARegularFile
	KindIndexOutOfRange
	KindUnsupportedImage
)

var errorMessagesByKind = map[Kind]string{
	KindIOFailed:                   "Input/output error",
	KindInvalidArgument:            "Invalid argument",
	KindBadPartitionSignature:      "Invalid partition table signature",
	KindReversedPartitionSignature: "Partition table signature is byte-swapped",
	KindNotMinixPartition:          "Not a MINIX partition",
	KindBadSuperblockMagic:         "Bad superblock magic number",
	KindReversedSuperblockMagic:    "Superblock magic number is byte-swapped",
	KindFileSystemCorrupted:        "Structure needs cleaning",
	KindNotFound:                   "No such file or directory",
	KindNotADirectory:              "Not a directory",
	KindNotARegularFile:            "Not a regular file",
	KindIndexOutOfRange:            "Zone table index out of range",
	KindUnsupportedImage:           "Wrong medium type",
}

// Fatal I/O failure against the backing image. Always wraps the cause.
var ErrIOFailed = New(KindIOFailed)

var ErrInvalidArgument = New(KindInvalidArgument)
var ErrBadPartitionSignature = New(KindBadPartitionSignature)
var ErrReversedPartitionSignature = New(KindReversedPartitionSignature)
var ErrNotMinixPartition = New(KindNotMinixPartition)
var ErrBadSuperblockMagic = New(KindBadSuperblockMagic)
var ErrReversedSuperblockMagic = New(KindReversedSuperblockMagic)
var ErrFileSystemCorrupted = New(KindFileSystemCorrupted)
var ErrNotFound = New(KindNotFound)
var ErrNotADirectory = New(KindNotADirectory)
var ErrNotARegularFile = New(KindNotARegularFile)
var ErrIndexOutOfRange = New(KindIndexOutOfRange)
var ErrUnsupportedImage = New(KindUnsupportedImage)

// StrError returns the default message for an error kind.
func StrError(kind Kind) string {
	message, ok := errorMessagesByKind[kind]
	if ok {
		return message
	}
	return fmt.Sprintf("error kind %d not recognized.", int(kind))
}

func (kind Kind) String() string {
	return StrError(kind)
}
