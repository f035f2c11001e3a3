package minix_test

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/dargueta/minfs/drivers/minix"
	dt "github.com/dargueta/minfs/testing"
	"github.com/stretchr/testify/require"
)

// recordingWriter remembers the size of every write.
type recordingWriter struct {
	bytes.Buffer
	writes []int
}

func (w *recordingWriter) Write(p []byte) (int, error) {
	w.writes = append(w.writes, len(p))
	return w.Buffer.Write(p)
}

var errSinkFull = errors.New("sink is full")

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errSinkFull
}

// countingStream counts calls to Read so tests can prove no I/O happened.
type countingStream struct {
	io.ReadSeeker
	reads int
}

func (s *countingStream) Read(p []byte) (int, error) {
	s.reads++
	return s.ReadSeeker.Read(p)
}

func openImage(t *testing.T, image []byte) *minix.FileSystem {
	driver, err := minix.OpenAt(dt.NewImageStream(image), 0)
	require.NoError(t, err, "failed to open file system")
	return driver
}

func makePattern(size int, seed byte) []byte {
	data := make([]byte, size)
	for i := range data {
		data[i] = seed + byte(i%253)
	}
	return data
}

// buildTree creates this file system:
//
//	/            inode 1
//	/etc         inode 2
//	/etc/passwd  inode 4
//	/readme      inode 3
func buildTree(t *testing.T) (*dt.ImageBuilder, []byte) {
	builder := dt.NewDefaultImageBuilder(t)
	builder.AddDirectory(dt.RootInode, 0o755, []dt.Dirent{
		{Inumber: 1, Name: "."},
		{Inumber: 1, Name: ".."},
		{Inumber: 2, Name: "etc"},
		{Inumber: 3, Name: "readme"},
	})
	builder.AddDirectory(2, 0o750, []dt.Dirent{
		{Inumber: 2, Name: "."},
		{Inumber: 1, Name: ".."},
		{Inumber: 4, Name: "passwd"},
	})
	builder.AddRegularFile(3, 0o644, []byte("hello\n"))
	builder.AddRegularFile(4, 0o600, []byte("root:x:0:0::/:/bin/sh\n"))
	return builder, builder.Bytes()
}
