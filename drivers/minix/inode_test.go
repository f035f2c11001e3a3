package minix_test

import (
	"testing"
	"time"

	"github.com/dargueta/minfs/errors"
	dt "github.com/dargueta/minfs/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadInode(t *testing.T) {
	builder := dt.NewDefaultImageBuilder(t)
	builder.SetInode(5, dt.Inode{
		Mode:         dt.ModeRegular | 0o640,
		Links:        3,
		UID:          101,
		GID:          7,
		Size:         123456,
		AccessTime:   100,
		ModifiedTime: 200,
		ChangedTime:  300,
		Zones:        [7]uint32{9, 10, 11, 12, 13, 14, 15},
		Indirect:     16,
	})
	driver := openImage(t, builder.Bytes())

	inode, err := driver.ReadInode(5)
	require.NoError(t, err)

	assert.EqualValues(t, 5, inode.Inumber())
	assert.EqualValues(t, dt.ModeRegular|0o640, inode.ModeFlags)
	assert.EqualValues(t, 3, inode.Nlinks)
	assert.EqualValues(t, 101, inode.Uid)
	assert.EqualValues(t, 7, inode.Gid)
	assert.EqualValues(t, 123456, inode.Size)
	assert.Equal(t, time.Unix(100, 0), inode.LastAccessed)
	assert.Equal(t, time.Unix(200, 0), inode.LastModified)
	assert.Equal(t, time.Unix(300, 0), inode.LastChanged)
	assert.EqualValues(t, 9, inode.Zones[0])
	assert.EqualValues(t, 15, inode.Zones[6])
	assert.EqualValues(t, 16, inode.Indirect)
	assert.EqualValues(t, 0, inode.DoubleIndirect)
	assert.True(t, inode.IsRegular())
	assert.False(t, inode.IsDir())
	assert.Equal(t, "-rw-r-----", inode.Permissions())
}

func TestReadInode__LastInode(t *testing.T) {
	builder := dt.NewDefaultImageBuilder(t)
	builder.SetInode(64, dt.Inode{Mode: dt.ModeDirectory | 0o700, Size: 128})
	driver := openImage(t, builder.Bytes())

	inode, err := driver.ReadInode(64)
	require.NoError(t, err)
	assert.True(t, inode.IsDir())
	assert.Equal(t, "drwx------", inode.Permissions())
}

func TestReadInode__OutOfRange(t *testing.T) {
	driver := openImage(t, dt.NewDefaultImageBuilder(t).Bytes())

	_, err := driver.ReadInode(0)
	assert.ErrorIs(t, err, errors.ErrInvalidArgument)

	_, err = driver.ReadInode(65)
	assert.ErrorIs(t, err, errors.ErrFileSystemCorrupted)
}

func TestReadInode__TruncatedImage(t *testing.T) {
	image := dt.NewDefaultImageBuilder(t).Bytes()
	driver := openImage(t, image[:3*1024])

	_, err := driver.ReadInode(1)
	assert.ErrorIs(t, err, errors.ErrIOFailed)
}
