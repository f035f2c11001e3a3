package common_test

import (
	"testing"

	c "github.com/dargueta/minfs/drivers/common"
	"github.com/dargueta/minfs/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/bytesextra"
)

func TestZoneStream__Geometry(t *testing.T) {
	blocks := c.NewBlockStream(bytesextra.NewReadWriteSeeker(make([]byte, 8192)), 1024, 0)
	zones, err := c.NewZoneStream(blocks, 4, 2)
	require.NoError(t, err)

	assert.EqualValues(t, 4096, zones.BytesPerZone())
	offset, err := zones.ZoneToOffset(1)
	require.NoError(t, err)
	assert.EqualValues(t, 4096, offset)
}

func TestZoneStream__ReadAndFirstBlock(t *testing.T) {
	image := makeCountingImage(16384)
	blocks := c.NewBlockStream(bytesextra.NewReadWriteSeeker(image), 1024, 2048)
	zones, err := c.NewZoneStream(blocks, 2, 0)
	require.NoError(t, err)

	whole, err := zones.Read(3)
	require.NoError(t, err)
	assert.Equal(t, image[2048+3*2048:2048+4*2048], whole)

	first, err := zones.ReadFirstBlock(3)
	require.NoError(t, err)
	assert.Equal(t, image[2048+3*2048:2048+3*2048+1024], first)
}

func TestZoneStream__OutOfBounds(t *testing.T) {
	blocks := c.NewBlockStream(bytesextra.NewReadWriteSeeker(make([]byte, 4096)), 1024, 0)
	zones, err := c.NewZoneStream(blocks, 1, 4)
	require.NoError(t, err)

	_, err = zones.Read(4)
	assert.ErrorIs(t, err, errors.ErrFileSystemCorrupted)
	assert.EqualError(
		t, err, "Structure needs cleaning: invalid zone 4: not in range [0, 4)")

	_, err = zones.ReadBytes(0, 1025)
	assert.ErrorIs(t, err, errors.ErrInvalidArgument)
}

func TestNewZoneStream__ZeroBlocksPerZone(t *testing.T) {
	blocks := c.NewBlockStream(bytesextra.NewReadWriteSeeker(make([]byte, 1024)), 1024, 0)
	_, err := c.NewZoneStream(blocks, 0, 0)
	assert.ErrorIs(t, err, errors.ErrInvalidArgument)
}
