package common_test

import (
	"testing"

	c "github.com/dargueta/minfs/drivers/common"
	"github.com/dargueta/minfs/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsageMap__LeastSignificantBitFirst(t *testing.T) {
	usage, err := c.NewUsageMapFromInUseBitmap([]byte{0b00000101, 0b10000000}, 16)
	require.NoError(t, err)

	assert.True(t, usage.IsAllocated(0))
	assert.False(t, usage.IsAllocated(1))
	assert.True(t, usage.IsAllocated(2))
	assert.True(t, usage.IsAllocated(15))
	assert.False(t, usage.IsAllocated(16), "past the end must read as free")

	assert.EqualValues(t, 3, usage.CountAllocated(0))
	assert.EqualValues(t, 2, usage.CountAllocated(1))
}

func TestUsageMap__TotalUnitsLimitsCount(t *testing.T) {
	usage, err := c.NewUsageMapFromInUseBitmap([]byte{0xff, 0xff}, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 10, usage.CountAllocated(0))
}

func TestUsageMap__CopiesInput(t *testing.T) {
	raw := []byte{0x01}
	usage, err := c.NewUsageMapFromInUseBitmap(raw, 8)
	require.NoError(t, err)

	raw[0] = 0
	assert.True(t, usage.IsAllocated(0))
}

func TestUsageMap__TooSmall(t *testing.T) {
	_, err := c.NewUsageMapFromInUseBitmap([]byte{0}, 9)
	assert.ErrorIs(t, err, errors.ErrFileSystemCorrupted)
}
