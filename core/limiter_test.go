package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepLimiter(t *testing.T) {
	sl := NewStepLimiter(2)

	require.NoError(t, sl.Increment())
	require.NoError(t, sl.Increment())
	assert.Equal(t, 2, sl.Count())
	assert.Equal(t, 0, sl.Remaining())

	err := sl.Increment()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeded max workflow steps")
}

func TestStepLimiterUnlimited(t *testing.T) {
	sl := NewStepLimiter(0)
	for i := 0; i < 100; i++ {
		require.NoError(t, sl.Increment())
	}
	assert.Equal(t, -1, sl.Remaining())
}
