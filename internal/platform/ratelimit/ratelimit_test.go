package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryWindow(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewInMemoryWindow()
	s.now = func() time.Time { return now }

	for i := range 3 {
		res, err := s.Allow(ctx, "actor-1", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, res.Allowed)
		assert.Equal(t, 2-i, res.Remaining)
		now = now.Add(10 * time.Second)
	}

	res, err := s.Allow(ctx, "actor-1", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 30, res.RetryAfter, "first hit leaves the window 30s from now")

	other, err := s.Allow(ctx, "actor-2", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, other.Allowed, "keys are counted separately")

	now = now.Add(30 * time.Second)
	res, err = s.Allow(ctx, "actor-1", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, res.Allowed, "oldest hit slid out of the window")
	assert.Equal(t, 0, res.Remaining)
}

func TestRetryAfterIsAtLeastOneSecond(t *testing.T) {
	now := time.Now()
	assert.Equal(t, 1, retryAfter(now, now))
	assert.Equal(t, 2, retryAfter(now, now.Add(1500*time.Millisecond)))
}
