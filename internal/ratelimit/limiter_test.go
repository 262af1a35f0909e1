package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBurstThenReject(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemory(1, 2)
	m.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		res, err := m.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, res.Allowed, "request %d", i)
	}
	res, err := m.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Greater(t, res.RetryAfter, time.Duration(0))

	res, _ = m.Allow(ctx, "10.0.0.2")
	assert.True(t, res.Allowed, "keys are independent")

	now = now.Add(time.Second)
	res, _ = m.Allow(ctx, "10.0.0.1")
	assert.True(t, res.Allowed, "bucket refills")
}

func TestMemoryCleanup(t *testing.T) {
	now := time.Now()
	m := NewMemory(1, 1)
	m.now = func() time.Time { return now }
	_, _ = m.Allow(context.Background(), "a")

	now = now.Add(time.Hour)
	m.Cleanup()
	assert.Empty(t, m.limiters)
}
