package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakePurger struct {
	calls     atomic.Int32
	retention time.Duration
	err       error
}

func (f *fakePurger) PurgeTokens(_ context.Context, retention time.Duration) (int64, error) {
	f.calls.Add(1)
	f.retention = retention
	return 2, f.err
}

func TestAddRejectsBadSpec(t *testing.T) {
	s := NewScheduler(zap.NewNop())
	err := s.Add("broken", "not a spec", func(context.Context) error { return nil })
	assert.Error(t, err)
}

func TestRunExecutesJobsUntilCancelled(t *testing.T) {
	s := NewScheduler(zap.NewNop())
	p := &fakePurger{}
	require.NoError(t, s.Add("token-purge", "@every 1s", TokenPurgeJob(p, 48*time.Hour)))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool { return p.calls.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
	cancel()
	require.NoError(t, <-done)
	assert.Equal(t, 48*time.Hour, p.retention)
}

func TestTokenPurgeJobPropagatesError(t *testing.T) {
	p := &fakePurger{err: errors.New("db down")}
	err := TokenPurgeJob(p, time.Hour)(context.Background())
	assert.EqualError(t, err, "db down")
}
