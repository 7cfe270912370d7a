package scheduler_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/KhuatDuy04/crawl/internal/scheduler"
)

func TestAddRejectsBadSpec(t *testing.T) {
	s := scheduler.New(zap.NewNop())
	err := s.Add(context.Background(), "every tuesday", "crawl", func(context.Context) error { return nil })
	require.Error(t, err)
	assert.Zero(t, s.Entries())
}

func TestScheduledTaskRuns(t *testing.T) {
	s := scheduler.New(nil)
	var runs atomic.Int32
	require.NoError(t, s.Add(context.Background(), "@every 1s", "crawl", func(context.Context) error {
		runs.Add(1)
		return nil
	}))
	assert.Equal(t, 1, s.Entries())

	s.Start()
	assert.Eventually(t, func() bool { return runs.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)
	<-s.Stop().Done()
}

func TestCancelledContextSkipsRun(t *testing.T) {
	s := scheduler.New(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var runs atomic.Int32
	require.NoError(t, s.Add(ctx, "@every 1s", "crawl", func(context.Context) error {
		runs.Add(1)
		return nil
	}))
	s.Start()
	time.Sleep(1500 * time.Millisecond)
	<-s.Stop().Done()
	assert.Zero(t, runs.Load())
}
