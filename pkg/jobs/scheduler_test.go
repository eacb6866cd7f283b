package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulerRejectsBadSpec(t *testing.T) {
	s := NewScheduler(time.UTC, time.Second, nil)

	err := s.Add("broken", "not a cron", func(context.Context) error { return nil })
	require.Error(t, err)
	assert.Zero(t, s.Entries())
}

func TestSchedulerRegistersAndStops(t *testing.T) {
	s := NewScheduler(nil, 0, nil)

	require.NoError(t, s.Add("snapshot", "30 2 * * *", func(context.Context) error { return nil }))
	require.NoError(t, s.Add("cleanup", "@hourly", func(context.Context) error { return nil }))
	assert.Equal(t, 2, s.Entries())

	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
