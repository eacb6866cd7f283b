package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/sia-rendimiento-api/pkg/errors"
)

type stubCacheRepo struct {
	store       map[string][]byte
	getErr      error
	invalidated []string
}

func (s *stubCacheRepo) Get(_ context.Context, key string, dest interface{}) error {
	if s.getErr != nil {
		return s.getErr
	}
	payload, ok := s.store[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(payload, dest)
}

func (s *stubCacheRepo) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	if s.store == nil {
		s.store = make(map[string][]byte)
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.store[key] = payload
	return nil
}

func (s *stubCacheRepo) DeleteByPattern(_ context.Context, pattern string) error {
	s.invalidated = append(s.invalidated, pattern)
	s.store = nil
	return nil
}

func TestCacheServiceRoundTrip(t *testing.T) {
	repo := &stubCacheRepo{}
	metrics := NewMetricsService()
	svc := NewCacheService(repo, metrics, time.Minute, zap.NewNop(), true)
	ctx := context.Background()

	var out map[string]int
	assert.False(t, svc.Get(ctx, "dash:student:s1", &out))

	svc.Set(ctx, "dash:student:s1", map[string]int{"a": 1}, 0)
	assert.True(t, svc.Get(ctx, "dash:student:s1", &out))
	assert.Equal(t, 1, out["a"])

	snapshot := metrics.Snapshot()
	assert.Equal(t, uint64(1), snapshot.CacheHits)
	assert.Equal(t, uint64(1), snapshot.CacheMisses)

	svc.InvalidateDashboards(ctx)
	assert.Equal(t, []string{"dash:*"}, repo.invalidated)
	assert.False(t, svc.Get(ctx, "dash:student:s1", &out))
}

func TestCacheServiceBackendErrorIsMiss(t *testing.T) {
	repo := &stubCacheRepo{getErr: errors.New("connection refused")}
	svc := NewCacheService(repo, nil, time.Minute, nil, true)

	var out map[string]int
	assert.False(t, svc.Get(context.Background(), "k", &out))
}

func TestCacheServiceDisabled(t *testing.T) {
	repo := &stubCacheRepo{}
	svc := NewCacheService(repo, nil, time.Minute, nil, false)
	svc.Set(context.Background(), "k", 1, 0)
	assert.Nil(t, repo.store)
	assert.False(t, svc.Enabled())
}

func TestTeacherCacheKey(t *testing.T) {
	assert.Equal(t, "dash:teacher:t1:latest:0", teacherCacheKey("t1", "", 0))
	assert.Equal(t, "dash:teacher:t1:g1:2", teacherCacheKey("t1", "g1", 2))
}
