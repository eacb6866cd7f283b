package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sia-rendimiento-api/internal/models"
)

type fakeFeatureRepo struct {
	student  map[string]models.StudentFeatures
	schedule map[string]map[string]models.StudentFeatures
	err      error
}

func (f *fakeFeatureRepo) ForStudent(_ context.Context, studentID, scheduleID string) (*models.StudentFeatures, error) {
	if f.err != nil {
		return nil, f.err
	}
	row, ok := f.student[studentID+"/"+scheduleID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &row, nil
}

func (f *fakeFeatureRepo) ForSchedule(_ context.Context, scheduleID string) (map[string]models.StudentFeatures, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.schedule[scheduleID], nil
}

func TestFeatureServiceExtract(t *testing.T) {
	repo := &fakeFeatureRepo{student: map[string]models.StudentFeatures{
		"s1/h1": {StudentID: "s1", ExamAvg: 80, AssignmentAvg: 75, AttendancePct: 0.9},
	}}
	svc := NewFeatureService(repo)

	got, err := svc.Extract(context.Background(), "s1", "h1")
	require.NoError(t, err)
	assert.Equal(t, 80.0, got.ExamAvg)
	assert.Equal(t, 0.9, got.AttendancePct)

	empty, err := svc.Extract(context.Background(), "s2", "h1")
	require.NoError(t, err)
	assert.Equal(t, models.StudentFeatures{StudentID: "s2"}, empty)
}

func TestFeatureServiceExtractScheduleZeroFills(t *testing.T) {
	repo := &fakeFeatureRepo{schedule: map[string]map[string]models.StudentFeatures{
		"h1": {"s1": {StudentID: "s1", ExamAvg: 50, AttendancePct: 1.2}},
	}}
	svc := NewFeatureService(repo)

	got, err := svc.ExtractSchedule(context.Background(), "h1", []string{"s1", "s2"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 1.0, got["s1"].AttendancePct)
	assert.Equal(t, models.StudentFeatures{StudentID: "s2"}, got["s2"])
}

func TestFeatureServiceBackendError(t *testing.T) {
	svc := NewFeatureService(&fakeFeatureRepo{err: errors.New("boom")})
	_, err := svc.Extract(context.Background(), "s1", "h1")
	require.Error(t, err)
}
