package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/noah-isme/sia-rendimiento-api/internal/models"
	appErrors "github.com/noah-isme/sia-rendimiento-api/pkg/errors"
)

type featureReader interface {
	ForStudent(ctx context.Context, studentID, scheduleID string) (*models.StudentFeatures, error)
	ForSchedule(ctx context.Context, scheduleID string) (map[string]models.StudentFeatures, error)
}

// FeatureService builds the classifier input of a student in a schedule slot.
type FeatureService struct {
	repo featureReader
}

// NewFeatureService constructs a FeatureService.
func NewFeatureService(repo featureReader) *FeatureService {
	return &FeatureService{repo: repo}
}

// Extract returns [exam_avg, assignment_avg, attendance_pct] for one student.
// Missing activity zero-fills instead of failing.
func (s *FeatureService) Extract(ctx context.Context, studentID, scheduleID string) (models.StudentFeatures, error) {
	features, err := s.repo.ForStudent(ctx, studentID, scheduleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.StudentFeatures{StudentID: studentID}, nil
		}
		return models.StudentFeatures{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to extract features")
	}
	return normalizeFeatures(*features), nil
}

// ExtractSchedule returns the vectors of the given students in one query.
func (s *FeatureService) ExtractSchedule(ctx context.Context, scheduleID string, studentIDs []string) (map[string]models.StudentFeatures, error) {
	rows, err := s.repo.ForSchedule(ctx, scheduleID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to extract features")
	}
	result := make(map[string]models.StudentFeatures, len(studentIDs))
	for _, id := range studentIDs {
		f, ok := rows[id]
		if !ok {
			f = models.StudentFeatures{StudentID: id}
		}
		result[id] = normalizeFeatures(f)
	}
	return result, nil
}

func normalizeFeatures(f models.StudentFeatures) models.StudentFeatures {
	switch {
	case f.AttendancePct < 0:
		f.AttendancePct = 0
	case f.AttendancePct > 1:
		f.AttendancePct = 1
	}
	return f
}
