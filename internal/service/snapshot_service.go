package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/noah-isme/sia-rendimiento-api/internal/models"
	"github.com/noah-isme/sia-rendimiento-api/internal/repository"
	appErrors "github.com/noah-isme/sia-rendimiento-api/pkg/errors"
)

type snapshotSlotReader interface {
	List(ctx context.Context, filter repository.ScheduleFilter) ([]models.ScheduleDetail, error)
	Students(ctx context.Context, scheduleID string) ([]models.Person, error)
}

// SnapshotStats summarises one snapshot run.
type SnapshotStats struct {
	TermID string
	Slots  int
	Stored int
	Failed int
}

// SnapshotService recomputes and stores risk predictions for every enrolled
// student of the latest term.
type SnapshotService struct {
	terms    termReader
	slots    snapshotSlotReader
	features *FeatureService
	risk     *RiskService
	logger   *zap.Logger
}

// NewSnapshotService constructs SnapshotService.
func NewSnapshotService(terms termReader, slots snapshotSlotReader, features *FeatureService, risk *RiskService, logger *zap.Logger) *SnapshotService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SnapshotService{terms: terms, slots: slots, features: features, risk: risk, logger: logger}
}

// Run stores one prediction per (student, subject) of the latest term. An
// unavailable classifier aborts the run; other per-row failures are counted.
func (s *SnapshotService) Run(ctx context.Context) (SnapshotStats, error) {
	term, err := resolveTerm(ctx, s.terms, "")
	if err != nil {
		if appErrors.FromError(err).Status == appErrors.ErrNotFound.Status {
			s.logger.Info("prediction snapshot skipped, no terms")
			return SnapshotStats{}, nil
		}
		return SnapshotStats{}, err
	}
	stats := SnapshotStats{TermID: term.ID}

	slots, err := s.slots.List(ctx, repository.ScheduleFilter{TermID: term.ID})
	if err != nil {
		return stats, internalError(err, "failed to list schedules")
	}
	for _, slot := range slots {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		students, err := s.slots.Students(ctx, slot.ID)
		if err != nil {
			return stats, internalError(err, "failed to list slot students")
		}
		if len(students) == 0 {
			continue
		}
		stats.Slots++

		ids := make([]string, 0, len(students))
		for _, st := range students {
			ids = append(ids, st.ID)
		}
		features, err := s.features.ExtractSchedule(ctx, slot.ID, ids)
		if err != nil {
			return stats, err
		}
		for _, id := range ids {
			f := features[id]
			assessment, err := s.risk.Assess(f)
			if err != nil {
				if errors.Is(err, appErrors.ErrClassifierUnavailable) {
					return stats, err
				}
				stats.Failed++
				s.logger.Warn("prediction failed", zap.String("student_id", id), zap.String("schedule_id", slot.ID), zap.Error(err))
				continue
			}
			if err := s.risk.Snapshot(ctx, id, slot.SubjectID, term.ID, f, assessment); err != nil {
				stats.Failed++
				s.logger.Warn("failed to store prediction", zap.String("student_id", id), zap.String("subject_id", slot.SubjectID), zap.Error(err))
				continue
			}
			stats.Stored++
		}
	}

	s.logger.Info("prediction snapshot stored",
		zap.String("term_id", stats.TermID),
		zap.Int("slots", stats.Slots),
		zap.Int("stored", stats.Stored),
		zap.Int("failed", stats.Failed))
	return stats, nil
}
