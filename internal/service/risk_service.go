package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sia-rendimiento-api/internal/models"
	"github.com/noah-isme/sia-rendimiento-api/pkg/classifier"
	appErrors "github.com/noah-isme/sia-rendimiento-api/pkg/errors"
)

type riskModel interface {
	Predict(x classifier.Features) (classifier.Prediction, error)
}

type predictionStore interface {
	Upsert(ctx context.Context, p *models.PerformancePrediction) error
	ListByStudent(ctx context.Context, studentID string) ([]models.PerformancePrediction, error)
}

// RiskConfig tunes the at-risk policy and prediction persistence.
type RiskConfig struct {
	// AtRiskMaxClass is the highest class code still flagged as at risk.
	AtRiskMaxClass int
	// Persist writes every dashboard prediction through to the store.
	Persist bool
}

// RiskService classifies feature vectors and applies the single at-risk policy
// shared by every dashboard.
type RiskService struct {
	model   riskModel
	store   predictionStore
	metrics *MetricsService
	logger  *zap.Logger
	cfg     RiskConfig
	now     func() time.Time
}

// NewRiskService constructs a RiskService around an injected model.
func NewRiskService(model riskModel, store predictionStore, metrics *MetricsService, logger *zap.Logger, cfg RiskConfig) *RiskService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.AtRiskMaxClass < classifier.ClassLow || cfg.AtRiskMaxClass >= classifier.ClassGood {
		cfg.AtRiskMaxClass = classifier.ClassRegular
	}
	return &RiskService{model: model, store: store, metrics: metrics, logger: logger, cfg: cfg, now: time.Now}
}

// RiskLabel maps a class code to its display label.
func RiskLabel(class int) string {
	switch class {
	case classifier.ClassLow:
		return models.RiskLabelLow
	case classifier.ClassRegular:
		return models.RiskLabelRegular
	case classifier.ClassGood:
		return models.RiskLabelGood
	default:
		return "desconocido"
	}
}

// IsAtRisk applies the configured threshold to a class code.
func (s *RiskService) IsAtRisk(class int) bool {
	return class <= s.cfg.AtRiskMaxClass
}

// Assess classifies [exam_avg, assignment_avg, attendance_pct].
func (s *RiskService) Assess(f models.StudentFeatures) (models.RiskAssessment, error) {
	pred, err := s.model.Predict(classifier.Features{f.ExamAvg, f.AssignmentAvg, f.AttendancePct})
	if err != nil {
		if errors.Is(err, classifier.ErrUnavailable) {
			return models.RiskAssessment{}, appErrors.Wrap(err, appErrors.ErrClassifierUnavailable.Code, appErrors.ErrClassifierUnavailable.Status, appErrors.ErrClassifierUnavailable.Message)
		}
		return models.RiskAssessment{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to classify student")
	}
	label := RiskLabel(pred.Class)
	s.metrics.RecordPrediction(label)
	return models.RiskAssessment{
		Class:      pred.Class,
		Label:      label,
		Confidence: round2(pred.Confidence),
		AtRisk:     s.IsAtRisk(pred.Class),
	}, nil
}

// Record writes the prediction through when persistence is enabled. Failures
// are logged and never surface to the caller.
func (s *RiskService) Record(ctx context.Context, studentID, subjectID, termID string, f models.StudentFeatures, a models.RiskAssessment) {
	if !s.cfg.Persist || s.store == nil {
		return
	}
	if err := s.Snapshot(ctx, studentID, subjectID, termID, f, a); err != nil {
		s.logger.Warn("failed to persist prediction",
			zap.String("student_id", studentID),
			zap.String("subject_id", subjectID),
			zap.Error(err))
	}
}

// Snapshot unconditionally stores the prediction for (student, subject, term).
func (s *RiskService) Snapshot(ctx context.Context, studentID, subjectID, termID string, f models.StudentFeatures, a models.RiskAssessment) error {
	if s.store == nil {
		return nil
	}
	details, err := json.Marshal(struct {
		models.StudentFeatures
		Confidence float64 `json:"confianza"`
	}{f, a.Confidence})
	if err != nil {
		return err
	}
	return s.store.Upsert(ctx, &models.PerformancePrediction{
		StudentID:   studentID,
		SubjectID:   subjectID,
		TermID:      termID,
		Score:       float64(a.Class),
		Category:    a.Label,
		Details:     string(details),
		PredictedAt: s.now().UTC(),
	})
}

// History returns the persisted predictions of a student.
func (s *RiskService) History(ctx context.Context, studentID string) ([]models.PerformancePrediction, error) {
	if s.store == nil {
		return []models.PerformancePrediction{}, nil
	}
	items, err := s.store.ListByStudent(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []models.PerformancePrediction{}, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load predictions")
	}
	if items == nil {
		items = []models.PerformancePrediction{}
	}
	return items, nil
}
