package service

import (
	"math"

	"github.com/noah-isme/sia-rendimiento-api/internal/models"
)

// AveragingMode selects how competency sub-scores collapse into one grade.
type AveragingMode int

const (
	// AveragingUnweighted is the arithmetic mean of the present sub-scores,
	// used by legacy enrollment grades.
	AveragingUnweighted AveragingMode = iota + 1
	// AveragingWeighted renormalises the fixed competency weights over the
	// present sub-scores and rounds to two decimals, used by subject grades.
	AveragingWeighted
)

const (
	weightSer     = 0.05
	weightSaber   = 0.45
	weightHacer   = 0.45
	weightDecidir = 0.05
)

// ScoreSet holds the four optional competency sub-scores.
type ScoreSet struct {
	Ser     *float64
	Saber   *float64
	Hacer   *float64
	Decidir *float64
}

// ScoresOfGrade extracts the sub-scores of a subject grade.
func ScoresOfGrade(g models.SubjectGrade) ScoreSet {
	return ScoreSet{Ser: g.Ser, Saber: g.Saber, Hacer: g.Hacer, Decidir: g.Decidir}
}

// ScoresOfEnrollment extracts the legacy sub-scores of an enrollment.
func ScoresOfEnrollment(e models.Enrollment) ScoreSet {
	return ScoreSet{Ser: e.Ser, Saber: e.Saber, Hacer: e.Hacer, Decidir: e.Decidir}
}

// Average computes the proficiency score. The boolean is false when no
// sub-score is present, in which case the average is undefined.
func (s ScoreSet) Average(mode AveragingMode) (float64, bool) {
	parts := [...]struct {
		value  *float64
		weight float64
	}{
		{s.Ser, weightSer},
		{s.Saber, weightSaber},
		{s.Hacer, weightHacer},
		{s.Decidir, weightDecidir},
	}

	var sum, denom float64
	for _, p := range parts {
		if p.value == nil {
			continue
		}
		switch mode {
		case AveragingWeighted:
			sum += *p.value * p.weight
			denom += p.weight
		default:
			sum += *p.value
			denom++
		}
	}
	if denom == 0 {
		return 0, false
	}

	avg := sum / denom
	if mode == AveragingWeighted {
		avg = round2(avg)
	}
	return avg, true
}

// AveragePtr is Average returning nil for the undefined case.
func (s ScoreSet) AveragePtr(mode AveragingMode) *float64 {
	avg, ok := s.Average(mode)
	if !ok {
		return nil
	}
	return &avg
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func inScoreRange(v *float64) bool {
	return v == nil || (*v >= 0 && *v <= 100 && !math.IsNaN(*v))
}
