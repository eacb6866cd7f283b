package models

import "time"

// Risk labels returned next to the class code.
const (
	RiskLabelLow     = "bajo"
	RiskLabelRegular = "regular"
	RiskLabelGood    = "bueno"
)

// StudentFeatures is the aggregated activity of one student in one slot:
// exam average, assignment average and attendance ratio in [0,1].
type StudentFeatures struct {
	StudentID     string  `db:"student_id" json:"alumno_id"`
	ExamAvg       float64 `db:"exam_avg" json:"examenes_prom"`
	AssignmentAvg float64 `db:"assignment_avg" json:"tareas_prom"`
	AttendancePct float64 `db:"attendance_pct" json:"asistencia_pct"`
}

// RiskAssessment is the classified outcome for a feature vector.
type RiskAssessment struct {
	Class      int     `json:"rendimiento"`
	Label      string  `json:"categoria"`
	Confidence float64 `json:"confianza"`
	AtRisk     bool    `json:"en_riesgo"`
}

// PerformancePrediction is a persisted snapshot keyed by (student, subject, term).
type PerformancePrediction struct {
	ID          string    `db:"id" json:"id"`
	StudentID   string    `db:"student_id" json:"alumno_id"`
	SubjectID   string    `db:"subject_id" json:"materia_id"`
	TermID      string    `db:"term_id" json:"gestion_id"`
	Score       float64   `db:"score" json:"valor"`
	Category    string    `db:"category" json:"categoria"`
	Details     string    `db:"details" json:"detalle"`
	PredictedAt time.Time `db:"predicted_at" json:"fecha_prediccion"`
	SubjectName string    `db:"subject_name" json:"materia,omitempty"`
}
