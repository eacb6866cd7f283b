package models

import "time"

// SubjectGrade holds the competency sub-scores of a student in a schedule
// slot together with the stored weighted average.
type SubjectGrade struct {
	ID         string    `db:"id" json:"id"`
	StudentID  string    `db:"student_id" json:"alumno_id"`
	ScheduleID string    `db:"schedule_id" json:"horario_id"`
	Ser        *float64  `db:"ser" json:"nota_ser"`
	Saber      *float64  `db:"saber" json:"nota_saber"`
	Hacer      *float64  `db:"hacer" json:"nota_hacer"`
	Decidir    *float64  `db:"decidir" json:"nota_decidir"`
	Average    *float64  `db:"average" json:"promedio"`
	CreatedAt  time.Time `db:"created_at" json:"-"`
	UpdatedAt  time.Time `db:"updated_at" json:"actualizado"`
}

// SubjectGradeRow is a grade joined with the student name.
type SubjectGradeRow struct {
	SubjectGrade
	FirstName string `db:"first_name" json:"nombre"`
	LastName  string `db:"last_name" json:"apellido"`
}

// SubjectGradeInput is one student's sub-scores in a bulk grade request.
type SubjectGradeInput struct {
	StudentID string   `json:"alumno" validate:"required"`
	Ser       *float64 `json:"nota_ser"`
	Saber     *float64 `json:"nota_saber"`
	Hacer     *float64 `json:"nota_hacer"`
	Decidir   *float64 `json:"nota_decidir"`
}

// BulkSubjectGradeRequest carries the grades for a schedule slot.
type BulkSubjectGradeRequest struct {
	Grades []SubjectGradeInput `json:"notas" validate:"required,min=1,dive"`
}

// ReportCardEntry is one subject line of a report card.
type ReportCardEntry struct {
	ScheduleID  string   `db:"schedule_id" json:"horario_id"`
	SubjectID   string   `db:"subject_id" json:"materia_id"`
	SubjectName string   `db:"subject_name" json:"materia"`
	Ser         *float64 `db:"ser" json:"nota_ser"`
	Saber       *float64 `db:"saber" json:"nota_saber"`
	Hacer       *float64 `db:"hacer" json:"nota_hacer"`
	Decidir     *float64 `db:"decidir" json:"nota_decidir"`
	Average     *float64 `db:"average" json:"promedio"`
}

// ReportCard groups a student's grades for a term.
type ReportCard struct {
	Student Person            `json:"alumno"`
	Term    Term              `json:"gestion"`
	Entries []ReportCardEntry `json:"materias"`
	Average *float64          `json:"promedio_general"`
}

// ExportResult describes a rendered document ready for download.
type ExportResult struct {
	URL       string    `json:"url"`
	Format    string    `json:"format"`
	ExpiresAt time.Time `json:"expires_at"`
}
