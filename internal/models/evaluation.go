package models

import "time"

// SubmissionStatus tracks an assignment delivery.
type SubmissionStatus string

const (
	SubmissionPending   SubmissionStatus = "pendiente"
	SubmissionDelivered SubmissionStatus = "entregada"
	SubmissionGraded    SubmissionStatus = "calificada"
)

// ExamResultStatus tracks an exam result.
type ExamResultStatus string

const (
	ExamResultPending   ExamResultStatus = "pendiente"
	ExamResultDelivered ExamResultStatus = "entregado"
	ExamResultGraded    ExamResultStatus = "calificado"
)

// Assignment is homework set on a schedule slot.
type Assignment struct {
	ID               string     `db:"id" json:"id"`
	TeacherSubjectID string     `db:"teacher_subject_id" json:"profesor_materia_id"`
	ClassID          string     `db:"class_id" json:"clase_id"`
	Title            string     `db:"title" json:"titulo"`
	Description      *string    `db:"description" json:"descripcion,omitempty"`
	AssignedOn       time.Time  `db:"assigned_on" json:"fecha_asignacion"`
	DueOn            time.Time  `db:"due_on" json:"fecha_entrega"`
	Deadline         *time.Time `db:"deadline" json:"fecha_limite,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"-"`
}

// CreateAssignmentRequest sets homework on a slot. Dates are ISO (YYYY-MM-DD).
type CreateAssignmentRequest struct {
	Title       string  `json:"titulo" validate:"required,max=200"`
	Description *string `json:"descripcion"`
	DueOn       string  `json:"fecha_entrega" validate:"required"`
	Deadline    string  `json:"fecha_limite"`
}

// Submission is a student's delivery for an assignment.
type Submission struct {
	ID           string           `db:"id" json:"id"`
	AssignmentID string           `db:"assignment_id" json:"tarea_id"`
	StudentID    string           `db:"student_id" json:"alumno_id"`
	SubmittedAt  *time.Time       `db:"submitted_at" json:"fecha_entrega,omitempty"`
	FilePath     *string          `db:"file_path" json:"archivo,omitempty"`
	Score        *float64         `db:"score" json:"nota,omitempty"`
	Status       SubmissionStatus `db:"status" json:"estado"`
	Remark       *string          `db:"remark" json:"observacion,omitempty"`
	CreatedAt    time.Time        `db:"created_at" json:"-"`
	UpdatedAt    time.Time        `db:"updated_at" json:"-"`
}

// SubmitAssignmentRequest delivers an assignment.
type SubmitAssignmentRequest struct {
	FilePath string `json:"archivo" validate:"required,max=255"`
}

// GradeSubmissionRequest scores a delivery.
type GradeSubmissionRequest struct {
	Score  *float64 `json:"nota" validate:"required"`
	Remark *string  `json:"observacion"`
}

// Exam is an exam held on a schedule slot.
type Exam struct {
	ID               string    `db:"id" json:"id"`
	TeacherSubjectID string    `db:"teacher_subject_id" json:"profesor_materia_id"`
	ClassID          string    `db:"class_id" json:"clase_id"`
	Title            string    `db:"title" json:"titulo"`
	Description      *string   `db:"description" json:"descripcion,omitempty"`
	HeldOn           time.Time `db:"held_on" json:"fecha"`
	CreatedAt        time.Time `db:"created_at" json:"-"`
}

// CreateExamRequest schedules an exam on a slot. HeldOn is ISO (YYYY-MM-DD).
type CreateExamRequest struct {
	Title       string  `json:"titulo" validate:"required,max=200"`
	Description *string `json:"descripcion"`
	HeldOn      string  `json:"fecha" validate:"required"`
}

// ExamResult is a student's score in an exam.
type ExamResult struct {
	ID        string           `db:"id" json:"id"`
	ExamID    string           `db:"exam_id" json:"examen_id"`
	StudentID string           `db:"student_id" json:"alumno_id"`
	Score     *float64         `db:"score" json:"nota,omitempty"`
	Status    ExamResultStatus `db:"status" json:"estado"`
	Remark    *string          `db:"remark" json:"observacion,omitempty"`
	UpdatedAt time.Time        `db:"updated_at" json:"-"`
}

// ExamResultInput is one student's score in a bulk results request.
type ExamResultInput struct {
	StudentID string   `json:"alumno" validate:"required"`
	Score     *float64 `json:"nota" validate:"required"`
	Remark    *string  `json:"observacion"`
}

// RecordExamResultsRequest stores exam results.
type RecordExamResultsRequest struct {
	Results []ExamResultInput `json:"resultados" validate:"required,min=1,dive"`
}

// RecentSubmission is a graded delivery listed on dashboards.
type RecentSubmission struct {
	SubmissionID string           `db:"submission_id" json:"entrega_id"`
	StudentID    string           `db:"student_id" json:"-"`
	Title        string           `db:"title" json:"tarea"`
	SubjectName  string           `db:"subject_name" json:"materia"`
	Score        *float64         `db:"score" json:"nota"`
	Status       SubmissionStatus `db:"status" json:"estado"`
	SubmittedAt  *time.Time       `db:"submitted_at" json:"fecha_entrega"`
	DueOn        time.Time        `db:"due_on" json:"fecha_limite"`
}

// PendingSubmission is a delivery waiting for a grade.
type PendingSubmission struct {
	SubmissionID string           `db:"submission_id" json:"entrega_id"`
	StudentID    string           `db:"student_id" json:"alumno_id"`
	StudentName  string           `db:"student_name" json:"alumno"`
	Title        string           `db:"title" json:"tarea"`
	SubjectName  string           `db:"subject_name" json:"materia"`
	Status       SubmissionStatus `db:"status" json:"estado"`
	SubmittedAt  *time.Time       `db:"submitted_at" json:"fecha_entrega"`
	DueOn        time.Time        `db:"due_on" json:"fecha_limite"`
}

// RecentExam is a graded exam result listed on dashboards.
type RecentExam struct {
	ResultID    string    `db:"result_id" json:"resultado_id"`
	StudentID   string    `db:"student_id" json:"-"`
	Title       string    `db:"title" json:"examen"`
	SubjectName string    `db:"subject_name" json:"materia"`
	Score       *float64  `db:"score" json:"nota"`
	HeldOn      time.Time `db:"held_on" json:"fecha"`
}
