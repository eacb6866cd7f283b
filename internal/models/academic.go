package models

import (
	"fmt"
	"time"
)

// Term is an administrative (year, trimester) period. The latest term is the
// maximum pair ordered by year then trimester.
type Term struct {
	ID        string    `db:"id" json:"id"`
	Year      int       `db:"year" json:"anio"`
	Trimester int       `db:"trimester" json:"trimestre"`
	CreatedAt time.Time `db:"created_at" json:"-"`
}

// Label renders the term as "2024-T2".
func (t Term) Label() string {
	return fmt.Sprintf("%d-T%d", t.Year, t.Trimester)
}

// After reports whether t is later than other.
func (t Term) After(other Term) bool {
	if t.Year != other.Year {
		return t.Year > other.Year
	}
	return t.Trimester > other.Trimester
}

// CreateTermRequest is the payload for registering a term.
type CreateTermRequest struct {
	Year      int `json:"anio" validate:"required,min=2000,max=2100"`
	Trimester int `json:"trimestre" validate:"required,min=1,max=3"`
}

// Subject is a taught subject ("materia").
type Subject struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"nombre"`
	CreatedAt time.Time `db:"created_at" json:"-"`
}

// CreateSubjectRequest is the payload for registering a subject.
type CreateSubjectRequest struct {
	Name string `json:"nombre" validate:"required,max=100"`
}

// Course is a grade level ("curso").
type Course struct {
	ID    string `db:"id" json:"id"`
	Level int    `db:"level" json:"nivel"`
}

// Class is a class offering: a course level, a term and a section letter.
type Class struct {
	ID          string `db:"id" json:"id"`
	CourseID    string `db:"course_id" json:"curso_id"`
	TermID      string `db:"term_id" json:"gestion_id"`
	Section     string `db:"section" json:"paralelo"`
	CourseLevel int    `db:"course_level" json:"curso"`
}

// CreateClassRequest is the payload for opening a class offering.
type CreateClassRequest struct {
	CourseLevel int    `json:"curso" validate:"required,min=1,max=12"`
	TermID      string `json:"gestion_id" validate:"required"`
	Section     string `json:"paralelo" validate:"required,oneof=A B C"`
}

// TeacherSubject assigns a subject to a teacher.
type TeacherSubject struct {
	ID        string `db:"id" json:"id"`
	TeacherID string `db:"teacher_id" json:"profesor_id"`
	SubjectID string `db:"subject_id" json:"materia_id"`
}

// AssignSubjectRequest links a subject to a teacher.
type AssignSubjectRequest struct {
	TeacherID string `json:"profesor_id"`
	SubjectID string `json:"materia_id"`
}

// EnrollStudentRequest enrolls a student into a class offering.
type EnrollStudentRequest struct {
	StudentID string `json:"alumno_id"`
	ClassID   string `json:"clase_id"`
}

// Tutorship links a tutor (guardian) with a student.
type Tutorship struct {
	ID        string `db:"id" json:"id"`
	TutorID   string `db:"tutor_id" json:"tutor_id"`
	StudentID string `db:"student_id" json:"alumno_id"`
}

// CreateTutorshipRequest is the payload for linking a tutor to a student.
type CreateTutorshipRequest struct {
	TutorID   string `json:"tutor_id" validate:"required"`
	StudentID string `json:"alumno_id" validate:"required"`
}
