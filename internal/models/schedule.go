package models

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Weekday is an ISO weekday: 1 is Monday and 7 is Sunday.
type Weekday int

const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = [...]string{"", "Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado", "Domingo"}

// String returns the Spanish day name.
func (d Weekday) String() string {
	if d < Monday || d > Sunday {
		return ""
	}
	return weekdayNames[d]
}

// Valid reports whether d is within 1..7.
func (d Weekday) Valid() bool {
	return d >= Monday && d <= Sunday
}

// WeekdayOf maps a time to its ISO weekday.
func WeekdayOf(t time.Time) Weekday {
	if t.Weekday() == time.Sunday {
		return Sunday
	}
	return Weekday(t.Weekday())
}

// ParseWeekday resolves a Spanish day name ignoring case and accents, so
// "miercoles" and "Miércoles" are the same day.
func ParseWeekday(name string) (Weekday, bool) {
	key := foldName(name)
	for d := Monday; d <= Sunday; d++ {
		if foldName(weekdayNames[d]) == key {
			return d, true
		}
	}
	return 0, false
}

func foldName(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.TrimSpace(s))
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// Schedule is a schedule slot ("horario"): a class offering paired with a
// teacher-subject assignment.
type Schedule struct {
	ID               string `db:"id" json:"id"`
	ClassID          string `db:"class_id" json:"clase_id"`
	TeacherSubjectID string `db:"teacher_subject_id" json:"profesor_materia_id"`
}

// ScheduleDetail is a slot joined with its class, term, subject and teacher.
type ScheduleDetail struct {
	ID               string    `db:"id" json:"horario_id"`
	ClassID          string    `db:"class_id" json:"clase_id"`
	TeacherSubjectID string    `db:"teacher_subject_id" json:"profesor_materia_id"`
	TeacherID        string    `db:"teacher_id" json:"profesor_id"`
	SubjectID        string    `db:"subject_id" json:"materia_id"`
	SubjectName      string    `db:"subject_name" json:"materia"`
	TermID           string    `db:"term_id" json:"gestion_id"`
	Trimester        int       `db:"trimester" json:"trimestre"`
	CourseLevel      int       `db:"course_level" json:"curso"`
	Section          string    `db:"section" json:"paralelo"`
	Days             []Weekday `db:"-" json:"dias,omitempty"`
	Periods          []Period  `db:"-" json:"periodos,omitempty"`
}

// Period is a numbered time block within a schedule slot.
type Period struct {
	ID         string `db:"id" json:"id"`
	ScheduleID string `db:"schedule_id" json:"-"`
	Number     int    `db:"number" json:"numero"`
	StartsAt   string `db:"starts_at" json:"hora_inicio"`
	EndsAt     string `db:"ends_at" json:"hora_fin"`
}

// ScheduleDay is one weekday row of a slot.
type ScheduleDay struct {
	ScheduleID string  `db:"schedule_id"`
	Weekday    Weekday `db:"weekday"`
}

// PeriodInput describes a period in a slot assignment request.
type PeriodInput struct {
	Number   int    `json:"numero" validate:"required,min=1"`
	StartsAt string `json:"hora_inicio" validate:"required"`
	EndsAt   string `json:"hora_fin" validate:"required"`
}

// AssignScheduleRequest pairs a teacher-subject with a class and its weekly times.
type AssignScheduleRequest struct {
	ClassID          string        `json:"clase_id"`
	TeacherSubjectID string        `json:"profesor_materia_id"`
	Days             []string      `json:"dias"`
	Periods          []PeriodInput `json:"periodos"`
}

// ClassSession is one period of a slot happening on a given day.
type ClassSession struct {
	ScheduleID  string `db:"schedule_id" json:"horario_id"`
	SubjectName string `db:"subject_name" json:"materia"`
	CourseLevel int    `db:"course_level" json:"curso"`
	Section     string `db:"section" json:"paralelo"`
	Number      int    `db:"number" json:"periodo"`
	StartsAt    string `db:"starts_at" json:"hora_inicio"`
	EndsAt      string `db:"ends_at" json:"hora_fin"`
}
