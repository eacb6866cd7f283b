package models

import "time"

// AttendanceStatus is the mark recorded for a student in a session.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "Presente"
	AttendanceAbsent  AttendanceStatus = "Ausente"
	AttendanceExcused AttendanceStatus = "Justificado"
)

// Valid reports whether the status is supported.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceExcused:
		return true
	default:
		return false
	}
}

// Attendance is one (slot, student, date) record.
type Attendance struct {
	ID         string           `db:"id" json:"id"`
	ScheduleID string           `db:"schedule_id" json:"horario_id"`
	StudentID  string           `db:"student_id" json:"alumno_id"`
	Date       time.Time        `db:"date" json:"fecha"`
	Status     AttendanceStatus `db:"status" json:"estado"`
	CreatedAt  time.Time        `db:"created_at" json:"-"`
	UpdatedAt  time.Time        `db:"updated_at" json:"-"`
}

// AttendanceItem is one student mark in a bulk request. Status defaults to Presente.
type AttendanceItem struct {
	StudentID string           `json:"alumno" validate:"required"`
	Status    AttendanceStatus `json:"estado" validate:"omitempty,attendance_status"`
}

// RecordAttendanceRequest registers attendance for a slot. Date is ISO
// (YYYY-MM-DD) and defaults to today. An empty item list is accepted and
// stores nothing.
type RecordAttendanceRequest struct {
	Date  string           `json:"fecha"`
	Items []AttendanceItem `json:"asistencias" validate:"dive"`
}

// Participation is a remark attached to an attendance record.
type Participation struct {
	ID           string    `db:"id" json:"id"`
	AttendanceID string    `db:"attendance_id" json:"asistencia_id"`
	Remark       string    `db:"remark" json:"observacion"`
	UpdatedAt    time.Time `db:"updated_at" json:"actualizado"`
}

// ParticipationRequest sets the remark of an attendance record.
type ParticipationRequest struct {
	Remark string `json:"observacion" validate:"required,max=500"`
}
