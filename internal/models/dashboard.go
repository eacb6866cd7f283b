package models

// AtRiskStudent is one flagged student on the teacher dashboard.
type AtRiskStudent struct {
	StudentID     string   `json:"alumno_id"`
	Student       string   `json:"alumno"`
	ExamAvg       float64  `json:"examenes_prom"`
	AssignmentAvg float64  `json:"tareas_prom"`
	AttendancePct float64  `json:"asistencia_pct"`
	GradeAvg      *float64 `json:"nota_prom"`
	Performance   int      `json:"rendimiento"`
	Category      string   `json:"categoria"`
	Confidence    float64  `json:"confianza"`
}

// AtRiskGroup lists the flagged students of one schedule slot.
type AtRiskGroup struct {
	CourseLevel int             `json:"curso"`
	Section     string          `json:"paralelo"`
	ClassID     string          `json:"clase_id"`
	Subject     string          `json:"materia"`
	ScheduleID  string          `json:"horario_id"`
	Students    []AtRiskStudent `json:"alumnos_bajo_rendimiento"`
}

// TeacherDashboard is the teacher view.
type TeacherDashboard struct {
	Term               Term                `json:"gestion"`
	Results            []AtRiskGroup       `json:"resultados"`
	UpcomingClasses    []ClassSession      `json:"clases_proximas"`
	PendingSubmissions []PendingSubmission `json:"tareas_pendientes"`
}

// SubjectPerformance is the per-subject risk line used by student and tutor views.
type SubjectPerformance struct {
	ScheduleID    string   `json:"horario_id"`
	SubjectID     string   `json:"materia_id"`
	Subject       string   `json:"materia"`
	ExamAvg       float64  `json:"examenes_prom"`
	AssignmentAvg float64  `json:"tareas_prom"`
	AttendancePct float64  `json:"asistencia_pct"`
	GradeAvg      *float64 `json:"nota_prom"`
	Performance   int      `json:"rendimiento"`
	Category      string   `json:"categoria"`
	Confidence    float64  `json:"confianza"`
	AtRisk        bool     `json:"en_riesgo"`
}

// StudentDashboard is the student view.
type StudentDashboard struct {
	Term              Term                 `json:"gestion"`
	Subjects          []SubjectPerformance `json:"materias"`
	AtRiskSubjects    []SubjectPerformance `json:"materias_bajo_rendimiento"`
	RecentSubmissions []RecentSubmission   `json:"ultimas_tareas"`
	RecentExams       []RecentExam         `json:"ultimos_examenes"`
	TodayClasses      []ClassSession       `json:"clases_hoy"`
}

// TuteeSummary is one tutee on the tutor view.
type TuteeSummary struct {
	StudentID          string               `json:"alumno_id"`
	Student            string               `json:"alumno"`
	SubjectsAtRisk     []SubjectPerformance `json:"materias_en_riesgo"`
	RecentSubmissions  []RecentSubmission   `json:"ultimas_tareas"`
	RecentExams        []RecentExam         `json:"ultimos_examenes"`
	PendingSubmissions []PendingSubmission  `json:"tareas_pendientes"`
}

// TutorDashboard is the tutor view.
type TutorDashboard struct {
	Term     *Term          `json:"gestion,omitempty"`
	Students []TuteeSummary `json:"alumnos"`
}

// ProfileSubject is one subject line of a student profile.
type ProfileSubject struct {
	SubjectID  string   `json:"materia_id"`
	Subject    string   `json:"materia"`
	Average    *float64 `json:"promedio"`
	Prediction string   `json:"prediccion"`
}

// StudentProfile summarises a student's latest term.
type StudentProfile struct {
	Student  Person           `json:"alumno"`
	Term     Term             `json:"gestion"`
	Subjects []ProfileSubject `json:"materias"`
}
