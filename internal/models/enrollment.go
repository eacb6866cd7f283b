package models

import "time"

// Enrollment places a student in a class offering. The four sub-scores and the
// aggregate score are the legacy per-enrollment grades.
type Enrollment struct {
	ID        string    `db:"id" json:"id"`
	StudentID string    `db:"student_id" json:"alumno_id"`
	ClassID   string    `db:"class_id" json:"clase_id"`
	Score     *float64  `db:"score" json:"nota"`
	Ser       *float64  `db:"ser" json:"nota_ser"`
	Saber     *float64  `db:"saber" json:"nota_saber"`
	Hacer     *float64  `db:"hacer" json:"nota_hacer"`
	Decidir   *float64  `db:"decidir" json:"nota_decidir"`
	CreatedAt time.Time `db:"created_at" json:"-"`
	UpdatedAt time.Time `db:"updated_at" json:"-"`
}

// EnrollmentScores is an enrollment joined with its class for listings.
type EnrollmentScores struct {
	Enrollment
	CourseLevel int    `db:"course_level" json:"curso"`
	Section     string `db:"section" json:"paralelo"`
	Year        int    `db:"year" json:"anio"`
	Trimester   int    `db:"trimester" json:"trimestre"`
}

// ScoreField names one of the four competency sub-scores.
type ScoreField string

const (
	FieldSer     ScoreField = "nota_ser"
	FieldSaber   ScoreField = "nota_saber"
	FieldHacer   ScoreField = "nota_hacer"
	FieldDecidir ScoreField = "nota_decidir"
)

// ScoreFields lists the sub-score fields in display order.
var ScoreFields = []ScoreField{FieldSer, FieldSaber, FieldHacer, FieldDecidir}

// ScorePatch carries the sub-scores supplied in a partial update. Nil fields
// are left untouched.
type ScorePatch struct {
	Ser     *float64
	Saber   *float64
	Hacer   *float64
	Decidir *float64
}

// Set assigns the value for the given field.
func (p *ScorePatch) Set(field ScoreField, value float64) {
	v := value
	switch field {
	case FieldSer:
		p.Ser = &v
	case FieldSaber:
		p.Saber = &v
	case FieldHacer:
		p.Hacer = &v
	case FieldDecidir:
		p.Decidir = &v
	}
}

// Empty reports whether no field was supplied.
func (p ScorePatch) Empty() bool {
	return p.Ser == nil && p.Saber == nil && p.Hacer == nil && p.Decidir == nil
}
