package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/sia-rendimiento-api/internal/models"
)

const scheduleDetailSelect = `SELECT s.id, s.class_id, s.teacher_subject_id, ts.teacher_id, ts.subject_id, sub.name AS subject_name,
        c.term_id, t.trimester, co.level AS course_level, c.section
        FROM schedules s
        JOIN teacher_subjects ts ON ts.id = s.teacher_subject_id
        JOIN subjects sub ON sub.id = ts.subject_id
        JOIN classes c ON c.id = s.class_id
        JOIN courses co ON co.id = c.course_id
        JOIN terms t ON t.id = c.term_id`

// ScheduleFilter narrows schedule slot listings.
type ScheduleFilter struct {
	TeacherID string
	StudentID string
	SubjectID string
	TermID    string
	Trimester int
}

// SessionFilter selects the periods happening on one weekday.
type SessionFilter struct {
	TeacherID string
	StudentID string
	TermID    string
	Weekday   models.Weekday
}

// ScheduleRepository persists teacher-subject assignments and schedule slots.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository creates a schedule repository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// GetOrCreateTeacherSubject links a subject to a teacher. created is false when the link existed.
func (r *ScheduleRepository) GetOrCreateTeacherSubject(ctx context.Context, teacherID, subjectID string) (*models.TeacherSubject, bool, error) {
	ts := models.TeacherSubject{ID: uuid.NewString(), TeacherID: teacherID, SubjectID: subjectID}
	const insert = `INSERT INTO teacher_subjects (id, teacher_id, subject_id) VALUES ($1, $2, $3) ON CONFLICT (teacher_id, subject_id) DO NOTHING`
	res, err := r.db.ExecContext(ctx, insert, ts.ID, teacherID, subjectID)
	if err != nil {
		return nil, false, fmt.Errorf("create teacher subject: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected > 0 {
		return &ts, true, nil
	}
	const existing = `SELECT id, teacher_id, subject_id FROM teacher_subjects WHERE teacher_id = $1 AND subject_id = $2`
	if err := r.db.GetContext(ctx, &ts, existing, teacherID, subjectID); err != nil {
		return nil, false, fmt.Errorf("find teacher subject: %w", err)
	}
	return &ts, false, nil
}

// FindTeacherSubject returns a teacher-subject assignment by identifier.
func (r *ScheduleRepository) FindTeacherSubject(ctx context.Context, id string) (*models.TeacherSubject, error) {
	var ts models.TeacherSubject
	if err := r.db.GetContext(ctx, &ts, `SELECT id, teacher_id, subject_id FROM teacher_subjects WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find teacher subject: %w", err)
	}
	return &ts, nil
}

// GetOrCreate stores a schedule slot with its weekdays and periods. Days and
// periods are merged into an existing slot. created is false when the
// (class, teacher subject) pair already had a slot.
func (r *ScheduleRepository) GetOrCreate(ctx context.Context, slot *models.Schedule, days []models.Weekday, periods []models.PeriodInput) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin schedule: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if slot.ID == "" {
		slot.ID = uuid.NewString()
	}
	const insert = `INSERT INTO schedules (id, class_id, teacher_subject_id) VALUES ($1, $2, $3) ON CONFLICT (class_id, teacher_subject_id) DO NOTHING`
	res, err := tx.ExecContext(ctx, insert, slot.ID, slot.ClassID, slot.TeacherSubjectID)
	if err != nil {
		return false, fmt.Errorf("create schedule: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("create schedule rows: %w", err)
	}
	if affected == 0 {
		const existing = `SELECT id FROM schedules WHERE class_id = $1 AND teacher_subject_id = $2`
		if err := tx.GetContext(ctx, &slot.ID, existing, slot.ClassID, slot.TeacherSubjectID); err != nil {
			return false, fmt.Errorf("find existing schedule: %w", err)
		}
	}

	for _, day := range days {
		const insertDay = `INSERT INTO schedule_days (schedule_id, weekday) VALUES ($1, $2) ON CONFLICT DO NOTHING`
		if _, err := tx.ExecContext(ctx, insertDay, slot.ID, day); err != nil {
			return false, fmt.Errorf("create schedule day: %w", err)
		}
	}
	for _, p := range periods {
		const upsertPeriod = `INSERT INTO schedule_periods (id, schedule_id, number, starts_at, ends_at) VALUES ($1, $2, $3, $4, $5)
                ON CONFLICT (schedule_id, number) DO UPDATE SET starts_at = EXCLUDED.starts_at, ends_at = EXCLUDED.ends_at`
		if _, err := tx.ExecContext(ctx, upsertPeriod, uuid.NewString(), slot.ID, p.Number, p.StartsAt, p.EndsAt); err != nil {
			return false, fmt.Errorf("upsert schedule period: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit schedule: %w", err)
	}
	return affected > 0, nil
}

// FindDetail returns a slot with class, term and subject context.
func (r *ScheduleRepository) FindDetail(ctx context.Context, id string) (*models.ScheduleDetail, error) {
	var detail models.ScheduleDetail
	if err := r.db.GetContext(ctx, &detail, scheduleDetailSelect+` WHERE s.id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find schedule: %w", err)
	}
	return &detail, nil
}

// FindOwned returns the slot only when it belongs to the teacher; otherwise sql.ErrNoRows.
func (r *ScheduleRepository) FindOwned(ctx context.Context, id, teacherID string) (*models.ScheduleDetail, error) {
	var detail models.ScheduleDetail
	if err := r.db.GetContext(ctx, &detail, scheduleDetailSelect+` WHERE s.id = $1 AND ts.teacher_id = $2`, id, teacherID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find owned schedule: %w", err)
	}
	return &detail, nil
}

// List returns slots matching the filter ordered by course, section and subject.
func (r *ScheduleRepository) List(ctx context.Context, filter ScheduleFilter) ([]models.ScheduleDetail, error) {
	var conditions []string
	var args []interface{}
	if filter.TeacherID != "" {
		args = append(args, filter.TeacherID)
		conditions = append(conditions, fmt.Sprintf("ts.teacher_id = $%d", len(args)))
	}
	if filter.StudentID != "" {
		args = append(args, filter.StudentID)
		conditions = append(conditions, fmt.Sprintf("EXISTS (SELECT 1 FROM enrollments e WHERE e.class_id = s.class_id AND e.student_id = $%d)", len(args)))
	}
	if filter.SubjectID != "" {
		args = append(args, filter.SubjectID)
		conditions = append(conditions, fmt.Sprintf("ts.subject_id = $%d", len(args)))
	}
	if filter.TermID != "" {
		args = append(args, filter.TermID)
		conditions = append(conditions, fmt.Sprintf("c.term_id = $%d", len(args)))
	}
	if filter.Trimester > 0 {
		args = append(args, filter.Trimester)
		conditions = append(conditions, fmt.Sprintf("t.trimester = $%d", len(args)))
	}

	query := scheduleDetailSelect
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY co.level ASC, c.section ASC, sub.name ASC"

	var slots []models.ScheduleDetail
	if err := r.db.SelectContext(ctx, &slots, query, args...); err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	return slots, nil
}

// LoadTimes fills the weekdays and periods of the given slots.
func (r *ScheduleRepository) LoadTimes(ctx context.Context, slots []models.ScheduleDetail) error {
	if len(slots) == 0 {
		return nil
	}
	ids := make([]string, len(slots))
	index := make(map[string]int, len(slots))
	for i, s := range slots {
		ids[i] = s.ID
		index[s.ID] = i
	}

	var days []models.ScheduleDay
	const daysQuery = `SELECT schedule_id, weekday FROM schedule_days WHERE schedule_id = ANY($1) ORDER BY weekday ASC`
	if err := r.db.SelectContext(ctx, &days, daysQuery, pq.Array(ids)); err != nil {
		return fmt.Errorf("list schedule days: %w", err)
	}
	for _, d := range days {
		i := index[d.ScheduleID]
		slots[i].Days = append(slots[i].Days, d.Weekday)
	}

	var periods []models.Period
	const periodsQuery = `SELECT id, schedule_id, number, starts_at::text AS starts_at, ends_at::text AS ends_at
        FROM schedule_periods WHERE schedule_id = ANY($1) ORDER BY number ASC`
	if err := r.db.SelectContext(ctx, &periods, periodsQuery, pq.Array(ids)); err != nil {
		return fmt.Errorf("list schedule periods: %w", err)
	}
	for _, p := range periods {
		i := index[p.ScheduleID]
		slots[i].Periods = append(slots[i].Periods, p)
	}
	return nil
}

// Sessions lists the periods held on a weekday for a teacher or a student, ordered by start time.
func (r *ScheduleRepository) Sessions(ctx context.Context, filter SessionFilter) ([]models.ClassSession, error) {
	query := `SELECT s.id AS schedule_id, sub.name AS subject_name, co.level AS course_level, c.section,
        p.number, p.starts_at::text AS starts_at, p.ends_at::text AS ends_at
        FROM schedules s
        JOIN schedule_days d ON d.schedule_id = s.id
        JOIN schedule_periods p ON p.schedule_id = s.id
        JOIN teacher_subjects ts ON ts.id = s.teacher_subject_id
        JOIN subjects sub ON sub.id = ts.subject_id
        JOIN classes c ON c.id = s.class_id
        JOIN courses co ON co.id = c.course_id
        WHERE d.weekday = $1 AND c.term_id = $2`
	args := []interface{}{filter.Weekday, filter.TermID}
	if filter.TeacherID != "" {
		args = append(args, filter.TeacherID)
		query += fmt.Sprintf(" AND ts.teacher_id = $%d", len(args))
	}
	if filter.StudentID != "" {
		args = append(args, filter.StudentID)
		query += fmt.Sprintf(" AND EXISTS (SELECT 1 FROM enrollments e WHERE e.class_id = s.class_id AND e.student_id = $%d)", len(args))
	}
	query += " ORDER BY p.starts_at ASC, p.number ASC"

	var sessions []models.ClassSession
	if err := r.db.SelectContext(ctx, &sessions, query, args...); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

// TeacherTeachesClass reports whether the teacher owns any slot of the class.
func (r *ScheduleRepository) TeacherTeachesClass(ctx context.Context, teacherID, classID string) (bool, error) {
	const query = `SELECT EXISTS (
        SELECT 1 FROM schedules s JOIN teacher_subjects ts ON ts.id = s.teacher_subject_id
        WHERE s.class_id = $1 AND ts.teacher_id = $2)`
	var ok bool
	if err := r.db.GetContext(ctx, &ok, query, classID, teacherID); err != nil {
		return false, fmt.Errorf("check teacher class: %w", err)
	}
	return ok, nil
}

// Students returns the students enrolled in the slot's class.
func (r *ScheduleRepository) Students(ctx context.Context, scheduleID string) ([]models.Person, error) {
	const query = `SELECT u.id, u.username, u.first_name, u.last_name, u.email
        FROM schedules s
        JOIN enrollments e ON e.class_id = s.class_id
        JOIN users u ON u.id = e.student_id
        WHERE s.id = $1
        ORDER BY u.last_name ASC, u.first_name ASC`
	var students []models.Person
	if err := r.db.SelectContext(ctx, &students, query, scheduleID); err != nil {
		return nil, fmt.Errorf("list schedule students: %w", err)
	}
	return students, nil
}
