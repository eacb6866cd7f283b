package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sia-rendimiento-api/internal/models"
)

const pendingSubmissionSelect = `SELECT sb.id AS submission_id, sb.student_id, (u.first_name || ' ' || u.last_name) AS student_name,
        a.title, sub.name AS subject_name, sb.status, sb.submitted_at, a.due_on
        FROM submissions sb
        JOIN assignments a ON a.id = sb.assignment_id
        JOIN teacher_subjects ts ON ts.id = a.teacher_subject_id
        JOIN subjects sub ON sub.id = ts.subject_id
        JOIN users u ON u.id = sb.student_id`

// EvaluationRepository persists assignments, exams and their results.
type EvaluationRepository struct {
	db *sqlx.DB
}

// NewEvaluationRepository constructs an evaluation repository.
func NewEvaluationRepository(db *sqlx.DB) *EvaluationRepository {
	return &EvaluationRepository{db: db}
}

// CreateAssignment inserts an assignment.
func (r *EvaluationRepository) CreateAssignment(ctx context.Context, a *models.Assignment) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO assignments (id, teacher_subject_id, class_id, title, description, assigned_on, due_on, deadline, created_at)
        VALUES (:id, :teacher_subject_id, :class_id, :title, :description, :assigned_on, :due_on, :deadline, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, a); err != nil {
		return fmt.Errorf("create assignment: %w", err)
	}
	return nil
}

// FindAssignment returns an assignment by identifier.
func (r *EvaluationRepository) FindAssignment(ctx context.Context, id string) (*models.Assignment, error) {
	const query = `SELECT id, teacher_subject_id, class_id, title, description, assigned_on, due_on, deadline, created_at FROM assignments WHERE id = $1`
	var a models.Assignment
	if err := r.db.GetContext(ctx, &a, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find assignment: %w", err)
	}
	return &a, nil
}

// CreateExam inserts an exam.
func (r *EvaluationRepository) CreateExam(ctx context.Context, e *models.Exam) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO exams (id, teacher_subject_id, class_id, title, description, held_on, created_at)
        VALUES (:id, :teacher_subject_id, :class_id, :title, :description, :held_on, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, e); err != nil {
		return fmt.Errorf("create exam: %w", err)
	}
	return nil
}

// FindExam returns an exam by identifier.
func (r *EvaluationRepository) FindExam(ctx context.Context, id string) (*models.Exam, error) {
	const query = `SELECT id, teacher_subject_id, class_id, title, description, held_on, created_at FROM exams WHERE id = $1`
	var e models.Exam
	if err := r.db.GetContext(ctx, &e, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find exam: %w", err)
	}
	return &e, nil
}

// UpsertSubmission records a delivery. A graded submission keeps its status.
func (r *EvaluationRepository) UpsertSubmission(ctx context.Context, s *models.Submission) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	s.CreatedAt = now
	s.UpdatedAt = now
	const query = `INSERT INTO submissions (id, assignment_id, student_id, submitted_at, file_path, status, created_at, updated_at)
        VALUES (:id, :assignment_id, :student_id, :submitted_at, :file_path, :status, :created_at, :updated_at)
        ON CONFLICT (assignment_id, student_id) DO UPDATE SET
            submitted_at = EXCLUDED.submitted_at,
            file_path = EXCLUDED.file_path,
            status = CASE WHEN submissions.status = 'calificada' THEN submissions.status ELSE EXCLUDED.status END,
            updated_at = EXCLUDED.updated_at
        RETURNING id, status`
	rows, err := r.db.NamedQueryContext(ctx, query, s)
	if err != nil {
		return fmt.Errorf("upsert submission: %w", err)
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&s.ID, &s.Status); err != nil {
			return fmt.Errorf("scan submission: %w", err)
		}
	}
	return rows.Err()
}

// FindSubmission returns a submission by identifier.
func (r *EvaluationRepository) FindSubmission(ctx context.Context, id string) (*models.Submission, error) {
	const query = `SELECT id, assignment_id, student_id, submitted_at, file_path, score, status, remark, created_at, updated_at FROM submissions WHERE id = $1`
	var s models.Submission
	if err := r.db.GetContext(ctx, &s, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find submission: %w", err)
	}
	return &s, nil
}

// GradeSubmission stores the score and marks the submission as graded.
func (r *EvaluationRepository) GradeSubmission(ctx context.Context, s *models.Submission) error {
	s.Status = models.SubmissionGraded
	s.UpdatedAt = time.Now().UTC()
	const query = `UPDATE submissions SET score = :score, remark = :remark, status = :status, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, s); err != nil {
		return fmt.Errorf("grade submission: %w", err)
	}
	return nil
}

// UpsertExamResults stores exam results in one transaction.
func (r *EvaluationRepository) UpsertExamResults(ctx context.Context, results []models.ExamResult) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin exam results: %w", err)
	}
	const query = `INSERT INTO exam_results (id, exam_id, student_id, score, status, remark, updated_at)
        VALUES (:id, :exam_id, :student_id, :score, :status, :remark, :updated_at)
        ON CONFLICT (exam_id, student_id) DO UPDATE SET score = EXCLUDED.score, status = EXCLUDED.status,
            remark = EXCLUDED.remark, updated_at = EXCLUDED.updated_at`
	now := time.Now().UTC()
	for i := range results {
		if results[i].ID == "" {
			results[i].ID = uuid.NewString()
		}
		results[i].UpdatedAt = now
		if _, err := tx.NamedExecContext(ctx, query, results[i]); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("upsert exam result: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit exam results: %w", err)
	}
	return nil
}

// RecentGradedSubmissions returns a student's latest graded deliveries.
func (r *EvaluationRepository) RecentGradedSubmissions(ctx context.Context, studentID string, limit int) ([]models.RecentSubmission, error) {
	const query = `SELECT sb.id AS submission_id, sb.student_id, a.title, sub.name AS subject_name, sb.score, sb.status, sb.submitted_at, a.due_on
        FROM submissions sb
        JOIN assignments a ON a.id = sb.assignment_id
        JOIN teacher_subjects ts ON ts.id = a.teacher_subject_id
        JOIN subjects sub ON sub.id = ts.subject_id
        WHERE sb.student_id = $1 AND sb.status = 'calificada'
        ORDER BY sb.submitted_at DESC NULLS LAST
        LIMIT $2`
	var items []models.RecentSubmission
	if err := r.db.SelectContext(ctx, &items, query, studentID, limit); err != nil {
		return nil, fmt.Errorf("recent submissions: %w", err)
	}
	return items, nil
}

// RecentGradedExams returns a student's latest graded exam results by exam date.
func (r *EvaluationRepository) RecentGradedExams(ctx context.Context, studentID string, limit int) ([]models.RecentExam, error) {
	const query = `SELECT er.id AS result_id, er.student_id, x.title, sub.name AS subject_name, er.score, x.held_on
        FROM exam_results er
        JOIN exams x ON x.id = er.exam_id
        JOIN teacher_subjects ts ON ts.id = x.teacher_subject_id
        JOIN subjects sub ON sub.id = ts.subject_id
        WHERE er.student_id = $1 AND er.status = 'calificado'
        ORDER BY x.held_on DESC
        LIMIT $2`
	var items []models.RecentExam
	if err := r.db.SelectContext(ctx, &items, query, studentID, limit); err != nil {
		return nil, fmt.Errorf("recent exams: %w", err)
	}
	return items, nil
}

// PendingForTeacher returns ungraded deliveries of the teacher's assignments, newest first.
func (r *EvaluationRepository) PendingForTeacher(ctx context.Context, teacherID string, limit int) ([]models.PendingSubmission, error) {
	query := pendingSubmissionSelect + `
        WHERE ts.teacher_id = $1 AND sb.status IN ('entregada', 'pendiente')
        ORDER BY COALESCE(sb.submitted_at, a.due_on) DESC
        LIMIT $2`
	var items []models.PendingSubmission
	if err := r.db.SelectContext(ctx, &items, query, teacherID, limit); err != nil {
		return nil, fmt.Errorf("teacher pending submissions: %w", err)
	}
	return items, nil
}

// PendingForStudent returns every ungraded delivery of a student, oldest first.
func (r *EvaluationRepository) PendingForStudent(ctx context.Context, studentID string) ([]models.PendingSubmission, error) {
	query := pendingSubmissionSelect + `
        WHERE sb.student_id = $1 AND sb.status IN ('pendiente', 'entregada')
        ORDER BY COALESCE(sb.submitted_at, a.due_on) ASC`
	var items []models.PendingSubmission
	if err := r.db.SelectContext(ctx, &items, query, studentID); err != nil {
		return nil, fmt.Errorf("student pending submissions: %w", err)
	}
	return items, nil
}
