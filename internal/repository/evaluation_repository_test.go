package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sia-rendimiento-api/internal/models"
)

var pendingColumns = []string{"submission_id", "student_id", "student_name", "title", "subject_name", "status", "submitted_at", "due_on"}

func TestPendingForTeacherNewestFirst(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEvaluationRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY COALESCE(sb.submitted_at, a.due_on) DESC")).
		WithArgs("t1", 10).
		WillReturnRows(sqlmock.NewRows(pendingColumns).
			AddRow("sb1", "s1", "Ana Rojas", "Ensayo", "Lenguaje", "entregada", now, now))

	items, err := repo.PendingForTeacher(context.Background(), "t1", 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, models.SubmissionDelivered, items[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPendingForStudentOldestFirst(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEvaluationRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY COALESCE(sb.submitted_at, a.due_on) ASC")).
		WithArgs("s1").
		WillReturnRows(sqlmock.NewRows(pendingColumns))

	items, err := repo.PendingForStudent(context.Background(), "s1")
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertSubmissionKeepsReturnedStatus(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEvaluationRepository(db)

	mock.ExpectQuery("INSERT INTO submissions").
		WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).AddRow("sb1", "calificada"))

	path := "tareas/ensayo.pdf"
	now := time.Now()
	s := &models.Submission{AssignmentID: "a1", StudentID: "s1", FilePath: &path, SubmittedAt: &now, Status: models.SubmissionDelivered}
	require.NoError(t, repo.UpsertSubmission(context.Background(), s))
	assert.Equal(t, "sb1", s.ID)
	assert.Equal(t, models.SubmissionGraded, s.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecentGradedExams(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEvaluationRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY x.held_on DESC")).
		WithArgs("s1", 5).
		WillReturnRows(sqlmock.NewRows([]string{"result_id", "student_id", "title", "subject_name", "score", "held_on"}).
			AddRow("r1", "s1", "Parcial 1", "Química", 64.0, time.Now()))

	items, err := repo.RecentGradedExams(context.Background(), "s1", 5)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 64.0, *items[0].Score)
	assert.NoError(t, mock.ExpectationsWereMet())
}
