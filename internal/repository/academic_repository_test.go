package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sia-rendimiento-api/internal/models"
)

func TestTermLatest(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTermRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM terms ORDER BY year DESC, trimester DESC LIMIT 1")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "year", "trimester", "created_at"}).
			AddRow("t3", 2024, 3, time.Now()))

	term, err := repo.Latest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "t3", term.ID)
	assert.Equal(t, 3, term.Trimester)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTermLatestWithoutRows(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTermRepository(db)

	mock.ExpectQuery("FROM terms").WillReturnError(sql.ErrNoRows)

	_, err := repo.Latest(context.Background())
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestTermCreateReportsConflict(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTermRepository(db)

	mock.ExpectExec("INSERT INTO terms").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO terms").WillReturnResult(sqlmock.NewResult(0, 0))

	created, err := repo.Create(context.Background(), &models.Term{Year: 2024, Trimester: 1})
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.Create(context.Background(), &models.Term{Year: 2024, Trimester: 1})
	require.NoError(t, err)
	assert.False(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTutorshipUpsertAndTutees(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTutorshipRepository(db)

	mock.ExpectExec("INSERT INTO tutorships").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE tt.tutor_id = $1")).
		WithArgs("tutor-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "first_name", "last_name", "email"}).
			AddRow("s1", "ana", "Ana", "Paz", "ana@example.com"))

	link := &models.Tutorship{TutorID: "tutor-1", StudentID: "s1"}
	require.NoError(t, repo.Upsert(context.Background(), link))
	assert.NotEmpty(t, link.ID)

	tutees, err := repo.ListTutees(context.Background(), "tutor-1")
	require.NoError(t, err)
	require.Len(t, tutees, 1)
	assert.Equal(t, "Ana", tutees[0].FirstName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPredictionUpsertAndList(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPredictionRepository(db)

	now := time.Now()
	mock.ExpectExec("INSERT INTO performance_predictions").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE p.student_id = $1")).
		WithArgs("s1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "student_id", "subject_id", "term_id", "score", "category", "details", "predicted_at", "subject_name"}).
			AddRow("p1", "s1", "sub1", "t1", 0, "bajo", `{"exam_avg":40}`, now, "Matemáticas"))

	p := &models.PerformancePrediction{StudentID: "s1", SubjectID: "sub1", TermID: "t1", Category: "bajo", Details: "{}", PredictedAt: now}
	require.NoError(t, repo.Upsert(context.Background(), p))
	assert.NotEmpty(t, p.ID)

	items, err := repo.ListByStudent(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Matemáticas", items[0].SubjectName)
	assert.Equal(t, "bajo", items[0].Category)
	assert.NoError(t, mock.ExpectationsWereMet())
}
