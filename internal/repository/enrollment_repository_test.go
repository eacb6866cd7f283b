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

func TestEnrollmentGetOrCreateNew(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectExec("INSERT INTO enrollments").WillReturnResult(sqlmock.NewResult(1, 1))

	enrollment, created, err := repo.GetOrCreate(context.Background(), "s1", "c1")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "s1", enrollment.StudentID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentGetOrCreateExisting(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	now := time.Now()
	mock.ExpectExec("INSERT INTO enrollments").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("FROM enrollments WHERE student_id = $1 AND class_id = $2")).
		WithArgs("s1", "c1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "student_id", "class_id", "score", "ser", "saber", "hacer", "decidir", "created_at", "updated_at"}).
			AddRow("e-old", "s1", "c1", 75.0, 70.0, 80.0, nil, nil, now, now))

	enrollment, created, err := repo.GetOrCreate(context.Background(), "s1", "c1")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "e-old", enrollment.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentUpdateScores(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectExec("UPDATE enrollments SET score").WillReturnResult(sqlmock.NewResult(0, 1))

	score := 75.0
	require.NoError(t, repo.UpdateScores(context.Background(), &models.Enrollment{ID: "e1", Score: &score}))
	assert.NoError(t, mock.ExpectationsWereMet())
}
