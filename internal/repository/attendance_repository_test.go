package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sia-rendimiento-api/internal/models"
)

func TestAttendanceBulkUpsert(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO attendance").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO attendance").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	date := time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)
	records := []models.Attendance{
		{ScheduleID: "h1", StudentID: "s1", Date: date, Status: models.AttendancePresent},
		{ScheduleID: "h1", StudentID: "s2", Date: date, Status: models.AttendanceAbsent},
	}
	require.NoError(t, repo.BulkUpsert(context.Background(), records))
	assert.NotEmpty(t, records[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceBulkUpsertRollsBack(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO attendance").WillReturnError(errors.New("boom"))
	mock.ExpectRollback()

	err := repo.BulkUpsert(context.Background(), []models.Attendance{{ScheduleID: "h1", StudentID: "s1", Status: models.AttendancePresent}})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertParticipation(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectQuery("INSERT INTO participations").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("p-existing"))

	p := &models.Participation{AttendanceID: "a1", Remark: "Participó en clase"}
	require.NoError(t, repo.UpsertParticipation(context.Background(), p))
	assert.Equal(t, "p-existing", p.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
