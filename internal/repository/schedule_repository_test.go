package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sia-rendimiento-api/internal/models"
)

var scheduleDetailColumns = []string{"id", "class_id", "teacher_subject_id", "teacher_id", "subject_id", "subject_name", "term_id", "trimester", "course_level", "section"}

func TestGetOrCreateTeacherSubjectExisting(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectExec("INSERT INTO teacher_subjects").
		WithArgs(sqlmock.AnyArg(), "t1", "m1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, teacher_id, subject_id FROM teacher_subjects WHERE teacher_id = $1 AND subject_id = $2")).
		WithArgs("t1", "m1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "teacher_id", "subject_id"}).AddRow("ts-1", "t1", "m1"))

	ts, created, err := repo.GetOrCreateTeacherSubject(context.Background(), "t1", "m1")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "ts-1", ts.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleGetOrCreateStoresTimes(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO schedules").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO schedule_days").WithArgs(sqlmock.AnyArg(), models.Monday).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO schedule_days").WithArgs(sqlmock.AnyArg(), models.Wednesday).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO schedule_periods").WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), 1, "08:00", "08:45").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	slot := &models.Schedule{ClassID: "c1", TeacherSubjectID: "ts1"}
	created, err := repo.GetOrCreate(context.Background(), slot, []models.Weekday{models.Monday, models.Wednesday},
		[]models.PeriodInput{{Number: 1, StartsAt: "08:00", EndsAt: "08:45"}})
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEmpty(t, slot.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleListBuildsFilters(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE ts.teacher_id = $1 AND c.term_id = $2 AND t.trimester = $3 ORDER BY co.level ASC")).
		WithArgs("t1", "term-1", 2).
		WillReturnRows(sqlmock.NewRows(scheduleDetailColumns).
			AddRow("h1", "c1", "ts1", "t1", "m1", "Matemática", "term-1", 2, 5, "A"))

	slots, err := repo.List(context.Background(), ScheduleFilter{TeacherID: "t1", TermID: "term-1", Trimester: 2})
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, "Matemática", slots[0].SubjectName)
	assert.Equal(t, 5, slots[0].CourseLevel)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleLoadTimes(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectQuery("FROM schedule_days WHERE schedule_id = ANY").
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"schedule_id", "weekday"}).AddRow("h1", 1).AddRow("h1", 3))
	mock.ExpectQuery("FROM schedule_periods WHERE schedule_id = ANY").
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "schedule_id", "number", "starts_at", "ends_at"}).AddRow("p1", "h1", 1, "08:00:00", "08:45:00"))

	slots := []models.ScheduleDetail{{ID: "h1"}}
	require.NoError(t, repo.LoadTimes(context.Background(), slots))
	assert.Equal(t, []models.Weekday{models.Monday, models.Wednesday}, slots[0].Days)
	require.Len(t, slots[0].Periods, 1)
	assert.Equal(t, "08:00:00", slots[0].Periods[0].StartsAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleSessionsForStudent(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE d.weekday = $1 AND c.term_id = $2 AND EXISTS (SELECT 1 FROM enrollments e WHERE e.class_id = s.class_id AND e.student_id = $3)")).
		WithArgs(models.Friday, "term-1", "s1").
		WillReturnRows(sqlmock.NewRows([]string{"schedule_id", "subject_name", "course_level", "section", "number", "starts_at", "ends_at"}).
			AddRow("h1", "Física", 6, "B", 2, "09:00:00", "09:45:00"))

	sessions, err := repo.Sessions(context.Background(), SessionFilter{StudentID: "s1", TermID: "term-1", Weekday: models.Friday})
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "Física", sessions[0].SubjectName)
	assert.NoError(t, mock.ExpectationsWereMet())
}
