package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sia-rendimiento-api/internal/models"
	appErrors "github.com/noah-isme/sia-rendimiento-api/pkg/errors"
)

type fakeAttendanceStore struct {
	saved         []models.Attendance
	byID          map[string]models.Attendance
	participation *models.Participation
}

func (f *fakeAttendanceStore) BulkUpsert(_ context.Context, records []models.Attendance) error {
	f.saved = append(f.saved, records...)
	return nil
}

func (f *fakeAttendanceStore) FindByID(_ context.Context, id string) (*models.Attendance, error) {
	rec, ok := f.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &rec, nil
}

func (f *fakeAttendanceStore) UpsertParticipation(_ context.Context, p *models.Participation) error {
	p.ID = "p1"
	f.participation = p
	return nil
}

func newAttendanceFixture() (*AttendanceService, *fakeAttendanceStore, *stubCacheRepo) {
	store := &fakeAttendanceStore{byID: map[string]models.Attendance{"a1": {ID: "a1", ScheduleID: "h1"}}}
	slots := &fakeSlots{
		owned:    map[string]models.ScheduleDetail{"h1": {ID: "h1", TeacherID: "t1"}},
		students: []models.Person{{ID: "s1"}, {ID: "s2"}},
	}
	cacheRepo := &stubCacheRepo{}
	loc := time.FixedZone("BOT", -4*3600)
	svc := NewAttendanceService(store, slots, NewCacheService(cacheRepo, nil, 0, nil, true), nil, loc, nil)
	svc.now = func() time.Time { return time.Date(2024, 3, 5, 2, 0, 0, 0, time.UTC) }
	return svc, store, cacheRepo
}

func TestAttendanceRecordDefaults(t *testing.T) {
	svc, store, cacheRepo := newAttendanceFixture()

	n, err := svc.Record(context.Background(), "t1", "h1", models.RecordAttendanceRequest{Items: []models.AttendanceItem{
		{StudentID: "s1"},
		{StudentID: "s2", Status: models.AttendanceAbsent},
	}})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.Len(t, store.saved, 2)
	assert.Equal(t, models.AttendancePresent, store.saved[0].Status)
	assert.Equal(t, models.AttendanceAbsent, store.saved[1].Status)
	assert.Equal(t, "2024-03-04", store.saved[0].Date.Format("2006-01-02"))
	assert.Equal(t, []string{"dash:*"}, cacheRepo.invalidated)
}

func TestAttendanceRecordExplicitDateAndDuplicates(t *testing.T) {
	svc, store, _ := newAttendanceFixture()

	n, err := svc.Record(context.Background(), "t1", "h1", models.RecordAttendanceRequest{Date: "2024-04-01", Items: []models.AttendanceItem{
		{StudentID: "s1", Status: models.AttendanceAbsent},
		{StudentID: "s1", Status: models.AttendanceExcused},
	}})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, models.AttendanceExcused, store.saved[0].Status)
	assert.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), store.saved[0].Date)
}

func TestAttendanceRecordErrors(t *testing.T) {
	svc, store, _ := newAttendanceFixture()
	ctx := context.Background()
	items := []models.AttendanceItem{{StudentID: "s1"}}

	_, err := svc.Record(ctx, "t2", "h1", models.RecordAttendanceRequest{Items: items})
	assert.Equal(t, "Horario no encontrado", appErrors.FromError(err).Message)
	assert.Equal(t, 404, appErrors.FromError(err).Status)

	_, err = svc.Record(ctx, "t1", "h1", models.RecordAttendanceRequest{Date: "01/04/2024", Items: items})
	assert.Equal(t, "Fecha inválida", appErrors.FromError(err).Message)

	_, err = svc.Record(ctx, "t1", "h1", models.RecordAttendanceRequest{Items: []models.AttendanceItem{{StudentID: "s1", Status: "Tarde"}}})
	assert.Equal(t, 400, appErrors.FromError(err).Status)

	_, err = svc.Record(ctx, "t1", "h1", models.RecordAttendanceRequest{Items: []models.AttendanceItem{{StudentID: "s7"}}})
	assert.Equal(t, 400, appErrors.FromError(err).Status)

	assert.Empty(t, store.saved)
}

func TestAttendanceRecordEmptyListStoresNothing(t *testing.T) {
	svc, store, cacheRepo := newAttendanceFixture()

	n, err := svc.Record(context.Background(), "t1", "h1", models.RecordAttendanceRequest{Items: []models.AttendanceItem{}})
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, store.saved)
	assert.Empty(t, cacheRepo.invalidated)
}

func TestRegisterValidations(t *testing.T) {
	v := validator.New()
	require.NoError(t, RegisterValidations(v))

	assert.NoError(t, v.Struct(models.AttendanceItem{StudentID: "s1", Status: models.AttendanceAbsent}))
	assert.NoError(t, v.Struct(models.AttendanceItem{StudentID: "s1"}))
	assert.Error(t, v.Struct(models.AttendanceItem{StudentID: "s1", Status: "Tarde"}))
}

func TestAttendanceParticipation(t *testing.T) {
	svc, store, _ := newAttendanceFixture()
	ctx := context.Background()

	p, err := svc.Participation(ctx, "t1", "a1", models.ParticipationRequest{Remark: "Participa activamente"})
	require.NoError(t, err)
	assert.Equal(t, "a1", p.AttendanceID)
	assert.Equal(t, "Participa activamente", store.participation.Remark)

	_, err = svc.Participation(ctx, "t1", "missing", models.ParticipationRequest{Remark: "x"})
	assert.Equal(t, "Asistencia no encontrada", appErrors.FromError(err).Message)

	_, err = svc.Participation(ctx, "t2", "a1", models.ParticipationRequest{Remark: "x"})
	assert.Equal(t, 404, appErrors.FromError(err).Status)
}
