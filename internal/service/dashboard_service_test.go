package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sia-rendimiento-api/internal/models"
	"github.com/noah-isme/sia-rendimiento-api/internal/repository"
	"github.com/noah-isme/sia-rendimiento-api/pkg/classifier"
	appErrors "github.com/noah-isme/sia-rendimiento-api/pkg/errors"
)

type modelFunc func(classifier.Features) (classifier.Prediction, error)

func (f modelFunc) Predict(x classifier.Features) (classifier.Prediction, error) { return f(x) }

// examThresholds classifies on the exam average alone.
var examThresholds = modelFunc(func(x classifier.Features) (classifier.Prediction, error) {
	switch {
	case x[0] < 51:
		return classifier.Prediction{Class: classifier.ClassLow, Confidence: 0.9}, nil
	case x[0] < 71:
		return classifier.Prediction{Class: classifier.ClassRegular, Confidence: 0.7}, nil
	default:
		return classifier.Prediction{Class: classifier.ClassGood, Confidence: 0.8}, nil
	}
})

type dashTerms struct {
	latest *models.Term
	byID   map[string]models.Term
}

func (f *dashTerms) Latest(context.Context) (*models.Term, error) {
	if f.latest == nil {
		return nil, sql.ErrNoRows
	}
	return f.latest, nil
}

func (f *dashTerms) FindByID(_ context.Context, id string) (*models.Term, error) {
	term, ok := f.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &term, nil
}

type dashSchedules struct {
	slots         []models.ScheduleDetail
	sessions      []models.ClassSession
	listFilter    repository.ScheduleFilter
	sessionFilter repository.SessionFilter
}

func (f *dashSchedules) List(_ context.Context, filter repository.ScheduleFilter) ([]models.ScheduleDetail, error) {
	f.listFilter = filter
	return f.slots, nil
}

func (f *dashSchedules) Sessions(_ context.Context, filter repository.SessionFilter) ([]models.ClassSession, error) {
	f.sessionFilter = filter
	return f.sessions, nil
}

type dashGrades struct {
	bySchedule map[string][]models.SubjectGradeRow
	cards      map[string][]models.ReportCardEntry
}

func (f *dashGrades) ListBySchedule(_ context.Context, scheduleID string) ([]models.SubjectGradeRow, error) {
	return f.bySchedule[scheduleID], nil
}

func (f *dashGrades) ReportCard(_ context.Context, studentID, _ string) ([]models.ReportCardEntry, error) {
	return f.cards[studentID], nil
}

type dashActivity struct {
	pendingTeacherLimit int
	pendingStudent      []models.PendingSubmission
	submissions         []models.RecentSubmission
}

func (f *dashActivity) RecentGradedSubmissions(_ context.Context, _ string, limit int) ([]models.RecentSubmission, error) {
	if len(f.submissions) > limit {
		return f.submissions[:limit], nil
	}
	return f.submissions, nil
}

func (f *dashActivity) RecentGradedExams(context.Context, string, int) ([]models.RecentExam, error) {
	return nil, nil
}

func (f *dashActivity) PendingForTeacher(_ context.Context, _ string, limit int) ([]models.PendingSubmission, error) {
	f.pendingTeacherLimit = limit
	return nil, nil
}

func (f *dashActivity) PendingForStudent(context.Context, string) ([]models.PendingSubmission, error) {
	return f.pendingStudent, nil
}

type dashTutees []models.Person

func (f dashTutees) ListTutees(context.Context, string) ([]models.Person, error) { return f, nil }

type dashUsers map[string]models.User

func (f dashUsers) FindByID(_ context.Context, id string) (*models.User, error) {
	u, ok := f[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &u, nil
}

type dashboardFixture struct {
	terms     *dashTerms
	schedules *dashSchedules
	grades    *dashGrades
	activity  *dashActivity
	features  *fakeFeatureRepo
	cacheRepo *stubCacheRepo
	svc       *DashboardService
}

func newDashboardFixture(model riskModel) *dashboardFixture {
	term := models.Term{ID: "g1", Year: 2024, Trimester: 2}
	f := &dashboardFixture{
		terms:     &dashTerms{latest: &term, byID: map[string]models.Term{"g1": term}},
		schedules: &dashSchedules{},
		grades:    &dashGrades{bySchedule: map[string][]models.SubjectGradeRow{}, cards: map[string][]models.ReportCardEntry{}},
		activity:  &dashActivity{},
		features:  &fakeFeatureRepo{student: map[string]models.StudentFeatures{}, schedule: map[string]map[string]models.StudentFeatures{}},
		cacheRepo: &stubCacheRepo{},
	}
	f.svc = NewDashboardService(DashboardServiceParams{
		Terms:      f.terms,
		Schedules:  f.schedules,
		Grades:     f.grades,
		Activity:   f.activity,
		Tutorships: dashTutees{{ID: "s1", FirstName: "Ana", LastName: "Rojas"}},
		Users: dashUsers{
			"s1": {ID: "s1", Username: "ana", FirstName: "Ana", LastName: "Rojas", Role: models.RoleStudent},
			"t1": {ID: "t1", Role: models.RoleTeacher},
		},
		Features: NewFeatureService(f.features),
		Risk:     NewRiskService(model, nil, nil, nil, RiskConfig{AtRiskMaxClass: 1}),
		Cache:    NewCacheService(f.cacheRepo, nil, time.Minute, nil, true),
	})
	f.svc.now = func() time.Time { return time.Date(2024, 6, 12, 10, 0, 0, 0, time.UTC) }
	return f
}

func TestDashboardTeacherGroupsAtRiskStudents(t *testing.T) {
	f := newDashboardFixture(examThresholds)
	f.schedules.slots = []models.ScheduleDetail{
		{ID: "h1", ClassID: "c1", SubjectID: "m1", SubjectName: "Matemática", CourseLevel: 3, Section: "A"},
		{ID: "h2", ClassID: "c2", SubjectID: "m2", SubjectName: "Física", CourseLevel: 4, Section: "B"},
	}
	f.schedules.sessions = []models.ClassSession{
		{ScheduleID: "h1", StartsAt: "08:00:00"},
		{ScheduleID: "h2", StartsAt: "10:00:00"},
		{ScheduleID: "h1", StartsAt: "14:30:00"},
	}
	avg := 45.5
	f.grades.bySchedule["h1"] = []models.SubjectGradeRow{
		{SubjectGrade: models.SubjectGrade{StudentID: "s1", Average: &avg}, FirstName: "Ana", LastName: "Rojas"},
		{SubjectGrade: models.SubjectGrade{StudentID: "s2"}, FirstName: "Luis", LastName: "Paz"},
		{SubjectGrade: models.SubjectGrade{StudentID: "s3"}, FirstName: "Eva", LastName: "Soto"},
	}
	f.grades.bySchedule["h2"] = []models.SubjectGradeRow{{SubjectGrade: models.SubjectGrade{StudentID: "s4"}}}
	f.features.schedule["h1"] = map[string]models.StudentFeatures{
		"s1": {StudentID: "s1", ExamAvg: 40, AssignmentAvg: 55.556, AttendancePct: 0.8333},
		"s2": {StudentID: "s2", ExamAvg: 95, AssignmentAvg: 90, AttendancePct: 1},
	}
	f.features.schedule["h2"] = map[string]models.StudentFeatures{"s4": {StudentID: "s4", ExamAvg: 88}}

	dash, hit, err := f.svc.Teacher(context.Background(), "t1", "", 0)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, "g1", f.schedules.listFilter.TermID)
	assert.Equal(t, models.Wednesday, f.schedules.sessionFilter.Weekday)
	assert.Equal(t, teacherPendingLimit, f.activity.pendingTeacherLimit)

	require.Len(t, dash.Results, 1)
	group := dash.Results[0]
	assert.Equal(t, "h1", group.ScheduleID)
	assert.Equal(t, 3, group.CourseLevel)
	require.Len(t, group.Students, 2)

	first := group.Students[0]
	assert.Equal(t, "Ana Rojas", first.Student)
	assert.Equal(t, 55.56, first.AssignmentAvg)
	assert.Equal(t, 83.33, first.AttendancePct)
	assert.Equal(t, &avg, first.GradeAvg)
	assert.Equal(t, "bajo", first.Category)

	// s3 has a grade record but no activity, so its vector is all zeros.
	assert.Equal(t, "s3", group.Students[1].StudentID)
	assert.Equal(t, 0.0, group.Students[1].ExamAvg)

	require.Len(t, dash.UpcomingClasses, 2)
	assert.Equal(t, "10:00:00", dash.UpcomingClasses[0].StartsAt)
	assert.NotNil(t, dash.PendingSubmissions)

	cached, hit, err := f.svc.Teacher(context.Background(), "t1", "", 0)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Len(t, cached.Results, 1)
	assert.Contains(t, f.cacheRepo.store, "dash:teacher:t1:latest:0")
}

func TestDashboardTeacherUpcomingClassesFollowClock(t *testing.T) {
	f := newDashboardFixture(examThresholds)
	f.schedules.sessions = []models.ClassSession{
		{ScheduleID: "h1", StartsAt: "11:00:00"},
		{ScheduleID: "h1", StartsAt: "14:30:00"},
	}

	dash, hit, err := f.svc.Teacher(context.Background(), "t1", "", 0)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Len(t, dash.UpcomingClasses, 2)

	var cached models.TeacherDashboard
	require.NoError(t, f.cacheRepo.Get(context.Background(), teacherCacheKey("t1", "", 0), &cached))
	assert.Empty(t, cached.UpcomingClasses)

	f.svc.now = func() time.Time { return time.Date(2024, 6, 12, 12, 0, 0, 0, time.UTC) }
	dash, hit, err = f.svc.Teacher(context.Background(), "t1", "", 0)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "g1", dash.Term.ID)
	require.Len(t, dash.UpcomingClasses, 1)
	assert.Equal(t, "14:30:00", dash.UpcomingClasses[0].StartsAt)
}

func TestDashboardTeacherEmptyResults(t *testing.T) {
	f := newDashboardFixture(examThresholds)
	f.schedules.slots = []models.ScheduleDetail{{ID: "h1"}}

	dash, _, err := f.svc.Teacher(context.Background(), "t1", "g1", 2)
	require.NoError(t, err)
	assert.NotNil(t, dash.Results)
	assert.Empty(t, dash.Results)
	assert.Equal(t, 2, f.schedules.listFilter.Trimester)
}

func TestDashboardTeacherTermErrors(t *testing.T) {
	f := newDashboardFixture(examThresholds)

	_, _, err := f.svc.Teacher(context.Background(), "t1", "missing", 0)
	require.Error(t, err)
	assert.Equal(t, "Gestión no encontrada.", appErrors.FromError(err).Message)
	assert.Equal(t, 404, appErrors.FromError(err).Status)

	f.terms.latest = nil
	_, _, err = f.svc.Teacher(context.Background(), "t1", "", 0)
	require.Error(t, err)
	assert.Equal(t, "No hay gestiones registradas.", appErrors.FromError(err).Message)
}

func TestDashboardTeacherClassifierUnavailable(t *testing.T) {
	f := newDashboardFixture(modelFunc(func(classifier.Features) (classifier.Prediction, error) {
		return classifier.Prediction{}, classifier.ErrUnavailable
	}))
	f.schedules.slots = []models.ScheduleDetail{{ID: "h1"}}
	f.grades.bySchedule["h1"] = []models.SubjectGradeRow{{SubjectGrade: models.SubjectGrade{StudentID: "s1"}}}

	_, _, err := f.svc.Teacher(context.Background(), "t1", "", 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrClassifierUnavailable))
	assert.Empty(t, f.cacheRepo.store)
}

func TestDashboardStudentSplitsAtRiskSubjects(t *testing.T) {
	f := newDashboardFixture(examThresholds)
	f.grades.cards["s1"] = []models.ReportCardEntry{
		{ScheduleID: "h1", SubjectID: "m1", SubjectName: "Física", Saber: f64(100), Hacer: f64(60)},
		{ScheduleID: "h2", SubjectID: "m2", SubjectName: "Historia", Ser: f64(90)},
	}
	f.features.student["s1/h1"] = models.StudentFeatures{StudentID: "s1", ExamAvg: 65, AttendancePct: 0.5}
	f.features.student["s1/h2"] = models.StudentFeatures{StudentID: "s1", ExamAvg: 92}
	f.activity.submissions = make([]models.RecentSubmission, 7)
	f.schedules.sessions = []models.ClassSession{{ScheduleID: "h1", StartsAt: "08:00:00"}}

	dash, hit, err := f.svc.Student(context.Background(), "s1")
	require.NoError(t, err)
	assert.False(t, hit)
	require.Len(t, dash.Subjects, 2)
	require.Len(t, dash.AtRiskSubjects, 1)
	assert.Equal(t, "Física", dash.AtRiskSubjects[0].Subject)
	assert.Equal(t, "regular", dash.AtRiskSubjects[0].Category)
	assert.Equal(t, 50.0, dash.AtRiskSubjects[0].AttendancePct)
	require.NotNil(t, dash.Subjects[0].GradeAvg)
	assert.Equal(t, 80.0, *dash.Subjects[0].GradeAvg)
	assert.Len(t, dash.RecentSubmissions, recentActivityLimit)
	assert.Len(t, dash.TodayClasses, 1)
	assert.Equal(t, "s1", f.schedules.sessionFilter.StudentID)
	assert.Contains(t, f.cacheRepo.store, "dash:student:s1")
}

func TestDashboardTutorWithoutTerms(t *testing.T) {
	f := newDashboardFixture(examThresholds)
	f.terms.latest = nil
	f.activity.pendingStudent = []models.PendingSubmission{{SubmissionID: "p1"}}

	dash, _, err := f.svc.Tutor(context.Background(), "tutor1")
	require.NoError(t, err)
	assert.Nil(t, dash.Term)
	require.Len(t, dash.Students, 1)
	tutee := dash.Students[0]
	assert.Equal(t, "Ana Rojas", tutee.Student)
	assert.Empty(t, tutee.SubjectsAtRisk)
	assert.Len(t, tutee.PendingSubmissions, 1)
}

func TestDashboardTutorListsAtRiskSubjects(t *testing.T) {
	f := newDashboardFixture(examThresholds)
	f.grades.cards["s1"] = []models.ReportCardEntry{
		{ScheduleID: "h1", SubjectID: "m1", SubjectName: "Química"},
		{ScheduleID: "h2", SubjectID: "m2", SubjectName: "Música"},
	}
	f.features.student["s1/h2"] = models.StudentFeatures{StudentID: "s1", ExamAvg: 99}

	dash, _, err := f.svc.Tutor(context.Background(), "tutor1")
	require.NoError(t, err)
	require.Len(t, dash.Students[0].SubjectsAtRisk, 1)
	assert.Equal(t, "Química", dash.Students[0].SubjectsAtRisk[0].Subject)
}

func TestDashboardStudentProfile(t *testing.T) {
	f := newDashboardFixture(examThresholds)
	f.grades.cards["s1"] = []models.ReportCardEntry{
		{ScheduleID: "h1", SubjectID: "m1", SubjectName: "Lenguaje", Saber: f64(80)},
		{ScheduleID: "h2", SubjectID: "m1", SubjectName: "Lenguaje", Saber: f64(61)},
		{ScheduleID: "h3", SubjectID: "m2", SubjectName: "Arte"},
	}
	f.features.student["s1/h1"] = models.StudentFeatures{ExamAvg: 90}
	f.features.student["s1/h2"] = models.StudentFeatures{ExamAvg: 60}
	f.features.student["s1/h3"] = models.StudentFeatures{ExamAvg: 90}

	profile, err := f.svc.StudentProfile(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "Ana", profile.Student.FirstName)
	require.Len(t, profile.Subjects, 2)
	require.NotNil(t, profile.Subjects[0].Average)
	assert.Equal(t, 70.5, *profile.Subjects[0].Average)
	assert.Equal(t, "regular", profile.Subjects[0].Prediction)
	assert.Nil(t, profile.Subjects[1].Average)
	assert.Equal(t, "bueno", profile.Subjects[1].Prediction)
}

func TestDashboardStudentProfileNotFound(t *testing.T) {
	f := newDashboardFixture(examThresholds)

	_, err := f.svc.StudentProfile(context.Background(), "t1")
	require.Error(t, err)
	assert.Equal(t, "Alumno no encontrado.", appErrors.FromError(err).Message)

	f.terms.latest = nil
	_, err = f.svc.StudentProfile(context.Background(), "s1")
	require.Error(t, err)
	assert.Equal(t, "No hay gestiones registradas.", appErrors.FromError(err).Message)
}
