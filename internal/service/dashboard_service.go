package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sia-rendimiento-api/internal/models"
	"github.com/noah-isme/sia-rendimiento-api/internal/repository"
	appErrors "github.com/noah-isme/sia-rendimiento-api/pkg/errors"
)

const (
	recentActivityLimit = 5
	teacherPendingLimit = 10
)

type termReader interface {
	Latest(ctx context.Context) (*models.Term, error)
	FindByID(ctx context.Context, id string) (*models.Term, error)
}

type dashboardScheduleReader interface {
	List(ctx context.Context, filter repository.ScheduleFilter) ([]models.ScheduleDetail, error)
	Sessions(ctx context.Context, filter repository.SessionFilter) ([]models.ClassSession, error)
}

type dashboardGradeReader interface {
	ListBySchedule(ctx context.Context, scheduleID string) ([]models.SubjectGradeRow, error)
	ReportCard(ctx context.Context, studentID, termID string) ([]models.ReportCardEntry, error)
}

type activityReader interface {
	RecentGradedSubmissions(ctx context.Context, studentID string, limit int) ([]models.RecentSubmission, error)
	RecentGradedExams(ctx context.Context, studentID string, limit int) ([]models.RecentExam, error)
	PendingForTeacher(ctx context.Context, teacherID string, limit int) ([]models.PendingSubmission, error)
	PendingForStudent(ctx context.Context, studentID string) ([]models.PendingSubmission, error)
}

type tuteeLister interface {
	ListTutees(ctx context.Context, tutorID string) ([]models.Person, error)
}

type userFinder interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// DashboardServiceParams groups constructor dependencies.
type DashboardServiceParams struct {
	Terms      termReader
	Schedules  dashboardScheduleReader
	Grades     dashboardGradeReader
	Activity   activityReader
	Tutorships tuteeLister
	Users      userFinder
	Features   *FeatureService
	Risk       *RiskService
	Cache      *CacheService
	Location   *time.Location
	Logger     *zap.Logger
}

// DashboardService composes the teacher, student and tutor views.
type DashboardService struct {
	terms      termReader
	schedules  dashboardScheduleReader
	grades     dashboardGradeReader
	activity   activityReader
	tutorships tuteeLister
	users      userFinder
	features   *FeatureService
	risk       *RiskService
	cache      *CacheService
	loc        *time.Location
	logger     *zap.Logger
	now        func() time.Time
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(params DashboardServiceParams) *DashboardService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	loc := params.Location
	if loc == nil {
		loc = time.UTC
	}
	return &DashboardService{
		terms:      params.Terms,
		schedules:  params.Schedules,
		grades:     params.Grades,
		activity:   params.Activity,
		tutorships: params.Tutorships,
		users:      params.Users,
		features:   params.Features,
		risk:       params.Risk,
		cache:      params.Cache,
		loc:        loc,
		logger:     logger,
		now:        time.Now,
	}
}

// Teacher returns the at-risk students of every slot the teacher owns in the
// selected term, plus today's upcoming classes and pending deliveries. The
// boolean reports a cache hit. Upcoming classes depend on the time of day and
// are never served from the cache.
func (s *DashboardService) Teacher(ctx context.Context, teacherID, termID string, trimester int) (*models.TeacherDashboard, bool, error) {
	key := teacherCacheKey(teacherID, termID, trimester)
	var dashboard models.TeacherDashboard
	hit := s.cache.Get(ctx, key, &dashboard)
	if !hit {
		built, err := s.teacherRisk(ctx, teacherID, termID, trimester)
		if err != nil {
			return nil, false, err
		}
		dashboard = *built
		s.cache.Set(ctx, key, dashboard, 0)
	}

	upcoming, err := s.upcomingClasses(ctx, teacherID, dashboard.Term.ID)
	if err != nil {
		return nil, false, err
	}
	dashboard.UpcomingClasses = upcoming
	return &dashboard, hit, nil
}

func (s *DashboardService) teacherRisk(ctx context.Context, teacherID, termID string, trimester int) (*models.TeacherDashboard, error) {
	term, err := s.resolveTerm(ctx, termID)
	if err != nil {
		return nil, err
	}

	slots, err := s.schedules.List(ctx, repository.ScheduleFilter{TeacherID: teacherID, TermID: term.ID, Trimester: trimester})
	if err != nil {
		return nil, internalError(err, "failed to load schedules")
	}

	results := make([]models.AtRiskGroup, 0)
	for _, slot := range slots {
		group, err := s.atRiskGroup(ctx, slot, term.ID)
		if err != nil {
			return nil, err
		}
		if len(group.Students) > 0 {
			results = append(results, group)
		}
	}

	pending, err := s.activity.PendingForTeacher(ctx, teacherID, teacherPendingLimit)
	if err != nil {
		return nil, internalError(err, "failed to load pending submissions")
	}

	return &models.TeacherDashboard{
		Term:               *term,
		Results:            results,
		PendingSubmissions: nonNil(pending),
	}, nil
}

// upcomingClasses lists today's sessions of the teacher whose period has not
// started yet.
func (s *DashboardService) upcomingClasses(ctx context.Context, teacherID, termID string) ([]models.ClassSession, error) {
	now := s.clock()
	sessions, err := s.schedules.Sessions(ctx, repository.SessionFilter{TeacherID: teacherID, TermID: termID, Weekday: models.WeekdayOf(now)})
	if err != nil {
		return nil, internalError(err, "failed to load classes")
	}
	upcoming := make([]models.ClassSession, 0, len(sessions))
	cutoff := now.Format("15:04:05")
	for _, session := range sessions {
		if session.StartsAt >= cutoff {
			upcoming = append(upcoming, session)
		}
	}
	return upcoming, nil
}

func (s *DashboardService) atRiskGroup(ctx context.Context, slot models.ScheduleDetail, termID string) (models.AtRiskGroup, error) {
	group := models.AtRiskGroup{
		CourseLevel: slot.CourseLevel,
		Section:     slot.Section,
		ClassID:     slot.ClassID,
		Subject:     slot.SubjectName,
		ScheduleID:  slot.ID,
		Students:    make([]models.AtRiskStudent, 0),
	}

	rows, err := s.grades.ListBySchedule(ctx, slot.ID)
	if err != nil {
		return group, internalError(err, "failed to load grades")
	}
	if len(rows) == 0 {
		return group, nil
	}
	ids := make([]string, len(rows))
	for i, row := range rows {
		ids[i] = row.StudentID
	}
	vectors, err := s.features.ExtractSchedule(ctx, slot.ID, ids)
	if err != nil {
		return group, err
	}

	for _, row := range rows {
		features := vectors[row.StudentID]
		assessment, err := s.risk.Assess(features)
		if err != nil {
			return group, err
		}
		s.risk.Record(ctx, row.StudentID, slot.SubjectID, termID, features, assessment)
		if !assessment.AtRisk {
			continue
		}
		person := models.Person{FirstName: row.FirstName, LastName: row.LastName}
		group.Students = append(group.Students, models.AtRiskStudent{
			StudentID:     row.StudentID,
			Student:       person.FullName(),
			ExamAvg:       round2(features.ExamAvg),
			AssignmentAvg: round2(features.AssignmentAvg),
			AttendancePct: round2(features.AttendancePct * 100),
			GradeAvg:      row.Average,
			Performance:   assessment.Class,
			Category:      assessment.Label,
			Confidence:    assessment.Confidence,
		})
	}
	return group, nil
}

// Student returns the per-subject risk of the student in the latest term
// together with recent graded work and today's classes.
func (s *DashboardService) Student(ctx context.Context, studentID string) (*models.StudentDashboard, bool, error) {
	key := fmt.Sprintf(studentDashboardKey, studentID)
	var cached models.StudentDashboard
	if s.cache.Get(ctx, key, &cached) {
		return &cached, true, nil
	}

	term, err := s.resolveTerm(ctx, "")
	if err != nil {
		return nil, false, err
	}

	subjects, err := s.subjectPerformance(ctx, studentID, term.ID)
	if err != nil {
		return nil, false, err
	}
	atRisk := make([]models.SubjectPerformance, 0)
	for _, subject := range subjects {
		if subject.AtRisk {
			atRisk = append(atRisk, subject)
		}
	}

	submissions, exams, err := s.recentActivity(ctx, studentID)
	if err != nil {
		return nil, false, err
	}

	now := s.clock()
	today, err := s.schedules.Sessions(ctx, repository.SessionFilter{StudentID: studentID, TermID: term.ID, Weekday: models.WeekdayOf(now)})
	if err != nil {
		return nil, false, internalError(err, "failed to load classes")
	}

	dashboard := &models.StudentDashboard{
		Term:              *term,
		Subjects:          subjects,
		AtRiskSubjects:    atRisk,
		RecentSubmissions: submissions,
		RecentExams:       exams,
		TodayClasses:      nonNil(today),
	}
	s.cache.Set(ctx, key, dashboard, 0)
	return dashboard, false, nil
}

// Tutor returns one summary per tutee. Without any registered term the
// subject lines are left empty.
func (s *DashboardService) Tutor(ctx context.Context, tutorID string) (*models.TutorDashboard, bool, error) {
	key := fmt.Sprintf(tutorDashboardKey, tutorID)
	var cached models.TutorDashboard
	if s.cache.Get(ctx, key, &cached) {
		return &cached, true, nil
	}

	tutees, err := s.tutorships.ListTutees(ctx, tutorID)
	if err != nil {
		return nil, false, internalError(err, "failed to load tutees")
	}

	term, err := s.resolveTerm(ctx, "")
	if err != nil {
		if !errors.Is(err, appErrors.ErrNotFound) {
			return nil, false, err
		}
		term = nil
	}

	dashboard := &models.TutorDashboard{Term: term, Students: make([]models.TuteeSummary, 0, len(tutees))}
	for _, tutee := range tutees {
		summary := models.TuteeSummary{
			StudentID:      tutee.ID,
			Student:        tutee.FullName(),
			SubjectsAtRisk: make([]models.SubjectPerformance, 0),
		}
		if term != nil {
			subjects, err := s.subjectPerformance(ctx, tutee.ID, term.ID)
			if err != nil {
				return nil, false, err
			}
			for _, subject := range subjects {
				if subject.AtRisk {
					summary.SubjectsAtRisk = append(summary.SubjectsAtRisk, subject)
				}
			}
		}
		summary.RecentSubmissions, summary.RecentExams, err = s.recentActivity(ctx, tutee.ID)
		if err != nil {
			return nil, false, err
		}
		pending, err := s.activity.PendingForStudent(ctx, tutee.ID)
		if err != nil {
			return nil, false, internalError(err, "failed to load pending submissions")
		}
		summary.PendingSubmissions = nonNil(pending)
		dashboard.Students = append(dashboard.Students, summary)
	}

	s.cache.Set(ctx, key, dashboard, 0)
	return dashboard, false, nil
}

// StudentProfile summarises every subject of the latest term with the mean of
// its weighted averages and the worst predicted category.
func (s *DashboardService) StudentProfile(ctx context.Context, studentID string) (*models.StudentProfile, error) {
	user, err := s.users.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Alumno no encontrado.")
		}
		return nil, internalError(err, "failed to load student")
	}
	if user.Role != models.RoleStudent {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "Alumno no encontrado.")
	}

	term, err := s.resolveTerm(ctx, "")
	if err != nil {
		return nil, err
	}

	entries, err := s.grades.ReportCard(ctx, studentID, term.ID)
	if err != nil {
		return nil, internalError(err, "failed to load grades")
	}

	type acc struct {
		line     models.ProfileSubject
		sum      float64
		count    int
		class    int
		assessed bool
	}
	order := make([]string, 0)
	bySubject := make(map[string]*acc)
	for _, entry := range entries {
		a, ok := bySubject[entry.SubjectID]
		if !ok {
			a = &acc{line: models.ProfileSubject{SubjectID: entry.SubjectID, Subject: entry.SubjectName}}
			bySubject[entry.SubjectID] = a
			order = append(order, entry.SubjectID)
		}
		if avg := entryScores(entry).AveragePtr(AveragingWeighted); avg != nil {
			a.sum += *avg
			a.count++
		}
		features, err := s.features.Extract(ctx, studentID, entry.ScheduleID)
		if err != nil {
			return nil, err
		}
		assessment, err := s.risk.Assess(features)
		if err != nil {
			return nil, err
		}
		if !a.assessed || assessment.Class < a.class {
			a.class = assessment.Class
			a.assessed = true
		}
	}

	profile := &models.StudentProfile{
		Student:  models.Person{ID: user.ID, Username: user.Username, FirstName: user.FirstName, LastName: user.LastName, Email: user.Email},
		Term:     *term,
		Subjects: make([]models.ProfileSubject, 0, len(order)),
	}
	for _, id := range order {
		a := bySubject[id]
		if a.count > 0 {
			mean := round2(a.sum / float64(a.count))
			a.line.Average = &mean
		}
		a.line.Prediction = RiskLabel(a.class)
		profile.Subjects = append(profile.Subjects, a.line)
	}
	return profile, nil
}

func (s *DashboardService) subjectPerformance(ctx context.Context, studentID, termID string) ([]models.SubjectPerformance, error) {
	entries, err := s.grades.ReportCard(ctx, studentID, termID)
	if err != nil {
		return nil, internalError(err, "failed to load grades")
	}
	lines := make([]models.SubjectPerformance, 0, len(entries))
	for _, entry := range entries {
		features, err := s.features.Extract(ctx, studentID, entry.ScheduleID)
		if err != nil {
			return nil, err
		}
		assessment, err := s.risk.Assess(features)
		if err != nil {
			return nil, err
		}
		s.risk.Record(ctx, studentID, entry.SubjectID, termID, features, assessment)
		lines = append(lines, models.SubjectPerformance{
			ScheduleID:    entry.ScheduleID,
			SubjectID:     entry.SubjectID,
			Subject:       entry.SubjectName,
			ExamAvg:       round2(features.ExamAvg),
			AssignmentAvg: round2(features.AssignmentAvg),
			AttendancePct: round2(features.AttendancePct * 100),
			GradeAvg:      entryScores(entry).AveragePtr(AveragingWeighted),
			Performance:   assessment.Class,
			Category:      assessment.Label,
			Confidence:    assessment.Confidence,
			AtRisk:        assessment.AtRisk,
		})
	}
	return lines, nil
}

func (s *DashboardService) recentActivity(ctx context.Context, studentID string) ([]models.RecentSubmission, []models.RecentExam, error) {
	submissions, err := s.activity.RecentGradedSubmissions(ctx, studentID, recentActivityLimit)
	if err != nil {
		return nil, nil, internalError(err, "failed to load submissions")
	}
	exams, err := s.activity.RecentGradedExams(ctx, studentID, recentActivityLimit)
	if err != nil {
		return nil, nil, internalError(err, "failed to load exams")
	}
	return nonNil(submissions), nonNil(exams), nil
}

func (s *DashboardService) resolveTerm(ctx context.Context, termID string) (*models.Term, error) {
	return resolveTerm(ctx, s.terms, termID)
}

// resolveTerm loads the requested term, or the latest one when termID is empty.
func resolveTerm(ctx context.Context, terms termReader, termID string) (*models.Term, error) {
	if termID != "" {
		term, err := terms.FindByID(ctx, termID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "Gestión no encontrada.")
			}
			return nil, internalError(err, "failed to load term")
		}
		return term, nil
	}
	term, err := terms.Latest(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "No hay gestiones registradas.")
		}
		return nil, internalError(err, "failed to load term")
	}
	return term, nil
}

func (s *DashboardService) clock() time.Time {
	return s.now().In(s.loc)
}

func entryScores(e models.ReportCardEntry) ScoreSet {
	return ScoreSet{Ser: e.Ser, Saber: e.Saber, Hacer: e.Hacer, Decidir: e.Decidir}
}

func internalError(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
