// Package router mounts every HTTP endpoint on a gin engine.
package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/sia-rendimiento-api/internal/handler"
	"github.com/noah-isme/sia-rendimiento-api/internal/middleware"
	"github.com/noah-isme/sia-rendimiento-api/internal/models"
)

// Handlers groups the HTTP handlers mounted by Register.
type Handlers struct {
	Auth       *handler.AuthHandler
	Users      *handler.UserHandler
	Terms      *handler.TermHandler
	Subjects   *handler.SubjectHandler
	Classes    *handler.ClassHandler
	Schedules  *handler.ScheduleHandler
	Enroll     *handler.EnrollmentHandler
	Grades     *handler.GradeHandler
	Attendance *handler.AttendanceHandler
	Evaluation *handler.EvaluationHandler
	Dashboard  *handler.DashboardHandler
	Students   *handler.StudentHandler
	Reports    *handler.ReportHandler
	Metrics    *handler.MetricsHandler
}

// Options configures route registration.
type Options struct {
	APIPrefix string
	Docs      bool
	Tokens    middleware.TokenValidator
	Audit     middleware.AuditWriter
	Logger    *zap.Logger
}

// Register mounts the API under opts.APIPrefix.
func Register(r *gin.Engine, h Handlers, opts Options) {
	r.GET("/health", h.Metrics.Health)
	r.GET("/metrics", h.Metrics.Prometheus)
	if opts.Docs {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(opts.APIPrefix)
	api.Use(middleware.WithResponseMeta())

	auth := api.Group("/auth")
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.Refresh)

	// Signed download links carry their own authorization.
	api.GET("/exports/:token", h.Reports.Download)

	secured := api.Group("")
	secured.Use(middleware.JWT(opts.Tokens))

	secured.POST("/auth/logout", h.Auth.Logout)
	secured.POST("/auth/change-password", h.Auth.ChangePassword)
	secured.GET("/auth/me", h.Auth.Me)
	secured.PUT("/users/me/device-token", h.Users.UpdateDeviceToken)

	admin := middleware.RequireRoles(models.RoleAdmin)
	teacher := middleware.RequireRoles(models.RoleTeacher)
	student := middleware.RequireRoles(models.RoleStudent)
	tutor := middleware.RequireRoles(models.RoleTutor)
	staff := middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher)
	audit := func(action, resource string) gin.HandlerFunc {
		return middleware.Audit(opts.Audit, action, resource, opts.Logger)
	}
	academicCreate := func(resource string) gin.HandlerFunc {
		return audit(models.AuditActionAcademicCreate, resource)
	}

	secured.GET("/metrics/summary", admin, h.Metrics.Summary)

	users := secured.Group("/users", admin)
	users.POST("/teachers", h.Users.RegisterTeacher)
	users.POST("/students", h.Users.RegisterStudent)
	users.POST("/tutors", h.Users.RegisterTutor)
	users.GET("/students", h.Users.ListStudents)

	secured.GET("/terms", h.Terms.List)
	secured.GET("/terms/latest", h.Terms.Latest)
	secured.POST("/terms", admin, academicCreate("term"), h.Terms.Create)
	secured.GET("/subjects", h.Subjects.List)
	secured.POST("/subjects", admin, academicCreate("subject"), h.Subjects.Create)
	secured.GET("/classes", h.Classes.List)
	secured.POST("/classes", admin, academicCreate("class"), h.Classes.Create)
	secured.POST("/teacher-subjects", admin, academicCreate("teacher_subject"), h.Schedules.AssignSubject)
	secured.POST("/schedules", admin, academicCreate("schedule"), h.Schedules.AssignSchedule)
	secured.POST("/enrollments", admin, academicCreate("enrollment"), h.Enroll.Enroll)
	secured.POST("/tutorships", admin, academicCreate("tutorship"), h.Enroll.CreateTutorship)

	teachers := secured.Group("/teachers/me", teacher)
	teachers.GET("/students", h.Enroll.TeacherStudents)
	teachers.GET("/schedules", h.Schedules.TeacherSchedules)
	teachers.GET("/subject-students", h.Schedules.SubjectStudents)

	slots := secured.Group("/schedules/:id", teacher)
	slots.GET("/students", h.Schedules.SlotStudents)
	slots.GET("/grades", h.Grades.ListSubjectGrades)
	slots.POST("/grades", h.Grades.UpsertSubjectGrades)
	slots.POST("/attendance", h.Attendance.Record)
	slots.POST("/assignments", h.Evaluation.CreateAssignment)
	slots.POST("/exams", h.Evaluation.CreateExam)

	secured.PUT("/enrollments/:id/scores", teacher, h.Grades.UpdateEnrollmentScores)
	secured.PUT("/attendance/:id/participation", teacher, h.Attendance.Participation)
	secured.PUT("/submissions/:id/grade", teacher, h.Evaluation.GradeSubmission)
	secured.POST("/exams/:id/results", teacher, h.Evaluation.RecordExamResults)
	secured.POST("/assignments/:id/submissions", student, h.Evaluation.Submit)

	me := secured.Group("/students/me", student)
	me.GET("/classes", h.Classes.Mine)
	me.GET("/schedules", h.Schedules.StudentSchedules)
	me.GET("/enrollment-scores", h.Grades.MyScores)
	me.GET("/report-card", h.Reports.MyReportCard)

	secured.GET("/students/:id/enrollment-scores", admin, h.Grades.StudentScores)
	secured.GET("/students/:id/profile", staff, h.Students.Profile)
	secured.GET("/students/:id/predictions", staff, h.Students.Predictions)
	secured.GET("/students/:id/report-card/export", staff, audit(models.AuditActionReportExport, "report_card"), h.Reports.Export)

	dash := secured.Group("/dashboard")
	dash.GET("/teacher", teacher, h.Dashboard.Teacher)
	dash.GET("/student", student, h.Dashboard.Student)
	dash.GET("/tutor", tutor, h.Dashboard.Tutor)
}
