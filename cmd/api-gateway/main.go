package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	_ "github.com/noah-isme/sia-rendimiento-api/api/swagger"
	"github.com/noah-isme/sia-rendimiento-api/internal/handler"
	"github.com/noah-isme/sia-rendimiento-api/internal/middleware"
	"github.com/noah-isme/sia-rendimiento-api/internal/repository"
	"github.com/noah-isme/sia-rendimiento-api/internal/router"
	"github.com/noah-isme/sia-rendimiento-api/internal/service"
	"github.com/noah-isme/sia-rendimiento-api/pkg/cache"
	"github.com/noah-isme/sia-rendimiento-api/pkg/classifier"
	"github.com/noah-isme/sia-rendimiento-api/pkg/config"
	"github.com/noah-isme/sia-rendimiento-api/pkg/database"
	"github.com/noah-isme/sia-rendimiento-api/pkg/jobs"
	"github.com/noah-isme/sia-rendimiento-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/sia-rendimiento-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sia-rendimiento-api/pkg/middleware/requestid"
	"github.com/noah-isme/sia-rendimiento-api/pkg/notify"
	"github.com/noah-isme/sia-rendimiento-api/pkg/storage"
)

// @title SIA Rendimiento API
// @version 1.0.0
// @description School performance backend: grades, attendance, evaluations and risk dashboards
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

const (
	shutdownTimeout = 15 * time.Second
	cronTimeout     = 10 * time.Minute
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if err := run(cfg, logr); err != nil {
		logr.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logr *zap.Logger) error {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}

	db, err := database.NewPostgres(cfg.Database, cfg.Timezone)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer db.Close()

	metrics := service.NewMetricsService()

	var cacheRepo service.CacheRepository
	if cfg.Dashboard.CacheEnabled {
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, dashboard cache disabled", zap.Error(err))
		} else {
			defer client.Close()
			cacheRepo = repository.NewCacheRepository(client, logr)
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Dashboard.CacheTTL, logr, cacheRepo != nil)

	users := repository.NewUserRepository(db)
	terms := repository.NewTermRepository(db)
	subjects := repository.NewSubjectRepository(db)
	classes := repository.NewClassRepository(db)
	schedules := repository.NewScheduleRepository(db)
	enrollments := repository.NewEnrollmentRepository(db)
	tutorships := repository.NewTutorshipRepository(db)
	grades := repository.NewGradeRepository(db)
	attendance := repository.NewAttendanceRepository(db)
	evaluations := repository.NewEvaluationRepository(db)
	featureRepo := repository.NewFeatureRepository(db)
	predictions := repository.NewPredictionRepository(db)

	validate := validator.New()

	model := classifier.NewLazy(cfg.Classifier.ModelPath)
	features := service.NewFeatureService(featureRepo)
	risk := service.NewRiskService(model, predictions, metrics, logr, service.RiskConfig{
		AtRiskMaxClass: cfg.Risk.AtRiskMaxClass,
		Persist:        cfg.Predictions.Persist,
	})

	worker := service.NewNotificationWorker(users, notify.NewFCMClient(cfg.Notifications), metrics, logr)
	queue := jobs.NewQueue("notifications", worker.Handle, jobs.QueueConfig{
		Workers:    cfg.Notifications.Workers,
		MaxRetries: cfg.Notifications.MaxRetries,
		Logger:     logr,
	})
	var notifier *service.NotificationService
	if cfg.Notifications.Enabled {
		notifier = service.NewNotificationService(queue, logr)
	}

	files, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
	if err != nil {
		return err
	}

	authSvc := service.NewAuthService(users, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
	})
	userSvc := service.NewUserService(users, validate, logr)
	termSvc := service.NewTermService(terms, cacheSvc, validate, logr)
	subjectSvc := service.NewSubjectService(subjects, validate, logr)
	classSvc := service.NewClassService(classes, terms, validate, logr)
	scheduleSvc := service.NewScheduleService(service.ScheduleServiceParams{
		Repo:      schedules,
		Users:     users,
		Subjects:  subjects,
		Classes:   classes,
		Terms:     terms,
		Cache:     cacheSvc,
		Validator: validate,
		Logger:    logr,
	})
	enrollmentSvc := service.NewEnrollmentService(enrollments, tutorships, users, classes, terms, cacheSvc, validate, logr)
	gradeSvc := service.NewGradeService(service.GradeServiceParams{
		Enrollments: enrollments,
		Slots:       schedules,
		Grades:      grades,
		Audit:       users,
		Notifier:    notifier,
		Cache:       cacheSvc,
		Validator:   validate,
		Logger:      logr,
	})
	attendanceSvc := service.NewAttendanceService(attendance, schedules, cacheSvc, validate, loc, logr)
	evaluationSvc := service.NewEvaluationService(evaluations, schedules, enrollments, cacheSvc, validate, loc, logr)
	dashboardSvc := service.NewDashboardService(service.DashboardServiceParams{
		Terms:      terms,
		Schedules:  schedules,
		Grades:     grades,
		Activity:   evaluations,
		Tutorships: tutorships,
		Users:      users,
		Features:   features,
		Risk:       risk,
		Cache:      cacheSvc,
		Location:   loc,
		Logger:     logr,
	})
	reportSvc := service.NewReportService(service.ReportServiceParams{
		Grades: grades,
		Users:  users,
		Terms:  terms,
		Files:  files,
		Signer: storage.NewSignedURLSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL),
		Config: service.ReportConfig{APIPrefix: cfg.APIPrefix, Retention: cfg.Reports.Retention},
		Logger: logr,
	})
	snapshotSvc := service.NewSnapshotService(terms, schedules, features, risk, logr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	queue.Start(ctx)
	defer queue.Stop()

	scheduler := jobs.NewScheduler(loc, cronTimeout, logr)
	if cfg.Predictions.SnapshotCron != "" {
		if err := scheduler.Add("prediction_snapshot", cfg.Predictions.SnapshotCron, func(ctx context.Context) error {
			start := time.Now()
			_, err := snapshotSvc.Run(ctx)
			metrics.ObserveDBQuery("prediction_snapshot", time.Since(start))
			return err
		}); err != nil {
			return err
		}
	}
	if err := scheduler.Add("export_cleanup", "@hourly", func(ctx context.Context) error {
		_, err := reportSvc.Cleanup(ctx)
		return err
	}); err != nil {
		return err
	}
	scheduler.Start()
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		scheduler.Stop(stopCtx)
	}()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	router.Register(r, router.Handlers{
		Auth:       handler.NewAuthHandler(authSvc),
		Users:      handler.NewUserHandler(userSvc),
		Terms:      handler.NewTermHandler(termSvc),
		Subjects:   handler.NewSubjectHandler(subjectSvc),
		Classes:    handler.NewClassHandler(classSvc),
		Schedules:  handler.NewScheduleHandler(scheduleSvc),
		Enroll:     handler.NewEnrollmentHandler(enrollmentSvc),
		Grades:     handler.NewGradeHandler(gradeSvc),
		Attendance: handler.NewAttendanceHandler(attendanceSvc),
		Evaluation: handler.NewEvaluationHandler(evaluationSvc),
		Dashboard:  handler.NewDashboardHandler(dashboardSvc),
		Students:   handler.NewStudentHandler(dashboardSvc, risk),
		Reports:    handler.NewReportHandler(reportSvc),
		Metrics:    handler.NewMetricsHandler(metrics, model),
	}, router.Options{
		APIPrefix: cfg.APIPrefix,
		Docs:      cfg.Env != config.EnvProduction,
		Tokens:    authSvc,
		Audit:     users,
		Logger:    logr,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logr.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
