package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/sia-rendimiento-api/pkg/jobs"
	"github.com/noah-isme/sia-rendimiento-api/pkg/notify"
)

const notificationJobType = "push_notification"

type notificationDispatcher interface {
	TryEnqueue(job jobs.Job) error
}

type deviceTokenReader interface {
	DeviceTokens(ctx context.Context, userIDs []string) ([]string, error)
}

type pushSender interface {
	Send(ctx context.Context, tokens []string, msg notify.Message) (notify.SendResult, error)
}

// NotificationPayload is the job payload for a push to a set of users.
type NotificationPayload struct {
	UserIDs []string
	Message notify.Message
}

// NotificationService queues push notifications without blocking callers.
type NotificationService struct {
	queue  notificationDispatcher
	logger *zap.Logger
}

// NewNotificationService constructs a NotificationService. A nil queue
// disables delivery.
func NewNotificationService(queue notificationDispatcher, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{queue: queue, logger: logger}
}

// NotifyUsers schedules msg for every device token of the given users. A
// full queue drops the notification.
func (s *NotificationService) NotifyUsers(userIDs []string, msg notify.Message) {
	if s == nil || s.queue == nil || len(userIDs) == 0 {
		return
	}
	job := jobs.Job{
		ID:      uuid.NewString(),
		Type:    notificationJobType,
		Payload: NotificationPayload{UserIDs: userIDs, Message: msg},
	}
	if err := s.queue.TryEnqueue(job); err != nil {
		s.logger.Warn("notification dropped", zap.Int("recipients", len(userIDs)), zap.Error(err))
	}
}

// NotificationWorker resolves device tokens and delivers queued notifications.
type NotificationWorker struct {
	users   deviceTokenReader
	sender  pushSender
	metrics *MetricsService
	logger  *zap.Logger
}

// NewNotificationWorker constructs the queue handler.
func NewNotificationWorker(users deviceTokenReader, sender pushSender, metrics *MetricsService, logger *zap.Logger) *NotificationWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationWorker{users: users, sender: sender, metrics: metrics, logger: logger}
}

// Handle processes one notification job. Only a failure to resolve device
// tokens is returned for retry: once batches have been posted, a retry would
// push the delivered ones again, so failed batches are logged and dropped.
func (w *NotificationWorker) Handle(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(NotificationPayload)
	if !ok {
		w.logger.Error("unexpected notification payload", zap.String("job_id", job.ID))
		return nil
	}
	tokens, err := w.users.DeviceTokens(ctx, payload.UserIDs)
	if err != nil {
		return fmt.Errorf("load device tokens: %w", err)
	}
	if len(tokens) == 0 {
		return nil
	}
	result, err := w.sender.Send(ctx, tokens, payload.Message)
	if errors.Is(err, notify.ErrNotConfigured) {
		w.logger.Debug("push notifications not configured", zap.String("job_id", job.ID))
		return nil
	}
	w.metrics.RecordNotifications(result.Success, result.Failure)
	if err != nil {
		w.logger.Warn("notification partially delivered",
			zap.String("job_id", job.ID),
			zap.Int("batches", result.Batches),
			zap.Int("success", result.Success),
			zap.Int("undelivered_tokens", len(result.FailedTokens)),
			zap.Error(err))
		return nil
	}
	w.logger.Info("notification sent",
		zap.String("job_id", job.ID),
		zap.Int("batches", result.Batches),
		zap.Int("success", result.Success),
		zap.Int("failure", result.Failure))
	return nil
}
