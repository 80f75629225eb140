package services

import (
	"context"
	"sync"
	"time"

	"github.com/Mkhisamo/learn-english/internal/errors"
	"github.com/Mkhisamo/learn-english/internal/logger"
	"github.com/Mkhisamo/learn-english/internal/models"
	"github.com/Mkhisamo/learn-english/internal/telegram"
	"github.com/Mkhisamo/learn-english/internal/worker"
)

// DeliveryStatus records the outcome of the most recent notification.
type DeliveryStatus struct {
	At    time.Time `json:"at"`
	Ok    bool      `json:"ok"`
	Error string    `json:"error,omitempty"`
}

// NotifyService sends quiz results to the parent's Telegram chat. Delivery
// is asynchronous; callers get an immediate accept and can poll the last
// delivery status.
type NotifyService interface {
	NotifyResult(ctx context.Context, result models.QuizResult) error
	LastDelivery() *DeliveryStatus
}

type notifyService struct {
	notifier telegram.Notifier
	pool     *worker.Pool

	mu   sync.Mutex
	last *DeliveryStatus
}

// NewNotifyService creates a new NotifyService. The notifier may be nil
// when Telegram is not configured; notification requests then fail with a
// validation error instead of breaking the quiz flow.
func NewNotifyService(notifier telegram.Notifier, pool *worker.Pool) NotifyService {
	return &notifyService{notifier: notifier, pool: pool}
}

func (s *notifyService) NotifyResult(ctx context.Context, result models.QuizResult) error {
	log := logger.FromContext(ctx)

	if s.notifier == nil {
		return errors.NewValidationError("telegram", "bot token and chat id are not configured")
	}

	job := &worker.NotifyJob{
		Notifier: s.notifier,
		Text:     telegram.FormatResult(result),
		Done:     s.recordDelivery,
	}
	if !s.pool.TrySubmit(job) {
		return errors.NewConflictError("notification queue is full, try again later")
	}

	log.Info("notification queued for result %s", result.ID)
	return nil
}

func (s *notifyService) recordDelivery(err error) {
	status := &DeliveryStatus{At: time.Now().UTC(), Ok: err == nil}
	if err != nil {
		status.Error = err.Error()
	}

	s.mu.Lock()
	s.last = status
	s.mu.Unlock()
}

func (s *notifyService) LastDelivery() *DeliveryStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}
