package services

import (
	"context"
	"time"

	"github.com/Mkhisamo/learn-english/internal/errors"
	"github.com/Mkhisamo/learn-english/internal/logger"
	"github.com/Mkhisamo/learn-english/internal/models"
	"github.com/Mkhisamo/learn-english/internal/progress"
)

// ProgressOverview is the aggregated view for the progress screen: stats
// over the chosen window plus the lifetime points balance.
type ProgressOverview struct {
	models.Stats
	TotalPoints int `json:"totalPoints"`
}

// ProgressService exposes the learner's quiz history and statistics
type ProgressService interface {
	Overview(ctx context.Context, window models.Window) (*ProgressOverview, error)
	History(ctx context.Context) ([]models.QuizResult, error)
	Clear(ctx context.Context) error
}

type progressService struct {
	store *progress.Store
	now   func() time.Time
}

// NewProgressService creates a new ProgressService
func NewProgressService(store *progress.Store) ProgressService {
	return &progressService{store: store, now: time.Now}
}

func (s *progressService) Overview(ctx context.Context, window models.Window) (*ProgressOverview, error) {
	if window == "" {
		window = models.WindowAll
	}
	if !window.Valid() {
		return nil, errors.NewValidationError("window", "must be week, month or all")
	}

	history, err := s.store.History(ctx)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	points, err := s.store.TotalPoints(ctx)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	return &ProgressOverview{
		Stats:       progress.Summarize(history, window, s.now()),
		TotalPoints: points,
	}, nil
}

func (s *progressService) History(ctx context.Context) ([]models.QuizResult, error) {
	history, err := s.store.History(ctx)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return history, nil
}

func (s *progressService) Clear(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return errors.NewInternalError(err)
	}
	logger.FromContext(ctx).Info("progress history cleared")
	return nil
}
