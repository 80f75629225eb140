package progress

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"

	"github.com/Mkhisamo/learn-english/internal/logger"
	"github.com/Mkhisamo/learn-english/internal/models"
	"github.com/Mkhisamo/learn-english/internal/storage"
)

const (
	resultsKey = "word-trainer-results"
	pointsKey  = "word-trainer-points"
)

// Store keeps the quiz history and the lifetime points balance in a
// key-value store. A corrupted value is treated as absent rather than an
// error, so a bad record never locks the learner out of their progress.
type Store struct {
	kv storage.Store
	mu sync.Mutex
}

// NewStore creates a progress store over the given key-value backend.
func NewStore(kv storage.Store) *Store {
	return &Store{kv: kv}
}

// History returns all recorded quiz results, oldest first.
func (s *Store) History(ctx context.Context) ([]models.QuizResult, error) {
	raw, ok, err := s.kv.Get(ctx, resultsKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []models.QuizResult{}, nil
	}

	var history []models.QuizResult
	if err := json.Unmarshal([]byte(raw), &history); err != nil {
		logger.FromContext(ctx).WithField("key", resultsKey).
			Warn("discarding unreadable quiz history: %v", err)
		return []models.QuizResult{}, nil
	}
	return history, nil
}

// TotalPoints returns the lifetime points balance.
func (s *Store) TotalPoints(ctx context.Context) (int, error) {
	raw, ok, err := s.kv.Get(ctx, pointsKey)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}

	points, err := strconv.Atoi(raw)
	if err != nil {
		logger.FromContext(ctx).WithField("key", pointsKey).
			Warn("discarding unreadable points balance: %v", err)
		return 0, nil
	}
	return points, nil
}

// Record appends a result to the history and credits its points to the
// balance. Callers guarantee each result is recorded at most once.
func (s *Store) Record(ctx context.Context, result models.QuizResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, err := s.History(ctx)
	if err != nil {
		return err
	}
	history = append(history, result)

	encoded, err := json.Marshal(history)
	if err != nil {
		return err
	}
	points, err := s.TotalPoints(ctx)
	if err != nil {
		return err
	}

	// Both keys move in one write, so the balance always matches the history.
	return s.kv.SetMulti(ctx, map[string]string{
		resultsKey: string(encoded),
		pointsKey:  strconv.Itoa(points + result.Points),
	})
}

// Clear erases the history and the points balance.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Remove(ctx, resultsKey); err != nil {
		return err
	}
	return s.kv.Remove(ctx, pointsKey)
}
