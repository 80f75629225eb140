package services

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Mkhisamo/learn-english/internal/errors"
	"github.com/Mkhisamo/learn-english/internal/logger"
	"github.com/Mkhisamo/learn-english/internal/models"
	"github.com/Mkhisamo/learn-english/internal/progress"
	"github.com/Mkhisamo/learn-english/internal/quiz"
	"github.com/Mkhisamo/learn-english/internal/repository"
)

// allCategoriesLabel is the history label for runs over the whole word bank.
const allCategoriesLabel = "Все категории"

// StartRequest are the parameters for a new training run. An empty
// CategoryID trains over the whole word bank.
type StartRequest struct {
	CategoryID string      `json:"category"`
	Mode       models.Mode `json:"mode"`
	Count      int         `json:"questionCount"`
	ShowHints  bool        `json:"showHints"`
}

// TrainingView is the state of a training run as returned to the client.
type TrainingView struct {
	ID             string             `json:"id"`
	Phase          quiz.Phase         `json:"phase"`
	QuestionIndex  int                `json:"questionIndex"`
	TotalQuestions int                `json:"totalQuestions"`
	Question       *models.Question   `json:"question,omitempty"`
	LastAnswer     *models.Answer     `json:"lastAnswer,omitempty"`
	Result         *models.QuizResult `json:"result,omitempty"`
}

// TrainingService drives training sessions from start to results
type TrainingService interface {
	Start(ctx context.Context, req StartRequest) (*TrainingView, error)
	Get(ctx context.Context, id string) (*TrainingView, error)
	SubmitAnswer(ctx context.Context, id, selected string) (*TrainingView, error)
	Skip(ctx context.Context, id string) (*TrainingView, error)
	Continue(ctx context.Context, id string) (*TrainingView, error)
	Restart(ctx context.Context, id string) (*TrainingView, error)
	Reset(ctx context.Context, id string) (*TrainingView, error)
	Results(ctx context.Context, id string) (*models.QuizResult, error)
}

type trainingService struct {
	words      repository.WordRepository
	categories repository.CategoryRepository
	progress   *progress.Store

	defaultCount int

	mu       sync.Mutex
	sessions map[string]*quiz.Session
	recorded map[string]bool
	rng      *rand.Rand
	sessOpts []quiz.SessionOption
}

// TrainingOption configures the training service.
type TrainingOption func(*trainingService)

// WithRand overrides the question shuffling source, for tests.
func WithRand(rng *rand.Rand) TrainingOption {
	return func(s *trainingService) { s.rng = rng }
}

// WithSessionOptions passes options to every created session, for tests.
func WithSessionOptions(opts ...quiz.SessionOption) TrainingOption {
	return func(s *trainingService) { s.sessOpts = opts }
}

// NewTrainingService creates a new TrainingService
func NewTrainingService(
	words repository.WordRepository,
	categories repository.CategoryRepository,
	progressStore *progress.Store,
	defaultCount int,
	opts ...TrainingOption,
) TrainingService {
	s := &trainingService{
		words:        words,
		categories:   categories,
		progress:     progressStore,
		defaultCount: defaultCount,
		sessions:     make(map[string]*quiz.Session),
		recorded:     make(map[string]bool),
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *trainingService) Start(ctx context.Context, req StartRequest) (*TrainingView, error) {
	log := logger.FromContext(ctx)

	if !req.Mode.Valid() {
		return nil, errors.NewValidationError("mode", fmt.Sprintf("unknown mode %q", req.Mode))
	}
	count := req.Count
	if count == 0 {
		count = s.defaultCount
	}
	if count < 1 {
		return nil, errors.NewValidationError("questionCount", "must be positive")
	}

	label := allCategoriesLabel
	if req.CategoryID != "" {
		category, err := s.categories.Get(ctx, req.CategoryID)
		if err != nil {
			return nil, errors.NewInternalError(err)
		}
		if category == nil {
			return nil, errors.NewValidationError("category", fmt.Sprintf("unknown category %q", req.CategoryID))
		}
		label = category.Name
	}

	settings := quiz.Settings{
		CategoryID:     req.CategoryID,
		CategoryLabel:  label,
		Mode:           req.Mode,
		RequestedCount: count,
		ShowHints:      req.ShowHints,
	}

	session := quiz.NewSession(settings, s.sessOpts...)
	id := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.start(ctx, session); err != nil {
		return nil, err
	}
	s.sessions[id] = session

	log.Info("training started: id=%s, category=%s, mode=%s, questions=%d", id, label, req.Mode, session.Total())
	return s.view(id, session), nil
}

// start generates questions and moves the session out of setup. Callers
// hold the mutex.
func (s *trainingService) start(ctx context.Context, session *quiz.Session) error {
	pool, err := s.words.List(ctx, models.WordFilter{CategoryID: session.Settings.CategoryID})
	if err != nil {
		return errors.NewInternalError(err)
	}
	if len(pool) < quiz.MinPoolSize {
		return errors.NewValidationError("category",
			fmt.Sprintf("at least %d words are required to start a training, have %d", quiz.MinPoolSize, len(pool)))
	}

	questions := quiz.Generate(pool, session.Settings.Mode, session.Settings.RequestedCount, s.rng)
	if err := session.Start(questions); err != nil {
		return mapSessionErr(err)
	}
	return nil
}

func (s *trainingService) Get(ctx context.Context, id string) (*TrainingView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.session(id)
	if err != nil {
		return nil, err
	}
	return s.view(id, session), nil
}

func (s *trainingService) SubmitAnswer(ctx context.Context, id, selected string) (*TrainingView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.session(id)
	if err != nil {
		return nil, err
	}
	if err := session.Submit(selected); err != nil {
		return nil, mapSessionErr(err)
	}
	s.recordIfFinished(ctx, session)
	return s.view(id, session), nil
}

func (s *trainingService) Skip(ctx context.Context, id string) (*TrainingView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.session(id)
	if err != nil {
		return nil, err
	}
	if err := session.Skip(); err != nil {
		return nil, mapSessionErr(err)
	}
	s.recordIfFinished(ctx, session)
	return s.view(id, session), nil
}

func (s *trainingService) Continue(ctx context.Context, id string) (*TrainingView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.session(id)
	if err != nil {
		return nil, err
	}
	if err := session.Continue(); err != nil {
		return nil, mapSessionErr(err)
	}
	s.recordIfFinished(ctx, session)
	return s.view(id, session), nil
}

// Restart runs the same settings again with freshly generated questions.
func (s *trainingService) Restart(ctx context.Context, id string) (*TrainingView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.session(id)
	if err != nil {
		return nil, err
	}

	session.Reset()
	if err := s.start(ctx, session); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("training restarted: id=%s", id)
	return s.view(id, session), nil
}

func (s *trainingService) Reset(ctx context.Context, id string) (*TrainingView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.session(id)
	if err != nil {
		return nil, err
	}
	session.Reset()
	return s.view(id, session), nil
}

// Results returns the finished run's summary. Recording normally already
// happened on the answer that finished the run, but a write that failed
// there is retried here.
func (s *trainingService) Results(ctx context.Context, id string) (*models.QuizResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.session(id)
	if err != nil {
		return nil, err
	}

	result, err := session.Result()
	if err != nil {
		return nil, mapSessionErr(err)
	}
	if err := s.record(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

// recordIfFinished credits the run to the progress history as soon as it
// reaches the results phase. Callers hold the mutex.
func (s *trainingService) recordIfFinished(ctx context.Context, session *quiz.Session) {
	if session.Phase() != quiz.PhaseResults {
		return
	}
	result, err := session.Result()
	if err != nil {
		return
	}
	if err := s.record(ctx, result); err != nil {
		logger.FromContext(ctx).Warn("failed to record result %s, will retry on results fetch: %v", result.ID, err)
	}
}

// record writes a result to the progress history at most once. Callers
// hold the mutex.
func (s *trainingService) record(ctx context.Context, result *models.QuizResult) error {
	if s.recorded[result.ID] {
		return nil
	}
	if err := s.progress.Record(ctx, *result); err != nil {
		return errors.NewInternalError(err)
	}
	s.recorded[result.ID] = true
	logger.FromContext(ctx).Info("result recorded: id=%s, score=%d%%, points=%d",
		result.ID, result.ScorePercentage, result.Points)
	return nil
}

// session looks up a session by id. Callers hold the mutex.
func (s *trainingService) session(id string) (*quiz.Session, error) {
	session, ok := s.sessions[id]
	if !ok {
		return nil, errors.NewNotFoundError("training session", id)
	}
	return session, nil
}

func (s *trainingService) view(id string, session *quiz.Session) *TrainingView {
	view := &TrainingView{
		ID:             id,
		Phase:          session.Phase(),
		QuestionIndex:  session.Index(),
		TotalQuestions: session.Total(),
	}

	if q, ok := session.CurrentQuestion(); ok {
		view.Question = &q
	}
	if session.Phase() == quiz.PhaseFeedback {
		if a, ok := session.LastAnswer(); ok {
			view.LastAnswer = &a
		}
	}
	if session.Phase() == quiz.PhaseResults {
		if result, err := session.Result(); err == nil {
			view.Result = result
		}
	}
	return view
}

// mapSessionErr translates state machine errors into API errors.
func mapSessionErr(err error) error {
	switch err {
	case quiz.ErrNoSelection:
		return errors.NewValidationError("answer", "must not be empty")
	case quiz.ErrNotAnswering, quiz.ErrNotFeedback, quiz.ErrNotFinished, quiz.ErrAlreadyRunning, quiz.ErrNotStarted:
		return errors.NewConflictError(err.Error())
	case quiz.ErrNoQuestions:
		return errors.NewValidationError("questionCount", "no questions could be generated")
	default:
		return errors.NewInternalError(err)
	}
}
