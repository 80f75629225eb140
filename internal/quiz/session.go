package quiz

import (
	"errors"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/Mkhisamo/learn-english/internal/models"
)

// Phase is the state of a training run.
type Phase string

const (
	PhaseSetup     Phase = "setup"
	PhaseAnswering Phase = "answering"
	PhaseFeedback  Phase = "feedback"
	PhaseResults   Phase = "results"
)

var (
	ErrNotStarted     = errors.New("session has not been started")
	ErrNoQuestions    = errors.New("no questions to run")
	ErrNotAnswering   = errors.New("no question is awaiting an answer")
	ErrNoSelection    = errors.New("an answer must be selected")
	ErrNotFeedback    = errors.New("session is not showing feedback")
	ErrNotFinished    = errors.New("session has not finished")
	ErrAlreadyRunning = errors.New("session is already running")
)

// Settings are the parameters a training run was requested with. Points
// bonuses depend on the requested question count, not on how many questions
// the pool could actually supply.
type Settings struct {
	CategoryID     string
	CategoryLabel  string
	Mode           models.Mode
	RequestedCount int
	ShowHints      bool
}

// Session is the state machine of one training run:
// setup -> answering -> (feedback ->) answering ... -> results.
// Feedback is entered only after a submitted answer when hints are enabled;
// a skip always advances directly. The session is not safe for concurrent
// use; callers serialize access.
type Session struct {
	Settings  Settings
	CreatedAt time.Time

	phase     Phase
	questions []models.Question
	index     int
	answers   []models.Answer
	result    *models.QuizResult

	now   func() time.Time
	newID func() string
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) { s.now = now }
}

// WithResultID overrides the result id source, for tests.
func WithResultID(newID func() string) SessionOption {
	return func(s *Session) { s.newID = newID }
}

// NewSession creates a session in the setup phase.
func NewSession(settings Settings, opts ...SessionOption) *Session {
	s := &Session{
		Settings:  settings,
		CreatedAt: time.Now(),
		phase:     PhaseSetup,
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Phase returns the current phase.
func (s *Session) Phase() Phase { return s.phase }

// Index returns the 0-based index of the current question.
func (s *Session) Index() int { return s.index }

// Total returns the number of questions in the run.
func (s *Session) Total() int { return len(s.questions) }

// CurrentQuestion returns the question being answered or reviewed.
func (s *Session) CurrentQuestion() (models.Question, bool) {
	if s.phase != PhaseAnswering && s.phase != PhaseFeedback {
		return models.Question{}, false
	}
	return s.questions[s.index], true
}

// LastAnswer returns the most recently recorded answer, shown during feedback.
func (s *Session) LastAnswer() (models.Answer, bool) {
	if len(s.answers) == 0 {
		return models.Answer{}, false
	}
	return s.answers[len(s.answers)-1], true
}

// Answers returns a copy of the answers recorded so far, in question order.
func (s *Session) Answers() []models.Answer {
	out := make([]models.Answer, len(s.answers))
	copy(out, s.answers)
	return out
}

// Start begins the run with the given questions. Only valid in setup.
func (s *Session) Start(questions []models.Question) error {
	if s.phase != PhaseSetup {
		return ErrAlreadyRunning
	}
	if len(questions) == 0 {
		return ErrNoQuestions
	}
	s.questions = questions
	s.index = 0
	s.answers = nil
	s.result = nil
	s.phase = PhaseAnswering
	return nil
}

// Submit records the selected answer for the current question. With hints
// enabled the session moves to feedback; otherwise it advances immediately.
func (s *Session) Submit(selected string) error {
	if s.phase != PhaseAnswering {
		return ErrNotAnswering
	}
	if selected == "" {
		return ErrNoSelection
	}

	question := s.questions[s.index]
	s.answers = append(s.answers, models.Answer{
		Question:       question,
		SelectedAnswer: selected,
		IsCorrect:      selected == question.CorrectAnswer,
	})

	if s.Settings.ShowHints {
		s.phase = PhaseFeedback
		return nil
	}
	s.advance()
	return nil
}

// Skip records an empty, incorrect answer for the current question and
// advances. Skipping never shows feedback.
func (s *Session) Skip() error {
	if s.phase != PhaseAnswering {
		return ErrNotAnswering
	}
	s.answers = append(s.answers, models.Answer{
		Question:       s.questions[s.index],
		SelectedAnswer: "",
		IsCorrect:      false,
	})
	s.advance()
	return nil
}

// Continue leaves the feedback view and advances to the next question.
func (s *Session) Continue() error {
	if s.phase != PhaseFeedback {
		return ErrNotFeedback
	}
	s.advance()
	return nil
}

// Reset unconditionally returns the session to setup, discarding any
// in-progress state.
func (s *Session) Reset() {
	s.phase = PhaseSetup
	s.questions = nil
	s.index = 0
	s.answers = nil
	s.result = nil
}

// Result returns the run summary. The summary is computed once when the run
// finishes; repeated calls return the same value.
func (s *Session) Result() (*models.QuizResult, error) {
	if s.phase != PhaseResults {
		return nil, ErrNotFinished
	}
	return s.result, nil
}

func (s *Session) advance() {
	if s.index < len(s.questions)-1 {
		s.index++
		s.phase = PhaseAnswering
		return
	}
	s.finalize()
}

func (s *Session) finalize() {
	correct := 0
	mistakes := make([]models.Answer, 0)
	for _, a := range s.answers {
		if a.IsCorrect {
			correct++
		} else {
			mistakes = append(mistakes, a)
		}
	}

	pct, points := Score(correct, len(s.answers), s.Settings.RequestedCount)

	now := s.now()
	s.result = &models.QuizResult{
		ID:              s.newID(),
		Date:            now.Format("2006-01-02"),
		Time:            now.Format("15:04"),
		Category:        s.Settings.CategoryLabel,
		Mode:            s.Settings.Mode,
		CorrectAnswers:  correct,
		TotalQuestions:  len(s.answers),
		ScorePercentage: pct,
		Points:          points,
		Mistakes:        mistakes,
	}
	s.phase = PhaseResults
}

// Score computes the percentage and earned points for a run.
// Points are 10 per correct answer, multiplied by 1.5 at 90%+ accuracy or
// 1.2 at 80%+, plus a length bonus of 20 for runs requested with 20+
// questions or 10 for 10+. The bonus follows the requested count, not the
// answered count.
func Score(correct, answered, requestedCount int) (pct int, points int) {
	if answered > 0 {
		pct = int(math.Round(100 * float64(correct) / float64(answered)))
	}

	multiplier := 1.0
	switch {
	case pct >= 90:
		multiplier = 1.5
	case pct >= 80:
		multiplier = 1.2
	}

	bonus := 0
	switch {
	case requestedCount >= 20:
		bonus = 20
	case requestedCount >= 10:
		bonus = 10
	}

	points = int(math.Round(float64(correct*10)*multiplier)) + bonus
	return pct, points
}
