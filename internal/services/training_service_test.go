package services_test

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mkhisamo/learn-english/internal/models"
	"github.com/Mkhisamo/learn-english/internal/progress"
	"github.com/Mkhisamo/learn-english/internal/quiz"
	"github.com/Mkhisamo/learn-english/internal/repository/sqlite"
	"github.com/Mkhisamo/learn-english/internal/services"
	"github.com/Mkhisamo/learn-english/internal/storage"
	"github.com/Mkhisamo/learn-english/internal/testutil"
)

type trainingFixture struct {
	svc      services.TrainingService
	progress *progress.Store
}

func newTrainingFixture(t *testing.T) *trainingFixture {
	t.Helper()
	database := testutil.NewTestDB(t)
	t.Cleanup(func() { testutil.MustClose(t, database) })

	store := progress.NewStore(storage.NewSQLiteStore(database.DB))
	svc := services.NewTrainingService(
		sqlite.NewWordRepository(database.DB),
		sqlite.NewCategoryRepository(database.DB),
		store,
		10,
		services.WithRand(rand.New(rand.NewSource(7))),
		services.WithSessionOptions(
			quiz.WithClock(func() time.Time { return time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC) }),
		),
	)
	return &trainingFixture{svc: svc, progress: store}
}

func (f *trainingFixture) finishRun(t *testing.T, id string, correctAnswers int) *services.TrainingView {
	t.Helper()
	ctx := context.Background()

	view, err := f.svc.Get(ctx, id)
	require.NoError(t, err)
	for view.Phase == quiz.PhaseAnswering {
		if correctAnswers > 0 {
			view, err = f.svc.SubmitAnswer(ctx, id, view.Question.CorrectAnswer)
			correctAnswers--
		} else {
			view, err = f.svc.Skip(ctx, id)
		}
		require.NoError(t, err)
		if view.Phase == quiz.PhaseFeedback {
			view, err = f.svc.Continue(ctx, id)
			require.NoError(t, err)
		}
	}
	return view
}

func TestTrainingService_StartValidation(t *testing.T) {
	f := newTrainingFixture(t)
	ctx := context.Background()

	_, err := f.svc.Start(ctx, services.StartRequest{Mode: "sideways"})
	assert.Error(t, err)

	_, err = f.svc.Start(ctx, services.StartRequest{Mode: models.ModeEnToRu, CategoryID: "nope"})
	assert.Error(t, err)

	// The seeded colors category holds a single word, not enough for options.
	_, err = f.svc.Start(ctx, services.StartRequest{Mode: models.ModeEnToRu, CategoryID: "colors"})
	assert.Error(t, err)
}

func TestTrainingService_StartOverWholeBank(t *testing.T) {
	f := newTrainingFixture(t)
	view, err := f.svc.Start(context.Background(), services.StartRequest{Mode: models.ModeEnToRu, Count: 5})
	require.NoError(t, err)

	assert.NotEmpty(t, view.ID)
	assert.Equal(t, quiz.PhaseAnswering, view.Phase)
	assert.Equal(t, 5, view.TotalQuestions)
	require.NotNil(t, view.Question)
	assert.Len(t, view.Question.Options, 4)
}

func TestTrainingService_FullRunRecordsOnce(t *testing.T) {
	f := newTrainingFixture(t)
	ctx := context.Background()

	view, err := f.svc.Start(ctx, services.StartRequest{Mode: models.ModeEnToRu, Count: 5})
	require.NoError(t, err)

	final := f.finishRun(t, view.ID, 4)
	assert.Equal(t, quiz.PhaseResults, final.Phase)

	result, err := f.svc.Results(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, result.CorrectAnswers)
	assert.Equal(t, 5, result.TotalQuestions)
	assert.Equal(t, 80, result.ScorePercentage)
	assert.Equal(t, 48, result.Points)
	assert.Equal(t, "Все категории", result.Category)
	assert.Equal(t, "2024-03-15", result.Date)
	assert.Equal(t, "14:30", result.Time)

	// Fetching results twice must not duplicate the history entry.
	_, err = f.svc.Results(ctx, view.ID)
	require.NoError(t, err)

	history, err := f.progress.History(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, result.ID, history[0].ID)

	points, err := f.progress.TotalPoints(ctx)
	require.NoError(t, err)
	assert.Equal(t, result.Points, points)
}

func TestTrainingService_RecordsWithoutResultsFetch(t *testing.T) {
	f := newTrainingFixture(t)
	ctx := context.Background()

	view, err := f.svc.Start(ctx, services.StartRequest{Mode: models.ModeEnToRu, Count: 3})
	require.NoError(t, err)

	// The answer that finishes the run credits it, no results call needed.
	final := f.finishRun(t, view.ID, 3)
	require.Equal(t, quiz.PhaseResults, final.Phase)
	require.NotNil(t, final.Result)

	history, err := f.progress.History(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, final.Result.ID, history[0].ID)

	points, err := f.progress.TotalPoints(ctx)
	require.NoError(t, err)
	assert.Equal(t, final.Result.Points, points)

	// A later results fetch does not record it a second time.
	_, err = f.svc.Results(ctx, view.ID)
	require.NoError(t, err)

	history, err = f.progress.History(ctx)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestTrainingService_FeedbackFlowWithHints(t *testing.T) {
	f := newTrainingFixture(t)
	ctx := context.Background()

	view, err := f.svc.Start(ctx, services.StartRequest{Mode: models.ModeEnToRu, Count: 3, ShowHints: true})
	require.NoError(t, err)

	view, err = f.svc.SubmitAnswer(ctx, view.ID, view.Question.CorrectAnswer)
	require.NoError(t, err)
	assert.Equal(t, quiz.PhaseFeedback, view.Phase)
	require.NotNil(t, view.LastAnswer)
	assert.True(t, view.LastAnswer.IsCorrect)

	// A skip is not allowed while feedback is showing.
	_, err = f.svc.Skip(ctx, view.ID)
	assert.Error(t, err)

	view, err = f.svc.Continue(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, quiz.PhaseAnswering, view.Phase)
	assert.Equal(t, 1, view.QuestionIndex)
}

func TestTrainingService_SkipBypassesFeedback(t *testing.T) {
	f := newTrainingFixture(t)
	ctx := context.Background()

	view, err := f.svc.Start(ctx, services.StartRequest{Mode: models.ModeEnToRu, Count: 3, ShowHints: true})
	require.NoError(t, err)

	view, err = f.svc.Skip(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, quiz.PhaseAnswering, view.Phase)
	assert.Equal(t, 1, view.QuestionIndex)
}

func TestTrainingService_EmptyAnswerRejected(t *testing.T) {
	f := newTrainingFixture(t)
	ctx := context.Background()

	view, err := f.svc.Start(ctx, services.StartRequest{Mode: models.ModeEnToRu, Count: 3})
	require.NoError(t, err)

	_, err = f.svc.SubmitAnswer(ctx, view.ID, "")
	assert.Error(t, err)
}

func TestTrainingService_RestartRunsAgain(t *testing.T) {
	f := newTrainingFixture(t)
	ctx := context.Background()

	view, err := f.svc.Start(ctx, services.StartRequest{Mode: models.ModeEnToRu, Count: 3})
	require.NoError(t, err)
	f.finishRun(t, view.ID, 3)

	again, err := f.svc.Restart(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, quiz.PhaseAnswering, again.Phase)
	assert.Equal(t, 0, again.QuestionIndex)
	assert.Equal(t, 3, again.TotalQuestions)
}

func TestTrainingService_ResetReturnsToSetup(t *testing.T) {
	f := newTrainingFixture(t)
	ctx := context.Background()

	view, err := f.svc.Start(ctx, services.StartRequest{Mode: models.ModeEnToRu, Count: 3})
	require.NoError(t, err)

	view, err = f.svc.Reset(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, quiz.PhaseSetup, view.Phase)
	assert.Nil(t, view.Question)
}

func TestTrainingService_UnknownSession(t *testing.T) {
	f := newTrainingFixture(t)
	_, err := f.svc.Get(context.Background(), "missing")
	assert.Error(t, err)
}
