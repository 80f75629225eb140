package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mkhisamo/learn-english/internal/models"
	"github.com/Mkhisamo/learn-english/internal/services"
	"github.com/Mkhisamo/learn-english/internal/worker"
)

type fakeNotifier struct {
	sent chan string
	err  error
}

func (f *fakeNotifier) Send(_ context.Context, text string) error {
	f.sent <- text
	return f.err
}

func waitDelivery(t *testing.T, svc services.NotifyService) *services.DeliveryStatus {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		if status := svc.LastDelivery(); status != nil {
			return status
		}
		select {
		case <-deadline:
			t.Fatal("no delivery recorded")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestNotifyService_DeliversResult(t *testing.T) {
	pool := worker.NewPool(1, 4)
	pool.Start(context.Background())
	t.Cleanup(pool.Stop)

	notifier := &fakeNotifier{sent: make(chan string, 1)}
	svc := services.NewNotifyService(notifier, pool)

	result := models.QuizResult{
		ID:              "r1",
		Category:        "Животные",
		Mode:            models.ModeEnToRu,
		CorrectAnswers:  9,
		TotalQuestions:  10,
		ScorePercentage: 90,
		Points:          145,
	}
	require.NoError(t, svc.NotifyResult(context.Background(), result))

	select {
	case text := <-notifier.sent:
		assert.Contains(t, text, "🎯 Результаты тренировки Word Trainer")
		assert.Contains(t, text, "• Правильных ответов: 9/10")
	case <-time.After(2 * time.Second):
		t.Fatal("notification was not sent")
	}

	status := waitDelivery(t, svc)
	assert.True(t, status.Ok)
	assert.Empty(t, status.Error)
}

func TestNotifyService_RecordsFailure(t *testing.T) {
	pool := worker.NewPool(1, 4)
	pool.Start(context.Background())
	t.Cleanup(pool.Stop)

	notifier := &fakeNotifier{sent: make(chan string, 1), err: errors.New("telegram: bad token")}
	svc := services.NewNotifyService(notifier, pool)

	require.NoError(t, svc.NotifyResult(context.Background(), models.QuizResult{ID: "r1"}))
	<-notifier.sent

	status := waitDelivery(t, svc)
	assert.False(t, status.Ok)
	assert.Contains(t, status.Error, "bad token")
}

func TestNotifyService_Unconfigured(t *testing.T) {
	pool := worker.NewPool(1, 4)
	svc := services.NewNotifyService(nil, pool)

	err := svc.NotifyResult(context.Background(), models.QuizResult{})
	assert.Error(t, err)
	assert.Nil(t, svc.LastDelivery())
}
