package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mkhisamo/learn-english/internal/models"
)

func result(date, category string, correct, total, score, points int) models.QuizResult {
	return models.QuizResult{
		Date:            date,
		Category:        category,
		CorrectAnswers:  correct,
		TotalQuestions:  total,
		ScorePercentage: score,
		Points:          points,
	}
}

func TestSummarize_Empty(t *testing.T) {
	stats := Summarize(nil, models.WindowAll, time.Now())
	assert.Equal(t, 0, stats.TotalQuizzes)
	assert.Equal(t, 0, stats.AverageScore)
	assert.Equal(t, 0, stats.BestStreak)
	assert.Equal(t, 0, stats.CurrentStreak)
	assert.Empty(t, stats.Categories)
}

func TestSummarize_Totals(t *testing.T) {
	history := []models.QuizResult{
		result("2024-03-01", "Животные", 8, 10, 80, 106),
		result("2024-03-02", "Еда", 5, 10, 50, 50),
	}
	now := time.Date(2024, 3, 3, 12, 0, 0, 0, time.UTC)

	stats := Summarize(history, models.WindowAll, now)
	assert.Equal(t, 2, stats.TotalQuizzes)
	assert.Equal(t, 20, stats.TotalQuestions)
	assert.Equal(t, 13, stats.TotalCorrect)
	assert.Equal(t, 156, stats.TotalPointsEarned)
	assert.Equal(t, 65, stats.AverageScore)
}

func TestSummarize_Streaks(t *testing.T) {
	scores := []int{60, 80, 90, 75, 50}
	history := make([]models.QuizResult, 0, len(scores))
	for _, score := range scores {
		history = append(history, result("2024-03-01", "Все категории", score/10, 10, score, 0))
	}

	stats := Summarize(history, models.WindowAll, time.Now())
	assert.Equal(t, 3, stats.BestStreak)
	assert.Equal(t, 0, stats.CurrentStreak)
}

func TestSummarize_CurrentStreakRunsToEnd(t *testing.T) {
	scores := []int{50, 70, 90, 100}
	history := make([]models.QuizResult, 0, len(scores))
	for _, score := range scores {
		history = append(history, result("2024-03-01", "Все категории", score/10, 10, score, 0))
	}

	stats := Summarize(history, models.WindowAll, time.Now())
	assert.Equal(t, 3, stats.BestStreak)
	assert.Equal(t, 3, stats.CurrentStreak)
}

func TestSummarize_WindowFiltering(t *testing.T) {
	now := time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)
	history := []models.QuizResult{
		result("2024-01-01", "old", 5, 10, 50, 50),
		result("2024-03-10", "month", 5, 10, 50, 50),
		result("2024-03-28", "week", 5, 10, 50, 50),
	}

	assert.Equal(t, 1, Summarize(history, models.WindowWeek, now).TotalQuizzes)
	assert.Equal(t, 2, Summarize(history, models.WindowMonth, now).TotalQuizzes)
	assert.Equal(t, 3, Summarize(history, models.WindowAll, now).TotalQuizzes)
}

func TestSummarize_UnparseableDate(t *testing.T) {
	now := time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)
	history := []models.QuizResult{
		result("not-a-date", "broken", 5, 10, 50, 50),
		result("2024-03-30", "fresh", 5, 10, 50, 50),
	}

	// Bounded windows drop the unreadable entry, the all-time view keeps it.
	assert.Equal(t, 1, Summarize(history, models.WindowWeek, now).TotalQuizzes)
	assert.Equal(t, 2, Summarize(history, models.WindowAll, now).TotalQuizzes)
}

func TestSummarize_CategoriesSortedByAccuracy(t *testing.T) {
	history := []models.QuizResult{
		result("2024-03-01", "Еда", 5, 10, 50, 50),
		result("2024-03-02", "Животные", 9, 10, 90, 145),
		result("2024-03-03", "Животные", 7, 10, 70, 80),
		result("2024-03-04", "Школа", 8, 10, 80, 106),
	}

	stats := Summarize(history, models.WindowAll, time.Now())
	require.Len(t, stats.Categories, 3)

	assert.Equal(t, "Животные", stats.Categories[0].Category)
	assert.Equal(t, 80, stats.Categories[0].Accuracy)
	assert.Equal(t, 20, stats.Categories[0].TotalQuestions)
	assert.Equal(t, 16, stats.Categories[0].CorrectAnswers)
	assert.Equal(t, 225, stats.Categories[0].Points)

	assert.Equal(t, "Школа", stats.Categories[1].Category)
	assert.Equal(t, "Еда", stats.Categories[2].Category)
}

func TestSummarize_CategoryAccuracyTieBreaksByName(t *testing.T) {
	history := []models.QuizResult{
		result("2024-03-01", "b", 5, 10, 50, 0),
		result("2024-03-01", "a", 5, 10, 50, 0),
	}

	stats := Summarize(history, models.WindowAll, time.Now())
	require.Len(t, stats.Categories, 2)
	assert.Equal(t, "a", stats.Categories[0].Category)
	assert.Equal(t, "b", stats.Categories[1].Category)
}
