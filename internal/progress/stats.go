package progress

import (
	"math"
	"sort"
	"time"

	"github.com/Mkhisamo/learn-english/internal/models"
)

// streakThreshold is the minimum score percentage for a quiz to count
// towards a streak.
const streakThreshold = 70

// Summarize aggregates quiz history into stats for the given window. The
// history is expected in chronological order, oldest first. Results whose
// date cannot be parsed are kept for the all-time window and dropped from
// the bounded ones.
func Summarize(history []models.QuizResult, window models.Window, now time.Time) models.Stats {
	filtered := filterWindow(history, window, now)

	stats := models.Stats{
		TotalQuizzes: len(filtered),
		Categories:   categoryStats(filtered),
	}

	for _, r := range filtered {
		stats.TotalQuestions += r.TotalQuestions
		stats.TotalCorrect += r.CorrectAnswers
		stats.TotalPointsEarned += r.Points
	}
	if stats.TotalQuestions > 0 {
		stats.AverageScore = int(math.Round(100 * float64(stats.TotalCorrect) / float64(stats.TotalQuestions)))
	}

	stats.BestStreak, stats.CurrentStreak = streaks(filtered)
	return stats
}

func filterWindow(history []models.QuizResult, window models.Window, now time.Time) []models.QuizResult {
	if window == models.WindowAll {
		return history
	}

	maxDays := 7
	if window == models.WindowMonth {
		maxDays = 30
	}

	filtered := make([]models.QuizResult, 0, len(history))
	for _, r := range history {
		date, err := time.Parse("2006-01-02", r.Date)
		if err != nil {
			continue
		}
		days := int(math.Ceil(now.Sub(date).Hours() / 24))
		if days <= maxDays {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// streaks returns the best and current runs of consecutive quizzes at or
// above the streak threshold. The current streak counts back from the most
// recent quiz and resets to zero as soon as a quiz falls below it.
func streaks(history []models.QuizResult) (best, current int) {
	run := 0
	for _, r := range history {
		if r.ScorePercentage >= streakThreshold {
			run++
			if run > best {
				best = run
			}
		} else {
			run = 0
		}
	}

	for i := len(history) - 1; i >= 0; i-- {
		if history[i].ScorePercentage < streakThreshold {
			break
		}
		current++
	}
	return best, current
}

// categoryStats groups results by their category label and sorts the groups
// by accuracy, best first. Labels tie-break alphabetically so the order is
// stable.
func categoryStats(history []models.QuizResult) []models.CategoryStat {
	byLabel := map[string]*models.CategoryStat{}
	for _, r := range history {
		stat, ok := byLabel[r.Category]
		if !ok {
			stat = &models.CategoryStat{Category: r.Category}
			byLabel[r.Category] = stat
		}
		stat.TotalQuestions += r.TotalQuestions
		stat.CorrectAnswers += r.CorrectAnswers
		stat.Points += r.Points
	}

	out := make([]models.CategoryStat, 0, len(byLabel))
	for _, stat := range byLabel {
		if stat.TotalQuestions > 0 {
			stat.Accuracy = int(math.Round(100 * float64(stat.CorrectAnswers) / float64(stat.TotalQuestions)))
		}
		out = append(out, *stat)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Accuracy != out[j].Accuracy {
			return out[i].Accuracy > out[j].Accuracy
		}
		return out[i].Category < out[j].Category
	})
	return out
}
