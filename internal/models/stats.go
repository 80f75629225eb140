package models

// Window selects the time range for progress statistics.
type Window string

const (
	WindowWeek  Window = "week"
	WindowMonth Window = "month"
	WindowAll   Window = "all"
)

// Valid reports whether w is a known window.
func (w Window) Valid() bool {
	return w == WindowWeek || w == WindowMonth || w == WindowAll
}

// Stats summarizes quiz history over a window.
type Stats struct {
	TotalQuizzes      int            `json:"total_quizzes"`
	TotalQuestions    int            `json:"total_questions"`
	TotalCorrect      int            `json:"total_correct"`
	AverageScore      int            `json:"average_score"`
	TotalPointsEarned int            `json:"total_points_earned"`
	CurrentStreak     int            `json:"current_streak"`
	BestStreak        int            `json:"best_streak"`
	Categories        []CategoryStat `json:"categories"`
}

// CategoryStat aggregates results per category label, sorted by accuracy.
type CategoryStat struct {
	Category       string `json:"category"`
	TotalQuestions int    `json:"total_questions"`
	CorrectAnswers int    `json:"correct_answers"`
	Accuracy       int    `json:"accuracy"`
	Points         int    `json:"points"`
}
