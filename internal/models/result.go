package models

// QuizResult is the summary of one completed training run. Created exactly
// once per run, appended to the history, never mutated afterwards.
type QuizResult struct {
	ID              string   `json:"id"`
	Date            string   `json:"date"` // YYYY-MM-DD
	Time            string   `json:"time"` // HH:MM
	Category        string   `json:"category"` // display label, not the category id
	Mode            Mode     `json:"mode"`
	CorrectAnswers  int      `json:"correctAnswers"`
	TotalQuestions  int      `json:"totalQuestions"`
	ScorePercentage int      `json:"scorePercentage"`
	Points          int      `json:"points"`
	Mistakes        []Answer `json:"mistakes"`
}
