package models

// Mode is the question direction: show the English word and ask for the
// Russian translation, or the other way around.
type Mode string

const (
	ModeEnToRu Mode = "en-to-ru"
	ModeRuToEn Mode = "ru-to-en"
)

// Valid reports whether m is a known direction mode.
func (m Mode) Valid() bool {
	return m == ModeEnToRu || m == ModeRuToEn
}

// Question is a single multiple-choice question. Ephemeral: built per quiz
// run and discarded afterwards.
type Question struct {
	Word          Word     `json:"word"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Mode          Mode     `json:"mode"`
}

// Prompt returns the text shown to the learner for this question.
func (q Question) Prompt() string {
	if q.Mode == ModeEnToRu {
		return q.Word.English
	}
	return q.Word.Translation
}

// Answer records the learner's response to one question. SelectedAnswer is
// empty when the question was skipped.
type Answer struct {
	Question       Question `json:"question"`
	SelectedAnswer string   `json:"selectedAnswer"`
	IsCorrect      bool     `json:"isCorrect"`
}
