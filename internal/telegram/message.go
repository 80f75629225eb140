package telegram

import (
	"fmt"
	"strings"

	"github.com/Mkhisamo/learn-english/internal/models"
)

func modeLabel(mode models.Mode) string {
	if mode == models.ModeEnToRu {
		return "Английский → Русский"
	}
	return "Русский → Английский"
}

// FormatResult renders a quiz result as the message sent to the parent's
// chat: a stats block followed by the list of missed words, or a
// congratulation when there were no mistakes.
func FormatResult(r models.QuizResult) string {
	var b strings.Builder
	b.WriteString("🎯 Результаты тренировки Word Trainer\n\n")
	b.WriteString("📊 Статистика:\n")
	fmt.Fprintf(&b, "• Правильных ответов: %d/%d\n", r.CorrectAnswers, r.TotalQuestions)
	fmt.Fprintf(&b, "• Точность: %d%%\n", r.ScorePercentage)
	fmt.Fprintf(&b, "• Баллы: +%d\n", r.Points)
	fmt.Fprintf(&b, "• Категория: %s\n", r.Category)
	fmt.Fprintf(&b, "• Режим: %s\n\n", modeLabel(r.Mode))

	if len(r.Mistakes) == 0 {
		b.WriteString("🎉 Все ответы правильные!")
		return b.String()
	}

	b.WriteString("❌ Ошибки:\n")
	for i, mistake := range r.Mistakes {
		fmt.Fprintf(&b, "%d. %s → %s\n", i+1, mistake.Question.Word.English, mistake.Question.Word.Translation)
	}
	return strings.TrimRight(b.String(), "\n")
}
