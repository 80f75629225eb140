package quiz

import (
	"math/rand"

	"github.com/Mkhisamo/learn-english/internal/models"
)

// MinPoolSize is the smallest word pool that can produce a question: one
// correct answer plus three distinct wrong options.
const MinPoolSize = 4

// Generic options used to pad the distractor set when the pool is too
// homogeneous to supply three distinct wrong answers.
var fallbackAnswers = map[models.Mode][]string{
	models.ModeEnToRu: {"неизвестно", "другое", "что-то"},
	models.ModeRuToEn: {"unknown", "other", "something"},
}

// Generate builds up to count multiple-choice questions from the pool.
// Words are selected without replacement in shuffled order; each question
// gets the correct answer plus three distractors drawn from the rest of the
// pool, all four shuffled. Returns nil when the pool is smaller than
// MinPoolSize. The rand source is injected so callers can make runs
// reproducible.
func Generate(pool []models.Word, mode models.Mode, count int, rng *rand.Rand) []models.Question {
	if len(pool) < MinPoolSize || count <= 0 {
		return nil
	}

	shuffled := make([]models.Word, len(pool))
	copy(shuffled, pool)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	if count > len(shuffled) {
		count = len(shuffled)
	}
	selected := shuffled[:count]

	questions := make([]models.Question, 0, count)
	for _, word := range selected {
		correct := answerFor(word, mode)
		distractors := pickDistractors(word, pool, mode, correct, rng)

		options := make([]string, 0, 1+len(distractors))
		options = append(options, correct)
		options = append(options, distractors...)
		rng.Shuffle(len(options), func(i, j int) {
			options[i], options[j] = options[j], options[i]
		})

		questions = append(questions, models.Question{
			Word:          word,
			Options:       options,
			CorrectAnswer: correct,
			Mode:          mode,
		})
	}
	return questions
}

// answerFor returns the field the learner has to pick for the given mode.
func answerFor(w models.Word, mode models.Mode) string {
	if mode == models.ModeEnToRu {
		return w.Translation
	}
	return w.English
}

// pickDistractors selects exactly three wrong options: candidates come from
// the other pool words, deduplicated against the correct answer and each
// other, then padded from the fallback vocabulary if needed.
func pickDistractors(word models.Word, pool []models.Word, mode models.Mode, correct string, rng *rand.Rand) []string {
	seen := map[string]bool{correct: true}
	candidates := make([]string, 0, len(pool))
	for _, other := range pool {
		if other.ID == word.ID {
			continue
		}
		answer := answerFor(other, mode)
		if seen[answer] {
			continue
		}
		seen[answer] = true
		candidates = append(candidates, answer)
	}

	rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	if len(candidates) > 3 {
		candidates = candidates[:3]
	}

	chosen := map[string]bool{correct: true}
	for _, c := range candidates {
		chosen[c] = true
	}
	for _, generic := range fallbackAnswers[mode] {
		if len(candidates) >= 3 {
			break
		}
		if chosen[generic] {
			continue
		}
		chosen[generic] = true
		candidates = append(candidates, generic)
	}
	return candidates
}
