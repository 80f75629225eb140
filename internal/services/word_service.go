package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Mkhisamo/learn-english/internal/errors"
	"github.com/Mkhisamo/learn-english/internal/export"
	"github.com/Mkhisamo/learn-english/internal/logger"
	"github.com/Mkhisamo/learn-english/internal/models"
	"github.com/Mkhisamo/learn-english/internal/repository"
)

// WordService handles word bank business logic
type WordService interface {
	ListWords(ctx context.Context, filter models.WordFilter) ([]models.Word, error)
	CreateWord(ctx context.Context, english, translation, categoryID string) (*models.Word, error)
	UpdateWord(ctx context.Context, id, english, translation, categoryID string) (*models.Word, error)
	DeleteWord(ctx context.Context, id string) error
	ListCategories(ctx context.Context) ([]models.CategoryWithCount, error)
	CreateCategory(ctx context.Context, name, icon, color string) (*models.Category, error)
	DeleteCategory(ctx context.Context, id string) error
	CategoryInfo(ctx context.Context, id string) (models.CategoryInfo, error)
	Export(ctx context.Context, filter models.WordFilter) ([]export.Row, error)
	Import(ctx context.Context, records []export.Record) (*export.Result, error)
}

type wordService struct {
	words      repository.WordRepository
	categories repository.CategoryRepository
}

// NewWordService creates a new WordService
func NewWordService(words repository.WordRepository, categories repository.CategoryRepository) WordService {
	return &wordService{words: words, categories: categories}
}

func (s *wordService) ListWords(ctx context.Context, filter models.WordFilter) ([]models.Word, error) {
	words, err := s.words.List(ctx, filter)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if words == nil {
		words = []models.Word{}
	}
	return words, nil
}

func (s *wordService) CreateWord(ctx context.Context, english, translation, categoryID string) (*models.Word, error) {
	log := logger.FromContext(ctx)

	english = strings.TrimSpace(english)
	translation = strings.TrimSpace(translation)
	if english == "" {
		return nil, errors.NewValidationError("english", "must not be empty")
	}
	if translation == "" {
		return nil, errors.NewValidationError("translation", "must not be empty")
	}

	category, err := s.categories.Get(ctx, categoryID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if category == nil {
		return nil, errors.NewValidationError("category", fmt.Sprintf("unknown category %q", categoryID))
	}

	exists, err := s.words.ExistsByEnglish(ctx, english, categoryID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if exists {
		return nil, errors.NewConflictError(fmt.Sprintf("word %q already exists in category %q", english, categoryID))
	}

	word := models.Word{
		ID:          uuid.NewString(),
		English:     english,
		Translation: translation,
		CategoryID:  categoryID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.words.Insert(ctx, word); err != nil {
		return nil, errors.NewInternalError(err)
	}

	log.Info("word created: %s (%s)", word.English, word.ID)
	return &word, nil
}

func (s *wordService) UpdateWord(ctx context.Context, id, english, translation, categoryID string) (*models.Word, error) {
	english = strings.TrimSpace(english)
	translation = strings.TrimSpace(translation)
	if english == "" {
		return nil, errors.NewValidationError("english", "must not be empty")
	}
	if translation == "" {
		return nil, errors.NewValidationError("translation", "must not be empty")
	}

	word, err := s.words.Get(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if word == nil {
		return nil, errors.NewNotFoundError("word", id)
	}

	category, err := s.categories.Get(ctx, categoryID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if category == nil {
		return nil, errors.NewValidationError("category", fmt.Sprintf("unknown category %q", categoryID))
	}

	word.English = english
	word.Translation = translation
	word.CategoryID = categoryID
	if err := s.words.Update(ctx, *word); err != nil {
		return nil, errors.NewInternalError(err)
	}
	return word, nil
}

func (s *wordService) DeleteWord(ctx context.Context, id string) error {
	word, err := s.words.Get(ctx, id)
	if err != nil {
		return errors.NewInternalError(err)
	}
	if word == nil {
		return errors.NewNotFoundError("word", id)
	}
	if err := s.words.Delete(ctx, id); err != nil {
		return errors.NewInternalError(err)
	}
	return nil
}

func (s *wordService) ListCategories(ctx context.Context) ([]models.CategoryWithCount, error) {
	categories, err := s.categories.ListWithCounts(ctx)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if categories == nil {
		categories = []models.CategoryWithCount{}
	}
	return categories, nil
}

func (s *wordService) CreateCategory(ctx context.Context, name, icon, color string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.NewValidationError("name", "must not be empty")
	}
	if icon == "" {
		icon = "📝"
	}
	if color == "" {
		color = "gray"
	}

	id := slugify(name)
	existing, err := s.categories.Get(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if existing != nil {
		return nil, errors.NewConflictError(fmt.Sprintf("category %q already exists", id))
	}

	category := models.Category{
		ID:        id,
		Name:      name,
		Icon:      icon,
		Color:     color,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.categories.Insert(ctx, category); err != nil {
		return nil, errors.NewInternalError(err)
	}
	return &category, nil
}

func (s *wordService) DeleteCategory(ctx context.Context, id string) error {
	category, err := s.categories.Get(ctx, id)
	if err != nil {
		return errors.NewInternalError(err)
	}
	if category == nil {
		return errors.NewNotFoundError("category", id)
	}

	count, err := s.words.Count(ctx, models.WordFilter{CategoryID: id})
	if err != nil {
		return errors.NewInternalError(err)
	}
	if count > 0 {
		return errors.NewConflictError(fmt.Sprintf("category %q still holds %d words", id, count))
	}
	if err := s.categories.Delete(ctx, id); err != nil {
		return errors.NewInternalError(err)
	}
	return nil
}

// CategoryInfo resolves the display view of a category. Words may reference
// a category that was deleted afterwards; those resolve to a synthetic
// fallback instead of failing.
func (s *wordService) CategoryInfo(ctx context.Context, id string) (models.CategoryInfo, error) {
	category, err := s.categories.Get(ctx, id)
	if err != nil {
		return models.CategoryInfo{}, errors.NewInternalError(err)
	}
	if category == nil {
		return models.CategoryInfo{Name: id, Icon: "📝", Color: "gray"}, nil
	}
	return models.CategoryInfo{Name: category.Name, Icon: category.Icon, Color: category.Color}, nil
}

func (s *wordService) Export(ctx context.Context, filter models.WordFilter) ([]export.Row, error) {
	words, err := s.words.List(ctx, filter)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	rows := make([]export.Row, 0, len(words))
	for _, w := range words {
		info, err := s.CategoryInfo(ctx, w.CategoryID)
		if err != nil {
			return nil, err
		}
		rows = append(rows, export.Row{
			English:     w.English,
			Translation: w.Translation,
			Category:    info.Name,
		})
	}
	return rows, nil
}

func (s *wordService) Import(ctx context.Context, records []export.Record) (*export.Result, error) {
	log := logger.FromContext(ctx)
	result := &export.Result{Errors: []string{}}

	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	byName := map[string]string{}
	for _, c := range categories {
		byName[strings.ToLower(c.Name)] = c.ID
	}

	var batch []models.Word
	inBatch := map[string]bool{}
	for _, rec := range records {
		result.TotalProcessed++

		if rec.English == "" || rec.Translation == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: both word and translation are required", rec.Line))
			continue
		}
		if rec.Category == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: category is required", rec.Line))
			continue
		}

		categoryID, ok := byName[strings.ToLower(rec.Category)]
		if !ok {
			created, err := s.CreateCategory(ctx, rec.Category, "", "")
			if err != nil {
				log.Warn("import: category %q not created: %v", rec.Category, err)
				result.Errors = append(result.Errors, fmt.Sprintf("row %d: category %q could not be created", rec.Line, rec.Category))
				continue
			}
			categoryID = created.ID
			byName[strings.ToLower(created.Name)] = created.ID
			result.CategoriesCreated++
		}

		key := categoryID + "\x00" + strings.ToLower(rec.English)
		exists, err := s.words.ExistsByEnglish(ctx, rec.English, categoryID)
		if err != nil {
			return nil, errors.NewInternalError(err)
		}
		if exists || inBatch[key] {
			result.Skipped++
			continue
		}
		inBatch[key] = true

		batch = append(batch, models.Word{
			ID:          uuid.NewString(),
			English:     rec.English,
			Translation: rec.Translation,
			CategoryID:  categoryID,
			CreatedAt:   time.Now().UTC(),
		})
		result.Created++
	}

	if err := s.words.InsertBatch(ctx, batch); err != nil {
		return nil, errors.NewInternalError(err)
	}

	log.Info("import finished: %d processed, %d created, %d skipped, %d errors",
		result.TotalProcessed, result.Created, result.Skipped, len(result.Errors))
	return result, nil
}

// slugify derives a category id from its display name.
func slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.Join(strings.Fields(slug), "-")
	return slug
}
