package repository

import (
	"context"

	"github.com/Mkhisamo/learn-english/internal/models"
)

// WordRepository handles word bank data access. Lookups return nil without
// an error when the word does not exist.
type WordRepository interface {
	Get(ctx context.Context, id string) (*models.Word, error)
	List(ctx context.Context, filter models.WordFilter) ([]models.Word, error)
	Count(ctx context.Context, filter models.WordFilter) (int, error)
	Insert(ctx context.Context, word models.Word) error
	InsertBatch(ctx context.Context, words []models.Word) error
	Update(ctx context.Context, word models.Word) error
	Delete(ctx context.Context, id string) error
	ExistsByEnglish(ctx context.Context, english, categoryID string) (bool, error)
}

// CategoryRepository handles category data access.
type CategoryRepository interface {
	Get(ctx context.Context, id string) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
	ListWithCounts(ctx context.Context) ([]models.CategoryWithCount, error)
	Insert(ctx context.Context, category models.Category) error
	Delete(ctx context.Context, id string) error
}
