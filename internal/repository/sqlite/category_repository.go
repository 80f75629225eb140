package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Mkhisamo/learn-english/internal/logger"
	"github.com/Mkhisamo/learn-english/internal/models"
	"github.com/Mkhisamo/learn-english/internal/repository"
)

type categoryRepository struct {
	db *sql.DB
}

// NewCategoryRepository creates a new CategoryRepository implementation
func NewCategoryRepository(db *sql.DB) repository.CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Get(ctx context.Context, id string) (*models.Category, error) {
	log := logger.FromContext(ctx).WithPrefix("category_repo")
	log.Debug("getting category: id=%s", id)

	var c models.Category
	err := r.db.QueryRowContext(ctx, `
SELECT id, name, icon, color, created_at
FROM categories
WHERE id = ?
`, id).Scan(&c.ID, &c.Name, &c.Icon, &c.Color, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("category not found: id=%s", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get category: %v", err)
		return nil, err
	}
	return &c, nil
}

func (r *categoryRepository) List(ctx context.Context) ([]models.Category, error) {
	log := logger.FromContext(ctx).WithPrefix("category_repo")
	log.Debug("listing categories")

	rows, err := r.db.QueryContext(ctx, `
SELECT id, name, icon, color, created_at
FROM categories
ORDER BY created_at ASC, id ASC
`)
	if err != nil {
		log.Error("failed to list categories: %v", err)
		return nil, err
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Icon, &c.Color, &c.CreatedAt); err != nil {
			log.Error("failed to scan category row: %v", err)
			return nil, err
		}
		categories = append(categories, c)
	}

	log.Debug("found %d categories", len(categories))
	return categories, rows.Err()
}

func (r *categoryRepository) ListWithCounts(ctx context.Context) ([]models.CategoryWithCount, error) {
	log := logger.FromContext(ctx).WithPrefix("category_repo")
	log.Debug("listing categories with word counts")

	rows, err := r.db.QueryContext(ctx, `
SELECT c.id, c.name, c.icon, c.color, c.created_at, COUNT(w.id) AS word_count
FROM categories c
LEFT JOIN words w ON w.category_id = c.id
GROUP BY c.id
ORDER BY c.created_at ASC, c.id ASC
`)
	if err != nil {
		log.Error("failed to list categories with counts: %v", err)
		return nil, err
	}
	defer rows.Close()

	var categories []models.CategoryWithCount
	for rows.Next() {
		var c models.CategoryWithCount
		if err := rows.Scan(&c.ID, &c.Name, &c.Icon, &c.Color, &c.CreatedAt, &c.WordCount); err != nil {
			log.Error("failed to scan category count row: %v", err)
			return nil, err
		}
		categories = append(categories, c)
	}

	return categories, rows.Err()
}

func (r *categoryRepository) Insert(ctx context.Context, category models.Category) error {
	log := logger.FromContext(ctx).WithPrefix("category_repo")
	log.Debug("inserting category: id=%s, name=%s", category.ID, category.Name)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO categories (id, name, icon, color, created_at)
VALUES (?, ?, ?, ?, ?)
`, category.ID, category.Name, category.Icon, category.Color, category.CreatedAt)
	if err != nil {
		log.Error("failed to insert category: %v", err)
	}
	return err
}

func (r *categoryRepository) Delete(ctx context.Context, id string) error {
	log := logger.FromContext(ctx).WithPrefix("category_repo")
	log.Debug("deleting category: id=%s", id)

	_, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		log.Error("failed to delete category: %v", err)
	}
	return err
}
