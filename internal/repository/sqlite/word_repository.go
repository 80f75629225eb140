package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"

	"github.com/Mkhisamo/learn-english/internal/logger"
	"github.com/Mkhisamo/learn-english/internal/models"
	"github.com/Mkhisamo/learn-english/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

type wordRepository struct {
	db *sql.DB
}

// NewWordRepository creates a new WordRepository implementation
func NewWordRepository(db *sql.DB) repository.WordRepository {
	return &wordRepository{db: db}
}

func (r *wordRepository) Get(ctx context.Context, id string) (*models.Word, error) {
	log := logger.FromContext(ctx).WithPrefix("word_repo")
	log.Debug("getting word: id=%s", id)

	var w models.Word
	err := r.db.QueryRowContext(ctx, `
SELECT id, english, translation, category_id, created_at
FROM words
WHERE id = ?
`, id).Scan(&w.ID, &w.English, &w.Translation, &w.CategoryID, &w.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("word not found: id=%s", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get word: %v", err)
		return nil, err
	}
	return &w, nil
}

func (r *wordRepository) List(ctx context.Context, filter models.WordFilter) ([]models.Word, error) {
	log := logger.FromContext(ctx).WithPrefix("word_repo")
	log.Debug("listing words with filter: category=%s", filter.CategoryID)

	query := sqlBuilder.Select("id", "english", "translation", "category_id", "created_at").
		From("words").
		OrderBy("created_at ASC", "id ASC")
	if filter.CategoryID != "" {
		query = query.Where(squirrel.Eq{"category_id": filter.CategoryID})
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build word query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list words: %v", err)
		return nil, err
	}
	defer rows.Close()

	var words []models.Word
	for rows.Next() {
		var w models.Word
		if err := rows.Scan(&w.ID, &w.English, &w.Translation, &w.CategoryID, &w.CreatedAt); err != nil {
			log.Error("failed to scan word row: %v", err)
			return nil, err
		}
		words = append(words, w)
	}

	log.Debug("found %d words", len(words))
	return words, rows.Err()
}

func (r *wordRepository) Count(ctx context.Context, filter models.WordFilter) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("word_repo")

	query := sqlBuilder.Select("COUNT(*)").From("words")
	if filter.CategoryID != "" {
		query = query.Where(squirrel.Eq{"category_id": filter.CategoryID})
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	if err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&count); err != nil {
		log.Error("failed to count words: %v", err)
		return 0, err
	}
	return count, nil
}

func (r *wordRepository) Insert(ctx context.Context, word models.Word) error {
	log := logger.FromContext(ctx).WithPrefix("word_repo")
	log.Debug("inserting word: id=%s, english=%s", word.ID, word.English)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO words (id, english, translation, category_id, created_at)
VALUES (?, ?, ?, ?, ?)
`, word.ID, word.English, word.Translation, word.CategoryID, word.CreatedAt)
	if err != nil {
		log.Error("failed to insert word: %v", err)
	}
	return err
}

func (r *wordRepository) InsertBatch(ctx context.Context, words []models.Word) error {
	if len(words) == 0 {
		return nil
	}
	log := logger.FromContext(ctx).WithPrefix("word_repo")
	log.Debug("inserting %d words", len(words))

	return tx(ctx, r.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
INSERT INTO words (id, english, translation, category_id, created_at)
VALUES (?, ?, ?, ?, ?)
`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, w := range words {
			if _, err := stmt.ExecContext(ctx, w.ID, w.English, w.Translation, w.CategoryID, w.CreatedAt); err != nil {
				log.Error("failed to insert word %s: %v", w.English, err)
				return err
			}
		}
		return nil
	})
}

func (r *wordRepository) Update(ctx context.Context, word models.Word) error {
	log := logger.FromContext(ctx).WithPrefix("word_repo")
	log.Debug("updating word: id=%s", word.ID)

	_, err := r.db.ExecContext(ctx, `
UPDATE words SET english = ?, translation = ?, category_id = ?
WHERE id = ?
`, word.English, word.Translation, word.CategoryID, word.ID)
	if err != nil {
		log.Error("failed to update word: %v", err)
	}
	return err
}

func (r *wordRepository) Delete(ctx context.Context, id string) error {
	log := logger.FromContext(ctx).WithPrefix("word_repo")
	log.Debug("deleting word: id=%s", id)

	_, err := r.db.ExecContext(ctx, `DELETE FROM words WHERE id = ?`, id)
	if err != nil {
		log.Error("failed to delete word: %v", err)
	}
	return err
}

func (r *wordRepository) ExistsByEnglish(ctx context.Context, english, categoryID string) (bool, error) {
	log := logger.FromContext(ctx).WithPrefix("word_repo")

	var count int
	err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*) FROM words
WHERE english = ? COLLATE NOCASE AND category_id = ?
`, english, categoryID).Scan(&count)
	if err != nil {
		log.Error("failed to check word existence: %v", err)
		return false, err
	}
	return count > 0, nil
}
