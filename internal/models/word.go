package models

import "time"

// Word is a single vocabulary entry: an English word with its Russian
// translation, assigned to a category.
type Word struct {
	ID          string    `json:"id"`
	English     string    `json:"english"`
	Translation string    `json:"translation"`
	CategoryID  string    `json:"category"`
	CreatedAt   time.Time `json:"created_at"`
}

// Category groups words for filtering and display.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
}

// CategoryInfo is the display view of a category. When a word references a
// deleted category, a synthetic fallback is returned instead of an error.
type CategoryInfo struct {
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

// CategoryWithCount is a category along with the number of words assigned to it.
type CategoryWithCount struct {
	Category
	WordCount int `json:"word_count"`
}

// WordFilter narrows word listings.
type WordFilter struct {
	CategoryID string
}
