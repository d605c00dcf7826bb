package repository

import (
	"strings"

	"inkwell-backend/internal/models"

	"gorm.io/gorm"
)

type SearchRepository interface {
	SearchPosts(query string, limit int) ([]models.Post, error)
}

type searchRepository struct {
	db *gorm.DB
}

func NewSearchRepository(db *gorm.DB) SearchRepository {
	return &searchRepository{db: db}
}

// SearchPosts matches published posts whose title, content or excerpt
// contains the term, case-insensitively, newest first.
func (r *searchRepository) SearchPosts(query string, limit int) ([]models.Post, error) {
	var posts []models.Post

	term := "%" + strings.ToLower(query) + "%"

	err := r.db.Where("published = ?", true).
		Where(
			"LOWER(title) LIKE ? OR LOWER(content) LIKE ? OR LOWER(excerpt) LIKE ?",
			term, term, term,
		).
		Preload("Author").
		Preload("Category").
		Preload("Tags").
		Order("posts.created_at DESC").
		Limit(limit).
		Find(&posts).Error

	return posts, err
}
