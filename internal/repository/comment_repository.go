package repository

import (
	"inkwell-backend/internal/models"

	"gorm.io/gorm"
)

type CommentRepository interface {
	Create(comment *models.Comment) error
	Update(comment *models.Comment) error
	Delete(id uint) error
	FindByID(id uint) (*models.Comment, error)
	FindByPost(postID uint, approvedOnly bool) ([]models.Comment, error)
	FindAll() ([]models.Comment, error)
	CountApprovedByPost(postID uint) (int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

func (r *commentRepository) Update(comment *models.Comment) error {
	return r.db.Save(comment).Error
}

// Delete removes the comment and its direct replies.
func (r *commentRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("parent_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Comment{}, id).Error
	})
}

func (r *commentRepository) FindByID(id uint) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.Preload("Author").Preload("Replies.Author").First(&comment, id).Error
	return &comment, err
}

// FindByPost returns the top-level comments of a post with their replies.
// Threading stays flat: replies are fetched by parent id, never by walking
// an object graph.
func (r *commentRepository) FindByPost(postID uint, approvedOnly bool) ([]models.Comment, error) {
	var comments []models.Comment

	query := r.db.Where("post_id = ? AND parent_id IS NULL", postID)
	if approvedOnly {
		query = query.Where("approved = ?", true)
	}

	err := query.
		Preload("Author").
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			if approvedOnly {
				db = db.Where("approved = ?", true)
			}
			return db.Order("comments.created_at ASC")
		}).
		Preload("Replies.Author").
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}

func (r *commentRepository) FindAll() ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.Preload("Author").Preload("Post").Order("created_at DESC").Find(&comments).Error
	return comments, err
}

func (r *commentRepository) CountApprovedByPost(postID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Comment{}).
		Where("post_id = ? AND approved = ?", postID, true).
		Count(&count).Error
	return count, err
}
