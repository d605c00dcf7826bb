package repository

import (
	"strings"

	"inkwell-backend/internal/models"

	"gorm.io/gorm"
)

// PostFilter narrows a post listing. Zero-valued fields are ignored; set
// fields combine with logical AND.
type PostFilter struct {
	CategoryID *uint
	TagName    *string
	AuthorID   *uint
	Published  *bool
	Search     string
}

type PostRepository interface {
	Create(post *models.Post) error
	Update(post *models.Post) error
	Delete(id uint) error
	FindByID(id uint) (*models.Post, error)
	FindBySlug(slug string) (*models.Post, error)
	FindAll(filter PostFilter, page, pageSize int) ([]models.Post, int64, error)
	FindFeatured() (*models.Post, error)
	FindRecent(limit int) ([]models.Post, error)
	FindPopular(limit int) ([]models.Post, error)
	FindRelated(postID, categoryID uint, limit int) ([]models.Post, error)
	ExistsBySlug(slug string) (bool, error)
	IncrementViews(id uint) error
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(post *models.Post) error {
	return r.db.Create(post).Error
}

// Update persists the post's columns and replaces its tag set. Save alone
// only upserts many2many rows and never deletes removed links, so the tag
// association is replaced explicitly.
func (r *postRepository) Update(post *models.Post) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Tags", "Category", "Author", "Comments").Save(post).Error; err != nil {
			return err
		}
		return tx.Model(post).Association("Tags").Replace(post.Tags)
	})
}

// Delete removes the post, its tag links and its comments in one
// transaction.
func (r *postRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM post_tags WHERE post_id = ?", id).Error; err != nil {
			return err
		}

		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Post{}, id).Error
	})
}

func (r *postRepository) FindByID(id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.Preload("Author").Preload("Category").Preload("Tags").First(&post, id).Error
	return &post, err
}

func (r *postRepository) FindBySlug(slug string) (*models.Post, error) {
	var post models.Post
	err := r.db.Where("slug = ?", slug).
		Preload("Author").
		Preload("Category").
		Preload("Tags").
		First(&post).Error
	return &post, err
}

func (r *postRepository) FindAll(filter PostFilter, page, pageSize int) ([]models.Post, int64, error) {
	var posts []models.Post
	var total int64

	query := r.db.Model(&models.Post{})

	if filter.Published != nil {
		query = query.Where("posts.published = ?", *filter.Published)
	}

	if filter.CategoryID != nil {
		query = query.Where("posts.category_id = ?", *filter.CategoryID)
	}

	if filter.AuthorID != nil {
		query = query.Where("posts.author_id = ?", *filter.AuthorID)
	}

	if filter.TagName != nil {
		query = query.Joins("JOIN post_tags ON post_tags.post_id = posts.id").
			Joins("JOIN tags ON tags.id = post_tags.tag_id").
			Where("tags.name = ?", *filter.TagName)
	}

	if filter.Search != "" {
		// LOWER+LIKE rather than ILIKE so the same query plan works on
		// postgres and on the sqlite databases used in tests.
		term := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where(
			"LOWER(posts.title) LIKE ? OR LOWER(posts.content) LIKE ? OR LOWER(posts.excerpt) LIKE ?",
			term, term, term,
		)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	offset := (page - 1) * pageSize

	err := query.Preload("Author").Preload("Category").Preload("Tags").
		Order("posts.created_at DESC").
		Offset(offset).Limit(pageSize).
		Find(&posts).Error

	return posts, total, err
}

func (r *postRepository) FindFeatured() (*models.Post, error) {
	var post models.Post
	err := r.db.Where("featured = ? AND published = ?", true, true).
		Preload("Author").
		Preload("Category").
		Preload("Tags").
		Order("created_at DESC").
		First(&post).Error
	return &post, err
}

func (r *postRepository) FindRecent(limit int) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.Where("published = ?", true).
		Preload("Author").
		Preload("Category").
		Preload("Tags").
		Order("created_at DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) FindPopular(limit int) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.Where("published = ?", true).
		Preload("Author").
		Preload("Category").
		Preload("Tags").
		Order("view_count DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) FindRelated(postID, categoryID uint, limit int) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.Where("category_id = ? AND id <> ? AND published = ?", categoryID, postID, true).
		Preload("Author").
		Preload("Category").
		Order("created_at DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) ExistsBySlug(slug string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Post{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

func (r *postRepository) IncrementViews(id uint) error {
	return r.db.Model(&models.Post{}).Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}
