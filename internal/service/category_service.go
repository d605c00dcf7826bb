package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"inkwell-backend/internal/models"
	"inkwell-backend/internal/repository"
	"inkwell-backend/pkg/cache"
)

type CategoryService struct {
	categoryRepo repository.CategoryRepository
	cache        *cache.Cache
}

// CategoryWithCount pairs a category with its post count, fetched by an
// explicit count query.
type CategoryWithCount struct {
	models.Category
	PostCount int64 `json:"post_count"`
}

func NewCategoryService(categoryRepo repository.CategoryRepository, cacheService *cache.Cache) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		cache:        cacheService,
	}
}

// Create stores a category with a slug derived from its name at creation
// time. The slug is never regenerated when the category is renamed later.
func (s *CategoryService) Create(req models.CreateCategoryRequest) (*models.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, newValidationError("category name is required")
	}

	slug, err := uniqueSlug(name, s.categoryRepo.ExistsBySlug)
	if err != nil {
		return nil, err
	}

	category := &models.Category{
		Name:        name,
		Slug:        slug,
		Description: req.Description,
		Color:       req.Color,
		Icon:        req.Icon,
	}

	if err := s.categoryRepo.Create(category); err != nil {
		if isDuplicateKeyError(err) {
			return nil, newConflictError("a category named %q already exists", name)
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	s.invalidate()

	return category, nil
}

func (s *CategoryService) Update(id uint, req models.UpdateCategoryRequest) (*models.Category, error) {
	category, err := s.categoryRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newNotFoundError("category %d not found", id)
		}
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, newValidationError("category name cannot be empty")
		}
		category.Name = name
	}
	if req.Description != nil {
		category.Description = *req.Description
	}
	if req.Color != nil {
		category.Color = *req.Color
	}
	if req.Icon != nil {
		category.Icon = *req.Icon
	}

	if err := s.categoryRepo.Update(category); err != nil {
		if isDuplicateKeyError(err) {
			return nil, newConflictError("a category named %q already exists", category.Name)
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	s.invalidate()

	return category, nil
}

// Delete refuses to remove a category that still has posts: every post
// requires a category, so deletion would leave dangling references.
func (s *CategoryService) Delete(id uint) error {
	if _, err := s.categoryRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return newNotFoundError("category %d not found", id)
		}
		return err
	}

	count, err := s.categoryRepo.CountPosts(id)
	if err != nil {
		return fmt.Errorf("failed to count category posts: %w", err)
	}
	if count > 0 {
		return newConflictError("category %d still has %d posts", id, count)
	}

	if err := s.categoryRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	s.invalidate()

	return nil
}

func (s *CategoryService) GetByID(id uint) (*models.Category, error) {
	category, err := s.categoryRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newNotFoundError("category %d not found", id)
		}
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) GetBySlug(slug string) (*models.Category, error) {
	category, err := s.categoryRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newNotFoundError("category %q not found", slug)
		}
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) GetAll() ([]CategoryWithCount, error) {
	if s.cache != nil {
		var cached []CategoryWithCount
		if err := s.cache.Get("categories:all", &cached); err == nil {
			return cached, nil
		}
	}

	categories, err := s.categoryRepo.FindAll()
	if err != nil {
		return nil, err
	}

	result := make([]CategoryWithCount, 0, len(categories))
	for _, category := range categories {
		count, err := s.categoryRepo.CountPosts(category.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, CategoryWithCount{Category: category, PostCount: count})
	}

	if s.cache != nil {
		s.cache.Set("categories:all", result, 2*time.Hour)
	}

	return result, nil
}

func (s *CategoryService) invalidate() {
	if s.cache != nil {
		s.cache.InvalidateCategories()
	}
}
