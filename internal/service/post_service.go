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
	"inkwell-backend/pkg/utils"
	"inkwell-backend/pkg/validator"
)

// maxSlugRetries bounds how many times a create is retried when two
// requests race for the same slug and one loses at commit time.
const maxSlugRetries = 3

type PostService struct {
	postRepo     repository.PostRepository
	tagRepo      repository.TagRepository
	categoryRepo repository.CategoryRepository
	cache        *cache.Cache
}

func NewPostService(
	postRepo repository.PostRepository,
	tagRepo repository.TagRepository,
	categoryRepo repository.CategoryRepository,
	cacheService *cache.Cache,
) *PostService {
	return &PostService{
		postRepo:     postRepo,
		tagRepo:      tagRepo,
		categoryRepo: categoryRepo,
		cache:        cacheService,
	}
}

// Create builds a post with its derived fields: a unique slug from the
// title, an excerpt and read-time label from the content when the caller
// did not supply them, and the publication timestamp when the post starts
// published. None of these are ever recomputed by later edits.
func (s *PostService) Create(req models.CreatePostRequest, authorID uint) (*models.Post, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, newValidationError("post title is required")
	}

	content := validator.SanitizeHTML(req.Content)
	if strings.TrimSpace(content) == "" {
		return nil, newValidationError("post content is required")
	}

	if _, err := s.categoryRepo.FindByID(req.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newValidationError("category %d does not exist", req.CategoryID)
		}
		return nil, fmt.Errorf("failed to load category: %w", err)
	}

	slug, err := uniqueSlug(title, s.postRepo.ExistsBySlug)
	if err != nil {
		return nil, err
	}

	published := true
	if req.Published != nil {
		published = *req.Published
	}

	allowComments := true
	if req.AllowComments != nil {
		allowComments = *req.AllowComments
	}

	excerpt := strings.TrimSpace(validator.SanitizeString(req.Excerpt))
	if excerpt == "" {
		excerpt = utils.GenerateExcerpt(content, utils.DefaultExcerptLength)
	}

	post := &models.Post{
		Title:           title,
		Slug:            slug,
		Content:         content,
		Excerpt:         excerpt,
		MetaDescription: req.MetaDescription,
		FeaturedImage:   req.FeaturedImage,
		Published:       published,
		Featured:        req.Featured,
		AllowComments:   allowComments,
		ReadTime:        utils.EstimateReadTime(content),
		AuthorID:        authorID,
		CategoryID:      req.CategoryID,
	}

	if published {
		now := time.Now().UTC()
		post.PublishedAt = &now
	}

	if len(req.TagNames) > 0 {
		tags, err := s.getOrCreateTags(req.TagNames)
		if err != nil {
			return nil, err
		}
		post.Tags = tags
	}

	if err := s.createWithSlugRetry(post, title); err != nil {
		return nil, err
	}

	s.invalidateListings()

	return s.postRepo.FindByID(post.ID)
}

// createWithSlugRetry commits the post, and when the unique slug index
// rejects it (two identically-titled posts racing), picks the next free
// suffix and tries again, a bounded number of times.
func (s *PostService) createWithSlugRetry(post *models.Post, title string) error {
	for attempt := 0; ; attempt++ {
		err := s.postRepo.Create(post)
		if err == nil {
			return nil
		}

		if !isDuplicateKeyError(err) {
			return fmt.Errorf("failed to create post: %w", err)
		}

		if attempt >= maxSlugRetries {
			return newConflictError("a post with the slug %q already exists", post.Slug)
		}

		next, slugErr := uniqueSlug(title, s.postRepo.ExistsBySlug)
		if slugErr != nil {
			return slugErr
		}
		post.Slug = next
	}
}

// Update edits post fields in place. Slug, excerpt and read time are fixed
// at creation and deliberately left alone here, as is the publication
// timestamp.
func (s *PostService) Update(id uint, req models.UpdatePostRequest, userID uint, isAdmin bool) (*models.Post, error) {
	post, err := s.postRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newNotFoundError("post %d not found", id)
		}
		return nil, err
	}

	if !isAdmin && post.AuthorID != userID {
		return nil, ErrUnauthorized
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, newValidationError("post title cannot be empty")
		}
		post.Title = title
	}
	if req.Content != nil {
		content := validator.SanitizeHTML(*req.Content)
		if strings.TrimSpace(content) == "" {
			return nil, newValidationError("post content cannot be empty")
		}
		post.Content = content
	}
	if req.Excerpt != nil {
		post.Excerpt = strings.TrimSpace(validator.SanitizeString(*req.Excerpt))
	}
	if req.MetaDescription != nil {
		post.MetaDescription = *req.MetaDescription
	}
	if req.FeaturedImage != nil {
		post.FeaturedImage = *req.FeaturedImage
	}
	if req.Published != nil {
		post.Published = *req.Published
	}
	if req.Featured != nil {
		post.Featured = *req.Featured
	}
	if req.AllowComments != nil {
		post.AllowComments = *req.AllowComments
	}
	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(*req.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, newValidationError("category %d does not exist", *req.CategoryID)
			}
			return nil, fmt.Errorf("failed to load category: %w", err)
		}
		post.CategoryID = *req.CategoryID
	}

	if req.TagNames != nil {
		if len(req.TagNames) == 0 {
			post.Tags = []models.Tag{}
		} else {
			tags, err := s.getOrCreateTags(req.TagNames)
			if err != nil {
				return nil, err
			}
			post.Tags = tags
		}
	}

	if err := s.postRepo.Update(post); err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	s.invalidatePost(id)
	s.invalidateListings()

	return s.postRepo.FindByID(post.ID)
}

func (s *PostService) Delete(id uint, userID uint, isAdmin bool) error {
	post, err := s.postRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return newNotFoundError("post %d not found", id)
		}
		return err
	}

	if !isAdmin && post.AuthorID != userID {
		return ErrUnauthorized
	}

	if err := s.postRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	s.invalidatePost(id)
	s.invalidateListings()

	return nil
}

func (s *PostService) GetByID(id uint) (*models.Post, error) {
	post, err := s.postRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newNotFoundError("post %d not found", id)
		}
		return nil, err
	}

	if err := s.postRepo.IncrementViews(post.ID); err == nil {
		post.ViewCount++
	}

	return post, nil
}

func (s *PostService) GetBySlug(slug string) (*models.Post, error) {
	if s.cache != nil {
		var post models.Post
		cacheKey := fmt.Sprintf("post:slug:%s", slug)
		if err := s.cache.Get(cacheKey, &post); err == nil {
			if err := s.postRepo.IncrementViews(post.ID); err == nil {
				post.ViewCount++
			}
			return &post, nil
		}
	}

	post, err := s.postRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newNotFoundError("post %q not found", slug)
		}
		return nil, err
	}

	if err := s.postRepo.IncrementViews(post.ID); err == nil {
		post.ViewCount++
	}

	if s.cache != nil {
		s.cache.Set(fmt.Sprintf("post:slug:%s", slug), post, 1*time.Hour)
	}

	return post, nil
}

// ListFilter mirrors the independently combinable post filters: all set
// fields must match.
type ListFilter struct {
	CategoryID *uint
	TagName    *string
	AuthorID   *uint
	Search     string
}

// List returns published posts newest-first with pagination metadata.
// Out-of-range pages come back empty with the true totals.
func (s *PostService) List(filter ListFilter, page, pageSize int) (*models.PostList, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	cacheKey := s.listCacheKey(filter, page, pageSize)
	if s.cache != nil && cacheKey != "" {
		var cached models.PostList
		if err := s.cache.Get(cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	published := true
	posts, total, err := s.postRepo.FindAll(repository.PostFilter{
		CategoryID: filter.CategoryID,
		TagName:    filter.TagName,
		AuthorID:   filter.AuthorID,
		Published:  &published,
		Search:     filter.Search,
	}, page, pageSize)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []models.Post{}
	}

	result := &models.PostList{
		Items:     posts,
		Total:     total,
		Page:      page,
		PageSize:  pageSize,
		PageCount: pageCount(total, pageSize),
	}

	if s.cache != nil && cacheKey != "" {
		s.cache.Set(cacheKey, result, 5*time.Minute)
	}

	return result, nil
}

// ListAdmin includes unpublished posts and skips the cache.
func (s *PostService) ListAdmin(page, pageSize int) (*models.PostList, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	posts, total, err := s.postRepo.FindAll(repository.PostFilter{}, page, pageSize)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []models.Post{}
	}

	return &models.PostList{
		Items:     posts,
		Total:     total,
		Page:      page,
		PageSize:  pageSize,
		PageCount: pageCount(total, pageSize),
	}, nil
}

func (s *PostService) GetFeatured() (*models.Post, error) {
	post, err := s.postRepo.FindFeatured()
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newNotFoundError("no featured post")
		}
		return nil, err
	}
	return post, nil
}

func (s *PostService) GetRecent(limit int) ([]models.Post, error) {
	return s.postRepo.FindRecent(limit)
}

func (s *PostService) GetPopular(limit int) ([]models.Post, error) {
	return s.postRepo.FindPopular(limit)
}

func (s *PostService) GetRelated(postID uint, limit int) ([]models.Post, error) {
	post, err := s.postRepo.FindByID(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newNotFoundError("post %d not found", postID)
		}
		return nil, err
	}

	return s.postRepo.FindRelated(post.ID, post.CategoryID, limit)
}

// TagWithCount pairs a tag with how many posts carry it, fetched by an
// explicit count query.
type TagWithCount struct {
	models.Tag
	PostCount int64 `json:"post_count"`
}

func (s *PostService) GetAllTags() ([]TagWithCount, error) {
	if s.cache != nil {
		var cached []TagWithCount
		if err := s.cache.Get("tags:all", &cached); err == nil {
			return cached, nil
		}
	}

	tags, err := s.tagRepo.FindAll()
	if err != nil {
		return nil, err
	}

	result := make([]TagWithCount, 0, len(tags))
	for _, tag := range tags {
		count, err := s.tagRepo.CountPosts(tag.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, TagWithCount{Tag: tag, PostCount: count})
	}

	if s.cache != nil {
		s.cache.Set("tags:all", result, 2*time.Hour)
	}

	return result, nil
}

func (s *PostService) DeleteTag(id uint) error {
	if _, err := s.tagRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return newNotFoundError("tag %d not found", id)
		}
		return err
	}

	if err := s.tagRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete tag: %w", err)
	}

	if s.cache != nil {
		s.cache.InvalidateTags()
	}
	s.invalidateListings()

	return nil
}

// getOrCreateTags resolves tag names to records, creating the missing ones.
// A duplicate-key failure means another request created the tag first; it is
// then re-read instead of failing.
func (s *PostService) getOrCreateTags(names []string) ([]models.Tag, error) {
	var tags []models.Tag
	seen := make(map[string]struct{})

	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		tag, err := s.tagRepo.FindByName(name)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}

			tag = &models.Tag{Name: name}
			if createErr := s.tagRepo.Create(tag); createErr != nil {
				if !isDuplicateKeyError(createErr) {
					return nil, createErr
				}
				tag, err = s.tagRepo.FindByName(name)
				if err != nil {
					return nil, err
				}
			}

			if s.cache != nil {
				s.cache.InvalidateTags()
			}
		}

		tags = append(tags, *tag)
	}

	return tags, nil
}

func (s *PostService) listCacheKey(filter ListFilter, page, pageSize int) string {
	// Free-text searches are too varied to be worth caching.
	if filter.Search != "" {
		return ""
	}

	key := fmt.Sprintf("posts:page:%d:size:%d", page, pageSize)
	if filter.CategoryID != nil {
		key += fmt.Sprintf(":cat:%d", *filter.CategoryID)
	}
	if filter.TagName != nil {
		key += fmt.Sprintf(":tag:%s", *filter.TagName)
	}
	if filter.AuthorID != nil {
		key += fmt.Sprintf(":author:%d", *filter.AuthorID)
	}
	return key
}

func (s *PostService) invalidatePost(id uint) {
	if s.cache != nil {
		s.cache.InvalidatePost(id)
	}
}

func (s *PostService) invalidateListings() {
	if s.cache != nil {
		s.cache.InvalidatePostsCache()
	}
}

func pageCount(total int64, pageSize int) int {
	if pageSize < 1 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}
