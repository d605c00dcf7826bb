package service

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"inkwell-backend/internal/models"
	"inkwell-backend/internal/repository"
	"inkwell-backend/pkg/validator"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
	}
}

// Create attaches a comment to a post. A reply's parent comment must belong
// to the same post.
func (s *CommentService) Create(postID, authorID uint, req models.CreateCommentRequest) (*models.Comment, error) {
	content := strings.TrimSpace(validator.SanitizeHTML(req.Content))
	if content == "" {
		return nil, newValidationError("comment content is required")
	}

	post, err := s.postRepo.FindByID(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newNotFoundError("post %d not found", postID)
		}
		return nil, err
	}

	if !post.AllowComments {
		return nil, newValidationError("comments are disabled for this post")
	}

	if req.ParentID != nil {
		parent, err := s.commentRepo.FindByID(*req.ParentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, newNotFoundError("parent comment %d not found", *req.ParentID)
			}
			return nil, err
		}
		if parent.PostID != postID {
			return nil, newValidationError("parent comment belongs to a different post")
		}
	}

	comment := &models.Comment{
		Content:  content,
		Approved: true,
		PostID:   postID,
		AuthorID: authorID,
		ParentID: req.ParentID,
	}

	if err := s.commentRepo.Create(comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	return s.commentRepo.FindByID(comment.ID)
}

func (s *CommentService) Update(id uint, userID uint, canModerate bool, req models.UpdateCommentRequest) (*models.Comment, error) {
	comment, err := s.commentRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newNotFoundError("comment %d not found", id)
		}
		return nil, err
	}

	if !canModerate && comment.AuthorID != userID {
		return nil, ErrUnauthorized
	}

	content := strings.TrimSpace(validator.SanitizeHTML(req.Content))
	if content == "" {
		return nil, newValidationError("comment content is required")
	}
	comment.Content = content

	if err := s.commentRepo.Update(comment); err != nil {
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}

	return comment, nil
}

func (s *CommentService) Delete(id uint, userID uint, canModerate bool) error {
	comment, err := s.commentRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return newNotFoundError("comment %d not found", id)
		}
		return err
	}

	if !canModerate && comment.AuthorID != userID {
		return ErrUnauthorized
	}

	if err := s.commentRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	return nil
}

// ListByPost returns the approved comment thread of a post.
func (s *CommentService) ListByPost(postID uint) ([]models.Comment, error) {
	if _, err := s.postRepo.FindByID(postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newNotFoundError("post %d not found", postID)
		}
		return nil, err
	}

	return s.commentRepo.FindByPost(postID, true)
}

func (s *CommentService) GetAll() ([]models.Comment, error) {
	return s.commentRepo.FindAll()
}

func (s *CommentService) CountApproved(postID uint) (int64, error) {
	return s.commentRepo.CountApprovedByPost(postID)
}

func (s *CommentService) Approve(id uint) error {
	return s.setModeration(id, func(c *models.Comment) {
		c.Approved = true
		c.Flagged = false
	})
}

func (s *CommentService) Reject(id uint) error {
	return s.setModeration(id, func(c *models.Comment) {
		c.Approved = false
	})
}

func (s *CommentService) Flag(id uint) error {
	return s.setModeration(id, func(c *models.Comment) {
		c.Flagged = true
	})
}

func (s *CommentService) setModeration(id uint, apply func(*models.Comment)) error {
	comment, err := s.commentRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return newNotFoundError("comment %d not found", id)
		}
		return err
	}

	apply(comment)

	if err := s.commentRepo.Update(comment); err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}

	return nil
}
