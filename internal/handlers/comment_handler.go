package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"inkwell-backend/internal/models"
	"inkwell-backend/internal/service"
)

type CommentHandler struct {
	commentService *service.CommentService
}

func NewCommentHandler(commentService *service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

func (h *CommentHandler) Create(c *gin.Context) {
	postID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.commentService.Create(postID, c.GetUint("user_id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}

// GetByPost returns the approved top-level comments for a post with their
// approved replies.
func (h *CommentHandler) GetByPost(c *gin.Context) {
	postID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	comments, err := h.commentService.ListByPost(postID)
	if err != nil {
		respondError(c, err)
		return
	}

	total, err := h.commentService.CountApproved(postID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": comments, "total": total})
}

func (h *CommentHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.commentService.Update(id, c.GetUint("user_id"), c.GetBool("is_admin"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"comment": comment})
}

func (h *CommentHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.commentService.Delete(id, c.GetUint("user_id"), c.GetBool("is_admin")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "comment deleted"})
}

func (h *CommentHandler) GetAll(c *gin.Context) {
	comments, err := h.commentService.GetAll()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": comments, "total": len(comments)})
}

func (h *CommentHandler) Approve(c *gin.Context) {
	h.moderate(c, h.commentService.Approve, "comment approved")
}

func (h *CommentHandler) Reject(c *gin.Context) {
	h.moderate(c, h.commentService.Reject, "comment rejected")
}

func (h *CommentHandler) Flag(c *gin.Context) {
	h.moderate(c, h.commentService.Flag, "comment flagged")
}

func (h *CommentHandler) moderate(c *gin.Context, action func(uint) error, message string) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := action(id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": message})
}
