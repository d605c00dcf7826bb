package service

import (
	"testing"

	"inkwell-backend/internal/models"
)

func newTestCommentService(t *testing.T) (*CommentService, *fakePostRepo, *fakeCommentRepo) {
	t.Helper()

	postRepo := newFakePostRepo()
	commentRepo := newFakeCommentRepo()

	if err := postRepo.Create(&models.Post{
		Title:         "Host Post",
		Slug:          "host-post",
		Content:       "body",
		Published:     true,
		AllowComments: true,
		AuthorID:      1,
		CategoryID:    1,
	}); err != nil {
		t.Fatalf("seed post: %v", err)
	}

	return NewCommentService(commentRepo, postRepo), postRepo, commentRepo
}

func TestCommentCreate(t *testing.T) {
	svc, _, _ := newTestCommentService(t)

	comment, err := svc.Create(1, 2, models.CreateCommentRequest{Content: "nice post"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if comment.PostID != 1 || comment.AuthorID != 2 {
		t.Errorf("comment = %+v", comment)
	}
	if !comment.Approved {
		t.Error("comments should default to approved")
	}
}

func TestCommentCreateOnMissingPost(t *testing.T) {
	svc, _, _ := newTestCommentService(t)

	_, err := svc.Create(99, 2, models.CreateCommentRequest{Content: "hello"})
	if !IsNotFound(err) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestCommentCreateWhenCommentsDisabled(t *testing.T) {
	svc, postRepo, _ := newTestCommentService(t)

	post, _ := postRepo.FindByID(1)
	post.AllowComments = false
	postRepo.Update(post)

	_, err := svc.Create(1, 2, models.CreateCommentRequest{Content: "hello"})
	if !IsValidationError(err) {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestCommentReplyParentMustMatchPost(t *testing.T) {
	svc, postRepo, _ := newTestCommentService(t)

	if err := postRepo.Create(&models.Post{
		Title: "Other Post", Slug: "other-post", Content: "body",
		Published: true, AllowComments: true, AuthorID: 1, CategoryID: 1,
	}); err != nil {
		t.Fatalf("seed second post: %v", err)
	}

	parent, err := svc.Create(1, 2, models.CreateCommentRequest{Content: "parent"})
	if err != nil {
		t.Fatalf("Create parent: %v", err)
	}

	// Reply on the right post works.
	if _, err := svc.Create(1, 3, models.CreateCommentRequest{
		Content: "reply", ParentID: &parent.ID,
	}); err != nil {
		t.Fatalf("Create reply: %v", err)
	}

	// Reply on a different post must be rejected.
	if _, err := svc.Create(2, 3, models.CreateCommentRequest{
		Content: "cross-post reply", ParentID: &parent.ID,
	}); !IsValidationError(err) {
		t.Fatalf("cross-post reply err = %v, want validation error", err)
	}
}

func TestCommentUpdateOwnership(t *testing.T) {
	svc, _, _ := newTestCommentService(t)

	comment, err := svc.Create(1, 2, models.CreateCommentRequest{Content: "original"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.Update(comment.ID, 3, false, models.UpdateCommentRequest{Content: "edited"}); err != ErrUnauthorized {
		t.Fatalf("non-author edit err = %v, want ErrUnauthorized", err)
	}

	updated, err := svc.Update(comment.ID, 2, false, models.UpdateCommentRequest{Content: "edited"})
	if err != nil {
		t.Fatalf("author edit: %v", err)
	}
	if updated.Content != "edited" {
		t.Errorf("content = %q", updated.Content)
	}

	// Moderators can edit regardless of authorship.
	if _, err := svc.Update(comment.ID, 3, true, models.UpdateCommentRequest{Content: "moderated"}); err != nil {
		t.Fatalf("moderator edit: %v", err)
	}
}

func TestCommentModerationFlow(t *testing.T) {
	svc, _, commentRepo := newTestCommentService(t)

	comment, err := svc.Create(1, 2, models.CreateCommentRequest{Content: "pending review"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Reject(comment.ID); err != nil {
		t.Fatalf("Reject: %v", err)
	}

	visible, err := svc.ListByPost(1)
	if err != nil {
		t.Fatalf("ListByPost: %v", err)
	}
	if len(visible) != 0 {
		t.Fatalf("rejected comment still listed: %d", len(visible))
	}

	if err := svc.Flag(comment.ID); err != nil {
		t.Fatalf("Flag: %v", err)
	}
	flagged, _ := commentRepo.FindByID(comment.ID)
	if !flagged.Flagged {
		t.Error("comment not flagged")
	}

	if err := svc.Approve(comment.ID); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	approved, _ := commentRepo.FindByID(comment.ID)
	if !approved.Approved || approved.Flagged {
		t.Errorf("approve should clear the flag: %+v", approved)
	}

	count, err := svc.CountApproved(1)
	if err != nil {
		t.Fatalf("CountApproved: %v", err)
	}
	if count != 1 {
		t.Errorf("approved count = %d, want 1", count)
	}
}

func TestCommentDeleteRemovesReplies(t *testing.T) {
	svc, _, commentRepo := newTestCommentService(t)

	parent, err := svc.Create(1, 2, models.CreateCommentRequest{Content: "parent"})
	if err != nil {
		t.Fatalf("Create parent: %v", err)
	}
	reply, err := svc.Create(1, 3, models.CreateCommentRequest{Content: "reply", ParentID: &parent.ID})
	if err != nil {
		t.Fatalf("Create reply: %v", err)
	}

	if err := svc.Delete(parent.ID, 2, false); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := commentRepo.FindByID(reply.ID); err == nil {
		t.Error("reply survived parent deletion")
	}
}
