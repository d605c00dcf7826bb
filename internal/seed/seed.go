package seed

import (
	"inkwell-backend/internal/models"
	"inkwell-backend/internal/service"
	"inkwell-backend/pkg/logger"
)

const (
	defaultCategoryName = "General"
	defaultCategorySlug = "general"
)

// EnsureDefaultCategory creates the fallback category on first boot so posts
// always have a home.
func EnsureDefaultCategory(categoryService *service.CategoryService) {
	if categoryService == nil {
		return
	}

	if category, err := categoryService.GetBySlug(defaultCategorySlug); err == nil {
		logger.Debug("Default category already present", map[string]interface{}{
			"id":   category.ID,
			"slug": category.Slug,
		})
		return
	} else if !service.IsNotFound(err) {
		logger.Error(err, "Failed to look up default category", nil)
		return
	}

	category, err := categoryService.Create(models.CreateCategoryRequest{
		Name:        defaultCategoryName,
		Description: "Posts that have not been filed anywhere else",
	})
	if err != nil {
		if service.IsConflict(err) {
			return
		}
		logger.Error(err, "Failed to create default category", nil)
		return
	}

	logger.Info("Created default category", map[string]interface{}{
		"id":   category.ID,
		"name": category.Name,
		"slug": category.Slug,
	})
}

// SeedDemoData loads a small set of demo content for local development. It
// does nothing when any post already exists.
func SeedDemoData(
	authService *service.AuthService,
	categoryService *service.CategoryService,
	postService *service.PostService,
	commentService *service.CommentService,
) {
	existing, err := postService.ListAdmin(1, 1)
	if err != nil {
		logger.Error(err, "Failed to check for existing posts", nil)
		return
	}
	if existing.Total > 0 {
		return
	}

	author, err := authService.Register(models.RegisterRequest{
		Username: "demo_author",
		Email:    "demo@example.com",
		Password: "demo-password-1",
	})
	if err != nil {
		logger.Error(err, "Failed to create demo author", nil)
		return
	}

	category, err := categoryService.Create(models.CreateCategoryRequest{
		Name:        "Engineering",
		Description: "Notes from the workshop",
		Color:       "#0d6efd",
	})
	if err != nil && !service.IsConflict(err) {
		logger.Error(err, "Failed to create demo category", nil)
		return
	}
	if category == nil {
		fetched, err := categoryService.GetBySlug("engineering")
		if err != nil {
			logger.Error(err, "Failed to load demo category", nil)
			return
		}
		category = fetched
	}

	posts := []models.CreatePostRequest{
		{
			Title:      "Getting Started with Modern Frontend Development",
			Content:    demoFrontendPost,
			CategoryID: category.ID,
			TagNames:   []string{"frontend", "tooling"},
		},
		{
			Title:      "A Field Guide to Database Indexing",
			Content:    demoIndexingPost,
			CategoryID: category.ID,
			TagNames:   []string{"databases", "performance"},
		},
	}

	for _, req := range posts {
		post, err := postService.Create(req, author.ID)
		if err != nil {
			logger.Error(err, "Failed to create demo post", map[string]interface{}{
				"title": req.Title,
			})
			continue
		}

		if _, err := commentService.Create(post.ID, author.ID, models.CreateCommentRequest{
			Content: "Looking forward to the follow-up on this one.",
		}); err != nil {
			logger.Error(err, "Failed to create demo comment", map[string]interface{}{
				"post_id": post.ID,
			})
		}
	}

	logger.Info("Seeded demo data", map[string]interface{}{
		"author": author.Username,
		"posts":  len(posts),
	})
}

const demoFrontendPost = `The modern frontend toolchain can feel like a moving target. ` +
	`Bundlers, transpilers, linters and formatters all ship weekly releases, and every ` +
	`project template seems to disagree about which ones you need. The good news is that ` +
	`the core workflow has stabilized: pick a bundler with a dev server, wire formatting ` +
	`into your editor, and let continuous integration run the slow checks. Start small, ` +
	`add tools only when a concrete problem appears, and revisit your configuration a ` +
	`couple of times a year rather than chasing every release.`

const demoIndexingPost = `An index is a trade: faster reads for slower writes and more ` +
	`storage. That framing answers most indexing questions before they are asked. Index ` +
	`the columns your queries filter and join on, check the query planner's output rather ` +
	`than guessing, and drop indexes that no query uses. Composite indexes work left to ` +
	`right, so order their columns by selectivity of your actual predicates. And remember ` +
	`that the fastest query is the one the application never issues.`
