package service

import (
	"inkwell-backend/internal/models"
	"inkwell-backend/internal/repository"
	"inkwell-backend/pkg/validator"
)

const (
	// MinSearchLength is the minimum term length for live search; shorter
	// terms return an empty result without touching storage.
	MinSearchLength = 3

	DefaultSearchLimit = 20
)

type SearchService struct {
	searchRepo   repository.SearchRepository
	minLength    int
	defaultLimit int
}

type SearchResult struct {
	Posts []models.Post `json:"posts"`
	Total int           `json:"total"`
	Query string        `json:"query"`
}

func NewSearchService(searchRepo repository.SearchRepository, minLength, defaultLimit int) *SearchService {
	if minLength <= 0 {
		minLength = MinSearchLength
	}
	if defaultLimit <= 0 {
		defaultLimit = DefaultSearchLimit
	}
	return &SearchService{
		searchRepo:   searchRepo,
		minLength:    minLength,
		defaultLimit: defaultLimit,
	}
}

// Search matches published posts against the term. Terms shorter than the
// minimum short-circuit to an empty result set.
func (s *SearchService) Search(query string, limit int) (*SearchResult, error) {
	query = validator.NormalizeSpaces(validator.TrimSpaces(query))

	if len([]rune(query)) < s.minLength {
		return &SearchResult{Posts: []models.Post{}, Total: 0, Query: query}, nil
	}

	if limit <= 0 {
		limit = s.defaultLimit
	}

	posts, err := s.searchRepo.SearchPosts(query, limit)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []models.Post{}
	}

	return &SearchResult{
		Posts: posts,
		Total: len(posts),
		Query: query,
	}, nil
}
