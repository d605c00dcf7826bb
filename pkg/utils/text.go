package utils

import (
	"fmt"
	"strings"
)

const (
	// DefaultExcerptLength is the maximum excerpt size in characters,
	// before the ellipsis marker.
	DefaultExcerptLength = 150

	wordsPerMinute = 200
)

// GenerateExcerpt returns content unchanged when it fits within limit,
// otherwise truncates to limit and backs off to the previous word boundary
// so no word is cut in half, appending an ellipsis.
func GenerateExcerpt(content string, limit int) string {
	if limit <= 0 {
		limit = DefaultExcerptLength
	}

	chars := []rune(content)
	if len(chars) <= limit {
		return content
	}

	cut := string(chars[:limit])
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}

	return cut + "..."
}

// EstimateReadTime maps the whitespace-delimited word count of content to a
// human-readable duration label, assuming 200 words per minute and never
// reporting less than one minute.
func EstimateReadTime(content string) string {
	minutes := len(strings.Fields(content)) / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("%d min read", minutes)
}
