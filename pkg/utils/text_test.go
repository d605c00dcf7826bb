package utils

import (
	"strings"
	"testing"
)

func TestGenerateExcerptShortContent(t *testing.T) {
	content := "A short post body."
	if got := GenerateExcerpt(content, 150); got != content {
		t.Errorf("short content must pass through unchanged, got %q", got)
	}
}

func TestGenerateExcerptExactLimit(t *testing.T) {
	content := strings.Repeat("a", 150)
	if got := GenerateExcerpt(content, 150); got != content {
		t.Errorf("content at the limit must pass through unchanged")
	}
}

func TestGenerateExcerptTruncatesOnWordBoundary(t *testing.T) {
	content := strings.Repeat("sentence with several words in it ", 20)
	got := GenerateExcerpt(content, 150)

	if !strings.HasSuffix(got, "...") {
		t.Fatalf("truncated excerpt must end with ellipsis: %q", got)
	}
	if n := len([]rune(got)); n > 153 {
		t.Errorf("excerpt length = %d, want <= 153", n)
	}

	body := strings.TrimSuffix(got, "...")
	if strings.HasSuffix(body, " ") {
		t.Errorf("excerpt body ends in whitespace: %q", body)
	}
	// Backing off to the word boundary means the body is a clean prefix.
	if !strings.HasPrefix(content, body+" ") && !strings.HasPrefix(content, body) {
		t.Errorf("excerpt %q is not a word-aligned prefix of the content", body)
	}
}

func TestGenerateExcerptNoSpaces(t *testing.T) {
	content := strings.Repeat("x", 300)
	got := GenerateExcerpt(content, 150)
	if got != strings.Repeat("x", 150)+"..." {
		t.Errorf("unbroken content should hard-cut at the limit, got length %d", len(got))
	}
}

func TestGenerateExcerptZeroLimitUsesDefault(t *testing.T) {
	content := strings.Repeat("word ", 100)
	got := GenerateExcerpt(content, 0)
	if n := len([]rune(got)); n > DefaultExcerptLength+3 {
		t.Errorf("excerpt length = %d, want <= %d", n, DefaultExcerptLength+3)
	}
}

func TestEstimateReadTime(t *testing.T) {
	tests := []struct {
		name  string
		words int
		want  string
	}{
		{"empty content", 0, "1 min read"},
		{"single word", 1, "1 min read"},
		{"just under a minute", 199, "1 min read"},
		{"exactly one minute", 200, "1 min read"},
		{"two minutes", 400, "2 min read"},
		{"five minutes", 1000, "5 min read"},
		{"rounds down", 1100, "5 min read"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := strings.TrimSpace(strings.Repeat("word ", tt.words))
			if got := EstimateReadTime(content); got != tt.want {
				t.Errorf("EstimateReadTime(%d words) = %q, want %q", tt.words, got, tt.want)
			}
		})
	}
}

func TestEstimateReadTimeIgnoresExtraWhitespace(t *testing.T) {
	content := "one\n\ntwo\tthree   four"
	if got := EstimateReadTime(content); got != "1 min read" {
		t.Errorf("got %q", got)
	}
}
