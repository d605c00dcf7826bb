package utils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var slugInvalidChars = regexp.MustCompile(`[^a-z0-9]+`)

// GenerateSlug turns free text into a lowercase URL token containing only
// letters, digits and single hyphens. Accented characters are folded to
// their ASCII base before stripping.
func GenerateSlug(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, text)
	if err == nil {
		text = folded
	}

	text = strings.ToLower(text)
	text = slugInvalidChars.ReplaceAllString(text, "-")

	return strings.Trim(text, "-")
}
