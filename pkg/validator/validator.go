package validator

import (
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

var (
	validate      = validator.New()
	ugcSanitizer  = bluemonday.UGCPolicy()
	textSanitizer = bluemonday.StrictPolicy()
)

func Init() {
	registerCustomValidations(validate)

	if engine, ok := binding.Validator.Engine().(*validator.Validate); ok {
		registerCustomValidations(engine)
	}
}

func registerCustomValidations(v *validator.Validate) {
	v.RegisterValidation("username", validateUsername)
	v.RegisterValidation("slug", validateSlug)
	v.RegisterValidation("hexcolor_or_empty", validateHexColorOrEmpty)
}

// SanitizeHTML strips unsafe markup from user generated content while
// keeping basic formatting tags.
func SanitizeHTML(html string) string {
	return ugcSanitizer.Sanitize(html)
}

// SanitizeString strips all markup.
func SanitizeString(s string) string {
	return textSanitizer.Sanitize(s)
}

func validateUsername(fl validator.FieldLevel) bool {
	username := fl.Field().String()
	matched, _ := regexp.MatchString(`^[a-zA-Z0-9_]+$`, username)
	return matched && len(username) >= 3 && len(username) <= 80
}

func validateSlug(fl validator.FieldLevel) bool {
	matched, _ := regexp.MatchString(`^[a-z0-9-]+$`, fl.Field().String())
	return matched
}

func validateHexColorOrEmpty(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	matched, _ := regexp.MatchString(`^#[0-9a-fA-F]{6}$`, value)
	return matched
}

func TrimSpaces(s string) string {
	return strings.TrimSpace(s)
}

var spaceRuns = regexp.MustCompile(`\s+`)

func NormalizeSpaces(s string) string {
	return spaceRuns.ReplaceAllString(s, " ")
}
