package service

import (
	"fmt"

	"inkwell-backend/pkg/utils"
)

// uniqueSlug derives a slug from text and disambiguates it against an
// existing slug space by appending -1, -2, ... until free. The membership
// check runs once per colliding candidate.
func uniqueSlug(text string, exists func(string) (bool, error)) (string, error) {
	base := utils.GenerateSlug(text)
	if base == "" {
		return "", newValidationError("cannot derive a slug from %q", text)
	}

	candidate := base
	for counter := 1; ; counter++ {
		taken, err := exists(candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check slug availability: %w", err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, counter)
	}
}
