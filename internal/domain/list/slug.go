package list

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// upper bound for the -1, -2, ... suffix scan; collisions beyond this
// point indicate something is wrong with the slug table
const maxSlugAttempts = 10000

// Slugify lowercases the title and collapses every run of non-alphanumeric
// characters into a single hyphen.
func Slugify(title string) string {
	var b strings.Builder
	lastDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		case !lastDash && b.Len() > 0:
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// generateUniqueSlug derives a slug from the title and, if taken, appends
// the first free numeric suffix starting at 1.
func (s *Service) generateUniqueSlug(ctx context.Context, title string) (string, error) {
	base := Slugify(title)
	if base == "" {
		base = "list"
	}

	slug := base
	for i := 1; i <= maxSlugAttempts; i++ {
		taken, err := s.repo.SlugExists(ctx, slug)
		if err != nil {
			return "", err
		}
		if !taken {
			return slug, nil
		}
		slug = base + "-" + strconv.Itoa(i)
	}
	return "", fmt.Errorf("no free slug for %q after %d attempts", base, maxSlugAttempts)
}
