package utils

import (
	"strings"

	"github.com/gosimple/slug"
	"github.com/gosimple/unidecode"
)

// Slugify turns a display name into a URL-safe slug.
func Slugify(name string) string {
	return slug.Make(strings.TrimSpace(name))
}

// Fold lowercases s and strips accents so "Jösé" matches "jose".
func Fold(s string) string {
	return strings.ToLower(unidecode.Unidecode(strings.TrimSpace(s)))
}
