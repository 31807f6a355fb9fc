package catalog

import (
	"strconv"
	"strings"

	"github.com/gosimple/slug"
)

// maxBaseLen leaves room for a "-N" suffix below the 255 characters the slug column holds.
const maxBaseLen = 240

// Slugify converts a product title into a URL-safe slug ("ThinkPad X1" -> "thinkpad-x1").
// Titles with no sluggable characters fall back to "product".
func Slugify(title string) string {
	s := slug.Make(strings.TrimSpace(title))
	if len(s) > maxBaseLen {
		s = strings.TrimRight(s[:maxBaseLen], "-")
	}
	if s == "" {
		return "product"
	}
	return s
}

// ValidSlug reports whether s is already in slug form.
func ValidSlug(s string) bool {
	return slug.IsSlug(s)
}

// UniqueSlug returns base when it is free, otherwise the first of base-2, base-3, ...
// that is not in taken.
func UniqueSlug(base string, taken []string) string {
	used := make(map[string]struct{}, len(taken))
	for _, t := range taken {
		used[t] = struct{}{}
	}
	if _, ok := used[base]; !ok {
		return base
	}
	for n := 2; ; n++ {
		candidate := base + "-" + strconv.Itoa(n)
		if _, ok := used[candidate]; !ok {
			return candidate
		}
	}
}
