package handlers

import (
	"strings"
	"unicode/utf8"
)

// Validation limits for article form fields.
const (
	maxTitleLen    = 300
	maxSlugLen     = 300
	maxContentLen  = 100_000
	maxCategoryLen = 100
	maxMetaDescLen = 500
)

// validateArticle checks article form inputs and returns the first error found.
func validateArticle(title, slugValue, content string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return "Title is required."
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "Title is too long (max 300 characters)."
	}
	if utf8.RuneCountInString(slugValue) > maxSlugLen {
		return "Slug is too long (max 300 characters)."
	}
	if utf8.RuneCountInString(content) > maxContentLen {
		return "Content is too long (max 100,000 characters)."
	}
	return ""
}

// validateArticleMeta checks optional category and SEO metadata fields.
func validateArticleMeta(category, metaDesc string) string {
	if utf8.RuneCountInString(category) > maxCategoryLen {
		return "Category name is too long (max 100 characters)."
	}
	if utf8.RuneCountInString(metaDesc) > maxMetaDescLen {
		return "Meta description is too long (max 500 characters)."
	}
	return ""
}

// validateUser checks the new-user form inputs.
func validateUser(displayName, email, password string) string {
	if strings.TrimSpace(displayName) == "" {
		return "Display name is required."
	}
	if strings.TrimSpace(email) == "" || !strings.Contains(email, "@") {
		return "A valid email address is required."
	}
	if utf8.RuneCountInString(password) < 8 {
		return "Password must be at least 8 characters."
	}
	return ""
}
