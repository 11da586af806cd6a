// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package hierarchy

import (
	"strings"

	"treepress/internal/models"
)

// DefaultPageSize is the table view page size when none is configured.
const DefaultPageSize = 10

// FilterAll is the filter value that matches every category or status.
const FilterAll = "all"

// TableFilter holds the active filters of the admin table view. Zero values
// and FilterAll mean "no constraint".
type TableFilter struct {
	Query    string // case-insensitive substring on title or content
	Category string // exact category label, or "all"
	Status   string // "draft", "published", or "all"
}

// Match reports whether an article passes all active filters.
func (f TableFilter) Match(a *models.Article) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		title := strings.ToLower(a.Title)
		content := strings.ToLower(a.Content)
		if !strings.Contains(title, q) && !strings.Contains(content, q) {
			return false
		}
	}
	if f.Category != "" && f.Category != FilterAll && f.Category != a.CategoryLabel() {
		return false
	}
	if f.Status != "" && f.Status != FilterAll && f.Status != string(a.Status) {
		return false
	}
	return true
}

// ApplyFilter returns the subsequence of records matching the filter,
// preserving order.
func ApplyFilter(records []models.Article, f TableFilter) []models.Article {
	matched := []models.Article{}
	for i := range records {
		if f.Match(&records[i]) {
			matched = append(matched, records[i])
		}
	}
	return matched
}

// Page is one page of the filtered table view.
type Page struct {
	Items      []models.Article
	Number     int // 1-based current page; 1 even when there are no pages
	Size       int
	TotalItems int
	TotalPages int
}

// HasPrev reports whether an earlier page exists.
func (p Page) HasPrev() bool { return p.Number > 1 }

// HasNext reports whether a later page exists.
func (p Page) HasNext() bool { return p.Number < p.TotalPages }

// Paginate slices items into a page. The requested page number is clamped
// into range, so a filter change that shrinks the result set can never
// leave the view pointing past the end. Zero matches yield zero pages and
// an empty item list.
func Paginate(items []models.Article, number, size int) Page {
	if size < 1 {
		size = DefaultPageSize
	}

	total := len(items)
	totalPages := (total + size - 1) / size

	if number < 1 {
		number = 1
	}
	if totalPages > 0 && number > totalPages {
		number = totalPages
	}

	start := (number - 1) * size
	end := start + size
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Page{
		Items:      items[start:end],
		Number:     number,
		Size:       size,
		TotalItems: total,
		TotalPages: totalPages,
	}
}
