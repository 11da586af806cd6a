// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// ArticleStatus represents the publishing state of an article.
type ArticleStatus string

const (
	ArticleStatusDraft     ArticleStatus = "draft"
	ArticleStatusPublished ArticleStatus = "published"
)

// UncategorizedLabel is the category label substituted for articles that
// have no category assigned. It is applied when grouping, never persisted.
const UncategorizedLabel = "Uncategorized"

// Article is the primary content unit. Articles form a hierarchy through
// ParentID; the nested structure is derived at read time and never stored.
// ParentID is intentionally unconstrained at the database level: deleting a
// parent leaves children pointing at a missing row, and the hierarchy
// builder reclassifies them as roots.
type Article struct {
	ID              uuid.UUID     `json:"id"`
	Title           string        `json:"title"`
	Slug            string        `json:"slug"`
	Content         string        `json:"content"`
	Category        *string       `json:"category,omitempty"`
	Status          ArticleStatus `json:"status"`
	ParentID        *uuid.UUID    `json:"parent_id,omitempty"`
	MetaDescription *string       `json:"meta_description,omitempty"`
	FeaturedImage   *string       `json:"featured_image,omitempty"`
	ImageAlt        *string       `json:"image_alt,omitempty"`
	AuthorID        uuid.UUID     `json:"author_id"`
	PublishedAt     *time.Time    `json:"published_at,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// IsPublished returns true if the article is in published status.
func (a *Article) IsPublished() bool {
	return a.Status == ArticleStatusPublished
}

// CategoryLabel returns the article's category, or UncategorizedLabel when
// none is set.
func (a *Article) CategoryLabel() string {
	if a.Category == nil || *a.Category == "" {
		return UncategorizedLabel
	}
	return *a.Category
}
