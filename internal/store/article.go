// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"treepress/internal/models"
)

// articleColumns is the column list shared by every article query so the
// scan order stays in one place.
const articleColumns = `id, title, slug, content, category, status, parent_id,
       meta_description, featured_image, image_alt, author_id,
       published_at, created_at, updated_at`

// ArticleStore handles all article-related database operations.
type ArticleStore struct {
	db *sql.DB
}

// NewArticleStore creates a new ArticleStore with the given database connection.
func NewArticleStore(db *sql.DB) *ArticleStore {
	return &ArticleStore{db: db}
}

func scanArticle(row interface{ Scan(...any) error }) (*models.Article, error) {
	a := &models.Article{}
	err := row.Scan(
		&a.ID, &a.Title, &a.Slug, &a.Content, &a.Category, &a.Status,
		&a.ParentID, &a.MetaDescription, &a.FeaturedImage, &a.ImageAlt,
		&a.AuthorID, &a.PublishedAt, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *ArticleStore) queryArticles(query string, args ...any) ([]models.Article, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		items = append(items, *a)
	}
	return items, rows.Err()
}

// List returns all articles ordered by creation date descending. This is
// the flat record set the hierarchy builders operate on.
func (s *ArticleStore) List() ([]models.Article, error) {
	items, err := s.queryArticles(`
		SELECT ` + articleColumns + `
		FROM articles
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	return items, nil
}

// ListPublished returns all published articles ordered by creation date
// descending. Used by the public site.
func (s *ArticleStore) ListPublished() ([]models.Article, error) {
	items, err := s.queryArticles(`
		SELECT `+articleColumns+`
		FROM articles
		WHERE status = $1
		ORDER BY created_at DESC
	`, models.ArticleStatusPublished)
	if err != nil {
		return nil, fmt.Errorf("list published articles: %w", err)
	}
	return items, nil
}

// ListByCategory returns articles whose category matches exactly. A nil
// category is queried with IS NULL to select uncategorized articles.
func (s *ArticleStore) ListByCategory(category *string) ([]models.Article, error) {
	var (
		items []models.Article
		err   error
	)
	if category == nil {
		items, err = s.queryArticles(`
			SELECT ` + articleColumns + `
			FROM articles
			WHERE category IS NULL
			ORDER BY created_at DESC
		`)
	} else {
		items, err = s.queryArticles(`
			SELECT `+articleColumns+`
			FROM articles
			WHERE category = $1
			ORDER BY created_at DESC
		`, *category)
	}
	if err != nil {
		return nil, fmt.Errorf("list articles by category: %w", err)
	}
	return items, nil
}

// ListByStatus returns articles with the given status, newest first.
func (s *ArticleStore) ListByStatus(status models.ArticleStatus) ([]models.Article, error) {
	items, err := s.queryArticles(`
		SELECT `+articleColumns+`
		FROM articles
		WHERE status = $1
		ORDER BY created_at DESC
	`, status)
	if err != nil {
		return nil, fmt.Errorf("list articles by status: %w", err)
	}
	return items, nil
}

// FindByID retrieves an article by its UUID. Returns nil if not found.
func (s *ArticleStore) FindByID(id uuid.UUID) (*models.Article, error) {
	a, err := scanArticle(s.db.QueryRow(`
		SELECT `+articleColumns+`
		FROM articles WHERE id = $1
	`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find article by id: %w", err)
	}
	return a, nil
}

// FindBySlug retrieves a published article by its slug. Used for public
// page rendering; drafts are never served this way.
func (s *ArticleStore) FindBySlug(slug string) (*models.Article, error) {
	a, err := scanArticle(s.db.QueryRow(`
		SELECT `+articleColumns+`
		FROM articles WHERE slug = $1 AND status = 'published'
	`, slug))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find article by slug: %w", err)
	}
	return a, nil
}

// Create inserts a new article and returns it with the generated ID.
func (s *ArticleStore) Create(a *models.Article) (*models.Article, error) {
	// If publishing, set the published_at timestamp.
	if a.Status == models.ArticleStatusPublished && a.PublishedAt == nil {
		now := time.Now()
		a.PublishedAt = &now
	}

	result, err := scanArticle(s.db.QueryRow(`
		INSERT INTO articles (title, slug, content, category, status, parent_id,
		                      meta_description, featured_image, image_alt,
		                      author_id, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+articleColumns+`
	`, a.Title, a.Slug, a.Content, a.Category, a.Status, a.ParentID,
		a.MetaDescription, a.FeaturedImage, a.ImageAlt, a.AuthorID, a.PublishedAt,
	))
	if err != nil {
		return nil, fmt.Errorf("create article: %w", err)
	}
	return result, nil
}

// Update modifies an existing article. Publishing an article for the
// first time stamps published_at; unpublishing leaves it intact.
func (s *ArticleStore) Update(a *models.Article) (*models.Article, error) {
	if a.Status == models.ArticleStatusPublished && a.PublishedAt == nil {
		now := time.Now()
		a.PublishedAt = &now
	}

	result, err := scanArticle(s.db.QueryRow(`
		UPDATE articles
		SET title = $1, slug = $2, content = $3, category = $4, status = $5,
		    parent_id = $6, meta_description = $7, featured_image = $8,
		    image_alt = $9, published_at = $10, updated_at = NOW()
		WHERE id = $11
		RETURNING `+articleColumns+`
	`, a.Title, a.Slug, a.Content, a.Category, a.Status, a.ParentID,
		a.MetaDescription, a.FeaturedImage, a.ImageAlt, a.PublishedAt, a.ID,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update article: %w", err)
	}
	return result, nil
}

// UpdateStatus changes only the status of an article, stamping
// published_at on first publish.
func (s *ArticleStore) UpdateStatus(id uuid.UUID, status models.ArticleStatus) error {
	_, err := s.db.Exec(`
		UPDATE articles
		SET status = $1,
		    published_at = CASE
		        WHEN $1 = 'published' AND published_at IS NULL THEN NOW()
		        ELSE published_at
		    END,
		    updated_at = NOW()
		WHERE id = $2
	`, status, id)
	if err != nil {
		return fmt.Errorf("update article status: %w", err)
	}
	return nil
}

// Delete removes an article. Children keep their parent_id pointing at
// the deleted row; the tree builders resolve them as roots.
func (s *ArticleStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	return nil
}

// Count returns the total number of articles.
func (s *ArticleStore) Count() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM articles`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count articles: %w", err)
	}
	return count, nil
}

// CountByStatus returns the number of articles with the given status.
func (s *ArticleStore) CountByStatus(status models.ArticleStatus) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM articles WHERE status = $1`, status).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count articles by status: %w", err)
	}
	return count, nil
}
