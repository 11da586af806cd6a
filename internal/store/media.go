// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"treepress/internal/models"
)

const mediaColumns = `id, filename, original_name, content_type, size_bytes,
	s3_key, alt_text, uploader_id, created_at`

// MediaStore handles media metadata. The files themselves live in S3;
// this table only tracks keys and upload bookkeeping.
type MediaStore struct {
	db *sql.DB
}

// NewMediaStore creates a new MediaStore with the given database connection.
func NewMediaStore(db *sql.DB) *MediaStore {
	return &MediaStore{db: db}
}

func scanMedia(row interface{ Scan(...any) error }) (*models.Media, error) {
	m := &models.Media{}
	err := row.Scan(
		&m.ID, &m.Filename, &m.OriginalName, &m.ContentType, &m.SizeBytes,
		&m.S3Key, &m.AltText, &m.UploaderID, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// List returns media items, newest first.
func (s *MediaStore) List(limit, offset int) ([]models.Media, error) {
	rows, err := s.db.Query(`
		SELECT `+mediaColumns+` FROM media ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list media: %w", err)
	}
	defer rows.Close()

	var items []models.Media
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, fmt.Errorf("scan media: %w", err)
		}
		items = append(items, *m)
	}
	return items, rows.Err()
}

// FindByID retrieves a media item by its UUID. Returns nil if not found.
func (s *MediaStore) FindByID(id uuid.UUID) (*models.Media, error) {
	m, err := scanMedia(s.db.QueryRow(`
		SELECT `+mediaColumns+` FROM media WHERE id = $1
	`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find media by id: %w", err)
	}
	return m, nil
}

// Create records an uploaded file's metadata.
func (s *MediaStore) Create(m *models.Media) (*models.Media, error) {
	result, err := scanMedia(s.db.QueryRow(`
		INSERT INTO media (filename, original_name, content_type, size_bytes,
			s3_key, alt_text, uploader_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+mediaColumns+`
	`, m.Filename, m.OriginalName, m.ContentType, m.SizeBytes,
		m.S3Key, m.AltText, m.UploaderID))
	if err != nil {
		return nil, fmt.Errorf("create media: %w", err)
	}
	return result, nil
}

// UpdateAltText sets or clears the alt text on a media item.
func (s *MediaStore) UpdateAltText(id uuid.UUID, altText *string) error {
	_, err := s.db.Exec(`UPDATE media SET alt_text = $1 WHERE id = $2`, altText, id)
	if err != nil {
		return fmt.Errorf("update media alt text: %w", err)
	}
	return nil
}

// Delete removes a media record. The caller is responsible for deleting
// the S3 object first.
func (s *MediaStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM media WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete media: %w", err)
	}
	return nil
}
