// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"newsdesk/internal/models"
)

// AuthorStore handles all author-related database operations. It is the
// authoritative source of an author's display name.
type AuthorStore struct {
	db *sql.DB
}

// NewAuthorStore creates a new AuthorStore with the given database connection.
func NewAuthorStore(db *sql.DB) *AuthorStore {
	return &AuthorStore{db: db}
}

const authorColumns = `id, name, email, bio, avatar_url, credential_hash, created_at, updated_at`

func scanAuthor(row interface{ Scan(...any) error }) (*models.Author, error) {
	a := &models.Author{}
	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.Bio, &a.AvatarURL, &a.CredentialHash, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan author: %w", err)
	}
	return a, nil
}

// Create inserts a new author and returns it with the generated ID.
// Email is stored normalized (lowercased, trimmed) and must be unique.
func (s *AuthorStore) Create(ctx context.Context, a *models.Author) (*models.Author, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO authors (name, email, bio, avatar_url, credential_hash)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+authorColumns,
		a.Name, models.NormalizeEmail(a.Email), a.Bio, a.AvatarURL, a.CredentialHash,
	)
	created, err := scanAuthor(row)
	if err != nil {
		if uniqueViolation(err, "") {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create author: %w", err)
	}
	return created, nil
}

// FindByID retrieves an author by id. Returns (nil, nil) if not found,
// so callers handling dangling article references can fall back cleanly.
func (s *AuthorStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Author, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+authorColumns+` FROM authors WHERE id = $1`, id)
	return scanAuthor(row)
}

// FindByEmail retrieves an author by normalized email. Returns (nil, nil)
// if not found.
func (s *AuthorStore) FindByEmail(ctx context.Context, email string) (*models.Author, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+authorColumns+` FROM authors WHERE email = $1`, models.NormalizeEmail(email))
	return scanAuthor(row)
}

// List returns all authors ordered by name.
func (s *AuthorStore) List(ctx context.Context) ([]models.Author, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+authorColumns+` FROM authors ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}
	defer rows.Close()

	var authors []models.Author
	for rows.Next() {
		a, err := scanAuthor(rows)
		if err != nil {
			return nil, err
		}
		authors = append(authors, *a)
	}
	return authors, rows.Err()
}

// Update modifies an author's profile fields. Returns ErrNotFound if the
// author does not exist and ErrDuplicateEmail on an email conflict.
func (s *AuthorStore) Update(ctx context.Context, a *models.Author) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE authors SET
			name = $1, email = $2, bio = $3, avatar_url = $4, updated_at = NOW()
		WHERE id = $5
	`, a.Name, models.NormalizeEmail(a.Email), a.Bio, a.AvatarURL, a.ID)
	if err != nil {
		if uniqueViolation(err, "") {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("update author: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetCredential stores a new credential hash for a login-capable author.
func (s *AuthorStore) SetCredential(ctx context.Context, id uuid.UUID, hash string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE authors SET credential_hash = $1, updated_at = NOW() WHERE id = $2
	`, hash, id)
	if err != nil {
		return fmt.Errorf("set author credential: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an author. The author's articles are untouched: they
// keep their last-synced author name and their weak author reference.
func (s *AuthorStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM authors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete author: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
