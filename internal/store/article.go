// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"newsdesk/internal/models"
	"newsdesk/internal/publish"
)

// ArticleStore handles all article-related database operations. Public
// visibility (published status plus an arrived publish date) is expressed
// directly in the query filters, so scheduled articles surface at read
// time without any background job.
type ArticleStore struct {
	db *sql.DB
}

// NewArticleStore creates a new ArticleStore with the given database connection.
func NewArticleStore(db *sql.DB) *ArticleStore {
	return &ArticleStore{db: db}
}

const articleColumns = `id, title, subtitle, content, author_id, author_name, owner_id,
	published_date, status, category, slug, main_image, mini_image, youtube_link,
	sub_images, is_top_story, is_mini_top_story, is_latest, is_trending, views,
	created_at, updated_at`

// visibleFilter is the read-time visibility predicate. The placeholder is
// bound to today's calendar date as a plain date string, matching the DATE
// column without any timezone cast.
const visibleFilter = `status = 'published' AND published_date <= `

func scanArticle(row interface{ Scan(...any) error }) (*models.Article, error) {
	a := &models.Article{}
	var content, mainImage []byte
	var miniImage, subImages []byte
	err := row.Scan(
		&a.ID, &a.Title, &a.Subtitle, &content, &a.AuthorID, &a.AuthorName, &a.OwnerID,
		&a.PublishedDate, &a.Status, &a.Category, &a.Slug, &mainImage, &miniImage,
		&a.YoutubeLink, &subImages, &a.IsTopStory, &a.IsMiniTopStory, &a.IsLatest,
		&a.IsTrending, &a.Views, &a.CreatedAt, &a.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan article: %w", err)
	}

	if err := json.Unmarshal(content, &a.Content); err != nil {
		return nil, fmt.Errorf("decode article content: %w", err)
	}
	if err := json.Unmarshal(mainImage, &a.MainImage); err != nil {
		return nil, fmt.Errorf("decode main image: %w", err)
	}
	if miniImage != nil {
		a.MiniImage = &models.Image{}
		if err := json.Unmarshal(miniImage, a.MiniImage); err != nil {
			return nil, fmt.Errorf("decode mini image: %w", err)
		}
	}
	if subImages != nil {
		if err := json.Unmarshal(subImages, &a.SubImages); err != nil {
			return nil, fmt.Errorf("decode sub images: %w", err)
		}
	}
	return a, nil
}

// jsonArgs marshals the JSONB-backed article fields for insert/update.
func jsonArgs(a *models.Article) (content, mainImage, miniImage, subImages []byte, err error) {
	if content, err = json.Marshal(a.Content); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("encode article content: %w", err)
	}
	if mainImage, err = json.Marshal(a.MainImage); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("encode main image: %w", err)
	}
	if a.MiniImage != nil {
		if miniImage, err = json.Marshal(a.MiniImage); err != nil {
			return nil, nil, nil, nil, fmt.Errorf("encode mini image: %w", err)
		}
	}
	if a.SubImages != nil {
		if subImages, err = json.Marshal(a.SubImages); err != nil {
			return nil, nil, nil, nil, fmt.Errorf("encode sub images: %w", err)
		}
	}
	return content, mainImage, miniImage, subImages, nil
}

// Create inserts a new article and returns it with the generated ID.
func (s *ArticleStore) Create(ctx context.Context, a *models.Article) (*models.Article, error) {
	content, mainImage, miniImage, subImages, err := jsonArgs(a)
	if err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO articles (title, subtitle, content, author_id, author_name, owner_id,
			published_date, status, category, slug, main_image, mini_image, youtube_link,
			sub_images, is_top_story, is_mini_top_story, is_latest, is_trending)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING `+articleColumns,
		a.Title, a.Subtitle, content, a.AuthorID, a.AuthorName, a.OwnerID,
		a.PublishedDate, a.Status, a.Category, a.Slug, mainImage, miniImage, a.YoutubeLink,
		subImages, a.IsTopStory, a.IsMiniTopStory, a.IsLatest, a.IsTrending,
	)
	created, err := scanArticle(row)
	if err != nil {
		if uniqueViolation(err, "") {
			return nil, ErrDuplicateSlug
		}
		return nil, fmt.Errorf("create article: %w", err)
	}
	return created, nil
}

// FindByID retrieves an article by id regardless of visibility. Returns
// ErrNotFound if it does not exist.
func (s *ArticleStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Article, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+articleColumns+` FROM articles WHERE id = $1`, id)
	return scanArticle(row)
}

// FindVisibleBySlug retrieves a publicly visible article by slug.
// Drafts and future-dated articles return ErrNotFound.
func (s *ArticleStore) FindVisibleBySlug(ctx context.Context, slug string, now time.Time) (*models.Article, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+articleColumns+` FROM articles
		WHERE slug = $1 AND `+visibleFilter+`$2
	`, slug, publish.DateOnly(now))
	return scanArticle(row)
}

// ListVisible returns the full corpus of publicly visible articles,
// newest first. This is the input to the home-page placement resolver.
func (s *ArticleStore) ListVisible(ctx context.Context, now time.Time) ([]models.Article, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+articleColumns+` FROM articles
		WHERE `+visibleFilter+`$1
		ORDER BY created_at DESC
	`, publish.DateOnly(now))
	if err != nil {
		return nil, fmt.Errorf("list visible articles: %w", err)
	}
	return collectArticles(rows)
}

// ListVisibleByCategory returns publicly visible articles of one category
// with skip/limit pagination, newest first.
func (s *ArticleStore) ListVisibleByCategory(ctx context.Context, category models.Category, now time.Time, limit, offset int) ([]models.Article, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+articleColumns+` FROM articles
		WHERE category = $1 AND `+visibleFilter+`$2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`, category, publish.DateOnly(now), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list visible articles by category: %w", err)
	}
	return collectArticles(rows)
}

// List returns all articles for the back-office, newest first, with
// skip/limit pagination.
func (s *ArticleStore) List(ctx context.Context, limit, offset int) ([]models.Article, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+articleColumns+` FROM articles
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	return collectArticles(rows)
}

func collectArticles(rows *sql.Rows) ([]models.Article, error) {
	defer rows.Close()
	var articles []models.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, *a)
	}
	return articles, rows.Err()
}

// Update rewrites an article's mutable fields. Placement flags are not
// touched here: they are routed exclusively through SetPlacementFlag so
// the exclusivity rule cannot be bypassed by the generic update path.
func (s *ArticleStore) Update(ctx context.Context, a *models.Article) (*models.Article, error) {
	content, mainImage, miniImage, subImages, err := jsonArgs(a)
	if err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		UPDATE articles SET
			title = $1, subtitle = $2, content = $3, author_id = $4, author_name = $5,
			published_date = $6, status = $7, category = $8, slug = $9,
			main_image = $10, mini_image = $11, youtube_link = $12, sub_images = $13,
			updated_at = NOW()
		WHERE id = $14
		RETURNING `+articleColumns,
		a.Title, a.Subtitle, content, a.AuthorID, a.AuthorName,
		a.PublishedDate, a.Status, a.Category, a.Slug,
		mainImage, miniImage, a.YoutubeLink, subImages, a.ID,
	)
	updated, err := scanArticle(row)
	if err != nil {
		if uniqueViolation(err, "") {
			return nil, ErrDuplicateSlug
		}
		return nil, err
	}
	return updated, nil
}

// SetPlacementFlag mutates one placement flag atomically. Setting a flag
// true forces the other three false in the same statement; setting it
// false clears only the named flag. This is the only sanctioned write
// path for the four flags.
func (s *ArticleStore) SetPlacementFlag(ctx context.Context, id uuid.UUID, flag models.PlacementFlag, value bool) (*models.Article, error) {
	if !flag.Valid() {
		return nil, fmt.Errorf("unknown placement flag %q", flag)
	}

	// Column names come from the validated flag enum, never from input.
	var sets []string
	if value {
		for _, f := range models.PlacementFlags {
			if f == flag {
				sets = append(sets, string(f)+" = TRUE")
			} else {
				sets = append(sets, string(f)+" = FALSE")
			}
		}
	} else {
		sets = append(sets, string(flag)+" = FALSE")
	}

	row := s.db.QueryRowContext(ctx, `
		UPDATE articles SET `+strings.Join(sets, ", ")+`, updated_at = NOW()
		WHERE id = $1
		RETURNING `+articleColumns, id)
	return scanArticle(row)
}

// IncrementViews bumps the view counter by one with an atomic in-database
// increment, never a read-modify-write, so parallel requests all count.
func (s *ArticleStore) IncrementViews(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `UPDATE articles SET views = views + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	return nil
}

// IncrementViewsBySlug bumps the view counter of the article with the
// given slug. Used by the public read path, where only the slug is known.
func (s *ArticleStore) IncrementViewsBySlug(ctx context.Context, slug string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE articles SET views = views + 1 WHERE slug = $1`, slug)
	if err != nil {
		return fmt.Errorf("increment views by slug: %w", err)
	}
	return nil
}

// UpdateAuthorNameByName bulk-rewrites the denormalized author name on
// every article carrying the exact old name. A raw field update: no
// per-article hooks run and updated_at is left alone.
func (s *ArticleStore) UpdateAuthorNameByName(ctx context.Context, oldName, newName string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE articles SET author_name = $2 WHERE author_name = $1
	`, oldName, newName)
	if err != nil {
		return 0, fmt.Errorf("update author name by name: %w", err)
	}
	return res.RowsAffected()
}

// UpdateAuthorNameByAuthorID bulk-rewrites the denormalized author name
// on every article referencing the author but carrying a different name.
func (s *ArticleStore) UpdateAuthorNameByAuthorID(ctx context.Context, authorID uuid.UUID, newName string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE articles SET author_name = $2 WHERE author_id = $1 AND author_name <> $2
	`, authorID, newName)
	if err != nil {
		return 0, fmt.Errorf("update author name by author id: %w", err)
	}
	return res.RowsAffected()
}

// CountByAuthorID counts articles referencing an author.
func (s *ArticleStore) CountByAuthorID(ctx context.Context, authorID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM articles WHERE author_id = $1`, authorID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count articles by author: %w", err)
	}
	return count, nil
}

// SlugExists reports whether a slug is already taken.
func (s *ArticleStore) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM articles WHERE slug = $1)`, slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("slug exists: %w", err)
	}
	return exists, nil
}

// SlugExistsExcept reports whether a slug is taken by any article other
// than the one being edited. A title edit that regenerates the article's
// current slug must not count as a collision with itself.
func (s *ArticleStore) SlugExistsExcept(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM articles WHERE slug = $1 AND id <> $2)`, slug, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("slug exists except: %w", err)
	}
	return exists, nil
}

// Delete removes an article by id. Disposal of its externally stored
// images is the caller's responsibility (best-effort, after the row is
// gone).
func (s *ArticleStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
