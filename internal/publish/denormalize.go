// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// denormalize.go keeps the denormalized author_name display cache on
// articles consistent with the author store as authors are renamed or
// deleted. Propagation is a raw bulk update, not a per-article re-save,
// so it never triggers per-article mutation hooks.
package publish

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"newsdesk/internal/models"
)

// ArticleSyncStore is the slice of the article store the denormalization
// resolver needs: bulk author-name updates and reference counting.
type ArticleSyncStore interface {
	UpdateAuthorNameByName(ctx context.Context, oldName, newName string) (int64, error)
	UpdateAuthorNameByAuthorID(ctx context.Context, authorID uuid.UUID, newName string) (int64, error)
	CountByAuthorID(ctx context.Context, authorID uuid.UUID) (int64, error)
}

// AuthorLookup resolves an author by id. A nil author with a nil error
// means the author no longer exists.
type AuthorLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Author, error)
}

// Denormalizer propagates author display-name changes into the articles
// that reference them.
type Denormalizer struct {
	articles ArticleSyncStore
	authors  AuthorLookup
	cache    ResponseCache
}

// NewDenormalizer creates a Denormalizer. cache may be nil, in which case
// no response-cache invalidation happens after propagation.
func NewDenormalizer(articles ArticleSyncStore, authors AuthorLookup, cache ResponseCache) *Denormalizer {
	return &Denormalizer{articles: articles, authors: authors, cache: cache}
}

// PropagateNameChange pushes an author's new display name into every
// article that carries the old one. Two passes run as bulk field updates:
// the first matches articles by the exact old name, the second catches
// drifted articles that reference the author by id but carry a different
// name. The returned count is the sum of both passes and may double-count
// an article matched by both predicates. It is reported as a metric, not
// used for correctness.
//
// The bulk updates are not in a transaction with the author save that
// triggered them. A crash between the two leaves stale names until the
// next rename; author_name is a display cache, so this is accepted.
func (d *Denormalizer) PropagateNameChange(ctx context.Context, authorID uuid.UUID, oldName, newName string) (int64, error) {
	byName, err := d.articles.UpdateAuthorNameByName(ctx, oldName, newName)
	if err != nil {
		return 0, fmt.Errorf("propagate name by old name: %w", err)
	}

	byRef, err := d.articles.UpdateAuthorNameByAuthorID(ctx, authorID, newName)
	if err != nil {
		return byName, fmt.Errorf("propagate name by author ref: %w", err)
	}

	total := byName + byRef
	slog.Info("author name propagated",
		"author_id", authorID,
		"old_name", oldName,
		"new_name", newName,
		"articles_updated", total,
	)

	d.clearListCaches(ctx)
	return total, nil
}

// HandleAuthorDeletion reports how many articles still reference a
// deleted author. Deletion never deletes, hides, or blocks editing of the
// author's articles: each keeps its last-synced author_name permanently.
// The count is informational, used to message the operator.
func (d *Denormalizer) HandleAuthorDeletion(ctx context.Context, authorID uuid.UUID) (int64, error) {
	count, err := d.articles.CountByAuthorID(ctx, authorID)
	if err != nil {
		return 0, fmt.Errorf("count articles for deleted author: %w", err)
	}

	slog.Info("author deleted, article names frozen",
		"author_id", authorID,
		"articles_affected", count,
	)

	d.clearListCaches(ctx)
	return count, nil
}

// BackfillAuthorName fills an empty author_name from the referenced
// author's current name before an article is saved. If the author no
// longer exists the name is left as-is; the save must never fail on a
// dangling reference.
func (d *Denormalizer) BackfillAuthorName(ctx context.Context, a *models.Article) {
	if a.AuthorName != "" || a.AuthorID == nil {
		return
	}

	author, err := d.authors.FindByID(ctx, *a.AuthorID)
	if err != nil {
		slog.Warn("author name backfill lookup failed", "author_id", a.AuthorID, "error", err)
		return
	}
	if author == nil {
		slog.Debug("author name backfill skipped, author gone", "author_id", a.AuthorID)
		return
	}
	a.AuthorName = author.Name
}

// clearListCaches drops cached article and author list queries after a
// propagation pass. Best-effort.
func (d *Denormalizer) clearListCaches(ctx context.Context) {
	if d.cache == nil {
		return
	}
	for _, prefix := range MutationCachePrefixes {
		if err := d.cache.ClearByPrefix(ctx, prefix); err != nil {
			slog.Warn("cache clear failed after propagation", "prefix", prefix, "error", err)
		}
	}
}
