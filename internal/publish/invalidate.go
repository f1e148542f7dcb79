// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// invalidate.go decides, on every mutation, which cached response keys
// and which statically generated pages must be regenerated. The response
// cache is cheap to rebuild and is cleared broadly on any write; static
// page regeneration is expensive and gated by a narrower field-diff
// predicate.
package publish

import (
	"context"
	"log/slog"
	"time"

	"newsdesk/internal/models"
)

// ResponseCache is the injected response-cache collaborator. Entries are
// derived data with a TTL; invalidation here only needs prefix clearing.
type ResponseCache interface {
	ClearByPrefix(ctx context.Context, prefix string) error
}

// PageInvalidator triggers out-of-band regeneration of a previously
// generated static page.
type PageInvalidator interface {
	Invalidate(ctx context.Context, path string) error
}

// MutationCachePrefixes are the response-cache prefixes cleared
// unconditionally on every successful mutation.
var MutationCachePrefixes = []string{"article:", "author:", "articles:all:"}

// Static page paths.
const HomePath = "/"

// CategoryPath returns the static path of a category page.
func CategoryPath(c models.Category) string {
	return "/category/" + string(c)
}

// ArticlePath returns the static path of an article detail page.
func ArticlePath(slug string) string {
	return "/article/" + slug
}

// InvalidationSet is the union of response-cache prefixes to clear and
// static page paths to regenerate for one mutation.
type InvalidationSet struct {
	Prefixes []string
	Pages    []string
}

func (s *InvalidationSet) addPage(path string) {
	for _, p := range s.Pages {
		if p == path {
			return
		}
	}
	s.Pages = append(s.Pages, path)
}

// OnArticleMutated computes the invalidation set for an article mutation.
// old must be the snapshot captured before the update was applied; for a
// create old is nil, for a delete new is nil. now is the moment the
// mutation was applied, used for the visibility gate on the stale-card
// rule.
func OnArticleMutated(old, new *models.Article, now time.Time) InvalidationSet {
	set := InvalidationSet{Prefixes: MutationCachePrefixes}

	switch {
	case old == nil && new == nil:
		return set
	case old == nil:
		// Create: only a publicly visible article can affect generated pages.
		if IsPubliclyVisible(new, now) {
			set.addPage(HomePath)
			set.addPage(CategoryPath(new.Category))
			set.addPage(ArticlePath(new.Slug))
		}
		return set
	case new == nil:
		// Delete: a visible article disappearing affects every page it was on.
		if IsPubliclyVisible(old, now) {
			set.addPage(HomePath)
			set.addPage(CategoryPath(old.Category))
			set.addPage(ArticlePath(old.Slug))
		}
		return set
	}

	statusChanged := old.Status != new.Status
	categoryChanged := old.Category != new.Category
	flagsChanged := old.IsTopStory != new.IsTopStory ||
		old.IsMiniTopStory != new.IsMiniTopStory ||
		old.IsLatest != new.IsLatest ||
		old.IsTrending != new.IsTrending
	cardFieldChanged := old.Title != new.Title ||
		!equalOptional(old.Subtitle, new.Subtitle) ||
		old.MainImage.URL != new.MainImage.URL ||
		!old.PublishedDate.Equal(new.PublishedDate) ||
		old.AuthorName != new.AuthorName

	if statusChanged {
		set.addPage(HomePath)
		set.addPage(CategoryPath(old.Category))
		set.addPage(CategoryPath(new.Category))
		set.addPage(ArticlePath(new.Slug))
	}
	if flagsChanged {
		set.addPage(HomePath)
	}
	if categoryChanged {
		set.addPage(HomePath)
		set.addPage(CategoryPath(old.Category))
		set.addPage(CategoryPath(new.Category))
		set.addPage(ArticlePath(new.Slug))
	}
	// A changed card field only matters when the article is visible and
	// currently promoted somewhere on the home page.
	if cardFieldChanged && IsPubliclyVisible(new, now) && new.HasAnyFlag() {
		set.addPage(HomePath)
	}

	// A slug change strands the generated detail page at the old path, and
	// the new path has never been generated. Regenerate both.
	if old.Slug != new.Slug {
		set.addPage(ArticlePath(old.Slug))
		set.addPage(ArticlePath(new.Slug))
	}

	// Anything that touched a generated page also refreshes the article's
	// own category and detail pages.
	if len(set.Pages) > 0 {
		set.addPage(CategoryPath(new.Category))
		set.addPage(ArticlePath(new.Slug))
	}

	return set
}

// OnAuthorNameChanged computes the invalidation set for an author rename.
// Only the response cache is cleared: name propagation is a raw bulk
// update that bypasses per-article mutation hooks, so already generated
// article and category pages keep the old name until their normal
// time-based revalidation. This staleness window is accepted.
func OnAuthorNameChanged() InvalidationSet {
	return InvalidationSet{Prefixes: MutationCachePrefixes}
}

func equalOptional(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Coordinator applies invalidation sets against the injected response
// cache and static-page invalidator. Application is best-effort: failures
// are logged and never propagated, the triggering mutation has already
// succeeded.
type Coordinator struct {
	cache ResponseCache
	pages PageInvalidator
}

// NewCoordinator creates a Coordinator. Either collaborator may be nil.
func NewCoordinator(cache ResponseCache, pages PageInvalidator) *Coordinator {
	return &Coordinator{cache: cache, pages: pages}
}

// ArticleMutated computes and applies the invalidation set for an article
// mutation. The old snapshot must have been captured before the update.
func (c *Coordinator) ArticleMutated(ctx context.Context, old, new *models.Article, now time.Time) InvalidationSet {
	set := OnArticleMutated(old, new, now)
	c.Apply(ctx, set)
	return set
}

// AuthorNameChanged applies the author-rename invalidation set.
func (c *Coordinator) AuthorNameChanged(ctx context.Context) {
	c.Apply(ctx, OnAuthorNameChanged())
}

// Apply clears the response-cache prefixes and requests regeneration of
// each static page in the set.
func (c *Coordinator) Apply(ctx context.Context, set InvalidationSet) {
	if c.cache != nil {
		for _, prefix := range set.Prefixes {
			if err := c.cache.ClearByPrefix(ctx, prefix); err != nil {
				slog.Warn("response cache clear failed", "prefix", prefix, "error", err)
			}
		}
	}
	if c.pages != nil {
		for _, path := range set.Pages {
			if err := c.pages.Invalidate(ctx, path); err != nil {
				slog.Warn("static page invalidation failed", "path", path, "error", err)
			}
		}
	}
}
