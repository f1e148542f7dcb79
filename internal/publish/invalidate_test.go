// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package publish

import (
	"context"
	"errors"
	"testing"
	"time"

	"newsdesk/internal/models"
)

var invalidateNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func visibleArticle() *models.Article {
	return &models.Article{
		Title:         "Base Title",
		Status:        models.ArticleStatusPublished,
		Category:      models.CategoryNews,
		Slug:          "base-title",
		PublishedDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		MainImage:     models.Image{URL: "https://img.test/a.jpg"},
	}
}

func hasPage(set InvalidationSet, path string) bool {
	for _, p := range set.Pages {
		if p == path {
			return true
		}
	}
	return false
}

// Every mutation clears the same response-cache prefixes regardless of
// what changed.
func TestOnArticleMutatedAlwaysClearsPrefixes(t *testing.T) {
	old := visibleArticle()
	new := visibleArticle()

	set := OnArticleMutated(old, new, invalidateNow)

	if len(set.Prefixes) != len(MutationCachePrefixes) {
		t.Fatalf("prefixes: got %d, want %d", len(set.Prefixes), len(MutationCachePrefixes))
	}
	for i, p := range MutationCachePrefixes {
		if set.Prefixes[i] != p {
			t.Errorf("prefix[%d]: got %q, want %q", i, set.Prefixes[i], p)
		}
	}
	// Nothing page-affecting changed.
	if len(set.Pages) != 0 {
		t.Errorf("pages: got %v, want none", set.Pages)
	}
}

func TestOnArticleMutatedCreate(t *testing.T) {
	t.Run("visible create regenerates pages", func(t *testing.T) {
		set := OnArticleMutated(nil, visibleArticle(), invalidateNow)

		for _, path := range []string{HomePath, "/category/news", "/article/base-title"} {
			if !hasPage(set, path) {
				t.Errorf("missing page %q in %v", path, set.Pages)
			}
		}
	})

	t.Run("draft create touches no pages", func(t *testing.T) {
		a := visibleArticle()
		a.Status = models.ArticleStatusDraft

		set := OnArticleMutated(nil, a, invalidateNow)
		if len(set.Pages) != 0 {
			t.Errorf("pages: got %v, want none", set.Pages)
		}
	})

	t.Run("future-dated create touches no pages", func(t *testing.T) {
		a := visibleArticle()
		a.PublishedDate = invalidateNow.AddDate(0, 0, 2)

		set := OnArticleMutated(nil, a, invalidateNow)
		if len(set.Pages) != 0 {
			t.Errorf("pages: got %v, want none", set.Pages)
		}
	})
}

func TestOnArticleMutatedDelete(t *testing.T) {
	set := OnArticleMutated(visibleArticle(), nil, invalidateNow)

	for _, path := range []string{HomePath, "/category/news", "/article/base-title"} {
		if !hasPage(set, path) {
			t.Errorf("missing page %q in %v", path, set.Pages)
		}
	}
}

func TestOnArticleMutatedStatusChange(t *testing.T) {
	old := visibleArticle()
	old.Status = models.ArticleStatusDraft
	new := visibleArticle()

	set := OnArticleMutated(old, new, invalidateNow)

	if !hasPage(set, HomePath) {
		t.Error("status change must regenerate the home page")
	}
	if !hasPage(set, "/category/news") || !hasPage(set, "/article/base-title") {
		t.Errorf("status change must regenerate category and detail pages, got %v", set.Pages)
	}
}

func TestOnArticleMutatedCategoryChange(t *testing.T) {
	old := visibleArticle()
	new := visibleArticle()
	new.Category = models.CategorySports

	set := OnArticleMutated(old, new, invalidateNow)

	// Both the vacated and the joined category pages regenerate.
	if !hasPage(set, "/category/news") {
		t.Error("old category page must regenerate")
	}
	if !hasPage(set, "/category/sports") {
		t.Error("new category page must regenerate")
	}
	if !hasPage(set, HomePath) {
		t.Error("category change must regenerate the home page")
	}
}

func TestOnArticleMutatedFlagChange(t *testing.T) {
	old := visibleArticle()
	new := visibleArticle()
	new.IsTrending = true

	set := OnArticleMutated(old, new, invalidateNow)

	if !hasPage(set, HomePath) {
		t.Error("flag change must regenerate the home page")
	}
}

func TestOnArticleMutatedCardFieldChange(t *testing.T) {
	t.Run("promoted visible article", func(t *testing.T) {
		old := visibleArticle()
		old.IsTopStory = true
		new := visibleArticle()
		new.IsTopStory = true
		new.Title = "Changed Title"

		set := OnArticleMutated(old, new, invalidateNow)
		if !hasPage(set, HomePath) {
			t.Error("card change on a promoted article must regenerate the home page")
		}
	})

	t.Run("unpromoted article skips the home page", func(t *testing.T) {
		old := visibleArticle()
		new := visibleArticle()
		new.Title = "Changed Title"

		set := OnArticleMutated(old, new, invalidateNow)
		if hasPage(set, HomePath) {
			t.Error("card change on an unpromoted article must not regenerate the home page")
		}
	})

	t.Run("draft skips the home page", func(t *testing.T) {
		old := visibleArticle()
		old.Status = models.ArticleStatusDraft
		new := visibleArticle()
		new.Status = models.ArticleStatusDraft
		new.Title = "Changed Title"

		set := OnArticleMutated(old, new, invalidateNow)
		if hasPage(set, HomePath) {
			t.Error("card change on a draft must not regenerate the home page")
		}
	})
}

// Renaming the slug leaves a generated page behind at the old path; both
// the old and the new detail paths must regenerate.
func TestOnArticleMutatedSlugChange(t *testing.T) {
	old := visibleArticle()
	new := visibleArticle()
	new.Title = "Changed Title"
	new.Slug = "changed-title"

	set := OnArticleMutated(old, new, invalidateNow)

	if !hasPage(set, "/article/base-title") {
		t.Errorf("old detail page must regenerate after a slug change, got %v", set.Pages)
	}
	if !hasPage(set, "/article/changed-title") {
		t.Errorf("new detail page must regenerate after a slug change, got %v", set.Pages)
	}
}

// Body-only edits never cost a page regeneration.
func TestOnArticleMutatedBodyOnlyChange(t *testing.T) {
	old := visibleArticle()
	old.IsTopStory = true
	new := visibleArticle()
	new.IsTopStory = true
	new.Content = []string{"first", "second", "third"}

	set := OnArticleMutated(old, new, invalidateNow)
	if len(set.Pages) != 0 {
		t.Errorf("pages: got %v, want none for body-only edit", set.Pages)
	}
}

func TestOnArticleMutatedPagesDeduplicated(t *testing.T) {
	old := visibleArticle()
	old.Status = models.ArticleStatusDraft
	new := visibleArticle()
	new.IsTopStory = true

	set := OnArticleMutated(old, new, invalidateNow)

	seen := map[string]bool{}
	for _, p := range set.Pages {
		if seen[p] {
			t.Errorf("page %q appears more than once in %v", p, set.Pages)
		}
		seen[p] = true
	}
}

// Author renames clear the response cache but never regenerate static
// pages; generated pages keep the old name until normal revalidation.
func TestOnAuthorNameChanged(t *testing.T) {
	set := OnAuthorNameChanged()

	if len(set.Prefixes) != len(MutationCachePrefixes) {
		t.Errorf("prefixes: got %d, want %d", len(set.Prefixes), len(MutationCachePrefixes))
	}
	if len(set.Pages) != 0 {
		t.Errorf("pages: got %v, want none", set.Pages)
	}
}

type fakePages struct {
	invalidated []string
	err         error
}

func (f *fakePages) Invalidate(ctx context.Context, path string) error {
	f.invalidated = append(f.invalidated, path)
	return f.err
}

func TestCoordinatorApply(t *testing.T) {
	cache := &fakeCache{}
	pages := &fakePages{}
	c := NewCoordinator(cache, pages)

	set := c.ArticleMutated(context.Background(), nil, visibleArticle(), invalidateNow)

	if len(cache.cleared) != len(MutationCachePrefixes) {
		t.Errorf("cache clears: got %d, want %d", len(cache.cleared), len(MutationCachePrefixes))
	}
	if len(pages.invalidated) != len(set.Pages) {
		t.Errorf("page invalidations: got %d, want %d", len(pages.invalidated), len(set.Pages))
	}
}

// Application is best-effort: collaborator failures never propagate and
// every entry is still attempted.
func TestCoordinatorApplyBestEffort(t *testing.T) {
	cache := &fakeCache{err: errors.New("valkey down")}
	pages := &fakePages{err: errors.New("webhook down")}
	c := NewCoordinator(cache, pages)

	c.ArticleMutated(context.Background(), nil, visibleArticle(), invalidateNow)

	if len(cache.cleared) != len(MutationCachePrefixes) {
		t.Errorf("cache clears: got %d, want %d despite errors", len(cache.cleared), len(MutationCachePrefixes))
	}
	if len(pages.invalidated) == 0 {
		t.Error("page invalidation must still be attempted despite errors")
	}
}

func TestCoordinatorNilCollaborators(t *testing.T) {
	c := NewCoordinator(nil, nil)
	// Must not panic.
	c.ArticleMutated(context.Background(), nil, visibleArticle(), invalidateNow)
	c.AuthorNameChanged(context.Background())
}
