// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package publish

import (
	"testing"
	"time"

	"newsdesk/internal/models"
)

var placementNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

// flagged builds a visible article with the given flags and a createdAt
// offset so ordering is deterministic.
func flagged(title string, createdOffset time.Duration, set func(*models.Article)) models.Article {
	a := models.Article{
		Title:         title,
		Status:        models.ArticleStatusPublished,
		Category:      models.CategoryNews,
		PublishedDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		CreatedAt:     placementNow.Add(createdOffset),
	}
	if set != nil {
		set(&a)
	}
	return a
}

func TestResolveHomePageCaps(t *testing.T) {
	var corpus []models.Article
	for i := 0; i < 15; i++ {
		corpus = append(corpus, flagged("top", -time.Duration(i)*time.Hour, func(a *models.Article) {
			a.IsTopStory = true
		}))
	}
	for i := 0; i < 10; i++ {
		corpus = append(corpus, flagged("mini", -time.Duration(i)*time.Minute, func(a *models.Article) {
			a.IsMiniTopStory = true
		}))
	}
	for i := 0; i < 8; i++ {
		corpus = append(corpus, flagged("trend", -time.Duration(i)*time.Second, func(a *models.Article) {
			a.IsTrending = true
		}))
	}

	layout := ResolveHomePage(corpus, placementNow)

	if len(layout.TopStories) != MaxTopStories {
		t.Errorf("top stories: got %d, want %d", len(layout.TopStories), MaxTopStories)
	}
	if len(layout.MiniTopStories) != MaxMiniTopStories {
		t.Errorf("mini top stories: got %d, want %d", len(layout.MiniTopStories), MaxMiniTopStories)
	}
	if len(layout.Trending) != MaxTrending {
		t.Errorf("trending: got %d, want %d", len(layout.Trending), MaxTrending)
	}
}

func TestResolveHomePageOrdering(t *testing.T) {
	corpus := []models.Article{
		flagged("older", -3*time.Hour, func(a *models.Article) { a.IsTopStory = true }),
		flagged("newest", -1*time.Hour, func(a *models.Article) { a.IsTopStory = true }),
		flagged("middle", -2*time.Hour, func(a *models.Article) { a.IsTopStory = true }),
	}

	layout := ResolveHomePage(corpus, placementNow)

	want := []string{"newest", "middle", "older"}
	if len(layout.TopStories) != len(want) {
		t.Fatalf("top stories: got %d articles, want %d", len(layout.TopStories), len(want))
	}
	for i, title := range want {
		if layout.TopStories[i].Title != title {
			t.Errorf("top stories[%d]: got %q, want %q", i, layout.TopStories[i].Title, title)
		}
	}
}

// Flagged articles that are drafts or future-dated must never surface.
func TestResolveHomePageVisibilityGate(t *testing.T) {
	draft := flagged("draft", 0, func(a *models.Article) {
		a.IsTopStory = true
		a.Status = models.ArticleStatusDraft
	})
	future := flagged("future", 0, func(a *models.Article) {
		a.IsTopStory = true
		a.PublishedDate = placementNow.AddDate(0, 0, 1)
	})
	visible := flagged("visible", 0, func(a *models.Article) { a.IsTopStory = true })

	layout := ResolveHomePage([]models.Article{draft, future, visible}, placementNow)

	if len(layout.TopStories) != 1 {
		t.Fatalf("top stories: got %d, want 1", len(layout.TopStories))
	}
	if layout.TopStories[0].Title != "visible" {
		t.Errorf("top stories[0]: got %q, want %q", layout.TopStories[0].Title, "visible")
	}
}

// Slots are computed independently: an article carrying several flags
// appears in each matching slot.
func TestResolveHomePageMultiSlot(t *testing.T) {
	a := flagged("everywhere", 0, func(a *models.Article) {
		a.IsTopStory = true
		a.IsTrending = true
		a.IsLatest = true
	})

	layout := ResolveHomePage([]models.Article{a}, placementNow)

	if len(layout.TopStories) != 1 || len(layout.Trending) != 1 {
		t.Errorf("expected article in top stories and trending, got %d and %d",
			len(layout.TopStories), len(layout.Trending))
	}
	if len(layout.LatestByCategory[models.CategoryNews]) != 1 {
		t.Errorf("expected article in latest news, got %d",
			len(layout.LatestByCategory[models.CategoryNews]))
	}
}

func TestResolveHomePageLatestPerCategory(t *testing.T) {
	var corpus []models.Article
	for i := 0; i < 6; i++ {
		corpus = append(corpus, flagged("news", -time.Duration(i)*time.Hour, func(a *models.Article) {
			a.IsLatest = true
		}))
	}
	corpus = append(corpus, flagged("sports", 0, func(a *models.Article) {
		a.IsLatest = true
		a.Category = models.CategorySports
	}))

	layout := ResolveHomePage(corpus, placementNow)

	if got := len(layout.LatestByCategory[models.CategoryNews]); got != MaxLatestPerCategory {
		t.Errorf("latest news: got %d, want %d", got, MaxLatestPerCategory)
	}
	if got := len(layout.LatestByCategory[models.CategorySports]); got != 1 {
		t.Errorf("latest sports: got %d, want 1", got)
	}
	// Every category has a slot, empty or not.
	for _, c := range models.Categories {
		if _, ok := layout.LatestByCategory[c]; !ok {
			t.Errorf("missing latest slot for category %q", c)
		}
	}
}

func TestResolveHomePageEmptyCorpus(t *testing.T) {
	layout := ResolveHomePage(nil, placementNow)

	if len(layout.TopStories) != 0 || len(layout.MiniTopStories) != 0 || len(layout.Trending) != 0 {
		t.Error("expected empty slots for empty corpus")
	}
	if len(layout.LatestByCategory) != len(models.Categories) {
		t.Errorf("latest map: got %d categories, want %d",
			len(layout.LatestByCategory), len(models.Categories))
	}
}
