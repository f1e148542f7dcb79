// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package publish

import (
	"sort"
	"time"

	"newsdesk/internal/models"
)

// Slot capacity limits for the home page.
const (
	MaxTopStories        = 10
	MaxMiniTopStories    = 6
	MaxTrending          = 4
	MaxLatestPerCategory = 4
)

// HomePageLayout holds the resolved article selections for each home-page
// slot. Slots are computed independently: an article whose flags were set
// by a write path bypassing the exclusivity toggle can appear in more than
// one slot, and the resolver does not deduplicate across slots since each
// renders in a visually distinct part of the page.
type HomePageLayout struct {
	TopStories       []models.Article                     `json:"top_stories"`
	MiniTopStories   []models.Article                     `json:"mini_top_stories"`
	Trending         []models.Article                     `json:"trending"`
	LatestByCategory map[models.Category][]models.Article `json:"latest_by_category"`
}

// ResolveHomePage produces the home-page layout from the article corpus.
// Articles not publicly visible at now are ignored even if flagged.
// Each slot is ordered by createdAt descending and capped at its limit.
// Ties on createdAt keep the corpus order (stable sort).
func ResolveHomePage(corpus []models.Article, now time.Time) HomePageLayout {
	visible := make([]models.Article, 0, len(corpus))
	for _, a := range corpus {
		if IsPubliclyVisible(&a, now) {
			visible = append(visible, a)
		}
	}

	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].CreatedAt.After(visible[j].CreatedAt)
	})

	layout := HomePageLayout{
		LatestByCategory: make(map[models.Category][]models.Article, len(models.Categories)),
	}
	for _, c := range models.Categories {
		layout.LatestByCategory[c] = []models.Article{}
	}

	for _, a := range visible {
		if a.IsTopStory && len(layout.TopStories) < MaxTopStories {
			layout.TopStories = append(layout.TopStories, a)
		}
		if a.IsMiniTopStory && len(layout.MiniTopStories) < MaxMiniTopStories {
			layout.MiniTopStories = append(layout.MiniTopStories, a)
		}
		if a.IsTrending && len(layout.Trending) < MaxTrending {
			layout.Trending = append(layout.Trending, a)
		}
		if a.IsLatest && len(layout.LatestByCategory[a.Category]) < MaxLatestPerCategory {
			layout.LatestByCategory[a.Category] = append(layout.LatestByCategory[a.Category], a)
		}
	}

	return layout
}
