// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ArticleStatus represents the publishing state of an article.
type ArticleStatus string

const (
	ArticleStatusDraft     ArticleStatus = "draft"
	ArticleStatusPublished ArticleStatus = "published"
)

// Category is one of the fixed set of site sections an article belongs to.
type Category string

const (
	CategoryNews          Category = "news"
	CategoryEntertainment Category = "entertainment"
	CategorySports        Category = "sports"
	CategoryHealthFitness Category = "health-fitness"
	CategoryEditorial     Category = "editorial"
	CategoryTechnology    Category = "technology"
	CategoryAutomobiles   Category = "automobiles"
)

// Categories lists every valid category in display order.
var Categories = []Category{
	CategoryNews,
	CategoryEntertainment,
	CategorySports,
	CategoryHealthFitness,
	CategoryEditorial,
	CategoryTechnology,
	CategoryAutomobiles,
}

// Valid returns true if c is one of the fixed categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// PlacementFlag names one of the four home-page placement flags.
type PlacementFlag string

const (
	FlagTopStory     PlacementFlag = "is_top_story"
	FlagMiniTopStory PlacementFlag = "is_mini_top_story"
	FlagLatest       PlacementFlag = "is_latest"
	FlagTrending     PlacementFlag = "is_trending"
)

// PlacementFlags lists the four flags.
var PlacementFlags = []PlacementFlag{FlagTopStory, FlagMiniTopStory, FlagLatest, FlagTrending}

// Valid returns true if f is one of the four placement flags.
func (f PlacementFlag) Valid() bool {
	switch f {
	case FlagTopStory, FlagMiniTopStory, FlagLatest, FlagTrending:
		return true
	}
	return false
}

// Image describes an externally stored image: the serving URL, the
// external storage asset id used for deletion, and optional alt text.
type Image struct {
	URL     string  `json:"url"`
	AssetID string  `json:"asset_id"`
	Alt     *string `json:"alt,omitempty"`
}

// SubImage is an additional article image carrying an explicit order field.
type SubImage struct {
	Image
	Order int `json:"order"`
}

// Article represents a news article. AuthorID is a weak reference to an
// Author: deleting the author never deletes or invalidates the article.
// AuthorName is a denormalized cache of the author's display name at last
// sync and is the value always used for display.
type Article struct {
	ID             uuid.UUID     `json:"id"`
	Title          string        `json:"title"`
	Subtitle       *string       `json:"subtitle,omitempty"`
	Content        []string      `json:"content"`
	AuthorID       *uuid.UUID    `json:"author_id,omitempty"`
	AuthorName     string        `json:"author_name"`
	OwnerID        *uuid.UUID    `json:"owner_id,omitempty"`
	PublishedDate  time.Time     `json:"published_date"`
	Status         ArticleStatus `json:"status"`
	Category       Category      `json:"category"`
	Slug           string        `json:"slug"`
	MainImage      Image         `json:"main_image"`
	MiniImage      *Image        `json:"mini_image,omitempty"`
	YoutubeLink    *string       `json:"youtube_link,omitempty"`
	SubImages      []SubImage    `json:"sub_images,omitempty"`
	IsTopStory     bool          `json:"is_top_story"`
	IsMiniTopStory bool          `json:"is_mini_top_story"`
	IsLatest       bool          `json:"is_latest"`
	IsTrending     bool          `json:"is_trending"`
	Views          int64         `json:"views"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// IsPublished returns true if the article is in published status.
func (a *Article) IsPublished() bool {
	return a.Status == ArticleStatusPublished
}

// Flag returns the current value of the named placement flag.
func (a *Article) Flag(f PlacementFlag) bool {
	switch f {
	case FlagTopStory:
		return a.IsTopStory
	case FlagMiniTopStory:
		return a.IsMiniTopStory
	case FlagLatest:
		return a.IsLatest
	case FlagTrending:
		return a.IsTrending
	}
	return false
}

// HasAnyFlag returns true if any of the four placement flags is set.
func (a *Article) HasAnyFlag() bool {
	return a.IsTopStory || a.IsMiniTopStory || a.IsLatest || a.IsTrending
}

// ValidContent reports whether the paragraph sequence satisfies the
// article content invariant: at least two paragraphs, each non-empty
// after trimming.
func ValidContent(paragraphs []string) bool {
	if len(paragraphs) < 2 {
		return false
	}
	for _, p := range paragraphs {
		if strings.TrimSpace(p) == "" {
			return false
		}
	}
	return true
}
