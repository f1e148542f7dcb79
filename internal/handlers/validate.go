// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"newsdesk/internal/models"
)

// validate checks struct tags on request DTOs.
var validate = validator.New()

// Validation limits for article and author fields.
const (
	maxTitleLen     = 300
	maxSubtitleLen  = 500
	maxParagraphLen = 20_000
	maxNameLen      = 200
	maxBioLen       = 2_000
)

// validateArticleFields checks the domain invariants a struct tag cannot
// express and returns the first error message found, or "".
func validateArticleFields(title string, content []string, category models.Category, miniImage *models.Image, youtubeLink *string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return "title is required"
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "title is too long (max 300 characters)"
	}
	if !models.ValidContent(content) {
		return "content must have at least 2 non-empty paragraphs"
	}
	for _, p := range content {
		if utf8.RuneCountInString(p) > maxParagraphLen {
			return "a content paragraph is too long (max 20,000 characters)"
		}
	}
	if !category.Valid() {
		return "unknown category"
	}
	// The editing workflow offers mini image OR youtube link as the
	// secondary media, never both.
	if miniImage != nil && youtubeLink != nil && *youtubeLink != "" {
		return "mini image and youtube link are mutually exclusive"
	}
	return ""
}

// validateAuthorFields checks author profile inputs.
func validateAuthorFields(name, email string, bio *string) string {
	if strings.TrimSpace(name) == "" {
		return "name is required"
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return "name is too long (max 200 characters)"
	}
	if models.NormalizeEmail(email) == "" {
		return "email is required"
	}
	if bio != nil && utf8.RuneCountInString(*bio) > maxBioLen {
		return "bio is too long (max 2,000 characters)"
	}
	return ""
}
