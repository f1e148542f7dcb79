// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package publish implements the content visibility and promotion
// resolution engine: the visibility predicate, the home-page placement
// resolver, the author-name denormalization resolver, and the cache
// invalidation coordinator. Everything here is synchronous and stateless;
// storage and caching are injected collaborators.
package publish

import (
	"time"

	"newsdesk/internal/models"
)

// DateOnly formats t's calendar date for publish-date comparisons. The
// publish date is a calendar date, not an instant: a stored date scans
// back at midnight UTC while now carries the server zone, so comparing
// instants would shift visibility by the zone offset.
func DateOnly(t time.Time) string {
	return t.Format(time.DateOnly)
}

// IsPubliclyVisible decides whether an article may be shown to the public
// at the given moment. An article is visible once it is published and its
// publish date has arrived. The comparison is between calendar dates, so
// an article dated today is visible from midnight regardless of time of
// day or of the zone its date was stored in. Drafts are never visible.
// Visibility is computed at read time on every query; there is no
// scheduled-publish job.
func IsPubliclyVisible(a *models.Article, now time.Time) bool {
	if a == nil || a.Status != models.ArticleStatusPublished {
		return false
	}
	return DateOnly(a.PublishedDate) <= DateOnly(now)
}
