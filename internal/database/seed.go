package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Seed populates the database with initial development data: one
// login-capable admin author and a handful of articles spread across
// categories and placement flags. No-op if authors already exist.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM authors").Scan(&count); err != nil {
		return fmt.Errorf("seed check authors: %w", err)
	}
	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	var authorID string
	err = db.QueryRow(`
		INSERT INTO authors (name, email, bio, credential_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, "Newsdesk Admin", "admin@newsdesk.local", "Default administrator account.", string(hash)).Scan(&authorID)
	if err != nil {
		return fmt.Errorf("seed insert admin author: %w", err)
	}

	seedArticles := []struct {
		title    string
		slug     string
		category string
		flag     string
	}{
		{"Welcome to Newsdesk", "welcome-to-newsdesk", "news", "is_top_story"},
		{"Opening Day Roundup", "opening-day-roundup", "sports", "is_trending"},
		{"Streaming Premieres This Week", "streaming-premieres-this-week", "entertainment", "is_mini_top_story"},
		{"Five Habits for Better Sleep", "five-habits-for-better-sleep", "health-fitness", "is_latest"},
		{"What the New Chips Mean", "what-the-new-chips-mean", "technology", "is_latest"},
	}

	mainImage, _ := json.Marshal(map[string]string{
		"url":      "https://cdn.newsdesk.local/seed/placeholder.jpg",
		"asset_id": "seed-placeholder",
	})
	content, _ := json.Marshal([]string{
		"This is seeded development content for the public site.",
		"Replace it through the back-office once real articles exist.",
	})
	today := time.Now().Format("2006-01-02")

	for _, a := range seedArticles {
		// Flag column name comes from the fixed list above, not input.
		query := fmt.Sprintf(`
			INSERT INTO articles (title, content, author_id, author_name, published_date,
				status, category, slug, main_image, %s)
			VALUES ($1, $2, $3, $4, $5, 'published', $6, $7, $8, TRUE)
		`, a.flag)
		if _, err := db.Exec(query, a.title, content, authorID, "Newsdesk Admin",
			today, a.category, a.slug, mainImage); err != nil {
			return fmt.Errorf("seed insert article %q: %w", a.slug, err)
		}
	}

	slog.Info("database seeded",
		"admin_email", "admin@newsdesk.local",
		"articles", len(seedArticles),
	)
	return nil
}
