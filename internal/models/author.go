// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Author represents a writer whose name appears on published articles.
// The credential hash is present only for login-capable authors and is
// never serialized.
type Author struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Bio            *string   `json:"bio,omitempty"`
	AvatarURL      *string   `json:"avatar_url,omitempty"`
	CredentialHash *string   `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CanLogin returns true if the author has a stored credential.
func (a *Author) CanLogin() bool {
	return a.CredentialHash != nil && *a.CredentialHash != ""
}

// NormalizeEmail lowercases and trims an email address for the
// case-insensitive uniqueness comparison used across author operations.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
