// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store implements persistence for authors and articles on
// PostgreSQL. Stores return sentinel errors so callers can distinguish
// not-found from uniqueness conflicts from infrastructure failures.
package store

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateSlug is returned when an article slug is already taken.
	ErrDuplicateSlug = errors.New("slug already exists")

	// ErrDuplicateEmail is returned when an author email is already taken.
	ErrDuplicateEmail = errors.New("email already exists")
)

// uniqueViolation reports whether err is a PostgreSQL unique constraint
// violation, optionally on the named constraint.
func uniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}
