// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"newsdesk/internal/models"
)

func TestAuthorStoreCreate(t *testing.T) {
	db := testDB(t)
	s := NewAuthorStore(db)
	ctx := context.Background()

	email := "test-create@store-test.local"
	t.Cleanup(func() { cleanAuthors(t, db, email) })

	author, err := s.Create(ctx, &models.Author{Name: "Test Author", Email: email})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if author.ID == uuid.Nil {
		t.Error("expected non-nil UUID")
	}
	if author.Name != "Test Author" {
		t.Errorf("name: got %q, want %q", author.Name, "Test Author")
	}
	if author.Email != email {
		t.Errorf("email: got %q, want %q", author.Email, email)
	}
	if author.CanLogin() {
		t.Error("author without credential must not be login-capable")
	}
}

func TestAuthorStoreCreateNormalizesEmail(t *testing.T) {
	db := testDB(t)
	s := NewAuthorStore(db)
	ctx := context.Background()

	email := "test-normalize@store-test.local"
	t.Cleanup(func() { cleanAuthors(t, db, email) })

	author, err := s.Create(ctx, &models.Author{Name: "Case Author", Email: "  Test-Normalize@Store-Test.LOCAL "})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if author.Email != email {
		t.Errorf("email: got %q, want normalized %q", author.Email, email)
	}
}

func TestAuthorStoreDuplicateEmail(t *testing.T) {
	db := testDB(t)
	s := NewAuthorStore(db)
	ctx := context.Background()

	email := "test-dup@store-test.local"
	t.Cleanup(func() { cleanAuthors(t, db, email) })

	if _, err := s.Create(ctx, &models.Author{Name: "First", Email: email}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Same address with different casing must still collide.
	_, err := s.Create(ctx, &models.Author{Name: "Second", Email: "Test-Dup@Store-Test.LOCAL"})
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Errorf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestAuthorStoreFindByID(t *testing.T) {
	db := testDB(t)
	s := NewAuthorStore(db)
	ctx := context.Background()

	email := "test-findbyid@store-test.local"
	t.Cleanup(func() { cleanAuthors(t, db, email) })

	created, err := s.Create(ctx, &models.Author{Name: "Lookup Author", Email: email})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	found, err := s.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if found == nil {
		t.Fatal("expected author, got nil")
	}
	if found.Name != "Lookup Author" {
		t.Errorf("name: got %q, want %q", found.Name, "Lookup Author")
	}

	// Missing author is (nil, nil), not an error.
	missing, err := s.FindByID(ctx, uuid.New())
	if err != nil {
		t.Fatalf("FindByID (missing): %v", err)
	}
	if missing != nil {
		t.Error("expected nil for missing author")
	}
}

func TestAuthorStoreUpdate(t *testing.T) {
	db := testDB(t)
	s := NewAuthorStore(db)
	ctx := context.Background()

	email := "test-update@store-test.local"
	t.Cleanup(func() { cleanAuthors(t, db, email) })

	created, err := s.Create(ctx, &models.Author{Name: "Before Rename", Email: email})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	created.Name = "After Rename"
	if err := s.Update(ctx, created); err != nil {
		t.Fatalf("Update: %v", err)
	}

	found, err := s.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if found.Name != "After Rename" {
		t.Errorf("name: got %q, want %q", found.Name, "After Rename")
	}

	// Updating a missing author reports ErrNotFound.
	ghost := &models.Author{ID: uuid.New(), Name: "Ghost", Email: "ghost@store-test.local"}
	if err := s.Update(ctx, ghost); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestAuthorStoreDelete(t *testing.T) {
	db := testDB(t)
	s := NewAuthorStore(db)
	ctx := context.Background()

	email := "test-delete@store-test.local"
	t.Cleanup(func() { cleanAuthors(t, db, email) })

	created, err := s.Create(ctx, &models.Author{Name: "Doomed Author", Email: email})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := s.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	found, err := s.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("FindByID after delete: %v", err)
	}
	if found != nil {
		t.Error("expected author gone after delete")
	}

	if err := s.Delete(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}
