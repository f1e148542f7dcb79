// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "testing"

func TestCategoryValid(t *testing.T) {
	for _, c := range Categories {
		if !c.Valid() {
			t.Errorf("category %q should be valid", c)
		}
	}
	for _, c := range []Category{"", "politics", "News", "health_fitness"} {
		if c.Valid() {
			t.Errorf("category %q should be invalid", c)
		}
	}
}

func TestPlacementFlagValid(t *testing.T) {
	for _, f := range PlacementFlags {
		if !f.Valid() {
			t.Errorf("flag %q should be valid", f)
		}
	}
	if PlacementFlag("is_featured").Valid() {
		t.Error("unknown flag should be invalid")
	}
}

func TestArticleFlag(t *testing.T) {
	a := &Article{IsMiniTopStory: true}

	if !a.Flag(FlagMiniTopStory) {
		t.Error("mini top story flag should read true")
	}
	if a.Flag(FlagTopStory) || a.Flag(FlagLatest) || a.Flag(FlagTrending) {
		t.Error("unset flags should read false")
	}
	if !a.HasAnyFlag() {
		t.Error("HasAnyFlag should be true with one flag set")
	}
	if (&Article{}).HasAnyFlag() {
		t.Error("HasAnyFlag should be false with no flags set")
	}
}

func TestValidContent(t *testing.T) {
	tests := []struct {
		name       string
		paragraphs []string
		want       bool
	}{
		{"two paragraphs", []string{"first", "second"}, true},
		{"many paragraphs", []string{"a", "b", "c", "d"}, true},
		{"single paragraph", []string{"only one"}, false},
		{"empty", nil, false},
		{"blank paragraph", []string{"first", "   "}, false},
		{"empty string paragraph", []string{"", "second"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidContent(tt.paragraphs); got != tt.want {
				t.Errorf("ValidContent(%v): got %v, want %v", tt.paragraphs, got, tt.want)
			}
		})
	}
}
