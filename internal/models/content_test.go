package models

import (
	"testing"
	"time"
)

func TestInSubCategory(t *testing.T) {
	sub := "psalms"
	other := "proverbs"

	tests := []struct {
		name   string
		placed *string
		filter *string
		want   bool
	}{
		{"direct child with nil filter", nil, nil, true},
		{"foldered item with nil filter", &sub, nil, false},
		{"direct child with folder filter", nil, &sub, false},
		{"same folder", &sub, &sub, true},
		{"different folder", &other, &sub, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InSubCategory(tt.placed, tt.filter); got != tt.want {
				t.Errorf("InSubCategory() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStudyClone(t *testing.T) {
	s := Study{ID: "a", SubCategoryID: StringPtr("psalms")}
	c := s.Clone()
	*c.SubCategoryID = "changed"
	if *s.SubCategoryID != "psalms" {
		t.Errorf("clone aliases original: got %q", *s.SubCategoryID)
	}
}

func TestApplyStudyPatchPreservesIdentity(t *testing.T) {
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	s := Study{
		ID:          "study-1",
		CategoryID:  "gospels",
		Title:       "Old",
		Description: "desc",
		Content:     "body",
		CreatedAt:   created,
	}

	got := ApplyStudyPatch(s, StudyPatch{Title: StringPtr("New")})

	if got.ID != "study-1" {
		t.Errorf("ID: got %q", got.ID)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt: got %v, want %v", got.CreatedAt, created)
	}
	if got.Title != "New" {
		t.Errorf("Title: got %q, want %q", got.Title, "New")
	}
	if got.Description != "desc" || got.Content != "body" {
		t.Error("untouched fields changed")
	}
}

func TestApplyStudyPatchCategoryChangeDropsFolder(t *testing.T) {
	s := Study{ID: "x", CategoryID: "gospels", SubCategoryID: StringPtr("parables")}

	got := ApplyStudyPatch(s, StudyPatch{CategoryID: StringPtr("prayer")})
	if got.CategoryID != "prayer" {
		t.Errorf("CategoryID: got %q", got.CategoryID)
	}
	if got.SubCategoryID != nil {
		t.Errorf("expected folder cleared, got %q", *got.SubCategoryID)
	}

	got = ApplyStudyPatch(s, StudyPatch{CategoryID: StringPtr("prayer"), SubCategoryID: StringPtr("lords-prayer")})
	if got.SubCategoryID == nil || *got.SubCategoryID != "lords-prayer" {
		t.Errorf("expected new folder, got %v", got.SubCategoryID)
	}
}

func TestApplyStudyPatchEmptySubClears(t *testing.T) {
	s := Study{ID: "x", CategoryID: "gospels", SubCategoryID: StringPtr("parables")}
	got := ApplyStudyPatch(s, StudyPatch{SubCategoryID: StringPtr("")})
	if got.SubCategoryID != nil {
		t.Errorf("expected nil folder, got %q", *got.SubCategoryID)
	}
}

func TestApplyVideoPatchClearsOptional(t *testing.T) {
	v := Video{ID: "v", Duration: StringPtr("12:00"), VideoURL: StringPtr("https://example.com/v")}
	got := ApplyVideoPatch(v, VideoPatch{Duration: StringPtr(""), Title: StringPtr("T")})
	if got.Duration != nil {
		t.Error("expected duration cleared")
	}
	if got.VideoURL == nil || *got.VideoURL != "https://example.com/v" {
		t.Error("expected url kept")
	}
	if got.Title != "T" {
		t.Errorf("Title: got %q", got.Title)
	}
}

func TestApplyPatchTrimsOptionalStrings(t *testing.T) {
	s := Study{ID: "x", CategoryID: "gospels", SubCategoryID: StringPtr("parables")}
	if got := ApplyStudyPatch(s, StudyPatch{SubCategoryID: StringPtr("   ")}); got.SubCategoryID != nil {
		t.Errorf("blank folder: got %q, want nil", *got.SubCategoryID)
	}

	v := Video{ID: "v", Duration: StringPtr("12:00")}
	got := ApplyVideoPatch(v, VideoPatch{
		Duration:     StringPtr(" \t"),
		ThumbnailURL: StringPtr("  https://img.example.com/t.png "),
		VideoURL:     StringPtr("https://example.com/v\n"),
	})
	if got.Duration != nil {
		t.Errorf("blank duration: got %q, want nil", *got.Duration)
	}
	if got.ThumbnailURL == nil || *got.ThumbnailURL != "https://img.example.com/t.png" {
		t.Errorf("thumbnail not trimmed: %v", got.ThumbnailURL)
	}
	if got.VideoURL == nil || *got.VideoURL != "https://example.com/v" {
		t.Errorf("video url not trimmed: %v", got.VideoURL)
	}
}

func TestStudyPatchIsEmpty(t *testing.T) {
	if !(StudyPatch{}).IsEmpty() {
		t.Error("zero patch should be empty")
	}
	if (StudyPatch{Content: StringPtr("x")}).IsEmpty() {
		t.Error("patch with content should not be empty")
	}
}
