package models

import "strings"

// StudyFields carries the input for creating a study.
type StudyFields struct {
	CategoryID    string
	SubCategoryID *string
	Title         string
	Description   string
	Content       string
}

// StudyPatch describes a partial update. Nil fields are left untouched.
// A SubCategoryID pointing at "" moves the study directly under its category.
type StudyPatch struct {
	CategoryID    *string
	SubCategoryID *string
	Title         *string
	Description   *string
	Content       *string
}

// IsEmpty returns true if the patch changes nothing.
func (p StudyPatch) IsEmpty() bool {
	return p.CategoryID == nil && p.SubCategoryID == nil &&
		p.Title == nil && p.Description == nil && p.Content == nil
}

// ApplyStudyPatch returns a copy of s with the patch merged in. ID and
// CreatedAt are never modified.
func ApplyStudyPatch(s Study, p StudyPatch) Study {
	out := s
	if p.CategoryID != nil && *p.CategoryID != s.CategoryID {
		out.CategoryID = *p.CategoryID
		// The old folder belongs to the old category.
		out.SubCategoryID = nil
	}
	if p.SubCategoryID != nil {
		out.SubCategoryID = normalizeSub(p.SubCategoryID)
	}
	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.Content != nil {
		out.Content = *p.Content
	}
	out.ID = s.ID
	out.CreatedAt = s.CreatedAt
	return out
}

// VideoFields carries the input for creating a video.
type VideoFields struct {
	CategoryID    string
	SubCategoryID *string
	Title         string
	Description   string
	Content       string
	Duration      *string
	ThumbnailURL  *string
	VideoURL      *string
}

// VideoPatch describes a partial video update. Optional string fields set to
// "" are cleared.
type VideoPatch struct {
	CategoryID    *string
	SubCategoryID *string
	Title         *string
	Description   *string
	Content       *string
	Duration      *string
	ThumbnailURL  *string
	VideoURL      *string
}

// ApplyVideoPatch returns a copy of v with the patch merged in.
func ApplyVideoPatch(v Video, p VideoPatch) Video {
	out := v
	if p.CategoryID != nil && *p.CategoryID != v.CategoryID {
		out.CategoryID = *p.CategoryID
		out.SubCategoryID = nil
	}
	if p.SubCategoryID != nil {
		out.SubCategoryID = normalizeSub(p.SubCategoryID)
	}
	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.Content != nil {
		out.Content = *p.Content
	}
	if p.Duration != nil {
		out.Duration = normalizeSub(p.Duration)
	}
	if p.ThumbnailURL != nil {
		out.ThumbnailURL = normalizeSub(p.ThumbnailURL)
	}
	if p.VideoURL != nil {
		out.VideoURL = normalizeSub(p.VideoURL)
	}
	out.ID = v.ID
	out.CreatedAt = v.CreatedAt
	return out
}

// normalizeSub copies an optional string trimmed of surrounding space,
// mapping blank values to nil.
func normalizeSub(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// StringPtr returns a pointer to s. Handy for building patches.
func StringPtr(s string) *string {
	return &s
}
