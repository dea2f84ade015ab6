// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// Study is a text content item filed under a category and, optionally, one
// of that category's sub-categories. A nil SubCategoryID means the study
// sits directly under its category.
type Study struct {
	ID            string    `json:"id" yaml:"id"`
	CategoryID    string    `json:"category_id" yaml:"category_id"`
	SubCategoryID *string   `json:"sub_category_id,omitempty" yaml:"sub_category_id,omitempty"`
	Title         string    `json:"title" yaml:"title"`
	Description   string    `json:"description" yaml:"description"`
	Content       string    `json:"content" yaml:"content"`
	CreatedAt     time.Time `json:"created_at" yaml:"created_at"`
}

// Video has the same placement rules as Study plus playback metadata.
type Video struct {
	ID            string    `json:"id" yaml:"id"`
	CategoryID    string    `json:"category_id" yaml:"category_id"`
	SubCategoryID *string   `json:"sub_category_id,omitempty" yaml:"sub_category_id,omitempty"`
	Title         string    `json:"title" yaml:"title"`
	Description   string    `json:"description" yaml:"description"`
	Content       string    `json:"content,omitempty" yaml:"content,omitempty"`
	Duration      *string   `json:"duration,omitempty" yaml:"duration,omitempty"`
	ThumbnailURL  *string   `json:"thumbnail_url,omitempty" yaml:"thumbnail_url,omitempty"`
	VideoURL      *string   `json:"video_url,omitempty" yaml:"video_url,omitempty"`
	CreatedAt     time.Time `json:"created_at" yaml:"created_at"`
}

// InSubCategory reports whether a placement matches a sub-category filter.
// A nil filter only matches items placed directly under the category.
func InSubCategory(placed, filter *string) bool {
	if filter == nil {
		return placed == nil
	}
	return placed != nil && *placed == *filter
}

// Clone returns a deep copy so callers cannot alias stored pointers.
func (s Study) Clone() Study {
	s.SubCategoryID = clonePtr(s.SubCategoryID)
	return s
}

// Clone returns a deep copy so callers cannot alias stored pointers.
func (v Video) Clone() Video {
	v.SubCategoryID = clonePtr(v.SubCategoryID)
	v.Duration = clonePtr(v.Duration)
	v.ThumbnailURL = clonePtr(v.ThumbnailURL)
	v.VideoURL = clonePtr(v.VideoURL)
	return v
}

func clonePtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
