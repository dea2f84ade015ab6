// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the catalog entities shared by the store, the
// engine and the presentation layer.
package models

// Category is a top-level grouping of studies and videos. Categories are
// created from seed data and never change at runtime.
type Category struct {
	ID              string `json:"id" yaml:"id"`
	Name            string `json:"name" yaml:"name"`
	Icon            string `json:"icon" yaml:"icon"`
	Color           string `json:"color" yaml:"color"`
	BackgroundColor string `json:"background_color" yaml:"background_color"`
}

// SubCategory is a folder nested under exactly one Category.
type SubCategory struct {
	ID               string `json:"id" yaml:"id"`
	ParentCategoryID string `json:"parent_category_id" yaml:"parent_category_id"`
	Name             string `json:"name" yaml:"name"`
	Description      string `json:"description" yaml:"description"`
}

// CategoryStats is a Category with aggregates computed at read time.
type CategoryStats struct {
	Category
	TotalItems     int `json:"total_items" yaml:"total_items"`
	StudyCount     int `json:"study_count" yaml:"study_count"`
	VideoCount     int `json:"video_count" yaml:"video_count"`
	SubFolderCount int `json:"sub_folder_count" yaml:"sub_folder_count"`
}
