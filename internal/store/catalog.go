// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store holds the in-memory catalog (categories, sub-categories,
// studies and videos) and the saved-items index. Neither type is safe for
// concurrent use; the engine serializes access.
package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"discovery/internal/models"
)

// Seed is the initial catalog content.
type Seed struct {
	Categories    []models.Category    `json:"categories" yaml:"categories"`
	SubCategories []models.SubCategory `json:"sub_categories" yaml:"sub_categories"`
	Studies       []models.Study       `json:"studies" yaml:"studies"`
	Videos        []models.Video       `json:"videos" yaml:"videos"`
}

// Catalog is the authoritative holder of the category tree and content.
// Query methods return copies.
type Catalog struct {
	categories    []models.Category
	subCategories []models.SubCategory
	studies       []models.Study
	videos        []models.Video

	categoryIndex    map[string]int
	subCategoryIndex map[string]int

	// seed* remember what shipped with the catalog; touched* what was added
	// or edited since. Together they produce the persisted overrides.
	seedStudies    map[string]struct{}
	seedVideos     map[string]struct{}
	touchedStudies map[string]struct{}
	touchedVideos  map[string]struct{}

	now   func() time.Time
	newID func() string
}

// NewCatalog builds a catalog from seed data. It returns an error if the
// seed breaks an identifier or reference invariant.
func NewCatalog(seed Seed) (*Catalog, error) {
	c := &Catalog{
		categoryIndex:    make(map[string]int, len(seed.Categories)),
		subCategoryIndex: make(map[string]int, len(seed.SubCategories)),
		seedStudies:      make(map[string]struct{}, len(seed.Studies)),
		seedVideos:       make(map[string]struct{}, len(seed.Videos)),
		touchedStudies:   make(map[string]struct{}),
		touchedVideos:    make(map[string]struct{}),
		now:              time.Now,
		newID:            uuid.NewString,
	}

	for _, cat := range seed.Categories {
		if cat.ID == "" {
			return nil, fmt.Errorf("seed category %q: empty id", cat.Name)
		}
		if _, dup := c.categoryIndex[cat.ID]; dup {
			return nil, fmt.Errorf("seed category %q: duplicate id", cat.ID)
		}
		c.categoryIndex[cat.ID] = len(c.categories)
		c.categories = append(c.categories, cat)
	}

	for _, sub := range seed.SubCategories {
		if sub.ID == "" {
			return nil, fmt.Errorf("seed sub-category %q: empty id", sub.Name)
		}
		if _, dup := c.subCategoryIndex[sub.ID]; dup {
			return nil, fmt.Errorf("seed sub-category %q: duplicate id", sub.ID)
		}
		if _, ok := c.categoryIndex[sub.ParentCategoryID]; !ok {
			return nil, fmt.Errorf("seed sub-category %q: unknown category %q", sub.ID, sub.ParentCategoryID)
		}
		c.subCategoryIndex[sub.ID] = len(c.subCategories)
		c.subCategories = append(c.subCategories, sub)
	}

	for _, s := range seed.Studies {
		if s.ID == "" {
			return nil, fmt.Errorf("seed study %q: empty id", s.Title)
		}
		if _, dup := c.seedStudies[s.ID]; dup {
			return nil, fmt.Errorf("seed study %q: duplicate id", s.ID)
		}
		if err := c.checkPlacement(s.CategoryID, s.SubCategoryID); err != nil {
			return nil, fmt.Errorf("seed study %q: %w", s.ID, err)
		}
		c.seedStudies[s.ID] = struct{}{}
		c.studies = append(c.studies, s.Clone())
	}

	for _, v := range seed.Videos {
		if v.ID == "" {
			return nil, fmt.Errorf("seed video %q: empty id", v.Title)
		}
		if _, dup := c.seedVideos[v.ID]; dup {
			return nil, fmt.Errorf("seed video %q: duplicate id", v.ID)
		}
		if err := c.checkPlacement(v.CategoryID, v.SubCategoryID); err != nil {
			return nil, fmt.Errorf("seed video %q: %w", v.ID, err)
		}
		c.seedVideos[v.ID] = struct{}{}
		c.videos = append(c.videos, v.Clone())
	}

	return c, nil
}

// SetClock replaces the timestamp source used for new content.
func (c *Catalog) SetClock(now func() time.Time) {
	c.now = now
}

// SetIDGenerator replaces the identifier source used for new content.
func (c *Catalog) SetIDGenerator(newID func() string) {
	c.newID = newID
}

// checkPlacement verifies that a category exists and that an optional
// sub-category belongs to it.
func (c *Catalog) checkPlacement(categoryID string, subCategoryID *string) error {
	if _, ok := c.categoryIndex[categoryID]; !ok {
		return invalid("category_id", fmt.Sprintf("unknown category %q", categoryID))
	}
	if subCategoryID == nil {
		return nil
	}
	i, ok := c.subCategoryIndex[*subCategoryID]
	if !ok {
		return invalid("sub_category_id", fmt.Sprintf("unknown sub-category %q", *subCategoryID))
	}
	if c.subCategories[i].ParentCategoryID != categoryID {
		return invalid("sub_category_id", fmt.Sprintf("sub-category %q does not belong to category %q", *subCategoryID, categoryID))
	}
	return nil
}

// --- Categories ---

// Categories returns all categories in seed order.
func (c *Catalog) Categories() []models.Category {
	out := make([]models.Category, len(c.categories))
	copy(out, c.categories)
	return out
}

// CategoryByID retrieves a category. Returns nil if not found.
func (c *Catalog) CategoryByID(id string) *models.Category {
	i, ok := c.categoryIndex[id]
	if !ok {
		return nil
	}
	cat := c.categories[i]
	return &cat
}

// SubCategoriesByCategory returns the sub-categories whose parent is categoryID.
func (c *Catalog) SubCategoriesByCategory(categoryID string) []models.SubCategory {
	var out []models.SubCategory
	for _, sub := range c.subCategories {
		if sub.ParentCategoryID == categoryID {
			out = append(out, sub)
		}
	}
	return out
}

// SubCategoryByID retrieves a sub-category. Returns nil if not found.
func (c *Catalog) SubCategoryByID(id string) *models.SubCategory {
	i, ok := c.subCategoryIndex[id]
	if !ok {
		return nil
	}
	sub := c.subCategories[i]
	return &sub
}

// CategoryStats returns every category with item and folder counts. The
// counts are computed from a full scan on each call.
func (c *Catalog) CategoryStats() []models.CategoryStats {
	out := make([]models.CategoryStats, 0, len(c.categories))
	for _, cat := range c.categories {
		st := models.CategoryStats{Category: cat}
		for _, s := range c.studies {
			if s.CategoryID == cat.ID {
				st.StudyCount++
			}
		}
		for _, v := range c.videos {
			if v.CategoryID == cat.ID {
				st.VideoCount++
			}
		}
		for _, sub := range c.subCategories {
			if sub.ParentCategoryID == cat.ID {
				st.SubFolderCount++
			}
		}
		st.TotalItems = st.StudyCount + st.VideoCount
		out = append(out, st)
	}
	return out
}

// SubCategoryItemCount returns the number of studies and videos filed in a
// sub-category. Returns 0 for an unknown sub-category.
func (c *Catalog) SubCategoryItemCount(subCategoryID string) int {
	sub := c.SubCategoryByID(subCategoryID)
	if sub == nil {
		return 0
	}
	return len(c.StudiesByCategory(sub.ParentCategoryID, &subCategoryID)) +
		len(c.VideosByCategory(sub.ParentCategoryID, &subCategoryID))
}

// --- Studies ---

// Studies returns every study in catalog order.
func (c *Catalog) Studies() []models.Study {
	out := make([]models.Study, 0, len(c.studies))
	for _, s := range c.studies {
		out = append(out, s.Clone())
	}
	return out
}

// StudyByID retrieves a study. Returns nil if not found.
func (c *Catalog) StudyByID(id string) *models.Study {
	i := c.studyIndex(id)
	if i < 0 {
		return nil
	}
	s := c.studies[i].Clone()
	return &s
}

// HasStudy reports whether a study with the given id exists.
func (c *Catalog) HasStudy(id string) bool {
	return c.studyIndex(id) >= 0
}

// StudiesByCategory returns the studies in a category whose sub-category
// equals subCategoryID. A nil subCategoryID returns only studies placed
// directly under the category.
func (c *Catalog) StudiesByCategory(categoryID string, subCategoryID *string) []models.Study {
	var out []models.Study
	for _, s := range c.studies {
		if s.CategoryID == categoryID && models.InSubCategory(s.SubCategoryID, subCategoryID) {
			out = append(out, s.Clone())
		}
	}
	return out
}

// SearchStudies matches query case-insensitively against title and
// description. An empty categoryID searches every category.
func (c *Catalog) SearchStudies(query, categoryID string) []models.Study {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []models.Study
	for _, s := range c.studies {
		if categoryID != "" && s.CategoryID != categoryID {
			continue
		}
		if matches(q, s.Title, s.Description) {
			out = append(out, s.Clone())
		}
	}
	return out
}

// AddStudy validates the fields, assigns an id and creation time and
// appends the study.
func (c *Catalog) AddStudy(f models.StudyFields) (*models.Study, error) {
	if err := validateStudyText(f.Title, f.Description, f.Content); err != nil {
		return nil, err
	}
	sub := nonEmpty(f.SubCategoryID)
	if err := c.checkPlacement(f.CategoryID, sub); err != nil {
		return nil, err
	}

	s := models.Study{
		ID:            c.uniqueID(c.HasStudy),
		CategoryID:    f.CategoryID,
		SubCategoryID: sub,
		Title:         strings.TrimSpace(f.Title),
		Description:   strings.TrimSpace(f.Description),
		Content:       f.Content,
		CreatedAt:     c.now(),
	}
	c.studies = append(c.studies, s)
	c.touchedStudies[s.ID] = struct{}{}

	out := s.Clone()
	return &out, nil
}

// UpdateStudy merges a patch over an existing study, keeping its id and
// creation time.
func (c *Catalog) UpdateStudy(id string, p models.StudyPatch) (*models.Study, error) {
	i := c.studyIndex(id)
	if i < 0 {
		return nil, &NotFoundError{Kind: "study", ID: id}
	}

	merged := models.ApplyStudyPatch(c.studies[i], p)
	if err := validateStudyText(merged.Title, merged.Description, merged.Content); err != nil {
		return nil, err
	}
	if err := c.checkPlacement(merged.CategoryID, merged.SubCategoryID); err != nil {
		return nil, err
	}
	merged.Title = strings.TrimSpace(merged.Title)
	merged.Description = strings.TrimSpace(merged.Description)

	c.studies[i] = merged
	c.touchedStudies[id] = struct{}{}

	out := merged.Clone()
	return &out, nil
}

// DeleteStudy removes a study. Returns a *NotFoundError for an unknown id.
func (c *Catalog) DeleteStudy(id string) error {
	i := c.studyIndex(id)
	if i < 0 {
		return &NotFoundError{Kind: "study", ID: id}
	}
	c.studies = append(c.studies[:i], c.studies[i+1:]...)
	delete(c.touchedStudies, id)
	return nil
}

func (c *Catalog) studyIndex(id string) int {
	for i := range c.studies {
		if c.studies[i].ID == id {
			return i
		}
	}
	return -1
}

// --- Videos ---

// Videos returns every video in catalog order.
func (c *Catalog) Videos() []models.Video {
	out := make([]models.Video, 0, len(c.videos))
	for _, v := range c.videos {
		out = append(out, v.Clone())
	}
	return out
}

// VideoByID retrieves a video. Returns nil if not found.
func (c *Catalog) VideoByID(id string) *models.Video {
	i := c.videoIndex(id)
	if i < 0 {
		return nil
	}
	v := c.videos[i].Clone()
	return &v
}

// HasVideo reports whether a video with the given id exists.
func (c *Catalog) HasVideo(id string) bool {
	return c.videoIndex(id) >= 0
}

// VideosByCategory mirrors StudiesByCategory.
func (c *Catalog) VideosByCategory(categoryID string, subCategoryID *string) []models.Video {
	var out []models.Video
	for _, v := range c.videos {
		if v.CategoryID == categoryID && models.InSubCategory(v.SubCategoryID, subCategoryID) {
			out = append(out, v.Clone())
		}
	}
	return out
}

// SearchVideos mirrors SearchStudies.
func (c *Catalog) SearchVideos(query, categoryID string) []models.Video {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []models.Video
	for _, v := range c.videos {
		if categoryID != "" && v.CategoryID != categoryID {
			continue
		}
		if matches(q, v.Title, v.Description) {
			out = append(out, v.Clone())
		}
	}
	return out
}

// AddVideo validates the fields, assigns an id and creation time and
// appends the video.
func (c *Catalog) AddVideo(f models.VideoFields) (*models.Video, error) {
	v := models.Video{
		CategoryID:    f.CategoryID,
		SubCategoryID: nonEmpty(f.SubCategoryID),
		Title:         strings.TrimSpace(f.Title),
		Description:   strings.TrimSpace(f.Description),
		Content:       f.Content,
		Duration:      nonEmpty(f.Duration),
		ThumbnailURL:  nonEmpty(f.ThumbnailURL),
		VideoURL:      nonEmpty(f.VideoURL),
	}
	if err := validateVideoFields(textOf(v)); err != nil {
		return nil, err
	}
	if err := c.checkPlacement(v.CategoryID, v.SubCategoryID); err != nil {
		return nil, err
	}

	v.ID = c.uniqueID(c.HasVideo)
	v.CreatedAt = c.now()
	c.videos = append(c.videos, v)
	c.touchedVideos[v.ID] = struct{}{}

	out := v.Clone()
	return &out, nil
}

// UpdateVideo merges a patch over an existing video.
func (c *Catalog) UpdateVideo(id string, p models.VideoPatch) (*models.Video, error) {
	i := c.videoIndex(id)
	if i < 0 {
		return nil, &NotFoundError{Kind: "video", ID: id}
	}

	merged := models.ApplyVideoPatch(c.videos[i], p)
	merged.Title = strings.TrimSpace(merged.Title)
	merged.Description = strings.TrimSpace(merged.Description)
	if err := validateVideoFields(textOf(merged)); err != nil {
		return nil, err
	}
	if err := c.checkPlacement(merged.CategoryID, merged.SubCategoryID); err != nil {
		return nil, err
	}

	c.videos[i] = merged
	c.touchedVideos[id] = struct{}{}

	out := merged.Clone()
	return &out, nil
}

// DeleteVideo removes a video. Returns a *NotFoundError for an unknown id.
func (c *Catalog) DeleteVideo(id string) error {
	i := c.videoIndex(id)
	if i < 0 {
		return &NotFoundError{Kind: "video", ID: id}
	}
	c.videos = append(c.videos[:i], c.videos[i+1:]...)
	delete(c.touchedVideos, id)
	return nil
}

func (c *Catalog) videoIndex(id string) int {
	for i := range c.videos {
		if c.videos[i].ID == id {
			return i
		}
	}
	return -1
}

// --- helpers ---

// uniqueID draws identifiers until one is unused.
func (c *Catalog) uniqueID(taken func(string) bool) string {
	for {
		id := c.newID()
		if id != "" && !taken(id) {
			return id
		}
	}
}

func matches(q string, fields ...string) bool {
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// nonEmpty copies an optional string, mapping "" to nil.
func nonEmpty(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

func textOf(v models.Video) videoText {
	return videoText{
		title:        v.Title,
		description:  v.Description,
		content:      v.Content,
		duration:     v.Duration,
		thumbnailURL: v.ThumbnailURL,
		videoURL:     v.VideoURL,
	}
}
