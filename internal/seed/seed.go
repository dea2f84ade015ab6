// Package seed loads the initial catalog from YAML. The default catalog is
// embedded in the binary; a file on disk can replace it.
package seed

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"discovery/internal/models"
	"discovery/internal/slug"
	"discovery/internal/store"
)

//go:embed catalog.yaml
var defaultCatalog []byte

type fileCatalog struct {
	Categories []fileCategory `yaml:"categories"`
	Studies    []fileStudy    `yaml:"studies"`
	Videos     []fileVideo    `yaml:"videos"`
}

type fileCategory struct {
	ID              string            `yaml:"id"`
	Name            string            `yaml:"name"`
	Icon            string            `yaml:"icon"`
	Color           string            `yaml:"color"`
	BackgroundColor string            `yaml:"background_color"`
	SubCategories   []fileSubCategory `yaml:"sub_categories"`
}

type fileSubCategory struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

type fileStudy struct {
	ID          string    `yaml:"id"`
	Category    string    `yaml:"category"`
	SubCategory string    `yaml:"sub_category"`
	Title       string    `yaml:"title"`
	Description string    `yaml:"description"`
	Content     string    `yaml:"content"`
	CreatedAt   time.Time `yaml:"created_at"`
}

type fileVideo struct {
	ID           string    `yaml:"id"`
	Category     string    `yaml:"category"`
	SubCategory  string    `yaml:"sub_category"`
	Title        string    `yaml:"title"`
	Description  string    `yaml:"description"`
	Content      string    `yaml:"content"`
	Duration     string    `yaml:"duration"`
	ThumbnailURL string    `yaml:"thumbnail_url"`
	VideoURL     string    `yaml:"video_url"`
	CreatedAt    time.Time `yaml:"created_at"`
}

// Default returns the embedded seed.
func Default() (store.Seed, error) {
	return Parse(defaultCatalog)
}

// Load reads a seed file. An empty path returns the embedded seed.
func Load(path string) (store.Seed, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return store.Seed{}, fmt.Errorf("read seed %s: %w", path, err)
	}
	seed, err := Parse(data)
	if err != nil {
		return store.Seed{}, fmt.Errorf("seed %s: %w", path, err)
	}
	return seed, nil
}

// Parse decodes YAML seed data. Missing category, sub-category, study and
// video ids are derived from names and titles.
func Parse(data []byte) (store.Seed, error) {
	var f fileCatalog
	if err := yaml.Unmarshal(data, &f); err != nil {
		return store.Seed{}, fmt.Errorf("parse seed: %w", err)
	}

	var seed store.Seed
	catIDs := make(map[string]bool)
	subIDs := make(map[string]bool)

	for _, fc := range f.Categories {
		if strings.TrimSpace(fc.Name) == "" {
			return store.Seed{}, fmt.Errorf("category with empty name")
		}
		id := fc.ID
		if id == "" {
			id = slug.Unique(slug.Generate(fc.Name), func(s string) bool { return catIDs[s] })
		}
		catIDs[id] = true
		seed.Categories = append(seed.Categories, models.Category{
			ID:              id,
			Name:            fc.Name,
			Icon:            fc.Icon,
			Color:           fc.Color,
			BackgroundColor: fc.BackgroundColor,
		})

		for _, fs := range fc.SubCategories {
			subID := fs.ID
			if subID == "" {
				subID = slug.Unique(slug.Generate(fs.Name), func(s string) bool { return subIDs[s] })
			}
			subIDs[subID] = true
			seed.SubCategories = append(seed.SubCategories, models.SubCategory{
				ID:               subID,
				ParentCategoryID: id,
				Name:             fs.Name,
				Description:      fs.Description,
			})
		}
	}

	studyIDs := make(map[string]bool)
	for _, fs := range f.Studies {
		id := fs.ID
		if id == "" {
			id = slug.Unique(slug.Generate(fs.Title), func(s string) bool { return studyIDs[s] })
		}
		studyIDs[id] = true
		seed.Studies = append(seed.Studies, models.Study{
			ID:            id,
			CategoryID:    fs.Category,
			SubCategoryID: optional(fs.SubCategory),
			Title:         fs.Title,
			Description:   fs.Description,
			Content:       fs.Content,
			CreatedAt:     fs.CreatedAt,
		})
	}

	videoIDs := make(map[string]bool)
	for _, fv := range f.Videos {
		id := fv.ID
		if id == "" {
			id = slug.Unique(slug.Generate(fv.Title), func(s string) bool { return videoIDs[s] })
		}
		videoIDs[id] = true
		seed.Videos = append(seed.Videos, models.Video{
			ID:            id,
			CategoryID:    fv.Category,
			SubCategoryID: optional(fv.SubCategory),
			Title:         fv.Title,
			Description:   fv.Description,
			Content:       fv.Content,
			Duration:      optional(fv.Duration),
			ThumbnailURL:  optional(fv.ThumbnailURL),
			VideoURL:      optional(fv.VideoURL),
			CreatedAt:     fv.CreatedAt,
		})
	}

	return seed, nil
}

// Catalog loads the seed at path (or the embedded one) and builds a catalog.
func Catalog(path string) (*store.Catalog, error) {
	seed, err := Load(path)
	if err != nil {
		return nil, err
	}
	c, err := store.NewCatalog(seed)
	if err != nil {
		return nil, fmt.Errorf("build catalog: %w", err)
	}
	return c, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
