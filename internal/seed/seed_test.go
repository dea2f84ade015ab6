package seed

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := Catalog("")
	if err != nil {
		t.Fatalf("Catalog: %v", err)
	}

	cats := c.Categories()
	if len(cats) != 4 {
		t.Fatalf("categories: got %d, want 4", len(cats))
	}
	wantIDs := []string{"old-testament", "gospels", "prayer", "prophecy"}
	for i, want := range wantIDs {
		if cats[i].ID != want {
			t.Errorf("category %d: got %q, want %q", i, cats[i].ID, want)
		}
	}

	sub := c.SubCategoryByID("the-lords-prayer")
	if sub == nil {
		t.Fatal("sub-category the-lords-prayer missing")
	}
	if sub.ParentCategoryID != "prayer" {
		t.Errorf("parent: got %q, want prayer", sub.ParentCategoryID)
	}

	if !c.HasStudy("the-prodigal-son") {
		t.Error("study id not derived from title")
	}
	v := c.VideoByID("feeding-the-five-thousand")
	if v == nil {
		t.Fatal("video missing")
	}
	if v.Duration == nil || *v.Duration != "12:40" {
		t.Errorf("duration: got %v", v.Duration)
	}
	if v.CreatedAt.IsZero() {
		t.Error("created_at not parsed")
	}
}

func TestParseDerivesUniqueIDs(t *testing.T) {
	seed, err := Parse([]byte(`
categories:
  - name: Psalms
    sub_categories:
      - name: Laments
      - name: Laments
  - name: Psalms
studies:
  - category: psalms
    title: Psalm 22
  - category: psalms
    title: Psalm 22
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if seed.Categories[0].ID != "psalms" || seed.Categories[1].ID != "psalms-2" {
		t.Errorf("category ids: %q, %q", seed.Categories[0].ID, seed.Categories[1].ID)
	}
	if seed.SubCategories[1].ID != "laments-2" {
		t.Errorf("sub-category id: %q", seed.SubCategories[1].ID)
	}
	if seed.Studies[1].ID != "psalm-22-2" {
		t.Errorf("study id: %q", seed.Studies[1].ID)
	}
	if seed.Studies[0].SubCategoryID != nil {
		t.Error("empty sub_category should map to nil")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"malformed", "categories: [name: ["},
		{"empty category name", "categories:\n  - icon: book\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.yaml)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestCatalogRejectsBrokenReferences(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	data := `
categories:
  - name: Gospels
studies:
  - category: epistles
    title: Romans 8
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Catalog(path)
	if err == nil {
		t.Fatal("expected error for unknown category")
	}
	if !strings.Contains(err.Error(), "epistles") {
		t.Errorf("error should name the category, got: %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
