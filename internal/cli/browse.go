package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"discovery/internal/models"
)

func newCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List categories with item and folder counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				stats := a.eng.CategoryStats()
				return render(cmd, stats, func(w io.Writer) {
					fmt.Fprintln(w, "ID\tNAME\tSTUDIES\tVIDEOS\tTOTAL\tFOLDERS")
					for _, s := range stats {
						fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\n", s.ID, s.Name, s.StudyCount, s.VideoCount, s.TotalItems, s.SubFolderCount)
					}
				})
			})
		},
	}
}

type folderView struct {
	models.SubCategory `yaml:",inline"`
	Items              int `json:"items" yaml:"items"`
}

type categoryView struct {
	Category      models.Category `json:"category" yaml:"category"`
	SubCategories []folderView    `json:"sub_categories" yaml:"sub_categories"`
	Studies       []models.Study  `json:"studies" yaml:"studies"`
	Videos        []models.Video  `json:"videos" yaml:"videos"`
}

func newCategoryCmd() *cobra.Command {
	var sub string

	cmd := &cobra.Command{
		Use:   "category <id>",
		Short: "Show a category's folders and the items directly inside it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				cat := a.eng.CategoryByID(args[0])
				if cat == nil {
					return fmt.Errorf("category %q not found", args[0])
				}

				var subID *string
				if sub != "" {
					folder := a.eng.SubCategoryByID(sub)
					if folder == nil || folder.ParentCategoryID != cat.ID {
						return fmt.Errorf("sub-category %q not found in %q", sub, cat.ID)
					}
					subID = &sub
				}

				view := categoryView{
					Category: *cat,
					Studies:  a.eng.StudiesByCategory(cat.ID, subID),
					Videos:   a.eng.VideosByCategory(cat.ID, subID),
				}
				if subID == nil {
					for _, f := range a.eng.SubCategoriesByCategory(cat.ID) {
						view.SubCategories = append(view.SubCategories, folderView{SubCategory: f, Items: a.eng.SubCategoryItemCount(f.ID)})
					}
				}

				return render(cmd, view, func(w io.Writer) {
					fmt.Fprintf(w, "%s\t%s\n\n", view.Category.ID, view.Category.Name)
					if len(view.SubCategories) > 0 {
						fmt.Fprintln(w, "FOLDER\tNAME\tITEMS")
						for _, f := range view.SubCategories {
							fmt.Fprintf(w, "%s\t%s\t%d\n", f.ID, f.Name, f.Items)
						}
						fmt.Fprintln(w)
					}
					writeStudies(w, view.Studies)
					fmt.Fprintln(w)
					writeVideos(w, view.Videos)
				})
			})
		},
	}

	cmd.Flags().StringVar(&sub, "sub", "", "show a sub-category instead of the category root")
	return cmd
}

// listFlags are shared by the studies and videos commands.
type listFlags struct {
	query    string
	category string
	sub      string
	direct   bool
}

func (f *listFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.query, "query", "q", "", "match title or description")
	cmd.Flags().StringVarP(&f.category, "category", "c", "", "limit to a category")
	cmd.Flags().StringVar(&f.sub, "sub", "", "limit to a sub-category (requires --category)")
	cmd.Flags().BoolVar(&f.direct, "direct", false, "only items placed directly under --category")
}

// placement reports whether an exact placement filter was requested.
func (f *listFlags) placement() (bool, *string, error) {
	if f.sub == "" && !f.direct {
		return false, nil, nil
	}
	if f.category == "" {
		return false, nil, fmt.Errorf("--sub and --direct require --category")
	}
	if f.sub != "" && f.direct {
		return false, nil, fmt.Errorf("--sub and --direct are mutually exclusive")
	}
	if f.direct {
		return true, nil, nil
	}
	sub := f.sub
	return true, &sub, nil
}

func newStudiesCmd() *cobra.Command {
	var f listFlags

	cmd := &cobra.Command{
		Use:   "studies",
		Short: "List or search studies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			exact, sub, err := f.placement()
			if err != nil {
				return err
			}
			return withApp(cmd, func(a *app) error {
				var studies []models.Study
				if exact {
					studies = filterStudies(a.eng.StudiesByCategory(f.category, sub), a.eng.SearchStudies(f.query, f.category))
				} else {
					studies = a.eng.SearchStudies(f.query, f.category)
				}
				return render(cmd, studies, func(w io.Writer) { writeStudies(w, studies) })
			})
		},
	}

	f.register(cmd)
	return cmd
}

func newVideosCmd() *cobra.Command {
	var f listFlags

	cmd := &cobra.Command{
		Use:   "videos",
		Short: "List or search videos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			exact, sub, err := f.placement()
			if err != nil {
				return err
			}
			return withApp(cmd, func(a *app) error {
				var videos []models.Video
				if exact {
					videos = filterVideos(a.eng.VideosByCategory(f.category, sub), a.eng.SearchVideos(f.query, f.category))
				} else {
					videos = a.eng.SearchVideos(f.query, f.category)
				}
				return render(cmd, videos, func(w io.Writer) { writeVideos(w, videos) })
			})
		},
	}

	f.register(cmd)
	return cmd
}

// filterStudies keeps the items of placed that also appear in matched.
func filterStudies(placed, matched []models.Study) []models.Study {
	keep := make(map[string]bool, len(matched))
	for _, s := range matched {
		keep[s.ID] = true
	}
	var out []models.Study
	for _, s := range placed {
		if keep[s.ID] {
			out = append(out, s)
		}
	}
	return out
}

func filterVideos(placed, matched []models.Video) []models.Video {
	keep := make(map[string]bool, len(matched))
	for _, v := range matched {
		keep[v.ID] = true
	}
	var out []models.Video
	for _, v := range placed {
		if keep[v.ID] {
			out = append(out, v)
		}
	}
	return out
}

func writeStudies(w io.Writer, studies []models.Study) {
	fmt.Fprintln(w, "STUDY\tCATEGORY\tFOLDER\tTITLE\tDESCRIPTION")
	for _, s := range studies {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", s.ID, s.CategoryID, deref(s.SubCategoryID), truncate(s.Title, 40), truncate(s.Description, 50))
	}
}

func writeVideos(w io.Writer, videos []models.Video) {
	fmt.Fprintln(w, "VIDEO\tCATEGORY\tFOLDER\tTITLE\tDURATION")
	for _, v := range videos {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", v.ID, v.CategoryID, deref(v.SubCategoryID), truncate(v.Title, 40), deref(v.Duration))
	}
}
