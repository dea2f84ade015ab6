package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"discovery/internal/models"
)

func newStudyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "study",
		Short: "Show, add, update or delete a study",
	}
	cmd.AddCommand(newStudyShowCmd(), newStudyAddCmd(), newStudyUpdateCmd(), newStudyDeleteCmd())
	return cmd
}

func newStudyShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a study with its full content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				s := a.eng.StudyByID(args[0])
				if s == nil {
					return fmt.Errorf("study %q not found", args[0])
				}
				return render(cmd, s, func(w io.Writer) { writeStudyDetail(w, a, s) })
			})
		},
	}
}

// studyInput collects study flags. Only flags the user set end up in a patch.
type studyInput struct {
	category    string
	sub         string
	title       string
	description string
	content     string
	contentFile string
}

func (in *studyInput) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&in.category, "category", "", "category id")
	f.StringVar(&in.sub, "sub", "", "sub-category id (empty places the study at the category root)")
	f.StringVar(&in.title, "title", "", "title")
	f.StringVar(&in.description, "description", "", "short description")
	f.StringVar(&in.content, "content", "", "body text")
	f.StringVar(&in.contentFile, "content-file", "", "read body text from a file")
	cmd.MarkFlagsMutuallyExclusive("content", "content-file")
}

func (in *studyInput) body() (string, error) {
	if in.contentFile == "" {
		return in.content, nil
	}
	data, err := os.ReadFile(in.contentFile)
	if err != nil {
		return "", fmt.Errorf("read content: %w", err)
	}
	return string(data), nil
}

func newStudyAddCmd() *cobra.Command {
	var in studyInput

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a study (admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := in.body()
			if err != nil {
				return err
			}
			return withApp(cmd, func(a *app) error {
				if err := requireAdmin(cmd, a); err != nil {
					return err
				}
				fields := models.StudyFields{
					CategoryID:  in.category,
					Title:       in.title,
					Description: in.description,
					Content:     content,
				}
				if in.sub != "" {
					fields.SubCategoryID = &in.sub
				}
				s, err := a.eng.AddStudy(fields)
				if err != nil {
					return err
				}
				return render(cmd, s, func(w io.Writer) { writeStudies(w, []models.Study{*s}) })
			})
		},
	}

	in.register(cmd)
	cmd.MarkFlagRequired("category")
	cmd.MarkFlagRequired("title")
	return cmd
}

func newStudyUpdateCmd() *cobra.Command {
	var in studyInput

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update fields of a study (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var p models.StudyPatch
			f := cmd.Flags()
			if f.Changed("category") {
				p.CategoryID = &in.category
			}
			if f.Changed("sub") {
				p.SubCategoryID = &in.sub
			}
			if f.Changed("title") {
				p.Title = &in.title
			}
			if f.Changed("description") {
				p.Description = &in.description
			}
			if f.Changed("content") || f.Changed("content-file") {
				content, err := in.body()
				if err != nil {
					return err
				}
				p.Content = &content
			}
			if p.IsEmpty() {
				return fmt.Errorf("nothing to update")
			}

			return withApp(cmd, func(a *app) error {
				if err := requireAdmin(cmd, a); err != nil {
					return err
				}
				s, err := a.eng.UpdateStudy(args[0], p)
				if err != nil {
					return err
				}
				return render(cmd, s, func(w io.Writer) { writeStudies(w, []models.Study{*s}) })
			})
		},
	}

	in.register(cmd)
	return cmd
}

func newStudyDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a study (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				if err := requireAdmin(cmd, a); err != nil {
					return err
				}
				if err := a.eng.DeleteStudy(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted study %s\n", args[0])
				return nil
			})
		},
	}
}

func newVideoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "video",
		Short: "Show, add, update or delete a video",
	}
	cmd.AddCommand(newVideoShowCmd(), newVideoAddCmd(), newVideoUpdateCmd(), newVideoDeleteCmd())
	return cmd
}

func newVideoShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				v := a.eng.VideoByID(args[0])
				if v == nil {
					return fmt.Errorf("video %q not found", args[0])
				}
				return render(cmd, v, func(w io.Writer) { writeVideoDetail(w, a, v) })
			})
		},
	}
}

type videoInput struct {
	studyInput
	duration  string
	thumbnail string
	url       string
}

func (in *videoInput) register(cmd *cobra.Command) {
	in.studyInput.register(cmd)
	f := cmd.Flags()
	f.StringVar(&in.duration, "duration", "", "running time, e.g. 12:40")
	f.StringVar(&in.thumbnail, "thumbnail", "", "thumbnail image URL")
	f.StringVar(&in.url, "url", "", "video source URL")
}

func newVideoAddCmd() *cobra.Command {
	var in videoInput

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a video (admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := in.body()
			if err != nil {
				return err
			}
			return withApp(cmd, func(a *app) error {
				if err := requireAdmin(cmd, a); err != nil {
					return err
				}
				fields := models.VideoFields{
					CategoryID:    in.category,
					SubCategoryID: models.StringPtr(in.sub),
					Title:         in.title,
					Description:   in.description,
					Content:       content,
					Duration:      models.StringPtr(in.duration),
					ThumbnailURL:  models.StringPtr(in.thumbnail),
					VideoURL:      models.StringPtr(in.url),
				}
				v, err := a.eng.AddVideo(fields)
				if err != nil {
					return err
				}
				return render(cmd, v, func(w io.Writer) { writeVideos(w, []models.Video{*v}) })
			})
		},
	}

	in.register(cmd)
	cmd.MarkFlagRequired("category")
	cmd.MarkFlagRequired("title")
	return cmd
}

func newVideoUpdateCmd() *cobra.Command {
	var in videoInput

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update fields of a video (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var p models.VideoPatch
			f := cmd.Flags()
			set := func(name string, dst **string, val *string) {
				if f.Changed(name) {
					*dst = val
				}
			}
			set("category", &p.CategoryID, &in.category)
			set("sub", &p.SubCategoryID, &in.sub)
			set("title", &p.Title, &in.title)
			set("description", &p.Description, &in.description)
			set("duration", &p.Duration, &in.duration)
			set("thumbnail", &p.ThumbnailURL, &in.thumbnail)
			set("url", &p.VideoURL, &in.url)
			if f.Changed("content") || f.Changed("content-file") {
				content, err := in.body()
				if err != nil {
					return err
				}
				p.Content = &content
			}
			if p == (models.VideoPatch{}) {
				return fmt.Errorf("nothing to update")
			}

			return withApp(cmd, func(a *app) error {
				if err := requireAdmin(cmd, a); err != nil {
					return err
				}
				v, err := a.eng.UpdateVideo(args[0], p)
				if err != nil {
					return err
				}
				return render(cmd, v, func(w io.Writer) { writeVideos(w, []models.Video{*v}) })
			})
		},
	}

	in.register(cmd)
	return cmd
}

func newVideoDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a video (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				if err := requireAdmin(cmd, a); err != nil {
					return err
				}
				if err := a.eng.DeleteVideo(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted video %s\n", args[0])
				return nil
			})
		},
	}
}

func writeStudyDetail(w io.Writer, a *app, s *models.Study) {
	fmt.Fprintf(w, "ID:\t%s\n", s.ID)
	fmt.Fprintf(w, "Title:\t%s\n", s.Title)
	fmt.Fprintf(w, "Category:\t%s\n", s.CategoryID)
	fmt.Fprintf(w, "Folder:\t%s\n", deref(s.SubCategoryID))
	fmt.Fprintf(w, "Created:\t%s\n", s.CreatedAt.Format("2006-01-02"))
	fmt.Fprintf(w, "Saved:\t%t\n", a.eng.IsStudySaved(s.ID))
	fmt.Fprintf(w, "\n%s\n\n%s\n", s.Description, s.Content)
}

func writeVideoDetail(w io.Writer, a *app, v *models.Video) {
	fmt.Fprintf(w, "ID:\t%s\n", v.ID)
	fmt.Fprintf(w, "Title:\t%s\n", v.Title)
	fmt.Fprintf(w, "Category:\t%s\n", v.CategoryID)
	fmt.Fprintf(w, "Folder:\t%s\n", deref(v.SubCategoryID))
	fmt.Fprintf(w, "Duration:\t%s\n", deref(v.Duration))
	fmt.Fprintf(w, "Video:\t%s\n", deref(v.VideoURL))
	fmt.Fprintf(w, "Created:\t%s\n", v.CreatedAt.Format("2006-01-02"))
	fmt.Fprintf(w, "Saved:\t%t\n", a.eng.IsVideoSaved(v.ID))
	fmt.Fprintf(w, "\n%s\n", v.Description)
	if v.Content != "" {
		fmt.Fprintf(w, "\n%s\n", v.Content)
	}
}
