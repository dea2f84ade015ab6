package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"discovery/internal/models"
)

func newSaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "save <study|video> <id>",
		Short:     "Save a study or video for later",
		Args:      cobra.MatchAll(cobra.ExactArgs(2), kindArg),
		ValidArgs: []string{"study", "video"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				var err error
				if args[0] == "study" {
					err = a.eng.SaveStudy(args[1])
				} else {
					err = a.eng.SaveVideo(args[1])
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "saved %s %s\n", args[0], args[1])
				return nil
			})
		},
	}
}

func newUnsaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "unsave <study|video> <id>",
		Short:     "Remove a study or video from saved items",
		Args:      cobra.MatchAll(cobra.ExactArgs(2), kindArg),
		ValidArgs: []string{"study", "video"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				if args[0] == "study" {
					a.eng.UnsaveStudy(args[1])
				} else {
					a.eng.UnsaveVideo(args[1])
				}
				fmt.Fprintf(cmd.OutOrStdout(), "unsaved %s %s\n", args[0], args[1])
				return nil
			})
		},
	}
}

func kindArg(cmd *cobra.Command, args []string) error {
	switch args[0] {
	case "study", "video":
		return nil
	}
	return fmt.Errorf("first argument must be study or video, got %q", args[0])
}

type savedView struct {
	Studies    []models.Study `json:"studies" yaml:"studies"`
	Videos     []models.Video `json:"videos" yaml:"videos"`
	StudyCount int            `json:"study_count" yaml:"study_count"`
	VideoCount int            `json:"video_count" yaml:"video_count"`
}

func newSavedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "saved",
		Short: "List saved studies and videos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				view := savedView{Studies: a.eng.SavedStudies(), Videos: a.eng.SavedVideos()}
				view.StudyCount, view.VideoCount = a.eng.SavedCounts()
				return render(cmd, view, func(w io.Writer) {
					fmt.Fprintf(w, "%d saved studies, %d saved videos\n\n", view.StudyCount, view.VideoCount)
					writeStudies(w, view.Studies)
					fmt.Fprintln(w)
					writeVideos(w, view.Videos)
				})
			})
		},
	}
}
