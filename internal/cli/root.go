// Package cli implements the discovery command line: browsing the catalog,
// managing saved items and, for the admin, editing studies and videos.
package cli

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// NewRootCmd builds the discovery command tree.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "discovery",
		Short: "Browse and manage the Journey to Discovery study catalog",
		Long: `Discovery browses categories, studies and videos, keeps a list of saved
items, and lets the admin add, edit and delete content.

Storage is selected with STORE_BACKEND (memory, sqlite, postgres, valkey, s3).`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringP("output", "o", formatTable, "output format: table, json or yaml")
	pf.String("username", "", "admin username for commands that change content")
	pf.String("password", "", "admin password for commands that change content")
	pf.String("totp", "", "admin one-time code when TOTP is enabled")

	cmd.AddCommand(
		newCategoriesCmd(),
		newCategoryCmd(),
		newStudiesCmd(),
		newVideosCmd(),
		newStudyCmd(),
		newVideoCmd(),
		newSaveCmd(),
		newUnsaveCmd(),
		newSavedCmd(),
		newAdminCmd(),
	)

	return cmd
}
