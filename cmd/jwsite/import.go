package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jwdigital/jwsite/content"
	"github.com/jwdigital/jwsite/importer"
)

func newImportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import [dir]",
		Short: "Import a content directory into the store",
		Long: `Import settings.yaml, pages/*.yaml and posts/*.md from dir (default:
the configured content_dir). Stored documents without a source file are removed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.siteConfig()
			if err != nil {
				return err
			}
			dir := cfg.ContentDir
			if len(args) == 1 {
				dir = args[0]
			}

			store, err := content.NewStore(cfg.DatabasePath)
			if err != nil {
				return err
			}
			defer store.Close()

			res, err := importer.Import(cmd.Context(), store, dir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d settings, %d pages, %d posts (%d drafts), removed %d\n",
				res.Settings, res.Pages, res.Posts, res.Drafts, res.Removed)
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the jwsite version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "jwsite %s\n", version)
		},
	}
}
