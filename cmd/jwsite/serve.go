package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jwdigital/jwsite"
	"github.com/jwdigital/jwsite/content"
	"github.com/jwdigital/jwsite/importer"
	"github.com/jwdigital/jwsite/logger"
)

const watchDebounce = 300 * time.Millisecond

func newServeCmd(opts *rootOptions) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the site",
		Long: `Serve the site from the content store. With --watch the content
directory is imported on start and re-imported whenever it changes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.siteConfig()
			if err != nil {
				return err
			}
			log, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer log.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app := jwsite.New(cfg, jwsite.WithLogger(log))
			defer app.Close()
			if err := app.Setup(); err != nil {
				return err
			}

			if watch {
				dir := app.Config.ContentDir
				reimport := func() {
					runImport(ctx, log, app.Store, dir)
					app.Cache.Invalidate()
				}
				reimport()
				go func() {
					if err := importer.Watch(ctx, dir, watchDebounce, reimport); err != nil {
						log.Error("content watch stopped", logger.Error(err))
					}
				}()
			}

			return app.Start(ctx)
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "import the content directory and re-import on change")
	return cmd
}

func runImport(ctx context.Context, log logger.Logger, store *content.Store, dir string) {
	start := time.Now()
	res, err := importer.Import(ctx, store, dir)
	if err != nil {
		log.Error("content import failed", logger.String("dir", dir), logger.Error(err))
		return
	}
	log.Info("content imported",
		logger.String("dir", dir),
		logger.Int("pages", res.Pages),
		logger.Int("posts", res.Posts),
		logger.Int("drafts", res.Drafts),
		logger.Int("removed", res.Removed),
		logger.Duration("took", time.Since(start)),
	)
}
