package main

import (
	"github.com/spf13/cobra"

	"github.com/markdave123-py/dmpart/internal/app"
	"github.com/markdave123-py/dmpart/internal/config"
	artifactstore "github.com/markdave123-py/dmpart/internal/core/artifact_store"
	"github.com/markdave123-py/dmpart/internal/core/schema"
	"github.com/markdave123-py/dmpart/internal/logger"
	"github.com/markdave123-py/dmpart/internal/services"
)

// options are the persistent flags shared by every subcommand.
type options struct {
	cacheDir   string
	schemaPath string
	verbose    bool
}

func newRootCommand() *cobra.Command {
	cfg := config.LoadConfig()
	opts := &options{}

	root := &cobra.Command{
		Use:           "dmpctl",
		Short:         "Extract Data Management Plans into structured artifacts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.cacheDir, "cache-dir", cfg.CacheDir, "artifact cache directory")
	root.PersistentFlags().StringVar(&opts.schemaPath, "schema", cfg.SchemaPath, "schema override file (JSON or YAML)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log pipeline stages to stderr")

	root.AddCommand(
		newProcessCommand(cfg, opts),
		newBatchCommand(cfg, opts),
		newShowCommand(opts),
	)
	return root
}

// pipeline builds a ledger-less, mirror-less document service for local runs.
func pipeline(cfg *config.Config, opts *options) (*services.DocumentService, *artifactstore.LocalStore, error) {
	log := logger.NewNop()
	if opts.verbose {
		var err error
		if log, err = logger.New("debug"); err != nil {
			return nil, nil, err
		}
	}
	app.LogConfigWarnings(cfg, log)
	s, err := schema.Load(opts.schemaPath)
	if err != nil {
		return nil, nil, err
	}
	store, err := artifactstore.NewLocalStore(opts.cacheDir)
	if err != nil {
		return nil, nil, err
	}
	ing := app.NewIngestor(cfg, s, store, log)
	return services.NewDocumentService(ing, store, nil, nil, nil, log, cfg.ProcessTimeout), store, nil
}
