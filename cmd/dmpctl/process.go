package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/markdave123-py/dmpart/internal/config"
	"github.com/markdave123-py/dmpart/internal/core/ingestion_engine"
)

// errRunFailed makes the exit status non-zero after the Result was printed.
var errRunFailed = errors.New("processing failed")

func newProcessCommand(cfg *config.Config, opts *options) *cobra.Command {
	var progress, dryRun bool
	cmd := &cobra.Command{
		Use:   "process <file>",
		Short: "Process one .docx or .pdf file and print the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := pipeline(cfg, opts)
			if err != nil {
				return err
			}
			var report ingestion_engine.ProgressFunc
			if progress {
				report = func(msg string, pct int) {
					fmt.Fprintf(cmd.ErrOrStderr(), "[%3d%%] %s\n", pct, msg)
				}
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			enc.SetEscapeHTML(false)

			if dryRun {
				art, err := svc.Preview(cmd.Context(), args[0], "", report)
				if err != nil {
					_ = enc.Encode(ingestion_engine.Result{ErrorKind: ingestion_engine.KindOf(err), ErrorMessage: err.Error()})
					return errRunFailed
				}
				return enc.Encode(art)
			}

			res := svc.Process(cmd.Context(), args[0], "", report)
			if err := enc.Encode(res); err != nil {
				return err
			}
			if !res.OK {
				return errRunFailed
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&progress, "progress", false, "print stage progress to stderr")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the artifact without caching it")
	return cmd
}
