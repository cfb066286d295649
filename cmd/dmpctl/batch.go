package main

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/spf13/cobra"

	"github.com/markdave123-py/dmpart/internal/config"
	"github.com/markdave123-py/dmpart/internal/services"
)

func newBatchCommand(cfg *config.Config, opts *options) *cobra.Command {
	var workers int
	cmd := &cobra.Command{
		Use:   "batch <dir>",
		Short: "Process every .docx and .pdf file in a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := pipeline(cfg, opts)
			if err != nil {
				return err
			}

			var mu sync.Mutex
			out := cmd.OutOrStdout()
			items, err := services.NewBatchService(svc, workers).ProcessDir(cmd.Context(), args[0], func(it services.BatchItem) {
				mu.Lock()
				defer mu.Unlock()
				if it.Result.OK {
					fmt.Fprintf(out, "%s → %s\n", filepath.Base(it.Path), it.Result.CacheID)
					return
				}
				fmt.Fprintf(out, "%s → %s: %s\n", filepath.Base(it.Path), it.Result.ErrorKind, it.Result.ErrorMessage)
			})
			if err != nil {
				return err
			}

			failed := 0
			for _, it := range items {
				if !it.Result.OK {
					failed++
				}
			}
			fmt.Fprintf(out, "%d processed, %d failed\n", len(items), failed)
			if failed > 0 {
				return errRunFailed
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&workers, "workers", "w", services.DefaultBatchWorkers, "concurrent pipeline runs")
	return cmd
}
