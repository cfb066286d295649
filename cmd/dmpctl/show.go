package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	artifactstore "github.com/markdave123-py/dmpart/internal/core/artifact_store"
	"github.com/markdave123-py/dmpart/internal/core/ingestion_engine"
)

func newShowCommand(opts *options) *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "show <cache-id>",
		Short: "Summarize a cached artifact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := artifactstore.NewLocalStore(opts.cacheDir)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if raw {
				data, err := store.Raw(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				_, err = out.Write(data)
				return err
			}

			art, err := store.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			md := art.Metadata
			fmt.Fprintf(out, "name:      %s\n", md.SuggestedName())
			fmt.Fprintf(out, "source:    %s (%s)\n", md.FilenameOriginal, md.SourceFormat)
			if md.OCR != "" {
				fmt.Fprintf(out, "ocr:       %s\n", md.OCR)
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KEY\tPARAGRAPHS\tQUESTION")
			for _, key := range art.Keys {
				rec := art.Slots[key]
				count := fmt.Sprint(len(rec.Paragraphs))
				if len(rec.Paragraphs) == 1 && rec.Paragraphs[0] == ingestion_engine.Placeholder {
					count = "-"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", key, count, truncate(rec.Question, 60))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "unconnected: %d\n", len(art.Unconnected))
			return nil
		},
	}
	cmd.Flags().BoolVar(&raw, "json", false, "print the stored JSON instead")
	return cmd
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
