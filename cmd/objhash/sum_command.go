package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zero-day-ai/objhash/mix"
)

func newSumCommand(ctx *commandContext) *cobra.Command {
	var pair bool

	cmd := &cobra.Command{
		Use:   "sum [file ...]",
		Short: "Print the fingerprint of every document",
		Long: "Print one line per document: the fingerprint, two spaces and the document name.\n" +
			"With no file, or when file is -, read standard input.",
		RunE: func(cmd *cobra.Command, args []string) error {
			docs, err := ctx.readDocuments(cmd, args)
			if err != nil {
				return err
			}

			h := ctx.hasher()
			out := cmd.OutOrStdout()
			for _, doc := range docs {
				a, b := h.Sum(cmd.Context(), doc.value)
				if pair {
					fmt.Fprintf(out, "%d %d  %s\n", a, b, doc.name)
					continue
				}
				fmt.Fprintf(out, "%s  %s\n", mix.Encode(a, b), doc.name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&pair, "pair", false, "Print the two 32-bit halves in decimal instead")
	return cmd
}
