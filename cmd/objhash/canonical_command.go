package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCanonicalCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "canonical [file ...]",
		Short: "Print the canonical string of every document",
		RunE: func(cmd *cobra.Command, args []string) error {
			docs, err := ctx.readDocuments(cmd, args)
			if err != nil {
				return err
			}

			h := ctx.hasher()
			for _, doc := range docs {
				fmt.Fprintln(cmd.OutOrStdout(), h.Canonicalize(cmd.Context(), doc.value))
			}
			return nil
		},
	}
}
