package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

// errMismatch is returned by compare when fingerprints differ. The table
// already says which, so main does not print it.
var errMismatch = errors.New("fingerprints differ")

func newCompareCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "compare file [file ...]",
		Short: "Compare the fingerprints of two or more documents",
		Long: "Fingerprint every document and compare each with the first one.\n" +
			"Exits with status 1 when any fingerprint differs.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			docs, err := ctx.readDocuments(cmd, args)
			if err != nil {
				return err
			}
			if len(docs) < 2 {
				return fmt.Errorf("compare needs at least two documents, got %d", len(docs))
			}

			h := ctx.hasher()
			reference := h.Fingerprint(cmd.Context(), docs[0].value)

			rows := make([][]string, 0, len(docs))
			mismatches := 0
			for i, doc := range docs {
				fp := reference
				status := statusReference
				if i > 0 {
					fp = h.Fingerprint(cmd.Context(), doc.value)
					if fp == reference {
						status = statusMatch
					} else {
						status = statusDiffers
						mismatches++
					}
				}
				rows = append(rows, []string{strconv.Itoa(i + 1), doc.name, fp, status})
			}

			p := ctx.palette
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]column{
				{header: "#", align: text.AlignRight},
				{header: "Document"},
				{header: "Fingerprint"},
				{header: "Status", style: p.status},
			}, rows))

			if mismatches > 0 {
				fmt.Fprintf(out, "%s %d of %d documents differ from %s\n",
					p.red("✘"), mismatches, len(docs)-1, p.bold(docs[0].name))
				return errMismatch
			}
			fmt.Fprintf(out, "%s all %d documents match\n", p.green("✔"), len(docs))
			return nil
		},
	}
}
