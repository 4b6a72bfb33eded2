package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the effective options",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.config

			source := cfg.Path
			if source == "" {
				source = ctx.palette.dim("(defaults)")
			}

			rows := [][]string{
				{"file", source},
				{"sort_arrays", strconv.FormatBool(cfg.SortArrays)},
				{"ignore_undefined_properties", strconv.FormatBool(cfg.IgnoreUndefinedProperties)},
				{"seed", strconv.FormatUint(uint64(cfg.Seed), 10)},
				{"format", string(cfg.InputFormat())},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]column{{header: "Setting"}, {header: "Value"}}, rows))
			return nil
		},
	}
}
