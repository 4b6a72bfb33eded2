package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	flags := &rootFlags{}
	ctx := newCommandContext(flags)

	rootCmd := &cobra.Command{
		Use:           "objhash",
		Short:         "Deterministic fingerprints for structured documents",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx.setup(cmd)
			_, err := ctx.ensureConfig(cmd)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.config, "config", "c", "", "Options file path (default: nearest .objhash.yaml/.yml/.toml)")
	pf.BoolVar(&flags.sortArrays, "sort-arrays", false, "Treat arrays as unordered")
	pf.BoolVar(&flags.keepUndefined, "keep-undefined", false, "Keep absent record entries in the encoding")
	pf.Uint32Var(&flags.seed, "seed", 0, "Mixer seed")
	pf.StringVarP(&flags.format, "format", "f", "", "Input format: auto, json, yaml or toml")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")
	pf.BoolVar(&flags.noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(newSumCommand(ctx))
	rootCmd.AddCommand(newCanonicalCommand(ctx))
	rootCmd.AddCommand(newCompareCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
