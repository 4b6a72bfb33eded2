package main

import (
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/zero-day-ai/objhash"
	"github.com/zero-day-ai/objhash/config"
	"github.com/zero-day-ai/objhash/input"
)

type rootFlags struct {
	config        string
	sortArrays    bool
	keepUndefined bool
	seed          uint32
	format        string
	verbose       bool
	noColor       bool
}

type commandContext struct {
	flags   *rootFlags
	logger  *slog.Logger
	palette palette

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(flags *rootFlags) *commandContext {
	return &commandContext{
		flags:   flags,
		logger:  slog.New(slog.DiscardHandler),
		palette: newPalette(false),
	}
}

// setup configures logging and color output from the flags.
func (c *commandContext) setup(cmd *cobra.Command) {
	level := slog.LevelWarn
	if c.flags.verbose {
		level = slog.LevelDebug
	}
	c.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	c.palette = newPalette(c.flags.noColor)
}

// ensureConfig loads the options file once and applies flag overrides.
func (c *commandContext) ensureConfig(cmd *cobra.Command) (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, err := c.loadConfig()
		if err != nil {
			c.configErr = err
			return
		}

		fs := cmd.Flags()
		if fs.Changed("sort-arrays") {
			cfg.SortArrays = c.flags.sortArrays
		}
		if fs.Changed("keep-undefined") {
			cfg.IgnoreUndefinedProperties = !c.flags.keepUndefined
		}
		if fs.Changed("seed") {
			cfg.Seed = c.flags.seed
		}
		if fs.Changed("format") {
			cfg.Format = c.flags.format
		}
		if err := cfg.Validate(); err != nil {
			c.configErr = err
			return
		}

		c.logger.Debug("options loaded",
			"path", cfg.Path,
			"sort_arrays", cfg.SortArrays,
			"ignore_undefined_properties", cfg.IgnoreUndefinedProperties,
			"seed", cfg.Seed,
			"format", cfg.Format,
		)
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) loadConfig() (*config.Config, error) {
	if path := strings.TrimSpace(c.flags.config); path != "" {
		return config.Load(path)
	}

	cfg, err := config.LoadFromDir(".")
	if errors.Is(err, config.ErrNotFound) {
		def := config.Default()
		return &def, nil
	}
	return cfg, err
}

func (c *commandContext) hasher() *objhash.Hasher {
	opts := append(c.config.Options(), objhash.WithLogger(c.logger))
	return objhash.New(opts...)
}

func (c *commandContext) inputFormat() input.Format {
	return c.config.InputFormat()
}
