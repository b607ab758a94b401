package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/diskmosaic/diskmosaic/pkg/mosaic"
	"github.com/diskmosaic/diskmosaic/pkg/pipeline"
)

// layoutCommand creates the layout command for computing disk layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output     string
		noCache    bool
		configPath string
	)
	opts := pipeline.Options{}
	opts.SetLayoutDefaults()

	cmd := &cobra.Command{
		Use:   "layout [holdings.json|holdings.toml]",
		Short: "Compute a disk layout from a holdings file",
		Long: `Compute a disk layout from a holdings file.

The layout command takes a holdings document (JSON or TOML) and computes
either a Voronoi mosaic that tiles the disk by value (-m mosaic, the
default) or a force-packed bubble chart with one circle per item
(-m bubbles). The output is a layout.json document.

The same holdings and seed always produce the same layout. Results are
cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := applyConfig(cmd, &opts, configPath); err != nil {
				return err
			}
			opts.Path = args[0]
			return c.runLayout(cmd.Context(), opts, output, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&configPath, "config", "", "config file (default: "+filepath.Join("~", ".config", appName, configFile)+")")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even if cached")

	// Layout flags
	cmd.Flags().StringVarP(&opts.Mode, "mode", "m", opts.Mode, "layout mode: mosaic (default), bubbles")
	cmd.Flags().Uint32Var(&opts.Seed, "seed", opts.Seed, "random seed for reproducible layouts")
	cmd.Flags().Float64Var(&opts.DiskRadius, "radius", opts.DiskRadius, "disk radius")
	cmd.Flags().IntVar(&opts.Segments, "segments", opts.Segments, "disk polygon vertex count (mosaic)")
	cmd.Flags().IntVar(&opts.Trials, "trials", opts.Trials, "group seed configurations to try (mosaic)")
	cmd.Flags().IntVar(&opts.Iterations, "iterations", opts.Iterations, "relaxation iterations (bubbles)")
	cmd.Flags().BoolVar(&opts.NoJitter, "no-jitter", opts.NoJitter, "disable start jitter (bubbles)")
	cmd.Flags().StringToStringVar(&opts.Colors, "color", nil, "group color override, e.g. --color wallet=#ff8800")

	return cmd
}

// applyConfig fills options from the config file for flags the user
// did not set explicitly. An explicit --config path must exist and
// parse; the default config file is best-effort.
func applyConfig(cmd *cobra.Command, opts *pipeline.Options, configPath string) error {
	var (
		cfg Config
		err error
	)
	if configPath != "" {
		if _, statErr := os.Stat(configPath); statErr != nil {
			return fmt.Errorf("read config %s: %w", configPath, statErr)
		}
		cfg, err = loadConfigFile(configPath)
		if err != nil {
			return fmt.Errorf("parse config %s: %w", configPath, err)
		}
	} else if cfg, err = loadConfig(); err != nil {
		printWarning("Ignoring malformed config: %v", err)
		return nil
	}

	if cfg.Mode != "" && !cmd.Flags().Changed("mode") {
		opts.Mode = cfg.Mode
	}
	if cfg.Seed != 0 && !cmd.Flags().Changed("seed") {
		opts.Seed = cfg.Seed
	}
	if cfg.DiskRadius != 0 && !cmd.Flags().Changed("radius") {
		opts.DiskRadius = cfg.DiskRadius
	}
	if cfg.Segments != 0 && !cmd.Flags().Changed("segments") {
		opts.Segments = cfg.Segments
	}
	for id, color := range cfg.Colors {
		if _, ok := opts.Colors[id]; !ok {
			if opts.Colors == nil {
				opts.Colors = make(map[string]string)
			}
			opts.Colors[id] = color
		}
	}
	return nil
}

// runLayout executes the pipeline and writes the layout file.
func (c *CLI) runLayout(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	ctx = withLogger(ctx, c.Logger)

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Computing %s layout...", opts.Mode))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(opts.Path, filepath.Ext(opts.Path))
		outputPath = base + ".layout.json"
	}

	if err := mosaic.WriteFile(result.Layout, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(result.Stats.GroupCount, result.Stats.ItemCount, result.CacheInfo.LayoutHit)
	printNewline()
	printNextStep("Inspect weights", "diskmosaic weights "+opts.Path)

	return nil
}
