package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"vconvert/internal/abort"
	"vconvert/internal/config"
	"vconvert/internal/encoding"
	"vconvert/internal/fileutil"
	"vconvert/internal/media"
	"vconvert/internal/preflight"
	"vconvert/internal/queue"
	"vconvert/internal/workflow"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	ctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:           "vconvert [path]",
		Short:         "Batch-normalize video files to HEVC in MP4",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig(configFlag)
			if err != nil {
				return err
			}
			if err := applyRunFlags(cmd, cfg); err != nil {
				return err
			}

			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			root, err = filepath.Abs(root)
			if err != nil {
				return fmt.Errorf("resolve path: %w", err)
			}
			return ctx.runScan(cmd, root)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Configuration file path")
	addRunFlags(rootCmd)

	rootCmd.AddCommand(newResumeCommand(ctx, &configFlag))
	rootCmd.AddCommand(newQueueCommand(ctx, &configFlag))
	rootCmd.AddCommand(newConfigCommand(ctx, &configFlag))

	return rootCmd
}

// addRunFlags registers the flags shared by scan and resume runs.
func addRunFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.Int64P("bitrate", "b", 0, "Minimum video bitrate in kbps to convert")
	flags.Int64("max-bitrate", 0, "Maximum video bitrate in kbps to convert")
	flags.Float64("min-duration", 0, "Minimum duration in seconds to convert")
	flags.Float64("max-duration", 0, "Maximum duration in seconds to convert")
	flags.IntP("count", "c", 0, "Maximum number of files to process (0 = unlimited)")
	flags.StringArrayP("extension", "t", nil, "File extensions to scan (repeatable)")
	flags.BoolP("all", "a", false, "Scan all known video extensions")
	flags.BoolP("other", "o", false, "Scan known video extensions except mp4")
	flags.StringArrayP("include", "n", nil, "Only process files whose name contains this string")
	flags.StringArrayP("exclude", "e", nil, "Skip files whose name contains this string")
	flags.BoolP("recurse", "r", false, "Descend into subdirectories")
	flags.BoolP("force", "f", false, "Overwrite existing output files")
	flags.BoolP("delete", "d", false, "Delete originals instead of moving them to trash")
	flags.BoolP("dry-run", "p", false, "Print planned work without touching any file")
	flags.StringP("sort", "s", "", "Processing order: bitrate, size, duration, resolution, impact, or name")
	flags.BoolP("skip-convert", "k", false, "Only remux, never re-encode")
	flags.BoolP("skip-remux", "m", false, "Only convert, never remux")
	flags.Bool("resolve-duplicates", false, "Remove sources whose converted output already exists and matches")
	flags.BoolP("verbose", "v", false, "Enable debug logging")
}

// applyRunFlags folds explicitly set flags over the loaded config; flags
// always win.
func applyRunFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("bitrate") {
		cfg.Filter.MinBitrateKbps, _ = flags.GetInt64("bitrate")
	}
	if flags.Changed("max-bitrate") {
		cfg.Filter.MaxBitrateKbps, _ = flags.GetInt64("max-bitrate")
	}
	if flags.Changed("min-duration") {
		cfg.Filter.MinDurationSeconds, _ = flags.GetFloat64("min-duration")
	}
	if flags.Changed("max-duration") {
		cfg.Filter.MaxDurationSeconds, _ = flags.GetFloat64("max-duration")
	}
	if flags.Changed("count") {
		cfg.Execute.Count, _ = flags.GetInt("count")
	}
	if flags.Changed("extension") {
		cfg.Scan.Extensions, _ = flags.GetStringArray("extension")
	}
	if flags.Changed("all") {
		cfg.Scan.ConvertAllTypes, _ = flags.GetBool("all")
	}
	if flags.Changed("other") {
		cfg.Scan.ConvertOtherTypes, _ = flags.GetBool("other")
	}
	if flags.Changed("include") {
		cfg.Scan.Include, _ = flags.GetStringArray("include")
	}
	if flags.Changed("exclude") {
		cfg.Scan.Exclude, _ = flags.GetStringArray("exclude")
	}
	if flags.Changed("recurse") {
		cfg.Scan.Recurse, _ = flags.GetBool("recurse")
	}
	if flags.Changed("force") {
		cfg.Execute.Overwrite, _ = flags.GetBool("force")
	}
	if flags.Changed("delete") {
		cfg.Execute.Delete, _ = flags.GetBool("delete")
	}
	if flags.Changed("sort") {
		cfg.Execute.Sort, _ = flags.GetString("sort")
	}
	if flags.Changed("skip-convert") {
		cfg.Execute.SkipConvert, _ = flags.GetBool("skip-convert")
	}
	if flags.Changed("skip-remux") {
		cfg.Execute.SkipRemux, _ = flags.GetBool("skip-remux")
	}
	if flags.Changed("resolve-duplicates") {
		cfg.Execute.ResolveDuplicates, _ = flags.GetBool("resolve-duplicates")
	}
	if verbose, _ := flags.GetBool("verbose"); verbose {
		cfg.Logging.Level = "debug"
	}

	cfg.Scan.Extensions = normalizeExtensions(cfg.Scan.Extensions)
	if _, err := queue.ParseSortOrder(cfg.Execute.Sort); err != nil {
		return err
	}
	return cfg.Validate()
}

func normalizeExtensions(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(v, ".")))
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func (c *commandContext) runScan(cmd *cobra.Command, root string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	if !dryRun {
		results := preflight.RunAll(c.cfg.FFmpegBinary(), c.cfg.FFprobeBinary(), root)
		if failure, found := preflight.FirstFailure(results); found {
			return preflightError(failure)
		}
	} else if r := preflight.CheckDirectoryAccess("scan root", root); !r.Passed {
		return preflightError(r)
	}

	if err := c.cfg.EnsureDirectories(); err != nil {
		return err
	}
	logger, logPath, err := c.newRunLogger()
	if err != nil {
		return err
	}
	if logPath != "" {
		logger.Debug("run transcript", "path", logPath)
	}

	flag := abort.New()
	installInterruptHandler(flag, logger)

	return c.withStore(func(store *queue.Store) error {
		prober := media.NewFFprobe(c.cfg.FFprobeBinary())
		prober.Logger = logger
		engine := encoding.NewEngine(encoding.ExecRunner{}, prober,
			encoding.WithBinary(c.cfg.FFmpegBinary()),
			encoding.WithRemover(fileutil.NewRemover(c.cfg.Execute.Delete)),
			encoding.WithDryRun(dryRun),
			encoding.WithEngineLogger(logger))
		coordinator := workflow.New(c.cfg, store, engine, prober,
			workflow.WithAbort(flag),
			workflow.WithLogger(logger),
			workflow.WithDryRun(dryRun))

		run, err := coordinator.Run(cmd.Context(), root)
		if err != nil {
			return err
		}
		run.WriteSummary(os.Stdout)
		return nil
	})
}
