package main

import (
	"os"

	"github.com/spf13/cobra"

	"vconvert/internal/abort"
	"vconvert/internal/encoding"
	"vconvert/internal/fileutil"
	"vconvert/internal/media"
	"vconvert/internal/preflight"
	"vconvert/internal/queue"
	"vconvert/internal/workflow"
)

func newResumeCommand(ctx *commandContext, configFlag *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resume",
		Short: "Process pending work recorded by an earlier run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig(*configFlag)
			if err != nil {
				return err
			}
			if err := applyRunFlags(cmd, cfg); err != nil {
				return err
			}
			return ctx.runResume(cmd)
		},
	}
	addRunFlags(cmd)
	return cmd
}

func (c *commandContext) runResume(cmd *cobra.Command) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	if !dryRun {
		for _, r := range []preflight.Result{
			preflight.CheckBinary("ffmpeg", c.cfg.FFmpegBinary()),
			preflight.CheckBinary("ffprobe", c.cfg.FFprobeBinary()),
		} {
			if !r.Passed {
				return preflightError(r)
			}
		}
	}

	if err := c.cfg.EnsureDirectories(); err != nil {
		return err
	}
	logger, _, err := c.newRunLogger()
	if err != nil {
		return err
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

		run, err := coordinator.Resume(cmd.Context())
		if err != nil {
			return err
		}
		run.WriteSummary(os.Stdout)
		return nil
	})
}
