package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"

	"vconvert/internal/abort"
	"vconvert/internal/config"
	"vconvert/internal/logging"
	"vconvert/internal/queue"
)

// commandContext carries lazily loaded configuration shared by every
// subcommand.
type commandContext struct {
	configFlag string
	cfg        *config.Config
	cfgPath    string
	cfgFound   bool
}

func newCommandContext(configFlag *string) *commandContext {
	ctx := &commandContext{}
	if configFlag != nil {
		ctx.configFlag = *configFlag
	}
	return ctx
}

func (c *commandContext) ensureConfig(configFlag string) (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, path, found, err := config.Load(configFlag)
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	c.cfgPath = path
	c.cfgFound = found
	return cfg, nil
}

// withStore opens the queue database for the duration of fn.
func (c *commandContext) withStore(fn func(*queue.Store) error) error {
	if err := c.cfg.EnsureDirectories(); err != nil {
		return err
	}
	store, err := queue.Open(c.cfg.QueueDatabasePath())
	if err != nil {
		return fmt.Errorf("open queue: %w", err)
	}
	defer store.Close()
	return fn(store)
}

// resolveLogFormat turns the "auto" format into a concrete one: console
// on a terminal, JSON when output is piped.
func resolveLogFormat(format string) string {
	if format != "auto" && format != "" {
		return format
	}
	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return "console"
	}
	return "json"
}

// newRunLogger builds the per-run logger: console plus a JSON transcript
// file named after a fresh run ID.
func (c *commandContext) newRunLogger() (*slog.Logger, string, error) {
	runID := uuid.NewString()[:8]
	logger, logPath, err := logging.NewRunLogger(
		c.cfg.Paths.LogDir,
		runID,
		c.cfg.Logging.Level,
		resolveLogFormat(c.cfg.Logging.Format),
	)
	if err != nil {
		return nil, "", err
	}
	return logger.With(logging.String("run_id", runID)), logPath, nil
}

// installInterruptHandler makes the first interrupt request a graceful
// stop after the current file; a second interrupt force-quits.
func installInterruptHandler(flag *abort.Flag, logger *slog.Logger) {
	signals := make(chan os.Signal, 2)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-signals
		flag.Set()
		logger.Warn("interrupt received, finishing current file (interrupt again to force quit)")
		<-signals
		os.Exit(130)
	}()
}
