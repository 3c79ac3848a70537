// Package cmd provides the CLI command for sniff.
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Aman-CERP/sniff/internal/config"
	"github.com/Aman-CERP/sniff/internal/dispatch"
	serrors "github.com/Aman-CERP/sniff/internal/errors"
	"github.com/Aman-CERP/sniff/internal/logging"
	"github.com/Aman-CERP/sniff/internal/runner"
	"github.com/Aman-CERP/sniff/internal/watcher"
	"github.com/Aman-CERP/sniff/pkg/version"
)

// rootOptions holds what tests override. Zero values mean the process
// defaults: the working directory and inherited stdout/stderr for commands.
type rootOptions struct {
	dir           string
	commandOutput io.Writer
	forcePolling  bool
}

// NewRootCmd creates the root command for the sniff CLI.
func NewRootCmd() *cobra.Command {
	return newRootCmd(rootOptions{})
}

func newRootCmd(opts rootOptions) *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:   "sniff",
		Short: "Run commands when files change",
		Long: fmt.Sprintf(`sniff watches the current directory and runs the commands configured
for a file each time it is written.

Rules live in sniff.json (or sniff.yaml) in the working directory, or in
$XDG_CONFIG_HOME/sniff/. Set %s to use another file.

%s`, config.EnvConfigPath, version.String()),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Flag errors print usage; runtime errors are reported by run.
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true
			return run(cmd, opts, debug)
		},
	}

	cmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable debug logging")

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

func run(cmd *cobra.Command, opts rootOptions, debug bool) error {
	logCfg := logging.DefaultConfig()
	if debug {
		logCfg = logging.DebugConfig()
	}
	logCfg.Stderr = cmd.ErrOrStderr()

	logger, cleanup, err := logging.Setup(logCfg)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	defer cleanup()

	prev := slog.Default()
	slog.SetDefault(logger)
	defer slog.SetDefault(prev)

	if debug {
		slog.Debug("debug logging enabled",
			slog.String("log_file", logCfg.FilePath),
			slog.String("version", version.Short()))
	}

	dir := opts.dir
	if dir == "" {
		if dir, err = os.Getwd(); err != nil {
			slog.Error("failed to get current working directory", slog.String("error", err.Error()))
			return err
		}
	}

	cfg, err := loadConfig(dir)
	if err != nil {
		slog.Debug("config rejected", serrors.LogAttrs(err)...)
		_, _ = fmt.Fprint(cmd.ErrOrStderr(), serrors.FormatForCLI(err))
		return err
	}

	slog.Info("loaded config",
		slog.String("path", cfg.Path),
		slog.String("match_mode", cfg.Rules.Mode().String()),
		slog.Int("rules", cfg.Rules.Len()),
		slog.Duration("cooldown", cfg.Settings.Cooldown))

	var runnerOpts []runner.Option
	if opts.commandOutput != nil {
		runnerOpts = append(runnerOpts, runner.WithOutput(opts.commandOutput, opts.commandOutput))
	}
	eng := dispatch.New(cfg.Rules, cfg.Settings, runner.New(runnerOpts...),
		dispatch.WithClearer(runner.NewTerminalClearer(os.Stdout)))

	wopts := watcher.DefaultOptions()
	wopts.IgnoreDirs = cfg.Settings.IgnoredDirs
	wopts.ForcePolling = opts.forcePolling
	w, err := watcher.NewHybridWatcher(wopts)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return w.Start(gctx, dir)
	})
	g.Go(func() error {
		return eng.Run(gctx, w)
	})

	slog.Info("watching", slog.String("dir", dir))

	err = g.Wait()
	if ctx.Err() != nil {
		slog.Info("stopped")
		return nil
	}
	if err != nil {
		_, _ = fmt.Fprint(cmd.ErrOrStderr(), serrors.FormatForCLI(err))
	}
	return err
}

// loadConfig discovers and decodes the config for dir. Every failure here is
// fatal for the process.
func loadConfig(dir string) (*config.Config, error) {
	path, err := config.Discover(dir)
	if err != nil {
		return nil, err
	}
	return config.Load(path)
}
