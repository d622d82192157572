// Package cmd is the vfactory command line.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jaki95/video-factory/config"
	"github.com/jaki95/video-factory/internal/audio"
	"github.com/jaki95/video-factory/internal/logging"
	"github.com/spf13/cobra"
)

var (
	configPath string

	cfg       *config.Config
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:           "vfactory",
	Short:         "Compose prompts, images, narration and music into generated videos.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = loadConfig(configPath)
		if err != nil {
			return err
		}

		logCloser, err = logging.Setup(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			logCloser.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "./config/config.yaml", "path to the YAML configuration")
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads path, falling back to the defaults when the file does not
// exist.
func loadConfig(path string) (*config.Config, error) {
	c, err := config.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("Config file not found, using defaults", "path", path)
		return config.Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return c, nil
}

// waitPlayback blocks until the preview ends. Interrupting stops it.
func waitPlayback(ctx context.Context, player *audio.Player) error {
	defer player.Stop()
	if err := player.Wait(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
