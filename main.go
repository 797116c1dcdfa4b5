package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	app "github.com/rocketscienceinc/tictactoe-synthesis/internal"
	"github.com/rocketscienceinc/tictactoe-synthesis/internal/config"
	"github.com/rocketscienceinc/tictactoe-synthesis/internal/entity"
)

var (
	configPath string
	games      int
	guidedMark string

	rootCmd = &cobra.Command{
		Use:           "tictactoe",
		Short:         "Synthesize and play never-losing tic-tac-toe strategies",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	buildCmd = &cobra.Command{
		Use:   "build",
		Short: "Build the plant, synthesize both strategies and store them",
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, logger := setup()
			return app.RunBuild(cmd.Context(), logger, conf, cmd.OutOrStdout())
		},
	}

	playCmd = &cobra.Command{
		Use:   "play",
		Short: "Play against the guided or the random opponent",
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, logger := setup()
			return app.RunPlay(cmd.Context(), logger, conf, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	simulateCmd = &cobra.Command{
		Use:   "simulate",
		Short: "Play the guided opponent against the random one and print the tally",
		RunE: func(cmd *cobra.Command, _ []string) error {
			mark, err := entity.ParseMark(guidedMark)
			if err != nil {
				return err
			}

			conf, logger := setup()
			return app.RunSimulate(cmd.Context(), logger, conf, games, mark, cmd.OutOrStdout())
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.yml (default ./config.yml)")

	simulateCmd.Flags().IntVar(&games, "games", 10_000, "number of games")
	simulateCmd.Flags().StringVar(&guidedMark, "guided", string(entity.PlayerO), "mark played by the guided opponent (X or O)")

	rootCmd.AddCommand(buildCmd, playCmd, simulateCmd)
}

// main - is the entry point of the application. It wires the commands and runs the selected one.
func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "recovered from panic: %v\n", err)
			os.Exit(1)
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%s failed: %v\n", rootCmd.Name(), err)
		cancel()
		os.Exit(1) //nolint: gocritic // cancel already called
	}
}

func setup() (*config.Config, *slog.Logger) {
	conf := initConfig()
	return conf, initLogger(conf)
}

// initialize config.
func initConfig() *config.Config {
	if configPath != "" {
		return config.MustLoad(configPath)
	}

	baseDir, err := os.Getwd()
	if err != nil {
		panic(fmt.Errorf("failed to get current directory: %w", err))
	}

	return config.MustLoad(filepath.Join(baseDir, "./config.yml"))
}

// initialize logger. Logs go to stderr so they do not mix with the console game.
func initLogger(conf *config.Config) *slog.Logger {
	var level slog.Level

	switch conf.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
