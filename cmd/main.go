package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Dosada05/poker-club/config"
	"github.com/spf13/cobra"
)

const programName = "poker-club"

type ctxKey string

const configContextKey ctxKey = "poker-club.config"

var globalFlags = struct {
	debug bool
	quiet bool
}{}

// commonRun настраивает логгер. CLI-команды по умолчанию пишут логи только
// уровня Warn, чтобы не мешать выводу таблиц.
func commonRun(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if globalFlags.quiet {
		level = slog.LevelWarn
	}
	addSource := false
	if globalFlags.debug {
		level = slog.LevelDebug
		addSource = true
	}
	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		AddSource: addSource,
		Level:     level,
	})).With(slog.String("component", programName))
	slog.SetDefault(logger)
	return logger
}

func configFrom(cmd *cobra.Command) *config.Config {
	cfg, _ := cmd.Context().Value(configContextKey).(*config.Config)
	return cfg
}

func main() {
	rootCmd := &cobra.Command{
		Use:           programName,
		Short:         "Poker club tournament ledger",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&globalFlags.debug, "debug", "D", false, "enable debug logging")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		cmd.SetContext(context.WithValue(cmd.Context(), configContextKey, cfg))
		return nil
	}

	rootCmd.AddCommand(serveCommand())
	rootCmd.AddCommand(importRankingCommand())
	rootCmd.AddCommand(standingsCommand())
	rootCmd.AddCommand(userCommand())
	rootCmd.AddCommand(snapshotCommand())

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
