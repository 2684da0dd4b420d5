package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

// newRootCmd builds the command tree. Each call returns independent flag state.
func newRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:   "hparams",
		Short: "Build optimizers from YAML hyperparameter files",
		Long: `hparams reads a YAML document naming an optimization algorithm
(opt_method) and its constructor arguments (opt_params), validates it and
builds the optimizer.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := parseLevel(logLevel)
			if err != nil {
				return err
			}
			opts := &slog.HandlerOptions{Level: level}
			handler := slog.NewJSONHandler(cmd.ErrOrStderr(), opts)
			slog.SetDefault(slog.New(handler))
			return nil
		},
	}

	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	root.AddCommand(newLoadCmd())
	root.AddCommand(newListCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func parseLevel(s string) (slog.Level, error) {
	switch s {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}
