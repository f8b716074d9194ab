// Package cli provides the boardsync command-line interface.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	bc "github.com/egobogo/boardsync/internal/board"
	_ "github.com/egobogo/boardsync/internal/board/kanbanflow"
	_ "github.com/egobogo/boardsync/internal/board/leankit"
	_ "github.com/egobogo/boardsync/internal/board/trello"
	"github.com/egobogo/boardsync/internal/config"
	"github.com/egobogo/boardsync/internal/config/filesys"
	"github.com/egobogo/boardsync/internal/logging"
)

type options struct {
	configDir string
	envFile   string
	logLevel  string
	logFormat string
}

type envKey struct{}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	opts := &options{}
	rootCmd := &cobra.Command{
		Use:   "boardsync",
		Short: "Copy completed cards between Trello, LeanKit and KanbanFlow boards",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}
			if err := config.LoadEnv(opts.envFile); err != nil {
				return err
			}
			log := logging.New(&logging.Config{Level: opts.logLevel, Format: opts.logFormat}, cmd.ErrOrStderr())
			env := bc.Env{
				ConfigDir: opts.configDir,
				Provider:  filesys.NewFilesysConfigProvider(),
				Logger:    log,
			}
			cmd.SetContext(context.WithValue(cmd.Context(), envKey{}, env))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.configDir, "config-dir", "config", "directory holding the <service>-config.yaml files")
	rootCmd.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "env file with credential overrides (default: ./.env)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "text", "log format (text|json)")

	rootCmd.AddCommand(newSyncCommand())
	rootCmd.AddCommand(newCompletedCommand())
	rootCmd.AddCommand(newClearCommand())
	return rootCmd
}

func envFrom(cmd *cobra.Command) bc.Env {
	env, ok := cmd.Context().Value(envKey{}).(bc.Env)
	if !ok {
		env = bc.Env{Provider: filesys.NewFilesysConfigProvider(), Logger: slog.Default(), ConfigDir: "config"}
	}
	return env
}

func serviceCompletion(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return bc.Names(), cobra.ShellCompDirectiveNoFileComp
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
