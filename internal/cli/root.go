// Package cli provides the command-line interface of liteddl.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/syssam/liteddl"
	"github.com/syssam/liteddl/dialect/sql"
	"github.com/syssam/liteddl/internal/cli/config"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

type configKey struct{}

type loggerKey struct{}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile string
	rootCmd := &cobra.Command{
		Use:   "liteddl",
		Short: "liteddl - SQLite schema definitions",
		Long: `liteddl renders SQLite CREATE TABLE, ALTER TABLE and CREATE INDEX
statements from a YAML schema document and applies them to a database.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}
			cfg, err := config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			logger, err := newLogger(cmd.ErrOrStderr(), cfg)
			if err != nil {
				return err
			}
			if cfg.File != "" {
				logger.Debug("using config file", "path", cfg.File)
			}
			ctx := context.WithValue(cmd.Context(), configKey{}, cfg)
			ctx = context.WithValue(ctx, loggerKey{}, logger)
			cmd.SetContext(ctx)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: ./liteddl.yaml)")
	flags.String("database", "", "path to the SQLite database (default: "+config.DefaultDatabase+")")
	flags.String("schema", "", "path to the schema document (default: "+config.DefaultSchema+")")
	flags.String("inspector", "", "primary key inspector for tables outside the document (pragma|atlas)")
	flags.String("log-level", "", "log level (debug|info|warn|error)")
	flags.String("log-format", "", "log format (text|json)")
	flags.Bool("tx", true, "apply all statements in one transaction")
	flags.BoolP("verbose", "v", false, "log every executed statement")

	_ = rootCmd.RegisterFlagCompletionFunc("inspector", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{config.InspectorPragma, config.InspectorAtlas}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("log-format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"text", "json"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(NewRenderCommand())
	rootCmd.AddCommand(NewApplyCommand())
	rootCmd.AddCommand(NewVersionCommand())
	return rootCmd
}

// Execute runs the root command with the given arguments.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	rootCmd := NewRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		switch {
		case liteddl.IsInvariantViolation(err):
			fmt.Fprintf(stderr, "invalid schema: %v\n", err)
		case sql.IsConstraintError(err):
			fmt.Fprintf(stderr, "constraint violation: %v\n", err)
		default:
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return err
	}
	return nil
}

// GetConfig retrieves the config from the command context.
func GetConfig(ctx context.Context) *config.Config {
	if c, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return c
	}
	return &config.Config{
		Database:  config.DefaultDatabase,
		Schema:    config.DefaultSchema,
		Inspector: config.DefaultInspector,
		LogLevel:  config.DefaultLogLevel,
		LogFormat: config.DefaultLogFormat,
		Tx:        true,
	}
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

func newLogger(w io.Writer, cfg *config.Config) (*slog.Logger, error) {
	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.String(slog.TimeKey, a.Value.Time().Format(time.RFC3339))
			}
			return a
		},
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler), nil
}
