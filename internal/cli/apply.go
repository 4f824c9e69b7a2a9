package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/syssam/liteddl/dialect"
	"github.com/syssam/liteddl/dialect/sql"
	"github.com/syssam/liteddl/dialect/sql/schema"
	"github.com/syssam/liteddl/internal/sqlite"
)

// NewApplyCommand creates the apply command.
func NewApplyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "apply",
		Short: "Create the tables and indexes of the schema document",
		Long: `Apply executes the statements of the schema document on the database, in
declaration order. By default all statements run in one transaction and
nothing is created if one of them fails.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := GetConfig(ctx)
			logger := GetLogger(ctx)

			doc, err := loadDocument(cfg, logger)
			if err != nil {
				return err
			}
			drv, err := sqlite.Open(cfg.Database)
			if err != nil {
				return err
			}
			defer drv.Close()
			logger.Debug("database opened", "database", cfg.Database, "driver", sqlite.GetInfo())

			stats := sql.NewStatsDriver(drv, sql.WithSlowQueryHook(func(ctx context.Context, query string, d time.Duration) {
				logger.WarnContext(ctx, "slow statement detected", "duration", d, "query", query)
			}))
			var target dialect.Driver = stats
			if cfg.Verbose {
				target = sql.NewDebugDriver(stats, sql.DebugWithLogger(logger))
			}

			var (
				exec dialect.ExecQuerier = target
				tx   dialect.Tx
			)
			if cfg.Tx {
				if tx, err = target.Tx(ctx); err != nil {
					return fmt.Errorf("begin transaction: %w", err)
				}
				exec = tx
			}

			m := schema.NewMigrator(exec, schema.WithInspector(doc.Resolver(databaseInspector(cfg, exec, drv.DB()))))
			if err := doc.Apply(ctx, m); err != nil {
				if tx != nil {
					return rollback(tx, err)
				}
				return err
			}
			if tx != nil {
				if err := tx.Commit(); err != nil {
					return fmt.Errorf("commit transaction: %w", err)
				}
			}
			logger.Info("schema applied",
				"database", cfg.Database,
				"tables", len(doc.Tables),
				"indexes", len(doc.Indexes),
				"stats", stats.Stats(),
			)
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "applied %d tables and %d indexes to %s\n", len(doc.Tables), len(doc.Indexes), cfg.Database)
			return err
		},
	}
}

// rollback calls tx.Rollback and wraps the given error with the rollback
// error if it occurred.
func rollback(tx dialect.Tx, err error) error {
	if rerr := tx.Rollback(); rerr != nil {
		err = fmt.Errorf("%w: %v", err, rerr)
	}
	return err
}
