package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/syssam/liteddl/dialect"
	"github.com/syssam/liteddl/dialect/sql"
	"github.com/syssam/liteddl/dialect/sql/schema"
	"github.com/syssam/liteddl/internal/cli/config"
	"github.com/syssam/liteddl/internal/schemafile"
	"github.com/syssam/liteddl/internal/sqlite"
)

// NewRenderCommand creates the render command.
func NewRenderCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "render",
		Short: "Print the statements of the schema document",
		Long: `Render prints the CREATE TABLE and CREATE INDEX statements of the schema
document without executing them. References to tables outside the document
are resolved against the database when it exists.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := GetConfig(ctx)
			logger := GetLogger(ctx)

			doc, err := loadDocument(cfg, logger)
			if err != nil {
				return err
			}
			var insp schema.Inspector
			if _, err := os.Stat(cfg.Database); err == nil {
				drv, err := sqlite.Open(cfg.Database)
				if err != nil {
					return err
				}
				defer drv.Close()
				insp = databaseInspector(cfg, drv, drv.DB())
			} else {
				logger.Debug("database not found, resolving references from the document only", "database", cfg.Database)
			}
			stmts, err := doc.Render(ctx, insp)
			if err != nil {
				return err
			}
			for _, stmt := range stmts {
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s;\n", stmt); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// loadDocument loads and validates the configured schema document.
// Warnings are logged, errors fail the command.
func loadDocument(cfg *config.Config, logger *slog.Logger) (*schemafile.Document, error) {
	doc, err := schemafile.Load(cfg.Schema)
	if err != nil {
		return nil, err
	}
	result, err := doc.Validate()
	if err != nil {
		return nil, err
	}
	for _, w := range result.Warnings {
		logger.Warn(w.Message, "table", w.Table)
	}
	if err := result.Err(); err != nil {
		return nil, err
	}
	logger.Debug("schema loaded", "path", cfg.Schema, "tables", len(doc.Tables), "indexes", len(doc.Indexes))
	return doc, nil
}

// databaseInspector returns the configured inspector reading from the
// database. The pragma inspector runs on q, so it sees tables created in
// an open transaction. The atlas inspector reads committed tables from db.
func databaseInspector(cfg *config.Config, q dialect.ExecQuerier, db sql.ExecQuerier) schema.Inspector {
	if cfg.Inspector == config.InspectorAtlas {
		return schema.NewAtlasInspector(db)
	}
	return schema.NewPragmaInspector(q)
}
