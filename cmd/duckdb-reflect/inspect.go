package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leonardovida/duckdb-reflect/internal/config"
	"github.com/leonardovida/duckdb-reflect/internal/engine"
	"github.com/leonardovida/duckdb-reflect/internal/engine/duckdb"
	"github.com/leonardovida/duckdb-reflect/internal/errs"
	"github.com/leonardovida/duckdb-reflect/internal/logger"
	"github.com/leonardovida/duckdb-reflect/internal/schema"
)

var flagSchema string

var inspectCmd = &cobra.Command{
	Use:   "inspect [table]",
	Short: "List schemas and tables, or describe one table",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log := newLogger(cfg)
		ctx := cmd.Context()

		insp, closeDB, err := openInspector(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer closeDB()

		if len(args) == 0 {
			return printCatalog(ctx, cmd, insp)
		}
		return printTable(ctx, cmd, insp, args[0])
	},
}

func init() {
	inspectCmd.Flags().StringVarP(&flagSchema, "schema", "s", "", "schema scope, optionally database-qualified")
	rootCmd.AddCommand(inspectCmd)
}

// openInspector opens the database and builds an inspector over it.
func openInspector(ctx context.Context, cfg *config.Config, log *logger.Logger) (*schema.Inspector, func() error, error) {
	db, err := duckdb.Open(ctx, &engine.Settings{
		Database:          cfg.Database.Path,
		ReadOnly:          cfg.Database.ReadOnly,
		Config:            cfg.Database.Options,
		PreloadExtensions: cfg.Database.Extensions,
		CustomUserAgent:   cfg.Database.UserAgent,
	}, log)
	if err != nil {
		return nil, nil, err
	}

	insp := schema.NewInspector(db.Session(), db.Capabilities(), db.Preparer(),
		schema.WithLogger(log))
	return insp, db.Close, nil
}

func printCatalog(ctx context.Context, cmd *cobra.Command, insp *schema.Inspector) error {
	schemas, err := insp.GetSchemaNames(ctx)
	if err != nil {
		return err
	}

	for _, s := range schemas {
		cmd.Println(s)
		tables, err := insp.GetTableNames(ctx, s)
		if err != nil {
			return err
		}
		for _, tbl := range tables {
			cmd.Printf("  %s\n", tbl)
		}
		views, err := insp.GetViewNames(ctx, s)
		if err != nil {
			return err
		}
		for _, v := range views {
			cmd.Printf("  %s (view)\n", v)
		}
	}
	return nil
}

func printTable(ctx context.Context, cmd *cobra.Command, insp *schema.Inspector, table string) error {
	columns, err := insp.GetColumns(ctx, table, flagSchema)
	if err != nil {
		return err
	}

	cmd.Printf("%s\n", table)
	for _, col := range columns {
		null := "NOT NULL"
		if col.Nullable {
			null = "NULL"
		}
		line := fmt.Sprintf("  %-24s %-20s %s", col.Name, col.RawType, null)
		if col.Default != nil {
			// Numeric defaults print in normalized decimal form.
			if d, ok := schema.ParseNumericDefault(col); ok {
				line += " DEFAULT " + d.String()
			} else {
				line += " DEFAULT " + *col.Default
			}
		}
		if col.Comment != nil {
			line += "  -- " + *col.Comment
		}
		cmd.Println(line)
	}

	pks, err := insp.GetPrimaryKeys(ctx, table, flagSchema)
	if err != nil {
		if errs.IsUnsupported(err) {
			cmd.Println("  (constraint reflection unavailable on this engine version)")
			return nil
		}
		return err
	}
	for _, pk := range pks {
		cmd.Printf("  PRIMARY KEY (%s)\n", strings.Join(pk.Columns, ", "))
	}

	fks, err := insp.GetForeignKeys(ctx, table, flagSchema)
	if err != nil {
		return err
	}
	for _, fk := range fks {
		cmd.Printf("  FOREIGN KEY (%s) REFERENCES %s (%s)\n",
			strings.Join(fk.Columns, ", "), fk.RefTable, strings.Join(fk.RefColumns, ", "))
	}

	uniques, err := insp.GetUniqueConstraints(ctx, table, flagSchema)
	if err != nil {
		return err
	}
	for _, u := range uniques {
		cmd.Printf("  UNIQUE (%s)\n", strings.Join(u.Columns, ", "))
	}

	checks, err := insp.GetCheckConstraints(ctx, table, flagSchema)
	if err != nil {
		return err
	}
	for _, c := range checks {
		cmd.Printf("  %s\n", c.Expression)
	}
	return nil
}
