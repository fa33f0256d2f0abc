package main

import (
	"fmt"

	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	"github.com/remdragon/worm"
	"github.com/remdragon/worm/dialect"
	"github.com/remdragon/worm/dialect/sql"
	"github.com/remdragon/worm/internal/config"
	"github.com/remdragon/worm/sqlgen"
)

func (a *app) applyCmd() *cobra.Command {
	var (
		dsn    string
		dryRun bool
	)
	cmd := &cobra.Command{
		Use:   "apply [file|dir]...",
		Short: "Create the tables of schemas",
		Long:  `Create the table of every schema in the configured database. Existing tables are left untouched.`,
		Example: `  # Create the tables of the configured schemas directory
  worm apply --dsn file:app.db

  # Print the statements without executing them
  worm apply --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			schemas, err := a.schemas(cmd.Context(), args)
			if err != nil {
				return err
			}
			if dryRun {
				for _, s := range schemas {
					fmt.Fprintf(cmd.OutOrStdout(), "%s;\n", sqlgen.CreateTable(s))
				}
				return nil
			}

			db := a.cfg.Database
			if dsn != "" {
				db.DSN = dsn
			}
			drv, err := worm.Open(db.Driver, db.DSN)
			if err != nil {
				return config.DatabaseError("opening database", err)
			}
			defer drv.Close()
			if err := drv.DB().PingContext(cmd.Context()); err != nil {
				return config.DatabaseError("connecting to database", err)
			}

			stats := sql.NewStatsDriver(drv, sql.WithSlowQueryLog(a.logger))
			var eq dialect.ExecQuerier = stats
			if db.Debug {
				eq = sql.NewDebugDriver(stats, sql.DebugWithLogger(a.logger))
			}
			if err := worm.CreateTables(cmd.Context(), eq, schemas...); err != nil {
				return config.DatabaseError("creating tables", err)
			}
			a.logger.Debug("applied schemas", "stats", stats.QueryStats().Stats().String())
			if !a.quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "Created %d tables.\n", len(schemas))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dsn, "dsn", "", "database DSN (default: database.dsn from config)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the statements without executing them")
	return cmd
}
