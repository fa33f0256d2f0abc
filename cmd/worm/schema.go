package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/remdragon/worm/filter"
	"github.com/remdragon/worm/internal/config"
	"github.com/remdragon/worm/internal/watch"
	"github.com/remdragon/worm/schema"
	"github.com/remdragon/worm/sqlgen"
)

func (a *app) sqlCmd() *cobra.Command {
	var variants bool
	cmd := &cobra.Command{
		Use:   "sql [file|dir]...",
		Short: "Print the SQL statements of schemas",
		Long: `Print the statements synthesized for every schema: table creation and removal,
insert, updates, and the unfiltered select, count and delete.`,
		Example: `  # Print the statements of the configured schemas directory
  worm sql

  # Print the statements of a single file, with the filter variant names
  worm sql schemas/users.yaml --variants`,
		RunE: func(cmd *cobra.Command, args []string) error {
			schemas, err := a.schemas(cmd.Context(), args)
			if err != nil {
				return err
			}
			for i, s := range schemas {
				if i > 0 {
					fmt.Fprintln(cmd.OutOrStdout())
				}
				writeStatements(cmd.OutOrStdout(), s, variants)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&variants, "variants", false, "also list the filter variant names")
	return cmd
}

// writeStatements prints the statements of s, one per line.
func writeStatements(w io.Writer, s *schema.Schema, variants bool) {
	fmt.Fprintf(w, "-- %s\n", s.Entity())
	stmts := []string{sqlgen.CreateTable(s), sqlgen.DropTable(s), sqlgen.Insert(s)}
	if update, err := sqlgen.UpdateByID(s); err == nil {
		stmts = append(stmts, update)
	}
	stmts = append(stmts,
		sqlgen.UpdateTo(s),
		sqlgen.SelectAll(s),
		sqlgen.CountAll(s),
		sqlgen.DeleteAll(s),
	)
	for _, stmt := range stmts {
		fmt.Fprintf(w, "%s;\n", stmt)
	}
	if variants {
		for _, v := range filter.Variants(s) {
			fmt.Fprintf(w, "-- filter %s\n", v)
		}
	}
}

func (a *app) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [file|dir]...",
		Short: "Validate schemas",
		Long:  `Compile every schema and report all definition errors.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			schemas, err := a.schemas(cmd.Context(), args)
			if err != nil {
				return err
			}
			if !a.quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "%d schemas are valid:\n", len(schemas))
				for _, s := range schemas {
					fmt.Fprintf(cmd.OutOrStdout(), "  - %s (table %s, %d columns)\n", s.Entity(), s.Table(), s.Len())
				}
			}
			return nil
		},
	}
}

func (a *app) watchCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print the SQL statements whenever schemas change",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := a.cfg.ResolvedSchemasDir(dir)
			out := cmd.OutOrStdout()
			w, err := watch.New(dir, func(ctx context.Context) error {
				schemas, err := a.schemas(ctx, []string{dir})
				if err != nil {
					a.logger.ErrorContext(ctx, "invalid schemas", "dir", dir, "error", err)
					return nil
				}
				for _, s := range schemas {
					writeStatements(out, s, false)
				}
				return nil
			}, watch.WithLogger(a.logger))
			if err != nil {
				return config.SchemaError("watching schemas", err)
			}
			a.logger.Info("watching schemas", "dir", dir)
			return w.Run(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "schemas directory (default: schemas_dir from config)")
	return cmd
}
