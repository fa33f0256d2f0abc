package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/remdragon/worm/internal/config"
	"github.com/remdragon/worm/load"
	"github.com/remdragon/worm/schema"
)

// app holds the state shared by the commands, set during PersistentPreRunE.
type app struct {
	cfg        *config.Config
	configPath string
	logger     *slog.Logger

	// Persistent flags
	cfgFile string
	verbose int
	quiet   bool
}

// Command group IDs
const (
	groupSchema   = "schema"
	groupDatabase = "database"
	groupUtility  = "utility"
)

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "worm",
		Short: "Schema-driven SQL statements for SQLite",
		Long: `worm - schema-driven SQL statements for SQLite

worm compiles entity schema files (YAML, JSON or msgpack) and prints or applies
the SQL statements that manage their tables.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}
			var err error
			a.cfg, a.configPath, err = config.Load(a.cfgFile)
			if err != nil {
				return config.ConfigError("loading configuration", err)
			}
			level, _ := a.cfg.Level()
			if a.verbose > 0 {
				level = slog.LevelDebug
			}
			if a.quiet {
				level = slog.LevelError
			}
			a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			slog.SetDefault(a.logger)
			if a.configPath != "" {
				a.logger.Debug("loaded configuration", "path", a.configPath)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: auto-discover worm.yaml)")
	root.PersistentFlags().CountVarP(&a.verbose, "verbose", "v", "increase verbosity")
	root.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "suppress non-error output")

	root.AddGroup(
		&cobra.Group{ID: groupSchema, Title: "Schema:"},
		&cobra.Group{ID: groupDatabase, Title: "Database:"},
		&cobra.Group{ID: groupUtility, Title: "Utility:"},
	)
	for _, cmd := range []*cobra.Command{a.sqlCmd(), a.checkCmd(), a.watchCmd()} {
		cmd.GroupID = groupSchema
		root.AddCommand(cmd)
	}
	apply := a.applyCmd()
	apply.GroupID = groupDatabase
	root.AddCommand(apply)
	cfg := a.configCmd()
	cfg.GroupID = groupUtility
	root.AddCommand(cfg)
	return root
}

// Execute runs the root command and returns the process exit code.
func Execute(ctx context.Context, args []string) int {
	root := newRootCmd()
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		return config.Report(os.Stderr, err)
	}
	return config.ExitSuccess
}

// schemas loads the schemas of the given files and directories, or of the
// configured schemas directory when none is given.
func (a *app) schemas(ctx context.Context, paths []string) ([]*schema.Schema, error) {
	if len(paths) == 0 {
		paths = []string{a.cfg.SchemasDir}
	}
	var schemas []*schema.Schema
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, config.SchemaError("reading schemas", err)
		}
		if !info.IsDir() {
			s, err := load.File(path)
			if err != nil {
				return nil, config.SchemaError("loading schema", err)
			}
			schemas = append(schemas, s)
			continue
		}
		dir, err := load.Dir(ctx, path)
		if err != nil {
			return nil, config.SchemaError(fmt.Sprintf("loading schemas from %s", path), err)
		}
		schemas = append(schemas, dir...)
	}
	return schemas, nil
}
