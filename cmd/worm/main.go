// Command worm prints and applies the SQL statements of entity schemas.
//
// Usage:
//
//	worm [flags] <command>
//
// Commands:
//   - sql: print the statements of schema files
//   - check: validate schema files
//   - watch: print the statements again whenever schema files change
//   - apply: create the tables of schema files in the configured database
//   - config show: print the effective configuration
//
// Configuration is read from worm.yaml (discovered from the working
// directory up to the repository root) and WORM_* environment variables.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := Execute(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}
