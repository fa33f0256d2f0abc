package load

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/remdragon/worm/schema"
)

// DirOption configures Dir.
type DirOption func(*dirConfig)

type dirConfig struct {
	workers int
}

// WithWorkers sets the number of files decoded in parallel.
// Default is GOMAXPROCS.
func WithWorkers(n int) DirOption {
	return func(c *dirConfig) {
		if n > 0 {
			c.workers = n
		}
	}
}

// Files returns the descriptor files of dir in lexical order. Hidden files
// and subdirectories are skipped.
func Files(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if _, ok := FormatOf(e.Name()); ok {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	return files, nil
}

// Dir loads every descriptor file of dir. Schemas are returned sorted by
// entity name. The first failing file cancels the others, and two files
// declaring the same entity are an error.
func Dir(ctx context.Context, dir string, opts ...DirOption) ([]*schema.Schema, error) {
	cfg := &dirConfig{workers: runtime.GOMAXPROCS(0)}
	for _, opt := range opts {
		opt(cfg)
	}
	files, err := Files(dir)
	if err != nil {
		return nil, err
	}
	schemas := make([]*schema.Schema, len(files))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(cfg.workers)
	for i, path := range files {
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			s, err := File(path)
			if err != nil {
				return err
			}
			schemas[i] = s
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	seen := make(map[string]string, len(schemas))
	for i, s := range schemas {
		if prev, ok := seen[s.Entity()]; ok {
			return nil, fmt.Errorf("load: entity %s declared in %s and %s", s.Entity(), prev, files[i])
		}
		seen[s.Entity()] = files[i]
	}
	slices.SortFunc(schemas, func(a, b *schema.Schema) int {
		return strings.Compare(a.Entity(), b.Entity())
	})
	return schemas, nil
}
