package sql

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/remdragon/worm/dialect"
)

// Statement kinds counted by QueryStats, derived from the leading keyword.
const (
	KindOther = iota
	KindCreate
	KindDrop
	KindInsert
	KindUpdate
	KindSelect
	KindDelete
	numKinds
)

var kindNames = [numKinds]string{"other", "create", "drop", "insert", "update", "select", "delete"}

// StatementKind returns the kind of the statement from its leading keyword.
func StatementKind(query string) int {
	keyword, _, _ := strings.Cut(strings.TrimSpace(query), " ")
	for k := KindCreate; k < numKinds; k++ {
		if strings.EqualFold(keyword, kindNames[k]) {
			return k
		}
	}
	return KindOther
}

// QueryStats holds statement execution statistics.
type QueryStats struct {
	// Statements counts executed statements per kind.
	Statements [numKinds]atomic.Int64
	// Duration is the total time spent executing statements, in nanoseconds.
	Duration atomic.Int64
	// Slow counts the statements exceeding the slow threshold.
	Slow atomic.Int64
	// Errors counts failed statements.
	Errors atomic.Int64
}

// Stats returns a snapshot of the current statistics.
func (s *QueryStats) Stats() StatsSnapshot {
	snap := StatsSnapshot{
		Duration: time.Duration(s.Duration.Load()),
		Slow:     s.Slow.Load(),
		Errors:   s.Errors.Load(),
	}
	for k := range s.Statements {
		snap.Statements[k] = s.Statements[k].Load()
	}
	return snap
}

// Reset resets all statistics to zero.
func (s *QueryStats) Reset() {
	for k := range s.Statements {
		s.Statements[k].Store(0)
	}
	s.Duration.Store(0)
	s.Slow.Store(0)
	s.Errors.Store(0)
}

// StatsSnapshot is a point-in-time snapshot of statement statistics.
type StatsSnapshot struct {
	Statements [numKinds]int64
	Duration   time.Duration
	Slow       int64
	Errors     int64
}

// Total returns the number of executed statements.
func (s StatsSnapshot) Total() int64 {
	var n int64
	for _, c := range s.Statements {
		n += c
	}
	return n
}

// Avg returns the average statement duration.
func (s StatsSnapshot) Avg() time.Duration {
	total := s.Total()
	if total == 0 {
		return 0
	}
	return s.Duration / time.Duration(total)
}

// String returns a human-readable summary of the statistics.
func (s StatsSnapshot) String() string {
	var b strings.Builder
	for k, c := range s.Statements {
		if c > 0 {
			fmt.Fprintf(&b, "%s=%d ", kindNames[k], c)
		}
	}
	fmt.Fprintf(&b, "total=%d duration=%s avg=%s slow=%d errors=%d", s.Total(), s.Duration, s.Avg(), s.Slow, s.Errors)
	return b.String()
}

// SlowQueryHook is a function called when a slow statement is detected.
type SlowQueryHook func(ctx context.Context, query string, args []any, duration time.Duration)

// StatsDriver wraps a Driver with statement statistics collection.
type StatsDriver struct {
	*Driver
	stats         *QueryStats
	slowThreshold time.Duration
	slowHook      SlowQueryHook
	mu            sync.RWMutex
}

// StatsOption configures the StatsDriver.
type StatsOption func(*StatsDriver)

// WithSlowThreshold sets the threshold for slow statement detection.
// Default is 100ms.
func WithSlowThreshold(d time.Duration) StatsOption {
	return func(s *StatsDriver) {
		s.slowThreshold = d
	}
}

// WithSlowQueryHook sets a callback function for slow statements.
func WithSlowQueryHook(hook SlowQueryHook) StatsOption {
	return func(s *StatsDriver) {
		s.slowHook = hook
	}
}

// WithSlowQueryLog logs slow statements as warnings to the given logger,
// or to the default logger if l is nil.
func WithSlowQueryLog(l *slog.Logger) StatsOption {
	return WithSlowQueryHook(func(ctx context.Context, query string, args []any, duration time.Duration) {
		logger := l
		if logger == nil {
			logger = slog.Default()
		}
		logger.WarnContext(ctx, "slow statement", "duration", duration, "query", query, "args", args)
	})
}

// NewStatsDriver wraps a Driver with statistics collection.
//
//	drv, _ := sql.Open(dialect.SQLite, dsn)
//	statsDriver := sql.NewStatsDriver(drv,
//	    sql.WithSlowThreshold(200*time.Millisecond),
//	    sql.WithSlowQueryLog(nil),
//	)
//	users, _ := worm.NewTable[User](statsDriver)
//
//	// Later, check statistics:
//	fmt.Println(statsDriver.QueryStats().Stats())
func NewStatsDriver(drv *Driver, opts ...StatsOption) *StatsDriver {
	s := &StatsDriver{
		Driver:        drv,
		stats:         &QueryStats{},
		slowThreshold: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// QueryStats returns the underlying QueryStats for reading statistics.
func (d *StatsDriver) QueryStats() *QueryStats {
	return d.stats
}

// SlowThreshold returns the current slow statement threshold.
func (d *StatsDriver) SlowThreshold() time.Duration {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.slowThreshold
}

// SetSlowThreshold updates the slow statement threshold.
func (d *StatsDriver) SetSlowThreshold(threshold time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.slowThreshold = threshold
}

// Query executes a query and records statistics.
func (d *StatsDriver) Query(ctx context.Context, query string, args, v any) error {
	start := time.Now()
	err := d.Driver.Query(ctx, query, args, v)
	d.record(ctx, query, args, start, err)
	return err
}

// Exec executes a statement and records statistics.
func (d *StatsDriver) Exec(ctx context.Context, query string, args, v any) error {
	start := time.Now()
	err := d.Driver.Exec(ctx, query, args, v)
	d.record(ctx, query, args, start, err)
	return err
}

func (d *StatsDriver) record(ctx context.Context, query string, args any, start time.Time, err error) {
	duration := time.Since(start)
	d.stats.Statements[StatementKind(query)].Add(1)
	d.stats.Duration.Add(int64(duration))
	if err != nil {
		d.stats.Errors.Add(1)
	}

	d.mu.RLock()
	threshold := d.slowThreshold
	hook := d.slowHook
	d.mu.RUnlock()

	if duration > threshold {
		d.stats.Slow.Add(1)
		if hook != nil {
			argv, _ := args.([]any)
			hook(ctx, query, argv, duration)
		}
	}
}

// DebugDriver wraps a driver with statement logging. It may wrap a
// StatsDriver, in which case statements are both logged and counted.
type DebugDriver struct {
	dialect.Driver
	log func(context.Context, ...any)
}

// DebugOption configures the DebugDriver.
type DebugOption func(*DebugDriver)

// DebugWithLog sets a custom log function.
func DebugWithLog(logFunc func(context.Context, ...any)) DebugOption {
	return func(d *DebugDriver) {
		d.log = logFunc
	}
}

// DebugWithLogger logs statements at debug level to the given logger.
func DebugWithLogger(l *slog.Logger) DebugOption {
	return DebugWithLog(func(ctx context.Context, v ...any) {
		l.DebugContext(ctx, fmt.Sprint(v...))
	})
}

// NewDebugDriver wraps a driver with statement logging. Statements are
// logged to the default slog logger unless an option says otherwise.
func NewDebugDriver(drv dialect.Driver, opts ...DebugOption) *DebugDriver {
	d := &DebugDriver{
		Driver: drv,
		log: func(ctx context.Context, v ...any) {
			slog.InfoContext(ctx, fmt.Sprint(v...))
		},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Query logs the query and executes it.
func (d *DebugDriver) Query(ctx context.Context, query string, args, v any) error {
	d.log(ctx, fmt.Sprintf("query: %s args: %v", query, args))
	return d.Driver.Query(ctx, query, args, v)
}

// Exec logs the statement and executes it.
func (d *DebugDriver) Exec(ctx context.Context, query string, args, v any) error {
	d.log(ctx, fmt.Sprintf("exec: %s args: %v", query, args))
	return d.Driver.Exec(ctx, query, args, v)
}

var (
	_ dialect.Driver = (*StatsDriver)(nil)
	_ dialect.Driver = (*DebugDriver)(nil)
)

// OpenWithStats opens a database connection with statistics collection enabled.
func OpenWithStats(driverName, source string, opts ...StatsOption) (*StatsDriver, *QueryStats, error) {
	drv, err := Open(driverName, source)
	if err != nil {
		return nil, nil, err
	}
	statsDriver := NewStatsDriver(drv, opts...)
	return statsDriver, statsDriver.QueryStats(), nil
}
