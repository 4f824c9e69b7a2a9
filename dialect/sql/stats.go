package sql

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/syssam/liteddl/dialect"
)

// Stats counts the statements run through a StatsDriver.
type Stats struct {
	Execs   int64         // schema statements
	Queries int64         // introspection queries
	Errors  int64         // failed statements of both kinds
	Slow    int64         // statements slower than the threshold
	Elapsed time.Duration // total time spent in the driver
}

// LogValue implements slog.LogValuer.
func (s Stats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("execs", s.Execs),
		slog.Int64("queries", s.Queries),
		slog.Int64("errors", s.Errors),
		slog.Int64("slow", s.Slow),
		slog.Duration("elapsed", s.Elapsed),
	)
}

// SlowQueryHook is called for every statement slower than the threshold.
type SlowQueryHook func(ctx context.Context, query string, d time.Duration)

// StatsDriver wraps a Driver and counts the statements it runs, inside
// and outside transactions.
//
//	stats := sql.NewStatsDriver(drv)
//	m := schema.NewMigrator(stats)
//	...
//	logger.Info("schema applied", "stats", stats.Stats())
type StatsDriver struct {
	dialect.Driver
	threshold time.Duration
	onSlow    SlowQueryHook

	execs, queries, errors, slow, elapsed atomic.Int64
}

// StatsOption configures the StatsDriver.
type StatsOption func(*StatsDriver)

// WithSlowThreshold sets the duration above which a statement is slow.
// The default is 100ms.
func WithSlowThreshold(d time.Duration) StatsOption {
	return func(s *StatsDriver) {
		s.threshold = d
	}
}

// WithSlowQueryHook replaces the default slow statement hook, which logs
// a warning with slog.
func WithSlowQueryHook(hook SlowQueryHook) StatsOption {
	return func(s *StatsDriver) {
		s.onSlow = hook
	}
}

// NewStatsDriver wraps drv with statement counting.
func NewStatsDriver(drv dialect.Driver, opts ...StatsOption) *StatsDriver {
	s := &StatsDriver{
		Driver:    drv,
		threshold: 100 * time.Millisecond,
		onSlow: func(ctx context.Context, query string, d time.Duration) {
			slog.WarnContext(ctx, "slow statement detected", "duration", d, "query", query)
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Stats returns the counters collected so far.
func (d *StatsDriver) Stats() Stats {
	return Stats{
		Execs:   d.execs.Load(),
		Queries: d.queries.Load(),
		Errors:  d.errors.Load(),
		Slow:    d.slow.Load(),
		Elapsed: time.Duration(d.elapsed.Load()),
	}
}

// Query implements dialect.ExecQuerier.
func (d *StatsDriver) Query(ctx context.Context, query string, args, v any) error {
	return d.observe(ctx, query, &d.queries, func() error {
		return d.Driver.Query(ctx, query, args, v)
	})
}

// Exec implements dialect.ExecQuerier.
func (d *StatsDriver) Exec(ctx context.Context, query string, args, v any) error {
	return d.observe(ctx, query, &d.execs, func() error {
		return d.Driver.Exec(ctx, query, args, v)
	})
}

// observe runs fn and records it in counter and the shared counters.
func (d *StatsDriver) observe(ctx context.Context, query string, counter *atomic.Int64, fn func() error) error {
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)
	counter.Add(1)
	d.elapsed.Add(int64(elapsed))
	if err != nil {
		d.errors.Add(1)
	}
	if elapsed > d.threshold {
		d.slow.Add(1)
		if d.onSlow != nil {
			d.onSlow(ctx, query, elapsed)
		}
	}
	return err
}

// Tx starts a transaction whose statements are counted by d.
func (d *StatsDriver) Tx(ctx context.Context) (dialect.Tx, error) {
	tx, err := d.Driver.Tx(ctx)
	if err != nil {
		return nil, err
	}
	return &statsTx{Tx: tx, d: d}, nil
}

type statsTx struct {
	dialect.Tx
	d *StatsDriver
}

func (tx *statsTx) Query(ctx context.Context, query string, args, v any) error {
	return tx.d.observe(ctx, query, &tx.d.queries, func() error {
		return tx.Tx.Query(ctx, query, args, v)
	})
}

func (tx *statsTx) Exec(ctx context.Context, query string, args, v any) error {
	return tx.d.observe(ctx, query, &tx.d.execs, func() error {
		return tx.Tx.Exec(ctx, query, args, v)
	})
}

// DebugDriver wraps a Driver with statement logging.
type DebugDriver struct {
	dialect.Driver
	log func(context.Context, string, ...any)
}

// DebugOption configures the DebugDriver.
type DebugOption func(*DebugDriver)

// DebugWithLog sets a custom log function. It receives a message and
// slog-style key/value pairs.
func DebugWithLog(logFunc func(context.Context, string, ...any)) DebugOption {
	return func(d *DebugDriver) {
		d.log = logFunc
	}
}

// DebugWithLogger logs through the given slog.Logger at debug level.
func DebugWithLogger(l *slog.Logger) DebugOption {
	return DebugWithLog(l.DebugContext)
}

// NewDebugDriver wraps a Driver with statement logging. By default,
// statements are logged with slog.DebugContext.
func NewDebugDriver(drv dialect.Driver, opts ...DebugOption) *DebugDriver {
	d := &DebugDriver{
		Driver: drv,
		log:    slog.DebugContext,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Query executes a query and logs it.
func (d *DebugDriver) Query(ctx context.Context, query string, args, v any) error {
	d.log(ctx, "query", "sql", query, "args", args)
	return d.Driver.Query(ctx, query, args, v)
}

// Exec executes a statement and logs it.
func (d *DebugDriver) Exec(ctx context.Context, query string, args, v any) error {
	d.log(ctx, "exec", "sql", query)
	return d.Driver.Exec(ctx, query, args, v)
}

// Tx starts a transaction with statement logging.
func (d *DebugDriver) Tx(ctx context.Context) (dialect.Tx, error) {
	d.log(ctx, "begin transaction")
	tx, err := d.Driver.Tx(ctx)
	if err != nil {
		return nil, err
	}
	return &DebugTx{Tx: tx, log: d.log}, nil
}

// DebugTx wraps a transaction with statement logging.
type DebugTx struct {
	dialect.Tx
	log func(context.Context, string, ...any)
}

// Query executes a query within the transaction and logs it.
func (tx *DebugTx) Query(ctx context.Context, query string, args, v any) error {
	tx.log(ctx, "tx query", "sql", query, "args", args)
	return tx.Tx.Query(ctx, query, args, v)
}

// Exec executes a statement within the transaction and logs it.
func (tx *DebugTx) Exec(ctx context.Context, query string, args, v any) error {
	tx.log(ctx, "tx exec", "sql", query)
	return tx.Tx.Exec(ctx, query, args, v)
}

// Commit commits the transaction and logs it.
func (tx *DebugTx) Commit() error {
	tx.log(context.Background(), "commit transaction")
	return tx.Tx.Commit()
}

// Rollback rolls back the transaction and logs it.
func (tx *DebugTx) Rollback() error {
	tx.log(context.Background(), "rollback transaction")
	return tx.Tx.Rollback()
}

// Ensure interfaces are implemented.
var (
	_ dialect.Driver = (*StatsDriver)(nil)
	_ dialect.Tx     = (*statsTx)(nil)
	_ dialect.Driver = (*DebugDriver)(nil)
	_ dialect.Tx     = (*DebugTx)(nil)
)
