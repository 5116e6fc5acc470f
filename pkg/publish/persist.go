package publish

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"github.com/vango-dev/pagebake/pkg/render"
)

// WriteError is the failure to store one file.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// PersistError collects every failed write of one Persist call, in path
// order. Files not listed were written.
type PersistError struct {
	Errors    []*WriteError
	Attempted int
}

func (e *PersistError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "publish: %d of %d files failed", len(e.Errors), e.Attempted)
	for i, w := range e.Errors {
		if i == 3 {
			fmt.Fprintf(&sb, "; and %d more", len(e.Errors)-i)
			break
		}
		sb.WriteString("; ")
		sb.WriteString(w.Error())
	}
	return sb.String()
}

// Unwrap exposes the individual write errors to errors.Is and errors.As.
func (e *PersistError) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, w := range e.Errors {
		errs[i] = w
	}
	return errs
}

// Stats summarizes a Persist call.
type Stats struct {
	Written int64
	Failed  int64
	Bytes   int64
}

// Option configures Persist.
type Option func(*options)

type options struct {
	concurrency int
	logger      *slog.Logger
	onWrite     func(path string, size int, err error)
	stats       *Stats
}

// WithConcurrency writes up to n files at once. Values below 2 write
// sequentially in path order.
func WithConcurrency(n int) Option {
	return func(o *options) {
		o.concurrency = n
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithOnWrite registers a callback invoked after every write attempt.
// It may be called concurrently.
func WithOnWrite(fn func(path string, size int, err error)) Option {
	return func(o *options) {
		o.onWrite = fn
	}
}

// WithStats fills s when Persist returns.
func WithStats(s *Stats) Option {
	return func(o *options) {
		o.stats = s
	}
}

// Persist writes every file to sink. A failed write does not stop the
// others; all failures are returned together as a *PersistError.
//
// Once ctx is done, remaining files are not handed to the sink and are
// reported as failed with the context error.
func Persist(ctx context.Context, files render.FileMap, sink Sink, opts ...Option) error {
	o := options{
		concurrency: 1,
		logger:      slog.Default().With("component", "publish"),
	}
	for _, opt := range opts {
		opt(&o)
	}

	paths := files.Paths()
	failures := make([]*WriteError, len(paths))

	var written, failed, size atomic.Int64

	write := func(i int) {
		p := paths[i]
		data, _ := files.Get(p)

		err := ctx.Err()
		if err == nil {
			err = sink.Write(ctx, p, data)
		}

		if err != nil {
			failed.Inc()
			failures[i] = &WriteError{Path: p, Err: err}
			o.logger.Warn("write failed", slog.String("file", p), slog.Any("error", err))
		} else {
			written.Inc()
			size.Add(int64(len(data)))
			o.logger.Debug("wrote", slog.String("file", p), slog.Int("bytes", len(data)))
		}

		if o.onWrite != nil {
			o.onWrite(p, len(data), err)
		}
	}

	if o.concurrency < 2 {
		for i := range paths {
			write(i)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(o.concurrency)
		for i := range paths {
			g.Go(func() error {
				write(i)
				return nil
			})
		}
		_ = g.Wait()
	}

	if o.stats != nil {
		*o.stats = Stats{Written: written.Load(), Failed: failed.Load(), Bytes: size.Load()}
	}

	if failed.Load() == 0 {
		return nil
	}

	perr := &PersistError{Attempted: len(paths)}
	for _, f := range failures {
		if f != nil {
			perr.Errors = append(perr.Errors, f)
		}
	}
	return perr
}
