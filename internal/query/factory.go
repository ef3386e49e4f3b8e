package query

import (
	"time"

	"go.uber.org/zap"

	"github.com/yakoovad/teamquery/internal/store"
)

// Source provides the snapshot a terminal operation evaluates against.
// *store.Store implements it.
type Source interface {
	Snapshot() *store.Snapshot
}

// Observer is notified after every terminal operation.
type Observer func(op string, elapsed time.Duration, err error)

// Factory binds queries to a source. It is safe for concurrent use.
type Factory struct {
	src     Source
	log     *zap.Logger
	observe Observer
}

func NewFactory(src Source, log *zap.Logger) *Factory {
	if log == nil {
		log = zap.NewNop()
	}
	return &Factory{src: src, log: log.Named("query")}
}

// WithObserver returns a copy of the factory reporting to o.
func (f *Factory) WithObserver(o Observer) *Factory {
	c := *f
	c.observe = o
	return &c
}

func (f *Factory) done(op string, q string, start time.Time, rows int, err error) {
	elapsed := time.Since(start)
	if err != nil {
		f.log.Debug("query failed", zap.String("op", op), zap.String("query", q), zap.Error(err))
	} else {
		f.log.Debug("query executed",
			zap.String("op", op),
			zap.String("query", q),
			zap.Int("rows", rows),
			zap.Duration("elapsed", elapsed),
		)
	}
	if f.observe != nil {
		f.observe(op, elapsed, err)
	}
}
