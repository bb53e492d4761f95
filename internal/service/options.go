package service

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

type options struct {
	now            func() time.Time
	logger         *zap.Logger
	preventOverlap bool
}

// Option configures a service.
type Option func(*options)

// WithClock replaces time.Now as the source of the current instant.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithLogger sets the logger used for state changes.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithOverlapPrevention controls whether new bookings may intersect
// waiting or approved bookings of the same item.
func WithOverlapPrevention(enabled bool) Option {
	return func(o *options) { o.preventOverlap = enabled }
}

func buildOptions(opts []Option) options {
	o := options{
		now:            time.Now,
		logger:         zap.NewNop(),
		preventOverlap: true,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// itemLocks serializes work on a single item while leaving other items
// unaffected. Entries are dropped once nobody holds or waits for them.
type itemLocks struct {
	mu    sync.Mutex
	locks map[int64]*itemLock
}

type itemLock struct {
	sync.Mutex
	refs int
}

func newItemLocks() *itemLocks {
	return &itemLocks{locks: make(map[int64]*itemLock)}
}

// lock acquires the lock for id and returns its release function.
func (l *itemLocks) lock(id int64) func() {
	l.mu.Lock()
	il, ok := l.locks[id]
	if !ok {
		il = &itemLock{}
		l.locks[id] = il
	}
	il.refs++
	l.mu.Unlock()

	il.Lock()
	return func() {
		il.Unlock()
		l.mu.Lock()
		il.refs--
		if il.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}
