package engine

import (
	"context"
	"log/slog"
	"sync"

	"discovery/internal/kv"
)

// write is a pending adapter call. A nil value removes the key.
type write struct {
	key   string
	value []byte
}

func (op write) opName() string {
	if op.value == nil {
		return "remove"
	}
	return "set"
}

// writer applies writes on a single background goroutine. Writes to the same
// key coalesce: only the latest value queued before the writer picks up the
// batch is stored.
type writer struct {
	store  kv.Store
	report func(*PersistenceError)

	mu      sync.Mutex
	cond    *sync.Cond
	pending map[string]write
	order   []string
	busy    bool
	closed  bool
	done    chan struct{}
}

func newWriter(store kv.Store, report func(*PersistenceError)) *writer {
	w := &writer{
		store:   store,
		report:  report,
		pending: make(map[string]write),
		done:    make(chan struct{}),
	}
	w.cond = sync.NewCond(&w.mu)
	go w.run()
	return w
}

// enqueue schedules writes, replacing any pending write for the same key.
func (w *writer) enqueue(writes ...write) {
	if len(writes) == 0 {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, op := range writes {
		if w.closed {
			w.report(&PersistenceError{Op: op.opName(), Key: op.key, Err: ErrClosed})
			continue
		}
		if _, ok := w.pending[op.key]; !ok {
			w.order = append(w.order, op.key)
		}
		w.pending[op.key] = op
	}
	w.cond.Broadcast()
}

// flush blocks until every write enqueued so far has been attempted.
func (w *writer) flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for len(w.pending) > 0 || w.busy {
		w.cond.Wait()
	}
}

// close drains pending writes and stops the goroutine.
func (w *writer) close() {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		w.cond.Broadcast()
	}
	w.mu.Unlock()
	<-w.done
}

func (w *writer) run() {
	defer close(w.done)
	for {
		w.mu.Lock()
		for len(w.pending) == 0 && !w.closed {
			w.cond.Wait()
		}
		if len(w.pending) == 0 && w.closed {
			w.mu.Unlock()
			return
		}
		batch := make([]write, 0, len(w.order))
		for _, key := range w.order {
			batch = append(batch, w.pending[key])
		}
		w.pending = make(map[string]write)
		w.order = nil
		w.busy = true
		w.mu.Unlock()

		for _, op := range batch {
			w.apply(op)
		}

		w.mu.Lock()
		w.busy = false
		w.cond.Broadcast()
		w.mu.Unlock()
	}
}

func (w *writer) apply(op write) {
	ctx := context.Background()
	if op.value == nil {
		if err := w.store.Remove(ctx, op.key); err != nil {
			w.report(&PersistenceError{Op: op.opName(), Key: op.key, Err: err})
			return
		}
		slog.Debug("persisted", "key", op.key, "op", "remove")
		return
	}
	if err := w.store.Set(ctx, op.key, op.value); err != nil {
		w.report(&PersistenceError{Op: "set", Key: op.key, Err: err})
		return
	}
	slog.Debug("persisted", "key", op.key, "bytes", len(op.value))
}
