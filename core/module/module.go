// Package module defines the capability the router uses to load page and
// layout modules, plus two implementations: an in-memory loader and a yaegi
// interpreter backed loader that hot-reloads files from disk.
package module

import (
	"context"
	"sync"
)

// Results is the outcome of loading one module. A failed load is reported
// through ErrorMessage; Exports is then usually empty.
type Results struct {
	Exports      map[string]any
	ErrorMessage string
}

// Export looks up an export by name.
func (r Results) Export(name string) (any, bool) {
	if r.Exports == nil {
		return nil, false
	}
	v, ok := r.Exports[name]
	return v, ok
}

// Loader loads modules by file path. onChange, when non-nil, receives every
// later reload of the module until the returned handle is disposed.
type Loader interface {
	Require(filePath string, onChange func(Results)) *Required
}

// Required is a pending module load plus the handle releasing its change
// subscription.
type Required struct {
	done    chan struct{}
	once    sync.Once
	results Results
	err     error

	disposeOnce sync.Once
	dispose     func()
}

// NewRequired returns an unresolved handle. resolve must be called exactly
// once; later calls are ignored.
func NewRequired(dispose func()) (*Required, func(Results, error)) {
	r := &Required{done: make(chan struct{}), dispose: dispose}
	return r, r.resolve
}

// Resolved returns a handle whose results are already known.
func Resolved(results Results, dispose func()) *Required {
	r, resolve := NewRequired(dispose)
	resolve(results, nil)
	return r
}

func (r *Required) resolve(results Results, err error) {
	r.once.Do(func() {
		r.results = results
		r.err = err
		close(r.done)
	})
}

// Wait blocks until the module is loaded or ctx is done.
func (r *Required) Wait(ctx context.Context) (Results, error) {
	select {
	case <-r.done:
		return r.results, r.err
	case <-ctx.Done():
		return Results{}, ctx.Err()
	}
}

// Dispose releases the change subscription. Safe to call more than once.
func (r *Required) Dispose() {
	r.disposeOnce.Do(func() {
		if r.dispose != nil {
			r.dispose()
		}
	})
}
