package component

import "sync"

// Dispatcher holds a value and tells its listeners about every Set.
type Dispatcher[T any] struct {
	mu        sync.RWMutex
	value     T
	nextID    int
	listeners map[int]func(T)
}

func NewDispatcher[T any](value T) *Dispatcher[T] {
	return &Dispatcher[T]{value: value, listeners: make(map[int]func(T))}
}

func (d *Dispatcher[T]) Get() T {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.value
}

// Set stores value and calls every listener with it, outside the lock.
func (d *Dispatcher[T]) Set(value T) {
	d.mu.Lock()
	d.value = value
	fns := make([]func(T), 0, len(d.listeners))
	for _, fn := range d.listeners {
		fns = append(fns, fn)
	}
	d.mu.Unlock()

	for _, fn := range fns {
		fn(value)
	}
}

// Subscribe registers fn and returns the function removing it.
func (d *Dispatcher[T]) Subscribe(fn func(T)) func() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.nextID++
	id := d.nextID
	d.listeners[id] = fn

	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		delete(d.listeners, id)
	}
}

// Listeners reports how many listeners are registered.
func (d *Dispatcher[T]) Listeners() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.listeners)
}
