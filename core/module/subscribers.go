package module

import "sync"

// subscribers keeps onChange callbacks per file path.
type subscribers struct {
	mu     sync.Mutex
	nextID int
	byPath map[string]map[int]func(Results)
}

func newSubscribers() *subscribers {
	return &subscribers{byPath: make(map[string]map[int]func(Results))}
}

// add registers fn for path and returns the function removing it.
func (s *subscribers) add(path string, fn func(Results)) func() {
	if fn == nil {
		return func() {}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	if s.byPath[path] == nil {
		s.byPath[path] = make(map[int]func(Results))
	}
	s.byPath[path][id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.byPath[path], id)
		if len(s.byPath[path]) == 0 {
			delete(s.byPath, path)
		}
	}
}

func (s *subscribers) notify(path string, results Results) {
	s.mu.Lock()
	fns := make([]func(Results), 0, len(s.byPath[path]))
	for _, fn := range s.byPath[path] {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(results)
	}
}

func (s *subscribers) count(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byPath[path])
}
