package module

import (
	"fmt"
	"sync"
)

// MemoryLoader serves modules registered in memory. Set replaces a module and
// notifies its subscribers, which makes it handy for hosts that compile pages
// into the binary and for tests.
type MemoryLoader struct {
	mu      sync.RWMutex
	modules map[string]Results
	subs    *subscribers
	loads   map[string]int
}

func NewMemoryLoader() *MemoryLoader {
	return &MemoryLoader{
		modules: make(map[string]Results),
		subs:    newSubscribers(),
		loads:   make(map[string]int),
	}
}

func (m *MemoryLoader) Set(filePath string, results Results) {
	m.mu.Lock()
	m.modules[filePath] = results
	m.mu.Unlock()

	m.subs.notify(filePath, results)
}

// SetExports is Set for a module that loaded cleanly.
func (m *MemoryLoader) SetExports(filePath string, exports map[string]any) {
	m.Set(filePath, Results{Exports: exports})
}

func (m *MemoryLoader) Require(filePath string, onChange func(Results)) *Required {
	m.mu.Lock()
	results, ok := m.modules[filePath]
	m.loads[filePath]++
	m.mu.Unlock()

	if !ok {
		results = Results{ErrorMessage: fmt.Sprintf("module not found: %s", filePath)}
	}
	return Resolved(results, m.subs.add(filePath, onChange))
}

// Loads reports how many times filePath was required.
func (m *MemoryLoader) Loads(filePath string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loads[filePath]
}

// Subscribers reports how many live change subscriptions filePath has.
func (m *MemoryLoader) Subscribers(filePath string) int {
	return m.subs.count(filePath)
}
