package capability

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Mux routes a model identifier to the runner registered for the longest
// matching prefix.
type Mux struct {
	mu      sync.RWMutex
	runners map[string]Runner
}

func NewMux() *Mux {
	return &Mux{runners: make(map[string]Runner)}
}

// Handle registers r for every model whose identifier starts with prefix.
func (m *Mux) Handle(prefix string, r Runner) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runners[prefix] = r
}

func (m *Mux) Run(ctx context.Context, model string, input any) (*Output, error) {
	r, ok := m.lookup(model)
	if !ok {
		return nil, &RemoteInvocationError{Model: model, Err: fmt.Errorf("%w: %s", ErrUnknownModel, model)}
	}
	return r.Run(ctx, model, input)
}

// Has reports whether some runner is registered for model.
func (m *Mux) Has(model string) bool {
	_, ok := m.lookup(model)
	return ok
}

func (m *Mux) lookup(model string) (Runner, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var (
		best    Runner
		bestLen = -1
	)
	for prefix, r := range m.runners {
		if strings.HasPrefix(model, prefix) && len(prefix) > bestLen {
			best, bestLen = r, len(prefix)
		}
	}
	return best, best != nil
}
