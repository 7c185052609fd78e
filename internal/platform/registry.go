package platform

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrNoCapture is returned when no registered capture backend is available.
var ErrNoCapture = errors.New("no screenshot backend available")

// StrategyAuto selects the highest priority available backend.
const StrategyAuto = "auto"

type registered struct {
	backend  CaptureBackend
	priority int
}

var (
	registryMu sync.RWMutex
	backends   []registered
)

// RegisterCapture adds a capture backend. Lower priority values are tried
// first by DetectCapture. Typically called from a backend package's init().
func RegisterCapture(b CaptureBackend, priority int) {
	registryMu.Lock()
	defer registryMu.Unlock()
	backends = append(backends, registered{backend: b, priority: priority})
	sort.SliceStable(backends, func(i, j int) bool {
		return backends[i].priority < backends[j].priority
	})
}

// DetectCapture returns the backend named by strategy, or the first available
// one for "auto" and "".
func DetectCapture(strategy string) (CaptureBackend, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	if strategy == "" || strategy == StrategyAuto {
		for _, r := range backends {
			if r.backend.Available() {
				return r.backend, nil
			}
		}
		return nil, fmt.Errorf("%w (tried %d backends)", ErrNoCapture, len(backends))
	}

	for _, r := range backends {
		if r.backend.Name() == strategy {
			if !r.backend.Available() {
				return nil, fmt.Errorf("%w: %s is not usable in this session", ErrNoCapture, strategy)
			}
			return r.backend, nil
		}
	}
	return nil, fmt.Errorf("unknown capture strategy %q (registered: %v)", strategy, CaptureNames())
}

// CaptureNames lists registered backends in priority order.
func CaptureNames() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(backends))
	for _, r := range backends {
		names = append(names, r.backend.Name())
	}
	return names
}

// ClearCaptureBackends removes all registered backends (for tests).
func ClearCaptureBackends() {
	registryMu.Lock()
	defer registryMu.Unlock()
	backends = nil
}
