package board

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/egobogo/boardsync/internal/config"
)

// Env carries what a Factory needs to build an adapter.
type Env struct {
	ConfigDir string
	Provider  config.ConfigProvider
	Logger    *slog.Logger
}

// Factory connects to a service and returns its adapter.
type Factory func(ctx context.Context, env Env) (Adapter, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

// Register adds a factory under name. Adapter packages call it from init().
func Register(name string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[name]; exists {
		panic(fmt.Sprintf("board adapter %s already registered", name))
	}
	registry[name] = f
}

// Open builds the adapter registered under name.
func Open(ctx context.Context, name string, env Env) (Adapter, error) {
	registryMu.RLock()
	f, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("board adapter %q not registered (have %v)", name, Names())
	}
	return f(ctx, env)
}

// Names returns the registered adapter names, sorted.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// reset clears the registry. Tests only.
func reset() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = map[string]Factory{}
}
