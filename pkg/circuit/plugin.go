package circuit

import (
	"fmt"
	"sort"
	"sync"
)

// PluginTarget identifies the kind of object a plugin attaches to.
type PluginTarget int

const (
	PluginNet PluginTarget = iota
	PluginPin
	PluginPart
	PluginPort
)

func (t PluginTarget) String() string {
	switch t {
	case PluginNet:
		return "net"
	case PluginPin:
		return "pin"
	case PluginPart:
		return "part"
	case PluginPort:
		return "port"
	default:
		return fmt.Sprintf("PluginTarget(%d)", int(t))
	}
}

// PluginFactory builds the plugin state for one object. owner is the *Net,
// *Pin, *Part or *Port being constructed.
type PluginFactory func(owner any) any

// Plugins maps plugin names to the values their factories returned.
type Plugins map[string]any

// Registry holds plugin factories per target kind.
type Registry struct {
	mu        sync.RWMutex
	factories map[PluginTarget]map[string]PluginFactory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[PluginTarget]map[string]PluginFactory)}
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the process-wide registry consulted by NewNet,
// NewPart and the objects they create.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// RegisterPlugin adds factory to the default registry for every target.
func RegisterPlugin(name string, factory PluginFactory, targets ...PluginTarget) error {
	return defaultRegistry.Register(name, factory, targets...)
}

// Register associates factory with each target under name. A name may be
// registered only once per target.
func (r *Registry) Register(name string, factory PluginFactory, targets ...PluginTarget) error {
	if name == "" || factory == nil {
		return fmt.Errorf("circuit: plugin needs a name and a factory: %w", ErrConfiguration)
	}
	if len(targets) == 0 {
		return fmt.Errorf("circuit: plugin %s has no target: %w", name, ErrConfiguration)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, target := range targets {
		if _, ok := r.factories[target][name]; ok {
			return fmt.Errorf("circuit: plugin %s already registered for %s: %w", name, target, ErrConfiguration)
		}
	}
	for _, target := range targets {
		if r.factories[target] == nil {
			r.factories[target] = make(map[string]PluginFactory)
		}
		r.factories[target][name] = factory
	}
	return nil
}

// Unregister removes name from every target.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, byName := range r.factories {
		delete(byName, name)
	}
}

// Init runs every factory registered for target against owner. It returns
// nil when no factory is registered. Factories run in name order.
func (r *Registry) Init(target PluginTarget, owner any) Plugins {
	r.mu.RLock()
	byName := r.factories[target]
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	factories := make([]PluginFactory, 0, len(names))
	sort.Strings(names)
	for _, name := range names {
		factories = append(factories, byName[name])
	}
	r.mu.RUnlock()

	if len(names) == 0 {
		return nil
	}
	plugins := make(Plugins, len(names))
	for i, name := range names {
		plugins[name] = factories[i](owner)
	}
	return plugins
}
