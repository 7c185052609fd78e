package script

import (
	"fmt"
	"sort"
	"sync"
)

// Factory builds a built-in script from host capabilities.
type Factory func(Deps) (Script, error)

// Entry describes a registered built-in script.
type Entry struct {
	Name        string `yaml:"name"        json:"name"`
	Description string `yaml:"description" json:"description"`
	Points      int    `yaml:"points"      json:"points"` // minimum number of points the script reads
	factory     Factory
}

var (
	registryMu sync.RWMutex
	builtins   = map[string]Entry{}
)

// Register adds a built-in script. It panics on duplicate names, like
// registering two handlers for one route.
func Register(name, description string, points int, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := builtins[name]; dup {
		panic(fmt.Sprintf("script %q registered twice", name))
	}
	builtins[name] = Entry{Name: name, Description: description, Points: points, factory: f}
}

// Lookup returns the built-in script called name.
func Lookup(name string) (Entry, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	e, ok := builtins[name]
	return e, ok
}

// Entries lists built-in scripts sorted by name.
func Entries() []Entry {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]Entry, 0, len(builtins))
	for _, e := range builtins {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Build instantiates the entry.
func (e Entry) Build(d Deps) (Script, error) {
	if e.factory == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoEntryPoint, e.Name)
	}
	return e.factory(d)
}

// Names lists built-in script names, sorted.
func Names() []string {
	entries := Entries()
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}
