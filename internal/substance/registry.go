package substance

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	ErrNotFound = errors.New("substance: not found")
	ErrInUse    = errors.New("substance: gas is used by a mixture")
)

// Registry owns the loaded materials, gases, and mixtures. Usage of a gas is
// answered by scanning the mixtures rather than by counters on the gas.
type Registry struct {
	mu        sync.RWMutex
	materials map[string]*Material
	gases     map[string]*Gas
	mixtures  map[string]*GasMixture
}

func NewRegistry() *Registry {
	return &Registry{
		materials: make(map[string]*Material),
		gases:     make(map[string]*Gas),
		mixtures:  make(map[string]*GasMixture),
	}
}

func (r *Registry) AddMaterial(m *Material) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.materials[m.Name] = m
}

func (r *Registry) AddGas(g *Gas) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gases[g.Name] = g
}

func (r *Registry) AddMixture(m *GasMixture) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mixtures[m.Name] = m
}

func (r *Registry) Material(name string) (*Material, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.materials[name]
	if !ok {
		return nil, fmt.Errorf("%w: material %q", ErrNotFound, name)
	}
	return m, nil
}

func (r *Registry) Gas(name string) (*Gas, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.gases[name]
	if !ok {
		return nil, fmt.Errorf("%w: gas %q", ErrNotFound, name)
	}
	return g, nil
}

func (r *Registry) Mixture(name string) (*GasMixture, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.mixtures[name]
	if !ok {
		return nil, fmt.Errorf("%w: gas mixture %q", ErrNotFound, name)
	}
	return m, nil
}

// MixturesUsing returns the names of all mixtures referencing the gas.
func (r *Registry) MixturesUsing(gas string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var names []string
	for name, m := range r.mixtures {
		if m.Uses(gas) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// RemoveGas deletes a gas that no mixture references.
func (r *Registry) RemoveGas(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.gases[name]; !ok {
		return fmt.Errorf("%w: gas %q", ErrNotFound, name)
	}
	for mixName, m := range r.mixtures {
		if m.Uses(name) {
			return fmt.Errorf("%w: %q is part of %q", ErrInUse, name, mixName)
		}
	}
	delete(r.gases, name)
	return nil
}

func (r *Registry) MaterialNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.materials)
}

func (r *Registry) GasNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.gases)
}

func (r *Registry) MixtureNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.mixtures)
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
