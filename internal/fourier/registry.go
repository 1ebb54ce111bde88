package fourier

import (
	"fmt"
	"sort"
	"sync"
)

// EvaluatorFactory creates evaluators for the registered quadrature rules.
// It allows dependency injection of custom rules in tests.
type EvaluatorFactory interface {
	// Create builds an Evaluator for the named rule, bound to target.
	Create(name string, target Target, opts Options) (Evaluator, error)

	// Get returns the shared Integrator registered under name.
	Get(name string) (Integrator, error)

	// List returns a sorted list of registered rule names.
	List() []string

	// Register adds a rule to the factory.
	Register(name string, creator func() Integrator) error

	// GetAll builds an Evaluator for every registered rule.
	GetAll(target Target, opts Options) map[string]Evaluator
}

// DefaultFactory is the default implementation of EvaluatorFactory. It
// keeps a thread-safe registry of rule creators and caches the stateless
// Integrator instances. Evaluators are built fresh on every call because
// each one is bound to a target.
type DefaultFactory struct {
	mu          sync.RWMutex
	creators    map[string]func() Integrator
	integrators map[string]Integrator
}

// NewDefaultFactory creates a factory with the standard rules registered:
//   - "kronrod": GaussKronrod (global adaptive, the reference rule)
//   - "legendre": GaussLegendre (gonum fixed rule with order doubling)
//   - "simpson": AdaptiveSimpson (recursive bisection)
func NewDefaultFactory() *DefaultFactory {
	f := &DefaultFactory{
		creators:    make(map[string]func() Integrator),
		integrators: make(map[string]Integrator),
	}
	_ = f.Register("kronrod", func() Integrator { return &GaussKronrod{} })
	_ = f.Register("legendre", func() Integrator { return &GaussLegendre{} })
	_ = f.Register("simpson", func() Integrator { return &AdaptiveSimpson{} })
	return f
}

// Register adds a rule. An existing rule with the same name is replaced.
func (f *DefaultFactory) Register(name string, creator func() Integrator) error {
	if creator == nil {
		return fmt.Errorf("nil creator for rule %q", name)
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	f.creators[name] = creator
	delete(f.integrators, name)
	return nil
}

// Get returns the cached Integrator registered under name, creating it on
// first use.
func (f *DefaultFactory) Get(name string) (Integrator, error) {
	f.mu.RLock()
	if in, exists := f.integrators[name]; exists {
		f.mu.RUnlock()
		return in, nil
	}
	f.mu.RUnlock()

	f.mu.Lock()
	defer f.mu.Unlock()

	if in, exists := f.integrators[name]; exists {
		return in, nil
	}
	creator, ok := f.creators[name]
	if !ok {
		return nil, fmt.Errorf("unknown algorithm: %s", name)
	}
	in := creator()
	f.integrators[name] = in
	return in, nil
}

// Create builds an Evaluator for the named rule.
func (f *DefaultFactory) Create(name string, target Target, opts Options) (Evaluator, error) {
	in, err := f.Get(name)
	if err != nil {
		return nil, err
	}
	return NewEvaluator(in, target, opts), nil
}

// List returns the registered rule names in alphabetical order.
func (f *DefaultFactory) List() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	names := make([]string, 0, len(f.creators))
	for name := range f.creators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetAll builds an Evaluator for every registered rule.
func (f *DefaultFactory) GetAll(target Target, opts Options) map[string]Evaluator {
	result := make(map[string]Evaluator)
	for _, name := range f.List() {
		if ev, err := f.Create(name, target, opts); err == nil {
			result[name] = ev
		}
	}
	return result
}

// Has reports whether a rule is registered under name.
func (f *DefaultFactory) Has(name string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, exists := f.creators[name]
	return exists
}

var globalFactory = NewDefaultFactory()

// GlobalFactory returns the process-wide factory.
func GlobalFactory() *DefaultFactory {
	return globalFactory
}
