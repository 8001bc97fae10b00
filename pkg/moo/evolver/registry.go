package evolver

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"

	"antevo/pkg/moo/framework"
)

// Evolver transforms one fitness-scored population into the next generation.
type Evolver interface {
	Name() string
	Evolve(population []*framework.Individual, generation int, rng *rand.Rand) ([]*framework.Individual, error)
}

var (
	ErrSchemeExists     = errors.New("selection scheme already registered")
	ErrSchemeNotFound   = errors.New("unknown selection scheme")
	ErrSelectorExists   = errors.New("selector already registered")
	ErrSelectorNotFound = errors.New("unknown selector")
)

// SchemeFactory builds an evolver around the selector it should draw
// parents with.
type SchemeFactory func(Selector) Evolver

type SelectorFactory func() Selector

var registry = struct {
	mu        sync.RWMutex
	schemes   map[string]SchemeFactory
	selectors map[string]SelectorFactory
}{
	schemes:   make(map[string]SchemeFactory),
	selectors: make(map[string]SelectorFactory),
}

func RegisterScheme(name string, factory SchemeFactory) error {
	if name == "" {
		return errors.New("scheme name is required")
	}
	if factory == nil {
		return errors.New("scheme factory is required")
	}

	registry.mu.Lock()
	defer registry.mu.Unlock()

	if _, exists := registry.schemes[name]; exists {
		return fmt.Errorf("%w: %s", ErrSchemeExists, name)
	}
	registry.schemes[name] = factory
	return nil
}

func RegisterSelector(name string, factory SelectorFactory) error {
	if name == "" {
		return errors.New("selector name is required")
	}
	if factory == nil {
		return errors.New("selector factory is required")
	}

	registry.mu.Lock()
	defer registry.mu.Unlock()

	if _, exists := registry.selectors[name]; exists {
		return fmt.Errorf("%w: %s", ErrSelectorExists, name)
	}
	registry.selectors[name] = factory
	return nil
}

// ResolveScheme builds the named evolution scheme around the given selector.
func ResolveScheme(name string, selector Selector) (Evolver, error) {
	registry.mu.RLock()
	factory, ok := registry.schemes[name]
	registry.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q (supported: %v)", ErrSchemeNotFound, name, ListSchemes())
	}
	return factory(selector), nil
}

func ResolveSelector(name string) (Selector, error) {
	registry.mu.RLock()
	factory, ok := registry.selectors[name]
	registry.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q (supported: %v)", ErrSelectorNotFound, name, ListSelectors())
	}
	return factory(), nil
}

func ListSchemes() []string {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	names := make([]string, 0, len(registry.schemes))
	for name := range registry.schemes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func ListSelectors() []string {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	names := make([]string, 0, len(registry.selectors))
	for name := range registry.selectors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	if err := RegisterScheme(NSGA2Name, func(s Selector) Evolver { return NewNSGA2(s) }); err != nil {
		panic(err)
	}
	if err := RegisterSelector(BinaryTournamentName, func() Selector { return BinaryTournament{} }); err != nil {
		panic(err)
	}
}
