package sequence

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrUnknownSequence is returned by Registry.Get for names that match neither
// a registered sequence nor one of its aliases.
var ErrUnknownSequence = errors.New("unknown sequence")

// Kind describes one sequence the application knows how to tabulate.
type Kind struct {
	// Name is the canonical, lower-case identifier (e.g. "fibonacci").
	Name string
	// Aliases are alternative identifiers accepted on input (e.g. "fib").
	Aliases []string
	// ValueHeader is the heading of the value column (e.g. "fib(n)").
	ValueHeader string
	// TitleFormat is a fmt format with a single %d verb receiving the count.
	TitleFormat string
	// New constructs a fresh generator positioned before the first term.
	New func() Generator
}

// Title returns the table title for a table of n terms.
func (k Kind) Title(n int) string {
	return fmt.Sprintf(k.TitleFormat, n)
}

// FibonacciKind is the descriptor of the Fibonacci sequence.
var FibonacciKind = Kind{
	Name:        "fibonacci",
	Aliases:     []string{"fib"},
	ValueHeader: "fib(n)",
	TitleFormat: "fibonacci up to %d",
	New:         func() Generator { return NewFibonacci() },
}

// FactorialKind is the descriptor of the factorial sequence.
var FactorialKind = Kind{
	Name:        "factorial",
	Aliases:     []string{"fact"},
	ValueHeader: "n!",
	TitleFormat: "factorial up to %d",
	New:         func() Generator { return NewFactorial() },
}

// Catalog is the read side of a Registry, used by the driver layers.
type Catalog interface {
	// List returns the canonical names in alphabetical order.
	List() []string
	// Get resolves a name or alias, case-insensitively.
	Get(name string) (Kind, error)
	// Kinds returns every registered Kind in alphabetical order of name.
	Kinds() []Kind
}

// Registry maps sequence names and aliases to their Kind. It is safe for
// concurrent use.
type Registry struct {
	mu      sync.RWMutex
	kinds   map[string]Kind
	aliases map[string]string
}

// NewRegistry creates a registry pre-populated with the given kinds.
// It panics if two kinds claim the same name or alias, since that is a
// programming error.
func NewRegistry(kinds ...Kind) *Registry {
	r := &Registry{
		kinds:   make(map[string]Kind),
		aliases: make(map[string]string),
	}
	for _, k := range kinds {
		if err := r.Register(k); err != nil {
			panic(err)
		}
	}
	return r
}

// DefaultRegistry returns a registry holding the Fibonacci and factorial
// sequences.
func DefaultRegistry() *Registry {
	return NewRegistry(FibonacciKind, FactorialKind)
}

// Register adds k to the registry.
func (r *Registry) Register(k Kind) error {
	name := strings.ToLower(strings.TrimSpace(k.Name))
	if name == "" {
		return errors.New("sequence: kind has no name")
	}
	if k.New == nil {
		return fmt.Errorf("sequence: kind %q has no constructor", name)
	}
	k.Name = name

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.aliases[name]; taken {
		return fmt.Errorf("sequence: name %q already registered", name)
	}
	for _, a := range k.Aliases {
		if _, taken := r.aliases[strings.ToLower(a)]; taken {
			return fmt.Errorf("sequence: alias %q already registered", a)
		}
	}
	r.kinds[name] = k
	r.aliases[name] = name
	for _, a := range k.Aliases {
		r.aliases[strings.ToLower(a)] = name
	}
	return nil
}

// Get implements Catalog.
func (r *Registry) Get(name string) (Kind, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	canonical, ok := r.aliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Kind{}, fmt.Errorf("%w: %q", ErrUnknownSequence, name)
	}
	return r.kinds[canonical], nil
}

// List implements Catalog.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.kinds))
	for name := range r.kinds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Known returns every accepted identifier (names and aliases), sorted.
func (r *Registry) Known() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	known := make([]string, 0, len(r.aliases))
	for id := range r.aliases {
		known = append(known, id)
	}
	sort.Strings(known)
	return known
}

// Kinds implements Catalog.
func (r *Registry) Kinds() []Kind {
	names := r.List()

	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]Kind, 0, len(names))
	for _, name := range names {
		kinds = append(kinds, r.kinds[name])
	}
	return kinds
}
