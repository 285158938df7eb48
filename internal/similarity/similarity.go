// Package similarity provides named string-similarity backends used by the
// fuzzy translation matcher. Backends are registered as factories and built
// on first use.
package similarity

import (
	"sort"
	"sync"

	"github.com/agext/levenshtein"
	"github.com/rotisserie/eris"
)

// Backend scores two strings in [0, 1]; 1 means identical.
type Backend interface {
	Name() string
	Score(a, b string) float64
}

// Factory constructs a Backend.
type Factory func() (Backend, error)

// ErrNoBackend is returned when no backend is registered under a name.
var ErrNoBackend = eris.New("similarity: no backend available")

// Built-in backend names.
const (
	Indel       = "indel"
	Levenshtein = "levenshtein"
)

type registry struct {
	mu        sync.Mutex
	factories map[string]Factory
	built     map[string]Backend
}

var defaultRegistry = newRegistry()

func newRegistry() *registry {
	r := &registry{
		factories: make(map[string]Factory),
		built:     make(map[string]Backend),
	}
	r.register(Indel, func() (Backend, error) { return newIndel(), nil })
	r.register(Levenshtein, func() (Backend, error) { return newLevenshtein(), nil })
	return r
}

func (r *registry) register(name string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = f
	delete(r.built, name)
}

func (r *registry) lookup(name string) (Backend, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if b, ok := r.built[name]; ok {
		return b, nil
	}
	f, ok := r.factories[name]
	if !ok || f == nil {
		return nil, eris.Wrapf(ErrNoBackend, "similarity: lookup %q", name)
	}
	b, err := f()
	if err != nil {
		return nil, eris.Wrapf(err, "similarity: build %q", name)
	}
	if b == nil {
		return nil, eris.Wrapf(ErrNoBackend, "similarity: build %q", name)
	}
	r.built[name] = b
	return b, nil
}

func (r *registry) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.factories))
	for name := range r.factories {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Register adds or replaces a backend factory. A nil factory makes the name
// resolve to ErrNoBackend.
func Register(name string, f Factory) {
	defaultRegistry.register(name, f)
}

// Lookup returns the backend registered under name, building it on first use.
// The built backend is shared by all callers.
func Lookup(name string) (Backend, error) {
	return defaultRegistry.lookup(name)
}

// Names lists the registered backend names.
func Names() []string {
	return defaultRegistry.names()
}

// indel scores 1 - indel_distance/(len(a)+len(b)): a substitution costs as
// much as a deletion plus an insertion.
type indel struct {
	params *levenshtein.Params
}

func newIndel() *indel {
	return &indel{params: levenshtein.NewParams().SubCost(2)}
}

func (*indel) Name() string { return Indel }

func (b *indel) Score(x, y string) float64 {
	return levenshtein.Similarity(x, y, b.params)
}

// lev scores 1 - levenshtein_distance/max(len(a), len(b)).
type lev struct{}

func newLevenshtein() *lev { return &lev{} }

func (*lev) Name() string { return Levenshtein }

func (*lev) Score(x, y string) float64 {
	return levenshtein.Similarity(x, y, nil)
}
