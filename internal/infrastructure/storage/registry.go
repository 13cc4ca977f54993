package storage

import (
	"fmt"

	"DisasterPipeline/internal/domain"
)

// Registry keeps a mapping from dialect names to their definitions.
type Registry struct {
	dialects map[string]Dialect
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{dialects: map[string]Dialect{}}
}

// DefaultRegistry holds the SQLite and Postgres dialects.
func DefaultRegistry() *Registry {
	reg := NewRegistry()
	reg.Register(SQLite())
	reg.Register(Postgres())
	return reg
}

// Register adds or replaces a dialect.
func (r *Registry) Register(d Dialect) {
	if r.dialects == nil {
		r.dialects = map[string]Dialect{}
	}
	r.dialects[d.Name] = d
}

// Resolve returns a dialect by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Dialect, error) {
	if d, ok := r.dialects[name]; ok {
		return d, nil
	}
	return Dialect{}, fmt.Errorf("dialect %s: %w", name, domain.ErrUnknownDialect)
}
