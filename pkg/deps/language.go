package deps

import (
	"fmt"
	"slices"
	"strings"
)

// Language describes the registries and requirement sources available for
// one packaging ecosystem.
type Language struct {
	Name            string
	DefaultRegistry string
	Registries      []string
	RegistryAliases map[string]string
	SourceTypes     []string
	SourceAliases   map[string]string
	NewSource       func(name string) Source
}

// Registry resolves a registry name or alias. An empty name selects the
// default registry.
func (l *Language) Registry(name string) (string, error) {
	if name == "" {
		return l.DefaultRegistry, nil
	}
	name = l.alias(l.RegistryAliases, strings.ToLower(name))
	if !slices.Contains(l.Registries, name) {
		return "", fmt.Errorf("unknown registry %q (available: %s)", name, strings.Join(l.Registries, ", "))
	}
	return name, nil
}

// Source returns the requirement source registered under name or alias.
func (l *Language) Source(name string) (Source, bool) {
	if l.NewSource == nil {
		return nil, false
	}
	s := l.NewSource(l.alias(l.SourceAliases, name))
	return s, s != nil
}

// Sources returns one instance of every source type, in SourceTypes order.
func (l *Language) Sources() []Source {
	var out []Source
	for _, t := range l.SourceTypes {
		if s, ok := l.Source(t); ok {
			out = append(out, s)
		}
	}
	return out
}

func (l *Language) alias(m map[string]string, name string) string {
	if v, ok := m[name]; ok {
		return v
	}
	return name
}
