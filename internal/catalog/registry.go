// File: internal/catalog/registry.go
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mindsetos/teamreport/api/schemas"
)

//go:embed modules.yaml
var defaultCatalog []byte

// Module is one selectable report section. Template may reference a module
// number ("MODULE 3"); that number is a placeholder rewritten at compile time.
type Module struct {
	ID       string `yaml:"id" json:"id"`
	Title    string `yaml:"title" json:"title"`
	Template string `yaml:"template" json:"prompt,omitempty"`
}

// PromptTemplate returns the module's template, or a generic instruction block
// when the catalog entry does not carry one.
func (m Module) PromptTemplate() string {
	if strings.TrimSpace(m.Template) != "" {
		return m.Template
	}
	return fmt.Sprintf("### MODULE 1: %s\n\nGenerate content for %s based on the team context.",
		strings.ToUpper(m.Title), m.Title)
}

type catalogFile struct {
	Modules []Module `yaml:"modules"`
}

// Registry is the fixed, ordered catalog of report modules. It is built once at
// startup and never mutated, so it is safe to share between goroutines.
type Registry struct {
	modules []Module
	index   map[string]int
}

// New validates modules and builds a registry preserving their order.
func New(modules []Module) (*Registry, error) {
	if len(modules) == 0 {
		return nil, fmt.Errorf("module catalog is empty")
	}
	r := &Registry{
		modules: make([]Module, 0, len(modules)),
		index:   make(map[string]int, len(modules)),
	}
	for i, m := range modules {
		m.ID = strings.TrimSpace(m.ID)
		m.Title = strings.TrimSpace(m.Title)
		if m.ID == "" {
			return nil, fmt.Errorf("module at index %d has no id", i)
		}
		if m.Title == "" {
			return nil, fmt.Errorf("module %q has no title", m.ID)
		}
		if _, dup := r.index[m.ID]; dup {
			return nil, fmt.Errorf("duplicate module id %q", m.ID)
		}
		r.index[m.ID] = len(r.modules)
		r.modules = append(r.modules, m)
	}
	return r, nil
}

// Parse builds a registry from a YAML catalog document.
func Parse(data []byte) (*Registry, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse module catalog: %w", err)
	}
	return New(f.Modules)
}

// Default returns the registry compiled into the binary.
func Default() (*Registry, error) {
	return Parse(defaultCatalog)
}

// Load reads a catalog file, or returns the default registry when path is empty.
func Load(path string) (*Registry, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read module catalog %s: %w", path, err)
	}
	return Parse(data)
}

// All returns the catalog in its canonical order.
func (r *Registry) All() []Module {
	out := make([]Module, len(r.modules))
	copy(out, r.modules)
	return out
}

// IDs returns the module ids in canonical order.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.modules))
	for i, m := range r.modules {
		ids[i] = m.ID
	}
	return ids
}

func (r *Registry) Len() int { return len(r.modules) }

// Lookup finds a module by id.
func (r *Registry) Lookup(id string) (Module, bool) {
	i, ok := r.index[id]
	if !ok {
		return Module{}, false
	}
	return r.modules[i], true
}

// Position returns the 1-based canonical position of id, or 0 if unknown.
func (r *Registry) Position(id string) int {
	i, ok := r.index[id]
	if !ok {
		return 0
	}
	return i + 1
}

// Resolve maps an ordered id selection onto module definitions. Duplicate ids
// keep their first occurrence. An empty input yields an empty result; deciding
// whether that is acceptable is the caller's job.
func (r *Registry) Resolve(ids []string) ([]Module, error) {
	seen := make(map[string]struct{}, len(ids))
	out := make([]Module, 0, len(ids))
	for _, raw := range ids {
		id := strings.TrimSpace(raw)
		if _, dup := seen[id]; dup {
			continue
		}
		m, ok := r.Lookup(id)
		if !ok {
			return nil, fmt.Errorf("%w: unknown module id %q", schemas.ErrInvalidRequest, raw)
		}
		seen[id] = struct{}{}
		out = append(out, m)
	}
	return out, nil
}
