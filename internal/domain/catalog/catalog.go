// Package catalog provides the read-only library of known card templates.
//
// A Catalog is built once at startup and injected wherever template lookup
// is needed; it is safe for concurrent reads and is never mutated after
// construction.
package catalog

import (
	"fmt"
	"strings"

	"github.com/eshaffer321/churnpilot-backend/internal/domain/card"
)

// Catalog is an immutable, ordered index of card templates.
type Catalog struct {
	templates []card.Template
	byID      map[string]int
	byName    map[string]int // normalized canonical name -> index
}

// New builds a catalog from the given templates, preserving definition
// order. Duplicate ids are rejected; the matcher's deterministic tie-break
// depends on every template having a stable position.
func New(templates []card.Template) (*Catalog, error) {
	c := &Catalog{
		templates: make([]card.Template, len(templates)),
		byID:      make(map[string]int, len(templates)),
		byName:    make(map[string]int, len(templates)),
	}
	copy(c.templates, templates)

	for i, t := range c.templates {
		if t.ID == "" {
			return nil, fmt.Errorf("catalog: template %q has no id", t.Name)
		}
		if _, dup := c.byID[t.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate template id %q", t.ID)
		}
		c.byID[t.ID] = i
		c.byName[normalizeName(t.Name)] = i
	}
	return c, nil
}

// Builtin returns the catalog of templates that ship with the application.
func Builtin() *Catalog {
	c, err := New(builtinTemplates)
	if err != nil {
		// The builtin set is compiled in; a bad entry is a programming error.
		panic(err)
	}
	return c
}

// Get returns the template with the given id, or nil if unknown.
func (c *Catalog) Get(id string) *card.Template {
	i, ok := c.byID[id]
	if !ok {
		return nil
	}
	t := c.templates[i]
	return &t
}

// GetByName returns the template whose canonical name matches (normalized,
// case-insensitive), or nil.
func (c *Catalog) GetByName(name string) *card.Template {
	i, ok := c.byName[normalizeName(name)]
	if !ok {
		return nil
	}
	t := c.templates[i]
	return &t
}

// All returns the templates in definition order. The returned slice is a
// copy; callers may not reach the catalog's internal state through it.
func (c *Catalog) All() []card.Template {
	out := make([]card.Template, len(c.templates))
	copy(out, c.templates)
	return out
}

// Len returns the number of templates.
func (c *Catalog) Len() int {
	return len(c.templates)
}

func normalizeName(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
