// Package navigation holds the console's sidebar table and the role filter
// applied to it.
package navigation

import (
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/djabaro/stock-console/internal/core/domain"
)

//go:embed menu.yaml
var defaultMenu []byte

// Entry is one sidebar link.
type Entry struct {
	Label   string
	Path    string
	Icon    string
	Allowed domain.RoleSet
}

// Menu is an ordered, read-only list of entries.
type Menu struct {
	entries []Entry
	byPath  map[string]int
}

type rawEntry struct {
	Label string   `yaml:"label"`
	Path  string   `yaml:"path"`
	Icon  string   `yaml:"icon"`
	Roles []string `yaml:"roles"`
}

// Load parses a YAML menu table. Order in the document is menu order.
func Load(data []byte) (*Menu, error) {
	var raw []rawEntry
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse menu: %w", err)
	}

	m := &Menu{
		entries: make([]Entry, 0, len(raw)),
		byPath:  make(map[string]int, len(raw)),
	}
	for i, r := range raw {
		if r.Path == "" || r.Label == "" {
			return nil, fmt.Errorf("menu entry %d: label and path are required", i)
		}
		if _, dup := m.byPath[r.Path]; dup {
			return nil, fmt.Errorf("menu entry %d: duplicate path %s", i, r.Path)
		}

		roles := make([]domain.Role, 0, len(r.Roles))
		for _, name := range r.Roles {
			role, err := domain.ParseRole(name)
			if err != nil {
				return nil, fmt.Errorf("menu entry %s: %w", r.Path, err)
			}
			roles = append(roles, role)
		}
		if len(roles) == 0 {
			return nil, errors.New("menu entry " + r.Path + ": no roles")
		}

		m.byPath[r.Path] = len(m.entries)
		m.entries = append(m.entries, Entry{
			Label:   r.Label,
			Path:    r.Path,
			Icon:    r.Icon,
			Allowed: domain.NewRoleSet(roles...),
		})
	}
	return m, nil
}

// Default returns the built-in console menu.
func Default() *Menu {
	m, err := Load(defaultMenu)
	if err != nil {
		panic(fmt.Sprintf("navigation: built-in menu: %v", err))
	}
	return m
}

// Entries returns every entry in order.
func (m *Menu) Entries() []Entry {
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Visible returns the entries the role may see, in menu order. A nil role
// yields an empty slice.
func (m *Menu) Visible(role *domain.Role) []Entry {
	out := make([]Entry, 0, len(m.entries))
	if role == nil {
		return out
	}
	for _, e := range m.entries {
		if e.Allowed.Has(*role) {
			out = append(out, e)
		}
	}
	return out
}

// Lookup finds the entry registered for path.
func (m *Menu) Lookup(path string) (Entry, bool) {
	i, ok := m.byPath[path]
	if !ok {
		return Entry{}, false
	}
	return m.entries[i], true
}
