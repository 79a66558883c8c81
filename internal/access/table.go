// Package access implements role-based page access control: the static
// permission table and the decision logic that gates report pages.
package access

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Page is one entry of the page registry: a report page, its navigation
// title, and the roles allowed to open it. Public and Roles are mutually
// exclusive; a public page is reachable by any authenticated session.
type Page struct {
	ID     string   `yaml:"id"`
	Title  string   `yaml:"title"`
	Public bool     `yaml:"public"`
	Roles  []string `yaml:"roles"`
}

// Table is the permission table: the ordered page registry plus a role
// membership index. It is loaded once at startup and read-only thereafter;
// there are no per-user overrides.
type Table struct {
	pages []Page
	byID  map[string]*Page
}

// pagesFile is the on-disk shape of the permission table.
type pagesFile struct {
	Pages []Page `yaml:"pages"`
}

// Load reads the permission table from a YAML file.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pages file: %w", err)
	}

	var f pagesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse pages file: %w", err)
	}

	return New(f.Pages)
}

// New builds a permission table from a page list, validating each entry.
func New(pages []Page) (*Table, error) {
	if len(pages) == 0 {
		return nil, fmt.Errorf("page registry is empty")
	}

	byID := make(map[string]*Page, len(pages))
	for i := range pages {
		p := &pages[i]

		if p.ID == "" {
			return nil, fmt.Errorf("page %d: id is required", i)
		}
		if p.Title == "" {
			return nil, fmt.Errorf("page %q: title is required", p.ID)
		}
		if p.Public && len(p.Roles) > 0 {
			return nil, fmt.Errorf("page %q: public and roles are mutually exclusive", p.ID)
		}
		if !p.Public && len(p.Roles) == 0 {
			return nil, fmt.Errorf("page %q: must be public or list at least one role", p.ID)
		}
		if _, dup := byID[p.ID]; dup {
			return nil, fmt.Errorf("page %q: duplicate id", p.ID)
		}

		byID[p.ID] = p
	}

	return &Table{pages: pages, byID: byID}, nil
}

// Lookup returns the page with the given id, or nil when unregistered.
func (t *Table) Lookup(pageID string) *Page {
	return t.byID[pageID]
}

// Pages returns the registry in declaration order.
func (t *Table) Pages() []Page {
	return t.pages
}

// allows reports whether role is a member of the page's role set.
func (p *Page) allows(role string) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}
