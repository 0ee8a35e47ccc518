package guard

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Category classifies a request path for access control
type Category int

const (
	Public Category = iota
	RequiresSession
	RequiresAdmin
	AuthOnly
)

func (c Category) String() string {
	switch c {
	case RequiresSession:
		return "requires_session"
	case RequiresAdmin:
		return "requires_admin"
	case AuthOnly:
		return "auth_only"
	default:
		return "public"
	}
}

// Table maps path prefixes to categories. Session and admin entries match
// the prefix itself and any subpath; auth-only entries match exactly.
type Table struct {
	Session  []string `yaml:"session"`
	Admin    []string `yaml:"admin"`
	AuthOnly []string `yaml:"auth_only"`
}

// DefaultTable returns the storefront's built-in route table
func DefaultTable() Table {
	return Table{
		Session:  []string{"/account", "/cart", "/transactions"},
		Admin:    []string{"/admin"},
		AuthOnly: []string{"/login", "/register"},
	}
}

// LoadTable reads a route table from a YAML file. Sections missing from the
// file keep their default entries.
func LoadTable(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("failed to read route table: %w", err)
	}

	var file struct {
		Session  *[]string `yaml:"session"`
		Admin    *[]string `yaml:"admin"`
		AuthOnly *[]string `yaml:"auth_only"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Table{}, fmt.Errorf("failed to parse route table: %w", err)
	}

	table := DefaultTable()
	if file.Session != nil {
		table.Session = *file.Session
	}
	if file.Admin != nil {
		table.Admin = *file.Admin
	}
	if file.AuthOnly != nil {
		table.AuthOnly = *file.AuthOnly
	}

	if err := table.Validate(); err != nil {
		return Table{}, err
	}
	return table, nil
}

// Validate checks that every entry is an absolute path without a trailing slash
func (t Table) Validate() error {
	for _, group := range [][]string{t.Session, t.Admin, t.AuthOnly} {
		for _, prefix := range group {
			if !strings.HasPrefix(prefix, "/") {
				return fmt.Errorf("route %q must start with /", prefix)
			}
			if len(prefix) > 1 && strings.HasSuffix(prefix, "/") {
				return fmt.Errorf("route %q must not end with /", prefix)
			}
		}
	}
	return nil
}

// Marshal renders the table as YAML
func (t Table) Marshal() ([]byte, error) {
	return yaml.Marshal(t)
}

// match holds the independent membership flags of a path
type match struct {
	session  bool
	admin    bool
	authOnly bool
}

func (t Table) match(path string) match {
	return match{
		session:  matchesPrefix(t.Session, path),
		admin:    matchesPrefix(t.Admin, path),
		authOnly: matchesExact(t.AuthOnly, path),
	}
}

// Classify returns the strictest category of path
func (t Table) Classify(path string) Category {
	m := t.match(path)
	switch {
	case m.admin:
		return RequiresAdmin
	case m.session:
		return RequiresSession
	case m.authOnly:
		return AuthOnly
	default:
		return Public
	}
}

func matchesPrefix(prefixes []string, path string) bool {
	for _, prefix := range prefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

func matchesExact(paths []string, path string) bool {
	for _, p := range paths {
		if path == p {
			return true
		}
	}
	return false
}
