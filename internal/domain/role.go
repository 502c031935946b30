package domain

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ghodss/yaml"
)

//go:embed default_roles.yaml
var defaultRolesYAML []byte

var ErrEmptyRoleTable = errors.New("role table is empty")

// RoleTable maps the human readable keys accepted by the API to Discord role
// ids. It is never mutated after construction, so concurrent reads need no
// locking.
type RoleTable struct {
	ids map[string]string
}

// NewRoleTable copies entries into a new table. Keys and ids are trimmed and
// must both be non-empty.
func NewRoleTable(entries map[string]string) (*RoleTable, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyRoleTable
	}
	ids := make(map[string]string, len(entries))
	for key, id := range entries {
		k := strings.TrimSpace(key)
		v := strings.TrimSpace(id)
		if k == "" {
			return nil, errors.New("role table: empty role key")
		}
		if v == "" {
			return nil, fmt.Errorf("role table: empty role id for key %q", k)
		}
		ids[k] = v
	}
	return &RoleTable{ids: ids}, nil
}

// ParseRoleTable reads a `key: id` mapping in YAML or JSON.
func ParseRoleTable(data []byte) (*RoleTable, error) {
	var entries map[string]string
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("role table: %w", err)
	}
	return NewRoleTable(entries)
}

// DefaultRoleTable returns the roles shipped with the binary.
func DefaultRoleTable() (*RoleTable, error) {
	return ParseRoleTable(defaultRolesYAML)
}

// Lookup returns the role id for key.
func (t *RoleTable) Lookup(key string) (string, bool) {
	if t == nil {
		return "", false
	}
	id, ok := t.ids[key]
	return id, ok
}

// Keys returns the role keys in lexical order.
func (t *RoleTable) Keys() []string {
	if t == nil {
		return nil
	}
	keys := make([]string, 0, len(t.ids))
	for k := range t.ids {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (t *RoleTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.ids)
}
