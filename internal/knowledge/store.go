package knowledge

import (
	"fmt"
	"strings"
)

// Alias is one synonym and the canonical key it resolves to.
type Alias struct {
	Alias string
	Key   string
}

// SynonymSet maps a canonical key to its aliases, the key itself included.
type SynonymSet map[string][]string

// Store is an immutable, insertion-ordered table of entries.
type Store struct {
	name    string
	entries []*Entry
	bodies  []string // lowercased Body() per entry
	byKey   map[string]*Entry
	aliases []Alias
	byAlias map[string]string
}

// NewStore builds a store from entries. Keys and aliases are normalized; an
// empty key, a duplicate key, or an alias claimed by two keys is an error.
func NewStore(name string, entries []Entry) (*Store, error) {
	s := &Store{
		name:    name,
		entries: make([]*Entry, 0, len(entries)),
		bodies:  make([]string, 0, len(entries)),
		byKey:   make(map[string]*Entry, len(entries)),
		byAlias: make(map[string]string),
	}
	for i := range entries {
		e := entries[i]
		e.Key = Normalize(e.Key)
		if e.Key == "" {
			return nil, fmt.Errorf("%w: %s: entry %d has an empty key", ErrInvalidData, name, i)
		}
		if _, dup := s.byKey[e.Key]; dup {
			return nil, fmt.Errorf("%w: %s: duplicate key %q", ErrInvalidData, name, e.Key)
		}
		e.Aliases = normalizeAliases(e.Key, e.Aliases)
		s.byKey[e.Key] = &e
		s.entries = append(s.entries, &e)
		s.bodies = append(s.bodies, strings.ToLower(e.Body()))
	}
	// Aliases are indexed after every key is known so an alias that shadows
	// another entry's key is caught regardless of order.
	for _, e := range s.entries {
		for _, a := range e.Aliases {
			if owner, ok := s.byKey[a]; ok && owner != e {
				return nil, fmt.Errorf("%w: %s: alias %q of %q is the key of another entry", ErrInvalidData, name, a, e.Key)
			}
			if owner, ok := s.byAlias[a]; ok && owner != e.Key {
				return nil, fmt.Errorf("%w: %s: alias %q maps to both %q and %q", ErrInvalidData, name, a, owner, e.Key)
			}
			s.byAlias[a] = e.Key
			s.aliases = append(s.aliases, Alias{Alias: a, Key: e.Key})
		}
	}
	return s, nil
}

func normalizeAliases(key string, raw []string) []string {
	seen := map[string]bool{key: true}
	out := make([]string, 0, len(raw))
	for _, a := range raw {
		a = Normalize(a)
		if a == "" || seen[a] {
			continue
		}
		seen[a] = true
		out = append(out, a)
	}
	return out
}

// Name identifies the store, e.g. "concepts" or "concepts_extra".
func (s *Store) Name() string { return s.name }

// Len returns the number of entries.
func (s *Store) Len() int { return len(s.entries) }

// Get looks up an entry by key after normalizing it.
func (s *Store) Get(key string) (*Entry, bool) {
	e, ok := s.byKey[Normalize(key)]
	return e, ok
}

// CanonicalFor returns the key an alias resolves to.
func (s *Store) CanonicalFor(alias string) (string, bool) {
	k, ok := s.byAlias[Normalize(alias)]
	return k, ok
}

// ContainsSubstring returns every entry whose key or body contains query,
// case-insensitively, in insertion order.
func (s *Store) ContainsSubstring(query string) []*Entry {
	q := strings.ToLower(query)
	var out []*Entry
	for i, e := range s.entries {
		if strings.Contains(e.Key, q) || strings.Contains(s.bodies[i], q) {
			out = append(out, e)
		}
	}
	return out
}

// BodyContains reports whether entry i's body contains the lowercased query.
func (s *Store) BodyContains(i int, query string) bool {
	return strings.Contains(s.bodies[i], query)
}

// Entries returns the entries in insertion order. Callers must not modify
// them.
func (s *Store) Entries() []*Entry { return s.entries }

// Keys returns the canonical keys in insertion order.
func (s *Store) Keys() []string {
	keys := make([]string, len(s.entries))
	for i, e := range s.entries {
		keys[i] = e.Key
	}
	return keys
}

// Aliases returns every alias in entry order, then alias order.
func (s *Store) Aliases() []Alias { return s.aliases }

// Synonyms returns the store's synonym sets. Each set includes its key.
func (s *Store) Synonyms() SynonymSet {
	set := make(SynonymSet, len(s.entries))
	for _, e := range s.entries {
		set[e.Key] = append([]string{e.Key}, e.Aliases...)
	}
	return set
}
