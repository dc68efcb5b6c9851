package knowledge

import "fmt"

// Domain selectors.
const (
	DomainConcept = "concept"
	DomainPlayer  = "player"
	DomainStat    = "stat"
	DomainTerm    = "term"
	DomainZone    = "zone"
)

// Domain is one lookup target: an ordered list of stores (primary first,
// then additional) and an optional priority-ordered topic table.
type Domain struct {
	Name   string
	Stores []*Store
	Topics []Topic
}

// NewDomain checks that no key or alias is claimed by two stores.
func NewDomain(name string, stores []*Store, topics []Topic) (*Domain, error) {
	keys := make(map[string]string)
	aliases := make(map[string]string)
	for _, s := range stores {
		for _, e := range s.entries {
			if other, ok := keys[e.Key]; ok {
				return nil, fmt.Errorf("%w: domain %s: key %q in both %s and %s", ErrInvalidData, name, e.Key, other, s.name)
			}
			keys[e.Key] = s.name
		}
	}
	for _, s := range stores {
		for _, a := range s.aliases {
			if owner, ok := aliases[a.Alias]; ok && owner != a.Key {
				return nil, fmt.Errorf("%w: domain %s: alias %q maps to both %q and %q", ErrInvalidData, name, a.Alias, owner, a.Key)
			}
			if store, ok := keys[a.Alias]; ok && store != s.name {
				return nil, fmt.Errorf("%w: domain %s: alias %q of %q is a key in %s", ErrInvalidData, name, a.Alias, a.Key, store)
			}
			aliases[a.Alias] = a.Key
		}
	}
	for i := range topics {
		for j, kw := range topics[i].Keywords {
			topics[i].Keywords[j] = Normalize(kw)
		}
	}
	return &Domain{Name: name, Stores: stores, Topics: topics}, nil
}

// Get returns the entry for key from the first store holding it.
func (d *Domain) Get(key string) (*Entry, *Store, bool) {
	for _, s := range d.Stores {
		if e, ok := s.Get(key); ok {
			return e, s, true
		}
	}
	return nil, nil, false
}

// Len returns the total number of entries across stores.
func (d *Domain) Len() int {
	n := 0
	for _, s := range d.Stores {
		n += s.Len()
	}
	return n
}

// Keys returns every canonical key, primary store first.
func (d *Domain) Keys() []string {
	keys := make([]string, 0, d.Len())
	for _, s := range d.Stores {
		keys = append(keys, s.Keys()...)
	}
	return keys
}

// Entries returns every entry, primary store first.
func (d *Domain) Entries() []*Entry {
	out := make([]*Entry, 0, d.Len())
	for _, s := range d.Stores {
		out = append(out, s.entries...)
	}
	return out
}
