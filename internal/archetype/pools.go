package archetype

import (
	_ "embed"
	"fmt"
	"math/rand"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/albapepper/hockey-explainer/internal/knowledge"
)

//go:embed data/archetypes.yaml
var poolsYAML []byte

// Comparison is one pre-written cross-sport comparison.
type Comparison struct {
	Player      string `yaml:"player" json:"player" validate:"required"`
	Team        string `yaml:"team" json:"team"`
	Explanation string `yaml:"explanation" json:"explanation" validate:"required"`
}

// Profile describes an archetype and owns its comparison pools, keyed by
// comparison domain.
type Profile struct {
	ID          Archetype               `yaml:"id" json:"id" validate:"required"`
	Name        string                  `yaml:"name" json:"name" validate:"required"`
	Description string                  `yaml:"description" json:"description"`
	Pools       map[string][]Comparison `yaml:"pools" json:"pools" validate:"required,dive,keys,oneof=soccer nba nfl mlb,endkeys,min=1,dive"`
}

// Pools is the loaded archetype catalogue.
type Pools struct {
	byID  map[Archetype]*Profile
	order []*Profile
}

// LoadPools parses the embedded catalogue.
func LoadPools() (*Pools, error) {
	return ParsePools(poolsYAML)
}

// ParsePools parses a catalogue and checks that every archetype has at
// least one comparison for every comparison domain.
func ParsePools(raw []byte) (*Pools, error) {
	var doc struct {
		Archetypes []Profile `yaml:"archetypes"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse archetypes: %w", err)
	}
	v := validator.New()
	p := &Pools{byID: make(map[Archetype]*Profile, len(doc.Archetypes))}
	for i := range doc.Archetypes {
		prof := &doc.Archetypes[i]
		if err := v.Struct(prof); err != nil {
			return nil, fmt.Errorf("archetype %q: %w", prof.ID, err)
		}
		if !prof.ID.Valid() {
			return nil, fmt.Errorf("unknown archetype %q", prof.ID)
		}
		for _, d := range knowledge.ComparisonDomains {
			if len(prof.Pools[d]) == 0 {
				return nil, fmt.Errorf("archetype %q has no %s comparisons", prof.ID, d)
			}
		}
		p.byID[prof.ID] = prof
		p.order = append(p.order, prof)
	}
	for _, a := range All {
		if _, ok := p.byID[a]; !ok {
			return nil, fmt.Errorf("archetype %q missing from catalogue", a)
		}
	}
	return p, nil
}

// Get returns the profile for an archetype.
func (p *Pools) Get(a Archetype) (*Profile, bool) {
	prof, ok := p.byID[a]
	return prof, ok
}

// Profiles returns every archetype in catalogue order.
func (p *Pools) Profiles() []*Profile { return p.order }

// Pick chooses one comparison per domain, in knowledge.ComparisonDomains
// order, using rng.
func (p *Pools) Pick(a Archetype, rng *rand.Rand) []knowledge.Comparison {
	prof, ok := p.byID[a]
	if !ok {
		return nil
	}
	out := make([]knowledge.Comparison, 0, len(knowledge.ComparisonDomains))
	for _, d := range knowledge.ComparisonDomains {
		pool := prof.Pools[d]
		c := pool[rng.Intn(len(pool))]
		out = append(out, knowledge.Comparison{
			Domain: d,
			Analogy: knowledge.Analogy{
				Player:      c.Player,
				Team:        c.Team,
				Explanation: c.Explanation,
			},
		})
	}
	return out
}
