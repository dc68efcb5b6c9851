// Package knowledge holds the static hockey knowledge base: concepts,
// curated players, stats, dictionary terms and rink zones, each with
// cross-sport analogies.
//
// Entries are authored as YAML, validated at load, and never mutated
// afterwards. A reload builds a complete new Registry and swaps it in.
package knowledge

import "strings"

// Comparison domains in display order.
const (
	Soccer = "soccer"
	NBA    = "nba"
	NFL    = "nfl"
	MLB    = "mlb"
)

// ComparisonDomains lists the sports every analogy is drawn from.
var ComparisonDomains = []string{Soccer, NBA, NFL, MLB}

// Analogy explains a hockey entry in terms of another sport. Concepts fill
// Analogy; players fill Player and Team.
type Analogy struct {
	Analogy       string `yaml:"analogy,omitempty" json:"analogy,omitempty"`
	Player        string `yaml:"player,omitempty" json:"player,omitempty"`
	Team          string `yaml:"team,omitempty" json:"team,omitempty"`
	Explanation   string `yaml:"explanation" json:"explanation" validate:"required"`
	KeyDifference string `yaml:"key_difference,omitempty" json:"key_difference,omitempty"`
}

// Entry is one knowledge-base record.
type Entry struct {
	Key        string   `yaml:"key" json:"key" validate:"required"`
	Aliases    []string `yaml:"aliases,omitempty" json:"aliases,omitempty" validate:"dive,required"`
	Definition string   `yaml:"definition,omitempty" json:"definition,omitempty" validate:"required_without=Style"`
	Duration   string   `yaml:"duration,omitempty" json:"duration,omitempty"`
	Diagram    string   `yaml:"diagram,omitempty" json:"diagram,omitempty"`

	// Curated player fields.
	Position  string `yaml:"position,omitempty" json:"position,omitempty"`
	Team      string `yaml:"team,omitempty" json:"team,omitempty"`
	Age       int    `yaml:"age,omitempty" json:"age,omitempty" validate:"gte=0"`
	Style     string `yaml:"style,omitempty" json:"style,omitempty"`
	Accolades string `yaml:"accolades,omitempty" json:"accolades,omitempty"`
	Archetype string `yaml:"archetype,omitempty" json:"archetype,omitempty" validate:"omitempty,oneof=starting_goaltender offensive_defenseman shutdown_defenseman rising_prospect veteran_leader elite_two_way_center goal_scorer playmaker power_forward defensive_forward grinder"`

	Analogies map[string]Analogy `yaml:"analogies,omitempty" json:"analogies,omitempty" validate:"dive,keys,oneof=soccer nba nfl mlb,endkeys"`
}

// Body is the searchable text of the entry: the definition, or the style
// line for curated players that have no definition.
func (e *Entry) Body() string {
	if e.Definition != "" {
		return e.Definition
	}
	return e.Style
}

// Comparison is an analogy tagged with its sport.
type Comparison struct {
	Domain string `json:"domain"`
	Analogy
}

// Comparisons returns the entry's analogies in ComparisonDomains order,
// skipping sports the entry has no analogy for.
func (e *Entry) Comparisons() []Comparison {
	out := make([]Comparison, 0, len(e.Analogies))
	for _, d := range ComparisonDomains {
		if a, ok := e.Analogies[d]; ok {
			out = append(out, Comparison{Domain: d, Analogy: a})
		}
	}
	return out
}

// Topic is a general question answered before any entry matching.
type Topic struct {
	Name     string   `yaml:"name" json:"name" validate:"required"`
	Keywords []string `yaml:"keywords" json:"keywords" validate:"min=1,dive,required"`
	Answer   string   `yaml:"answer" json:"answer" validate:"required"`
	Related  []string `yaml:"related,omitempty" json:"related,omitempty"`
}

// Normalize lowercases s, trims it, turns runs of '-' and '_' into a single
// space and collapses whitespace. Keys, aliases and queries all pass
// through it.
func Normalize(s string) string {
	s = strings.ToLower(s)
	s = strings.Map(func(r rune) rune {
		if r == '-' || r == '_' {
			return ' '
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}
