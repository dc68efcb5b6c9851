// Package assemble shapes resolver results and player profiles into the
// JSON payloads returned by the API. It is the only place randomness enters
// a response.
package assemble

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/albapepper/hockey-explainer/internal/archetype"
	"github.com/albapepper/hockey-explainer/internal/knowledge"
	"github.com/albapepper/hockey-explainer/internal/provider"
	"github.com/albapepper/hockey-explainer/internal/resolver"
)

// Player payload sources.
const (
	SourceCurated  = "curated"
	SourceExternal = "external"
)

// Match is the success payload.
type Match struct {
	Found      bool     `json:"found"`
	Domain     string   `json:"domain"`
	Key        string   `json:"key"`
	Data       any      `json:"data"`
	Alternates []string `json:"alternates,omitempty"`
	MatchType  string   `json:"match_type"`
	Score      float64  `json:"score"`
}

// TopicData is the payload of a general-topic match.
type TopicData struct {
	Answer  string   `json:"answer"`
	Related []string `json:"related,omitempty"`
}

// Miss is the not-found payload.
type Miss struct {
	Found       bool     `json:"found"`
	Domain      string   `json:"domain,omitempty"`
	Query       string   `json:"query"`
	Suggestions []string `json:"suggestions"`
	Message     string   `json:"message"`
}

// PlayerData is the body of a player comparison.
type PlayerData struct {
	Position      string                 `json:"position"`
	Team          string                 `json:"team"`
	Age           int                    `json:"age,omitempty"`
	Style         string                 `json:"style"`
	Accolades     string                 `json:"accolades"`
	Archetype     string                 `json:"archetype,omitempty"`
	ArchetypeName string                 `json:"archetype_name,omitempty"`
	Comparisons   []knowledge.Comparison `json:"comparisons"`
	Stats         *Stats                 `json:"stats,omitempty"`
	Headshot      string                 `json:"headshot,omitempty"`
}

// Stats carries the career line of an external player.
type Stats struct {
	GamesPlayed   int     `json:"games_played"`
	Goals         int     `json:"goals"`
	Assists       int     `json:"assists"`
	Points        int     `json:"points"`
	PointsPerGame float64 `json:"points_per_game"`
	DraftOverall  int     `json:"draft_overall,omitempty"`
	DraftYear     int     `json:"draft_year,omitempty"`
}

// Player is the player-comparison payload.
type Player struct {
	Found      bool       `json:"found"`
	Player     string     `json:"player"`
	Data       PlayerData `json:"data"`
	Source     string     `json:"source"`
	Alternates []string   `json:"alternates,omitempty"`
	MatchType  string     `json:"match_type,omitempty"`
	Score      float64    `json:"score,omitempty"`
}

// RandomPick is the payload of the random endpoint.
type RandomPick struct {
	Type string           `json:"type"`
	Name string           `json:"name"`
	Data *knowledge.Entry `json:"data"`
}

// Assembler builds payloads. Its random source is shared and guarded.
type Assembler struct {
	pools *archetype.Pools

	mu  sync.Mutex
	rng *rand.Rand
}

// New returns an Assembler. seed 0 seeds from the clock.
func New(pools *archetype.Pools, seed int64) *Assembler {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Assembler{pools: pools, rng: rand.New(rand.NewSource(seed))}
}

// Match turns a resolver result into the success or miss payload.
func (a *Assembler) Match(domain, query string, res resolver.Result) any {
	if !res.Found {
		return NewMiss(domain, query, res.Suggestions)
	}
	m := Match{
		Found:      true,
		Domain:     domain,
		Key:        res.Key,
		Alternates: res.Alternates,
		MatchType:  string(res.Stage),
		Score:      res.Score,
	}
	if res.Topic != nil {
		m.Data = TopicData{Answer: res.Topic.Answer, Related: res.Topic.Related}
	} else {
		m.Data = res.Entry
	}
	return m
}

// NewMiss builds the not-found payload.
func NewMiss(domain, query string, suggestions []string) Miss {
	if suggestions == nil {
		suggestions = []string{}
	}
	return Miss{
		Domain:      domain,
		Query:       query,
		Suggestions: suggestions,
		Message:     fmt.Sprintf("Couldn't find '%s'. Try: %s...", query, strings.Join(suggestions, ", ")),
	}
}

// CuratedPlayer builds the player payload for a resolved player entry.
func (a *Assembler) CuratedPlayer(res resolver.Result) Player {
	e := res.Entry
	data := PlayerData{
		Position:    e.Position,
		Team:        e.Team,
		Age:         e.Age,
		Style:       e.Style,
		Accolades:   e.Accolades,
		Archetype:   e.Archetype,
		Comparisons: e.Comparisons(),
	}
	if prof, ok := a.pools.Get(archetype.Archetype(e.Archetype)); ok {
		data.ArchetypeName = prof.Name
	}
	alts := make([]string, len(res.Alternates))
	for i, k := range res.Alternates {
		alts[i] = DisplayName(k)
	}
	return Player{
		Found:      true,
		Player:     DisplayName(e.Key),
		Data:       data,
		Source:     SourceCurated,
		Alternates: alts,
		MatchType:  string(res.Stage),
		Score:      res.Score,
	}
}

// ExternalPlayer builds the player payload for a live profile classified
// as arch. One comparison per sport is drawn from the archetype's pool.
func (a *Assembler) ExternalPlayer(p *provider.PlayerProfile, arch archetype.Archetype, alternates []string) Player {
	data := PlayerData{
		Position:  p.Position.Name(),
		Team:      p.Team,
		Age:       p.Age,
		Archetype: string(arch),
		Accolades: fmt.Sprintf("%d goals, %d assists in %d games (%.2f points per game)",
			p.Goals, p.Assists, p.GamesPlayed, p.PointsPerGame),
		Stats: &Stats{
			GamesPlayed:   p.GamesPlayed,
			Goals:         p.Goals,
			Assists:       p.Assists,
			Points:        p.Points(),
			PointsPerGame: p.PointsPerGame,
			DraftOverall:  p.DraftOverall,
			DraftYear:     p.DraftYear,
		},
		Headshot: p.Headshot,
	}
	if data.Team == "" {
		data.Team = p.TeamAbbrev
	}
	if prof, ok := a.pools.Get(arch); ok {
		data.ArchetypeName = prof.Name
		data.Style = prof.Description
	}
	a.mu.Lock()
	data.Comparisons = a.pools.Pick(arch, a.rng)
	a.mu.Unlock()
	return Player{
		Found:      true,
		Player:     p.Name,
		Data:       data,
		Source:     SourceExternal,
		Alternates: alternates,
	}
}

// Random picks a concept or a player with equal odds, then a random entry
// from that domain.
func (a *Assembler) Random(concepts, players *knowledge.Domain) (RandomPick, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	typ, d := knowledge.DomainConcept, concepts
	if a.rng.Intn(2) == 1 {
		typ, d = knowledge.DomainPlayer, players
	}
	if d == nil || d.Len() == 0 {
		return RandomPick{}, false
	}
	entries := d.Entries()
	e := entries[a.rng.Intn(len(entries))]
	name := e.Key
	if typ == knowledge.DomainPlayer {
		name = DisplayName(name)
	}
	return RandomPick{Type: typ, Name: name, Data: e}, true
}

// DisplayName title-cases a player key for display.
func DisplayName(key string) string {
	return cases.Title(language.English).String(key)
}
