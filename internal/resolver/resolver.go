// Package resolver maps a free-text query to one knowledge entry.
//
// Resolution runs fixed stages and the first one that produces a result
// wins: topic keywords, exact key, exact alias, then a fuzzy scan over keys
// (with a definition-substring floor) and aliases. A fuzzy best below the
// acceptance threshold is a NoMatch, which carries suggestions instead of an
// error.
package resolver

import (
	"strings"

	"github.com/albapepper/hockey-explainer/internal/knowledge"
	"github.com/albapepper/hockey-explainer/internal/similarity"
)

// Config holds the scoring constants.
type Config struct {
	// AcceptThreshold is the minimum fuzzy score returned as a match.
	AcceptThreshold float64
	// DefinitionFloor is the score given to an entry whose body contains the
	// query when its key similarity is below AcceptThreshold.
	DefinitionFloor float64
	// MaxSuggestions caps the suggestion list on NoMatch.
	MaxSuggestions int
}

// DefaultConfig returns the production constants.
func DefaultConfig() Config {
	return Config{
		AcceptThreshold: 0.5,
		DefinitionFloor: 0.6,
		MaxSuggestions:  5,
	}
}

// Stage names the resolution step that produced a match.
type Stage string

const (
	StageTopic        Stage = "topic"
	StageExact        Stage = "exact"
	StageSynonym      Stage = "synonym"
	StageFuzzy        Stage = "fuzzy"
	StageFuzzySynonym Stage = "fuzzy_synonym"
)

// Result is the outcome of one resolution. Found is false for NoMatch, in
// which case only Query and Suggestions are set.
type Result struct {
	Query string // normalized
	Found bool

	Key        string
	Score      float64
	Stage      Stage
	Entry      *knowledge.Entry // nil for topic matches
	Topic      *knowledge.Topic // set for topic matches
	Store      string
	Alternates []string

	Suggestions []string
}

// Resolver runs the staged lookup. It holds no mutable state and is safe for
// concurrent use.
type Resolver struct {
	cfg Config
}

// New creates a Resolver.
func New(cfg Config) *Resolver {
	return &Resolver{cfg: cfg}
}

// Config returns the resolver's constants.
func (r *Resolver) Config() Config { return r.cfg }

// Resolve looks raw up in d.
func (r *Resolver) Resolve(raw string, d *knowledge.Domain) Result {
	q := knowledge.Normalize(raw)

	if res, ok := matchTopic(q, d); ok {
		return res
	}
	if res, ok := matchExact(q, d); ok {
		return res
	}
	if res, ok := matchSynonym(q, d); ok {
		return res
	}
	if res, ok := r.matchFuzzy(q, d); ok {
		return res
	}
	return Result{Query: q, Suggestions: r.Suggest(q, d)}
}

func matchTopic(q string, d *knowledge.Domain) (Result, bool) {
	if q == "" {
		return Result{}, false
	}
	for i := range d.Topics {
		t := &d.Topics[i]
		for _, kw := range t.Keywords {
			if kw != "" && strings.Contains(q, kw) {
				return Result{Query: q, Found: true, Key: t.Name, Score: 1, Stage: StageTopic, Topic: t}, true
			}
		}
	}
	return Result{}, false
}

func matchExact(q string, d *knowledge.Domain) (Result, bool) {
	for _, s := range d.Stores {
		if e, ok := s.Get(q); ok {
			return Result{Query: q, Found: true, Key: e.Key, Score: 1, Stage: StageExact, Entry: e, Store: s.Name()}, true
		}
	}
	return Result{}, false
}

func matchSynonym(q string, d *knowledge.Domain) (Result, bool) {
	for _, s := range d.Stores {
		if key, ok := s.CanonicalFor(q); ok {
			e, _ := s.Get(key)
			return Result{Query: q, Found: true, Key: key, Score: 1, Stage: StageSynonym, Entry: e, Store: s.Name()}, true
		}
	}
	return Result{}, false
}

// candidate tracks the running best of the fuzzy scan and every key tied
// with it, in encounter order.
type candidate struct {
	score float64
	key   string
	entry *knowledge.Entry
	store string
	stage Stage
	tied  []string
}

func (c *candidate) offer(score float64, e *knowledge.Entry, store string, stage Stage) {
	switch {
	case c.entry == nil || score > c.score:
		*c = candidate{score: score, key: e.Key, entry: e, store: store, stage: stage}
	case score == c.score && e.Key != c.key:
		for _, k := range c.tied {
			if k == e.Key {
				return
			}
		}
		c.tied = append(c.tied, e.Key)
	}
}

func (r *Resolver) matchFuzzy(q string, d *knowledge.Domain) (Result, bool) {
	var best candidate

	for _, s := range d.Stores {
		for i, e := range s.Entries() {
			score := similarity.Score(q, e.Key)
			if score < r.cfg.AcceptThreshold && q != "" && s.BodyContains(i, q) {
				score = r.cfg.DefinitionFloor
			}
			best.offer(score, e, s.Name(), StageFuzzy)
		}
	}

	for _, s := range d.Stores {
		for _, a := range s.Aliases() {
			score := similarity.Score(q, a.Alias)
			// Aliases only replace the best on a strictly higher score but
			// still count as ties.
			if best.entry != nil && score < best.score {
				continue
			}
			e, _ := s.Get(a.Key)
			best.offer(score, e, s.Name(), StageFuzzySynonym)
		}
	}

	if best.entry == nil || best.score < r.cfg.AcceptThreshold {
		return Result{}, false
	}
	return Result{
		Query:      q,
		Found:      true,
		Key:        best.key,
		Score:      best.score,
		Stage:      best.stage,
		Entry:      best.entry,
		Store:      best.store,
		Alternates: best.tied,
	}, true
}

// Suggest returns up to MaxSuggestions keys whose key or body contains q, in
// table order, falling back to the first keys of the domain.
func (r *Resolver) Suggest(q string, d *knowledge.Domain) []string {
	limit := r.cfg.MaxSuggestions
	var out []string
	if q != "" {
	scan:
		for _, s := range d.Stores {
			for _, e := range s.ContainsSubstring(q) {
				if len(out) == limit {
					break scan
				}
				out = append(out, e.Key)
			}
		}
	}
	if len(out) > 0 {
		return out
	}
	keys := d.Keys()
	if len(keys) > limit {
		keys = keys[:limit]
	}
	return keys
}
