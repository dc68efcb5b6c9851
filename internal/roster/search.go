package roster

import (
	"sort"
	"strings"
	"unicode"

	"github.com/hbollon/go-edlib"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/albapepper/hockey-explainer/internal/provider"
)

const (
	// MinSimilarity is the Jaro-Winkler floor for typo-tolerant name hits.
	MinSimilarity = 0.88
	// MaxCandidates caps FindCandidates results.
	MaxCandidates = 5

	scoreExact     = 3.0
	scoreLastExact = 2.5
	scoreSubstring = 2.0
)

// Fold lowercases s, strips diacritics and collapses whitespace so
// "Stützle" and "stutzle" compare equal.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.Join(strings.Fields(strings.ToLower(out)), " ")
}

type indexed struct {
	player provider.RosterPlayer
	full   string
	last   string
}

func buildIndex(players []provider.RosterPlayer) []indexed {
	idx := make([]indexed, len(players))
	for i, p := range players {
		last := p.LastName
		if last == "" {
			if f := strings.Fields(p.Name); len(f) > 0 {
				last = f[len(f)-1]
			}
		}
		idx[i] = indexed{player: p, full: Fold(p.Name), last: Fold(last)}
	}
	return idx
}

// Candidate is a roster player with its match score.
type Candidate struct {
	Player provider.RosterPlayer
	Score  float64
}

func score(q string, ix indexed) float64 {
	switch {
	case ix.full == q:
		return scoreExact
	case ix.last == q:
		return scoreLastExact
	case strings.Contains(ix.full, q):
		// Closer lengths rank higher among substring hits.
		return scoreSubstring - float64(len(ix.full)-len(q))/float64(len(ix.full)+1)
	}
	best := edlib.JaroWinklerSimilarity(q, ix.full)
	if s := edlib.JaroWinklerSimilarity(q, ix.last); s > best {
		best = s
	}
	if best >= MinSimilarity {
		return float64(best)
	}
	return 0
}

// rank scores every player against q and returns hits best first, ties
// broken by name then id.
func rank(q string, idx []indexed, limit int) []Candidate {
	q = Fold(q)
	if q == "" {
		return nil
	}
	var out []Candidate
	for _, ix := range idx {
		if s := score(q, ix); s > 0 {
			out = append(out, Candidate{Player: ix.player, Score: s})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		if out[i].Player.Name != out[j].Player.Name {
			return out[i].Player.Name < out[j].Player.Name
		}
		return out[i].Player.ID < out[j].Player.ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
