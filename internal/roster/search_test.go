package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	assert.Equal(t, "tim stutzle", Fold("  Tim   Stützle "))
	assert.Equal(t, "patrik laine", Fold("Patrik Lainé"))
	assert.Equal(t, "", Fold("   "))
}

func names(cs []Candidate) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Player.Name
	}
	return out
}

func TestRank(t *testing.T) {
	idx := buildIndex(league)

	t.Run("diacritics", func(t *testing.T) {
		got := rank("stutzle", idx, 0)
		assert.Equal(t, []string{"Tim Stützle"}, names(got))
	})
	t.Run("typo", func(t *testing.T) {
		got := rank("mcdavd", idx, 0)
		assert.Equal(t, []string{"Connor McDavid"}, names(got))
		assert.GreaterOrEqual(t, got[0].Score, MinSimilarity)
	})
	t.Run("exact beats substring", func(t *testing.T) {
		got := rank("Connor McDavid", idx, 0)
		assert.Equal(t, scoreExact, got[0].Score)
		got = rank("connor", idx, 0)
		assert.Equal(t, "Connor McDavid", got[0].Player.Name)
		assert.Less(t, got[0].Score, scoreSubstring)
	})
	t.Run("ties by name then id", func(t *testing.T) {
		got := rank("aho", idx, 0)
		assert.Len(t, got, 2)
		assert.Equal(t, 8478427, got[0].Player.ID)
		assert.Equal(t, 8480222, got[1].Player.ID)
	})
	t.Run("no match", func(t *testing.T) {
		assert.Empty(t, rank("gretzky", idx, 0))
		assert.Empty(t, rank("", idx, 0))
	})
	t.Run("limit", func(t *testing.T) {
		assert.Len(t, rank("sebastian", idx, 1), 1)
	})
}
