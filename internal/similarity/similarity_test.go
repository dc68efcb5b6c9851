package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore_Reflexive(t *testing.T) {
	for _, s := range []string{"", "a", "power play", "offside", "Ovechkin"} {
		assert.Equal(t, 1.0, Score(s, s), "Score(%q, %q)", s, s)
	}
}

func TestScore_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"offside", "offsides"},
		{"power paly", "power play"},
		{"abcd", "bcda"},
		{"icing", "line change"},
		{"xyzzynotreal", "the crease"},
		{"aab", "abb"},
		{"hat trick", "hattrick"},
	}
	for _, p := range pairs {
		assert.Equal(t, Score(p[0], p[1]), Score(p[1], p[0]), "pair %q", p)
	}
}

func TestScore_CaseInsensitive(t *testing.T) {
	assert.Equal(t, 1.0, Score("Power Play", "power play"))
	assert.Equal(t, Score("OFFSIDE", "offsides"), Score("offside", "offsides"))
}

func TestScore_Ratio(t *testing.T) {
	// 7 shared characters over 15 total.
	assert.InDelta(t, 14.0/15.0, Score("offside", "offsides"), 1e-9)
	// "power p" + "a"/"l" + "y" style blocks: 9 matched of 20.
	assert.InDelta(t, 0.9, Score("power paly", "power play"), 1e-9)
	// 2 matched of 8 total: exactly 0.5.
	assert.Equal(t, 0.5, Score("abxy", "abzw"))
	assert.Equal(t, 0.0, Score("abc", "xyz"))
	assert.Equal(t, 0.0, Score("", "abc"))
}

func TestScore_Bounds(t *testing.T) {
	inputs := []string{"", "pp", "power play", "penalty kill", "zzz", "the crease", "crease"}
	for _, a := range inputs {
		for _, b := range inputs {
			s := Score(a, b)
			assert.GreaterOrEqual(t, s, 0.0)
			assert.LessOrEqual(t, s, 1.0)
		}
	}
}

func TestMatchedChars(t *testing.T) {
	assert.Equal(t, 7, MatchedChars("offside", "offsides"))
	assert.Equal(t, 0, MatchedChars("abc", "xyz"))
}
