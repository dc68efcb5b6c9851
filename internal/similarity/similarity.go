// Package similarity scores how alike two short strings are.
//
// The score is the Ratcliff/Obershelp ratio 2·M/T, where M is the number of
// characters covered by the matching blocks and T the combined length of both
// strings. Long shared runs score well, so near-duplicates such as
// "offside"/"offsides" land close to 1 while unrelated terms fall toward 0.
package similarity

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Score returns a case-insensitive similarity in [0,1].
// Score(a, a) == 1 and Score(a, b) == Score(b, a) for all inputs.
func Score(a, b string) float64 {
	a, b = strings.ToLower(a), strings.ToLower(b)
	if a == b {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	// The matcher's block search is order-sensitive; fixing the argument
	// order keeps the score symmetric.
	if a > b {
		a, b = b, a
	}
	m := difflib.NewMatcher(chars(a), chars(b))
	return m.Ratio()
}

// MatchedChars returns M, the number of characters in matching blocks.
func MatchedChars(a, b string) int {
	a, b = strings.ToLower(a), strings.ToLower(b)
	if a > b {
		a, b = b, a
	}
	n := 0
	for _, blk := range difflib.NewMatcher(chars(a), chars(b)).GetMatchingBlocks() {
		n += blk.Size
	}
	return n
}

func chars(s string) []string {
	return strings.Split(s, "")
}
