package knowledge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEntries() []Entry {
	return []Entry{
		{Key: "Power Play", Aliases: []string{"PP", "man-advantage"}, Definition: "More players on the ice after an opponent penalty."},
		{Key: "penalty kill", Aliases: []string{"pk"}, Definition: "Surviving a power play while short-handed."},
		{Key: "icing", Definition: "Shooting the puck past the goal line from your own half."},
	}
}

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"  Power-Play ":      "power play",
		"power__play":        "power play",
		"power - _ play":     "power play",
		"THE   crease":       "the crease",
		"":                   "",
		"   ":                "",
		"offside\t\tcall":    "offside call",
		"plus-minus":         "plus minus",
		"--leading-trailing": "leading trailing",
	}
	for in, want := range cases {
		assert.Equal(t, want, Normalize(in), "Normalize(%q)", in)
	}
}

func TestNewStore_NormalizesKeysAndAliases(t *testing.T) {
	s, err := NewStore("concepts", testEntries())
	require.NoError(t, err)

	assert.Equal(t, []string{"power play", "penalty kill", "icing"}, s.Keys())
	e, ok := s.Get("  POWER-play ")
	require.True(t, ok)
	assert.Equal(t, "power play", e.Key)
	assert.Equal(t, []string{"pp", "man advantage"}, e.Aliases)

	key, ok := s.CanonicalFor("Man_Advantage")
	require.True(t, ok)
	assert.Equal(t, "power play", key)

	assert.Equal(t, []string{"power play", "pp", "man advantage"}, s.Synonyms()["power play"])
}

func TestNewStore_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		entries []Entry
	}{
		{"empty key", []Entry{{Key: "  ", Definition: "x"}}},
		{"duplicate key", []Entry{{Key: "icing", Definition: "a"}, {Key: "ICING", Definition: "b"}}},
		{"alias in two sets", []Entry{
			{Key: "a", Aliases: []string{"shared"}, Definition: "x"},
			{Key: "b", Aliases: []string{"shared"}, Definition: "y"},
		}},
		{"alias shadows key", []Entry{
			{Key: "a", Aliases: []string{"b"}, Definition: "x"},
			{Key: "b", Definition: "y"},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewStore("test", tt.entries)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidData)
		})
	}
}

func TestNewStore_DropsRedundantAliases(t *testing.T) {
	s, err := NewStore("terms", []Entry{{Key: "bar down", Aliases: []string{"bar-down", "bardown", "BARDOWN"}, Definition: "x"}})
	require.NoError(t, err)
	e, _ := s.Get("bar down")
	assert.Equal(t, []string{"bardown"}, e.Aliases)
}

func TestStore_ContainsSubstring(t *testing.T) {
	s, err := NewStore("concepts", testEntries())
	require.NoError(t, err)

	got := s.ContainsSubstring("POWER")
	require.Len(t, got, 2)
	assert.Equal(t, "power play", got[0].Key, "key hit, insertion order")
	assert.Equal(t, "penalty kill", got[1].Key, "body hit")

	assert.Empty(t, s.ContainsSubstring("xyzzy"))
}

func TestEntry_BodyAndComparisons(t *testing.T) {
	player := Entry{Key: "connor mcdavid", Style: "Fastest skater", Analogies: map[string]Analogy{
		MLB:    {Player: "Shohei Ohtani", Explanation: "generational"},
		Soccer: {Player: "Erling Haaland", Explanation: "finisher"},
	}}
	assert.Equal(t, "Fastest skater", player.Body())

	cmp := player.Comparisons()
	require.Len(t, cmp, 2)
	assert.Equal(t, Soccer, cmp[0].Domain)
	assert.Equal(t, MLB, cmp[1].Domain)
}

func TestNewDomain_CrossStoreConflicts(t *testing.T) {
	a, err := NewStore("primary", []Entry{{Key: "icing", Aliases: []string{"iced"}, Definition: "x"}})
	require.NoError(t, err)
	b, err := NewStore("extra", []Entry{{Key: "shootout", Aliases: []string{"iced"}, Definition: "y"}})
	require.NoError(t, err)
	_, err = NewDomain("concept", []*Store{a, b}, nil)
	assert.ErrorIs(t, err, ErrInvalidData)

	c, err := NewStore("extra", []Entry{{Key: "icing", Definition: "dup"}})
	require.NoError(t, err)
	_, err = NewDomain("concept", []*Store{a, c}, nil)
	assert.ErrorIs(t, err, ErrInvalidData)
}

func TestDomain_GetPrefersPrimary(t *testing.T) {
	a, err := NewStore("primary", []Entry{{Key: "icing", Definition: "x"}})
	require.NoError(t, err)
	b, err := NewStore("extra", []Entry{{Key: "shootout", Definition: "y"}})
	require.NoError(t, err)
	d, err := NewDomain("concept", []*Store{a, b}, []Topic{{Name: "t", Keywords: []string{"How-Many"}, Answer: "a"}})
	require.NoError(t, err)

	e, s, ok := d.Get("Shootout")
	require.True(t, ok)
	assert.Equal(t, "shootout", e.Key)
	assert.Equal(t, "extra", s.Name())
	assert.Equal(t, []string{"icing", "shootout"}, d.Keys())
	assert.Equal(t, 2, d.Len())
	assert.Equal(t, "how many", d.Topics[0].Keywords[0])
}
