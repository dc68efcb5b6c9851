package nhl

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/hockey-explainer/internal/provider"
)

const rosterJSON = `{
  "forwards": [
    {"id": 8478402, "firstName": {"default": "Connor"}, "lastName": {"default": "McDavid"},
     "positionCode": "C", "sweaterNumber": 97, "birthDate": "1997-01-13",
     "weightInPounds": 194, "heightInInches": 73}
  ],
  "defensemen": [
    {"id": 8477934, "firstName": {"default": "Evan"}, "lastName": {"default": "Bouchard"},
     "positionCode": "D", "sweaterNumber": 2, "birthDate": "1999-10-20", "weightInPounds": 192}
  ],
  "goalies": [
    {"id": 8479973, "firstName": {"default": "Stuart"}, "lastName": {"default": "Skinner"},
     "positionCode": "G", "sweaterNumber": 74, "birthDate": "1998-11-01"}
  ]
}`

const landingJSON = `{
  "playerId": 8482116,
  "firstName": {"default": "Tim"},
  "lastName": {"default": "Stützle"},
  "position": "C",
  "currentTeamAbbrev": "OTT",
  "fullTeamName": {"default": "Ottawa Senators"},
  "birthDate": "2002-01-15",
  "weightInPounds": 196,
  "draftDetails": {"year": 2020, "teamAbbrev": "OTT", "round": 1, "pickInRound": 3, "overallPick": 3},
  "careerTotals": {"regularSeason": {"gamesPlayed": 300, "goals": 100, "assists": 170, "points": 270}}
}`

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	c := NewClient(srv.URL, 6000, 2*time.Second, nil)
	c.now = func() time.Time { return time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC) }
	return c, &calls
}

func TestGetRoster(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/roster/EDM/current", r.URL.Path)
		w.Write([]byte(rosterJSON))
	})

	players, err := c.GetRoster(context.Background(), "edm")
	require.NoError(t, err)
	require.Len(t, players, 3)

	assert.Equal(t, provider.RosterPlayer{
		ID: 8478402, Name: "Connor McDavid", FirstName: "Connor", LastName: "McDavid",
		Position: provider.Center, TeamAbbrev: "EDM", Number: 97, BirthDate: "1997-01-13",
		WeightLbs: 194, HeightIn: 73,
	}, players[0])
	assert.Equal(t, provider.Defenseman, players[1].Position)
	assert.Equal(t, provider.Goaltender, players[2].Position)
}

func TestGetLeagueRoster(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(rosterJSON))
	})

	seen := map[string]int{}
	err := c.GetLeagueRoster(context.Background(), []string{"EDM", "TOR"}, func(team string, players []provider.RosterPlayer) error {
		seen[team] = len(players)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"EDM": 3, "TOR": 3}, seen)
	assert.EqualValues(t, 2, atomic.LoadInt32(calls))
}

func TestGetPlayer(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/player/8482116/landing", r.URL.Path)
		w.Write([]byte(landingJSON))
	})

	p, err := c.GetPlayer(context.Background(), 8482116)
	require.NoError(t, err)
	assert.Equal(t, "Tim Stützle", p.Name)
	assert.Equal(t, provider.Center, p.Position)
	assert.Equal(t, "Ottawa Senators", p.Team)
	assert.Equal(t, 23, p.Age)
	assert.Equal(t, 3, p.DraftOverall)
	assert.Equal(t, 300, p.GamesPlayed)
	assert.InDelta(t, 0.9, p.PointsPerGame, 1e-9)
}

func TestGet_Failures(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		})
		_, err := c.GetPlayer(context.Background(), 1)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("server error is not retried", func(t *testing.T) {
		c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})
		_, err := c.GetRoster(context.Background(), "EDM")
		assert.ErrorIs(t, err, provider.ErrUnavailable)
		assert.EqualValues(t, 1, atomic.LoadInt32(calls))
	})

	t.Run("malformed body", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("{not json"))
		})
		_, err := c.GetPlayer(context.Background(), 1)
		assert.ErrorIs(t, err, provider.ErrUnavailable)
	})

	t.Run("timeout", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		})
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		_, err := c.GetPlayer(ctx, 1)
		assert.ErrorIs(t, err, provider.ErrUnavailable)
	})
}
