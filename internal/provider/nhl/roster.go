package nhl

import (
	"context"
	"fmt"
	"strings"

	"github.com/albapepper/hockey-explainer/internal/provider"
)

// ErrNotFound is returned for a 404 from the API.
var ErrNotFound = provider.ErrNotFound

// Teams lists the current franchise abbreviations used by roster endpoints.
var Teams = []string{
	"ANA", "BOS", "BUF", "CAR", "CBJ", "CGY", "CHI", "COL",
	"DAL", "DET", "EDM", "FLA", "LAK", "MIN", "MTL", "NJD",
	"NSH", "NYI", "NYR", "OTT", "PHI", "PIT", "SEA", "SJS",
	"STL", "TBL", "TOR", "UTA", "VAN", "VGK", "WPG", "WSH",
}

type rosterPlayerRaw struct {
	ID             int       `json:"id"`
	FirstName      localized `json:"firstName"`
	LastName       localized `json:"lastName"`
	PositionCode   string    `json:"positionCode"`
	SweaterNumber  int       `json:"sweaterNumber"`
	BirthDate      string    `json:"birthDate"`
	WeightInPounds int       `json:"weightInPounds"`
	HeightInInches int       `json:"heightInInches"`
	Headshot       string    `json:"headshot"`
}

type rosterRaw struct {
	Forwards   []rosterPlayerRaw `json:"forwards"`
	Defensemen []rosterPlayerRaw `json:"defensemen"`
	Goalies    []rosterPlayerRaw `json:"goalies"`
}

// GetRoster fetches a team's current roster in canonical format.
func (c *Client) GetRoster(ctx context.Context, team string) ([]provider.RosterPlayer, error) {
	team = strings.ToUpper(team)
	var raw rosterRaw
	if err := c.get(ctx, "/v1/roster/"+team+"/current", &raw); err != nil {
		return nil, fmt.Errorf("fetch %s roster: %w", team, err)
	}

	players := make([]provider.RosterPlayer, 0, len(raw.Forwards)+len(raw.Defensemen)+len(raw.Goalies))
	for _, group := range [][]rosterPlayerRaw{raw.Forwards, raw.Defensemen, raw.Goalies} {
		for _, p := range group {
			players = append(players, normalizeRosterPlayer(p, team))
		}
	}
	return players, nil
}

// GetLeagueRoster fetches every team's roster, calling fn per team. A failed
// team aborts the whole run so a partial league never replaces a full one.
func (c *Client) GetLeagueRoster(ctx context.Context, teams []string, fn func(team string, players []provider.RosterPlayer) error) error {
	for _, team := range teams {
		players, err := c.GetRoster(ctx, team)
		if err != nil {
			return err
		}
		if err := fn(team, players); err != nil {
			return err
		}
	}
	return nil
}

func normalizeRosterPlayer(raw rosterPlayerRaw, team string) provider.RosterPlayer {
	name := strings.TrimSpace(raw.FirstName.Default + " " + raw.LastName.Default)
	if name == "" {
		name = fmt.Sprintf("Player %d", raw.ID)
	}
	return provider.RosterPlayer{
		ID:         raw.ID,
		Name:       name,
		FirstName:  raw.FirstName.Default,
		LastName:   raw.LastName.Default,
		Position:   provider.ParsePosition(raw.PositionCode),
		TeamAbbrev: team,
		Number:     raw.SweaterNumber,
		BirthDate:  raw.BirthDate,
		WeightLbs:  raw.WeightInPounds,
		HeightIn:   raw.HeightInInches,
		Headshot:   raw.Headshot,
	}
}
