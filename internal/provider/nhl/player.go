package nhl

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/albapepper/hockey-explainer/internal/provider"
)

type careerLineRaw struct {
	GamesPlayed int `json:"gamesPlayed"`
	Goals       int `json:"goals"`
	Assists     int `json:"assists"`
	Points      int `json:"points"`
}

type landingRaw struct {
	PlayerID          int       `json:"playerId"`
	FirstName         localized `json:"firstName"`
	LastName          localized `json:"lastName"`
	Position          string    `json:"position"`
	CurrentTeamAbbrev string    `json:"currentTeamAbbrev"`
	FullTeamName      localized `json:"fullTeamName"`
	BirthDate         string    `json:"birthDate"`
	WeightInPounds    int       `json:"weightInPounds"`
	Headshot          string    `json:"headshot"`
	DraftDetails      *struct {
		Year        int `json:"year"`
		OverallPick int `json:"overallPick"`
	} `json:"draftDetails"`
	CareerTotals struct {
		RegularSeason careerLineRaw `json:"regularSeason"`
	} `json:"careerTotals"`
}

// GetPlayer fetches a player's landing page and normalizes it into a
// profile with career regular-season totals.
func (c *Client) GetPlayer(ctx context.Context, id int) (*provider.PlayerProfile, error) {
	var raw landingRaw
	if err := c.get(ctx, "/v1/player/"+strconv.Itoa(id)+"/landing", &raw); err != nil {
		return nil, fmt.Errorf("fetch player %d: %w", id, err)
	}
	if raw.PlayerID == 0 {
		return nil, fmt.Errorf("%w: player %d: empty landing response", provider.ErrUnavailable, id)
	}
	p := c.normalizeLanding(raw)
	return &p, nil
}

func (c *Client) normalizeLanding(raw landingRaw) provider.PlayerProfile {
	career := raw.CareerTotals.RegularSeason
	team := raw.FullTeamName.Default
	if team == "" {
		team = raw.CurrentTeamAbbrev
	}
	p := provider.PlayerProfile{
		ID:            raw.PlayerID,
		Name:          strings.TrimSpace(raw.FirstName.Default + " " + raw.LastName.Default),
		Position:      provider.ParsePosition(raw.Position),
		Team:          team,
		TeamAbbrev:    raw.CurrentTeamAbbrev,
		Age:           provider.AgeOn(raw.BirthDate, c.now()),
		WeightLbs:     raw.WeightInPounds,
		GamesPlayed:   career.GamesPlayed,
		Goals:         career.Goals,
		Assists:       career.Assists,
		PointsPerGame: provider.PointsPerGame(career.Goals, career.Assists, career.GamesPlayed),
		Headshot:      raw.Headshot,
	}
	if raw.DraftDetails != nil {
		p.DraftOverall = raw.DraftDetails.OverallPick
		p.DraftYear = raw.DraftDetails.Year
	}
	return p
}
