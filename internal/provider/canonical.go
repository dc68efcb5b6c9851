// Package provider defines canonical player types that external data
// sources normalize into. These structs are the contract between provider
// clients and the roster gateway; a new data source only has to produce them.
package provider

import (
	"errors"
	"strings"
	"time"
)

// ErrUnavailable marks a provider that could not be reached or returned
// something unusable. Callers treat it as "no external data".
var ErrUnavailable = errors.New("provider unavailable")

// ErrNotFound is returned when the provider has no record of the requested
// player or team.
var ErrNotFound = errors.New("not found")

// Position is a player's listed position.
type Position string

const (
	Goaltender Position = "G"
	Defenseman Position = "D"
	Center     Position = "C"
	LeftWing   Position = "L"
	RightWing  Position = "R"
)

// ParsePosition maps provider codes and spelled-out names to a Position.
// Unknown values fall back to Center, the most common forward listing.
func ParsePosition(s string) Position {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "G", "GOALIE", "GOALTENDER":
		return Goaltender
	case "D", "DEFENSE", "DEFENCE", "DEFENSEMAN", "DEFENCEMAN":
		return Defenseman
	case "L", "LW", "LEFT WING":
		return LeftWing
	case "R", "RW", "RIGHT WING":
		return RightWing
	default:
		return Center
	}
}

// Name returns the spelled-out position.
func (p Position) Name() string {
	switch p {
	case Goaltender:
		return "Goaltender"
	case Defenseman:
		return "Defenseman"
	case LeftWing:
		return "Left Wing"
	case RightWing:
		return "Right Wing"
	default:
		return "Center"
	}
}

// RosterPlayer is one row of the cached league roster.
type RosterPlayer struct {
	ID         int      `json:"id"`
	Name       string   `json:"name"`
	FirstName  string   `json:"first_name,omitempty"`
	LastName   string   `json:"last_name,omitempty"`
	Position   Position `json:"position"`
	TeamAbbrev string   `json:"team_abbrev"`
	Number     int      `json:"number,omitempty"`
	BirthDate  string   `json:"birth_date,omitempty"` // "YYYY-MM-DD"
	WeightLbs  int      `json:"weight_lbs,omitempty"`
	HeightIn   int      `json:"height_in,omitempty"`
	Headshot   string   `json:"headshot,omitempty"`
}

// PlayerProfile is the statistical profile of an externally fetched player.
// Built fresh per lookup; the gateway may cache it until the next refresh.
type PlayerProfile struct {
	ID            int      `json:"id"`
	Name          string   `json:"name"`
	Position      Position `json:"position"`
	Team          string   `json:"team"`
	TeamAbbrev    string   `json:"team_abbrev,omitempty"`
	Age           int      `json:"age"`
	WeightLbs     int      `json:"weight_lbs"`
	GamesPlayed   int      `json:"games_played"`
	Goals         int      `json:"goals"`
	Assists       int      `json:"assists"`
	PointsPerGame float64  `json:"points_per_game"`
	DraftOverall  int      `json:"draft_overall,omitempty"` // 0 = undrafted
	DraftYear     int      `json:"draft_year,omitempty"`
	Headshot      string   `json:"headshot,omitempty"`
}

// Points returns goals plus assists.
func (p PlayerProfile) Points() int { return p.Goals + p.Assists }

// PointsPerGame derives the career scoring rate; zero games yields zero.
func PointsPerGame(goals, assists, games int) float64 {
	if games <= 0 {
		return 0
	}
	return float64(goals+assists) / float64(games)
}

// AgeOn returns the age in whole years on the given day for a "YYYY-MM-DD"
// birth date, or 0 when the date cannot be parsed.
func AgeOn(birthDate string, on time.Time) int {
	born, err := time.Parse("2006-01-02", birthDate)
	if err != nil {
		return 0
	}
	age := on.Year() - born.Year()
	if on.Month() < born.Month() || (on.Month() == born.Month() && on.Day() < born.Day()) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}
