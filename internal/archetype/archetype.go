// Package archetype classifies externally fetched players into a fixed set
// of roles and holds the comparison pools shown for each role.
//
// Classification is a pure function over a provider.PlayerProfile. Picking a
// comparison from a pool is random and lives in Pools.Pick, which takes the
// caller's random source.
package archetype

// Archetype is a role label from a closed set.
type Archetype string

const (
	StartingGoaltender  Archetype = "starting_goaltender"
	OffensiveDefenseman Archetype = "offensive_defenseman"
	ShutdownDefenseman  Archetype = "shutdown_defenseman"
	RisingProspect      Archetype = "rising_prospect"
	VeteranLeader       Archetype = "veteran_leader"
	EliteTwoWayCenter   Archetype = "elite_two_way_center"
	GoalScorer          Archetype = "goal_scorer"
	Playmaker           Archetype = "playmaker"
	PowerForward        Archetype = "power_forward"
	DefensiveForward    Archetype = "defensive_forward"
	Grinder             Archetype = "grinder"
)

// All lists every archetype.
var All = []Archetype{
	StartingGoaltender,
	OffensiveDefenseman,
	ShutdownDefenseman,
	RisingProspect,
	VeteranLeader,
	EliteTwoWayCenter,
	GoalScorer,
	Playmaker,
	PowerForward,
	DefensiveForward,
	Grinder,
}

// Valid reports whether a is in the closed set.
func (a Archetype) Valid() bool {
	for _, x := range All {
		if x == a {
			return true
		}
	}
	return false
}
