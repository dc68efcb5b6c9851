package archetype

import "github.com/albapepper/hockey-explainer/internal/provider"

// Thresholds used by the classification rules.
const (
	OffensiveDefensemanPPG = 0.6
	ProspectMaxAge         = 23
	ProspectMaxDraft       = 10
	ProspectPPG            = 0.8
	VeteranMinAge          = 32
	VeteranMinGames        = 500
	EliteCenterPPG         = 0.9
	GoalScorerRatio        = 1.2
	PlaymakerRatio         = 1.3
	PowerForwardWeight     = 210
	PowerForwardPPG        = 0.3
	DefensiveForwardPPG    = 0.4
	DefensiveForwardGames  = 100
	GrinderPPG             = 0.3
)

// Rule is one step of the decision list. Match returns the archetype and
// true when the rule applies.
type Rule struct {
	Name  string
	Match func(p provider.PlayerProfile) (Archetype, bool)
}

// Rules is the ordered decision list. The first matching rule is final.
var Rules = []Rule{
	{"goaltender", func(p provider.PlayerProfile) (Archetype, bool) {
		return StartingGoaltender, p.Position == provider.Goaltender
	}},
	{"defenseman", func(p provider.PlayerProfile) (Archetype, bool) {
		if p.Position != provider.Defenseman {
			return "", false
		}
		if p.PointsPerGame > OffensiveDefensemanPPG {
			return OffensiveDefenseman, true
		}
		return ShutdownDefenseman, true
	}},
	{"prospect", func(p provider.PlayerProfile) (Archetype, bool) {
		drafted := p.DraftOverall > 0 && p.DraftOverall <= ProspectMaxDraft
		return RisingProspect, p.Age <= ProspectMaxAge && (drafted || p.PointsPerGame > ProspectPPG)
	}},
	{"veteran", func(p provider.PlayerProfile) (Archetype, bool) {
		return VeteranLeader, p.Age >= VeteranMinAge && p.GamesPlayed > VeteranMinGames
	}},
	{"elite center", func(p provider.PlayerProfile) (Archetype, bool) {
		return EliteTwoWayCenter, p.Position == provider.Center && p.PointsPerGame > EliteCenterPPG
	}},
	{"goal scorer", func(p provider.PlayerProfile) (Archetype, bool) {
		return GoalScorer, float64(p.Goals) > float64(p.Assists)*GoalScorerRatio
	}},
	{"playmaker", func(p provider.PlayerProfile) (Archetype, bool) {
		return Playmaker, float64(p.Assists) > float64(p.Goals)*PlaymakerRatio
	}},
	{"power forward", func(p provider.PlayerProfile) (Archetype, bool) {
		return PowerForward, p.WeightLbs > PowerForwardWeight && p.PointsPerGame > PowerForwardPPG
	}},
	{"defensive forward", func(p provider.PlayerProfile) (Archetype, bool) {
		return DefensiveForward, p.PointsPerGame < DefensiveForwardPPG && p.GamesPlayed > DefensiveForwardGames
	}},
	{"grinder", func(p provider.PlayerProfile) (Archetype, bool) {
		return Grinder, p.PointsPerGame < GrinderPPG
	}},
}

// Classify assigns exactly one archetype to p. It never fails: a profile no
// rule matches is a goal scorer.
func Classify(p provider.PlayerProfile) Archetype {
	a, _ := Explain(p)
	return a
}

// Explain is Classify plus the name of the rule that decided, "default" when
// none did.
func Explain(p provider.PlayerProfile) (Archetype, string) {
	for _, r := range Rules {
		if a, ok := r.Match(p); ok {
			return a, r.Name
		}
	}
	return GoalScorer, "default"
}
