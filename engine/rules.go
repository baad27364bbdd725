package engine

import "time"

// Rules holds configurable game rule settings. The rule set travels inside
// GameState so a decoded token resumes under the rules it started with.
type Rules struct {
	IncludeNukes     bool          `json:"nk,omitempty"`  // add one special card per side (54-card deck)
	NukeThreshold    int           `json:"nt,omitempty"`  // opponent deck size at or below which a nuke wins outright
	NukeCapture      int           `json:"nc,omitempty"`  // cards captured from the opponent's bottom otherwise
	WarStake         int           `json:"ws,omitempty"`  // face-down cards each side commits to a war
	ForcedWarEvery   int           `json:"fw,omitempty"`  // force a war every Nth move; 0 disables
	CooldownPeriod   time.Duration `json:"cd,omitempty"`  // minimum time between accepted moves
	StrictInvariants bool          `json:"str,omitempty"` // fail the move on a card-count mismatch
}

// DefaultRules returns the standard rule set.
func DefaultRules() Rules {
	return Rules{
		IncludeNukes:     true,
		NukeThreshold:    10,
		NukeCapture:      10,
		WarStake:         3,
		ForcedWarEvery:   12,
		CooldownPeriod:   time.Second,
		StrictInvariants: true,
	}
}

// warStake returns the effective war stake, treating 0 as the standard 3.
func (r *Rules) warStake() int {
	if r.WarStake <= 0 {
		return 3
	}
	return r.WarStake
}
