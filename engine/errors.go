package engine

import (
	"errors"
	"fmt"
)

// Recoverable rejection sentinels. Moves failing with these leave the input
// state untouched; callers return it to the client unchanged.
var (
	// ErrInvalidMove rejects a move that is not legal in the current state,
	// e.g. a nuke with no nuke available or any move on an ended game.
	ErrInvalidMove = errors.New("invalid move")

	// ErrCooldownActive rejects a move submitted inside the cooldown window.
	ErrCooldownActive = errors.New("cooldown active")
)

// InvariantViolationError reports a card-conservation mismatch. It indicates
// a logic defect, not bad input: the state is corrupt and the game cannot be
// trusted to continue. Fatal under strict rules.
type InvariantViolationError struct {
	Report CountReport
}

func (e *InvariantViolationError) Error() string {
	r := e.Report
	return fmt.Sprintf("card conservation violated: %d counted (player %d, opponent %d, pile %d, in play %d), want %d",
		r.Counted(), r.PlayerDeck, r.OpponentDeck, r.WarPile, r.InPlay, r.Expected)
}
