package engine

import (
	"fmt"
	"time"
)

// Resolve applies one move intent to a game state and returns the next state.
// The input state is never mutated; rejected moves return it unchanged along
// with a recoverable sentinel error. The input must satisfy the
// card-conservation invariant; under strict rules a violation aborts the move
// with an *InvariantViolationError.
func Resolve(state GameState, intent Move, now time.Time) (GameState, error) {
	if err := state.VerifyCardCount(); err != nil && state.Rules.StrictInvariants {
		return state, err
	}
	if state.Status == StatusEnded {
		return state, fmt.Errorf("%w: game is already over", ErrInvalidMove)
	}
	if intent != MoveDraw && intent != MoveNuke {
		return state, fmt.Errorf("%w: unknown intent %q", ErrInvalidMove, intent)
	}
	if intent == MoveNuke && !state.PlayerNuke {
		return state, fmt.Errorf("%w: no nuke available", ErrInvalidMove)
	}
	if OnCooldown(state.LastMoveAt, now, state.Rules.CooldownPeriod) {
		return state, ErrCooldownActive
	}

	g := state.Clone()
	g.JustEnded = false
	g.settleTable()

	// A deck emptied by the previous move ends the game before any draw.
	if len(g.PlayerDeck) == 0 || len(g.OpponentDeck) == 0 {
		g.finish(g.winnerByStanding())
		g.completeMove(now)
		return g, nil
	}

	var captured int
	if intent == MoveNuke {
		captured = g.applyNuke()
		if g.Status == StatusEnded {
			g.completeMove(now)
			return g, nil
		}
	}

	// The turn continues with a normal draw after a non-terminal nuke.
	if g.WarInProgress {
		g.resolveWar()
	} else {
		g.playRound()
	}
	if captured > 0 {
		g.Message = fmt.Sprintf("Nuke! You captured %d cards. %s", captured, g.Message)
	}

	g.completeMove(now)
	if err := g.VerifyCardCount(); err != nil && g.Rules.StrictInvariants {
		return state, err
	}
	return g, nil
}

// settleTable sweeps the previous round's in-play pair to its winner's deck.
// Captured cards are prepended so they re-enter the draw order at the bottom.
func (g *GameState) settleTable() {
	if g.TableWinner == SideNone || g.PlayerCard == nil || g.OpponentCard == nil {
		return
	}
	first, second := *g.PlayerCard, *g.OpponentCard
	if g.TableWinner == SideOpponent {
		first, second = second, first
	}
	prepend(g.deck(g.TableWinner), first, second)
	g.PlayerCard, g.OpponentCard = nil, nil
	g.TableWinner = SideNone
}

// playRound draws one card per side and compares ranks. Equal ranks (or a
// forced war on every Nth move) start a war; otherwise the higher rank takes
// the round.
func (g *GameState) playRound() {
	pc := pop(&g.PlayerDeck)
	oc := pop(&g.OpponentDeck)
	g.PlayerCard, g.OpponentCard = &pc, &oc

	moveNumber := g.MoveCount + 1
	forced := g.Rules.ForcedWarEvery > 0 && moveNumber%g.Rules.ForcedWarEvery == 0

	switch {
	case forced || pc.Rank == oc.Rank:
		g.beginWar(forced)
	case pc.Rank > oc.Rank:
		g.winRound(SidePlayer)
	default:
		g.winRound(SideOpponent)
	}
}

// winRound records the round winner and leaves the drawn pair face up on the
// table; the next move sweeps it into the winner's deck.
func (g *GameState) winRound(winner Side) {
	g.TableWinner = winner
	g.Status = StatusPlaying
	verb := "you take"
	if winner == SideOpponent {
		verb = "opponent takes"
	}
	g.Message = fmt.Sprintf("You drew %s, opponent drew %s — %s the round.",
		g.PlayerCard, g.OpponentCard, verb)
	g.checkDecksAfterMove()
}

// beginWar moves the tied pair into the war pile, commits the face-down
// stakes, and leaves the war open for the next move to resolve. A side that
// cannot cover the stake loses everything immediately.
func (g *GameState) beginWar(forced bool) {
	tiedPlayer, tiedOpponent := *g.PlayerCard, *g.OpponentCard
	g.PlayerCard, g.OpponentCard = nil, nil
	g.WarPile = append(g.WarPile, tiedPlayer, tiedOpponent)

	stake := g.Rules.warStake()
	if len(g.PlayerDeck) < stake || len(g.OpponentDeck) < stake {
		g.finish(g.winnerByStanding())
		g.Message = fmt.Sprintf("War over %s vs %s — %s cannot cover the stakes. %s",
			tiedPlayer, tiedOpponent, sideName(g.Winner.Opponent()), g.Message)
		return
	}

	for i := 0; i < stake; i++ {
		c := pop(&g.PlayerDeck)
		c.FaceDown = true
		g.WarPile = append(g.WarPile, c)
	}
	for i := 0; i < stake; i++ {
		c := pop(&g.OpponentDeck)
		c.FaceDown = true
		g.WarPile = append(g.WarPile, c)
	}

	g.WarInProgress = true
	g.Status = StatusWar
	if forced {
		g.Message = fmt.Sprintf("Forced war! %s vs %s — %d cards down each. Draw to resolve.",
			tiedPlayer, tiedOpponent, stake)
	} else {
		g.Message = fmt.Sprintf("War! %s vs %s — %d cards down each. Draw to resolve.",
			tiedPlayer, tiedOpponent, stake)
	}
}

// resolveWar draws the deciding pair. The higher rank takes the entire pile
// regardless of further ties; an exact re-tie goes to the side with the
// larger remaining deck, the player if even.
func (g *GameState) resolveWar() {
	pc := pop(&g.PlayerDeck)
	oc := pop(&g.OpponentDeck)
	g.PlayerCard, g.OpponentCard = &pc, &oc

	var winner Side
	switch {
	case pc.Rank > oc.Rank:
		winner = SidePlayer
	case pc.Rank < oc.Rank:
		winner = SideOpponent
	default:
		winner = g.winnerByStanding()
	}

	spoils := len(g.WarPile) + 2
	for i := range g.WarPile {
		g.WarPile[i].FaceDown = false
	}
	prepend(g.deck(winner), g.WarPile...)
	g.WarPile = nil
	g.TableWinner = winner
	g.WarInProgress = false
	g.Status = StatusPlaying

	verb := "you take"
	if winner == SideOpponent {
		verb = "opponent takes"
	}
	g.Message = fmt.Sprintf("War resolved: %s vs %s — %s %d cards.", pc, oc, verb, spoils)
	g.checkDecksAfterMove()
}

// checkDecksAfterMove is the post-move game-over check. The table pair is
// settled first so a side that just won back its last cards plays on.
func (g *GameState) checkDecksAfterMove() {
	if len(g.PlayerDeck) > 0 && len(g.OpponentDeck) > 0 {
		return
	}
	g.settleTable()
	if len(g.PlayerDeck) == 0 || len(g.OpponentDeck) == 0 {
		g.finish(g.winnerByStanding())
	}
}

// winnerByStanding returns the side with more cards remaining, the player on
// an even split.
func (g *GameState) winnerByStanding() Side {
	if len(g.OpponentDeck) > len(g.PlayerDeck) {
		return SideOpponent
	}
	return SidePlayer
}

// finish ends the game. Everything still at stake (the war pile, the table
// pair, and the loser's remaining cards) is swept to the winner so every
// card has an owner in the terminal state.
func (g *GameState) finish(winner Side) {
	var spoils []Card
	spoils = append(spoils, g.WarPile...)
	if g.PlayerCard != nil {
		spoils = append(spoils, *g.PlayerCard)
	}
	if g.OpponentCard != nil {
		spoils = append(spoils, *g.OpponentCard)
	}
	loser := winner.Opponent()
	spoils = append(spoils, *g.deck(loser)...)
	*g.deck(loser) = nil
	for i := range spoils {
		spoils[i].FaceDown = false
	}
	prepend(g.deck(winner), spoils...)

	g.WarPile = nil
	g.PlayerCard, g.OpponentCard = nil, nil
	g.TableWinner = SideNone
	g.WarInProgress = false
	g.Status = StatusEnded
	g.Winner = winner
	g.JustEnded = true
	if winner == SidePlayer {
		g.Message = "Game over — you win!"
	} else {
		g.Message = "Game over — opponent wins."
	}
}

// completeMove stamps the bookkeeping every accepted move shares.
func (g *GameState) completeMove(now time.Time) {
	g.MoveCount++
	g.LastMoveAt = now.UnixMilli()
}
