package engine

// applyNuke consumes the player's one-per-game nuke. With the opponent at or
// below the threshold the nuke wins outright; otherwise it captures cards
// from the bottom of the opponent's deck (the end opposite the draw point,
// so captured cards are not immediately re-drawable) and the turn continues
// with a normal draw. Returns the number of cards captured on the
// non-terminal path.
func (g *GameState) applyNuke() int {
	g.PlayerNuke = false

	n := len(g.OpponentDeck)
	if n <= g.Rules.NukeThreshold {
		prepend(&g.PlayerDeck, g.OpponentDeck...)
		g.OpponentDeck = nil
		g.finish(SidePlayer)
		g.Message = "Nuke! Opponent's deck is wiped out — you win!"
		return n
	}

	take := g.Rules.NukeCapture
	if take > n-1 {
		// The capture path never empties the deck; outright wins go through
		// the threshold branch only.
		take = n - 1
	}
	captured := append([]Card(nil), g.OpponentDeck[:take]...)
	g.OpponentDeck = append([]Card(nil), g.OpponentDeck[take:]...)
	prepend(&g.PlayerDeck, captured...)
	return take
}
