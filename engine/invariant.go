package engine

// CountReport breaks down where every card currently sits. It is attached to
// InvariantViolationError and logged by the service layer as structured fields.
type CountReport struct {
	PlayerDeck   int `json:"playerDeck"`
	OpponentDeck int `json:"opponentDeck"`
	WarPile      int `json:"warPile"`
	InPlay       int `json:"inPlay"`
	Expected     int `json:"expected"`
}

// Counted returns the total number of cards found across all zones.
func (r CountReport) Counted() int {
	return r.PlayerDeck + r.OpponentDeck + r.WarPile + r.InPlay
}

// CountCards tallies every zone against the fixed total established at game
// start.
func (g *GameState) CountCards() CountReport {
	r := CountReport{
		PlayerDeck:   len(g.PlayerDeck),
		OpponentDeck: len(g.OpponentDeck),
		WarPile:      len(g.WarPile),
		Expected:     g.TotalCards,
	}
	if g.PlayerCard != nil {
		r.InPlay++
	}
	if g.OpponentCard != nil {
		r.InPlay++
	}
	return r
}

// VerifyCardCount checks the card-conservation invariant:
//
//	len(playerDeck) + len(opponentDeck) + len(warPile) + inPlay == totalCards
//
// It returns an *InvariantViolationError on mismatch. Resolve runs this on
// entry and after mutation; whether a violation aborts the move is governed
// by Rules.StrictInvariants.
func (g *GameState) VerifyCardCount() error {
	r := g.CountCards()
	if r.Counted() != r.Expected {
		return &InvariantViolationError{Report: r}
	}
	return nil
}
