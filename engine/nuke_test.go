package engine

import (
	"errors"
	"strings"
	"testing"
	"time"
)

// nukeState builds a 54-card-variant style state with the player's nuke live.
func nukeState(player, opponent []Card) GameState {
	g := testState(player, opponent)
	g.Rules.IncludeNukes = true
	g.PlayerNuke = true
	g.OpponentNuke = true
	return g
}

func deckOf(n int, suit Suit) []Card {
	deck := make([]Card, n)
	for i := range deck {
		deck[i] = Card{Rank: RankTwo + uint8(i%13), Suit: suit}
	}
	return deck
}

// TestNukeBelowThresholdWinsOutright: with the opponent at 8 cards and a
// threshold of 10, the nuke transfers everything and ends the game.
func TestNukeBelowThresholdWinsOutright(t *testing.T) {
	g := nukeState(deckOf(20, SuitClubs), deckOf(8, SuitDiamonds))

	g1 := mustResolve(t, g, MoveNuke, t0)
	if g1.Status != StatusEnded {
		t.Fatalf("Status = %q, want ended", g1.Status)
	}
	if g1.Winner != SidePlayer {
		t.Errorf("Winner = %q, want player", g1.Winner)
	}
	if len(g1.OpponentDeck) != 0 {
		t.Errorf("opponent deck = %d cards, want 0", len(g1.OpponentDeck))
	}
	if len(g1.PlayerDeck) != 28 {
		t.Errorf("player deck = %d cards, want 28", len(g1.PlayerDeck))
	}
	if g1.PlayerNuke {
		t.Error("nuke flag not consumed")
	}
	if !g1.JustEnded {
		t.Error("JustEnded not set on nuke win")
	}
	if err := g1.VerifyCardCount(); err != nil {
		t.Errorf("conservation after nuke: %v", err)
	}
}

// TestNukeAboveThresholdCapturesFromBottom: the capture comes off the bottom
// of the opponent's deck and the same turn still plays a normal draw.
func TestNukeAboveThresholdCapturesFromBottom(t *testing.T) {
	opponent := deckOf(30, SuitDiamonds)
	bottomTen := append([]Card(nil), opponent[:10]...)
	g := nukeState(deckOf(20, SuitClubs), opponent)

	g1 := mustResolve(t, g, MoveNuke, t0)
	if g1.Status == StatusEnded {
		t.Fatalf("game should continue after a capture nuke: %s", g1.Message)
	}
	if g1.PlayerNuke {
		t.Error("nuke flag not consumed")
	}
	// Captured cards sit at the bottom of the player's deck in order.
	for i, want := range bottomTen {
		if g1.PlayerDeck[i] != want {
			t.Fatalf("player deck bottom card %d = %s, want %s", i, g1.PlayerDeck[i], want)
		}
	}
	// 30 - 10 captured - 1 drawn for the round.
	if got := len(g1.OpponentDeck); got != 19 {
		t.Errorf("opponent deck = %d cards, want 19", got)
	}
	if !strings.Contains(g1.Message, "Nuke!") {
		t.Errorf("message %q missing nuke note", g1.Message)
	}
	if g1.MoveCount != 1 {
		t.Errorf("MoveCount = %d, want 1 (nuke and draw share the turn)", g1.MoveCount)
	}
	if err := g1.VerifyCardCount(); err != nil {
		t.Errorf("conservation after capture: %v", err)
	}
}

// TestNukeUnavailableRejected: a second nuke, or one never granted, is an
// invalid move that leaves the state untouched.
func TestNukeUnavailableRejected(t *testing.T) {
	g := nukeState(deckOf(20, SuitClubs), deckOf(20, SuitDiamonds))

	g1 := mustResolve(t, g, MoveNuke, t0)
	if g1.PlayerNuke {
		t.Fatal("nuke flag not consumed")
	}

	_, err := Resolve(g1, MoveNuke, t0.Add(2*time.Second))
	if !errors.Is(err, ErrInvalidMove) {
		t.Fatalf("second nuke: err = %v, want ErrInvalidMove", err)
	}

	g.PlayerNuke = false
	_, err = Resolve(g, MoveNuke, t0)
	if !errors.Is(err, ErrInvalidMove) {
		t.Fatalf("nuke without flag: err = %v, want ErrInvalidMove", err)
	}
	if g.MoveCount != 0 {
		t.Error("rejected nuke mutated state")
	}
}

// TestNukeThresholdConfigurable: the eligibility threshold is a rule, not a
// constant.
func TestNukeThresholdConfigurable(t *testing.T) {
	g := nukeState(deckOf(20, SuitClubs), deckOf(15, SuitDiamonds))
	g.Rules.NukeThreshold = 15

	g1 := mustResolve(t, g, MoveNuke, t0)
	if g1.Status != StatusEnded || g1.Winner != SidePlayer {
		t.Fatalf("threshold 15 vs 15 cards: Status/Winner = %q/%q, want ended/player", g1.Status, g1.Winner)
	}
}
