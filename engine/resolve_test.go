package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

var t0 = time.UnixMilli(1_700_000_000_000)

func card(rank uint8, suit Suit) Card { return Card{Rank: rank, Suit: suit} }

// testRules disables cooldown, forced war, and nukes; each has its own tests.
func testRules() Rules {
	r := DefaultRules()
	r.CooldownPeriod = 0
	r.ForcedWarEvery = 0
	r.IncludeNukes = false
	return r
}

// testState builds a mid-game state from explicit decks. Deck top is the end
// of the slice.
func testState(player, opponent []Card) GameState {
	return GameState{
		GameID:       uuid.New(),
		PlayerDeck:   player,
		OpponentDeck: opponent,
		Status:       StatusPlaying,
		TotalCards:   len(player) + len(opponent),
		Rules:        testRules(),
	}
}

func mustResolve(t *testing.T, g GameState, intent Move, at time.Time) GameState {
	t.Helper()
	next, err := Resolve(g, intent, at)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	return next
}

// TestNormalRoundHigherCardWins verifies an ordinary round: the higher rank
// takes the table, and the pair is swept to the bottom of their deck on the
// following move.
func TestNormalRoundHigherCardWins(t *testing.T) {
	g := testState(
		[]Card{card(RankTwo, SuitClubs), card(RankNine, SuitHearts)},
		[]Card{card(RankThree, SuitDiamonds), card(RankFive, SuitSpades)},
	)

	g1 := mustResolve(t, g, MoveDraw, t0)
	if g1.Status != StatusPlaying {
		t.Fatalf("Status = %q, want %q", g1.Status, StatusPlaying)
	}
	if g1.PlayerCard == nil || g1.PlayerCard.Rank != RankNine {
		t.Fatalf("PlayerCard = %v, want 9♥ in play", g1.PlayerCard)
	}
	if g1.OpponentCard == nil || g1.OpponentCard.Rank != RankFive {
		t.Fatalf("OpponentCard = %v, want 5♠ in play", g1.OpponentCard)
	}
	if g1.TableWinner != SidePlayer {
		t.Errorf("TableWinner = %q, want player", g1.TableWinner)
	}
	if g1.MoveCount != 1 {
		t.Errorf("MoveCount = %d, want 1", g1.MoveCount)
	}
	if err := g1.VerifyCardCount(); err != nil {
		t.Errorf("conservation after round: %v", err)
	}

	// Next move sweeps the won pair to the bottom of the player's deck.
	g2 := mustResolve(t, g1, MoveDraw, t0.Add(2*time.Second))
	if g2.Status == StatusEnded {
		t.Fatalf("game ended early: %s", g2.Message)
	}
	// Opponent won the 2♣ vs 3♦ round with its last card, so the sweep on
	// game-over check keeps it alive with the pair it just won.
	if len(g2.OpponentDeck) != 2 {
		t.Errorf("opponent deck = %d cards, want 2", len(g2.OpponentDeck))
	}
	if g2.PlayerDeck[0].Rank != RankNine || g2.PlayerDeck[1].Rank != RankFive {
		t.Errorf("swept pair not at deck bottom: %v", g2.PlayerDeck)
	}
	if err := g2.VerifyCardCount(); err != nil {
		t.Errorf("conservation after sweep: %v", err)
	}
}

// TestLastCardRoundEndsGame: player 5♣ beats opponent 3♦, emptying the
// opponent's deck; the game ends naming the player.
func TestLastCardRoundEndsGame(t *testing.T) {
	g := testState(
		[]Card{card(RankFive, SuitClubs)},
		[]Card{card(RankThree, SuitDiamonds)},
	)

	g1 := mustResolve(t, g, MoveDraw, t0)
	if g1.Status != StatusEnded {
		t.Fatalf("Status = %q, want ended", g1.Status)
	}
	if g1.Winner != SidePlayer {
		t.Errorf("Winner = %q, want player", g1.Winner)
	}
	if !g1.JustEnded {
		t.Error("JustEnded not set on the ending move")
	}
	if len(g1.PlayerDeck) != 2 || len(g1.OpponentDeck) != 0 {
		t.Errorf("decks = %d/%d, want 2/0", len(g1.PlayerDeck), len(g1.OpponentDeck))
	}
	if err := g1.VerifyCardCount(); err != nil {
		t.Errorf("conservation in terminal state: %v", err)
	}
}

// TestTieStartsWar: equal ranks with enough cards puts exactly 8 cards in the
// pile: the tied pair face up, three face-down stakes per side.
func TestTieStartsWar(t *testing.T) {
	g := testState(
		[]Card{card(RankTwo, SuitClubs), card(RankFour, SuitClubs), card(RankSix, SuitClubs), card(RankEight, SuitClubs), card(RankSeven, SuitSpades)},
		[]Card{card(RankThree, SuitDiamonds), card(RankFive, SuitDiamonds), card(RankNine, SuitDiamonds), card(RankJack, SuitDiamonds), card(RankSeven, SuitHearts)},
	)

	g1 := mustResolve(t, g, MoveDraw, t0)
	if g1.Status != StatusWar || !g1.WarInProgress {
		t.Fatalf("Status = %q WarInProgress = %v, want war/true", g1.Status, g1.WarInProgress)
	}
	if len(g1.WarPile) != 8 {
		t.Fatalf("war pile = %d cards, want 8", len(g1.WarPile))
	}
	if g1.WarPile[0].FaceDown || g1.WarPile[1].FaceDown {
		t.Error("tied pair should sit face up in the pile")
	}
	for i := 2; i < 8; i++ {
		if !g1.WarPile[i].FaceDown {
			t.Errorf("stake card %d not face down", i)
		}
	}
	if g1.PlayerCard != nil || g1.OpponentCard != nil {
		t.Error("in-play cards should be empty while the war is open")
	}
	if g1.Winner != SideNone || g1.Status == StatusEnded {
		t.Error("war start must not declare a winner")
	}
	if len(g1.PlayerDeck) != 1 || len(g1.OpponentDeck) != 1 {
		t.Errorf("decks = %d/%d, want 1/1", len(g1.PlayerDeck), len(g1.OpponentDeck))
	}
	if err := g1.VerifyCardCount(); err != nil {
		t.Errorf("conservation during war: %v", err)
	}

	// The next move resolves the war by higher card: the winner is awarded
	// all 8 pile cards plus the deciding pair, 10 in total.
	g2 := mustResolve(t, g1, MoveDraw, t0.Add(2*time.Second))
	if g2.Status != StatusEnded {
		t.Fatalf("Status = %q, want ended (loser drained)", g2.Status)
	}
	var winnerDeck []Card
	if g2.Winner == SidePlayer {
		winnerDeck = g2.PlayerDeck
	} else {
		winnerDeck = g2.OpponentDeck
	}
	if len(winnerDeck) != 10 {
		t.Errorf("winner holds %d cards, want all 10", len(winnerDeck))
	}
	for _, c := range winnerDeck {
		if c.FaceDown {
			t.Errorf("awarded card %s still face down", c)
		}
	}
	if err := g2.VerifyCardCount(); err != nil {
		t.Errorf("conservation after resolution: %v", err)
	}
}

// TestWarResolutionImmediateByRank: while a war is open, the next draw
// resolves unconditionally by rank even without equal ranks involved.
func TestWarResolutionImmediateByRank(t *testing.T) {
	pile := []Card{
		card(RankSeven, SuitSpades), card(RankSeven, SuitHearts),
		{Rank: RankTwo, Suit: SuitClubs, FaceDown: true}, {Rank: RankFour, Suit: SuitClubs, FaceDown: true}, {Rank: RankSix, Suit: SuitClubs, FaceDown: true},
		{Rank: RankThree, Suit: SuitDiamonds, FaceDown: true}, {Rank: RankFive, Suit: SuitDiamonds, FaceDown: true}, {Rank: RankNine, Suit: SuitDiamonds, FaceDown: true},
	}
	g := testState(
		[]Card{card(RankTen, SuitClubs), card(RankKing, SuitSpades)},
		[]Card{card(RankJack, SuitDiamonds), card(RankQueen, SuitHearts)},
	)
	g.WarPile = pile
	g.WarInProgress = true
	g.Status = StatusWar
	g.TotalCards += len(pile)

	g1 := mustResolve(t, g, MoveDraw, t0)
	if g1.WarInProgress {
		t.Fatal("war should be resolved")
	}
	if g1.Status != StatusPlaying {
		t.Fatalf("Status = %q, want playing", g1.Status)
	}
	if g1.TableWinner != SidePlayer {
		t.Errorf("TableWinner = %q, want player (K beats Q)", g1.TableWinner)
	}
	if len(g1.WarPile) != 0 {
		t.Errorf("war pile = %d cards, want 0", len(g1.WarPile))
	}
	// Pile awarded eagerly to the winner's deck bottom; the deciding pair
	// stays on the table until the next sweep.
	if len(g1.PlayerDeck) != 1+8 {
		t.Errorf("player deck = %d cards, want 9", len(g1.PlayerDeck))
	}
	for _, c := range g1.PlayerDeck {
		if c.FaceDown {
			t.Errorf("awarded card %s still face down", c)
		}
	}
	if err := g1.VerifyCardCount(); err != nil {
		t.Errorf("conservation after resolution: %v", err)
	}
}

// TestWarReTieFavorsLargerDeck: an exact re-tie during resolution goes to the
// side with more cards remaining, the player when even.
func TestWarReTieFavorsLargerDeck(t *testing.T) {
	build := func(playerExtra int) GameState {
		player := []Card{card(RankEight, SuitClubs)}
		for i := 0; i < playerExtra; i++ {
			player = append([]Card{card(RankTwo, SuitHearts)}, player...)
		}
		g := testState(
			player,
			[]Card{card(RankThree, SuitDiamonds), card(RankEight, SuitDiamonds)},
		)
		g.WarPile = []Card{card(RankFour, SuitSpades), card(RankFour, SuitHearts)}
		g.WarInProgress = true
		g.Status = StatusWar
		g.TotalCards += 2
		return g
	}

	// Opponent has 1 card left after the draw, player 0: opponent wins.
	g1 := mustResolve(t, build(0), MoveDraw, t0)
	if g1.TableWinner != SideOpponent && g1.Winner != SideOpponent {
		t.Errorf("re-tie with smaller player deck: winner = %q/%q, want opponent", g1.TableWinner, g1.Winner)
	}

	// Even split after the draw: player wins the re-tie.
	g2 := mustResolve(t, build(1), MoveDraw, t0)
	if g2.TableWinner != SidePlayer && g2.Winner != SidePlayer {
		t.Errorf("even re-tie: winner = %q/%q, want player", g2.TableWinner, g2.Winner)
	}
}

// TestShortDeckTieEndsGame: a tie the opponent cannot cover ends the game
// immediately with the player holding every card.
func TestShortDeckTieEndsGame(t *testing.T) {
	g := testState(
		[]Card{card(RankTwo, SuitClubs), card(RankFour, SuitClubs), card(RankSix, SuitClubs), card(RankEight, SuitHearts)},
		[]Card{card(RankThree, SuitDiamonds), card(RankFive, SuitDiamonds), card(RankEight, SuitDiamonds)},
	)

	g1 := mustResolve(t, g, MoveDraw, t0)
	if g1.Status != StatusEnded {
		t.Fatalf("Status = %q, want ended", g1.Status)
	}
	if g1.Winner != SidePlayer {
		t.Errorf("Winner = %q, want player", g1.Winner)
	}
	if len(g1.PlayerDeck) != 7 || len(g1.OpponentDeck) != 0 {
		t.Errorf("decks = %d/%d, want 7/0", len(g1.PlayerDeck), len(g1.OpponentDeck))
	}
	if err := g1.VerifyCardCount(); err != nil {
		t.Errorf("conservation in terminal state: %v", err)
	}
}

// TestShortDeckTieEvenFavorsPlayer: both sides short with equal counts; the
// player is awarded the game.
func TestShortDeckTieEvenFavorsPlayer(t *testing.T) {
	g := testState(
		[]Card{card(RankTwo, SuitClubs), card(RankNine, SuitHearts)},
		[]Card{card(RankThree, SuitDiamonds), card(RankNine, SuitDiamonds)},
	)

	g1 := mustResolve(t, g, MoveDraw, t0)
	if g1.Status != StatusEnded || g1.Winner != SidePlayer {
		t.Fatalf("Status/Winner = %q/%q, want ended/player", g1.Status, g1.Winner)
	}
	if len(g1.PlayerDeck) != 4 {
		t.Errorf("player deck = %d cards, want all 4", len(g1.PlayerDeck))
	}
}

// TestEmptyDeckOnEntryEndsGame: a deck already empty when the move arrives
// ends the game before any draw; moves after that are invalid.
func TestEmptyDeckOnEntryEndsGame(t *testing.T) {
	g := testState(
		nil,
		[]Card{card(RankThree, SuitDiamonds), card(RankFive, SuitSpades)},
	)

	g1 := mustResolve(t, g, MoveDraw, t0)
	if g1.Status != StatusEnded {
		t.Fatalf("Status = %q, want ended", g1.Status)
	}
	if g1.Winner != SideOpponent {
		t.Errorf("Winner = %q, want opponent", g1.Winner)
	}
	if len(g1.OpponentDeck) != 2 {
		t.Errorf("opponent deck = %d cards, want 2 (no card movement)", len(g1.OpponentDeck))
	}

	_, err := Resolve(g1, MoveDraw, t0.Add(2*time.Second))
	if !errors.Is(err, ErrInvalidMove) {
		t.Errorf("move on ended game: err = %v, want ErrInvalidMove", err)
	}
}

// TestForcedWarEveryTwelfthMove: the twelfth move wars regardless of rank.
func TestForcedWarEveryTwelfthMove(t *testing.T) {
	g := testState(
		[]Card{card(RankTwo, SuitClubs), card(RankFour, SuitClubs), card(RankSix, SuitClubs), card(RankAce, SuitSpades)},
		[]Card{card(RankThree, SuitDiamonds), card(RankFive, SuitDiamonds), card(RankNine, SuitDiamonds), card(RankTwo, SuitHearts)},
	)
	g.Rules.ForcedWarEvery = 12
	g.MoveCount = 11

	g1 := mustResolve(t, g, MoveDraw, t0)
	if g1.Status != StatusWar || !g1.WarInProgress {
		t.Fatalf("Status = %q WarInProgress = %v, want forced war", g1.Status, g1.WarInProgress)
	}
	if len(g1.WarPile) != 8 {
		t.Errorf("war pile = %d cards, want 8", len(g1.WarPile))
	}
}

// TestResolveDoesNotMutateInput verifies Resolve is a pure transition.
func TestResolveDoesNotMutateInput(t *testing.T) {
	g := testState(
		[]Card{card(RankTwo, SuitClubs), card(RankNine, SuitHearts)},
		[]Card{card(RankThree, SuitDiamonds), card(RankFive, SuitSpades)},
	)
	playerBefore := append([]Card(nil), g.PlayerDeck...)
	opponentBefore := append([]Card(nil), g.OpponentDeck...)

	if _, err := Resolve(g, MoveDraw, t0); err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if len(g.PlayerDeck) != len(playerBefore) || len(g.OpponentDeck) != len(opponentBefore) {
		t.Fatal("input decks resized by Resolve")
	}
	for i := range playerBefore {
		if g.PlayerDeck[i] != playerBefore[i] {
			t.Fatalf("input player deck mutated at %d", i)
		}
	}
	for i := range opponentBefore {
		if g.OpponentDeck[i] != opponentBefore[i] {
			t.Fatalf("input opponent deck mutated at %d", i)
		}
	}
	if g.MoveCount != 0 || g.PlayerCard != nil {
		t.Fatal("input bookkeeping mutated by Resolve")
	}
}

// TestCardConservationRandomPlayouts drives full games to completion for both
// deck variants, checking conservation after every accepted move.
func TestCardConservationRandomPlayouts(t *testing.T) {
	for _, nukes := range []bool{false, true} {
		name := "52-card"
		if nukes {
			name = "54-card"
		}
		t.Run(name, func(t *testing.T) {
			rules := DefaultRules()
			rules.IncludeNukes = nukes
			rules.CooldownPeriod = 0

			for game := 0; game < 20; game++ {
				g := NewGame(rules)
				at := t0
				for move := 0; move < 5000 && g.Status != StatusEnded; move++ {
					intent := MoveDraw
					// Exercise the nuke path once mid-game.
					if nukes && g.PlayerNuke && move == 30 {
						intent = MoveNuke
					}
					at = at.Add(2 * time.Second)
					next, err := Resolve(g, intent, at)
					if err != nil {
						t.Fatalf("game %d move %d: %v", game, move, err)
					}
					g = next
					if err := g.VerifyCardCount(); err != nil {
						t.Fatalf("game %d move %d: %v", game, move, err)
					}
				}
				if g.Status == StatusEnded && g.Winner == SideNone {
					t.Fatalf("game %d ended without a winner", game)
				}
			}
		})
	}
}
