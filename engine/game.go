// Package engine implements the War card game turn-resolution rules.
//
// The engine is purely synchronous and stateless between calls: every move
// receives the complete prior GameState, works on a deep copy, and returns
// the next state for the caller to serialize and persist. The only shared
// resource is the encoded token the caller holds between moves, which imposes
// a single-writer discipline on the caller; the engine performs no locking.
package engine

import (
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
)

// GameState holds the complete, self-contained state of one War game.
//
// Deck order convention: the top of a deck is the END of the slice (draws pop
// the last element); captured cards are prepended so they re-enter the draw
// order at the bottom. PlayerCard and OpponentCard are the in-play zone: the
// most recently drawn pair sits face up "on the table" until the next move
// sweeps it to the round winner's deck.
type GameState struct {
	GameID        uuid.UUID `json:"id"`
	PlayerDeck    []Card    `json:"pd"`
	OpponentDeck  []Card    `json:"od"`
	PlayerCard    *Card     `json:"pc,omitempty"`
	OpponentCard  *Card     `json:"oc,omitempty"`
	WarPile       []Card    `json:"wp,omitempty"`
	TableWinner   Side      `json:"tw,omitempty"` // owner of the in-play pair, settled next move
	Message       string    `json:"msg,omitempty"`
	WarInProgress bool      `json:"war,omitempty"`
	Status        Status    `json:"st"`
	Winner        Side      `json:"w,omitempty"`
	MoveCount     int       `json:"mc"`
	LastMoveAt    int64     `json:"ts"` // unix milliseconds of the last accepted move
	PlayerNuke    bool      `json:"pn,omitempty"`
	OpponentNuke  bool      `json:"on,omitempty"`
	TotalCards    int       `json:"tc"`
	Rules         Rules     `json:"ru"`

	// Pass-through identity fields supplied by the profile collaborator.
	// The engine stores them opaquely and never interprets them.
	DisplayName string `json:"dn,omitempty"`
	AvatarURL   string `json:"av,omitempty"`

	// JustEnded is set by the move that transitions the game to ended and is
	// never serialized, so the stats collaborator observes the transition
	// exactly once, from the freshly resolved state, not a re-decoded token.
	JustEnded bool `json:"-"`
}

// BuildDeck produces the 52-card deck, plus one nuke card per side when
// includeNukes is set (54 cards total).
func BuildDeck(includeNukes bool) []Card {
	deck := make([]Card, 0, 54)
	for s := SuitHearts; s <= SuitSpades; s++ {
		for r := RankTwo; r <= RankAce; r++ {
			deck = append(deck, Card{Rank: r, Suit: s})
		}
	}
	if includeNukes {
		deck = append(deck,
			Card{Rank: RankNuke, Suit: SuitHearts, Nuke: true},
			Card{Rank: RankNuke, Suit: SuitSpades, Nuke: true},
		)
	}
	return deck
}

// Shuffle permutes cards in place with an unbiased Fisher-Yates pass.
func Shuffle(cards []Card) {
	for i := len(cards) - 1; i > 0; i-- {
		j := rand.IntN(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
}

// NewGame builds and shuffles a deck, splits it into two halves, and returns
// the initial state.
func NewGame(rules Rules) GameState {
	deck := BuildDeck(rules.IncludeNukes)
	Shuffle(deck)

	half := len(deck) / 2
	playerDeck := make([]Card, half)
	opponentDeck := make([]Card, len(deck)-half)
	copy(playerDeck, deck[:half])
	copy(opponentDeck, deck[half:])

	return GameState{
		GameID:       uuid.New(),
		PlayerDeck:   playerDeck,
		OpponentDeck: opponentDeck,
		Status:       StatusInitial,
		PlayerNuke:   rules.IncludeNukes,
		OpponentNuke: rules.IncludeNukes,
		TotalCards:   len(deck),
		Rules:        rules,
		Message:      fmt.Sprintf("Game on — %d cards each. Draw to play.", half),
	}
}

// Clone returns a deep copy of the state. Resolve mutates only the clone, so
// references the caller still holds never observe partial mutation.
func (g GameState) Clone() GameState {
	out := g
	out.PlayerDeck = append([]Card(nil), g.PlayerDeck...)
	out.OpponentDeck = append([]Card(nil), g.OpponentDeck...)
	out.WarPile = append([]Card(nil), g.WarPile...)
	if g.PlayerCard != nil {
		c := *g.PlayerCard
		out.PlayerCard = &c
	}
	if g.OpponentCard != nil {
		c := *g.OpponentCard
		out.OpponentCard = &c
	}
	return out
}

// deck returns a pointer to the given side's deck slice.
func (g *GameState) deck(s Side) *[]Card {
	if s == SidePlayer {
		return &g.PlayerDeck
	}
	return &g.OpponentDeck
}

// pop removes and returns the top card (end of slice) of a deck.
func pop(deck *[]Card) Card {
	d := *deck
	c := d[len(d)-1]
	*deck = d[:len(d)-1]
	return c
}

// prepend inserts cards at the bottom (front) of a deck.
func prepend(deck *[]Card, cards ...Card) {
	*deck = append(append(make([]Card, 0, len(cards)+len(*deck)), cards...), *deck...)
}

// sideName returns the display name used in status messages.
func sideName(s Side) string {
	if s == SidePlayer {
		return "You"
	}
	return "Opponent"
}
