package engine

// Suit identifies one of the four card suits.
type Suit uint8

const (
	SuitHearts Suit = iota
	SuitDiamonds
	SuitClubs
	SuitSpades
)

var suitSymbols = [...]string{"♥", "♦", "♣", "♠"}

// String returns the suit's display symbol.
func (s Suit) String() string {
	if int(s) < len(suitSymbols) {
		return suitSymbols[s]
	}
	return "?"
}

// Rank constants. Aces rank high; the nuke card outranks everything.
const (
	RankTwo   uint8 = 2
	RankThree uint8 = 3
	RankFour  uint8 = 4
	RankFive  uint8 = 5
	RankSix   uint8 = 6
	RankSeven uint8 = 7
	RankEight uint8 = 8
	RankNine  uint8 = 9
	RankTen   uint8 = 10
	RankJack  uint8 = 11
	RankQueen uint8 = 12
	RankKing  uint8 = 13
	RankAce   uint8 = 14
	RankNuke  uint8 = 15
)

// Card is an immutable card value. FaceDown is set only while the card sits
// in the war pile; Nuke marks the one-per-side special card in 54-card games.
type Card struct {
	Rank     uint8 `json:"r"`
	Suit     Suit  `json:"s"`
	FaceDown bool  `json:"f,omitempty"`
	Nuke     bool  `json:"n,omitempty"`
}

// RankString returns the short display name of the card's rank.
func (c Card) RankString() string {
	switch c.Rank {
	case RankJack:
		return "J"
	case RankQueen:
		return "Q"
	case RankKing:
		return "K"
	case RankAce:
		return "A"
	case RankNuke:
		return "N"
	default:
		if c.Rank >= RankTwo && c.Rank <= RankTen {
			return [...]string{"2", "3", "4", "5", "6", "7", "8", "9", "10"}[c.Rank-RankTwo]
		}
		return "?"
	}
}

// String renders the card as rank+suit, e.g. "A♠".
func (c Card) String() string {
	if c.Nuke {
		return "N" + c.Suit.String()
	}
	return c.RankString() + c.Suit.String()
}

// Status is the lifecycle state of a game.
type Status string

const (
	StatusInitial Status = "initial"
	StatusPlaying Status = "playing"
	StatusWar     Status = "war"
	StatusEnded   Status = "ended"
)

// Side identifies one of the two seats, or neither.
type Side string

const (
	SideNone     Side = ""
	SidePlayer   Side = "player"
	SideOpponent Side = "opponent"
)

// Opponent returns the other seat.
func (s Side) Opponent() Side {
	switch s {
	case SidePlayer:
		return SideOpponent
	case SideOpponent:
		return SidePlayer
	}
	return SideNone
}

// Move is a player intent submitted with a turn.
type Move string

const (
	MoveDraw Move = "draw"
	MoveNuke Move = "nuke"
)
