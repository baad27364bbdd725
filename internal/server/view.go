package server

import (
	"github.com/MisterGoldie/wargame/engine"
)

// CardView is a card rendered for the presentation layer.
type CardView struct {
	Label    string `json:"label"`
	Rank     string `json:"rank"`
	Suit     string `json:"suit"`
	FaceDown bool   `json:"faceDown,omitempty"`
}

// GameView is the response shape the presentation layer consumes, one per
// outstanding move. The token carries the full state for the next move.
type GameView struct {
	GameID           string    `json:"gameId"`
	Status           string    `json:"status"`
	Message          string    `json:"message"`
	PlayerDeckSize   int       `json:"playerDeckSize"`
	OpponentDeckSize int       `json:"opponentDeckSize"`
	WarPileSize      int       `json:"warPileSize"`
	PlayerCard       *CardView `json:"playerCard,omitempty"`
	OpponentCard     *CardView `json:"opponentCard,omitempty"`
	WarInProgress    bool      `json:"warInProgress"`
	NukeAvailable    bool      `json:"nukeAvailable"`
	MoveCount        int       `json:"moveCount"`
	Winner           string    `json:"winner,omitempty"`
	DisplayName      string    `json:"displayName,omitempty"`
	AvatarURL        string    `json:"avatarUrl,omitempty"`
	Restarted        bool      `json:"restarted,omitempty"`
	RetryAfterMs     int64     `json:"retryAfterMs,omitempty"`
	Token            string    `json:"token"`
}

func cardView(c *engine.Card) *CardView {
	if c == nil {
		return nil
	}
	return &CardView{
		Label:    c.String(),
		Rank:     c.RankString(),
		Suit:     c.Suit.String(),
		FaceDown: c.FaceDown,
	}
}

// viewOf projects a game state plus its token into the render model.
func viewOf(g engine.GameState, token string) GameView {
	return GameView{
		GameID:           g.GameID.String(),
		Status:           string(g.Status),
		Message:          g.Message,
		PlayerDeckSize:   len(g.PlayerDeck),
		OpponentDeckSize: len(g.OpponentDeck),
		WarPileSize:      len(g.WarPile),
		PlayerCard:       cardView(g.PlayerCard),
		OpponentCard:     cardView(g.OpponentCard),
		WarInProgress:    g.WarInProgress,
		NukeAvailable:    g.PlayerNuke,
		MoveCount:        g.MoveCount,
		Winner:           string(g.Winner),
		DisplayName:      g.DisplayName,
		AvatarURL:        g.AvatarURL,
		Token:            token,
	}
}
