// Package codec serializes game state to a compact transportable token.
//
// The token is base64url-encoded JSON with single-letter field tags. It is
// deliberately unsigned: the caller round-trips it through an untrusted
// channel and the engine trusts the decoded state as-is. Tokens must
// round-trip losslessly for every reachable state; the minimal projection
// drops cosmetic fields only.
package codec

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MisterGoldie/wargame/engine"
	"github.com/google/uuid"
)

// ErrDecode rejects a malformed or truncated token. Callers fall back to a
// fresh game; the engine never attempts to repair a bad token.
var ErrDecode = errors.New("state decode failed")

// Encode serializes the full game state to a token.
func Encode(g engine.GameState) (string, error) {
	raw, err := json.Marshal(g)
	if err != nil {
		return "", fmt.Errorf("encode state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// EncodeMinimal serializes a reduced projection for size-constrained
// channels: display strings are dropped, everything required to resume play
// (decks, in-play cards, war pile, flags, counters, timestamp, rules) stays.
func EncodeMinimal(g engine.GameState) (string, error) {
	g.Message = ""
	g.DisplayName = ""
	g.AvatarURL = ""
	return Encode(g)
}

// Decode parses a token back into a game state. Any malformed input fails
// with ErrDecode.
func Decode(token string) (engine.GameState, error) {
	var g engine.GameState
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return g, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if err := json.Unmarshal(raw, &g); err != nil {
		return g, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if err := validate(&g); err != nil {
		return engine.GameState{}, err
	}
	return g, nil
}

// validate rejects tokens that parsed but cannot describe a playable state.
// Deeper consistency (card conservation) is the invariant checker's job.
func validate(g *engine.GameState) error {
	if g.GameID == uuid.Nil {
		return fmt.Errorf("%w: missing game id", ErrDecode)
	}
	if g.TotalCards <= 0 {
		return fmt.Errorf("%w: missing card total", ErrDecode)
	}
	switch g.Status {
	case engine.StatusInitial, engine.StatusPlaying, engine.StatusWar, engine.StatusEnded:
	default:
		return fmt.Errorf("%w: unknown status %q", ErrDecode, g.Status)
	}
	return nil
}
