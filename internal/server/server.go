// Package server exposes the turn-resolution engine over a stateless
// request/response HTTP surface. Every move carries the entire prior game
// state as an encoded token; the server holds no game state between calls.
//
// Concurrent moves against the same token are a caller violation of the
// single-writer discipline: the server applies whichever arrives and the
// caller keeps one of the resulting tokens, losing the other move.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/MisterGoldie/wargame/engine"
	"github.com/MisterGoldie/wargame/internal/cache"
	"github.com/MisterGoldie/wargame/internal/codec"
)

// Stats receives each terminal outcome exactly once per game.
type Stats interface {
	RecordResult(ctx context.Context, playerID string, won bool) error
	Record(ctx context.Context, playerID string) (wins, losses int, err error)
}

// HistoryPublisher receives one record per accepted move.
type HistoryPublisher interface {
	Publish(ctx context.Context, rec cache.MoveRecord) error
}

// ProfileLookup resolves a player ID to pass-through display fields.
type ProfileLookup interface {
	Lookup(ctx context.Context, playerID string) cache.ProfileEntry
}

// Server routes game requests. The collaborator fields are optional; a nil
// collaborator disables that concern without affecting play.
type Server struct {
	Stats    Stats
	History  HistoryPublisher
	Profiles ProfileLookup

	log   *logrus.Logger
	rules engine.Rules
	now   func() time.Time
}

// New builds a server resolving moves under the given rule set.
func New(log *logrus.Logger, rules engine.Rules) *Server {
	return &Server{log: log, rules: rules, now: time.Now}
}

// Routes returns the HTTP mux.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/game", s.handleNewGame)
	mux.HandleFunc("POST /api/move", s.handleMove)
	mux.HandleFunc("GET /api/stats/{player}", s.handleStats)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return mux
}

type newGameRequest struct {
	PlayerID string `json:"playerId"`
}

type moveRequest struct {
	Token    string `json:"token"`
	Intent   string `json:"intent"`
	PlayerID string `json:"playerId"`
}

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameRequest
	if r.Body != nil {
		// An empty body is fine; the player ID only feeds profile lookup.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	g := engine.NewGame(s.rules)
	s.attachProfile(r.Context(), &g, req.PlayerID)

	token, err := codec.Encode(g)
	if err != nil {
		s.log.WithError(err).Error("encode fresh game")
		writeError(w, http.StatusInternalServerError, "failed to start game")
		return
	}

	s.log.WithFields(logrus.Fields{
		"game_id":   g.GameID,
		"player_id": req.PlayerID,
		"total":     g.TotalCards,
	}).Info("new game")
	s.publishHistory(g, "new", req.PlayerID)

	writeJSON(w, http.StatusOK, viewOf(g, token))
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	state, err := codec.Decode(req.Token)
	if err != nil {
		// Undecodable state is never repaired: restart with a fresh game.
		s.log.WithError(err).WithField("player_id", req.PlayerID).Warn("bad state token, restarting game")
		s.respondFresh(w, r, req.PlayerID)
		return
	}

	// Surface conservation violations even when lenient rules let the move
	// proceed; a violation means that game is corrupt beyond repair.
	if verr := state.VerifyCardCount(); verr != nil {
		s.logInvariant(state, verr)
	}

	now := s.now()
	next, err := engine.Resolve(state, engine.Move(req.Intent), now)
	switch {
	case errors.Is(err, engine.ErrCooldownActive):
		view := viewOf(state, req.Token)
		view.RetryAfterMs = engine.CooldownRemaining(state.LastMoveAt, now, state.Rules.CooldownPeriod).Milliseconds()
		writeJSON(w, http.StatusTooManyRequests, view)
		return
	case errors.Is(err, engine.ErrInvalidMove):
		view := viewOf(state, req.Token)
		view.Message = err.Error()
		writeJSON(w, http.StatusConflict, view)
		return
	case err != nil:
		var viol *engine.InvariantViolationError
		if errors.As(err, &viol) {
			s.logInvariant(state, err)
			writeError(w, http.StatusInternalServerError, "game state is corrupt; start a new game")
			return
		}
		s.log.WithError(err).WithField("game_id", state.GameID).Error("resolve move")
		writeError(w, http.StatusInternalServerError, "failed to resolve move")
		return
	}

	if verr := next.VerifyCardCount(); verr != nil {
		s.logInvariant(next, verr)
	}

	s.attachProfile(r.Context(), &next, req.PlayerID)

	token, err := codec.Encode(next)
	if err != nil {
		s.log.WithError(err).WithField("game_id", next.GameID).Error("encode next state")
		writeError(w, http.StatusInternalServerError, "failed to encode game state")
		return
	}

	s.log.WithFields(logrus.Fields{
		"game_id": next.GameID,
		"move":    next.MoveCount,
		"intent":  req.Intent,
		"status":  next.Status,
	}).Info("move resolved")
	s.publishHistory(next, req.Intent, req.PlayerID)

	// JustEnded is only ever true on the freshly resolved state, never on a
	// decoded token, so the terminal outcome is recorded exactly once.
	if next.JustEnded {
		s.fireGameEnd(r.Context(), next, req.PlayerID)
	}

	writeJSON(w, http.StatusOK, viewOf(next, token))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.Stats == nil {
		writeError(w, http.StatusServiceUnavailable, "stats are not configured")
		return
	}
	playerID := r.PathValue("player")
	wins, losses, err := s.Stats.Record(r.Context(), playerID)
	if err != nil {
		s.log.WithError(err).WithField("player_id", playerID).Error("read stats")
		writeError(w, http.StatusInternalServerError, "failed to read stats")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"playerId": playerID,
		"wins":     wins,
		"losses":   losses,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// respondFresh answers a move whose token was unusable with a brand new game.
func (s *Server) respondFresh(w http.ResponseWriter, r *http.Request, playerID string) {
	g := engine.NewGame(s.rules)
	s.attachProfile(r.Context(), &g, playerID)
	token, err := codec.Encode(g)
	if err != nil {
		s.log.WithError(err).Error("encode fresh game")
		writeError(w, http.StatusInternalServerError, "failed to start game")
		return
	}
	view := viewOf(g, token)
	view.Restarted = true
	writeJSON(w, http.StatusOK, view)
}

// attachProfile fills the pass-through identity fields if they are empty and
// a lookup is possible.
func (s *Server) attachProfile(ctx context.Context, g *engine.GameState, playerID string) {
	if s.Profiles == nil || playerID == "" || g.DisplayName != "" {
		return
	}
	entry := s.Profiles.Lookup(ctx, playerID)
	g.DisplayName = entry.DisplayName
	g.AvatarURL = entry.AvatarURL
}

// fireGameEnd reports the terminal outcome to the stats collaborator.
func (s *Server) fireGameEnd(ctx context.Context, g engine.GameState, playerID string) {
	won := g.Winner == engine.SidePlayer
	s.log.WithFields(logrus.Fields{
		"game_id":   g.GameID,
		"player_id": playerID,
		"winner":    g.Winner,
		"moves":     g.MoveCount,
	}).Info("game ended")

	if s.Stats == nil || playerID == "" {
		return
	}
	if err := s.Stats.RecordResult(ctx, playerID, won); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"game_id":   g.GameID,
			"player_id": playerID,
		}).Error("record game result")
	}
}

// publishHistory hands the move to the historian asynchronously, the same
// fire-and-forget shape as the rest of the observability path.
func (s *Server) publishHistory(g engine.GameState, intent, playerID string) {
	if s.History == nil {
		return
	}
	rec := cache.MoveRecord{
		GameID:    g.GameID,
		PlayerID:  playerID,
		MoveCount: g.MoveCount,
		Intent:    intent,
		Status:    string(g.Status),
		Winner:    string(g.Winner),
		Message:   g.Message,
		Timestamp: s.now().UnixMilli(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.History.Publish(ctx, rec); err != nil {
			s.log.WithError(err).WithField("game_id", rec.GameID).Warn("publish move history")
		}
	}()
}

// logInvariant emits the structured conservation diagnostic.
func (s *Server) logInvariant(g engine.GameState, err error) {
	report := g.CountCards()
	s.log.WithFields(logrus.Fields{
		"game_id":       g.GameID,
		"player_deck":   report.PlayerDeck,
		"opponent_deck": report.OpponentDeck,
		"war_pile":      report.WarPile,
		"in_play":       report.InPlay,
		"expected":      report.Expected,
	}).WithError(err).Error("card conservation violated")
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
