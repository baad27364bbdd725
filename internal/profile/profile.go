// Package profile fetches display names and avatars from the external
// identity service. Results pass through into game state opaquely; the
// engine never interprets them. Lookups are best-effort; a game renders
// fine without a profile.
package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/MisterGoldie/wargame/internal/cache"
)

// Client resolves player IDs to profiles via the identity API, consulting
// the injected cache first.
type Client struct {
	baseURL string
	http    *http.Client
	cache   *cache.ProfileCache
	log     *logrus.Logger
}

// New builds a profile client. baseURL may be empty, in which case every
// lookup is a silent miss.
func New(baseURL string, pc *cache.ProfileCache, log *logrus.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 3 * time.Second},
		cache:   pc,
		log:     log,
	}
}

type profileResponse struct {
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl"`
}

// Lookup returns the player's display name and avatar URL, or zero values
// when unknown. Failures are counted against the cache's attempt budget so a
// flaky upstream is not hammered once per render.
func (c *Client) Lookup(ctx context.Context, playerID string) cache.ProfileEntry {
	if playerID == "" {
		return cache.ProfileEntry{}
	}
	if entry, ok := c.cache.Get(playerID); ok {
		return entry
	}
	if c.baseURL == "" || !c.cache.ShouldAttempt(playerID) {
		return cache.ProfileEntry{}
	}

	entry, err := c.fetch(ctx, playerID)
	if err != nil {
		c.cache.RecordMiss(playerID)
		c.log.WithError(err).WithField("player_id", playerID).Warn("profile lookup failed")
		return cache.ProfileEntry{}
	}
	c.cache.Put(playerID, entry)
	return entry
}

func (c *Client) fetch(ctx context.Context, playerID string) (cache.ProfileEntry, error) {
	url := fmt.Sprintf("%s/users/%s", c.baseURL, playerID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return cache.ProfileEntry{}, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return cache.ProfileEntry{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return cache.ProfileEntry{}, fmt.Errorf("identity service returned %d", resp.StatusCode)
	}

	var body profileResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return cache.ProfileEntry{}, err
	}
	return cache.ProfileEntry{DisplayName: body.DisplayName, AvatarURL: body.AvatarURL}, nil
}
