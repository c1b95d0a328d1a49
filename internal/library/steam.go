package library

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const defaultSteamAPIBase = "https://api.steampowered.com"

// SteamClient reads a player's library from the Steam Web API.
type SteamClient struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// NewSteamClient constructs a Steam Web API client.
func NewSteamClient(apiKey string, timeout time.Duration) (*SteamClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("steam api key required")
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &SteamClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: defaultSteamAPIBase,
		apiKey:  apiKey,
	}, nil
}

// OwnedGame is one entry of a player's Steam library.
type OwnedGame struct {
	AppID           int64  `json:"appid"`
	Name            string `json:"name"`
	PlaytimeForever int    `json:"playtime_forever"`
}

type steamResponse struct {
	Response struct {
		Games []OwnedGame `json:"games"`
	} `json:"response"`
}

// OwnedGames fetches the player's full library with app metadata.
func (c *SteamClient) OwnedGames(ctx context.Context, steamID string) ([]OwnedGame, error) {
	return c.fetch(ctx, "/IPlayerService/GetOwnedGames/v1/", steamID, url.Values{"include_appinfo": {"1"}})
}

// RecentlyPlayed fetches the games played in the last two weeks, including
// lifetime playtime in minutes.
func (c *SteamClient) RecentlyPlayed(ctx context.Context, steamID string) ([]OwnedGame, error) {
	return c.fetch(ctx, "/IPlayerService/GetRecentlyPlayedGames/v1/", steamID, nil)
}

func (c *SteamClient) fetch(ctx context.Context, path, steamID string, extra url.Values) ([]OwnedGame, error) {
	if steamID == "" {
		return nil, fmt.Errorf("steam id required")
	}

	query := url.Values{
		"key":     {c.apiKey},
		"steamid": {steamID},
	}
	for k, vs := range extra {
		for _, v := range vs {
			query.Add(k, v)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build steam request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch steam library: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("steam api responded %d", resp.StatusCode)
	}

	var payload steamResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode steam response: %w", err)
	}
	return payload.Response.Games, nil
}

// StoreURL returns the Steam store page for an app.
func StoreURL(appID int64) string {
	return fmt.Sprintf("https://store.steampowered.com/app/%d", appID)
}
