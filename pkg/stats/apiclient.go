package stats

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/hooplytics/traderadar/pkg/logger"
)

// APIClient fetches player game logs from a stats HTTP API and averages
// them into per-game numbers. Results are cached when a Cache is attached.
type APIClient struct {
	http    *resty.Client
	limiter *rate.Limiter
	cache   Cache
	ttl     time.Duration
}

var _ Provider = (*APIClient)(nil)

// NewAPIClient creates a client for the given base URL. rpm bounds the
// upstream request rate; cache may be nil.
func NewAPIClient(baseURL string, timeout time.Duration, rpm int, cache Cache, ttl time.Duration) *APIClient {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	if rpm <= 0 {
		rpm = 60
	}
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &APIClient{
		http:    httpClient,
		limiter: rate.NewLimiter(rate.Limit(float64(rpm)/60.0), 1),
		cache:   cache,
		ttl:     ttl,
	}
}

// gameLogResponse is the upstream game-log payload.
type gameLogResponse struct {
	Player struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"player"`
	Games []gameLine `json:"games"`
}

type gameLine struct {
	Points    float64 `json:"pts"`
	Rebounds  float64 `json:"reb"`
	Assists   float64 `json:"ast"`
	Steals    float64 `json:"stl"`
	Blocks    float64 `json:"blk"`
	Turnovers float64 `json:"tov"`
}

// PlayerAverages implements Provider.
func (c *APIClient) PlayerAverages(ctx context.Context, playerID int64, season string) (*PlayerAverages, error) {
	if c.cache != nil {
		avg, fetchedAt, err := c.cache.GetPlayerAverages(ctx, playerID, season)
		if err == nil && avg != nil && time.Since(fetchedAt) < c.ttl {
			return avg, nil
		}
		if err != nil && !errors.Is(err, ErrPlayerNotFound) {
			logger.Log.Warnf("stats cache lookup failed for player %d: %v", playerID, err)
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var payload gameLogResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", fmt.Sprintf("%d", playerID)).
		SetQueryParam("season", season).
		SetResult(&payload).
		Get("/players/{id}/gamelog")
	if err != nil {
		return nil, fmt.Errorf("fetch game log for player %d: %w", playerID, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, ErrPlayerNotFound
	}
	if resp.IsError() {
		return nil, fmt.Errorf("stats api error for player %d (status %d): %s",
			playerID, resp.StatusCode(), resp.String())
	}
	if len(payload.Games) == 0 {
		return nil, ErrPlayerNotFound
	}

	avg := averageGames(playerID, payload.Player.Name, payload.Games)

	if c.cache != nil {
		if err := c.cache.PutPlayerAverages(ctx, season, avg); err != nil {
			logger.Log.Warnf("stats cache write failed for player %d: %v", playerID, err)
		}
	}
	return avg, nil
}

func averageGames(playerID int64, name string, games []gameLine) *PlayerAverages {
	sums := map[string]float64{}
	for _, g := range games {
		sums[StatPoints] += g.Points
		sums[StatRebounds] += g.Rebounds
		sums[StatAssists] += g.Assists
		sums[StatSteals] += g.Steals
		sums[StatBlocks] += g.Blocks
		sums[StatTurnovers] += g.Turnovers
	}

	n := float64(len(games))
	perGame := make(map[string]float64, len(sums))
	for stat, sum := range sums {
		perGame[stat] = sum / n
	}

	return &PlayerAverages{
		PlayerID:    playerID,
		Name:        name,
		GamesPlayed: len(games),
		PerGame:     perGame,
	}
}
