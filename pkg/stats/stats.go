package stats

import (
	"context"
	"errors"
	"time"
)

// ErrPlayerNotFound is returned when a provider has no record of a player.
var ErrPlayerNotFound = errors.New("player not found")

// Stat keys used by the impact weights.
const (
	StatPoints    = "PTS"
	StatRebounds  = "REB"
	StatAssists   = "AST"
	StatSteals    = "STL"
	StatBlocks    = "BLK"
	StatTurnovers = "TOV"
)

// PlayerAverages holds a player's per-game season averages.
type PlayerAverages struct {
	PlayerID    int64
	Name        string
	GamesPlayed int
	PerGame     map[string]float64
}

// Provider resolves season averages for a player.
type Provider interface {
	PlayerAverages(ctx context.Context, playerID int64, season string) (*PlayerAverages, error)
}

// Cache persists fetched averages so the upstream API is not hit per request.
type Cache interface {
	GetPlayerAverages(ctx context.Context, playerID int64, season string) (*PlayerAverages, time.Time, error)
	PutPlayerAverages(ctx context.Context, season string, avg *PlayerAverages) error
}
