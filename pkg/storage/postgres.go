// Package storage is the engine's Postgres layer: cached player averages,
// the historical trade corpus, and persisted evaluations.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/hooplytics/traderadar/pkg/config"
	"github.com/hooplytics/traderadar/pkg/model"
	"github.com/hooplytics/traderadar/pkg/stats"
)

type Storage struct {
	db *sql.DB
}

func NewStorage(cfg config.DBConfig) (*Storage, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Storage{db: db}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS player_averages (
			player_id BIGINT NOT NULL,
			season TEXT NOT NULL,
			name TEXT,
			games_played INTEGER NOT NULL,
			per_game JSONB NOT NULL,
			fetched_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (player_id, season)
		)`,
		`CREATE TABLE IF NOT EXISTS historical_trades (
			id SERIAL PRIMARY KEY,
			season TEXT,
			description TEXT NOT NULL,
			win_impact DOUBLE PRECISION NOT NULL,
			features JSONB NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS evaluations (
			id SERIAL PRIMARY KEY,
			proposal JSONB NOT NULL,
			fairness_label TEXT NOT NULL,
			fairness_score DOUBLE PRECISION NOT NULL,
			verdict TEXT,
			win_impact DOUBLE PRECISION NOT NULL,
			similar_trades JSONB,
			analysis TEXT,
			suggestions JSONB,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return err
		}
	}
	return nil
}

// GetPlayerAverages implements stats.Cache.
func (s *Storage) GetPlayerAverages(ctx context.Context, playerID int64, season string) (*stats.PlayerAverages, time.Time, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT name, games_played, per_game, fetched_at
		 FROM player_averages WHERE player_id = $1 AND season = $2`,
		playerID, season)

	var (
		name      string
		games     int
		perGameJS []byte
		fetchedAt time.Time
	)
	if err := row.Scan(&name, &games, &perGameJS, &fetchedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, time.Time{}, stats.ErrPlayerNotFound
		}
		return nil, time.Time{}, err
	}

	perGame := map[string]float64{}
	if err := json.Unmarshal(perGameJS, &perGame); err != nil {
		return nil, time.Time{}, fmt.Errorf("decode per_game for player %d: %w", playerID, err)
	}

	return &stats.PlayerAverages{
		PlayerID:    playerID,
		Name:        name,
		GamesPlayed: games,
		PerGame:     perGame,
	}, fetchedAt, nil
}

// PutPlayerAverages implements stats.Cache.
func (s *Storage) PutPlayerAverages(ctx context.Context, season string, avg *stats.PlayerAverages) error {
	perGameJS, err := json.Marshal(avg.PerGame)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO player_averages (player_id, season, name, games_played, per_game, fetched_at)
		 VALUES ($1, $2, $3, $4, $5, CURRENT_TIMESTAMP)
		 ON CONFLICT (player_id, season) DO UPDATE SET
			name = EXCLUDED.name,
			games_played = EXCLUDED.games_played,
			per_game = EXCLUDED.per_game,
			fetched_at = EXCLUDED.fetched_at`,
		avg.PlayerID, season, avg.Name, avg.GamesPlayed, perGameJS)
	return err
}

// ListHistoricalTrades implements similar.TradeSource. An empty season
// returns the whole corpus.
func (s *Storage) ListHistoricalTrades(ctx context.Context, season string) ([]model.HistoricalTrade, error) {
	query := `SELECT id, season, description, win_impact, features FROM historical_trades`
	args := []any{}
	if season != "" {
		query += ` WHERE season = $1`
		args = append(args, season)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trades []model.HistoricalTrade
	for rows.Next() {
		var (
			t          model.HistoricalTrade
			featuresJS []byte
		)
		if err := rows.Scan(&t.ID, &t.Season, &t.Description, &t.WinImpact, &featuresJS); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(featuresJS, &t.Features); err != nil {
			return nil, fmt.Errorf("decode features for trade %d: %w", t.ID, err)
		}
		trades = append(trades, t)
	}
	return trades, rows.Err()
}

// InsertHistoricalTrade adds a trade to the similarity corpus.
func (s *Storage) InsertHistoricalTrade(ctx context.Context, t *model.HistoricalTrade) (int64, error) {
	featuresJS, err := json.Marshal(t.Features)
	if err != nil {
		return 0, err
	}

	var id int64
	err = s.db.QueryRowContext(ctx,
		`INSERT INTO historical_trades (season, description, win_impact, features)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		t.Season, t.Description, t.WinImpact, featuresJS).Scan(&id)
	return id, err
}

// SaveEvaluation persists one evaluated proposal and returns its id.
func (s *Storage) SaveEvaluation(ctx context.Context, ev *model.Evaluation) (int64, error) {
	proposalJS, err := json.Marshal(ev.Proposal)
	if err != nil {
		return 0, err
	}
	similarJS, err := json.Marshal(ev.Result.SimilarTrades)
	if err != nil {
		return 0, err
	}

	var (
		analysis      sql.NullString
		suggestionsJS []byte
	)
	if ev.Advisory != nil {
		analysis = sql.NullString{String: ev.Advisory.AnalysisText, Valid: true}
		if suggestionsJS, err = json.Marshal(ev.Advisory.Suggestions); err != nil {
			return 0, err
		}
	}

	var id int64
	err = s.db.QueryRowContext(ctx,
		`INSERT INTO evaluations
			(proposal, fairness_label, fairness_score, verdict, win_impact, similar_trades, analysis, suggestions)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		proposalJS, string(ev.Result.FairnessLabel), ev.Result.FairnessScore, ev.Result.Verdict,
		ev.Result.WinImpact, similarJS, analysis, suggestionsJS).Scan(&id)
	return id, err
}
