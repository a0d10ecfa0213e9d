package server

import (
	"context"
	"fmt"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/hooplytics/traderadar/internal/conf"
	"github.com/hooplytics/traderadar/pkg/config"
	"github.com/hooplytics/traderadar/pkg/engine"
	englogger "github.com/hooplytics/traderadar/pkg/logger"
	"github.com/hooplytics/traderadar/pkg/storage"
)

// NewEvaluationEngine builds the evaluation engine from the server
// bootstrap configuration.
func NewEvaluationEngine(c *conf.Engine, logger log.Logger) (*engine.Engine, func(), error) {
	helper := log.NewHelper(logger)
	if c == nil {
		return nil, nil, fmt.Errorf("engine configuration missing from bootstrap")
	}

	cfg := engineConfig(c)
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	if err := englogger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		helper.Errorf("failed to init engine logger: %v", err)
		_ = englogger.InitLogger("info", "")
	}

	store, err := storage.NewStorage(cfg.DB)
	if err != nil {
		helper.Errorf("failed to init engine storage: %v", err)
		return nil, nil, err
	}

	eng, err := engine.NewEngine(context.Background(), cfg, store)
	if err != nil {
		store.Close()
		helper.Errorf("failed to init engine: %v", err)
		return nil, nil, err
	}

	cleanup := func() {
		helper.Info("closing evaluation engine storage")
		store.Close()
	}
	return eng, cleanup, nil
}

// engineConfig converts conf.Engine into pkg/config.Config, applying the
// same defaults the standalone loader does.
func engineConfig(c *conf.Engine) *config.Config {
	cfg := &config.Config{}

	if c.Llm != nil {
		cfg.LLM = config.LLMConfig{
			BaseURL: c.Llm.BaseUrl,
			APIKey:  c.Llm.ApiKey,
			Model:   c.Llm.Model,
		}
	}
	if c.Stats != nil {
		cfg.Stats = config.StatsConfig{
			Provider:     c.Stats.Provider,
			Season:       c.Stats.Season,
			CacheTTLDays: int(c.Stats.CacheTtlDays),
		}
		if c.Stats.Api != nil {
			cfg.Stats.API = config.StatsAPIConfig{
				BaseURL: c.Stats.Api.BaseUrl,
				Timeout: int(c.Stats.Api.Timeout),
				RPM:     int(c.Stats.Api.Rpm),
			}
		}
	}
	if c.Similar != nil {
		cfg.Similar = config.SimilarConfig{
			Provider:   c.Similar.Provider,
			MaxResults: int(c.Similar.MaxResults),
			MinScore:   c.Similar.MinScore,
		}
	}
	if c.Scoring != nil {
		cfg.Scoring = config.ScoringConfig{
			ImpactWeights:       c.Scoring.ImpactWeights,
			FairThreshold:       c.Scoring.FairThreshold,
			UnbalancedThreshold: c.Scoring.UnbalancedThreshold,
			MinGamesPlayed:      int(c.Scoring.MinGamesPlayed),
			DraftRoundValues:    c.Scoring.DraftRoundValues,
		}
	}
	if c.Log != nil {
		cfg.Log = config.LogConfig{Level: c.Log.Level, File: c.Log.File}
	}
	if c.Concurrency != nil {
		cfg.Concurrency = config.ConcurrencyConfig{
			QPS: int(c.Concurrency.Qps),
			RPM: int(c.Concurrency.Rpm),
		}
	}
	if c.Db != nil {
		cfg.DB = config.DBConfig{
			Host:     c.Db.Host,
			Port:     int(c.Db.Port),
			User:     c.Db.User,
			Password: c.Db.Password,
			Name:     c.Db.Name,
		}
	}

	cfg.ApplyDefaults()
	return cfg
}
