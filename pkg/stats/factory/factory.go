package factory

import (
	"fmt"
	"time"

	"github.com/hooplytics/traderadar/pkg/config"
	"github.com/hooplytics/traderadar/pkg/stats"
)

// NewProvider builds the stats provider named by the configuration.
func NewProvider(cfg *config.Config, cache stats.Cache) (stats.Provider, error) {
	provider := cfg.Stats.Provider
	if provider == "" {
		// Fall back to the API client when a base URL is present.
		if cfg.Stats.API.BaseURL != "" {
			provider = "api"
		} else {
			provider = "store"
		}
	}

	switch provider {
	case "api":
		if cfg.Stats.API.BaseURL == "" {
			return nil, fmt.Errorf("stats api base url is missing")
		}
		ttl := time.Duration(cfg.Stats.CacheTTLDays) * 24 * time.Hour
		timeout := time.Duration(cfg.Stats.API.Timeout) * time.Second
		return stats.NewAPIClient(cfg.Stats.API.BaseURL, timeout, cfg.Stats.API.RPM, cache, ttl), nil

	case "store":
		if cache == nil {
			return nil, fmt.Errorf("store stats provider requires a database")
		}
		return stats.NewStoreProvider(cache), nil

	default:
		return nil, fmt.Errorf("unknown stats provider: %s", provider)
	}
}
