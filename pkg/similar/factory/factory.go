package factory

import (
	"fmt"

	"github.com/hooplytics/traderadar/pkg/config"
	"github.com/hooplytics/traderadar/pkg/similar"
)

// NewSearcher builds the similarity provider named by the configuration.
func NewSearcher(cfg *config.Config, source similar.TradeSource) (similar.Searcher, error) {
	provider := cfg.Similar.Provider
	if provider == "" {
		if source != nil {
			provider = "store"
		} else {
			provider = "none"
		}
	}

	switch provider {
	case "store":
		if source == nil {
			return nil, fmt.Errorf("store similarity provider requires a database")
		}
		return similar.NewStoreSearcher(source, cfg.Similar.MinScore), nil

	case "none":
		return similar.NoopSearcher{}, nil

	default:
		return nil, fmt.Errorf("unknown similarity provider: %s", provider)
	}
}
