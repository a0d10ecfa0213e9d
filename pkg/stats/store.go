package stats

import "context"

// StoreProvider serves averages from the local cache only. Used when no
// upstream stats API is configured.
type StoreProvider struct {
	cache Cache
}

var _ Provider = (*StoreProvider)(nil)

func NewStoreProvider(cache Cache) *StoreProvider {
	return &StoreProvider{cache: cache}
}

// PlayerAverages implements Provider.
func (p *StoreProvider) PlayerAverages(ctx context.Context, playerID int64, season string) (*PlayerAverages, error) {
	avg, _, err := p.cache.GetPlayerAverages(ctx, playerID, season)
	if err != nil {
		return nil, err
	}
	if avg == nil {
		return nil, ErrPlayerNotFound
	}
	return avg, nil
}
