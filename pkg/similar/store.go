package similar

import (
	"context"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/hooplytics/traderadar/pkg/model"
)

// TradeSource lists the historical trades to match against.
type TradeSource interface {
	ListHistoricalTrades(ctx context.Context, season string) ([]model.HistoricalTrade, error)
}

// StoreSearcher ranks stored trades by cosine similarity to the query
// feature vector.
type StoreSearcher struct {
	source   TradeSource
	minScore float64
}

var _ Searcher = (*StoreSearcher)(nil)

func NewStoreSearcher(source TradeSource, minScore float64) *StoreSearcher {
	return &StoreSearcher{source: source, minScore: minScore}
}

// Similar implements Searcher.
func (s *StoreSearcher) Similar(ctx context.Context, q *Query) ([]model.TradeRef, error) {
	if len(q.Features) == 0 {
		return nil, fmt.Errorf("query has no features")
	}

	trades, err := s.source.ListHistoricalTrades(ctx, q.Season)
	if err != nil {
		return nil, fmt.Errorf("list historical trades: %w", err)
	}

	refs := make([]model.TradeRef, 0, len(trades))
	for _, t := range trades {
		if len(t.Features) != len(q.Features) {
			continue
		}
		score := cosine(q.Features, t.Features)
		if score < s.minScore {
			continue
		}
		refs = append(refs, model.TradeRef{
			ID:          t.ID,
			Season:      t.Season,
			Description: t.Description,
			WinImpact:   t.WinImpact,
			Similarity:  score,
		})
	}

	sort.SliceStable(refs, func(i, j int) bool {
		return refs[i].Similarity > refs[j].Similarity
	})

	max := q.MaxResults
	if max > 0 && len(refs) > max {
		refs = refs[:max]
	}
	return refs, nil
}

func cosine(a, b []float64) float64 {
	na := floats.Norm(a, 2)
	nb := floats.Norm(b, 2)
	if na == 0 || nb == 0 {
		return 0
	}
	return floats.Dot(a, b) / (na * nb)
}

// NoopSearcher always returns no context. Selected when similarity search
// is disabled; downstream treats the empty list as "no context available".
type NoopSearcher struct{}

var _ Searcher = (*NoopSearcher)(nil)

func (NoopSearcher) Similar(ctx context.Context, q *Query) ([]model.TradeRef, error) {
	return nil, nil
}
