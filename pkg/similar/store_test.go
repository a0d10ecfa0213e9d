package similar

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hooplytics/traderadar/pkg/model"
)

type memSource struct {
	trades []model.HistoricalTrade
}

func (m *memSource) ListHistoricalTrades(ctx context.Context, season string) ([]model.HistoricalTrade, error) {
	return m.trades, nil
}

func TestStoreSearcher_RanksByCosine(t *testing.T) {
	query := Vector(0.5, 3.5, 1, 1, 0, 0.3)
	source := &memSource{trades: []model.HistoricalTrade{
		{ID: 1, Description: "exact match", Features: Vector(0.5, 3.5, 1, 1, 0, 0.3)},
		{ID: 2, Description: "close", Features: Vector(0.7, 3.0, 1, 1, 0, 0.1)},
		{ID: 3, Description: "very different", Features: Vector(9.0, 20.0, 3, 2, 4, -2.5)},
	}}

	s := NewStoreSearcher(source, 0)
	refs, err := s.Similar(context.Background(), &Query{Features: query, MaxResults: 10})
	require.NoError(t, err)
	require.Len(t, refs, 3)

	assert.Equal(t, int64(1), refs[0].ID)
	assert.InDelta(t, 1.0, refs[0].Similarity, 1e-9)
	assert.GreaterOrEqual(t, refs[0].Similarity, refs[1].Similarity)
	assert.GreaterOrEqual(t, refs[1].Similarity, refs[2].Similarity)
}

func TestStoreSearcher_MinScoreFilters(t *testing.T) {
	query := Vector(0.5, 3.5, 1, 1, 0, 0.3)
	source := &memSource{trades: []model.HistoricalTrade{
		{ID: 1, Features: Vector(0.5, 3.5, 1, 1, 0, 0.3)},
		{ID: 2, Features: Vector(-0.5, -3.5, 0, 0, 1, -0.3)},
	}}

	s := NewStoreSearcher(source, 0.9)
	refs, err := s.Similar(context.Background(), &Query{Features: query})
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, int64(1), refs[0].ID)
}

func TestStoreSearcher_MaxResults(t *testing.T) {
	query := Vector(1, 1, 1, 1, 1, 1)
	source := &memSource{trades: []model.HistoricalTrade{
		{ID: 1, Features: Vector(1, 1, 1, 1, 1, 1)},
		{ID: 2, Features: Vector(1, 1, 1, 1, 1, 0.9)},
		{ID: 3, Features: Vector(1, 1, 1, 1, 1, 0.8)},
	}}

	s := NewStoreSearcher(source, 0)
	refs, err := s.Similar(context.Background(), &Query{Features: query, MaxResults: 2})
	require.NoError(t, err)
	assert.Len(t, refs, 2)
}

func TestStoreSearcher_SkipsMismatchedVectors(t *testing.T) {
	source := &memSource{trades: []model.HistoricalTrade{
		{ID: 1, Features: []float64{1, 2}},
	}}

	s := NewStoreSearcher(source, 0)
	refs, err := s.Similar(context.Background(), &Query{Features: Vector(1, 1, 1, 1, 1, 1)})
	require.NoError(t, err)
	assert.Empty(t, refs)
}

func TestNoopSearcher_ReturnsNoContext(t *testing.T) {
	refs, err := NoopSearcher{}.Similar(context.Background(), &Query{Features: Vector(1, 1, 1, 1, 1, 1)})
	require.NoError(t, err)
	assert.Empty(t, refs)
}
