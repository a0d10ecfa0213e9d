package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hooplytics/traderadar/pkg/config"
	dm "github.com/hooplytics/traderadar/pkg/model"
	"github.com/hooplytics/traderadar/pkg/similar"
	"github.com/hooplytics/traderadar/pkg/stats"
)

type fakeStats struct {
	averages map[int64]*stats.PlayerAverages
}

func (f *fakeStats) PlayerAverages(ctx context.Context, playerID int64, season string) (*stats.PlayerAverages, error) {
	avg, ok := f.averages[playerID]
	if !ok {
		return nil, stats.ErrPlayerNotFound
	}
	return avg, nil
}

type fakeSearcher struct {
	refs []dm.TradeRef
	err  error
}

func (f *fakeSearcher) Similar(ctx context.Context, q *similar.Query) ([]dm.TradeRef, error) {
	return f.refs, f.err
}

type fakeAdviser struct {
	out *dm.AdvisoryOutput
	err error
}

func (f *fakeAdviser) Advise(ctx context.Context, p *dm.TradeProposal, res *dm.EvaluationResult) (*dm.AdvisoryOutput, error) {
	return f.out, f.err
}

type fakeStore struct {
	saved []*dm.Evaluation
}

func (f *fakeStore) SaveEvaluation(ctx context.Context, ev *dm.Evaluation) (int64, error) {
	f.saved = append(f.saved, ev)
	return int64(len(f.saved)), nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.ApplyDefaults()
	cfg.Stats.Season = "2023-24"
	return cfg
}

func playerAvg(id int64, name string, games int, pts float64) *stats.PlayerAverages {
	return &stats.PlayerAverages{
		PlayerID:    id,
		Name:        name,
		GamesPlayed: games,
		PerGame:     map[string]float64{stats.StatPoints: pts},
	}
}

func testEngine(provider stats.Provider, searcher similar.Searcher, adviser *fakeAdviser, store *fakeStore) *Engine {
	var es EvaluationStore
	if store != nil {
		es = store
	}
	return New(testConfig(), es, provider, searcher, adviser)
}

func TestEvaluate_FullPipeline(t *testing.T) {
	provider := &fakeStats{averages: map[int64]*stats.PlayerAverages{
		1: playerAvg(1, "Player X", 50, 25),
		2: playerAvg(2, "Player Y", 50, 24),
	}}
	searcher := &fakeSearcher{refs: []dm.TradeRef{{ID: 9, Description: "old swap", Similarity: 0.8}}}
	adviser := &fakeAdviser{out: &dm.AdvisoryOutput{AnalysisText: "close to even", Suggestions: []string{"add a second-rounder"}}}
	store := &fakeStore{}

	eng := testEngine(provider, searcher, adviser, store)
	ev, err := eng.Evaluate(context.Background(), twoSidedProposal())
	require.NoError(t, err)

	assert.Equal(t, dm.FairnessFair, ev.Result.FairnessLabel)
	assert.Len(t, ev.Result.SimilarTrades, 1)
	require.NotNil(t, ev.Advisory)
	assert.Equal(t, "close to even", ev.Advisory.AnalysisText)
	assert.Equal(t, int64(1), ev.ID)
	require.Len(t, store.saved, 1)
}

func TestEvaluate_InvalidProposal(t *testing.T) {
	eng := testEngine(&fakeStats{}, &fakeSearcher{}, &fakeAdviser{}, nil)

	p := &dm.TradeProposal{
		Sides: []dm.TradeSide{
			{Team: "BOS", PlayersGiven: []dm.Player{{ID: 1}}},
			{Team: "LAL", PlayersGiven: []dm.Player{{ID: 1}}},
		},
	}
	_, err := eng.Evaluate(context.Background(), p)

	var invalid *dm.InvalidProposalError
	assert.ErrorAs(t, err, &invalid)
}

func TestEvaluate_UnknownPlayerIsIncomplete(t *testing.T) {
	provider := &fakeStats{averages: map[int64]*stats.PlayerAverages{
		1: playerAvg(1, "Player X", 50, 25),
		// player 2 unknown
	}}
	eng := testEngine(provider, &fakeSearcher{}, &fakeAdviser{}, nil)

	_, err := eng.Evaluate(context.Background(), twoSidedProposal())

	var incomplete *dm.IncompleteEvaluationError
	assert.ErrorAs(t, err, &incomplete)
}

func TestEvaluate_SimilaritySearchFailureDegrades(t *testing.T) {
	provider := &fakeStats{averages: map[int64]*stats.PlayerAverages{
		1: playerAvg(1, "Player X", 50, 25),
		2: playerAvg(2, "Player Y", 50, 24),
	}}
	searcher := &fakeSearcher{err: errors.New("store offline")}
	adviser := &fakeAdviser{out: &dm.AdvisoryOutput{AnalysisText: "ok"}}

	eng := testEngine(provider, searcher, adviser, nil)
	ev, err := eng.Evaluate(context.Background(), twoSidedProposal())
	require.NoError(t, err)

	require.NotNil(t, ev.Result.SimilarTrades)
	assert.Empty(t, ev.Result.SimilarTrades)
}

func TestEvaluate_AdvisoryFailureKeepsEvaluation(t *testing.T) {
	provider := &fakeStats{averages: map[int64]*stats.PlayerAverages{
		1: playerAvg(1, "Player X", 50, 25),
		2: playerAvg(2, "Player Y", 50, 24),
	}}
	adviser := &fakeAdviser{err: errors.New("model unavailable")}

	eng := testEngine(provider, &fakeSearcher{}, adviser, nil)
	ev, err := eng.Evaluate(context.Background(), twoSidedProposal())
	require.NoError(t, err)

	assert.Nil(t, ev.Advisory)
	assert.NotNil(t, ev.Result)
}
