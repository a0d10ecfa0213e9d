// Package engine orchestrates a trade evaluation: validation, the three
// sub-evaluations, the merge, persistence, and the advisory call.
package engine

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/hooplytics/traderadar/pkg/advisor"
	"github.com/hooplytics/traderadar/pkg/config"
	"github.com/hooplytics/traderadar/pkg/logger"
	dm "github.com/hooplytics/traderadar/pkg/model"
	"github.com/hooplytics/traderadar/pkg/scoring"
	"github.com/hooplytics/traderadar/pkg/similar"
	similarfactory "github.com/hooplytics/traderadar/pkg/similar/factory"
	"github.com/hooplytics/traderadar/pkg/stats"
	statsfactory "github.com/hooplytics/traderadar/pkg/stats/factory"
	"github.com/hooplytics/traderadar/pkg/storage"
)

// EvaluationStore persists evaluated proposals.
type EvaluationStore interface {
	SaveEvaluation(ctx context.Context, ev *dm.Evaluation) (int64, error)
}

// Engine evaluates trade proposals.
type Engine struct {
	cfg      *config.Config
	store    EvaluationStore
	provider stats.Provider
	searcher similar.Searcher
	adviser  advisor.Adviser
	scorer   *scoring.Scorer
}

// NewEngine wires the engine from configuration. store may be nil, in which
// case evaluations are not persisted and the stats provider runs uncached.
func NewEngine(ctx context.Context, cfg *config.Config, store *storage.Storage) (*Engine, error) {
	limit := rate.Limit(float64(cfg.Concurrency.RPM) / 60.0)
	limiter := rate.NewLimiter(limit, cfg.Concurrency.QPS)

	adviser, err := advisor.NewAdvisor(ctx, cfg.LLM, limiter)
	if err != nil {
		return nil, err
	}

	var cache stats.Cache
	var source similar.TradeSource
	if store != nil {
		cache = store
		source = store
	}

	provider, err := statsfactory.NewProvider(cfg, cache)
	if err != nil {
		return nil, err
	}
	searcher, err := similarfactory.NewSearcher(cfg, source)
	if err != nil {
		return nil, err
	}

	var evStore EvaluationStore
	if store != nil {
		evStore = store
	}

	return New(cfg, evStore, provider, searcher, adviser), nil
}

// New assembles an engine from explicit collaborators.
func New(cfg *config.Config, store EvaluationStore, provider stats.Provider, searcher similar.Searcher, adviser advisor.Adviser) *Engine {
	return &Engine{
		cfg:      cfg,
		store:    store,
		provider: provider,
		searcher: searcher,
		adviser:  adviser,
		scorer:   scoring.NewScorer(cfg.Scoring),
	}
}

// Evaluate runs the full pipeline for one proposal. The advisory call is a
// best-effort step: its failure leaves Advisory nil but keeps the
// evaluation.
func (e *Engine) Evaluate(ctx context.Context, p *dm.TradeProposal) (*dm.Evaluation, error) {
	if err := Validate(p); err != nil {
		return nil, err
	}
	Normalize(p)

	var (
		cls *scoring.Classification
		win *float64
	)
	avgs, err := e.fetchAverages(ctx, p)
	if err != nil {
		logger.Log.Errorf("player averages unavailable: %v", err)
	} else {
		c, cerr := e.scorer.Classify(p, avgs)
		if cerr != nil {
			logger.Log.Errorf("classifier failed: %v", cerr)
		} else {
			cls = c
		}
		w, werr := e.scorer.WinImpact(p, avgs)
		if werr != nil {
			logger.Log.Errorf("regressor failed: %v", werr)
		} else {
			win = &w
		}
	}

	var sims []dm.TradeRef
	if cls != nil && win != nil {
		q := &similar.Query{
			Features: similar.Vector(
				cls.Differential,
				cls.Combined,
				len(p.Sides[0].PlayersGiven),
				len(p.Sides[0].PlayersReceived),
				assetCount(p),
				*win,
			),
			Season:     e.cfg.Stats.Season,
			MaxResults: e.cfg.Similar.MaxResults,
		}
		sims, err = e.searcher.Similar(ctx, q)
		if err != nil {
			// Degraded context: evaluation proceeds without it.
			logger.Log.Warnf("similarity search failed: %v", err)
			sims = nil
		}
	}

	result, err := Merge(cls, win, sims)
	if err != nil {
		return nil, err
	}

	ev := &dm.Evaluation{
		Proposal:  p,
		Result:    result,
		CreatedAt: time.Now(),
	}

	adv, err := e.adviser.Advise(ctx, p, result)
	if err != nil {
		logger.Log.Errorf("advisory call failed: %v", err)
	} else {
		ev.Advisory = adv
	}

	if e.store != nil {
		id, err := e.store.SaveEvaluation(ctx, ev)
		if err != nil {
			logger.Log.Errorf("persist evaluation failed: %v", err)
		} else {
			ev.ID = id
		}
	}

	return ev, nil
}

// fetchAverages resolves season averages for every player in the proposal.
func (e *Engine) fetchAverages(ctx context.Context, p *dm.TradeProposal) (map[int64]*stats.PlayerAverages, error) {
	ids := map[int64]bool{}
	for _, side := range p.Sides {
		for _, pl := range side.PlayersGiven {
			ids[pl.ID] = true
		}
		for _, pl := range side.PlayersReceived {
			ids[pl.ID] = true
		}
	}

	avgs := make(map[int64]*stats.PlayerAverages, len(ids))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for id := range ids {
		g.Go(func() error {
			avg, err := e.provider.PlayerAverages(gctx, id, e.cfg.Stats.Season)
			if err != nil {
				return err
			}
			mu.Lock()
			avgs[id] = avg
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return avgs, nil
}

func assetCount(p *dm.TradeProposal) int {
	var n int
	for _, side := range p.Sides {
		n += len(side.DraftAssets)
	}
	return n
}
