package service

import (
	"context"
	"strconv"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	khttp "github.com/go-kratos/kratos/v2/transport/http"

	"github.com/hooplytics/traderadar/internal/biz"
	dm "github.com/hooplytics/traderadar/pkg/model"
)

// Evaluator runs the evaluation pipeline for one proposal.
type Evaluator interface {
	Evaluate(ctx context.Context, p *dm.TradeProposal) (*dm.Evaluation, error)
}

// TradeService is the HTTP surface: evaluate a proposal, browse past
// evaluations.
type TradeService struct {
	engine Evaluator
	uc     *biz.EvaluationUseCase
	log    *log.Helper
}

func NewTradeService(engine Evaluator, uc *biz.EvaluationUseCase, logger log.Logger) *TradeService {
	return &TradeService{
		engine: engine,
		uc:     uc,
		log:    log.NewHelper(logger),
	}
}

type evaluateReply struct {
	ID       int64                `json:"id,omitempty"`
	Result   *dm.EvaluationResult `json:"result"`
	Advisory *dm.AdvisoryOutput   `json:"advisory,omitempty"`
}

// EvaluateTrade handles POST /v1/trades/evaluate.
func (s *TradeService) EvaluateTrade(ctx khttp.Context) error {
	var proposal dm.TradeProposal
	if err := ctx.Bind(&proposal); err != nil {
		return errors.BadRequest("MALFORMED_BODY", err.Error())
	}

	ev, err := s.engine.Evaluate(ctx, &proposal)
	if err != nil {
		return mapEngineError(err)
	}

	return ctx.Result(200, &evaluateReply{
		ID:       ev.ID,
		Result:   ev.Result,
		Advisory: ev.Advisory,
	})
}

type evaluationSummary struct {
	ID            int64   `json:"id"`
	FairnessLabel string  `json:"fairness_label"`
	FairnessScore float64 `json:"fairness_score"`
	Verdict       string  `json:"verdict"`
	WinImpact     float64 `json:"win_impact"`
	CreatedAt     string  `json:"created_at"`
}

type listEvaluationsReply struct {
	Evaluations []evaluationSummary `json:"evaluations"`
	Total       int                 `json:"total"`
}

// ListEvaluations handles GET /v1/evaluations.
func (s *TradeService) ListEvaluations(ctx khttp.Context) error {
	q := ctx.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("page_size"))

	records, total, err := s.uc.List(ctx, page, pageSize)
	if err != nil {
		return err
	}

	summaries := make([]evaluationSummary, 0, len(records))
	for _, r := range records {
		summaries = append(summaries, evaluationSummary{
			ID:            r.ID,
			FairnessLabel: r.FairnessLabel,
			FairnessScore: r.FairnessScore,
			Verdict:       r.Verdict,
			WinImpact:     r.WinImpact,
			CreatedAt:     r.CreatedAt,
		})
	}

	return ctx.Result(200, &listEvaluationsReply{
		Evaluations: summaries,
		Total:       total,
	})
}

type getEvaluationReply struct {
	ID            int64              `json:"id"`
	Proposal      *dm.TradeProposal  `json:"proposal"`
	FairnessLabel string             `json:"fairness_label"`
	FairnessScore float64            `json:"fairness_score"`
	Verdict       string             `json:"verdict"`
	WinImpact     float64            `json:"win_impact"`
	SimilarTrades []dm.TradeRef      `json:"similar_trades"`
	Advisory      *dm.AdvisoryOutput `json:"advisory,omitempty"`
	CreatedAt     string             `json:"created_at"`
}

// GetEvaluation handles GET /v1/evaluations/{id}.
func (s *TradeService) GetEvaluation(ctx khttp.Context) error {
	id, err := strconv.ParseInt(ctx.Vars().Get("id"), 10, 64)
	if err != nil {
		return errors.BadRequest("BAD_ID", "evaluation id must be an integer")
	}

	r, err := s.uc.Get(ctx, id)
	if err != nil {
		return err
	}

	reply := &getEvaluationReply{
		ID:            r.ID,
		Proposal:      r.Proposal,
		FairnessLabel: r.FairnessLabel,
		FairnessScore: r.FairnessScore,
		Verdict:       r.Verdict,
		WinImpact:     r.WinImpact,
		SimilarTrades: r.SimilarTrades,
		CreatedAt:     r.CreatedAt,
	}
	if r.Analysis != "" {
		reply.Advisory = &dm.AdvisoryOutput{
			AnalysisText: r.Analysis,
			Suggestions:  r.Suggestions,
		}
	}
	return ctx.Result(200, reply)
}

func mapEngineError(err error) error {
	var (
		invalid    *dm.InvalidProposalError
		incomplete *dm.IncompleteEvaluationError
	)
	switch {
	case errors.As(err, &invalid):
		return errors.BadRequest("INVALID_PROPOSAL", invalid.Error())
	case errors.As(err, &incomplete):
		return errors.New(422, "INCOMPLETE_EVALUATION", incomplete.Error())
	default:
		return err
	}
}
