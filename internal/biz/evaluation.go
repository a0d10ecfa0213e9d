package biz

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"

	dm "github.com/hooplytics/traderadar/pkg/model"
)

// EvaluationRecord is a persisted evaluation as read back for the API.
type EvaluationRecord struct {
	ID            int64
	Proposal      *dm.TradeProposal
	FairnessLabel string
	FairnessScore float64
	Verdict       string
	WinImpact     float64
	SimilarTrades []dm.TradeRef
	Analysis      string
	Suggestions   []string
	CreatedAt     string
}

// EvaluationRepo reads persisted evaluations.
type EvaluationRepo interface {
	ListEvaluations(ctx context.Context, page, pageSize int) ([]*EvaluationRecord, int, error)
	GetEvaluation(ctx context.Context, id int64) (*EvaluationRecord, error)
}

// EvaluationUseCase serves the read side of the API.
type EvaluationUseCase struct {
	repo EvaluationRepo
	log  *log.Helper
}

func NewEvaluationUseCase(repo EvaluationRepo, logger log.Logger) *EvaluationUseCase {
	return &EvaluationUseCase{repo: repo, log: log.NewHelper(logger)}
}

// List pages through persisted evaluations, newest first.
func (uc *EvaluationUseCase) List(ctx context.Context, page, pageSize int) ([]*EvaluationRecord, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	return uc.repo.ListEvaluations(ctx, page, pageSize)
}

// Get fetches one evaluation by id.
func (uc *EvaluationUseCase) Get(ctx context.Context, id int64) (*EvaluationRecord, error) {
	return uc.repo.GetEvaluation(ctx, id)
}
