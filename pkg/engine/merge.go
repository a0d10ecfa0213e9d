package engine

import (
	dm "github.com/hooplytics/traderadar/pkg/model"
	"github.com/hooplytics/traderadar/pkg/scoring"
)

// Merge combines the classifier, regressor and similarity-search outputs
// into one EvaluationResult. A missing classifier or regressor output is a
// *model.IncompleteEvaluationError; a missing similar-trades list degrades
// to an empty one.
func Merge(cls *scoring.Classification, winImpact *float64, sims []dm.TradeRef) (*dm.EvaluationResult, error) {
	if cls == nil {
		return nil, &dm.IncompleteEvaluationError{Missing: "fairness label"}
	}
	if winImpact == nil {
		return nil, &dm.IncompleteEvaluationError{Missing: "win impact"}
	}
	if sims == nil {
		sims = []dm.TradeRef{}
	}

	return &dm.EvaluationResult{
		FairnessLabel: cls.Label,
		FairnessScore: cls.Score,
		Verdict:       cls.Verdict,
		WinImpact:     *winImpact,
		SimilarTrades: sims,
	}, nil
}
