// Package similar retrieves historical trades that resemble a proposal.
// The lookup is optional context: callers must tolerate an empty result.
package similar

import (
	"context"

	"github.com/hooplytics/traderadar/pkg/model"
)

// Query describes the trade being matched.
type Query struct {
	Features   []float64
	Season     string // optional filter
	MaxResults int
}

// Searcher finds similar historical trades.
type Searcher interface {
	Similar(ctx context.Context, q *Query) ([]model.TradeRef, error)
}

// Vector reduces an evaluated proposal to the feature layout shared with
// stored historical trades: impact differential, combined outgoing impact,
// players moved per direction, draft assets moved, win impact.
func Vector(differential, combinedImpact float64, playersOut, playersIn, assetCount int, winImpact float64) []float64 {
	return []float64{
		differential,
		combinedImpact,
		float64(playersOut),
		float64(playersIn),
		float64(assetCount),
		winImpact,
	}
}
