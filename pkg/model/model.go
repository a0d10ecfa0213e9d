package model

import "time"

// Player identifies an NBA player referenced by a trade proposal.
type Player struct {
	ID   int64  `json:"id"`
	Name string `json:"name,omitempty"`
}

// DraftAsset is a draft pick attached to one side of a trade.
type DraftAsset struct {
	ID    string `json:"id"` // e.g. "2027-R1-BKN"
	Year  int    `json:"year,omitempty"`
	Round int    `json:"round,omitempty"`
}

// TradeSide is one team's ledger in a proposal: what it gives away and
// what it receives.
type TradeSide struct {
	Team            string       `json:"team"`
	PlayersGiven    []Player     `json:"players_given"`
	PlayersReceived []Player     `json:"players_received,omitempty"`
	DraftAssets     []DraftAsset `json:"draft_assets,omitempty"`
}

// TradeProposal is an ordered collection of trade sides. The first side is
// the reference side for the win-impact estimate.
type TradeProposal struct {
	Sides []TradeSide `json:"sides"`
}

// FairnessLabel is the categorical classifier output for a trade.
type FairnessLabel string

const (
	FairnessFair   FairnessLabel = "fair"
	FairnessUnfair FairnessLabel = "unfair"
)

// TradeRef points at a historical trade returned by the similarity search.
type TradeRef struct {
	ID          int64   `json:"id"`
	Season      string  `json:"season,omitempty"`
	Description string  `json:"description"`
	WinImpact   float64 `json:"win_impact"`
	Similarity  float64 `json:"similarity"`
}

// EvaluationResult merges the classifier, regressor and similarity-search
// outputs for one proposal. SimilarTrades may be empty (no context
// available); FairnessLabel and WinImpact are always set.
type EvaluationResult struct {
	FairnessLabel FairnessLabel `json:"fairness_label"`
	FairnessScore float64       `json:"fairness_score"` // 0-10 scale
	Verdict       string        `json:"verdict"`
	WinImpact     float64       `json:"win_impact"`
	SimilarTrades []TradeRef    `json:"similar_trades"`
}

// AdvisoryOutput is the external language-model collaborator's response.
type AdvisoryOutput struct {
	AnalysisText string   `json:"analysis"`
	Suggestions  []string `json:"suggestions"`
}

// Evaluation is the full per-request artifact: the validated proposal, the
// merged evaluation, and the advisory output when the collaborator answered.
type Evaluation struct {
	ID        int64             `json:"id,omitempty"`
	Proposal  *TradeProposal    `json:"proposal"`
	Result    *EvaluationResult `json:"result"`
	Advisory  *AdvisoryOutput   `json:"advisory,omitempty"`
	CreatedAt time.Time         `json:"created_at,omitempty"`
}

// HistoricalTrade is a past trade kept for similarity lookups. Features is
// the vector the search compares against (see similar.Vector for the layout).
type HistoricalTrade struct {
	ID          int64
	Season      string
	Description string
	WinImpact   float64
	Features    []float64
}
