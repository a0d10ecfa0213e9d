// Package scoring implements the deterministic trade models: the player
// impact score, the fairness classifier and the win-impact regressor.
package scoring

import (
	"fmt"
	"math"

	"github.com/hooplytics/traderadar/pkg/config"
	"github.com/hooplytics/traderadar/pkg/logger"
	"github.com/hooplytics/traderadar/pkg/model"
	"github.com/hooplytics/traderadar/pkg/stats"
)

// Verdict wording, kept alongside the binary fairness label.
const (
	VerdictFair        = "Fair Trade"
	VerdictSlightly    = "Slightly Unbalanced"
	VerdictSignificant = "Significantly Unbalanced"

	fairnessScoreCeiling = 10.0
)

// Classification is the classifier output for a proposal.
type Classification struct {
	Label        model.FairnessLabel
	Score        float64 // 0-10, higher is fairer
	Verdict      string
	Differential float64 // absolute net-impact gap between sides
	Combined     float64 // total outgoing impact across all sides
}

// Scorer evaluates proposals against configured weights and thresholds.
type Scorer struct {
	cfg config.ScoringConfig
}

func NewScorer(cfg config.ScoringConfig) *Scorer {
	return &Scorer{cfg: cfg}
}

// ImpactScore computes a player's weighted per-game impact. Players below
// the minimum games played contribute nothing.
func (s *Scorer) ImpactScore(avg *stats.PlayerAverages) float64 {
	if avg.GamesPlayed < s.cfg.MinGamesPlayed {
		logger.Log.Warnf("player %s (%d) has insufficient games: %d", avg.Name, avg.PlayerID, avg.GamesPlayed)
		return 0
	}

	var impact float64
	for stat, weight := range s.cfg.ImpactWeights {
		if v, ok := avg.PerGame[stat]; ok {
			impact += v * weight
		}
	}
	return impact / float64(avg.GamesPlayed)
}

// AssetValue prices a draft asset by round.
func (s *Scorer) AssetValue(a model.DraftAsset) float64 {
	return s.cfg.DraftRoundValues[a.Round]
}

// sideOutgoing sums the value a side gives up: player impact plus draft
// asset value.
func (s *Scorer) sideOutgoing(side model.TradeSide, avgs map[int64]*stats.PlayerAverages) (float64, error) {
	total, err := s.playersImpact(side.PlayersGiven, avgs)
	if err != nil {
		return 0, err
	}
	for _, a := range side.DraftAssets {
		total += s.AssetValue(a)
	}
	return total, nil
}

func (s *Scorer) playersImpact(players []model.Player, avgs map[int64]*stats.PlayerAverages) (float64, error) {
	var total float64
	for _, p := range players {
		avg, ok := avgs[p.ID]
		if !ok || avg == nil {
			return 0, fmt.Errorf("no averages for player %d", p.ID)
		}
		total += s.ImpactScore(avg)
	}
	return total, nil
}

// Classify produces the fairness label for a proposal. The differential is
// the gap between the most and least valuable outgoing packages.
func (s *Scorer) Classify(p *model.TradeProposal, avgs map[int64]*stats.PlayerAverages) (*Classification, error) {
	if len(p.Sides) == 0 {
		return nil, fmt.Errorf("proposal has no sides")
	}

	minOut, maxOut := math.Inf(1), math.Inf(-1)
	var combined float64
	for _, side := range p.Sides {
		out, err := s.sideOutgoing(side, avgs)
		if err != nil {
			return nil, fmt.Errorf("side %s: %w", side.Team, err)
		}
		combined += out
		minOut = math.Min(minOut, out)
		maxOut = math.Max(maxOut, out)
	}

	diff := maxOut - minOut
	label := model.FairnessUnfair
	if diff < s.cfg.FairThreshold {
		label = model.FairnessFair
	}

	return &Classification{
		Label:        label,
		Score:        round2(math.Max(0, fairnessScoreCeiling-diff)),
		Verdict:      s.verdict(diff),
		Differential: round2(diff),
		Combined:     round2(combined),
	}, nil
}

func (s *Scorer) verdict(diff float64) string {
	switch {
	case diff < s.cfg.FairThreshold:
		return VerdictFair
	case diff < s.cfg.UnbalancedThreshold:
		return VerdictSlightly
	default:
		return VerdictSignificant
	}
}

// WinImpact estimates the projected win change for the reference (first)
// side: incoming player impact minus outgoing, scaled to wins.
func (s *Scorer) WinImpact(p *model.TradeProposal, avgs map[int64]*stats.PlayerAverages) (float64, error) {
	if len(p.Sides) == 0 {
		return 0, fmt.Errorf("proposal has no sides")
	}
	ref := p.Sides[0]

	in, err := s.playersImpact(ref.PlayersReceived, avgs)
	if err != nil {
		return 0, err
	}
	out, err := s.playersImpact(ref.PlayersGiven, avgs)
	if err != nil {
		return 0, err
	}

	// Draft assets are excluded: picks do not move the current season's
	// win total.
	return round2((in - out) / 10.0), nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
