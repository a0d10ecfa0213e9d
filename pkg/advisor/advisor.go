// Package advisor talks to the external language-model collaborator. The
// model's internals are opaque: this package only owns the request template
// and the response contract.
package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/time/rate"

	"github.com/hooplytics/traderadar/pkg/config"
	dm "github.com/hooplytics/traderadar/pkg/model"
)

// Adviser produces natural-language analysis for an evaluated proposal.
type Adviser interface {
	Advise(ctx context.Context, p *dm.TradeProposal, res *dm.EvaluationResult) (*dm.AdvisoryOutput, error)
}

const (
	maxRetries       = 3
	defaultBaseDelay = 2 * time.Second
)

const systemPrompt = "You are an NBA front-office analyst. Respond with a single JSON object and nothing else."

const responseContract = `Respond strictly as JSON, no markdown fences:
{
	"analysis": "A grounded analysis of the trade (150-250 words).",
	"suggestions": ["concrete suggestion 1", "concrete suggestion 2"]
}`

// Advisor is the eino-backed Adviser.
type Advisor struct {
	cm        einomodel.ChatModel
	limiter   *rate.Limiter
	baseDelay time.Duration
}

var _ Adviser = (*Advisor)(nil)

// NewAdvisor builds the chat model from configuration.
func NewAdvisor(ctx context.Context, cfg config.LLMConfig, limiter *rate.Limiter) (*Advisor, error) {
	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("init chat model: %w", err)
	}
	return &Advisor{cm: cm, limiter: limiter, baseDelay: defaultBaseDelay}, nil
}

// NewAdvisorWithModel wraps an existing chat model. Used by tests.
func NewAdvisorWithModel(cm einomodel.ChatModel, limiter *rate.Limiter) *Advisor {
	return &Advisor{cm: cm, limiter: limiter, baseDelay: defaultBaseDelay}
}

// BuildRequest assembles the single textual request sent to the model:
// the proposal, the merged evaluation, and similar-trade context when
// available.
func BuildRequest(p *dm.TradeProposal, res *dm.EvaluationResult) string {
	var sb strings.Builder

	sb.WriteString("Trade proposal:\n")
	for _, side := range p.Sides {
		fmt.Fprintf(&sb, "- %s gives %s", side.Team, playerNames(side.PlayersGiven))
		if len(side.DraftAssets) > 0 {
			fmt.Fprintf(&sb, " plus draft assets %s", assetIDs(side.DraftAssets))
		}
		if len(side.PlayersReceived) > 0 {
			fmt.Fprintf(&sb, " and receives %s", playerNames(side.PlayersReceived))
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb,
		"\nBased on the provided trade proposal and the predicted fairness score of %.2f (%s, verdict: %s) and win impact of %.2f for %s, analyze the trade and suggest improvements.\n",
		res.FairnessScore, res.FairnessLabel, res.Verdict, res.WinImpact, p.Sides[0].Team)

	if len(res.SimilarTrades) > 0 {
		sb.WriteString("\nSimilar past trades for context:\n")
		for _, t := range res.SimilarTrades {
			fmt.Fprintf(&sb, "- %s (win impact %.2f, similarity %.2f)\n",
				t.Description, t.WinImpact, t.Similarity)
		}
	}

	sb.WriteString("\n" + responseContract)
	return sb.String()
}

// Advise implements Adviser. Retries with backoff when the upstream rate
// limits, mirroring the collaborator's transport behavior.
func (a *Advisor) Advise(ctx context.Context, p *dm.TradeProposal, res *dm.EvaluationResult) (*dm.AdvisoryOutput, error) {
	request := BuildRequest(p, res)

	var lastErr error

	for i := 0; i <= maxRetries; i++ {
		if a.limiter != nil {
			if err := a.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		messages := []*schema.Message{
			{Role: schema.System, Content: systemPrompt},
			{Role: schema.User, Content: request},
		}

		resp, err := a.cm.Generate(ctx, messages)
		if err != nil {
			if strings.Contains(err.Error(), "429") || strings.Contains(strings.ToLower(err.Error()), "too many requests") {
				lastErr = err
				if i < maxRetries {
					time.Sleep(a.baseDelay * time.Duration(1<<i))
					continue
				}
			}
			return nil, err
		}

		out, err := parseAdvisory(resp.Content)
		if err != nil {
			lastErr = err
			if i < maxRetries {
				continue
			}
			return nil, err
		}
		return out, nil
	}
	return nil, lastErr
}

func parseAdvisory(content string) (*dm.AdvisoryOutput, error) {
	clean := strings.TrimSpace(content)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")

	var out dm.AdvisoryOutput
	if err := json.Unmarshal([]byte(clean), &out); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	if strings.TrimSpace(out.AnalysisText) == "" {
		return nil, fmt.Errorf("advisory returned empty analysis")
	}
	return &out, nil
}

func playerNames(players []dm.Player) string {
	names := make([]string, len(players))
	for i, p := range players {
		if p.Name != "" {
			names[i] = p.Name
		} else {
			names[i] = fmt.Sprintf("player %d", p.ID)
		}
	}
	if len(names) == 0 {
		return "nothing"
	}
	return strings.Join(names, ", ")
}

func assetIDs(assets []dm.DraftAsset) string {
	ids := make([]string, len(assets))
	for i, a := range assets {
		ids[i] = a.ID
	}
	return strings.Join(ids, ", ")
}
