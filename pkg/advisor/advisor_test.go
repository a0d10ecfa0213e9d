package advisor

import (
	"context"
	"errors"
	"testing"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dm "github.com/hooplytics/traderadar/pkg/model"
)

// mockChatModel returns canned content for every Generate call. When
// failTimes is set, the first failTimes calls return err before the canned
// content is served.
type mockChatModel struct {
	content   string
	err       error
	failTimes int
	calls     int
	lastIn    []*schema.Message
}

func (m *mockChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	m.calls++
	m.lastIn = input
	if m.err != nil && (m.failTimes == 0 || m.calls <= m.failTimes) {
		return nil, m.err
	}
	return &schema.Message{Role: schema.Assistant, Content: m.content}, nil
}

func (m *mockChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, nil
}

func (m *mockChatModel) BindTools(tools []*schema.ToolInfo) error { return nil }

func sampleProposal() *dm.TradeProposal {
	return &dm.TradeProposal{Sides: []dm.TradeSide{
		{Team: "BOS", PlayersGiven: []dm.Player{{ID: 1, Name: "Player X"}}},
		{Team: "LAL", PlayersGiven: []dm.Player{{ID: 2, Name: "Player Y"}}},
	}}
}

func sampleResult() *dm.EvaluationResult {
	return &dm.EvaluationResult{
		FairnessLabel: dm.FairnessFair,
		FairnessScore: 8.75,
		Verdict:       "Fair Trade",
		WinImpact:     0.42,
		SimilarTrades: []dm.TradeRef{
			{ID: 3, Description: "Player A for Player B", WinImpact: 0.5, Similarity: 0.88},
		},
	}
}

func TestBuildRequest_FollowsTemplate(t *testing.T) {
	req := BuildRequest(sampleProposal(), sampleResult())

	assert.Contains(t, req, "Based on the provided trade proposal and the predicted fairness score of 8.75")
	assert.Contains(t, req, "win impact of 0.42")
	assert.Contains(t, req, "BOS gives Player X")
	assert.Contains(t, req, "Similar past trades for context")
	assert.Contains(t, req, "Player A for Player B")
}

func TestBuildRequest_NoSimilarContext(t *testing.T) {
	res := sampleResult()
	res.SimilarTrades = nil

	req := BuildRequest(sampleProposal(), res)
	assert.NotContains(t, req, "Similar past trades")
}

func TestAdvise_ParsesJSONResponse(t *testing.T) {
	cm := &mockChatModel{content: "```json\n{\"analysis\": \"even swap\", \"suggestions\": [\"add a pick\"]}\n```"}
	a := NewAdvisorWithModel(cm, nil)

	out, err := a.Advise(context.Background(), sampleProposal(), sampleResult())
	require.NoError(t, err)
	assert.Equal(t, "even swap", out.AnalysisText)
	assert.Equal(t, []string{"add a pick"}, out.Suggestions)

	require.Len(t, cm.lastIn, 2)
	assert.Equal(t, schema.System, cm.lastIn[0].Role)
}

func TestAdvise_RejectsEmptyAnalysis(t *testing.T) {
	cm := &mockChatModel{content: `{"analysis": "  ", "suggestions": []}`}
	a := NewAdvisorWithModel(cm, nil)

	_, err := a.Advise(context.Background(), sampleProposal(), sampleResult())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty analysis")
}

func TestAdvise_RejectsNonJSON(t *testing.T) {
	cm := &mockChatModel{content: "sure, here is my take on the trade"}
	a := NewAdvisorWithModel(cm, nil)

	_, err := a.Advise(context.Background(), sampleProposal(), sampleResult())
	assert.Error(t, err)
}

func TestAdvise_RetriesOnRateLimit(t *testing.T) {
	cm := &mockChatModel{
		content:   `{"analysis": "even swap", "suggestions": []}`,
		err:       errors.New("429 Too Many Requests"),
		failTimes: 2,
	}
	a := NewAdvisorWithModel(cm, nil)
	a.baseDelay = time.Millisecond

	out, err := a.Advise(context.Background(), sampleProposal(), sampleResult())
	require.NoError(t, err)
	assert.Equal(t, "even swap", out.AnalysisText)
	assert.Equal(t, 3, cm.calls)
}

func TestAdvise_GivesUpAfterMaxRetries(t *testing.T) {
	cm := &mockChatModel{err: errors.New("429 Too Many Requests")}
	a := NewAdvisorWithModel(cm, nil)
	a.baseDelay = time.Millisecond

	_, err := a.Advise(context.Background(), sampleProposal(), sampleResult())
	require.Error(t, err)
	assert.Equal(t, maxRetries+1, cm.calls)
}

func TestAdvise_NoRetryOnOtherErrors(t *testing.T) {
	cm := &mockChatModel{err: errors.New("connection refused")}
	a := NewAdvisorWithModel(cm, nil)
	a.baseDelay = time.Millisecond

	_, err := a.Advise(context.Background(), sampleProposal(), sampleResult())
	require.Error(t, err)
	assert.Equal(t, 1, cm.calls)
}
