package agent

import (
	"context"
	"errors"
	"testing"

	"chat_agent/src/conversation"
	"chat_agent/src/llm"
	"chat_agent/src/model"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedModel replays canned completions in call order.
type scriptedModel struct {
	responses []string
	calls     [][]*schema.Message
}

func (s *scriptedModel) Generate(_ context.Context, input []*schema.Message, _ ...einomodel.Option) (*schema.Message, error) {
	s.calls = append(s.calls, input)
	idx := len(s.calls) - 1
	if idx >= len(s.responses) {
		return nil, errors.New("script exhausted")
	}
	return schema.AssistantMessage(s.responses[idx], nil), nil
}

type failingModel struct{}

func (failingModel) Generate(_ context.Context, _ []*schema.Message, _ ...einomodel.Option) (*schema.Message, error) {
	return nil, errors.New("dial tcp: connection refused")
}

type stubSearch struct {
	results []model.SearchResult
	err     error
	queries []string
}

func (s *stubSearch) Search(_ context.Context, query string) ([]model.SearchResult, error) {
	s.queries = append(s.queries, query)
	return s.results, s.err
}

func newTestAgent(chatModel llm.ChatModel, searchClient *stubSearch) (*Agent, *conversation.Memory) {
	memory := conversation.NewMemory(conversation.NewMemoryStore(), "test-session", 10)
	gateway := llm.NewGateway(chatModel, memory, nil)
	if searchClient == nil {
		searchClient = &stubSearch{}
	}
	return New(gateway, searchClient), memory
}

func TestDiningTurnEndToEnd(t *testing.T) {
	script := &scriptedModel{responses: []string{
		`{"response": "Can you book a romantic rooftop restaurant for 7 PM today?"}`,
		`{"intent_category": "dining", "confidence_score": 0.91}`,
		`{"time": "7 PM", "date": "today", "cuisine": "romantic rooftop"}`,
		`{"response": ["Where would you like to dine?", "What is your budget?"]}`,
	}}
	chatAgent, _ := newTestAgent(script, nil)

	response := chatAgent.Respond(context.Background(), "Can you book one for 7 PM today?")

	assert.Empty(t, response.Error)
	assert.Equal(t, "dining", response.IntentCategory)
	assert.Equal(t, 0.91, response.ConfidenceScore)
	assert.Empty(t, response.WebSearchResponse)

	require.NotNil(t, response.KeyEntities)
	assert.Equal(t, "7 PM", response.KeyEntities["time"])
	assert.Equal(t, "today", response.KeyEntities["date"])
	assert.Equal(t, "romantic rooftop", response.KeyEntities["cuisine"])
	assert.Equal(t, "Not Specified", response.KeyEntities["location"])
	assert.Equal(t, "Not Specified", response.KeyEntities["budget"])
	assert.Equal(t, "Not Specified", response.KeyEntities["party_size"])
	assert.Equal(t, "Not Specified", response.KeyEntities["special_requests"])

	assert.Equal(t, []string{"Where would you like to dine?", "What is your budget?"}, response.FollowUpQuestions)

	// Follow-up prompt saw the raw record with null markers, not the display copy.
	followUpInput := script.calls[3][1].Content
	assert.Contains(t, followUpInput, `"location": null`)
	assert.NotContains(t, followUpInput, "Not Specified")
}

func TestGreetingsHowAreYouVariant(t *testing.T) {
	script := &scriptedModel{responses: []string{
		`{"response": "Hi, how are you?"}`,
		`{"intent_category": "greetings", "confidence_score": 0.98}`,
	}}
	chatAgent, _ := newTestAgent(script, nil)

	response := chatAgent.Respond(context.Background(), "Hi, how are you?")

	assert.Equal(t, "greetings", response.IntentCategory)
	assert.Equal(t, "I'm good, thank you! How can I help you today?", response.Response)
	assert.Empty(t, response.KeyEntities)
	assert.Empty(t, response.FollowUpQuestions)
	assert.Empty(t, response.WebSearchResponse)
}

func TestGreetingsGenericVariant(t *testing.T) {
	script := &scriptedModel{responses: []string{
		`{"response": "Good morning!"}`,
		`{"intent_category": "greetings", "confidence_score": 0.97}`,
	}}
	chatAgent, _ := newTestAgent(script, nil)

	response := chatAgent.Respond(context.Background(), "Good morning!")
	assert.Equal(t, "Hello! What can I help you with today?", response.Response)
}

func TestOtherBranchRunsWebSearch(t *testing.T) {
	script := &scriptedModel{responses: []string{
		`{"response": "How do I renew my driving license?"}`,
		`{"intent_category": "other", "confidence_score": 0.95}`,
		`{"response": "driving license renewal process"}`,
	}}
	searchClient := &stubSearch{results: []model.SearchResult{
		{Title: "RTO portal", Link: "https://example.org/rto", Snippet: "Renew online"},
	}}
	chatAgent, _ := newTestAgent(script, searchClient)

	response := chatAgent.Respond(context.Background(), "How do I renew my driving license?")

	assert.Empty(t, response.Error)
	assert.Equal(t, "other", response.IntentCategory)
	assert.Equal(t, []string{"driving license renewal process"}, searchClient.queries)
	require.Len(t, response.WebSearchResponse, 1)
	assert.Equal(t, "RTO portal", response.WebSearchResponse[0].Title)

	// The other branch never slot-fills.
	assert.Empty(t, response.KeyEntities)
	assert.Empty(t, response.FollowUpQuestions)
}

func TestClassificationParseFailureKeepsMemory(t *testing.T) {
	script := &scriptedModel{responses: []string{
		`{"response": "book a table"}`,
		`the model rambled and returned no JSON at all`,
	}}
	chatAgent, memory := newTestAgent(script, nil)

	response := chatAgent.Respond(context.Background(), "book a table")

	assert.Equal(t, model.StageClassify, response.Error)
	assert.Equal(t, ApologyMessage, response.Response)
	assert.Empty(t, response.KeyEntities)
	assert.Empty(t, response.FollowUpQuestions)

	// The failed exchange stays in memory, not silently dropped.
	recent, err := memory.Recent(context.Background())
	require.NoError(t, err)
	require.Len(t, recent, 4)
	assert.Equal(t, "the model rambled and returned no JSON at all", recent[3].Content)
}

func TestEntityExtractionFailureSurfacesPartialResponse(t *testing.T) {
	script := &scriptedModel{responses: []string{
		`{"response": "plan a trip to Goa"}`,
		`{"intent_category": "travel", "confidence_score": 0.88}`,
		`not json`,
	}}
	chatAgent, _ := newTestAgent(script, nil)

	response := chatAgent.Respond(context.Background(), "plan a trip to Goa")

	assert.Equal(t, model.StageEntityExtraction, response.Error)
	assert.Equal(t, ApologyMessage, response.Response)
	// Partial result: classification survives, slots do not.
	assert.Equal(t, "travel", response.IntentCategory)
	assert.Equal(t, 0.88, response.ConfidenceScore)
	assert.Empty(t, response.KeyEntities)
	assert.Empty(t, response.FollowUpQuestions)
}

func TestFollowUpFailureKeepsEntities(t *testing.T) {
	script := &scriptedModel{responses: []string{
		`{"response": "gift for mom"}`,
		`{"intent_category": "gifting", "confidence_score": 0.9}`,
		`{"recipient": "mom"}`,
		`no braces here`,
	}}
	chatAgent, _ := newTestAgent(script, nil)

	response := chatAgent.Respond(context.Background(), "gift for mom")

	assert.Equal(t, model.StageFollowUp, response.Error)
	require.NotNil(t, response.KeyEntities)
	assert.Equal(t, "mom", response.KeyEntities["recipient"])
	assert.Empty(t, response.FollowUpQuestions)
}

func TestUnrecognizedCategoryFailsTurn(t *testing.T) {
	script := &scriptedModel{responses: []string{
		`{"response": "open a fixed deposit"}`,
		`{"intent_category": "banking", "confidence_score": 0.7}`,
	}}
	chatAgent, _ := newTestAgent(script, nil)

	response := chatAgent.Respond(context.Background(), "open a fixed deposit")

	assert.Equal(t, model.StageNoMatchingIntent, response.Error)
	assert.Equal(t, ApologyMessage, response.Response)
	// The model-asserted value is still surfaced for the caller.
	assert.Equal(t, "banking", response.IntentCategory)
}

func TestSearchFailureFailsTurn(t *testing.T) {
	script := &scriptedModel{responses: []string{
		`{"response": "weather in Pune"}`,
		`{"intent_category": "other", "confidence_score": 0.9}`,
		`{"response": "Pune weather today"}`,
	}}
	searchClient := &stubSearch{err: errors.New("search provider down")}
	chatAgent, _ := newTestAgent(script, searchClient)

	response := chatAgent.Respond(context.Background(), "weather in Pune")

	assert.Equal(t, model.StageWebSearch, response.Error)
	assert.Equal(t, "other", response.IntentCategory)
	assert.Empty(t, response.WebSearchResponse)
}

func TestModelUnavailableFailsTurnGracefully(t *testing.T) {
	chatAgent, memory := newTestAgent(failingModel{}, nil)

	response := chatAgent.Respond(context.Background(), "anything")

	assert.Equal(t, model.StageContextResolve, response.Error)
	assert.Equal(t, ApologyMessage, response.Response)

	recent, err := memory.Recent(context.Background())
	require.NoError(t, err)
	assert.Empty(t, recent)
}

func TestLastQueryCarriesRawPreviousUtterance(t *testing.T) {
	script := &scriptedModel{responses: []string{
		// Turn 1
		`{"response": "Suggest some romantic rooftop restaurants."}`,
		`{"intent_category": "other", "confidence_score": 0.8}`,
		`{"response": "romantic rooftop restaurants"}`,
		// Turn 2
		`{"response": "Can you book a romantic rooftop restaurant for 7 PM today?"}`,
		`{"intent_category": "dining", "confidence_score": 0.9}`,
		`{"date": "today", "time": "7 PM"}`,
		`{"response": ["Where?"]}`,
	}}
	chatAgent, _ := newTestAgent(script, &stubSearch{})

	ctx := context.Background()
	first := chatAgent.Respond(ctx, "Suggest some romantic rooftop restaurants.")
	require.Empty(t, first.Error)

	second := chatAgent.Respond(ctx, "Can you book one for 7 PM today?")
	require.Empty(t, second.Error)

	// The second rewrite call frames the previous raw utterance as context.
	rewriteInput := script.calls[3][1].Content
	assert.Contains(t, rewriteInput, "Context:\nUser: Suggest some romantic rooftop restaurants.")
	assert.Contains(t, rewriteInput, "query: Can you book one for 7 PM today?")
}

func TestFirstTurnHasEmptyContextFrame(t *testing.T) {
	script := &scriptedModel{responses: []string{
		`{"response": "hello"}`,
		`{"intent_category": "greetings", "confidence_score": 0.99}`,
	}}
	chatAgent, _ := newTestAgent(script, nil)

	chatAgent.Respond(context.Background(), "hello")

	rewriteInput := script.calls[0][1].Content
	assert.Contains(t, rewriteInput, "Context:\n\nquery: hello")
}
