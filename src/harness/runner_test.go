package harness

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"chat_agent/src/model"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResponder struct {
	responses map[string]*model.TurnResponse
	queries   []string
}

func (s *stubResponder) Respond(_ context.Context, query string) *model.TurnResponse {
	s.queries = append(s.queries, query)
	if response, ok := s.responses[query]; ok {
		return response
	}
	return &model.TurnResponse{IntentCategory: "greetings", Response: "Hello! What can I help you with today?"}
}

func writeCases(t *testing.T, dir string, cases []TestCase) string {
	t.Helper()
	data, err := sonic.Marshal(caseFile{TestCases: cases})
	require.NoError(t, err)
	path := filepath.Join(dir, "test_cases.json")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestRunnerWritesResults(t *testing.T) {
	dir := t.TempDir()
	casesPath := writeCases(t, dir, []TestCase{
		{ID: 1.0, Input: "hi", Intent: "greetings"},
		{ID: 2.0, Input: "book a table", Intent: "dining"},
	})

	responder := &stubResponder{responses: map[string]*model.TurnResponse{
		"book a table": {
			IntentCategory:  "dining",
			ConfidenceScore: 0.9,
			KeyEntities:     map[string]any{"date": "today"},
		},
	}}

	outputDir := filepath.Join(dir, "out")
	require.NoError(t, NewRunner(responder).Run(context.Background(), casesPath, outputDir))

	assert.Equal(t, []string{"hi", "book a table"}, responder.queries)

	data, err := os.ReadFile(filepath.Join(outputDir, "test_results.json"))
	require.NoError(t, err)

	var results resultFile
	require.NoError(t, sonic.Unmarshal(data, &results))
	require.Len(t, results.TestResults, 2)
	assert.Equal(t, "hi", results.TestResults[0].Input)
	assert.Equal(t, "dining", results.TestResults[1].Output.IntentCategory)
	assert.Equal(t, "today", results.TestResults[1].Output.KeyEntities["date"])
}

func TestRunnerContinuesPastFailedTurns(t *testing.T) {
	dir := t.TempDir()
	casesPath := writeCases(t, dir, []TestCase{
		{ID: "a", Input: "broken", Intent: "dining"},
		{ID: "b", Input: "hi", Intent: "greetings"},
	})

	responder := &stubResponder{responses: map[string]*model.TurnResponse{
		"broken": {
			Error:    model.StageClassify,
			Response: "An error occurred while processing your query. Please try again.",
		},
	}}

	require.NoError(t, NewRunner(responder).Run(context.Background(), casesPath, filepath.Join(dir, "out")))

	data, err := os.ReadFile(filepath.Join(dir, "out", "test_results.json"))
	require.NoError(t, err)

	var results resultFile
	require.NoError(t, sonic.Unmarshal(data, &results))
	require.Len(t, results.TestResults, 2)
	assert.Equal(t, model.StageClassify, results.TestResults[0].Output.Error)
	assert.Empty(t, results.TestResults[1].Output.Error)
}

func TestRunnerMissingCasesFile(t *testing.T) {
	err := NewRunner(&stubResponder{}).Run(context.Background(), "/nonexistent/cases.json", t.TempDir())
	require.Error(t, err)
}
