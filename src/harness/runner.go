package harness

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"chat_agent/src/logger"
	"chat_agent/src/model"

	"github.com/bytedance/sonic"
)

// Responder is the turn interface the runner feeds cases through.
type Responder interface {
	Respond(ctx context.Context, query string) *model.TurnResponse
}

// TestCase is one batch input record.
type TestCase struct {
	ID     any    `json:"id"`
	Input  string `json:"input"`
	Intent string `json:"intent"`
}

// Result is one batch output record.
type Result struct {
	ID     any                 `json:"id"`
	Input  string              `json:"input"`
	Output *model.TurnResponse `json:"output"`
}

type caseFile struct {
	TestCases []TestCase `json:"test_cases"`
}

type resultFile struct {
	TestResults []Result `json:"test_results"`
}

// Runner feeds a file of test cases through the agent one turn at a time and
// writes results incrementally, so a crash mid-batch loses at most one case.
// Unlike the reference harness it continues past per-case failures: a failed
// turn is already a well-formed apology response, not an exception.
type Runner struct {
	agent Responder
}

func NewRunner(agent Responder) *Runner {
	return &Runner{agent: agent}
}

// Run processes every case in casesPath and writes test_results.json under
// outputDir after each case.
func (r *Runner) Run(ctx context.Context, casesPath, outputDir string) error {
	data, err := os.ReadFile(casesPath)
	if err != nil {
		return fmt.Errorf("error reading test cases file: %v", err)
	}

	var cases caseFile
	if err := sonic.Unmarshal(data, &cases); err != nil {
		return fmt.Errorf("error parsing test cases: %v", err)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("error creating output directory: %v", err)
	}
	outputFile := filepath.Join(outputDir, "test_results.json")

	results := resultFile{TestResults: []Result{}}
	for _, testCase := range cases.TestCases {
		logger.Info().Any("id", testCase.ID).Str("expected_intent", testCase.Intent).Msg("running test case")

		output := r.agent.Respond(ctx, testCase.Input)
		if output.Error != "" {
			logger.Warn().Any("id", testCase.ID).Str("error", output.Error).Msg("test case turn failed")
		}

		results.TestResults = append(results.TestResults, Result{
			ID:     testCase.ID,
			Input:  testCase.Input,
			Output: output,
		})

		if err := writeResults(outputFile, &results); err != nil {
			return err
		}
	}

	logger.Info().Int("cases", len(results.TestResults)).Str("output", outputFile).Msg("batch run complete")
	return nil
}

func writeResults(path string, results *resultFile) error {
	data, err := sonic.MarshalIndent(results, "", "    ")
	if err != nil {
		return fmt.Errorf("error marshalling results: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error writing results file: %v", err)
	}
	return nil
}
