package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"chat_agent/src"
	"chat_agent/src/harness"
	"chat_agent/src/logger"
	"chat_agent/src/model"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

func main() {
	var casesPath, outputDir string
	flag.StringVar(&casesPath, "t", "tests/test_cases.json", "path to the test cases JSON file")
	flag.StringVar(&casesPath, "test-cases", "tests/test_cases.json", "path to the test cases JSON file")
	flag.StringVar(&outputDir, "o", "test_results", "directory to save test results")
	flag.StringVar(&outputDir, "output-dir", "test_results", "directory to save test results")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: no .env file loaded: %v\n", err)
	}

	config, err := src.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logger.InitLogger(config.LogConfig); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	var agentConfig *model.AgentConfig
	if cfg, err := src.LoadAgentConfig("config.yaml"); err == nil {
		agentConfig = cfg
	} else {
		logger.Warn().Err(err).Msg("config.yaml not loaded, using defaults")
	}

	ctx := context.Background()

	chatAgent, err := src.BuildAgent(ctx, config, agentConfig, uuid.NewString())
	if err != nil {
		logger.Error().Err(err).Msg("failed to build agent")
		os.Exit(1)
	}

	runner := harness.NewRunner(chatAgent)
	if err := runner.Run(ctx, casesPath, outputDir); err != nil {
		logger.Error().Err(err).Msg("batch run failed")
		os.Exit(1)
	}

	fmt.Printf("Test results have been saved to %s\n", outputDir)
}
