package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"chat_agent/src"
	"chat_agent/src/logger"
	"chat_agent/src/model"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

func main() {
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
	sessionID := uuid.NewString()

	chatAgent, err := src.BuildAgent(ctx, config, agentConfig, sessionID)
	if err != nil {
		logger.Error().Err(err).Msg("failed to build agent")
		os.Exit(1)
	}

	logger.Info().Str("session_id", sessionID).Msg("chat session started")
	fmt.Println("Chat agent ready. Type a message, or 'exit' to quit.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("You: ")
		if !scanner.Scan() {
			break
		}

		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		if query == "exit" || query == "quit" {
			break
		}

		response := chatAgent.Respond(ctx, query)

		rendered, err := sonic.MarshalIndent(response, "", "    ")
		if err != nil {
			logger.Error().Err(err).Msg("failed to render response")
			continue
		}
		fmt.Printf("Agent:\n%s\n", rendered)
	}

	logger.Info().Msg("chat session ended")
}
