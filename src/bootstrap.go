package src

import (
	"context"
	"fmt"
	"time"

	"chat_agent/src/agent"
	"chat_agent/src/conversation"
	"chat_agent/src/llm"
	"chat_agent/src/logger"
	"chat_agent/src/model"
	"chat_agent/src/search"
)

// BuildAgent wires one session's agent: conversation store (Redis when
// REDIS_URL is set, in-process otherwise), session memory, chat model gateway
// and search client.
func BuildAgent(ctx context.Context, config *Config, agentConfig *model.AgentConfig, sessionID string) (*agent.Agent, error) {
	var store conversation.Store
	if config.MemoryConfig.RedisURL != "" {
		redisStore, err := conversation.NewRedisStore(ctx, config.MemoryConfig.RedisURL,
			time.Duration(config.MemoryConfig.TTLSeconds)*time.Second)
		if err != nil {
			return nil, fmt.Errorf("failed to create redis store: %w", err)
		}
		store = redisStore
		logger.Info().Msg("using redis conversation store")
	} else {
		store = conversation.NewMemoryStore()
		logger.Info().Msg("using in-process conversation store")
	}

	maxTurns := config.MemoryConfig.MaxTurns
	var overrides map[string]model.TemplateParams
	if agentConfig != nil {
		if agentConfig.Memory.MaxTurns > 0 {
			maxTurns = agentConfig.Memory.MaxTurns
		}
		if agentConfig.Model.Name != "" {
			config.ModelConfig.Model = agentConfig.Model.Name
		}
		overrides = agentConfig.Templates
	}

	memory := conversation.NewMemory(store, sessionID, maxTurns)

	chatModel, err := llm.NewOpenAIChatModel(ctx, config.ModelConfig)
	if err != nil {
		return nil, err
	}

	gateway := llm.NewGateway(chatModel, memory, overrides)
	searchClient := search.NewDuckDuckGoClient(config.SearchConfig)

	return agent.New(gateway, searchClient), nil
}
