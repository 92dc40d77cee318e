package llm

import (
	"context"
	"fmt"
	"strings"

	"chat_agent/src/conversation"
	"chat_agent/src/logger"
	"chat_agent/src/model"

	"github.com/cloudwego/eino-ext/components/model/openai"
	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// ChatModel is the narrow slice of the eino chat model the gateway needs.
// *openai.ChatModel satisfies it; tests inject scripted stubs.
type ChatModel interface {
	Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error)
}

// Gateway is the single model-call boundary: it renders a fixed template with
// variables, sends it together with the bounded recent conversation history,
// appends the exchange to conversation memory, and returns the raw completion.
// It never retries; transport-level retry is the external service's concern.
type Gateway struct {
	model     ChatModel
	memory    *conversation.Memory
	templates map[TemplateID]*Template
}

// NewGateway wires a chat model and a session memory to the template registry.
func NewGateway(chatModel ChatModel, memory *conversation.Memory, overrides map[string]model.TemplateParams) *Gateway {
	return &Gateway{
		model:     chatModel,
		memory:    memory,
		templates: BuildTemplates(overrides),
	}
}

// NewOpenAIChatModel builds the OpenAI-compatible eino chat model from config.
// BaseURL selects the hosting provider (OpenRouter, Groq, ...).
func NewOpenAIChatModel(ctx context.Context, config model.ModelConfig) (*openai.ChatModel, error) {
	modelConfig := &openai.ChatModelConfig{
		APIKey:  config.APIKey,
		BaseURL: config.BaseURL,
		Model:   config.Model,
	}

	chatModel, err := openai.NewChatModel(ctx, modelConfig)
	if err != nil {
		return nil, fmt.Errorf("error creating chat model: %v", err)
	}

	return chatModel, nil
}

// Invoke renders the template identified by id with the given variables and
// returns the model's raw text completion. Side effect: the rendered payload
// and the raw response are appended to conversation memory, whether or not a
// later parse of the response succeeds.
func (g *Gateway) Invoke(ctx context.Context, id TemplateID, vars map[string]string) (string, error) {
	tpl, ok := g.templates[id]
	if !ok {
		return "", fmt.Errorf("unknown prompt template: %s", id)
	}

	payload := renderVars(tpl.User, vars)

	userContent := payload
	history, err := g.memory.Recent(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load conversation history: %w", err)
	}
	if len(history) > 0 {
		contextBlock, err := g.memory.BuildContext(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to build conversation context: %w", err)
		}
		userContent = contextBlock + "\n\n" + payload
	}

	messages := []*schema.Message{
		schema.SystemMessage(tpl.System),
		schema.UserMessage(userContent),
	}

	logger.Debug().
		Str("template", string(id)).
		Int("history_messages", len(history)).
		Msg("invoking chat model")

	out, err := g.model.Generate(ctx, messages,
		einomodel.WithTemperature(tpl.Params.Temperature),
		einomodel.WithMaxTokens(tpl.Params.MaxTokens),
	)
	if err != nil {
		return "", fmt.Errorf("%w: template %s: %v", model.ErrModelUnavailable, id, err)
	}

	if err := g.memory.AppendExchange(ctx, payload, out.Content); err != nil {
		logger.Warn().Err(err).Str("template", string(id)).Msg("failed to append exchange to memory")
	}

	return out.Content, nil
}

func renderVars(text string, vars map[string]string) string {
	if len(vars) == 0 {
		return text
	}
	pairs := make([]string, 0, len(vars)*2)
	for name, value := range vars {
		pairs = append(pairs, "{"+name+"}", value)
	}
	return strings.NewReplacer(pairs...).Replace(text)
}
