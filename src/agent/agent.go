package agent

import (
	"context"
	"errors"
	"strings"

	"chat_agent/src/intent"
	"chat_agent/src/llm"
	"chat_agent/src/logger"
	"chat_agent/src/model"
	"chat_agent/src/search"
)

// ApologyMessage is the entire user-visible result of a failed turn.
const ApologyMessage = "An error occurred while processing your query. Please try again."

const (
	greetingHowAreYou = "I'm good, thank you! How can I help you today?"
	greetingGeneric   = "Hello! What can I help you with today?"
)

// Agent runs the per-turn pipeline: contextual rewrite, intent classification,
// branch dispatch, slot extraction, display normalization, follow-up question
// generation. One turn is in flight at a time per Agent; LastQuery and the
// session memory assume exclusive single-threaded access.
type Agent struct {
	gateway   *llm.Gateway
	search    search.Client
	lastQuery string
}

// New builds an agent over a model gateway and a search collaborator.
func New(gateway *llm.Gateway, searchClient search.Client) *Agent {
	return &Agent{gateway: gateway, search: searchClient}
}

// Respond processes one user utterance and returns the turn's response. A
// failed pipeline stage is converted into an apology response carrying the
// error kind plus whatever was already built; it never panics or returns nil.
func (a *Agent) Respond(ctx context.Context, query string) *model.TurnResponse {
	response := &model.TurnResponse{}

	absoluteQuery, err := a.resolveContext(ctx, query)
	if err != nil {
		return a.fail(response, model.StageContextResolve, err)
	}
	logger.Info().Str("absolute_query", absoluteQuery).Msg("resolved contextual references")

	category, confidence, err := a.classify(ctx, absoluteQuery)
	if err != nil {
		return a.fail(response, model.StageClassify, err)
	}
	logger.Info().Str("intent_category", category).Float64("confidence_score", confidence).Msg("classified intent")

	response.IntentCategory = category
	response.ConfidenceScore = confidence

	parsed, known := model.ParseCategory(category)
	if !known {
		return a.fail(response, model.StageNoMatchingIntent, model.ErrNoMatchingIntent)
	}

	switch {
	case parsed == model.CategoryOther:
		return a.respondWithSearch(ctx, absoluteQuery, response)
	case parsed == model.CategoryGreetings:
		response.Response = greetingResponse(absoluteQuery)
		return response
	case parsed.IsSlotBased():
		return a.respondWithSlots(ctx, absoluteQuery, parsed, response)
	default:
		return a.fail(response, model.StageNoMatchingIntent, model.ErrNoMatchingIntent)
	}
}

// resolveContext rewrites the raw query into a self-contained one using the
// previous utterance. LastQuery is overwritten with the incoming raw query
// before the model call returns; later turns resolve against raw input, not
// against resolved output.
func (a *Agent) resolveContext(ctx context.Context, query string) (string, error) {
	last := strings.TrimSpace(a.lastQuery)

	var input string
	if last != "" {
		input = "Context:\nUser: " + last + "\n\nquery: " + query
	} else {
		input = "Context:\n\nquery: " + query
	}

	a.lastQuery = query

	raw, err := a.gateway.Invoke(ctx, llm.TemplateContextualRewrite, map[string]string{"input": input})
	if err != nil {
		return "", err
	}

	obj, err := llm.ExtractObject(model.StageContextResolve, raw)
	if err != nil {
		return "", err
	}

	return llm.StringField(model.StageContextResolve, raw, obj, "response")
}

// classify asks the model for the intent category and confidence score. The
// category value is trusted model output here; the caller validates it against
// the closed set. Confidence is surfaced, never thresholded.
func (a *Agent) classify(ctx context.Context, absoluteQuery string) (string, float64, error) {
	raw, err := a.gateway.Invoke(ctx, llm.TemplateIntentClassifier, map[string]string{"query": absoluteQuery})
	if err != nil {
		return "", 0, err
	}

	obj, err := llm.ExtractObject(model.StageClassify, raw)
	if err != nil {
		return "", 0, err
	}

	category, err := llm.StringField(model.StageClassify, raw, obj, "intent_category")
	if err != nil {
		return "", 0, err
	}

	confidence, err := llm.FloatField(model.StageClassify, raw, obj, "confidence_score")
	if err != nil {
		return "", 0, err
	}

	return category, confidence, nil
}

// respondWithSearch handles the "other" branch: condense the query into a web
// search string, run the search, attach the results. No slot extraction, no
// follow-up questions.
func (a *Agent) respondWithSearch(ctx context.Context, absoluteQuery string, response *model.TurnResponse) *model.TurnResponse {
	raw, err := a.gateway.Invoke(ctx, llm.TemplateWebSearchQuery, map[string]string{"query": absoluteQuery})
	if err != nil {
		return a.fail(response, model.StageWebSearch, err)
	}

	obj, err := llm.ExtractObject(model.StageWebSearch, raw)
	if err != nil {
		return a.fail(response, model.StageWebSearch, err)
	}

	searchQuery, err := llm.StringField(model.StageWebSearch, raw, obj, "response")
	if err != nil {
		return a.fail(response, model.StageWebSearch, err)
	}

	results, err := a.search.Search(ctx, searchQuery)
	if err != nil {
		return a.fail(response, model.StageWebSearch, err)
	}
	logger.Info().Str("search_query", searchQuery).Int("results", len(results)).Msg("web search completed")

	response.WebSearchResponse = results
	return response
}

// respondWithSlots handles the four slot-based intents: fresh record, entity
// extraction merge, display normalization, follow-up question generation.
func (a *Agent) respondWithSlots(ctx context.Context, absoluteQuery string, category model.Category, response *model.TurnResponse) *model.TurnResponse {
	record, err := intent.NewRecord(category)
	if err != nil {
		return a.fail(response, model.StageNoMatchingIntent, err)
	}

	extracted, err := a.extractEntities(ctx, absoluteQuery, record.Slots())
	if err != nil {
		return a.fail(response, model.StageEntityExtraction, err)
	}

	if skipped := record.Merge(extracted); len(skipped) > 0 {
		logger.Warn().Strs("keys", skipped).Msg("extraction returned keys outside the active schema")
	}
	logger.Info().Str("intent_category", string(category)).Int("extracted", len(extracted)).Msg("entities merged into slot record")

	// Presentation copy only; follow-up generation sees the raw record so
	// missing values still drive questions.
	response.KeyEntities = record.Display()

	questions, err := a.followUpQuestions(ctx, absoluteQuery, record)
	if err != nil {
		return a.fail(response, model.StageFollowUp, err)
	}
	logger.Info().Int("questions", len(questions)).Msg("follow up questions generated")

	response.FollowUpQuestions = questions
	return response
}

func (a *Agent) extractEntities(ctx context.Context, absoluteQuery string, slots []string) (map[string]any, error) {
	input := "Key Entities: " + intent.KeyList(slots) + "\nUser: " + absoluteQuery

	raw, err := a.gateway.Invoke(ctx, llm.TemplateEntityExtraction, map[string]string{"input": input})
	if err != nil {
		return nil, err
	}

	return llm.ExtractObject(model.StageEntityExtraction, raw)
}

func (a *Agent) followUpQuestions(ctx context.Context, absoluteQuery string, record *intent.Record) ([]string, error) {
	input := "User: " + absoluteQuery + "\n\nInfo:\n" + record.PromptJSON()

	raw, err := a.gateway.Invoke(ctx, llm.TemplateFollowUpQuestions, map[string]string{"input": input})
	if err != nil {
		return nil, err
	}

	obj, err := llm.ExtractObject(model.StageFollowUp, raw)
	if err != nil {
		return nil, err
	}

	return llm.StringListField(model.StageFollowUp, raw, obj, "response")
}

// fail converts a stage failure into the apology response, keeping whatever
// fields were already assembled. The error never escapes to the caller.
func (a *Agent) fail(response *model.TurnResponse, stage string, err error) *model.TurnResponse {
	var malformed *model.MalformedResponseError
	if errors.As(err, &malformed) {
		stage = malformed.Stage
	}

	logger.Error().Err(err).Str("stage", stage).Msg("turn aborted")

	response.Error = stage
	response.Response = ApologyMessage
	return response
}

func greetingResponse(absoluteQuery string) string {
	lowered := strings.ToLower(absoluteQuery)
	if strings.Contains(lowered, "how are you") || strings.Contains(lowered, "how you") {
		return greetingHowAreYou
	}
	return greetingGeneric
}
