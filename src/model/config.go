package model

// ----------------------------------------------------
// ================ Config ================

// LogConfig controls zerolog initialization.
type LogConfig struct {
	Level      string `envconfig:"LOG_LEVEL" default:"info"`
	Format     string `envconfig:"LOG_FORMAT" default:"console"` // console or json
	Output     string `envconfig:"LOG_OUTPUT" default:"stdout"`  // stdout, stderr or file
	FilePath   string `envconfig:"LOG_FILE_PATH" default:"logs/agent.log"`
	TimeFormat string `envconfig:"LOG_TIME_FORMAT" default:"rfc3339"`
}

// ModelConfig holds the hosted chat model connection settings. BaseURL keeps
// the client provider-agnostic (OpenRouter, Groq, any OpenAI-compatible API).
type ModelConfig struct {
	APIKey  string `envconfig:"OPENAI_API_KEY"`
	BaseURL string `envconfig:"OPENAI_BASE_URL" default:"https://openrouter.ai/api/v1"`
	Model   string `envconfig:"OPENAI_MODEL" default:"meta-llama/llama-3.3-70b-instruct"`
}

// MemoryConfig holds conversation history settings. RedisURL empty means the
// in-process store.
type MemoryConfig struct {
	RedisURL   string `envconfig:"REDIS_URL"`
	TTLSeconds int    `envconfig:"CONVERSATION_TTL_SECONDS" default:"3600"`
	MaxTurns   int    `envconfig:"CONVERSATION_MAX_TURNS" default:"10"`
}

// SearchConfig holds the web search collaborator settings.
type SearchConfig struct {
	BaseURL        string `envconfig:"SEARCH_BASE_URL" default:"https://api.duckduckgo.com"`
	MaxResults     int    `envconfig:"SEARCH_MAX_RESULTS" default:"5"`
	TimeoutSeconds int    `envconfig:"SEARCH_TIMEOUT_SECONDS" default:"30"`
}

// TemplateParams are the per-prompt sampling settings loaded from config.yaml.
type TemplateParams struct {
	Temperature float32 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// AgentConfig is the structure of config.yaml: runtime tunables that are not
// secrets and not deployment-specific.
type AgentConfig struct {
	Model struct {
		Name string `yaml:"name"`
	} `yaml:"model"`
	Memory struct {
		MaxTurns int `yaml:"max_turns"`
	} `yaml:"memory"`
	Templates map[string]TemplateParams `yaml:"templates"`
}
