package model

// ================ Config ================

// Provider names for the two supported deployment variants. Both speak the
// OpenAI chat-completion wire format; Groq differs only in endpoint, model,
// preview size and the absence of a hosted moderation check.
const (
	ProviderOpenAI = "openai"
	ProviderGroq   = "groq"
)

// ProviderConfig selects and tunes the chat-completion deployment variant.
type ProviderConfig struct {
	Name        string  `envconfig:"LLM_PROVIDER" default:"openai"`
	Model       string  `envconfig:"LLM_MODEL"`
	BaseURL     string  `envconfig:"LLM_BASE_URL"`
	OpenAIKey   string  `envconfig:"OPENAI_API_KEY"`
	GroqKey     string  `envconfig:"GROQ_API_KEY"`
	Temperature float32 `envconfig:"LLM_TEMPERATURE" default:"0.3"`
	MaxTokens   int     `envconfig:"LLM_MAX_OUTPUT_TOKENS" default:"1500"`
	Timeout     int     `envconfig:"LLM_TIMEOUT_SECONDS" default:"30"`
}

// APIKey returns the credential for the active variant. Empty means the
// pipeline stays disabled for this process.
func (c ProviderConfig) APIKey() string {
	if c.Name == ProviderGroq {
		return c.GroqKey
	}
	return c.OpenAIKey
}

// ResolvedModel falls back to the variant's fixed default model.
func (c ProviderConfig) ResolvedModel() string {
	if c.Model != "" {
		return c.Model
	}
	if c.Name == ProviderGroq {
		return "llama-3.1-8b-instant"
	}
	return "gpt-3.5-turbo"
}

// ResolvedBaseURL falls back to the variant's default endpoint.
func (c ProviderConfig) ResolvedBaseURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	if c.Name == ProviderGroq {
		return "https://api.groq.com/openai/v1"
	}
	return ""
}

// ModerationEnabled reports whether the variant runs the hosted moderation
// check before completion calls. Only the OpenAI variant exposes one.
func (c ProviderConfig) ModerationEnabled() bool {
	return c.Name != ProviderGroq
}

// PreviewRows is the fixed data-preview cap for the variant.
func (c ProviderConfig) PreviewRows() int {
	if c.Name == ProviderGroq {
		return 50
	}
	return 20
}

// GuardConfig bounds the free-text user input.
type GuardConfig struct {
	MaxInputTokens int `envconfig:"GUARD_MAX_INPUT_TOKENS" default:"1024"`
}

// SessionConfig controls session storage and the per-analysis action limits.
type SessionConfig struct {
	Store        string `envconfig:"SESSION_STORE" default:"memory"`
	TTL          string `envconfig:"SESSION_TTL" default:"30m"`
	MaxGraphs    int    `envconfig:"SESSION_MAX_GRAPHS" default:"2"`
	MaxFollowUps int    `envconfig:"SESSION_MAX_FOLLOW_UPS" default:"2"`
}
