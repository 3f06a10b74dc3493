package config

import "strings"

// ChatConfig contains configuration for the chat completion provider.
// Absence of the API key disables chat with an explicit error rather than
// failing silently.
type ChatConfig struct {
	APIKey    string `env:"OPENAI_API_KEY"`
	Model     string `env:"OPENAI_MODEL"      envDefault:"gpt-4o-mini"`
	BaseURL   string `env:"OPENAI_BASE_URL"   envDefault:"https://api.openai.com/v1"`
	MaxTokens int    `env:"OPENAI_MAX_TOKENS" envDefault:"512"`
}

// Sanitize applies guardrails to chat configuration values.
func (c *ChatConfig) Sanitize() {
	c.APIKey = strings.TrimSpace(c.APIKey)
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.Model == "" {
		c.Model = "gpt-4o-mini"
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = 512
	}
}

// Enabled returns true when the completion provider is configured.
func (c *ChatConfig) Enabled() bool { return c.APIKey != "" }
