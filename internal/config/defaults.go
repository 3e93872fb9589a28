package config

import "os"

// DefaultConfig returns the built-in defaults. API keys fall back to the
// conventional unprefixed environment variables so existing deployments
// keep working.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: "8080",
		},
		Provider: ProviderConfig{
			Active: "gemini",
			Gemini: GeminiConfig{
				APIKey: os.Getenv("GEMINI_API_KEY"),
				Model:  "gemini-2.5-flash",
			},
			OpenAI: OpenAIConfig{
				APIKey: os.Getenv("OPENAI_API_KEY"),
				Model:  "gpt-4o",
			},
		},
		Pipeline: PipelineConfig{
			BatchSize: 4,
			RenderDPI: 150,
		},
	}
}
