package config

import "testing"

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != "8080" {
		t.Errorf("unexpected server defaults: %s:%s", cfg.Server.Host, cfg.Server.Port)
	}
	if cfg.Provider.Active != "gemini" {
		t.Errorf("expected gemini as default provider, got %s", cfg.Provider.Active)
	}
	if cfg.Pipeline.BatchSize != 4 || cfg.Pipeline.RenderDPI != 150 {
		t.Errorf("unexpected pipeline defaults: %+v", cfg.Pipeline)
	}
}

func TestConfig_Validate(t *testing.T) {
	cases := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "gemini with key",
			cfg: Config{Provider: ProviderConfig{
				Active: "gemini",
				Gemini: GeminiConfig{APIKey: "k"},
			}},
		},
		{
			name: "gemini without key",
			cfg: Config{Provider: ProviderConfig{
				Active: "gemini",
			}},
			wantErr: true,
		},
		{
			name: "openai with key",
			cfg: Config{Provider: ProviderConfig{
				Active: "openai",
				OpenAI: OpenAIConfig{APIKey: "k"},
			}},
		},
		{
			name: "openai without key",
			cfg: Config{Provider: ProviderConfig{
				Active: "openai",
			}},
			wantErr: true,
		},
		{
			name:    "unknown provider",
			cfg:     Config{Provider: ProviderConfig{Active: "llama"}},
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr && err == nil {
				t.Error("expected error")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
