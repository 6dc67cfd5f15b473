package router

import (
	"medtrack/internal/adapters/llm/cohere"
	"medtrack/internal/adapters/llm/groq"
	"medtrack/internal/config"
	"medtrack/internal/domain/extraction"
)

func newGroqClient(cfg config.Config) extraction.ModelClient {
	return groq.NewClient(groq.Config{
		BaseURL: cfg.GroqBaseURL,
		APIKey:  cfg.GroqAPIKey,
		Model:   cfg.GroqModel,
		Timeout: cfg.UpstreamTimeout,
	})
}

func newCohereClient(cfg config.Config) extraction.ModelClient {
	return cohere.NewClient(cohere.Config{
		BaseURL: cfg.CohereBaseURL,
		APIKey:  cfg.CohereAPIKey,
		Model:   cfg.CohereModel,
		Timeout: cfg.UpstreamTimeout,
	})
}
