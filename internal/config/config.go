package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config agrupa toda la configuración del servicio.
// Se carga desde env vars con prefijo MEDTRACK_ (ej: MEDTRACK_HTTP_PORT).
type Config struct {
	AppName  string `envconfig:"APP_NAME" default:"medtrack-api"`
	HTTPPort int    `envconfig:"HTTP_PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Si DBDSN viene vacío, los repos caen a in-memory (modo dev).
	DBDSN string `envconfig:"DB_DSN" default:""`

	// Auth propia del servicio. Si JWTSecret viene vacío,
	// el middleware queda en modo dev (X-Debug-User-ID).
	JWTSecret string        `envconfig:"JWT_SECRET" default:""`
	JWTTTL    time.Duration `envconfig:"JWT_TTL" default:"24h"`

	// Timeout por llamada HTTP saliente (OCR / LLM / notificaciones).
	UpstreamTimeout time.Duration `envconfig:"UPSTREAM_TIMEOUT" default:"10s"`

	// OCR (ocr.space o compatible).
	OCRBaseURL string `envconfig:"OCR_BASE_URL" default:"https://api.ocr.space"`
	OCRAPIKey  string `envconfig:"OCR_API_KEY" default:""`

	// Proveedor LLM primario (chat completions estilo OpenAI).
	GroqBaseURL string `envconfig:"GROQ_BASE_URL" default:"https://api.groq.com/openai/v1"`
	GroqAPIKey  string `envconfig:"GROQ_API_KEY" default:""`
	GroqModel   string `envconfig:"GROQ_MODEL" default:"llama-3.3-70b-versatile"`

	// Proveedor LLM de fallback.
	CohereBaseURL string `envconfig:"COHERE_BASE_URL" default:"https://api.cohere.com"`
	CohereAPIKey  string `envconfig:"COHERE_API_KEY" default:""`
	CohereModel   string `envconfig:"COHERE_MODEL" default:"command-r"`

	// Substrato de notificaciones (Pushover).
	PushoverBaseURL string `envconfig:"PUSHOVER_BASE_URL" default:"https://api.pushover.net"`
	PushoverToken   string `envconfig:"PUSHOVER_TOKEN" default:""`
}

func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("medtrack", &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
