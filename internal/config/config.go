package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v10"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Backends del slot durable del cuaderno.
const (
	StoreBolt     = "bolt"
	StoreSQLite   = "sqlite"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Config centraliza la configuración del relay y del cliente.
type Config struct {
	HTTPPort      string `env:"HTTP_PORT" envDefault:"8080"`
	LLMProvider   string `env:"LLM_PROVIDER" envDefault:"gemini"`
	GeminiAPIKey  string `env:"GEMINI_API_KEY"`
	OpenAIAPIKey  string `env:"OPENAI_API_KEY"`
	LLMBaseURL    string `env:"LLM_BASE_URL" envDefault:"https://api.openai.com/v1"`
	LLMModel      string `env:"LLM_MODEL"`
	ServerURL     string `env:"CHAT_SERVER_URL" envDefault:"http://localhost:8080"`
	NotebookStore string `env:"NOTEBOOK_STORE" envDefault:"bolt"`
	NotebookPath  string `env:"NOTEBOOK_PATH" envDefault:"notebook.db"`
	DatabaseURL   string `env:"DATABASE_URL"`
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
}

// LoadConfig carga la configuración desde variables de entorno.
// La API key no es obligatoria: su ausencia se reporta por request.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	cfg.LLMProvider = strings.ToLower(strings.TrimSpace(cfg.LLMProvider))
	cfg.NotebookStore = strings.ToLower(strings.TrimSpace(cfg.NotebookStore))
	return &cfg, nil
}

// APIKey devuelve la credencial del proveedor activo.
func (c *Config) APIKey() string {
	if c.LLMProvider == ProviderOpenAI {
		return c.OpenAIAPIKey
	}
	return c.GeminiAPIKey
}

// APIKeyEnv devuelve el nombre de la variable que contiene la credencial activa.
func (c *Config) APIKeyEnv() string {
	if c.LLMProvider == ProviderOpenAI {
		return "OPENAI_API_KEY"
	}
	return "GEMINI_API_KEY"
}

// MissingKeyMessage es el mensaje expuesto al cliente cuando falta la credencial.
func (c *Config) MissingKeyMessage() string {
	return fmt.Sprintf("API key not configured. Please add %s to .env", c.APIKeyEnv())
}
