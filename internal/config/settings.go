package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Settings is read once at startup and handed to every component that needs it.
type Settings struct {
	AppName         string
	Env             string
	Region          string
	KnowledgeBaseID string

	LLMProvider   string
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string
	GoogleAPIKey  string
	GeminiModel   string

	DefaultTopK int
	ListenAddr  string
}

// ConfigurationError aborts startup.
type ConfigurationError struct {
	Setting string
	Reason  string
	Err     error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("config %s: %s: %v", e.Setting, e.Reason, e.Err)
	}
	return fmt.Sprintf("config %s: %s", e.Setting, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// Load reads the optional env files (process environment wins) and resolves Settings.
func Load(envFiles ...string) (Settings, error) {
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Settings{}, &ConfigurationError{Setting: file, Reason: "unreadable env file", Err: err}
		}
	}

	s := Settings{
		AppName:         getEnv("APP_NAME", defaultAppName),
		Env:             getEnv("ENV", defaultEnv),
		Region:          getEnv("AWS_DEFAULT_REGION", defaultRegion),
		KnowledgeBaseID: getEnv("BEDROCK_KNOWLEDGE_BASE_ID", ""),
		LLMProvider:     strings.ToLower(getEnv("LLM_PROVIDER", defaultProvider)),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:     getEnv("OPENAI_MODEL", defaultOpenAIModel),
		OpenAIBaseURL:   getEnv("OPENAI_BASE_URL", ""),
		GoogleAPIKey:    getEnv("GOOGLE_API_KEY", ""),
		GeminiModel:     getEnv("GEMINI_MODEL", defaultGeminiModel),
		ListenAddr:      getEnv("LISTEN_ADDR", defaultListenAddr),
	}

	topK, err := getEnvInt("DEFAULT_TOP_K", defaultTopK)
	if err != nil {
		return Settings{}, err
	}
	s.DefaultTopK = topK

	return s, s.validate()
}

func (s Settings) validate() error {
	if s.KnowledgeBaseID == "" {
		return &ConfigurationError{Setting: "BEDROCK_KNOWLEDGE_BASE_ID", Reason: "required"}
	}
	switch s.LLMProvider {
	case ProviderOpenAI:
		if s.OpenAIAPIKey == "" {
			return &ConfigurationError{Setting: "OPENAI_API_KEY", Reason: "required"}
		}
	case ProviderGemini:
		if s.GoogleAPIKey == "" {
			return &ConfigurationError{Setting: "GOOGLE_API_KEY", Reason: "required when LLM_PROVIDER=gemini"}
		}
	default:
		return &ConfigurationError{Setting: "LLM_PROVIDER", Reason: fmt.Sprintf("unknown provider %q", s.LLMProvider)}
	}
	if !ValidTopK(s.DefaultTopK) {
		return &ConfigurationError{
			Setting: "DEFAULT_TOP_K",
			Reason:  fmt.Sprintf("%d is outside [%d, %d]", s.DefaultTopK, MinTopK, MaxTopK),
		}
	}
	return nil
}

func (s Settings) IsProd() bool {
	return strings.EqualFold(s.Env, "prod") || strings.EqualFold(s.Env, "production")
}

// ModelName is the model used by the selected provider.
func (s Settings) ModelName() string {
	if s.LLMProvider == ProviderGemini {
		return s.GeminiModel
	}
	return s.OpenAIModel
}

func ValidTopK(k int) bool {
	return k >= MinTopK && k <= MaxTopK
}

func getEnv(key string, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &ConfigurationError{Setting: key, Reason: "not an integer", Err: err}
	}
	return v, nil
}
