package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the configuration for the retrieval service
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Documents DocumentsConfig `yaml:"documents"`
	Analysis  AnalysisConfig  `yaml:"analysis"`
	Search    SearchConfig    `yaml:"search"`
}

type ServerConfig struct {
	Port         string        `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DocumentsConfig controls which directory is selected at startup and how
// file extensions are matched.
type DocumentsConfig struct {
	Directory       string `yaml:"directory"`
	CaseInsensitive bool   `yaml:"case_insensitive"`
}

// AnalysisConfig selects the text preprocessing strategy
type AnalysisConfig struct {
	Preprocessor  string `yaml:"preprocessor"`
	Language      string `yaml:"language"`
	StopwordsFile string `yaml:"stopwords_file"`
	UseStopwords  bool   `yaml:"use_stopwords"`
	TopTerms      int    `yaml:"top_terms"`
}

type SearchConfig struct {
	Mode string `yaml:"mode"`
}

// Default returns the configuration used when neither a file nor the
// environment overrides a value.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         ":8080",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 60 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Documents: DocumentsConfig{
			CaseInsensitive: true,
		},
		Analysis: AnalysisConfig{
			Preprocessor: "rule",
			Language:     "indonesian",
			UseStopwords: true,
			TopTerms:     10,
		},
		Search: SearchConfig{
			Mode: "count",
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file named by
// CONFIG_FILE, and environment variables (a .env file is loaded first if present).
// Environment variables take precedence over the file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path := GetStringEnv("CONFIG_FILE", ""); path != "" {
		if err := LoadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	cfg.Server.Port = GetStringEnv("SERVER_PORT", cfg.Server.Port)
	cfg.Server.ReadTimeout = GetDurationEnv("SERVER_READ_TIMEOUT", cfg.Server.ReadTimeout)
	cfg.Server.WriteTimeout = GetDurationEnv("SERVER_WRITE_TIMEOUT", cfg.Server.WriteTimeout)

	cfg.Log.Level = GetStringEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = GetStringEnv("LOG_FORMAT", cfg.Log.Format)

	cfg.Documents.Directory = GetStringEnv("DOCUMENTS_DIR", cfg.Documents.Directory)
	cfg.Documents.CaseInsensitive = GetBoolEnv("DOCUMENTS_CASE_INSENSITIVE", cfg.Documents.CaseInsensitive)

	cfg.Analysis.Preprocessor = GetStringEnv("ANALYSIS_PREPROCESSOR", cfg.Analysis.Preprocessor)
	cfg.Analysis.Language = GetStringEnv("ANALYSIS_LANGUAGE", cfg.Analysis.Language)
	cfg.Analysis.StopwordsFile = GetStringEnv("ANALYSIS_STOPWORDS_FILE", cfg.Analysis.StopwordsFile)
	cfg.Analysis.UseStopwords = GetBoolEnv("ANALYSIS_USE_STOPWORDS", cfg.Analysis.UseStopwords)
	cfg.Analysis.TopTerms = GetIntEnv("ANALYSIS_TOP_TERMS", cfg.Analysis.TopTerms)

	cfg.Search.Mode = GetStringEnv("SEARCH_MODE", cfg.Search.Mode)

	return cfg, nil
}

// LoadFile overlays the YAML file at path onto cfg. Keys absent from the file
// keep their current values.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

func GetStringEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func GetIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func GetBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func GetDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
