package config

import (
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	LogLevel int    `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`

	Server     ServerConfig     `yaml:"server"`
	Storage    StorageConfig    `yaml:"storage"`
	History    HistoryConfig    `yaml:"history"`
	Redis      RedisConfig      `yaml:"redis"`
	Gemini     GeminiConfig     `yaml:"gemini"`
	Mixer      MixerConfig      `yaml:"mixer"`
	Generation GenerationConfig `yaml:"generation"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type StorageConfig struct {
	// Type of storage: "local", "gcs" or "minio"
	Type string `yaml:"type"`

	// Local storage options
	OutputDir string `yaml:"output_dir"`

	// GCS and MinIO options
	Bucket          string `yaml:"bucket"`
	ObjectPrefix    string `yaml:"object_prefix"`
	PublicBaseURL   string `yaml:"public_base_url"`
	CredentialsFile string `yaml:"credentials_file"`

	Minio MinioConfig `yaml:"minio"`
}

type MinioConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Region    string `yaml:"region"`
	UseSSL    bool   `yaml:"use_ssl"`
}

type HistoryConfig struct {
	// Backend is "document" (a JSON object in storage) or "redis".
	Backend string `yaml:"backend"`
	Key     string `yaml:"key"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type GeminiConfig struct {
	APIKey      string     `yaml:"-"`
	BaseURL     string     `yaml:"base_url"`
	VideoModel  string     `yaml:"video_model"`
	SpeechModel string     `yaml:"speech_model"`
	Poll        PollConfig `yaml:"poll"`
}

type PollConfig struct {
	Interval    time.Duration `yaml:"interval"`
	MaxAttempts int           `yaml:"max_attempts"`
	MaxDuration time.Duration `yaml:"max_duration"`
}

type MixerConfig struct {
	// Validation is "permissive", "clamp" or "strict".
	Validation string `yaml:"validation"`
}

type GenerationConfig struct {
	SaveResults     bool   `yaml:"save_results"`
	DefaultLanguage string `yaml:"default_language"`
}

// Load reads the YAML file at path, applies defaults and picks up secrets
// from the environment (and a .env file, if present).
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := &Config{}

	// Unmarshal the YAML data into the struct
	err = yaml.Unmarshal(data, config)
	if err != nil {
		return nil, err
	}

	config.applyDefaults()
	config.loadSecrets()
	return config, nil
}

// Default returns a configuration with every default applied, for running
// without a config file.
func Default() *Config {
	config := &Config{}
	config.applyDefaults()
	config.loadSecrets()
	return config
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "127.0.0.1"
	}
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}

	if c.Storage.Type == "" {
		c.Storage.Type = "local"
	}
	if c.Storage.OutputDir == "" {
		c.Storage.OutputDir = "output"
	}

	if c.History.Backend == "" {
		c.History.Backend = "document"
	}
	if c.History.Key == "" {
		c.History.Key = "video_factory_history"
	}

	if c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}

	if c.Generation.DefaultLanguage == "" {
		c.Generation.DefaultLanguage = "ar"
	}
}

// loadSecrets fills the API key from GEMINI_API_KEY, falling back to API_KEY.
func (c *Config) loadSecrets() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded", "error", err)
	}

	c.Gemini.APIKey = os.Getenv("GEMINI_API_KEY")
	if c.Gemini.APIKey == "" {
		c.Gemini.APIKey = os.Getenv("API_KEY")
	}
}
