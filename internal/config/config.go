package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"call-analysis-go/internal/record"
)

// Config is the complete service configuration.
type Config struct {
	OpenAI  OpenAIConfig  `yaml:"openai"`
	Store   StoreConfig   `yaml:"store"`
	Source  SourceConfig  `yaml:"source"`
	Record  RecordConfig  `yaml:"record"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
}

// OpenAIConfig covers both remote model calls. With the azure provider the
// model identifiers are deployment names.
type OpenAIConfig struct {
	Provider           string        `yaml:"provider"` // azure|openai
	Endpoint           string        `yaml:"endpoint"`
	APIKey             string        `yaml:"api_key"`
	APIVersion         string        `yaml:"api_version"`
	TranscriptionModel string        `yaml:"transcription_model"`
	CompletionModel    string        `yaml:"completion_model"`
	MaxTokens          int           `yaml:"max_tokens"`
	Timeout            time.Duration `yaml:"timeout"`
}

// StoreConfig selects and configures the document store.
type StoreConfig struct {
	Backend    string       `yaml:"backend"` // cosmos|mongo|s3|xlsx|stdout
	Database   string       `yaml:"database"`
	Collection string       `yaml:"collection"`
	Cosmos     CosmosConfig `yaml:"cosmos"`
	Mongo      MongoConfig  `yaml:"mongo"`
	S3         S3Config     `yaml:"s3"`
	XLSX       XLSXConfig   `yaml:"xlsx"`
}

type CosmosConfig struct {
	ConnectionString string `yaml:"connection_string"`
}

type MongoConfig struct {
	URI            string        `yaml:"uri"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

// S3Config is shared by the S3 document store and the S3 recording source.
type S3Config struct {
	Bucket         string `yaml:"bucket"`
	Prefix         string `yaml:"prefix"`
	Region         string `yaml:"region"`
	Endpoint       string `yaml:"endpoint"`
	AccessKey      string `yaml:"access_key"`
	SecretKey      string `yaml:"secret_key"`
	ForcePathStyle bool   `yaml:"force_path_style"`
}

type XLSXConfig struct {
	Path  string `yaml:"path"`
	Sheet string `yaml:"sheet"`
}

// SourceConfig configures where recordings can be fetched from.
type SourceConfig struct {
	S3 S3Config `yaml:"s3"`
}

// RecordConfig pins how partition keys and record ids are formatted.
type RecordConfig struct {
	Locale   string `yaml:"locale"`
	Timezone string `yaml:"timezone"`
	IDScheme string `yaml:"id_scheme"` // timestamp|uuid
}

type ServerConfig struct {
	Address        string        `yaml:"address"`
	MaxUploadBytes int64         `yaml:"max_upload_bytes"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	Version        string        `yaml:"version"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		OpenAI: OpenAIConfig{
			Provider:           "azure",
			APIVersion:         "2024-02-01",
			TranscriptionModel: "whi-td",
			CompletionModel:    "gpt-4",
			MaxTokens:          500,
			Timeout:            2 * time.Minute,
		},
		Store: StoreConfig{
			Backend:    "cosmos",
			Database:   "callAnalyses",
			Collection: "customer1",
			Mongo:      MongoConfig{ConnectTimeout: 10 * time.Second},
			S3:         S3Config{Region: "us-east-1", Prefix: "analyses"},
			XLSX:       XLSXConfig{Path: "call_analyses.xlsx", Sheet: "Analyses"},
		},
		Source: SourceConfig{
			S3: S3Config{Region: "us-east-1"},
		},
		Record: RecordConfig{
			Locale:   "en",
			Timezone: "Local",
			IDScheme: "timestamp",
		},
		Server: ServerConfig{
			Address:        ":8080",
			MaxUploadBytes: 25 << 20,
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   5 * time.Minute,
			Version:        "V0.5",
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads an optional YAML file over the defaults, applies environment
// overrides and validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.OpenAI.APIKey, "AZURE_OPENAI_API_KEY", "OPENAI_API_KEY")
	setString(&c.OpenAI.Endpoint, "AZURE_OPENAI_ENDPOINT", "OPENAI_BASE_URL")
	setString(&c.OpenAI.TranscriptionModel, "TRANSCRIPTION_MODEL")
	setString(&c.OpenAI.CompletionModel, "COMPLETION_MODEL")
	setString(&c.Store.Backend, "STORE_BACKEND")
	setString(&c.Store.Cosmos.ConnectionString, "COSMOSDB_CONNSTRING")
	setString(&c.Store.Mongo.URI, "MONGODB_URI")
	setString(&c.Source.S3.Bucket, "RECORDINGS_BUCKET")
	setString(&c.Logging.Level, "LOG_LEVEL")
	setString(&c.Record.Locale, "RECORD_LOCALE")
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Address = ":" + v
	}
	if v := os.Getenv("MAX_TOKENS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("MAX_TOKENS: %w", err)
		}
		c.OpenAI.MaxTokens = n
	}
	return nil
}

// setString assigns the first non-empty environment variable among keys.
func setString(dst *string, keys ...string) {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			*dst = v
			return
		}
	}
}

// Validate performs validation of every section.
func (c *Config) Validate() error {
	if err := c.OpenAI.Validate(); err != nil {
		return fmt.Errorf("openai config: %w", err)
	}
	if err := c.Store.Validate(); err != nil {
		return fmt.Errorf("store config: %w", err)
	}
	if err := c.Record.Validate(); err != nil {
		return fmt.Errorf("record config: %w", err)
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}
	return nil
}

func (o *OpenAIConfig) Validate() error {
	switch o.Provider {
	case "azure":
		if o.Endpoint == "" {
			return errors.New("endpoint is required for the azure provider")
		}
		if o.APIVersion == "" {
			return errors.New("api_version is required for the azure provider")
		}
	case "openai":
	default:
		return fmt.Errorf("unknown provider %q", o.Provider)
	}
	if o.APIKey == "" {
		return errors.New("api_key cannot be empty")
	}
	if o.TranscriptionModel == "" || o.CompletionModel == "" {
		return errors.New("transcription_model and completion_model are required")
	}
	if o.MaxTokens < 1 {
		return fmt.Errorf("max_tokens must be positive, got %d", o.MaxTokens)
	}
	return nil
}

func (s *StoreConfig) Validate() error {
	switch s.Backend {
	case "cosmos":
		if s.Cosmos.ConnectionString == "" {
			return errors.New("cosmos.connection_string cannot be empty")
		}
	case "mongo":
		if s.Mongo.URI == "" {
			return errors.New("mongo.uri cannot be empty")
		}
	case "s3":
		if s.S3.Bucket == "" {
			return errors.New("s3.bucket cannot be empty")
		}
		return nil
	case "xlsx":
		if s.XLSX.Path == "" || s.XLSX.Sheet == "" {
			return errors.New("xlsx.path and xlsx.sheet are required")
		}
		return nil
	case "stdout":
		return nil
	default:
		return fmt.Errorf("unknown backend %q", s.Backend)
	}
	if s.Database == "" || s.Collection == "" {
		return errors.New("database and collection are required")
	}
	return nil
}

func (r *RecordConfig) Validate() error {
	if !record.SupportedLocale(r.Locale) {
		return fmt.Errorf("unsupported locale %q", r.Locale)
	}
	if _, err := time.LoadLocation(r.Timezone); err != nil {
		return fmt.Errorf("timezone: %w", err)
	}
	if r.IDScheme != "timestamp" && r.IDScheme != "uuid" {
		return fmt.Errorf("id_scheme must be timestamp or uuid, got %q", r.IDScheme)
	}
	return nil
}

func (s *ServerConfig) Validate() error {
	if s.Address == "" {
		return errors.New("address cannot be empty")
	}
	if s.MaxUploadBytes < 1 {
		return fmt.Errorf("max_upload_bytes must be positive, got %d", s.MaxUploadBytes)
	}
	return nil
}

func (l *LoggingConfig) Validate() error {
	switch l.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", l.Level)
	}
	switch l.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("invalid log format %q", l.Format)
	}
	return nil
}
