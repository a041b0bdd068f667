package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
)

type Config struct {
	Speech      SpeechConfig      `yaml:"speech"`
	Translation TranslationConfig `yaml:"translation"`
	Store       StoreConfig       `yaml:"store"`
	Cache       CacheConfig       `yaml:"cache"`
	Export      ExportConfig      `yaml:"export"`
	FFmpeg      FFmpegConfig      `yaml:"ffmpeg"`
}

type SpeechConfig struct {
	Endpoint       string `yaml:"endpoint"`
	Key            string `yaml:"key"`
	Voice          string `yaml:"voice"`
	OutputFormat   string `yaml:"output_format"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

func (c SpeechConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

type TranslationConfig struct {
	Provider       string `yaml:"provider"`
	Model          string `yaml:"model"`
	APIKey         string `yaml:"api_key"`
	InputLanguage  string `yaml:"input_language"`
	TargetLanguage string `yaml:"target_language"`
	Prompt         string `yaml:"prompt"`
	BufferSize     int    `yaml:"buffer_size"` // fragments buffered per stream
	Character      string `yaml:"character"`
	Background     string `yaml:"background"`
	Syllabus       string `yaml:"syllabus"`
}

type StoreConfig struct {
	Driver string `yaml:"driver"` // file or postgres
	Dir    string `yaml:"dir"`
	DSN    string `yaml:"dsn"`
}

// empty Addr disables the synthesis cache
type CacheConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	TTLHours int    `yaml:"ttl_hours"`
}

func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLHours) * time.Hour
}

type ExportConfig struct {
	Dir      string `yaml:"dir"`
	FontName string `yaml:"font_name"`
	FontSize int    `yaml:"font_size"`
}

type FFmpegConfig struct {
	FFmpegPath  string `yaml:"ffmpeg_path"`
	FFprobePath string `yaml:"ffprobe_path"`
}

// Default returns a validated config with every default filled in.
func Default() *Config {
	cfg := &Config{}
	_ = cfg.Validate()
	return cfg
}

// Load reads a YAML config file. An empty path yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// Validate fills defaults and rejects unknown choices.
func (c *Config) Validate() error {
	if c.Speech.OutputFormat == "" {
		c.Speech.OutputFormat = "raw-16khz-16bit-mono-pcm"
	}
	if c.Speech.Voice == "" {
		c.Speech.Voice = "en-US-AvaMultilingualNeural"
	}
	if c.Speech.TimeoutSeconds <= 0 {
		c.Speech.TimeoutSeconds = 30
	}

	if c.Translation.Provider == "" {
		c.Translation.Provider = "gemini"
	}
	switch c.Translation.Provider {
	case "gemini", "openai", "anthropic":
	default:
		return fmt.Errorf("unsupported translation provider: %s", c.Translation.Provider)
	}
	if c.Translation.BufferSize <= 0 {
		c.Translation.BufferSize = 32
	}

	if c.Store.Driver == "" {
		c.Store.Driver = "file"
	}
	switch c.Store.Driver {
	case "file":
		if c.Store.Dir == "" {
			c.Store.Dir = "documents"
		}
	case "postgres":
	default:
		return fmt.Errorf("unsupported store driver: %s", c.Store.Driver)
	}

	if c.Cache.TTLHours <= 0 {
		c.Cache.TTLHours = 24 * 7
	}

	if c.Export.Dir == "" {
		c.Export.Dir = "."
	}
	if c.Export.FontName == "" {
		c.Export.FontName = "Arial"
	}
	if c.Export.FontSize <= 0 {
		c.Export.FontSize = 64
	}

	return nil
}

// CheckPostgres reports a postgres store configured without a DSN.
func (c *Config) CheckPostgres() error {
	if c.Store.Driver == "postgres" && c.Store.DSN == "" {
		return errors.New("store.dsn or SUBDUB_DATABASE_URL is required for the postgres store")
	}
	return nil
}
