package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadEnv loads a dotenv file into the process environment. With an empty
// envfile a ".env" in the working directory is used when present; an
// explicitly named file must exist.
func LoadEnv(envfile string) error {
	path := envfile
	if path == "" {
		path = ".env"
	}

	if _, err := os.Stat(path); err != nil {
		if envfile == "" && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("error envfile: %w", err)
	}

	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("error loading envfile: %w", err)
	}
	return nil
}

// ApplyEnv overrides config values from SUBDUB_* and provider key variables.
func (c *Config) ApplyEnv() {
	setString(&c.Speech.Key, "SUBDUB_SPEECH_KEY")
	setString(&c.Speech.Endpoint, "SUBDUB_SPEECH_ENDPOINT")
	setString(&c.Store.DSN, "SUBDUB_DATABASE_URL")
	setString(&c.Cache.Addr, "SUBDUB_REDIS_ADDR")
	setString(&c.Cache.Password, "SUBDUB_REDIS_PASSWORD")
	setString(&c.FFmpeg.FFmpegPath, "SUBDUB_FFMPEG_PATH")
	setString(&c.FFmpeg.FFprobePath, "SUBDUB_FFPROBE_PATH")

	if v := os.Getenv("SUBDUB_REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			c.Cache.DB = db
		}
	}
	if c.Store.DSN != "" && os.Getenv("SUBDUB_DATABASE_URL") != "" {
		c.Store.Driver = "postgres"
	}
}

// TranslationAPIKey returns the configured key, falling back to the
// provider's conventional environment variable.
func (c *Config) TranslationAPIKey() string {
	if c.Translation.APIKey != "" {
		return c.Translation.APIKey
	}
	switch c.Translation.Provider {
	case "openai":
		return os.Getenv("OPENAI_API_KEY")
	case "anthropic":
		return os.Getenv("ANTHROPIC_API_KEY")
	default:
		return os.Getenv("GEMINI_API_KEY")
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
