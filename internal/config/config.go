package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Bahikhata"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"bahikhata"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	Auth struct {
		Secret      string        `envconfig:"SECRET_KEY" required:"true"`
		TokenExpiry time.Duration `envconfig:"ACCESS_TOKEN_EXPIRY" default:"30m"`
	}

	Upstream struct {
		ASRURL      string        `envconfig:"ASR_URL" default:"http://asr:8001/transcribe"`
		OCRURL      string        `envconfig:"OCR_URL" default:"http://ocr:8004/read"`
		GenerateURL string        `envconfig:"GENERATE_URL" default:"http://hf:8080/generate"`
		RetrieveURL string        `envconfig:"RETRIEVE_URL" default:"http://rag:8003/retrieve"`
		Timeout     time.Duration `envconfig:"UPSTREAM_TIMEOUT" default:"15s"`
	}

	WhatsApp struct {
		Token         string `envconfig:"WHATSAPP_API_KEY"`
		PhoneNumberID string `envconfig:"WHATSAPP_PHONE_NUMBER_ID"`
	}

	Intent struct {
		// Mode selects the classifier deployment: "rule" or "model".
		Mode      string `envconfig:"INTENT_MODE" default:"rule"`
		RulesFile string `envconfig:"INTENT_RULES_FILE"`
	}

	Report struct {
		RulesFile string `envconfig:"REPORT_RULES_FILE"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
