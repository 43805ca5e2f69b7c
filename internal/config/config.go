package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// Server
	Port        int    `envconfig:"PORT" default:"3000"`
	Environment string `envconfig:"ENV" default:"development"`

	// Database
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	// Face API (external recognition backend)
	FaceAPIURL        string  `envconfig:"FACE_API_URL" default:"http://localhost:8000"`
	DefaultModel      string  `envconfig:"FACE_DEFAULT_MODEL" default:"magface"`
	DefaultThreshold  float64 `envconfig:"FACE_DEFAULT_THRESHOLD" default:"0.5"`
	DefaultMinQuality int     `envconfig:"FACE_DEFAULT_MIN_QUALITY" default:"1"`

	// Detection
	CascadeDir       string  `envconfig:"CASCADE_DIR" default:"assets/cascades"`
	MinFaceSize      int     `envconfig:"MIN_FACE_SIZE" default:"80"`
	MarginHorizontal float64 `envconfig:"CROP_MARGIN_HORIZONTAL" default:"0.2"`
	MarginVertical   float64 `envconfig:"CROP_MARGIN_VERTICAL" default:"0.3"`
	CropDumpDir      string  `envconfig:"CROP_DUMP_DIR" default:"data/crops"`

	// Security
	APIKey string `envconfig:"API_KEY" required:"true"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
