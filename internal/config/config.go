package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds the environment driven configuration for the media service.
type Config struct {
	// Service Configuration
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"drone-media-api"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	HTTPPort        int           `env:"HTTP_PORT" envDefault:"8180"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	EnableTracing   bool          `env:"ENABLE_TRACING" envDefault:"false"`
	OTLPEndpoint    string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Document store (MongoDB)
	MongoURI        string        `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDatabase   string        `env:"MONGO_DATABASE" envDefault:"DroneMediaDB"`
	MongoCollection string        `env:"MONGO_COLLECTION" envDefault:"media"`
	MongoTimeout    time.Duration `env:"MONGO_TIMEOUT" envDefault:"10s"`

	// Object store (S3-compatible)
	S3Endpoint     string `env:"MEDIA_S3_ENDPOINT"`
	S3Region       string `env:"MEDIA_S3_REGION" envDefault:"us-east-1"`
	S3Bucket       string `env:"MEDIA_S3_BUCKET" envDefault:"media-files"`
	S3AccessKeyID  string `env:"MEDIA_S3_ACCESS_KEY_ID"`
	S3SecretKey    string `env:"MEDIA_S3_SECRET_ACCESS_KEY"`
	S3UsePathStyle bool   `env:"MEDIA_S3_USE_PATH_STYLE" envDefault:"true"`

	// Vision analysis adapter
	VisionEndpoint string        `env:"VISION_ENDPOINT"`
	VisionKey      string        `env:"VISION_KEY"`
	VisionTimeout  time.Duration `env:"VISION_TIMEOUT" envDefault:"30s"`

	// Media Configuration
	MaxMediaBytes int64 `env:"MEDIA_MAX_BYTES" envDefault:"104857600"`
}

// Load parses environment variables into Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	cfg.S3Bucket = strings.TrimSpace(cfg.S3Bucket)
	cfg.S3AccessKeyID = strings.TrimSpace(cfg.S3AccessKeyID)
	cfg.S3SecretKey = strings.TrimSpace(cfg.S3SecretKey)
	cfg.S3Endpoint = strings.TrimSpace(cfg.S3Endpoint)
	cfg.VisionEndpoint = strings.TrimSpace(cfg.VisionEndpoint)
	cfg.VisionKey = strings.TrimSpace(cfg.VisionKey)
	if cfg.MaxMediaBytes <= 0 {
		cfg.MaxMediaBytes = 100 * 1024 * 1024
	}
	return cfg, nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// VisionConfigured reports whether the vision adapter credentials are set.
func (c *Config) VisionConfigured() bool {
	return c.VisionEndpoint != "" && c.VisionKey != ""
}
