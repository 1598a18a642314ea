package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/kelseyhightower/envconfig"
)

const (
	BlobProviderS3         = "s3"
	BlobProviderCloudinary = "cloudinary"
)

type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	MongoDBURI      string `envconfig:"MONGODB_URI" required:"true"`
	MongoDBPassword string `envconfig:"MONGODB_PASSWORD"`
	MongoDBDatabase string `envconfig:"MONGODB_DATABASE" default:"snapvent"`

	SupabaseURL     string `envconfig:"SUPABASE_URL" required:"true"`
	SupabaseAnonKey string `envconfig:"SUPABASE_ANON_KEY" required:"true"`
	// JWKSURL defaults to the Supabase well-known endpoint when empty.
	JWKSURL   string `envconfig:"JWKS_URL"`
	JWTSecret string `envconfig:"JWT_SECRET"`

	WebhookSecret string `envconfig:"WEBHOOK_SECRET" required:"true"`

	BlobProvider     string        `envconfig:"BLOB_PROVIDER" default:"s3"`
	S3URL            string        `envconfig:"S3_URL"`
	S3Bucket         string        `envconfig:"S3_BUCKET" default:"snapvent"`
	S3Region         string        `envconfig:"S3_REGION" default:"us-east-1"`
	S3AccessKey      string        `envconfig:"S3_ACCESS_KEY"`
	S3SecretKey      string        `envconfig:"S3_SECRET_KEY"`
	PresignExpiry    time.Duration `envconfig:"PRESIGN_EXPIRY" default:"15m"`
	CloudinaryName   string        `envconfig:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey string        `envconfig:"CLOUDINARY_API_KEY"`
	CloudinarySecret string        `envconfig:"CLOUDINARY_API_SECRET"`
	AMQPURL          string        `envconfig:"AMQP_URL"`
	AMQPExchange     string        `envconfig:"AMQP_EXCHANGE" default:"snapvent.events"`
	StatusSyncEvery  time.Duration `envconfig:"STATUS_SYNC_INTERVAL" default:"1m"`
	CORSAllowOrigins []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000"`
}

func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.BlobProvider {
	case BlobProviderS3:
		if c.S3URL == "" || c.S3AccessKey == "" || c.S3SecretKey == "" {
			return fmt.Errorf("S3_URL, S3_ACCESS_KEY and S3_SECRET_KEY are required for the s3 blob provider")
		}
	case BlobProviderCloudinary:
		if c.CloudinaryName == "" || c.CloudinaryAPIKey == "" || c.CloudinarySecret == "" {
			return fmt.Errorf("CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET are required for the cloudinary blob provider")
		}
	default:
		return fmt.Errorf("unknown BLOB_PROVIDER %q", c.BlobProvider)
	}
	if c.StatusSyncEvery <= 0 {
		return fmt.Errorf("STATUS_SYNC_INTERVAL must be positive")
	}

	origins := make([]string, 0, len(c.CORSAllowOrigins))
	for _, o := range c.CORSAllowOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return fmt.Errorf("CORS_ALLOW_ORIGINS must list at least one origin")
	}
	if err := (cors.Config{AllowOrigins: origins}).Validate(); err != nil {
		return fmt.Errorf("invalid CORS_ALLOW_ORIGINS: %w", err)
	}
	c.CORSAllowOrigins = origins
	return nil
}

// MongoURI substitutes the <password> placeholder of MONGODB_URI.
func (c *Config) MongoURI() string {
	return strings.Replace(c.MongoDBURI, "<password>", c.MongoDBPassword, 1)
}

// JWKSEndpoint is where access token signing keys are published.
func (c *Config) JWKSEndpoint() string {
	if c.JWKSURL != "" {
		return c.JWKSURL
	}
	return strings.TrimRight(c.SupabaseURL, "/") + "/auth/v1/.well-known/jwks.json"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
