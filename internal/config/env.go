package config

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Env      string `env:"ENV,default=development"`
	LogLevel string `env:"LOG_LEVEL,default="`
	Port     string `env:"PORT,default=8080"`

	DatabaseURL string `env:"DATABASE_URL,required"`

	AwsAccessKey string `env:"AWS_ACCESS_KEY"`
	AwsSecretKey string `env:"AWS_SECRET_KEY"`
	AwsRegion    string `env:"AWS_REGION,default=us-east-2"`
	BucketName   string `env:"BUCKET_NAME,default=joba-files"`

	JWTSecret          string        `env:"JWT_SECRET,required"`
	AccessTokenExpiry  time.Duration `env:"ACCESS_TOKEN_EXPIRY,default=24h"`
	RefreshTokenExpiry time.Duration `env:"REFRESH_TOKEN_EXPIRY,default=168h"`
	BCryptCost         int           `env:"BCRYPT_COST,default=12"`

	AnalyzerAPIKey  string `env:"ANALYZER_API_KEY,required"`
	AnalyzerBaseURL string `env:"ANALYZER_BASE_URL,default=https://api.anthropic.com/v1"`
	AnalyzerModel   string `env:"ANALYZER_MODEL,default=claude-3-7-sonnet-20250219"`

	MaxFileSize       int64    `env:"MAX_FILE_SIZE,default=5242880"`
	AllowedExtensions []string `env:"ALLOWED_EXTENSIONS,default=.pdf,.doc,.docx,.txt,.rtf"`
}

// Load reads the optional .env file, then processes the environment.
// There is deliberately no fallback signing secret: a missing or short
// JWT_SECRET aborts startup.
func Load(ctx context.Context) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	if len(cfg.JWTSecret) < 32 {
		return nil, fmt.Errorf("JWT_SECRET must be at least 32 characters long")
	}
	if cfg.MaxFileSize <= 0 {
		return nil, fmt.Errorf("MAX_FILE_SIZE must be positive")
	}

	return &cfg, nil
}
