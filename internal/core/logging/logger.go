package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the service logger. Level comes from LOG_LEVEL; production config
// (JSON output) unless ENV=development.
func New(env, levelEnv string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if env == "development" {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if levelEnv != "" {
		if err := cfg.Level.UnmarshalText([]byte(levelEnv)); err != nil {
			fmt.Printf("bad LOG_LEVEL=%s, keeping default\n", levelEnv)
		}
	}
	return cfg.Build(zap.AddStacktrace(zap.ErrorLevel))
}

func Must(env, levelEnv string) *zap.Logger {
	l, err := New(env, levelEnv)
	if err != nil {
		panic(err)
	}
	return l
}
