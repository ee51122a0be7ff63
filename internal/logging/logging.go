// Package logging builds the process logger.
package logging

import (
	"strings"

	"go.uber.org/zap"
)

// New returns a sugared zap logger: JSON production output for
// prod/production app envs, console development output otherwise.
func New(appEnv string) (*zap.SugaredLogger, error) {
	var cfg zap.Config
	switch strings.ToLower(appEnv) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}
