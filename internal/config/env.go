package config

import (
	"fmt"
	"log/slog"

	"github.com/kelseyhightower/envconfig"
)

type Env struct {
	Env      string `envconfig:"ENV" default:"local"`
	VaultDir string `envconfig:"VAULT_DIR" default:"."`
	DataDir  string `envconfig:"DATA_DIR" default:".taskvault"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

const namespace = "TASKVAULT"

func LoadEnv() (*Env, error) {
	var env Env
	if err := envconfig.Process(namespace, &env); err != nil {
		return nil, fmt.Errorf("failed to load env: %w", err)
	}
	return &env, nil
}

func (e *Env) SlogLevel() slog.Level {
	if e == nil {
		return slog.LevelInfo
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(e.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
