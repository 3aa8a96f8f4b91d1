package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix = "DIAMOND_"
	// EnvConfigPath names the variable holding the optional YAML file path.
	EnvConfigPath = envPrefix + "CONFIG"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if DIAMOND_CONFIG is set
//  3. env (prefix DIAMOND_)
func Load(ctx context.Context) (*Config, error) {
	return LoadFile(ctx, os.Getenv(EnvConfigPath))
}

// LoadFile is Load with an explicit YAML path. An empty path skips the file layer.
func LoadFile(_ context.Context, path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// DIAMOND_QUEUE_SIZE -> queue_size (flat keys, underscores preserved).
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := New()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Watch reloads the YAML file at path whenever it changes and passes each
// valid result to fn. Invalid reloads go to onErr and the previous config
// stays in effect. Watching stops when ctx is done.
func Watch(ctx context.Context, path string, fn func(*Config), onErr func(error)) error {
	if path == "" {
		return fmt.Errorf("%w: no config file to watch", ErrInvalidConfig)
	}
	if onErr == nil {
		onErr = func(error) {}
	}
	f := file.Provider(path)
	err := f.Watch(func(_ any, werr error) {
		if werr != nil {
			onErr(fmt.Errorf("%w: watch: %w", ErrLoadConfig, werr))
			return
		}
		cfg, lerr := LoadFile(ctx, path)
		if lerr != nil {
			onErr(lerr)
			return
		}
		fn(cfg)
	})
	if err != nil {
		return fmt.Errorf("%w: watch %s: %w", ErrLoadConfig, path, err)
	}
	go func() {
		<-ctx.Done()
		_ = f.Unwatch()
	}()
	return nil
}
