// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package okapi

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/okapisearch/okapi/internal/lexical"
	"github.com/okapisearch/okapi/internal/scoring"
)

var configValidator = validator.New()

// StoreKind names a supported Store backend for Config.Store.Kind.
type StoreKind string

const (
	// StoreKindBadger persists the index to an on-disk BadgerDB.
	StoreKindBadger StoreKind = "badger"
	// StoreKindMemory keeps the index in an unordered in-process map;
	// useful for tests and ephemeral CLI runs, never for production.
	StoreKindMemory StoreKind = "memory"
)

// StoreConfig selects and configures the backing key-value store.
type StoreConfig struct {
	Kind StoreKind `yaml:"kind" validate:"required,oneof=badger memory"`
	Path string    `yaml:"path" validate:"required_if=Kind badger"`
}

// BM25Config holds caller overrides for the scorer's tunable constants.
// An all-zero BM25Config is replaced with the engine defaults (see
// Config.normalize); a partly set one is used as given, zeros included.
type BM25Config struct {
	B  float64 `yaml:"b" validate:"gte=0,lte=1"`
	K1 float64 `yaml:"k1" validate:"gte=0"`
	K3 float64 `yaml:"k3" validate:"gte=0"`
}

// Config is the engine's immutable configuration, normally loaded once
// from a YAML file at process start and never mutated afterward.
type Config struct {
	Store StoreConfig `yaml:"store"`

	// Filters is the ordered list of lexical pipeline stage names. Empty
	// means lexical.DefaultFilterNames.
	Filters []string `yaml:"filters"`

	// Stoplist overrides the embedded default stop word list when
	// non-empty. One word per entry; case-insensitive.
	Stoplist []string `yaml:"stoplist"`

	BM25 BM25Config `yaml:"bm25"`
}

// DefaultConfig returns a Config that indexes into an in-memory store
// using the default lexical pipeline and BM25 constants. Suitable for
// tests and quick CLI use; production deployments should set
// Store.Kind=badger with a persistent Path.
func DefaultConfig() Config {
	return Config{
		Store: StoreConfig{Kind: StoreKindMemory},
		BM25:  BM25Config{B: scoring.DefaultParams().B, K1: scoring.DefaultParams().K1, K3: scoring.DefaultParams().K3},
	}
}

// LoadConfig reads and validates a Config from a YAML file at path.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("okapi: read config %s: %w", path, err)
	}
	return ParseConfig(data)
}

// ParseConfig parses and validates a Config from raw YAML bytes, applying
// defaults for unset fields the same way LoadConfig does.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("okapi: parse config: %w", err)
	}
	cfg.normalize()

	if err := configValidator.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("okapi: invalid config: %w", err)
	}
	if err := cfg.validateBM25(); err != nil {
		return Config{}, err
	}

	slog.Info("okapi config loaded",
		slog.String("store_kind", string(cfg.Store.Kind)),
		slog.Int("filters", len(cfg.pipelineFilters())),
		slog.Int("stoplist_overrides", len(cfg.Stoplist)),
	)
	return cfg, nil
}

// normalize fills zero-valued optional fields with engine defaults so the
// rest of the engine never has to special-case an unset BM25 constant.
func (c *Config) normalize() {
	def := scoring.DefaultParams()
	if c.BM25.B == 0 && c.BM25.K1 == 0 && c.BM25.K3 == 0 {
		c.BM25 = BM25Config{B: def.B, K1: def.K1, K3: def.K3}
	}
}

func (c Config) validateBM25() error {
	p := scoring.Params{B: c.BM25.B, K1: c.BM25.K1, K3: c.BM25.K3}
	return p.Validate()
}

func (c Config) pipelineFilters() []string {
	if len(c.Filters) == 0 {
		return lexical.DefaultFilterNames
	}
	return c.Filters
}

// buildPipeline constructs the lexical pipeline this config describes.
func (c Config) buildPipeline() (*lexical.Pipeline, error) {
	return lexical.BuildFromNames(c.pipelineFilters(), c.Stoplist)
}

// scoringParams converts the config's BM25 overrides to scoring.Params.
func (c Config) scoringParams() scoring.Params {
	return scoring.Params{B: c.BM25.B, K1: c.BM25.K1, K3: c.BM25.K3}
}
