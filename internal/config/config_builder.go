// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"fmt"
	"os"

	"dario.cat/mergo"
)

type configBuilder struct {
	configs []*Config
	err     error
}

func newConfigBuilder() *configBuilder {
	return &configBuilder{
		configs: make([]*Config, 0, 3),
	}
}

func (b *configBuilder) build() (*Config, error) {
	if b.err != nil {
		return nil, fmt.Errorf("error occured during building config: %w", b.err)
	}

	config := new(Config)
	for _, cfg := range b.configs {
		if err := mergo.Merge(config, cfg); err != nil {
			return nil, fmt.Errorf("error merging configs: %w", err)
		}
	}

	return config, config.validate()
}

func (b *configBuilder) withEnv() *configBuilder {
	envCfg := &Config{}
	if err := parseEnv(envCfg); err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.configs = append(b.configs, envCfg)
	return b
}

// withManifest resolves the manifest path from the sources gathered so far
// and, when the file exists, appends its settings and token declarations.
// A path named explicitly via the environment must exist; the default
// "botstrap.toml" is optional.
func (b *configBuilder) withManifest() *configBuilder {
	var manifestPath string
	isManifestSpecified := false

	for _, cfg := range b.configs {
		if cfg.ManifestPath != "" {
			isManifestSpecified = true
			manifestPath = cfg.ManifestPath
		}
	}

	if !isManifestSpecified {
		manifestPath = DefaultManifestName
		if _, err := os.Stat(manifestPath); err != nil {
			return b
		}
	}

	manifestCfg, err := parseManifest(manifestPath)
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}
	b.configs = append(b.configs, manifestCfg)

	return b
}

func (b *configBuilder) withDefaults() *configBuilder {
	b.configs = append(b.configs, defaultConfig())
	return b
}
