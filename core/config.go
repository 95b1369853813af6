package core

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// RunConfig adalah konfigurasi run dari file YAML. Semua field opsional;
// flag CLI menang atas nilai file (merge-nya di driver).
//
// Contoh:
//
//	level: moderate
//	enforce: true
//	timeout_seconds: 90
//	policies: [M-001, M-004]
//	overrides:
//	  enable: [M-009]
//	  disable: [M-007]
type RunConfig struct {
	Level          *EnforcementLevel `yaml:"level"`
	Enforce        *bool             `yaml:"enforce"`
	TimeoutSeconds *int              `yaml:"timeout_seconds"`
	MaxWorkers     *int              `yaml:"max_workers"`
	Policies       []string          `yaml:"policies"`
	Overrides      OverrideConfig    `yaml:"overrides"`
}

// OverrideConfig adalah allow/deny list per policy id.
type OverrideConfig struct {
	Enable  []string `yaml:"enable"`
	Disable []string `yaml:"disable"`
}

// UnmarshalYAML menerima nama level sebagai string di config (yaml.v3 tidak
// memakai encoding.TextUnmarshaler, jadi perlu hook sendiri).
func (l *EnforcementLevel) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	v, err := ParseLevel(s)
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// LoadConfig membaca dan memvalidasi file YAML config.
func LoadConfig(path string) (*RunConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg RunConfig
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	// field tak dikenal = typo di config operator; lebih baik gagal jelas
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			// file kosong = config kosong, bukan error
			return &RunConfig{}, nil
		}
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if cfg.TimeoutSeconds != nil && *cfg.TimeoutSeconds <= 0 {
		return nil, fmt.Errorf("config %s: timeout_seconds must be positive", path)
	}
	if cfg.MaxWorkers != nil && *cfg.MaxWorkers <= 0 {
		return nil, fmt.Errorf("config %s: max_workers must be positive", path)
	}
	return &cfg, nil
}
