// Package config holds the store-level configuration the read path is
// wired from: one block per column family carrying the retention knobs a
// ScanInfo is built with. Configuration is validated at load time so that
// scans never see an invalid family definition.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const (
	DefaultSchemaFileName = "SCHEMA"
	CurrentSchemaVersion  = 1
)

var (
	ErrInvalidConfig  = errors.New("invalid configuration")
	ErrSchemaNotFound = errors.New("schema not found")
	ErrInvalidSchema  = errors.New("invalid schema")
)

// KeepMode names a deleted-cell retention mode in the serialized schema.
type KeepMode string

const (
	KeepNone KeepMode = "false"
	KeepAll  KeepMode = "true"
	KeepTTL  KeepMode = "ttl"
)

// FamilyConfig carries the per-family retention knobs.
type FamilyConfig struct {
	Name string `json:"name"`

	// Version retention
	MinVersions int `json:"min_versions"`
	MaxVersions int `json:"max_versions"`

	// TTL in seconds; zero means forever
	TTLSeconds int64 `json:"ttl_seconds"`

	// Deleted-cell retention
	KeepDeletedCells KeepMode `json:"keep_deleted_cells"`

	// Grace period in milliseconds before delete markers may be purged
	// by a major compaction
	TimeToPurgeDeletesMs int64 `json:"time_to_purge_deletes_ms"`
}

// Config is the store schema: the set of families and their retention
// policies.
type Config struct {
	Version  int            `json:"version"`
	Families []FamilyConfig `json:"families"`

	mu sync.RWMutex
}

// NewDefaultConfig creates a Config with a single default family and
// recommended retention values
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentSchemaVersion,
		Families: []FamilyConfig{
			{
				Name:             "default",
				MinVersions:      0,
				MaxVersions:      1,
				TTLSeconds:       0,
				KeepDeletedCells: KeepNone,
			},
		},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.Version <= 0 {
		return fmt.Errorf("%w: invalid version %d", ErrInvalidConfig, c.Version)
	}

	if len(c.Families) == 0 {
		return fmt.Errorf("%w: at least one family required", ErrInvalidConfig)
	}

	seen := make(map[string]bool, len(c.Families))
	for _, f := range c.Families {
		if f.Name == "" {
			return fmt.Errorf("%w: family name must not be empty", ErrInvalidConfig)
		}
		if seen[f.Name] {
			return fmt.Errorf("%w: duplicate family %q", ErrInvalidConfig, f.Name)
		}
		seen[f.Name] = true

		if f.MaxVersions < 1 {
			return fmt.Errorf("%w: family %q max versions must be positive", ErrInvalidConfig, f.Name)
		}
		if f.MinVersions < 0 {
			return fmt.Errorf("%w: family %q min versions must not be negative", ErrInvalidConfig, f.Name)
		}
		if f.MinVersions > f.MaxVersions {
			return fmt.Errorf("%w: family %q min versions exceeds max versions", ErrInvalidConfig, f.Name)
		}
		if f.TTLSeconds < 0 {
			return fmt.Errorf("%w: family %q ttl must not be negative", ErrInvalidConfig, f.Name)
		}
		if f.TimeToPurgeDeletesMs < 0 {
			return fmt.Errorf("%w: family %q time to purge deletes must not be negative", ErrInvalidConfig, f.Name)
		}
		switch f.KeepDeletedCells {
		case KeepNone, KeepAll, KeepTTL:
		default:
			return fmt.Errorf("%w: family %q has unknown keep_deleted_cells mode %q",
				ErrInvalidConfig, f.Name, f.KeepDeletedCells)
		}
	}

	return nil
}

// Family returns the configuration for the named family, or nil.
func (c *Config) Family(name string) *FamilyConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for i := range c.Families {
		if c.Families[i].Name == name {
			f := c.Families[i]
			return &f
		}
	}
	return nil
}

// LoadConfigFromSchema loads the configuration from the schema file in dir
func LoadConfigFromSchema(dir string) (*Config, error) {
	schemaPath := filepath.Join(dir, DefaultSchemaFileName)
	data, err := os.ReadFile(schemaPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrSchemaNotFound
		}
		return nil, fmt.Errorf("failed to read schema: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SaveSchema persists the configuration to the schema file in dir
func (c *Config) SaveSchema(dir string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	c.mu.RLock()
	data, err := json.MarshalIndent(c, "", "  ")
	c.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal schema: %w", err)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create schema directory: %w", err)
	}

	schemaPath := filepath.Join(dir, DefaultSchemaFileName)
	tempPath := schemaPath + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write schema: %w", err)
	}
	if err := os.Rename(tempPath, schemaPath); err != nil {
		return fmt.Errorf("failed to rename schema: %w", err)
	}
	return nil
}

// Update applies a mutation under the config's lock
func (c *Config) Update(fn func(*Config)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c)
}
