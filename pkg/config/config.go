// Package config loads the mock vault's tunables — the default mutation
// quota and router channel sizing — from a YAML file with
// environment-variable overrides. The session-packet type tag is a fixed
// constant here and is not loaded from either source. Grounded on
// marmos91/dittofs's pkg/config (viper + mapstructure, MOCKVAULT_*-style
// env prefix), scaled down to the handful of knobs spec.md §6 actually
// names. cuemby/warren has no equivalent package — its cmd/warren reads
// cobra flags directly — which is too thin once the vault is meant to be
// embedded rather than run only as a standalone binary.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// SessionPacketTypeTag is the reserved type-tag value that marks a
// PutMData payload as an account's session packet, triggering the
// Vault's implicit account-creation path (spec.md §4.4, §9).
const SessionPacketTypeTag uint64 = 0

// Config holds the mock vault's configurable constants.
type Config struct {
	// DefaultMaxMutations is the mutation quota assigned to every new
	// account (spec.md §3, §6). 500 per the spec's suggested default.
	DefaultMaxMutations uint64 `mapstructure:"default_max_mutations" yaml:"default_max_mutations"`

	// RouterChannelCapacity sizes the Router's outbound event channel.
	// The spec leaves this to the embedder (§4.5): "bounded or
	// unbounded per the embedder."
	RouterChannelCapacity int `mapstructure:"router_channel_capacity" yaml:"router_channel_capacity"`
}

// Default returns the Config the spec describes out of the box.
func Default() Config {
	return Config{
		DefaultMaxMutations:   500,
		RouterChannelCapacity: 128,
	}
}

// Load reads Config from an optional YAML file at path (skipped if
// empty) and MOCKVAULT_-prefixed environment variables, falling back to
// Default() for anything unset.
func Load(path string) (Config, error) {
	v := viper.New()
	cfg := Default()
	v.SetDefault("default_max_mutations", cfg.DefaultMaxMutations)
	v.SetDefault("router_channel_capacity", cfg.RouterChannelCapacity)

	v.SetEnvPrefix("MOCKVAULT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var out Config
	if err := v.Unmarshal(&out); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if out.DefaultMaxMutations == 0 {
		out.DefaultMaxMutations = cfg.DefaultMaxMutations
	}
	if out.RouterChannelCapacity == 0 {
		out.RouterChannelCapacity = cfg.RouterChannelCapacity
	}
	return out, nil
}
