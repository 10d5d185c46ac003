// Package config loads printctl-node's on-disk configuration, adapted
// from the teacher's YAML config loader.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level on-disk configuration for printctl-node.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Discovery DiscoveryConfig `yaml:"discovery"`
}

// ServerConfig configures the gRPC listener (spec.md §6).
type ServerConfig struct {
	GRPCAddress string `yaml:"grpc_address"`
	GRPCPort    int    `yaml:"grpc_port"`
}

// DiscoveryConfig configures this node's multicast presence (spec.md §4.9).
type DiscoveryConfig struct {
	Name string `yaml:"name"`
}

// Default returns the configuration used when no file is present or a
// field is left unset.
func Default() *Config {
	hostname, err := os.Hostname()
	if err != nil || hostname == "" {
		hostname = "printctl-node"
	}
	return &Config{
		Server: ServerConfig{
			GRPCAddress: "0.0.0.0",
			GRPCPort:    50051,
		},
		Discovery: DiscoveryConfig{
			Name: hostname,
		},
	}
}

// Load reads and merges path onto Default. A missing or empty field in
// path keeps its default value.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// ListenAddr formats the gRPC bind address as host:port.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.GRPCAddress, c.Server.GRPCPort)
}
