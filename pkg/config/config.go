package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the solve-side settings shared by the CLI and the server.
type Config struct {
	Rref    float64 `yaml:"rref"`
	Digits  int     `yaml:"digits"`
	Numeric bool    `yaml:"numeric"`
	JSONOut bool    `yaml:"json_out"`
	Quiet   bool    `yaml:"quiet"`
}

// ServerConfig holds server-specific configuration.
type ServerConfig struct {
	Port            string `yaml:"port"`
	WorkerCount     int    `yaml:"worker_count"`
	WebhookURL      string `yaml:"webhook_url"`
	EnableProfiling bool   `yaml:"enable_profiling"`
	ProfilingPort   string `yaml:"profiling_port"`
}

// File is the on-disk YAML layout combining both sections.
type File struct {
	Solver Config       `yaml:"solver"`
	Server ServerConfig `yaml:"server"`
}

// DefaultConfig returns solver settings with sensible defaults. The
// 992.3 Ohm reference matches the bench resistor the tool was built
// around; 4 significant digits is the display convention throughout.
func DefaultConfig() *Config {
	return &Config{
		Rref:   992.3,
		Digits: 4,
	}
}

// DefaultServerConfig returns server configuration with sensible defaults.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:          "8080",
		WorkerCount:   5,
		ProfilingPort: "6060",
	}
}

// Load reads a YAML config file and overlays it on the defaults.
func Load(path string) (*Config, *ServerConfig, error) {
	cfg := DefaultConfig()
	srv := DefaultServerConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	f := File{Solver: *cfg, Server: *srv}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if f.Solver.Digits < 1 {
		return nil, nil, fmt.Errorf("config: digits must be at least 1, got %d", f.Solver.Digits)
	}
	if f.Solver.Rref <= 0 {
		return nil, nil, fmt.Errorf("config: rref must be positive, got %v", f.Solver.Rref)
	}
	if f.Server.WorkerCount < 1 {
		f.Server.WorkerCount = srv.WorkerCount
	}

	return &f.Solver, &f.Server, nil
}
