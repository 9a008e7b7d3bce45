/*
Package configs is responsible for loading and parsing the application's configuration settings.

It combines command-line flags (listen address, internal stats address) with operating
system environment variables (running environment) into a single AppConfig value.
*/
package configs

import (
	"flag"
	"fmt"
	"net"
	"os"
	"strconv"
)

const (
	// DefaultIP is the listen address used when no -i/--ip flag is given.
	DefaultIP = "127.0.0.1"

	// DefaultPort is the listen port used when no -p/--port flag is given.
	DefaultPort = 42069
)

// AppConfig contains all configuration parameters required for the application to run.
type AppConfig struct {
	// Environment defines the application's operating environment (e.g., "development", "production").
	Environment string

	// IP is the address the chat listener binds to.
	IP string

	// Port is the port the chat listener binds to.
	Port int

	// StatsAddr is the optional listen address for the internal stats HTTP server.
	// The stats server is disabled when this is empty.
	StatsAddr string
}

// Load parses the given command-line arguments (excluding the program name) and
// reads environment variables, returning the resulting AppConfig.
// It provides default values for each configuration item and performs necessary validation.
func Load(args []string) (*AppConfig, error) {
	cfg := &AppConfig{}

	fs := flag.NewFlagSet("parley", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	fs.StringVar(&cfg.IP, "i", DefaultIP, "IP address to listen on")
	fs.StringVar(&cfg.IP, "ip", DefaultIP, "IP address to listen on")
	fs.IntVar(&cfg.Port, "p", DefaultPort, "Port to listen on")
	fs.IntVar(&cfg.Port, "port", DefaultPort, "Port to listen on")
	fs.StringVar(&cfg.StatsAddr, "stats-addr", "", "Optional listen address for the internal stats HTTP server (disabled when empty)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg.Environment = os.Getenv("ENVIRONMENT")
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	if net.ParseIP(cfg.IP) == nil {
		return nil, fmt.Errorf("invalid listen IP address %q", cfg.IP)
	}

	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("port number %d is outside the valid range (1-65535)", cfg.Port)
	}

	return cfg, nil
}

// Addr returns the chat listener address in host:port form.
func (c *AppConfig) Addr() string {
	return net.JoinHostPort(c.IP, strconv.Itoa(c.Port))
}

// IsDevelopment reports whether the application runs in the development environment.
func (c *AppConfig) IsDevelopment() bool {
	return c.Environment == "development"
}
