package config

// Config holds runtime settings for the messagely CLI.
//
// ServerEndpointAddr is the base URL of the backend HTTP API,
// e.g. "http://localhost:8080".
type Config struct {
	ServerEndpointAddr string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "http://localhost:8080"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
