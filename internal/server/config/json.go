package config

import (
	"encoding/json"
	"os"

	"github.com/philipbrowne/messagely/internal/flagx"
	"github.com/philipbrowne/messagely/internal/timex"
)

// JsonConfig is the DTO for the optional JSON config file. Durations accept
// both strings ("24h") and integer nanoseconds; values are copied into the
// runtime Config after unmarshalling.
type JsonConfig struct {
	Address               string         `json:"address"`
	DatabaseDSN           string         `json:"database_dsn"`
	SecretKey             string         `json:"secret_key"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration"`
	BcryptCost            int            `json:"bcrypt_cost"`
}

// parseJson overlays values from the JSON file named by -c/-config, if any.
// A missing flag means no file is loaded; an unreadable or invalid file
// panics, since starting with half-applied configuration is worse than
// not starting.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.Address != "" {
		config.Address = c.Address
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.TokenValidityDuration.Duration != 0 {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
	if c.BcryptCost != 0 {
		config.BcryptCost = c.BcryptCost
	}
}
