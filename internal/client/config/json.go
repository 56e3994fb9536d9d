package config

import (
	"encoding/json"
	"os"

	"github.com/philipbrowne/messagely/internal/flagx"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. After parsing,
// values are copied into the runtime Config.
type JsonConfig struct {
	ServerEndpointAddr string `json:"server_endpoint_addr"`
}

// parseJson overlays Config with values loaded from a JSON file. The file
// path is resolved from the -c/-config flags via flagx.JsonConfigFlags; if no
// path is given, nothing is loaded. Read or unmarshal errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerEndpointAddr != "" {
		cfg.ServerEndpointAddr = jc.ServerEndpointAddr
	}
}
