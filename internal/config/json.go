package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/pods/internal/flagx"
	"github.com/dmitrijs2005/pods/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so intervals can be written either as strings like "2s" or
// as integer nanoseconds.
type JsonConfig struct {
	DatabaseDSN   string         `json:"database_dsn"`
	StateDir      string         `json:"state_dir"`
	PollInterval  timex.Duration `json:"poll_interval"`
	RefreshWindow timex.Duration `json:"refresh_window"`
	RetryDelay    timex.Duration `json:"retry_delay"`
}

// parseJson overlays cfg with values from the JSON file named by -c/-config.
// Absent flags mean no JSON is loaded. Zero fields in the file leave the
// current value in place.
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

	if jc.DatabaseDSN != "" {
		cfg.DatabaseDSN = jc.DatabaseDSN
	}
	if jc.StateDir != "" {
		cfg.StateDir = jc.StateDir
	}
	if jc.PollInterval.Duration > 0 {
		cfg.PollInterval = jc.PollInterval.Duration
	}
	if jc.RefreshWindow.Duration > 0 {
		cfg.RefreshWindow = jc.RefreshWindow.Duration
	}
	if jc.RetryDelay.Duration > 0 {
		cfg.RetryDelay = jc.RetryDelay.Duration
	}
}
