package reallybot

import (
	"encoding/json"
	"os"
	"time"
)

// Config mirrors config.json plus the server knobs. Zero values fall
// back to defaults via ApplyDefaults.
type Config struct {
	Addr        string  `json:"addr"`
	RedisURL    string  `json:"redis_url"`
	PersonaDir  string  `json:"persona_dir"`
	DataDir     string  `json:"data_dir"`
	EnginePath  string  `json:"engine_path"`
	TimeLimit   float64 `json:"time_limit"` // seconds per engine move
	Depth       int     `json:"depth"`
	SkillLevel  *int    `json:"skill_level,omitempty"`
	UCIElo      *int    `json:"uci_elo,omitempty"`
	KillTimeout string  `json:"kill_timeout"`
}

func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if len(path) > 0 {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, cfg); err != nil {
			return nil, err
		}
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

func (cfg *Config) ApplyDefaults() {
	if len(cfg.Addr) == 0 {
		cfg.Addr = ":8080"
	}
	if len(cfg.PersonaDir) == 0 {
		cfg.PersonaDir = "persona"
	}
	if len(cfg.DataDir) == 0 {
		cfg.DataDir = "data"
	}
	if cfg.TimeLimit <= 0 {
		cfg.TimeLimit = 0.1
	}
	if cfg.Depth <= 0 {
		cfg.Depth = 12
	}
}

// MoveLimit converts the configured per-move budget to an engine limit.
func (cfg *Config) MoveLimit() Limit {
	return Limit{
		MoveTime: time.Duration(cfg.TimeLimit * float64(time.Second)),
		Depth:    cfg.Depth,
	}
}

func (cfg *Config) SessionKillTimeout() time.Duration {
	if d, err := time.ParseDuration(cfg.KillTimeout); err == nil && d > 0 {
		return d
	}
	return DefaultKillTimeout
}
