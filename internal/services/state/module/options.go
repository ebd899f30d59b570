package module

import (
	"jakebot/internal/platform/config"
)

// Options selects and configures the state backend
type Options struct {
	Backend string
	Path    string
	Key     string
}

// FromConfig reads options using the JAKEBOT_STATE_ prefix
// JAKEBOT_STATE_BACKEND (default "file") is "file" or "pg"
// JAKEBOT_STATE_PATH (default "state.json") is the file backend location
// JAKEBOT_STATE_KEY (default "default") is the pg row key, usually the board id
func FromConfig(cfg config.Conf) Options {
	s := cfg.Prefix("JAKEBOT_STATE_")
	return Options{
		Backend: s.MayEnum("BACKEND", "file", "file", "pg"),
		Path:    s.MayString("PATH", "state.json"),
		Key:     s.MayString("KEY", "default"),
	}
}
