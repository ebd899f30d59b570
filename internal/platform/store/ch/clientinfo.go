package ch

import (
	"os"
	"strings"

	"jakebot/internal/core/version"

	"github.com/ClickHouse/clickhouse-go/v2"
)

// ClientInfo names this process in system.query_log: jakebot/<tag>, then role, commit and host.
// An empty tag falls back to the build version
func ClientInfo(role, tag string) clickhouse.ClientInfo {
	b := version.Info()
	if tag = strings.TrimSpace(tag); tag == "" {
		tag = b.Version
	}
	host, _ := os.Hostname()
	return clickhouse.ClientInfo{Products: []struct{ Name, Version string }{
		{Name: b.Service, Version: tag},
		{Name: "role", Version: strings.TrimSpace(role)},
		{Name: "commit", Version: b.Commit},
		{Name: "host", Version: host},
	}}
}
