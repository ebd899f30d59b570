// Package modkit provides module wiring and the shared dependencies modules are built from
package modkit

import (
	"jakebot/internal/modkit/repokit"
	"jakebot/internal/platform/config"
	"jakebot/internal/platform/logger"
	"jakebot/internal/platform/store"
)

// Deps holds core dependencies passed to modules. PG and CH are nil when the
// matching backend is not configured
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	PG  repokit.TxRunner
	CH  store.Clickhouse
}

// FromStore fills PG and CH from an opened store; a nil store leaves both unset
func FromStore(cfg config.Conf, st *store.Store) Deps {
	d := Deps{Cfg: cfg}
	if st == nil {
		return d
	}
	d.Log = st.Log
	d.PG = st.PG
	d.CH = st.CH
	return d
}
