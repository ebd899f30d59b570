package repo

import (
	"context"
	"errors"

	"jakebot/internal/modkit/repokit"
	perr "jakebot/internal/platform/errors"
	"jakebot/internal/platform/logger"
	"jakebot/internal/platform/store"
	"jakebot/internal/services/state/domain"
)

// Schema is applied by Migrate
const Schema = `CREATE TABLE IF NOT EXISTS jakebot_state (
	state_key          text PRIMARY KEY,
	seen_post_ids      text[] NOT NULL DEFAULT '{}',
	autoproxy_enabled  boolean,
	signalers          text[],
	updated_at         timestamptz NOT NULL DEFAULT now()
)`

type (
	rows   struct{ q repokit.Queryer }
	binder struct{}
)

// Rows is the row level surface used inside a transaction
type Rows interface {
	Get(ctx context.Context, key string) (domain.Snapshot, error)
	Put(ctx context.Context, key string, s domain.Snapshot) error
}

// NewBinder binds Rows to a Queryer
func NewBinder() repokit.Binder[Rows] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Rows { return &rows{q: q} }

func (r *rows) Get(ctx context.Context, key string) (domain.Snapshot, error) {
	return store.One(ctx, r.q, func(row store.Row) (domain.Snapshot, error) {
		var (
			seen, sig []string
			on        *bool
		)
		if err := row.Scan(&seen, &on, &sig); err != nil {
			return domain.Snapshot{}, err
		}
		s := domain.Defaults()
		if seen != nil {
			s.SeenPostIDs = seen
		}
		if on != nil {
			s.AutoproxyEnabled = *on
		}
		s.Signalers = sig
		return s, nil
	}, `SELECT seen_post_ids, autoproxy_enabled, signalers FROM jakebot_state WHERE state_key = $1`, key)
}

func (r *rows) Put(ctx context.Context, key string, s domain.Snapshot) error {
	seen := s.SeenPostIDs
	if seen == nil {
		seen = []string{}
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO jakebot_state (state_key, seen_post_ids, autoproxy_enabled, signalers, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (state_key) DO UPDATE SET
			seen_post_ids = EXCLUDED.seen_post_ids,
			autoproxy_enabled = EXCLUDED.autoproxy_enabled,
			signalers = EXCLUDED.signalers,
			updated_at = now()`,
		key, seen, s.AutoproxyEnabled, s.Signalers)
	return err
}

// PG stores one snapshot row per board key
type PG struct {
	db     repokit.TxRunner
	binder repokit.Binder[Rows]
	key    string
	log    *logger.Logger
}

// NewPG returns a Postgres store for key
func NewPG(db repokit.TxRunner, key string) *PG {
	if db == nil {
		panic("state.PG requires a non nil TxRunner")
	}
	return &PG{
		db:     repokit.WithBeginHooks(db, repokit.SetLocal("lock_timeout", "2s")),
		binder: NewBinder(),
		key:    key,
		log:    logger.Named("state"),
	}
}

// Name implements domain.Store
func (p *PG) Name() string { return "pg" }

// Migrate creates the state table when missing
func (p *PG) Migrate(ctx context.Context) error {
	if _, err := p.db.Exec(ctx, Schema); err != nil {
		return perr.FromPostgres(err, "create jakebot_state")
	}
	return nil
}

// Load reads the row for the key, falling back to defaults on any failure
func (p *PG) Load(ctx context.Context) domain.Snapshot {
	s, err := repokit.MustBind(p.binder, p.db).Get(ctx, p.key)
	switch {
	case err == nil:
		return s
	case errors.Is(err, perr.ErrNotFound):
	case perr.IsUndefinedTable(err):
		p.log.Warn().Str("key", p.key).Msg("state table missing, using defaults")
	default:
		p.log.Warn().Err(err).Str("key", p.key).Msg("state load failed, using defaults")
	}
	return domain.Defaults()
}

// saveAttempts bounds retries of a contended save
const saveAttempts = 3

// Save upserts the row in a transaction with a short lock timeout.
// Lock timeouts and serialization failures are retried
func (p *PG) Save(ctx context.Context, s domain.Snapshot) error {
	for attempt := 1; ; attempt++ {
		err := repokit.WithTx(ctx, p.db, func(q repokit.Queryer) error {
			return repokit.MustBind(p.binder, q).Put(ctx, p.key, s)
		})
		if err == nil {
			return nil
		}
		if attempt >= saveAttempts || !perr.IsRetryable(err) {
			return perr.FromPostgres(err, "save state")
		}
		p.log.Debug().Err(err).Int("attempt", attempt).Str("key", p.key).Msg("state save contended, retrying")
	}
}
