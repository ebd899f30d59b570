package service

import (
	"context"
	"errors"
	"time"

	"jakebot/internal/core/classify"
	"jakebot/internal/core/normalize"
	"jakebot/internal/core/posts"
	perr "jakebot/internal/platform/errors"
	"jakebot/internal/platform/logger"
	ptime "jakebot/internal/platform/time"
	"jakebot/internal/services/engine/domain"
	jdom "jakebot/internal/services/journal/domain"

	"github.com/google/uuid"
)

// persistTimeout bounds the final save after ctx is cancelled
const persistTimeout = 5 * time.Second

// Run starts the engine and polls the board until SHUTDOWN or ctx is done.
// Cycle failures are logged and retried after CycleBackoff; only SHUTDOWN ends the loop by itself
func (s *Svc) Run(ctx context.Context) error {
	s.Start(ctx)
	defer s.Stop()

	for {
		wait := s.cfg.PollInterval
		err := s.Cycle(ctx)
		switch {
		case errors.Is(err, domain.ErrShutdown):
			return err
		case ctx.Err() != nil:
			return s.stopped(ctx)
		case err != nil:
			s.metrics.cycleFailures.Inc()
			evt := s.log.Error()
			if perr.Retryable(err) {
				evt = s.log.Warn()
			}
			evt.Err(err).Str("code", perr.CodeOf(err).String()).Dur("backoff", s.cfg.CycleBackoff).Msg("cycle failed")
			wait = s.cfg.CycleBackoff
		}

		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return s.stopped(ctx)
		case <-t.C:
		}
	}
}

// stopped saves state on the way out of an interrupted Run
func (s *Svc) stopped(ctx context.Context) error {
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()
	if err := s.deps.Journal.Flush(pctx); err != nil {
		s.log.Warn().Err(err).Msg("journal flush failed")
	}
	s.persist(pctx)
	s.log.Info().Msg("engine stopped")
	return ctx.Err()
}

// Cycle fetches the board once and handles up to MaxPosts posts in board order.
// It starts the engine first if Start has not run yet
func (s *Svc) Cycle(ctx context.Context) (err error) {
	s.Start(ctx)
	ctx = logger.WithCycle(ctx, uuid.NewString())
	log := logger.C(ctx)
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = perr.PanicErrf("cycle panicked: %v", r)
		}
		s.metrics.cycleSeconds.Observe(time.Since(start).Seconds())
	}()

	exp, err := s.deps.Board.FetchExport(ctx)
	if err != nil {
		return perr.WithOp(err, "fetch_export")
	}
	if exp.Format == "" || exp.Format == posts.FormatAuto {
		exp.Format = s.cfg.ExportFormat
	}
	ps, err := s.norm.Normalize(exp)
	if err != nil {
		log.Warn().Err(err).Msg("export could not be parsed, skipping cycle")
		return nil
	}
	if len(ps) > s.cfg.MaxPosts {
		ps = ps[:s.cfg.MaxPosts]
	}

	for _, p := range ps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.handle(ctx, p); err != nil {
			return err
		}
	}

	if err := s.deps.Journal.Flush(ctx); err != nil {
		log.Warn().Err(err).Msg("journal flush failed")
	}
	s.persist(ctx)
	log.Debug().Int("posts", len(ps)).Int("queued", s.queue.Len()).Msg("cycle done")
	return nil
}

// handle runs one post through dedup, freshness, author check and classification
func (s *Svc) handle(ctx context.Context, p posts.Post) error {
	e := jdom.Entry{
		CycleID:  logger.CycleID(ctx),
		PostID:   p.ID,
		Author:   p.Author,
		At:       s.deps.Now(),
		PostedAt: ptime.Deref(p.Parsed),
	}

	switch s.filter.Check(p) {
	case Seen:
		s.metrics.posts.WithLabelValues(string(jdom.OutcomeSeen)).Inc()
		return nil
	case Stale:
		if p.Parsed == nil {
			logger.C(ctx).Debug().Str("post_id", p.ID).Str("raw", p.RawTimestamp).Msg("timestamp not recognized")
		}
		s.record(ctx, e, jdom.OutcomeStale)
		return nil
	}

	if !normalize.Equal(p.Author, s.cfg.OriginalAuthor) {
		s.record(ctx, e, jdom.OutcomeFiltered)
		return nil
	}

	res := s.classifyPost(p)
	switch res.Kind {
	case classify.KindCommand:
		e.Command = res.Command.Name()
		s.record(ctx, e, jdom.OutcomeCommand)
		return s.Dispatch(ctx, p, res.Command)
	case classify.KindSignal:
		if !s.state.Autoproxy() {
			s.record(ctx, e, jdom.OutcomeMuted)
			return nil
		}
		s.record(ctx, e, jdom.OutcomeSignal)
		s.queue.Enqueue(domain.Job{Kind: domain.JobProxy, Post: p})
	default:
		s.record(ctx, e, jdom.OutcomePlain)
	}
	return nil
}

func (s *Svc) record(ctx context.Context, e jdom.Entry, o jdom.Outcome) {
	e.Outcome = o
	s.metrics.posts.WithLabelValues(string(o)).Inc()
	s.deps.Journal.Record(ctx, e)
}
