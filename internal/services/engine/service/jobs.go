package service

import (
	"context"
	"math/rand/v2"
	"strings"
	"time"

	"jakebot/internal/core/classify"
	"jakebot/internal/core/posts"
	perr "jakebot/internal/platform/errors"
	str "jakebot/internal/platform/strings"
	"jakebot/internal/services/engine/domain"
)

// execute is the queue's Executor
func (s *Svc) execute(ctx context.Context, j domain.Job) error {
	b := s.deps.Board
	switch j.Kind {
	case domain.JobProxy:
		return s.proxy(ctx, j.Post)
	case domain.JobReply:
		return perr.WithOp(b.PostContent(ctx, j.Title, j.Body), "reply")
	case domain.JobTemporary:
		if err := b.PostContent(ctx, j.Title, j.Body); err != nil {
			return perr.WithOp(err, "temporary")
		}
		match := str.FirstNonEmpty(j.Match, j.Title)
		time.AfterFunc(s.cfg.TempLinger, func() {
			s.queue.Enqueue(domain.Job{Kind: domain.JobCleanup, Match: match})
		})
		return nil
	case domain.JobCleanup:
		ok, err := b.DeletePost(ctx, j.Match)
		if err != nil {
			return perr.WithOp(err, "cleanup")
		}
		if !ok {
			s.log.Debug().Str("match", j.Match).Msg("cleanup matched nothing")
		}
		return nil
	case domain.JobDeleteRecent:
		return perr.WithOp(b.DeleteMostRecentPost(ctx), "delete_recent")
	default:
		return perr.InvalidArgf("unknown job kind %d", j.Kind)
	}
}

// proxy reposts p without markers, then removes the original by one of its marked lines
func (s *Svc) proxy(ctx context.Context, p posts.Post) error {
	if err := s.jitter(ctx); err != nil {
		return err
	}
	markers := s.state.Signalers()
	title := classify.Clean(p.Title, markers)
	body := classify.Clean(p.Body, markers)
	if title == "" && body == "" {
		s.log.Info().Str("post_id", p.ID).Msg("nothing left after removing markers, skipping")
		return nil
	}
	if err := s.deps.Board.PostContent(ctx, title, body); err != nil {
		return perr.WithOp(err, "proxy")
	}

	match := markedLine(p, markers)
	if match == "" {
		return nil
	}
	ok, err := s.deps.Board.DeletePost(ctx, match)
	switch {
	case err != nil:
		s.log.Warn().Err(err).Str("post_id", p.ID).Msg("remove original failed")
	case !ok:
		s.log.Warn().Str("post_id", p.ID).Msg("original not found for removal")
	default:
		s.log.Info().Str("post_id", p.ID).Str("title", posts.TitlePrefix(title, 40)).Msg("proxied post")
	}
	return nil
}

// markedLine is the first line of p carrying a marker; the cleaned copy never contains it
func markedLine(p posts.Post, markers []string) string {
	if str.ContainsAny(p.Title, markers) {
		return strings.TrimSpace(p.Title)
	}
	for _, ln := range strings.Split(p.Body, "\n") {
		if str.ContainsAny(ln, markers) {
			return strings.TrimSpace(ln)
		}
	}
	return ""
}

func (s *Svc) jitter(ctx context.Context) error {
	if s.cfg.ProxyJitterMax <= 0 {
		return nil
	}
	t := time.NewTimer(rand.N(s.cfg.ProxyJitterMax))
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
