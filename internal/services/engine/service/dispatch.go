package service

import (
	"context"

	"jakebot/internal/core/classify"
	"jakebot/internal/core/posts"
	"jakebot/internal/platform/logger"
	"jakebot/internal/services/engine/domain"
)

// Dispatch carries out one command post. Board work goes through the queue and the
// command post itself is always queued for removal. Only SHUTDOWN returns an error
func (s *Svc) Dispatch(ctx context.Context, p posts.Post, cmd classify.Command) error {
	log := logger.C(ctx).With().Str("post_id", p.ID).Str("command", cmd.Name()).Logger()

	var replies []reply
	switch c := cmd.(type) {
	case classify.BotOn:
		changed := s.state.SetAutoproxy(true)
		s.metrics.setAutoproxy(true)
		s.persist(ctx)
		replies = append(replies, s.replyBotOn(changed))
	case classify.BotOff:
		changed := s.state.SetAutoproxy(false)
		s.metrics.setAutoproxy(false)
		s.persist(ctx)
		replies = append(replies, s.replyBotOff(changed))
	case classify.Status:
		replies = append(replies, s.replyStatus(s.Status()))
	case classify.Uptime:
		replies = append(replies, s.replyUptime(s.Status()))
	case classify.Help:
		replies = append(replies, s.replyHelp())
	case classify.About:
		replies = append(replies, s.replyAbout()...)
	case classify.Koala:
		replies = append(replies, s.replyKoala())
	case classify.TestPost:
		r := s.replyTestPost()
		s.queue.Enqueue(domain.Job{Kind: domain.JobTemporary, Title: r.Title, Body: r.Body, Match: r.Body})
	case classify.TestPing:
		// only the command post is removed
	case classify.DeleteRecent:
		// the command post goes first so it is not the entry removed
		s.removeCommand(p, cmd)
		s.queue.Enqueue(domain.Job{Kind: domain.JobDeleteRecent, Post: p})
		log.Info().Msg("command handled")
		return nil
	case classify.Shutdown:
		return s.shutdown(ctx, p, cmd)
	case classify.Unknown:
		log.Warn().Str("token", c.Token).Msg("unknown command")
	}

	for _, r := range replies {
		s.queue.Enqueue(domain.Job{Kind: domain.JobReply, Post: p, Title: r.Title, Body: r.Body})
	}
	s.removeCommand(p, cmd)
	log.Info().Int("replies", len(replies)).Msg("command handled")
	return nil
}

func (s *Svc) removeCommand(p posts.Post, cmd classify.Command) {
	s.queue.Enqueue(domain.Job{Kind: domain.JobCleanup, Post: p, Match: cmd.Raw()})
}

// shutdown posts the farewell, waits for the queue, saves state and releases the board session
func (s *Svc) shutdown(ctx context.Context, p posts.Post, cmd classify.Command) error {
	log := logger.C(ctx)
	s.state.BeginShutdown()
	log.Info().Str("post_id", p.ID).Msg("shutdown requested")

	r := s.replyShutdown()
	s.queue.Enqueue(domain.Job{Kind: domain.JobReply, Post: p, Title: r.Title, Body: r.Body})
	s.removeCommand(p, cmd)
	if err := s.queue.Drain(ctx); err != nil {
		log.Warn().Err(err).Int("pending", s.queue.Len()).Msg("shutdown drain interrupted")
	}
	s.Stop()

	if err := s.deps.Journal.Flush(ctx); err != nil {
		log.Warn().Err(err).Msg("journal flush failed")
	}
	s.persist(ctx)
	if err := s.deps.Board.Release(ctx); err != nil {
		log.Warn().Err(err).Msg("release board session failed")
	}
	return domain.ErrShutdown
}
