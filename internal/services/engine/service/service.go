// Package service runs the polling loop, the command dispatcher and the action queue
package service

import (
	"context"
	"sync"
	"time"

	"jakebot/internal/core/classify"
	"jakebot/internal/core/posts"
	"jakebot/internal/core/timestamp"
	"jakebot/internal/platform/logger"
	"jakebot/internal/services/engine/domain"
	jdom "jakebot/internal/services/journal/domain"
	statedom "jakebot/internal/services/state/domain"

	"github.com/prometheus/client_golang/prometheus"
)

// Deps are the collaborators the engine talks to
type Deps struct {
	Board    domain.Board
	Store    statedom.Store
	Journal  jdom.Recorder
	Registry *prometheus.Registry
	// Now is the wall clock used for freshness; nil means time.Now
	Now func() time.Time
}

// Config carries runtime knobs; zero values get the documented defaults
type Config struct {
	BoardID        string
	OriginalAuthor string
	Name           string
	Bio            string
	Aliases        []string
	// Signalers overrides the persisted markers when non-empty
	Signalers      []string
	PollInterval   time.Duration
	MaxProxyAge    time.Duration
	MaxPosts       int
	CycleBackoff   time.Duration
	ProxyJitterMax time.Duration
	TempLinger     time.Duration
	IDMode         posts.IDMode
	ExportFormat   posts.Format
	Loc            *time.Location
}

func withDefaults(c Config) Config {
	if c.PollInterval <= 0 {
		c.PollInterval = 5 * time.Second
	}
	if c.MaxProxyAge <= 0 {
		c.MaxProxyAge = 10 * time.Minute
	}
	if c.MaxPosts <= 0 {
		c.MaxPosts = 10
	}
	if c.CycleBackoff <= 0 {
		c.CycleBackoff = 10 * time.Second
	}
	if c.TempLinger <= 0 {
		c.TempLinger = 30 * time.Second
	}
	if c.IDMode == "" {
		c.IDMode = posts.IDSynth
	}
	if c.ExportFormat == "" {
		c.ExportFormat = posts.FormatAuto
	}
	return c
}

// Svc implements domain.RunnerPort and domain.StatusPort
type Svc struct {
	deps    Deps
	cfg     Config
	log     *logger.Logger
	state   *domain.EngineState
	queue   *Queue
	norm    *posts.Normalizer
	filter  Filter
	metrics *metrics

	mu         sync.Mutex
	classifier *classify.Classifier
	started    bool
	stopQueue  context.CancelFunc
	queueDone  chan struct{}
}

// New wires the engine. Nothing touches the board until Run or Start
func New(deps Deps, cfg Config) *Svc {
	if deps.Board == nil {
		panic("engine.Service requires a Board")
	}
	if deps.Store == nil {
		panic("engine.Service requires a state Store")
	}
	if deps.Journal == nil {
		deps.Journal = jdom.Nop{}
	}
	if deps.Registry == nil {
		deps.Registry = prometheus.NewRegistry()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	cfg = withDefaults(cfg)

	s := &Svc{
		deps:    deps,
		cfg:     cfg,
		log:     logger.Named("engine"),
		state:   domain.NewEngineState(statedom.Defaults(), time.Now()),
		metrics: newMetrics(deps.Registry),
	}
	s.norm = posts.New(posts.Options{
		IDMode: cfg.IDMode,
		Parser: timestamp.Parser{Loc: cfg.Loc, Now: deps.Now},
	})
	s.filter = Filter{State: s.state, MaxAge: cfg.MaxProxyAge, Now: deps.Now}
	s.queue = NewQueue(s.execute)
	s.queue.OnDepth = func(n int) { s.metrics.queueDepth.Set(float64(n)) }
	s.queue.OnDone = func(j domain.Job, err error) {
		s.metrics.jobs.WithLabelValues(j.Kind.String(), result(err)).Inc()
	}
	return s
}

// Start restores persisted state and starts the queue consumer. Calling it again is a no-op
func (s *Svc) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true

	snap := s.deps.Store.Load(ctx)
	switch {
	case len(s.cfg.Signalers) > 0:
		snap.Signalers = s.cfg.Signalers
	case len(snap.Signalers) == 0:
		snap.Signalers = domain.DefaultSignalers
	}
	s.state.Restore(snap)
	s.metrics.setAutoproxy(snap.AutoproxyEnabled)
	s.classifier = classify.New(s.cfg.Name, s.cfg.Aliases, s.state.Signalers())

	qctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.stopQueue = cancel
	s.queueDone = make(chan struct{})
	go func() {
		defer close(s.queueDone)
		_ = s.queue.Run(qctx)
	}()

	s.log.Info().
		Str("store", s.deps.Store.Name()).
		Int("seen", s.state.SeenCount()).
		Bool("autoproxy", snap.AutoproxyEnabled).
		Strs("signalers", snap.Signalers).
		Msg("engine started")
}

// Stop halts the queue consumer after the job in flight, if any
func (s *Svc) Stop() {
	s.mu.Lock()
	cancel, done := s.stopQueue, s.queueDone
	s.stopQueue = nil
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Status returns a read-only view of the engine
func (s *Svc) Status() domain.Status {
	up := s.state.Uptime()
	return domain.Status{
		Autoproxy:   s.state.Autoproxy(),
		Lifecycle:   s.state.Lifecycle().String(),
		Uptime:      up,
		UptimeHuman: HumanDuration(up),
		Seen:        s.state.SeenCount(),
		QueueDepth:  s.queue.Len(),
		Signalers:   s.state.Signalers(),
		BoardID:     s.cfg.BoardID,
	}
}

// Gatherer exposes the engine metrics for scraping
func (s *Svc) Gatherer() prometheus.Gatherer { return s.deps.Registry }

// Queue exposes the action queue, mainly for tests and Drain on shutdown
func (s *Svc) Queue() *Queue { return s.queue }

// State exposes the owned engine state
func (s *Svc) State() *domain.EngineState { return s.state }

func (s *Svc) persist(ctx context.Context) {
	if err := s.deps.Store.Save(ctx, s.state.Snapshot()); err != nil {
		s.log.Error().Err(err).Str("store", s.deps.Store.Name()).Msg("persist state failed")
	}
}

func (s *Svc) classifyPost(p posts.Post) classify.Result {
	s.mu.Lock()
	c := s.classifier
	s.mu.Unlock()
	return c.Classify(p)
}
