// Command jakebot watches a board and answers commands addressed to its mind buddy
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"jakebot/internal/core/timestamp"
	"jakebot/internal/core/version"
	"jakebot/internal/modkit"
	"jakebot/internal/modkit/module"
	"jakebot/internal/platform/config"
	"jakebot/internal/platform/logger"
	phttp "jakebot/internal/platform/net/http"
	"jakebot/internal/platform/store"

	"jakebot/internal/services/api"
	enginedom "jakebot/internal/services/engine/domain"
	enginemod "jakebot/internal/services/engine/module"
	jdom "jakebot/internal/services/journal/domain"
	journalmod "jakebot/internal/services/journal/module"
	statedom "jakebot/internal/services/state/domain"
	statemod "jakebot/internal/services/state/module"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

func main() {
	app := cli.App{
		Name:    "jakebot",
		Usage:   "board bot that proxies marked posts and answers {Name: COMMAND} directives",
		Version: version.Info().Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "env-file",
				Usage:   "dotenv file loaded before reading config; a missing default .env is ignored",
				EnvVars: []string{"JAKEBOT_ENV_FILE"},
			},
		},
		Before: setup,
	}
	app.Commands = []*cli.Command{
		{
			Name:  "run",
			Usage: "run the engine until SHUTDOWN or SIGINT/SIGTERM",
			Flags: []cli.Flag{
				configFlag(),
				&cli.StringFlag{
					Name:  "board",
					Usage: "board adapter: gateway or memory",
				},
			},
			Action: runEngine,
		},
		{
			Name:   "check",
			Usage:  "load and validate config, then print the resolved options",
			Flags:  []cli.Flag{configFlag(), &cli.BoolFlag{Name: "ping", Usage: "also ping configured stores"}},
			Action: runCheck,
		},
		{
			Name:      "parse-time",
			Usage:     "run the board timestamp parser on the given text",
			ArgsUsage: "<text>",
			Flags:     []cli.Flag{&cli.StringFlag{Name: "tz", Value: "Local", Usage: "IANA zone for absolute and generic forms"}},
			Action:    runParseTime,
		},
		{
			Name:  "version",
			Usage: "print build info",
			Action: func(cctx *cli.Context) error {
				fmt.Fprintln(cctx.App.Writer, version.Info())
				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Get().Error().Err(err).Msg("jakebot exited")
		os.Exit(1)
	}
}

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "yaml or json file overlay (env wins), e.g. the config.json written by setup",
		EnvVars: []string{"JAKEBOT_CONFIG"},
	}
}

// setup loads the dotenv file and then configures logging from LOG_*
func setup(cctx *cli.Context) error {
	if err := loadEnv(cctx.String("env-file")); err != nil {
		return err
	}
	opt := logger.FromEnv()
	opt.StaticFields = map[string]string{"version": version.Info().Version}
	logger.Init(opt)
	return nil
}

func loadEnv(path string) error {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("loading env file %s: %w", path, err)
		}
		return nil
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}
	return nil
}

func loadConfig(cctx *cli.Context) (config.Conf, enginemod.Options, error) {
	cfg := config.New()
	if path := cctx.String("config"); path != "" {
		var err error
		if cfg, err = cfg.WithFile(path, "JAKEBOT_"); err != nil {
			return cfg, enginemod.Options{}, err
		}
	}
	opts := enginemod.FromConfig(cfg)
	if kind := cctx.String("board"); kind != "" {
		opts.Board.Kind = kind
	}
	return cfg, opts, opts.Validate()
}

func runEngine(cctx *cli.Context) error {
	log := logger.Named("main")

	ctx, stop := signal.NotifyContext(cctx.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, opts, err := loadConfig(cctx)
	if err != nil {
		return err
	}

	st, err := store.Open(ctx, store.FromConfig(cfg, "jakebot"), store.WithLogger(*logger.Get()))
	if err != nil {
		return fmt.Errorf("opening stores: %w", err)
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			log.Error().Err(err).Msg("closing stores")
		}
	}()
	deps := modkit.FromStore(cfg, st)

	stateOverrides := statemod.Options{}
	if !cfg.Has("JAKEBOT_STATE_KEY") {
		stateOverrides.Key = opts.BoardID
	}
	state := statemod.Register(deps, stateOverrides)
	if err := state.Migrate(ctx); err != nil {
		return fmt.Errorf("migrating state: %w", err)
	}

	journal := journalmod.New(deps)
	module.Register(journal.Name(), journal.Ports())
	if err := journal.Migrate(ctx); err != nil {
		return fmt.Errorf("migrating journal: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	engine, err := enginemod.Register(deps, opts, enginemod.Collaborators{
		Store:    module.MustPortsOf[statedom.Store](state),
		Journal:  module.MustPortsOf[jdom.Recorder](journal),
		Registry: reg,
	})
	if err != nil {
		return err
	}

	log.Info().
		Str("board_id", opts.BoardID).
		Str("board", opts.Board.Kind).
		Str("state", state.Options().Backend).
		Bool("journal", journal.Enabled()).
		Str("version", version.Info().Version).
		Msg("starting")

	// the api outlives the engine loop just long enough to report shutting_down
	apiCtx, stopAPI := context.WithCancel(context.WithoutCancel(ctx))
	var wg sync.WaitGroup
	if cfg.MayBool("JAKEBOT_API_ENABLED", true) {
		srv := phttp.NewServer(cfg)
		apiOpts := api.FromConfig(cfg)
		apiOpts.Store = st
		apiOpts.Engine = module.MustPortsOf[enginedom.StatusPort](engine)
		apiOpts.Gatherer = reg
		api.Mount(srv.Router(), apiOpts)

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := srv.Run(apiCtx); err != nil {
				log.Error().Err(err).Msg("status api stopped")
			}
		}()
	}

	err = module.MustPortsOf[enginedom.RunnerPort](engine).Run(ctx)
	stopAPI()
	wg.Wait()

	switch {
	case errors.Is(err, enginedom.ErrShutdown):
		log.Info().Msg("signed off by command")
		return nil
	case errors.Is(err, context.Canceled):
		log.Info().Msg("interrupted, state saved")
		return nil
	default:
		return err
	}
}

func runCheck(cctx *cli.Context) error {
	cfg, opts, err := loadConfig(cctx)
	if err != nil {
		return err
	}

	shown := opts
	if shown.Board.Token != "" {
		shown.Board.Token = "<redacted>"
	}
	if shown.Board.Password != "" {
		shown.Board.Password = "<redacted>"
	}
	out, err := yaml.Marshal(shown)
	if err != nil {
		return err
	}
	fmt.Fprint(cctx.App.Writer, string(out))
	if keys := cfg.FileKeys(); len(keys) > 0 {
		fmt.Fprintf(cctx.App.Writer, "from %s: %s\n", cctx.String("config"), strings.Join(keys, ", "))
	}

	if !cctx.Bool("ping") {
		return nil
	}
	ctx, cancel := context.WithTimeout(cctx.Context, 30*time.Second)
	defer cancel()
	st, err := store.Open(ctx, store.FromConfig(cfg, "jakebot-check"))
	if err != nil {
		return err
	}
	defer func() { _ = st.Close(context.Background()) }()
	if err := st.Guard(ctx); err != nil {
		return err
	}
	fmt.Fprintln(cctx.App.Writer, "stores: ok")
	return nil
}

func runParseTime(cctx *cli.Context) error {
	text := cctx.Args().First()
	if text == "" {
		return cli.Exit("need the timestamp text as an argument", 2)
	}
	loc, err := time.LoadLocation(cctx.String("tz"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("bad --tz: %v", err), 2)
	}
	r := timestamp.Parser{Loc: loc}.Resolve(text)
	if r.Kind == timestamp.KindNone {
		fmt.Fprintln(cctx.App.Writer, "no match")
		return nil
	}
	fmt.Fprintf(cctx.App.Writer, "%s\t%s\n", r.Kind, r.At.Format(time.RFC3339))
	return nil
}
