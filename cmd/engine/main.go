package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/KhuatDuy04/crawl/internal/config"
	"github.com/KhuatDuy04/crawl/internal/crawl"
	"github.com/KhuatDuy04/crawl/internal/events"
	"github.com/KhuatDuy04/crawl/internal/httpapi"
	"github.com/KhuatDuy04/crawl/internal/render"
	"github.com/KhuatDuy04/crawl/internal/scheduler"
	"github.com/KhuatDuy04/crawl/internal/scrape/util"
	"github.com/KhuatDuy04/crawl/internal/search"
	"github.com/KhuatDuy04/crawl/internal/store"
)

type flags struct {
	configPath string
	dataDir    string
	once       bool
	jobType    string
	port       int
}

func parseFlags(args []string) (flags, error) {
	var f flags
	fs := pflag.NewFlagSet("engine", pflag.ContinueOnError)
	fs.StringVarP(&f.configPath, "config", "c", "", "config file (default <data-dir>/config.yml)")
	fs.StringVar(&f.dataDir, "data-dir", "", "data directory (env CRAWL_DATA_DIR, default .)")
	fs.BoolVar(&f.once, "once", false, "crawl once, print the records as JSON and exit")
	fs.StringVar(&f.jobType, "job-type", "", "with --once, crawl only this job type")
	fs.IntVarP(&f.port, "port", "p", 0, "override app.port")
	if err := fs.Parse(args); err != nil {
		return f, err
	}
	if f.dataDir == "" {
		f.dataDir = os.Getenv("CRAWL_DATA_DIR")
	}
	if f.dataDir == "" {
		f.dataDir = "."
	}
	return f, nil
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "engine:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	f, err := parseFlags(args)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(f.dataDir, 0o755); err != nil {
		return err
	}

	userCfgPath := f.configPath
	if userCfgPath == "" {
		userCfgPath, err = config.EnsureUserConfig(f.dataDir, filepath.Join("config", "config.yml"))
		if err != nil {
			return fmt.Errorf("config bootstrap: %w", err)
		}
	}

	// Load config and keep it reloadable
	var cfgVal atomic.Value // stores config.Config
	loadCfg := func() (config.Config, error) {
		return config.Load(userCfgPath)
	}
	cfg, err := loadCfg()
	if err != nil {
		return fmt.Errorf("config load (%s): %w", userCfgPath, err)
	}
	if f.port != 0 {
		cfg.App.Port = f.port
	}
	cfg, vr := config.NormalizeAndValidate(cfg)
	if !vr.OK() {
		return fmt.Errorf("invalid config %s: %v", userCfgPath, vr.Errors)
	}
	cfgVal.Store(cfg)

	log, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	for _, w := range vr.Warnings {
		log.Warn("config warning", zap.String("warning", w))
	}

	dataDir := f.dataDir
	if cfg.App.DataDir != "" {
		dataDir = cfg.App.DataDir
	}
	dbPath := filepath.Join(dataDir, "jobs.db")
	db, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := store.Migrate(db.Pool); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	session := render.NewSession(render.LaunchRod(render.RodOptions{
		Bin:        cfg.Browser.Bin,
		Headless:   cfg.Browser.Headless,
		NoSandbox:  cfg.Browser.NoSandbox,
		ControlURL: cfg.Browser.ControlURL,
	}))
	defer func() {
		if err := session.Close(); err != nil {
			log.Warn("browser close", zap.Error(err))
		}
	}()

	hub := events.NewHub()
	runner := &crawl.Runner{
		Session:  session,
		Store:    db,
		Hub:      hub,
		Limiter:  util.NewHostLimiter(cfg.Crawl.RatePerSec, cfg.Crawl.Burst),
		LockPath: filepath.Join(dataDir, "crawl.lock"),
		Config:   func() config.Config { return cfgVal.Load().(config.Config) },
		Log:      log,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if f.once {
		return crawlOnce(ctx, runner, f.jobType)
	}

	if spec := cfg.Crawl.Schedule; spec != "" {
		sched := scheduler.New(log)
		if err := sched.Add(ctx, spec, "crawl", func(ctx context.Context) error {
			_, err := runner.Run(ctx, nil)
			return err
		}); err != nil {
			return err
		}
		sched.Start()
		log.Info("crawl scheduled", zap.String("schedule", spec))
		defer func() { <-sched.Stop().Done() }()
	}

	mux := httpapi.NewMux(httpapi.Deps{
		Crawler:     runner,
		Searcher:    search.Engine{Store: db},
		Hub:         hub,
		CfgVal:      &cfgVal,
		UserCfgPath: userCfgPath,
		LoadCfg:     loadCfg,
		Log:         log,
	})

	addr := net.JoinHostPort(cfg.App.Host, strconv.Itoa(cfg.App.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler: httpapi.Chain(mux,
			httpapi.RequestID,
			httpapi.Recover(log),
			httpapi.AccessLog(log),
			httpapi.Cors,
		),
		ReadHeaderTimeout: 5 * time.Second,
	}

	token := os.Getenv("CRAWL_SHUTDOWN_TOKEN")
	if token == "" {
		if token, err = randomToken(16); err != nil {
			return err
		}
	}
	mux.HandleFunc("/shutdown", shutdownHandler(token, srv))

	log.Info("engine listening",
		zap.String("addr", "http://"+ln.Addr().String()),
		zap.String("db", dbPath),
		zap.String("config", userCfgPath),
		zap.String("shutdown_token", token),
	)

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		log.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			return err
		}
	}
	return nil
}

func crawlOnce(ctx context.Context, runner *crawl.Runner, jobType string) error {
	var types []string
	if jobType != "" {
		types = []string{jobType}
	}
	recs, err := runner.Run(ctx, types)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(recs)
}
