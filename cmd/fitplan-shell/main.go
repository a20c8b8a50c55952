package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/yndnr/fitplan-go/internal/app"
	"github.com/yndnr/fitplan-go/internal/app/config"
	"github.com/yndnr/fitplan-go/internal/core/domain"
	"github.com/yndnr/fitplan-go/internal/infra/buildinfo"
	"github.com/yndnr/fitplan-go/internal/infra/confloader"
	"github.com/yndnr/fitplan-go/internal/infra/shutdown"
	"github.com/yndnr/fitplan-go/internal/server/httpserver"
	"github.com/yndnr/fitplan-go/internal/server/httpserver/handler"
	"github.com/yndnr/fitplan-go/internal/telemetry/logger"
)

func main() {
	ctx, stop := shutdown.WithSignals(context.Background())
	err := run(ctx, os.Args[1:])
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("fitplan-shell", flag.ContinueOnError)
	var (
		configFile  = fs.String("config", "", "Path to configuration file")
		addr        = fs.String("addr", "", "Listen address (overrides shell.addr)")
		dataDir     = fs.String("data-dir", "", "Storage directory (overrides storage.dir)")
		showVersion = fs.Bool("version", false, "Show version information")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *showVersion {
		fmt.Println("fitplan-shell " + buildinfo.String())
		return nil
	}

	flags := map[string]any{}
	if *addr != "" {
		flags["shell.addr"] = *addr
	}
	if *dataDir != "" {
		flags["storage.dir"] = *dataDir
	}

	cfg, err := config.Load(*configFile, flags)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := config.Verify(cfg); err != nil {
		return describe(err)
	}

	log := logger.New(cfg.Log)
	logger.SetDefault(log)
	log.Info("starting fitplan-shell",
		"version", buildinfo.Version,
		"storage", cfg.Storage.Engine,
		"addr", cfg.Shell.Addr)

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}

	tracker := a.Routes.Tracker()
	tracker.Start()
	a.OnClose("tracker", func(context.Context) error {
		tracker.Stop()
		return nil
	})

	router := httpserver.NewRouter(&httpserver.RouterConfig{
		Deps: handler.Deps{
			Sessions: a.Sessions,
			Routes:   a.Routes,
			Plans:    a.Plans,
			Broker:   a.Broker,
			Tabs:     domain.DefaultTabs(),
			Logger:   log.With("component", "handler"),
		},
		Logger:        log,
		Metrics:       a.Metrics,
		ExposeMetrics: cfg.Shell.Metrics,
		RateLimit:     cfg.Shell.RateLimit,
		RateBurst:     cfg.Shell.RateBurst,
		TrustProxy:    cfg.Shell.TrustProxy,
		CORSOrigins:   cfg.Shell.CORSOrigins,
	})

	ln, err := net.Listen("tcp", cfg.Shell.Addr)
	if err != nil {
		_ = a.Close()
		return fmt.Errorf("listen %s: %w", cfg.Shell.Addr, err)
	}

	srv := httpserver.New(cfg.Shell.Addr, router, httpserver.Options{
		ReadTimeout:  cfg.Shell.ReadTimeout,
		WriteTimeout: cfg.Shell.WriteTimeout,
	})
	a.OnClose("http", func(ctx context.Context) error {
		log.Info("shutting down HTTP server")
		return srv.Shutdown(ctx)
	})

	listeners := []net.Listener{ln}
	if cfg.Shell.Socket != "" {
		sock, err := httpserver.ListenUnix(cfg.Shell.Socket)
		if err != nil {
			_ = ln.Close()
			_ = a.Close()
			return fmt.Errorf("listen %s: %w", cfg.Shell.Socket, err)
		}
		listeners = append(listeners, sock)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, l := range listeners {
		g.Go(func() error {
			log.Info("HTTP server listening", "addr", l.Addr().String())
			return srv.Serve(l)
		})
	}

	if cfg.Shell.WatchConfig && *configFile != "" {
		w, err := watchConfig(*configFile, flags, log)
		if err != nil {
			log.Warn("config watch disabled", "error", err)
		} else {
			g.Go(func() error { return w.Run(gctx) })
		}
	}

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown requested")
		return a.Close()
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("shell stopped with error", "error", err)
		return err
	}
	log.Info("shell stopped gracefully")
	return nil
}

// watchConfig reapplies the log level whenever the config file changes.
// Other settings take effect on restart.
func watchConfig(path string, flags map[string]any, log *slog.Logger) (*confloader.Watcher, error) {
	w, err := confloader.NewWatcher(path, confloader.WithWatcherLogger(log))
	if err != nil {
		return nil, err
	}
	w.OnChange(func(string) {
		cfg, err := config.Load(path, flags)
		if err == nil {
			err = config.Verify(cfg)
		}
		if err != nil {
			log.Warn("config reload rejected", "error", describe(err))
			return
		}
		logger.SetLevel(cfg.Log.Level)
		log.Info("log level reloaded", "level", cfg.Log.Level)
	})
	return w, nil
}

// describe includes the cause of a domain error in its message.
func describe(err error) error {
	var de *domain.DomainError
	if errors.As(err, &de) && de.Cause != nil {
		return fmt.Errorf("%w: %v", err, de.Cause)
	}
	return err
}
