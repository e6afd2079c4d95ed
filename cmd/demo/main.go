// Command demo runs a small server showing the session middleware end to
// end: a view counter per session, rolling cookie renewal, explicit
// destruction and an administrative dump of the in-memory store. Setting
// REDIS_URL switches persistence to Redis.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/sessionkit/pkg/config"
	"github.com/dmitrymomot/sessionkit/pkg/logger"
	"github.com/dmitrymomot/sessionkit/pkg/redisstore"
	"github.com/dmitrymomot/sessionkit/pkg/session"
)

type appConfig struct {
	Addr     string `env:"ADDR" envDefault:":8080"`
	RedisURL string `env:"REDIS_URL"`
	Secret   string `env:"SESSION_SECRET"`

	Session session.Config
}

func main() {
	log := logger.New(
		logger.WithFormat(logger.FormatText),
		logger.WithAttr(slog.String("service", "sessionkit-demo")),
	)

	var cfg appConfig
	config.MustLoad(&cfg)

	opts := []session.Option{
		session.WithConfig(cfg.Session),
		session.WithLogger(log),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	memStore := session.NewMemoryStore()
	if cfg.RedisURL != "" {
		redisCfg := redisstore.DefaultConfig()
		redisCfg.ConnectionURL = cfg.RedisURL
		client, err := redisstore.Connect(ctx, redisCfg)
		if err != nil {
			log.Error("redis connect failed", slog.Any("error", err))
			os.Exit(1)
		}
		defer client.Close()

		store := redisstore.NewWithConfig(client, redisCfg)
		defer store.Close()
		opts = append(opts, session.WithStore(store))
	} else {
		opts = append(opts, session.WithStore(memStore))
	}

	if cfg.Secret != "" {
		codec, err := session.NewSignedCodec(cfg.Secret)
		if err != nil {
			log.Error("invalid session secret", slog.Any("error", err))
			os.Exit(1)
		}
		opts = append(opts, session.WithCodec(codec))
	}

	manager := session.New(opts...)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(manager.Middleware)

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		sess := session.MustFromContext(req.Context())
		views, _ := sess.GetInt("views")
		sess.Set("views", views+1)
		writeJSON(w, map[string]any{"session": sess.ID(), "views": views + 1, "new": sess.IsNew()})
	})

	r.Get("/me", func(w http.ResponseWriter, req *http.Request) {
		sess := session.MustFromContext(req.Context())
		data := make(map[string]any, len(sess.Keys()))
		for _, k := range sess.Keys() {
			v, _ := sess.Get(k)
			data[k] = v
		}
		writeJSON(w, data)
	})

	r.Post("/destroy", func(w http.ResponseWriter, req *http.Request) {
		sess := session.MustFromContext(req.Context())
		if err := sess.Destroy(req.Context()); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	r.Get("/admin/sessions", func(w http.ResponseWriter, req *http.Request) {
		records, err := memStore.All(req.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, records)
	})

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("listening", slog.String("addr", cfg.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
