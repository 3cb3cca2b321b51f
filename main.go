package main

import (
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gjinn/config"
	"gjinn/core"
	"gjinn/events"
	"gjinn/generation"
	"gjinn/handlers/api/shared"
	"gjinn/handlers/api/wishes"
	"gjinn/handlers/auth"
	authMiddleware "gjinn/middleware"
	"gjinn/stores"
	"gjinn/wish"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"
)

func setupRouter(registry *wish.Registry, store stores.Store, authSvc *auth.Service) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Logger)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Content-Length", "X-CSRF-Token", "Token", "session", "Origin", "Host", "Connection", "Accept-Encoding", "Accept-Language", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.AuthJWT(authSvc))

			r.Route("/wishes", func(r chi.Router) {
				r.Post("/", wishes.HandleCreateWish(registry))
				r.Get("/", wishes.HandleListWishes(registry))
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", wishes.HandleGetWish(registry))
					r.Post("/favorite", wishes.HandleToggleFavorite(registry))
					r.Post("/download", wishes.HandleRecordDownload(registry))
					r.Post("/share", wishes.HandleShareWish(registry, store))
				})
			})
			r.Get("/stats", wishes.HandleStats(registry))
			r.Get("/gallery", wishes.HandleGallery(registry))
			r.Get("/daily", wishes.HandleDailyPrompt(registry, time.Now))
			r.Post("/daily/complete", wishes.HandleCompleteDaily(registry, time.Now))
		})

		// Published creations are viewable without a session.
		r.Get("/shared/{id}", shared.HandleGetShared(store))
	})

	r.Route("/auth", func(r chi.Router) {
		r.Get("/login", authSvc.HandleLogin)
		r.Get("/callback", authSvc.HandleCallback)
		r.Post("/guest", authSvc.HandleGuest)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]string{"status": "ok"})
	})

	return r
}

func waitForShutdown(hub *events.Hub) {
	exit := make(chan struct{})
	signalC := make(chan os.Signal, 1)

	signal.Notify(signalC, os.Interrupt, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		for s := range signalC {
			switch s {
			case os.Interrupt, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT:
				close(exit)
				return
			}
		}
	}()

	<-exit
	logrus.Info("Shutting down...")
	hub.Close()
	os.Exit(0)
}

func main() {
	listenAddress := flag.String("listen", ":3002", "The address to listen on.")
	logLevel := flag.String("loglevel", "info", "The log level (debug, info, warn, error).")
	flag.Parse()

	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %v", err)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	store := stores.GetStore(cfg)

	var gen core.Generator
	if cfg.GeneratorOffline {
		logrus.Info("Generator running in offline mode")
		gen = &generation.Static{}
	} else {
		gen = generation.NewPollinations(cfg.GeneratorBaseURL, cfg.GeneratorAPIKey)
	}

	hub := events.NewHub()
	registry := wish.NewRegistry(store, gen, hub, wish.Options{
		MaxRequestsPerHour: cfg.MaxRequestsPerHour,
		ImageWidth:         cfg.ImageWidth,
		ImageHeight:        cfg.ImageHeight,
		Model:              cfg.GeneratorModel,
	})

	authSvc := auth.NewService(cfg)

	r := setupRouter(registry, store, authSvc)
	r.Mount("/socket.io/", hub.Handler())

	logrus.WithField("addr", *listenAddress).Info("starting server")
	go func() {
		if err := http.ListenAndServe(*listenAddress, r); err != nil {
			logrus.WithField("event", "start server").Fatal(err)
		}
	}()

	logrus.Debug("Server is running in the background")
	waitForShutdown(hub)
}
