package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/tweeter-app/server/config"
	"github.com/tweeter-app/server/internal/auth"
	"github.com/tweeter-app/server/internal/db"
	"github.com/tweeter-app/server/internal/handlers"
	"github.com/tweeter-app/server/internal/mq"
	"github.com/tweeter-app/server/internal/services"
	"github.com/tweeter-app/server/internal/session"
	"github.com/tweeter-app/server/internal/storage"
	"github.com/tweeter-app/server/internal/store"
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	events     *mq.MQ
}

// New constructs a Server with its full dependency graph. A missing session
// secret or an unreachable database is a construction error; the process
// must not come up without them.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	codec, err := session.NewCodec(cfg.SessionSecrets)
	if err != nil {
		return nil, errors.New("SESSION_SECRET is required")
	}

	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	avatarStorage, err := newStorage(ctx, cfg.Storage)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	events, err := newEvents(ctx, cfg.Events)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	profileRepo := store.NewProfileRepository(dbConn)
	tweetRepo := store.NewTweetRepository(dbConn)
	likeRepo := store.NewLikeRepository(dbConn)

	authService := services.NewAuthService(profileRepo, auth.NewPasswordHasher())
	tweetService := services.NewTweetService(tweetRepo, likeRepo, eventPublisher(events))
	profileService := services.NewProfileService(profileRepo, tweetRepo, avatarStore(avatarStorage))

	authHandler := handlers.NewAuthHandler(authService, codec, cfg.Production)
	tweetHandler := handlers.NewTweetHandler(tweetService)
	profileHandler := handlers.NewProfileHandler(profileService)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
	)
	router.Get("/healthz", handlers.Healthz)
	handlers.AuthRouter(router, authHandler)
	handlers.TweetRouter(router, tweetHandler, authHandler)
	handlers.ProfileRouter(router, profileHandler, authHandler)

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		events:     events,
	}, nil
}

// newStorage selects the avatar storage backend, or none.
func newStorage(ctx context.Context, cfg config.StorageConfig) (*storage.Storage, error) {
	switch cfg.Backend {
	case config.BackendMinio:
		client, err := storage.NewMinioClient(cfg.Minio)
		if err != nil {
			return nil, err
		}
		s := storage.NewStorage(client)
		if err := s.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return s, nil
	case config.BackendGCS:
		client, err := storage.NewGCSClient(ctx, cfg.GCS)
		if err != nil {
			return nil, err
		}
		s := storage.NewStorage(client)
		if err := s.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return s, nil
	case config.BackendNone, "":
		return nil, nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
}

// newEvents selects the event broker backend, or none.
func newEvents(ctx context.Context, cfg config.EventsConfig) (*mq.MQ, error) {
	switch cfg.Backend {
	case config.BackendRabbitMQ:
		client, err := mq.NewRabbitMQClient(cfg.RabbitMQ)
		if err != nil {
			return nil, err
		}
		return mq.New(client), nil
	case config.BackendPubSub:
		client, err := mq.NewPubSubClient(ctx, cfg.PubSub)
		if err != nil {
			return nil, err
		}
		return mq.New(client), nil
	case config.BackendNone, "":
		return nil, nil
	}
	return nil, fmt.Errorf("unknown events backend %q", cfg.Backend)
}

// eventPublisher adapts a possibly-nil *mq.MQ to the service interface
// without smuggling a typed nil into it.
func eventPublisher(events *mq.MQ) services.EventPublisher {
	if events == nil {
		return nil
	}
	return events
}

// avatarStore adapts a possibly-nil *storage.Storage the same way.
func avatarStore(s *storage.Storage) services.AvatarStore {
	if s == nil {
		return nil
	}
	return s
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown attempts a graceful shutdown.
func (s *Server) Shutdown() error {
	if s.events != nil {
		_ = s.events.Close()
	}
	if s.db != nil {
		_ = s.db.Close()
	}
	return s.httpServer.Close()
}
