// Package server assembles the catalog web service from configuration:
// optional Redis and MongoDB connections, the page store, sessions, rate
// limiting, and the gin routes.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"

	"github.com/studentcatalog/catalog-web/handlers"
	"github.com/studentcatalog/catalog-web/internal/config"
	"github.com/studentcatalog/catalog-web/internal/database"
	"github.com/studentcatalog/catalog-web/internal/diagnostics"
	"github.com/studentcatalog/catalog-web/internal/graphql"
	"github.com/studentcatalog/catalog-web/internal/session"
	"github.com/studentcatalog/catalog-web/internal/view"
	"github.com/studentcatalog/catalog-web/pkg/logger"
	"github.com/studentcatalog/catalog-web/pkg/metrics"
	"github.com/studentcatalog/catalog-web/pkg/middleware"
)

// DiagnosticsCollection holds diagnostics entries when MongoDB is configured.
const DiagnosticsCollection = "diagnostics"

// Deps are the optional backing services. A nil field disables the
// feature that needs it.
type Deps struct {
	Redis *redis.Client
	Mongo *mongo.Client
}

// Server is the assembled service.
type Server struct {
	cfg     *config.Config
	deps    Deps
	engine  *gin.Engine
	started time.Time
}

// Connect opens the backing services named in cfg. Connection failures
// are logged and the feature falls back (memory page store, log-only
// diagnostics).
func Connect(ctx context.Context, cfg *config.Config) Deps {
	var deps Deps
	if cfg.Redis.Host != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warnf("redis %s:%s unreachable, using in-memory page store: %v", cfg.Redis.Host, cfg.Redis.Port, err)
			_ = client.Close()
		} else {
			logger.Infof("connected to redis %s:%s", cfg.Redis.Host, cfg.Redis.Port)
			deps.Redis = client
		}
	}
	if cfg.MongoDB.URI != "" {
		client, err := database.ConnectWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, 5, time.Second)
		if err != nil {
			logger.Warnf("mongodb unreachable, diagnostics go to the log only: %v", err)
		} else {
			logger.Infof("connected to mongodb (database %s)", cfg.MongoDB.Database)
			deps.Mongo = client
		}
	}
	return deps
}

// New builds the router over deps.
func New(cfg *config.Config, deps Deps) (*Server, error) {
	s := &Server{cfg: cfg, deps: deps, started: time.Now()}

	sessions, err := session.NewManager(cfg.Session.Secret, cfg.Session.TTL)
	if err != nil {
		return nil, err
	}

	var store view.Store = view.NewMemoryStore(cfg.Redis.PageTTL)
	if deps.Redis != nil {
		store = view.NewRedisStore(deps.Redis, "page:", cfg.Redis.PageTTL)
	}

	sinks := diagnostics.Multi{diagnostics.LogSink{}}
	if deps.Mongo != nil {
		col := deps.Mongo.Database(cfg.MongoDB.Database).Collection(DiagnosticsCollection)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := diagnostics.EnsureIndexes(ctx, col, 30*24*time.Hour); err != nil {
			logger.Warnf("diagnostics: ensure indexes: %v", err)
		}
		cancel()
		sinks = append(sinks, diagnostics.NewMongoSink(col))
	}

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})
	r.GET("/ready", s.ready)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.RegisterCollectors(reg)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	handlers.RegisterSwagger(r)

	page := r.Group("/")
	page.Use(middleware.SessionMiddleware(sessions, session.CookieName, session.NewID, cfg.Server.Environment == "production"))
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && deps.Redis != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			page.Use(middleware.RedisRateLimitMiddleware(deps.Redis, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			page.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	client := graphql.NewClient(cfg.GraphQL.URL, &http.Client{Timeout: cfg.GraphQL.Timeout})
	handlers.NewUIHandler(client, store, sinks).Register(page)

	s.engine = r
	return s, nil
}

func (s *Server) Handler() http.Handler { return s.engine }

// ready reports 200 only when every configured dependency answers.
func (s *Server) ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	ready := true
	deps := map[string]bool{"graphql": s.cfg.GraphQL.URL != ""}
	if !deps["graphql"] {
		ready = false
	}
	if s.cfg.Redis.Host != "" {
		deps["redis"] = s.deps.Redis != nil && s.deps.Redis.Ping(ctx).Err() == nil
		ready = ready && deps["redis"]
	}
	if s.cfg.MongoDB.URI != "" {
		deps["mongodb"] = s.deps.Mongo != nil && s.deps.Mongo.Ping(ctx, nil) == nil
		ready = ready && deps["mongodb"]
	}

	uptime := time.Since(s.started).String()
	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "deps": deps, "uptime": uptime})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "deps": deps, "uptime": uptime})
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%s", s.cfg.Server.Host, s.cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Infof("catalog-web listening on %s (graphql %s)", addr, s.cfg.GraphQL.URL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// Close releases the backing connections.
func (s *Server) Close() {
	if s.deps.Redis != nil {
		_ = s.deps.Redis.Close()
	}
	if s.deps.Mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.deps.Mongo.Disconnect(ctx)
	}
	_ = logger.Sync()
}

// Serve connects the backing services, builds the server and runs it
// until ctx is cancelled.
func Serve(ctx context.Context, cfg *config.Config) error {
	s, err := New(cfg, Connect(ctx, cfg))
	if err != nil {
		return err
	}
	defer s.Close()
	return s.Run(ctx)
}
