package main // Entry point package

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/iliyamo/movie-news/internal/config"
	"github.com/iliyamo/movie-news/internal/database"
	"github.com/iliyamo/movie-news/internal/dto"
	"github.com/iliyamo/movie-news/internal/handler"
	"github.com/iliyamo/movie-news/internal/logger"
	"github.com/iliyamo/movie-news/internal/middleware"
	"github.com/iliyamo/movie-news/internal/queue"
	"github.com/iliyamo/movie-news/internal/repository"
	"github.com/iliyamo/movie-news/internal/repository/memory"
	"github.com/iliyamo/movie-news/internal/router"
	"github.com/iliyamo/movie-news/internal/service"
)

func main() {
	_ = godotenv.Load() // a missing .env is fine; the environment may be set already

	cfg, err := config.Load()
	if err != nil {
		zlog.Fatal().Err(err).Msg("load config")
	}
	log := logger.New("movie-news", cfg.Env, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, db, err := openStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.StoreBackend).Msg("open store")
	}
	if db != nil {
		defer db.Close()
	}

	var events service.EventPublisher
	if cfg.Events {
		events = queue.NewPublisher(cfg.RabbitMQURL, log)
	}

	movies := service.NewMovieService(store, events, log)
	news := service.NewNewsService(store, events, log)
	twitters := service.NewTwitterService(store, events, log)
	users := service.NewUserService(store, cfg.JWTSecret, cfg.AccessTTLMin, cfg.BcryptCost, log)

	var health echo.HandlerFunc
	if db != nil {
		health = handler.Health(db)
	} else {
		health = handler.Health(nil)
	}

	h := router.Handlers{
		Movies: handler.NewResourceHandler[dto.Movie](movies, handler.ResourceConfig[dto.Movie]{
			Entity: "movie", BasePath: "/api/movies", AppName: cfg.AppName,
			SortKeys: repository.MovieSortKeys, OwnerFilter: true,
			ID: func(d dto.Movie) *uint64 { return d.ID },
		}, log),
		MovieTwitters: handler.NewMovieTwittersHandler(movies, log),
		News: handler.NewResourceHandler[dto.News](news, handler.ResourceConfig[dto.News]{
			Entity: "news", BasePath: "/api/news", AppName: cfg.AppName,
			SortKeys: repository.NewsSortKeys, OwnerFilter: true,
			ID: func(d dto.News) *uint64 { return d.ID },
		}, log),
		Twitters: handler.NewResourceHandler[dto.Twitter](twitters, handler.ResourceConfig[dto.Twitter]{
			Entity: "twitter", BasePath: "/api/twitters", AppName: cfg.AppName,
			SortKeys: repository.TwitterSortKeys,
			ID: func(d dto.Twitter) *uint64 { return d.ID },
		}, log),
		Auth:   handler.NewAuthHandler(users, log),
		Health: health,
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(echomw.Secure())

	var extra []echo.MiddlewareFunc
	if rdb := config.NewRedisClient(ctx); rdb != nil {
		defer rdb.Close()
		extra = append(extra,
			middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, log),
			middleware.NewRedisCache(config.LoadCacheConfig(), rdb, log),
		)
	} else {
		log.Warn().Msg("redis unavailable: caching and rate limiting disabled")
	}
	router.Register(e, h, cfg.JWTSecret, extra...)

	go func() {
		addr := ":" + cfg.Port
		log.Info().Str("addr", addr).Str("env", cfg.Env).Str("store", cfg.StoreBackend).Msg("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	shutdown(e, log)
}

func openStore(cfg config.Config) (repository.Store, *sql.DB, error) {
	if cfg.StoreBackend == config.BackendMemory {
		return memory.New(), nil, nil
	}
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		return nil, nil, err
	}
	return repository.NewSQLStore(db), db, nil
}

func shutdown(e *echo.Echo, log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown")
		return
	}
	log.Info().Msg("server exited cleanly")
}
