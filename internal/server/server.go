package server

import (
	"backend-runtrack/internal/auth"
	"backend-runtrack/internal/challenge"
	"backend-runtrack/internal/config"
	"backend-runtrack/internal/exercise"
	"backend-runtrack/internal/location"
	"backend-runtrack/internal/profile"
	"backend-runtrack/internal/recorder"
	"backend-runtrack/internal/route"
	"backend-runtrack/internal/stream"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App    *fiber.App
	Cfg    config.Config
	DB     *pgxpool.Pool
	Redis  *redis.Client
	Stream *stream.Hub
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client) *Server {
	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{
		App:    app,
		Cfg:    cfg,
		DB:     db,
		Redis:  redisClient,
		Stream: stream.NewHub(redisClient),
	}

	registerRoutes(s)
	return s
}

// demoTrack is the loop played back when SIM_FEED is on, for running the
// recorder without a device pushing fixes.
var demoTrack = []location.GeoFix{
	{Lat: 14.5995, Lng: 120.9842},
	{Lat: 14.6000, Lng: 120.9850},
	{Lat: 14.6010, Lng: 120.9861},
	{Lat: 14.6021, Lng: 120.9874},
	{Lat: 14.6033, Lng: 120.9888},
}

func newFeedFactory(cfg config.Config) func() location.Feed {
	if cfg.SimFeed {
		return func() location.Feed { return location.NewSimFeed(demoTrack) }
	}
	return func() location.Feed { return location.NewPushFeed(cfg.FixTimeout()) }
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)

	routeStore := route.NewStore(s.DB)
	manager := recorder.NewManager(newFeedFactory(s.Cfg), routeStore, s.Stream)
	manager.SetWatchOptions(location.WatchOptions{Interval: s.Cfg.FixInterval()})

	auth.RegisterRoutes(s.App.Group("/auth"), auth.NewService(s.Cfg.JWTSecret, s.DB), jwtMiddleware)
	recorder.RegisterRoutes(s.App.Group("/recorder"), manager, jwtMiddleware)
	route.RegisterRoutes(s.App.Group("/routes"), routeStore, jwtMiddleware)
	exercise.RegisterRoutes(s.App.Group("/exercises"), exercise.NewService(s.DB), jwtMiddleware)
	challenge.RegisterRoutes(s.App.Group("/challenges"), challenge.NewService(s.DB), jwtMiddleware)
	profile.RegisterRoutes(s.App.Group("/profile"), profile.NewService(s.DB), jwtMiddleware)
	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream)
}
