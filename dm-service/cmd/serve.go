package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/choosenname/OneTeam/dm-service/internal/cache"
	"github.com/choosenname/OneTeam/dm-service/internal/config"
	"github.com/choosenname/OneTeam/dm-service/internal/delivery"
	"github.com/choosenname/OneTeam/dm-service/internal/handler"
	"github.com/choosenname/OneTeam/dm-service/internal/hub"
	"github.com/choosenname/OneTeam/dm-service/internal/identity"
	"github.com/choosenname/OneTeam/dm-service/internal/repository"
	"github.com/choosenname/OneTeam/dm-service/internal/service"
	"github.com/choosenname/OneTeam/pkg/jwt"
	pkglog "github.com/choosenname/OneTeam/pkg/log"
	"github.com/choosenname/OneTeam/pkg/middleware"
	"github.com/choosenname/OneTeam/pkg/pubsub"
	"github.com/choosenname/OneTeam/pkg/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP and WebSocket server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := pkglog.L()

	// Database
	db, err := openDatabase(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer closeDatabase(db)

	if err := migrate(db); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	logger.Info().Str("driver", cfg.Database.Driver).Msg("database migration completed")

	conversationRepo := repository.NewGormConversationRepository(db)
	userRepo := repository.NewGormUserRepository(db)

	// Optional conversation cache
	var convCache cache.ConversationCache
	if cfg.Cache.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := client.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			client.Close()
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		redisCache := cache.NewRedisConversationCache(client, cfg.Cache.KeyPrefix)
		defer redisCache.Close()
		convCache = redisCache
		logger.Info().Msg("redis conversation cache connected")
	}

	// Delivery: the hub always serves local WebSocket subscribers. With a bus
	// driver, messages go through the bus and the relay feeds them back into
	// the hub on every instance.
	h := hub.NewHub(cfg.WebSocket)

	var channel delivery.Channel = h
	var relay *delivery.Relay
	switch cfg.Delivery.Driver {
	case config.DeliveryLocal:
	case config.DeliveryRedis, config.DeliveryKafka:
		bus, err := pubsub.NewPubSub(cfg.PubSub())
		if err != nil {
			return fmt.Errorf("connect to %s bus: %w", cfg.Delivery.Driver, err)
		}
		defer bus.Close()
		channel = delivery.NewBusChannel(bus)
		relay = delivery.NewRelay(bus, h)
	default:
		return fmt.Errorf("unsupported delivery driver: %s", cfg.Delivery.Driver)
	}
	logger.Info().Str("driver", cfg.Delivery.Driver).Msg("delivery channel ready")

	// Attachment storage
	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	// Auth
	jwtManager, err := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessDuration, cfg.JWT.Issuer)
	if err != nil {
		return fmt.Errorf("jwt: %w", err)
	}
	authMiddleware := middleware.NewAuthMiddleware(jwtManager)

	// Services
	messageService := service.NewDirectMessageService(conversationRepo, userRepo, convCache, cfg.Cache.TTL, channel, cfg.Messages.PageSize)
	profileService := service.NewProfileService(userRepo)
	resolver := identity.NewResolver(userRepo)

	// Router
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(pkglog.GinMiddleware(logger))

	handler.NewHandler(messageService, profileService, resolver, authMiddleware).RegisterRoutes(r)
	handler.NewUploadHandler(store, authMiddleware, cfg.Upload.MaxSize, cfg.Upload.PresignExpiry).RegisterRoutes(r)
	handler.NewWSHandler(h, messageService, authMiddleware, cfg.WebSocket).RegisterRoutes(r)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Relay and hub outlive the signal context so shutdown can stop them in order.
	relayCtx, cancelRelay := context.WithCancel(context.Background())
	defer cancelRelay()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		h.Run(context.Background())
		return nil
	})

	relayDone := make(chan struct{})
	if relay != nil {
		g.Go(func() error {
			defer close(relayDone)
			return relay.Run(pkglog.WithLogger(relayCtx, logger))
		})
	} else {
		close(relayDone)
	}

	g.Go(func() error {
		logger.Info().Str("addr", addr).Msg("dm-service starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutting down dm-service")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		// 1. stop accepting HTTP
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("server shutdown error")
		}

		// 2. stop the bus relay
		cancelRelay()
		select {
		case <-relayDone:
		case <-shutdownCtx.Done():
			logger.Warn().Msg("relay did not stop before shutdown timeout")
		}

		// 3. close all WS clients and stop Hub.Run
		h.Stop()
		return nil
	})

	err = g.Wait()
	// bus, cache and database are closed by the deferred calls above.
	logger.Info().Msg("dm-service stopped")
	return err
}
