package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/eshop-dev/eshop-api/internal/cache"
	"github.com/eshop-dev/eshop-api/internal/config"
	"github.com/eshop-dev/eshop-api/internal/es"
	"github.com/eshop-dev/eshop-api/internal/httpserver"
	"github.com/eshop-dev/eshop-api/internal/logging"
	"github.com/eshop-dev/eshop-api/internal/mykafka"
	"github.com/eshop-dev/eshop-api/internal/repo"
	"github.com/eshop-dev/eshop-api/internal/service"
	"github.com/eshop-dev/eshop-api/internal/token"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	logger := logging.New(cfg.LogLevel)
	slog.SetDefault(logger)

	db, err := config.InitDB(cfg)
	if err != nil {
		return err
	}

	codec, err := token.NewCodec(cfg.JWTSecret, time.Now)
	if err != nil {
		return err
	}

	var store cache.Cache
	if rdb := config.NewRedisClient(cfg); rdb != nil {
		store = cache.NewRedis(rdb)
		logger.Info("redis connected", "addr", cfg.RedisAddr)
	} else {
		store = cache.NewMemory()
		logger.Warn("redis unreachable, falling back to in-memory cache", "addr", cfg.RedisAddr)
	}

	var producer *mykafka.Producer
	if cfg.KafkaAddr != "" {
		producer = mykafka.NewProducer([]string{cfg.KafkaAddr})
		defer producer.Close()
		logger.Info("kafka producer initialized", "addr", cfg.KafkaAddr)
	} else {
		logger.Warn("KAFKA_ADDR not set, event publishing disabled")
	}

	search, err := es.NewClient(cfg)
	if err != nil {
		logger.Warn("elasticsearch unavailable, search falls back to database", "error", err)
	} else if search == nil {
		logger.Warn("ES_URL not set, search falls back to database")
	}

	users := repo.NewUserRepo(db)
	tokens := repo.NewRefreshTokenRepo(db)
	carts := repo.NewCartRepo(db)
	products := repo.NewProductRepo(db)
	orders := repo.NewOrderRepo(db)
	profiles := repo.NewProfileRepo(db)

	refreshSvc := service.NewRefreshTokenService(users, tokens, time.Now)
	authSvc := service.NewAuthService(users, refreshSvc, codec)
	cartSvc := service.NewCartService(carts, products, store, cfg.CartTTL)
	publicProductSvc := service.NewPublicProductService(products, store, search, cfg.ProductTTL)
	adminProductSvc := service.NewAdminProductService(products, store, search)
	orderSvc := service.NewUserOrderService(db, store)
	adminOrderSvc := service.NewAdminOrderService(orders)
	profileSvc := service.NewProfileService(profiles, store, cfg.ProfileTTL)

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(logging.RequestLogger(logger))
	e.HTTPErrorHandler = httpserver.ErrorHandler

	httpserver.Register(e, httpserver.Deps{
		Codec:         codec,
		Users:         users,
		Auth:          &httpserver.AuthHandler{Auth: authSvc, Producer: producer},
		Cart:          &httpserver.CartHandler{Cart: cartSvc},
		Profile:       &httpserver.ProfileHandler{Profiles: profileSvc},
		Orders:        &httpserver.OrderHandler{Orders: orderSvc, Producer: producer},
		PublicProduct: &httpserver.PublicProductHandler{Products: publicProductSvc},
		AdminProduct:  &httpserver.AdminProductHandler{Products: adminProductSvc, Producer: producer},
		AdminOrders:   &httpserver.AdminOrderHandler{Orders: adminOrderSvc},
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
