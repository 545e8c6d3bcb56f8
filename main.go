package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"pos-terminal/backend"
	"pos-terminal/cart"
	"pos-terminal/catalog"
	"pos-terminal/config"
	"pos-terminal/controllers"
	"pos-terminal/middlewares"
	"pos-terminal/models"
	"pos-terminal/notify"
	"pos-terminal/orders"
	"pos-terminal/push"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Sugar()

	cfg := config.LoadConfig()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	menu, err := catalog.Load(cfg.MenuFile)
	if err != nil {
		log.Fatalf("Catalog initialization failed: %v", err)
	}

	client := backend.New(cfg.BackendURL, cfg.BackendToken, cfg.BackendTimeout, log)
	slot := notify.NewSlot(cfg.SuccessToastTTL, cfg.ErrorToastTTL)
	view := orders.NewView(client, log)

	// A successful submit schedules a refresh shortly after, once the
	// backend lists the new order.
	cartStore := cart.NewStore(client, slot, log, func(models.CreatedOrder) {
		time.AfterFunc(cfg.SubmitRefreshDelay, func() {
			refetch(ctx, cfg, view)
		})
	})

	controllers.SetCartDependencies(cartStore, menu, slot)
	controllers.SetOrderDependencies(view, client)

	// Initial load; failure is soft, the poll loop retries.
	refetch(ctx, cfg, view)

	go pollLoop(ctx, cfg, view)
	go runPushSource(ctx, cfg, view, log)

	r := gin.Default()

	r.Use(middlewares.PrometheusMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authGroup := r.Group("/api")
	authGroup.Use(middlewares.AuthMiddleware(cfg.JWTSecret))
	{
		authGroup.GET("/menu", controllers.GetMenu)

		authGroup.GET("/cart", controllers.GetCart)
		authGroup.POST("/cart/items", controllers.AddCartItem)
		authGroup.PATCH("/cart/items/:id", controllers.ChangeCartItem)
		authGroup.PUT("/cart/items/:id/note", controllers.SetCartNote)
		authGroup.POST("/cart/submit", controllers.SubmitCart)
		authGroup.GET("/notification", controllers.GetNotification)

		authGroup.GET("/orders", controllers.GetActiveOrders)
		authGroup.POST("/orders/refresh", controllers.RefreshOrders)
		authGroup.PUT("/orders/:id", controllers.EditOrder)
		authGroup.POST("/orders/:id/status", controllers.KitchenAction)
	}

	srv := &http.Server{Addr: cfg.ListenAddr, Handler: r}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warnf("server shutdown: %v", err)
		}
	}()

	log.Infof("POS terminal starting on %s (push source: %s)", cfg.ListenAddr, cfg.PushSource)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// pollLoop is the periodic REST refetch backing up the push channel.
func pollLoop(ctx context.Context, cfg *config.Config, view *orders.View) {
	ticker := time.NewTicker(cfg.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			refetch(ctx, cfg, view)
		}
	}
}

func refetch(ctx context.Context, cfg *config.Config, view *orders.View) {
	rctx, cancel := context.WithTimeout(ctx, cfg.BackendTimeout)
	defer cancel()
	err := view.Refetch(rctx)
	middlewares.RecordOrderOperation("refetch", err == nil)
}

// runPushSource feeds backend push events into the view until shutdown.
func runPushSource(ctx context.Context, cfg *config.Config, view *orders.View, log *zap.SugaredLogger) {
	dispatcher := push.NewDispatcher(view, log)

	var source push.Source
	switch cfg.PushSource {
	case "rabbitmq":
		source = push.NewRabbitMQSource(cfg.RabbitMQURL, cfg.OrderEventsExchange, log)
	case "websocket":
		source = push.NewWebSocketSource(cfg.WebSocketURL, log)
	default:
		log.Warnf("unknown push source %q, falling back to websocket", cfg.PushSource)
		source = push.NewWebSocketSource(cfg.WebSocketURL, log)
	}

	for ctx.Err() == nil {
		if err := source.Run(ctx, dispatcher.Dispatch); err != nil && ctx.Err() == nil {
			log.Warnf("push source stopped, restarting in 5s: %v", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(5 * time.Second):
			}
		}
	}
}
