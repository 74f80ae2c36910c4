package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shortlet/config"
	"shortlet/cron"
	"shortlet/database"
	blockedRepo "shortlet/database/repository/blocked"
	bookingRepo "shortlet/database/repository/booking"
	commissionRepo "shortlet/database/repository/commission"
	notificationRepo "shortlet/database/repository/notification"
	paymentRepo "shortlet/database/repository/payment"
	payoutRepo "shortlet/database/repository/payout"
	propertyRepo "shortlet/database/repository/property"
	"shortlet/handlers"
	"shortlet/middleware"
	"shortlet/routes"
	"shortlet/services/booking"
	"shortlet/services/notification"
	"shortlet/services/payment"
	"shortlet/services/payout"
	"shortlet/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()

	// repositories.
	bkRepo := bookingRepo.NewMongoBookingRepo()
	propRepo := propertyRepo.NewMongoPropertyRepo()
	blkRepo := blockedRepo.NewMongoBlockedRepo()
	payRepo := paymentRepo.NewMongoPaymentRepo()
	commRepo := commissionRepo.NewMongoCommissionRepo()
	poRepo := payoutRepo.NewMongoPayoutRepo()
	notifRepo := notificationRepo.NewMongoNotificationRepo()

	if err := bkRepo.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: booking indexes: %v", err)
	}
	if err := payRepo.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: payment indexes: %v", err)
	}

	// notification dispatch over the asynq queue.
	queueOpt := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisNotifyQueue,
	}
	dispatcher := notification.NewAsynqDispatcher(queueOpt)
	defer dispatcher.Close()

	// services. The payment service and booking service reference each
	// other through narrow interfaces, so the confirmer is set after both
	// exist.
	gateway := payment.NewHTTPGateway(
		config.AppConfig.GatewayBaseURL,
		config.AppConfig.GatewaySecret,
		15*time.Second,
	)
	paymentService := &payment.DefaultPaymentService{
		Repo:          payRepo,
		Gateway:       gateway,
		Notifier:      dispatcher,
		CallbackURL:   config.AppConfig.PaymentCallback,
		WebhookSecret: config.AppConfig.WebhookSecret,
		LinkTTL:       config.AppConfig.PaymentLinkTTL,
	}

	bookingService := &booking.DefaultBookingService{
		Repo:                  bkRepo,
		PropertyRepo:          propRepo,
		BlockedRepo:           blkRepo,
		Payments:              paymentService,
		Notifier:              dispatcher,
		CacheClient:           utils.GetCacheClient(),
		DefaultCommissionRate: config.AppConfig.DefaultCommissionRate,
		SameDayCutoffHour:     config.AppConfig.SameDayCutoffHour,
		PendingMaxAge:         config.AppConfig.PendingMaxAge,
	}
	paymentService.Confirmer = bookingService

	payoutService := &payout.DefaultPayoutService{
		Commissions: commRepo,
		Payouts:     poRepo,
		Notifier:    dispatcher,
	}

	// background notification worker.
	worker := cron.InitNotificationWorker(notifRepo)
	defer worker.Shutdown()

	// scheduled sweeps.
	sweeps := cron.NewScheduler(cron.SystemClock{},
		cron.Job{
			Name:  "expire-pending",
			Every: config.AppConfig.ExpirySweepInterval,
			Run: func(ctx context.Context) error {
				_, err := bookingService.AutoExpirePending(ctx)
				return err
			},
		},
		cron.Job{
			Name:        "complete-past",
			DailyAtHour: config.AppConfig.CompletionSweepHour,
			Run: func(ctx context.Context) error {
				_, err := bookingService.AutoCompletePast(ctx)
				return err
			},
		},
	)
	sweepCtx, cancelSweeps := context.WithCancel(context.Background())
	sweeps.Start(sweepCtx)

	// HTTP surface.
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))

	handlerBundle := &handlers.HandlerBundle{
		Booking:      handlers.NewBookingHandler(bookingService),
		Payment:      handlers.NewPaymentHandler(paymentService),
		Payout:       handlers.NewPayoutHandler(payoutService),
		Notification: handlers.NewNotificationHandler(notifRepo),
	}
	routes.RegisterRoutes(router, handlerBundle)

	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	cancelSweeps()
	sweeps.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
