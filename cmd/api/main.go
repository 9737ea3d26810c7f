package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"github.com/hirenbhut/social-api/internal/config"
	"github.com/hirenbhut/social-api/internal/email"
	"github.com/hirenbhut/social-api/internal/handler"
	activityHandler "github.com/hirenbhut/social-api/internal/handler/activity"
	authHandler "github.com/hirenbhut/social-api/internal/handler/auth"
	notificationHandler "github.com/hirenbhut/social-api/internal/handler/notification"
	postHandler "github.com/hirenbhut/social-api/internal/handler/post"
	userHandler "github.com/hirenbhut/social-api/internal/handler/user"
	"github.com/hirenbhut/social-api/internal/middleware"
	"github.com/hirenbhut/social-api/internal/repository/postgres"
	"github.com/hirenbhut/social-api/internal/router"
	activityService "github.com/hirenbhut/social-api/internal/service/activity"
	authService "github.com/hirenbhut/social-api/internal/service/auth"
	commentService "github.com/hirenbhut/social-api/internal/service/comment"
	lookupService "github.com/hirenbhut/social-api/internal/service/lookup"
	notificationService "github.com/hirenbhut/social-api/internal/service/notification"
	postService "github.com/hirenbhut/social-api/internal/service/post"
	userService "github.com/hirenbhut/social-api/internal/service/user"
	"github.com/hirenbhut/social-api/internal/worker"
	"github.com/hirenbhut/social-api/pkg/auth"
	"github.com/hirenbhut/social-api/pkg/logger"
	"github.com/hirenbhut/social-api/pkg/messaging/redis"
	"github.com/hirenbhut/social-api/pkg/metrics"
	"github.com/hirenbhut/social-api/pkg/push"
	"github.com/hirenbhut/social-api/pkg/security"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	level, err := logLevel(cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	log := logger.New(&logger.Config{
		Level:      level,
		TimeFormat: time.RFC3339,
		Output:     os.Stdout,
		Pretty:     cfg.Logging.Pretty,
	})

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	base := postgres.NewBaseRepository(db)
	userRepo := postgres.NewUserRepository(base)
	postRepo := postgres.NewPostRepository(base)
	commentRepo := postgres.NewCommentRepository(base)
	followRepo := postgres.NewFollowRepository(base)
	activityRepo := postgres.NewActivityRepository(base)
	notificationRepo := postgres.NewNotificationRepository(base)

	broker, err := redis.NewBroker(redis.Config{URL: cfg.Redis.URL}, log.Zerolog())
	if err != nil {
		log.Fatal(err, "failed to connect to Redis")
	}
	defer broker.Close()

	m := metrics.New("social_api")
	dispatcher := push.NewLogDispatcher(log.Zerolog())
	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)
	hasher := security.NewBcryptHasher(bcrypt.DefaultCost)
	emailSvc := email.NewSMTPService(email.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})

	lookupSvc := lookupService.NewService(userRepo, postRepo, commentRepo)
	activityPresenter := activityService.NewPresenter(lookupSvc)
	notificationPresenter := notificationService.NewPresenter(lookupSvc)

	activitySvc := activityService.NewService(activityRepo, userRepo, log, m)
	recorder := activityService.NewRecorder(activitySvc, log)
	notificationSvc := notificationService.NewService(notificationRepo, userRepo, broker, dispatcher, notificationPresenter, log, m)

	userSvc := userService.NewService(userRepo, followRepo, recorder, notificationSvc, log)
	postSvc := postService.NewService(postRepo, userRepo, followRepo, recorder, notificationSvc, log)
	commentSvc := commentService.NewService(commentRepo, postRepo, userRepo, recorder, notificationSvc, log)
	authSvc := authService.NewService(userRepo, jwtSvc, hasher, emailSvc, recorder, notificationSvc, log)

	authMiddleware := middleware.NewAuthMiddleware(jwtSvc, userRepo)

	h := handler.NewHandler()
	r := router.NewRouter(
		authMiddleware,
		authHandler.NewHandler(authSvc),
		userHandler.NewHandler(userSvc, authMiddleware),
		postHandler.NewHandler(postSvc, commentSvc),
		activityHandler.NewHandler(activitySvc, activityPresenter),
		notificationHandler.NewHandler(notificationSvc, userSvc, notificationPresenter, authMiddleware),
		h,
		log,
		m,
		router.Config{
			RateLimit: rate.Limit(100),
			RateBurst: 200,
			CORS:      middleware.DefaultCORSConfig(),
		},
	)
	r.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cleanup := worker.NewActivityCleanupWorker(activityRepo, log, m, time.Hour)
	go cleanup.Start(ctx)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
	}

	go func() {
		log.Info("starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err, "failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal(err, "server forced to shutdown")
	}

	log.Info("server exited properly")
}

func logLevel(s string) (logger.Level, error) {
	switch s {
	case "", "info":
		return logger.InfoLevel, nil
	case "debug":
		return logger.DebugLevel, nil
	case "warn":
		return logger.WarnLevel, nil
	case "error":
		return logger.ErrorLevel, nil
	default:
		return logger.InfoLevel, fmt.Errorf("unknown log level %q", s)
	}
}
