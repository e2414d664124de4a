// File: equipass/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"equipass/config"
	"equipass/cron"
	"equipass/database"
	expertRepoPkg "equipass/database/repository/expert"
	reviewRepoPkg "equipass/database/repository/review"
	recordRepoPkg "equipass/database/repository/servicerecord"
	requestRepoPkg "equipass/database/repository/servicerequest"
	userRepoPkg "equipass/database/repository/user"
	"equipass/handlers"
	"equipass/middleware"
	"equipass/routes"
	"equipass/services/expert"
	"equipass/services/notification"
	"equipass/services/review"
	"equipass/services/servicerecord"
	"equipass/services/tasks"
	"equipass/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitAuthCache()
	utils.FirebaseInit()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	expertRepo := expertRepoPkg.NewMongoExpertRepo()
	userRepo := userRepoPkg.NewMongoUserRepo()
	recordRepo := recordRepoPkg.NewMongoServiceRecordRepo()
	requestRepo := requestRepoPkg.NewMongoServiceRequestRepo()
	reviewRepo := reviewRepoPkg.NewMongoReviewRepo()

	// services.
	notificationService, err := notification.NewDefaultNotificationService(userRepo, expertRepo)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize notification service: %v", err)
	}

	workStatusService := &expert.DefaultWorkStatusService{
		Repo:       expertRepo,
		RecordRepo: recordRepo,
	}

	reminderScheduler := tasks.NewScheduler()

	recordService := &servicerecord.DefaultServiceRecordService{
		Repo:        recordRepo,
		RequestRepo: requestRepo,
		ExpertRepo:  expertRepo,
		WorkStatus:  workStatusService,
		Notifier:    notificationService,
		Reminder:    reminderScheduler,
	}

	reviewService := &review.DefaultReviewService{
		Repo:       reviewRepo,
		RecordRepo: recordRepo,
		ExpertRepo: expertRepo,
	}

	// Background worker for delayed review requests.
	cron.InitReviewReminderWorker(recordRepo, notificationService)

	// Assemble the handler bundle.
	handlerBundle := &routes.HandlerBundle{
		UserRepo:       userRepo,
		ExpertRepo:     expertRepo,
		ServiceRecords: handlers.NewServiceRecordHandler(recordService),
		Reviews:        handlers.NewReviewHandler(reviewService),
		Experts:        handlers.NewExpertHandler(workStatusService),
	}
	routes.RegisterRoutes(router, handlerBundle)

	srv := &http.Server{
		Addr:    ":" + config.AppConfig.AppPort,
		Handler: router,
	}

	go func() {
		logger.Sugar().Infof("main: listening on port %s", config.AppConfig.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server error: %v", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("main: shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: forced shutdown: %v", err)
	}
	logger.Info("main: server exited")
}
