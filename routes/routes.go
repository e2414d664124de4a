package routes

import (
	"net/http"
	"time"

	expertRepo "equipass/database/repository/expert"
	userRepo "equipass/database/repository/user"
	"equipass/handlers"
	"equipass/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups the handlers and the repositories the auth
// middleware needs.
type HandlerBundle struct {
	UserRepo   userRepo.UserRepository
	ExpertRepo expertRepo.ExpertRepository

	ServiceRecords *handlers.ServiceRecordHandler
	Reviews        *handlers.ReviewHandler
	Experts        *handlers.ExpertHandler
}

// RegisterServiceRecordRoutes registers the lifecycle endpoints.
func RegisterServiceRecordRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/service-records")
	{
		api.Use(middleware.AuthRequired(hb.UserRepo, hb.ExpertRepo))
		api.POST("", middleware.ExpertOnly(), hb.ServiceRecords.CreateServiceRecordHandler)
		api.PATCH("/:id", hb.ServiceRecords.UpdateServiceRecordHandler)
		api.POST("/:id/confirm", hb.ServiceRecords.ConfirmCompletionHandler)
		api.GET("/:id", hb.ServiceRecords.GetServiceRecordHandler)
		api.GET("/expert/:expertId", hb.ServiceRecords.GetRecordsByExpertHandler)
		api.GET("/customer/:userId", hb.ServiceRecords.GetRecordsByCustomerHandler)
	}
}

// RegisterReviewRoutes registers review and rating endpoints.
func RegisterReviewRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/reviews")
	{
		api.POST("/:id/vote", hb.Reviews.VoteReviewHandler)

		protected := api.Group("")
		protected.Use(middleware.AuthRequired(hb.UserRepo, hb.ExpertRepo))
		protected.POST("", hb.Reviews.CreateReviewHandler)
		protected.POST("/:id/response", middleware.ExpertOnly(), hb.Reviews.RespondToReviewHandler)
		protected.POST("/:id/flag", hb.Reviews.FlagReviewHandler)
	}
}

// RegisterExpertRoutes registers the expert directory and work-status
// endpoints.
func RegisterExpertRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/experts")
	{
		api.GET("", hb.Experts.ListExpertsHandler)
		api.GET("/:id", hb.Experts.GetExpertHandler)
		api.GET("/:id/rating", hb.Reviews.GetExpertRatingSummaryHandler)
		api.GET("/:id/reviews", hb.Reviews.GetExpertReviewsHandler)

		protected := api.Group("")
		protected.Use(middleware.AuthRequired(hb.UserRepo, hb.ExpertRepo))
		protected.PUT("/:id/work-status", middleware.ExpertOnly(), hb.Experts.UpdateWorkStatusHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "equipass expert services"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterServiceRecordRoutes(r, hb)
	RegisterReviewRoutes(r, hb)
	RegisterExpertRoutes(r, hb)
}
