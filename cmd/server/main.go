package main

import (
	"log"

	"github.com/civicdesk/grievance-api/internal/config"
	"github.com/civicdesk/grievance-api/internal/database"
	"github.com/civicdesk/grievance-api/internal/email"
	"github.com/civicdesk/grievance-api/internal/handlers"
	"github.com/civicdesk/grievance-api/internal/middleware"
	"github.com/civicdesk/grievance-api/internal/models"
	"github.com/civicdesk/grievance-api/internal/otp"
	"github.com/civicdesk/grievance-api/internal/repository"
	"github.com/civicdesk/grievance-api/internal/services"
	"github.com/civicdesk/grievance-api/internal/token"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Redis holds the pending OTP registrations
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})

	// Repositories
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	grievanceRepo := repository.NewGrievanceRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)

	// Services
	tokens := token.NewService(cfg.JWTSecret, cfg.JWTExpiry)
	mailer := email.NewService(email.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
		FromName: cfg.SMTPFromName,
	})
	userService := services.NewUserService(userRepo)
	grievanceService := services.NewGrievanceService(grievanceRepo)
	feedbackService := services.NewFeedbackService(feedbackRepo, grievanceRepo)
	otpService := services.NewOTPService(otp.NewStore(redisClient), mailer, userService)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, tokens)
	grievanceHandler := handlers.NewGrievanceHandler(grievanceService, feedbackService, userService)
	complaintHandler := handlers.NewComplaintHandler(grievanceService, feedbackService, userService)
	officerHandler := handlers.NewOfficerHandler(userService)
	feedbackHandler := handlers.NewFeedbackHandler(feedbackService, userService)
	otpHandler := handlers.NewOtpHandler(otpService, !cfg.IsRelease())

	// Initialize Gin router
	r := gin.Default()
	r.Use(cors.Default())
	r.Use(middleware.Authenticate(tokens))

	// Legacy static mount; no write path targets it
	r.Static("/uploads", cfg.UploadDir)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Grievance API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", middleware.RequireAuth(), authHandler.Me)
		}

		// OTP-gated registration (public)
		simple := api.Group("/simple")
		{
			simple.POST("/register", otpHandler.Register)
			simple.POST("/verify-otp", otpHandler.Verify)
			simple.POST("/resend-otp", otpHandler.Resend)
		}

		// Citizen-facing grievance routes
		grievances := api.Group("/grievances")
		{
			grievances.POST("", middleware.RequireAuth(), grievanceHandler.Submit)
			grievances.GET("/me", middleware.RequireAuth(), grievanceHandler.MyGrievances)
			grievances.GET("/export", middleware.RequireRole(models.RoleAdmin), grievanceHandler.Export)
			grievances.GET("/:id/image", grievanceHandler.GetImage)
			grievances.GET("/:id/resolution/image", grievanceHandler.GetResolutionImage)
			grievances.GET("/:id/reopen/image", grievanceHandler.GetReopenImage)
			grievances.PUT("/:id/image", middleware.RequireAuth(), grievanceHandler.UpdateMainImage)
			grievances.PUT("/:id/reopen", middleware.RequireAuth(), grievanceHandler.SubmitReopenEvidence)
		}

		// Admin/officer complaint views
		complaints := api.Group("/complaints")
		complaints.Use(middleware.RequireAuth())
		{
			complaints.GET("", middleware.RequireRole(models.RoleAdmin), complaintHandler.ListAll)
			complaints.GET("/:id", complaintHandler.Get)
			complaints.PUT("/:id/assign", middleware.RequireRole(models.RoleAdmin), complaintHandler.Assign)
			complaints.PUT("/:id/update", middleware.RequireAnyRole(models.RoleOfficer, models.RoleAdmin), complaintHandler.UpdateResolution)
			complaints.GET("/user/:id", complaintHandler.ByUser)
			complaints.GET("/officer/me", complaintHandler.MyAssigned)
			complaints.GET("/officer/:id", middleware.RequireRole(models.RoleAdmin), complaintHandler.ByOfficer)
		}

		// Officer management (admin only)
		officers := api.Group("/officers")
		officers.Use(middleware.RequireRole(models.RoleAdmin))
		{
			officers.POST("", officerHandler.Create)
			officers.GET("", officerHandler.List)
		}

		// Feedback
		feedback := api.Group("/feedback")
		feedback.Use(middleware.RequireAuth())
		{
			feedback.POST("", feedbackHandler.Submit)
			feedback.GET("/complaint/:id", feedbackHandler.ForComplaint)
			feedback.GET("", middleware.RequireAnyRole(models.RoleAdmin, models.RoleOfficer), feedbackHandler.All)
		}
	}

	// Start server
	log.Println("Server starting on :8080")
	if err := r.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
