package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"garage_backend/pkg/config"
	garagectl "garage_backend/pkg/controllers/garage"
	"garage_backend/pkg/database"
	"garage_backend/pkg/garage"
	"garage_backend/pkg/middleware"
	"garage_backend/pkg/routes"
	"garage_backend/pkg/scheduler"
	"garage_backend/pkg/services"
	"garage_backend/pkg/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	config.LoadConfig()

	// Initialize database
	log.Println("🔌 Initializing database connection...")
	if err := database.InitDatabase(); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer database.CloseDatabase()

	if err := database.AutoMigrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	profile := config.LoadGarageProfile(config.AppConfig.GarageProfileFile)
	svc := garage.NewService(database.DB,
		garage.WithProfile(profile),
		garage.WithRetry(store.RetryPolicy{
			Attempts:  config.AppConfig.StoreRetryAttempts,
			BaseDelay: store.DefaultRetry.BaseDelay,
		}),
	)

	ctx := context.Background()

	// Invoice archive
	var archive garagectl.Archiver
	if config.AppConfig.GCPBucketName != "" {
		if err := services.InitGCPStorage(ctx, config.AppConfig.GCPBucketName, config.AppConfig.GoogleApplicationCredentials); err != nil {
			log.Printf("⚠️  Warning: GCP Storage initialization failed: %v", err)
		} else {
			log.Println("✅ GCP Storage initialized successfully")
			defer services.CloseGCPStorage()
			archive = func(ctx context.Context, operatorID, invoiceNumber string, page []byte) (string, error) {
				return services.UploadInvoice(ctx, services.InvoiceObjectName(operatorID, invoiceNumber), page)
			}
		}
	}

	// Reminder digest
	var digest *scheduler.ReminderDigest
	if config.AppConfig.ReminderCron != "" {
		if err := services.InitFCM(ctx, config.AppConfig.GoogleApplicationCredentials); err != nil {
			log.Printf("⚠️  Warning: FCM initialization failed, reminder digest disabled: %v", err)
		} else {
			log.Println("✅ FCM initialized successfully")
			digest = scheduler.NewReminderDigest(svc, services.SendBulkPushNotifications)
			if err := digest.Start(config.AppConfig.ReminderCron); err != nil {
				log.Printf("⚠️  Warning: %v", err)
				digest = nil
			}
		}
	}

	// Set Gin mode based on environment
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	if config.IsDevelopment() {
		router.Use(gin.Logger())
	}
	router.Use(middleware.RecoveryMiddleware())

	sessionStore := cookie.NewStore([]byte(config.AppConfig.SessionSecret))
	sessionStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int((7 * 24 * time.Hour).Seconds()),
		HttpOnly: true,
		Secure:   config.AppConfig.CookieSecure == "true",
	})
	router.Use(sessions.Sessions("session", sessionStore))

	setupCORS(router)

	router.MaxMultipartMemory = 10 << 20 // 10 MB

	routes.Setup(router, database.DB, svc, archive)

	srv := &http.Server{
		Addr:    ":" + config.AppConfig.Port,
		Handler: router,
	}

	go func() {
		log.Printf("🚀 Server running in %s mode\n", config.AppConfig.Environment)
		log.Printf("📡 Server listening on http://localhost:%s\n", config.AppConfig.Port)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	if digest != nil {
		digest.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("✅ Server exited gracefully")
}

// setupCORS allows the configured origins in production and any origin in
// development
func setupCORS(router *gin.Engine) {
	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	origins := parseOrigins(config.AppConfig.AllowedOrigins)
	if config.IsProduction() && len(origins) > 0 {
		corsConfig.AllowOrigins = origins
		log.Printf("🔒 CORS enabled for origins: %v\n", origins)
	} else {
		corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		log.Println("🔓 CORS enabled for all origins")
	}

	router.Use(cors.New(corsConfig))
}

// parseOrigins splits comma-separated origin string
func parseOrigins(origins string) []string {
	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
