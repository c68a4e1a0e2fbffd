// cmd/api/main.go
// Main entry point for the registration gateway
// This file bootstraps all components and starts the server

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sweepstouch/registration-gateway/internal/backend"
	"github.com/sweepstouch/registration-gateway/internal/common/database"
	"github.com/sweepstouch/registration-gateway/internal/config"
	"github.com/sweepstouch/registration-gateway/internal/otpflow"
	"github.com/sweepstouch/registration-gateway/internal/participation"
	"github.com/sweepstouch/registration-gateway/internal/session"
	"github.com/sweepstouch/registration-gateway/internal/shift"
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	log.Println("========================================")
	log.Println("🚀 Starting Sweepstouch Registration Gateway")
	log.Println("========================================")

	// 1. Load environment variables
	log.Println("📁 Step 1: Loading .env file...")
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  Warning: No .env file found (%v), using environment variables", err)
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	// 2. Load configuration
	log.Println("\n📋 Step 2: Loading configuration...")
	cfg := config.Load()
	log.Printf("✅ Configuration loaded")

	// 3. Validate configuration
	log.Println("\n✔️  Step 3: Validating configuration...")
	if err := cfg.Validate(); err != nil {
		log.Fatal("❌ Configuration validation failed:", err)
	}
	log.Println("✅ Configuration is valid")

	// 4. Connect to Redis (optional)
	log.Println("\n📮 Step 4: Connecting to Redis...")
	var kv session.KVStore
	if cfg.RedisURL != "" {
		redisClient, err := database.NewRedisClientFromURL(cfg.RedisURL)
		if err != nil {
			log.Printf("⚠️  Redis connection failed: %v, falling back to in-memory sessions", err)
			kv = session.NewMemoryStore()
		} else {
			defer redisClient.Close()
			kv = session.NewRedisStore(redisClient, cfg.SessionTTL)
			log.Println("✅ Connected to Redis successfully")
		}
	} else {
		log.Println("⚠️  Redis URL not configured, using in-memory sessions")
		kv = session.NewMemoryStore()
	}

	// 5. Upstream API client
	log.Println("\n🌐 Step 5: Creating sweepstakes API client...")
	api := backend.NewClient(cfg.BackendAPIURL, cfg.BackendTimeout)
	log.Printf("✅ API client ready for %s", cfg.BackendAPIURL)

	// 6. Session service
	log.Println("\n🔑 Step 6: Initializing session service...")
	sessionService := session.NewService(api, kv, &session.Config{
		JWTSecret:           cfg.JWTSecret,
		TokenTTL:            cfg.SessionTTL,
		LegacyStoreIDs:      cfg.LegacyStoreIDs,
		DefaultSweepstakeID: cfg.DefaultSweepstakeID,
	})
	sessionMiddleware := session.NewMiddleware(sessionService)
	sessionHandler := session.NewHandler(sessionService)
	log.Println("✅ Session service initialized")

	// 7. Shift service
	log.Println("\n⏱️  Step 7: Initializing shift service...")
	shiftService := shift.NewService(api, sessionService)
	log.Println("✅ Shift service initialized")

	// 8. Participation service
	log.Println("\n🎟️  Step 8: Initializing participation service...")
	participationService := participation.NewService(api, sessionService)
	participationHandler := participation.NewHandler(participationService)
	log.Println("✅ Participation service initialized")

	// 9. OTP flow store
	log.Println("\n📱 Step 9: Initializing OTP flow store...")
	flowStore := otpflow.NewStore(api, participationService, otpflow.Config{
		InitialCooldown: cfg.OTPCooldown,
		AutoReturnDelay: cfg.OTPAutoReturn,
		IdleTTL:         cfg.FlowIdleTTL,
	})
	flowHandler := otpflow.NewHandler(flowStore, shiftService)

	cleanupCtx, cancelCleanup := context.WithCancel(context.Background())
	defer cancelCleanup()
	go flowStore.StartCleanup(cleanupCtx, cfg.CleanupInterval)
	log.Println("✅ OTP flow store initialized, idle cleanup running")

	// 10. Shift dashboard handler
	shiftHandler := shift.NewHandler(shiftService, participationService)

	// 11. Routes
	log.Println("\n🛣️  Step 10: Registering routes...")
	router := mux.NewRouter()

	session.RegisterRoutes(router, sessionHandler, sessionMiddleware)
	log.Println("   ✅ Auth routes registered")

	otpflow.RegisterRoutes(router, flowHandler, sessionMiddleware.OptionalAuthenticate)
	log.Println("   ✅ OTP flow routes registered")

	participation.RegisterRoutes(router, participationHandler, sessionMiddleware.OptionalAuthenticate)
	log.Println("   ✅ Participation routes registered")

	shift.RegisterRoutes(router, shiftHandler, sessionMiddleware.Authenticate)
	log.Println("   ✅ Dashboard routes registered")

	router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	router.HandleFunc("/health", healthCheck).Methods("GET")

	router.Use(loggingMiddleware)
	router.Use(corsMiddleware)

	// 12. Create and start HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Println("\n========================================")
		log.Printf("🚀 Server starting on http://localhost%s", srv.Addr)
		log.Printf("🌍 Environment: %s", cfg.Environment)
		log.Println("========================================")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("❌ Failed to start server:", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("\n⚠️  Shutdown signal received...")
	cancelCleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("❌ Server forced to shutdown:", err)
	}

	log.Println("✅ Server exited gracefully")
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// loggingMiddleware logs all requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		log.Printf("→ %s %s from %s", r.Method, r.RequestURI, r.RemoteAddr)

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start)
		log.Printf("← %s %s [%d] %v", r.Method, r.RequestURI, wrapped.statusCode, duration)
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
