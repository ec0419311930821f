package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"matchq_server/metrics"
	"matchq_server/routes"
	"matchq_server/services"
	"matchq_server/socket"
	"matchq_server/workers"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/cors"
	"golang.org/x/time/rate"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, reading environment variables directly")
	}

	// Metrics registry
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// Intent store: DynamoDB in production, in-memory for local development
	var store services.IntentStore
	var profiles *services.UserProfileService
	if os.Getenv("STORE") == "memory" {
		log.Println("Using in-memory intent store")
		store = services.NewMemoryIntentStore()
	} else {
		log.Println("Initializing DynamoDB client...")
		dynamoService := &services.DynamoService{Client: services.InitializeDynamoDBClient()}
		store = services.NewDynamoIntentStore(dynamoService)
		profiles = &services.UserProfileService{
			Dynamo: dynamoService,
			S3:     services.InitializeS3Service(),
		}
		log.Println("DynamoDB client initialized.")
	}

	// Matchmaking engine
	matchmaking := &services.MatchmakingService{
		Store:        store,
		Profiles:     profiles,
		PollInterval: envDuration("POLL_INTERVAL", services.DefaultPollInterval),
		Limiter:      rate.NewLimiter(rate.Limit(envFloat("SCAN_QPS", 50)), 100),
		Metrics:      collector,
	}

	// Stale intent sweeper
	sweeper := &workers.StaleIntentWorker{
		Store:    store,
		TTL:      envDuration("INTENT_TTL", 10*time.Minute),
		Interval: envDuration("SWEEP_INTERVAL", time.Minute),
		Metrics:  collector,
	}
	if err := sweeper.Start(); err != nil {
		log.Fatalf("Failed to start stale intent sweeper: %v", err)
	}

	// Socket.IO server for match delivery
	socketServer := socket.NewSocketServer(matchmaking)
	go func() {
		if err := socketServer.Serve(); err != nil {
			log.Fatalf("Socket server error: %v", err)
		}
	}()

	// Set up the server port
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Using server port: %s\n", port)

	// Initialize the router
	r := mux.NewRouter()

	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "Welcome to MatchQ")
	}).Methods("GET")

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	}).Methods("GET")

	r.Handle("/metrics", metrics.Handler(registry)).Methods("GET")
	r.Handle("/socket.io/", socketServer)

	// Register routes
	routes.RegisterMatchmakingRoutes(r, matchmaking)
	if profiles != nil {
		routes.RegisterUserProfileRoutes(r, profiles)
		routes.RegisterS3Routes(r, profiles.S3)
	}

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // Adjust for specific domains if needed
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Participant-Id"},
		AllowCredentials: true,
	}).Handler(r)

	// Start the HTTP server and shut everything down on SIGINT/SIGTERM
	srv := &http.Server{Addr: ":" + port, Handler: corsHandler}
	go func() {
		log.Printf("Starting server on port %s...\n", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down...")
	sweeper.Stop()
	if err := socketServer.Close(); err != nil {
		log.Printf("⚠️ Socket server close failed: %v", err)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️ HTTP shutdown failed: %v", err)
	}
}

func envDuration(name string, fallback time.Duration) time.Duration {
	if v := os.Getenv(name); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("⚠️ Invalid %s=%q, using %s", name, v, fallback)
	}
	return fallback
}

func envFloat(name string, fallback float64) float64 {
	if v := os.Getenv(name); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		log.Printf("⚠️ Invalid %s=%q, using %v", name, v, fallback)
	}
	return fallback
}
