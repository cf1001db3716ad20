package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"madibot_server/config"
	"madibot_server/lineapi"
	"madibot_server/routes"
	"madibot_server/services"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Local development reads a .env file; deployed environments set
	// real variables and have no file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	adminIDs := cfg.AdminIDs()
	log.Printf("Loaded configuration: table=%s, %d admin(s)", cfg.TableName, len(adminIDs))

	// Initialize DynamoDB client and service
	log.Println("Initializing DynamoDB client...")
	dynamoClient := services.InitializeDynamoDBClient(cfg.AWSRegion)
	dynamoService := &services.DynamoService{Client: dynamoClient}
	log.Println("DynamoDB client initialized.")

	lineClient := lineapi.NewClient(cfg.ChannelAccessToken)

	// Initialize Services
	storeService := &services.StoreService{Dynamo: dynamoService, Table: cfg.TableName}
	profileService := &services.ProfileService{Store: storeService, Platform: lineClient}
	mentionService := &services.MentionService{Profiles: profileService, AdminIDs: adminIDs}
	dispatchService := &services.DispatchService{
		Store:       storeService,
		Profiles:    profileService,
		Mentions:    mentionService,
		Replies:     lineClient,
		AdminIDs:    adminIDs,
		WelcomeText: cfg.WelcomeText,
	}

	// Initialize the router
	r := mux.NewRouter()

	// Register a welcome route
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "Welcome to Madibot")
	}).Methods("GET")

	// Register a health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		response := map[string]string{"status": "healthy"}
		json.NewEncoder(w).Encode(response)
	}).Methods("GET")

	// Register routes
	routes.RegisterWebhookRoutes(r, dispatchService, cfg.ChannelSecret)

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Line-Signature"},
		AllowCredentials: true,
	}).Handler(r)

	// Start the HTTP server
	log.Printf("Starting server on port %s...\n", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, corsHandler))
}
