package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"casefile/internal/blob"
	"casefile/internal/config"
	"casefile/internal/extraction"
	"casefile/internal/handler"
	"casefile/internal/middleware"
	"casefile/internal/policy"
	"casefile/internal/repository/postgres"
	"casefile/internal/service"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	var logOutput io.Writer = os.Stdout
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, 5)
		if err != nil {
			log.Fatalf("Failed to set up log file: %v", err)
		}
		defer logFile.Close()
		logOutput = io.MultiWriter(os.Stdout, logFile)
	}

	logger := slog.New(slog.NewJSONHandler(logOutput, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", 25,
		"min_conns", 5,
	)

	// Create table names and ensure the schema exists
	tables := postgres.NewTableNames(cfg.TablePrefix)
	if err := postgres.EnsureSchema(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	docRepo := postgres.NewDocumentRepository(repoConfig)
	sectionRepo := postgres.NewSectionRepository(repoConfig)
	annotationRepo := postgres.NewAnnotationRepository(repoConfig)
	suggestionRepo := postgres.NewSuggestionRepository(repoConfig)
	chatRepo := postgres.NewChatRepository(repoConfig)
	messageRepo := postgres.NewMessageRepository(repoConfig)
	voteRepo := postgres.NewVoteRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	// Initialize upload policy registry
	registry, err := policy.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to initialize upload policy: %v", err)
	}
	registry.SetMaxUploadBytes(cfg.MaxUploadBytes)

	// Create blob store
	blobStore, err := blob.NewMinioStore(ctx, blob.Config{
		Endpoint:  cfg.BlobEndpoint,
		AccessKey: cfg.BlobAccessKey,
		SecretKey: cfg.BlobSecretKey,
		Bucket:    cfg.BlobBucket,
		UseSSL:    cfg.BlobUseSSL,
	}, logger)
	if err != nil {
		log.Fatalf("Failed to create blob store: %v", err)
	}

	// Create extraction gateway
	gateway := extraction.NewGateway(logger)

	// Create services
	docService := service.NewDocumentService(docRepo, sectionRepo, annotationRepo, suggestionRepo, txManager, logger)
	derivedService := service.NewDerivedContentService(sectionRepo, annotationRepo, suggestionRepo, docRepo, logger)
	conversationService := service.NewConversationService(chatRepo, messageRepo, voteRepo, txManager, logger)
	uploadService := service.NewUploadService(registry, blobStore, gateway, docService, logger)

	// Create handlers
	docHandler := handler.NewDocumentHandler(docService, uploadService, registry)
	derivedHandler := handler.NewDerivedContentHandler(derivedService)
	chatHandler := handler.NewChatHandler(conversationService)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", docHandler.HealthCheck)

	// Document routes
	mux.HandleFunc("POST /api/documents", docHandler.SaveVersion)
	mux.HandleFunc("GET /api/documents", docHandler.ListDocuments)
	mux.HandleFunc("POST /api/documents/upload", docHandler.Upload) // Must come before {id} route
	mux.HandleFunc("GET /api/documents/{id}", docHandler.GetDocument)
	mux.HandleFunc("GET /api/documents/{id}/versions", docHandler.GetVersions)
	mux.HandleFunc("POST /api/documents/{id}/truncate", docHandler.TruncateVersions)
	mux.HandleFunc("DELETE /api/documents/{id}", docHandler.DeleteDocument)
	mux.HandleFunc("PATCH /api/documents/{id}/analysis", docHandler.SetAnalyzed)

	// Derived content routes
	mux.HandleFunc("POST /api/documents/{id}/sections", derivedHandler.SaveSections)
	mux.HandleFunc("GET /api/documents/{id}/sections", derivedHandler.ListSections)
	mux.HandleFunc("POST /api/documents/{id}/annotations", derivedHandler.SaveAnnotations)
	mux.HandleFunc("GET /api/documents/{id}/annotations", derivedHandler.ListAnnotations)
	mux.HandleFunc("PATCH /api/annotations/{id}/resolution", derivedHandler.ResolveAnnotation)
	mux.HandleFunc("POST /api/documents/{id}/suggestions", derivedHandler.SaveSuggestions)
	mux.HandleFunc("GET /api/documents/{id}/suggestions", derivedHandler.ListSuggestions)

	// Chat routes
	mux.HandleFunc("POST /api/chats", chatHandler.CreateChat)
	mux.HandleFunc("GET /api/chats", chatHandler.ListChats)
	mux.HandleFunc("GET /api/chats/{id}", chatHandler.GetChat)
	mux.HandleFunc("PATCH /api/chats/{id}/visibility", chatHandler.UpdateVisibility)
	mux.HandleFunc("DELETE /api/chats/{id}", chatHandler.DeleteChat)
	mux.HandleFunc("POST /api/chats/{id}/messages", chatHandler.SaveMessages)
	mux.HandleFunc("GET /api/chats/{id}/messages", chatHandler.GetMessages)
	mux.HandleFunc("POST /api/chats/{id}/truncate", chatHandler.TruncateMessages)
	mux.HandleFunc("PATCH /api/chats/{id}/votes", chatHandler.VoteMessage)
	mux.HandleFunc("GET /api/chats/{id}/votes", chatHandler.GetVotes)

	// Build middleware chain
	var root http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → UserContext → Routes
	root = middleware.UserContext()(root)
	root = middleware.Recovery(logger)(root)

	// CORS - Must come first to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "X-User-ID"},
		AllowCredentials: true,
	})
	root = corsHandler.Handler(root)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
