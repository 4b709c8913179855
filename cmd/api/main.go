package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"database/sql"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"mindlog/internal/config"
	"mindlog/internal/handler"
	"mindlog/internal/inference"
	"mindlog/internal/middleware"
	"mindlog/internal/repository"
	"mindlog/internal/service"
	"mindlog/internal/utils"
	"mindlog/internal/utils/email"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	if cfg.KeyGenerated {
		logger.Warn("ENCRYPTION_KEY not set; using a generated key. Entries will be unrecoverable after restart.")
	}

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	// Initialize layers
	repo := repository.NewRepository(db)
	contentCipher, err := utils.NewCipher(cfg.EncryptionKey, cfg.HMACSecret)
	if err != nil {
		logger.Fatalf("Failed to initialize content cipher: %v", err)
	}
	classifier := inference.NewHTTPClassifier(cfg, logger)

	var transcriber inference.Transcriber
	if cfg.OpenAIKey != "" {
		whisper, err := inference.NewWhisperClient(cfg, logger)
		if err != nil {
			logger.Fatalf("Failed to initialize transcriber: %v", err)
		}
		transcriber = whisper
	} else {
		logger.Warn("OPENAI_API_KEY not set; audio transcription disabled")
	}

	var mailer service.Mailer
	if cfg.SMTPHost != "" {
		mailer = email.NewSender(cfg, logger)
	} else {
		logger.Warn("SMTP_HOST not set; account emails disabled")
	}

	svc := service.NewService(repo, classifier, transcriber, contentCipher, mailer, logger, cfg)
	h := handler.NewHandler(svc, logger)

	// Setup router
	r := mux.NewRouter()
	// Public routes
	r.HandleFunc("/register", h.Register).Methods("POST")
	r.HandleFunc("/login", h.Login).Methods("POST")
	// Protected routes
	authRouter := r.PathPrefix("/").Subrouter()
	authRouter.Use(middleware.Auth(svc))
	authRouter.HandleFunc("/analyze-text", h.AnalyzeText).Methods("POST")
	authRouter.HandleFunc("/analyze-audio", h.AnalyzeAudio).Methods("POST")
	authRouter.HandleFunc("/history", h.History).Methods("GET")
	authRouter.HandleFunc("/history/export", h.ExportHistory).Methods("GET")

	// Weekly digest job
	if mailer != nil {
		c := cron.New()
		if _, err := c.AddFunc(cfg.DigestCron, svc.SendWeeklyDigests); err != nil {
			logger.Fatalf("Invalid DIGEST_CRON: %v", err)
		}
		c.Start()
		defer c.Stop()
	}

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server failed: %v", err)
	}
}
