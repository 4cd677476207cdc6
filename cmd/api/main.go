package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"database/sql"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/maheshkumarbalasubramanian/JewelchitBackend/internal/config"
	"github.com/maheshkumarbalasubramanian/JewelchitBackend/internal/handler"
	"github.com/maheshkumarbalasubramanian/JewelchitBackend/internal/integrations/goldrate"
	"github.com/maheshkumarbalasubramanian/JewelchitBackend/internal/middleware"
	"github.com/maheshkumarbalasubramanian/JewelchitBackend/internal/repository"
	"github.com/maheshkumarbalasubramanian/JewelchitBackend/internal/scheduler"
	"github.com/maheshkumarbalasubramanian/JewelchitBackend/internal/service"
	"github.com/maheshkumarbalasubramanian/JewelchitBackend/internal/utils/email"
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
	mailer := email.NewSender(cfg, logger)
	svc := service.NewService(repo, mailer, logger, cfg)
	h := handler.NewHandler(svc, logger)
	rateClient := goldrate.NewClient(cfg, logger)

	// Nightly maturity sweep
	sched := scheduler.New(svc, logger)
	if err := sched.Start(); err != nil {
		logger.Fatalf("Failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Setup router
	r := mux.NewRouter()
	// Public routes
	r.HandleFunc("/register", h.Register).Methods("POST")
	r.HandleFunc("/login", h.Login).Methods("POST")
	// Market gold rate endpoint
	r.HandleFunc("/gold-rate", func(w http.ResponseWriter, req *http.Request) {
		rates, err := rateClient.GetRates()
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to get gold rate: %v", err), http.StatusInternalServerError)
			return
		}
		writeJSON(w, rates, logger)
	}).Methods("GET")

	// Protected routes
	authRouter := r.PathPrefix("/").Subrouter()
	authRouter.Use(middleware.AuthMiddleware(cfg))
	authRouter.HandleFunc("/loans", h.CreateLoan).Methods("POST")
	authRouter.HandleFunc("/loans/summary", h.LoanSummary).Methods("GET")
	authRouter.HandleFunc("/loans/{id}", h.GetLoan).Methods("GET")
	authRouter.HandleFunc("/loans/{id}/status", h.UpdateLoanStatus).Methods("PATCH")
	authRouter.HandleFunc("/loans/{loanId}/calculate-interest", h.CalculateInterest).Methods("GET")
	authRouter.HandleFunc("/loans/{loanId}/receipts", h.ListReceipts).Methods("GET")
	authRouter.HandleFunc("/receipts", h.CreateReceipt).Methods("POST")
	authRouter.HandleFunc("/receipts/{id}", h.GetReceipt).Methods("GET")
	authRouter.HandleFunc("/receipts/{id}", h.UpdateReceipt).Methods("PUT")
	authRouter.HandleFunc("/receipts/{id}", h.CancelReceipt).Methods("DELETE")

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server failed: %v", err)
	}
}

func writeJSON(w http.ResponseWriter, v interface{}, logger *logrus.Logger) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Errorf("Failed to encode response: %v", err)
	}
}
