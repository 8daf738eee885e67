package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"database/sql"

	"github.com/financasapp/financas-service/internal/config"
	"github.com/financasapp/financas-service/internal/handler"
	"github.com/financasapp/financas-service/internal/integrations/bcb"
	"github.com/financasapp/financas-service/internal/jobs"
	"github.com/financasapp/financas-service/internal/middleware"
	"github.com/financasapp/financas-service/internal/repository"
	"github.com/financasapp/financas-service/internal/service"
	"github.com/financasapp/financas-service/internal/utils/email"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
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
	svc := service.NewService(repo, logger, cfg, mailer)
	h := handler.NewHandler(svc)
	bcbClient := bcb.NewBCBClient(cfg, logger)

	// Periodic jobs: reminder emails and recurring roll-forward
	scheduler, err := jobs.NewScheduler(cfg, svc, logger)
	if err != nil {
		logger.Fatalf("Failed to set up scheduler: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Setup router
	r := mux.NewRouter()
	r.Use(middleware.RequestLogger(logger))
	// Public routes
	r.HandleFunc("/register", h.Register).Methods("POST")
	r.HandleFunc("/login", h.Login).Methods("POST")
	// SELIC rate endpoint
	r.HandleFunc("/selic", func(w http.ResponseWriter, r *http.Request) {
		rate, err := bcbClient.GetSelicRate()
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to get SELIC rate: %v", err), http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]float64{"selic": rate})
	}).Methods("GET")
	// Protected routes
	authRouter := r.PathPrefix("/").Subrouter()
	authRouter.Use(middleware.AuthMiddleware(cfg))
	authRouter.HandleFunc("/purchases", h.CreatePurchase).Methods("POST")
	authRouter.HandleFunc("/purchases/{id}", h.UpdatePurchase).Methods("PUT")
	authRouter.HandleFunc("/installments/{id}/pay", h.PayInstallment).Methods("POST")
	authRouter.HandleFunc("/installments/{id}/unpay", h.UnpayInstallment).Methods("POST")
	authRouter.HandleFunc("/dashboard", h.Dashboard).Methods("GET")
	authRouter.HandleFunc("/notifications", h.Notifications).Methods("GET")
	authRouter.HandleFunc("/notifications/{id}/read", h.MarkNotificationRead).Methods("POST")
	authRouter.HandleFunc("/notification-preferences", h.GetPreferences).Methods("GET")
	authRouter.HandleFunc("/notification-preferences", h.UpdatePreferences).Methods("PUT")

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
