package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/meihub/finance-service/internal/config"
	"github.com/meihub/finance-service/internal/fiscal"
	"github.com/meihub/finance-service/internal/handler"
	"github.com/meihub/finance-service/internal/integrations/cnpj"
	"github.com/meihub/finance-service/internal/middleware"
	"github.com/meihub/finance-service/internal/models"
	"github.com/meihub/finance-service/internal/repository"
	"github.com/meihub/finance-service/internal/service"
	"github.com/meihub/finance-service/internal/utils/email"
	"github.com/robfig/cron/v3"
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
	if err := godotenv.Load(); err != nil {
		logger.Debugf("No .env file loaded: %v", err)
	}
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
	fiscalClient := fiscal.NewClient(cfg, logger)
	svc := service.NewService(repo, fiscalClient, logger, cfg)
	h := handler.NewHandler(svc)
	cnpjClient := cnpj.NewClient(cfg, logger)
	sender := email.NewSender(cfg, logger)

	// Setup router
	r := mux.NewRouter()
	// Public routes
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods("GET")
	// Protected routes
	authRouter := r.PathPrefix("/").Subrouter()
	authRouter.Use(middleware.AuthMiddleware(cfg))
	authRouter.HandleFunc("/transactions", h.CreateTransaction).Methods("POST")
	authRouter.HandleFunc("/transactions", h.ListTransactions).Methods("GET")
	authRouter.HandleFunc("/transactions/import-nfe", h.ImportInvoice).Methods("POST")
	authRouter.HandleFunc("/transactions/{id}", h.UpdateTransaction).Methods("PUT")
	authRouter.HandleFunc("/transactions/{id}", h.DeleteTransaction).Methods("DELETE")
	authRouter.HandleFunc("/series/{seriesID}", h.DeleteSeries).Methods("DELETE")
	authRouter.HandleFunc("/dashboard", h.Dashboard).Methods("GET")
	authRouter.HandleFunc("/forecast", h.Forecast).Methods("GET")
	authRouter.HandleFunc("/fiscal/diagnosis", h.FiscalDiagnosis).Methods("GET")
	authRouter.HandleFunc("/alerts", h.Alerts).Methods("GET")
	// Company registry lookup
	authRouter.HandleFunc("/company/{cnpj}", func(w http.ResponseWriter, r *http.Request) {
		company, err := cnpjClient.Lookup(mux.Vars(r)["cnpj"])
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to look up company: %v", err), http.StatusBadGateway)
			return
		}
		handler.WriteJSON(w, http.StatusOK, company)
	}).Methods("GET")

	// Daily alert digest
	scheduler := cron.New()
	_, err = scheduler.AddFunc(cfg.DigestCron, func() {
		if cfg.DigestEmail == "" {
			return
		}
		ctx := context.WithValue(context.Background(), "companyID", strconv.FormatInt(cfg.CompanyID, 10))
		alerts, err := svc.CurrentAlerts(ctx, time.Now())
		if err != nil {
			logger.Errorf("Digest computation failed: %v", err)
			return
		}
		if len(alerts) == 1 && alerts[0].Severity == models.SeverityInfo {
			logger.Debug("Digest skipped, nothing to report")
			return
		}
		if err := sender.SendAlertDigest(cfg.DigestEmail, alerts); err != nil {
			logger.Errorf("Digest delivery failed: %v", err)
		}
	})
	if err != nil {
		logger.Fatalf("Failed to schedule digest: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

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
