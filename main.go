package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.uber.org/zap"

	"github.com/pqcshield/scanner/db"
	"github.com/pqcshield/scanner/internal/logger"
	"github.com/pqcshield/scanner/temporal"
)

// startScanWorker registers the scan workflow and its activities on the
// shared task queue and starts polling for work.
func startScanWorker(c client.Client) error {
	logger.Info("creating Temporal worker for SCAN_TASK_QUEUE")

	workerOptions := worker.Options{
		MaxConcurrentActivityExecutionSize:     5,
		MaxConcurrentWorkflowTaskExecutionSize: 10,
	}

	w := worker.New(c, "SCAN_TASK_QUEUE", workerOptions)

	w.RegisterWorkflow(temporal.ScanWorkflow)
	w.RegisterActivity(temporal.CreateScanRecordActivity)
	w.RegisterActivity(temporal.RunScanActivity)

	logger.Info("starting Temporal worker")
	return w.Start()
}

// main boots the scan orchestration service: it holds no HTTP surface of
// its own (the CLI at cmd/pqcscan covers the synchronous surface; workflow
// status is read via Temporal's query mechanism), only the worker that
// drains SCAN_TASK_QUEUE.
func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	logger.Init()
	defer logger.Sync()

	logger.Info("starting PQC scanner orchestration service")

	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")

	logger.Info("connecting to PostgreSQL database",
		zap.String("host", dbHost),
		zap.String("port", dbPort),
		zap.String("database", dbName),
		zap.String("user", dbUser))

	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		dbHost, dbPort, dbUser, dbPassword, dbName)

	sqlDB, err := sql.Open("postgres", connStr)
	if err != nil {
		logger.Fatal("unable to connect to database", zap.Error(err))
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	maxRetries := 3
	for i := 0; i < maxRetries; i++ {
		err = sqlDB.PingContext(ctx)
		if err == nil {
			logger.Info("successfully connected to PostgreSQL database")
			break
		}
		logger.Warn("failed to ping database, retrying",
			zap.Error(err), zap.Int("attempt", i+1), zap.Int("max_attempts", maxRetries))
		if i < maxRetries-1 {
			time.Sleep(2 * time.Second)
		}
	}
	if err != nil {
		logger.Error("failed to connect to database after multiple attempts", zap.Error(err))
		logger.Warn("continuing without database connection - scan jobs will not persist")
	}

	db.SetGlobalDB(sqlDB)
	defer sqlDB.Close()

	logger.Info("initializing Temporal client")
	temporalClient, err := client.NewLazyClient(client.Options{
		HostPort: os.Getenv("TEMPORAL_HOST"),
	})
	if err != nil {
		logger.Fatal("unable to create Temporal client", zap.Error(err))
	}
	defer temporalClient.Close()

	logger.Info("starting Temporal worker for scan workflows")
	if err := startScanWorker(temporalClient); err != nil {
		logger.Fatal("unable to start Temporal worker", zap.Error(err))
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	s := <-sig
	logger.Info("received shutdown signal, stopping worker", zap.String("signal", s.String()))
}
