package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/arezooghiami/pahbar/internal/config"
	"github.com/arezooghiami/pahbar/internal/repository"
	"github.com/arezooghiami/pahbar/internal/services"
	"github.com/arezooghiami/pahbar/pkg/database"
	"github.com/arezooghiami/pahbar/pkg/logging"
	"github.com/arezooghiami/pahbar/pkg/metrics"
)

func main() {
	// Parse command-line flags
	workbook := flag.String("workbook", "", "Path to the xlsx workbook to ingest")
	discoID := flag.Int("disco-id", 0, "Disco the workbook belongs to")
	flag.Parse()

	if *workbook == "" || *discoID <= 0 {
		fmt.Fprintln(os.Stderr, "Usage: ingester -workbook loads.xlsx -disco-id 3")
		os.Exit(1)
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := logging.NewStructuredLogger("pahbar-ingester", "1.0.0", logging.ParseLevel(cfg.Logging.Level))

	ctx := context.Background()
	logger.Info(ctx, "[INGESTER_START] Starting workbook ingestion", logging.Fields{
		"version":  "1.0.0",
		"workbook": *workbook,
		"disco_id": *discoID,
	})

	// Initialize metrics collector
	metricsCollector := metrics.NewCollector("pahbar_ingester")

	// Initialize database
	dbConfig := &database.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Database,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime.Std(),
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime.Std(),
	}

	db, err := database.NewPostgresDB(dbConfig, logger, metricsCollector)
	if err != nil {
		logger.Fatal(ctx, "[INGESTER_ERROR] Failed to connect to database", logging.Fields{}, err)
	}
	defer db.Close()

	// Initialize repository and service
	loadRepo := repository.NewLoadRepository(db, logger, metricsCollector)
	ingestionService := services.NewIngestionService(loadRepo, logger, metricsCollector)

	// Ingest workbook
	result, err := ingestionService.IngestFile(ctx, *discoID, *workbook)
	if err != nil {
		logger.Fatal(ctx, "[INGESTION_ERROR] Ingestion failed", logging.Fields{
			"workbook": *workbook,
		}, err)
	}

	// Print results
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println("INGESTION COMPLETE")
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("Day Rows:       %d\n", result.Rows)
	fmt.Printf("Hourly Records: %d\n", result.Records)
	fmt.Printf("Duration:       %v\n", result.Duration)
	if result.Duration.Seconds() > 0 {
		fmt.Printf("Records/Second: %.2f\n", float64(result.Records)/result.Duration.Seconds())
	}
}
