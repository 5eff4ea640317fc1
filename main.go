package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/example/vocabengine/internal/bot"
	"github.com/example/vocabengine/internal/database"
	"github.com/example/vocabengine/internal/engine"
	"github.com/example/vocabengine/internal/excel"
	"github.com/example/vocabengine/internal/scheduler"
)

func main() {
	importPath := flag.String("import", "", "Import flashcards from an xlsx file and exit")
	flag.Parse()

	// Load .env if present; real environment variables win
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	if err := database.Connect(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if *importPath != "" {
		runImport(*importPath)
		return
	}

	config := engine.DefaultConfig()
	if raw := os.Getenv("DAILY_GOAL"); raw != "" {
		if goal, err := strconv.Atoi(raw); err == nil && goal > 0 {
			config.DailyGoal = goal
		}
	}
	eng := engine.New(config)

	notifier, err := bot.New()
	if err != nil {
		log.Fatalf("Failed to create notifier: %v", err)
	}

	sched := scheduler.New(eng, notifier)

	// Prime the aggregates before the first hourly tick
	if err := sched.RunAnalysisNow(); err != nil {
		log.Printf("Initial analysis pass failed: %v", err)
	}

	sched.Start()
	log.Println("Engine started. Press Ctrl+C to stop.")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	log.Printf("Received signal: %v", sig)

	sched.Stop()
	log.Println("Engine stopped successfully")
}

func runImport(path string) {
	config := excel.DefaultImportConfig()
	config.FilePath = path

	result, err := excel.ImportCards(config)
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}

	log.Printf("Import finished: %d processed, %d created, %d updated, %d skipped",
		result.TotalProcessed, result.Created, result.Updated, result.Skipped)
	for _, e := range result.Errors {
		log.Printf("  %s", e)
	}
	if len(result.Errors) > 0 {
		os.Exit(1)
	}
}
