package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/recallbot/internal/bot"
	"github.com/example/recallbot/internal/database"
	"github.com/example/recallbot/internal/excel"
	"github.com/example/recallbot/internal/scheduler"
	"github.com/joho/godotenv"
)

func main() {
	importFile := flag.String("import", "", "Import words from an Excel or CSV file and exit")
	flag.Parse()

	// Variables already set in the environment win over .env
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	if err := database.Connect(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if *importFile != "" {
		runImport(*importFile)
		return
	}

	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN environment variable is not set")
	}

	store := database.NewStore()
	b, err := bot.New(token, store)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	var sched *scheduler.Scheduler
	if os.Getenv("ENABLE_SCHEDULER") != "false" {
		sched = scheduler.New(b)
		sched.Start()
	}

	done := make(chan struct{})

	go func() {
		sig := <-sigChan
		log.Printf("Received signal: %v", sig)
		cancel()

		if sched != nil {
			sched.Stop()
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		if err := b.Stop(shutdownCtx); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}

		close(done)
	}()

	log.Println("Bot started. Press Ctrl+C to stop.")
	go func() {
		if err := b.Start(ctx); err != nil && err != context.Canceled {
			log.Printf("Bot error: %v", err)
		}
	}()

	<-done
	log.Println("Bot stopped successfully")
}

// runImport loads words from a spreadsheet into the word store
func runImport(path string) {
	config := excel.DefaultImportConfig()
	config.FilePath = path

	result, err := excel.ImportWords(context.Background(), config)
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}

	log.Printf("Import finished: processed=%d created=%d updated=%d errors=%d",
		result.TotalProcessed, result.Created, result.Updated, len(result.Errors))
	for _, e := range result.Errors {
		log.Printf("  %s", e)
	}
}
