package database

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// DB is the global database connection
var DB *sqlx.DB

// Type returns the configured database type, defaulting to sqlite
func Type() string {
	if t := os.Getenv("DB_TYPE"); t != "" {
		return t
	}
	return "sqlite"
}

// Connect establishes a connection to the database
func Connect() error {
	if Type() == "postgres" {
		dsn := os.Getenv("DATABASE_URL")
		if dsn == "" {
			return fmt.Errorf("DATABASE_URL environment variable is not set")
		}
		db, err := sqlx.Connect("postgres", dsn)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %v", err)
		}
		DB = db
		// Postgres schema is provisioned by migrations outside the bot
		log.Println("Connected to postgres, skipping schema init (managed by migrations)")
		return nil
	}

	// Create data directory if it doesn't exist
	dataDir := "data"
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %v", err)
	}

	dbPath := filepath.Join(dataDir, "recallbot.db")
	db, err := sqlx.Connect("sqlite3", dbPath)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %v", err)
	}

	// Enable foreign keys
	_, err = db.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		return fmt.Errorf("failed to enable foreign keys: %v", err)
	}

	// SQLite doesn't support multiple writers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	DB = db

	return initializeSchema()
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema() error {
	// Create learners table
	_, err := DB.Exec(`
		CREATE TABLE IF NOT EXISTS learners (
			id INTEGER PRIMARY KEY,
			username TEXT,
			first_name TEXT,
			words_per_day INTEGER DEFAULT 1,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create learners table: %v", err)
	}

	// Create words table
	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS words (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			word TEXT NOT NULL UNIQUE,
			translation TEXT NOT NULL,
			example TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create words table: %v", err)
	}

	// Create scheduled_items table
	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS scheduled_items (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			learner_id INTEGER NOT NULL,
			word_id INTEGER NOT NULL,
			served_at TIMESTAMP NOT NULL,
			next_review_date TIMESTAMP NOT NULL,
			interval INTEGER DEFAULT 2,
			last_response TEXT,
			correct_count INTEGER DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (learner_id) REFERENCES learners(id),
			FOREIGN KEY (word_id) REFERENCES words(id),
			UNIQUE(learner_id, word_id)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create scheduled_items table: %v", err)
	}

	// Create learner_streaks table
	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS learner_streaks (
			learner_id INTEGER PRIMARY KEY,
			streak INTEGER DEFAULT 0,
			last_completed TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (learner_id) REFERENCES learners(id)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create learner_streaks table: %v", err)
	}

	return nil
}
