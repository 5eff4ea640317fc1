package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// DB is the global database connection
var DB *sqlx.DB

// dbType returns the configured backend, defaulting to sqlite.
func dbType() string {
	if t := os.Getenv("DB_TYPE"); t != "" {
		return t
	}
	return "sqlite"
}

// Connect establishes a connection to the database and initializes the
// schema. DB_TYPE selects sqlite (default) or postgres; postgres reads
// DATABASE_URL, sqlite reads DATABASE_PATH.
func Connect() error {
	var db *sqlx.DB
	var err error

	switch dbType() {
	case "postgres":
		dsn := os.Getenv("DATABASE_URL")
		if dsn == "" {
			return fmt.Errorf("DATABASE_URL environment variable is not set")
		}
		db, err = sqlx.Connect("postgres", dsn)
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %v", err)
		}
	default:
		dbPath := os.Getenv("DATABASE_PATH")
		if dbPath == "" {
			dataDir := "data"
			if err := os.MkdirAll(dataDir, 0755); err != nil {
				return fmt.Errorf("failed to create data directory: %v", err)
			}
			dbPath = filepath.Join(dataDir, "vocabengine.db")
		}
		db, err = sqlx.Connect("sqlite3", dbPath)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %v", err)
		}
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			return fmt.Errorf("failed to enable foreign keys: %v", err)
		}
		// SQLite doesn't support multiple writers
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

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

// serialPK returns the dialect's auto-incrementing primary key column.
func serialPK() string {
	if dbType() == "postgres" {
		return "id SERIAL PRIMARY KEY"
	}
	return "id INTEGER PRIMARY KEY AUTOINCREMENT"
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema() error {
	// Create cards table
	_, err := DB.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS cards (
			%s,
			term TEXT NOT NULL,
			translation TEXT NOT NULL,
			category TEXT NOT NULL DEFAULT '',
			example TEXT NOT NULL DEFAULT '',
			pronunciation TEXT NOT NULL DEFAULT '',
			difficulty INTEGER DEFAULT 1,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(term, category)
		)
	`, serialPK()))
	if err != nil {
		return fmt.Errorf("failed to create cards table: %v", err)
	}

	// Create card_progress table: one row per (card, direction)
	_, err = DB.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS card_progress (
			%s,
			card_id INTEGER NOT NULL,
			direction TEXT NOT NULL,
			ease_factor REAL DEFAULT 2.5,
			interval INTEGER DEFAULT 0,
			repetitions INTEGER DEFAULT 0,
			next_review_date TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			last_review_date TIMESTAMP,
			total_reviews INTEGER DEFAULT 0,
			correct_reviews INTEGER DEFAULT 0,
			last_quality INTEGER DEFAULT 0,
			mastery_level INTEGER DEFAULT 0,
			consecutive_correct INTEGER DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (card_id) REFERENCES cards(id),
			UNIQUE(card_id, direction)
		)
	`, serialPK()))
	if err != nil {
		return fmt.Errorf("failed to create card_progress table: %v", err)
	}

	// Create mistakes table (append-only)
	_, err = DB.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS mistakes (
			%s,
			card_id INTEGER NOT NULL,
			direction TEXT NOT NULL,
			error_type TEXT NOT NULL,
			user_answer TEXT NOT NULL,
			correct_answer TEXT NOT NULL,
			timestamp TIMESTAMP NOT NULL,
			FOREIGN KEY (card_id) REFERENCES cards(id)
		)
	`, serialPK()))
	if err != nil {
		return fmt.Errorf("failed to create mistakes table: %v", err)
	}

	// Create sessions table (append-only)
	_, err = DB.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS sessions (
			%s,
			mode TEXT NOT NULL,
			accuracy REAL NOT NULL,
			average_response_ms REAL NOT NULL,
			cards_reviewed INTEGER NOT NULL,
			average_quality REAL NOT NULL,
			time_of_day TEXT NOT NULL,
			timestamp TIMESTAMP NOT NULL
		)
	`, serialPK()))
	if err != nil {
		return fmt.Errorf("failed to create sessions table: %v", err)
	}

	// Create streak table (single row)
	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS streak (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			current_streak INTEGER DEFAULT 0,
			longest_streak INTEGER DEFAULT 0,
			perfect_streak INTEGER DEFAULT 0,
			last_study_date TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create streak table: %v", err)
	}

	return nil
}
