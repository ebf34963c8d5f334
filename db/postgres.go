package db

import (
	"database/sql"
	"errors"
	"fmt"
	"log"

	_ "github.com/lib/pq"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("not found")
	// ErrQuotaExceeded is returned when a guarded insert would pass the
	// creator's monthly limit.
	ErrQuotaExceeded = errors.New("monthly quiz limit reached")
)

type Config struct {
	URL      string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

// DSN prefers an explicit connection URL over the discrete fields.
func (cfg Config) DSN() string {
	if cfg.URL != "" {
		return cfg.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName)
}

// Initialize creates a new database connection and returns it
func Initialize(cfg Config) (*sql.DB, error) {
	log.Printf("Connecting to database %s on %s:%d", cfg.DBName, cfg.Host, cfg.Port)

	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error pinging database: %w", err)
	}

	return db, nil
}

// Store is the Postgres-backed persistence for quizzes, attempts and profiles.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) DB() *sql.DB {
	return s.db
}
