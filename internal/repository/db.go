package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// NewDB creates a new MySQL database connection pool with the given DSN.
func NewDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS surveyors (
		id            INT AUTO_INCREMENT PRIMARY KEY,
		username      VARCHAR(50)  NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		name          VARCHAR(100) NOT NULL DEFAULT '',
		phone         VARCHAR(20)  NOT NULL DEFAULT '',
		is_active     BOOLEAN      NOT NULL DEFAULT TRUE,
		created_at    DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS survey_tasks (
		id          INT AUTO_INCREMENT PRIMARY KEY,
		title       VARCHAR(200) NOT NULL,
		date        CHAR(10)     NOT NULL,
		description TEXT,
		status      VARCHAR(20)  NOT NULL DEFAULT 'active',
		item_count  INT          NOT NULL DEFAULT 0,
		created_at  DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_survey_tasks_date (date)
	)`,
	`CREATE TABLE IF NOT EXISTS survey_records (
		id            INT AUTO_INCREMENT PRIMARY KEY,
		item_id       INT          NOT NULL,
		surveyor_id   INT          NOT NULL,
		store_name    VARCHAR(200) NOT NULL,
		store_address VARCHAR(500),
		date          CHAR(10),
		description   TEXT,
		latitude      DOUBLE,
		longitude     DOUBLE,
		photos        TEXT,
		created_at    DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_survey_records_surveyor (surveyor_id),
		FOREIGN KEY (surveyor_id) REFERENCES surveyors(id)
	)`,
}

// Migrate creates the tables the API needs when they do not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("applying schema: %w", err)
		}
	}
	slog.Info("database schema ready")
	return nil
}
