package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"marketingcoach/internal/config"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
)

// Open connects to the database configured under dbType.
func Open(dbType string, cfg *config.Config) (*sql.DB, error) {
	dbCfg, ok := cfg.Databases[dbType]
	if !ok {
		return nil, fmt.Errorf("database config for %s not found", dbType)
	}

	var (
		db  *sql.DB
		err error
	)

	switch strings.ToLower(dbType) {
	case "sqlite", "sqlite3":
		if dbCfg.DSN == "" {
			return nil, fmt.Errorf("sqlite dsn must be provided")
		}
		db, err = sql.Open("sqlite3", dbCfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("open sqlite database: %w", err)
		}
		// Each pooled connection to ":memory:" would see its own database.
		if strings.Contains(dbCfg.DSN, ":memory:") {
			db.SetMaxOpenConns(1)
		}
	case "mysql":
		dsn := dbCfg.DSN
		if dsn == "" {
			params := dbCfg.Params
			if params == "" {
				params = "parseTime=true&charset=utf8mb4"
			}
			dsn = fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
				dbCfg.Username,
				dbCfg.Password,
				dbCfg.Host,
				dbCfg.Port,
				dbCfg.DBName,
				params,
			)
		}
		db, err = sql.Open("mysql", dsn)
		if err != nil {
			return nil, fmt.Errorf("open mysql database: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported driver: %s", dbType)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// Migrate ensures the required tables are present.
func Migrate(db *sql.DB, driver string) error {
	var stmts []string
	switch strings.ToLower(driver) {
	case "sqlite", "sqlite3":
		stmts = []string{
			`CREATE TABLE IF NOT EXISTS exchanges (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				request_id TEXT NOT NULL DEFAULT '',
				mode TEXT NOT NULL,
				provider TEXT NOT NULL,
				model TEXT NOT NULL,
				message_count INTEGER NOT NULL,
				outcome TEXT NOT NULL,
				upstream_status INTEGER NOT NULL DEFAULT 0,
				latency_ms INTEGER NOT NULL,
				detail TEXT NOT NULL DEFAULT '',
				created_at DATETIME NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_exchanges_created_at ON exchanges(created_at DESC)`,
			`CREATE INDEX IF NOT EXISTS idx_exchanges_outcome ON exchanges(outcome)`,
		}
	case "mysql":
		stmts = []string{
			`CREATE TABLE IF NOT EXISTS exchanges (
				id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
				request_id VARCHAR(64) NOT NULL DEFAULT '',
				mode VARCHAR(32) NOT NULL,
				provider VARCHAR(32) NOT NULL,
				model VARCHAR(128) NOT NULL,
				message_count INT NOT NULL,
				outcome VARCHAR(32) NOT NULL,
				upstream_status INT NOT NULL DEFAULT 0,
				latency_ms BIGINT NOT NULL,
				detail TEXT NOT NULL,
				created_at DATETIME(3) NOT NULL,
				PRIMARY KEY (id),
				INDEX idx_exchanges_created_at (created_at),
				INDEX idx_exchanges_outcome (outcome)
			) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		}
	default:
		return fmt.Errorf("unsupported driver: %s", driver)
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
