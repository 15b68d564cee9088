package shared

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// NewDatabase opens a sqlite database at the configured path and verifies the
// connection with a ping.
func NewDatabase(conf DatabaseConfig) (*sql.DB, error) {
	path := conf.Path
	if path == "" {
		path = "songalchemy.db"
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrDatabase, path, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: ping %s: %v", ErrDatabase, path, err)
	}

	ConfigureDatabase(db, conf)

	return db, nil
}

// ConfigureDatabase applies connection pool limits from the configuration.
func ConfigureDatabase(db *sql.DB, conf DatabaseConfig) {
	if conf.MaxOpenConns > 0 {
		db.SetMaxOpenConns(conf.MaxOpenConns)
	}

	if conf.MaxIdleConns > 0 {
		db.SetMaxIdleConns(conf.MaxIdleConns)
	}
}
