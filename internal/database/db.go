// Package database opens the MySQL pool backing the vault's metadata:
// users, file records, permissions and refresh sessions.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

const (
	maxOpenConns    = 25
	maxIdleConns    = 25
	connMaxLifetime = 30 * time.Minute
	pingTimeout     = 5 * time.Second
)

// Open builds the DSN, configures the pool and pings the server so a
// bad address or credential fails at startup rather than on the first
// request. parseTime=true maps DATETIME columns onto time.Time and
// loc=UTC keeps created_at/expires_at comparisons timezone-free.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
	creds := user
	if pass != "" {
		creds += ":" + pass
	}
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		creds, host, port, name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
