package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rubbishit/backend/internal/config"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

const (
	DuplicateEntry = 1062
	Deadlock       = 1213
)

const pingTimeout = 3 * time.Second

func DSN(cfg config.Database) (string, error) {
	location, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return "", fmt.Errorf("time load location failed: %w", err)
	}
	conf := mysql.NewConfig()
	conf.Net = cfg.Net
	conf.Addr = cfg.Server
	conf.User = cfg.User
	conf.Passwd = cfg.Password
	conf.DBName = cfg.DBName
	conf.Timeout = cfg.Timeout
	conf.Loc = location
	conf.ParseTime = true
	conf.Params = map[string]string{"charset": "utf8mb4"}

	return conf.FormatDSN(), nil
}

func New(cfg config.Database) (*sqlx.DB, error) {
	dsn, err := DSN(cfg)
	if err != nil {
		return nil, err
	}

	dbConn, err := sqlx.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("db connection failed: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConnections)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConnections)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := dbConn.PingContext(ctx); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("db ping failed: %w", err)
	}

	return dbConn, nil
}

// IsDuplicateEntry reports whether err is a MySQL unique key violation.
func IsDuplicateEntry(err error) bool {
	var mysqlError *mysql.MySQLError
	return errors.As(err, &mysqlError) && mysqlError.Number == DuplicateEntry
}

// IsDeadlock reports whether err is an InnoDB deadlock, after which the
// server has already rolled the transaction back.
func IsDeadlock(err error) bool {
	var mysqlError *mysql.MySQLError
	return errors.As(err, &mysqlError) && mysqlError.Number == Deadlock
}
