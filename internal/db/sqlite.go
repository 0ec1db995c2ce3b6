package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yigit/internhub/internal/app/repositories/gormstore"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// SQLiteDB wraps a gorm handle on a SQLite file
type SQLiteDB struct {
	Gorm *gorm.DB
}

// NewSQLiteDB opens the database at path and migrates the schema.
func NewSQLiteDB(path string) (*SQLiteDB, error) {
	return openSQLite(path + "?_foreign_keys=on&_busy_timeout=5000")
}

// NewMemorySQLite opens a private in-memory database. Handles opened with
// the same name share data.
func NewMemorySQLite(name string) (*SQLiteDB, error) {
	name = strings.NewReplacer("/", "_", " ", "_").Replace(name)
	return openSQLite(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
}

func openSQLite(dsn string) (*SQLiteDB, error) {
	g, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("db open failed: %w", err)
	}

	sqlDB, err := g.DB()
	if err != nil {
		return nil, err
	}
	// SQLite serialises writers
	sqlDB.SetMaxOpenConns(1)

	if err := gormstore.AutoMigrate(g); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return &SQLiteDB{Gorm: g}, nil
}

// Ping checks the underlying connection
func (db *SQLiteDB) Ping(ctx context.Context) error {
	sqlDB, err := db.Gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the connection
func (db *SQLiteDB) Close() {
	if sqlDB, err := db.Gorm.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
