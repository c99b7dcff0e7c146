package database

import (
	"testing"

	"github.com/Nienta-PK/taskmanager/backend/internal/config"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm/logger"
)

func TestPoolConfigFrom(t *testing.T) {
	cfg := &config.Config{}
	cfg.Server.Environment = "production"
	cfg.Database.Host = "db"
	cfg.Database.Port = 5432
	cfg.Database.MaxOpenConns = 7

	pc := PoolConfigFrom(cfg)
	if pc.LogLevel != logger.Warn {
		t.Errorf("production log level = %v, want Warn", pc.LogLevel)
	}
	if pc.MaxOpenConns != 7 || pc.DSN != cfg.GetDatabaseDSN() {
		t.Errorf("unexpected pool config: %+v", pc)
	}

	cfg.Server.Environment = "development"
	if PoolConfigFrom(cfg).LogLevel != logger.Info {
		t.Error("development should log at Info")
	}
}

func TestOpen_SQLite(t *testing.T) {
	pc := DefaultPoolConfig()
	pc.LogLevel = logger.Silent

	pool, err := Open(sqlite.Open("file::memory:"), pc)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}

	if err := pool.Health(); err != nil {
		t.Errorf("Health() error: %v", err)
	}
	if stats := pool.Stats(); stats["max_open_connections"] != 25 {
		t.Errorf("unexpected stats: %v", stats)
	}

	if err := pool.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if err := pool.Health(); err == nil {
		t.Error("Health() should fail after Close()")
	}
}

func TestNilPool(t *testing.T) {
	pool := &DatabasePool{}
	if err := pool.Health(); err == nil {
		t.Error("expected error from nil pool")
	}
	if err := pool.Close(); err != nil {
		t.Errorf("Close() on nil pool: %v", err)
	}
}
