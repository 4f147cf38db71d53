package db

import (
	"log"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/lojf/tuition/internal/models"
)

var conn *gorm.DB

const pragmas = "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"

// Init opens (creating if needed) the SQLite file at path.
func Init(path string, debug bool) error {
	gdb, err := Open(path, debug)
	if err != nil {
		return err
	}
	conn = gdb
	log.Printf("database ready (sqlite: %s)", path)
	return nil
}

// Open is Init without touching the package connection; tests use it directly.
func Open(path string, debug bool) (*gorm.DB, error) {
	// Timestamps are stored as text; keep them all in UTC so they compare.
	cfg := &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	}
	if debug {
		cfg.Logger = logger.Default.LogMode(logger.Info)
	}
	gdb, err := gorm.Open(sqlite.Open(path+pragmas), cfg)
	if err != nil {
		return nil, err
	}

	// SQLite works best with a single writer; cap the pool accordingly.
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	if err := Migrate(gdb); err != nil {
		return nil, err
	}
	return gdb, nil
}

func Migrate(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(
		&models.Child{},
		&models.Payment{},
		&models.Fee{},
	); err != nil {
		return err
	}

	// Composite indexes that GORM doesn't auto-create from struct tags.
	for _, stmt := range []string{
		"CREATE INDEX IF NOT EXISTS idx_fee_child_created ON fees(child_id, created_at)",
		"CREATE INDEX IF NOT EXISTS idx_payment_child     ON payments(child_id)",
	} {
		if err := gdb.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

func Conn() *gorm.DB {
	return conn
}
