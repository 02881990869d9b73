package database

import (
	"fmt"
	"log/slog"

	"github.com/lavictoria/club-api/internal/config"
	"github.com/lavictoria/club-api/internal/model"

	"gorm.io/gorm"
)

// Models lists every table in creation order: parents before the tables referencing them.
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Member{},
		&model.Season{},
		&model.Enrollment{},
		&model.EntryRecord{},
	}
}

// Migrate drops and recreates all tables when DB_AUTO_MIGRATE is enabled.
func Migrate(db *gorm.DB, cfg *config.Config) error {
	if !cfg.Database.IsAutoMigrate {
		slog.Info("⏭️  Database migration disabled",
			"auto_migrate", false, "env", cfg.App.Env,
		)
		return nil
	}

	if cfg.IsProduction() {
		return fmt.Errorf("🚨 DB_AUTO_MIGRATE=true is not allowed in production: it drops every table")
	}

	slog.Warn("🔧 Database migration started, all tables will be dropped and recreated",
		"auto_migrate", true, "env", cfg.App.Env,
	)

	slog.Info("🗑️  Dropping existing tables...")
	models := Models()
	for i := len(models) - 1; i >= 0; i-- {
		tableName := tableNameOf(db, models[i])

		var count int64
		db.Raw("SELECT COUNT(*) FROM USER_TABLES WHERE UPPER(TABLE_NAME) = UPPER(?)", tableName).Scan(&count)
		if count == 0 {
			continue
		}

		dropSQL := fmt.Sprintf("DROP TABLE %s CASCADE CONSTRAINTS", tableName)
		if err := db.Exec(dropSQL).Error; err != nil {
			slog.Debug("Drop table failed", "table", tableName, "error", err)
		} else {
			slog.Debug("Table dropped", "table", tableName)
		}
	}

	slog.Info("📦 Creating tables...")
	if err := AutoMigrate(db); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}

	slog.Info("✅ Migration complete")
	return nil
}

// AutoMigrate creates or updates every table. Tests call it directly against SQLite.
func AutoMigrate(db *gorm.DB) error {
	for _, m := range Models() {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("migrate %T: %w", m, err)
		}
		slog.Debug("Table migrated", "model", fmt.Sprintf("%T", m))
	}
	return nil
}

func tableNameOf(db *gorm.DB, m interface{}) string {
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(m); err != nil {
		return fmt.Sprintf("%T", m)
	}
	return stmt.Schema.Table
}
