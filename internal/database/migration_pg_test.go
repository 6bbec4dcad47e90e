package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// These tests need a local Postgres server; they are skipped unless
// FARMFIT_PG_TEST is set.

type pgEnv struct {
	host string
	port string
	user string
	pass string
}

func getEnvOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func readPGEnv(t *testing.T) pgEnv {
	t.Helper()
	if os.Getenv("FARMFIT_PG_TEST") == "" {
		t.Skip("set FARMFIT_PG_TEST to run Postgres migration tests")
	}
	return pgEnv{
		host: getEnvOrDefault("DB_HOST", "localhost"),
		port: getEnvOrDefault("DB_PORT", "5432"),
		user: getEnvOrDefault("DB_USER", "farmfit_user"),
		pass: getEnvOrDefault("DB_PASSWORD", "farmfit_password"),
	}
}

func maintenanceDSN(cfg pgEnv, dbName string) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", cfg.user, cfg.pass, cfg.host, cfg.port, dbName)
}

func createEphemeralDB(t *testing.T) (pgEnv, string) {
	t.Helper()
	cfg := readPGEnv(t)
	dbName := fmt.Sprintf("farmfit_mig_%d", time.Now().UnixNano())

	sqlDB, err := sql.Open("pgx", maintenanceDSN(cfg, "postgres"))
	if err != nil {
		t.Fatalf("open maintenance db: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	if _, err := sqlDB.ExecContext(context.Background(), `CREATE DATABASE `+dbName); err != nil {
		t.Fatalf("create ephemeral db: %v", err)
	}

	t.Cleanup(func() {
		_, _ = sqlDB.ExecContext(context.Background(), `SELECT pg_terminate_backend(pid) FROM pg_stat_activity WHERE datname = $1`, dbName)
		_, _ = sqlDB.ExecContext(context.Background(), `DROP DATABASE IF EXISTS `+dbName)
	})

	return cfg, dbName
}

func openEphemeralGorm(t *testing.T, cfg pgEnv, dbName string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable", cfg.host, cfg.port, cfg.user, cfg.pass, dbName)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open gorm db: %v", err)
	}
	return db
}

func TestMigrateFreshPostgres(t *testing.T) {
	cfg, dbName := createEphemeralDB(t)
	db := openEphemeralGorm(t, cfg, dbName)

	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	tables := []string{"users", "clinics", "practitioners", "ratings", "rating_dimensions", "rating_votes", "rating_reports", "posts", "comments", "likes", "connections"}
	for _, table := range tables {
		var exists bool
		if err := db.Raw(`SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_schema='public' AND table_name = ?)`, table).Scan(&exists).Error; err != nil {
			t.Fatalf("check table %s: %v", table, err)
		}
		if !exists {
			t.Fatalf("expected table %s to exist", table)
		}
	}

	var partialIdxExists bool
	if err := db.Raw(`SELECT EXISTS (SELECT 1 FROM pg_indexes WHERE tablename='ratings' AND indexname='idx_ratings_subject_user_active')`).Scan(&partialIdxExists).Error; err != nil {
		t.Fatalf("check ratings unique index: %v", err)
	}
	if !partialIdxExists {
		t.Fatal("expected idx_ratings_subject_user_active index")
	}

	// Re-running must be a no-op, not an error.
	if err := Migrate(db); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
}
