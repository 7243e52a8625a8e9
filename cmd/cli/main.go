package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/royxue/cocomo-waitlist/config"
	"github.com/royxue/cocomo-waitlist/domain/waitlist"
	"github.com/royxue/cocomo-waitlist/internal/log"
	"github.com/royxue/cocomo-waitlist/internal/models"
	"github.com/royxue/cocomo-waitlist/pkg/constants"
	"github.com/royxue/cocomo-waitlist/pkg/migrations"
	"github.com/royxue/cocomo-waitlist/pkg/utils"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

func main() {
	logger := log.NewLoggerWithJSONOutput()

	config.InitializeEnvFile(logger) // Load envs early for CLI consistency

	args := os.Args[1:]
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	switch args[0] {
	case "migrate":
		runMigrations(logger)
		return

	case "export":
		db := mustOpenDatabase(logger)
		defer closeDatabase(db, logger)

		if err := exportEntries(db); err != nil {
			logger.Error("Export failed", "error", err.Error())
			os.Exit(1)
		}
		return

	case "stats":
		db := mustOpenDatabase(logger)
		defer closeDatabase(db, logger)

		if err := printStats(db); err != nil {
			logger.Error("Stats failed", "error", err.Error())
			os.Exit(1)
		}
		return

	case "help", "-h", "--help":
		printUsage()
		return

	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

func runMigrations(logger *log.Logger) {
	db := mustOpenDatabase(logger)
	defer closeDatabase(db, logger)

	sqlDB, err := db.DB()
	if err != nil {
		logger.Error("Failed to get SQL DB instance for migration", "error", err.Error())
		os.Exit(1)
	}

	migrationsDir := utils.GetEnvTrimmedOrDefault("MIGRATIONS_DIR", "migrations")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := migrations.Up(ctx, sqlDB, migrations.Config{Dir: migrationsDir, Logger: logger}); err != nil {
		logger.Error("Database migration failed", "error", err.Error())
		os.Exit(1)
	}

	logger.Info("Database migrations completed")
}

// exportEntries writes every signup as CSV to stdout, newest first.
func exportEntries(db *gorm.DB) error {
	repository := waitlist.NewWaitlistRepository(db)

	entries, _, err := repository.ListEntries(context.Background())
	if err != nil {
		return err
	}

	w := csv.NewWriter(os.Stdout)
	if err := w.Write([]string{"id", "email", "type", "source", "created_at"}); err != nil {
		return err
	}

	for _, entry := range entries {
		record := []string{
			entry.ID,
			entry.Email,
			entry.SignupType,
			entry.Source,
			entry.CreatedAt.Format(constants.RFC3339DateTimeFormat),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// printStats prints signup totals per source with human-friendly labels,
// e.g. "Landing Page: 42".
func printStats(db *gorm.DB) error {
	type sourceCount struct {
		Source string
		Count  int64
	}

	var rows []sourceCount
	err := db.Model(&models.WaitlistEntry{}).
		Select("source, count(*) as count").
		Group("source").
		Order("source").
		Scan(&rows).Error
	if err != nil {
		return err
	}

	caser := cases.Title(language.English)
	var total int64

	for _, row := range rows {
		label := caser.String(strings.ReplaceAll(row.Source, "_", " "))
		fmt.Printf("%s: %d\n", label, row.Count)
		total += row.Count
	}

	fmt.Printf("Total: %d\n", total)
	return nil
}

func mustOpenDatabase(logger *log.Logger) *gorm.DB {
	db, err := config.NewDatabase(logger, &config.DBConfig{})
	if err != nil {
		logger.Error("Failed to connect to database", "error", err.Error())
		os.Exit(1)
	}
	return db
}

func closeDatabase(db *gorm.DB, logger *log.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Warn("Failed to close SQL DB", "error", err.Error())
	}
}

func printUsage() {
	fmt.Println("Usage: cli <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  migrate  Run database migrations and exit")
	fmt.Println("  export   Dump all waitlist entries as CSV to stdout, newest first")
	fmt.Println("  stats    Print signup totals per source")
}
