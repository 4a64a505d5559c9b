package database

import (
	"embed"
	"fmt"
	"io/fs"
	"log"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/mealbook/backend/internal/models"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// MigrationState describes one embedded migration and whether it was applied
type MigrationState struct {
	Name      string
	Applied   bool
	AppliedAt *time.Time
}

type appliedMigration struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"size:255;not null;uniqueIndex"`
	AppliedAt time.Time `gorm:"not null"`
}

func (appliedMigration) TableName() string {
	return "migrations"
}

// RunMigrations brings the schema up to date. SQLite databases are migrated
// from the models; PostgreSQL runs the embedded SQL files in name order.
// Both record the embedded files in the migrations table.
func RunMigrations(db *gorm.DB) error {
	if db.Dialector.Name() == "sqlite" {
		return runSQLiteMigrations(db)
	}

	if err := ensureMigrationsTable(db); err != nil {
		return err
	}

	files, err := migrationFiles()
	if err != nil {
		return err
	}

	for _, name := range files {
		// Check if migration has already been applied
		var count int64
		if err := db.Table("migrations").Where("name = ?", name).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check migration status: %w", err)
		}
		if count > 0 {
			log.Printf("Skipping migration %s (already applied)", name)
			continue
		}

		content, err := migrationFS.ReadFile("migrations/" + name)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", name, err)
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(string(content)).Error; err != nil {
				return fmt.Errorf("failed to execute migration %s: %w", name, err)
			}
			if err := tx.Exec("INSERT INTO migrations (name) VALUES (?)", name).Error; err != nil {
				return fmt.Errorf("failed to record migration %s: %w", name, err)
			}
			return nil
		})
		if err != nil {
			return err
		}

		log.Printf("Applied migration %s", name)
	}

	return nil
}

// MigrationStatus lists the embedded migrations with their applied state
func MigrationStatus(db *gorm.DB) ([]MigrationState, error) {
	files, err := migrationFiles()
	if err != nil {
		return nil, err
	}

	applied := map[string]time.Time{}
	if db.Migrator().HasTable("migrations") {
		var rows []appliedMigration
		if err := db.Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("failed to read applied migrations: %w", err)
		}
		for _, row := range rows {
			applied[row.Name] = row.AppliedAt
		}
	}

	states := make([]MigrationState, 0, len(files))
	for _, name := range files {
		state := MigrationState{Name: name}
		if at, ok := applied[name]; ok {
			at := at
			state.Applied = true
			state.AppliedAt = &at
		}
		states = append(states, state)
	}
	return states, nil
}

// runSQLiteMigrations builds the schema from the models, which stand in
// for every embedded file, and marks the files as applied
func runSQLiteMigrations(db *gorm.DB) error {
	log.Printf("Using GORM auto-migration for SQLite")
	if err := db.AutoMigrate(
		&models.MealRecord{},
		&models.Ingredient{},
		&models.MealIngredient{},
		&appliedMigration{},
	); err != nil {
		return err
	}

	files, err := migrationFiles()
	if err != nil {
		return err
	}

	for _, name := range files {
		var count int64
		if err := db.Model(&appliedMigration{}).Where("name = ?", name).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check migration status: %w", err)
		}
		if count > 0 {
			continue
		}
		record := appliedMigration{Name: name, AppliedAt: time.Now().UTC()}
		if err := db.Create(&record).Error; err != nil {
			return fmt.Errorf("failed to record migration %s: %w", name, err)
		}
	}
	return nil
}

func ensureMigrationsTable(db *gorm.DB) error {
	if err := db.Exec(`
		CREATE TABLE IF NOT EXISTS migrations (
			id SERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL UNIQUE,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`).Error; err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

func migrationFiles() ([]string, error) {
	entries, err := fs.ReadDir(migrationFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}
