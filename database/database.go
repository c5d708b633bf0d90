package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"officials-rating-server/config"
	"officials-rating-server/models"
)

var DB *gorm.DB

// Initialize sets up the database connection and runs migrations
func Initialize() error {
	cfg := config.AppConfig.Database
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)

	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
		// Surface unique-index violations as gorm.ErrDuplicatedKey so the
		// review ledger can map them to its duplicate-review error.
		TranslateError: true,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying SQL database: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("✅ Successfully connected to database")

	if err := runMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("✅ Database migrations completed successfully")

	return nil
}

// runMigrations creates or updates database tables
func runMigrations() error {
	if err := DB.AutoMigrate(
		&models.User{},
		&models.Team{},
		&models.Official{},
		&models.Event{},
		&models.EventOfficial{},
		&models.EventTeam{},
		&models.Review{},
		&models.RefreshToken{},
	); err != nil {
		return err
	}

	return migrateReviewsUniqueIndex()
}

// migrateReviewsUniqueIndex guarantees the one-review-per
// (reviewer, official, event) index exists. The index is what actually
// prevents two concurrent submissions from both passing the duplicate
// pre-check, so its presence is verified explicitly rather than trusted to
// auto-migration of a pre-existing table.
func migrateReviewsUniqueIndex() error {
	if DB.Migrator().HasIndex(&models.Review{}, "idx_reviews_reviewer_official_event") {
		return nil
	}

	if err := DB.Exec(
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_reviews_reviewer_official_event ON reviews (official_id, user_id, event_id)",
	).Error; err != nil {
		return err
	}

	log.Println("✅ Created unique review index on (official_id, user_id, event_id)")
	return nil
}

func GetDB() *gorm.DB {
	return DB
}
