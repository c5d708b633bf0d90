package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"officials-rating-server/models"
)

// newTestDB opens an isolated in-memory database with the full schema,
// including the composite unique index on reviews.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	// A second pooled connection would see its own empty :memory: database.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get underlying sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(
		&models.User{},
		&models.Team{},
		&models.Official{},
		&models.Event{},
		&models.EventOfficial{},
		&models.EventTeam{},
		&models.Review{},
		&models.RefreshToken{},
	); err != nil {
		t.Fatalf("failed to migrate test schema: %v", err)
	}

	return db
}

var userSeq int

func createUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	userSeq++
	user := &models.User{
		FullName:     fmt.Sprintf("Coach %d", userSeq),
		Email:        fmt.Sprintf("coach%d@example.com", userSeq),
		PasswordHash: "x",
		Role:         models.RoleCoach,
		IsApproved:   true,
		IsActive:     true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func createOfficial(t *testing.T, db *gorm.DB, name string) *models.Official {
	t.Helper()
	official := &models.Official{Name: name, Location: "Des Moines, IA", Association: "IHSAA"}
	if err := db.Create(official).Error; err != nil {
		t.Fatalf("failed to create official: %v", err)
	}
	return official
}

func createEvent(t *testing.T, db *gorm.DB, name string) *models.Event {
	t.Helper()
	event := &models.Event{
		Name:  name,
		Date:  time.Date(2026, 1, 17, 0, 0, 0, 0, time.UTC),
		Venue: "Central High Gym",
	}
	if err := db.Create(event).Error; err != nil {
		t.Fatalf("failed to create event: %v", err)
	}
	return event
}

func assignOfficial(t *testing.T, db *gorm.DB, officialID, eventID uint) {
	t.Helper()
	assignment := &models.EventOfficial{OfficialID: officialID, EventID: eventID, Role: "referee"}
	if err := db.Create(assignment).Error; err != nil {
		t.Fatalf("failed to assign official %d to event %d: %v", officialID, eventID, err)
	}
}

// uniformInput builds a submission scoring every category the same.
func uniformInput(officialID, eventID uint, score int) models.ReviewCreate {
	return models.ReviewCreate{
		OfficialID:      officialID,
		EventID:         eventID,
		Mechanics:       score,
		Professionalism: score,
		Positioning:     score,
		Stalling:        score,
		Consistency:     score,
		Appearance:      score,
	}
}

func fetchOfficial(t *testing.T, db *gorm.DB, id uint) *models.Official {
	t.Helper()
	var official models.Official
	if err := db.First(&official, id).Error; err != nil {
		t.Fatalf("failed to fetch official %d: %v", id, err)
	}
	return &official
}
