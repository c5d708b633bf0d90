package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/lib/pq"

	"officials-rating-server/config"
	"officials-rating-server/utils"
)

type seedTeam struct {
	Name     string
	City     string
	State    string
	Division string
}

type seedOfficial struct {
	Name            string
	Location        string
	Association     string
	YearsExperience int
}

// runSeed loads the bootstrap admin account and starter catalog data.
// It is idempotent: existing rows are left untouched.
func runSeed() {
	cfg := config.AppConfig.Database
	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	log.Println("✅ Successfully connected to database")

	seedAdmin(db)
	seedTeams(db)
	seedOfficials(db)

	log.Println("✅ Seeding complete")
}

func seedAdmin(db *sql.DB) {
	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@example.com"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "ChangeMe123"
		log.Println("⚠️ ADMIN_PASSWORD not set, using default; change it immediately")
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		log.Fatal("Failed to hash admin password:", err)
	}

	result, err := db.Exec(`
		INSERT INTO users (full_name, email, password_hash, role, is_approved, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, 'admin', true, true, NOW(), NOW())
		ON CONFLICT (email) DO NOTHING`,
		"Administrator", email, hash)
	if err != nil {
		log.Fatal("Failed to seed admin user:", err)
	}

	if rows, _ := result.RowsAffected(); rows > 0 {
		log.Printf("✅ Admin account created: %s", email)
	} else {
		log.Printf("ℹ️ Admin account already exists: %s", email)
	}
}

func seedTeams(db *sql.DB) {
	teams := []seedTeam{
		{"Ridgeview Wrestling Club", "Ridgeview", "Iowa", "1A"},
		{"Cedar Falls Takedown", "Cedar Falls", "Iowa", "2A"},
		{"Westside Mat Club", "Des Moines", "Iowa", "3A"},
		{"North County Grapplers", "Mason City", "Iowa", "2A"},
	}

	inserted := 0
	for _, team := range teams {
		result, err := db.Exec(`
			INSERT INTO teams (name, city, state, division, created_at, updated_at)
			VALUES ($1, $2, $3, $4, NOW(), NOW())
			ON CONFLICT (name) DO NOTHING`,
			team.Name, team.City, team.State, team.Division)
		if err != nil {
			log.Printf("❌ Failed to seed team %s: %v", team.Name, err)
			continue
		}
		if rows, _ := result.RowsAffected(); rows > 0 {
			inserted++
		}
	}
	log.Printf("✅ Teams seeded: %d new", inserted)
}

func seedOfficials(db *sql.DB) {
	officials := []seedOfficial{
		{"Dale Hutchins", "Waterloo, Iowa", "IHSAA", 18},
		{"Marcus Webb", "Ames, Iowa", "IHSAA", 9},
		{"Terry Kowalski", "Dubuque, Iowa", "AAU", 24},
		{"Ray Delgado", "Council Bluffs, Iowa", "USA Wrestling", 6},
	}

	inserted := 0
	for _, official := range officials {
		var exists bool
		if err := db.QueryRow(
			`SELECT EXISTS (SELECT 1 FROM officials WHERE name = $1 AND deleted_at IS NULL)`,
			official.Name).Scan(&exists); err != nil {
			log.Printf("❌ Failed to check official %s: %v", official.Name, err)
			continue
		}
		if exists {
			continue
		}

		if _, err := db.Exec(`
			INSERT INTO officials (name, location, association, years_experience, average_rating, total_reviews, created_at, updated_at)
			VALUES ($1, $2, $3, $4, 0, 0, NOW(), NOW())`,
			official.Name, official.Location, official.Association, official.YearsExperience); err != nil {
			log.Printf("❌ Failed to seed official %s: %v", official.Name, err)
			continue
		}
		inserted++
	}
	log.Printf("✅ Officials seeded: %d new", inserted)
}
