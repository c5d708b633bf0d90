package models

import (
	"time"

	"gorm.io/gorm"
)

// Event represents a wrestling competition at which officials and teams participate
type Event struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:255;not null"`
	Date      time.Time `json:"date" gorm:"not null"`
	StartTime string    `json:"start_time" gorm:"size:10"`
	Venue     string    `json:"venue" gorm:"size:255;not null"`
	EventType string    `json:"event_type" gorm:"size:50"`
	Host      string    `json:"host" gorm:"size:255"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`

	// Relationships
	Assignments []EventOfficial `json:"assignments,omitempty" gorm:"foreignKey:EventID"`
	TeamEntries []EventTeam     `json:"team_entries,omitempty" gorm:"foreignKey:EventID"`
}

// TableName specifies the table name for the Event model
func (Event) TableName() string {
	return "events"
}

// EventOfficial links an official to an event they officiated, with an optional
// role (head referee, mat judge, ...). A review may only be submitted for an
// (official, event) pair that has one of these records.
type EventOfficial struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	EventID    uint      `json:"event_id" gorm:"not null;uniqueIndex:idx_event_officials_event_official"`
	OfficialID uint      `json:"official_id" gorm:"not null;uniqueIndex:idx_event_officials_event_official"`
	Role       string    `json:"role" gorm:"size:100"`
	CreatedAt  time.Time `json:"created_at"`

	Event    Event    `json:"event,omitempty" gorm:"foreignKey:EventID"`
	Official Official `json:"official,omitempty" gorm:"foreignKey:OfficialID"`
}

// TableName specifies the table name for the EventOfficial model
func (EventOfficial) TableName() string {
	return "event_officials"
}

// EventTeam links a team to an event it competed at
type EventTeam struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	EventID   uint      `json:"event_id" gorm:"not null;uniqueIndex:idx_event_teams_event_team"`
	TeamID    uint      `json:"team_id" gorm:"not null;uniqueIndex:idx_event_teams_event_team"`
	CreatedAt time.Time `json:"created_at"`

	Event Event `json:"event,omitempty" gorm:"foreignKey:EventID"`
	Team  Team  `json:"team,omitempty" gorm:"foreignKey:TeamID"`
}

// TableName specifies the table name for the EventTeam model
func (EventTeam) TableName() string {
	return "event_teams"
}

// EventRequest represents the request structure for creating/updating an event
type EventRequest struct {
	Name      string `json:"name" binding:"required,min=2,max=255"`
	Date      string `json:"date" binding:"required"` // YYYY-MM-DD
	StartTime string `json:"start_time"`
	Venue     string `json:"venue" binding:"required"`
	EventType string `json:"event_type"`
	Host      string `json:"host"`
}

// AssignOfficialRequest represents the request structure for assigning an official to an event
type AssignOfficialRequest struct {
	OfficialID uint   `json:"official_id" binding:"required"`
	Role       string `json:"role"`
}

// AddTeamRequest represents the request structure for entering a team into an event
type AddTeamRequest struct {
	TeamID uint `json:"team_id" binding:"required"`
}
