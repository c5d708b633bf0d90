package models

import (
	"time"

	"gorm.io/gorm"
)

// Team represents a wrestling team that competes at events
type Team struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Name     string `json:"name" gorm:"size:255;uniqueIndex;not null"`
	City     string `json:"city" gorm:"size:100"`
	State    string `json:"state" gorm:"size:100"`
	Division string `json:"division" gorm:"size:50"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// TableName specifies the table name for the Team model
func (Team) TableName() string {
	return "teams"
}

// TeamRequest represents the request structure for creating/updating a team
type TeamRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=255"`
	City     string `json:"city"`
	State    string `json:"state"`
	Division string `json:"division"`
}
