package models

import (
	"time"

	"gorm.io/gorm"
)

// Official represents a wrestling referee or judge being rated.
//
// AverageRating and TotalReviews are denormalized caches owned by the rating
// aggregator. They are overwritten from the current review set on every
// recompute and must never be edited by hand.
type Official struct {
	ID              uint    `json:"id" gorm:"primaryKey"`
	Name            string  `json:"name" gorm:"size:255;not null"`
	Location        string  `json:"location" gorm:"size:255"`
	Association     string  `json:"association" gorm:"size:255"`
	YearsExperience int     `json:"years_experience" gorm:"default:0"`
	PhotoURL        *string `json:"photo_url" gorm:"size:500"`

	AverageRating int `json:"average_rating" gorm:"default:0;check:average_rating >= 0 AND average_rating <= 5"`
	TotalReviews  int `json:"total_reviews" gorm:"default:0"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// TableName specifies the table name for the Official model
func (Official) TableName() string {
	return "officials"
}

// OfficialRequest represents the request structure for creating/updating an official
type OfficialRequest struct {
	Name            string `json:"name" binding:"required,min=2,max=255"`
	Location        string `json:"location"`
	Association     string `json:"association"`
	YearsExperience int    `json:"years_experience" binding:"omitempty,min=0,max=60"`
}
