package models

import (
	"time"
)

// Review is one user's 1-5 rating of one official at one event, across six
// categories. The composite unique index enforces the one-review-per
// (user, official, event) invariant at the storage layer, so two concurrent
// submissions cannot both slip past the duplicate pre-check.
//
// Reviews are hard-deleted: a soft-delete marker would keep occupying the
// unique index and block a fresh review after moderation removes one.
type Review struct {
	ID         uint `json:"id" gorm:"primaryKey"`
	OfficialID uint `json:"official_id" gorm:"not null;uniqueIndex:idx_reviews_reviewer_official_event"`
	UserID     uint `json:"user_id" gorm:"not null;uniqueIndex:idx_reviews_reviewer_official_event"`
	EventID    uint `json:"event_id" gorm:"not null;uniqueIndex:idx_reviews_reviewer_official_event"`

	// Category scores, each 1-5
	Mechanics       int `json:"mechanics" gorm:"type:int;not null;check:mechanics >= 1 AND mechanics <= 5"`
	Professionalism int `json:"professionalism" gorm:"type:int;not null;check:professionalism >= 1 AND professionalism <= 5"`
	Positioning     int `json:"positioning" gorm:"type:int;not null;check:positioning >= 1 AND positioning <= 5"`
	Stalling        int `json:"stalling" gorm:"type:int;not null;check:stalling >= 1 AND stalling <= 5"`
	Consistency     int `json:"consistency" gorm:"type:int;not null;check:consistency >= 1 AND consistency <= 5"`
	Appearance      int `json:"appearance" gorm:"type:int;not null;check:appearance >= 1 AND appearance <= 5"`

	Comment     string `json:"comment" gorm:"type:text"`
	IsReported  bool   `json:"is_reported" gorm:"default:false"`
	IsAnonymous bool   `json:"is_anonymous" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Official Official `json:"official,omitempty" gorm:"foreignKey:OfficialID"`
	Reviewer User     `json:"reviewer,omitempty" gorm:"foreignKey:UserID"`
	Event    Event    `json:"event,omitempty" gorm:"foreignKey:EventID"`
}

// TableName specifies the table name for the Review model
func (Review) TableName() string {
	return "reviews"
}

// ReviewCreate represents the request structure for submitting a review
type ReviewCreate struct {
	OfficialID      uint   `json:"official_id" binding:"required"`
	EventID         uint   `json:"event_id" binding:"required"`
	Mechanics       int    `json:"mechanics" binding:"required,min=1,max=5"`
	Professionalism int    `json:"professionalism" binding:"required,min=1,max=5"`
	Positioning     int    `json:"positioning" binding:"required,min=1,max=5"`
	Stalling        int    `json:"stalling" binding:"required,min=1,max=5"`
	Consistency     int    `json:"consistency" binding:"required,min=1,max=5"`
	Appearance      int    `json:"appearance" binding:"required,min=1,max=5"`
	Comment         string `json:"comment"`
	IsAnonymous     bool   `json:"is_anonymous"`
}

// CategoryAverages holds an official's six rounded per-category means plus the
// overall score. Derived on demand from current reviews, never persisted.
//
// Overall is the rounded mean of the six already-rounded category averages,
// not the mean of raw scores. The two-stage rounding is inherited behavior
// that displayed ratings depend on.
type CategoryAverages struct {
	Mechanics       int `json:"mechanics"`
	Professionalism int `json:"professionalism"`
	Positioning     int `json:"positioning"`
	Stalling        int `json:"stalling"`
	Consistency     int `json:"consistency"`
	Appearance      int `json:"appearance"`
	Overall         int `json:"overall"`
}
