package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleCoach      UserRole = "coach"
	RoleSupervisor UserRole = "supervisor"
	RoleAdmin      UserRole = "admin"
)

// User represents a registered account: a coach, a regional supervisor, or an admin.
// New accounts start unapproved and must be approved by an admin before sign-in.
type User struct {
	ID           uint     `json:"id" gorm:"primaryKey"`
	FullName     string   `json:"full_name" gorm:"size:255;not null"`
	Email        string   `json:"email" gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string   `json:"-" gorm:"size:255;not null"` // Hidden from JSON
	Role         UserRole `json:"role" gorm:"type:varchar(20);not null;default:'coach';check:role IN ('coach','supervisor','admin')"`
	Region       string   `json:"region" gorm:"size:100"`
	TeamID       *uint    `json:"team_id"`
	Team         *Team    `json:"team,omitempty" gorm:"foreignKey:TeamID"`
	IsApproved   bool     `json:"is_approved" gorm:"default:false"`
	IsActive     bool     `json:"is_active" gorm:"default:true"`

	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// BeforeCreate is a GORM hook that runs before creating a user
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.Role == "" {
		u.Role = RoleCoach
	}
	return nil
}

// IsValidRole checks if the user role is valid
func (u *User) IsValidRole() bool {
	switch u.Role {
	case RoleCoach, RoleSupervisor, RoleAdmin:
		return true
	default:
		return false
	}
}

// IsAdmin checks if the user is an admin
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsSupervisor checks if the user is a regional supervisor
func (u *User) IsSupervisor() bool {
	return u.Role == RoleSupervisor
}

// CanModerate reports whether the user may delete reviews and manage events
func (u *User) CanModerate() bool {
	return u.Role == RoleAdmin || u.Role == RoleSupervisor
}
