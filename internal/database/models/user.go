package models

import "time"

type UserRole string

const (
	RoleRecruiter UserRole = "recruiter"
	RoleCandidate UserRole = "candidate"
)

type User struct {
	Base
	Email        string   `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string   `gorm:"not null" json:"-"`
	Name         string   `json:"name"`
	Role         UserRole `gorm:"not null;default:'candidate'" json:"role"` // recruiter, candidate
	IsVerified   bool     `gorm:"default:false" json:"is_verified"`

	VerificationToken string `gorm:"index" json:"-"`

	ResetPasswordToken   string     `gorm:"index" json:"-"`
	ResetPasswordExpires *time.Time `json:"-"`
}

func (User) TableName() string {
	return "users"
}
