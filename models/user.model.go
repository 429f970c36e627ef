package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles
const (
	RoleStudent = "STUDENT"
	RoleCreator = "CREATOR"
	RoleAdmin   = "ADMIN"
)

type User struct {
	gorm.Model
	FullName        string     `json:"full_name"`
	Email           string     `json:"email" gorm:"unique;not null"`
	Password        string     `json:"-" gorm:"not null"`
	Role            string     `json:"role" gorm:"default:'STUDENT'"` // STUDENT, CREATOR, ADMIN
	IsEmailVerified bool       `json:"is_email_verified" gorm:"default:false"`
	EmailVerifiedAt *time.Time `json:"email_verified_at"`
	LastLogin       *time.Time `json:"last_login"`
}
