package models

import (
	"time"

	"gorm.io/gorm"
)

// OTP purposes
const (
	OTPPurposeEmailVerification = "EMAIL_VERIFICATION"
	OTPPurposePasswordReset     = "PASSWORD_RESET"
)

// OTP stores a hashed one-time code. The plain code is only ever sent by email.
type OTP struct {
	gorm.Model
	Email     string     `json:"email" gorm:"index;not null"`
	CodeHash  string     `json:"-" gorm:"not null"` // SHA-256 of the 6-digit code
	Purpose   string     `json:"purpose" gorm:"not null"`
	ExpiresAt time.Time  `json:"expires_at"`
	IsUsed    bool       `json:"is_used" gorm:"default:false"`
	UsedAt    *time.Time `json:"used_at"`
}
