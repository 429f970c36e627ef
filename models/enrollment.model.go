package models

import (
	"time"

	"gorm.io/gorm"
)

// Enrollment is a student's registration in a playlist course.
// The unique index ensures one enrollment per (user, playlist).
// IsCompleted is a derived cache; certificate claims always re-derive
// eligibility from the VideoProgress rows.
type Enrollment struct {
	gorm.Model
	UserID         uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_enrollment_user_playlist"`
	PlaylistID     uint      `json:"playlist_id" gorm:"not null;uniqueIndex:idx_enrollment_user_playlist"`
	IsCompleted    bool      `json:"is_completed" gorm:"default:false"`
	CertificateURL string    `json:"certificate_url"`
	LastActiveAt   time.Time `json:"last_active_at"`

	Playlist Playlist        `json:"playlist,omitempty" gorm:"foreignKey:PlaylistID"`
	Progress []VideoProgress `json:"progress,omitempty" gorm:"foreignKey:EnrollmentID"`
}
