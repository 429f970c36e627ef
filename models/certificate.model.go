package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Certificate is an issued course-completion certificate. The UUID primary
// key doubles as the public verification identifier. The composite unique
// index on (user_id, playlist_id) makes concurrent claims safe: the losing
// insert fails and the caller re-reads the winner's row.
type Certificate struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID     uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_certificate_user_playlist"`
	PlaylistID uint      `json:"playlist_id" gorm:"not null;uniqueIndex:idx_certificate_user_playlist"`
	PdfURL     string    `json:"pdf_url"`
	IssuedAt   time.Time `json:"issued_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// BeforeCreate assigns a fresh UUID when none was set.
func (c *Certificate) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
