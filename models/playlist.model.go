package models

import "gorm.io/gorm"

// Playlist types
const (
	PlaylistTypePlaylist    = "PLAYLIST"
	PlaylistTypeSingleVideo = "SINGLE_VIDEO"
)

// Playlist is a course container imported from a YouTube playlist or single video.
type Playlist struct {
	gorm.Model
	CreatorID   uint   `json:"creator_id" gorm:"index;not null"`
	YoutubeID   string `json:"youtube_id" gorm:"uniqueIndex;not null"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type" gorm:"default:'PLAYLIST'"` // PLAYLIST, SINGLE_VIDEO
	TotalVideos int    `json:"total_videos" gorm:"default:0"`
	IsPublished bool   `json:"is_published" gorm:"default:false"`

	Videos []Video `json:"videos,omitempty" gorm:"foreignKey:PlaylistID"`
}
