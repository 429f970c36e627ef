package models

import "gorm.io/gorm"

// Watch statuses. The status only ever moves forward:
// NOT_STARTED -> IN_PROGRESS -> WATCHED.
const (
	WatchNotStarted = "NOT_STARTED"
	WatchInProgress = "IN_PROGRESS"
	WatchWatched    = "WATCHED"
)

// VideoProgress tracks a single (enrollment, video) pair.
type VideoProgress struct {
	gorm.Model
	EnrollmentID   uint   `json:"enrollment_id" gorm:"not null;uniqueIndex:idx_progress_enrollment_video"`
	VideoID        uint   `json:"video_id" gorm:"not null;uniqueIndex:idx_progress_enrollment_video"`
	WatchStatus    string `json:"watch_status" gorm:"default:'NOT_STARTED'"`
	SecondsWatched int    `json:"seconds_watched" gorm:"default:0"`
	QuizScore      *int   `json:"quiz_score"`
	IsQuizPassed   bool   `json:"is_quiz_passed" gorm:"default:false"`
}
