package models

import (
	"encoding/json"
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Video analysis statuses
const (
	AnalysisPending   = "PENDING"
	AnalysisRunning   = "RUNNING"
	AnalysisCompleted = "COMPLETED"
	AnalysisFailed    = "FAILED"
)

// QuizQuestion is a single multiple-choice question with one correct choice.
type QuizQuestion struct {
	Question     string   `json:"question"`
	Choices      []string `json:"choices"`
	CorrectIndex int      `json:"correct_index"`
}

// Quiz is the structured payload stored in Video.QuizData.
type Quiz struct {
	Questions []QuizQuestion `json:"questions"`
}

// Video is an individual video within a playlist course.
type Video struct {
	gorm.Model
	PlaylistID      uint           `json:"playlist_id" gorm:"index;not null"`
	YoutubeVideoID  string         `json:"youtube_video_id" gorm:"uniqueIndex;not null"`
	Title           string         `json:"title"`
	DurationSeconds int            `json:"duration_seconds" gorm:"default:0"`
	TranscriptText  string         `json:"-"`
	HasQuiz         bool           `json:"has_quiz" gorm:"default:false"`
	QuizData        datatypes.JSON `json:"-"`
	AnalysisStatus  string         `json:"analysis_status" gorm:"default:'PENDING'"` // PENDING, RUNNING, COMPLETED, FAILED
}

// Quiz decodes the stored quiz payload. Returns an error if the video has no quiz yet.
func (v *Video) Quiz() (*Quiz, error) {
	if !v.HasQuiz || len(v.QuizData) == 0 {
		return nil, errors.New("video has no quiz")
	}
	var quiz Quiz
	if err := json.Unmarshal(v.QuizData, &quiz); err != nil {
		return nil, err
	}
	return &quiz, nil
}
