package utils

import (
	"credlyse/database"
	"credlyse/models"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Analyses stuck in RUNNING longer than this are assumed dead (process
// restart mid-analysis) and marked FAILED so the creator can re-trigger.
const analysisDeadline = 30 * time.Minute

// InitializeMaintenanceScheduler sets up the periodic cleanup jobs.
func InitializeMaintenanceScheduler() {
	log.Println("[MAINTENANCE-SCHEDULER] Initializing maintenance scheduler...")

	c := cron.New()

	// Hourly OTP cleanup
	c.AddFunc("0 * * * *", func() {
		deleted := CleanupExpiredOTPs(database.Database.Db)
		if deleted > 0 {
			log.Printf("[MAINTENANCE-SCHEDULER] Removed %d expired/used OTP codes", deleted)
		}
	})

	// Reap analyses that never finished
	c.AddFunc("*/10 * * * *", func() {
		ReapStuckAnalyses()
	})

	c.Start()
	log.Println("[MAINTENANCE-SCHEDULER] Maintenance scheduler started")
}

// ReapStuckAnalyses marks long-RUNNING video analyses as FAILED.
func ReapStuckAnalyses() {
	db := database.Database.Db
	cutoff := time.Now().Add(-analysisDeadline)

	result := db.Model(&models.Video{}).
		Where("analysis_status = ? AND updated_at < ?", models.AnalysisRunning, cutoff).
		Update("analysis_status", models.AnalysisFailed)
	if result.Error != nil {
		log.Printf("[MAINTENANCE-SCHEDULER] Error reaping stuck analyses: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		log.Printf("[MAINTENANCE-SCHEDULER] Marked %d stuck analyses as FAILED", result.RowsAffected)
	}
}
