package main

import (
	"credlyse/config"
	"credlyse/database"
	"credlyse/models"
	"credlyse/utils"
	"encoding/csv"
	"log"
	"os"
	"strings"
)

// Bulk-imports courses from a CSV of (creator_email, youtube_url) rows.
// Usage: go run scripts/importCourses.go courses.csv
func main() {
	config.LoadConfig()
	database.ConnectDb()

	path := "courses.csv"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	file, err := os.Open(path)
	if err != nil {
		log.Fatalf("Failed to open CSV file: %v", err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		log.Fatalf("Failed to read CSV: %v", err)
	}
	if len(records) < 2 {
		log.Fatal("CSV file is empty or has only headers")
	}

	log.Printf("Total rows to import: %d", len(records)-1)

	db := database.Database.Db
	imported := 0
	skipped := 0

	for i, row := range records[1:] {
		if len(row) < 2 {
			log.Printf("Row %d: expected creator_email,youtube_url", i+2)
			skipped++
			continue
		}
		creatorEmail := strings.TrimSpace(row[0])
		youtubeURL := strings.TrimSpace(row[1])

		var creator models.User
		if err := db.Where("email = ?", creatorEmail).First(&creator).Error; err != nil {
			log.Printf("Row %d: creator %s not found", i+2, creatorEmail)
			skipped++
			continue
		}

		youtubeID, contentType, err := utils.ParseYoutubeURL(youtubeURL)
		if err != nil {
			log.Printf("Row %d: %v", i+2, err)
			skipped++
			continue
		}

		var existing models.Playlist
		if err := db.Where("youtube_id = ?", youtubeID).First(&existing).Error; err == nil {
			log.Printf("Row %d: %s already imported", i+2, youtubeID)
			skipped++
			continue
		}

		meta, err := utils.FetchYoutubeMetadata(youtubeID, contentType)
		if err != nil {
			log.Printf("Row %d: failed to fetch metadata for %s: %v", i+2, youtubeID, err)
			skipped++
			continue
		}

		tx := db.Begin()
		playlist := models.Playlist{
			CreatorID:   creator.ID,
			YoutubeID:   youtubeID,
			Title:       meta.Title,
			Description: meta.Description,
			Type:        contentType,
			TotalVideos: len(meta.Videos),
		}
		if err := tx.Create(&playlist).Error; err != nil {
			tx.Rollback()
			log.Printf("Row %d: failed to create playlist: %v", i+2, err)
			skipped++
			continue
		}

		failed := false
		for _, v := range meta.Videos {
			video := models.Video{
				PlaylistID:      playlist.ID,
				YoutubeVideoID:  v.VideoID,
				Title:           v.Title,
				DurationSeconds: v.DurationSeconds,
				AnalysisStatus:  models.AnalysisPending,
			}
			if err := tx.Create(&video).Error; err != nil {
				tx.Rollback()
				log.Printf("Row %d: failed to create video %s: %v", i+2, v.VideoID, err)
				failed = true
				break
			}
		}
		if failed {
			skipped++
			continue
		}

		tx.Commit()
		imported++
		log.Printf("Imported %q (%d videos)", playlist.Title, len(meta.Videos))
	}

	log.Printf("Done. Imported: %d, skipped: %d", imported, skipped)
}
