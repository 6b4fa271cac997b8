package utils

import (
	"log"
	"time"

	"lms/config"
	"lms/database"
	courseModels "lms/models/course"
	courseService "lms/services/course"

	"github.com/robfig/cron/v3"
)

// logScheduler logs scheduler events with timestamp
func logScheduler(message string) {
	log.Printf("[PROGRESS-SCHEDULER %s] %s", time.Now().Format(time.RFC3339), message)
}

// reconcileProgressRows re-derives every cached progress row from the
// completion facts. Structural edits after a user last touched a course can
// leave the stored percentage stale; this brings them back in line.
func reconcileProgressRows() {
	db := database.Database.Db
	progress := courseService.NewProgressCalculator(db, courseService.NewCompletionTracker(db))

	var rows []courseModels.CourseProgress
	if err := db.Find(&rows).Error; err != nil {
		logScheduler("Error fetching progress rows: " + err.Error())
		return
	}

	reconciled := 0
	for _, row := range rows {
		if err := progress.Recompute(row.UserID, row.CourseID); err != nil {
			log.Printf("[PROGRESS-SCHEDULER] Error recomputing user %d course %d: %v", row.UserID, row.CourseID, err)
			continue
		}
		reconciled++
	}

	log.Printf("[PROGRESS-SCHEDULER] Reconciled %d of %d progress rows", reconciled, len(rows))
}

// StartProgressScheduler runs the nightly reconciliation on the configured
// cron expression.
func StartProgressScheduler() *cron.Cron {
	c := cron.New()

	_, err := c.AddFunc(config.AppConfig.ReconcileCron, func() {
		logScheduler("Starting progress reconciliation")
		reconcileProgressRows()
	})
	if err != nil {
		log.Fatalf("Invalid progress reconcile cron expression: %v", err)
	}

	c.Start()
	logScheduler("Scheduler started with expression " + config.AppConfig.ReconcileCron)
	return c
}
