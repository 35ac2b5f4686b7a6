// services/fetch_run.go - Audit rows for source fetch runs
package services

import (
	"context"
	"log"
	"time"

	"research-metrics-api/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// startFetchRun opens an audit row for one source fetch. A nil db degrades to
// an in-memory run so the fetch itself still works without storage.
func startFetchRun(ctx context.Context, db *gorm.DB, source, query string) *models.FetchRun {
	run := &models.FetchRun{
		RunID:       uuid.NewString(),
		Source:      source,
		QueryString: query,
		Status:      "running",
		StartedAt:   time.Now(),
	}
	if db == nil {
		return run
	}
	if err := db.WithContext(ctx).Create(run).Error; err != nil {
		log.Printf("failed to record %s fetch run: %v", source, err)
	}
	return run
}

// finishFetchRun closes the audit row with the final status and counters.
func finishFetchRun(ctx context.Context, db *gorm.DB, run *models.FetchRun, totalResults, fetched int, runErr error) {
	if db == nil || run.ID == 0 {
		return
	}

	status := "success"
	var errMsg *string
	if runErr != nil {
		status = "failed"
		msg := runErr.Error()
		errMsg = &msg
	}

	updates := map[string]interface{}{
		"status":        status,
		"finished_at":   time.Now(),
		"items_fetched": fetched,
		"total_results": func() *int {
			if totalResults >= 0 {
				return &totalResults
			}
			return nil
		}(),
		"error_message": errMsg,
	}

	if err := db.WithContext(ctx).Model(run).Updates(updates).Error; err != nil {
		log.Printf("failed to update fetch run %s: %v", run.RunID, err)
	}
}
