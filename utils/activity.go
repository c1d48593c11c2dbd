package utils

import (
	"log"
	"time"

	"lms/database"
	analyticsModels "lms/models/analytics"
)

// RecordActivity stores a learner action for the TNA pipeline. Fired
// asynchronously from controllers; a lost event is acceptable.
func RecordActivity(userID, courseID uint, action, entityType string, entityID uint) {
	go func() {
		event := analyticsModels.ActivityEvent{
			UserID:     userID,
			CourseID:   courseID,
			Action:     action,
			EntityType: entityType,
			EntityID:   entityID,
			OccurredAt: time.Now(),
		}
		if err := database.Database.Db.Create(&event).Error; err != nil {
			log.Printf("Failed to record activity %s for user %d: %v", action, userID, err)
		}
	}()
}
