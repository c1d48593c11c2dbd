package controllers

import (
	"encoding/json"
	"time"

	"lms/config"
	"lms/database"
	"lms/middleware"
	analyticsModels "lms/models/analytics"
	"lms/tna"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

// BuildTNAModel runs the transition network pipeline for a course: load the
// activity window, split into session sequences, build the weighted model,
// prune weak edges, compute centralities and communities. The result is
// returned and persisted as a snapshot. Staff only.
func BuildTNAModel(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(uint)

	if !middleware.CanManageCourse(user, courseID) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Course staff only.", nil)
	}

	reqData, _ := c.Locals("validatedTNA").(*struct {
		Mode      string     `json:"mode"`
		From      *time.Time `json:"from"`
		To        *time.Time `json:"to"`
		Threshold *float64   `json:"threshold"`
	})

	mode := tna.ModeTNA
	if reqData != nil && reqData.Mode != "" {
		mode = reqData.Mode
	}

	// Default window: the last 90 days
	to := time.Now()
	from := to.AddDate(0, 0, -90)
	if reqData != nil && reqData.From != nil {
		from = *reqData.From
	}
	if reqData != nil && reqData.To != nil {
		to = *reqData.To
	}

	threshold := config.AppConfig.TNAPruneThreshold
	if reqData != nil && reqData.Threshold != nil {
		threshold = *reqData.Threshold
	}

	var rows []analyticsModels.ActivityEvent
	if err := database.Database.Db.
		Where("course_id = ? AND occurred_at >= ? AND occurred_at <= ? AND is_deleted = ?", courseID, from, to, false).
		Order("user_id asc, occurred_at asc").Find(&rows).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load activity events!", nil)
	}
	if len(rows) == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "No activity recorded in this window!", nil)
	}

	events := make([]tna.Event, len(rows))
	for i, r := range rows {
		events[i] = tna.Event{UserID: r.UserID, Action: r.Action, At: r.OccurredAt}
	}

	idleGap := time.Duration(config.AppConfig.TNASessionGapMins) * time.Minute
	sequences := tna.ExtractSequences(events, idleGap)

	model, err := tna.Build(mode, sequences, config.AppConfig.TNADecayFactor)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid model mode!", nil)
	}
	model.Prune(threshold)

	result := fiber.Map{
		"model":        model,
		"centralities": model.Centralities(),
		"communities":  model.Communities(),
		"summary":      model.Summarize(10),
		"window": fiber.Map{
			"from": from,
			"to":   to,
		},
		"event_count":    len(rows),
		"sequence_count": len(sequences),
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to build model!", nil)
	}

	snapshot := analyticsModels.TNASnapshot{
		CourseID:  courseID,
		CreatedBy: user.ID,
		Mode:      mode,
		Payload:   datatypes.JSON(payload),
	}
	if err := database.Database.Db.Create(&snapshot).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to store snapshot!", nil)
	}

	result["snapshot_id"] = snapshot.ID

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Transition network built successfully!", result)
}

// ListTNASnapshots lists stored snapshots for a course, newest first.
// Staff only.
func ListTNASnapshots(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(uint)

	if !middleware.CanManageCourse(user, courseID) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Course staff only.", nil)
	}

	var snapshots []analyticsModels.TNASnapshot
	if err := database.Database.Db.Where("course_id = ? AND is_deleted = ?", courseID, false).
		Order("created_at desc").Limit(20).Find(&snapshots).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch snapshots!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Snapshots fetched successfully!", snapshots)
}

// GetTNASnapshot returns one stored snapshot. Staff only.
func GetTNASnapshot(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	snapshotID := c.Locals("snapshotID").(uint)

	var snapshot analyticsModels.TNASnapshot
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", snapshotID, false).First(&snapshot).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Snapshot not found!", nil)
	}

	if !middleware.CanManageCourse(user, snapshot.CourseID) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Course staff only.", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Snapshot fetched successfully!", snapshot)
}
