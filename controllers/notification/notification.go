package controllers

import (
	"lms/database"
	"lms/middleware"
	notificationModels "lms/models/notification"

	"github.com/gofiber/fiber/v2"
)

// ListNotifications lists the user's notifications, newest first. Pass
// unread=true to only get unread ones.
func ListNotifications(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db.Model(&notificationModels.Notification{}).
		Where("user_id = ? AND is_deleted = ?", user.ID, false)

	if c.Query("unread") == "true" {
		db = db.Where("is_read = ?", false)
	}

	var unreadCount int64
	database.Database.Db.Model(&notificationModels.Notification{}).
		Where("user_id = ? AND is_read = ? AND is_deleted = ?", user.ID, false, false).Count(&unreadCount)

	var notifications []notificationModels.Notification
	if err := db.Order("created_at desc").Limit(100).Find(&notifications).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch notifications!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Notifications fetched successfully!", fiber.Map{
		"notifications": notifications,
		"unread_count":  unreadCount,
	})
}

// MarkNotificationRead marks one notification as read
func MarkNotificationRead(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	notificationID := c.Locals("notificationID").(uint)

	var notification notificationModels.Notification
	if err := database.Database.Db.Where("id = ? AND user_id = ? AND is_deleted = ?", notificationID, user.ID, false).First(&notification).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Notification not found!", nil)
	}

	notification.IsRead = true
	if err := database.Database.Db.Save(&notification).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update notification!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Notification marked read!", notification)
}

// MarkAllNotificationsRead marks all of the user's notifications as read
func MarkAllNotificationsRead(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	if err := database.Database.Db.Model(&notificationModels.Notification{}).
		Where("user_id = ? AND is_read = ? AND is_deleted = ?", user.ID, false, false).
		Update("is_read", true).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update notifications!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "All notifications marked read!", nil)
}

// GetPreferences returns the user's notification preferences, defaults when
// no row exists yet
func GetPreferences(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var pref notificationModels.NotificationPreference
	if err := database.Database.Db.Where("user_id = ? AND is_deleted = ?", user.ID, false).First(&pref).Error; err != nil {
		pref = notificationModels.NotificationPreference{
			UserID:        user.ID,
			EmailEnabled:  true,
			GradeAlerts:   true,
			ForumAlerts:   true,
			SurveyAlerts:  true,
			CourseUpdates: true,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Preferences fetched successfully!", pref)
}

// UpdatePreferences upserts the user's notification preferences. One row
// per user.
func UpdatePreferences(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedPreferences").(*struct {
		EmailEnabled  *bool `json:"email_enabled"`
		GradeAlerts   *bool `json:"grade_alerts"`
		ForumAlerts   *bool `json:"forum_alerts"`
		SurveyAlerts  *bool `json:"survey_alerts"`
		CourseUpdates *bool `json:"course_updates"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var pref notificationModels.NotificationPreference
	err := database.Database.Db.Where("user_id = ? AND is_deleted = ?", user.ID, false).First(&pref).Error
	if err != nil {
		pref = notificationModels.NotificationPreference{
			UserID:        user.ID,
			EmailEnabled:  true,
			GradeAlerts:   true,
			ForumAlerts:   true,
			SurveyAlerts:  true,
			CourseUpdates: true,
		}
	}

	if reqData.EmailEnabled != nil {
		pref.EmailEnabled = *reqData.EmailEnabled
	}
	if reqData.GradeAlerts != nil {
		pref.GradeAlerts = *reqData.GradeAlerts
	}
	if reqData.ForumAlerts != nil {
		pref.ForumAlerts = *reqData.ForumAlerts
	}
	if reqData.SurveyAlerts != nil {
		pref.SurveyAlerts = *reqData.SurveyAlerts
	}
	if reqData.CourseUpdates != nil {
		pref.CourseUpdates = *reqData.CourseUpdates
	}

	if err := database.Database.Db.Save(&pref).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update preferences!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Preferences updated successfully!", pref)
}
