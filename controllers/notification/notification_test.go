package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	notificationModels "lms/models/notification"
	"lms/validators/params"
	notificationValidator "lms/validators/notification"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupNotificationApp(t *testing.T) *fiber.App {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}
	config.AppConfig = &config.Config{JWTKey: "test-secret", SaltRound: 4}

	app := fiber.New()
	app.Get("/notification/list", middleware.JWTMiddleware, ListNotifications)
	app.Patch("/notification/:id/read", middleware.JWTMiddleware, params.ID("id", "notificationID"), MarkNotificationRead)
	app.Patch("/notification/read-all", middleware.JWTMiddleware, MarkAllNotificationsRead)
	app.Get("/notification/preferences", middleware.JWTMiddleware, GetPreferences)
	app.Put("/notification/preferences", middleware.JWTMiddleware, notificationValidator.UpdatePreferences(), UpdatePreferences)
	return app
}

func notifUser(t *testing.T, name string) models.User {
	t.Helper()
	user := models.User{Name: name, Email: name + "@test.io", Role: "STUDENT", Password: "x"}
	require.NoError(t, database.Database.Db.Create(&user).Error)
	return user
}

func notifBearer(t *testing.T, user models.User) string {
	t.Helper()
	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	require.NoError(t, err)
	return "Bearer " + token
}

func notifRequest(t *testing.T, app *fiber.App, method, path, auth string, body interface{}) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", auth)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func seedNotifications(t *testing.T, user models.User, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, database.Database.Db.Create(&notificationModels.Notification{
			UserID: user.ID, Type: "COURSE_UPDATE", Title: fmt.Sprintf("Update %d", i+1),
		}).Error)
	}
}

func TestMarkNotificationRead(t *testing.T) {
	app := setupNotificationApp(t)
	user := notifUser(t, "reader-"+t.Name())
	seedNotifications(t, user, 2)

	var first notificationModels.Notification
	require.NoError(t, database.Database.Db.Where("user_id = ?", user.ID).First(&first).Error)

	resp := notifRequest(t, app, "PATCH", fmt.Sprintf("/notification/%d/read", first.ID), notifBearer(t, user), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var unread int64
	database.Database.Db.Model(&notificationModels.Notification{}).
		Where("user_id = ? AND is_read = ?", user.ID, false).Count(&unread)
	assert.Equal(t, int64(1), unread)
}

func TestMarkNotificationReadForeignNotificationNotFound(t *testing.T) {
	app := setupNotificationApp(t)
	owner := notifUser(t, "owner-"+t.Name())
	other := notifUser(t, "other-"+t.Name())
	seedNotifications(t, owner, 1)

	var notification notificationModels.Notification
	require.NoError(t, database.Database.Db.Where("user_id = ?", owner.ID).First(&notification).Error)

	resp := notifRequest(t, app, "PATCH", fmt.Sprintf("/notification/%d/read", notification.ID), notifBearer(t, other), nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestMarkAllNotificationsRead(t *testing.T) {
	app := setupNotificationApp(t)
	user := notifUser(t, "bulk-"+t.Name())
	seedNotifications(t, user, 3)

	resp := notifRequest(t, app, "PATCH", "/notification/read-all", notifBearer(t, user), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var unread int64
	database.Database.Db.Model(&notificationModels.Notification{}).
		Where("user_id = ? AND is_read = ?", user.ID, false).Count(&unread)
	assert.Zero(t, unread)
}

func TestUpdatePreferencesUpsertsSingleRow(t *testing.T) {
	app := setupNotificationApp(t)
	user := notifUser(t, "prefs-"+t.Name())

	resp := notifRequest(t, app, "PUT", "/notification/preferences", notifBearer(t, user),
		map[string]bool{"grade_alerts": false})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = notifRequest(t, app, "PUT", "/notification/preferences", notifBearer(t, user),
		map[string]bool{"forum_alerts": false})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var count int64
	database.Database.Db.Model(&notificationModels.NotificationPreference{}).
		Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(1), count)

	var pref notificationModels.NotificationPreference
	require.NoError(t, database.Database.Db.Where("user_id = ?", user.ID).First(&pref).Error)
	assert.False(t, pref.GradeAlerts)
	assert.False(t, pref.ForumAlerts)
	assert.True(t, pref.EmailEnabled)
}

func TestUpdatePreferencesRequiresAField(t *testing.T) {
	app := setupNotificationApp(t)
	user := notifUser(t, "empty-"+t.Name())

	resp := notifRequest(t, app, "PUT", "/notification/preferences", notifBearer(t, user),
		map[string]string{})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestGetPreferencesDefaultsWithoutRow(t *testing.T) {
	app := setupNotificationApp(t)
	user := notifUser(t, "defaults-"+t.Name())

	resp := notifRequest(t, app, "GET", "/notification/preferences", notifBearer(t, user), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var count int64
	database.Database.Db.Model(&notificationModels.NotificationPreference{}).
		Where("user_id = ?", user.ID).Count(&count)
	assert.Zero(t, count)
}
