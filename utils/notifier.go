package utils

import (
	"encoding/json"
	"log"
	"sync"

	"lms/database"
	"lms/models"
	notificationModels "lms/models/notification"

	"github.com/gofiber/websocket/v2"
)

// socketHub tracks open WebSocket connections per user. A user may have
// several tabs open, so the value is a connection set.
type socketHub struct {
	mu    sync.RWMutex
	conns map[uint]map[*websocket.Conn]bool
}

var hub = socketHub{conns: make(map[uint]map[*websocket.Conn]bool)}

// RegisterConn adds a user's WebSocket connection to the hub
func RegisterConn(userID uint, conn *websocket.Conn) {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	if hub.conns[userID] == nil {
		hub.conns[userID] = make(map[*websocket.Conn]bool)
	}
	hub.conns[userID][conn] = true
}

// UnregisterConn removes a connection, dropping the user entry when empty
func UnregisterConn(userID uint, conn *websocket.Conn) {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	if set, ok := hub.conns[userID]; ok {
		delete(set, conn)
		if len(set) == 0 {
			delete(hub.conns, userID)
		}
	}
}

// pushToUser writes a JSON payload to all of the user's open connections.
// Best effort: a dead connection just gets skipped, the notification row is
// the source of truth.
func pushToUser(userID uint, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}

	hub.mu.RLock()
	defer hub.mu.RUnlock()
	for conn := range hub.conns[userID] {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("WebSocket push failed for user %d: %v", userID, err)
		}
	}
}

// Notify persists a notification, pushes it over the user's WebSocket
// connections and emails it when the user's preferences allow
func Notify(userID uint, notifType, title, body string, referenceID uint) {
	notification := notificationModels.Notification{
		UserID:      userID,
		Type:        notifType,
		Title:       title,
		Body:        body,
		ReferenceID: referenceID,
	}
	if err := database.Database.Db.Create(&notification).Error; err != nil {
		log.Printf("Failed to store notification for user %d: %v", userID, err)
		return
	}

	pushToUser(userID, notification)

	if !emailAllowed(userID, notifType) {
		return
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return
	}
	go SendEmail([]string{user.Email}, title, getEmailTemplate(title, "<p>"+body+"</p>"))
}

// emailAllowed checks the user's notification preferences for the given type
func emailAllowed(userID uint, notifType string) bool {
	var pref notificationModels.NotificationPreference
	if err := database.Database.Db.Where("user_id = ? AND is_deleted = ?", userID, false).First(&pref).Error; err != nil {
		// No preference row yet: defaults allow email
		return true
	}
	if !pref.EmailEnabled {
		return false
	}
	switch notifType {
	case "GRADE":
		return pref.GradeAlerts
	case "FORUM_REPLY":
		return pref.ForumAlerts
	case "SURVEY":
		return pref.SurveyAlerts
	case "ANNOUNCEMENT", "ENROLLMENT":
		return pref.CourseUpdates
	}
	return true
}
