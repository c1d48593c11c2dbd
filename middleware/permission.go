package middleware

import (
	"strings"

	"lms/database"
	"lms/models"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
)

// CurrentUser loads the requesting user from the userId set by JWTMiddleware.
// Returns false when the user is missing, blocked or soft-deleted.
func CurrentUser(c *fiber.Ctx) (models.User, bool) {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return models.User{}, false
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return models.User{}, false
	}
	if user.IsBlocked {
		return models.User{}, false
	}
	return user, true
}

// CanManageCourse reports whether the user is the course owner, an assigned
// TA on the course, or an admin. Every course-scoped mutation goes through
// this chain.
func CanManageCourse(user models.User, courseID uint) bool {
	if user.Role == "ADMIN" {
		return true
	}

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return false
	}
	if course.OwnerID == user.ID {
		return true
	}

	var staff courseModels.CourseStaff
	err := database.Database.Db.Where("course_id = ? AND user_id = ? AND is_deleted = ?", courseID, user.ID, false).First(&staff).Error
	return err == nil
}

// CanAccessCourse reports whether the user may view course-scoped content:
// active enrollment, or staff/owner/admin standing.
func CanAccessCourse(user models.User, courseID uint) bool {
	if CanManageCourse(user, courseID) {
		return true
	}

	var enrollment courseModels.Enrollment
	err := database.Database.Db.Where("user_id = ? AND course_id = ? AND status != ? AND is_deleted = ?",
		user.ID, courseID, "DROPPED", false).First(&enrollment).Error
	return err == nil
}

// MaintenanceMiddleware rejects non-admin traffic while maintenance mode is on
func MaintenanceMiddleware(c *fiber.Ctx) error {
	var maintenance models.Maintenance
	if err := database.Database.Db.Order("id desc").First(&maintenance).Error; err != nil || !maintenance.IsActive {
		return c.Next()
	}

	// Admins keep access so they can turn it back off. This runs before the
	// route-level JWT middleware, so parse the header directly.
	authHeader := c.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		if userID, err := ParseJWT(authHeader[len("Bearer "):]); err == nil {
			var user models.User
			if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err == nil && user.Role == "ADMIN" {
				return c.Next()
			}
		}
	}

	return JsonResponse(c, fiber.StatusServiceUnavailable, false, maintenance.Message, nil)
}
