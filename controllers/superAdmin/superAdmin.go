package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/models"

	"github.com/gofiber/fiber/v2"
)

// requireAdmin loads the caller and checks the ADMIN role. When it returns
// false, the rejection response has already been written.
func requireAdmin(c *fiber.Ctx) (models.User, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
		return user, false
	}
	if user.Role != "ADMIN" {
		middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Admin only.", nil)
		return user, false
	}
	return user, true
}

// ListUsers lists platform users with pagination and optional role filter.
// Admin only.
func ListUsers(c *fiber.Ctx) error {
	if _, ok := requireAdmin(c); !ok {
		return nil
	}

	reqData, _ := c.Locals("validatedList").(*struct {
		Page  *int `json:"page"`
		Limit *int `json:"limit"`
	})

	page := 1
	limit := 20
	if reqData != nil && reqData.Page != nil && *reqData.Page > 0 {
		page = *reqData.Page
	}
	if reqData != nil && reqData.Limit != nil && *reqData.Limit > 0 {
		limit = *reqData.Limit
	}
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&models.User{}).Where("is_deleted = ?", false)
	if role := c.Query("role"); role != "" {
		db = db.Where("role = ?", role)
	}

	var total int64
	db.Count(&total)

	var users []models.User
	if err := db.Offset(offset).Limit(limit).Order("created_at desc").Find(&users).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch users!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Users fetched successfully!", fiber.Map{
		"users": users,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// ChangeUserRole switches a user between STUDENT, INSTRUCTOR and ADMIN.
// Admin only.
func ChangeUserRole(c *fiber.Ctx) error {
	admin, ok := requireAdmin(c)
	if !ok {
		return nil
	}

	userID := c.Locals("targetUserID").(uint)

	reqData, ok := c.Locals("validatedRole").(*struct {
		Role string `json:"role"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if admin.ID == userID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You cannot change your own role!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	user.Role = reqData.Role
	if err := database.Database.Db.Save(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update user role!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User role updated successfully!", user)
}

// SetUserBlocked blocks or unblocks a user account. Admin only.
func SetUserBlocked(c *fiber.Ctx) error {
	admin, ok := requireAdmin(c)
	if !ok {
		return nil
	}

	userID := c.Locals("targetUserID").(uint)

	reqData, ok := c.Locals("validatedBlock").(*struct {
		IsBlocked *bool `json:"is_blocked"`
	})
	if !ok || reqData.IsBlocked == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if admin.ID == userID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You cannot block your own account!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	user.IsBlocked = *reqData.IsBlocked
	if !user.IsBlocked {
		user.BlockedUntil = nil
		user.FailedLoginAttempts = 0
	}
	if err := database.Database.Db.Save(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update user!", nil)
	}

	message := "User unblocked successfully!"
	if user.IsBlocked {
		message = "User blocked successfully!"
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, message, user)
}

// DeleteUser soft deletes a user account. Admin only.
func DeleteUser(c *fiber.Ctx) error {
	admin, ok := requireAdmin(c)
	if !ok {
		return nil
	}

	userID := c.Locals("targetUserID").(uint)

	if admin.ID == userID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You cannot delete your own account!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	user.IsDeleted = true
	if err := database.Database.Db.Save(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete user!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User deleted successfully!", nil)
}

// SetMaintenanceMode toggles platform maintenance mode. While active, only
// admins can reach the API. Admin only.
func SetMaintenanceMode(c *fiber.Ctx) error {
	admin, ok := requireAdmin(c)
	if !ok {
		return nil
	}

	reqData, ok := c.Locals("validatedMaintenance").(*struct {
		IsActive *bool  `json:"is_active"`
		Message  string `json:"message"`
	})
	if !ok || reqData.IsActive == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var maintenance models.Maintenance
	if err := database.Database.Db.First(&maintenance).Error; err != nil {
		maintenance = models.Maintenance{}
	}

	maintenance.IsActive = *reqData.IsActive
	maintenance.Message = reqData.Message
	maintenance.UpdatedBy = admin.ID

	if err := database.Database.Db.Save(&maintenance).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update maintenance mode!", nil)
	}

	message := "Maintenance mode disabled!"
	if maintenance.IsActive {
		message = "Maintenance mode enabled!"
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, message, maintenance)
}

// GetMaintenanceMode returns the current maintenance state. Admin only.
func GetMaintenanceMode(c *fiber.Ctx) error {
	if _, ok := requireAdmin(c); !ok {
		return nil
	}

	var maintenance models.Maintenance
	if err := database.Database.Db.First(&maintenance).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Maintenance mode fetched successfully!", fiber.Map{
			"is_active": false,
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Maintenance mode fetched successfully!", maintenance)
}
