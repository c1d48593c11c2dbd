package controllers

import (
	"time"

	"lms/database"
	"lms/middleware"
	assignmentModels "lms/models/assignment"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
)

// CreateAssignment adds an assignment to a course. Staff only.
func CreateAssignment(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(uint)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if !middleware.CanManageCourse(user, courseID) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Course staff only.", nil)
	}

	reqData, ok := c.Locals("validatedAssignment").(*struct {
		Title        string     `json:"title"`
		Instructions string     `json:"instructions"`
		DueDate      *time.Time `json:"due_date"`
		MaxPoints    *int       `json:"max_points"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	maxPoints := 100
	if reqData.MaxPoints != nil && *reqData.MaxPoints > 0 {
		maxPoints = *reqData.MaxPoints
	}

	assignment := assignmentModels.Assignment{
		CourseID:     courseID,
		Title:        reqData.Title,
		Instructions: reqData.Instructions,
		DueDate:      reqData.DueDate,
		MaxPoints:    maxPoints,
	}

	if err := database.Database.Db.Create(&assignment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create assignment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Assignment created successfully!", assignment)
}

// UpdateAssignment updates an assignment's fields. Staff only.
func UpdateAssignment(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	assignmentID := c.Locals("assignmentID").(uint)

	var assignment assignmentModels.Assignment
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", assignmentID, false).First(&assignment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Assignment not found!", nil)
	}

	if !middleware.CanManageCourse(user, assignment.CourseID) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Course staff only.", nil)
	}

	reqData, ok := c.Locals("validatedAssignmentUpdate").(*struct {
		Title        string     `json:"title"`
		Instructions string     `json:"instructions"`
		DueDate      *time.Time `json:"due_date"`
		MaxPoints    *int       `json:"max_points"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.Title != "" {
		assignment.Title = reqData.Title
	}
	if reqData.Instructions != "" {
		assignment.Instructions = reqData.Instructions
	}
	if reqData.DueDate != nil {
		assignment.DueDate = reqData.DueDate
	}
	if reqData.MaxPoints != nil && *reqData.MaxPoints > 0 {
		assignment.MaxPoints = *reqData.MaxPoints
	}

	if err := database.Database.Db.Save(&assignment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update assignment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Assignment updated successfully!", assignment)
}

// PublishAssignment publishes or unpublishes an assignment. Staff only.
func PublishAssignment(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	assignmentID := c.Locals("assignmentID").(uint)
	publishStatus := c.Locals("publishStatus").(bool)

	var assignment assignmentModels.Assignment
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", assignmentID, false).First(&assignment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Assignment not found!", nil)
	}

	if !middleware.CanManageCourse(user, assignment.CourseID) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Course staff only.", nil)
	}

	assignment.IsPublished = publishStatus
	if err := database.Database.Db.Save(&assignment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update assignment!", nil)
	}

	message := "Assignment unpublished successfully!"
	if publishStatus {
		message = "Assignment published successfully!"
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, message, assignment)
}

// DeleteAssignment soft deletes an assignment. Staff only.
func DeleteAssignment(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	assignmentID := c.Locals("assignmentID").(uint)

	var assignment assignmentModels.Assignment
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", assignmentID, false).First(&assignment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Assignment not found!", nil)
	}

	if !middleware.CanManageCourse(user, assignment.CourseID) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Course staff only.", nil)
	}

	assignment.IsDeleted = true
	if err := database.Database.Db.Save(&assignment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete assignment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Assignment deleted successfully!", nil)
}

// ListAssignments lists a course's assignments. Students see only published
// ones, staff see everything.
func ListAssignments(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(uint)

	if !middleware.CanAccessCourse(user, courseID) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	db := database.Database.Db.Where("course_id = ? AND is_deleted = ?", courseID, false)
	if !middleware.CanManageCourse(user, courseID) {
		db = db.Where("is_published = ?", true)
	}

	var assignments []assignmentModels.Assignment
	if err := db.Order("due_date asc").Find(&assignments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch assignments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Assignments fetched successfully!", assignments)
}
