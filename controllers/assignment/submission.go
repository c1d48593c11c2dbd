package controllers

import (
	"time"

	"lms/database"
	"lms/middleware"
	"lms/models"
	analyticsModels "lms/models/analytics"
	assignmentModels "lms/models/assignment"
	courseModels "lms/models/course"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
)

// SubmitAssignment creates or overwrites the student's submission. One row
// per assignment and student; resubmitting before the due date bumps
// AttemptCount. Late submissions are rejected.
func SubmitAssignment(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	assignmentID := c.Locals("assignmentID").(uint)

	var assignment assignmentModels.Assignment
	if err := database.Database.Db.Where("id = ? AND is_published = ? AND is_deleted = ?", assignmentID, true, false).First(&assignment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Assignment not found!", nil)
	}

	// Check enrollment
	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND status != ? AND is_deleted = ?",
		user.ID, assignment.CourseID, "DROPPED", false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	// Due-date enforcement
	if assignment.DueDate != nil && time.Now().After(*assignment.DueDate) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "The due date for this assignment has passed!", nil)
	}

	reqData, ok := c.Locals("validatedSubmission").(*struct {
		TextBody string `json:"text_body"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// Optional file attachment
	fileURL := ""
	if file, err := c.FormFile("file"); err == nil && file != nil {
		filePath, err := utils.SaveUploadedFile(file, "submissions")
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, err.Error(), nil)
		}
		fileURL = utils.GetFileURL(filePath)
	}

	if reqData.TextBody == "" && fileURL == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Submission must include text or a file!", nil)
	}

	// Upsert: overwrite an existing submission instead of inserting a second row
	var submission assignmentModels.Submission
	err := database.Database.Db.Where("assignment_id = ? AND user_id = ? AND is_deleted = ?", assignmentID, user.ID, false).First(&submission).Error
	if err == nil {
		submission.TextBody = reqData.TextBody
		if fileURL != "" {
			submission.FileURL = fileURL
		}
		submission.AttemptCount++
		submission.SubmittedAt = time.Now()
		if err := database.Database.Db.Save(&submission).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit assignment!", nil)
		}
	} else {
		submission = assignmentModels.Submission{
			AssignmentID: assignmentID,
			CourseID:     assignment.CourseID,
			UserID:       user.ID,
			TextBody:     reqData.TextBody,
			FileURL:      fileURL,
			AttemptCount: 1,
			SubmittedAt:  time.Now(),
		}
		if err := database.Database.Db.Create(&submission).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit assignment!", nil)
		}
	}

	utils.RecordActivity(user.ID, assignment.CourseID, analyticsModels.ActionSubmit, "assignment", assignmentID)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Assignment submitted successfully!", submission)
}

// GetMySubmission returns the student's own submission and grade for an
// assignment
func GetMySubmission(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	assignmentID := c.Locals("assignmentID").(uint)

	var submission assignmentModels.Submission
	if err := database.Database.Db.Where("assignment_id = ? AND user_id = ? AND is_deleted = ?", assignmentID, user.ID, false).First(&submission).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "No submission found!", nil)
	}

	var grade assignmentModels.Grade
	var gradeData interface{}
	if err := database.Database.Db.Where("submission_id = ? AND is_deleted = ?", submission.ID, false).First(&grade).Error; err == nil {
		gradeData = grade
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Submission fetched successfully!", fiber.Map{
		"submission": submission,
		"grade":      gradeData,
	})
}

// ListSubmissions lists all submissions for an assignment. Staff only.
func ListSubmissions(c *fiber.Ctx) error {
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

	var submissions []assignmentModels.Submission
	if err := database.Database.Db.Where("assignment_id = ? AND is_deleted = ?", assignmentID, false).
		Order("submitted_at desc").Find(&submissions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch submissions!", nil)
	}

	type SubmissionWithDetails struct {
		assignmentModels.Submission
		UserName string      `json:"user_name"`
		Grade    interface{} `json:"grade"`
	}

	result := make([]SubmissionWithDetails, len(submissions))
	for i, s := range submissions {
		var submitter models.User
		database.Database.Db.Where("id = ?", s.UserID).First(&submitter)

		var grade assignmentModels.Grade
		var gradeData interface{}
		if err := database.Database.Db.Where("submission_id = ? AND is_deleted = ?", s.ID, false).First(&grade).Error; err == nil {
			gradeData = grade
		}

		result[i] = SubmissionWithDetails{Submission: s, UserName: submitter.Name, Grade: gradeData}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Submissions fetched successfully!", result)
}

// GradeSubmission grades a submission. Idempotent per submission: grading
// again updates the existing grade row. Staff only.
func GradeSubmission(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	submissionID := c.Locals("submissionID").(uint)

	var submission assignmentModels.Submission
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", submissionID, false).First(&submission).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Submission not found!", nil)
	}

	var assignment assignmentModels.Assignment
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", submission.AssignmentID, false).First(&assignment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Assignment not found!", nil)
	}

	if !middleware.CanManageCourse(user, assignment.CourseID) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Course staff only.", nil)
	}

	reqData, ok := c.Locals("validatedGrade").(*struct {
		Points   *int   `json:"points"`
		Feedback string `json:"feedback"`
	})
	if !ok || reqData.Points == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	points := *reqData.Points
	if points < 0 {
		points = 0
	}
	if points > assignment.MaxPoints {
		points = assignment.MaxPoints
	}

	// Idempotent: one grade row per submission
	var grade assignmentModels.Grade
	err := database.Database.Db.Where("submission_id = ? AND is_deleted = ?", submissionID, false).First(&grade).Error
	if err == nil {
		grade.Points = points
		grade.Feedback = reqData.Feedback
		grade.GraderID = user.ID
		grade.GradedAt = time.Now()
		if err := database.Database.Db.Save(&grade).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to grade submission!", nil)
		}
	} else {
		grade = assignmentModels.Grade{
			SubmissionID: submissionID,
			AssignmentID: assignment.ID,
			UserID:       submission.UserID,
			GraderID:     user.ID,
			Points:       points,
			Feedback:     reqData.Feedback,
			GradedAt:     time.Now(),
		}
		if err := database.Database.Db.Create(&grade).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to grade submission!", nil)
		}
	}

	// Notify the student
	var student models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", submission.UserID, false).First(&student).Error; err == nil {
		utils.SendGradeEmail(student.Email, student.Name, assignment.Title, points, assignment.MaxPoints)
	}
	utils.Notify(submission.UserID, "GRADE", "Assignment graded",
		assignment.Title+" has been graded.", submission.ID)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Submission graded successfully!", grade)
}
