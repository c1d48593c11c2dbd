package controllers

import (
	"encoding/json"
	"time"

	"lms/database"
	"lms/middleware"
	analyticsModels "lms/models/analytics"
	surveyModels "lms/models/survey"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

// CreateSurvey creates a survey together with its questions in a single
// transaction. Staff only.
func CreateSurvey(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(uint)

	if !middleware.CanManageCourse(user, courseID) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Course staff only.", nil)
	}

	reqData, ok := c.Locals("validatedSurvey").(*struct {
		Title       string     `json:"title"`
		Description string     `json:"description"`
		ClosesAt    *time.Time `json:"closes_at"`
		Questions   []struct {
			Prompt     string   `json:"prompt"`
			Type       string   `json:"type"`
			Options    []string `json:"options"`
			IsRequired bool     `json:"is_required"`
		} `json:"questions"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	survey := surveyModels.Survey{
		CourseID:    courseID,
		CreatedBy:   user.ID,
		Title:       reqData.Title,
		Description: reqData.Description,
		Status:      "OPEN",
		ClosesAt:    reqData.ClosesAt,
	}

	// Survey and questions land atomically
	tx := database.Database.Db.Begin()
	if err := tx.Create(&survey).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create survey!", nil)
	}

	questions := make([]surveyModels.SurveyQuestion, len(reqData.Questions))
	for i, q := range reqData.Questions {
		optionsJSON, err := json.Marshal(q.Options)
		if err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create survey!", nil)
		}
		questions[i] = surveyModels.SurveyQuestion{
			SurveyID:   survey.ID,
			Prompt:     q.Prompt,
			Type:       q.Type,
			Options:    datatypes.JSON(optionsJSON),
			OrderIndex: i,
			IsRequired: q.IsRequired,
		}
		if err := tx.Create(&questions[i]).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create survey questions!", nil)
		}
	}
	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Survey created successfully!", fiber.Map{
		"survey":    survey,
		"questions": questions,
	})
}

// CloseSurvey closes a survey to further responses. Staff only.
func CloseSurvey(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	surveyID := c.Locals("surveyID").(uint)

	var survey surveyModels.Survey
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", surveyID, false).First(&survey).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Survey not found!", nil)
	}

	if !middleware.CanManageCourse(user, survey.CourseID) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Course staff only.", nil)
	}

	survey.Status = "CLOSED"
	if err := database.Database.Db.Save(&survey).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to close survey!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Survey closed successfully!", survey)
}

// ListSurveys lists a course's surveys for enrolled users
func ListSurveys(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(uint)

	if !middleware.CanAccessCourse(user, courseID) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	var surveys []surveyModels.Survey
	if err := database.Database.Db.Where("course_id = ? AND is_deleted = ?", courseID, false).
		Order("created_at desc").Find(&surveys).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch surveys!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Surveys fetched successfully!", surveys)
}

// GetSurvey returns a survey with its ordered questions
func GetSurvey(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	surveyID := c.Locals("surveyID").(uint)

	var survey surveyModels.Survey
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", surveyID, false).First(&survey).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Survey not found!", nil)
	}

	if !middleware.CanAccessCourse(user, survey.CourseID) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	var questions []surveyModels.SurveyQuestion
	database.Database.Db.Where("survey_id = ? AND is_deleted = ?", surveyID, false).Order("order_index asc").Find(&questions)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Survey fetched successfully!", fiber.Map{
		"survey":    survey,
		"questions": questions,
	})
}

// SubmitResponse records a user's survey response. Idempotent per user:
// resubmitting replaces the previous answers in one transaction.
func SubmitResponse(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	surveyID := c.Locals("surveyID").(uint)

	var survey surveyModels.Survey
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", surveyID, false).First(&survey).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Survey not found!", nil)
	}

	if !middleware.CanAccessCourse(user, survey.CourseID) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	if survey.Status != "OPEN" {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Survey is closed!", nil)
	}
	if survey.ClosesAt != nil && time.Now().After(*survey.ClosesAt) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Survey is closed!", nil)
	}

	reqData, ok := c.Locals("validatedResponse").(*struct {
		Answers []struct {
			QuestionID uint            `json:"question_id"`
			Value      json.RawMessage `json:"value"`
		} `json:"answers"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var questions []surveyModels.SurveyQuestion
	database.Database.Db.Where("survey_id = ? AND is_deleted = ?", surveyID, false).Find(&questions)

	valid := make(map[uint]bool, len(questions))
	for _, q := range questions {
		valid[q.ID] = true
	}

	// Answers must reference this survey's own questions
	answered := make(map[uint]bool)
	for _, a := range reqData.Answers {
		if !valid[a.QuestionID] {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Answer references a question outside this survey!", nil)
		}
		answered[a.QuestionID] = true
	}

	// Required questions must all be answered
	for _, q := range questions {
		if q.IsRequired && !answered[q.ID] {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "All required questions must be answered!", nil)
		}
	}

	tx := database.Database.Db.Begin()

	// Upsert the response row, replacing old answers on resubmit
	var response surveyModels.SurveyResponse
	err := tx.Where("survey_id = ? AND user_id = ? AND is_deleted = ?", surveyID, user.ID, false).First(&response).Error
	if err == nil {
		if err := tx.Model(&surveyModels.SurveyAnswer{}).Where("response_id = ?", response.ID).Update("is_deleted", true).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit response!", nil)
		}
		response.SubmittedAt = time.Now()
		if err := tx.Save(&response).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit response!", nil)
		}
	} else {
		response = surveyModels.SurveyResponse{
			SurveyID:    surveyID,
			UserID:      user.ID,
			SubmittedAt: time.Now(),
		}
		if err := tx.Create(&response).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit response!", nil)
		}
	}

	for _, a := range reqData.Answers {
		answer := surveyModels.SurveyAnswer{
			ResponseID: response.ID,
			QuestionID: a.QuestionID,
			Value:      datatypes.JSON(a.Value),
		}
		if err := tx.Create(&answer).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit response!", nil)
		}
	}
	tx.Commit()

	utils.RecordActivity(user.ID, survey.CourseID, analyticsModels.ActionSurveySubmit, "survey", surveyID)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Response submitted successfully!", response)
}

// GetSurveyResults aggregates responses per question. Staff only.
func GetSurveyResults(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	surveyID := c.Locals("surveyID").(uint)

	var survey surveyModels.Survey
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", surveyID, false).First(&survey).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Survey not found!", nil)
	}

	if !middleware.CanManageCourse(user, survey.CourseID) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Course staff only.", nil)
	}

	var responseCount int64
	database.Database.Db.Model(&surveyModels.SurveyResponse{}).
		Where("survey_id = ? AND is_deleted = ?", surveyID, false).Count(&responseCount)

	var questions []surveyModels.SurveyQuestion
	database.Database.Db.Where("survey_id = ? AND is_deleted = ?", surveyID, false).Order("order_index asc").Find(&questions)

	type QuestionResults struct {
		Question surveyModels.SurveyQuestion `json:"question"`
		Answers  []surveyModels.SurveyAnswer `json:"answers"`
	}

	results := make([]QuestionResults, len(questions))
	for i, q := range questions {
		var answers []surveyModels.SurveyAnswer
		database.Database.Db.Where("question_id = ? AND is_deleted = ?", q.ID, false).Find(&answers)
		results[i] = QuestionResults{Question: q, Answers: answers}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Survey results fetched successfully!", fiber.Map{
		"survey":         survey,
		"response_count": responseCount,
		"results":        results,
	})
}
