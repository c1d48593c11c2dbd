package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	surveyModels "lms/models/survey"
	"lms/validators/params"
	surveyValidator "lms/validators/survey"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupSurveyApp(t *testing.T) *fiber.App {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}
	config.AppConfig = &config.Config{JWTKey: "test-secret", SaltRound: 4}

	app := fiber.New()
	app.Post("/course/:id/survey", middleware.JWTMiddleware, params.ID("id", "courseID"), surveyValidator.CreateSurvey(), CreateSurvey)
	app.Post("/survey/:id/response", middleware.JWTMiddleware, params.ID("id", "surveyID"), surveyValidator.SubmitResponse(), SubmitResponse)
	app.Patch("/survey/:id/close", middleware.JWTMiddleware, params.ID("id", "surveyID"), CloseSurvey)
	app.Get("/survey/:id/results", middleware.JWTMiddleware, params.ID("id", "surveyID"), GetSurveyResults)
	return app
}

func surveyUser(t *testing.T, name, role string) models.User {
	t.Helper()
	user := models.User{Name: name, Email: name + "@test.io", Role: role, Password: "x"}
	require.NoError(t, database.Database.Db.Create(&user).Error)
	return user
}

func surveyBearer(t *testing.T, user models.User) string {
	t.Helper()
	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	require.NoError(t, err)
	return "Bearer " + token
}

func postJSON(t *testing.T, app *fiber.App, method, path, auth string, body interface{}) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))

	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", auth)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func seedSurveyCourse(t *testing.T) (models.User, models.User, courseModels.Course) {
	t.Helper()

	owner := surveyUser(t, "owner-"+t.Name(), "INSTRUCTOR")
	student := surveyUser(t, "student-"+t.Name(), "STUDENT")

	course := courseModels.Course{Title: "Stats", Code: "ST1", OwnerID: owner.ID, Status: "ACTIVE", IsPublished: true}
	require.NoError(t, database.Database.Db.Create(&course).Error)

	require.NoError(t, database.Database.Db.Create(&courseModels.Enrollment{
		UserID: student.ID, CourseID: course.ID, Status: "ENROLLED",
	}).Error)

	return owner, student, course
}

func TestCreateSurveyWithQuestionsInOneGo(t *testing.T) {
	app := setupSurveyApp(t)
	owner, _, course := seedSurveyCourse(t)

	resp := postJSON(t, app, "POST", fmt.Sprintf("/course/%d/survey", course.ID), surveyBearer(t, owner), map[string]interface{}{
		"title": "Course feedback",
		"questions": []map[string]interface{}{
			{"prompt": "How was the pace?", "type": "SINGLE", "options": []string{"Too slow", "Right", "Too fast"}, "is_required": true},
			{"prompt": "Anything else?", "type": "TEXT"},
		},
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var survey surveyModels.Survey
	require.NoError(t, database.Database.Db.Where("course_id = ?", course.ID).First(&survey).Error)
	assert.Equal(t, "OPEN", survey.Status)

	var questions []surveyModels.SurveyQuestion
	database.Database.Db.Where("survey_id = ?", survey.ID).Order("order_index asc").Find(&questions)
	require.Len(t, questions, 2)
	assert.Equal(t, "SINGLE", questions[0].Type)
	assert.True(t, questions[0].IsRequired)
}

func TestCreateSurveyStudentForbidden(t *testing.T) {
	app := setupSurveyApp(t)
	_, student, course := seedSurveyCourse(t)

	resp := postJSON(t, app, "POST", fmt.Sprintf("/course/%d/survey", course.ID), surveyBearer(t, student), map[string]interface{}{
		"title": "Sneaky survey",
		"questions": []map[string]interface{}{
			{"prompt": "Q", "type": "TEXT"},
		},
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestSubmitResponseReplacesOnResubmit(t *testing.T) {
	app := setupSurveyApp(t)
	owner, student, course := seedSurveyCourse(t)

	resp := postJSON(t, app, "POST", fmt.Sprintf("/course/%d/survey", course.ID), surveyBearer(t, owner), map[string]interface{}{
		"title": "Feedback",
		"questions": []map[string]interface{}{
			{"prompt": "Rate 1-5", "type": "SCALE", "is_required": true},
		},
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var survey surveyModels.Survey
	require.NoError(t, database.Database.Db.Where("course_id = ?", course.ID).First(&survey).Error)
	var question surveyModels.SurveyQuestion
	require.NoError(t, database.Database.Db.Where("survey_id = ?", survey.ID).First(&question).Error)

	resp = postJSON(t, app, "POST", fmt.Sprintf("/survey/%d/response", survey.ID), surveyBearer(t, student), map[string]interface{}{
		"answers": []map[string]interface{}{{"question_id": question.ID, "value": 3}},
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = postJSON(t, app, "POST", fmt.Sprintf("/survey/%d/response", survey.ID), surveyBearer(t, student), map[string]interface{}{
		"answers": []map[string]interface{}{{"question_id": question.ID, "value": 5}},
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// One response row per user, one live answer
	var responseCount int64
	database.Database.Db.Model(&surveyModels.SurveyResponse{}).
		Where("survey_id = ? AND user_id = ? AND is_deleted = ?", survey.ID, student.ID, false).Count(&responseCount)
	assert.Equal(t, int64(1), responseCount)

	var answers []surveyModels.SurveyAnswer
	database.Database.Db.Where("question_id = ? AND is_deleted = ?", question.ID, false).Find(&answers)
	require.Len(t, answers, 1)
	assert.Equal(t, "5", string(answers[0].Value))
}

func TestSubmitResponseMissingRequiredAnswer(t *testing.T) {
	app := setupSurveyApp(t)
	owner, student, course := seedSurveyCourse(t)

	resp := postJSON(t, app, "POST", fmt.Sprintf("/course/%d/survey", course.ID), surveyBearer(t, owner), map[string]interface{}{
		"title": "Feedback",
		"questions": []map[string]interface{}{
			{"prompt": "Required one", "type": "TEXT", "is_required": true},
			{"prompt": "Optional one", "type": "TEXT"},
		},
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var survey surveyModels.Survey
	require.NoError(t, database.Database.Db.Where("course_id = ?", course.ID).First(&survey).Error)
	var questions []surveyModels.SurveyQuestion
	database.Database.Db.Where("survey_id = ?", survey.ID).Order("order_index asc").Find(&questions)
	require.Len(t, questions, 2)

	// Answering only the optional question fails
	resp = postJSON(t, app, "POST", fmt.Sprintf("/survey/%d/response", survey.ID), surveyBearer(t, student), map[string]interface{}{
		"answers": []map[string]interface{}{{"question_id": questions[1].ID, "value": "hi"}},
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestSubmitResponseRejectsForeignQuestion(t *testing.T) {
	app := setupSurveyApp(t)
	owner, student, course := seedSurveyCourse(t)

	surveyA := surveyModels.Survey{CourseID: course.ID, CreatedBy: owner.ID, Title: "A", Status: "OPEN"}
	require.NoError(t, database.Database.Db.Create(&surveyA).Error)
	questionA := surveyModels.SurveyQuestion{SurveyID: surveyA.ID, Prompt: "QA", Type: "TEXT"}
	require.NoError(t, database.Database.Db.Create(&questionA).Error)

	surveyB := surveyModels.Survey{CourseID: course.ID, CreatedBy: owner.ID, Title: "B", Status: "OPEN"}
	require.NoError(t, database.Database.Db.Create(&surveyB).Error)
	questionB := surveyModels.SurveyQuestion{SurveyID: surveyB.ID, Prompt: "QB", Type: "TEXT"}
	require.NoError(t, database.Database.Db.Create(&questionB).Error)

	// Answering survey A with survey B's question must not go through
	resp := postJSON(t, app, "POST", fmt.Sprintf("/survey/%d/response", surveyA.ID), surveyBearer(t, student), map[string]interface{}{
		"answers": []map[string]interface{}{{"question_id": questionB.ID, "value": "smuggled"}},
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var answers int64
	database.Database.Db.Model(&surveyModels.SurveyAnswer{}).
		Where("question_id = ?", questionB.ID).Count(&answers)
	assert.Zero(t, answers)

	var responses int64
	database.Database.Db.Model(&surveyModels.SurveyResponse{}).
		Where("survey_id = ?", surveyA.ID).Count(&responses)
	assert.Zero(t, responses)
}

func TestSubmitResponseClosedSurvey(t *testing.T) {
	app := setupSurveyApp(t)
	owner, student, course := seedSurveyCourse(t)

	past := time.Now().Add(-time.Hour)
	survey := surveyModels.Survey{CourseID: course.ID, CreatedBy: owner.ID, Title: "Old", Status: "OPEN", ClosesAt: &past}
	require.NoError(t, database.Database.Db.Create(&survey).Error)
	question := surveyModels.SurveyQuestion{SurveyID: survey.ID, Prompt: "Q", Type: "TEXT"}
	require.NoError(t, database.Database.Db.Create(&question).Error)

	resp := postJSON(t, app, "POST", fmt.Sprintf("/survey/%d/response", survey.ID), surveyBearer(t, student), map[string]interface{}{
		"answers": []map[string]interface{}{{"question_id": question.ID, "value": "late"}},
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestSurveyResultsStaffOnly(t *testing.T) {
	app := setupSurveyApp(t)
	owner, student, course := seedSurveyCourse(t)

	survey := surveyModels.Survey{CourseID: course.ID, CreatedBy: owner.ID, Title: "S", Status: "OPEN"}
	require.NoError(t, database.Database.Db.Create(&survey).Error)

	req, err := http.NewRequest("GET", fmt.Sprintf("/survey/%d/results", survey.ID), nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", surveyBearer(t, student))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	req, err = http.NewRequest("GET", fmt.Sprintf("/survey/%d/results", survey.ID), nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", surveyBearer(t, owner))
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
