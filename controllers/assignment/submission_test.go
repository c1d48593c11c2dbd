package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	assignmentModels "lms/models/assignment"
	courseModels "lms/models/course"
	"lms/validators/params"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}

	config.AppConfig = &config.Config{JWTKey: "test-secret", SaltRound: 4}
}

func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()
	setupTestDB(t)

	app := fiber.New()
	app.Post("/assignment/:id/submit", middleware.JWTMiddleware, params.ID("id", "assignmentID"), func(c *fiber.Ctx) error {
		// Tests post JSON, so the validated struct is set inline
		reqData := new(struct {
			TextBody string `json:"text_body"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		c.Locals("validatedSubmission", reqData)
		return SubmitAssignment(c)
	})
	app.Post("/submission/:id/grade", middleware.JWTMiddleware, params.ID("id", "submissionID"), func(c *fiber.Ctx) error {
		reqData := new(struct {
			Points   *int   `json:"points"`
			Feedback string `json:"feedback"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		c.Locals("validatedGrade", reqData)
		return GradeSubmission(c)
	})
	return app
}

func createUser(t *testing.T, name, role string) models.User {
	t.Helper()
	user := models.User{Name: name, Email: name + "@test.io", Role: role, Password: "x"}
	require.NoError(t, database.Database.Db.Create(&user).Error)
	return user
}

func authHeader(t *testing.T, user models.User) string {
	t.Helper()
	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	require.NoError(t, err)
	return "Bearer " + token
}

func doJSON(t *testing.T, app *fiber.App, method, path, auth string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var parsed map[string]interface{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &parsed))
	}
	return resp, parsed
}

func seedAssignment(t *testing.T, owner, student models.User, dueDate *time.Time) (courseModels.Course, assignmentModels.Assignment) {
	t.Helper()

	course := courseModels.Course{Title: "Networks 101", Code: "NET101", OwnerID: owner.ID, Status: "ACTIVE", IsPublished: true}
	require.NoError(t, database.Database.Db.Create(&course).Error)

	enrollment := courseModels.Enrollment{UserID: student.ID, CourseID: course.ID, Status: "ENROLLED"}
	require.NoError(t, database.Database.Db.Create(&enrollment).Error)

	assignment := assignmentModels.Assignment{CourseID: course.ID, Title: "Essay", MaxPoints: 100, DueDate: dueDate, IsPublished: true}
	require.NoError(t, database.Database.Db.Create(&assignment).Error)

	return course, assignment
}

func TestSubmitAssignmentRejectsAfterDueDate(t *testing.T) {
	app := setupTestApp(t)

	owner := createUser(t, "owner1", "INSTRUCTOR")
	student := createUser(t, "student1", "STUDENT")
	past := time.Now().Add(-time.Hour)
	_, assignment := seedAssignment(t, owner, student, &past)

	resp, body := doJSON(t, app, "POST", fmt.Sprintf("/assignment/%d/submit", assignment.ID), authHeader(t, student),
		map[string]string{"text_body": "too late"})

	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Contains(t, body["message"], "due date")

	var count int64
	database.Database.Db.Model(&assignmentModels.Submission{}).Count(&count)
	assert.Zero(t, count)
}

func TestSubmitAssignmentRequiresEnrollment(t *testing.T) {
	app := setupTestApp(t)

	owner := createUser(t, "owner2", "INSTRUCTOR")
	student := createUser(t, "student2", "STUDENT")
	outsider := createUser(t, "outsider2", "STUDENT")
	_, assignment := seedAssignment(t, owner, student, nil)

	resp, _ := doJSON(t, app, "POST", fmt.Sprintf("/assignment/%d/submit", assignment.ID), authHeader(t, outsider),
		map[string]string{"text_body": "hello"})

	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestSubmitAssignmentUpsertsSingleRow(t *testing.T) {
	app := setupTestApp(t)

	owner := createUser(t, "owner3", "INSTRUCTOR")
	student := createUser(t, "student3", "STUDENT")
	_, assignment := seedAssignment(t, owner, student, nil)

	resp, _ := doJSON(t, app, "POST", fmt.Sprintf("/assignment/%d/submit", assignment.ID), authHeader(t, student),
		map[string]string{"text_body": "first draft"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, "POST", fmt.Sprintf("/assignment/%d/submit", assignment.ID), authHeader(t, student),
		map[string]string{"text_body": "second draft"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var submissions []assignmentModels.Submission
	database.Database.Db.Where("assignment_id = ?", assignment.ID).Find(&submissions)

	// One row per student, resubmission bumps the attempt count
	require.Len(t, submissions, 1)
	assert.Equal(t, "second draft", submissions[0].TextBody)
	assert.Equal(t, 2, submissions[0].AttemptCount)
}

func TestSubmitAssignmentRejectsEmptyBody(t *testing.T) {
	app := setupTestApp(t)

	owner := createUser(t, "owner4", "INSTRUCTOR")
	student := createUser(t, "student4", "STUDENT")
	_, assignment := seedAssignment(t, owner, student, nil)

	resp, _ := doJSON(t, app, "POST", fmt.Sprintf("/assignment/%d/submit", assignment.ID), authHeader(t, student),
		map[string]string{"text_body": ""})

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestGradeSubmissionIdempotentAndClamped(t *testing.T) {
	app := setupTestApp(t)

	owner := createUser(t, "owner5", "INSTRUCTOR")
	student := createUser(t, "student5", "STUDENT")
	_, assignment := seedAssignment(t, owner, student, nil)

	submission := assignmentModels.Submission{
		AssignmentID: assignment.ID, CourseID: assignment.CourseID, UserID: student.ID,
		TextBody: "work", AttemptCount: 1, SubmittedAt: time.Now(),
	}
	require.NoError(t, database.Database.Db.Create(&submission).Error)

	// Above MaxPoints clamps down
	resp, _ := doJSON(t, app, "POST", fmt.Sprintf("/submission/%d/grade", submission.ID), authHeader(t, owner),
		map[string]interface{}{"points": 150, "feedback": "great"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var grade assignmentModels.Grade
	require.NoError(t, database.Database.Db.Where("submission_id = ?", submission.ID).First(&grade).Error)
	assert.Equal(t, 100, grade.Points)

	// Regrading updates in place
	resp, _ = doJSON(t, app, "POST", fmt.Sprintf("/submission/%d/grade", submission.ID), authHeader(t, owner),
		map[string]interface{}{"points": 80, "feedback": "revised"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var count int64
	database.Database.Db.Model(&assignmentModels.Grade{}).Where("submission_id = ?", submission.ID).Count(&count)
	assert.Equal(t, int64(1), count)

	require.NoError(t, database.Database.Db.Where("submission_id = ?", submission.ID).First(&grade).Error)
	assert.Equal(t, 80, grade.Points)
	assert.Equal(t, "revised", grade.Feedback)
}

func TestGradeSubmissionStaffOnly(t *testing.T) {
	app := setupTestApp(t)

	owner := createUser(t, "owner6", "INSTRUCTOR")
	student := createUser(t, "student6", "STUDENT")
	_, assignment := seedAssignment(t, owner, student, nil)

	submission := assignmentModels.Submission{
		AssignmentID: assignment.ID, CourseID: assignment.CourseID, UserID: student.ID,
		TextBody: "work", AttemptCount: 1, SubmittedAt: time.Now(),
	}
	require.NoError(t, database.Database.Db.Create(&submission).Error)

	resp, _ := doJSON(t, app, "POST", fmt.Sprintf("/submission/%d/grade", submission.ID), authHeader(t, student),
		map[string]interface{}{"points": 100})

	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
