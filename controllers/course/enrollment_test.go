package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/validators/params"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupEnrollmentApp(t *testing.T) *fiber.App {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}
	config.AppConfig = &config.Config{JWTKey: "test-secret", SaltRound: 4}

	app := fiber.New()
	app.Post("/course/:id/enroll", middleware.JWTMiddleware, params.ID("id", "courseID"), EnrollInCourse)
	app.Delete("/course/:id/enroll", middleware.JWTMiddleware, params.ID("id", "courseID"), DropCourse)
	app.Get("/course/:id/content", middleware.JWTMiddleware, params.ID("id", "courseID"), GetCourseContent)
	return app
}

func newUser(t *testing.T, name, role string) models.User {
	t.Helper()
	user := models.User{Name: name, Email: name + "@test.io", Role: role, Password: "x"}
	require.NoError(t, database.Database.Db.Create(&user).Error)
	return user
}

func bearer(t *testing.T, user models.User) string {
	t.Helper()
	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	require.NoError(t, err)
	return "Bearer " + token
}

func request(t *testing.T, app *fiber.App, method, path, auth string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, path, nil)
	require.NoError(t, err)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func newCourse(t *testing.T, owner models.User, published bool) courseModels.Course {
	t.Helper()
	status := "DRAFT"
	if published {
		status = "ACTIVE"
	}
	course := courseModels.Course{Title: "Algebra", Code: "ALG1", OwnerID: owner.ID, Status: status, IsPublished: published}
	require.NoError(t, database.Database.Db.Create(&course).Error)
	return course
}

func TestEnrollInPublishedCourse(t *testing.T) {
	app := setupEnrollmentApp(t)

	owner := newUser(t, "teach1", "INSTRUCTOR")
	student := newUser(t, "stud1", "STUDENT")
	course := newCourse(t, owner, true)

	resp := request(t, app, "POST", fmt.Sprintf("/course/%d/enroll", course.ID), bearer(t, student))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var enrollment courseModels.Enrollment
	require.NoError(t, database.Database.Db.Where("user_id = ? AND course_id = ?", student.ID, course.ID).First(&enrollment).Error)
	assert.Equal(t, "ENROLLED", enrollment.Status)
}

func TestEnrollRejectsUnpublishedCourse(t *testing.T) {
	app := setupEnrollmentApp(t)

	owner := newUser(t, "teach2", "INSTRUCTOR")
	student := newUser(t, "stud2", "STUDENT")
	course := newCourse(t, owner, false)

	resp := request(t, app, "POST", fmt.Sprintf("/course/%d/enroll", course.ID), bearer(t, student))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestEnrollTwiceConflicts(t *testing.T) {
	app := setupEnrollmentApp(t)

	owner := newUser(t, "teach3", "INSTRUCTOR")
	student := newUser(t, "stud3", "STUDENT")
	course := newCourse(t, owner, true)

	resp := request(t, app, "POST", fmt.Sprintf("/course/%d/enroll", course.ID), bearer(t, student))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = request(t, app, "POST", fmt.Sprintf("/course/%d/enroll", course.ID), bearer(t, student))
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestReEnrollAfterDropReusesRow(t *testing.T) {
	app := setupEnrollmentApp(t)

	owner := newUser(t, "teach4", "INSTRUCTOR")
	student := newUser(t, "stud4", "STUDENT")
	course := newCourse(t, owner, true)

	resp := request(t, app, "POST", fmt.Sprintf("/course/%d/enroll", course.ID), bearer(t, student))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = request(t, app, "DELETE", fmt.Sprintf("/course/%d/enroll", course.ID), bearer(t, student))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = request(t, app, "POST", fmt.Sprintf("/course/%d/enroll", course.ID), bearer(t, student))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var count int64
	database.Database.Db.Model(&courseModels.Enrollment{}).
		Where("user_id = ? AND course_id = ?", student.ID, course.ID).Count(&count)
	assert.Equal(t, int64(1), count)

	var enrollment courseModels.Enrollment
	require.NoError(t, database.Database.Db.Where("user_id = ? AND course_id = ?", student.ID, course.ID).First(&enrollment).Error)
	assert.Equal(t, "ENROLLED", enrollment.Status)
}

func TestCourseContentRequiresEnrollment(t *testing.T) {
	app := setupEnrollmentApp(t)

	owner := newUser(t, "teach5", "INSTRUCTOR")
	student := newUser(t, "stud5", "STUDENT")
	outsider := newUser(t, "out5", "STUDENT")
	course := newCourse(t, owner, true)

	require.NoError(t, database.Database.Db.Create(&courseModels.Enrollment{
		UserID: student.ID, CourseID: course.ID, Status: "ENROLLED",
	}).Error)

	resp := request(t, app, "GET", fmt.Sprintf("/course/%d/content", course.ID), bearer(t, outsider))
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = request(t, app, "GET", fmt.Sprintf("/course/%d/content", course.ID), bearer(t, student))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Staff see content without an enrollment row
	resp = request(t, app, "GET", fmt.Sprintf("/course/%d/content", course.ID), bearer(t, owner))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestDroppedStudentLosesAccess(t *testing.T) {
	app := setupEnrollmentApp(t)

	owner := newUser(t, "teach6", "INSTRUCTOR")
	student := newUser(t, "stud6", "STUDENT")
	course := newCourse(t, owner, true)

	resp := request(t, app, "POST", fmt.Sprintf("/course/%d/enroll", course.ID), bearer(t, student))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = request(t, app, "DELETE", fmt.Sprintf("/course/%d/enroll", course.ID), bearer(t, student))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = request(t, app, "GET", fmt.Sprintf("/course/%d/content", course.ID), bearer(t, student))
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestProgressRollupMarksCompleted(t *testing.T) {
	setupEnrollmentApp(t)

	owner := newUser(t, "teach7", "INSTRUCTOR")
	student := newUser(t, "stud7", "STUDENT")
	course := newCourse(t, owner, true)

	module := courseModels.Module{CourseID: course.ID, Title: "Unit 1"}
	require.NoError(t, database.Database.Db.Create(&module).Error)

	lectures := make([]courseModels.Lecture, 2)
	for i := range lectures {
		lectures[i] = courseModels.Lecture{
			CourseID: course.ID, ModuleID: module.ID,
			Title: fmt.Sprintf("Lecture %d", i+1), ContentType: "TEXT", IsPublished: true,
		}
		require.NoError(t, database.Database.Db.Create(&lectures[i]).Error)
	}

	require.NoError(t, database.Database.Db.Create(&courseModels.Enrollment{
		UserID: student.ID, CourseID: course.ID, Status: "ENROLLED",
	}).Error)

	// Completing one of two lectures lands at 50%
	require.NoError(t, database.Database.Db.Create(&courseModels.LectureCompletion{
		UserID: student.ID, CourseID: course.ID, LectureID: lectures[0].ID, Status: "COMPLETED",
	}).Error)
	updateEnrollmentProgress(student.ID, course.ID)

	var enrollment courseModels.Enrollment
	require.NoError(t, database.Database.Db.Where("user_id = ? AND course_id = ?", student.ID, course.ID).First(&enrollment).Error)
	assert.Equal(t, "IN_PROGRESS", enrollment.Status)
	assert.InDelta(t, 50.0, enrollment.Progress, 0.01)

	// Completing the second finishes the course
	require.NoError(t, database.Database.Db.Create(&courseModels.LectureCompletion{
		UserID: student.ID, CourseID: course.ID, LectureID: lectures[1].ID, Status: "COMPLETED",
	}).Error)
	updateEnrollmentProgress(student.ID, course.ID)

	require.NoError(t, database.Database.Db.Where("user_id = ? AND course_id = ?", student.ID, course.ID).First(&enrollment).Error)
	assert.Equal(t, "COMPLETED", enrollment.Status)
	assert.NotNil(t, enrollment.CompletedAt)
}
