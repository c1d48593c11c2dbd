package controllers

import (
	"lms/database"
	"lms/middleware"
	analyticsModels "lms/models/analytics"
	courseModels "lms/models/course"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
)

// GetAllCourses lists published courses for students
func GetAllCourses(c *fiber.Ctx) error {
	_, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, _ := c.Locals("validatedList").(*struct {
		Page  *int `json:"page"`
		Limit *int `json:"limit"`
	})

	page := 1
	limit := 10
	if reqData != nil && reqData.Page != nil && *reqData.Page > 0 {
		page = *reqData.Page
	}
	if reqData != nil && reqData.Limit != nil && *reqData.Limit > 0 {
		limit = *reqData.Limit
	}
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&courseModels.Course{}).
		Where("is_published = ? AND status = ? AND is_deleted = ?", true, "ACTIVE", false)

	var total int64
	db.Count(&total)

	var courses []courseModels.Course
	if err := db.Offset(offset).Limit(limit).Order("created_at desc").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"courses": courses,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// GetCourseDetails returns a published course with its module outline
func GetCourseDetails(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(uint)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_published = ? AND is_deleted = ?", courseID, true, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var modules []courseModels.Module
	database.Database.Db.Where("course_id = ? AND is_deleted = ?", courseID, false).Order("order_index asc").Find(&modules)

	var enrolled bool
	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND status != ? AND is_deleted = ?",
		user.ID, courseID, "DROPPED", false).First(&enrollment).Error; err == nil {
		enrolled = true
	}

	var lectureCount int64
	database.Database.Db.Model(&courseModels.Lecture{}).
		Where("course_id = ? AND is_published = ? AND is_deleted = ?", courseID, true, false).Count(&lectureCount)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course details fetched successfully!", fiber.Map{
		"course":        course,
		"modules":       modules,
		"lecture_count": lectureCount,
		"is_enrolled":   enrolled,
	})
}

// GetCourseContent returns the published module/lecture tree. Enrolled
// users and course staff only.
func GetCourseContent(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(uint)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if !middleware.CanAccessCourse(user, courseID) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	var modules []courseModels.Module
	database.Database.Db.Where("course_id = ? AND is_deleted = ?", courseID, false).Order("order_index asc").Find(&modules)

	type ModuleContent struct {
		courseModels.Module
		Lectures []courseModels.Lecture `json:"lectures"`
	}

	result := make([]ModuleContent, len(modules))
	for i, m := range modules {
		var lectures []courseModels.Lecture
		database.Database.Db.Where("module_id = ? AND is_published = ? AND is_deleted = ?", m.ID, true, false).
			Order("order_index asc").Find(&lectures)
		result[i] = ModuleContent{Module: m, Lectures: lectures}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course content fetched successfully!", result)
}

// GetLecture returns one published lecture with its sections. Records a
// LECTURE_VIEW activity event.
func GetLecture(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	lectureID := c.Locals("lectureID").(uint)

	var lecture courseModels.Lecture
	if err := database.Database.Db.Where("id = ? AND is_published = ? AND is_deleted = ?", lectureID, true, false).First(&lecture).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lecture not found!", nil)
	}

	if !middleware.CanAccessCourse(user, lecture.CourseID) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	var sections []courseModels.Section
	database.Database.Db.Where("lecture_id = ? AND is_deleted = ?", lectureID, false).Order("order_index asc").Find(&sections)

	utils.RecordActivity(user.ID, lecture.CourseID, analyticsModels.ActionLectureView, "lecture", lecture.ID)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lecture fetched successfully!", fiber.Map{
		"lecture":  lecture,
		"sections": sections,
	})
}

// MarkLectureComplete marks a lecture completed for the user and rolls the
// progress up onto the enrollment
func MarkLectureComplete(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	lectureID := c.Locals("lectureID").(uint)

	var lecture courseModels.Lecture
	if err := database.Database.Db.Where("id = ? AND is_published = ? AND is_deleted = ?", lectureID, true, false).First(&lecture).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lecture not found!", nil)
	}

	// Completion requires an actual enrollment, staff don't track progress
	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND status != ? AND is_deleted = ?",
		user.ID, lecture.CourseID, "DROPPED", false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	// Already completed is a no-op
	var existing courseModels.LectureCompletion
	if err := database.Database.Db.Where("user_id = ? AND lecture_id = ? AND is_deleted = ?", user.ID, lectureID, false).First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Lecture already completed!", existing)
	}

	completion := courseModels.LectureCompletion{
		UserID:    user.ID,
		CourseID:  lecture.CourseID,
		LectureID: lectureID,
		Status:    "COMPLETED",
	}
	if err := database.Database.Db.Create(&completion).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to mark lecture complete!", nil)
	}

	updateEnrollmentProgress(user.ID, lecture.CourseID)

	utils.RecordActivity(user.ID, lecture.CourseID, analyticsModels.ActionLectureDone, "lecture", lectureID)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lecture marked complete!", completion)
}

// GetUserProgress returns the user's progress in a course with per-module
// breakdown
func GetUserProgress(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(uint)

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", user.ID, courseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	var completions []courseModels.LectureCompletion
	database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", user.ID, courseID, false).Find(&completions)

	completedIDs := make([]uint, len(completions))
	for i, lc := range completions {
		completedIDs[i] = lc.LectureID
	}

	var modules []courseModels.Module
	database.Database.Db.Where("course_id = ? AND is_deleted = ?", courseID, false).Order("order_index asc").Find(&modules)

	type ModuleProgress struct {
		ModuleID          uint    `json:"module_id"`
		ModuleName        string  `json:"module_name"`
		TotalLectures     int64   `json:"total_lectures"`
		CompletedLectures int64   `json:"completed_lectures"`
		Progress          float64 `json:"progress"`
	}

	moduleProgress := make([]ModuleProgress, len(modules))
	for i, mod := range modules {
		var totalLectures int64
		var completedLectures int64

		database.Database.Db.Model(&courseModels.Lecture{}).
			Where("module_id = ? AND is_deleted = ? AND is_published = ?", mod.ID, false, true).Count(&totalLectures)
		database.Database.Db.Model(&courseModels.LectureCompletion{}).
			Joins("JOIN lectures ON lecture_completions.lecture_id = lectures.id").
			Where("lecture_completions.user_id = ? AND lectures.module_id = ? AND lecture_completions.is_deleted = ?", user.ID, mod.ID, false).
			Count(&completedLectures)

		progress := float64(0)
		if totalLectures > 0 {
			progress = float64(completedLectures) / float64(totalLectures) * 100
		}

		moduleProgress[i] = ModuleProgress{
			ModuleID:          mod.ID,
			ModuleName:        mod.Title,
			TotalLectures:     totalLectures,
			CompletedLectures: completedLectures,
			Progress:          progress,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", fiber.Map{
		"enrollment":      enrollment,
		"completed_ids":   completedIDs,
		"module_progress": moduleProgress,
	})
}
