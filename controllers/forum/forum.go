package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	analyticsModels "lms/models/analytics"
	forumModels "lms/models/forum"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
)

// CreateThread starts a discussion thread in a course forum
func CreateThread(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(uint)

	if !middleware.CanAccessCourse(user, courseID) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	reqData, ok := c.Locals("validatedThread").(*struct {
		Title string `json:"title"`
		Body  string `json:"body"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	thread := forumModels.ForumThread{
		CourseID: courseID,
		AuthorID: user.ID,
		Title:    reqData.Title,
	}

	// Thread plus its opening post land together
	tx := database.Database.Db.Begin()
	if err := tx.Create(&thread).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create thread!", nil)
	}

	post := forumModels.ForumPost{
		ThreadID: thread.ID,
		AuthorID: user.ID,
		Body:     reqData.Body,
	}
	if err := tx.Create(&post).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create thread!", nil)
	}
	tx.Commit()

	utils.RecordActivity(user.ID, courseID, analyticsModels.ActionForumPost, "thread", thread.ID)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Thread created successfully!", fiber.Map{
		"thread": thread,
		"post":   post,
	})
}

// ListThreads lists a course's threads, pinned first
func ListThreads(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(uint)

	if !middleware.CanAccessCourse(user, courseID) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
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

	db := database.Database.Db.Model(&forumModels.ForumThread{}).
		Where("course_id = ? AND is_deleted = ?", courseID, false)

	var total int64
	db.Count(&total)

	var threads []forumModels.ForumThread
	if err := db.Offset(offset).Limit(limit).
		Order("is_pinned desc, updated_at desc").Find(&threads).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch threads!", nil)
	}

	type ThreadWithMeta struct {
		forumModels.ForumThread
		AuthorName string `json:"author_name"`
		PostCount  int64  `json:"post_count"`
	}

	result := make([]ThreadWithMeta, len(threads))
	for i, t := range threads {
		var author models.User
		database.Database.Db.Where("id = ?", t.AuthorID).First(&author)

		var postCount int64
		database.Database.Db.Model(&forumModels.ForumPost{}).
			Where("thread_id = ? AND is_deleted = ?", t.ID, false).Count(&postCount)

		result[i] = ThreadWithMeta{ForumThread: t, AuthorName: author.Name, PostCount: postCount}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Threads fetched successfully!", fiber.Map{
		"threads": result,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// GetThread returns a thread with its posts in chronological order
func GetThread(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	threadID := c.Locals("threadID").(uint)

	var thread forumModels.ForumThread
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", threadID, false).First(&thread).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Thread not found!", nil)
	}

	if !middleware.CanAccessCourse(user, thread.CourseID) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	var posts []forumModels.ForumPost
	database.Database.Db.Where("thread_id = ? AND is_deleted = ?", threadID, false).Order("created_at asc").Find(&posts)

	type PostWithAuthor struct {
		forumModels.ForumPost
		AuthorName string `json:"author_name"`
	}

	result := make([]PostWithAuthor, len(posts))
	for i, p := range posts {
		var author models.User
		database.Database.Db.Where("id = ?", p.AuthorID).First(&author)
		result[i] = PostWithAuthor{ForumPost: p, AuthorName: author.Name}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Thread fetched successfully!", fiber.Map{
		"thread": thread,
		"posts":  result,
	})
}

// CreatePost replies in a thread. Locked threads reject new posts.
func CreatePost(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	threadID := c.Locals("threadID").(uint)

	var thread forumModels.ForumThread
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", threadID, false).First(&thread).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Thread not found!", nil)
	}

	if !middleware.CanAccessCourse(user, thread.CourseID) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	if thread.IsLocked {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Thread is locked!", nil)
	}

	reqData, ok := c.Locals("validatedPost").(*struct {
		Body     string `json:"body"`
		ParentID *uint  `json:"parent_id"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// A reply target must live in the same thread
	if reqData.ParentID != nil {
		var parent forumModels.ForumPost
		if err := database.Database.Db.Where("id = ? AND thread_id = ? AND is_deleted = ?",
			*reqData.ParentID, threadID, false).First(&parent).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Parent post not found!", nil)
		}
	}

	post := forumModels.ForumPost{
		ThreadID: threadID,
		AuthorID: user.ID,
		ParentID: reqData.ParentID,
		Body:     reqData.Body,
	}
	if err := database.Database.Db.Create(&post).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create post!", nil)
	}

	// Bump thread activity for list ordering
	database.Database.Db.Model(&thread).Update("updated_at", post.CreatedAt)

	if thread.AuthorID != user.ID {
		utils.Notify(thread.AuthorID, "FORUM_REPLY", "New reply in your thread",
			user.Name+" replied in \""+thread.Title+"\".", thread.ID)
	}

	utils.RecordActivity(user.ID, thread.CourseID, analyticsModels.ActionForumPost, "post", post.ID)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Post created successfully!", post)
}

// UpdatePost edits a post. Authors edit their own, staff can edit any.
func UpdatePost(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	postID := c.Locals("postID").(uint)

	var post forumModels.ForumPost
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", postID, false).First(&post).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Post not found!", nil)
	}

	var thread forumModels.ForumThread
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", post.ThreadID, false).First(&thread).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Thread not found!", nil)
	}

	if post.AuthorID != user.ID && !middleware.CanManageCourse(user, thread.CourseID) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only edit your own posts!", nil)
	}

	reqData, ok := c.Locals("validatedPostUpdate").(*struct {
		Body string `json:"body"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	post.Body = reqData.Body
	if err := database.Database.Db.Save(&post).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update post!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Post updated successfully!", post)
}

// DeletePost soft deletes a post. Authors delete their own, staff can
// delete any.
func DeletePost(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	postID := c.Locals("postID").(uint)

	var post forumModels.ForumPost
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", postID, false).First(&post).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Post not found!", nil)
	}

	var thread forumModels.ForumThread
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", post.ThreadID, false).First(&thread).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Thread not found!", nil)
	}

	if post.AuthorID != user.ID && !middleware.CanManageCourse(user, thread.CourseID) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only delete your own posts!", nil)
	}

	post.IsDeleted = true
	if err := database.Database.Db.Save(&post).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete post!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Post deleted successfully!", nil)
}

// ModerateThread pins, unpins, locks or unlocks a thread. Staff only.
func ModerateThread(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	threadID := c.Locals("threadID").(uint)

	var thread forumModels.ForumThread
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", threadID, false).First(&thread).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Thread not found!", nil)
	}

	if !middleware.CanManageCourse(user, thread.CourseID) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Course staff only.", nil)
	}

	reqData, ok := c.Locals("validatedModeration").(*struct {
		IsPinned *bool `json:"is_pinned"`
		IsLocked *bool `json:"is_locked"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.IsPinned != nil {
		thread.IsPinned = *reqData.IsPinned
	}
	if reqData.IsLocked != nil {
		thread.IsLocked = *reqData.IsLocked
	}

	if err := database.Database.Db.Save(&thread).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update thread!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Thread updated successfully!", thread)
}

// DeleteThread soft deletes a thread and its posts. Thread author or
// staff only.
func DeleteThread(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	threadID := c.Locals("threadID").(uint)

	var thread forumModels.ForumThread
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", threadID, false).First(&thread).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Thread not found!", nil)
	}

	if thread.AuthorID != user.ID && !middleware.CanManageCourse(user, thread.CourseID) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only delete your own threads!", nil)
	}

	tx := database.Database.Db.Begin()
	if err := tx.Model(&forumModels.ForumPost{}).Where("thread_id = ?", threadID).Update("is_deleted", true).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete thread!", nil)
	}
	thread.IsDeleted = true
	if err := tx.Save(&thread).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete thread!", nil)
	}
	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Thread deleted successfully!", nil)
}
