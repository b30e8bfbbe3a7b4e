package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/mkotelnikov/elearning_platform/internal/models"
	"github.com/mkotelnikov/elearning_platform/internal/mykafka"
)

type LessonHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
}

func (h *LessonHandler) publish(c echo.Context, event map[string]interface{}) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "lesson_events", fmt.Sprint(event["lessonID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func (h *LessonHandler) GetLessons(c echo.Context) error {
	var lessons []models.Lesson
	if err := h.DB.Order("id ASC").Find(&lessons).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, lessons)
}

func (h *LessonHandler) GetLesson(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var lesson models.Lesson
	if err := h.DB.First(&lesson, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "lesson not found")
	}
	return c.JSON(http.StatusOK, lesson)
}

// GetCourseLessons lists the lessons of one course, 404 when it has none.
func (h *LessonHandler) GetCourseLessons(c echo.Context) error {
	courseID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var lessons []models.Lesson
	if err := h.DB.Where("course_id = ?", courseID).Order("id ASC").Find(&lessons).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if len(lessons) == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "no lessons found for this course")
	}
	return c.JSON(http.StatusOK, lessons)
}

// GetLessonTopics resolves the topics referenced by a lesson.
func (h *LessonHandler) GetLessonTopics(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var lesson models.Lesson
	if err := h.DB.First(&lesson, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "lesson not found")
	}

	var topics []models.Topic
	if err := h.DB.Where("lesson_id = ?", lesson.ID).Order("id ASC").Find(&topics).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, topics)
}

func (h *LessonHandler) CreateLesson(c echo.Context) error {
	var req struct {
		Title       string `json:"title" form:"title"`
		Description string `json:"description" form:"description"`
		CourseID    uint   `json:"course_id" form:"course_id"`
		Content     string `json:"content" form:"content"`
	}

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}
	if req.CourseID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "course_id is required")
	}

	var course models.Course
	if err := h.DB.First(&course, req.CourseID).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "course not found")
	}

	lesson := models.Lesson{
		Title:       req.Title,
		Description: req.Description,
		CourseID:    req.CourseID,
		Content:     req.Content,
	}
	if err := h.DB.Create(&lesson).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	h.publish(c, map[string]interface{}{
		"type":     "lesson_created",
		"lessonID": lesson.ID,
		"courseID": lesson.CourseID,
	})

	return c.JSON(http.StatusCreated, lesson)
}

func (h *LessonHandler) UpdateLesson(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var lesson models.Lesson
	if err := h.DB.First(&lesson, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "lesson not found")
	}

	var req struct {
		Title       string `json:"title" form:"title"`
		Description string `json:"description" form:"description"`
		Content     string `json:"content" form:"content"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}

	lesson.Title = req.Title
	lesson.Description = req.Description
	lesson.Content = req.Content

	if err := h.DB.Save(&lesson).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	h.publish(c, map[string]interface{}{
		"type":     "lesson_updated",
		"lessonID": lesson.ID,
	})

	return c.JSON(http.StatusOK, lesson)
}

// DeleteLesson removes the lesson and every topic that belongs to it.
func (h *LessonHandler) DeleteLesson(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var lesson models.Lesson
	if err := h.DB.First(&lesson, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "lesson not found")
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("lesson_id = ?", lesson.ID).Delete(&models.Topic{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Lesson{}, lesson.ID).Error
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	h.publish(c, map[string]interface{}{
		"type":     "lesson_deleted",
		"lessonID": lesson.ID,
	})

	return c.NoContent(http.StatusNoContent)
}
