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
	"github.com/mkotelnikov/elearning_platform/internal/storage"
)

type TopicHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
	Files    *storage.FileStore
}

func (h *TopicHandler) publish(c echo.Context, event map[string]interface{}) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "topic_events", fmt.Sprint(event["topicID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func (h *TopicHandler) saveImage(c echo.Context) (string, error) {
	file, err := c.FormFile("image")
	if err != nil {
		return "", nil
	}
	return h.Files.Save(file)
}

func (h *TopicHandler) GetTopics(c echo.Context) error {
	var topics []models.Topic
	if err := h.DB.Order("id ASC").Find(&topics).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, topics)
}

func (h *TopicHandler) GetTopic(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var topic models.Topic
	if err := h.DB.First(&topic, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "topic not found")
	}
	return c.JSON(http.StatusOK, topic)
}

// CreateTopic attaches a new topic to an existing lesson. Nothing is written
// when the lesson does not exist.
func (h *TopicHandler) CreateTopic(c echo.Context) error {
	var req struct {
		Title       string `json:"title" form:"title"`
		Description string `json:"description" form:"description"`
		LessonID    uint   `json:"lesson_id" form:"lesson_id"`
	}

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}
	if req.LessonID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "lesson_id is required")
	}

	var lesson models.Lesson
	if err := h.DB.First(&lesson, req.LessonID).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "lesson not found")
	}

	image, err := h.saveImage(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	topic := models.Topic{
		Title:       req.Title,
		Description: req.Description,
		LessonID:    req.LessonID,
		Image:       image,
	}
	if err := h.DB.Create(&topic).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	h.publish(c, map[string]interface{}{
		"type":     "topic_created",
		"topicID":  topic.ID,
		"lessonID": topic.LessonID,
	})

	return c.JSON(http.StatusCreated, topic)
}

func (h *TopicHandler) UpdateTopic(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var topic models.Topic
	if err := h.DB.First(&topic, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "topic not found")
	}

	var req struct {
		Title       string `json:"title" form:"title"`
		Description string `json:"description" form:"description"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}

	image, err := h.saveImage(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	topic.Title = req.Title
	topic.Description = req.Description
	if image != "" {
		topic.Image = image
	}

	if err := h.DB.Save(&topic).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	h.publish(c, map[string]interface{}{
		"type":    "topic_updated",
		"topicID": topic.ID,
	})

	return c.JSON(http.StatusOK, topic)
}

func (h *TopicHandler) DeleteTopic(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var topic models.Topic
	if err := h.DB.First(&topic, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "topic not found")
	}

	if err := h.DB.Delete(&models.Topic{}, topic.ID).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	h.publish(c, map[string]interface{}{
		"type":     "topic_deleted",
		"topicID":  topic.ID,
		"lessonID": topic.LessonID,
	})

	return c.NoContent(http.StatusNoContent)
}
