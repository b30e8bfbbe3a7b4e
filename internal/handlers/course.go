package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/mkotelnikov/elearning_platform/internal/models"
	"github.com/mkotelnikov/elearning_platform/internal/mykafka"
	"github.com/mkotelnikov/elearning_platform/internal/service/search"
	"github.com/mkotelnikov/elearning_platform/internal/storage"
	"github.com/mkotelnikov/elearning_platform/internal/util"
)

type CourseHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
	Files    *storage.FileStore
	ES       *elasticsearch.Client
	Index    string
}

func (h *CourseHandler) publish(c echo.Context, event map[string]interface{}) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "course_events", fmt.Sprint(event["courseID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func (h *CourseHandler) index(c echo.Context, course models.Course) {
	if h.ES == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := search.IndexCourse(ctx, h.ES, h.Index, course); err != nil {
		c.Logger().Errorf("ES index error: %v", err)
	}
}

func (h *CourseHandler) saveImage(c echo.Context) (string, error) {
	file, err := c.FormFile("image")
	if err != nil {
		return "", nil
	}
	return h.Files.Save(file)
}

// GetCourses lists the catalog. Admins see full records, everyone else gets
// the reduced preview projection.
func (h *CourseHandler) GetCourses(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	var courses []models.Course
	if err := h.DB.Order("id ASC").Offset(offset).Limit(limit).Find(&courses).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	role, _ := c.Get("role").(string)
	if role == models.RoleAdmin {
		return c.JSON(http.StatusOK, courses)
	}

	previews := make([]models.CoursePreview, len(courses))
	for i, course := range courses {
		previews[i] = models.CoursePreview{
			ID:          course.ID,
			Title:       course.Title,
			Description: course.Description,
		}
	}
	return c.JSON(http.StatusOK, previews)
}

func (h *CourseHandler) GetCourse(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var course models.Course
	if err := h.DB.First(&course, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "course not found")
	}
	return c.JSON(http.StatusOK, course)
}

func (h *CourseHandler) CreateCourse(c echo.Context) error {
	var req struct {
		Title       string  `json:"title" form:"title"`
		Description string  `json:"description" form:"description"`
		Instructor  string  `json:"instructor" form:"instructor"`
		Price       float64 `json:"price" form:"price"`
	}

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}
	if req.Price < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "price must not be negative")
	}

	image, err := h.saveImage(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	course := models.Course{
		Title:       req.Title,
		Description: req.Description,
		Instructor:  req.Instructor,
		Price:       req.Price,
		Image:       image,
	}
	if err := h.DB.Create(&course).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	h.index(c, course)
	h.publish(c, map[string]interface{}{
		"type":     "course_created",
		"courseID": course.ID,
		"title":    course.Title,
	})

	return c.JSON(http.StatusCreated, course)
}

func (h *CourseHandler) UpdateCourse(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var course models.Course
	if err := h.DB.First(&course, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "course not found")
	}

	var req struct {
		Title       string  `json:"title" form:"title"`
		Description string  `json:"description" form:"description"`
		Instructor  string  `json:"instructor" form:"instructor"`
		Price       float64 `json:"price" form:"price"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}
	if req.Price < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "price must not be negative")
	}

	image, err := h.saveImage(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	course.Title = req.Title
	course.Description = req.Description
	course.Instructor = req.Instructor
	course.Price = req.Price
	if image != "" {
		course.Image = image
	}

	if err := h.DB.Save(&course).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	h.index(c, course)
	h.publish(c, map[string]interface{}{
		"type":     "course_updated",
		"courseID": course.ID,
		"title":    course.Title,
	})

	return c.JSON(http.StatusOK, course)
}

// DeleteCourse removes the course together with its lessons and their topics.
func (h *CourseHandler) DeleteCourse(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var course models.Course
	if err := h.DB.First(&course, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "course not found")
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		var lessonIDs []uint
		if err := tx.Model(&models.Lesson{}).Where("course_id = ?", course.ID).Pluck("id", &lessonIDs).Error; err != nil {
			return err
		}
		if len(lessonIDs) > 0 {
			if err := tx.Where("lesson_id IN ?", lessonIDs).Delete(&models.Topic{}).Error; err != nil {
				return err
			}
			if err := tx.Where("course_id = ?", course.ID).Delete(&models.Lesson{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Course{}, course.ID).Error
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if h.ES != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()
		if err := search.DeleteCourse(ctx, h.ES, h.Index, course.ID); err != nil {
			c.Logger().Errorf("ES delete error: %v", err)
		}
	}
	h.publish(c, map[string]interface{}{
		"type":     "course_deleted",
		"courseID": course.ID,
	})

	return c.NoContent(http.StatusNoContent)
}
