package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/mkotelnikov/elearning_platform/internal/handlers"
	authmw "github.com/mkotelnikov/elearning_platform/internal/middleware/auth"
	"github.com/mkotelnikov/elearning_platform/internal/models"
)

type Deps struct {
	Gate          *authmw.Gate
	AuthHandler   *handlers.AuthHandler
	UserHandler   *handlers.UserHandler
	CourseHandler *handlers.CourseHandler
	LessonHandler *handlers.LessonHandler
	TopicHandler  *handlers.TopicHandler
	SearchHandler *handlers.SearchHandler
	UploadDir     string
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	if d.UploadDir != "" {
		e.Static("/uploads", d.UploadDir)
	}

	api := e.Group("/api")

	api.POST("/signup", d.AuthHandler.Signup)
	api.POST("/login", d.AuthHandler.Login)

	authed := api.Group("", d.Gate.RequireAuth)
	authed.POST("/logout", d.AuthHandler.Logout)
	authed.GET("/profile", d.AuthHandler.Profile)

	authed.GET("/courses", d.CourseHandler.GetCourses)
	if d.SearchHandler != nil {
		authed.GET("/courses/search", d.SearchHandler.Search)
	}
	authed.GET("/courses/:id", d.CourseHandler.GetCourse)
	authed.GET("/courses/:id/lessons", d.LessonHandler.GetCourseLessons)

	authed.GET("/lessons", d.LessonHandler.GetLessons)
	authed.GET("/lessons/:id", d.LessonHandler.GetLesson)
	authed.GET("/lessons/:id/topics", d.LessonHandler.GetLessonTopics)

	authed.GET("/topics", d.TopicHandler.GetTopics)
	authed.GET("/topics/:id", d.TopicHandler.GetTopic)

	authed.GET("/users", d.UserHandler.GetUsers, d.Gate.RequireRole(models.RoleAdmin))
	authed.POST("/users", d.UserHandler.CreateUser, d.Gate.RequireRole(models.RoleAdmin))

	admin := authed.Group("/admin", d.Gate.RequireRole(models.RoleAdmin))

	admin.POST("/courses", d.CourseHandler.CreateCourse)
	admin.PUT("/courses/:id", d.CourseHandler.UpdateCourse)
	admin.DELETE("/courses/:id", d.CourseHandler.DeleteCourse)

	admin.POST("/lessons", d.LessonHandler.CreateLesson)
	admin.PUT("/lessons/:id", d.LessonHandler.UpdateLesson)
	admin.DELETE("/lessons/:id", d.LessonHandler.DeleteLesson)

	admin.POST("/topics", d.TopicHandler.CreateTopic)
	admin.PUT("/topics/:id", d.TopicHandler.UpdateTopic)
	admin.DELETE("/topics/:id", d.TopicHandler.DeleteTopic)
}
