package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mkotelnikov/elearning_platform/internal/blacklist"
	"github.com/mkotelnikov/elearning_platform/internal/handlers"
	"github.com/mkotelnikov/elearning_platform/internal/hash"
	authmw "github.com/mkotelnikov/elearning_platform/internal/middleware/auth"
	"github.com/mkotelnikov/elearning_platform/internal/models"
	"github.com/mkotelnikov/elearning_platform/internal/token"
)

func newServer(t *testing.T) (*echo.Echo, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Course{}, &models.Lesson{}, &models.Topic{}))

	tokens := token.NewService([]byte("test_secret"))
	revoked := blacklist.NewMemory()
	gate := &authmw.Gate{DB: db, Tokens: tokens, Blacklist: revoked}

	deps := Deps{
		Gate:          gate,
		AuthHandler:   &handlers.AuthHandler{DB: db, Tokens: tokens, Blacklist: revoked},
		UserHandler:   &handlers.UserHandler{DB: db},
		CourseHandler: &handlers.CourseHandler{DB: db},
		LessonHandler: &handlers.LessonHandler{DB: db},
		TopicHandler:  &handlers.TopicHandler{DB: db},
	}

	e := echo.New()
	Register(e, &deps)
	return e, db
}

func do(e *echo.Echo, method, target, bearer string, payload interface{}) *httptest.ResponseRecorder {
	var req *http.Request
	if payload != nil {
		bodyBytes, _ := json.Marshal(payload)
		req = httptest.NewRequest(method, target, bytes.NewReader(bodyBytes))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func signupToken(t *testing.T, e *echo.Echo) string {
	rec := do(e, http.MethodPost, "/api/signup", "", map[string]string{
		"name":     "A",
		"email":    "a@x.com",
		"password": "p1",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func adminToken(t *testing.T, e *echo.Echo, db *gorm.DB) string {
	passwordHash, err := hash.HashPassword("adminpass")
	require.NoError(t, err)
	admin := models.User{Name: "Admin", Email: "admin@x.com", PasswordHash: passwordHash, Role: models.RoleAdmin}
	require.NoError(t, db.Create(&admin).Error)

	rec := do(e, http.MethodPost, "/api/login", "", map[string]string{
		"email":    "admin@x.com",
		"password": "adminpass",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Token
}

// signup -> profile -> logout -> profile rejected
func TestLogoutFlow(t *testing.T) {
	e, _ := newServer(t)

	tok := signupToken(t, e)

	rec := do(e, http.MethodGet, "/api/profile", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "a@x.com")

	rec = do(e, http.MethodPost, "/api/logout", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, http.MethodGet, "/api/profile", tok, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestProfileWithoutToken(t *testing.T) {
	e, _ := newServer(t)

	rec := do(e, http.MethodGet, "/api/profile", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	e, db := newServer(t)

	userTok := signupToken(t, e)
	adminTok := adminToken(t, e, db)

	payload := map[string]interface{}{
		"title":       "Go Basics",
		"description": "Intro",
		"price":       49.9,
	}

	rec := do(e, http.MethodPost, "/api/admin/courses", userTok, payload)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(e, http.MethodPost, "/api/admin/courses", adminTok, payload)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Course
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = do(e, http.MethodGet, "/api/courses/1", adminTok, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got models.Course
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, created.ID, got.ID)
	require.Equal(t, "Go Basics", got.Title)
	require.Equal(t, 49.9, got.Price)
}

func TestUsersListAdminOnly(t *testing.T) {
	e, db := newServer(t)

	userTok := signupToken(t, e)
	adminTok := adminToken(t, e, db)

	rec := do(e, http.MethodGet, "/api/users", userTok, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(e, http.MethodGet, "/api/users", adminTok, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var users []models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
	require.Len(t, users, 2)
}

func TestHierarchyOverHTTP(t *testing.T) {
	e, db := newServer(t)
	adminTok := adminToken(t, e, db)

	rec := do(e, http.MethodPost, "/api/admin/courses", adminTok, map[string]interface{}{
		"title":       "Go Basics",
		"description": "Intro",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(e, http.MethodPost, "/api/admin/lessons", adminTok, map[string]interface{}{
		"title":       "L1",
		"description": "d",
		"course_id":   1,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(e, http.MethodPost, "/api/admin/topics", adminTok, map[string]interface{}{
		"title":       "T1",
		"description": "d",
		"lesson_id":   1,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(e, http.MethodGet, "/api/courses/1/lessons", adminTok, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, http.MethodGet, "/api/lessons/1/topics", adminTok, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var topics []models.Topic
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &topics))
	require.Len(t, topics, 1)

	rec = do(e, http.MethodDelete, "/api/admin/lessons/1", adminTok, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(e, http.MethodGet, "/api/topics/1", adminTok, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
