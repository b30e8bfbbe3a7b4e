package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/mkotelnikov/elearning_platform/internal/blacklist"
	"github.com/mkotelnikov/elearning_platform/internal/hash"
	authmw "github.com/mkotelnikov/elearning_platform/internal/middleware/auth"
	"github.com/mkotelnikov/elearning_platform/internal/models"
	"github.com/mkotelnikov/elearning_platform/internal/mykafka"
	"github.com/mkotelnikov/elearning_platform/internal/token"
)

type AuthHandler struct {
	DB        *gorm.DB
	Tokens    *token.Service
	Blacklist blacklist.Store
	Producer  *mykafka.Producer
}

func (h *AuthHandler) publish(c echo.Context, event map[string]interface{}) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "user_events", fmt.Sprint(event["userID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func (h *AuthHandler) Signup(c echo.Context) error {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Phone    string `json:"phone"`
	}

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name, email and password are required")
	}

	var existing models.User
	if err := h.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	passwordHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	user := models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Phone:        req.Phone,
		Role:         models.RoleUser,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	signed, err := h.Tokens.Issue(user.ID, user.Role)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, map[string]interface{}{
		"type":   "user_registered",
		"userID": user.ID,
		"email":  user.Email,
	})

	return c.JSON(http.StatusCreated, echo.Map{
		"token": signed,
		"user":  user,
	})
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var user models.User
	if err := h.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid email or password")
	}
	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid email or password")
	}

	signed, err := h.Tokens.Issue(user.ID, user.Role)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, map[string]interface{}{
		"type":   "user_logged_in",
		"userID": user.ID,
		"email":  user.Email,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"token": signed,
		"user":  user,
	})
}

// Logout blacklists the presented token for the rest of its lifetime.
// Revoking an already revoked token is a no-op.
func (h *AuthHandler) Logout(c echo.Context) error {
	raw, _ := c.Get("token").(string)
	if raw == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing token")
	}

	ttl := h.Tokens.RemainingLife(raw)
	if err := h.Blacklist.Revoke(c.Request().Context(), raw, ttl); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if userID, ok := c.Get("userID").(uint); ok {
		h.publish(c, map[string]interface{}{
			"type":   "user_logged_out",
			"userID": userID,
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "logged out",
	})
}

func (h *AuthHandler) Profile(c echo.Context) error {
	user, ok := authmw.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing token")
	}
	return c.JSON(http.StatusOK, user)
}
