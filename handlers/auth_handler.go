package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/longstoryy/attendance-system/database"
	"github.com/longstoryy/attendance-system/middlewares"
	"github.com/longstoryy/attendance-system/models"
)

type AuthHandler struct {
	JWTSecret string
	TokenTTL  time.Duration
}

func NewAuthHandler(secret string, ttl time.Duration) *AuthHandler {
	return &AuthHandler{JWTSecret: secret, TokenTTL: ttl}
}

func (h *AuthHandler) signJWT(u *models.User) (string, error) {
	claims := middlewares.Claims{
		Sub:  u.ID,
		Role: u.Role,
		Name: u.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(h.TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	tk := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tk.SignedString([]byte(h.JWTSecret))
}

type loginReq struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// POST /auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, errValidation, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, errValidation, "username and password are required")
	}

	var u models.User
	err := database.DB.Where("username = ?", strings.TrimSpace(req.Username)).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return jsonError(c, http.StatusUnauthorized, errUnauthorized, "invalid credentials")
	}
	if err != nil {
		return internalError(c, "auth.login", err)
	}
	if !u.IsActive {
		return jsonError(c, http.StatusForbidden, errForbidden, "account disabled")
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		return jsonError(c, http.StatusUnauthorized, errUnauthorized, "invalid credentials")
	}

	token, err := h.signJWT(&u)
	if err != nil {
		return internalError(c, "auth.login", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"token": token, "user": u})
}

// GET /auth/me
func (h *AuthHandler) Me(c echo.Context) error {
	var u models.User
	if err := database.DB.First(&u, "id = ?", currentUserID(c)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, http.StatusNotFound, errNotFound, "user not found")
		}
		return internalError(c, "auth.me", err)
	}
	return c.JSON(http.StatusOK, u)
}
