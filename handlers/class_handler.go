package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/longstoryy/attendance-system/database"
	"github.com/longstoryy/attendance-system/models"
)

// ClassHandler — CRUD ตรง ๆ (core ใช้แค่เช็คว่ามีตัวตน)
type ClassHandler struct{}

func NewClassHandler() *ClassHandler { return &ClassHandler{} }

type classReq struct {
	Name       string `json:"name" validate:"required"`
	Code       string `json:"code" validate:"required"`
	Instructor string `json:"instructor"`
	Capacity   int    `json:"capacity" validate:"omitempty,min=0"`
}

// GET /classes
func (h *ClassHandler) List(c echo.Context) error {
	var rows []models.Class
	if err := database.DB.Order("name ASC").Find(&rows).Error; err != nil {
		return internalError(c, "classes.list", err)
	}
	return c.JSON(http.StatusOK, rows)
}

// GET /classes/:id
func (h *ClassHandler) Get(c echo.Context) error {
	var row models.Class
	if err := database.DB.First(&row, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, http.StatusNotFound, errNotFound, "class not found")
		}
		return internalError(c, "classes.get", err)
	}
	return c.JSON(http.StatusOK, row)
}

// POST /classes
func (h *ClassHandler) Create(c echo.Context) error {
	var req classReq
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, errValidation, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, errValidation, "name and code are required")
	}

	rec := models.Class{
		Name:       strings.TrimSpace(req.Name),
		Code:       strings.TrimSpace(req.Code),
		Instructor: strings.TrimSpace(req.Instructor),
		Capacity:   req.Capacity,
	}
	if err := database.DB.Create(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return jsonError(c, http.StatusConflict, errConflict, "class code already exists")
		}
		return internalError(c, "classes.create", err)
	}
	return c.JSON(http.StatusCreated, rec)
}

// PUT /classes/:id
func (h *ClassHandler) Update(c echo.Context) error {
	var rec models.Class
	if err := database.DB.First(&rec, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, http.StatusNotFound, errNotFound, "class not found")
		}
		return internalError(c, "classes.update", err)
	}

	var req classReq
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, errValidation, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, errValidation, "name and code are required")
	}

	rec.Name = strings.TrimSpace(req.Name)
	rec.Code = strings.TrimSpace(req.Code)
	rec.Instructor = strings.TrimSpace(req.Instructor)
	rec.Capacity = req.Capacity

	if err := database.DB.Save(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return jsonError(c, http.StatusConflict, errConflict, "class code already exists")
		}
		return internalError(c, "classes.update", err)
	}
	return c.JSON(http.StatusOK, rec)
}

// DELETE /classes/:id
func (h *ClassHandler) Delete(c echo.Context) error {
	res := database.DB.Delete(&models.Class{}, "id = ?", c.Param("id"))
	if res.Error != nil {
		return internalError(c, "classes.delete", res.Error)
	}
	if res.RowsAffected == 0 {
		return jsonError(c, http.StatusNotFound, errNotFound, "class not found")
	}
	return c.JSON(http.StatusOK, map[string]any{"message": "Class deleted"})
}
