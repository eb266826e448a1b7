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

// StudentHandler — CRUD ตรง ๆ ไม่มี workflow (core ใช้แค่เช็คว่ามีตัวตน)
type StudentHandler struct{}

func NewStudentHandler() *StudentHandler { return &StudentHandler{} }

type studentReq struct {
	Name          string `json:"name" validate:"required"`
	Email         string `json:"email" validate:"omitempty,email"`
	StudentNumber string `json:"student_number" validate:"required"`
	ClassID       string `json:"class_id"`
}

// GET /students?class_id=&q=
func (h *StudentHandler) List(c echo.Context) error {
	tx := database.DB.Model(&models.Student{})
	if v := strings.TrimSpace(c.QueryParam("class_id")); v != "" {
		tx = tx.Where("class_id = ?", v)
	}
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		tx = tx.Where("LOWER(name) LIKE ? OR LOWER(student_number) LIKE ?", like, like)
	}

	var rows []models.Student
	if err := tx.Order("name ASC").Find(&rows).Error; err != nil {
		return internalError(c, "students.list", err)
	}
	return c.JSON(http.StatusOK, rows)
}

// GET /students/:id
func (h *StudentHandler) Get(c echo.Context) error {
	var row models.Student
	if err := database.DB.First(&row, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, http.StatusNotFound, errNotFound, "student not found")
		}
		return internalError(c, "students.get", err)
	}
	return c.JSON(http.StatusOK, row)
}

// POST /students
func (h *StudentHandler) Create(c echo.Context) error {
	var req studentReq
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, errValidation, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, errValidation, "name and student_number are required")
	}

	rec := models.Student{
		Name:          strings.TrimSpace(req.Name),
		Email:         strings.TrimSpace(strings.ToLower(req.Email)),
		StudentNumber: strings.TrimSpace(req.StudentNumber),
		ClassID:       strings.TrimSpace(req.ClassID),
	}
	if err := database.DB.Create(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return jsonError(c, http.StatusConflict, errConflict, "student_number or email already exists")
		}
		return internalError(c, "students.create", err)
	}
	return c.JSON(http.StatusCreated, rec)
}

// PUT /students/:id
func (h *StudentHandler) Update(c echo.Context) error {
	var rec models.Student
	if err := database.DB.First(&rec, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, http.StatusNotFound, errNotFound, "student not found")
		}
		return internalError(c, "students.update", err)
	}

	var req studentReq
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, errValidation, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, errValidation, "name and student_number are required")
	}

	rec.Name = strings.TrimSpace(req.Name)
	rec.Email = strings.TrimSpace(strings.ToLower(req.Email))
	rec.StudentNumber = strings.TrimSpace(req.StudentNumber)
	rec.ClassID = strings.TrimSpace(req.ClassID)

	if err := database.DB.Save(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return jsonError(c, http.StatusConflict, errConflict, "student_number or email already exists")
		}
		return internalError(c, "students.update", err)
	}
	return c.JSON(http.StatusOK, rec)
}

// DELETE /students/:id
func (h *StudentHandler) Delete(c echo.Context) error {
	res := database.DB.Delete(&models.Student{}, "id = ?", c.Param("id"))
	if res.Error != nil {
		return internalError(c, "students.delete", res.Error)
	}
	if res.RowsAffected == 0 {
		return jsonError(c, http.StatusNotFound, errNotFound, "student not found")
	}
	return c.JSON(http.StatusOK, map[string]any{"message": "Student deleted"})
}
