package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/longstoryy/attendance-system/database"
	"github.com/longstoryy/attendance-system/models"
)

// ScheduleHandler จัดการตารางเวลาเรียน (admin เท่านั้น; core อ่านอย่างเดียว)
type ScheduleHandler struct{}

func NewScheduleHandler() *ScheduleHandler { return &ScheduleHandler{} }

type scheduleReq struct {
	DayOfWeek            *int   `json:"day_of_week" validate:"required,min=0,max=6"`
	StartTime            string `json:"start_time" validate:"required,datetime=15:04"`
	EndTime              string `json:"end_time" validate:"required,datetime=15:04"`
	LateThresholdMinutes *int   `json:"late_threshold_minutes" validate:"omitempty,min=0"`
}

// GET /classes/:id/schedule
func (h *ScheduleHandler) ListForClass(c echo.Context) error {
	var rows []models.ScheduleEntry
	if err := database.DB.Where("class_id = ?", c.Param("id")).
		Order("day_of_week ASC").Find(&rows).Error; err != nil {
		return internalError(c, "schedule.list", err)
	}
	return c.JSON(http.StatusOK, rows)
}

// POST /classes/:id/schedule — 1 แถวต่อ (class, day_of_week)
func (h *ScheduleHandler) Create(c echo.Context) error {
	var req scheduleReq
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, errValidation, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, errValidation,
			"day_of_week (0-6), start_time and end_time (HH:MM) are required")
	}

	var class models.Class
	if err := database.DB.First(&class, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, http.StatusNotFound, errNotFound, "class not found")
		}
		return internalError(c, "schedule.create", err)
	}

	entry := models.ScheduleEntry{
		ClassID:              class.ID,
		DayOfWeek:            *req.DayOfWeek,
		StartTime:            req.StartTime,
		EndTime:              req.EndTime,
		LateThresholdMinutes: 15,
	}
	if req.LateThresholdMinutes != nil {
		entry.LateThresholdMinutes = *req.LateThresholdMinutes
	}

	if err := database.DB.Create(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return jsonError(c, http.StatusConflict, errConflict, "schedule already exists for this class and weekday")
		}
		return internalError(c, "schedule.create", err)
	}
	return c.JSON(http.StatusCreated, entry)
}

// PUT /schedules/:id
func (h *ScheduleHandler) Update(c echo.Context) error {
	var req scheduleReq
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, errValidation, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, errValidation,
			"day_of_week (0-6), start_time and end_time (HH:MM) are required")
	}

	var entry models.ScheduleEntry
	if err := database.DB.First(&entry, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, http.StatusNotFound, errNotFound, "schedule not found")
		}
		return internalError(c, "schedule.update", err)
	}

	updates := map[string]any{
		"day_of_week": *req.DayOfWeek,
		"start_time":  req.StartTime,
		"end_time":    req.EndTime,
	}
	if req.LateThresholdMinutes != nil {
		updates["late_threshold_minutes"] = *req.LateThresholdMinutes
	}
	if err := database.DB.Model(&entry).Updates(updates).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return jsonError(c, http.StatusConflict, errConflict, "schedule already exists for this class and weekday")
		}
		return internalError(c, "schedule.update", err)
	}
	if err := database.DB.First(&entry, "id = ?", entry.ID).Error; err != nil {
		return internalError(c, "schedule.update", err)
	}
	return c.JSON(http.StatusOK, entry)
}

// DELETE /schedules/:id
func (h *ScheduleHandler) Delete(c echo.Context) error {
	res := database.DB.Delete(&models.ScheduleEntry{}, "id = ?", c.Param("id"))
	if res.Error != nil {
		return internalError(c, "schedule.delete", res.Error)
	}
	if res.RowsAffected == 0 {
		return jsonError(c, http.StatusNotFound, errNotFound, "schedule not found")
	}
	return c.JSON(http.StatusOK, map[string]any{"message": "Schedule deleted"})
}
