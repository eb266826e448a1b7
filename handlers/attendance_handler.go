package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/longstoryy/attendance-system/database"
	"github.com/longstoryy/attendance-system/lateness"
	"github.com/longstoryy/attendance-system/models"
)

type AttendanceHandler struct {
	Loc      *time.Location
	Detector *lateness.Detector
}

func NewAttendanceHandler(loc *time.Location, det *lateness.Detector) *AttendanceHandler {
	return &AttendanceHandler{Loc: loc, Detector: det}
}

type markReq struct {
	StudentID string `json:"student_id" validate:"required"`
	ClassID   string `json:"class_id" validate:"required"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	Status    string `json:"status" validate:"omitempty,oneof=present absent late"`
	Notes     string `json:"notes"`
}

var (
	errStudentMissing = errors.New("student not found")
	errClassMissing   = errors.New("class not found")
)

// สร้างแถว attendance ของ (student, class, date); ชน unique = Conflict ไม่ใช่ upsert
// คืน sentinel ให้ caller แปลงเป็น response เอง ห้ามเขียน response ในนี้
func (h *AttendanceHandler) create(req *markReq) (*models.Attendance, error) {
	var student models.Student
	if err := database.DB.First(&student, "id = ?", req.StudentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errStudentMissing
		}
		return nil, err
	}
	var class models.Class
	if err := database.DB.First(&class, "id = ?", req.ClassID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errClassMissing
		}
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = models.AttendancePresent
	}

	rec := models.Attendance{
		StudentID: req.StudentID,
		ClassID:   req.ClassID,
		Date:      req.Date,
		Status:    status,
		Notes:     strings.TrimSpace(req.Notes),
	}
	// absent = ไม่มีเวลามาถึง
	if status != models.AttendanceAbsent {
		now := time.Now().In(h.Loc)
		rec.TimeIn = &now
	}

	if err := database.DB.Create(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (h *AttendanceHandler) createError(c echo.Context, op string, err error) error {
	switch {
	case errors.Is(err, errStudentMissing):
		return jsonError(c, http.StatusNotFound, errNotFound, "student not found")
	case errors.Is(err, errClassMissing):
		return jsonError(c, http.StatusNotFound, errNotFound, "class not found")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return jsonError(c, http.StatusConflict, errConflict,
			"attendance already recorded for this student, class and date")
	default:
		return internalError(c, op, err)
	}
}

// POST /attendance/mark
func (h *AttendanceHandler) Mark(c echo.Context) error {
	var req markReq
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, errValidation, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, errValidation,
			"student_id, class_id and date (YYYY-MM-DD) are required; status must be present|absent|late")
	}

	rec, err := h.create(&req)
	if err != nil {
		return h.createError(c, "attendance.mark", err)
	}
	return c.JSON(http.StatusCreated, rec)
}

type scanReq struct {
	StudentID string `json:"student_id" validate:"required"`
	ClassID   string `json:"class_id" validate:"required"`
	Date      string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

// POST /attendance/scan — mark + classify ในจังหวะเดียว (flow เครื่องสแกน)
// ถ้าสาย: พลิก status เป็น late และแจ้งเตือนบัญชีนักเรียน
func (h *AttendanceHandler) Scan(c echo.Context) error {
	var req scanReq
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, errValidation, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, errValidation, "student_id and class_id are required")
	}
	if req.Date == "" {
		req.Date = time.Now().In(h.Loc).Format("2006-01-02")
	}

	rec, err := h.create(&markReq{
		StudentID: req.StudentID,
		ClassID:   req.ClassID,
		Date:      req.Date,
	})
	if err != nil {
		return h.createError(c, "attendance.scan", err)
	}

	cls, err := h.Detector.Classify(rec.ClassID, *rec.TimeIn)
	if err != nil {
		return internalError(c, "attendance.scan", err)
	}

	if cls.Determined && cls.IsLate {
		if err := database.DB.Model(rec).Update("status", models.AttendanceLate).Error; err != nil {
			return internalError(c, "attendance.scan", err)
		}
		rec.Status = models.AttendanceLate

		var student models.Student
		if err := database.DB.First(&student, "id = ?", rec.StudentID).Error; err == nil {
			msg := fmt.Sprintf("%s arrived late to class", student.Name)
			if err := notifyStudentUser(database.DB, rec.StudentID,
				models.NotifyLateArrival, msg, &rec.ID, nil); err != nil {
				return internalError(c, "attendance.scan", err)
			}
		}
	}

	return c.JSON(http.StatusCreated, map[string]any{
		"attendance":     rec,
		"classification": cls,
	})
}

// GET /attendance?student_id=&class_id=&date=
func (h *AttendanceHandler) List(c echo.Context) error {
	tx := database.DB.Model(&models.Attendance{})

	if v := strings.TrimSpace(c.QueryParam("student_id")); v != "" {
		tx = tx.Where("student_id = ?", v)
	}
	if v := strings.TrimSpace(c.QueryParam("class_id")); v != "" {
		tx = tx.Where("class_id = ?", v)
	}
	if v := strings.TrimSpace(c.QueryParam("date")); v != "" {
		tx = tx.Where("date = ?", v)
	}

	var rows []models.Attendance
	if err := tx.Order("date DESC, time_in DESC").Find(&rows).Error; err != nil {
		return internalError(c, "attendance.list", err)
	}
	return c.JSON(http.StatusOK, rows)
}

type updateAttendanceReq struct {
	Status  *string `json:"status" validate:"omitempty,oneof=present absent late"`
	Notes   *string `json:"notes"`
	TimeOut *string `json:"time_out"` // RFC3339
}

// PUT /attendance/:id — partial update เฉพาะ field ที่ส่งมา
func (h *AttendanceHandler) Update(c echo.Context) error {
	var req updateAttendanceReq
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, errValidation, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, errValidation, "status must be present|absent|late")
	}

	var rec models.Attendance
	if err := database.DB.First(&rec, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, http.StatusNotFound, errNotFound, "attendance not found")
		}
		return internalError(c, "attendance.update", err)
	}

	updates := map[string]any{}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.Notes != nil {
		updates["notes"] = strings.TrimSpace(*req.Notes)
	}
	if req.TimeOut != nil {
		t, err := time.Parse(time.RFC3339, *req.TimeOut)
		if err != nil {
			return jsonError(c, http.StatusBadRequest, errValidation, "time_out must be RFC3339")
		}
		updates["time_out"] = t.In(h.Loc)
	}
	if len(updates) == 0 {
		return c.JSON(http.StatusOK, rec)
	}

	if err := database.DB.Model(&rec).Updates(updates).Error; err != nil {
		return internalError(c, "attendance.update", err)
	}
	if err := database.DB.First(&rec, "id = ?", rec.ID).Error; err != nil {
		return internalError(c, "attendance.update", err)
	}
	return c.JSON(http.StatusOK, rec)
}

type attendanceSummary struct {
	StudentID      string  `json:"student_id"`
	ClassID        string  `json:"class_id"`
	TotalSessions  int64   `json:"total_sessions"`
	PresentCount   int64   `json:"present_count"`
	AbsentCount    int64   `json:"absent_count"`
	LateCount      int64   `json:"late_count"`
	AttendanceRate float64 `json:"attendance_rate"`
}

// GET /attendance/summary/:student_id?class_id=
func (h *AttendanceHandler) Summary(c echo.Context) error {
	tx := database.DB.Model(&models.Attendance{}).
		Select(`student_id, class_id,
			COUNT(*) AS total_sessions,
			SUM(CASE WHEN status = 'present' THEN 1 ELSE 0 END) AS present_count,
			SUM(CASE WHEN status = 'absent' THEN 1 ELSE 0 END) AS absent_count,
			SUM(CASE WHEN status = 'late' THEN 1 ELSE 0 END) AS late_count,
			ROUND(100.0 * SUM(CASE WHEN status = 'present' THEN 1 ELSE 0 END) / COUNT(*), 2) AS attendance_rate`).
		Where("student_id = ?", c.Param("student_id"))

	if v := strings.TrimSpace(c.QueryParam("class_id")); v != "" {
		tx = tx.Where("class_id = ?", v)
	}

	var rows []attendanceSummary
	if err := tx.Group("student_id, class_id").Scan(&rows).Error; err != nil {
		return internalError(c, "attendance.summary", err)
	}
	return c.JSON(http.StatusOK, rows)
}
