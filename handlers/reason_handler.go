package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/longstoryy/attendance-system/database"
	"github.com/longstoryy/attendance-system/models"
)

type ReasonHandler struct{}

func NewReasonHandler() *ReasonHandler { return &ReasonHandler{} }

type submitReasonReq struct {
	AttendanceID string `json:"attendance_id" validate:"required"`
	ReasonType   string `json:"reason_type" validate:"required,oneof=late_arrival absence medical other"`
	ReasonText   string `json:"reason_text" validate:"required,max=500"`
}

// POST /reasons/submit — ยื่นได้เฉพาะเจ้าของ attendance เท่านั้น
func (h *ReasonHandler) Submit(c echo.Context) error {
	var req submitReasonReq
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, errValidation, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, errValidation,
			"attendance_id, reason_type (late_arrival|absence|medical|other) and reason_text (≤500) are required")
	}
	text := strings.TrimSpace(req.ReasonText)
	if text == "" {
		return jsonError(c, http.StatusBadRequest, errValidation, "reason_text required")
	}

	var event models.Attendance
	if err := database.DB.First(&event, "id = ?", req.AttendanceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, http.StatusNotFound, errNotFound, "attendance not found")
		}
		return internalError(c, "reasons.submit", err)
	}

	// ownership: บัญชีผู้เรียกต้องผูกกับนักเรียนเจ้าของ event
	var caller models.User
	if err := database.DB.First(&caller, "id = ?", currentUserID(c)).Error; err != nil {
		return internalError(c, "reasons.submit", err)
	}
	if caller.StudentID == nil || *caller.StudentID != event.StudentID {
		return jsonError(c, http.StatusForbidden, errForbidden, "only the student who owns this attendance can submit a reason")
	}

	reason := models.AttendanceReason{
		AttendanceID: event.ID,
		StudentID:    event.StudentID,
		ReasonType:   req.ReasonType,
		ReasonText:   text,
		Status:       models.ReasonPending,
		SubmittedAt:  time.Now(),
	}
	if err := database.DB.Create(&reason).Error; err != nil {
		return internalError(c, "reasons.submit", err)
	}

	// แจ้งคิวผู้ตรวจ — best effort, reason บันทึกแล้ว อย่าให้ retry สร้างซ้ำ
	var student models.Student
	if err := database.DB.First(&student, "id = ?", event.StudentID).Error; err == nil {
		msg := fmt.Sprintf("%s submitted a %s reason for review", student.Name, req.ReasonType)
		if err := notifyReviewers(database.DB, models.NotifyReasonSubmit, msg, &event.ID, &reason.ID); err != nil {
			log.Printf("[reasons.submit] notify failed: %v", err)
		}
	}

	return c.JSON(http.StatusCreated, reason)
}

// แถว reason พร้อมข้อมูลประกอบสำหรับหน้าตรวจ
type reasonWithContext struct {
	ID               string    `json:"id"`
	AttendanceID     string    `json:"attendance_id"`
	StudentID        string    `json:"student_id"`
	ReasonType       string    `json:"reason_type"`
	ReasonText       string    `json:"reason_text"`
	Status           string    `json:"status"`
	SubmittedAt      time.Time `json:"submitted_at"`
	StudentName      string    `json:"student_name"`
	Date             string    `json:"date"`
	AttendanceStatus string    `json:"attendance_status"`
}

func reasonContextQuery() *gorm.DB {
	return database.DB.Model(&models.AttendanceReason{}).
		Select(`attendance_reasons.id, attendance_reasons.attendance_id, attendance_reasons.student_id,
			attendance_reasons.reason_type, attendance_reasons.reason_text, attendance_reasons.status,
			attendance_reasons.submitted_at,
			students.name AS student_name, attendances.date, attendances.status AS attendance_status`).
		Joins("JOIN students ON students.id = attendance_reasons.student_id").
		Joins("JOIN attendances ON attendances.id = attendance_reasons.attendance_id")
}

// GET /reasons/pending — เฉพาะ instructor/admin ใหม่สุดก่อน
func (h *ReasonHandler) ListPending(c echo.Context) error {
	var rows []reasonWithContext
	if err := reasonContextQuery().
		Where("attendance_reasons.status = ?", models.ReasonPending).
		Order("attendance_reasons.submitted_at DESC").
		Scan(&rows).Error; err != nil {
		return internalError(c, "reasons.pending", err)
	}
	return c.JSON(http.StatusOK, rows)
}

// GET /reasons/student/:student_id — เจ้าของเอง หรือ instructor/admin
func (h *ReasonHandler) ListByStudent(c echo.Context) error {
	studentID := c.Param("student_id")

	role := currentRole(c)
	if role != models.RoleInstructor && role != models.RoleAdmin {
		var caller models.User
		if err := database.DB.First(&caller, "id = ?", currentUserID(c)).Error; err != nil {
			return internalError(c, "reasons.by_student", err)
		}
		if caller.StudentID == nil || *caller.StudentID != studentID {
			return jsonError(c, http.StatusForbidden, errForbidden, "not your reasons")
		}
	}

	var rows []reasonWithContext
	if err := reasonContextQuery().
		Where("attendance_reasons.student_id = ?", studentID).
		Order("attendance_reasons.submitted_at DESC").
		Scan(&rows).Error; err != nil {
		return internalError(c, "reasons.by_student", err)
	}
	return c.JSON(http.StatusOK, rows)
}

// GET /reasons/:id
func (h *ReasonHandler) Get(c echo.Context) error {
	var row reasonWithContext
	err := reasonContextQuery().
		Where("attendance_reasons.id = ?", c.Param("id")).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return jsonError(c, http.StatusNotFound, errNotFound, "reason not found")
	}
	if err != nil {
		return internalError(c, "reasons.get", err)
	}
	return c.JSON(http.StatusOK, row)
}
