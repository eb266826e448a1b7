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

type ApprovalHandler struct{}

func NewApprovalHandler() *ApprovalHandler { return &ApprovalHandler{} }

// sentinel สำหรับ rollback เมื่อ reason โดนตัดสินไปแล้วระหว่างทาง
var errAlreadyDecided = errors.New("reason already decided")

type reviewReq struct {
	ReasonID      string `json:"reason_id" validate:"required"`
	Approved      *bool  `json:"approved" validate:"required"`
	ApprovalNotes string `json:"approval_notes"`
}

// POST /approvals/review — ตัดสิน reason ได้ครั้งเดียว
// insert approval + เปลี่ยนสถานะ reason อยู่ใน transaction เดียว ล้มที่ไหน rollback ทั้งหมด
func (h *ApprovalHandler) Review(c echo.Context) error {
	var req reviewReq
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, errValidation, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, errValidation, "reason_id and approved are required")
	}

	var reason models.AttendanceReason
	if err := database.DB.First(&reason, "id = ?", req.ReasonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, http.StatusNotFound, errNotFound, "reason not found")
		}
		return internalError(c, "approvals.review", err)
	}
	if reason.Status != models.ReasonPending {
		return jsonError(c, http.StatusConflict, errConflict, "reason has already been reviewed")
	}

	newStatus := models.ReasonRejected
	if *req.Approved {
		newStatus = models.ReasonApproved
	}

	approval := models.AttendanceApproval{
		ReasonID:      reason.ID,
		AttendanceID:  reason.AttendanceID,
		InstructorID:  currentUserID(c),
		Approved:      *req.Approved,
		ApprovalNotes: strings.TrimSpace(req.ApprovalNotes),
		ReviewedAt:    time.Now(),
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&approval).Error; err != nil {
			return err
		}
		// guarded update: แถวไม่ขยับ = มีคนตัดสินตัดหน้าไปแล้ว
		res := tx.Model(&models.AttendanceReason{}).
			Where("id = ? AND status = ?", reason.ID, models.ReasonPending).
			Update("status", newStatus)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errAlreadyDecided
		}
		// อนุมัติแล้วบันทึกไว้ที่ event ว่า excused (สถานะจริงแก้ผ่าน PUT /attendance/:id)
		if *req.Approved {
			note := fmt.Sprintf("excused (%s)", reason.ReasonType)
			if err := tx.Model(&models.Attendance{}).Where("id = ?", reason.AttendanceID).
				Update("notes", gorm.Expr("CASE WHEN notes = '' THEN ? ELSE notes || '; ' || ? END", note, note)).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, errAlreadyDecided) || errors.Is(err, gorm.ErrDuplicatedKey) {
		return jsonError(c, http.StatusConflict, errConflict, "reason has already been reviewed")
	}
	if err != nil {
		return internalError(c, "approvals.review", err)
	}

	// แจ้งผลให้บัญชีนักเรียน (นอก transaction — แจ้งพลาดไม่ทำให้ผลตัดสินหาย)
	ntype := models.NotifyReasonRejected
	verdict := "rejected"
	if *req.Approved {
		ntype = models.NotifyReasonApproved
		verdict = "approved"
	}
	msg := fmt.Sprintf("Your %s reason was %s", reason.ReasonType, verdict)
	if err := notifyStudentUser(database.DB, reason.StudentID, ntype, msg, &reason.AttendanceID, &reason.ID); err != nil {
		log.Printf("[approvals.review] notify failed: %v", err)
	}

	return c.JSON(http.StatusCreated, approval)
}

type approvalWithContext struct {
	ID             string    `json:"id"`
	ReasonID       string    `json:"reason_id"`
	AttendanceID   string    `json:"attendance_id"`
	InstructorID   string    `json:"instructor_id"`
	Approved       bool      `json:"approved"`
	ApprovalNotes  string    `json:"approval_notes"`
	ReviewedAt     time.Time `json:"reviewed_at"`
	InstructorName string    `json:"instructor_name,omitempty"`
	ReasonType     string    `json:"reason_type,omitempty"`
	ReasonText     string    `json:"reason_text,omitempty"`
	StudentName    string    `json:"student_name,omitempty"`
}

// GET /approvals/reason/:reason_id
func (h *ApprovalHandler) ListByReason(c echo.Context) error {
	var rows []approvalWithContext
	if err := database.DB.Model(&models.AttendanceApproval{}).
		Select(`attendance_approvals.id, attendance_approvals.reason_id, attendance_approvals.attendance_id,
			attendance_approvals.instructor_id, attendance_approvals.approved, attendance_approvals.approval_notes,
			attendance_approvals.reviewed_at, users.username AS instructor_name`).
		Joins("JOIN users ON users.id = attendance_approvals.instructor_id").
		Where("attendance_approvals.reason_id = ?", c.Param("reason_id")).
		Order("attendance_approvals.reviewed_at DESC").
		Scan(&rows).Error; err != nil {
		return internalError(c, "approvals.by_reason", err)
	}
	return c.JSON(http.StatusOK, rows)
}

// GET /approvals/instructor/:instructor_id
func (h *ApprovalHandler) ListByInstructor(c echo.Context) error {
	var rows []approvalWithContext
	if err := database.DB.Model(&models.AttendanceApproval{}).
		Select(`attendance_approvals.id, attendance_approvals.reason_id, attendance_approvals.attendance_id,
			attendance_approvals.instructor_id, attendance_approvals.approved, attendance_approvals.approval_notes,
			attendance_approvals.reviewed_at,
			attendance_reasons.reason_type, attendance_reasons.reason_text, students.name AS student_name`).
		Joins("JOIN attendance_reasons ON attendance_reasons.id = attendance_approvals.reason_id").
		Joins("JOIN students ON students.id = attendance_reasons.student_id").
		Where("attendance_approvals.instructor_id = ?", c.Param("instructor_id")).
		Order("attendance_approvals.reviewed_at DESC").
		Scan(&rows).Error; err != nil {
		return internalError(c, "approvals.by_instructor", err)
	}
	return c.JSON(http.StatusOK, rows)
}
