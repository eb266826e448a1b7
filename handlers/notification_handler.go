package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/longstoryy/attendance-system/database"
	"github.com/longstoryy/attendance-system/models"
)

type NotificationHandler struct{}

func NewNotificationHandler() *NotificationHandler { return &NotificationHandler{} }

// Notify สร้างแถวแจ้งเตือนให้ user ปลายทาง (workflow step อื่น ๆ เรียกใช้)
// recipient ไม่มีอยู่จริง → gorm.ErrRecordNotFound
func Notify(db *gorm.DB, userID, notificationType, message string, attendanceID, reasonID *string) (*models.Notification, error) {
	var u models.User
	if err := db.Select("id").First(&u, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	n := models.Notification{
		UserID:           userID,
		AttendanceID:     attendanceID,
		ReasonID:         reasonID,
		NotificationType: notificationType,
		Message:          message,
	}
	if err := db.Create(&n).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

// notifyReviewers แจ้ง instructor/admin ทุกคน (เช่น มี reason ใหม่เข้าคิว)
func notifyReviewers(db *gorm.DB, notificationType, message string, attendanceID, reasonID *string) error {
	var reviewers []models.User
	if err := db.Where("role IN ? AND is_active = ?", []string{models.RoleInstructor, models.RoleAdmin}, true).
		Find(&reviewers).Error; err != nil {
		return err
	}
	for _, r := range reviewers {
		if _, err := Notify(db, r.ID, notificationType, message, attendanceID, reasonID); err != nil {
			return err
		}
	}
	return nil
}

// notifyStudentUser แจ้งบัญชีผู้ใช้ของนักเรียนคนนั้น ถ้ามี (ไม่มีบัญชี = ข้ามเฉย ๆ)
func notifyStudentUser(db *gorm.DB, studentID, notificationType, message string, attendanceID, reasonID *string) error {
	var u models.User
	err := db.Where("student_id = ?", studentID).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	_, err = Notify(db, u.ID, notificationType, message, attendanceID, reasonID)
	return err
}

// GET /notifications?unread_only=true — ของผู้เรียกเอง ใหม่สุดก่อน limit 50
func (h *NotificationHandler) List(c echo.Context) error {
	userID := currentUserID(c)
	limit := atoiOr(c.QueryParam("limit"), 50)
	if limit < 1 || limit > 50 {
		limit = 50
	}

	tx := database.DB.Where("user_id = ?", userID)
	if c.QueryParam("unread_only") == "true" {
		tx = tx.Where("is_read = ?", false)
	}

	var rows []models.Notification
	if err := tx.Order("created_at DESC").Limit(limit).Find(&rows).Error; err != nil {
		return internalError(c, "notifications.list", err)
	}
	return c.JSON(http.StatusOK, rows)
}

// GET /notifications/count/unread
func (h *NotificationHandler) UnreadCount(c echo.Context) error {
	var n int64
	if err := database.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", currentUserID(c), false).Count(&n).Error; err != nil {
		return internalError(c, "notifications.count", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"unread_count": n})
}

// PUT /notifications/:id/read — อ่านแล้วอ่านซ้ำ = no-op
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	var row models.Notification
	if err := database.DB.First(&row, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, http.StatusNotFound, errNotFound, "notification not found")
		}
		return internalError(c, "notifications.read", err)
	}
	if row.UserID != currentUserID(c) {
		return jsonError(c, http.StatusForbidden, errForbidden, "not your notification")
	}
	if !row.IsRead {
		now := time.Now()
		if err := database.DB.Model(&row).
			Updates(map[string]any{"is_read": true, "read_at": &now}).Error; err != nil {
			return internalError(c, "notifications.read", err)
		}
		row.IsRead = true
		row.ReadAt = &now
	}
	return c.JSON(http.StatusOK, row)
}

// PUT /notifications/read-all
func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	now := time.Now()
	if err := database.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", currentUserID(c), false).
		Updates(map[string]any{"is_read": true, "read_at": &now}).Error; err != nil {
		return internalError(c, "notifications.read_all", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"message": "All notifications marked as read"})
}

// DELETE /notifications/:id — ลบได้เฉพาะเจ้าของ
func (h *NotificationHandler) Delete(c echo.Context) error {
	var row models.Notification
	if err := database.DB.First(&row, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, http.StatusNotFound, errNotFound, "notification not found")
		}
		return internalError(c, "notifications.delete", err)
	}
	if row.UserID != currentUserID(c) {
		return jsonError(c, http.StatusForbidden, errForbidden, "not your notification")
	}
	if err := database.DB.Delete(&row).Error; err != nil {
		return internalError(c, "notifications.delete", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"message": "Notification deleted"})
}
