package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	NotifyLateArrival    = "late_arrival"
	NotifyReasonSubmit   = "reason_submitted"
	NotifyReasonApproved = "reason_approved"
	NotifyReasonRejected = "reason_rejected"
)

// ข้อความแจ้งเตือนแบบ durable — client ดึงเอง (poll) ไม่มี push
// is_read เดินทางเดียว: unread → read
type Notification struct {
	ID               string     `json:"id" gorm:"primaryKey;size:36"`
	UserID           string     `json:"user_id" gorm:"size:36;not null;index"`
	AttendanceID     *string    `json:"attendance_id,omitempty" gorm:"size:36"`
	ReasonID         *string    `json:"reason_id,omitempty" gorm:"size:36"`
	NotificationType string     `json:"notification_type" gorm:"size:30;not null"`
	Message          string     `json:"message" gorm:"type:text;not null"`
	IsRead           bool       `json:"is_read" gorm:"not null;default:false"`
	ReadAt           *time.Time `json:"read_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}
