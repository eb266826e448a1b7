package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ผลตัดสินของผู้ตรวจ 1 แถวต่อ 1 reason (unique ที่ชั้น DB)
// attendance_id เก็บซ้ำไว้เพื่อ query ฝั่งรายงานโดยไม่ต้อง join reason
type AttendanceApproval struct {
	ID            string    `json:"id" gorm:"primaryKey;size:36"`
	ReasonID      string    `json:"reason_id" gorm:"size:36;not null;uniqueIndex"`
	AttendanceID  string    `json:"attendance_id" gorm:"size:36;not null;index"`
	InstructorID  string    `json:"instructor_id" gorm:"size:36;not null;index"`
	Approved      bool      `json:"approved" gorm:"not null"`
	ApprovalNotes string    `json:"approval_notes" gorm:"type:text"`
	ReviewedAt    time.Time `json:"reviewed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *AttendanceApproval) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
