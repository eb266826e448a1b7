package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ReasonTypeLateArrival = "late_arrival"
	ReasonTypeAbsence     = "absence"
	ReasonTypeMedical     = "medical"
	ReasonTypeOther       = "other"

	ReasonPending  = "pending"
	ReasonApproved = "approved"
	ReasonRejected = "rejected"
)

// MaxReasonTextLen จำกัดความยาว reason_text ฝั่ง server
const MaxReasonTextLen = 500

// คำชี้แจงที่นักเรียนยื่นโต้แย้งผล late/absent ของตัวเอง
// เปลี่ยนสถานะได้ครั้งเดียว: pending → approved|rejected
type AttendanceReason struct {
	ID           string    `json:"id" gorm:"primaryKey;size:36"`
	AttendanceID string    `json:"attendance_id" gorm:"size:36;not null;index"`
	StudentID    string    `json:"student_id" gorm:"size:36;not null;index"`
	ReasonType   string    `json:"reason_type" gorm:"size:20;not null"` // late_arrival | absence | medical | other
	ReasonText   string    `json:"reason_text" gorm:"size:500;not null"`
	Status       string    `json:"status" gorm:"size:20;not null;default:'pending'"`
	SubmittedAt  time.Time `json:"submitted_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *AttendanceReason) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

func ValidReasonType(t string) bool {
	switch t {
	case ReasonTypeLateArrival, ReasonTypeAbsence, ReasonTypeMedical, ReasonTypeOther:
		return true
	}
	return false
}
