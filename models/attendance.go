package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	AttendancePresent = "present"
	AttendanceAbsent  = "absent"
	AttendanceLate    = "late"
)

// บันทึกการเข้าเรียน 1 แถวต่อ (นักเรียน, คลาส, วัน) — unique ที่ชั้น DB
type Attendance struct {
	ID        string     `json:"id" gorm:"primaryKey;size:36"`
	StudentID string     `json:"student_id" gorm:"size:36;not null;uniqueIndex:ux_attendance_day;index"`
	ClassID   string     `json:"class_id" gorm:"size:36;not null;uniqueIndex:ux_attendance_day"`
	Date      string     `json:"date" gorm:"size:10;not null;uniqueIndex:ux_attendance_day"` // YYYY-MM-DD
	TimeIn    *time.Time `json:"time_in"`
	TimeOut   *time.Time `json:"time_out"`
	Status    string     `json:"status" gorm:"size:20;not null;default:'present'"` // present | absent | late
	Notes     string     `json:"notes" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Attendance) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
