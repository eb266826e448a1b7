package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ตารางเวลาเรียนต่อ (class, วันในสัปดาห์) — ใช้ตัดสิน "มาสาย"
// day_of_week: 0=อาทิตย์ .. 6=เสาร์ (ตรงกับ time.Weekday)
type ScheduleEntry struct {
	ID                   string    `gorm:"primaryKey;size:36" json:"id"`
	ClassID              string    `gorm:"size:36;not null;uniqueIndex:ux_schedule_class_day" json:"class_id"`
	DayOfWeek            int       `gorm:"not null;uniqueIndex:ux_schedule_class_day" json:"day_of_week"`
	StartTime            string    `gorm:"size:5;not null" json:"start_time"` // HH:MM
	EndTime              string    `gorm:"size:5;not null" json:"end_time"`   // HH:MM
	LateThresholdMinutes int       `gorm:"not null;default:15" json:"late_threshold_minutes"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

func (s *ScheduleEntry) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
