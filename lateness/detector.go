// Package lateness ตัดสินว่าการมาถึงครั้งหนึ่ง "สาย" หรือไม่ เทียบกับตารางเรียนของคลาส
package lateness

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/longstoryy/attendance-system/models"
)

// Classification ผลการตัดสิน หนึ่งใน 2 แบบ:
//   - Determined=false → ไม่มีตารางเรียนของ (class, weekday) ตัดสินไม่ได้ (ไม่ใช่ error
//     และห้ามตีความเป็น "ตรงเวลา")
//   - Determined=true  → IsLate บอกผล พร้อมข้อมูลขอบเขตที่ใช้คำนวณ
type Classification struct {
	Determined           bool       `json:"determined"`
	IsLate               bool       `json:"is_late"`
	ScheduleStart        *time.Time `json:"schedule_start,omitempty"`
	LateThresholdMinutes int        `json:"late_threshold_minutes,omitempty"`
	Arrival              time.Time  `json:"arrival"`
}

// Detector อ่าน ScheduleEntry จาก DB แล้วคำนวณล้วน ๆ ไม่มี side effect
// เวลาในตาราง (HH:MM) เป็นเวลาท้องถิ่นของสถานศึกษา → ต้องคำนวณใน loc เดียวกันเสมอ
type Detector struct {
	db  *gorm.DB
	loc *time.Location
}

func NewDetector(db *gorm.DB, loc *time.Location) *Detector {
	return &Detector{db: db, loc: loc}
}

// Classify หาตารางเรียนของ (classID, วันในสัปดาห์ของ arrival) แล้วเทียบกับ
// ขอบเขต start + threshold นาที; arrival หลังขอบเขต = สาย
func (d *Detector) Classify(classID string, arrival time.Time) (Classification, error) {
	local := arrival.In(d.loc)

	var entry models.ScheduleEntry
	err := d.db.Where("class_id = ? AND day_of_week = ?", classID, int(local.Weekday())).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Classification{Determined: false, Arrival: arrival}, nil
	}
	if err != nil {
		return Classification{}, err
	}

	var hh, mm int
	if _, err := fmt.Sscanf(entry.StartTime, "%d:%d", &hh, &mm); err != nil {
		return Classification{}, fmt.Errorf("bad start_time %q for schedule %s: %w", entry.StartTime, entry.ID, err)
	}

	start := time.Date(local.Year(), local.Month(), local.Day(), hh, mm, 0, 0, d.loc)
	boundary := start.Add(time.Duration(entry.LateThresholdMinutes) * time.Minute)

	return Classification{
		Determined:           true,
		IsLate:               arrival.After(boundary),
		ScheduleStart:        &start,
		LateThresholdMinutes: entry.LateThresholdMinutes,
		Arrival:              arrival,
	}, nil
}
