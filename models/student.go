package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Student struct {
	ID            string    `gorm:"primaryKey;size:36"           json:"id"`
	Name          string    `gorm:"size:120;not null"            json:"name"`
	Email         string    `gorm:"uniqueIndex;size:120"         json:"email"`
	StudentNumber string    `gorm:"uniqueIndex;size:20;not null" json:"student_number"` // รหัสนักเรียน (แสดงในตาราง/สแกน)
	ClassID       string    `gorm:"size:36;index"                json:"class_id"`
	QRCode        string    `gorm:"size:255"                     json:"qr_code"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (s *Student) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
