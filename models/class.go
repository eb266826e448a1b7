package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Class struct {
	ID         string    `gorm:"primaryKey;size:36"          json:"id"`
	Name       string    `gorm:"size:120;not null"           json:"name"`
	Code       string    `gorm:"uniqueIndex;size:20;not null" json:"code"`
	Instructor string    `gorm:"size:120"                    json:"instructor"`
	Capacity   int       `gorm:"default:0"                   json:"capacity"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (cl *Class) BeforeCreate(tx *gorm.DB) error {
	if cl.ID == "" {
		cl.ID = uuid.NewString()
	}
	return nil
}
