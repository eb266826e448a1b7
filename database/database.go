package database

import (
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/longstoryy/attendance-system/config"
	"github.com/longstoryy/attendance-system/models"
)

var DB *gorm.DB

// Connect เปิด DB ตาม driver ที่ config เลือก (postgres หรือ sqlite)
// TranslateError: true → unique violation กลายเป็น gorm.ErrDuplicatedKey เหมือนกันทุก backend
func Connect(cfg *config.Config) {
	var dial gorm.Dialector
	switch cfg.DBDriver {
	case "postgres":
		dial = postgres.Open(cfg.DSN())
	case "sqlite":
		dial = sqlite.Open(cfg.SQLitePath)
	default:
		log.Fatalf("unsupported DB_DRIVER %q (postgres|sqlite)", cfg.DBDriver)
	}

	db, err := gorm.Open(dial, &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	DB = db

	if err := Migrate(DB); err != nil {
		log.Fatalf("auto migrate failed: %v", err)
	}
}

// Migrate แยกออกมาให้ test เรียกกับ DB ของตัวเองได้
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Student{},
		&models.Class{},
		&models.ScheduleEntry{},
		&models.Attendance{},
		&models.AttendanceReason{},
		&models.AttendanceApproval{},
		&models.Notification{},
	)
}
