package config

import (
	"fmt"
	"log"
	"os"
	"time"
)

type Config struct {
	AppPort string
	AppEnv  string

	// DBDriver เลือกครั้งเดียวตอน start: "postgres" | "sqlite"
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	JWTSecret     string
	JWTExpirySecs int

	// Timezone ของสถานศึกษา ใช้คำนวณ "มาสาย" ทุกที่
	Timezone string
}

func get(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	var n int
	if _, err := fmt.Sscanf(v, "%d", &n); err != nil {
		return def
	}
	return n
}

func Load() *Config {
	return &Config{
		AppPort: get("APP_PORT", "8080"),
		AppEnv:  get("APP_ENV", "dev"),

		DBDriver:   get("DB_DRIVER", "sqlite"),
		DBHost:     get("DB_HOST", "localhost"),
		DBPort:     get("DB_PORT", "5432"),
		DBUser:     get("DB_USER", "postgres"),
		DBPassword: get("DB_PASSWORD", "postgres"),
		DBName:     get("DB_NAME", "attendance"),
		DBSSLMode:  get("DB_SSLMODE", "disable"),
		SQLitePath: get("SQLITE_PATH", "attendance.db"),

		JWTSecret:     get("JWT_SECRET", "dev-secret"),
		JWTExpirySecs: getInt("JWT_EXPIRATION", 3600),

		Timezone: get("APP_TIMEZONE", "UTC"),
	}
}

func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode, c.Timezone,
	)
}

// Location โหลด timezone ของสถานศึกษา; ตั้งผิดให้ตายตั้งแต่ start
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Fatalf("invalid APP_TIMEZONE %q: %v", c.Timezone, err)
	}
	return loc
}
