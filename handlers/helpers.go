package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// error kinds ให้ client เช็คได้ด้วยเครื่อง (ดูตาราง status ใน jsonError)
const (
	errValidation   = "VALIDATION_ERROR"
	errUnauthorized = "UNAUTHORIZED"
	errForbidden    = "FORBIDDEN"
	errNotFound     = "NOT_FOUND"
	errConflict     = "CONFLICT"
	errInternal     = "INTERNAL_ERROR"
)

// ทุก error ตอบ {"error": KIND, "message": ...} เสมอ
func jsonError(c echo.Context, status int, kind, msg string) error {
	return c.JSON(status, map[string]any{"error": kind, "message": msg})
}

// storage error → 500 ข้อความกลาง ๆ รายละเอียดจริงลง log เท่านั้น
func internalError(c echo.Context, op string, err error) error {
	log.Printf("[%s] storage error: %v", op, err)
	return jsonError(c, http.StatusInternalServerError, errInternal, "internal server error")
}

// อ่าน user_id/role ที่ middleware แนบไว้
func currentUserID(c echo.Context) string {
	id, _ := c.Get("user_id").(string)
	return id
}

func currentRole(c echo.Context) string {
	r, _ := c.Get("role").(string)
	return r
}

// แปลง string -> int; ถ้าแปลงไม่ได้ให้คืนค่าเริ่มต้น
func atoiOr(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
