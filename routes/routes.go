package routes

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/longstoryy/attendance-system/config"
	"github.com/longstoryy/attendance-system/database"
	"github.com/longstoryy/attendance-system/handlers"
	"github.com/longstoryy/attendance-system/lateness"
	"github.com/longstoryy/attendance-system/middlewares"
	"github.com/longstoryy/attendance-system/models"
)

// Register ผูกทุก HTTP route
func Register(e *echo.Echo, cfg *config.Config) {
	loc := cfg.Location()
	det := lateness.NewDetector(database.DB, loc)

	// ===== Handlers (shared singletons) =====
	auth := handlers.NewAuthHandler(cfg.JWTSecret, time.Duration(cfg.JWTExpirySecs)*time.Second)
	std := handlers.NewStudentHandler()
	cls := handlers.NewClassHandler()
	sch := handlers.NewScheduleHandler()
	att := handlers.NewAttendanceHandler(loc, det)
	rsn := handlers.NewReasonHandler()
	apv := handlers.NewApprovalHandler()
	ntf := handlers.NewNotificationHandler()

	// ===== Public =====
	e.GET("/health", handlers.Health)
	e.POST("/auth/login", auth.Login)

	// ===== Authenticated =====
	authMW := middlewares.RequireAuth(cfg.JWTSecret)
	api := e.Group("", authMW)

	api.GET("/auth/me", auth.Me)

	// Attendance (ใครก็ได้ที่ login แล้ว; เครื่องสแกนใช้บัญชี staff)
	api.POST("/attendance/mark", att.Mark)
	api.POST("/attendance/scan", att.Scan)
	api.GET("/attendance", att.List)
	api.GET("/attendance/summary/:student_id", att.Summary)
	api.PUT("/attendance/:id", att.Update)

	// Reasons — submit เช็คความเป็นเจ้าของใน handler
	api.POST("/reasons/submit", rsn.Submit)
	api.GET("/reasons/student/:student_id", rsn.ListByStudent)
	api.GET("/reasons/:id", rsn.Get)

	// Reviewer scope
	reviewer := api.Group("", middlewares.RequireRole(models.RoleInstructor, models.RoleAdmin))
	reviewer.GET("/reasons/pending", rsn.ListPending)
	reviewer.POST("/approvals/review", apv.Review)
	reviewer.GET("/approvals/reason/:reason_id", apv.ListByReason)
	reviewer.GET("/approvals/instructor/:instructor_id", apv.ListByInstructor)

	// Notifications — ของผู้เรียกเอง
	api.GET("/notifications", ntf.List)
	api.GET("/notifications/count/unread", ntf.UnreadCount)
	api.PUT("/notifications/read-all", ntf.MarkAllRead)
	api.PUT("/notifications/:id/read", ntf.MarkRead)
	api.DELETE("/notifications/:id", ntf.Delete)

	// Students / Classes — อ่านได้ทุก role, เขียนเฉพาะ admin/staff
	api.GET("/students", std.List)
	api.GET("/students/:id", std.Get)
	api.GET("/classes", cls.List)
	api.GET("/classes/:id", cls.Get)
	api.GET("/classes/:id/schedule", sch.ListForClass)

	staff := api.Group("", middlewares.RequireRole(models.RoleAdmin, models.RoleStaff))
	staff.POST("/students", std.Create)
	staff.PUT("/students/:id", std.Update)
	staff.DELETE("/students/:id", std.Delete)
	staff.POST("/classes", cls.Create)
	staff.PUT("/classes/:id", cls.Update)
	staff.DELETE("/classes/:id", cls.Delete)

	// Schedule registry — admin เท่านั้น
	admin := api.Group("", middlewares.RequireRole(models.RoleAdmin))
	admin.POST("/classes/:id/schedule", sch.Create)
	admin.PUT("/schedules/:id", sch.Update)
	admin.DELETE("/schedules/:id", sch.Delete)
}
