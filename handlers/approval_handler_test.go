package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/longstoryy/attendance-system/models"
)

func TestReviewApprove(t *testing.T) {
	env := newTestEnv(t)
	h := NewApprovalHandler()
	event := markAttendance(t, env, env.student.ID, "2024-03-01", "late")
	_, reason := submitReason(t, env, event.ID, &env.studentUsr)

	c, rr := env.request(http.MethodPost, "/approvals/review",
		`{"reason_id":"`+reason.ID+`","approved":true,"approval_notes":"ok"}`, &env.instructor)
	require.NoError(t, h.Review(c))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var approval models.AttendanceApproval
	decodeBody(t, rr, &approval)
	require.True(t, approval.Approved)
	require.Equal(t, reason.ID, approval.ReasonID)
	require.Equal(t, event.ID, approval.AttendanceID)
	require.Equal(t, env.instructor.ID, approval.InstructorID)
	require.Equal(t, "ok", approval.ApprovalNotes)
	require.False(t, approval.ReviewedAt.IsZero())

	// reason เปลี่ยนเป็น approved
	var got models.AttendanceReason
	require.NoError(t, env.db.First(&got, "id = ?", reason.ID).Error)
	require.Equal(t, models.ReasonApproved, got.Status)

	// event ถูก note ว่า excused
	var ev models.Attendance
	require.NoError(t, env.db.First(&ev, "id = ?", event.ID).Error)
	require.Contains(t, ev.Notes, "excused (medical)")

	// บัญชีนักเรียนได้แจ้งผล
	var notes []models.Notification
	require.NoError(t, env.db.Where("user_id = ? AND notification_type = ?",
		env.studentUsr.ID, models.NotifyReasonApproved).Find(&notes).Error)
	require.Len(t, notes, 1)
}

func TestReviewReject(t *testing.T) {
	env := newTestEnv(t)
	h := NewApprovalHandler()
	event := markAttendance(t, env, env.student.ID, "2024-03-01", "absent")
	_, reason := submitReason(t, env, event.ID, &env.studentUsr)

	c, rr := env.request(http.MethodPost, "/approvals/review",
		`{"reason_id":"`+reason.ID+`","approved":false,"approval_notes":"no document"}`, &env.instructor)
	require.NoError(t, h.Review(c))
	require.Equal(t, http.StatusCreated, rr.Code)

	var got models.AttendanceReason
	require.NoError(t, env.db.First(&got, "id = ?", reason.ID).Error)
	require.Equal(t, models.ReasonRejected, got.Status)

	// ปฏิเสธ → ไม่แตะ notes ของ event
	var ev models.Attendance
	require.NoError(t, env.db.First(&ev, "id = ?", event.ID).Error)
	require.Empty(t, ev.Notes)

	var notes []models.Notification
	require.NoError(t, env.db.Where("user_id = ? AND notification_type = ?",
		env.studentUsr.ID, models.NotifyReasonRejected).Find(&notes).Error)
	require.Len(t, notes, 1)
}

func TestReviewTerminality(t *testing.T) {
	env := newTestEnv(t)
	h := NewApprovalHandler()
	event := markAttendance(t, env, env.student.ID, "2024-03-01", "late")
	_, reason := submitReason(t, env, event.ID, &env.studentUsr)

	c, rr := env.request(http.MethodPost, "/approvals/review",
		`{"reason_id":"`+reason.ID+`","approved":true}`, &env.instructor)
	require.NoError(t, h.Review(c))
	require.Equal(t, http.StatusCreated, rr.Code)

	// review ซ้ำ (พลิกผล) → 409 และสถานะเดิมอยู่
	c, rr = env.request(http.MethodPost, "/approvals/review",
		`{"reason_id":"`+reason.ID+`","approved":false}`, &env.admin)
	require.NoError(t, h.Review(c))
	require.Equal(t, http.StatusConflict, rr.Code)
	require.Equal(t, "CONFLICT", errorKind(t, rr))

	var got models.AttendanceReason
	require.NoError(t, env.db.First(&got, "id = ?", reason.ID).Error)
	require.Equal(t, models.ReasonApproved, got.Status)

	// มี approval แถวเดียวต่อ reason
	var n int64
	env.db.Model(&models.AttendanceApproval{}).Where("reason_id = ?", reason.ID).Count(&n)
	require.EqualValues(t, 1, n)
}

func TestReviewValidation(t *testing.T) {
	env := newTestEnv(t)
	h := NewApprovalHandler()

	// reason ไม่มีจริง → 404
	c, rr := env.request(http.MethodPost, "/approvals/review",
		`{"reason_id":"nope","approved":true}`, &env.instructor)
	require.NoError(t, h.Review(c))
	require.Equal(t, http.StatusNotFound, rr.Code)

	// approved หายไป → 400
	c, rr = env.request(http.MethodPost, "/approvals/review",
		`{"reason_id":"whatever"}`, &env.instructor)
	require.NoError(t, h.Review(c))
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestListApprovals(t *testing.T) {
	env := newTestEnv(t)
	h := NewApprovalHandler()
	event := markAttendance(t, env, env.student.ID, "2024-03-01", "late")
	_, reason := submitReason(t, env, event.ID, &env.studentUsr)

	c, _ := env.request(http.MethodPost, "/approvals/review",
		`{"reason_id":"`+reason.ID+`","approved":true}`, &env.instructor)
	require.NoError(t, h.Review(c))

	c, rr := env.request(http.MethodGet, "/approvals/reason/"+reason.ID, "", &env.admin)
	c.SetParamNames("reason_id")
	c.SetParamValues(reason.ID)
	require.NoError(t, h.ListByReason(c))
	var rows []approvalWithContext
	decodeBody(t, rr, &rows)
	require.Len(t, rows, 1)
	require.Equal(t, "chen", rows[0].InstructorName)

	c, rr = env.request(http.MethodGet, "/approvals/instructor/"+env.instructor.ID, "", &env.admin)
	c.SetParamNames("instructor_id")
	c.SetParamValues(env.instructor.ID)
	require.NoError(t, h.ListByInstructor(c))
	rows = nil
	decodeBody(t, rr, &rows)
	require.Len(t, rows, 1)
	require.Equal(t, "medical", rows[0].ReasonType)
	require.Equal(t, "Somchai J.", rows[0].StudentName)
}
