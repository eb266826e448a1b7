package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/longstoryy/attendance-system/database"
	"github.com/longstoryy/attendance-system/lateness"
	"github.com/longstoryy/attendance-system/models"
)

type testValidator struct{ v *validator.Validate }

func (tv *testValidator) Validate(i any) error { return tv.v.Struct(i) }

type testEnv struct {
	e   *echo.Echo
	db  *gorm.DB
	loc *time.Location

	admin      models.User
	instructor models.User
	staff      models.User
	studentUsr models.User // บัญชีของ student
	student    models.Student
	other      models.Student // นักเรียนที่ studentUsr ไม่ได้เป็นเจ้าของ
	class      models.Class
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	database.DB = db

	e := echo.New()
	e.Validator = &testValidator{v: validator.New()}

	env := &testEnv{e: e, db: db, loc: time.UTC}

	env.class = models.Class{Name: "Algorithms", Code: "CS201", Instructor: "Dr. Chen"}
	require.NoError(t, db.Create(&env.class).Error)

	env.student = models.Student{Name: "Somchai J.", StudentNumber: "S-1001", Email: "somchai@example.com", ClassID: env.class.ID}
	require.NoError(t, db.Create(&env.student).Error)
	env.other = models.Student{Name: "Dana K.", StudentNumber: "S-1002", Email: "dana@example.com", ClassID: env.class.ID}
	require.NoError(t, db.Create(&env.other).Error)

	env.admin = models.User{Username: "admin", Email: "admin@example.com", PasswordHash: "x", Role: models.RoleAdmin, Name: "Admin", IsActive: true}
	env.instructor = models.User{Username: "chen", Email: "chen@example.com", PasswordHash: "x", Role: models.RoleInstructor, Name: "Dr. Chen", IsActive: true}
	env.staff = models.User{Username: "frontdesk", Email: "desk@example.com", PasswordHash: "x", Role: models.RoleStaff, Name: "Front Desk", IsActive: true}
	env.studentUsr = models.User{Username: "somchai", Email: "somchai.u@example.com", PasswordHash: "x", Role: models.RoleStudent, Name: "Somchai J.", StudentID: &env.student.ID, IsActive: true}
	for _, u := range []*models.User{&env.admin, &env.instructor, &env.staff, &env.studentUsr} {
		require.NoError(t, db.Create(u).Error)
	}

	return env
}

func (env *testEnv) attendanceHandler() *AttendanceHandler {
	return NewAttendanceHandler(env.loc, lateness.NewDetector(env.db, env.loc))
}

// สร้าง context พร้อม identity ของ user ที่เรียก (เหมือนผ่าน RequireAuth มาแล้ว)
func (env *testEnv) request(method, path string, body string, as *models.User) (echo.Context, *httptest.ResponseRecorder) {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := env.e.NewContext(req, rec)
	if as != nil {
		c.Set("user_id", as.ID)
		c.Set("role", as.Role)
		c.Set("name", as.Name)
	}
	return c, rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func errorKind(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	decodeBody(t, rec, &body)
	kind, _ := body["error"].(string)
	return kind
}

func timeNowIn(env *testEnv) time.Time { return time.Now().In(env.loc) }

func markAttendance(t *testing.T, env *testEnv, studentID, date, status string) models.Attendance {
	t.Helper()
	h := env.attendanceHandler()
	body := `{"student_id":"` + studentID + `","class_id":"` + env.class.ID + `","date":"` + date + `"`
	if status != "" {
		body += `,"status":"` + status + `"`
	}
	body += `}`
	c, rec := env.request(http.MethodPost, "/attendance/mark", body, &env.staff)
	require.NoError(t, h.Mark(c))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var out models.Attendance
	decodeBody(t, rec, &out)
	return out
}
