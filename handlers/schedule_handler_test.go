package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/longstoryy/attendance-system/models"
)

func createSchedule(t *testing.T, env *testEnv, body string) (*models.ScheduleEntry, int) {
	t.Helper()
	h := NewScheduleHandler()
	c, rr := env.request(http.MethodPost, "/classes/"+env.class.ID+"/schedule", body, &env.admin)
	c.SetParamNames("id")
	c.SetParamValues(env.class.ID)
	require.NoError(t, h.Create(c))
	if rr.Code != http.StatusCreated {
		return nil, rr.Code
	}
	var out models.ScheduleEntry
	decodeBody(t, rr, &out)
	return &out, rr.Code
}

func TestCreateSchedule(t *testing.T) {
	env := newTestEnv(t)

	entry, code := createSchedule(t, env, `{"day_of_week":1,"start_time":"09:00","end_time":"10:30"}`)
	require.Equal(t, http.StatusCreated, code)
	require.Equal(t, 15, entry.LateThresholdMinutes) // default

	// วันเดียวกัน class เดียวกันซ้ำ → 409
	_, code = createSchedule(t, env, `{"day_of_week":1,"start_time":"13:00","end_time":"14:30"}`)
	require.Equal(t, http.StatusConflict, code)

	// วันอื่นได้
	entry, code = createSchedule(t, env, `{"day_of_week":2,"start_time":"09:00","end_time":"10:30","late_threshold_minutes":5}`)
	require.Equal(t, http.StatusCreated, code)
	require.Equal(t, 5, entry.LateThresholdMinutes)

	// day_of_week นอกช่วง → 400
	_, code = createSchedule(t, env, `{"day_of_week":7,"start_time":"09:00","end_time":"10:30"}`)
	require.Equal(t, http.StatusBadRequest, code)

	// เวลาไม่ใช่ HH:MM → 400
	_, code = createSchedule(t, env, `{"day_of_week":3,"start_time":"9am","end_time":"10:30"}`)
	require.Equal(t, http.StatusBadRequest, code)
}

func TestUpdateAndDeleteSchedule(t *testing.T) {
	env := newTestEnv(t)
	h := NewScheduleHandler()

	entry, _ := createSchedule(t, env, `{"day_of_week":1,"start_time":"09:00","end_time":"10:30"}`)

	c, rr := env.request(http.MethodPut, "/schedules/"+entry.ID,
		`{"day_of_week":1,"start_time":"09:30","end_time":"11:00","late_threshold_minutes":10}`, &env.admin)
	c.SetParamNames("id")
	c.SetParamValues(entry.ID)
	require.NoError(t, h.Update(c))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var got models.ScheduleEntry
	require.NoError(t, env.db.First(&got, "id = ?", entry.ID).Error)
	require.Equal(t, "09:30", got.StartTime)
	require.Equal(t, 10, got.LateThresholdMinutes)

	c, rr = env.request(http.MethodDelete, "/schedules/"+entry.ID, "", &env.admin)
	c.SetParamNames("id")
	c.SetParamValues(entry.ID)
	require.NoError(t, h.Delete(c))
	require.Equal(t, http.StatusOK, rr.Code)

	c, rr = env.request(http.MethodDelete, "/schedules/"+entry.ID, "", &env.admin)
	c.SetParamNames("id")
	c.SetParamValues(entry.ID)
	require.NoError(t, h.Delete(c))
	require.Equal(t, http.StatusNotFound, rr.Code)
}
