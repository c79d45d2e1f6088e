package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/confsched-api/internal/dto"
	appErrors "github.com/noah-isme/confsched-api/pkg/errors"
)

type agendaServiceMock struct {
	agenda *dto.Agenda
	csv    []byte
	pdf    []byte
	err    error
}

func (m *agendaServiceMock) Agenda(ctx context.Context, scheduleID string) (*dto.Agenda, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.agenda, nil
}

func (m *agendaServiceMock) OfficialAgenda(ctx context.Context, meetingID string) (*dto.Agenda, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.agenda, nil
}

func (m *agendaServiceMock) ExportCSV(ctx context.Context, scheduleID string) ([]byte, error) {
	return m.csv, m.err
}

func (m *agendaServiceMock) ExportPDF(ctx context.Context, scheduleID string) ([]byte, error) {
	return m.pdf, m.err
}

func testAgenda() *dto.Agenda {
	return &dto.Agenda{
		ScheduleID: "sched-1",
		MeetingID:  "meeting-1",
		Groups: map[string][]dto.AgendaRow{
			"alpha": {{
				Group:       "alpha",
				SessionID:   "sess-1",
				TimeSlotID:  "slot-1",
				SlotName:    "Morning I",
				Room:        "Hall A",
				StartTime:   time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
				DurationMin: 120,
			}},
		},
		Unplaced: []string{"beta"},
	}
}

func TestAgendaHandlerAgenda(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewAgendaHandler(&agendaServiceMock{agenda: testAgenda()})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/schedules/sched-1/agenda", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "sched-1"}}

	h.Agenda(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"unplaced_groups":["beta"]`)
	assert.Contains(t, w.Body.String(), "Hall A")
}

func TestAgendaHandlerAgendaNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewAgendaHandler(&agendaServiceMock{err: appErrors.ErrNotFound})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/schedules/missing/agenda", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	h.Agenda(c)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_FOUND")
}

func TestAgendaHandlerExportCSV(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewAgendaHandler(&agendaServiceMock{csv: []byte("Group,Day\nalpha,Mon\n")})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/schedules/sched-1/agenda/export?format=csv", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "sched-1"}}

	h.Export(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "agenda-sched-1.csv")
	assert.Contains(t, w.Body.String(), "alpha")
}

func TestAgendaHandlerExportUnknownFormat(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewAgendaHandler(&agendaServiceMock{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/schedules/sched-1/agenda/export?format=xlsx", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "sched-1"}}

	h.Export(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
