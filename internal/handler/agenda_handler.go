package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/confsched-api/internal/dto"
	appErrors "github.com/noah-isme/confsched-api/pkg/errors"
	"github.com/noah-isme/confsched-api/pkg/response"
)

type agendaService interface {
	Agenda(ctx context.Context, scheduleID string) (*dto.Agenda, error)
	OfficialAgenda(ctx context.Context, meetingID string) (*dto.Agenda, error)
	ExportCSV(ctx context.Context, scheduleID string) ([]byte, error)
	ExportPDF(ctx context.Context, scheduleID string) ([]byte, error)
}

// AgendaHandler exposes agenda views and exports.
type AgendaHandler struct {
	agenda agendaService
}

// NewAgendaHandler constructs AgendaHandler.
func NewAgendaHandler(agenda agendaService) *AgendaHandler {
	return &AgendaHandler{agenda: agenda}
}

// Agenda godoc
// @Summary Render a schedule as an agenda
// @Description Per-group placements plus the unplaced eligible groups.
// @Tags Agenda
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/agenda [get]
func (h *AgendaHandler) Agenda(c *gin.Context) {
	agenda, err := h.agenda.Agenda(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, agenda, nil)
}

// Official godoc
// @Summary Render the meeting's official agenda
// @Tags Agenda
// @Produce json
// @Param id path string true "Meeting ID"
// @Success 200 {object} response.Envelope
// @Router /meetings/{id}/agenda [get]
func (h *AgendaHandler) Official(c *gin.Context) {
	agenda, err := h.agenda.OfficialAgenda(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, agenda, nil)
}

// Export godoc
// @Summary Export an agenda as CSV or PDF
// @Tags Agenda
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Schedule ID"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Router /schedules/{id}/agenda/export [get]
func (h *AgendaHandler) Export(c *gin.Context) {
	id := c.Param("id")
	format := c.DefaultQuery("format", "csv")

	var (
		payload     []byte
		contentType string
		err         error
	)
	switch format {
	case "csv":
		payload, err = h.agenda.ExportCSV(c.Request.Context(), id)
		contentType = "text/csv"
	case "pdf":
		payload, err = h.agenda.ExportPDF(c.Request.Context(), id)
		contentType = "application/pdf"
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unsupported export format: "+format))
		return
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=agenda-%s.%s", id, format))
	c.Data(http.StatusOK, contentType, payload)
}
