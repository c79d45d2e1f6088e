package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/confsched-api/internal/dto"
	"github.com/noah-isme/confsched-api/internal/service"
	appErrors "github.com/noah-isme/confsched-api/pkg/errors"
	"github.com/noah-isme/confsched-api/pkg/response"
)

// ScheduleHandler exposes schedule lifecycle and assignment endpoints.
type ScheduleHandler struct {
	schedules *service.ScheduleService
}

// NewScheduleHandler constructs ScheduleHandler.
func NewScheduleHandler(schedules *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{schedules: schedules}
}

// Create godoc
// @Summary Create schedule
// @Tags Schedules
// @Accept json
// @Produce json
// @Param id path string true "Meeting ID"
// @Param payload body dto.CreateScheduleRequest true "Schedule payload"
// @Success 201 {object} response.Envelope
// @Router /meetings/{id}/schedules [post]
func (h *ScheduleHandler) Create(c *gin.Context) {
	var req dto.CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	schedule, err := h.schedules.CreateSchedule(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, schedule)
}

// List godoc
// @Summary List meeting schedules
// @Tags Schedules
// @Produce json
// @Param id path string true "Meeting ID"
// @Success 200 {object} response.Envelope
// @Router /meetings/{id}/schedules [get]
func (h *ScheduleHandler) List(c *gin.Context) {
	schedules, err := h.schedules.ListSchedules(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedules, nil)
}

// Get godoc
// @Summary Get schedule
// @Tags Schedules
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id} [get]
func (h *ScheduleHandler) Get(c *gin.Context) {
	schedule, err := h.schedules.GetSchedule(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule, nil)
}

// Delete godoc
// @Summary Delete schedule
// @Tags Schedules
// @Param id path string true "Schedule ID"
// @Param owner query string true "Requesting owner"
// @Success 204
// @Router /schedules/{id} [delete]
func (h *ScheduleHandler) Delete(c *gin.Context) {
	if err := h.schedules.DeleteSchedule(c.Request.Context(), c.Param("id"), c.Query("owner")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Copy godoc
// @Summary Copy schedule
// @Description Clones a schedule, assignments and pins included, under a new owner and name.
// @Tags Schedules
// @Accept json
// @Produce json
// @Param id path string true "Source schedule ID"
// @Param payload body dto.CopyScheduleRequest true "Copy payload"
// @Success 201 {object} response.Envelope
// @Router /schedules/{id}/copy [post]
func (h *ScheduleHandler) Copy(c *gin.Context) {
	var req dto.CopyScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	schedule, err := h.schedules.CopySchedule(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, schedule)
}

// ListAssignments godoc
// @Summary List schedule assignment rows
// @Tags Schedules
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/assignments [get]
func (h *ScheduleHandler) ListAssignments(c *gin.Context) {
	rows, err := h.schedules.ListAssignments(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}

// Place godoc
// @Summary Place a session into a timeslot
// @Tags Schedules
// @Accept json
// @Produce json
// @Param id path string true "Schedule ID"
// @Param payload body dto.PlaceSessionRequest true "Placement payload"
// @Success 204
// @Router /schedules/{id}/place [put]
func (h *ScheduleHandler) Place(c *gin.Context) {
	var req dto.PlaceSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.schedules.PlaceSession(c.Request.Context(), c.Param("id"), req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Clear godoc
// @Summary Empty a timeslot
// @Tags Schedules
// @Accept json
// @Produce json
// @Param id path string true "Schedule ID"
// @Param payload body dto.ClearSlotRequest true "Clear payload"
// @Success 204
// @Router /schedules/{id}/clear [put]
func (h *ScheduleHandler) Clear(c *gin.Context) {
	var req dto.ClearSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.schedules.ClearSlot(c.Request.Context(), c.Param("id"), req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Backfill godoc
// @Summary Backfill missing timeslot rows
// @Tags Schedules
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/backfill [post]
func (h *ScheduleHandler) Backfill(c *gin.Context) {
	added, err := h.schedules.Backfill(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"added": added}, nil)
}

// SetAgenda godoc
// @Summary Designate the official agenda
// @Tags Schedules
// @Accept json
// @Produce json
// @Param id path string true "Meeting ID"
// @Param payload body dto.SetAgendaRequest true "Agenda payload"
// @Success 204
// @Router /meetings/{id}/agenda [put]
func (h *ScheduleHandler) SetAgenda(c *gin.Context) {
	var req dto.SetAgendaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.schedules.SetOfficialAgenda(c.Request.Context(), c.Param("id"), req.ScheduleID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
