package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/confsched-api/internal/dto"
	"github.com/noah-isme/confsched-api/internal/service"
	appErrors "github.com/noah-isme/confsched-api/pkg/errors"
	"github.com/noah-isme/confsched-api/pkg/response"
)

// ScoringHandler exposes badness scoring and optimizer endpoints.
type ScoringHandler struct {
	scoring   *service.ScoringService
	placement *service.PlacementService
}

// NewScoringHandler constructs ScoringHandler.
func NewScoringHandler(scoring *service.ScoringService, placement *service.PlacementService) *ScoringHandler {
	return &ScoringHandler{scoring: scoring, placement: placement}
}

// Badness godoc
// @Summary Score a schedule
// @Description Full badness report with a per-session breakdown. Served from cache unless force=true.
// @Tags Scoring
// @Produce json
// @Param id path string true "Schedule ID"
// @Param force query bool false "Bypass the cached report"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/badness [get]
func (h *ScoringHandler) Badness(c *gin.Context) {
	force, _ := strconv.ParseBool(c.DefaultQuery("force", "false"))
	report, err := h.scoring.Score(c.Request.Context(), c.Param("id"), force)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// WhatIf godoc
// @Summary Probe one hypothetical placement
// @Description Incremental cost of placing a session at a candidate slot, without touching the schedule.
// @Tags Scoring
// @Accept json
// @Produce json
// @Param id path string true "Schedule ID"
// @Param payload body dto.WhatIfRequest true "Probe payload"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/whatif [post]
func (h *ScoringHandler) WhatIf(c *gin.Context) {
	var req dto.WhatIfRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	resp, err := h.scoring.WhatIf(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}

// Rescore godoc
// @Summary Queue an async full rescore
// @Tags Scoring
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 202 {object} response.Envelope
// @Router /schedules/{id}/rescore [post]
func (h *ScoringHandler) Rescore(c *gin.Context) {
	if err := h.scoring.EnqueueRescore(c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, gin.H{"queued": true}, nil)
}

// Optimize godoc
// @Summary Run the placement optimizer
// @Description Local search over unpinned placements; commits the improved assignment unless dry_run is set.
// @Tags Scoring
// @Accept json
// @Produce json
// @Param id path string true "Schedule ID"
// @Param payload body dto.OptimizeRequest true "Optimizer payload"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/optimize [post]
func (h *ScoringHandler) Optimize(c *gin.Context) {
	var req dto.OptimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	resp, err := h.placement.Optimize(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}
