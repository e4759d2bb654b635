package handlers

import (
	"context"
	"net/http"

	"github.com/pratik-mahalle/trainhub/internal/api/dto"
	"github.com/pratik-mahalle/trainhub/internal/domain/sweep"
	"github.com/pratik-mahalle/trainhub/internal/pkg/logger"
	"github.com/pratik-mahalle/trainhub/internal/pkg/utils"
)

// Sweeper is the part of the expiration sweeper the API drives
type Sweeper interface {
	Run(ctx context.Context, trigger sweep.Trigger) (*sweep.Run, error)
	History(ctx context.Context, limit int) ([]*sweep.Run, error)
}

// SweepHandler exposes the expiration sweeper to operators
type SweepHandler struct {
	sweeper Sweeper
	logger  *logger.Logger
}

// NewSweepHandler creates a new sweep handler
func NewSweepHandler(sweeper Sweeper, log *logger.Logger) *SweepHandler {
	return &SweepHandler{
		sweeper: sweeper,
		logger:  log,
	}
}

// Trigger runs a sweep now and waits for it
// @Summary Trigger expiration sweep
// @Description Expire every ACTIVE subscription whose end date has passed. Per-row failures are counted, not fatal.
// @Tags Admin
// @Produce json
// @Success 200 {object} dto.SweepRunDTO "Completed run"
// @Failure 500 {object} utils.ErrorResponse "Sweep aborted"
// @Security BearerAuth
// @Router /admin/sweeps [post]
func (h *SweepHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	run, err := h.sweeper.Run(r.Context(), sweep.TriggerManual)
	if err != nil {
		h.logger.ErrorWithErr(err, "Manual sweep failed")
		utils.WriteServiceError(w, err, "Sweep failed")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, dto.NewSweepRunDTO(run))
}

// History lists recent sweeps, newest first
// @Summary List sweep runs
// @Tags Admin
// @Produce json
// @Param limit query int false "Maximum runs (default: 20, max: 100)"
// @Success 200 {array} dto.SweepRunDTO "Sweep runs"
// @Security BearerAuth
// @Router /admin/sweeps [get]
func (h *SweepHandler) History(w http.ResponseWriter, r *http.Request) {
	runs, err := h.sweeper.History(r.Context(), utils.ParseLimit(r))
	if err != nil {
		utils.WriteServiceError(w, err, "Failed to list sweep runs")
		return
	}

	dtos := make([]dto.SweepRunDTO, 0, len(runs))
	for _, run := range runs {
		dtos = append(dtos, dto.NewSweepRunDTO(run))
	}
	utils.WriteSuccess(w, http.StatusOK, dtos)
}
