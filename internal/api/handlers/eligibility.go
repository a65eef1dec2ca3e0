package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eshaffer321/churnpilot-backend/internal/api/dto"
	"github.com/eshaffer321/churnpilot-backend/internal/domain/bonus"
	"github.com/eshaffer321/churnpilot-backend/internal/infrastructure/storage"
)

// EligibilityHandler serves rolling-window application standing (5/24).
type EligibilityHandler struct {
	repo   storage.Repository
	rule   bonus.Rule
	logger *slog.Logger
}

// NewEligibilityHandler creates an eligibility handler with the given rule.
func NewEligibilityHandler(repo storage.Repository, rule bonus.Rule, logger *slog.Logger) *EligibilityHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &EligibilityHandler{repo: repo, rule: rule, logger: logger}
}

// Get evaluates the portfolio against the rule as of the requested date.
func (h *EligibilityHandler) Get(c *gin.Context) {
	asOf, err := AsOf(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.BadRequestError(err.Error()))
		return
	}

	records, err := h.repo.ListCards()
	if err != nil {
		h.logger.Error("failed to list cards", "error", err)
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}

	st := h.rule.Evaluate(records, asOf)
	timeline := h.rule.Timeline(records, asOf)

	resp := dto.EligibilityResponse{
		Rule:          h.rule,
		Count:         st.Count,
		Limit:         h.rule.Limit,
		Standing:      string(st.Standing),
		Counted:       dto.NewCardResponses(st.Counted, asOf),
		Unverified:    dto.NewCardResponses(st.Unverified, asOf),
		DaysUntilDrop: st.DaysUntilDrop,
		Timeline:      make([]dto.DropOffResponse, 0, len(timeline)),
	}
	if st.NextDropOff != nil {
		resp.NextDropOff = st.NextDropOff.Format("2006-01-02")
	}
	for _, d := range timeline {
		resp.Timeline = append(resp.Timeline, dto.DropOffResponse{
			CardID:    d.Record.ID,
			CardName:  d.Record.Name,
			Date:      d.Date.Format("2006-01-02"),
			DaysUntil: d.DaysUntil,
		})
	}

	c.JSON(http.StatusOK, resp)
}
