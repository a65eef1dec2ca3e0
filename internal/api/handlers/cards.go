package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/eshaffer321/churnpilot-backend/internal/api/dto"
	"github.com/eshaffer321/churnpilot-backend/internal/domain/card"
	"github.com/eshaffer321/churnpilot-backend/internal/domain/enrich"
	"github.com/eshaffer321/churnpilot-backend/internal/domain/period"
	"github.com/eshaffer321/churnpilot-backend/internal/infrastructure/storage"
)

// CardsHandler serves card CRUD plus benefit usage operations.
type CardsHandler struct {
	repo   storage.Repository
	merger *enrich.Merger
	logger *slog.Logger
}

// NewCardsHandler creates a cards handler.
func NewCardsHandler(repo storage.Repository, merger *enrich.Merger, logger *slog.Logger) *CardsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CardsHandler{repo: repo, merger: merger, logger: logger}
}

// List returns all cards decorated with computed state.
func (h *CardsHandler) List(c *gin.Context) {
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

	c.JSON(http.StatusOK, dto.NewCardResponses(records, asOf))
}

// Get returns one card by ID.
func (h *CardsHandler) Get(c *gin.Context) {
	asOf, err := AsOf(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.BadRequestError(err.Error()))
		return
	}

	rec, ok := h.loadCard(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, dto.NewCardResponse(rec, asOf))
}

// Create adds a new card. The record is enriched against the catalog
// before saving unless enrich=false is passed.
func (h *CardsHandler) Create(c *gin.Context) {
	asOf, err := AsOf(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.BadRequestError(err.Error()))
		return
	}

	var req dto.CardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ValidationError(err.Error()))
		return
	}

	rec, err := req.ToRecord(uuid.New().String())
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ValidationError(err.Error()))
		return
	}
	rec.CreatedAt = time.Now().UTC()

	if c.DefaultQuery("enrich", "true") != "false" {
		rec = h.merger.Enrich(rec).Record
	}

	if ok := h.saveCard(c, &rec); !ok {
		return
	}

	c.JSON(http.StatusCreated, dto.NewCardResponse(&rec, asOf))
}

// Update replaces a card's fields. Benefit usage state is carried over
// from the stored record; an update never silently resets tracking.
func (h *CardsHandler) Update(c *gin.Context) {
	asOf, err := AsOf(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.BadRequestError(err.Error()))
		return
	}

	existing, ok := h.loadCard(c)
	if !ok {
		return
	}

	var req dto.CardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ValidationError(err.Error()))
		return
	}

	rec, err := req.ToRecord(existing.ID)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ValidationError(err.Error()))
		return
	}
	rec.TemplateID = existing.TemplateID
	rec.Usage = existing.Usage
	rec.RawText = existing.RawText
	rec.CreatedAt = existing.CreatedAt

	if ok := h.saveCard(c, &rec); !ok {
		return
	}

	c.JSON(http.StatusOK, dto.NewCardResponse(&rec, asOf))
}

// Delete removes a card.
func (h *CardsHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.repo.DeleteCard(id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, dto.NotFoundError("card"))
			return
		}
		h.logger.Error("failed to delete card", "card_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}
	c.Status(http.StatusNoContent)
}

// Enrich re-runs catalog enrichment for one card.
func (h *CardsHandler) Enrich(c *gin.Context) {
	asOf, err := AsOf(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.BadRequestError(err.Error()))
		return
	}

	rec, ok := h.loadCard(c)
	if !ok {
		return
	}

	res := h.merger.Enrich(*rec)
	if res.Matched {
		if ok := h.saveCard(c, &res.Record); !ok {
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"matched":        res.Matched,
		"template_id":    res.TemplateID,
		"confidence":     res.Confidence,
		"benefits_added": res.BenefitsAdded,
		"card":           dto.NewCardResponse(&res.Record, asOf),
	})
}

// MarkUsed stamps a benefit as used for the current period and clears any
// snooze.
func (h *CardsHandler) MarkUsed(c *gin.Context) {
	h.mutateUsage(c, func(rec *card.Record, b *card.BenefitDefinition, asOf time.Time) {
		rec.SetUsage(b.Name, period.MarkUsed(b.Recurrence, asOf))
	})
}

// MarkUnused reverts a mistaken usage mark.
func (h *CardsHandler) MarkUnused(c *gin.Context) {
	h.mutateUsage(c, func(rec *card.Record, b *card.BenefitDefinition, _ time.Time) {
		rec.SetUsage(b.Name, period.MarkUnused(rec.UsageFor(b.Name)))
	})
}

// Snooze suppresses a benefit's reminder through a date.
func (h *CardsHandler) Snooze(c *gin.Context) {
	var req dto.SnoozeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ValidationError(err.Error()))
		return
	}
	until, err := time.Parse("2006-01-02", req.Until)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ValidationError("until: expected YYYY-MM-DD"))
		return
	}
	until = until.UTC()

	h.mutateUsage(c, func(rec *card.Record, b *card.BenefitDefinition, _ time.Time) {
		rec.SetUsage(b.Name, period.Snooze(rec.UsageFor(b.Name), until))
	})
}

// Unsnooze clears a snooze so reminders resume.
func (h *CardsHandler) Unsnooze(c *gin.Context) {
	h.mutateUsage(c, func(rec *card.Record, b *card.BenefitDefinition, _ time.Time) {
		rec.SetUsage(b.Name, period.Unsnooze(rec.UsageFor(b.Name)))
	})
}

// RecordSpend updates accrued spend toward the signup bonus.
func (h *CardsHandler) RecordSpend(c *gin.Context) {
	asOf, err := AsOf(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.BadRequestError(err.Error()))
		return
	}

	rec, ok := h.loadCard(c)
	if !ok {
		return
	}
	if rec.SignupBonus == nil {
		c.JSON(http.StatusBadRequest, dto.BadRequestError("card has no signup bonus"))
		return
	}

	var req dto.SpendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ValidationError(err.Error()))
		return
	}
	if req.AccruedSpend < 0 {
		c.JSON(http.StatusBadRequest, dto.ValidationError("accrued_spend must be non-negative"))
		return
	}

	rec.SignupBonus.AccruedSpend = req.AccruedSpend
	if ok := h.saveCard(c, rec); !ok {
		return
	}

	c.JSON(http.StatusOK, dto.NewCardResponse(rec, asOf))
}

// mutateUsage loads the card, locates the named benefit, applies fn, and
// saves. The benefit name comes from the path and matches case-insensitively.
func (h *CardsHandler) mutateUsage(c *gin.Context, fn func(*card.Record, *card.BenefitDefinition, time.Time)) {
	asOf, err := AsOf(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.BadRequestError(err.Error()))
		return
	}

	rec, ok := h.loadCard(c)
	if !ok {
		return
	}

	name := c.Param("benefit")
	var target *card.BenefitDefinition
	for i := range rec.Benefits {
		if strings.EqualFold(rec.Benefits[i].Name, name) {
			target = &rec.Benefits[i]
			break
		}
	}
	if target == nil {
		c.JSON(http.StatusNotFound, dto.NotFoundError("benefit"))
		return
	}

	fn(rec, target, asOf)

	if ok := h.saveCard(c, rec); !ok {
		return
	}

	c.JSON(http.StatusOK, dto.NewCardResponse(rec, asOf))
}

// loadCard fetches the card in the path, writing the error response on
// failure.
func (h *CardsHandler) loadCard(c *gin.Context) (*card.Record, bool) {
	id := c.Param("id")
	rec, err := h.repo.GetCard(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, dto.NotFoundError("card"))
			return nil, false
		}
		h.logger.Error("failed to load card", "card_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return nil, false
	}
	return rec, true
}

// saveCard persists the record, writing the error response on failure.
func (h *CardsHandler) saveCard(c *gin.Context, rec *card.Record) bool {
	if err := h.repo.SaveCard(rec); err != nil {
		h.logger.Error("failed to save card", "card_id", rec.ID, "error", err)
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return false
	}
	return true
}
