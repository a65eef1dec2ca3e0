package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/eshaffer321/churnpilot-backend/internal/adapters/extraction"
	"github.com/eshaffer321/churnpilot-backend/internal/api/dto"
	"github.com/eshaffer321/churnpilot-backend/internal/application/importer"
	"github.com/eshaffer321/churnpilot-backend/internal/domain/card"
	"github.com/eshaffer321/churnpilot-backend/internal/domain/enrich"
	"github.com/eshaffer321/churnpilot-backend/internal/infrastructure/storage"
)

// ImportHandler serves spreadsheet import and offer-text extraction.
// Both need a configured chat client; without one the endpoints answer
// 503 instead of failing deep in a request.
type ImportHandler struct {
	importer  *importer.Importer
	extractor *extraction.Extractor
	repo      storage.Repository
	merger    *enrich.Merger
	logger    *slog.Logger
}

// NewImportHandler creates an import handler. importer and extractor may
// be nil when no API key is configured.
func NewImportHandler(im *importer.Importer, ex *extraction.Extractor, repo storage.Repository, merger *enrich.Merger, logger *slog.Logger) *ImportHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ImportHandler{importer: im, extractor: ex, repo: repo, merger: merger, logger: logger}
}

// Import parses spreadsheet content via the chat model and imports the
// resulting cards.
func (h *ImportHandler) Import(c *gin.Context) {
	if h.importer == nil {
		c.JSON(http.StatusServiceUnavailable, dto.UnavailableError("import requires an OpenAI API key"))
		return
	}

	var req dto.ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ValidationError(err.Error()))
		return
	}

	skipClosed := true
	if req.SkipClosed != nil {
		skipClosed = *req.SkipClosed
	}

	report, err := h.importer.Import(c.Request.Context(), req.Content, skipClosed)
	if err != nil {
		h.logger.Error("import failed", "error", err)
		c.JSON(http.StatusBadGateway, dto.NewAPIError("import_failed", err.Error()))
		return
	}

	c.JSON(http.StatusOK, report)
}

// Extract turns raw offer text into structured card data. With save=true
// the extracted card is enriched and persisted.
func (h *ImportHandler) Extract(c *gin.Context) {
	if h.extractor == nil {
		c.JSON(http.StatusServiceUnavailable, dto.UnavailableError("extraction requires an OpenAI API key"))
		return
	}

	asOf, err := AsOf(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.BadRequestError(err.Error()))
		return
	}

	var req dto.ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ValidationError(err.Error()))
		return
	}

	data, err := h.extractor.ExtractFromText(c.Request.Context(), req.Text)
	if err != nil {
		h.logger.Error("extraction failed", "error", err)
		c.JSON(http.StatusBadGateway, dto.NewAPIError("extraction_failed", err.Error()))
		return
	}

	if !req.Save {
		c.JSON(http.StatusOK, data)
		return
	}

	rec := card.Record{ID: uuid.New().String(), CreatedAt: time.Now().UTC()}
	data.ApplyTo(&rec, req.Text)
	rec = h.merger.Enrich(rec).Record

	if err := h.repo.SaveCard(&rec); err != nil {
		h.logger.Error("failed to save extracted card", "error", err)
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}

	c.JSON(http.StatusCreated, dto.NewCardResponse(&rec, asOf))
}

// EnrichAll re-runs catalog enrichment over every stored card.
func (h *ImportHandler) EnrichAll(c *gin.Context) {
	records, err := h.repo.ListCards()
	if err != nil {
		h.logger.Error("failed to list cards", "error", err)
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}

	enriched, report := h.merger.EnrichAll(records)
	for i := range enriched {
		if err := h.repo.SaveCard(&enriched[i]); err != nil {
			h.logger.Error("failed to save enriched card", "card_id", enriched[i].ID, "error", err)
			c.JSON(http.StatusInternalServerError, dto.InternalError())
			return
		}
	}

	c.JSON(http.StatusOK, report)
}
