package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eshaffer321/churnpilot-backend/internal/api/dto"
	"github.com/eshaffer321/churnpilot-backend/internal/domain/catalog"
	"github.com/eshaffer321/churnpilot-backend/internal/domain/matcher"
)

// TemplatesHandler serves the card catalog and match previews.
type TemplatesHandler struct {
	catalog *catalog.Catalog
	matcher *matcher.Matcher
}

// NewTemplatesHandler creates a templates handler.
func NewTemplatesHandler(cat *catalog.Catalog, m *matcher.Matcher) *TemplatesHandler {
	return &TemplatesHandler{catalog: cat, matcher: m}
}

// List returns every template in catalog order.
func (h *TemplatesHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.All())
}

// Get returns one template by ID.
func (h *TemplatesHandler) Get(c *gin.Context) {
	tpl := h.catalog.Get(c.Param("id"))
	if tpl == nil {
		c.JSON(http.StatusNotFound, dto.NotFoundError("template"))
		return
	}
	c.JSON(http.StatusOK, tpl)
}

// Match previews what the matcher would do for a card name without
// creating or changing anything.
func (h *TemplatesHandler) Match(c *gin.Context) {
	query := c.Query("name")
	if query == "" {
		c.JSON(http.StatusBadRequest, dto.BadRequestError("name query parameter is required"))
		return
	}
	issuer := c.Query("issuer")

	results := h.matcher.Match(query, issuer)
	resp := dto.MatchPreviewResponse{
		Query:   query,
		Issuer:  issuer,
		Matches: make([]dto.MatchCandidate, 0, len(results)),
	}
	for _, r := range results {
		candidate := dto.MatchCandidate{
			TemplateID: r.TemplateID,
			Confidence: r.Confidence,
			Tier:       string(r.Tier),
		}
		if tpl := h.catalog.Get(r.TemplateID); tpl != nil {
			candidate.TemplateName = tpl.Name
			candidate.Issuer = tpl.Issuer
		}
		resp.Matches = append(resp.Matches, candidate)
	}
	if len(resp.Matches) > 0 {
		resp.Best = &resp.Matches[0]
	}

	c.JSON(http.StatusOK, resp)
}
