package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/unifiedui/card-service/internal/api/dto"
	"github.com/unifiedui/card-service/internal/api/middleware"
	domainerrors "github.com/unifiedui/card-service/internal/domain/errors"
	"github.com/unifiedui/card-service/internal/domain/models"
	"github.com/unifiedui/card-service/internal/services/recipients"
)

// CatalogHandler serves the static lookups the card form needs.
type CatalogHandler struct {
	directory recipients.Directory
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(directory recipients.Directory) *CatalogHandler {
	return &CatalogHandler{directory: directory}
}

// GetStyles handles GET /styles
// @Summary List styles
// @Description Returns the supported text and image styles
// @Tags Catalog
// @Produce json
// @Success 200 {object} dto.StylesResponse
// @Router /api/v1/card-service/styles [get]
func (h *CatalogHandler) GetStyles(c *gin.Context) {
	c.JSON(http.StatusOK, dto.StylesResponse{
		TextStyles:  models.TextStyles,
		ImageStyles: models.ImageStyles,
	})
}

// SearchRecipients handles GET /recipients
// @Summary Search recipients
// @Description Returns recipients whose full name contains the query
// @Tags Catalog
// @Produce json
// @Param q query string false "Name fragment"
// @Param limit query int false "Maximum number of results" default(20) minimum(1) maximum(100)
// @Success 200 {object} dto.RecipientsResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/card-service/recipients [get]
func (h *CatalogHandler) SearchRecipients(c *gin.Context) {
	var req dto.SearchRecipientsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleError(c, domainerrors.NewValidationError("invalid query parameters", err.Error()))
		return
	}

	found, err := h.directory.Search(c.Request.Context(), req.Query, req.Limit)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.RecipientsResponse{
		Recipients: found,
		Total:      len(found),
	})
}
