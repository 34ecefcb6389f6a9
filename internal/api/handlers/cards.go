package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/unifiedui/card-service/internal/api/dto"
	"github.com/unifiedui/card-service/internal/api/middleware"
	domainerrors "github.com/unifiedui/card-service/internal/domain/errors"
	"github.com/unifiedui/card-service/internal/services/audit"
	"github.com/unifiedui/card-service/internal/services/card"
	"github.com/unifiedui/card-service/internal/services/receipts"
)

// CardsHandler handles the card generation workflow endpoints.
type CardsHandler struct {
	cards    card.Service
	receipts receipts.Service
	history  audit.History
}

// CardsHandlerConfig holds the dependencies of CardsHandler.
// Receipts and History are optional; their routes answer 503 without them.
type CardsHandlerConfig struct {
	Cards    card.Service
	Receipts receipts.Service
	History  audit.History
}

// NewCardsHandler creates a new CardsHandler.
func NewCardsHandler(cfg *CardsHandlerConfig) *CardsHandler {
	return &CardsHandler{
		cards:    cfg.Cards,
		receipts: cfg.Receipts,
		history:  cfg.History,
	}
}

// GenerateCard handles POST /cards/generate
// @Summary Generate a card
// @Description Validates the recipient and generates text and image variants in a new session
// @Tags Cards
// @Accept json
// @Produce json
// @Param request body dto.GenerateCardRequest true "Card parameters"
// @Success 200 {object} dto.GenerateCardResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse "Recipient not found"
// @Failure 502 {object} dto.ErrorResponse "Generation failed"
// @Failure 503 {object} dto.ErrorResponse "Generation rate limited"
// @Router /api/v1/card-service/cards/generate [post]
func (h *CardsHandler) GenerateCard(c *gin.Context) {
	var req dto.GenerateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleError(c, domainerrors.NewValidationError("invalid request body", err.Error()))
		return
	}

	result, err := h.cards.GenerateCard(c.Request.Context(), req.ToModel())
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewGenerateCardResponse(result))
}

// RegenerateText handles POST /cards/regenerate/text
// @Summary Regenerate text
// @Description Replaces the session's text variants with one new variant
// @Tags Cards
// @Accept json
// @Produce json
// @Param request body dto.RegenerateRequest true "Session and optional new parameters"
// @Success 200 {object} dto.RegenerateTextResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Failure 410 {object} dto.ErrorResponse "Session expired"
// @Failure 429 {object} dto.ErrorResponse "Regeneration limit exceeded"
// @Failure 502 {object} dto.ErrorResponse "Generation failed"
// @Router /api/v1/card-service/cards/regenerate/text [post]
func (h *CardsHandler) RegenerateText(c *gin.Context) {
	var req dto.RegenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleError(c, domainerrors.NewValidationError("invalid request body", err.Error()))
		return
	}

	result, err := h.cards.RegenerateText(c.Request.Context(), req.SessionID, req.Generation())
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.RegenerateTextResponse{
		Variant:                dto.NewTextVariant(0, result.Variant),
		RemainingRegenerations: result.Remaining,
	})
}

// RegenerateImage handles POST /cards/regenerate/image
// @Summary Regenerate image
// @Description Replaces the session's image variants with one new variant
// @Tags Cards
// @Accept json
// @Produce json
// @Param request body dto.RegenerateRequest true "Session and optional new parameters"
// @Success 200 {object} dto.RegenerateImageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Failure 410 {object} dto.ErrorResponse "Session expired"
// @Failure 429 {object} dto.ErrorResponse "Regeneration limit exceeded"
// @Failure 502 {object} dto.ErrorResponse "Generation failed"
// @Router /api/v1/card-service/cards/regenerate/image [post]
func (h *CardsHandler) RegenerateImage(c *gin.Context) {
	var req dto.RegenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleError(c, domainerrors.NewValidationError("invalid request body", err.Error()))
		return
	}

	result, err := h.cards.RegenerateImage(c.Request.Context(), req.SessionID, req.Generation())
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.RegenerateImageResponse{
		Variant:                dto.NewImageVariant(req.SessionID, 0, result.Variant),
		RemainingRegenerations: result.Remaining,
	})
}

// SendCard handles POST /cards/send
// @Summary Send a card
// @Description Delivers the selected text and image variants. Delivery failures return success=false with status 200.
// @Tags Cards
// @Accept json
// @Produce json
// @Param request body dto.SendCardRequest true "Selection"
// @Success 200 {object} dto.SendCardResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse "Session or variant not found"
// @Failure 410 {object} dto.ErrorResponse "Session expired"
// @Router /api/v1/card-service/cards/send [post]
func (h *CardsHandler) SendCard(c *gin.Context) {
	var req dto.SendCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleError(c, domainerrors.NewValidationError("invalid request body", err.Error()))
		return
	}

	result, err := h.cards.SendCard(c.Request.Context(), &card.SendRequest{
		SessionID:          req.SessionID,
		SelectedTextIndex:  *req.SelectedTextIndex,
		SelectedImageIndex: *req.SelectedImageIndex,
	})
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSendCardResponse(result))
}

// GetSession handles GET /cards/sessions/{sessionId}
// @Summary Get session status
// @Description Returns the variants and remaining regeneration budgets of a live session
// @Tags Cards
// @Produce json
// @Param sessionId path string true "Session ID"
// @Success 200 {object} dto.SessionStatusResponse
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Failure 410 {object} dto.ErrorResponse "Session expired"
// @Router /api/v1/card-service/cards/sessions/{sessionId} [get]
func (h *CardsHandler) GetSession(c *gin.Context) {
	status, err := h.cards.GetSessionStatus(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSessionStatusResponse(status))
}

// GetImage handles GET /cards/sessions/{sessionId}/images/{imageId}
// @Summary Download an image variant
// @Tags Cards
// @Produce png
// @Param sessionId path string true "Session ID"
// @Param imageId path string true "Image variant ID"
// @Success 200 {file} binary
// @Failure 404 {object} dto.ErrorResponse "Session or image not found"
// @Failure 410 {object} dto.ErrorResponse "Session expired"
// @Router /api/v1/card-service/cards/sessions/{sessionId}/images/{imageId} [get]
func (h *CardsHandler) GetImage(c *gin.Context) {
	data, err := h.cards.GetImage(c.Request.Context(), c.Param("sessionId"), c.Param("imageId"))
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.Header("Cache-Control", "private, max-age=300")
	c.Data(http.StatusOK, http.DetectContentType(data), data)
}

// GetSessionEvents handles GET /cards/sessions/{sessionId}/events
// @Summary List session audit events
// @Description Returns the recorded generation and delivery events of a session, including expired ones
// @Tags Cards
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param limit query int false "Maximum number of events" default(50) minimum(1) maximum(200)
// @Success 200 {object} dto.SessionEventsResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse "Audit store unavailable"
// @Router /api/v1/card-service/cards/sessions/{sessionId}/events [get]
func (h *CardsHandler) GetSessionEvents(c *gin.Context) {
	if h.history == nil {
		middleware.HandleError(c, domainerrors.NewServiceUnavailableError("audit store", nil))
		return
	}

	var req dto.SessionEventsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleError(c, domainerrors.NewValidationError("invalid query parameters", err.Error()))
		return
	}

	sessionID := c.Param("sessionId")
	events, err := h.history.SessionEvents(c.Request.Context(), sessionID, req.Limit)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SessionEventsResponse{
		SessionID: sessionID,
		Events:    events,
	})
}

// GetDelivery handles GET /cards/deliveries/{deliveryId}
// @Summary Get a delivery receipt
// @Tags Cards
// @Produce json
// @Param deliveryId path string true "Delivery ID"
// @Success 200 {object} models.DeliveryReceipt
// @Failure 404 {object} dto.ErrorResponse "Receipt not found"
// @Failure 503 {object} dto.ErrorResponse "Receipt store unavailable"
// @Router /api/v1/card-service/cards/deliveries/{deliveryId} [get]
func (h *CardsHandler) GetDelivery(c *gin.Context) {
	if h.receipts == nil {
		middleware.HandleError(c, domainerrors.NewServiceUnavailableError("receipt cache", nil))
		return
	}

	receipt, err := h.receipts.Get(c.Request.Context(), c.Param("deliveryId"))
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, receipt)
}
