package card

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	domainerrors "github.com/unifiedui/card-service/internal/domain/errors"
	"github.com/unifiedui/card-service/internal/domain/models"
	"github.com/unifiedui/card-service/internal/services/session"
)

const (
	// DefaultVariantCount is the number of variants produced per element type.
	DefaultVariantCount = 3

	// DefaultGreeting is used when the caller gives no message and no enhancement.
	DefaultGreeting = "Congratulations!"
)

// Service is the card generation workflow exposed to the API layer.
type Service interface {
	// GenerateCard validates the recipient, generates text and image variants
	// concurrently and opens a new session holding them.
	GenerateCard(ctx context.Context, req models.GenerationRequest) (*GenerateResult, error)

	// RegenerateText replaces the session's text variants with one fresh variant.
	// A nil request reuses the request stored with the session.
	RegenerateText(ctx context.Context, sessionID string, req *models.GenerationRequest) (*RegenerateTextResult, error)

	// RegenerateImage replaces the session's image variants with one fresh variant.
	// A nil request reuses the request stored with the session.
	RegenerateImage(ctx context.Context, sessionID string, req *models.GenerationRequest) (*RegenerateImageResult, error)

	// SendCard delivers the selected variants. Delivery failures are reported
	// in the result, not as an error.
	SendCard(ctx context.Context, req *SendRequest) (*SendResult, error)

	// GetSessionStatus describes a live session.
	GetSessionStatus(ctx context.Context, sessionID string) (*SessionStatus, error)

	// GetImage returns the bytes of one image variant of a live session.
	GetImage(ctx context.Context, sessionID, imageID string) ([]byte, error)
}

// GenerateResult is returned by GenerateCard.
type GenerateResult struct {
	SessionID              string
	Recipient              *models.Recipient
	TextVariants           []models.TextVariant
	ImageVariants          []models.ImageVariant
	RemainingRegenerations int
	ExpiresAt              time.Time
}

// RegenerateTextResult is returned by RegenerateText.
type RegenerateTextResult struct {
	Variant   models.TextVariant
	Remaining int
}

// RegenerateImageResult is returned by RegenerateImage.
type RegenerateImageResult struct {
	Variant   models.ImageVariant
	Remaining int
}

// SendRequest selects the variants to deliver.
type SendRequest struct {
	SessionID          string
	SelectedTextIndex  int
	SelectedImageIndex int
}

// SendResult reports the outcome of a delivery attempt.
// DeliveryID is empty when Success is false.
type SendResult struct {
	Success    bool
	Message    string
	DeliveryID string
}

// SessionStatus describes a live session.
type SessionStatus struct {
	SessionID              string
	Request                models.GenerationRequest
	TextVariants           []models.TextVariant
	ImageVariants          []models.ImageVariant
	TextRegenerationsLeft  int
	ImageRegenerationsLeft int
	MaxRegenerations       int
	CreatedAt              time.Time
	ExpiresAt              time.Time
}

// Config holds the dependencies of the card service.
type Config struct {
	Store          session.Store
	Recipients     RecipientLookup
	TextGenerator  TextGenerator
	ImageGenerator ImageGenerator
	Delivery       DeliveryClient

	// Receipts and Audit are optional.
	Receipts ReceiptRecorder
	Audit    AuditRecorder

	VariantCount    int
	DefaultGreeting string
	Logger          *zerolog.Logger
}

type service struct {
	store      session.Store
	recipients RecipientLookup
	texts      TextGenerator
	images     ImageGenerator
	delivery   DeliveryClient
	receipts   ReceiptRecorder
	audit      AuditRecorder

	variantCount    int
	defaultGreeting string
	logger          zerolog.Logger
}

// NewService creates a new card service.
func NewService(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.Store == nil {
		return nil, fmt.Errorf("session store is required")
	}
	if cfg.Recipients == nil {
		return nil, fmt.Errorf("recipient lookup is required")
	}
	if cfg.TextGenerator == nil {
		return nil, fmt.Errorf("text generator is required")
	}
	if cfg.ImageGenerator == nil {
		return nil, fmt.Errorf("image generator is required")
	}
	if cfg.Delivery == nil {
		return nil, fmt.Errorf("delivery client is required")
	}
	if cfg.VariantCount < 0 {
		return nil, fmt.Errorf("variant count must not be negative")
	}

	variantCount := cfg.VariantCount
	if variantCount == 0 {
		variantCount = DefaultVariantCount
	}

	greeting := cfg.DefaultGreeting
	if greeting == "" {
		greeting = DefaultGreeting
	}

	audit := cfg.Audit
	if audit == nil {
		audit = discardAudit{}
	}

	logger := log.Logger
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	return &service{
		store:           cfg.Store,
		recipients:      cfg.Recipients,
		texts:           cfg.TextGenerator,
		images:          cfg.ImageGenerator,
		delivery:        cfg.Delivery,
		receipts:        cfg.Receipts,
		audit:           audit,
		variantCount:    variantCount,
		defaultGreeting: greeting,
		logger:          logger.With().Str("component", "card_service").Logger(),
	}, nil
}

// GenerateCard runs the full generation workflow.
func (s *service) GenerateCard(ctx context.Context, req models.GenerationRequest) (*GenerateResult, error) {
	req = req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	recipient, err := s.recipients.FindByName(ctx, req.RecipientName)
	if err != nil {
		return nil, domainerrors.NewInternalError("failed to look up recipient", err)
	}
	if recipient == nil {
		return nil, domainerrors.NewRecipientNotFoundError(req.RecipientName)
	}

	event := newEvent(models.EventGenerate, "", req)

	texts, images, imageData, err := s.generateVariants(ctx, req)
	if err != nil {
		s.recordFailure(event, err)
		s.logger.Warn().Err(err).Str("recipient", req.RecipientName).Msg("card generation failed")
		return nil, err
	}

	sessionID, err := s.store.CreateSession(req, req.Message, texts, images, imageData)
	if err != nil {
		s.recordFailure(event, err)
		return nil, err
	}

	event.SessionID = sessionID
	event.Prompts = imagePrompts(images)
	event.Success = true
	s.audit.Record(event)

	s.logger.Info().
		Str("session_id", sessionID).
		Str("recipient", recipient.FullName).
		Bool("enhance_text", req.EnhanceText).
		Int("text_variants", len(texts)).
		Int("image_variants", len(images)).
		Msg("card generated")

	return &GenerateResult{
		SessionID:              sessionID,
		Recipient:              recipient,
		TextVariants:           texts,
		ImageVariants:          images,
		RemainingRegenerations: s.store.MaxRegenerations(),
		ExpiresAt:              s.expiresAt(sessionID),
	}, nil
}

// generateVariants fans out the text and image calls and waits for all of them.
// The first failure cancels the remaining calls.
func (s *service) generateVariants(ctx context.Context, req models.GenerationRequest) ([]models.TextVariant, []models.ImageVariant, map[string][]byte, error) {
	g, gctx := errgroup.WithContext(ctx)

	var texts []models.TextVariant
	if req.EnhanceText {
		texts = make([]models.TextVariant, s.variantCount)
		prompt := textPrompt(req)
		for i := range s.variantCount {
			g.Go(func() error {
				variant, err := s.generateText(gctx, prompt)
				if err != nil {
					return err
				}
				texts[i] = variant
				return nil
			})
		}
	} else {
		texts = []models.TextVariant{s.originalVariant(req)}
	}

	images := make([]models.ImageVariant, s.variantCount)
	blobs := make([][]byte, s.variantCount)
	prompt := imagePrompt(req)
	for i := range s.variantCount {
		g.Go(func() error {
			variant, data, err := s.generateImage(gctx, prompt)
			if err != nil {
				return err
			}
			images[i] = variant
			blobs[i] = data
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, nil, err
	}

	imageData := make(map[string][]byte, len(images))
	for i, variant := range images {
		imageData[variant.ID] = blobs[i]
	}
	return texts, images, imageData, nil
}

// RegenerateText replaces all text variants with a single new one.
func (s *service) RegenerateText(ctx context.Context, sessionID string, req *models.GenerationRequest) (*RegenerateTextResult, error) {
	sess, err := s.store.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	if sess.TextRegenerationsLeft <= 0 {
		return nil, domainerrors.NewRegenerationLimitError(domainerrors.ElementText, s.store.MaxRegenerations())
	}

	effective, err := effectiveRequest(sess, req)
	if err != nil {
		return nil, err
	}
	if effective.TextStyle == "" {
		return nil, domainerrors.NewValidationError("text style is required to regenerate text", "textStyle")
	}

	event := newEvent(models.EventRegenerateText, sessionID, effective)

	variant, err := s.generateText(ctx, textPrompt(effective))
	if err != nil {
		s.recordFailure(event, err)
		return nil, err
	}

	remaining, err := s.store.ReplaceTextVariants(sessionID, []models.TextVariant{variant})
	if err != nil {
		s.recordFailure(event, err)
		return nil, err
	}

	event.Success = true
	s.audit.Record(event)

	s.logger.Info().
		Str("session_id", sessionID).
		Int("remaining", remaining).
		Msg("text regenerated")

	return &RegenerateTextResult{Variant: variant, Remaining: remaining}, nil
}

// RegenerateImage replaces all image variants with a single new one.
func (s *service) RegenerateImage(ctx context.Context, sessionID string, req *models.GenerationRequest) (*RegenerateImageResult, error) {
	sess, err := s.store.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	if sess.ImageRegenerationsLeft <= 0 {
		return nil, domainerrors.NewRegenerationLimitError(domainerrors.ElementImage, s.store.MaxRegenerations())
	}

	effective, err := effectiveRequest(sess, req)
	if err != nil {
		return nil, err
	}

	event := newEvent(models.EventRegenerateImage, sessionID, effective)

	variant, data, err := s.generateImage(ctx, imagePrompt(effective))
	if err != nil {
		s.recordFailure(event, err)
		return nil, err
	}

	remaining, err := s.store.ReplaceImageVariants(sessionID,
		[]models.ImageVariant{variant},
		map[string][]byte{variant.ID: data},
	)
	if err != nil {
		s.recordFailure(event, err)
		return nil, err
	}

	event.Prompts = []string{variant.Prompt}
	event.Success = true
	s.audit.Record(event)

	s.logger.Info().
		Str("session_id", sessionID).
		Str("image_id", variant.ID).
		Int("remaining", remaining).
		Msg("image regenerated")

	return &RegenerateImageResult{Variant: variant, Remaining: remaining}, nil
}

// SendCard resolves the selection and hands the card to the delivery client.
func (s *service) SendCard(ctx context.Context, req *SendRequest) (*SendResult, error) {
	if req == nil {
		return nil, domainerrors.NewValidationError("send request is required", "")
	}

	sess, err := s.store.GetSession(req.SessionID)
	if err != nil {
		return nil, err
	}

	if req.SelectedTextIndex < 0 || req.SelectedTextIndex >= len(sess.TextVariants) {
		return nil, domainerrors.NewVariantNotFoundError(domainerrors.ElementText, req.SelectedTextIndex)
	}
	if req.SelectedImageIndex < 0 || req.SelectedImageIndex >= len(sess.ImageVariants) {
		return nil, domainerrors.NewVariantNotFoundError(domainerrors.ElementImage, req.SelectedImageIndex)
	}

	text := sess.TextVariants[req.SelectedTextIndex]
	image := sess.ImageVariants[req.SelectedImageIndex]

	data, err := s.store.GetImageData(req.SessionID, image.ID)
	if err != nil {
		if domainerrors.IsSessionUnavailable(err) {
			return nil, err
		}
		return nil, domainerrors.NewVariantNotFoundError(domainerrors.ElementImage, req.SelectedImageIndex)
	}

	event := newEvent(models.EventSend, req.SessionID, sess.Request)
	event.TextStyle = text.Style
	event.ImageStyle = image.Style

	deliveryID, err := s.delivery.Send(ctx, &Delivery{
		Image:         data,
		RecipientName: sess.Request.RecipientName,
		Reason:        sess.Request.Reason,
		Text:          text.Text,
		SenderName:    sess.Request.SenderName,
	})
	if err != nil {
		s.recordFailure(event, err)
		s.logger.Warn().Err(err).Str("session_id", req.SessionID).Msg("card delivery failed")
		return &SendResult{
			Success: false,
			Message: fmt.Sprintf("failed to send card: %v", err),
		}, nil
	}

	event.DeliveryID = deliveryID
	event.Success = true
	s.audit.Record(event)

	if s.receipts != nil {
		receipt := &models.DeliveryReceipt{
			DeliveryID:    deliveryID,
			SessionID:     req.SessionID,
			RecipientName: sess.Request.RecipientName,
			SenderName:    sess.Request.SenderName,
			TextStyle:     text.Style,
			ImageStyle:    image.Style,
			SentAt:        time.Now().UTC(),
		}
		if err := s.receipts.Record(ctx, receipt); err != nil {
			s.logger.Error().Err(err).Str("delivery_id", deliveryID).Msg("failed to record delivery receipt")
		}
	}

	s.logger.Info().
		Str("session_id", req.SessionID).
		Str("delivery_id", deliveryID).
		Msg("card sent")

	return &SendResult{
		Success:    true,
		Message:    fmt.Sprintf("card sent to %s", sess.Request.RecipientName),
		DeliveryID: deliveryID,
	}, nil
}

// GetSessionStatus describes a live session.
func (s *service) GetSessionStatus(ctx context.Context, sessionID string) (*SessionStatus, error) {
	sess, err := s.store.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	return &SessionStatus{
		SessionID:              sess.ID,
		Request:                sess.Request,
		TextVariants:           sess.TextVariants,
		ImageVariants:          sess.ImageVariants,
		TextRegenerationsLeft:  sess.TextRegenerationsLeft,
		ImageRegenerationsLeft: sess.ImageRegenerationsLeft,
		MaxRegenerations:       s.store.MaxRegenerations(),
		CreatedAt:              sess.CreatedAt,
		ExpiresAt:              sess.ExpiresAt(s.store.TTL()),
	}, nil
}

// GetImage returns the bytes of one image variant.
func (s *service) GetImage(ctx context.Context, sessionID, imageID string) ([]byte, error) {
	return s.store.GetImageData(sessionID, imageID)
}

// expiresAt reads the creation time back from the store so the clock is the store's.
func (s *service) expiresAt(sessionID string) time.Time {
	if sess, err := s.store.GetSession(sessionID); err == nil {
		return sess.ExpiresAt(s.store.TTL())
	}
	return time.Now().Add(s.store.TTL())
}

func (s *service) originalVariant(req models.GenerationRequest) models.TextVariant {
	text := req.Message
	if text == "" {
		text = s.defaultGreeting
	}
	return models.TextVariant{Text: text, Style: models.TextStyleOriginal}
}

func (s *service) generateText(ctx context.Context, prompt TextPrompt) (models.TextVariant, error) {
	text, err := s.texts.GenerateText(ctx, prompt)
	if err != nil {
		return models.TextVariant{}, asGenerationError(domainerrors.ElementText, err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return models.TextVariant{}, domainerrors.NewGenerationError(domainerrors.ElementText, fmt.Errorf("empty text returned"))
	}
	return models.TextVariant{Text: text, Style: prompt.Style}, nil
}

func (s *service) generateImage(ctx context.Context, prompt ImagePrompt) (models.ImageVariant, []byte, error) {
	image, err := s.images.GenerateImage(ctx, prompt)
	if err != nil {
		return models.ImageVariant{}, nil, asGenerationError(domainerrors.ElementImage, err)
	}
	if image == nil || len(image.Data) == 0 {
		return models.ImageVariant{}, nil, domainerrors.NewGenerationError(domainerrors.ElementImage, fmt.Errorf("empty image returned"))
	}
	variant := models.ImageVariant{
		ID:     uuid.NewString(),
		Style:  prompt.Style,
		Prompt: image.Prompt,
	}
	return variant, image.Data, nil
}

func (s *service) recordFailure(event *models.GenerationEvent, err error) {
	event.Success = false
	event.Error = err.Error()
	s.audit.Record(event)
}

// effectiveRequest picks the request used for a regeneration.
// An override may change styles, reason and message; the recipient and
// sender always stay those of the session.
func effectiveRequest(sess *models.Session, req *models.GenerationRequest) (models.GenerationRequest, error) {
	if req == nil {
		return sess.Request, nil
	}
	r := req.Normalize()
	r.RecipientName = sess.Request.RecipientName
	r.SenderName = sess.Request.SenderName
	if err := r.Validate(); err != nil {
		return models.GenerationRequest{}, err
	}
	return r, nil
}

// asGenerationError keeps generation domain errors and wraps anything else.
func asGenerationError(elementType string, err error) error {
	if domainerrors.IsGenerationError(err) {
		return err
	}
	return domainerrors.NewGenerationError(elementType, err)
}

func textPrompt(req models.GenerationRequest) TextPrompt {
	return TextPrompt{
		Style:         req.TextStyle,
		RecipientName: req.RecipientName,
		Reason:        req.Reason,
		Message:       req.Message,
	}
}

func imagePrompt(req models.GenerationRequest) ImagePrompt {
	return ImagePrompt{
		RecipientName: req.RecipientName,
		Reason:        req.Reason,
		Style:         req.ImageStyle,
	}
}

func imagePrompts(images []models.ImageVariant) []string {
	prompts := make([]string, 0, len(images))
	for _, img := range images {
		prompts = append(prompts, img.Prompt)
	}
	return prompts
}

func newEvent(eventType models.EventType, sessionID string, req models.GenerationRequest) *models.GenerationEvent {
	return &models.GenerationEvent{
		ID:            uuid.NewString(),
		SessionID:     sessionID,
		Type:          eventType,
		RecipientName: req.RecipientName,
		TextStyle:     req.TextStyle,
		ImageStyle:    req.ImageStyle,
		CreatedAt:     time.Now().UTC(),
	}
}

type discardAudit struct{}

func (discardAudit) Record(*models.GenerationEvent) {}
