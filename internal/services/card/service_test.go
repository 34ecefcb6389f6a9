package card_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/unifiedui/card-service/internal/domain/errors"
	"github.com/unifiedui/card-service/internal/domain/models"
	"github.com/unifiedui/card-service/internal/mocks"
	"github.com/unifiedui/card-service/internal/services/card"
	"github.com/unifiedui/card-service/internal/services/session"
	"github.com/unifiedui/card-service/internal/testutils"
)

type fixture struct {
	svc        card.Service
	store      *session.MemoryStore
	recipients *mocks.MockRecipientLookup
	texts      *mocks.MockTextGenerator
	images     *mocks.MockImageGenerator
	delivery   *mocks.MockDeliveryClient
	receipts   *mocks.MockReceiptRecorder
	audit      *mocks.MockAuditRecorder
}

func newFixture(t *testing.T, maxRegenerations int) *fixture {
	t.Helper()

	store, err := session.NewStore(&session.Config{TTL: time.Hour, MaxRegenerations: maxRegenerations})
	require.NoError(t, err)

	f := &fixture{
		store:      store,
		recipients: &mocks.MockRecipientLookup{},
		texts:      &mocks.MockTextGenerator{},
		images:     &mocks.MockImageGenerator{},
		delivery:   &mocks.MockDeliveryClient{},
		receipts:   &mocks.MockReceiptRecorder{},
		audit:      &mocks.MockAuditRecorder{},
	}
	f.audit.On("Record", mock.Anything).Return().Maybe()

	f.svc, err = card.NewService(&card.Config{
		Store:          store,
		Recipients:     f.recipients,
		TextGenerator:  f.texts,
		ImageGenerator: f.images,
		Delivery:       f.delivery,
		Receipts:       f.receipts,
		Audit:          f.audit,
	})
	require.NoError(t, err)
	return f
}

func (f *fixture) expectRecipient() {
	f.recipients.On("FindByName", mock.Anything, testutils.TestRecipientName).Return(testutils.NewTestRecipient(), nil)
}

func (f *fixture) expectTexts(text string) {
	f.texts.On("GenerateText", mock.Anything, mock.Anything).Return(text, nil)
}

func (f *fixture) expectImages() {
	f.images.On("GenerateImage", mock.Anything, mock.Anything).Return(&card.GeneratedImage{
		Data:   testutils.TestPNG,
		Prompt: "a watercolor card",
	}, nil)
}

// generate creates a session through the service with default mocks.
func (f *fixture) generate(t *testing.T, req models.GenerationRequest) *card.GenerateResult {
	t.Helper()
	result, err := f.svc.GenerateCard(context.Background(), req)
	require.NoError(t, err)
	return result
}

func (f *fixture) auditEvents(eventType models.EventType) []*models.GenerationEvent {
	var events []*models.GenerationEvent
	for _, call := range f.audit.Calls {
		if e, ok := call.Arguments.Get(0).(*models.GenerationEvent); ok && e.Type == eventType {
			events = append(events, e)
		}
	}
	return events
}

func TestNewService_RequiresDependencies(t *testing.T) {
	store, err := session.NewStore(&session.Config{MaxRegenerations: 3})
	require.NoError(t, err)

	_, err = card.NewService(nil)
	assert.Error(t, err)

	_, err = card.NewService(&card.Config{Store: store})
	assert.Error(t, err)

	_, err = card.NewService(&card.Config{
		Store:          store,
		Recipients:     &mocks.MockRecipientLookup{},
		TextGenerator:  &mocks.MockTextGenerator{},
		ImageGenerator: &mocks.MockImageGenerator{},
		Delivery:       &mocks.MockDeliveryClient{},
	})
	assert.NoError(t, err)
}

func TestGenerateCard_EnhancedText(t *testing.T) {
	// Arrange
	f := newFixture(t, 3)
	f.expectRecipient()
	f.expectTexts("  Congratulations, Jane!  ")
	f.expectImages()

	// Act
	result, err := f.svc.GenerateCard(context.Background(), testutils.NewTestRequest())

	// Assert
	require.NoError(t, err)
	assert.NotEmpty(t, result.SessionID)
	assert.Equal(t, testutils.TestRecipientID, result.Recipient.ID)
	assert.Equal(t, 3, result.RemainingRegenerations)

	require.Len(t, result.TextVariants, card.DefaultVariantCount)
	for _, v := range result.TextVariants {
		assert.Equal(t, "Congratulations, Jane!", v.Text)
		assert.Equal(t, models.TextStyleWarm, v.Style)
	}

	require.Len(t, result.ImageVariants, card.DefaultVariantCount)
	ids := map[string]bool{}
	for _, v := range result.ImageVariants {
		assert.Equal(t, models.ImageStyleWatercolor, v.Style)
		assert.Equal(t, "a watercolor card", v.Prompt)
		ids[v.ID] = true
	}
	assert.Len(t, ids, card.DefaultVariantCount, "image ids must be unique")

	f.texts.AssertNumberOfCalls(t, "GenerateText", card.DefaultVariantCount)
	f.images.AssertNumberOfCalls(t, "GenerateImage", card.DefaultVariantCount)

	sess, err := f.store.GetSession(result.SessionID)
	require.NoError(t, err)
	assert.Equal(t, result.TextVariants, sess.TextVariants)
	assert.Equal(t, result.ImageVariants, sess.ImageVariants)
	assert.True(t, models.ImageDataMatches(sess.ImageVariants, sess.ImageData))
	assert.Equal(t, testutils.TestMessage, sess.OriginalText)
	assert.WithinDuration(t, sess.CreatedAt.Add(time.Hour), result.ExpiresAt, time.Second)

	events := f.auditEvents(models.EventGenerate)
	require.Len(t, events, 1)
	assert.True(t, events[0].Success)
	assert.Equal(t, result.SessionID, events[0].SessionID)
	assert.Len(t, events[0].Prompts, card.DefaultVariantCount)
}

func TestGenerateCard_PassesPromptParameters(t *testing.T) {
	// Arrange
	f := newFixture(t, 3)
	f.expectRecipient()
	f.texts.On("GenerateText", mock.Anything, card.TextPrompt{
		Style:         models.TextStyleWarm,
		RecipientName: testutils.TestRecipientName,
		Reason:        testutils.TestReason,
		Message:       testutils.TestMessage,
	}).Return("text", nil)
	f.images.On("GenerateImage", mock.Anything, card.ImagePrompt{
		RecipientName: testutils.TestRecipientName,
		Reason:        testutils.TestReason,
		Style:         models.ImageStyleWatercolor,
	}).Return(&card.GeneratedImage{Data: testutils.TestPNG}, nil)

	req := testutils.NewTestRequest()
	req.RecipientName = "  " + req.RecipientName + " "

	// Act
	_, err := f.svc.GenerateCard(context.Background(), req)

	// Assert
	require.NoError(t, err)
	f.texts.AssertExpectations(t)
	f.images.AssertExpectations(t)
}

// Without enhancement the caller's message is the only text variant.
func TestGenerateCard_OriginalMessage(t *testing.T) {
	// Arrange
	f := newFixture(t, 3)
	f.expectRecipient()
	f.expectImages()
	req := testutils.NewTestPlainRequest()
	req.Message = "Thanks!"

	// Act
	result, err := f.svc.GenerateCard(context.Background(), req)

	// Assert
	require.NoError(t, err)
	require.Len(t, result.TextVariants, 1)
	assert.Equal(t, "Thanks!", result.TextVariants[0].Text)
	assert.Equal(t, models.TextStyleOriginal, result.TextVariants[0].Style)
	f.texts.AssertNotCalled(t, "GenerateText", mock.Anything, mock.Anything)
	assert.Len(t, result.ImageVariants, card.DefaultVariantCount)
}

func TestGenerateCard_DefaultGreeting(t *testing.T) {
	f := newFixture(t, 3)
	f.expectRecipient()
	f.expectImages()
	req := testutils.NewTestPlainRequest()
	req.Message = "   "

	result, err := f.svc.GenerateCard(context.Background(), req)

	require.NoError(t, err)
	require.Len(t, result.TextVariants, 1)
	assert.Equal(t, card.DefaultGreeting, result.TextVariants[0].Text)
}

func TestGenerateCard_ValidationError(t *testing.T) {
	f := newFixture(t, 3)
	req := testutils.NewTestRequest()
	req.ImageStyle = "oil"

	_, err := f.svc.GenerateCard(context.Background(), req)

	assert.True(t, domainerrors.IsValidationError(err))
	f.recipients.AssertNotCalled(t, "FindByName", mock.Anything, mock.Anything)
	assert.Equal(t, 0, f.store.SessionCount())
}

func TestGenerateCard_RecipientNotFound(t *testing.T) {
	// Arrange
	f := newFixture(t, 3)
	f.recipients.On("FindByName", mock.Anything, "Nobody").Return(nil, nil)
	req := testutils.NewTestRequest()
	req.RecipientName = "Nobody"

	// Act
	_, err := f.svc.GenerateCard(context.Background(), req)

	// Assert
	assert.True(t, domainerrors.HasCode(err, domainerrors.ErrCodeRecipientNotFound))
	f.texts.AssertNotCalled(t, "GenerateText", mock.Anything, mock.Anything)
	f.images.AssertNotCalled(t, "GenerateImage", mock.Anything, mock.Anything)
	assert.Equal(t, 0, f.store.SessionCount())
}

func TestGenerateCard_RecipientLookupError(t *testing.T) {
	f := newFixture(t, 3)
	f.recipients.On("FindByName", mock.Anything, mock.Anything).Return(nil, errors.New("directory down"))

	_, err := f.svc.GenerateCard(context.Background(), testutils.NewTestRequest())

	assert.True(t, domainerrors.HasCode(err, domainerrors.ErrCodeInternal))
}

func TestGenerateCard_GenerationFailureCreatesNoSession(t *testing.T) {
	// Arrange
	f := newFixture(t, 3)
	f.expectRecipient()
	f.expectTexts("text")
	f.images.On("GenerateImage", mock.Anything, mock.Anything).Return(nil, errors.New("backend exploded"))

	// Act
	_, err := f.svc.GenerateCard(context.Background(), testutils.NewTestRequest())

	// Assert
	require.Error(t, err)
	de, ok := domainerrors.GetDomainError(err)
	require.True(t, ok)
	assert.Equal(t, domainerrors.ErrCodeGenerationFailed, de.Code)
	assert.Equal(t, domainerrors.ElementImage, de.ElementType)
	assert.Equal(t, 0, f.store.SessionCount())

	events := f.auditEvents(models.EventGenerate)
	require.Len(t, events, 1)
	assert.False(t, events[0].Success)
	assert.NotEmpty(t, events[0].Error)
}

func TestGenerateCard_RateLimitedErrorPassesThrough(t *testing.T) {
	f := newFixture(t, 3)
	f.expectRecipient()
	f.expectImages()
	f.texts.On("GenerateText", mock.Anything, mock.Anything).
		Return("", domainerrors.NewGenerationRateLimitedError(domainerrors.ElementText, 20*time.Second, nil))

	_, err := f.svc.GenerateCard(context.Background(), testutils.NewTestRequest())

	de, ok := domainerrors.GetDomainError(err)
	require.True(t, ok)
	assert.Equal(t, domainerrors.ErrCodeGenerationRateLimited, de.Code)
	assert.Equal(t, 20*time.Second, de.RetryAfter)
}

func TestGenerateCard_EmptyTextIsFailure(t *testing.T) {
	f := newFixture(t, 3)
	f.expectRecipient()
	f.expectImages()
	f.expectTexts("   ")

	_, err := f.svc.GenerateCard(context.Background(), testutils.NewTestRequest())

	assert.True(t, domainerrors.HasCode(err, domainerrors.ErrCodeGenerationFailed))
	assert.Equal(t, 0, f.store.SessionCount())
}

func TestGenerateCard_FirstFailureCancelsSiblings(t *testing.T) {
	// Arrange - text calls block until their context is cancelled
	f := newFixture(t, 3)
	f.expectRecipient()
	f.texts.On("GenerateText", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			ctx := args.Get(0).(context.Context)
			<-ctx.Done()
		}).
		Return("", context.Canceled)
	f.images.On("GenerateImage", mock.Anything, mock.Anything).Return(nil, errors.New("boom"))

	// Act
	done := make(chan error, 1)
	go func() {
		_, err := f.svc.GenerateCard(context.Background(), testutils.NewTestRequest())
		done <- err
	}()

	// Assert
	select {
	case err := <-done:
		de, ok := domainerrors.GetDomainError(err)
		require.True(t, ok)
		assert.Equal(t, domainerrors.ElementImage, de.ElementType)
	case <-time.After(2 * time.Second):
		t.Fatal("generation did not cancel sibling calls")
	}
	assert.Equal(t, 0, f.store.SessionCount())
}

func TestRegenerateText_ReplacesWithSingleVariant(t *testing.T) {
	// Arrange
	f := newFixture(t, 3)
	f.expectRecipient()
	f.expectImages()
	f.texts.On("GenerateText", mock.Anything, mock.MatchedBy(func(p card.TextPrompt) bool {
		return p.Style == models.TextStyleWarm
	})).Return("first", nil)
	f.texts.On("GenerateText", mock.Anything, mock.MatchedBy(func(p card.TextPrompt) bool {
		return p.Style == models.TextStyleHumorous
	})).Return("funny", nil)
	result := f.generate(t, testutils.NewTestRequest())

	override := testutils.NewTestRequest()
	override.TextStyle = models.TextStyleHumorous

	// Act
	regen, err := f.svc.RegenerateText(context.Background(), result.SessionID, &override)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, models.TextVariant{Text: "funny", Style: models.TextStyleHumorous}, regen.Variant)
	assert.Equal(t, 2, regen.Remaining)

	sess, err := f.store.GetSession(result.SessionID)
	require.NoError(t, err)
	assert.Equal(t, []models.TextVariant{regen.Variant}, sess.TextVariants)
	assert.Equal(t, 3, sess.ImageRegenerationsLeft)
	assert.Len(t, f.auditEvents(models.EventRegenerateText), 1)
}

func TestRegenerateText_ReusesStoredRequest(t *testing.T) {
	f := newFixture(t, 3)
	f.expectRecipient()
	f.expectImages()
	f.expectTexts("again")
	result := f.generate(t, testutils.NewTestRequest())

	regen, err := f.svc.RegenerateText(context.Background(), result.SessionID, nil)

	require.NoError(t, err)
	assert.Equal(t, models.TextStyleWarm, regen.Variant.Style)
}

func TestRegenerateText_RequiresTextStyle(t *testing.T) {
	// Arrange - a plain session has no text style to regenerate with
	f := newFixture(t, 3)
	f.expectRecipient()
	f.expectImages()
	result := f.generate(t, testutils.NewTestPlainRequest())

	// Act
	_, err := f.svc.RegenerateText(context.Background(), result.SessionID, nil)

	// Assert
	assert.True(t, domainerrors.IsValidationError(err))
	sess, err := f.store.GetSession(result.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 3, sess.TextRegenerationsLeft)
}

// Text regeneration stops once its budget is spent; images keep their own budget.
func TestRegenerateText_LimitLeavesSessionUntouched(t *testing.T) {
	// Arrange
	f := newFixture(t, 3)
	f.expectRecipient()
	f.expectImages()
	f.expectTexts("text")
	result := f.generate(t, testutils.NewTestRequest())

	for want := 2; want >= 0; want-- {
		regen, err := f.svc.RegenerateText(context.Background(), result.SessionID, nil)
		require.NoError(t, err)
		assert.Equal(t, want, regen.Remaining)
	}
	before, err := f.store.GetSession(result.SessionID)
	require.NoError(t, err)
	callsBefore := len(f.texts.Calls)

	// Act
	_, err = f.svc.RegenerateText(context.Background(), result.SessionID, nil)

	// Assert
	de, ok := domainerrors.GetDomainError(err)
	require.True(t, ok)
	assert.Equal(t, domainerrors.ErrCodeRegenerationLimitExceeded, de.Code)
	assert.Equal(t, domainerrors.ElementText, de.ElementType)
	assert.Equal(t, 3, de.Max)
	assert.Len(t, f.texts.Calls, callsBefore, "no generation call once the budget is spent")

	after, err := f.store.GetSession(result.SessionID)
	require.NoError(t, err)
	assert.Equal(t, before.TextVariants, after.TextVariants)
	assert.Equal(t, 0, after.TextRegenerationsLeft)

	img, err := f.svc.RegenerateImage(context.Background(), result.SessionID, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, img.Remaining)
}

func TestRegenerateText_GenerationFailureKeepsBudget(t *testing.T) {
	f := newFixture(t, 3)
	f.expectRecipient()
	f.expectImages()
	f.texts.On("GenerateText", mock.Anything, mock.Anything).Return("ok", nil).Times(3)
	f.texts.On("GenerateText", mock.Anything, mock.Anything).Return("", errors.New("down"))
	result := f.generate(t, testutils.NewTestRequest())

	_, err := f.svc.RegenerateText(context.Background(), result.SessionID, nil)

	assert.True(t, domainerrors.HasCode(err, domainerrors.ErrCodeGenerationFailed))
	sess, err := f.store.GetSession(result.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 3, sess.TextRegenerationsLeft)
	assert.Len(t, sess.TextVariants, 3)
}

func TestRegenerateText_InvalidOverride(t *testing.T) {
	f := newFixture(t, 3)
	f.expectRecipient()
	f.expectImages()
	f.expectTexts("text")
	result := f.generate(t, testutils.NewTestRequest())

	override := testutils.NewTestRequest()
	override.TextStyle = "sarcastic"

	_, err := f.svc.RegenerateText(context.Background(), result.SessionID, &override)

	assert.True(t, domainerrors.IsValidationError(err))
}

func TestRegenerateText_OverrideKeepsSessionRecipient(t *testing.T) {
	// Arrange
	f := newFixture(t, 3)
	f.expectRecipient()
	f.expectImages()
	f.expectTexts("text")
	result := f.generate(t, testutils.NewTestRequest())

	override := testutils.NewTestRequest()
	override.RecipientName = "Somebody Not In Directory"
	override.SenderName = "Someone Else"
	override.Reason = "a new milestone"
	override.TextStyle = models.TextStylePoetic

	// Act
	regen, err := f.svc.RegenerateText(context.Background(), result.SessionID, &override)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, models.TextStylePoetic, regen.Variant.Style)

	last := f.texts.Calls[len(f.texts.Calls)-1]
	prompt, ok := last.Arguments.Get(1).(card.TextPrompt)
	require.True(t, ok)
	assert.Equal(t, testutils.TestRecipientName, prompt.RecipientName)
	assert.Equal(t, "a new milestone", prompt.Reason)
	f.recipients.AssertNumberOfCalls(t, "FindByName", 1)

	sess, err := f.store.GetSession(result.SessionID)
	require.NoError(t, err)
	assert.Equal(t, testutils.TestRecipientName, sess.Request.RecipientName)
	assert.Equal(t, testutils.TestSenderName, sess.Request.SenderName)
}

func TestRegenerateImage_OverrideKeepsSessionRecipient(t *testing.T) {
	// Arrange
	f := newFixture(t, 3)
	f.expectRecipient()
	f.expectImages()
	f.expectTexts("text")
	result := f.generate(t, testutils.NewTestRequest())

	override := testutils.NewTestRequest()
	override.RecipientName = "Somebody Not In Directory"
	override.ImageStyle = models.ImageStyleCartoon

	// Act
	regen, err := f.svc.RegenerateImage(context.Background(), result.SessionID, &override)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, models.ImageStyleCartoon, regen.Variant.Style)

	last := f.images.Calls[len(f.images.Calls)-1]
	prompt, ok := last.Arguments.Get(1).(card.ImagePrompt)
	require.True(t, ok)
	assert.Equal(t, testutils.TestRecipientName, prompt.RecipientName)
}

func TestRegenerate_UnknownSession(t *testing.T) {
	f := newFixture(t, 3)

	_, err := f.svc.RegenerateText(context.Background(), "missing", nil)
	assert.True(t, domainerrors.HasCode(err, domainerrors.ErrCodeSessionNotFound))

	_, err = f.svc.RegenerateImage(context.Background(), "missing", nil)
	assert.True(t, domainerrors.HasCode(err, domainerrors.ErrCodeSessionNotFound))
}

func TestRegenerateImage_ReplacesImageData(t *testing.T) {
	// Arrange
	f := newFixture(t, 3)
	f.expectRecipient()
	f.expectImages()
	result := f.generate(t, testutils.NewTestPlainRequest())
	oldID := result.ImageVariants[0].ID

	// Act
	regen, err := f.svc.RegenerateImage(context.Background(), result.SessionID, nil)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, regen.Remaining)
	assert.Equal(t, models.ImageStyleCartoon, regen.Variant.Style)

	sess, err := f.store.GetSession(result.SessionID)
	require.NoError(t, err)
	assert.Equal(t, []models.ImageVariant{regen.Variant}, sess.ImageVariants)
	assert.True(t, models.ImageDataMatches(sess.ImageVariants, sess.ImageData))

	_, err = f.svc.GetImage(context.Background(), result.SessionID, oldID)
	assert.True(t, domainerrors.IsNotFound(err))
	data, err := f.svc.GetImage(context.Background(), result.SessionID, regen.Variant.ID)
	require.NoError(t, err)
	assert.Equal(t, testutils.TestPNG, data)
}

func TestRegenerateImage_ZeroBudget(t *testing.T) {
	f := newFixture(t, 0)
	f.expectRecipient()
	f.expectImages()
	result := f.generate(t, testutils.NewTestPlainRequest())
	calls := len(f.images.Calls)

	_, err := f.svc.RegenerateImage(context.Background(), result.SessionID, nil)

	assert.True(t, domainerrors.IsRegenerationLimitExceeded(err))
	assert.Len(t, f.images.Calls, calls)
}

func TestSendCard_Success(t *testing.T) {
	// Arrange
	f := newFixture(t, 3)
	f.expectRecipient()
	f.expectImages()
	f.expectTexts("Happy anniversary!")
	result := f.generate(t, testutils.NewTestRequest())

	f.delivery.On("Send", mock.Anything, mock.MatchedBy(func(d *card.Delivery) bool {
		return d.RecipientName == testutils.TestRecipientName &&
			d.SenderName == testutils.TestSenderName &&
			d.Reason == testutils.TestReason &&
			d.Text == "Happy anniversary!" &&
			string(d.Image) == string(testutils.TestPNG)
	})).Return(testutils.TestDeliveryID, nil)
	f.receipts.On("Record", mock.Anything, mock.MatchedBy(func(r *models.DeliveryReceipt) bool {
		return r.DeliveryID == testutils.TestDeliveryID && r.SessionID == result.SessionID
	})).Return(nil)

	// Act
	sent, err := f.svc.SendCard(context.Background(), &card.SendRequest{
		SessionID:          result.SessionID,
		SelectedTextIndex:  1,
		SelectedImageIndex: 2,
	})

	// Assert
	require.NoError(t, err)
	assert.True(t, sent.Success)
	assert.Equal(t, testutils.TestDeliveryID, sent.DeliveryID)
	assert.Contains(t, sent.Message, testutils.TestRecipientName)
	f.delivery.AssertExpectations(t)
	f.receipts.AssertExpectations(t)

	events := f.auditEvents(models.EventSend)
	require.Len(t, events, 1)
	assert.True(t, events[0].Success)
	assert.Equal(t, testutils.TestDeliveryID, events[0].DeliveryID)

	// The session stays usable after a send
	_, err = f.store.GetSession(result.SessionID)
	assert.NoError(t, err)
}

// An out-of-range text index is rejected before delivery.
func TestSendCard_TextIndexOutOfRange(t *testing.T) {
	// Arrange
	f := newFixture(t, 3)
	f.expectRecipient()
	f.expectImages()
	f.expectTexts("text")
	result := f.generate(t, testutils.NewTestRequest())

	// Act
	_, err := f.svc.SendCard(context.Background(), &card.SendRequest{
		SessionID:          result.SessionID,
		SelectedTextIndex:  5,
		SelectedImageIndex: 0,
	})

	// Assert
	de, ok := domainerrors.GetDomainError(err)
	require.True(t, ok)
	assert.Equal(t, domainerrors.ErrCodeVariantNotFound, de.Code)
	assert.Equal(t, domainerrors.ElementText, de.ElementType)
	assert.Equal(t, 5, de.Index)
	f.delivery.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestSendCard_ImageIndexOutOfRange(t *testing.T) {
	f := newFixture(t, 3)
	f.expectRecipient()
	f.expectImages()
	f.expectTexts("text")
	result := f.generate(t, testutils.NewTestRequest())

	for _, idx := range []int{-1, 3} {
		_, err := f.svc.SendCard(context.Background(), &card.SendRequest{
			SessionID:          result.SessionID,
			SelectedTextIndex:  0,
			SelectedImageIndex: idx,
		})

		de, ok := domainerrors.GetDomainError(err)
		require.True(t, ok)
		assert.Equal(t, domainerrors.ElementImage, de.ElementType)
		assert.Equal(t, idx, de.Index)
	}
	f.delivery.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestSendCard_UnknownSession(t *testing.T) {
	f := newFixture(t, 3)

	_, err := f.svc.SendCard(context.Background(), &card.SendRequest{SessionID: "missing"})

	assert.True(t, domainerrors.HasCode(err, domainerrors.ErrCodeSessionNotFound))
}

// A failing delivery is reported in the result, not raised.
func TestSendCard_DeliveryFailure(t *testing.T) {
	// Arrange
	f := newFixture(t, 3)
	f.expectRecipient()
	f.expectImages()
	f.expectTexts("text")
	result := f.generate(t, testutils.NewTestRequest())
	f.delivery.On("Send", mock.Anything, mock.Anything).
		Return("", domainerrors.NewDeliveryError(errors.New("channel unreachable")))

	// Act
	sent, err := f.svc.SendCard(context.Background(), &card.SendRequest{SessionID: result.SessionID})

	// Assert
	require.NoError(t, err)
	assert.False(t, sent.Success)
	assert.Contains(t, sent.Message, "channel unreachable")
	assert.Empty(t, sent.DeliveryID)
	f.receipts.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)

	events := f.auditEvents(models.EventSend)
	require.Len(t, events, 1)
	assert.False(t, events[0].Success)
}

func TestSendCard_ReceiptFailureDoesNotFailSend(t *testing.T) {
	f := newFixture(t, 3)
	f.expectRecipient()
	f.expectImages()
	f.expectTexts("text")
	result := f.generate(t, testutils.NewTestRequest())
	f.delivery.On("Send", mock.Anything, mock.Anything).Return(testutils.TestDeliveryID, nil)
	f.receipts.On("Record", mock.Anything, mock.Anything).Return(errors.New("cache down"))

	sent, err := f.svc.SendCard(context.Background(), &card.SendRequest{SessionID: result.SessionID})

	require.NoError(t, err)
	assert.True(t, sent.Success)
}

func TestGetSessionStatus(t *testing.T) {
	f := newFixture(t, 3)
	f.expectRecipient()
	f.expectImages()
	f.expectTexts("text")
	result := f.generate(t, testutils.NewTestRequest())
	_, err := f.svc.RegenerateText(context.Background(), result.SessionID, nil)
	require.NoError(t, err)

	status, err := f.svc.GetSessionStatus(context.Background(), result.SessionID)

	require.NoError(t, err)
	assert.Equal(t, result.SessionID, status.SessionID)
	assert.Equal(t, 2, status.TextRegenerationsLeft)
	assert.Equal(t, 3, status.ImageRegenerationsLeft)
	assert.Equal(t, 3, status.MaxRegenerations)
	assert.Len(t, status.TextVariants, 1)
	assert.Equal(t, status.CreatedAt.Add(time.Hour), status.ExpiresAt)
}
