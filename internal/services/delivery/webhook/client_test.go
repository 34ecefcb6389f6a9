package webhook_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/unifiedui/card-service/internal/domain/errors"
	"github.com/unifiedui/card-service/internal/services/card"
	"github.com/unifiedui/card-service/internal/services/delivery/webhook"
	"github.com/unifiedui/card-service/internal/testutils"
)

func testDelivery() *card.Delivery {
	return &card.Delivery{
		Image:         testutils.TestPNG,
		RecipientName: testutils.TestRecipientName,
		Reason:        testutils.TestReason,
		Text:          "Happy anniversary!",
		SenderName:    testutils.TestSenderName,
	}
}

func TestNewClient_Validation(t *testing.T) {
	_, err := webhook.NewClient(nil)
	assert.Error(t, err)

	_, err = webhook.NewClient(&webhook.Config{})
	assert.Error(t, err)

	_, err = webhook.NewClient(&webhook.Config{URL: "http://localhost/cards"})
	assert.NoError(t, err)
}

func TestSend_PostsMultipartCard(t *testing.T) {
	// Arrange
	type received struct {
		auth      string
		fields    map[string]string
		image     []byte
		imageType string
	}
	got := make(chan received, 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		rec := received{auth: r.Header.Get("Authorization"), fields: map[string]string{}}
		for k, v := range r.MultipartForm.Value {
			rec.fields[k] = v[0]
		}
		file, header, err := r.FormFile("image")
		if assert.NoError(t, err) {
			rec.image, _ = io.ReadAll(file)
			rec.imageType = header.Header.Get("Content-Type")
			_ = file.Close()
		}
		got <- rec

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"deliveryId": "dlv-42"}`))
	}))
	defer server.Close()

	client, err := webhook.NewClient(&webhook.Config{URL: server.URL + "/", Token: "secret"})
	require.NoError(t, err)

	// Act
	id, err := client.Send(context.Background(), testDelivery())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "dlv-42", id)

	rec := <-got
	assert.Equal(t, "Bearer secret", rec.auth)
	assert.Equal(t, map[string]string{
		"recipient": testutils.TestRecipientName,
		"reason":    testutils.TestReason,
		"text":      "Happy anniversary!",
		"sender":    testutils.TestSenderName,
	}, rec.fields)
	assert.Equal(t, testutils.TestPNG, rec.image)
	assert.Equal(t, "image/png", rec.imageType)
}

func TestSend_OmitsEmptyFieldsAndToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		_, hasSender := r.MultipartForm.Value["sender"]
		assert.False(t, hasSender)
		_, _ = w.Write([]byte(`{"id": "dlv-7"}`))
	}))
	defer server.Close()

	client, err := webhook.NewClient(&webhook.Config{URL: server.URL})
	require.NoError(t, err)

	d := testDelivery()
	d.SenderName = ""
	id, err := client.Send(context.Background(), d)

	require.NoError(t, err)
	assert.Equal(t, "dlv-7", id)
}

func TestSend_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{name: "server error", status: http.StatusInternalServerError, body: "channel down", wantMsg: "status 500"},
		{name: "unauthorized", status: http.StatusUnauthorized, body: "", wantMsg: "status 401"},
		{name: "missing id", status: http.StatusOK, body: `{}`, wantMsg: "no delivery id"},
		{name: "invalid json", status: http.StatusOK, body: `<html>`, wantMsg: "failed to parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client, err := webhook.NewClient(&webhook.Config{URL: server.URL})
			require.NoError(t, err)

			// Act
			id, err := client.Send(context.Background(), testDelivery())

			// Assert
			assert.Empty(t, id)
			assert.True(t, domainerrors.HasCode(err, domainerrors.ErrCodeDeliveryFailed))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestSend_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client, err := webhook.NewClient(&webhook.Config{URL: url})
	require.NoError(t, err)

	_, err = client.Send(context.Background(), testDelivery())

	assert.True(t, domainerrors.HasCode(err, domainerrors.ErrCodeDeliveryFailed))
}

func TestSend_NilDelivery(t *testing.T) {
	client, err := webhook.NewClient(&webhook.Config{URL: "http://localhost"})
	require.NoError(t, err)

	_, err = client.Send(context.Background(), nil)

	assert.True(t, domainerrors.HasCode(err, domainerrors.ErrCodeDeliveryFailed))
}
