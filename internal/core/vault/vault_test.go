package vault_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/unifiedui/card-service/internal/core/vault"
	"github.com/unifiedui/card-service/internal/mocks"
)

func TestIsSecretRef(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"dotenv://OPENAI_API_KEY", true},
		{"azure://kv/secret", true},
		{"hashicorp://kv/data/app", true},
		{"sk-literal-key", false},
		{"https://api.openai.com", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, vault.IsSecretRef(tt.value))
		})
	}
}

func TestResolve_Literal(t *testing.T) {
	v := &mocks.MockVault{}

	got, err := vault.Resolve(context.Background(), v, "plain-value")

	require.NoError(t, err)
	assert.Equal(t, "plain-value", got)
	v.AssertNotCalled(t, "GetSecret", mock.Anything, mock.Anything)
}

func TestResolve_Reference(t *testing.T) {
	// Arrange
	v := &mocks.MockVault{}
	v.On("GetSecret", mock.Anything, "dotenv://TOKEN").Return("s3cret", nil)

	// Act
	got, err := vault.Resolve(context.Background(), v, "dotenv://TOKEN")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "s3cret", got)
}

func TestResolve_Errors(t *testing.T) {
	_, err := vault.Resolve(context.Background(), nil, "dotenv://TOKEN")
	assert.Error(t, err)

	v := &mocks.MockVault{}
	v.On("GetSecret", mock.Anything, mock.Anything).Return("", errors.New("denied"))
	_, err = vault.Resolve(context.Background(), v, "azure://kv/token")
	assert.ErrorContains(t, err, "denied")

	got, err := vault.Resolve(context.Background(), nil, "")
	assert.NoError(t, err)
	assert.Empty(t, got)
}
