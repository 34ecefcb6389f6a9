package receipts_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/unifiedui/card-service/internal/domain/errors"
	"github.com/unifiedui/card-service/internal/infrastructure/cache/redis"
	"github.com/unifiedui/card-service/internal/mocks"
	"github.com/unifiedui/card-service/internal/pkg/encryption"
	"github.com/unifiedui/card-service/internal/services/receipts"
	"github.com/unifiedui/card-service/internal/testutils"
)

func newRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := redis.NewClient(redis.Config{Host: mr.Host(), Port: mr.Port(), KeyPrefix: "card-service:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func newSealer(t *testing.T) encryption.Sealer {
	t.Helper()
	key, err := encryption.GenerateKey()
	require.NoError(t, err)
	sealer, err := encryption.NewAESSealer(key)
	require.NoError(t, err)
	return sealer
}

func TestNewService_Validation(t *testing.T) {
	_, err := receipts.NewService(nil)
	assert.Error(t, err)

	_, err = receipts.NewService(&receipts.Config{Sealer: encryption.NewNoOpSealer()})
	assert.Error(t, err)

	_, err = receipts.NewService(&receipts.Config{CacheClient: &mocks.MockCacheClient{}})
	assert.Error(t, err)
}

func TestRecordAndGet_RoundTrip(t *testing.T) {
	// Arrange
	client, mr := newRedis(t)
	svc, err := receipts.NewService(&receipts.Config{CacheClient: client, Sealer: newSealer(t), TTL: time.Hour})
	require.NoError(t, err)
	receipt := testutils.NewTestReceipt()

	// Act
	require.NoError(t, svc.Record(context.Background(), receipt))
	got, err := svc.Get(context.Background(), testutils.TestDeliveryID)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, receipt, got)

	key := "card-service:" + receipts.BuildCacheKey(testutils.TestDeliveryID)
	stored, err := mr.Get(key)
	require.NoError(t, err)
	assert.NotContains(t, stored, testutils.TestRecipientName, "receipts are sealed at rest")
	assert.Equal(t, time.Hour, mr.TTL(key))
}

func TestGet_Missing(t *testing.T) {
	client, _ := newRedis(t)
	svc, err := receipts.NewService(&receipts.Config{CacheClient: client, Sealer: newSealer(t)})
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), "unknown")

	assert.True(t, domainerrors.IsNotFound(err))
}

func TestGet_ExpiredReceipt(t *testing.T) {
	client, mr := newRedis(t)
	svc, err := receipts.NewService(&receipts.Config{CacheClient: client, Sealer: newSealer(t), TTL: time.Minute})
	require.NoError(t, err)
	require.NoError(t, svc.Record(context.Background(), testutils.NewTestReceipt()))

	mr.FastForward(2 * time.Minute)

	_, err = svc.Get(context.Background(), testutils.TestDeliveryID)
	assert.True(t, domainerrors.IsNotFound(err))
}

func TestGet_KeyRotationDropsEntry(t *testing.T) {
	// Arrange - written with one key, read with another
	client, mr := newRedis(t)
	writer, err := receipts.NewService(&receipts.Config{CacheClient: client, Sealer: newSealer(t)})
	require.NoError(t, err)
	reader, err := receipts.NewService(&receipts.Config{CacheClient: client, Sealer: newSealer(t)})
	require.NoError(t, err)
	require.NoError(t, writer.Record(context.Background(), testutils.NewTestReceipt()))

	// Act
	_, err = reader.Get(context.Background(), testutils.TestDeliveryID)

	// Assert
	assert.True(t, domainerrors.IsNotFound(err))
	assert.False(t, mr.Exists("card-service:"+receipts.BuildCacheKey(testutils.TestDeliveryID)))
}

func TestRecord_RequiresDeliveryID(t *testing.T) {
	svc, err := receipts.NewService(&receipts.Config{CacheClient: &mocks.MockCacheClient{}, Sealer: encryption.NewNoOpSealer()})
	require.NoError(t, err)

	assert.Error(t, svc.Record(context.Background(), nil))
	r := testutils.NewTestReceipt()
	r.DeliveryID = ""
	assert.Error(t, svc.Record(context.Background(), r))
}

func TestGet_CacheFailure(t *testing.T) {
	cacheClient := &mocks.MockCacheClient{}
	cacheClient.On("Get", mock.Anything, receipts.BuildCacheKey("dlv")).Return(nil, errors.New("connection reset"))
	svc, err := receipts.NewService(&receipts.Config{CacheClient: cacheClient, Sealer: encryption.NewNoOpSealer()})
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), "dlv")

	assert.True(t, domainerrors.HasCode(err, domainerrors.ErrCodeServiceUnavailable))
}

func TestRecord_CacheFailure(t *testing.T) {
	cacheClient := &mocks.MockCacheClient{}
	cacheClient.On("Set", mock.Anything, mock.Anything, mock.Anything, time.Hour).Return(errors.New("read only replica"))
	svc, err := receipts.NewService(&receipts.Config{CacheClient: cacheClient, Sealer: encryption.NewNoOpSealer(), TTL: time.Hour})
	require.NoError(t, err)

	err = svc.Record(context.Background(), testutils.NewTestReceipt())

	assert.ErrorContains(t, err, "read only replica")
}
