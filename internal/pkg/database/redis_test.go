package database

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/t3-analytics/trucklake/internal/pkg/models"
)

func TestNewRedisClient_ConnectionError(t *testing.T) {
	config := models.RedisConfig{
		Host:     "invalid-host",
		Port:     9999,
		Password: "",
		DB:       0,
		PoolSize: 10,
	}

	client, err := NewRedisClient(config)

	assert.Error(t, err)
	assert.Nil(t, client)
	assert.Contains(t, err.Error(), "failed to connect to redis")
}

func TestRedisClient_Set(t *testing.T) {
	db, mock := redismock.NewClientMock()
	client := &RedisClient{client: db}

	ctx := context.Background()
	key := "sales:rows:2024-03-01:2024-03-05"
	value := "test-value"
	expiration := time.Hour

	mock.ExpectSet(key, value, expiration).SetVal("OK")

	err := client.Set(ctx, key, value, expiration)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisClient_Set_Error(t *testing.T) {
	db, mock := redismock.NewClientMock()
	client := &RedisClient{client: db}

	ctx := context.Background()
	key := "test:key"
	value := "test-value"
	expiration := time.Hour

	mock.ExpectSet(key, value, expiration).SetErr(redis.ErrClosed)

	err := client.Set(ctx, key, value, expiration)

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisClient_Get(t *testing.T) {
	tests := []struct {
		name          string
		key           string
		mockValue     string
		mockError     error
		expectedValue string
		expectedError bool
	}{
		{
			name:          "Key exists",
			key:           "test:existing:key",
			mockValue:     "existing-value",
			mockError:     nil,
			expectedValue: "existing-value",
			expectedError: false,
		},
		{
			name:          "Key does not exist",
			key:           "test:nonexistent:key",
			mockValue:     "",
			mockError:     redis.Nil,
			expectedValue: "",
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := redismock.NewClientMock()
			client := &RedisClient{client: db}

			ctx := context.Background()

			if tt.mockError != nil {
				mock.ExpectGet(tt.key).SetErr(tt.mockError)
			} else {
				mock.ExpectGet(tt.key).SetVal(tt.mockValue)
			}

			value, err := client.Get(ctx, tt.key)

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedValue, value)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRedisClient_Delete(t *testing.T) {
	db, mock := redismock.NewClientMock()
	client := &RedisClient{client: db}

	ctx := context.Background()
	key := "test:key"

	mock.ExpectDel(key).SetVal(1)

	err := client.Delete(ctx, key)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisClient_GetClient(t *testing.T) {
	db, _ := redismock.NewClientMock()
	client := &RedisClient{client: db}

	assert.Same(t, db, client.GetClient())
}
