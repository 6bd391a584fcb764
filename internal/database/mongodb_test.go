package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestConnectMongo_InvalidURI(t *testing.T) {
	_, err := ConnectMongo(context.Background(), "not-a-mongo-uri", time.Second)
	require.Error(t, err)
	require.Contains(t, err.Error(), "mongo connect")
}

func TestConnectMongoRetry_GivesUp(t *testing.T) {
	start := time.Now()
	_, err := ConnectMongoRetry(context.Background(), "not-a-mongo-uri", time.Second, Retry{Attempts: 3, Backoff: 10 * time.Millisecond})
	require.Error(t, err)
	require.Contains(t, err.Error(), "after 3 attempts")
	// 10ms + 20ms of backoff
	require.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestConnectMongoRetry_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ConnectMongoRetry(ctx, "not-a-mongo-uri", time.Second, Retry{Attempts: 5, Backoff: time.Hour})
	require.ErrorIs(t, err, context.Canceled)
}
