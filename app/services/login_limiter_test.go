package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/sklad/app/models"
)

func TestLoginLimiterAllowsUpToMax(t *testing.T) {
	db := testDB(t)
	limiter := NewLoginLimiter(db, 5, 15)

	for i := 0; i < 5; i++ {
		verdict, err := limiter.CheckAndRecord(context.Background(), "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, verdict.Allowed, "attempt %d should pass", i+1)
		assert.Equal(t, 5-(i+1), verdict.Remaining)
	}

	verdict, err := limiter.CheckAndRecord(context.Background(), "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, verdict.Allowed)
	assert.GreaterOrEqual(t, verdict.RetryAfterMinutes, 1)
	assert.LessOrEqual(t, verdict.RetryAfterMinutes, 15)
}

func TestLoginLimiterIsolatesIPs(t *testing.T) {
	db := testDB(t)
	limiter := NewLoginLimiter(db, 2, 15)

	for i := 0; i < 3; i++ {
		_, err := limiter.CheckAndRecord(context.Background(), "10.0.0.1")
		require.NoError(t, err)
	}

	verdict, err := limiter.CheckAndRecord(context.Background(), "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, verdict.Allowed)
}

func TestLoginLimiterWindowExpiry(t *testing.T) {
	db := testDB(t)
	limiter := NewLoginLimiter(db, 2, 15)

	// Attempts from before the window must not count.
	stale := time.Now().Add(-16 * time.Minute)
	for i := 0; i < 5; i++ {
		require.NoError(t, db.Create(&models.LoginAttempt{IP: "10.0.0.9", CreatedAt: stale}).Error)
	}

	verdict, err := limiter.CheckAndRecord(context.Background(), "10.0.0.9")
	require.NoError(t, err)
	assert.True(t, verdict.Allowed)
}

func TestLoginLimiterSweep(t *testing.T) {
	db := testDB(t)
	limiter := NewLoginLimiter(db, 5, 15)

	stale := time.Now().Add(-1 * time.Hour)
	for i := 0; i < 3; i++ {
		require.NoError(t, db.Create(&models.LoginAttempt{IP: "10.0.0.3", CreatedAt: stale}).Error)
	}
	_, err := limiter.CheckAndRecord(context.Background(), "10.0.0.3")
	require.NoError(t, err)

	deleted, err := limiter.Sweep(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 3, deleted)

	var remaining int64
	require.NoError(t, db.Model(&models.LoginAttempt{}).Count(&remaining).Error)
	assert.EqualValues(t, 1, remaining)
}
