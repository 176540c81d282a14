package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/sklad/app/models"
	"github.com/shashiranjanraj/sklad/pkg/metrics"
)

// ThrottleResult is the limiter's verdict for one sign-in attempt.
type ThrottleResult struct {
	Allowed           bool
	Remaining         int
	RetryAfterMinutes int
}

// LoginLimiter enforces a sliding-window limit on sign-in attempts per IP,
// backed by the login_attempts table so it survives restarts and is shared
// across instances.
type LoginLimiter struct {
	db          *gorm.DB
	maxAttempts int
	window      time.Duration
}

func NewLoginLimiter(db *gorm.DB, maxAttempts, windowMinutes int) *LoginLimiter {
	return &LoginLimiter{
		db:          db,
		maxAttempts: maxAttempts,
		window:      time.Duration(windowMinutes) * time.Minute,
	}
}

// CheckAndRecord counts attempts from ip inside the window. At the limit it
// denies without recording (a throttled request must not extend the
// window); otherwise the attempt is recorded before the caller checks any
// credentials, so successful sign-ins count too and never reset the window.
//
// When denied, RetryAfterMinutes is the time until the oldest attempt in
// the window falls out, rounded up to whole minutes.
func (l *LoginLimiter) CheckAndRecord(ctx context.Context, ip string) (ThrottleResult, error) {
	now := time.Now()
	cutoff := now.Add(-l.window)

	var count int64
	err := l.db.WithContext(ctx).
		Model(&models.LoginAttempt{}).
		Where("ip = ? AND created_at >= ?", ip, cutoff).
		Count(&count).Error
	if err != nil {
		return ThrottleResult{}, fmt.Errorf("count login attempts: %w", err)
	}

	if count >= int64(l.maxAttempts) {
		var oldest models.LoginAttempt
		err = l.db.WithContext(ctx).
			Where("ip = ? AND created_at >= ?", ip, cutoff).
			Order("created_at ASC").
			First(&oldest).Error
		if err != nil {
			return ThrottleResult{}, fmt.Errorf("find oldest login attempt: %w", err)
		}

		retryAfter := oldest.CreatedAt.Add(l.window).Sub(now)
		minutes := int(math.Ceil(retryAfter.Minutes()))
		if minutes < 1 {
			minutes = 1
		}

		metrics.LoginsThrottled.Inc()
		return ThrottleResult{Allowed: false, RetryAfterMinutes: minutes}, nil
	}

	attempt := models.LoginAttempt{IP: ip, CreatedAt: now}
	if err := l.db.WithContext(ctx).Create(&attempt).Error; err != nil {
		return ThrottleResult{}, fmt.Errorf("record login attempt: %w", err)
	}

	return ThrottleResult{
		Allowed:   true,
		Remaining: l.maxAttempts - int(count) - 1,
	}, nil
}

// Sweep deletes attempts older than the window and returns how many rows
// went away. Wired to the interval scheduler and the attempts:sweep command.
func (l *LoginLimiter) Sweep(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-l.window)
	res := l.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&models.LoginAttempt{})
	if res.Error != nil {
		return 0, fmt.Errorf("sweep login attempts: %w", res.Error)
	}
	return res.RowsAffected, nil
}
