package models

import "time"

// LoginAttempt is an append-only record of a sign-in attempt from an IP.
// The login limiter counts rows inside the sliding window; a periodic sweep
// deletes rows older than the window.
type LoginAttempt struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	IP        string    `gorm:"size:64;not null;index" json:"ip"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}
