// Package events defines the payloads published to downstream consumers.
package events

import "time"

// ActivityLogged is emitted when a workout is accepted and persisted.
type ActivityLogged struct {
	ActivityID      string    `json:"activity_id"`
	UserID          string    `json:"user_id"`
	ActivityType    string    `json:"activity_type"`
	DurationMinutes int       `json:"duration_minutes"`
	Calories        *int      `json:"calories,omitempty"`
	OccurredAt      time.Time `json:"occurred_at"`
}

// UserRegistered is emitted when a new account is created.
type UserRegistered struct {
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	RegisteredAt time.Time `json:"registered_at"`
}
