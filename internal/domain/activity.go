package domain

import "time"

// ActivityType enumerates the supported workout categories.
type ActivityType string

const (
	ActivityGym  ActivityType = "gym"
	ActivityRun  ActivityType = "run"
	ActivityWalk ActivityType = "walk"
	ActivityYoga ActivityType = "yoga"
)

// ValidActivityType reports whether the value is a known category.
func ValidActivityType(value string) bool {
	switch ActivityType(value) {
	case ActivityGym, ActivityRun, ActivityWalk, ActivityYoga:
		return true
	}
	return false
}

// Activity is an immutable workout record. Once created it is never
// mutated or deleted; all derived statistics are recomputed from the
// full history.
type Activity struct {
	ID              string
	UserID          string
	Type            ActivityType
	DurationMinutes int
	Calories        *int
	Notes           *string
	OccurredAt      time.Time
	CreatedAt       time.Time
}

// Cursor models the keyset pagination token for activity listings.
type Cursor struct {
	OccurredAt time.Time
	ID         string
}
