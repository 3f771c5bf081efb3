package domain

import "time"

// Gender enumerates the self-reported gender options.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// ValidGender reports whether the value is a known option.
func ValidGender(value string) bool {
	switch Gender(value) {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// User is the account record. The streak counters and activity total
// are a cache of values derived from activity history; the stored copy
// may lag behind a recomputation against newer activities and is
// refreshed by the service layer, never trusted as a source of truth.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Age          int
	Gender       Gender
	FitnessGoals string

	CurrentStreak   int
	LongestStreak   int
	TotalActivities int

	CreatedAt time.Time
}

// Friendship links two users. The pair is unordered; either side may
// have initiated it.
type Friendship struct {
	ID        string
	UserA     string
	UserB     string
	CreatedAt time.Time
}

// Friend is the social listing view: a friend's profile basics plus
// freshly computed streaks.
type Friend struct {
	ID            string
	Name          string
	CurrentStreak int
	LongestStreak int
}
