// Package domain defines the business logic for the GetFit service.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"example.com/getfit/internal/streak"
)

var (
	// ErrEmailTaken indicates a registration against an existing email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials is returned for unknown emails and bad passwords alike.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUserNotFound is returned when a user cannot be located.
	ErrUserNotFound = errors.New("user not found")
	// ErrSelfFriendship rejects befriending oneself.
	ErrSelfFriendship = errors.New("cannot add yourself as friend")
	// ErrAlreadyFriends rejects duplicate friendships.
	ErrAlreadyFriends = errors.New("already friends")
	// ErrInvalidActivityType rejects unknown workout categories.
	ErrInvalidActivityType = errors.New("unknown activity type")
)

// UserRepository captures account persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	UpdateEngagement(ctx context.Context, userID string, currentStreak, longestStreak, totalActivities int) error
}

// ActivityRepository captures activity persistence operations. Create
// is expected to record the activity and its outbox event in a single
// transaction.
type ActivityRepository interface {
	Create(ctx context.Context, activity Activity) error
	ListByUser(ctx context.Context, userID string, cursor *Cursor, limit int) ([]Activity, *Cursor, error)
	HistoryByUser(ctx context.Context, userID string) ([]Activity, error)
}

// FriendshipRepository captures the social graph operations.
type FriendshipRepository interface {
	Exists(ctx context.Context, userA, userB string) (bool, error)
	Create(ctx context.Context, friendship Friendship) error
	FriendIDs(ctx context.Context, userID string) ([]string, error)
}

// PasswordHasher abstracts credential hashing so the domain stays free
// of crypto imports.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) error
}

// Service orchestrates account, activity and social workflows.
type Service struct {
	users       UserRepository
	activities  ActivityRepository
	friendships FriendshipRepository
	hasher      PasswordHasher

	// now supplies the reference instant for streak computation.
	// Injectable so tests control the clock.
	now func() time.Time

	calendarWindowDays int
}

// Option customises Service construction.
type Option func(*Service)

// WithClock overrides the reference clock.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithCalendarWindow overrides the trailing calendar window length.
func WithCalendarWindow(days int) Option {
	return func(s *Service) { s.calendarWindowDays = days }
}

// NewService constructs a Service.
func NewService(users UserRepository, activities ActivityRepository, friendships FriendshipRepository, hasher PasswordHasher, opts ...Option) *Service {
	s := &Service{
		users:              users,
		activities:         activities,
		friendships:        friendships,
		hasher:             hasher,
		now:                func() time.Time { return time.Now().UTC() },
		calendarWindowDays: streak.DefaultCalendarWindowDays,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterUserInput captures the registration payload.
type RegisterUserInput struct {
	Email        string
	Password     string
	Name         string
	Age          int
	Gender       string
	FitnessGoals string
}

// RegisterUser creates an account with hashed credentials and zeroed
// engagement counters.
func (s *Service) RegisterUser(ctx context.Context, input RegisterUserInput) (*User, error) {
	existing, err := s.users.FindByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := User{
		ID:           uuid.NewString(),
		Email:        input.Email,
		PasswordHash: hash,
		Name:         input.Name,
		Age:          input.Age,
		Gender:       Gender(input.Gender),
		FitnessGoals: input.FitnessGoals,
		CreatedAt:    s.now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return &user, nil
}

// AuthenticateUser verifies credentials. Unknown email and wrong
// password produce the same error so the response does not leak which
// part failed.
func (s *Service) AuthenticateUser(ctx context.Context, email, password string) (*User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Profile loads the user and refreshes the cached engagement counters
// from activity history before returning them. The persisted counters
// are a cache owned by this layer; the streak engine itself never
// writes anything.
func (s *Service) Profile(ctx context.Context, userID string) (*User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	result, total, err := s.refreshEngagement(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.CurrentStreak = result.Current
	user.LongestStreak = result.Longest
	user.TotalActivities = total
	return user, nil
}

// LogActivityInput captures the activity payload from the API layer.
type LogActivityInput struct {
	UserID          string
	Type            string
	DurationMinutes int
	Calories        *int
	Notes           *string
}

// LogActivity records a workout, then refreshes the owner's cached
// engagement counters against the new history.
func (s *Service) LogActivity(ctx context.Context, input LogActivityInput) (*Activity, error) {
	if !ValidActivityType(input.Type) {
		return nil, ErrInvalidActivityType
	}

	now := s.now()
	activity := Activity{
		ID:              uuid.NewString(),
		UserID:          input.UserID,
		Type:            ActivityType(input.Type),
		DurationMinutes: input.DurationMinutes,
		Calories:        input.Calories,
		Notes:           input.Notes,
		OccurredAt:      now,
		CreatedAt:       now,
	}
	if err := s.activities.Create(ctx, activity); err != nil {
		return nil, err
	}

	if _, _, err := s.refreshEngagement(ctx, input.UserID); err != nil {
		return nil, err
	}
	return &activity, nil
}

// ListActivities returns a newest-first page of the user's activities.
func (s *Service) ListActivities(ctx context.Context, userID string, cursor *Cursor, limit int) ([]Activity, *Cursor, error) {
	return s.activities.ListByUser(ctx, userID, cursor, limit)
}

// EngagementStats bundles the streak counters with the trailing
// calendar aggregation.
type EngagementStats struct {
	Streak   streak.Result
	Calendar streak.Calendar
}

// Engagement computes the user's streaks and activity calendar from a
// single history snapshot. Purely read-only; the cached profile
// counters are not touched here.
func (s *Service) Engagement(ctx context.Context, userID string) (*EngagementStats, error) {
	history, err := s.activities.HistoryByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	records := toRecords(history)
	return &EngagementStats{
		Streak:   streak.Compute(streak.Dates(records), now),
		Calendar: streak.BuildCalendar(records, now, s.calendarWindowDays),
	}, nil
}

// AddFriend links the user to the account registered under friendEmail.
func (s *Service) AddFriend(ctx context.Context, userID, friendEmail string) (*User, error) {
	friend, err := s.users.FindByEmail(ctx, friendEmail)
	if err != nil {
		return nil, err
	}
	if friend == nil {
		return nil, ErrUserNotFound
	}
	if friend.ID == userID {
		return nil, ErrSelfFriendship
	}

	exists, err := s.friendships.Exists(ctx, userID, friend.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyFriends
	}

	friendship := Friendship{
		ID:        uuid.NewString(),
		UserA:     userID,
		UserB:     friend.ID,
		CreatedAt: s.now(),
	}
	if err := s.friendships.Create(ctx, friendship); err != nil {
		return nil, err
	}
	return friend, nil
}

// ListFriends returns the user's friends, each with streaks computed
// from that friend's own history.
func (s *Service) ListFriends(ctx context.Context, userID string) ([]Friend, error) {
	ids, err := s.friendships.FriendIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	friends := make([]Friend, 0, len(ids))
	for _, id := range ids {
		user, err := s.users.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if user == nil {
			continue
		}

		history, err := s.activities.HistoryByUser(ctx, id)
		if err != nil {
			return nil, err
		}
		result := streak.Compute(streak.Dates(toRecords(history)), s.now())

		friends = append(friends, Friend{
			ID:            user.ID,
			Name:          user.Name,
			CurrentStreak: result.Current,
			LongestStreak: result.Longest,
		})
	}
	return friends, nil
}

// refreshEngagement recomputes streaks from history and writes them
// back to the profile cache.
func (s *Service) refreshEngagement(ctx context.Context, userID string) (streak.Result, int, error) {
	history, err := s.activities.HistoryByUser(ctx, userID)
	if err != nil {
		return streak.Result{}, 0, err
	}

	result := streak.Compute(streak.Dates(toRecords(history)), s.now())
	if err := s.users.UpdateEngagement(ctx, userID, result.Current, result.Longest, len(history)); err != nil {
		return streak.Result{}, 0, err
	}
	return result, len(history), nil
}

// toRecords maps activities onto the streak engine's leaf record type.
func toRecords(history []Activity) []streak.Record {
	records := make([]streak.Record, len(history))
	for i, activity := range history {
		records[i] = streak.Record{
			Type:       string(activity.Type),
			Duration:   activity.DurationMinutes,
			Calories:   activity.Calories,
			OccurredAt: activity.OccurredAt,
		}
	}
	return records
}
