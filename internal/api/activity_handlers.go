package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"example.com/getfit/internal/auth"
	"example.com/getfit/internal/domain"
	"example.com/getfit/internal/persistence"
	"example.com/getfit/internal/streak"
)

// ProfileResponse exposes the account with its cached engagement counters.
type ProfileResponse struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	Name            string    `json:"name"`
	Age             int       `json:"age"`
	Gender          string    `json:"gender"`
	FitnessGoals    string    `json:"fitness_goals"`
	CurrentStreak   int       `json:"current_streak"`
	LongestStreak   int       `json:"longest_streak"`
	TotalActivities int       `json:"total_activities"`
	CreatedAt       time.Time `json:"created_at"`
}

// CreateActivityRequest is the payload for POST /api/activities.
type CreateActivityRequest struct {
	ActivityType    string  `json:"activity_type"`
	DurationMinutes int     `json:"duration_minutes"`
	Calories        *int    `json:"calories_burned"`
	Notes           *string `json:"notes"`
}

// Validate ensures request correctness.
func (r CreateActivityRequest) Validate() error {
	if !domain.ValidActivityType(r.ActivityType) {
		return errors.New("activity_type must be one of gym, run, walk, yoga")
	}
	if r.DurationMinutes < 1 || r.DurationMinutes > 1440 {
		return errors.New("duration_minutes must be between 1 and 1440")
	}
	return nil
}

// ActivityView exposes a logged activity.
type ActivityView struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	ActivityType    string    `json:"activity_type"`
	DurationMinutes int       `json:"duration_minutes"`
	Calories        *int      `json:"calories_burned"`
	Notes           *string   `json:"notes"`
	OccurredAt      time.Time `json:"date"`
	CreatedAt       time.Time `json:"created_at"`
}

// ListActivitiesResponse packages list results.
type ListActivitiesResponse struct {
	Items      []ActivityView `json:"items"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

// StreakResponse merges the streak counters with the trailing calendar.
type StreakResponse struct {
	CurrentStreak    int             `json:"current_streak"`
	LongestStreak    int             `json:"longest_streak"`
	ActivityCalendar streak.Calendar `json:"activity_calendar"`
}

func (h *Handler) profile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}

	user, err := h.service.Profile(r.Context(), claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "user not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, ProfileResponse{
		ID:              user.ID,
		Email:           user.Email,
		Name:            user.Name,
		Age:             user.Age,
		Gender:          string(user.Gender),
		FitnessGoals:    user.FitnessGoals,
		CurrentStreak:   user.CurrentStreak,
		LongestStreak:   user.LongestStreak,
		TotalActivities: user.TotalActivities,
		CreatedAt:       user.CreatedAt,
	})
}

func (h *Handler) activities(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.createActivity(w, r)
	case http.MethodGet:
		h.listActivities(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) createActivity(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}

	var req CreateActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	activity, err := h.service.LogActivity(r.Context(), domain.LogActivityInput{
		UserID:          claims.Subject,
		Type:            req.ActivityType,
		DurationMinutes: req.DurationMinutes,
		Calories:        req.Calories,
		Notes:           req.Notes,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidActivityType) {
			writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, toActivityView(*activity))
}

func (h *Handler) listActivities(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}

	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	cursor, err := persistence.DecodeCursor(r.URL.Query().Get("cursor"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "invalid cursor")
		return
	}

	activities, next, err := h.service.ListActivities(r.Context(), claims.Subject, cursor, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	items := make([]ActivityView, 0, len(activities))
	for _, activity := range activities {
		items = append(items, toActivityView(activity))
	}

	writeJSON(w, http.StatusOK, ListActivitiesResponse{
		Items:      items,
		NextCursor: persistence.EncodeCursor(next),
	})
}

func (h *Handler) streak(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}

	stats, err := h.service.Engagement(r.Context(), claims.Subject)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, StreakResponse{
		CurrentStreak:    stats.Streak.Current,
		LongestStreak:    stats.Streak.Longest,
		ActivityCalendar: stats.Calendar,
	})
}

func toActivityView(activity domain.Activity) ActivityView {
	return ActivityView{
		ID:              activity.ID,
		UserID:          activity.UserID,
		ActivityType:    string(activity.Type),
		DurationMinutes: activity.DurationMinutes,
		Calories:        activity.Calories,
		Notes:           activity.Notes,
		OccurredAt:      activity.OccurredAt,
		CreatedAt:       activity.CreatedAt,
	}
}
