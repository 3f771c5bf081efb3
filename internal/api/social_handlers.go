package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"example.com/getfit/internal/auth"
	"example.com/getfit/internal/domain"
)

// AddFriendRequest is the payload for POST /api/friends/add. The
// username field carries the friend's email.
type AddFriendRequest struct {
	Username string `json:"username"`
}

// AddFriendResponse confirms the new friendship.
type AddFriendResponse struct {
	Message    string `json:"message"`
	FriendName string `json:"friend_name"`
}

// FriendView exposes a friend with freshly computed streaks.
type FriendView struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	CurrentStreak int    `json:"current_streak"`
	LongestStreak int    `json:"longest_streak"`
}

func (h *Handler) addFriend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}

	var req AddFriendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if strings.TrimSpace(req.Username) == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "username is required")
		return
	}

	friend, err := h.service.AddFriend(r.Context(), claims.Subject, req.Username)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			writeError(w, http.StatusNotFound, "not_found", "user not found")
		case errors.Is(err, domain.ErrSelfFriendship):
			writeError(w, http.StatusBadRequest, "validation_failed", "cannot add yourself as friend")
		case errors.Is(err, domain.ErrAlreadyFriends):
			writeError(w, http.StatusBadRequest, "validation_failed", "already friends")
		default:
			writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, AddFriendResponse{
		Message:    "Friend added successfully",
		FriendName: friend.Name,
	})
}

func (h *Handler) listFriends(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}

	friends, err := h.service.ListFriends(r.Context(), claims.Subject)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	views := make([]FriendView, 0, len(friends))
	for _, friend := range friends {
		views = append(views, FriendView{
			ID:            friend.ID,
			Name:          friend.Name,
			CurrentStreak: friend.CurrentStreak,
			LongestStreak: friend.LongestStreak,
		})
	}
	writeJSON(w, http.StatusOK, views)
}
