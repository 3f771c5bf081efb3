package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"example.com/getfit/internal/auth"
	"example.com/getfit/internal/domain"
)

var testNow = time.Date(2025, time.June, 10, 18, 0, 0, 0, time.UTC)

var testTokens = auth.Config{Secret: "test-secret", Issuer: "getfit.test", TTL: time.Hour}

type mockUsers struct {
	users map[string]domain.User
}

func (m *mockUsers) Create(_ context.Context, user domain.User) error {
	m.users[user.ID] = user
	return nil
}

func (m *mockUsers) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, nil
}

func (m *mockUsers) FindByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

func (m *mockUsers) UpdateEngagement(_ context.Context, userID string, current, longest, total int) error {
	user, ok := m.users[userID]
	if !ok {
		return nil
	}
	user.CurrentStreak = current
	user.LongestStreak = longest
	user.TotalActivities = total
	m.users[userID] = user
	return nil
}

type mockActivities struct {
	byUser map[string][]domain.Activity
}

func (m *mockActivities) Create(_ context.Context, activity domain.Activity) error {
	m.byUser[activity.UserID] = append([]domain.Activity{activity}, m.byUser[activity.UserID]...)
	return nil
}

func (m *mockActivities) ListByUser(_ context.Context, userID string, _ *domain.Cursor, limit int) ([]domain.Activity, *domain.Cursor, error) {
	history := m.byUser[userID]
	if len(history) > limit {
		history = history[:limit]
	}
	return history, nil, nil
}

func (m *mockActivities) HistoryByUser(_ context.Context, userID string) ([]domain.Activity, error) {
	return m.byUser[userID], nil
}

type mockFriendships struct {
	pairs [][2]string
}

func (m *mockFriendships) Exists(_ context.Context, a, b string) (bool, error) {
	for _, pair := range m.pairs {
		if (pair[0] == a && pair[1] == b) || (pair[0] == b && pair[1] == a) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockFriendships) Create(_ context.Context, friendship domain.Friendship) error {
	m.pairs = append(m.pairs, [2]string{friendship.UserA, friendship.UserB})
	return nil
}

func (m *mockFriendships) FriendIDs(_ context.Context, userID string) ([]string, error) {
	var ids []string
	for _, pair := range m.pairs {
		switch userID {
		case pair[0]:
			ids = append(ids, pair[1])
		case pair[1]:
			ids = append(ids, pair[0])
		}
	}
	return ids, nil
}

type noopHasher struct{}

func (noopHasher) Hash(plain string) (string, error) { return plain, nil }

func (noopHasher) Compare(hash, plain string) error {
	if hash != plain {
		return domain.ErrInvalidCredentials
	}
	return nil
}

func newTestHandler() (*Handler, *mockUsers, *mockActivities) {
	users := &mockUsers{users: make(map[string]domain.User)}
	activities := &mockActivities{byUser: make(map[string][]domain.Activity)}
	service := domain.NewService(users, activities, &mockFriendships{}, noopHasher{},
		domain.WithClock(func() time.Time { return testNow }))
	return NewHandler(service, testTokens), users, activities
}

func authed(req *http.Request, userID string) *http.Request {
	claims := &auth.Claims{Subject: userID, ExpiresAt: testNow.Add(time.Hour)}
	return req.WithContext(auth.WithClaims(req.Context(), claims))
}

func seedUser(users *mockUsers, id, email string) {
	users.users[id] = domain.User{
		ID: id, Email: email, PasswordHash: "pw", Name: "Seed User",
		Age: 28, Gender: domain.GenderOther, CreatedAt: testNow,
	}
}

func TestRegisterIssuesToken(t *testing.T) {
	handler, _, _ := newTestHandler()

	body := `{"email":"a@example.com","password":"secret123","name":"Alice","age":30,"gender":"female","fitness_goals":"run more"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
	rr := httptest.NewRecorder()
	handler.register(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rr.Code, rr.Body.String())
	}

	var resp TokenResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.TokenType != "bearer" {
		t.Fatalf("unexpected token type %q", resp.TokenType)
	}

	claims, err := auth.Parse(resp.AccessToken, testTokens)
	if err != nil {
		t.Fatalf("issued token failed to parse: %v", err)
	}
	if claims.Subject == "" {
		t.Fatal("expected subject in claims")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	handler, users, _ := newTestHandler()
	seedUser(users, "user-1", "a@example.com")

	body := `{"email":"a@example.com","password":"secret123","name":"Alice","age":30,"gender":"female","fitness_goals":""}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
	rr := httptest.NewRecorder()
	handler.register(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rr.Code)
	}
}

func TestRegisterValidation(t *testing.T) {
	handler, _, _ := newTestHandler()

	tests := []struct {
		name string
		body string
	}{
		{"short password", `{"email":"a@example.com","password":"abc","name":"Alice","age":30,"gender":"female"}`},
		{"bad age", `{"email":"a@example.com","password":"secret123","name":"Alice","age":7,"gender":"female"}`},
		{"bad gender", `{"email":"a@example.com","password":"secret123","name":"Alice","age":30,"gender":"unknown"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			handler.register(rr, req)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("expected 400 got %d", rr.Code)
			}
		})
	}
}

func TestLoginBadCredentials(t *testing.T) {
	handler, users, _ := newTestHandler()
	seedUser(users, "user-1", "a@example.com")

	body := `{"email":"a@example.com","password":"wrong"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	rr := httptest.NewRecorder()
	handler.login(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rr.Code)
	}
}

func TestCreateActivityRequiresClaims(t *testing.T) {
	handler, _, _ := newTestHandler()

	body := `{"activity_type":"run","duration_minutes":30}`
	req := httptest.NewRequest(http.MethodPost, "/api/activities", strings.NewReader(body))
	rr := httptest.NewRecorder()
	handler.activities(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rr.Code)
	}
}

func TestCreateActivitySuccess(t *testing.T) {
	handler, users, _ := newTestHandler()
	seedUser(users, "user-1", "a@example.com")

	body := `{"activity_type":"run","duration_minutes":30,"calories_burned":200}`
	req := authed(httptest.NewRequest(http.MethodPost, "/api/activities", strings.NewReader(body)), "user-1")
	rr := httptest.NewRecorder()
	handler.activities(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rr.Code, rr.Body.String())
	}

	var resp ActivityView
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ActivityType != "run" || resp.UserID != "user-1" {
		t.Fatalf("unexpected activity %+v", resp)
	}
	if resp.Calories == nil || *resp.Calories != 200 {
		t.Fatalf("expected calories 200, got %+v", resp.Calories)
	}

	// Logging refreshed the cached counters.
	if users.users["user-1"].TotalActivities != 1 {
		t.Fatalf("expected total_activities 1, got %d", users.users["user-1"].TotalActivities)
	}
}

func TestCreateActivityValidation(t *testing.T) {
	handler, users, _ := newTestHandler()
	seedUser(users, "user-1", "a@example.com")

	body := `{"activity_type":"swim","duration_minutes":30}`
	req := authed(httptest.NewRequest(http.MethodPost, "/api/activities", strings.NewReader(body)), "user-1")
	rr := httptest.NewRecorder()
	handler.activities(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rr.Code)
	}
}

func TestStreakEndpoint(t *testing.T) {
	handler, users, activities := newTestHandler()
	seedUser(users, "user-1", "a@example.com")
	activities.byUser["user-1"] = []domain.Activity{
		{UserID: "user-1", Type: domain.ActivityRun, DurationMinutes: 30, OccurredAt: testNow.AddDate(0, 0, -1)},
		{UserID: "user-1", Type: domain.ActivityGym, DurationMinutes: 60, OccurredAt: testNow.AddDate(0, 0, -2)},
	}

	req := authed(httptest.NewRequest(http.MethodGet, "/api/streak", nil), "user-1")
	rr := httptest.NewRecorder()
	handler.streak(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rr.Code, rr.Body.String())
	}

	var resp StreakResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.CurrentStreak != 2 || resp.LongestStreak != 2 {
		t.Fatalf("unexpected streaks %+v", resp)
	}
	if len(resp.ActivityCalendar) != 2 {
		t.Fatalf("expected 2 calendar days, got %d", len(resp.ActivityCalendar))
	}
}

func TestProfileEndpoint(t *testing.T) {
	handler, users, activities := newTestHandler()
	seedUser(users, "user-1", "a@example.com")
	activities.byUser["user-1"] = []domain.Activity{
		{UserID: "user-1", Type: domain.ActivityWalk, DurationMinutes: 20, OccurredAt: testNow},
	}

	req := authed(httptest.NewRequest(http.MethodGet, "/api/profile", nil), "user-1")
	rr := httptest.NewRecorder()
	handler.profile(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rr.Code, rr.Body.String())
	}

	var resp ProfileResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.CurrentStreak != 1 || resp.TotalActivities != 1 {
		t.Fatalf("unexpected profile %+v", resp)
	}
}

func TestAddFriendSelf(t *testing.T) {
	handler, users, _ := newTestHandler()
	seedUser(users, "user-1", "a@example.com")

	body := `{"username":"a@example.com"}`
	req := authed(httptest.NewRequest(http.MethodPost, "/api/friends/add", strings.NewReader(body)), "user-1")
	rr := httptest.NewRecorder()
	handler.addFriend(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestAddFriendUnknown(t *testing.T) {
	handler, users, _ := newTestHandler()
	seedUser(users, "user-1", "a@example.com")

	body := `{"username":"nobody@example.com"}`
	req := authed(httptest.NewRequest(http.MethodPost, "/api/friends/add", strings.NewReader(body)), "user-1")
	rr := httptest.NewRecorder()
	handler.addFriend(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rr.Code)
	}
}

func TestListFriends(t *testing.T) {
	handler, users, _ := newTestHandler()
	seedUser(users, "user-1", "a@example.com")
	seedUser(users, "user-2", "b@example.com")

	body := `{"username":"b@example.com"}`
	req := authed(httptest.NewRequest(http.MethodPost, "/api/friends/add", strings.NewReader(body)), "user-1")
	rr := httptest.NewRecorder()
	handler.addFriend(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rr.Code, rr.Body.String())
	}

	req = authed(httptest.NewRequest(http.MethodGet, "/api/friends", nil), "user-1")
	rr = httptest.NewRecorder()
	handler.listFriends(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rr.Code)
	}

	var resp []FriendView
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 1 || resp[0].ID != "user-2" {
		t.Fatalf("unexpected friends %+v", resp)
	}
}
