package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/retailsurvey/fieldsurvey-go/internal/crypto"
	"github.com/retailsurvey/fieldsurvey-go/internal/model"
)

const testSecret = "test-secret"

func echoSurveyor(t *testing.T, wantOK bool, wantID int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := SurveyorIDFromContext(r.Context())
		if ok != wantOK || id != wantID {
			t.Errorf("SurveyorIDFromContext() = (%d, %v), want (%d, %v)", id, ok, wantID, wantOK)
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestJWTAuth_ValidToken(t *testing.T) {
	token, err := crypto.GenerateToken(42, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() error: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	JWTAuth(testSecret)(echoSurveyor(t, true, 42)).ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
}

func TestJWTAuth_Rejects(t *testing.T) {
	other, _ := crypto.GenerateToken(42, "other-secret", time.Hour)

	tests := []struct {
		name   string
		header string
		msg    string
	}{
		{"missing", "", "missing authorization header"},
		{"not bearer", "Basic abc", "invalid authorization format"},
		{"empty bearer", "Bearer ", "invalid authorization format"},
		{"wrong secret", "Bearer " + other, "invalid or expired token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
				t.Error("handler should not be called")
			})
			JWTAuth(testSecret)(next).ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
			}
			var resp model.StatusResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Success || resp.Message != tt.msg {
				t.Errorf("body = %+v, want message %q", resp, tt.msg)
			}
		})
	}
}

func TestOptionalJWTAuth(t *testing.T) {
	token, _ := crypto.GenerateToken(7, testSecret, time.Hour)

	req := httptest.NewRequest(http.MethodPost, "/api/records", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	OptionalJWTAuth(testSecret)(echoSurveyor(t, true, 7)).ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest(http.MethodPost, "/api/records", nil)
	OptionalJWTAuth(testSecret)(echoSurveyor(t, false, 0)).ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest(http.MethodPost, "/api/records", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	OptionalJWTAuth(testSecret)(echoSurveyor(t, false, 0)).ServeHTTP(httptest.NewRecorder(), req)
}

func TestRateLimit_BlocksAfterBurst(t *testing.T) {
	handler := RateLimit(0.001, 2)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("status codes = %v, want [200 200 429]", codes)
	}

	// A different client keeps its own budget.
	req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
	req.RemoteAddr = "10.0.0.2:5000"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("second client status = %d, want 200", rec.Code)
	}
}

func TestIPRateLimiter_Evict(t *testing.T) {
	rl := &ipRateLimiter{
		visitors: make(map[string]*visitor),
		rps:      1,
		burst:    1,
		idle:     time.Minute,
	}
	rl.getLimiter("10.0.0.1")
	rl.getLimiter("10.0.0.2")
	rl.visitors["10.0.0.1"].lastSeen = time.Now().Add(-2 * time.Minute)

	rl.evict(time.Now())

	if _, ok := rl.visitors["10.0.0.1"]; ok {
		t.Error("idle visitor was not evicted")
	}
	if _, ok := rl.visitors["10.0.0.2"]; !ok {
		t.Error("active visitor was evicted")
	}
}

func TestLogger_PassesThrough(t *testing.T) {
	handler := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte("ok"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusCreated || rec.Body.String() != "ok" {
		t.Errorf("got %d %q", rec.Code, rec.Body.String())
	}
}

func TestAdminKey(t *testing.T) {
	handler := AdminKey("s3cret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	tests := []struct {
		key  string
		want int
	}{
		{"", http.StatusForbidden},
		{"wrong", http.StatusForbidden},
		{"s3cret", http.StatusCreated},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodPost, "/api/tasks", nil)
		if tt.key != "" {
			req.Header.Set("X-Admin-Key", tt.key)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != tt.want {
			t.Errorf("key %q: status = %d, want %d", tt.key, rec.Code, tt.want)
		}
	}
}
