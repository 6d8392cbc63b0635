package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"disasterprep/internal/apitest"
	"disasterprep/internal/models"
)

func newTestClient(t *testing.T, srv *apitest.Server) *Client {
	t.Helper()
	return New(srv.APIURL(), 5*time.Second, WithHTTPClient(srv.Client()))
}

func TestLoginReturnsTokenAndUser(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	client := newTestClient(t, srv)

	resp, err := client.Login(context.Background(), models.Credentials{Username: "admin", Password: apitest.AdminPassword})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if resp.AccessToken == "" {
		t.Fatal("expected access token")
	}
	if resp.User.Role != models.RoleAdmin {
		t.Errorf("expected admin role, got %q", resp.User.Role)
	}
	if client.HasToken() {
		t.Error("Login should not install the token")
	}
}

func TestLoginRejectedCredentials(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	client := newTestClient(t, srv)

	var hookCalls int32
	client.OnUnauthorized(func() { atomic.AddInt32(&hookCalls, 1) })

	_, err := client.Login(context.Background(), models.Credentials{Username: "admin", Password: "wrong"})
	if !errors.Is(err, ErrAuthentication) {
		t.Fatalf("expected ErrAuthentication, got %v", err)
	}
	if !strings.Contains(err.Error(), "Incorrect username or password") {
		t.Errorf("expected server detail in error, got %q", err.Error())
	}
	if atomic.LoadInt32(&hookCalls) != 0 {
		t.Error("unauthorized hook should not fire for login")
	}
}

func TestSetTokenSendsBearerHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("expected X-Request-ID header")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second, WithHTTPClient(srv.Client()))
	client.SetToken("abc123")

	if _, err := client.ListAlerts(context.Background()); err != nil {
		t.Fatalf("ListAlerts failed: %v", err)
	}
	if gotAuth != "Bearer abc123" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer abc123")
	}

	client.ClearToken()
	if _, err := client.ListAlerts(context.Background()); err != nil {
		t.Fatalf("ListAlerts failed: %v", err)
	}
	if gotAuth != "" {
		t.Errorf("expected no Authorization header after ClearToken, got %q", gotAuth)
	}
}

func TestUnauthorizedHookFiresOnRejectedToken(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		detail   string
		wantHook bool
	}{
		{"401 expired token", http.StatusUnauthorized, "Invalid authentication credentials", true},
		{"403 missing token", http.StatusForbidden, "Not authenticated", true},
		{"403 role denial", http.StatusForbidden, "Not authorized", false},
		{"403 ownership denial", http.StatusForbidden, "Can only edit your own quizzes", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				json.NewEncoder(w).Encode(map[string]string{"detail": tt.detail})
			}))
			defer srv.Close()

			client := New(srv.URL, time.Second, WithHTTPClient(srv.Client()))
			client.SetToken("anything")

			var hookCalls int32
			client.OnUnauthorized(func() { atomic.AddInt32(&hookCalls, 1) })

			_, err := client.ListModules(context.Background())
			if !errors.Is(err, ErrAuthorization) {
				t.Fatalf("expected ErrAuthorization, got %v", err)
			}
			want := int32(0)
			if tt.wantHook {
				want = 1
			}
			if got := atomic.LoadInt32(&hookCalls); got != want {
				t.Errorf("hook fired %d times, want %d", got, want)
			}
		})
	}
}

func TestAPIErrorCarriesDetail(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	srv.Fail("GET /alerts", http.StatusInternalServerError)

	client := newTestClient(t, srv)
	client.SetToken("anything")

	_, err := client.ListAlerts(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want 500", apiErr.StatusCode)
	}
	if apiErr.Detail != "injected failure" {
		t.Errorf("Detail = %q, want %q", apiErr.Detail, "injected failure")
	}
	if errors.Is(err, ErrAuthorization) {
		t.Error("500 must not match ErrAuthorization")
	}
}

func TestNetworkErrorIsWrapped(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := New(url, time.Second)
	_, err := client.ListAlerts(context.Background())
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("expected ErrNetwork, got %v", err)
	}
}

func TestPredictDisasterSendsCityAsQuery(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	client := newTestClient(t, srv)

	login, err := client.Login(context.Background(), models.Credentials{Username: "student1", Password: apitest.StudentPassword})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	client.SetToken(login.AccessToken)

	prediction, err := client.PredictDisaster(context.Background(), "Seattle")
	if err != nil {
		t.Fatalf("PredictDisaster failed: %v", err)
	}
	if prediction.City != "Seattle" {
		t.Errorf("City = %q, want Seattle", prediction.City)
	}
	if prediction.RiskLevel() != "medium" {
		t.Errorf("RiskLevel = %q, want medium", prediction.RiskLevel())
	}
}

func TestRecordDrillSendsBody(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	client := newTestClient(t, srv)

	login, err := client.Login(context.Background(), models.Credentials{Username: "student1", Password: apitest.StudentPassword})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	client.SetToken(login.AccessToken)

	if err := client.RecordDrill(context.Background(), models.DrillInput{DrillType: "fire", Notes: "Participated in fire drill"}); err != nil {
		t.Fatalf("RecordDrill failed: %v", err)
	}

	bodies := srv.Bodies("POST /drills")
	if len(bodies) != 1 {
		t.Fatalf("expected one drill body, got %d", len(bodies))
	}
	var input models.DrillInput
	if err := json.Unmarshal(bodies[0], &input); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if input.DrillType != "fire" {
		t.Errorf("drill_type = %q, want fire", input.DrillType)
	}
	if srv.DrillCount(login.User.ID) != 1 {
		t.Errorf("expected one stored drill")
	}
}

func TestDebugLogging(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()

	var buf bytes.Buffer
	client := New(srv.APIURL(), time.Second,
		WithHTTPClient(srv.Client()),
		WithLogger(log.New(&buf, "", 0)),
		WithDebug(true),
	)

	client.Login(context.Background(), models.Credentials{Username: "admin", Password: apitest.AdminPassword})

	if !strings.Contains(buf.String(), "[DEBUG] POST /auth/login 200") {
		t.Errorf("expected debug request line, got %q", buf.String())
	}
}

func TestParseDetail(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"string detail", `{"detail":"Quiz not found"}`, "Quiz not found"},
		{"structured detail", `{"detail":[{"loc":["body","city"]}]}`, `[{"loc":["body","city"]}]`},
		{"plain text", `Internal Server Error`, "Internal Server Error"},
		{"empty", ``, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseDetail([]byte(tt.body)); got != tt.want {
				t.Errorf("parseDetail() = %q, want %q", got, tt.want)
			}
		})
	}
}
