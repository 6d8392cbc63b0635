package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"disasterprep/internal/apiclient"
	"disasterprep/internal/apitest"
	"disasterprep/internal/config"
	"disasterprep/internal/notify"
)

func newTestApp(t *testing.T, srv *apitest.Server, input string) (*app, *bytes.Buffer, *notify.Recorder) {
	t.Helper()
	cfg := &config.Config{
		APIBaseURL:       srv.APIURL(),
		HTTPTimeout:      5 * time.Second,
		FetchConcurrency: 2,
		SessionStore:     "memory",
	}
	var out bytes.Buffer
	a, err := newApp(cfg, strings.NewReader(input), &out)
	if err != nil {
		t.Fatalf("newApp failed: %v", err)
	}
	rec := &notify.Recorder{}
	a.notifier = rec
	t.Cleanup(a.close)
	return a, &out, rec
}

func login(t *testing.T, a *app, username, password string) {
	t.Helper()
	if err := cmdLogin(context.Background(), a, []string{"-u", username, "-p", password}); err != nil {
		t.Fatalf("login as %s failed: %v", username, err)
	}
}

func TestLoginAndWhoami(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	a, out, rec := newTestApp(t, srv, "")

	login(t, a, "admin", apitest.AdminPassword)
	if msg, _ := rec.Last(); msg.Text != "Welcome back, System Administrator!" {
		t.Errorf("login notification = %q", msg.Text)
	}

	if err := cmdWhoami(context.Background(), a, []string{"-remote"}); err != nil {
		t.Fatalf("whoami failed: %v", err)
	}
	if !strings.Contains(out.String(), "Role:  admin") {
		t.Errorf("expected admin role in output, got %q", out.String())
	}
}

func TestLoginPromptsForPassword(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	a, _, _ := newTestApp(t, srv, apitest.StudentPassword+"\n")

	if err := cmdLogin(context.Background(), a, []string{"-u", "student1"}); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user, ok := a.sessions.CurrentUser(); !ok || user.Username != "student1" {
		t.Errorf("expected student1 session, got %+v", user)
	}
}

func TestLoginRejected(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	a, _, _ := newTestApp(t, srv, "")

	err := cmdLogin(context.Background(), a, []string{"-u", "admin", "-p", "nope"})
	if !errors.Is(err, apiclient.ErrAuthentication) {
		t.Fatalf("expected ErrAuthentication, got %v", err)
	}
}

func TestCommandsRequireSession(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	a, _, _ := newTestApp(t, srv, "")

	if err := cmdDashboard(context.Background(), a, nil); err == nil {
		t.Fatal("expected error without a session")
	}
}

func TestLogoutClearsSession(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	a, _, rec := newTestApp(t, srv, "")

	login(t, a, "teacher1", apitest.TeacherPassword)
	if err := cmdLogout(context.Background(), a, nil); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if msg, _ := rec.Last(); msg.Text != "Logged out successfully" {
		t.Errorf("logout notification = %q", msg.Text)
	}
	if _, err := a.currentUser(); err == nil {
		t.Error("expected no session after logout")
	}
}

func TestStudentWatchThenQuiz(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	a, out, _ := newTestApp(t, srv, "")
	ctx := context.Background()

	login(t, a, "student1", apitest.StudentPassword)

	err := cmdQuiz(ctx, a, []string{"-answers", "1,2,3,4,1", "m-fire"})
	if err == nil || !strings.Contains(err.Error(), "watch the video first") {
		t.Fatalf("expected locked quiz error, got %v", err)
	}

	if err := cmdWatch(ctx, a, []string{"m-fire"}); err != nil {
		t.Fatalf("watch failed: %v", err)
	}
	if err := cmdQuiz(ctx, a, []string{"-answers", "1,2,3,4,1", "m-fire"}); err != nil {
		t.Fatalf("quiz failed: %v", err)
	}
	if !strings.Contains(out.String(), "Fire Safety Quiz: 5/5") {
		t.Errorf("expected full score in output, got %q", out.String())
	}
	if n := len(srv.Attempts()); n != 1 {
		t.Errorf("expected 1 stored attempt, got %d", n)
	}
}

func TestInteractiveQuizRepromptsInvalidAnswers(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	a, out, _ := newTestApp(t, srv, "9\n1\n2\nx\n3\n4\n2\n")
	ctx := context.Background()

	login(t, a, "student1", apitest.StudentPassword)
	srv.MarkVideoWatched("u-student", "m-fire")

	if err := cmdQuiz(ctx, a, []string{"m-fire"}); err != nil {
		t.Fatalf("quiz failed: %v", err)
	}
	if !strings.Contains(out.String(), "Fire Safety Quiz: 4/5") {
		t.Errorf("expected 4/5 in output, got %q", out.String())
	}
}

func TestStudentCannotCreateAlert(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	a, _, _ := newTestApp(t, srv, "")

	login(t, a, "student1", apitest.StudentPassword)
	err := cmdAlerts(context.Background(), a, []string{"create", "-title", "Fire", "-message", "Leave now"})
	if err == nil || !strings.Contains(err.Error(), "cannot") {
		t.Fatalf("expected role error, got %v", err)
	}
	if srv.Hits("POST /alerts") != 0 {
		t.Error("request should not reach the server")
	}
}

func TestTeacherCreatesAlert(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	a, out, _ := newTestApp(t, srv, "")

	login(t, a, "teacher1", apitest.TeacherPassword)
	err := cmdAlerts(context.Background(), a, []string{"create", "-title", "Storm", "-message", "Stay inside", "-type", "severe_weather"})
	if err != nil {
		t.Fatalf("alerts create failed: %v", err)
	}
	if !strings.Contains(out.String(), "Storm") {
		t.Errorf("expected alert in output, got %q", out.String())
	}
}

func TestDrillByNumber(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	a, _, rec := newTestApp(t, srv, "2\n")

	login(t, a, "student1", apitest.StudentPassword)
	if err := cmdDrill(context.Background(), a, nil); err != nil {
		t.Fatalf("drill failed: %v", err)
	}
	if srv.DrillCount("u-student") != 1 {
		t.Errorf("expected one drill stored")
	}
	var found bool
	for _, m := range rec.Messages() {
		if m.Text == "Earthquake Drill drill participation recorded!" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected drill notification, got %v", rec.Messages())
	}
}

func TestRoleRestrictedReports(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		run      func(context.Context, *app, []string) error
		wantErr  bool
	}{
		{"teacher sees students", "teacher1", apitest.TeacherPassword, cmdStudents, false},
		{"teacher cannot see teachers", "teacher1", apitest.TeacherPassword, cmdTeachers, true},
		{"admin sees teachers", "admin", apitest.AdminPassword, cmdTeachers, false},
		{"admin sees users", "admin", apitest.AdminPassword, cmdUsers, false},
		{"student cannot see users", "student1", apitest.StudentPassword, cmdUsers, true},
		{"student cannot manage quizzes", "student1", apitest.StudentPassword, cmdQuizzes, true},
		{"teacher lists quizzes", "teacher1", apitest.TeacherPassword, cmdQuizzes, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := apitest.NewServer()
			defer srv.Close()
			a, _, _ := newTestApp(t, srv, "")

			login(t, a, tt.username, tt.password)
			err := tt.run(context.Background(), a, nil)
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseAnswers(t *testing.T) {
	tests := []struct {
		in      string
		want    []int
		wantErr bool
	}{
		{"1,2,3", []int{0, 1, 2}, false},
		{" 4 , 1", []int{3, 0}, false},
		{"0", nil, true},
		{"a,b", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseAnswers(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseAnswers() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("parseAnswers() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("parseAnswers() = %v, want %v", got, tt.want)
				}
			}
		})
	}
}
