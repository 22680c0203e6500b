package login_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	uierrors "github.com/dalemusser/pghub/internal/app/features/errors"
	"github.com/dalemusser/pghub/internal/app/features/login"
	adminstore "github.com/dalemusser/pghub/internal/app/store/admins"
	"github.com/dalemusser/pghub/internal/app/system/auth"
	"github.com/dalemusser/pghub/internal/app/system/authutil"
	"github.com/dalemusser/pghub/internal/app/system/ratelimit"
	"github.com/dalemusser/pghub/internal/domain/models"
	"github.com/dalemusser/pghub/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T, limiter *ratelimit.LoginLimiter) (*login.Handler, *testutil.Fixtures) {
	t.Helper()
	logger := zap.NewNop()
	errLog := uierrors.NewErrorLogger(logger)

	sessionMgr, err := auth.NewSessionManager("test-session-key-for-testing-only", "test-session", "", 30*time.Minute, false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}

	fixtures := testutil.NewFixtures(t)
	return login.NewHandler(fixtures.Store, sessionMgr, limiter, errLog, nil, logger), fixtures
}

// post runs the login POST; failed logins re-render the form, which needs a
// template engine that tests do not boot.
func post(h *login.Handler, target string, form url.Values) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	func() {
		defer func() { recover() }()
		h.HandleLoginPost(rec, testutil.NewFormRequest(target, form))
	}()
	return rec
}

func hasSessionCookie(rec *httptest.ResponseRecorder) bool {
	for _, c := range rec.Result().Cookies() {
		if c.Name == "test-session" && c.Value != "" && c.MaxAge >= 0 {
			return true
		}
	}
	return false
}

func TestHandleLoginPost_Success(t *testing.T) {
	handler, fixtures := newTestHandler(t, nil)
	a := fixtures.Admin("asha", "correct-horse", models.RoleAdmin, models.StatusActive)

	rec := post(handler, "/login", url.Values{"username": {"asha"}, "password": {"correct-horse"}})

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/dashboard" {
		t.Errorf("Location: got %q, want %q", loc, "/dashboard")
	}
	if !hasSessionCookie(rec) {
		t.Error("expected session cookie to be set")
	}

	ctx, cancel := testutil.TestContext()
	defer cancel()
	got, err := adminstore.New(fixtures.Store).GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.LastLoginAt.IsZero() {
		t.Error("last_login_at should be stamped")
	}
}

func TestHandleLoginPost_WithReturnURL(t *testing.T) {
	handler, fixtures := newTestHandler(t, nil)
	fixtures.Admin("asha", "correct-horse", models.RoleAdmin, models.StatusActive)

	rec := post(handler, "/login", url.Values{
		"username": {"asha"},
		"password": {"correct-horse"},
		"return":   {"/buildings/3/edit"},
	})

	if loc := rec.Header().Get("Location"); loc != "/buildings/3/edit" {
		t.Errorf("Location: got %q, want %q", loc, "/buildings/3/edit")
	}
}

func TestHandleLoginPost_RejectsOffsiteReturn(t *testing.T) {
	handler, fixtures := newTestHandler(t, nil)
	fixtures.Admin("asha", "correct-horse", models.RoleAdmin, models.StatusActive)

	rec := post(handler, "/login", url.Values{
		"username": {"asha"},
		"password": {"correct-horse"},
		"return":   {"https://evil.example.com/"},
	})

	if loc := rec.Header().Get("Location"); loc != "/dashboard" {
		t.Errorf("Location: got %q, want %q", loc, "/dashboard")
	}
}

func TestHandleLoginPost_CaseInsensitiveUsername(t *testing.T) {
	handler, fixtures := newTestHandler(t, nil)
	fixtures.Admin("asha", "correct-horse", models.RoleAdmin, models.StatusActive)

	rec := post(handler, "/login", url.Values{"username": {"  ASHA "}, "password": {"correct-horse"}})

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
}

func TestHandleLoginPost_Failures(t *testing.T) {
	tests := []struct {
		name string
		form url.Values
	}{
		{"unknown user", url.Values{"username": {"nobody"}, "password": {"correct-horse"}}},
		{"wrong password", url.Values{"username": {"asha"}, "password": {"wrong-horse"}}},
		{"empty username", url.Values{"username": {""}, "password": {"correct-horse"}}},
		{"empty password", url.Values{"username": {"asha"}, "password": {""}}},
		{"inactive account", url.Values{"username": {"old"}, "password": {"correct-horse"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, fixtures := newTestHandler(t, nil)
			fixtures.Admin("asha", "correct-horse", models.RoleAdmin, models.StatusActive)
			fixtures.Admin("old", "correct-horse", models.RoleAdmin, models.StatusInactive)

			rec := post(handler, "/login", tt.form)

			if rec.Code == http.StatusSeeOther {
				t.Errorf("should not redirect, Location=%q", rec.Header().Get("Location"))
			}
			if hasSessionCookie(rec) {
				t.Error("session cookie should not be set")
			}
		})
	}
}

func TestHandleLoginPost_UnknownUserStillComparesHash(t *testing.T) {
	handler, fixtures := newTestHandler(t, nil)
	a := fixtures.Admin("asha", "correct-horse", models.RoleAdmin, models.StatusActive)

	var hashes []string
	handler.CheckPassword = func(pw, hash string) bool {
		hashes = append(hashes, hash)
		return authutil.CheckPassword(pw, hash)
	}

	rec := post(handler, "/login", url.Values{"username": {"nobody"}, "password": {"correct-horse"}})
	if hasSessionCookie(rec) {
		t.Fatal("unknown user must not get a session")
	}
	if len(hashes) != 1 || hashes[0] != authutil.DummyHash() {
		t.Errorf("unknown user: compared against %d hashes, want the dummy hash once", len(hashes))
	}

	hashes = nil
	post(handler, "/login", url.Values{"username": {"asha"}, "password": {"wrong-horse"}})
	if len(hashes) != 1 || hashes[0] != a.PasswordHash {
		t.Errorf("wrong password: compared against %d hashes, want the stored hash once", len(hashes))
	}
}

func TestHandleLoginPost_RateLimited(t *testing.T) {
	limiter := ratelimit.NewLoginLimiter(4, time.Minute)
	defer limiter.Stop()
	handler, fixtures := newTestHandler(t, limiter)
	fixtures.Admin("asha", "correct-horse", models.RoleAdmin, models.StatusActive)

	// Per-user limit is half the IP limit.
	for i := 0; i < 2; i++ {
		post(handler, "/login", url.Values{"username": {"asha"}, "password": {"nope"}})
	}

	rec := post(handler, "/login", url.Values{"username": {"asha"}, "password": {"correct-horse"}})
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("expected status %d, got %d", http.StatusTooManyRequests, rec.Code)
	}
	if hasSessionCookie(rec) {
		t.Error("rate-limited attempt must not sign in")
	}
}

func TestHandleLoginPost_StoreDown(t *testing.T) {
	handler, fixtures := newTestHandler(t, nil)
	fixtures.Store.FailTable(adminstore.Table, errors.New("store down"))

	rec := post(handler, "/login", url.Values{"username": {"asha"}, "password": {"correct-horse"}})

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected status %d, got %d", http.StatusInternalServerError, rec.Code)
	}
}

func TestServeLogin_SignedInRedirects(t *testing.T) {
	handler, _ := newTestHandler(t, nil)

	rec := testutil.NewRecorder()
	handler.ServeLogin(rec, testutil.NewAuthenticatedRequest("GET", "/login?return=/buildings", testutil.AdminUser()))

	rec.AssertRedirect(t, "/buildings")
}

func TestHandleChangePassword(t *testing.T) {
	handler, fixtures := newTestHandler(t, nil)
	a := fixtures.Admin("asha", "correct-horse", models.RoleAdmin, models.StatusActive)
	user := testutil.TestUser{ID: a.ID.String(), Name: a.FullName, Username: "asha", Role: models.RoleAdmin}

	req := testutil.WithUser(testutil.NewFormRequest("/login/password", url.Values{
		"current_password": {"correct-horse"},
		"new_password":     {"battery-staple"},
		"confirm_password": {"battery-staple"},
	}), user)
	rec := testutil.NewRecorder()
	handler.HandleChangePassword(rec, req)

	rec.AssertRedirect(t, "/dashboard")

	ctx, cancel := testutil.TestContext()
	defer cancel()
	got, err := adminstore.New(fixtures.Store).GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !authutil.CheckPassword("battery-staple", got.PasswordHash) {
		t.Error("new password should be stored")
	}
}

func TestHandleChangePassword_Rejected(t *testing.T) {
	tests := []struct {
		name string
		form url.Values
	}{
		{"wrong current", url.Values{"current_password": {"nope-nope"}, "new_password": {"battery-staple"}, "confirm_password": {"battery-staple"}}},
		{"mismatch", url.Values{"current_password": {"correct-horse"}, "new_password": {"battery-staple"}, "confirm_password": {"battery-stapler"}}},
		{"too short", url.Values{"current_password": {"correct-horse"}, "new_password": {"short"}, "confirm_password": {"short"}}},
		{"common", url.Values{"current_password": {"correct-horse"}, "new_password": {"password1"}, "confirm_password": {"password1"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, fixtures := newTestHandler(t, nil)
			a := fixtures.Admin("asha", "correct-horse", models.RoleAdmin, models.StatusActive)
			user := testutil.TestUser{ID: a.ID.String(), Username: "asha", Role: models.RoleAdmin}

			rec := httptest.NewRecorder()
			func() {
				defer func() { recover() }()
				handler.HandleChangePassword(rec, testutil.WithUser(testutil.NewFormRequest("/login/password", tt.form), user))
			}()

			if rec.Code == http.StatusSeeOther {
				t.Error("should not redirect on rejection")
			}
			ctx, cancel := testutil.TestContext()
			defer cancel()
			got, _ := adminstore.New(fixtures.Store).GetByID(ctx, a.ID)
			if !authutil.CheckPassword("correct-horse", got.PasswordHash) {
				t.Error("password should be unchanged")
			}
		})
	}
}
