package logout_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/pghub/internal/app/features/logout"
	"github.com/dalemusser/pghub/internal/app/system/auth"
	"github.com/dalemusser/pghub/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*logout.Handler, *auth.SessionManager) {
	t.Helper()
	logger := zap.NewNop()

	sessionMgr, err := auth.NewSessionManager("test-session-key-for-testing-only", "test-session", "", 30*time.Minute, false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	return logout.NewHandler(sessionMgr, nil, logger), sessionMgr
}

// sessionCookie returns the last session cookie written; LoadSessionUser may
// write one before the handler clears it.
func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	var out *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "test-session" {
			out = c
		}
	}
	return out
}

func TestServeLogout_RedirectsToLogin(t *testing.T) {
	handler, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	handler.ServeLogout(rec, httptest.NewRequest("GET", "/logout", nil))

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("Location: got %q, want %q", loc, "/login")
	}
	c := sessionCookie(rec)
	if c == nil {
		t.Fatal("expected session cookie to be set for deletion")
	}
	if c.MaxAge != -1 {
		t.Errorf("cookie MaxAge: got %d, want -1 (delete)", c.MaxAge)
	}
}

func TestServeLogout_HTMX_ReturnsHXRedirect(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := httptest.NewRequest("GET", "/logout", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	handler.ServeLogout(rec, req)

	if hx := rec.Header().Get("HX-Redirect"); hx != "/login" {
		t.Errorf("HX-Redirect: got %q, want %q", hx, "/login")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d for HTMX, got %d", http.StatusOK, rec.Code)
	}
}

func TestServeLogout_EndsSignedInSession(t *testing.T) {
	handler, sm := newTestHandler(t)

	signIn := httptest.NewRecorder()
	if err := sm.SignIn(signIn, httptest.NewRequest("POST", "/login", nil), auth.SessionUser{ID: "1", Name: "Asha", Username: "asha", Role: "admin"}); err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	req := httptest.NewRequest("GET", "/logout", nil)
	for _, c := range signIn.Result().Cookies() {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	sm.LoadSessionUser(http.HandlerFunc(handler.ServeLogout)).ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}

	// Replaying the cleared cookie must not restore the user.
	after := httptest.NewRequest("GET", "/dashboard", nil)
	if c := sessionCookie(rec); c != nil {
		after.AddCookie(c)
	}
	var signedIn bool
	sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, signedIn = auth.CurrentUser(r)
	})).ServeHTTP(httptest.NewRecorder(), after)
	if signedIn {
		t.Error("user should be signed out")
	}
}

func TestRoutes_RequiresSignIn(t *testing.T) {
	handler, sm := newTestHandler(t)
	router := logout.Routes(handler, sm)

	req := testutil.NewRequest("GET", "/")
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
}
