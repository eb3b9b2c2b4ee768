package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/gsarma/folio/internal/auth"
	"github.com/gsarma/folio/internal/newsletter"
	"github.com/gsarma/folio/internal/oauth"
	"github.com/gsarma/folio/internal/ratelimit"
	"github.com/gsarma/folio/internal/store"
)

var errNoUser = pgx.ErrNoRows

type testServer struct {
	router *gin.Engine
	tokens *auth.JWTManager
}

func newTestServer(t *testing.T, d Deps, limiter ratelimit.Limiter) *testServer {
	t.Helper()
	tokens, err := auth.NewJWTManager("test-secret-0123456789", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if d.Queries == nil {
		d.Queries = &stubQuerier{}
	}
	d.Auth = auth.NewService(d.Queries, tokens)
	r := gin.New()
	RegisterRoutes(r, NewHandler(d), limiter)
	return &testServer{router: r, tokens: tokens}
}

func (s *testServer) do(t *testing.T, method, path, token string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) token(t *testing.T, role string) string {
	t.Helper()
	tok, _, err := s.tokens.Issue(uuid.New(), role+"@example.com", role)
	if err != nil {
		t.Fatal(err)
	}
	return tok
}

func TestRoutes_NewsletterRequiresAdmin(t *testing.T) {
	sender := &stubSender{result: &newsletter.Result{TotalRecipients: 1, SentCount: 1}}
	srv := newTestServer(t, Deps{Newsletter: sender}, nil)
	body := jsonBody(t, map[string]any{"subject": "s", "content": "c", "recipients": []string{"a@x.com"}})

	if w := srv.do(t, "POST", "/api/newsletter/send", "", body); w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous: expected 401, got %d", w.Code)
	}
	if w := srv.do(t, "POST", "/api/newsletter/send", "garbage", body); w.Code != http.StatusUnauthorized {
		t.Errorf("bad token: expected 401, got %d", w.Code)
	}
	if w := srv.do(t, "POST", "/api/newsletter/send", srv.token(t, auth.RoleEditor), body); w.Code != http.StatusForbidden {
		t.Errorf("editor: expected 403, got %d", w.Code)
	}
	if sender.calls != 0 {
		t.Fatal("dispatcher reached without admin role")
	}
	if w := srv.do(t, "POST", "/api/newsletter/send", srv.token(t, auth.RoleAdmin), body); w.Code != http.StatusOK {
		t.Errorf("admin: expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRoutes_EditorCanManageContent(t *testing.T) {
	q := &stubQuerier{
		createBlogPostFn: func(_ context.Context, arg store.CreateBlogPostParams) (store.BlogPost, error) {
			return store.BlogPost{ID: uuid.New(), Slug: arg.Slug}, nil
		},
	}
	srv := newTestServer(t, Deps{Queries: q}, nil)

	w := srv.do(t, "POST", "/api/blog", srv.token(t, auth.RoleEditor), jsonBody(t, map[string]any{"title": "First post"}))
	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if w := srv.do(t, "GET", "/api/subscribers", srv.token(t, auth.RoleEditor), nil); w.Code != http.StatusForbidden {
		t.Errorf("editor must not list subscribers, got %d", w.Code)
	}
}

func TestRoutes_StaffSeeDrafts(t *testing.T) {
	var publishedOnly []bool
	q := &stubQuerier{
		listBlogPostsFn: func(_ context.Context, p bool) ([]store.BlogPost, error) {
			publishedOnly = append(publishedOnly, p)
			return nil, nil
		},
	}
	srv := newTestServer(t, Deps{Queries: q}, nil)

	srv.do(t, "GET", "/api/blog?drafts=true", "", nil)
	srv.do(t, "GET", "/api/blog?drafts=true", srv.token(t, auth.RoleEditor), nil)

	if len(publishedOnly) != 2 || !publishedOnly[0] || publishedOnly[1] {
		t.Errorf("expected [true false], got %v", publishedOnly)
	}
}

type denyAll struct{}

func (denyAll) Allow(context.Context, string) (ratelimit.Decision, error) {
	return ratelimit.Decision{Allowed: false, RetryAfter: 30 * time.Second}, nil
}

func TestRoutes_PublicWritesAreRateLimited(t *testing.T) {
	srv := newTestServer(t, Deps{}, denyAll{})

	for _, path := range []string{"/api/subscribe", "/api/unsubscribe", "/api/contact", "/api/auth/login"} {
		w := srv.do(t, "POST", path, "", []byte(`{}`))
		if w.Code != http.StatusTooManyRequests {
			t.Errorf("%s: expected 429, got %d", path, w.Code)
		}
		if w.Header().Get("Retry-After") != "30" {
			t.Errorf("%s: Retry-After = %q", path, w.Header().Get("Retry-After"))
		}
	}
	// Reads are never limited.
	if w := srv.do(t, "GET", "/api/settings", "", nil); w.Code != http.StatusOK {
		t.Errorf("settings: expected 200, got %d", w.Code)
	}
}

func TestRoutes_LoginSetsSessionCookie(t *testing.T) {
	hash, err := auth.HashPassword("correct horse")
	if err != nil {
		t.Fatal(err)
	}
	user := store.User{ID: uuid.New(), Email: "admin@example.com", Name: "Admin", Role: auth.RoleAdmin,
		PasswordHash: pgtype.Text{String: hash, Valid: true}}
	q := &stubQuerier{
		getUserByEmailFn: func(_ context.Context, email string) (store.User, error) {
			if email == user.Email {
				return user, nil
			}
			return store.User{}, errNoUser
		},
		getUserFn: func(context.Context, uuid.UUID) (store.User, error) { return user, nil },
	}
	srv := newTestServer(t, Deps{Queries: q}, nil)

	w := srv.do(t, "POST", "/api/auth/login", "", jsonBody(t, map[string]string{"email": "admin@example.com", "password": "wrong"}))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong password: expected 401, got %d", w.Code)
	}

	w = srv.do(t, "POST", "/api/auth/login", "", jsonBody(t, map[string]string{"email": "Admin@Example.com", "password": "correct horse"}))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var session *http.Cookie
	for _, ck := range w.Result().Cookies() {
		if ck.Name == auth.CookieName {
			session = ck
		}
	}
	if session == nil || !session.HttpOnly || session.Value == "" {
		t.Fatalf("expected an HttpOnly session cookie, got %+v", session)
	}

	req := httptest.NewRequest("GET", "/api/auth/me", nil)
	req.AddCookie(session)
	me := httptest.NewRecorder()
	srv.router.ServeHTTP(me, req)
	if me.Code != http.StatusOK || !strings.Contains(me.Body.String(), "admin@example.com") {
		t.Errorf("me: got %d %s", me.Code, me.Body.String())
	}
	if strings.Contains(me.Body.String(), hash) {
		t.Error("password hash leaked in response")
	}
}

type stubGoogle struct {
	info *oauth.UserInfo
}

func (g *stubGoogle) AuthURL(state string) string {
	return "https://accounts.example.com/auth?state=" + url.QueryEscape(state)
}
func (g *stubGoogle) Exchange(context.Context, string) (*oauth.Token, error) {
	return &oauth.Token{AccessToken: "at"}, nil
}
func (g *stubGoogle) UserInfo(context.Context, string) (*oauth.UserInfo, error) {
	return g.info, nil
}

func TestRoutes_GoogleSignIn(t *testing.T) {
	user := store.User{ID: uuid.New(), Email: "owner@example.com", Role: auth.RoleAdmin}
	q := &stubQuerier{
		getUserByEmailFn: func(_ context.Context, email string) (store.User, error) {
			if email == user.Email {
				return user, nil
			}
			return store.User{}, errNoUser
		},
	}
	google := &stubGoogle{info: &oauth.UserInfo{Email: "Owner@example.com", EmailVerified: true}}
	srv := newTestServer(t, Deps{Queries: q, Google: google}, nil)

	if w := srv.do(t, "GET", "/api/auth/google?redirect=https://evil.example", "", nil); w.Code != http.StatusBadRequest {
		t.Errorf("absolute redirect: expected 400, got %d", w.Code)
	}

	start := srv.do(t, "GET", "/api/auth/google?redirect=/admin/posts", "", nil)
	if start.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", start.Code)
	}
	loc, err := url.Parse(start.Header().Get("Location"))
	if err != nil {
		t.Fatal(err)
	}
	state := loc.Query().Get("state")
	var nonce *http.Cookie
	for _, ck := range start.Result().Cookies() {
		if ck.Name == nonceCookie {
			nonce = ck
		}
	}
	if nonce == nil {
		t.Fatal("nonce cookie not set")
	}

	callback := "/api/auth/google/callback?code=abc&state=" + url.QueryEscape(state)

	// Without the nonce cookie the callback is refused.
	if w := srv.do(t, "GET", callback, "", nil); w.Code != http.StatusBadRequest {
		t.Errorf("missing nonce: expected 400, got %d", w.Code)
	}

	req := httptest.NewRequest("GET", callback, nil)
	req.AddCookie(nonce)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/admin/posts" {
		t.Fatalf("expected redirect to /admin/posts, got %d %q", w.Code, w.Header().Get("Location"))
	}

	google.info.EmailVerified = false
	req = httptest.NewRequest("GET", callback, nil)
	req.AddCookie(nonce)
	w = httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("unverified email: expected 403, got %d", w.Code)
	}
}

func TestRoutes_GoogleDisabled(t *testing.T) {
	srv := newTestServer(t, Deps{}, nil)
	if w := srv.do(t, "GET", "/api/auth/google", "", nil); w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}
