package middleware

import (
    "context"
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/corporate-directory/internal/auth"
    "github.com/iliyamo/corporate-directory/internal/model"
    "github.com/iliyamo/corporate-directory/internal/repository"
)

type stubAccounts map[string]model.Account

func (s stubAccounts) FindByUsername(_ context.Context, username string) (model.Account, error) {
    if acc, ok := s[username]; ok {
        return acc, nil
    }
    return model.Account{}, repository.ErrAccountNotFound
}

func (s stubAccounts) FindByEmail(_ context.Context, email string) (model.Account, error) {
    for _, acc := range s {
        if acc.Email == email {
            return acc, nil
        }
    }
    return model.Account{}, repository.ErrAccountNotFound
}

// newTestServer wires the gate and the policy enforcement in front of
// routes that echo back who the caller was.
func newTestServer(t *testing.T, accounts stubAccounts) (*echo.Echo, *auth.Codec) {
    t.Helper()
    codec, err := auth.NewCodec(strings.Repeat("s", 32), 3600)
    if err != nil {
        t.Fatalf("NewCodec: %v", err)
    }
    policy := auth.NewPolicy(auth.DefaultRules())
    resolver := auth.NewResolver(accounts)

    e := echo.New()
    e.Use(Authenticate(codec, resolver, policy))
    e.Use(Authorize(policy))

    whoami := func(c echo.Context) error {
        if id := IdentityFrom(c); id != nil {
            return c.String(http.StatusOK, id.Username)
        }
        return c.String(http.StatusOK, "anonymous")
    }
    e.POST("/api/auth/login", whoami)
    e.GET("/api/employees", whoami)
    e.DELETE("/api/employees/:id", whoami)
    return e, codec
}

func issue(t *testing.T, codec *auth.Codec, subject string, roles ...string) string {
    t.Helper()
    token, err := codec.Issue(subject, roles)
    if err != nil {
        t.Fatalf("Issue: %v", err)
    }
    return token
}

func do(e *echo.Echo, method, path, token string) *httptest.ResponseRecorder {
    req := httptest.NewRequest(method, path, nil)
    if token != "" {
        req.Header.Set("Authorization", "Bearer "+token)
    }
    rec := httptest.NewRecorder()
    e.ServeHTTP(rec, req)
    return rec
}

func testAccounts() stubAccounts {
    return stubAccounts{
        "alice": {Username: "alice", Email: "alice@corp.test", Enabled: true, Roles: []model.Role{model.RoleUser}},
        "root":  {Username: "root", Email: "root@corp.test", Enabled: true, Roles: []model.Role{model.RoleAdmin}},
        "mal":   {Username: "mal", Email: "mal@corp.test", Enabled: false, Roles: []model.Role{model.RoleUser}},
    }
}

func TestPublicPathIgnoresGarbageToken(t *testing.T) {
    t.Parallel()
    e, _ := newTestServer(t, testAccounts())

    rec := do(e, http.MethodPost, "/api/auth/login", "not-a-token")
    if rec.Code != http.StatusOK {
        t.Fatalf("status = %d, want 200", rec.Code)
    }
    if body := rec.Body.String(); body != "anonymous" {
        t.Errorf("body = %q, want anonymous", body)
    }
}

func TestProtectedPathWithoutToken(t *testing.T) {
    t.Parallel()
    e, _ := newTestServer(t, testAccounts())

    rec := do(e, http.MethodGet, "/api/employees", "")
    if rec.Code != http.StatusUnauthorized {
        t.Fatalf("status = %d, want 401", rec.Code)
    }
}

func TestProtectedPathWithInvalidToken(t *testing.T) {
    t.Parallel()
    e, _ := newTestServer(t, testAccounts())

    // A bad token degrades to anonymous; the policy then denies with 401
    // because the route requires an identity.
    rec := do(e, http.MethodGet, "/api/employees", "garbage")
    if rec.Code != http.StatusUnauthorized {
        t.Fatalf("status = %d, want 401", rec.Code)
    }
}

func TestProtectedPathWithValidToken(t *testing.T) {
    t.Parallel()
    e, codec := newTestServer(t, testAccounts())

    rec := do(e, http.MethodGet, "/api/employees", issue(t, codec, "alice", "USER"))
    if rec.Code != http.StatusOK {
        t.Fatalf("status = %d, want 200", rec.Code)
    }
    if body := rec.Body.String(); body != "alice" {
        t.Errorf("body = %q, want alice", body)
    }
}

func TestRoleEnforcement(t *testing.T) {
    t.Parallel()
    e, codec := newTestServer(t, testAccounts())

    rec := do(e, http.MethodDelete, "/api/employees/1", issue(t, codec, "alice", "USER"))
    if rec.Code != http.StatusForbidden {
        t.Fatalf("user delete status = %d, want 403", rec.Code)
    }
    rec = do(e, http.MethodDelete, "/api/employees/1", issue(t, codec, "root", "ADMIN"))
    if rec.Code != http.StatusOK {
        t.Fatalf("admin delete status = %d, want 200", rec.Code)
    }
}

func TestDisabledAccountRejectedDespiteValidToken(t *testing.T) {
    t.Parallel()
    e, codec := newTestServer(t, testAccounts())

    // The token was minted while the account was active; the gate still
    // rechecks the store on every request.
    rec := do(e, http.MethodGet, "/api/employees", issue(t, codec, "mal", "USER"))
    if rec.Code != http.StatusForbidden {
        t.Fatalf("status = %d, want 403", rec.Code)
    }
    if !strings.Contains(rec.Body.String(), "account disabled") {
        t.Errorf("body = %q, want a disabled-account message", rec.Body.String())
    }
}

func TestUnknownSubjectDegradesToAnonymous(t *testing.T) {
    t.Parallel()
    e, codec := newTestServer(t, testAccounts())

    rec := do(e, http.MethodGet, "/api/employees", issue(t, codec, "deleted-user", "USER"))
    if rec.Code != http.StatusUnauthorized {
        t.Fatalf("status = %d, want 401", rec.Code)
    }
}

func TestIdentityDoesNotLeakBetweenRequests(t *testing.T) {
    t.Parallel()
    e, codec := newTestServer(t, testAccounts())

    if rec := do(e, http.MethodGet, "/api/employees", issue(t, codec, "alice", "USER")); rec.Code != http.StatusOK {
        t.Fatalf("authenticated status = %d, want 200", rec.Code)
    }
    if rec := do(e, http.MethodGet, "/api/employees", ""); rec.Code != http.StatusUnauthorized {
        t.Fatalf("follow-up anonymous status = %d, want 401", rec.Code)
    }
}

func TestBearerToken(t *testing.T) {
    t.Parallel()
    e := echo.New()
    cases := []struct {
        name   string
        header string
        token  string
        ok     bool
    }{
        {"present", "Bearer abc.def.ghi", "abc.def.ghi", true},
        {"missing", "", "", false},
        {"wrong scheme", "Basic abc", "", false},
        {"lowercase scheme", "bearer abc", "", false},
    }
    for _, tc := range cases {
        tc := tc
        t.Run(tc.name, func(t *testing.T) {
            t.Parallel()
            req := httptest.NewRequest(http.MethodGet, "/", nil)
            if tc.header != "" {
                req.Header.Set("Authorization", tc.header)
            }
            c := e.NewContext(req, httptest.NewRecorder())
            token, ok := BearerToken(c)
            if ok != tc.ok || token != tc.token {
                t.Errorf("BearerToken = (%q, %v), want (%q, %v)", token, ok, tc.token, tc.ok)
            }
        })
    }
}
