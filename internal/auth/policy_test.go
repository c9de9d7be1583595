package auth

import (
    "testing"

    "github.com/iliyamo/corporate-directory/internal/model"
)

func userIdentity() *Identity {
    return &Identity{Username: "alice", Authorities: []string{"ROLE_USER"}}
}

func adminIdentity() *Identity {
    return &Identity{Username: "root", Authorities: []string{"ROLE_ADMIN"}}
}

func TestDefaultRulesDecisions(t *testing.T) {
    t.Parallel()
    p := NewPolicy(DefaultRules())

    cases := []struct {
        name   string
        method string
        path   string
        id     *Identity
        want   Decision
    }{
        {"health is public", "GET", "/healthz", nil, Allow},
        {"login is public", "POST", "/api/auth/login", nil, Allow},
        {"signup is public", "POST", "/api/auth/signup", nil, Allow},

        {"employees need identity", "GET", "/api/employees", nil, DenyUnauthenticated},
        {"user lists employees", "GET", "/api/employees", userIdentity(), Allow},
        {"user reads employee", "GET", "/api/employees/7", userIdentity(), Allow},
        {"user creates employee", "POST", "/api/employees", userIdentity(), Allow},

        {"anonymous employee delete", "DELETE", "/api/employees/7", nil, DenyUnauthenticated},
        {"user employee delete", "DELETE", "/api/employees/7", userIdentity(), DenyForbidden},
        {"admin employee delete", "DELETE", "/api/employees/7", adminIdentity(), Allow},

        {"user reads manager", "GET", "/api/managers/3", userIdentity(), Allow},
        {"user lists managers", "GET", "/api/managers", userIdentity(), DenyForbidden},
        {"admin lists managers", "GET", "/api/managers", adminIdentity(), Allow},
        {"user creates manager", "POST", "/api/managers", userIdentity(), DenyForbidden},
        {"admin creates manager", "POST", "/api/managers", adminIdentity(), Allow},
        {"user updates manager", "PUT", "/api/managers/3", userIdentity(), DenyForbidden},
        {"admin deletes manager", "DELETE", "/api/managers/3", adminIdentity(), Allow},

        {"unlisted path defaults to authenticated", "GET", "/api/me", nil, DenyUnauthenticated},
        {"unlisted path allows any identity", "GET", "/api/me", userIdentity(), Allow},
    }
    for _, tc := range cases {
        tc := tc
        t.Run(tc.name, func(t *testing.T) {
            t.Parallel()
            if got := p.Authorize(tc.method, tc.path, tc.id); got != tc.want {
                t.Errorf("Authorize(%s %s) = %v, want %v", tc.method, tc.path, got, tc.want)
            }
        })
    }
}

func TestIsPublic(t *testing.T) {
    t.Parallel()
    p := NewPolicy(DefaultRules())
    if !p.IsPublic("POST", "/api/auth/forgot-password") {
        t.Error("auth prefix should be public")
    }
    if p.IsPublic("GET", "/api/employees") {
        t.Error("employees should not be public")
    }
    if p.IsPublic("POST", "/healthz") {
        t.Error("health rule is GET only")
    }
}

func TestFirstMatchWins(t *testing.T) {
    t.Parallel()
    // The specific rule sits above the broad prefix rule; swapping the
    // order would change the decision.
    p := NewPolicy([]Rule{
        {Pattern: "/api/reports/", Method: "DELETE", Access: RequireRoles, Roles: []model.Role{model.RoleAdmin}},
        {Pattern: "/api/reports/", Method: MethodAny, Access: Authenticated},
    })
    if got := p.Authorize("DELETE", "/api/reports/1", userIdentity()); got != DenyForbidden {
        t.Errorf("DELETE decision = %v, want DenyForbidden", got)
    }
    if got := p.Authorize("GET", "/api/reports/1", userIdentity()); got != Allow {
        t.Errorf("GET decision = %v, want Allow", got)
    }
}

func TestRuleMatching(t *testing.T) {
    t.Parallel()
    cases := []struct {
        name   string
        rule   Rule
        method string
        path   string
        want   bool
    }{
        {"exact match", Rule{Pattern: "/api/managers", Method: "GET"}, "GET", "/api/managers", true},
        {"exact miss on subpath", Rule{Pattern: "/api/managers", Method: "GET"}, "GET", "/api/managers/1", false},
        {"prefix match", Rule{Pattern: "/api/managers/", Method: MethodAny}, "PUT", "/api/managers/1", true},
        {"prefix miss on bare path", Rule{Pattern: "/api/managers/", Method: MethodAny}, "GET", "/api/managers", false},
        {"method miss", Rule{Pattern: "/healthz", Method: "GET"}, "POST", "/healthz", false},
        {"any method", Rule{Pattern: "/healthz", Method: MethodAny}, "DELETE", "/healthz", true},
    }
    for _, tc := range cases {
        tc := tc
        t.Run(tc.name, func(t *testing.T) {
            t.Parallel()
            if got := tc.rule.matches(tc.method, tc.path); got != tc.want {
                t.Errorf("matches(%s %s) = %v, want %v", tc.method, tc.path, got, tc.want)
            }
        })
    }
}
