package auth

import (
    "strings"

    "github.com/iliyamo/corporate-directory/internal/model"
)

// AccessKind classifies what a policy rule demands of a request.
type AccessKind int

const (
    // Public rules match without any identity; the gate skips token
    // verification entirely for them.
    Public AccessKind = iota
    // Authenticated rules require an identity with any (or no) role.
    Authenticated
    // RequireRoles rules require the identity's authorities to
    // intersect the rule's role set.
    RequireRoles
)

// Decision is the outcome of evaluating a request against the policy.
type Decision int

const (
    Allow Decision = iota
    // DenyUnauthenticated means no identity was present where one was
    // required (401 at the boundary).
    DenyUnauthenticated
    // DenyForbidden means a valid identity lacked a required role (403).
    DenyForbidden
)

// MethodAny matches every HTTP method in a rule.
const MethodAny = "*"

// Rule maps a path pattern and method to an access requirement.  A
// pattern ending in "/" matches by prefix; any other pattern matches the
// path exactly.
type Rule struct {
    Pattern string
    Method  string
    Access  AccessKind
    Roles   []model.Role
}

func (r Rule) matches(method, path string) bool {
    if r.Method != MethodAny && r.Method != method {
        return false
    }
    if strings.HasSuffix(r.Pattern, "/") {
        return strings.HasPrefix(path, r.Pattern)
    }
    return path == r.Pattern
}

// Policy is an ordered rule table evaluated top-down, first match wins.
// Any path no rule matches defaults to Authenticated.
type Policy struct {
    rules []Rule
}

func NewPolicy(rules []Rule) *Policy {
    return &Policy{rules: rules}
}

// Classify returns the rule governing the request, falling back to the
// implicit catch-all Authenticated rule.
func (p *Policy) Classify(method, path string) Rule {
    for _, r := range p.rules {
        if r.matches(method, path) {
            return r
        }
    }
    return Rule{Pattern: path, Method: method, Access: Authenticated}
}

// IsPublic reports whether the request needs no identity at all.
func (p *Policy) IsPublic(method, path string) bool {
    return p.Classify(method, path).Access == Public
}

// Authorize evaluates a request and an optional identity against the
// table.  It is solely responsible for the split between "no identity"
// and "insufficient role".
func (p *Policy) Authorize(method, path string, id *Identity) Decision {
    rule := p.Classify(method, path)
    switch rule.Access {
    case Public:
        return Allow
    case Authenticated:
        if id == nil {
            return DenyUnauthenticated
        }
        return Allow
    default:
        if id == nil {
            return DenyUnauthenticated
        }
        for _, role := range rule.Roles {
            if id.HasAuthority(role.Authority()) {
                return Allow
            }
        }
        return DenyForbidden
    }
}

// DefaultRules is the access table for the directory API.  Order
// matters: employee DELETE must precede the broader employee rule, and
// the manager get-by-id rule must precede the admin-only catch-all for
// /api/managers.
func DefaultRules() []Rule {
    return []Rule{
        {Pattern: "/healthz", Method: "GET", Access: Public},
        {Pattern: "/api/auth/", Method: MethodAny, Access: Public},

        {Pattern: "/api/employees/", Method: "DELETE", Access: RequireRoles, Roles: []model.Role{model.RoleAdmin}},
        {Pattern: "/api/employees", Method: MethodAny, Access: RequireRoles, Roles: []model.Role{model.RoleUser, model.RoleAdmin}},
        {Pattern: "/api/employees/", Method: MethodAny, Access: RequireRoles, Roles: []model.Role{model.RoleUser, model.RoleAdmin}},

        {Pattern: "/api/managers/", Method: "GET", Access: RequireRoles, Roles: []model.Role{model.RoleUser, model.RoleAdmin}},
        {Pattern: "/api/managers", Method: "GET", Access: RequireRoles, Roles: []model.Role{model.RoleAdmin}},
        {Pattern: "/api/managers", Method: MethodAny, Access: RequireRoles, Roles: []model.Role{model.RoleAdmin}},
        {Pattern: "/api/managers/", Method: MethodAny, Access: RequireRoles, Roles: []model.Role{model.RoleAdmin}},
    }
}
