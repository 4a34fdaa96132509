// ABOUTME: Ordered method/path access rules evaluated after the auth gateway
// ABOUTME: First match wins; unmatched requests require an identity (fail closed)

package auth

import (
	"encoding/json"
	"net/http"
	"strings"
)

// Requirement is what a rule demands from the request's identity state.
type Requirement struct {
	kind requirementKind
	role string
}

type requirementKind int

const (
	kindPublic requirementKind = iota
	kindAnyIdentity
	kindRole
)

// Public allows every request.
var Public = Requirement{kind: kindPublic}

// AnyIdentity allows any authenticated identity.
var AnyIdentity = Requirement{kind: kindAnyIdentity}

// RequireRole allows only identities whose normalized role matches.
func RequireRole(role string) Requirement {
	return Requirement{kind: kindRole, role: NormalizeRole(role)}
}

// Rule maps a method and path pattern to a requirement. An empty Method
// matches every method. Patterns are exact paths, with "*" matching exactly
// one path segment and a trailing "**" matching any remainder.
type Rule struct {
	Method  string
	Pattern string
	Require Requirement
}

// Decision is the outcome of evaluating the policy for a request.
type Decision int

const (
	Allow Decision = iota
	Unauthenticated
	Forbidden
)

// Policy is an ordered rule set. Rules are evaluated top to bottom and the
// first match decides. Requests matching no rule require an identity.
type Policy struct {
	rules []Rule
}

// NewPolicy creates a policy from an ordered rule list.
func NewPolicy(rules []Rule) *Policy {
	return &Policy{rules: rules}
}

// DefaultRules is the rule table for the portfolio API.
func DefaultRules() []Rule {
	return []Rule{
		// Auth endpoints and health are open to everyone.
		{Method: "", Pattern: "/api/auth/**", Require: Public},
		{Method: "", Pattern: "/health/**", Require: Public},

		// Like endpoints come before the broader content rules.
		{Method: http.MethodPost, Pattern: "/api/articles/*/like", Require: AnyIdentity},
		{Method: http.MethodPost, Pattern: "/api/projects/*/like", Require: AnyIdentity},
		{Method: http.MethodGet, Pattern: "/api/articles/*/like-status", Require: Public},
		{Method: http.MethodGet, Pattern: "/api/projects/*/like-status", Require: Public},
		{Method: http.MethodGet, Pattern: "/api/articles/*/likes-list", Require: RequireRole(RoleAdmin)},
		{Method: http.MethodGet, Pattern: "/api/projects/*/likes-list", Require: RequireRole(RoleAdmin)},

		// Anyone can read content and uploaded files.
		{Method: http.MethodGet, Pattern: "/api/articles/**", Require: Public},
		{Method: http.MethodGet, Pattern: "/api/projects/**", Require: Public},
		{Method: http.MethodGet, Pattern: "/api/career/**", Require: Public},
		{Method: http.MethodGet, Pattern: "/api/comments/article/**", Require: Public},
		{Method: http.MethodGet, Pattern: "/uploads/**", Require: Public},
		{Method: http.MethodGet, Pattern: "/api/download", Require: Public},

		// Commenting requires a signed-in user; deletion is admin only.
		{Method: http.MethodPost, Pattern: "/api/comments/save", Require: AnyIdentity},
		{Method: http.MethodDelete, Pattern: "/api/comments/**", Require: RequireRole(RoleAdmin)},

		// Content management and uploads are admin only.
		{Method: "", Pattern: "/api/articles/**", Require: RequireRole(RoleAdmin)},
		{Method: "", Pattern: "/api/projects/**", Require: RequireRole(RoleAdmin)},
		{Method: "", Pattern: "/api/career/**", Require: RequireRole(RoleAdmin)},
		{Method: "", Pattern: "/api/upload", Require: RequireRole(RoleAdmin)},
		{Method: "", Pattern: "/api/upload/**", Require: RequireRole(RoleAdmin)},
	}
}

// Evaluate applies the rule table to a request. Cross-origin preflight
// requests are always allowed so browsers can complete them before any
// authorization question arises.
func (p *Policy) Evaluate(method, path string, id *Identity) Decision {
	if method == http.MethodOptions {
		return Allow
	}

	require := AnyIdentity // fail closed when nothing matches
	for _, rule := range p.rules {
		if rule.Method != "" && rule.Method != method {
			continue
		}
		if !matchPattern(rule.Pattern, path) {
			continue
		}
		require = rule.Require
		break
	}

	switch require.kind {
	case kindPublic:
		return Allow
	case kindAnyIdentity:
		if id == nil {
			return Unauthenticated
		}
		return Allow
	case kindRole:
		if id == nil {
			return Unauthenticated
		}
		if id.Role != require.role {
			return Forbidden
		}
		return Allow
	default:
		return Unauthenticated
	}
}

// Middleware enforces the policy. It must run after the auth gateway
// middleware so identities are already attached.
func (p *Policy) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch p.Evaluate(r.Method, r.URL.Path, FromContext(r.Context())) {
			case Allow:
				next.ServeHTTP(w, r)
			case Forbidden:
				writePolicyError(w, http.StatusForbidden, "insufficient role")
			default:
				writePolicyError(w, http.StatusUnauthorized, "authentication required")
			}
		})
	}
}

// matchPattern matches a path against a rule pattern segment by segment.
// "*" matches exactly one segment; a trailing "**" matches any remainder,
// including none.
func matchPattern(pattern, path string) bool {
	pp := strings.Split(strings.Trim(pattern, "/"), "/")
	sp := strings.Split(strings.Trim(path, "/"), "/")

	for i, seg := range pp {
		if seg == "**" {
			return true
		}
		if i >= len(sp) {
			return false
		}
		if seg == "*" {
			continue
		}
		if seg != sp[i] {
			return false
		}
	}
	return len(sp) == len(pp)
}

func writePolicyError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
