// Package middleware provides the HTTP middlewares: the route guard,
// request logging, and Prometheus metrics.
package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/visahub/lead-intake/internal/auth"
	"github.com/visahub/lead-intake/internal/entity"
)

// RouteClass is the access class a request falls into. Exactly one class
// applies per request, decided by the first matching rule.
type RouteClass int

const (
	ClassStaticAsset RouteClass = iota
	ClassAuthAPI
	ClassPublicLeadCreate
	ClassPublicPage
	ClassLoginPage
	ClassAdminPage
	ClassAdminAPI
	ClassProtectedAPI
	ClassDefault
)

const (
	loginPath      = "/admin/login"
	adminHomePath  = "/admin/leads"
	headerUserID   = "X-User-Id"
	headerUserRole = "X-User-Role"
)

type rule struct {
	class RouteClass
	match func(r *http.Request) bool
}

// rules is evaluated top to bottom; order is part of the contract
// (static assets must classify before any cookie is inspected).
var rules = []rule{
	{ClassStaticAsset, func(r *http.Request) bool {
		return strings.HasPrefix(r.URL.Path, "/static/") || r.URL.Path == "/favicon.ico"
	}},
	{ClassAuthAPI, func(r *http.Request) bool {
		return strings.HasPrefix(r.URL.Path, "/api/auth")
	}},
	{ClassPublicLeadCreate, func(r *http.Request) bool {
		return strings.HasPrefix(r.URL.Path, "/api/leads") && r.Method == http.MethodPost
	}},
	{ClassPublicPage, func(r *http.Request) bool {
		return r.URL.Path == "/" || r.URL.Path == "/leads"
	}},
	{ClassLoginPage, func(r *http.Request) bool {
		return r.URL.Path == loginPath
	}},
	{ClassAdminPage, func(r *http.Request) bool {
		return strings.HasPrefix(r.URL.Path, "/admin")
	}},
	{ClassAdminAPI, func(r *http.Request) bool {
		return strings.HasPrefix(r.URL.Path, "/api/admin")
	}},
	{ClassProtectedAPI, func(r *http.Request) bool {
		return strings.HasPrefix(r.URL.Path, "/api/leads") && r.Method != http.MethodPost
	}},
}

// Classify returns the route class for a request.
func Classify(r *http.Request) RouteClass {
	for _, rl := range rules {
		if rl.match(r) {
			return rl.class
		}
	}
	return ClassDefault
}

func (c RouteClass) public() bool {
	switch c {
	case ClassStaticAsset, ClassAuthAPI, ClassPublicLeadCreate, ClassPublicPage, ClassDefault:
		return true
	}
	return false
}

// Guard classifies every request and enforces the access rules: public
// classes pass untouched, the login page bounces already-authenticated
// admins, and protected classes require a valid admin session token.
// Each request terminates in exactly one of: pass-through, redirect to
// login, redirect to home, or pass-through with identity headers.
type Guard struct {
	Codec      *auth.TokenCodec
	CookieName string
}

func NewGuard(codec *auth.TokenCodec, cookieName string) *Guard {
	return &Guard{Codec: codec, CookieName: cookieName}
}

func (g *Guard) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		class := Classify(r)

		if class.public() {
			next.ServeHTTP(w, r)
			return
		}

		cookie, err := r.Cookie(g.CookieName)
		token := ""
		if err == nil {
			token = cookie.Value
		}

		if class == ClassLoginPage {
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			if _, decodeErr := g.Codec.Decode(token); decodeErr != nil {
				// Stale cookie; clear it and let the login page render.
				g.clearCookie(w)
				next.ServeHTTP(w, r)
				return
			}
			http.Redirect(w, r, adminHomePath, http.StatusFound)
			return
		}

		// Protected classes from here on.
		if token == "" {
			g.redirectToLogin(w, r)
			return
		}

		claims, decodeErr := g.Codec.Decode(token)
		if decodeErr != nil {
			g.clearCookie(w)
			g.redirectToLogin(w, r)
			return
		}

		if claims.Role != entity.RoleAdmin {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}

		if strings.HasPrefix(r.URL.Path, "/api/") {
			// Downstream handlers trust these without re-verifying.
			r.Header.Set(headerUserID, claims.Subject)
			r.Header.Set(headerUserRole, claims.Role)
		}

		next.ServeHTTP(w, r)
	})
}

func (g *Guard) redirectToLogin(w http.ResponseWriter, r *http.Request) {
	u := loginPath + "?from=" + url.QueryEscape(r.URL.Path)
	http.Redirect(w, r, u, http.StatusFound)
}

func (g *Guard) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     g.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}
