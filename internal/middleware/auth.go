package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/raphaeldejesus03/BeFit/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

const AppSecretHeader = "X-BEFIT-APP-SECRET"

type AuthMiddlewareHandler struct {
	appSecret            string
	allowedPaths         map[string]bool
	allowedPathsPrefixes []string
}

// NewAuthMiddlewareHandler guards every mutating request with the shared app secret.
// Reads on the gamification routes are public.
func NewAuthMiddlewareHandler(appSecret string) *AuthMiddlewareHandler {
	return &AuthMiddlewareHandler{
		appSecret: appSecret,
		allowedPaths: map[string]bool{
			"/":                          true,
			"/version":                   true,
			"/health":                    true,
			"/gamification/achievements": true,
		},
		allowedPathsPrefixes: []string{
			"/gamification/users/",
		},
	}
}

func (h *AuthMiddlewareHandler) pathIsAlwaysAllowed(r *http.Request) bool {
	if r.Method != http.MethodGet {
		return false
	}
	if h.allowedPaths[r.URL.Path] {
		return true
	}
	for _, prefix := range h.allowedPathsPrefixes {
		if strings.HasPrefix(r.URL.Path, prefix) {
			return true
		}
	}
	return false
}

func (h *AuthMiddlewareHandler) AuthCheck() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, span := tracing.GlobalTracer.Start(r.Context(), "middleware.auth")
			defer span.End()

			if r.Method == http.MethodOptions {
				w.Header().Add("Allow", "GET, POST, OPTIONS")
				w.WriteHeader(http.StatusOK)
				span.SetStatus(codes.Ok, "options-ok")
				return
			}

			if h.pathIsAlwaysAllowed(r) {
				span.SetStatus(codes.Ok, "ok")
				next.ServeHTTP(w, r)
				return
			}

			secret := r.Header.Get(AppSecretHeader)
			if secret == "" {
				log.Tracef("[missing secret] [auth middleware] unauthorized => %s", r.URL.Path)
				http.Error(w, "no can do", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "missing-app-secret")
				return
			}

			// an unset secret on the server side never matches
			if h.appSecret == "" || subtle.ConstantTimeCompare([]byte(secret), []byte(h.appSecret)) != 1 {
				log.Warnf("[invalid secret] [auth middleware] unauthorized => %s %s", r.Method, r.URL.Path)
				http.Error(w, "no can do", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "invalid-app-secret")
				return
			}

			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r)
		})
	}
}
