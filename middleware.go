package main

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"teportal/internal/auth"
)

const sessionCookie = "teportal_session"

type contextKey string

const ctxSession contextKey = "session"

func logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(200)
			return
		}
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

// exempt paths reachable without a session
func authExempt(path string) bool {
	switch path {
	case "/auth/login", "/auth/register", "/auth/password-reset", "/api/v1/health":
		return true
	}
	return false
}

func requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if authExempt(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		cookie, err := r.Cookie(sessionCookie)
		if err != nil {
			jsonErr(w, "Unauthorized", 401)
			return
		}
		sess, ok := sessions.Get(cookie.Value)
		if !ok {
			jsonErr(w, "Unauthorized", 401)
			return
		}

		// Sliding window: refresh the cookie alongside the session.
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    cookie.Value,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			Expires:  sess.ExpiresAt,
		})

		ctx := context.WithValue(r.Context(), ctxSession, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// currentSession returns the authenticated session, or a zero session
// for exempt paths.
func currentSession(r *http.Request) auth.Session {
	sess, _ := r.Context().Value(ctxSession).(auth.Session)
	return sess
}

// requireRole wraps a handler so only roles at or above minRole reach it.
func requireRole(minRole string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := currentSession(r)
		if auth.RoleLevel(sess.Role) < auth.RoleLevel(minRole) {
			jsonErr(w, "Insufficient permissions", 403)
			return
		}
		h(w, r)
	}
}

// pathParts splits an /api/v1/ path into segments.
func pathParts(path string) []string {
	p := strings.TrimPrefix(path, "/api/v1/")
	p = strings.TrimSuffix(p, "/")
	return strings.Split(p, "/")
}
