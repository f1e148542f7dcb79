// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

// SurfaceKey is the context key for the authenticated back-office surface.
const SurfaceKey contextKey = "surface"

// Surface identifies which back-office entry surface authenticated the
// request: "admin", "author", or "publisher". All three produce articles
// of identical shape; handlers only use the surface for ownership fields.
type Surface string

const (
	SurfaceAdmin     Surface = "admin"
	SurfaceAuthor    Surface = "author"
	SurfacePublisher Surface = "publisher"
)

// RequireToken returns middleware that authenticates requests with a
// static bearer token for one back-office surface. Requests with a
// missing or wrong token get a 401 JSON error so callers can distinguish
// unauthorized from not-found and validation failures.
func RequireToken(surface Surface, token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			presented, ok := bearerToken(r)
			if token == "" || !ok ||
				subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"unauthorized"}`))
				return
			}

			ctx := context.WithValue(r.Context(), SurfaceKey, surface)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SurfaceFromCtx returns the authenticated surface, or "" if the request
// did not pass through RequireToken.
func SurfaceFromCtx(ctx context.Context) Surface {
	if s, ok := ctx.Value(SurfaceKey).(Surface); ok {
		return s
	}
	return ""
}

// bearerToken extracts the token from an "Authorization: Bearer x" header.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
