// Package middleware содержит HTTP middleware для сервиса аналитики платежей.
package middleware

import (
	"crypto/hmac"
	"net/http"
	"strings"
)

const (
	apiKeyHeader = "X-API-Key"
	bearerPrefix = "Bearer "
)

// AuthMiddleware проверяет ключ доступа к отчётам. Пустой ключ отключает проверку.
type AuthMiddleware struct {
	apiKey []byte
}

// NewAuthMiddleware создаёт новый экземпляр AuthMiddleware с указанным ключом.
func NewAuthMiddleware(apiKey string) *AuthMiddleware {
	return &AuthMiddleware{
		apiKey: []byte(apiKey),
	}
}

// Enabled сообщает, настроен ли ключ доступа.
func (a *AuthMiddleware) Enabled() bool {
	return len(a.apiKey) > 0
}

// Middleware пропускает запрос дальше, только если передан верный ключ в X-API-Key или Authorization: Bearer.
func (a *AuthMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.Enabled() {
			next.ServeHTTP(w, r)
			return
		}

		key, ok := requestKey(r)
		if !ok || !hmac.Equal([]byte(key), a.apiKey) {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func requestKey(r *http.Request) (string, bool) {
	if key := r.Header.Get(apiKeyHeader); key != "" {
		return key, true
	}

	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, bearerPrefix) {
		return strings.TrimPrefix(auth, bearerPrefix), true
	}

	return "", false
}
