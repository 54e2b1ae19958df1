package auth

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
)

// APIKeyMiddleware accepts requests carrying one of a fixed set of keys.
// Only SHA-256 hashes of the keys are held in memory.
type APIKeyMiddleware struct {
	headerName string
	hashes     []string
}

func NewAPIKeyMiddleware(headerName string, keys []string) *APIKeyMiddleware {
	if headerName == "" {
		headerName = "X-API-Key"
	}
	m := &APIKeyMiddleware{headerName: headerName}
	for _, k := range keys {
		if k != "" {
			m.hashes = append(m.hashes, HashAPIKey(k))
		}
	}
	return m
}

// Authenticate passes requests without the header through untouched so a
// later middleware can try another scheme. A present but unknown key is
// rejected.
func (m *APIKeyMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(m.headerName)
		if key == "" {
			next.ServeHTTP(w, r)
			return
		}

		hash := HashAPIKey(key)
		if !m.match(hash) {
			writeError(w, http.StatusUnauthorized, "invalid API key")
			return
		}

		ctx := WithPrincipal(r.Context(), &Principal{Method: "api_key", Subject: "key:" + hash[:12]})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *APIKeyMiddleware) match(hash string) bool {
	found := 0
	for _, h := range m.hashes {
		found |= subtle.ConstantTimeCompare([]byte(h), []byte(hash))
	}
	return found == 1
}

func HashAPIKey(key string) string {
	h := sha256.Sum256([]byte(key))
	return hex.EncodeToString(h[:])
}

type ctxKey string

const principalKey ctxKey = "principal"

// Principal identifies the caller of an authenticated request.
type Principal struct {
	Method  string // api_key or jwt
	Subject string
	Claims  *Claims
}

func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

func PrincipalFromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalKey).(*Principal)
	return p
}
