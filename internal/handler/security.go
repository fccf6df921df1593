package handler

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"

	"github.com/bloomcart/discount-engine/internal/domain/auth"
	"github.com/bloomcart/discount-engine/pkg/httpmiddleware"
)

// APIKeyHeader carries the settings API key.
const APIKeyHeader = "Api-Key"

// SecurityHandler authenticates settings API requests via HMAC-SHA256 hashed
// API keys.
type SecurityHandler struct {
	apikeys auth.Repository
	pepper  []byte
}

// NewSecurityHandler creates a SecurityHandler with the given API key
// repository and HMAC pepper.
func NewSecurityHandler(apikeys auth.Repository, pepper []byte) *SecurityHandler {
	return &SecurityHandler{
		apikeys: apikeys,
		pepper:  pepper,
	}
}

// Middleware returns a middleware that rejects requests without a valid API
// key. The presented key is HMAC-SHA256 hashed with the server pepper, looked
// up, and compared in constant time to prevent timing side-channels.
func (s *SecurityHandler) Middleware() httpmiddleware.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(APIKeyHeader)
			if key == "" {
				unauthorized(w)
				return
			}

			mac := hmac.New(sha256.New, s.pepper)
			mac.Write([]byte(key))
			hash := mac.Sum(nil)

			info, err := s.apikeys.FindByHash(r.Context(), hex.EncodeToString(hash))
			if err != nil {
				unauthorized(w)
				return
			}

			storedBytes, err := hex.DecodeString(info.KeyHash)
			if err != nil {
				unauthorized(w)
				return
			}
			if subtle.ConstantTimeCompare(hash, storedBytes) != 1 {
				unauthorized(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"code":401,"message":"unauthorized"}`))
}
