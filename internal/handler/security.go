package handler

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"

	"github.com/xenking/wheelhouse/internal/domain/auth"
)

// Security guards mutating endpoints with HMAC-SHA256 hashed API keys
// supplied in the X-API-Key header.
type Security struct {
	apikeys auth.Repository
	pepper  []byte
}

// NewSecurity creates a Security guard with the given API key repository and
// HMAC pepper.
func NewSecurity(apikeys auth.Repository, pepper []byte) *Security {
	return &Security{
		apikeys: apikeys,
		pepper:  pepper,
	}
}

// Require wraps next, rejecting requests that do not carry a known API key.
func (s *Security) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get("X-API-Key")
		if key == "" || !s.authenticate(r.Context(), key) {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// authenticate computes the HMAC-SHA256 of the provided key, looks it up,
// and confirms the stored hash with a constant-time comparison. The compare
// guards against timing side-channels even though the lookup already
// succeeded, since the repository could return a stale row.
func (s *Security) authenticate(ctx context.Context, key string) bool {
	mac := hmac.New(sha256.New, s.pepper)
	mac.Write([]byte(key))
	hash := mac.Sum(nil)

	info, err := s.apikeys.FindByHash(ctx, hex.EncodeToString(hash))
	if err != nil {
		return false
	}

	stored, err := hex.DecodeString(info.KeyHash)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(hash, stored) == 1
}

// HashAPIKey returns the hex HMAC-SHA256 of key under pepper, the stored
// form of every API key. Shared with the seeding command.
func HashAPIKey(key string, pepper []byte) string {
	mac := hmac.New(sha256.New, pepper)
	mac.Write([]byte(key))
	return hex.EncodeToString(mac.Sum(nil))
}
