package session

import (
	"encoding/hex"
	"fmt"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/blake2b"
)

// Key derives a stable, non-reversible identifier for a token, used to
// address per-session state without storing the token itself.
func Key(token string) string {
	sum := blake2b.Sum256([]byte(token))
	return hex.EncodeToString(sum[:16])
}

var subjectClaims = []string{"sub", "id", "user_id", "_id", "email"}

// Subject returns the user identifier carried by a JWT token, or "" when the
// token is not a JWT. The signature is not checked; the result is only fit
// for log attribution.
func Subject(token string) string {
	if token == "" {
		return ""
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return ""
	}
	for _, name := range subjectClaims {
		switch v := claims[name].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return fmt.Sprintf("%.0f", v)
		}
	}
	return ""
}
