package engine

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// userClaims are tried in order when a bearer token is a JWT.
var userClaims = []string{"unique_name", "upn", "email", "name", "sub"}

// requestUser returns the user name carried by the request credentials:
// the basic auth user name, or a name claim of a bearer JWT. Signatures are
// not verified. PAT-style credentials with an empty user name yield "".
func requestUser(r *http.Request) string {
	if user, _, ok := r.BasicAuth(); ok {
		return user
	}

	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return tokenUser(strings.TrimSpace(token))
}

func tokenUser(token string) string {
	if strings.Count(token, ".") != 2 {
		return ""
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return ""
	}
	for _, key := range userClaims {
		if v, ok := claims[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
