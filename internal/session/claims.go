package session

import (
	m "coinboard/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

// ProfileFromToken pulls username and roles out of the bearer token
// claims. The client holds no signing key, so the claims are read
// unverified; they are only a display fallback, never an authorization
// decision — the server re-checks every call.
func ProfileFromToken(token string) *m.Profile {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return nil
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil
	}

	profile := &m.Profile{}
	if sub, err := claims.GetSubject(); err == nil {
		profile.Username = sub
	}
	if username, ok := claims["username"].(string); ok && username != "" {
		profile.Username = username
	}

	for _, key := range []string{"roles", "authorities"} {
		raw, ok := claims[key].([]any)
		if !ok {
			continue
		}
		for _, r := range raw {
			if role, ok := r.(string); ok {
				profile.Roles = append(profile.Roles, role)
			}
		}
		break
	}

	return profile
}
