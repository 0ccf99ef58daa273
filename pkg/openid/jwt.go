package openid

import (
	"strconv"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Astemirdum/library-circulation/pkg/auth"
)

type Config struct {
	Secret string `yaml:"secret" envconfig:"JWT_SECRET" json:"-"`
	Issuer string `yaml:"issuer" envconfig:"JWT_ISSUER"`
}

// Enabled reports whether bearer tokens replace the gateway identity headers.
func (c Config) Enabled() bool {
	return c.Secret != ""
}

type JwtHelper struct {
	claims     jwt.MapClaims
	realmRoles []string
}

func NewJwtHelper(claims jwt.MapClaims) *JwtHelper {
	return &JwtHelper{
		claims:     claims,
		realmRoles: parseRealmRoles(claims),
	}
}

func (j *JwtHelper) GetUserID() string {
	switch sub := j.claims["sub"].(type) {
	case string:
		return sub
	case float64:
		return strconv.FormatInt(int64(sub), 10)
	}
	return ""
}

func (j *JwtHelper) GetName() string {
	if name, ok := j.claims["name"].(string); ok && name != "" {
		return name
	}
	if name, ok := j.claims["preferred_username"].(string); ok {
		return name
	}
	return ""
}

// GetRole prefers the role claim and falls back to the first realm role known to the library.
func (j *JwtHelper) GetRole() string {
	if role, ok := j.claims["role"].(string); ok && role != "" {
		return role
	}
	for _, role := range j.realmRoles {
		if auth.Role(role).Valid() {
			return role
		}
	}
	return ""
}

func (j *JwtHelper) IsUserInRealmRole(role string) bool {
	return contains(j.realmRoles, role)
}

func (j *JwtHelper) Identity() (auth.Identity, error) {
	return auth.ParseIdentity(j.GetUserID(), j.GetName(), j.GetRole())
}

func parseRealmRoles(claims jwt.MapClaims) []string {
	realmRoles := make([]string, 0)

	access, ok := claims["realm_access"].(map[string]any)
	if !ok {
		return realmRoles
	}
	roles, ok := access["roles"].([]any)
	if !ok {
		return realmRoles
	}
	for _, role := range roles {
		if s, ok := role.(string); ok {
			realmRoles = append(realmRoles, s)
		}
	}
	return realmRoles
}

func contains(arr []string, s string) bool {
	for i := range arr {
		if arr[i] == s {
			return true
		}
	}

	return false
}
