package openid_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Astemirdum/library-circulation/pkg/auth"
	"github.com/Astemirdum/library-circulation/pkg/openid"
)

var cfg = openid.Config{Secret: "secret", Issuer: "library"}

func sign(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestParseToken(t *testing.T) {
	t.Parallel()
	exp := time.Now().Add(time.Hour).Unix()
	tests := []struct {
		name    string
		token   string
		want    auth.Identity
		wantErr bool
	}{
		{
			name: "ok. role claim",
			token: sign(t, "secret", jwt.MapClaims{
				"iss": "library", "sub": "7", "name": "ann", "role": "Reader", "exp": exp,
			}),
			want: auth.Identity{UserID: 7, UserName: "ann", Role: auth.RoleReader},
		},
		{
			name: "ok. realm role",
			token: sign(t, "secret", jwt.MapClaims{
				"iss": "library", "sub": 3, "preferred_username": "max", "exp": exp,
				"realm_access": map[string]any{"roles": []string{"offline_access", "SectionHead"}},
			}),
			want: auth.Identity{UserID: 3, UserName: "max", Role: auth.RoleSectionHead},
		},
		{
			name: "err. wrong secret",
			token: sign(t, "other", jwt.MapClaims{
				"iss": "library", "sub": "7", "name": "ann", "role": "Reader", "exp": exp,
			}),
			wantErr: true,
		},
		{
			name: "err. wrong issuer",
			token: sign(t, "secret", jwt.MapClaims{
				"iss": "elsewhere", "sub": "7", "name": "ann", "role": "Reader", "exp": exp,
			}),
			wantErr: true,
		},
		{
			name: "err. expired",
			token: sign(t, "secret", jwt.MapClaims{
				"iss": "library", "sub": "7", "name": "ann", "role": "Reader",
				"exp": time.Now().Add(-time.Hour).Unix(),
			}),
			wantErr: true,
		},
		{
			name: "err. unknown role",
			token: sign(t, "secret", jwt.MapClaims{
				"iss": "library", "sub": "7", "name": "ann", "role": "Root", "exp": exp,
			}),
			wantErr: true,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := openid.ParseToken(cfg, tt.token)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMiddlewareWithConfig(t *testing.T) {
	t.Parallel()
	token := sign(t, "secret", jwt.MapClaims{
		"iss": "library", "sub": "1", "name": "head", "role": "DepartmentHead",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	tests := []struct {
		name         string
		header       string
		expectedCode int
		expectedBody string
	}{
		{"ok", "Bearer " + token, http.StatusOK, "head:DepartmentHead"},
		{"err. no header", "", http.StatusUnauthorized, `{"message":"No Authorization Header"}`},
		{"err. basic auth", "Basic abc", http.StatusUnauthorized, `{"message":"Invalid Authorization Header"}`},
		{"err. garbage", "Bearer abc", http.StatusUnauthorized, `{"message":"Invalid Token"}`},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e := echo.New()
			e.GET("/", func(c echo.Context) error {
				id, err := auth.FromContext(c.Request().Context())
				if err != nil {
					return err
				}
				return c.String(http.StatusOK, id.UserName+":"+string(id.Role))
			}, openid.MiddlewareWithConfig(cfg))

			req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
			if tt.header != "" {
				req.Header.Set(openid.AuthorizationHeader, tt.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedCode, rec.Code)
			assert.Equal(t, tt.expectedBody, strings.TrimSpace(rec.Body.String()))
		})
	}
}
