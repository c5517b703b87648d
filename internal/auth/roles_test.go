package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/auth-service/internal/domain"
	"github.com/spec-kit/auth-service/internal/observability"
)

func TestRoleGuards(t *testing.T) {
	codec := newTestCodec(t)
	issuer, err := NewIssuer(codec, time.Hour, 24*time.Hour)
	require.NoError(t, err)

	repo := &fakeUserRepo{users: map[string]*domain.User{
		"user@x.com":  {ID: "u-1", Email: "user@x.com", Role: domain.RoleUser},
		"admin@x.com": {ID: "u-2", Email: "admin@x.com", Role: domain.RoleAdmin},
	}}
	gate := NewGate(NewValidator(codec), repo, zap.NewNop(), observability.NewMetrics())

	app := fiber.New()
	app.Use(gate.Handle)
	app.Get("/any", RequireAuthenticated(), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})
	app.Get("/admin", RequireRole(domain.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})

	tokenFor := func(email string, roles []string) string {
		pair, err := issuer.Issue(email, roles, time.Now())
		require.NoError(t, err)
		return "Bearer " + pair.AccessToken
	}

	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"anonymous rejected", "/any", "", http.StatusUnauthorized},
		{"user allowed on any", "/any", tokenFor("user@x.com", []string{"USER"}), http.StatusOK},
		{"user forbidden on admin", "/admin", tokenFor("user@x.com", []string{"USER"}), http.StatusForbidden},
		{"admin allowed on admin", "/admin", tokenFor("admin@x.com", []string{"ADMIN"}), http.StatusOK},
		{"anonymous rejected on admin", "/admin", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}
