package middleware

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuthApp(apiKey string) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(testLogger()),
	})
	app.Use(Auth(apiKey))
	app.Get("/protected", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func TestAuth(t *testing.T) {
	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{name: "valid key", authHeader: "Bearer secret-key", wantStatus: 200},
		{name: "missing header", authHeader: "", wantStatus: 401},
		{name: "wrong key", authHeader: "Bearer wrong-key", wantStatus: 401},
		{name: "wrong scheme", authHeader: "Basic secret-key", wantStatus: 401},
		{name: "bearer without token", authHeader: "Bearer", wantStatus: 401},
		{name: "case insensitive scheme", authHeader: "bearer secret-key", wantStatus: 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := setupAuthApp("secret-key")

			req := httptest.NewRequest("GET", "/protected", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			if tt.wantStatus == 401 {
				body, err := io.ReadAll(resp.Body)
				require.NoError(t, err)
				assert.Contains(t, string(body), "UNAUTHORIZED")
			}
		})
	}
}
