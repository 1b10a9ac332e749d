package auth

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	newApp := func(cfg Config) *fiber.App {
		app := fiber.New()
		app.Use(New(cfg))
		app.Get("/*", func(c *fiber.Ctx) error { return c.SendString("ok") })
		return app
	}

	tests := []struct {
		name   string
		cfg    Config
		path   string
		header string
		want   int
	}{
		{"Disabled", Config{}, "/bulk", "", fiber.StatusOK},
		{"Missing", Config{ApiKey: "k"}, "/bulk", "", fiber.StatusUnauthorized},
		{"Wrong", Config{ApiKey: "k"}, "/bulk", "x", fiber.StatusUnauthorized},
		{"Header", Config{ApiKey: "k"}, "/bulk", "k", fiber.StatusOK},
		{"Query", Config{ApiKey: "k"}, "/bulk?api_key=k", "", fiber.StatusOK},
		{"Skipped", Config{ApiKey: "k", Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/swagger")
		}}, "/swagger/index.html", "", fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.header != "" {
				req.Header.Set(Header, tt.header)
			}
			resp, err := newApp(tt.cfg).Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}
