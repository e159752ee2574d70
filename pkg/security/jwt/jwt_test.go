package jwt

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(secret, issuer string) *fiber.App {
	app := fiber.New()
	app.Get("/me", NewAuthMiddleware(secret, issuer), func(c *fiber.Ctx) error {
		return c.SendString(ClientID(c))
	})
	return app
}

func call(t *testing.T, app *fiber.App, header string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestTokenRoundTrip(t *testing.T) {
	gen := NewGenerator("s3cret", "rally", time.Hour)
	token, exp, err := gen.Generate(context.Background(), "client-42")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Minute)

	app := newApp("s3cret", "rally")
	status, body := call(t, app, "Bearer "+token)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "client-42", body)

	status, body = call(t, app, token)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "client-42", body)
}

func TestMiddlewareRejects(t *testing.T) {
	app := newApp("s3cret", "rally")

	status, _ := call(t, app, "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = call(t, app, "Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, status)

	wrongKey, _, err := NewGenerator("other", "rally", time.Hour).Generate(context.Background(), "c")
	require.NoError(t, err)
	status, _ = call(t, app, "Bearer "+wrongKey)
	assert.Equal(t, http.StatusUnauthorized, status)

	wrongIssuer, _, err := NewGenerator("s3cret", "someone-else", time.Hour).Generate(context.Background(), "c")
	require.NoError(t, err)
	status, _ = call(t, app, "Bearer "+wrongIssuer)
	assert.Equal(t, http.StatusUnauthorized, status)

	expired, _, err := NewGenerator("s3cret", "rally", -time.Minute).Generate(context.Background(), "c")
	require.NoError(t, err)
	status, _ = call(t, app, "Bearer "+expired)
	assert.Equal(t, http.StatusUnauthorized, status)
}
