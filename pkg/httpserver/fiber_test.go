package httpserver

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitFiberServer_HealthEndpoints(t *testing.T) {
	app := InitFiberServer("test-app", Timeouts{Read: time.Second, Write: time.Second, Idle: time.Second})

	for _, path := range []string{"/manage/health", "/manage/ready"} {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, path, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode, path)
		assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID), path)
	}
}

func TestInitFiberServer_RecoversPanics(t *testing.T) {
	app := InitFiberServer("test-app", Timeouts{})
	app.Get("/boom", func(c *fiber.Ctx) error {
		panic("boom")
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}
