package handler

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http/httptest"
	"testing"

	"go-commerce-api/internal/model"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestFail_StatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"missing product", model.ErrProductNotFound, 404},
		{"missing order", model.ErrOrderNotFound, 404},
		{"insufficient stock", model.ErrInsufficientStock, 400},
		{"validation failure", fmt.Errorf("%w: field 'Email' failed on tag 'email'", model.ErrValidation), 400},
		{"identity required", model.ErrIdentityRequired, 401},
		{"persistence sentinel", model.ErrPersistenceUnavailable, 503},
		{"refused connection", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, 503},
		{"dropped connection", fmt.Errorf("query: %w", driver.ErrBadConn), 503},
		{"unclassified", errors.New("boom"), 500},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				return fail(c, tc.err)
			})

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			assert.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)

			var body map[string]interface{}
			assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, false, body["success"])
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestFail_ConnectionFailureHidesDriverError(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return fail(c, &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")})
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	assert.NoError(t, err)
	assert.Equal(t, 503, resp.StatusCode)

	var body map[string]interface{}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, model.ErrPersistenceUnavailable.Error(), body["error"])
}
