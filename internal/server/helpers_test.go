package server

import (
	"errors"
	"net/http/httptest"
	"testing"

	"farmfit/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePagination(t *testing.T) {
	app := fiber.New()

	var got Pagination
	app.Get("/items", func(c *fiber.Ctx) error {
		got = parsePagination(c, 20)
		return c.SendStatus(fiber.StatusOK)
	})

	tests := []struct {
		name       string
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"defaults", "", 20, 0},
		{"explicit values", "?limit=5&offset=10", 5, 10},
		{"limit clamped to max", "?limit=500", 100, 0},
		{"zero limit falls back", "?limit=0", 20, 0},
		{"negative offset reset", "?offset=-3", 20, 0},
		{"non-numeric ignored", "?limit=abc&offset=xyz", 20, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", "/items"+tt.query, nil))
			require.NoError(t, err)
			require.Equal(t, fiber.StatusOK, resp.StatusCode)
			assert.Equal(t, tt.wantLimit, got.Limit)
			assert.Equal(t, tt.wantOffset, got.Offset)
		})
	}
}

func TestStatusForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", models.NewValidationError("bad input"), fiber.StatusBadRequest},
		{"not found", models.NewNotFoundError("rating", 7), fiber.StatusNotFound},
		{"unauthorized maps to forbidden", models.NewUnauthorizedError("not yours"), fiber.StatusForbidden},
		{"conflict", models.NewConflictError("already rated"), fiber.StatusConflict},
		{"plain error", errors.New("boom"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusForError(tt.err))
		})
	}
}

func TestParseSubjectType(t *testing.T) {
	srv := &Server{}
	app := fiber.New()
	app.Get("/subjects/:type", func(c *fiber.Ctx) error {
		subjectType, err := srv.parseSubjectType(c, "type")
		if err != nil {
			return nil
		}
		return c.SendString(string(subjectType))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/subjects/clinic", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/subjects/practitioner", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/subjects/farrier", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHumanizeParam(t *testing.T) {
	assert.Equal(t, "ID", humanizeParam("id"))
	assert.Equal(t, "user ID", humanizeParam("userId"))
	assert.Equal(t, "comment ID", humanizeParam("commentId"))
	assert.Equal(t, "request ID", humanizeParam("requestId"))
	assert.Equal(t, "slug", humanizeParam("slug"))
}
