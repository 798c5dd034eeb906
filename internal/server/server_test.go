package server_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/musicdb/internal/server"
	"github.com/localnerve/musicdb/internal/services"
	"github.com/localnerve/musicdb/internal/testutil"
	"github.com/localnerve/musicdb/internal/types"
	"github.com/localnerve/musicdb/internal/utils"
)

// TestNotFoundFallback tests the catch-all 404 envelope
func TestNotFoundFallback(t *testing.T) {
	app, _ := testutil.NewTestApp(t, services.StoreOptions{UserEmailPrecheck: true})

	var body utils.ErrorResponseStruct
	testutil.RequestJSON(t, app, "GET", "/no/such/route", nil, http.StatusNotFound, &body)
	if body.Message != "[404] Resource Not Found" {
		t.Errorf("Unexpected message: %s", body.Message)
	}
	if body.URL != "/no/such/route" {
		t.Errorf("Expected url /no/such/route, got %s", body.URL)
	}
	if body.Ok {
		t.Error("Expected ok to be false")
	}
}

// TestErrorEnvelope tests that handler errors carry the error type
func TestErrorEnvelope(t *testing.T) {
	app, _ := testutil.NewTestApp(t, services.StoreOptions{UserEmailPrecheck: true})

	var body utils.ErrorResponseStruct
	testutil.RequestJSON(t, app, "GET", "/user/42", nil, http.StatusNotFound, &body)
	if body.Type != "user.notFound" {
		t.Errorf("Expected type user.notFound, got %s", body.Type)
	}
	if body.Message != "User doesn't exist" {
		t.Errorf("Unexpected message: %s", body.Message)
	}
	if body.Timestamp == "" {
		t.Error("Expected a timestamp")
	}
}

// TestErrorHandlerTypes tests the mapping of error kinds onto status codes
func TestErrorHandlerTypes(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: server.ErrorHandler})
	app.Get("/boom/custom", func(c *fiber.Ctx) error {
		return types.Conflict("taken", "test.conflict")
	})
	app.Get("/boom/fiber", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusTeapot, "short and stout")
	})
	app.Get("/boom/plain", func(c *fiber.Ctx) error {
		return io.ErrUnexpectedEOF
	})

	cases := []struct {
		path, errorType string
		status          int
	}{
		{"/boom/custom", "test.conflict", http.StatusConflict},
		{"/boom/fiber", "http", http.StatusTeapot},
		{"/boom/plain", "unknown", http.StatusInternalServerError},
	}
	for _, tc := range cases {
		var body utils.ErrorResponseStruct
		testutil.RequestJSON(t, app, "GET", tc.path, nil, tc.status, &body)
		if body.Type != tc.errorType {
			t.Errorf("%s: expected type %s, got %s", tc.path, tc.errorType, body.Type)
		}
		if body.Status != tc.status {
			t.Errorf("%s: expected status %d in body, got %d", tc.path, tc.status, body.Status)
		}
	}
}

// TestVersionHeader tests the X-Api-Version echo
func TestVersionHeader(t *testing.T) {
	app, _ := testutil.NewTestApp(t, services.StoreOptions{UserEmailPrecheck: true})

	resp := testutil.Request(t, app, "GET", "/users", nil)
	testutil.AssertStatus(t, resp, http.StatusOK)
	if got := resp.Header.Get("X-Api-Version"); got != "1.0.0" {
		t.Errorf("Expected X-Api-Version 1.0.0, got %q", got)
	}

	req := httptest.NewRequest("GET", "/users", nil)
	req.Header.Set("X-Api-Version", "1")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if got := resp.Header.Get("X-Api-Version"); got != "1.0.0" {
		t.Errorf("Expected alias to resolve to 1.0.0, got %q", got)
	}
}

// TestHealth tests GET /health over the in-memory database
func TestHealth(t *testing.T) {
	app, _ := testutil.NewTestApp(t, services.StoreOptions{UserEmailPrecheck: true})

	var result services.HealthCheckResult
	testutil.RequestJSON(t, app, "GET", "/health", nil, http.StatusOK, &result)
	if result.Status != "healthy" || result.Database != "ok" {
		t.Errorf("Unexpected health result: %+v", result)
	}
	if result.Details["database_type"] != "sqlite" {
		t.Errorf("Expected database_type sqlite, got %s", result.Details["database_type"])
	}
}

// TestMetricsAndSwagger tests the optional outer surfaces. Only this test
// enables metrics since the collectors register globally.
func TestMetricsAndSwagger(t *testing.T) {
	store := testutil.NewTestStore(t, services.StoreOptions{UserEmailPrecheck: true})
	app := server.New(testutil.TestConfig(), store, server.Options{Metrics: true})

	testutil.RequestJSON(t, app, "GET", "/users", nil, http.StatusOK, nil)

	resp := testutil.Request(t, app, "GET", "/metrics", nil)
	testutil.AssertStatus(t, resp, http.StatusOK)
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "musicdb") {
		t.Error("Expected musicdb metrics in /metrics output")
	}

	resp = testutil.Request(t, app, "GET", "/swagger/doc.json", nil)
	testutil.AssertStatus(t, resp, http.StatusOK)
	body, _ = io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "/user/{user_id}/playlist/{playlist_id}/song/{song_id}") {
		t.Error("Expected the playlist song route in the API docs")
	}
}
