// e2e_test.go
//
// A relational music catalog service for users, playlists, albums and songs
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of musicdb.
// musicdb is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// musicdb is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with musicdb.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"

	"github.com/localnerve/musicdb/internal/database"
	"github.com/localnerve/musicdb/internal/models"
	"github.com/localnerve/musicdb/internal/server"
	"github.com/localnerve/musicdb/internal/services"
	"github.com/localnerve/musicdb/internal/testutil"
)

// TestE2EWithFullStack serves the full app over a real listener backed by a
// database container and drives it with an HTTP client
func TestE2EWithFullStack(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E test in short mode")
	}

	ctx := context.Background()

	container, err := testutil.StartDatabase(ctx, testutil.DatabaseFromEnv())
	if err != nil {
		t.Fatalf("Failed to start database container: %v", err)
	}
	defer func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate database container: %v", err)
		}
	}()

	cfg := container.Config
	cfg.DBLogLevel = "silent"

	db, err := database.Connect(cfg)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	defer database.Close(db)
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to listen: %v", err)
	}
	_, cfg.Port, _ = net.SplitHostPort(listener.Addr().String())

	store := services.NewStore(db, services.StoreOptions{UserEmailPrecheck: cfg.UserEmailPrecheck})
	app := server.New(cfg, store, server.Options{Metrics: true})
	go func() {
		_ = app.Listener(listener)
	}()
	defer func() {
		_ = app.Shutdown()
	}()

	baseURL := services.LocalServerURL(cfg)

	t.Run("HealthCheck", func(t *testing.T) {
		result := services.HealthCheck(ctx, cfg, db, baseURL)
		if result.Status != "healthy" {
			t.Errorf("Expected healthy, got %+v", result)
		}
		if result.Server != "ok" {
			t.Errorf("Expected server ok, got %s", result.Server)
		}
	})

	t.Run("PrometheusMetrics", func(t *testing.T) {
		status, body := call(t, "GET", baseURL+"/metrics", nil)
		if status != http.StatusOK {
			t.Errorf("Expected status 200 for metrics, got %d", status)
		}
		t.Logf("Metrics endpoint working, found %d bytes of metrics", len(body))
	})

	t.Run("SwaggerUI", func(t *testing.T) {
		status, _ := call(t, "GET", baseURL+"/swagger/index.html", nil)
		if status != http.StatusOK {
			t.Errorf("Expected status 200 for Swagger UI, got %d", status)
		}
	})

	t.Run("PlaylistFlow", func(t *testing.T) {
		testPlaylistFlow(t, baseURL)
	})
}

func testPlaylistFlow(t *testing.T, baseURL string) {
	var user models.User
	decode(t, "POST", baseURL+"/user", `{"email":"e2e@example.com","firstname":"End"}`, http.StatusCreated, &user)

	var playlist models.Playlist
	decode(t, "POST", fmt.Sprintf("%s/user/%d/playlist", baseURL, user.ID), `{"name":"E2E"}`, http.StatusCreated, &playlist)

	var song models.Song
	decode(t, "POST", baseURL+"/song", `{"name":"Ping","duration_in_sec":"1.5"}`, http.StatusCreated, &song)

	link := fmt.Sprintf("%s/user/%d/playlist/%d/song/%d", baseURL, user.ID, playlist.ID, song.ID)

	var detail models.PlaylistDetail
	decode(t, "POST", link, "", http.StatusOK, &detail)
	if len(detail.Songs) != 1 {
		t.Errorf("Expected one song in playlist, got %d", len(detail.Songs))
	}
	decode(t, "POST", link, "", http.StatusConflict, nil)
	decode(t, "DELETE", link, "", http.StatusOK, &detail)
	if len(detail.Songs) != 0 {
		t.Errorf("Expected empty playlist, got %d", len(detail.Songs))
	}

	decode(t, "DELETE", fmt.Sprintf("%s/user/%d", baseURL, user.ID), "", http.StatusOK, nil)
	decode(t, "GET", fmt.Sprintf("%s/user/%d", baseURL, user.ID), "", http.StatusNotFound, nil)

	status, body := call(t, "GET", baseURL+"/nowhere", nil)
	if status != http.StatusNotFound || !strings.Contains(string(body), "Resource Not Found") {
		t.Errorf("Expected the 404 envelope, got %d %s", status, body)
	}
}

func call(t *testing.T, method, url string, body []byte) (int, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, url, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}
	return resp.StatusCode, raw
}

func decode(t *testing.T, method, url, body string, status int, out interface{}) {
	t.Helper()
	var payload []byte
	if body != "" {
		payload = []byte(body)
	}
	got, raw := call(t, method, url, payload)
	if got != status {
		t.Fatalf("%s %s: expected status %d, got %d. Body: %s", method, url, status, got, raw)
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			t.Fatalf("Failed to decode JSON: %v. Body: %s", err, raw)
		}
	}
}
