package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/BBBSnowball/lwip-ftpd/internal/config"
	"github.com/BBBSnowball/lwip-ftpd/internal/handlers"
	"github.com/BBBSnowball/lwip-ftpd/internal/middleware"
	"github.com/BBBSnowball/lwip-ftpd/internal/services"
	"github.com/BBBSnowball/lwip-ftpd/vfs"
	"github.com/BBBSnowball/lwip-ftpd/websocket"

	"github.com/gin-gonic/gin"
	"github.com/spf13/afero"
)

func setupRoutedApp(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	oldKey, oldTTL := middleware.SigningKey, middleware.TokenTTL
	middleware.SigningKey = []byte("routes-test-key")
	middleware.TokenTTL = time.Minute

	mem := afero.NewMemMapFs()
	if err := mem.MkdirAll("/srv/files", 0755); err != nil {
		t.Fatalf("failed to build test tree: %v", err)
	}
	manager := services.NewManager(vfs.NewDiskFilesystem(mem), "/srv/files", vfs.DefaultPathCapacity, 0)
	oldSessions, oldWsSessions := handlers.Sessions, websocket.Sessions
	handlers.Sessions = manager
	websocket.Sessions = manager

	t.Cleanup(func() {
		manager.Shutdown()
		handlers.Sessions, websocket.Sessions = oldSessions, oldWsSessions
		middleware.SigningKey, middleware.TokenTTL = oldKey, oldTTL
	})

	return SetupRoutes(config.LoadConfig())
}

func TestSetupRoutesWiring(t *testing.T) {
	r := setupRoutedApp(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("GET /health status = %d, expected %d", w.Code, http.StatusOK)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Errorf("GET /metrics status = %d, expected %d", w.Code, http.StatusOK)
	}

	// Opening a session is the only unauthenticated API call.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/sessions", nil))
	if w.Code != http.StatusCreated {
		t.Fatalf("POST /api/sessions status = %d, expected %d", w.Code, http.StatusCreated)
	}
	var created struct {
		ID    string `json:"id"`
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to parse create response: %v", err)
	}

	// Session routes demand the token.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/sessions/"+created.ID+"/cwd", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated cwd status = %d, expected %d", w.Code, http.StatusUnauthorized)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/sessions/"+created.ID+"/cwd", nil)
	req.Header.Set("Authorization", "Bearer "+created.Token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("authenticated cwd status = %d, expected %d", w.Code, http.StatusOK)
	}
}

func TestCORSPreflight(t *testing.T) {
	r := setupRoutedApp(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/sessions", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, expected %d", w.Code, http.StatusNoContent)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, expected %q", got, "*")
	}
}
