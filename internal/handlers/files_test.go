package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
)

func TestListEntries(t *testing.T) {
	r := setupTestRouter(t)
	id, token := openTestSession(t, r)
	base := "/api/sessions/" + id

	w := doRequest(r, http.MethodGet, base+"/list", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp struct {
		Items []struct {
			Name  string `json:"name"`
			Path  string `json:"path"`
			IsDir bool   `json:"isDir"`
			Size  int64  `json:"size"`
		} `json:"items"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(resp.Items) != 2 {
		t.Fatalf("len(items) = %d, expected 2", len(resp.Items))
	}
	if resp.Items[0].Name != "docs" || !resp.Items[0].IsDir {
		t.Errorf("items[0] = %+v, expected the docs directory", resp.Items[0])
	}
	if resp.Items[1].Name != "readme.md" || resp.Items[1].IsDir {
		t.Errorf("items[1] = %+v, expected readme.md", resp.Items[1])
	}
	if resp.Items[1].Size != 5 {
		t.Errorf("readme.md size = %d, expected 5", resp.Items[1].Size)
	}

	w = doRequest(r, http.MethodGet, base+"/list?path=docs", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(resp.Items) != 2 {
		t.Fatalf("len(items) = %d, expected 2", len(resp.Items))
	}
	if resp.Items[0].Path != "/docs/a.txt" {
		t.Errorf("items[0].Path = %q, expected %q", resp.Items[0].Path, "/docs/a.txt")
	}

	if w := doRequest(r, http.MethodGet, base+"/list?path=missing", token, nil); w.Code != http.StatusNotFound {
		t.Errorf("list missing status = %d, expected %d", w.Code, http.StatusNotFound)
	}
	if w := doRequest(r, http.MethodGet, base+"/list?path=readme.md", token, nil); w.Code != http.StatusConflict {
		t.Errorf("list of a file status = %d, expected %d", w.Code, http.StatusConflict)
	}
}

func TestStatEntry(t *testing.T) {
	r := setupTestRouter(t)
	id, token := openTestSession(t, r)
	base := "/api/sessions/" + id

	w := doRequest(r, http.MethodGet, base+"/stat?path=docs/a.txt", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var entry map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if entry["name"] != "a.txt" {
		t.Errorf("name = %v, expected %q", entry["name"], "a.txt")
	}
	if entry["path"] != "/docs/a.txt" {
		t.Errorf("path = %v, expected %q", entry["path"], "/docs/a.txt")
	}
	if entry["isDir"] != false {
		t.Errorf("isDir = %v, expected false", entry["isDir"])
	}
	if entry["size"] != float64(5) {
		t.Errorf("size = %v, expected 5", entry["size"])
	}
	if entry["modifiedAt"] == "" || entry["modifiedAt"] == nil {
		t.Error("entry has no modifiedAt")
	}

	if w := doRequest(r, http.MethodGet, base+"/stat?path=missing", token, nil); w.Code != http.StatusNotFound {
		t.Errorf("stat missing status = %d, expected %d", w.Code, http.StatusNotFound)
	}
}

func TestFileRoundTrip(t *testing.T) {
	r := setupTestRouter(t)
	id, token := openTestSession(t, r)
	base := "/api/sessions/" + id

	w := doRequest(r, http.MethodPut, base+"/file?path=notes.txt", token, []byte("remember the milk"))
	if w.Code != http.StatusOK {
		t.Fatalf("write status = %d, body %s", w.Code, w.Body.String())
	}
	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp["bytes"] != float64(17) {
		t.Errorf("bytes = %v, expected 17", resp["bytes"])
	}

	w = doRequest(r, http.MethodGet, base+"/file?path=notes.txt", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("read status = %d", w.Code)
	}
	if got := w.Body.String(); got != "remember the milk" {
		t.Errorf("body = %q, expected %q", got, "remember the milk")
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/octet-stream" {
		t.Errorf("Content-Type = %q, expected %q", ct, "application/octet-stream")
	}

	// Overwrite truncates.
	if w := doRequest(r, http.MethodPut, base+"/file?path=notes.txt", token, []byte("done")); w.Code != http.StatusOK {
		t.Fatalf("overwrite status = %d", w.Code)
	}
	w = doRequest(r, http.MethodGet, base+"/file?path=notes.txt", token, nil)
	if got := w.Body.String(); got != "done" {
		t.Errorf("body after overwrite = %q, expected %q", got, "done")
	}

	if w := doRequest(r, http.MethodDelete, base+"/file?path=notes.txt", token, nil); w.Code != http.StatusOK {
		t.Fatalf("delete status = %d", w.Code)
	}
	if w := doRequest(r, http.MethodGet, base+"/file?path=notes.txt", token, nil); w.Code != http.StatusNotFound {
		t.Errorf("read after delete status = %d, expected %d", w.Code, http.StatusNotFound)
	}
}

func TestMkdirAndRemoveDirectory(t *testing.T) {
	r := setupTestRouter(t)
	id, token := openTestSession(t, r)
	base := "/api/sessions/" + id

	body, _ := json.Marshal(map[string]string{"path": "archive"})
	w := doRequest(r, http.MethodPost, base+"/mkdir", token, body)
	if w.Code != http.StatusCreated {
		t.Fatalf("mkdir status = %d, body %s", w.Code, w.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp["path"] != "/archive" {
		t.Errorf("path = %q, expected %q", resp["path"], "/archive")
	}

	// A second mkdir at the same place collides.
	if w := doRequest(r, http.MethodPost, base+"/mkdir", token, body); w.Code != http.StatusConflict {
		t.Errorf("repeated mkdir status = %d, expected %d", w.Code, http.StatusConflict)
	}

	if w := doRequest(r, http.MethodDelete, base+"/dir?path=archive", token, nil); w.Code != http.StatusOK {
		t.Fatalf("rmdir status = %d", w.Code)
	}
	if w := doRequest(r, http.MethodDelete, base+"/dir?path=archive", token, nil); w.Code != http.StatusNotFound {
		t.Errorf("repeated rmdir status = %d, expected %d", w.Code, http.StatusNotFound)
	}

	// rmdir refuses files, remove refuses directories.
	if w := doRequest(r, http.MethodDelete, base+"/dir?path=readme.md", token, nil); w.Code != http.StatusConflict {
		t.Errorf("rmdir of a file status = %d, expected %d", w.Code, http.StatusConflict)
	}
	if w := doRequest(r, http.MethodDelete, base+"/file?path=docs", token, nil); w.Code != http.StatusConflict {
		t.Errorf("remove of a directory status = %d, expected %d", w.Code, http.StatusConflict)
	}
}

func TestRenameEntry(t *testing.T) {
	r := setupTestRouter(t)
	id, token := openTestSession(t, r)
	base := "/api/sessions/" + id

	body, _ := json.Marshal(map[string]string{"from": "docs/a.txt", "to": "docs/sub/a.txt"})
	w := doRequest(r, http.MethodPost, base+"/rename", token, body)
	if w.Code != http.StatusOK {
		t.Fatalf("rename status = %d, body %s", w.Code, w.Body.String())
	}

	if w := doRequest(r, http.MethodGet, base+"/stat?path=docs/a.txt", token, nil); w.Code != http.StatusNotFound {
		t.Errorf("stat of old name status = %d, expected %d", w.Code, http.StatusNotFound)
	}
	w = doRequest(r, http.MethodGet, base+"/stat?path=docs/sub/a.txt", token, nil)
	if w.Code != http.StatusOK {
		t.Errorf("stat of new name status = %d, expected %d", w.Code, http.StatusOK)
	}

	// Renaming something missing reports the filesystem's error.
	body, _ = json.Marshal(map[string]string{"from": "ghost", "to": "docs/ghost"})
	if w := doRequest(r, http.MethodPost, base+"/rename", token, body); w.Code != http.StatusNotFound {
		t.Errorf("rename of missing source status = %d, expected %d", w.Code, http.StatusNotFound)
	}
}

func TestTraversalIsRefused(t *testing.T) {
	r := setupTestRouter(t)
	id, token := openTestSession(t, r)
	base := "/api/sessions/" + id

	// Move below the root so absolute paths outside the cwd exist.
	body, _ := json.Marshal(map[string]string{"path": "docs"})
	if w := doRequest(r, http.MethodPost, base+"/chdir", token, body); w.Code != http.StatusOK {
		t.Fatalf("chdir status = %d", w.Code)
	}

	for _, url := range []string{
		base + "/list?path=/",
		base + "/stat?path=/readme.md",
		base + "/file?path=/readme.md",
	} {
		if w := doRequest(r, http.MethodGet, url, token, nil); w.Code != http.StatusForbidden {
			t.Errorf("GET %s status = %d, expected %d", url, w.Code, http.StatusForbidden)
		}
	}

	// Relative climbs clamp instead: this stats the cwd itself.
	w := doRequest(r, http.MethodGet, base+"/stat?path=../../..", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("clamped stat status = %d", w.Code)
	}
	var entry map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if entry["path"] != "/docs" {
		t.Errorf("clamped path = %v, expected %q", entry["path"], "/docs")
	}

	// The refusals show up in the metrics.
	w = doRequest(r, http.MethodGet, "/metrics", "", nil)
	var metrics struct {
		Metrics struct {
			Refusals float64 `json:"refusals"`
		} `json:"metrics"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &metrics); err != nil {
		t.Fatalf("failed to parse metrics: %v", err)
	}
	if metrics.Metrics.Refusals < 3 {
		t.Errorf("refusals = %v, expected at least 3", metrics.Metrics.Refusals)
	}
}

func TestPathParameterRequired(t *testing.T) {
	r := setupTestRouter(t)
	id, token := openTestSession(t, r)
	base := "/api/sessions/" + id

	checks := []struct {
		method string
		url    string
	}{
		{http.MethodGet, base + "/file"},
		{http.MethodPut, base + "/file"},
		{http.MethodDelete, base + "/file"},
		{http.MethodDelete, base + "/dir"},
	}
	for _, check := range checks {
		if w := doRequest(r, check.method, check.url, token, nil); w.Code != http.StatusBadRequest {
			t.Errorf("%s %s status = %d, expected %d", check.method, check.url, w.Code, http.StatusBadRequest)
		}
	}

	// Requests that bind JSON reject missing fields.
	if w := doRequest(r, http.MethodPost, base+"/mkdir", token, []byte(`{}`)); w.Code != http.StatusBadRequest {
		t.Errorf("mkdir without path status = %d, expected %d", w.Code, http.StatusBadRequest)
	}
	if w := doRequest(r, http.MethodPost, base+"/rename", token, []byte(`{"from":"a"}`)); w.Code != http.StatusBadRequest {
		t.Errorf("rename without to status = %d, expected %d", w.Code, http.StatusBadRequest)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	r := setupTestRouter(t)

	w := doRequest(r, http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("health status = %d", w.Code)
	}
	var health map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &health); err != nil {
		t.Fatalf("failed to parse health response: %v", err)
	}
	if health["status"] != "healthy" {
		t.Errorf("status = %q, expected %q", health["status"], "healthy")
	}

	openTestSession(t, r)
	w = doRequest(r, http.MethodGet, "/metrics", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("metrics status = %d", w.Code)
	}
	var resp struct {
		Status  string `json:"status"`
		Metrics struct {
			Uptime               string  `json:"uptime"`
			ActiveSessions       float64 `json:"activeSessions"`
			Operations           float64 `json:"operations"`
			WebsocketConnections float64 `json:"websocketConnections"`
		} `json:"metrics"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse metrics response: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("status = %q, expected %q", resp.Status, "ok")
	}
	if resp.Metrics.Uptime == "" {
		t.Error("metrics have no uptime")
	}
	if resp.Metrics.ActiveSessions != 1 {
		t.Errorf("activeSessions = %v, expected 1", resp.Metrics.ActiveSessions)
	}
}
