package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/coderefine/coderefine/internal/client"
	"github.com/coderefine/coderefine/internal/model"
)

// newUpstream fakes the analysis service and the bridge in one server.
func newUpstream(t *testing.T, bridgeOnline bool) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		status := "offline"
		if bridgeOnline {
			status = "online"
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"status": status})
	})
	mux.HandleFunc("POST /analyze", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Code string `json:"code"`
			Mode string `json:"mode"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		_ = json.NewEncoder(w).Encode(model.ReviewResult{
			Summary:          "Analyzed via " + req.Mode + " mode.",
			LanguageDetected: "Python",
			Metrics:          model.Metrics{OverallHealth: 88},
			Issues: []model.Issue{
				{Line: 1, Category: model.CategoryStyle, Severity: model.SeverityLow, Description: "d", Suggestion: "s"},
			},
			OptimizedCode: "# optimized\n" + req.Code,
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestServer(t *testing.T, bridgeOnline bool) *Server {
	upstream := newUpstream(t, bridgeOnline)
	return New(":0", client.New(upstream.URL, upstream.URL), nil)
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t, true)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}

	var resp healthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json decode: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("expected status ok, got %q", resp.Status)
	}
	if resp.Bridge != "hybrid" {
		t.Errorf("expected hybrid, got %q", resp.Bridge)
	}
}

func TestHealthCloudOnly(t *testing.T) {
	srv := newTestServer(t, false)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	var resp healthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json decode: %v", err)
	}
	if resp.Bridge != "cloud-only" {
		t.Errorf("expected cloud-only, got %q", resp.Bridge)
	}
}

func TestCatalogEndpoint(t *testing.T) {
	srv := newTestServer(t, true)
	req := httptest.NewRequest(http.MethodGet, "/api/catalog", nil)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	var resp catalogResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json decode: %v", err)
	}
	if len(resp.Modes) != 5 {
		t.Errorf("expected 5 modes, got %v", resp.Modes)
	}
	if resp.Languages[0] != model.AutoDetect {
		t.Errorf("expected %q first, got %q", model.AutoDetect, resp.Languages[0])
	}
}

func TestAnalyzeEndpoint(t *testing.T) {
	srv := newTestServer(t, true)

	body, _ := json.Marshal(analyzeRequest{Code: "print(1)", Language: "Python", Mode: "strict"})
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp model.ReviewResult
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json decode: %v", err)
	}
	if resp.LanguageDetected != "Python" {
		t.Errorf("languageDetected = %q", resp.LanguageDetected)
	}
	if len(resp.Issues) != 1 {
		t.Errorf("expected 1 issue, got %d", len(resp.Issues))
	}
}

func TestAnalyzeEmptyCode(t *testing.T) {
	srv := newTestServer(t, true)

	body, _ := json.Marshal(analyzeRequest{Code: "   ", Mode: "strict"})
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", bytes.NewReader(body))
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAnalyzeUnknownMode(t *testing.T) {
	srv := newTestServer(t, true)

	body, _ := json.Marshal(analyzeRequest{Code: "x", Mode: "hacker"})
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", bytes.NewReader(body))
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown mode, got %d", w.Code)
	}
}

func TestAnalyzeUpstreamFailure(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail": "provider exploded"}`))
	}))
	defer upstream.Close()

	srv := New(":0", client.New(upstream.URL, upstream.URL), nil)

	body, _ := json.Marshal(analyzeRequest{Code: "x", Mode: "strict"})
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", bytes.NewReader(body))
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", w.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json decode: %v", err)
	}
	if resp["error"] == "" {
		t.Error("expected an error message")
	}
}
