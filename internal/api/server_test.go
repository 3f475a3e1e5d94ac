package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/treelayout/pkg/observability"
	"github.com/matzehuels/treelayout/pkg/pipeline"
)

const layoutBody = `{"edges":[
	{"child":"A"},
	{"child":"B","parent":"A"},
	{"child":"C","parent":"A"},
	{"child":"R"}
]}`

func newTestServer(t *testing.T, cfg Config) *httptest.Server {
	t.Helper()
	logger := log.New(io.Discard)
	runner := pipeline.NewRunner(nil, nil, logger)
	srv := httptest.NewServer(NewServer(runner, cfg, logger).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, body string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, data
}

func decodeError(t *testing.T, data []byte) errorBody {
	t.Helper()
	var e errorBody
	if err := json.Unmarshal(data, &e); err != nil {
		t.Fatalf("error body %q: %v", data, err)
	}
	return e
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, Config{})
	resp, data := do(t, http.MethodGet, srv.URL+"/healthz", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if !strings.Contains(string(data), `"status":"ok"`) {
		t.Errorf("body = %s", data)
	}
}

func TestLayoutJSON(t *testing.T) {
	srv := newTestServer(t, Config{})
	resp, data := do(t, http.MethodPost, srv.URL+"/v1/layout", layoutBody)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", resp.StatusCode, data)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	runID := resp.Header.Get(HeaderRunID)
	if runID == "" {
		t.Fatal("missing run id header")
	}

	var doc struct {
		RunID string   `json:"run_id"`
		Roots []string `json:"roots"`
		Trees []struct {
			Root string `json:"root"`
			Span int    `json:"span"`
		} `json:"trees"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}
	if doc.RunID != runID {
		t.Errorf("run_id = %q, want %q", doc.RunID, runID)
	}
	if !slices.Equal(doc.Roots, []string{"A", "R"}) {
		t.Errorf("roots = %v, want [A R]", doc.Roots)
	}
	if len(doc.Trees) != 2 || doc.Trees[0].Span != 2 || doc.Trees[1].Span != 1 {
		t.Errorf("trees = %+v", doc.Trees)
	}
}

func TestLayoutForcedRoot(t *testing.T) {
	srv := newTestServer(t, Config{})
	body := `{"edges":[{"child":"X","parent":"P"},{"child":"Y","parent":"P"}],"roots":["P"]}`
	resp, data := do(t, http.MethodPost, srv.URL+"/v1/layout", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", resp.StatusCode, data)
	}
	var doc struct {
		Roots []string `json:"roots"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(doc.Roots, []string{"P"}) {
		t.Errorf("roots = %v, want [P]", doc.Roots)
	}
}

func TestLayoutCSV(t *testing.T) {
	srv := newTestServer(t, Config{})
	resp, data := do(t, http.MethodPost, srv.URL+"/v1/layout?format=csv", layoutBody)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, data)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	// header, A tree (2 target + 3 source rows), R tree (1 source row)
	if len(lines) != 7 {
		t.Errorf("lines = %d, want 7:\n%s", len(lines), data)
	}
	if !strings.HasPrefix(lines[0], "original_node,") {
		t.Errorf("header = %q", lines[0])
	}
}

func TestRunAndTree(t *testing.T) {
	srv := newTestServer(t, Config{})
	resp, _ := do(t, http.MethodPost, srv.URL+"/v1/layout", layoutBody)
	runID := resp.Header.Get(HeaderRunID)

	resp, data := do(t, http.MethodGet, srv.URL+"/v1/runs/"+runID, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("run status = %d: %s", resp.StatusCode, data)
	}
	var run runResponse
	if err := json.Unmarshal(data, &run); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(run.Roots, []string{"A", "R"}) {
		t.Errorf("roots = %v", run.Roots)
	}

	resp, data = do(t, http.MethodGet, srv.URL+"/v1/runs/"+runID+"/trees/A?format=dot", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("tree status = %d: %s", resp.StatusCode, data)
	}
	if !strings.Contains(string(data), "digraph") || !strings.Contains(string(data), `"B"`) {
		t.Errorf("dot = %s", data)
	}
}

func TestErrors(t *testing.T) {
	srv := newTestServer(t, Config{MaxBodyBytes: 256})
	const run = "0b4c3a6e-8c1f-4f5e-9d57-2a9f6f1f7f10"

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   string
	}{
		{"BadJSON", http.MethodPost, "/v1/layout", "{", http.StatusBadRequest, "INVALID_INPUT"},
		{"UnknownField", http.MethodPost, "/v1/layout", `{"nodes":[]}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"NoEdges", http.MethodPost, "/v1/layout", `{"edges":[]}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"EmptyChild", http.MethodPost, "/v1/layout", `{"edges":[{"child":""}]}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"NoRoot", http.MethodPost, "/v1/layout", `{"edges":[{"child":"A","parent":"B"}]}`, http.StatusBadRequest, "INVALID_GRAPH"},
		{"UnknownForcedRoot", http.MethodPost, "/v1/layout", `{"edges":[{"child":"A","parent":"B"}],"roots":["Q"]}`, http.StatusBadRequest, "INVALID_GRAPH"},
		{"BadFormat", http.MethodPost, "/v1/layout?format=pdf", layoutBody, http.StatusBadRequest, "INVALID_FORMAT"},
		{"TreeOnlyFormat", http.MethodPost, "/v1/layout?format=svg", layoutBody, http.StatusBadRequest, "INVALID_FORMAT"},
		{"TooLarge", http.MethodPost, "/v1/layout", `{"edges":[{"child":"` + strings.Repeat("x", 300) + `"}]}`, http.StatusRequestEntityTooLarge, "INVALID_INPUT"},
		{"BadRunID", http.MethodGet, "/v1/runs/nope", "", http.StatusBadRequest, "INVALID_INPUT"},
		{"UnknownRun", http.MethodGet, "/v1/runs/" + run, "", http.StatusNotFound, "NOT_FOUND"},
		{"UnknownTree", http.MethodGet, "/v1/runs/" + run + "/trees/A", "", http.StatusNotFound, "NOT_FOUND"},
		{"NoRoute", http.MethodGet, "/v2/nothing", "", http.StatusNotFound, "NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, data := do(t, tt.method, srv.URL+tt.path, tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d: %s", resp.StatusCode, tt.status, data)
			}
			if got := decodeError(t, data); got.Code != tt.code {
				t.Errorf("code = %q, want %q", got.Code, tt.code)
			}
		})
	}
}

type recordingHooks struct {
	observability.NoopServerHooks
	mu     sync.Mutex
	routes []string
}

func (h *recordingHooks) OnResponse(_ context.Context, method, route string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.routes = append(h.routes, method+" "+route)
}

func TestServerHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetServerHooks(hooks)
	t.Cleanup(observability.Reset)

	srv := newTestServer(t, Config{})
	do(t, http.MethodGet, srv.URL+"/healthz", "")
	do(t, http.MethodGet, srv.URL+"/v1/runs/nope", "")

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	want := []string{"GET /healthz", "GET /v1/runs/{runID}"}
	if !slices.Equal(hooks.routes, want) {
		t.Errorf("routes = %v, want %v", hooks.routes, want)
	}
}
