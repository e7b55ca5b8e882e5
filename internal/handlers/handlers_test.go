package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"media-preview/internal/pipeline"
	"media-preview/internal/workers"

	"github.com/gorilla/mux"
)

type mockProcessor struct {
	mu     sync.Mutex
	result *pipeline.Result
	err    error
	jobs   []pipeline.Job
	block  chan struct{}
}

func (m *mockProcessor) Process(ctx context.Context, job pipeline.Job) (*pipeline.Result, error) {
	m.mu.Lock()
	m.jobs = append(m.jobs, job)
	block := m.block
	m.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return m.result, m.err
}

func newRouter(h *Handlers) *mux.Router {
	router := mux.NewRouter()
	h.Register(router, true)
	return router
}

func sourceFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "a.jpg")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func postJob(router http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/process", strings.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestProcessSuccess(t *testing.T) {
	pano := true
	proc := &mockProcessor{result: &pipeline.Result{Width: 4000, Height: 2000, Color: "AAAA", Pano: &pano}}
	router := newRouter(New(proc, workers.NewSlots(1, nil), nil))
	input := sourceFile(t)

	rr := postJob(router, `{"input_file":"`+input+`","output_file":"/out/a","orientation":6}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}

	var got map[string]interface{}
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got["width"] != float64(4000) || got["pano"] != true {
		t.Errorf("response = %v", got)
	}
	if _, ok := got["duration"]; ok {
		t.Error("duration must be omitted for images")
	}
	if len(proc.jobs) != 1 || proc.jobs[0].Orientation != 6 || proc.jobs[0].OutputFile != "/out/a" {
		t.Errorf("processor received %+v", proc.jobs)
	}
}

func TestProcessBadRequests(t *testing.T) {
	proc := &mockProcessor{}
	router := newRouter(New(proc, workers.NewSlots(1, nil), nil))
	input := sourceFile(t)

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"input_file":`},
		{"wrong type", `{"input_file": 5}`},
		{"missing output", `{"input_file":"` + input + `"}`},
		{"missing input file", `{"input_file":"/nope/x.jpg","output_file":"/out/x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := postJob(router, tt.body)
			if rr.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rr.Code)
			}
			if !strings.Contains(rr.Body.String(), `"error"`) {
				t.Errorf("body = %s, want error field", rr.Body.String())
			}
		})
	}
	if len(proc.jobs) != 0 {
		t.Errorf("processor ran for invalid jobs: %+v", proc.jobs)
	}
}

func TestProcessFailure(t *testing.T) {
	proc := &mockProcessor{err: errors.New("decode failed: not an image")}
	router := newRouter(New(proc, workers.NewSlots(1, nil), nil))

	rr := postJob(router, `{"input_file":"`+sourceFile(t)+`","output_file":"/out/a"}`)
	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "not an image") {
		t.Errorf("body = %s", rr.Body.String())
	}
}

func TestProcessWaitsForSlot(t *testing.T) {
	proc := &mockProcessor{result: &pipeline.Result{}, block: make(chan struct{})}
	h := New(proc, workers.NewSlots(1, nil), nil)
	router := newRouter(h)
	body := `{"input_file":"` + sourceFile(t) + `","output_file":"/out/a"}`

	first := make(chan int, 1)
	go func() { first <- postJob(router, body).Code }()

	deadline := time.Now().Add(time.Second)
	for h.slots.InUse() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	// The second request gives up while the only slot is held
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodPost, "/api/process", strings.NewReader(body)).WithContext(ctx)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("second request status = %d, want 503", rr.Code)
	}

	close(proc.block)
	if code := <-first; code != http.StatusOK {
		t.Errorf("first request status = %d, want 200", code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	router := newRouter(New(&mockProcessor{}, workers.NewSlots(1, nil), nil))

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/api/process", http.StatusMethodNotAllowed},
		{http.MethodPut, "/api/process", http.StatusMethodNotAllowed},
		{http.MethodPost, "/api/version", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/unknown", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)
			if rr.Code != tt.want {
				t.Errorf("status = %d, want %d", rr.Code, tt.want)
			}
		})
	}
}

func TestLivenessCheck(t *testing.T) {
	router := newRouter(New(&mockProcessor{}, workers.NewSlots(1, nil), nil))

	for _, method := range []string{http.MethodGet, http.MethodHead} {
		req := httptest.NewRequest(method, "/healthz", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("%s status = %d, want 200", method, rr.Code)
		}
		if method == http.MethodHead && rr.Body.Len() != 0 {
			t.Error("HEAD response has a body")
		}
	}
}

func TestReadinessCheck(t *testing.T) {
	tests := []struct {
		name       string
		checks     map[string]Check
		wantStatus int
		wantState  string
	}{
		{"no checks", nil, http.StatusOK, statusReady},
		{"all pass", map[string]Check{"ffmpeg": func() error { return nil }, "kubi": func() error { return nil }}, http.StatusOK, statusReady},
		{"kubi missing", map[string]Check{"ffmpeg": func() error { return nil }, "kubi": func() error { return errors.New("kubi not found in PATH") }}, http.StatusServiceUnavailable, statusNotReady},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newRouter(New(&mockProcessor{}, workers.NewSlots(2, nil), tt.checks))
			req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
			var resp ReadinessResponse
			if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if resp.Status != tt.wantState || resp.SlotsTotal != 2 {
				t.Errorf("response = %+v", resp)
			}
			if len(resp.Checks) != len(tt.checks) {
				t.Errorf("checks = %v", resp.Checks)
			}
		})
	}
}

type memoryStub struct {
	usage  float64
	paused bool
}

func (m memoryStub) Usage() float64 { return m.usage }
func (m memoryStub) Paused() bool { return m.paused }

func TestReadinessReportsMemory(t *testing.T) {
	h := New(&mockProcessor{}, workers.NewSlots(1, nil), nil).WithMemory(memoryStub{usage: 0.42, paused: true})
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rr := httptest.NewRecorder()
	newRouter(h).ServeHTTP(rr, req)

	var resp ReadinessResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.MemoryUsage != 0.42 || !resp.MemoryPaused {
		t.Errorf("memory = %v paused=%v, want 0.42 paused=true", resp.MemoryUsage, resp.MemoryPaused)
	}
}

func TestGetVersion(t *testing.T) {
	router := newRouter(New(&mockProcessor{}, workers.NewSlots(1, nil), nil))
	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var info map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &info); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if info["version"] == "" || info["goVersion"] == "" {
		t.Errorf("build info = %v", info)
	}
	if rr.Header().Get("Cache-Control") != "no-cache" {
		t.Error("missing Cache-Control header")
	}
}

func TestMetricsRoute(t *testing.T) {
	h := New(&mockProcessor{}, workers.NewSlots(1, nil), nil)

	with := mux.NewRouter()
	h.Register(with, true)
	rr := httptest.NewRecorder()
	with.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Errorf("metrics enabled: status = %d, want 200", rr.Code)
	}

	without := mux.NewRouter()
	h.Register(without, false)
	rr = httptest.NewRecorder()
	without.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusNotFound {
		t.Errorf("metrics disabled: status = %d, want 404", rr.Code)
	}
}
