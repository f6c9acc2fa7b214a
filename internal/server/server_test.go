package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/agbru/seqtable/internal/config"
	apperrors "github.com/agbru/seqtable/internal/errors"
	"github.com/agbru/seqtable/internal/logging"
	"github.com/agbru/seqtable/internal/sequence"
)

// mockService is a hand-written service.Service returning canned results.
type mockService struct {
	body      []byte
	err       error
	sequences []string

	gotSelection string
	gotN         int
	gotDeadline  bool
}

func (m *mockService) Render(ctx context.Context, selection string, n int) ([]byte, error) {
	m.gotSelection = selection
	m.gotN = n
	_, m.gotDeadline = ctx.Deadline()
	return m.body, m.err
}

func (m *mockService) Sequences() []string { return m.sequences }

// createTestServer initializes a server instance for testing with the
// default registry and a silent logger.
func createTestServer(opts ...Option) *Server {
	cfg := config.AppConfig{
		Port:        "8080",
		MaxN:        1000,
		Concurrency: 2,
	}
	opts = append([]Option{WithLogger(logging.NewNopLogger())}, opts...)
	return NewServer(sequence.DefaultRegistry(), cfg, opts...)
}

func decodeError(t *testing.T, body io.Reader) ErrorResponse {
	t.Helper()
	var errResp ErrorResponse
	if err := json.NewDecoder(body).Decode(&errResp); err != nil {
		t.Fatalf("Failed to unmarshal error response: %v", err)
	}
	return errResp
}

// TestHandleTable verifies the table endpoint against the real service.
func TestHandleTable(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "Fibonacci",
			query:          "?seq=fibonacci&n=4",
			expectedStatus: http.StatusOK,
			expectedBody:   "# fibonacci up to 4\n| n | fib(n) |\n|---|--:|\n| 1 | 0 |\n| 2 | 1 |\n| 3 | 1 |\n| 4 | 2 |\n",
		},
		{
			name:           "Factorial alias",
			query:          "?seq=FACT&n=3",
			expectedStatus: http.StatusOK,
			expectedBody:   "# factorial up to 3\n| n | n! |\n|---|--:|\n| 1 | 1 |\n| 2 | 2 |\n| 3 | 6 |\n",
		},
		{
			name:           "Default sequence",
			query:          "?n=0",
			expectedStatus: http.StatusOK,
			expectedBody:   "# fibonacci up to 0\n| n | fib(n) |\n|---|--:|\n",
		},
		{
			name:           "Missing n",
			query:          "?seq=fib",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "Missing 'n' parameter",
		},
		{
			name:           "Invalid n",
			query:          "?n=abc",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "must be a non-negative integer",
		},
		{
			name:           "Negative n",
			query:          "?n=-3",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "must be a non-negative integer",
		},
		{
			name:           "n above maximum",
			query:          "?n=1001",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "exceeds maximum allowed (1000)",
		},
		{
			name:           "Unknown sequence",
			query:          "?seq=primes&n=3",
			expectedStatus: http.StatusNotFound,
			expectedBody:   "unknown sequence",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := createTestServer()

			req := httptest.NewRequest(http.MethodGet, "/table"+tt.query, http.NoBody)
			w := httptest.NewRecorder()
			server.handleTable(w, req)

			resp := w.Result()
			defer resp.Body.Close()

			if resp.StatusCode != tt.expectedStatus {
				t.Fatalf("Expected status %d, got %d", tt.expectedStatus, resp.StatusCode)
			}

			if tt.expectedStatus == http.StatusOK {
				if ct := resp.Header.Get("Content-Type"); ct != MarkdownContentType {
					t.Errorf("Expected content type %q, got %q", MarkdownContentType, ct)
				}
				body, _ := io.ReadAll(resp.Body)
				if string(body) != tt.expectedBody {
					t.Errorf("Body mismatch.\nWant:\n%s\nGot:\n%s", tt.expectedBody, body)
				}
				return
			}

			errResp := decodeError(t, resp.Body)
			if !strings.Contains(errResp.Message, tt.expectedBody) {
				t.Errorf("Expected error message to contain %q, got %q", tt.expectedBody, errResp.Message)
			}
			if errResp.Error != http.StatusText(tt.expectedStatus) {
				t.Errorf("Expected error %q, got %q", http.StatusText(tt.expectedStatus), errResp.Error)
			}
		})
	}
}

// TestHandleTable_ServiceErrors maps service failures to status codes.
func TestHandleTable_ServiceErrors(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout},
		{"wrapped deadline", apperrors.NewGenerationError("factorial", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{"client gone", apperrors.NewGenerationError("factorial", context.Canceled), StatusClientClosedRequest},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{err: tt.err}
			server := createTestServer(WithService(svc))

			req := httptest.NewRequest(http.MethodGet, "/table?n=5&seq=fact", http.NoBody)
			w := httptest.NewRecorder()
			server.handleTable(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if svc.gotSelection != "fact" || svc.gotN != 5 {
				t.Errorf("service called with (%q, %d)", svc.gotSelection, svc.gotN)
			}
			if !svc.gotDeadline {
				t.Error("service context should carry the request timeout")
			}
		})
	}
}

// TestHandleHealth verifies the health check endpoint.
func TestHandleHealth(t *testing.T) {
	server := createTestServer()

	req := httptest.NewRequest(http.MethodGet, "/health", http.NoBody)
	w := httptest.NewRecorder()
	server.handleHealth(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("Expected status 'healthy', got %v", body["status"])
	}
}

// TestHandleSequences verifies the sequence listing.
func TestHandleSequences(t *testing.T) {
	server := createTestServer()

	req := httptest.NewRequest(http.MethodGet, "/sequences", http.NoBody)
	w := httptest.NewRecorder()
	server.handleSequences(w, req)

	var resp SequencesResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(resp.Sequences) != 2 || resp.Sequences[0] != "factorial" || resp.Sequences[1] != "fibonacci" {
		t.Errorf("Unexpected sequences: %v", resp.Sequences)
	}
}

// TestMethodNotAllowed verifies that non-GET requests are rejected.
func TestMethodNotAllowed(t *testing.T) {
	server := createTestServer()

	handlers := map[string]http.HandlerFunc{
		"/table":     server.handleTable,
		"/sequences": server.handleSequences,
		"/health":    server.handleHealth,
		"/metrics":   server.handleMetrics,
	}

	for path, handler := range handlers {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, path, http.NoBody)
			w := httptest.NewRecorder()
			handler(w, req)
			if w.Code != http.StatusMethodNotAllowed {
				t.Errorf("Expected status 405, got %d", w.Code)
			}
		})
	}
}

// TestMetricsEndpoint checks that the request metrics are exported.
func TestMetricsEndpoint(t *testing.T) {
	server := createTestServer()
	ts := httptest.NewServer(server.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/table?n=2")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	resp, err = http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	for _, name := range []string{"seqtable_requests_total", "seqtable_active_requests", "seqtable_terms_generated_total", `seqtable_table_progress{sequence="fibonacci"}`} {
		if !bytes.Contains(body, []byte(name)) {
			t.Errorf("metrics output missing %s", name)
		}
	}
}

// TestLoggingMiddleware verifies that the logging middleware calls the next
// handler and records the status code.
func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	server := createTestServer(WithStdLogger(log.New(&buf, "", 0)))

	handlerCalled := false
	wrapped := server.loggingMiddleware(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodGet, "/test?n=1", http.NoBody)
	w := httptest.NewRecorder()
	wrapped(w, req)

	if !handlerCalled {
		t.Error("Handler was not called")
	}
	if w.Code != http.StatusTeapot {
		t.Errorf("Expected status %d, got %d", http.StatusTeapot, w.Code)
	}
	if !strings.Contains(buf.String(), "status=418") || !strings.Contains(buf.String(), "path=/test") {
		t.Errorf("Unexpected log output: %q", buf.String())
	}
}

// TestParseTableParams covers query parsing.
func TestParseTableParams(t *testing.T) {
	tests := []struct {
		query   string
		wantSeq string
		wantN   int
		wantErr bool
	}{
		{"?n=10", "fibonacci", 10, false},
		{"?n=0&seq=all", "all", 0, false},
		{"?n=7&seq=%20Factorial%20", "factorial", 7, false},
		{"", "", 0, true},
		{"?n=", "", 0, true},
		{"?n=1.5", "", 0, true},
		{"?n=-1", "", 0, true},
		{"?n=99999999999999999999", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/table"+tt.query, http.NoBody)
			seq, n, err := parseTableParams(req)
			if tt.wantErr {
				var parseErr TableParseError
				if !errors.As(err, &parseErr) || parseErr.StatusCode != http.StatusBadRequest {
					t.Errorf("expected a 400 TableParseError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if seq != tt.wantSeq || n != tt.wantN {
				t.Errorf("got (%q, %d), want (%q, %d)", seq, n, tt.wantSeq, tt.wantN)
			}
		})
	}
}

// TestWithLogger verifies that a nil logger keeps the default.
func TestWithLogger(t *testing.T) {
	server := NewServer(sequence.DefaultRegistry(), config.AppConfig{Port: "8080"}, WithLogger(nil))
	if server.logger == nil {
		t.Error("expected default logger to be kept")
	}
}

// TestWithService verifies that a custom service is used.
func TestWithService(t *testing.T) {
	svc := &mockService{}
	server := createTestServer(WithService(svc))
	if server.service != svc {
		t.Error("expected custom service to be used")
	}
}

// TestWithTimeouts verifies the WithTimeouts option.
func TestWithTimeouts(t *testing.T) {
	custom := Timeouts{
		RequestTimeout:  time.Second,
		ShutdownTimeout: 60 * time.Second,
		ReadTimeout:     2 * time.Second,
		WriteTimeout:    3 * time.Second,
		IdleTimeout:     4 * time.Second,
	}
	server := createTestServer(WithTimeouts(custom))

	if server.timeouts != custom {
		t.Errorf("expected %+v, got %+v", custom, server.timeouts)
	}
	if server.httpServer.ReadTimeout != custom.ReadTimeout || server.httpServer.WriteTimeout != custom.WriteTimeout {
		t.Error("http.Server timeouts not applied")
	}
}

// TestRun_ContextCancel verifies graceful shutdown when the context ends.
func TestRun_ContextCancel(t *testing.T) {
	cfg := config.AppConfig{Port: "0", MaxN: 10, Concurrency: 1}
	var logs bytes.Buffer
	server := NewServer(sequence.DefaultRegistry(), cfg, WithLogger(logging.NewLogger(&logs, "server")))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}

	out := logs.String()
	start := strings.Index(out, "Starting server on :0")
	stop := strings.Index(out, "Server stopped gracefully")
	if start < 0 || stop < 0 || start > stop {
		t.Errorf("expected startup banner before shutdown line, got:\n%s", out)
	}
}
