package middleware

import (
	"bufio"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/strengthclub/coaching-ai-platform/pkg/logging"
)

func TestRequestLoggerPassesThrough(t *testing.T) {
	handler := RequestLogger(logging.New("error"))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/chat/history", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusTeapot {
		t.Fatalf("expected status %d, got %d", http.StatusTeapot, rec.Code)
	}
}

// hijackableRecorder simulates a server connection that supports takeover.
type hijackableRecorder struct {
	*httptest.ResponseRecorder
	hijacked bool
}

func (h *hijackableRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h.hijacked = true
	server, _ := net.Pipe()
	return server, bufio.NewReadWriter(bufio.NewReader(server), bufio.NewWriter(server)), nil
}

// The WebSocket upgrade type-asserts the ResponseWriter to http.Hijacker, so
// the logging wrapper must keep hijacking reachable.
func TestRequestLoggerSupportsHijack(t *testing.T) {
	var _ http.Hijacker = (*statusRecorder)(nil)

	rec := &hijackableRecorder{ResponseRecorder: httptest.NewRecorder()}
	handler := RequestLogger(logging.New("error"))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hj, ok := w.(http.Hijacker)
		if !ok {
			t.Fatal("wrapped writer must expose http.Hijacker")
		}
		conn, _, err := hj.Hijack()
		if err != nil {
			t.Fatalf("hijack failed: %v", err)
		}
		_ = conn.Close()
	}))

	req := httptest.NewRequest(http.MethodGet, "/chat/ws", nil)
	handler.ServeHTTP(rec, req)

	if !rec.hijacked {
		t.Fatal("expected hijack to reach the underlying writer")
	}
}

func TestRequestLoggerHijackUnsupported(t *testing.T) {
	// httptest.ResponseRecorder does not implement http.Hijacker.
	rec := &statusRecorder{ResponseWriter: httptest.NewRecorder(), status: http.StatusOK}
	if _, _, err := rec.Hijack(); err == nil {
		t.Fatal("expected an error when the underlying writer cannot hijack")
	}
}
