package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	applogger "github.com/nanhsuwai/uni-timetable-management-system-sub000/pkg/logger"
	"github.com/nanhsuwai/uni-timetable-management-system-sub000/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	return r
}

// ── BodyLimit ──

func TestBodyLimit_JSONAndUploadTiers(t *testing.T) {
	r := newEngine(BodyLimit(16, 1024))
	r.POST("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	tests := []struct {
		name        string
		contentType string
		size        int
		want        int
	}{
		{"small json", "application/json", 10, http.StatusNoContent},
		{"large json", "application/json", 100, http.StatusRequestEntityTooLarge},
		{"upload within limit", "multipart/form-data; boundary=x", 100, http.StatusNoContent},
		{"upload over limit", "multipart/form-data; boundary=x", 2048, http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(strings.Repeat("a", tt.size)))
			req.Header.Set("Content-Type", tt.contentType)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, w.Code)
			}
		})
	}
}

// ── RequestID ──

func TestRequestID(t *testing.T) {
	var seen string
	r := newEngine(RequestID())
	r.GET("/x", func(c *gin.Context) {
		seen = applogger.RequestID(c.Request.Context())
		c.Status(http.StatusOK)
	})

	tests := []struct {
		name   string
		header string
		keep   bool
	}{
		{"valid header kept", "abc-123_DEF", true},
		{"missing header generated", "", false},
		{"log injection replaced", "abc\nlevel=error", false},
		{"too long replaced", strings.Repeat("a", 65), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			if tt.header != "" {
				req.Header.Set("X-Request-ID", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			got := w.Header().Get("X-Request-ID")
			if tt.keep && got != tt.header {
				t.Errorf("expected %q to be kept, got %q", tt.header, got)
			}
			if !tt.keep && (got == "" || got == tt.header) {
				t.Errorf("expected a generated id, got %q", got)
			}
			if seen != got {
				t.Errorf("request context id %q != response header %q", seen, got)
			}
		})
	}
}

// ── CORS / SecurityHeaders ──

func TestCORS(t *testing.T) {
	r := newEngine(CORS([]string{"http://localhost:5173/"}), SecurityHeaders())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("allowed origin not echoed: %q", got)
	}
	if w.Header().Get("Cache-Control") != "no-store" {
		t.Error("expected Cache-Control: no-store")
	}

	req = httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Errorf("preflight expected 204, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("unknown origin must not be allowed")
	}
}

func TestCORS_Wildcard(t *testing.T) {
	r := newEngine(CORS([]string{"*"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://timetable.example.edu")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://timetable.example.edu" {
		t.Errorf("wildcard should echo origin, got %q", got)
	}
}

// ── RateLimit ──

func TestRateLimit_NilClientPassesThrough(t *testing.T) {
	r := newEngine(RateLimit(nil, "entries", 1, time.Minute, zap.NewNop()))
	r.POST("/x", func(c *gin.Context) { c.Status(http.StatusCreated) })

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", nil))
		if w.Code != http.StatusCreated {
			t.Fatalf("request %d: expected 201, got %d", i, w.Code)
		}
	}
}

// ── Logger ──

func TestLogger_RecordsViolationRule(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	r := newEngine(RequestID(), Logger(zap.New(core)))
	r.POST("/timetable-entries", func(c *gin.Context) {
		response.Violation(c, 17002, "daily_subject_cap", "subject already appears 2 times on monday", nil)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/timetable-entries", nil))
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["rule"] != "daily_subject_cap" {
		t.Errorf("expected rule field, got %v", fields["rule"])
	}
	if fields["route"] != "/timetable-entries" {
		t.Errorf("expected route template, got %v", fields["route"])
	}
	if entries[0].Level != zapcore.InfoLevel {
		t.Errorf("rule rejections should log at info, got %v", entries[0].Level)
	}
}
