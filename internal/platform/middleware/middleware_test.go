package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestID(t *testing.T) {
	t.Run("generates when absent", func(t *testing.T) {
		var captured string
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			captured = GetRequestID(r.Context())
		})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rr := httptest.NewRecorder()
		RequestID(next).ServeHTTP(rr, req)

		require.NotEmpty(t, captured)
		assert.Equal(t, captured, rr.Header().Get("X-Request-ID"))
	})

	t.Run("honors inbound header", func(t *testing.T) {
		var captured string
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			captured = GetRequestID(r.Context())
		})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "abc-123")
		rr := httptest.NewRecorder()
		RequestID(next).ServeHTTP(rr, req)

		assert.Equal(t, "abc-123", captured)
		assert.Equal(t, "abc-123", rr.Header().Get("X-Request-ID"))
	})
}

func TestRecovery(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	Recovery(logger)(next).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"ok":false,"error":"ServerError","message":"internal server error"}`, rr.Body.String())
}

func TestContentTypeJSON(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name        string
		method      string
		contentType string
		wantStatus  int
	}{
		{"json accepted", http.MethodPost, "application/json", http.StatusOK},
		{"json with charset accepted", http.MethodPost, "application/json; charset=utf-8", http.StatusOK},
		{"missing type accepted", http.MethodPost, "", http.StatusOK},
		{"plain text rejected", http.MethodPost, "text/plain", http.StatusUnsupportedMediaType},
		{"get never checked", http.MethodGet, "text/plain", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/", nil)
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rr := httptest.NewRecorder()
			ContentTypeJSON(next).ServeHTTP(rr, req)
			assert.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}

func TestClientMetadata(t *testing.T) {
	var gotIP, gotUA string
	var gotCrawler bool
	next := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		gotIP = GetClientIP(r.Context())
		gotUA = GetUserAgent(r.Context())
		gotCrawler = IsCrawler(r.Context())
	})

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	req.Header.Set("User-Agent", "Googlebot/2.1 (+http://www.google.com/bot.html)")
	ClientMetadata(next).ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "203.0.113.7", gotIP)
	assert.Contains(t, gotUA, "Googlebot")
	assert.True(t, gotCrawler)
}

func TestClientIPFromRequest(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*http.Request)
		want  string
	}{
		{
			name:  "x-forwarded-for single",
			setup: func(r *http.Request) { r.Header.Set("X-Forwarded-For", "203.0.113.7") },
			want:  "203.0.113.7",
		},
		{
			name:  "x-forwarded-for chain takes first",
			setup: func(r *http.Request) { r.Header.Set("X-Forwarded-For", "203.0.113.7, 198.51.100.2") },
			want:  "203.0.113.7",
		},
		{
			name:  "x-real-ip",
			setup: func(r *http.Request) { r.Header.Set("X-Real-IP", "198.51.100.2") },
			want:  "198.51.100.2",
		},
		{
			name:  "remote addr fallback",
			setup: func(*http.Request) {},
			want:  "10.0.0.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = "10.0.0.1:1234"
			tt.setup(req)
			assert.Equal(t, tt.want, ClientIPFromRequest(req))
		})
	}
}
