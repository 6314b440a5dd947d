package prediction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestClient(url, key string) *Client {
	return NewClient(Options{
		BaseURL:     url,
		APIKey:      key,
		Model:       "test/model",
		Temperature: 0.3,
		MaxTokens:   1500,
		TopP:        0.9,
		Timeout:     time.Second,
		SiteName:    "NFE Football Predictor",
		SiteURL:     "https://example.test",
	})
}

func TestCompleteSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("unexpected auth header %q", got)
		}
		if got := r.Header.Get("X-Title"); got != "NFE Football Predictor" {
			t.Errorf("unexpected title header %q", got)
		}
		if got := r.Header.Get("HTTP-Referer"); got != "https://example.test" {
			t.Errorf("unexpected referer header %q", got)
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
			return
		}
		if req.Model != "test/model" || req.Temperature != 0.3 || req.MaxTokens != 1500 || req.TopP != 0.9 {
			t.Errorf("unexpected sampling params %+v", req)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" || req.Messages[1].Role != "user" {
			t.Errorf("unexpected messages %+v", req.Messages)
			return
		}
		if req.Messages[1].Content != "who wins?" {
			t.Errorf("unexpected user content %q", req.Messages[1].Content)
		}

		fmt.Fprint(w, `{"choices":[{"message":{"content":"**Match Prediction**\nArsenal"}}]}`)
	}))
	defer srv.Close()

	text, err := newTestClient(srv.URL, "secret").Complete(context.Background(), SystemPrompt, "who wins?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(text, "**Match Prediction**") {
		t.Errorf("unexpected completion %q", text)
	}
}

func TestCompleteErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		check   func(error) bool
		message string
	}{
		{
			name:   "rate limited",
			status: http.StatusInternalServerError,
			body:   `{"error":{"message":"rate limited"}}`,
			check: func(err error) bool {
				var apiErr *APIError
				return errors.As(err, &apiErr) && apiErr.Status == 500
			},
			message: "rate limited",
		},
		{
			name:   "error without message",
			status: http.StatusBadGateway,
			body:   `<html>bad gateway</html>`,
			check: func(err error) bool {
				var apiErr *APIError
				return errors.As(err, &apiErr)
			},
			message: "Unknown error",
		},
		{
			name:   "missing choices",
			status: http.StatusOK,
			body:   `{"choices":[]}`,
			check:  func(err error) bool { return errors.Is(err, ErrMalformedResponse) },
		},
		{
			name:   "missing content",
			status: http.StatusOK,
			body:   `{"choices":[{"message":{}}]}`,
			check:  func(err error) bool { return errors.Is(err, ErrMalformedResponse) },
		},
		{
			name:   "not json",
			status: http.StatusOK,
			body:   `oops`,
			check:  func(err error) bool { return errors.Is(err, ErrMalformedResponse) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer srv.Close()

			_, err := newTestClient(srv.URL, "k").Complete(context.Background(), "s", "u")
			if err == nil {
				t.Fatal("expected error")
			}
			if !tt.check(err) {
				t.Errorf("unexpected error type: %v", err)
			}
			if tt.message != "" && !strings.Contains(err.Error(), tt.message) {
				t.Errorf("expected %q in %q", tt.message, err.Error())
			}
		})
	}
}

func TestCompleteWithoutKeyMakesNoCall(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, "").Complete(context.Background(), "s", "u")
	if !errors.Is(err, ErrNoAPIKey) {
		t.Fatalf("expected ErrNoAPIKey, got %v", err)
	}
	if called {
		t.Error("provider must not be called without a key")
	}
}
