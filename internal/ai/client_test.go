package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient("sk-test", slog.Default())
	if c.baseURL != "https://api.openai.com/v1" {
		t.Errorf("baseURL = %q, want default", c.baseURL)
	}
	if c.model != "gpt-4o-mini" {
		t.Errorf("model = %q, want gpt-4o-mini", c.model)
	}
}

func TestGenerate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q, want /chat/completions", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if req.Model != "gpt-test" {
			t.Errorf("model = %q, want gpt-test", req.Model)
		}
		if req.Store {
			t.Error("store = true, want false")
		}
		if len(req.Messages) != 1 || req.Messages[0].Role != "user" || req.Messages[0].Content != "hello" {
			t.Errorf("messages = %+v", req.Messages)
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":"hi there"}}]}`)
	}))
	defer server.Close()

	c := NewClient("sk-test", slog.Default(), WithBaseURL(server.URL+"/"), WithModel("gpt-test"))

	text, err := c.Generate(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if text != "hi there" {
		t.Errorf("Generate = %q, want %q", text, "hi there")
	}
}

func TestGenerate_StatusErrors(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, ErrUpstreamUnauthorized},
		{http.StatusForbidden, ErrUpstreamUnauthorized},
		{http.StatusTooManyRequests, ErrUpstreamRateLimited},
		{http.StatusBadGateway, ErrUpstreamServer},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			c := NewClient("sk-test", slog.Default(), WithBaseURL(server.URL))
			_, err := c.Generate(context.Background(), "hello")
			if !errors.Is(err, tt.want) {
				t.Errorf("Generate error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestGenerate_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices":[]}`)
	}))
	defer server.Close()

	c := NewClient("sk-test", slog.Default(), WithBaseURL(server.URL))
	_, err := c.Generate(context.Background(), "hello")
	if !errors.Is(err, ErrUpstreamInvalidResponse) {
		t.Errorf("Generate error = %v, want ErrUpstreamInvalidResponse", err)
	}
}

func TestGenerate_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `not json`)
	}))
	defer server.Close()

	c := NewClient("sk-test", slog.Default(), WithBaseURL(server.URL))
	_, err := c.Generate(context.Background(), "hello")
	if !errors.Is(err, ErrUpstreamInvalidResponse) {
		t.Errorf("Generate error = %v, want ErrUpstreamInvalidResponse", err)
	}
}

func TestGenerate_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	c := NewClient("sk-test", slog.Default(), WithBaseURL(server.URL), WithTimeout(20*time.Millisecond))
	_, err := c.Generate(context.Background(), "hello")
	if !errors.Is(err, ErrUpstreamNetwork) {
		t.Errorf("Generate error = %v, want ErrUpstreamNetwork", err)
	}
}
