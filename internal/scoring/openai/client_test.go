package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	goopenai "github.com/sashabaranov/go-openai"
)

type recordedRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func TestClient_NoKey(t *testing.T) {
	c := NewClient("", "model", "", time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := c.GenerateContent(ctx, "sys", "hi"); err == nil {
		t.Fatalf("expected error with missing key")
	}
}

func TestClient_Success(t *testing.T) {
	var got recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer key" {
			t.Errorf("missing bearer token")
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"choices":[{"index":0,"message":{"role":"assistant","content":" 8 Solid example. "}}]}`))
	}))
	defer srv.Close()

	c := NewClient("key", "gpt-test", srv.URL+"/", time.Second)
	out, err := c.GenerateContent(context.Background(), "be strict", "grade this")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "8 Solid example." {
		t.Fatalf("unexpected output %q", out)
	}
	if got.Model != "gpt-test" || len(got.Messages) != 2 {
		t.Fatalf("unexpected request: %+v", got)
	}
	if got.Messages[0].Role != "system" || got.Messages[1].Content != "grade this" {
		t.Fatalf("unexpected messages: %+v", got.Messages)
	}
}

func TestClient_APIErrorIsWrapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"quota","type":"insufficient_quota"}}`))
	}))
	defer srv.Close()

	c := NewClient("key", "model", srv.URL, time.Second)
	_, err := c.GenerateContent(context.Background(), "sys", "hi")
	var apiErr *goopenai.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected api error, got %v", err)
	}
	if apiErr.HTTPStatusCode != http.StatusTooManyRequests || apiErr.Message != "quota" {
		t.Fatalf("unexpected api error: %+v", apiErr)
	}
}

func TestClient_DefaultModel(t *testing.T) {
	c := NewClient("key", "", "", 0)
	if c.Model != DefaultModel {
		t.Fatalf("expected default model, got %q", c.Model)
	}
}

func TestClient_HTTPFailures(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"status_non_2xx", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(500); _, _ = w.Write([]byte("oops")) }},
		{"bad_json", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("not-json")) }},
		{"empty_choices", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(200)
			_, _ = w.Write([]byte(`{"choices":[]}`))
		}},
		{"empty_message", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(200)
			_, _ = w.Write([]byte(`{"choices":[{"index":0,"message":{"role":"assistant","content":"  "}}]}`))
		}},
		{"api_error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(200)
			_, _ = w.Write([]byte(`{"error":{"message":"quota","type":"insufficient_quota"}}`))
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()
			c := NewClient("key", "model", srv.URL, time.Second)
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if _, err := c.GenerateContent(ctx, "sys", "hi"); err == nil {
				t.Fatalf("expected error; got nil")
			}
		})
	}
}
