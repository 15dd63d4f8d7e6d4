package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func fastClient(url string) *OllamaClient {
	c := NewOllamaClient(url, "career-guru")
	c.backoffBase = time.Millisecond
	c.backoffCap = 2 * time.Millisecond
	return c
}

func TestChatCompleteSingleResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("path = %q, want /api/chat", r.URL.Path)
		}
		fmt.Fprint(w, `{"message":{"role":"assistant","content":"hello there"},"done":true}`)
	}))
	defer ts.Close()

	reply, err := fastClient(ts.URL).ChatComplete(context.Background(), []Message{
		{Role: "user", Content: "hi"},
	}, nil)
	if err != nil {
		t.Fatalf("ChatComplete() error = %v", err)
	}
	if reply != "hello there" {
		t.Fatalf("reply = %q, want %q", reply, "hello there")
	}
}

func TestChatCompleteStreaming(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintln(w, `{"message":{"role":"assistant","content":"hel"},"done":false}`)
		fmt.Fprintln(w, `{"message":{"role":"assistant","content":"lo"},"done":false}`)
		fmt.Fprintln(w, `{"message":{"role":"assistant","content":""},"done":true}`)
	}))
	defer ts.Close()

	var deltas []string
	reply, err := fastClient(ts.URL).ChatComplete(context.Background(), []Message{
		{Role: "user", Content: "hi"},
	}, func(d string) error {
		deltas = append(deltas, d)
		return nil
	})
	if err != nil {
		t.Fatalf("ChatComplete() error = %v", err)
	}
	if reply != "hello" {
		t.Fatalf("reply = %q, want %q", reply, "hello")
	}
	if len(deltas) != 2 || deltas[0] != "hel" || deltas[1] != "lo" {
		t.Fatalf("deltas = %v, want [hel lo]", deltas)
	}
}

func TestChatCompleteRetriesRetryableStatus(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, `{"message":{"role":"assistant","content":"recovered"},"done":true}`)
	}))
	defer ts.Close()

	reply, err := fastClient(ts.URL).ChatComplete(context.Background(), []Message{
		{Role: "user", Content: "hi"},
	}, nil)
	if err != nil {
		t.Fatalf("ChatComplete() error = %v", err)
	}
	if reply != "recovered" {
		t.Fatalf("reply = %q, want %q", reply, "recovered")
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("backend calls = %d, want 2", got)
	}
}

func TestChatCompleteBadRequestIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer ts.Close()

	_, err := fastClient(ts.URL).ChatComplete(context.Background(), nil, nil)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("error = %v, want ErrUnavailable", err)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("backend calls = %d, want 1", got)
	}
}

func TestChatCompleteEmptyReply(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"message":{"role":"assistant","content":"  "},"done":true}`)
	}))
	defer ts.Close()

	_, err := fastClient(ts.URL).ChatComplete(context.Background(), nil, nil)
	if !errors.Is(err, ErrBadResponse) {
		t.Fatalf("error = %v, want ErrBadResponse", err)
	}
}

func TestChatCompleteTransportFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	ts.Close()

	_, err := fastClient(ts.URL).ChatComplete(context.Background(), nil, nil)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("error = %v, want ErrUnavailable", err)
	}
}

func TestNewClientModes(t *testing.T) {
	if _, err := NewClient(Config{Mode: "ollama"}); err == nil {
		t.Fatalf("ollama mode without base URL must fail")
	}
	c, err := NewClient(Config{Mode: "auto"})
	if err != nil {
		t.Fatalf("NewClient(auto) error = %v", err)
	}
	if _, ok := c.(*MockClient); !ok {
		t.Fatalf("auto without base URL should resolve to mock, got %T", c)
	}
	c, err = NewClient(Config{Mode: "auto", BaseURL: "http://127.0.0.1:11434", Model: "career-guru"})
	if err != nil {
		t.Fatalf("NewClient(auto+url) error = %v", err)
	}
	if _, ok := c.(*OllamaClient); !ok {
		t.Fatalf("auto with base URL should resolve to ollama, got %T", c)
	}
	if _, err := NewClient(Config{Mode: "bogus"}); err == nil {
		t.Fatalf("unknown mode must fail")
	}
}
