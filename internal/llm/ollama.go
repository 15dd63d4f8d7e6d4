package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shreyasggowda/career-nexus/internal/reliability"
)

// OllamaClient talks to an Ollama-compatible chat endpoint.
type OllamaClient struct {
	baseURL     string
	model       string
	client      *http.Client
	maxAttempts int
	backoffBase time.Duration
	backoffCap  time.Duration
}

func NewOllamaClient(baseURL, model string) *OllamaClient {
	return &OllamaClient{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		model:   model,
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
		maxAttempts: 3,
		backoffBase: 250 * time.Millisecond,
		backoffCap:  2 * time.Second,
	}
}

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
}

type chatResponse struct {
	Message Message `json:"message"`
	Done    bool    `json:"done"`
	Error   string  `json:"error,omitempty"`
}

func (c *OllamaClient) ChatComplete(ctx context.Context, msgs []Message, onDelta DeltaHandler) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model:    c.model,
		Messages: msgs,
		Stream:   onDelta != nil,
	})
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	for attempt := 0; ; attempt++ {
		reply, retryable, err := c.do(ctx, payload, onDelta)
		if err == nil {
			return reply, nil
		}
		if !retryable || attempt >= c.maxAttempts-1 {
			return "", err
		}
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %v", ErrUnavailable, ctx.Err())
		case <-time.After(reliability.ExponentialBackoff(attempt, c.backoffBase, c.backoffCap)):
		}
	}
}

func (c *OllamaClient) do(ctx context.Context, payload []byte, onDelta DeltaHandler) (string, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return "", false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		retryable := ctx.Err() == nil
		return "", retryable, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		err := fmt.Errorf("%w: status %d: %s", ErrUnavailable, res.StatusCode, strings.TrimSpace(string(body)))
		return "", reliability.IsRetryableHTTPStatus(res.StatusCode), err
	}

	if onDelta != nil {
		reply, err := consumeStream(res.Body, onDelta)
		return reply, false, err
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", true, fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}

	var obj chatResponse
	if err := json.Unmarshal(body, &obj); err != nil {
		return "", false, fmt.Errorf("%w: decode: %v", ErrBadResponse, err)
	}
	if obj.Error != "" {
		return "", false, fmt.Errorf("%w: backend error: %s", ErrUnavailable, obj.Error)
	}
	content := strings.TrimSpace(obj.Message.Content)
	if content == "" {
		return "", false, fmt.Errorf("%w: reply field missing or empty", ErrBadResponse)
	}
	return content, false, nil
}

func consumeStream(body io.Reader, onDelta DeltaHandler) (string, error) {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var out strings.Builder
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var obj chatResponse
		if err := json.Unmarshal([]byte(line), &obj); err != nil {
			return "", fmt.Errorf("%w: decode stream line: %v", ErrBadResponse, err)
		}
		if obj.Error != "" {
			return "", fmt.Errorf("%w: backend error: %s", ErrUnavailable, obj.Error)
		}

		if obj.Message.Content != "" {
			out.WriteString(obj.Message.Content)
			if err := onDelta(obj.Message.Content); err != nil {
				return "", err
			}
		}
		if obj.Done {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("%w: stream read: %v", ErrUnavailable, err)
	}

	reply := strings.TrimSpace(out.String())
	if reply == "" {
		return "", fmt.Errorf("%w: empty streamed reply", ErrBadResponse)
	}
	return reply, nil
}
