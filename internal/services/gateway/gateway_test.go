package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sales-assist-go/internal/pipeline"
	"github.com/sales-assist-go/internal/services/prompt"
	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
)

const stubCompletionBody = `{
	"id": "cmpl-1",
	"object": "chat.completion",
	"choices": [{
		"index": 0,
		"message": {"role": "assistant", "content": "{\"sentiment\":\"positive\"}"},
		"finish_reason": "stop"
	}]
}`

// stubUpstream serves the status sequence in order, repeating the last one,
// and counts how many requests arrived.
func stubUpstream(t *testing.T, statuses ...int) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := int(atomic.AddInt32(&calls, 1))
		status := statuses[min(n-1, len(statuses)-1)]
		if status == http.StatusOK {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, stubCompletionBody)
			return
		}
		w.WriteHeader(status)
		fmt.Fprint(w, `{"error": {"message": "upstream says no", "type": "test_error"}}`)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func newStubClient(baseURL string, maxRetries int) *Client {
	clientConfig := openai.DefaultConfig("test-key")
	clientConfig.BaseURL = baseURL + "/v1"

	log := logrus.New()
	log.SetOutput(io.Discard)

	return &Client{
		client:     openai.NewClientWithConfig(clientConfig),
		model:      "test-model",
		maxRetries: maxRetries,
		timeout:    5 * time.Second,
		backoff:    time.Millisecond,
		logger:     log,
	}
}

func TestCompleteRetriesTransientFailures(t *testing.T) {
	srv, calls := stubUpstream(t, http.StatusInternalServerError, http.StatusInternalServerError, http.StatusOK)
	c := newStubClient(srv.URL, 2)

	reply, err := c.Complete(context.Background(), "system", prompt.UserContent{Text: "hello"})
	if err != nil {
		t.Fatalf("Complete error: %v", err)
	}
	if reply != `{"sentiment":"positive"}` {
		t.Errorf("unexpected reply: %q", reply)
	}
	if *calls != 3 {
		t.Errorf("upstream saw %d requests, want 3", *calls)
	}
}

func TestCompleteExhaustsRetryBudget(t *testing.T) {
	srv, calls := stubUpstream(t, http.StatusServiceUnavailable)
	c := newStubClient(srv.URL, 2)

	_, err := c.Complete(context.Background(), "system", prompt.UserContent{Text: "hello"})
	if err == nil {
		t.Fatal("expected error after exhausted retries")
	}
	if pipeline.KindOf(err) != pipeline.KindUpstreamUnavailable {
		t.Errorf("kind = %v", pipeline.KindOf(err))
	}
	if *calls != 3 {
		t.Errorf("upstream saw %d requests, want maxRetries+1 = 3", *calls)
	}
}

func TestCompleteDoesNotRetryFinalStatuses(t *testing.T) {
	cases := []struct {
		status int
		want   pipeline.Kind
	}{
		{http.StatusTooManyRequests, pipeline.KindRateLimited},
		{http.StatusPaymentRequired, pipeline.KindBillingBlocked},
		{http.StatusUnauthorized, pipeline.KindUpstreamUnavailable},
	}

	for _, tc := range cases {
		srv, calls := stubUpstream(t, tc.status)
		c := newStubClient(srv.URL, 2)

		_, err := c.Complete(context.Background(), "system", prompt.UserContent{Text: "hello"})
		if err == nil {
			t.Fatalf("status %d: expected error", tc.status)
		}
		if got := pipeline.KindOf(err); got != tc.want {
			t.Errorf("status %d: kind = %v, want %v", tc.status, got, tc.want)
		}
		if *calls != 1 {
			t.Errorf("status %d: upstream saw %d requests, want exactly 1", tc.status, *calls)
		}
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		status int
		want   pipeline.Kind
	}{
		{429, pipeline.KindRateLimited},
		{402, pipeline.KindBillingBlocked},
		{500, pipeline.KindUpstreamUnavailable},
		{503, pipeline.KindUpstreamUnavailable},
		{401, pipeline.KindUpstreamUnavailable},
	}

	for _, tc := range cases {
		err := classify(&openai.APIError{HTTPStatusCode: tc.status})
		if got := pipeline.KindOf(err); got != tc.want {
			t.Errorf("status %d classified as %v, want %v", tc.status, got, tc.want)
		}
	}

	// Responses whose error body did not parse still carry their status.
	err := classify(&openai.RequestError{HTTPStatusCode: 429, Err: errors.New("bad body")})
	if pipeline.KindOf(err) != pipeline.KindRateLimited {
		t.Errorf("unparsed 429 classified as %v", pipeline.KindOf(err))
	}

	// Network failures are unavailability too.
	err = classify(errors.New("connection refused"))
	if pipeline.KindOf(err) != pipeline.KindUpstreamUnavailable {
		t.Errorf("network error classified as %v", pipeline.KindOf(err))
	}
}

func TestRetryable(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{classify(&openai.APIError{HTTPStatusCode: 500}), true},
		{classify(&openai.APIError{HTTPStatusCode: 503}), true},
		{classify(&openai.APIError{HTTPStatusCode: 429}), false},
		{classify(&openai.APIError{HTTPStatusCode: 402}), false},
		{classify(&openai.APIError{HTTPStatusCode: 401}), false},
		{classify(&openai.APIError{HTTPStatusCode: 400}), false},
		{classify(errors.New("connection refused")), true},
	}

	for _, tc := range cases {
		if got := retryable(tc.err); got != tc.want {
			t.Errorf("retryable(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}

func TestUserMessageTextOnly(t *testing.T) {
	msg := userMessage(prompt.UserContent{Text: "hello"})
	if msg.Content != "hello" || msg.MultiContent != nil {
		t.Errorf("unexpected message: %+v", msg)
	}
	if msg.Role != openai.ChatMessageRoleUser {
		t.Errorf("unexpected role: %q", msg.Role)
	}
}

func TestUserMessageWithImage(t *testing.T) {
	msg := userMessage(prompt.UserContent{Text: "look at this", Image: "data:image/png;base64,AAAA"})
	if msg.Content != "" {
		t.Error("multi-part messages must not also set Content")
	}
	if len(msg.MultiContent) != 2 {
		t.Fatalf("expected 2 parts, got %d", len(msg.MultiContent))
	}
	if msg.MultiContent[0].Type != openai.ChatMessagePartTypeText || msg.MultiContent[0].Text != "look at this" {
		t.Errorf("unexpected text part: %+v", msg.MultiContent[0])
	}
	if msg.MultiContent[1].Type != openai.ChatMessagePartTypeImageURL || msg.MultiContent[1].ImageURL.URL != "data:image/png;base64,AAAA" {
		t.Errorf("unexpected image part: %+v", msg.MultiContent[1])
	}
}
