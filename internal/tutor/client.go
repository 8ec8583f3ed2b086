// Tutor chat-completion client.
//
// Built on the OpenAI-compatible wire format (Groq hosts one), so the
// request is {model, messages, temperature, max_tokens} and the reply is
// read from choices[0].message.content. The sampling temperature and
// response length cap are fixed configuration constants, not computed.
package tutor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	openai "github.com/sashabaranov/go-openai"

	"github.com/speakeng/go-tutor-backend/internal/domain"
)

const (
	// DefaultBaseURL targets Groq's OpenAI-compatible API.
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	// DefaultModel is the hosted model used for tutoring replies.
	DefaultModel = "llama-3.1-8b-instant"

	// historyWindow bounds the conversation context sent upstream: at most
	// this many prior messages (oldest first) plus the new user message.
	historyWindow = 10

	temperature = 0.7
	maxTokens   = 500

	// fallbackReply is used when the endpoint returns an empty choice list.
	fallbackReply = "I apologize, I couldn't generate a response."
)

// ErrMissingCredential is returned before any network call when the client
// was constructed without an API key.
var ErrMissingCredential = errors.New("tutor: missing API credential")

// ServiceError is a non-success response from the chat-completion
// endpoint, carrying the upstream status and body text.
type ServiceError struct {
	Status int
	Body   string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("tutor service error: status %d: %s", e.Status, e.Body)
}

// Reply is the parsed result of one tutor turn.
type Reply struct {
	Message    string
	Correction *domain.GrammarCorrection
}

// Config parameterizes a Client. Zero values fall back to the Groq
// defaults; Timeout bounds each request (the original web client had none,
// which let a hanging request hang the turn indefinitely).
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Client sends bounded conversation windows to the external endpoint. It
// is stateless apart from its configuration and safe for concurrent use;
// it never persists anything itself.
type Client struct {
	api     *openai.Client
	model   string
	timeout time.Duration
	hasKey  bool
}

var (
	tutorRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tutor_requests_total",
			Help: "Total chat-completion requests by outcome.",
		},
		[]string{"outcome"}, // ok | error
	)
	tutorLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tutor_request_duration_seconds",
			Help:    "Latency of chat-completion requests.",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(tutorRequests, tutorLatency)
}

// New constructs a Client for the configured endpoint.
func New(cfg Config) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	oc := openai.DefaultConfig(cfg.APIKey)
	oc.BaseURL = base

	return &Client{
		api:     openai.NewClientWithConfig(oc),
		model:   model,
		timeout: timeout,
		hasKey:  strings.TrimSpace(cfg.APIKey) != "",
	}
}

// SendMessage sends userText with a bounded window of prior history under
// the given conversation mode and returns the tutor's reply plus an
// optional extracted correction.
//
// Failure modes:
//   - ErrMissingCredential when no API key was configured (no network call)
//   - *ServiceError on a non-2xx upstream response or transport failure
func (c *Client) SendMessage(ctx context.Context, userText string, history []domain.Message, modeID string) (*Reply, error) {
	if !c.hasKey {
		return nil, ErrMissingCredential
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    buildWindow(userText, history, GetMode(modeID)),
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}

	start := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, req)
	tutorLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		tutorRequests.WithLabelValues("error").Inc()
		return nil, asServiceError(err)
	}
	tutorRequests.WithLabelValues("ok").Inc()

	text := fallbackReply
	if len(resp.Choices) > 0 && resp.Choices[0].Message.Content != "" {
		text = resp.Choices[0].Message.Content
	}

	reply := &Reply{Message: text}
	if corr, ok := ExtractCorrection(text); ok {
		reply.Correction = corr
	}
	return reply, nil
}

// buildWindow assembles the ordered role/content list: the mode's system
// instruction, at most historyWindow prior non-system messages (oldest
// first), then the new user message.
func buildWindow(userText string, history []domain.Message, mode Mode) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, historyWindow+2)
	out = append(out, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt(mode),
	})

	recent := make([]domain.Message, 0, len(history))
	for _, m := range history {
		if m.Role == domain.RoleSystem {
			continue
		}
		recent = append(recent, m)
	}
	if len(recent) > historyWindow {
		recent = recent[len(recent)-historyWindow:]
	}
	for _, m := range recent {
		out = append(out, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	out = append(out, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userText,
	})
	return out
}

// systemPrompt concatenates the base persona with the mode profile.
func systemPrompt(mode Mode) string {
	var b strings.Builder
	b.WriteString(BasePrompt)
	b.WriteString("\n\nCurrent conversation mode: ")
	b.WriteString(mode.Name)
	b.WriteString("\n")
	b.WriteString(mode.SystemPrompt)
	return b.String()
}

// asServiceError normalizes go-openai failures into *ServiceError.
func asServiceError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &ServiceError{Status: apiErr.HTTPStatusCode, Body: apiErr.Message}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &ServiceError{Status: reqErr.HTTPStatusCode, Body: reqErr.Error()}
	}
	// Transport-level failure (DNS, timeout, connection reset).
	return &ServiceError{Status: 0, Body: err.Error()}
}
