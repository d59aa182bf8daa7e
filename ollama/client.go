// Package ollama talks to a local (or remote) Ollama daemon for the local
// AI panel: detecting and installing it, and running non-streaming
// generate calls.
package ollama

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"

	"github.com/yllada/ai-wrapper/common"
)

// Status is the result of probing for the ollama binary.
type Status struct {
	Installed bool
}

// InstallResult reports how the install script went.
type InstallResult struct {
	Success bool
	Error   string
}

// ChatRequest is one prompt for one model.
type ChatRequest struct {
	Model   string
	Message string
}

// ChatResponse carries either the model's answer or an error message.
type ChatResponse struct {
	Response string
	Error    string
}

// Failed reports whether the call produced an error instead of an answer.
func (r ChatResponse) Failed() bool {
	return r.Error != ""
}

// CommandRunner runs a command and returns its combined output.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Options configure a Client. Zero values take defaults.
type Options struct {
	Endpoint          string
	DefaultModel      string
	Timeout           time.Duration
	RequestsPerSecond float64
	// Token, when set, is sent as a bearer token.
	Token string

	LookPath func(file string) (string, error)
	Run      CommandRunner
}

// Client wraps resty with retries and rate limiting.
type Client struct {
	mu       sync.RWMutex
	resty    *resty.Client
	limiter  *rate.Limiter
	model    string
	token    string
	lookPath func(string) (string, error)
	run      CommandRunner
	log      common.Logger
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

type apiError struct {
	Error string `json:"error"`
}

// NewClient builds a client for opts.Endpoint.
func NewClient(opts Options) *Client {
	if opts.Endpoint == "" {
		opts.Endpoint = common.DefaultOllamaEndpoint
	}
	if opts.DefaultModel == "" {
		opts.DefaultModel = common.DefaultOllamaModel
	}
	if opts.Timeout <= 0 {
		opts.Timeout = common.ChatTimeout
	}
	if opts.LookPath == nil {
		opts.LookPath = exec.LookPath
	}
	if opts.Run == nil {
		opts.Run = execRunner
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 2
	retryClient.RetryWaitMin = 500 * time.Millisecond
	retryClient.RetryWaitMax = 5 * time.Second
	retryClient.Logger = nil

	restyClient := resty.New().
		SetBaseURL(strings.TrimRight(opts.Endpoint, "/")).
		SetTimeout(opts.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", common.BinaryName)
	restyClient.SetTransport(&retryablehttp.RoundTripper{Client: retryClient})

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}

	return &Client{
		resty:    restyClient,
		limiter:  rate.NewLimiter(limit, 1),
		model:    opts.DefaultModel,
		token:    opts.Token,
		lookPath: opts.LookPath,
		run:      opts.Run,
		log:      common.GetLogger().Named("ollama"),
	}
}

// SetToken replaces the bearer token. An empty token removes it.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// CheckStatus reports whether the ollama binary is on PATH.
func (c *Client) CheckStatus() Status {
	path, err := c.lookPath("ollama")
	installed := err == nil && strings.TrimSpace(path) != ""
	c.log.Debug("ollama installed: %v", installed)
	return Status{Installed: installed}
}

// Ping requests the endpoint root and returns the round-trip time. The
// ollama server answers "Ollama is running" there.
func (c *Client) Ping(ctx context.Context) (time.Duration, error) {
	r := c.resty.R()
	c.mu.RLock()
	if c.token != "" {
		r.SetAuthToken(c.token)
	}
	c.mu.RUnlock()

	start := time.Now()
	resp, err := r.SetContext(ctx).Get("/")
	if err != nil {
		return 0, fmt.Errorf("%w: %w", common.ErrOllamaRequest, err)
	}
	if resp.IsError() {
		return 0, fmt.Errorf("%w: %s", common.ErrOllamaRequest, resp.Status())
	}
	return time.Since(start), nil
}

// Install runs the official install script through sh.
func (c *Client) Install(ctx context.Context) InstallResult {
	ctx, cancel := context.WithTimeout(ctx, common.InstallTimeout)
	defer cancel()

	script := fmt.Sprintf("curl -fsSL %s | sh", common.OllamaInstallScript)
	c.log.Info("Installing ollama")
	out, err := c.run(ctx, "sh", "-c", script)
	if err != nil {
		c.log.Error("Ollama install failed: %v: %s", err, strings.TrimSpace(string(out)))
		return InstallResult{Error: err.Error()}
	}
	return InstallResult{Success: true}
}

// Chat sends req to /api/generate and waits for the whole answer.
func (c *Client) Chat(ctx context.Context, req ChatRequest) ChatResponse {
	answer, err := c.generate(ctx, req)
	if err != nil {
		c.log.Warn("Chat with %s failed: %v", req.Model, err)
		return ChatResponse{Error: err.Error()}
	}
	return ChatResponse{Response: answer}
}

func (c *Client) generate(ctx context.Context, req ChatRequest) (string, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return "", errors.New("empty message")
	}
	model := req.Model
	if model == "" {
		model = c.model
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	var result generateResponse
	var failure apiError

	r := c.resty.R()
	c.mu.RLock()
	if c.token != "" {
		r.SetAuthToken(c.token)
	}
	c.mu.RUnlock()

	resp, err := r.
		SetContext(ctx).
		SetBody(generateRequest{Model: model, Prompt: message, Stream: false}).
		SetResult(&result).
		SetError(&failure).
		Post("/api/generate")
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrOllamaRequest, err)
	}
	if resp.IsError() {
		msg := failure.Error
		if msg == "" {
			msg = http.StatusText(resp.StatusCode())
		}
		return "", fmt.Errorf("%w: %s", common.ErrOllamaRequest, msg)
	}
	return result.Response, nil
}
