package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	defaultLocalTimeout     = 120 * time.Second
	defaultLocalInitTimeout = 30 * time.Second
	defaultLocalModel       = "flan-t5-base"
	localAPIKeyPlaceholder  = "local"
)

var errLocalClosed = errors.New("local client closed")

// LocalClient talks to a self-hosted, OpenAI-compatible completion server
// (Ollama, llama.cpp server, vLLM). It is the secondary backend.
//
// The client is initialized once, on first use or via Init, by checking that
// the configured model is served. The outcome is kept: a failed init is not
// retried and every later call reports it. Close releases idle connections.
type LocalClient struct {
	baseURL string
	apiKey  string
	model   openai.ChatModel
	timeout time.Duration
	log     *slog.Logger

	httpClient *http.Client
	once       sync.Once
	client     *openai.Client
	initErr    error

	mu     sync.RWMutex
	closed bool
}

// NewLocalClient prepares a local backend. No connection is made until Init
// or the first Complete.
func NewLocalClient(log *slog.Logger, baseURL, model, apiKey string, timeout time.Duration) (*LocalClient, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("local llm base url required")
	}
	if model == "" {
		model = defaultLocalModel
	}
	if apiKey == "" {
		apiKey = localAPIKeyPlaceholder
	}
	if timeout <= 0 {
		timeout = defaultLocalTimeout
	}
	return &LocalClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      openai.ChatModel(model),
		timeout:    timeout,
		log:        log,
		httpClient: &http.Client{},
	}, nil
}

func (c *LocalClient) Name() string { return "local" }

// Init loads the backend if that has not happened yet and returns the
// (possibly cached) initialization error.
func (c *LocalClient) Init(ctx context.Context) error {
	c.once.Do(func() {
		initCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), defaultLocalInitTimeout)
		defer cancel()

		cli := openai.NewClient(
			option.WithBaseURL(c.baseURL),
			option.WithAPIKey(c.apiKey),
			option.WithHTTPClient(c.httpClient),
			option.WithMaxRetries(0),
		)
		if err := c.probe(initCtx, &cli); err != nil {
			c.initErr = fmt.Errorf("%w: load %s from %s: %v", ErrBackendInit, c.model, c.baseURL, err)
			c.log.Error("failed to initialize local model", "model", c.model, "url", c.baseURL, "err", err)
			return
		}
		c.client = &cli
		c.log.Info("local model ready", "model", c.model, "url", c.baseURL)
	})
	return c.initErr
}

// probe checks that the model is served. Servers without GET /models/{id}
// are checked against the model list instead.
func (c *LocalClient) probe(ctx context.Context, cli *openai.Client) error {
	_, getErr := cli.Models.Get(ctx, string(c.model))
	if getErr == nil {
		return nil
	}
	page, err := cli.Models.List(ctx)
	if err != nil {
		return errors.Join(getErr, err)
	}
	for _, m := range page.Data {
		if m.ID == string(c.model) {
			return nil
		}
	}
	return fmt.Errorf("model not listed by server: %w", getErr)
}

func (c *LocalClient) Complete(ctx context.Context, prompt string, temperature float64) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return "", fmt.Errorf("%w: %v", ErrBackendInit, errLocalClosed)
	}
	if err := c.Init(ctx); err != nil {
		return "", err
	}
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return chatCompletion(reqCtx, c.client, c.model, prompt, temperature)
}

// Close releases the backend. Calls after Close fail as init failures.
func (c *LocalClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.client = nil
	c.httpClient.CloseIdleConnections()
	return nil
}
