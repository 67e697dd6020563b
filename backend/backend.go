package backend

import (
	"errors"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Client talks to the crypto tracker REST API. It is the only place
// that knows about URLs, JSON shapes and the bearer token; everything
// above it works with model types.
type Client struct {
	baseURL string
	hc      *http.Client

	mu    sync.RWMutex
	token string

	lg zerolog.Logger
}

type Option func(*Client) error

// Functional Option Pattern
func NewClient(baseURL string, options ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("backend base url missing")
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      http.DefaultClient,
		lg:      zerolog.New(os.Stdout).With().Str("Module", "Backend").Timestamp().Logger(),
	}
	for _, opt := range options {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		if hc == nil {
			return errors.New("nil http client")
		}
		c.hc = hc
		return nil
	}
}

func WithToken(token string) Option {
	return func(c *Client) error {
		c.token = token
		return nil
	}
}

// SetToken installs the bearer token used on /me/* calls.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) ClearToken() {
	c.SetToken("")
}

func (c *Client) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}
