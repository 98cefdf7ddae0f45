package api

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"roomkit/pkg/errors"
	"roomkit/pkg/logger"
)

// TokenSource supplies the bearer token attached to every request.
// The session store satisfies this.
type TokenSource interface {
	Token() string
}

type Client struct {
	baseURL string
	timeout time.Duration
	tokens  TokenSource
	log     *logger.Logger
}

func NewClient(baseURL string, timeout time.Duration, tokens TokenSource, log *logger.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		timeout: timeout,
		tokens:  tokens,
		log:     log,
	}
}

// WithTimeout returns a client that shares the base URL and token
// source but applies a different per-request timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	return &Client{
		baseURL: c.baseURL,
		timeout: timeout,
		tokens:  c.tokens,
		log:     c.log,
	}
}

func (c *Client) Get(path string, out interface{}) error {
	return c.do(fiber.MethodGet, path, nil, out)
}

func (c *Client) Post(path string, body, out interface{}) error {
	return c.do(fiber.MethodPost, path, body, out)
}

func (c *Client) Put(path string, body, out interface{}) error {
	return c.do(fiber.MethodPut, path, body, out)
}

func (c *Client) do(method, path string, body, out interface{}) error {
	agent := fiber.AcquireAgent()
	req := agent.Request()
	req.Header.SetMethod(method)
	req.SetRequestURI(c.baseURL + path)

	if c.tokens != nil {
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set(fiber.HeaderAuthorization, "Bearer "+tok)
		}
	}
	if body != nil {
		agent.JSON(body)
	}
	if c.timeout > 0 {
		agent.Timeout(c.timeout)
	}

	if err := agent.Parse(); err != nil {
		return errors.TransportUnavailable(err.Error())
	}

	code, respBody, errs := agent.Bytes()
	if len(errs) > 0 {
		return errors.TransportUnavailable(errs[0].Error())
	}

	// A 401 is logged but never retried here; token refresh is the
	// session store's call to make.
	if code == fiber.StatusUnauthorized {
		c.log.Error("unauthorized response: ", method, " ", path)
	}

	if code < fiber.StatusOK || code >= fiber.StatusMultipleChoices {
		return errors.RemoteRejected(ExtractErrorMessage(respBody), fmt.Sprintf("status %d", code))
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return errors.NewWithDetails(errors.CodeRemoteRejected, "malformed response body", err.Error())
		}
	}
	return nil
}

// errorFields is the precedence list of keys the backend has been
// observed to put its error message under.
var errorFields = []string{"error", "Error", "message", "Message", "detail"}

// ExtractErrorMessage pulls a human-readable message out of a non-2xx
// response body, trying each known field name in order.
func ExtractErrorMessage(body []byte) string {
	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err == nil {
		for _, field := range errorFields {
			if v, ok := payload[field]; ok {
				if s, ok := v.(string); ok && s != "" {
					return s
				}
			}
		}
	}
	return "request failed"
}
