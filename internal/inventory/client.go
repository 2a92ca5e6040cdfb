package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/sandeepkv93/product-inventory-admin/internal/domain"
)

// APIError is a non-2xx reply from the product API.
type APIError struct {
	Status  int
	Code    string
	Message string
	Errors  map[string][]string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("product api: status %d", e.Status)
	}
	return fmt.Sprintf("product api: status %d: %s", e.Status, e.Message)
}

func (e *APIError) IsValidation() bool { return e.Status == http.StatusUnprocessableEntity }

func (e *APIError) IsNotFound() bool { return e.Status == http.StatusNotFound }

// TransportError covers failures where no usable reply was received.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *TransportError) Unwrap() error { return e.Err }

type envelope struct {
	Message string              `json:"message"`
	Code    string              `json:"code"`
	Data    json.RawMessage     `json:"data"`
	Errors  map[string][]string `json:"errors"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a client for the API at baseURL. A nil httpClient gets
// an instrumented default without a request timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

func (c *Client) List(ctx context.Context) ([]domain.Product, error) {
	var out []domain.Product
	if _, err := c.do(ctx, "list products", http.MethodGet, "/api/products", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Product{}
	}
	return out, nil
}

func (c *Client) Get(ctx context.Context, id uint) (domain.Product, error) {
	var out domain.Product
	_, err := c.do(ctx, "get product", http.MethodGet, productPath(id), nil, &out)
	return out, err
}

// Create returns the stored product and the server's confirmation message.
func (c *Client) Create(ctx context.Context, d Draft) (domain.Product, string, error) {
	var out domain.Product
	msg, err := c.do(ctx, "create product", http.MethodPost, "/api/products", d.Payload(), &out)
	return out, msg, err
}

func (c *Client) Update(ctx context.Context, id uint, d Draft) (domain.Product, string, error) {
	var out domain.Product
	msg, err := c.do(ctx, "update product", http.MethodPut, productPath(id), d.Payload(), &out)
	return out, msg, err
}

func (c *Client) Delete(ctx context.Context, id uint) (string, error) {
	return c.do(ctx, "delete product", http.MethodDelete, productPath(id), nil, nil)
}

func productPath(id uint) string {
	return "/api/products/" + strconv.FormatUint(uint64(id), 10)
}

func (c *Client) do(ctx context.Context, op, method, path string, body any, out any) (string, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return "", &TransportError{Op: op, Err: err}
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return "", &TransportError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil && !errors.Is(err, io.EOF) {
		if resp.StatusCode >= 300 {
			return "", &APIError{Status: resp.StatusCode}
		}
		return "", &TransportError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &APIError{Status: resp.StatusCode, Code: env.Code, Message: env.Message, Errors: env.Errors}
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return "", &TransportError{Op: op, Err: fmt.Errorf("decode data: %w", err)}
		}
	}
	return env.Message, nil
}
