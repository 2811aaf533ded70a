// Package viacep resolves Brazilian postal codes (CEP) through the ViaCEP API.
package viacep

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://viacep.com.br/ws"

// ErrNotFound is returned when ViaCEP answers but has no address for the CEP.
var ErrNotFound = errors.New("viacep: cep not found")

// StatusError reports a non-200 answer from ViaCEP.
type StatusError struct {
	StatusCode int
	CEP        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("viacep: returned status %d for cep %s", e.StatusCode, e.CEP)
}

// Client looks up canonical addresses by postal code.
type Client interface {
	// Lookup returns the canonical address for an 8-digit CEP. It returns
	// ErrNotFound when the service flags the CEP as unknown and a non-nil
	// error for transport failures or non-200 responses.
	Lookup(ctx context.Context, cep string) (*Address, error)
}

// Address is the canonical address returned by ViaCEP. Missing fields are
// left empty.
type Address struct {
	CEP          string `json:"cep"`
	Street       string `json:"logradouro"`
	Complement   string `json:"complemento"`
	Neighborhood string `json:"bairro"`
	City         string `json:"localidade"`
	State        string `json:"uf"`
	IBGE         string `json:"ibge"`
}

// response mirrors the ViaCEP payload. The "erro" flag has been served both
// as a JSON boolean and as the string "true".
type response struct {
	Address
	Erro json.RawMessage `json:"erro"`
}

func (r response) notFound() bool {
	v := strings.Trim(strings.TrimSpace(string(r.Erro)), `"`)
	return strings.EqualFold(v, "true")
}

// Option configures the client.
type Option func(*client)

// WithBaseURL overrides the ViaCEP base URL (no trailing slash).
func WithBaseURL(u string) Option {
	return func(c *client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		c.httpClient = hc
	}
}

// WithTimeout bounds each lookup. An expired lookup is reported as an error.
func WithTimeout(d time.Duration) Option {
	return func(c *client) {
		c.timeout = d
	}
}

// WithRateLimit sets the requests-per-second rate limit. Zero disables it.
func WithRateLimit(rps float64) Option {
	return func(c *client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

type client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	limiter    *rate.Limiter
}

// NewClient creates a ViaCEP client with the given options.
func NewClient(opts ...Option) Client {
	c := &client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{},
		timeout:    10 * time.Second,
		limiter:    rate.NewLimiter(5, 5),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Lookup fetches https://viacep.com.br/ws/{cep}/json/.
// The timeout covers the request only, not time queued on the limiter.
func (c *client) Lookup(ctx context.Context, cep string) (*Address, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "viacep: rate limit")
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	reqURL := fmt.Sprintf("%s/%s/json/", c.baseURL, cep)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "viacep: build request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "viacep: request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, CEP: cep}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "viacep: read body")
	}

	var r response
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, eris.Wrap(err, "viacep: parse response")
	}
	if r.notFound() {
		return nil, ErrNotFound
	}

	addr := r.Address
	return &addr, nil
}
